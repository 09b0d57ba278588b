package server

import "math"

// ResolveStats 单次 Tick 的消耗统计，供指标与日志使用
type ResolveStats struct {
	FoodsEaten   int
	ShrimpsEaten int
	Eaten        []PlayerID // 本 Tick 被吃掉的玩家
}

// Resolve 每个模拟 Tick 调用一次，按固定顺序执行三个阶段：
//
//	A：玩家吃食物；B：玩家吃玩家；C：食物数量补齐到下限
//
// 纯内存计算，不做 I/O，不产生用户可见错误（输入已由 World 校验为合法状态）
// 碰撞检测为暴力 O(n^2) 两两扫描，在几十个实体的规模下足够；
// 更大规模应在此接口后替换空间索引（网格/四叉树），不改变语义
func Resolve(w *World) ResolveStats {
	var stats ResolveStats
	resolveFood(w, &stats)
	resolveShrimps(w, &stats)
	// 阶段 C：吃剩的缺口一次性补齐
	if missing := w.cfg.FoodFloorCount - w.FoodCount(); missing > 0 {
		w.SpawnFoods(missing)
	}
	return stats
}

// resolveFood 阶段 A：逐玩家扫描全部食物
// 命中判定为中心距 < 玩家体型 + 食物体型（偏宽松、偏向玩家的非对称判定，
// 刻意不同于阶段 B 的半和阈值，两者口径不可统一，否则会悄悄改变游戏平衡）
func resolveFood(w *World, stats *ResolveStats) {
	for _, id := range w.order {
		p := w.players[id]
		// 倒序扫描：删除当前下标不影响未访问的更小下标，
		// 且即时补充的食物追加在尾部、不会被本轮重复判定
		for i := len(w.foods) - 1; i >= 0; i-- {
			f := w.foods[i]
			if math.Hypot(p.X-f.X, p.Y-f.Y) >= p.Size+f.Size {
				continue
			}
			p.Size = math.Min(w.cfg.MaxShrimpSize, p.Size+w.cfg.GrowthPerFood)
			p.Score += w.cfg.ScorePerFood
			w.foods = append(w.foods[:i], w.foods[i+1:]...)
			// 即时 1:1 补充，保持食物密度大致恒定，与 Tick 末尾的下限补齐无关
			w.SpawnFoods(1)
			stats.FoodsEaten++
		}
	}
}

// resolveShrimps 阶段 B：按加入顺序枚举全部无序玩家对
// 命中判定为中心距 < 体型和的一半（比食物判定更严：必须深度重叠），
// 严格大者吃严格小者，等体型对局跳过
// 已被吃掉的玩家立即退出本轮后续所有配对；胜者每 Tick 至多吃一个，
// 其余几何上重叠的小玩家留到下一 Tick——这是显式策略，约束单 Tick 体型变化上限
func resolveShrimps(w *World, stats *ResolveStats) {
	ids := make([]PlayerID, len(w.order))
	copy(ids, w.order)

	eaten := make(map[PlayerID]bool)
	fed := make(map[PlayerID]bool)

	for i := 0; i < len(ids); i++ {
		for j := i + 1; j < len(ids); j++ {
			if eaten[ids[i]] || eaten[ids[j]] {
				continue
			}
			a, b := w.players[ids[i]], w.players[ids[j]]
			if math.Hypot(a.X-b.X, a.Y-b.Y) >= (a.Size+b.Size)/2 {
				continue
			}
			if a.Size == b.Size {
				continue
			}
			winner, loser := a, b
			if b.Size > a.Size {
				winner, loser = b, a
			}
			if fed[winner.ID] {
				continue
			}
			winner.Size = math.Min(w.cfg.MaxShrimpSize, winner.Size+w.cfg.GrowthPerShrimp)
			winner.Score += w.cfg.ScorePerShrimp
			eaten[loser.ID] = true
			fed[winner.ID] = true
			w.RemovePlayer(loser.ID)
			stats.ShrimpsEaten++
			stats.Eaten = append(stats.Eaten, loser.ID)
		}
	}
}
