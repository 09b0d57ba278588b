package server

import (
	"math/rand"
	"time"
)

// World 世界状态的唯一持有者：玩家与食物都由它独占管理
// 不做任何内部加锁：调用方（Room 的 Tick 协程）保证同一时刻只有一个逻辑线程访问
type World struct {
	cfg Config

	players map[PlayerID]*Shrimp
	order   []PlayerID // 玩家插入顺序，保证碰撞配对遍历稳定可复现
	foods   []*Food

	rng *rand.Rand
}

// NewWorld 创建空世界并铺满初始食物
func NewWorld(cfg Config) *World {
	w := &World{
		cfg:     cfg,
		players: make(map[PlayerID]*Shrimp),
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	w.SpawnFoods(cfg.FoodFloorCount)
	return w
}

// SpawnPlayer 在随机内缩位置创建玩家
// 同一会话重复加入时先销毁旧实体再建新实体，吸收重复 join 异常
func (w *World) SpawnPlayer(id PlayerID) *Shrimp {
	if _, ok := w.players[id]; ok {
		w.RemovePlayer(id)
	}
	x, y := w.randomInsetPos()
	p := &Shrimp{ID: id, X: x, Y: y, Size: w.cfg.InitialShrimpSize, Score: 0}
	w.players[id] = p
	w.order = append(w.order, id)
	return p
}

// RemovePlayer 移除玩家，返回是否真的发生了移除；重复移除是正常竞态，不是错误
func (w *World) RemovePlayer(id PlayerID) bool {
	if _, ok := w.players[id]; !ok {
		return false
	}
	delete(w.players, id)
	for i, pid := range w.order {
		if pid == id {
			w.order = append(w.order[:i], w.order[i+1:]...)
			break
		}
	}
	return true
}

// SetPlayerTarget 将坐标裁剪进地图后直接写入玩家位置（指针跟随语义）
// 玩家不存在返回 nil：输入晚于断线到达属于正常竞态，调用方静默丢弃即可
func (w *World) SetPlayerTarget(id PlayerID, x, y float64) *Shrimp {
	p, ok := w.players[id]
	if !ok {
		return nil
	}
	p.X = clamp(x, 0, w.cfg.MapWidth)
	p.Y = clamp(y, 0, w.cfg.MapHeight)
	return p
}

// SpawnFoods 追加 count 个食物，位置随机内缩、体型在配置区间内独立随机
func (w *World) SpawnFoods(count int) {
	for i := 0; i < count; i++ {
		x, y := w.randomInsetPos()
		size := w.cfg.FoodSizeMin + w.rng.Float64()*(w.cfg.FoodSizeMax-w.cfg.FoodSizeMin)
		w.foods = append(w.foods, &Food{X: x, Y: y, Size: size})
	}
}

// PlayerCount 当前存活玩家数
func (w *World) PlayerCount() int {
	return len(w.players)
}

// FoodCount 当前存活食物数
func (w *World) FoodCount() int {
	return len(w.foods)
}

// Snapshot 生成当前世界的深拷贝视图，之后的世界变更不会透过旧快照被观察到
func (w *World) Snapshot() WorldSnapshot {
	snap := WorldSnapshot{
		Players: make([]ShrimpState, 0, len(w.players)),
		Foods:   make([]FoodState, 0, len(w.foods)),
	}
	for _, id := range w.order {
		p := w.players[id]
		snap.Players = append(snap.Players, ShrimpState{
			ID: string(p.ID), X: p.X, Y: p.Y, Size: p.Size, Score: p.Score,
		})
	}
	for _, f := range w.foods {
		snap.Foods = append(snap.Foods, FoodState{X: f.X, Y: f.Y, Size: f.Size})
	}
	return snap
}

// randomInsetPos 在 [inset, 边长-inset] 范围内取均匀随机点，防止实体出生即被边界裁剪
func (w *World) randomInsetPos() (float64, float64) {
	inset := w.cfg.EdgeInset
	x := inset + w.rng.Float64()*(w.cfg.MapWidth-2*inset)
	y := inset + w.rng.Float64()*(w.cfg.MapHeight-2*inset)
	return x, y
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
