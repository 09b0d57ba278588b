package server

import (
	"sync/atomic"
)

// RoomMetrics 记录房间运行期的关键指标（用于监控与调试）
// 由 Tick 协程写入、HTTP 协程读取，故用原子量而非锁
type RoomMetrics struct {
	TickCount         int64 // 统计的模拟 Tick 次数
	BroadcastCount    int64 // 已发出的世界快照广播次数
	InputsApplied     int64 // 落到玩家位置的输入数
	InputsOrphaned    int64 // 玩家已不在世（断线竞态）而被静默丢弃的输入数
	ChanFullDiscarded int64 // 因通道满被丢弃的输入数
	FoodsEaten        int64 // 被吃掉的食物总数
	ShrimpsEaten      int64 // 被吃掉的玩家总数
	TotalTickNs       int64 // Tick 累计耗时（纳秒）
}

func (m *RoomMetrics) IncApplied()           { atomic.AddInt64(&m.InputsApplied, 1) }
func (m *RoomMetrics) IncOrphaned()          { atomic.AddInt64(&m.InputsOrphaned, 1) }
func (m *RoomMetrics) IncChanFullDiscarded() { atomic.AddInt64(&m.ChanFullDiscarded, 1) }
func (m *RoomMetrics) IncBroadcast()         { atomic.AddInt64(&m.BroadcastCount, 1) }
func (m *RoomMetrics) AddEaten(foods, shrimps int) {
	atomic.AddInt64(&m.FoodsEaten, int64(foods))
	atomic.AddInt64(&m.ShrimpsEaten, int64(shrimps))
}
func (m *RoomMetrics) AddTick(ns int64) {
	atomic.AddInt64(&m.TickCount, 1)
	atomic.AddInt64(&m.TotalTickNs, ns)
}

// Snapshot 返回只读副本，便于 HTTP 输出
func (m *RoomMetrics) Snapshot() map[string]any {
	tick := atomic.LoadInt64(&m.TickCount)
	total := atomic.LoadInt64(&m.TotalTickNs)
	var avgMs float64
	if tick > 0 {
		avgMs = float64(total) / float64(tick) / 1e6
	}
	return map[string]any{
		"tick_count":          tick,
		"broadcast_count":     atomic.LoadInt64(&m.BroadcastCount),
		"inputs_applied":      atomic.LoadInt64(&m.InputsApplied),
		"inputs_orphaned":     atomic.LoadInt64(&m.InputsOrphaned),
		"chan_full_discarded": atomic.LoadInt64(&m.ChanFullDiscarded),
		"foods_eaten":         atomic.LoadInt64(&m.FoodsEaten),
		"shrimps_eaten":       atomic.LoadInt64(&m.ShrimpsEaten),
		"avg_tick_ms":         avgMs,
	}
}
