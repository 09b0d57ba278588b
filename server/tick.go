package server

import "time"

// StartTicker 启动房间的 Tick 循环（单协程推进世界）
// 模拟与广播各有自己的固定频率定时器，但都在同一个协程的 select 中触发，
// 世界状态始终只有一个逻辑线程在碰——这就是房间的全部并发纪律
// 某次 Tick 超时只会让下一次尽快补上，不做追帧、不跳帧，允许有界漂移
func (r *Room) StartTicker() {
	if r.tickerStarted {
		return
	}
	r.tickerStarted = true
	go func() {
		simTicker := time.NewTicker(time.Second / time.Duration(r.cfg.SimTickRate))
		defer simTicker.Stop()
		// 广播频率低于模拟频率，用于限制出站带宽
		castTicker := time.NewTicker(time.Second / time.Duration(r.cfg.BroadcastRate))
		defer castTicker.Stop()
		for {
			select {
			case <-simTicker.C:
				// 核心循环：消化命令 → 碰撞与补食结算
				start := time.Now()
				r.SimTick()
				r.metrics.AddTick(time.Since(start).Nanoseconds())
			case <-castTicker.C:
				r.Broadcast()
			}
		}
	}()
}
