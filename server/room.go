package server

import (
	"encoding/json"
)

// Session 会话的发送端抽象：线上实现是 *ClientConn，测试里可替换为假连接
type Session interface {
	Enqueue(b []byte)
	Close()
}

// Room 房间世界：权威状态维护在内存，单线程 Tick 推进
// World 由 Room 独占，所有变更都只发生在 Tick 协程内（通过命令通道汇入），
// 因此世界状态不需要任何锁
type Room struct {
	ID string

	world    *World
	sessions map[PlayerID]Session // 会话注册表：连接 ID -> 发送端（世界实体归 World 管）

	joinChan  chan joinRequest
	leaveChan chan PlayerID
	inputChan chan Input

	cfg     Config
	metrics *RoomMetrics

	tickerStarted bool
}

// NewRoom 创建房间，初始化数据结构
func NewRoom(id string, cfg Config) *Room {
	return &Room{
		ID:        id,
		world:     NewWorld(cfg),
		sessions:  make(map[PlayerID]Session),
		joinChan:  make(chan joinRequest, 64),
		leaveChan: make(chan PlayerID, 64),
		inputChan: make(chan Input, 256), // 足够缓冲，避免网络读阻塞影响 Tick
		cfg:       cfg,
		metrics:   &RoomMetrics{},
	}
}

// RequestJoin 请求在 Tick 线程中落位新会话，避免跨协程改动房间状态
func (r *Room) RequestJoin(id PlayerID, s Session) {
	r.joinChan <- joinRequest{PlayerID: id, Session: s}
}

// RequestLeave 请求在 Tick 线程中移除会话
// 为保证移除一定生效，这里采用阻塞式写入（通道有容量，避免死锁）
func (r *Room) RequestLeave(pid PlayerID) {
	r.leaveChan <- pid
}

// OnInput 入站输入（指针位置），等 Tick 线程处理
func (r *Room) OnInput(in Input) {
	// 不阻塞：输入拥塞时丢弃（由通道容量控制），保证 Tick 准时
	select {
	case r.inputChan <- in:
	default:
		r.metrics.IncChanFullDiscarded()
	}
}

// ProcessCommands 处理积压的加入/离开/输入命令（非阻塞 drain，仅 Tick 协程调用）
func (r *Room) ProcessCommands() {
	for {
		select {
		case req := <-r.joinChan:
			r.handleJoin(req)
		case pid := <-r.leaveChan:
			r.handleLeave(pid)
		case in := <-r.inputChan:
			r.handleInput(in)
		default:
			return
		}
	}
}

// handleJoin 落位会话：建实体、给新会话单独发一次首帧快照、全员广播人数
func (r *Room) handleJoin(req joinRequest) {
	r.sessions[req.PlayerID] = req.Session
	r.world.SpawnPlayer(req.PlayerID)
	if b, err := encodeState(r.world.Snapshot()); err == nil {
		req.Session.Enqueue(b)
	}
	r.broadcastCount()
	Log.Infof("room=%s join player=%s players=%d", r.ID, req.PlayerID, r.world.PlayerCount())
}

// handleLeave 移除会话与其世界实体；重复离开是无害竞态
// 实体可能早已被吃掉，RemovePlayer 返回 false 也照常清理会话并广播人数
func (r *Room) handleLeave(pid PlayerID) {
	s, ok := r.sessions[pid]
	if !ok {
		return
	}
	s.Close()
	delete(r.sessions, pid)
	_ = r.world.RemovePlayer(pid)
	r.broadcastCount()
	Log.Infof("room=%s leave player=%s sessions=%d", r.ID, pid, len(r.sessions))
}

// handleInput 直接落位到玩家位置（指针跟随语义，见 World.SetPlayerTarget）
// 玩家不在世（被吃或刚断线）时静默丢弃，属正常竞态而非错误
func (r *Room) handleInput(in Input) {
	if r.world.SetPlayerTarget(in.PlayerID, in.X, in.Y) == nil {
		r.metrics.IncOrphaned()
		return
	}
	r.metrics.IncApplied()
}

// SimTick 推进一次模拟：先消化命令，再做碰撞与补食结算
func (r *Room) SimTick() {
	r.ProcessCommands()
	stats := Resolve(r.world)
	if stats.FoodsEaten > 0 || stats.ShrimpsEaten > 0 {
		r.metrics.AddEaten(stats.FoodsEaten, stats.ShrimpsEaten)
	}
	for _, pid := range stats.Eaten {
		Log.Infof("room=%s player eaten=%s players=%d", r.ID, pid, r.world.PlayerCount())
	}
}

// Broadcast 将当前世界快照广播给所有会话（文本 JSON）
// 所有会话收到同一份世界视图，客户端按自身会话 ID 在序列中认领 "self"
func (r *Room) Broadcast() {
	if len(r.sessions) == 0 {
		return
	}
	b, err := encodeState(r.world.Snapshot())
	if err != nil {
		return
	}
	for _, s := range r.sessions {
		s.Enqueue(b)
	}
	r.metrics.IncBroadcast()
}

// broadcastCount 每次加入/离开时通知全员在线会话数
// 用会话数而非存活实体数：被吃掉的玩家连接还在，观战到断线为止
func (r *Room) broadcastCount() {
	payload := struct {
		Type  string `json:"type"`
		Count int    `json:"count"`
	}{Type: "count", Count: len(r.sessions)}
	b, err := json.Marshal(payload)
	if err != nil {
		return
	}
	for _, s := range r.sessions {
		s.Enqueue(b)
	}
}

// encodeState 世界快照的出站编码
func encodeState(snap WorldSnapshot) ([]byte, error) {
	payload := struct {
		Type    string        `json:"type"`
		Players []ShrimpState `json:"players"`
		Foods   []FoodState   `json:"foods"`
	}{Type: "state", Players: snap.Players, Foods: snap.Foods}
	return json.Marshal(payload)
}
