package server

import (
	"encoding/json"
	"testing"
)

// fakeSession 记录出站消息的假连接，替代线上 *ClientConn
type fakeSession struct {
	msgs   [][]byte
	closed bool
}

func (f *fakeSession) Enqueue(b []byte) {
	cp := make([]byte, len(b))
	copy(cp, b)
	f.msgs = append(f.msgs, cp)
}

func (f *fakeSession) Close() { f.closed = true }

type wireMessage struct {
	Type    string        `json:"type"`
	Players []ShrimpState `json:"players"`
	Foods   []FoodState   `json:"foods"`
	Count   int           `json:"count"`
}

func decodeMsg(t *testing.T, b []byte) wireMessage {
	t.Helper()
	var m wireMessage
	if err := json.Unmarshal(b, &m); err != nil {
		t.Fatalf("bad wire message %s: %v", b, err)
	}
	return m
}

// 测试不启动 Ticker，直接在测试协程上驱动命令处理——
// 与线上一致：同一时刻只有一个逻辑线程碰世界
func newTestRoom(cfg Config) *Room {
	return NewRoom("test-room", cfg)
}

func TestJoinSendsPrivateSnapshotAndCount(t *testing.T) {
	cfg := testConfig()
	cfg.FoodFloorCount = 3
	r := newTestRoom(cfg)
	fs := &fakeSession{}

	r.RequestJoin("s1", fs)
	r.ProcessCommands()

	if len(fs.msgs) != 2 {
		t.Fatalf("expected snapshot + count, got %d messages", len(fs.msgs))
	}
	snap := decodeMsg(t, fs.msgs[0])
	if snap.Type != "state" {
		t.Fatalf("first message type = %q, want state", snap.Type)
	}
	if len(snap.Players) != 1 || snap.Players[0].ID != "s1" {
		t.Fatalf("join snapshot players = %+v, want exactly s1", snap.Players)
	}
	p := snap.Players[0]
	if p.X < 0 || p.X > cfg.MapWidth || p.Y < 0 || p.Y > cfg.MapHeight {
		t.Fatalf("join snapshot position out of bounds: (%f, %f)", p.X, p.Y)
	}
	if p.Size != cfg.InitialShrimpSize || p.Score != 0 {
		t.Fatalf("join snapshot initial state wrong: size=%f score=%d", p.Size, p.Score)
	}
	if len(snap.Foods) != 3 {
		t.Fatalf("join snapshot foods = %d, want 3", len(snap.Foods))
	}
	count := decodeMsg(t, fs.msgs[1])
	if count.Type != "count" || count.Count != 1 {
		t.Fatalf("second message = %+v, want count 1", count)
	}
}

func TestLeaveBroadcastsCountAndIsIdempotent(t *testing.T) {
	r := newTestRoom(testConfig())
	s1, s2 := &fakeSession{}, &fakeSession{}
	r.RequestJoin("s1", s1)
	r.RequestJoin("s2", s2)
	r.ProcessCommands()
	s2.msgs = nil

	r.RequestLeave("s1")
	r.ProcessCommands()

	if !s1.closed {
		t.Fatalf("leaving session must be closed")
	}
	if len(s2.msgs) != 1 {
		t.Fatalf("expected one count broadcast, got %d messages", len(s2.msgs))
	}
	if m := decodeMsg(t, s2.msgs[0]); m.Type != "count" || m.Count != 1 {
		t.Fatalf("count message = %+v, want count 1", m)
	}

	// 重复离开是无害竞态：不再有任何广播
	r.RequestLeave("s1")
	r.ProcessCommands()
	if len(s2.msgs) != 1 {
		t.Fatalf("duplicate leave must be a no-op, got %d messages", len(s2.msgs))
	}
}

func TestInputMovesPlayerWithClamp(t *testing.T) {
	cfg := testConfig()
	r := newTestRoom(cfg)
	fs := &fakeSession{}
	r.RequestJoin("s1", fs)
	r.ProcessCommands()

	r.OnInput(Input{PlayerID: "s1", X: -500, Y: cfg.MapHeight + 500})
	r.ProcessCommands()

	snap := r.world.Snapshot()
	if snap.Players[0].X != 0 || snap.Players[0].Y != cfg.MapHeight {
		t.Fatalf("clamped position = (%f, %f), want (0, %f)",
			snap.Players[0].X, snap.Players[0].Y, cfg.MapHeight)
	}
	if got := r.metrics.Snapshot()["inputs_applied"].(int64); got != 1 {
		t.Fatalf("inputs_applied = %d, want 1", got)
	}
}

func TestOrphanInputIsSilentlyDropped(t *testing.T) {
	r := newTestRoom(testConfig())

	// 会话从未加入（或刚断线）：输入丢弃，不 panic 不报错
	r.OnInput(Input{PlayerID: "ghost", X: 10, Y: 10})
	r.ProcessCommands()

	if got := r.metrics.Snapshot()["inputs_orphaned"].(int64); got != 1 {
		t.Fatalf("inputs_orphaned = %d, want 1", got)
	}
}

func TestBroadcastSendsSameSnapshotToAllSessions(t *testing.T) {
	cfg := testConfig()
	cfg.FoodFloorCount = 4
	r := newTestRoom(cfg)
	s1, s2 := &fakeSession{}, &fakeSession{}
	r.RequestJoin("s1", s1)
	r.RequestJoin("s2", s2)
	r.ProcessCommands()
	s1.msgs, s2.msgs = nil, nil

	r.Broadcast()

	if len(s1.msgs) != 1 || len(s2.msgs) != 1 {
		t.Fatalf("each session gets exactly one message, got %d/%d", len(s1.msgs), len(s2.msgs))
	}
	if string(s1.msgs[0]) != string(s2.msgs[0]) {
		t.Fatalf("all sessions must receive the identical world view")
	}
	m := decodeMsg(t, s1.msgs[0])
	if m.Type != "state" || len(m.Players) != 2 || len(m.Foods) != 4 {
		t.Fatalf("broadcast = %+v, want state with 2 players and 4 foods", m)
	}
}

func TestSimTickResolvesAndCounts(t *testing.T) {
	cfg := testConfig()
	cfg.GrowthPerShrimp = 5
	r := newTestRoom(cfg)
	s1, s2 := &fakeSession{}, &fakeSession{}
	r.RequestJoin("big", s1)
	r.RequestJoin("small", s2)
	r.ProcessCommands()
	big := r.world.players["big"]
	big.X, big.Y, big.Size = 200, 200, 30
	small := r.world.players["small"]
	small.X, small.Y, small.Size = 205, 200, 10

	r.SimTick()

	if r.world.PlayerCount() != 1 {
		t.Fatalf("small player must be consumed, count=%d", r.world.PlayerCount())
	}
	if got := r.metrics.Snapshot()["shrimps_eaten"].(int64); got != 1 {
		t.Fatalf("shrimps_eaten = %d, want 1", got)
	}
	// 被吃掉只移除世界实体；会话要等到断线通知才清理
	if s2.closed {
		t.Fatalf("eaten player's session must stay open until it disconnects")
	}
}
