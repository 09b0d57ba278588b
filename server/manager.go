package server

import "sync"

// RoomManager 管理多个房间的生命周期；房间之间互不共享世界状态
type RoomManager struct {
	mu    sync.RWMutex
	cfg   Config
	rooms map[string]*Room
}

var (
	defaultManager *RoomManager
	once           sync.Once
)

// InitRoomManager 用启动期配置初始化单例管理器（main 调用一次）
func InitRoomManager(cfg Config) *RoomManager {
	once.Do(func() {
		defaultManager = &RoomManager{cfg: cfg, rooms: make(map[string]*Room)}
	})
	return defaultManager
}

// GetRoomManager 单例房间管理器；未显式初始化时退回缺省配置
func GetRoomManager() *RoomManager {
	return InitRoomManager(DefaultConfig())
}

// GetOrCreateRoom 获取或创建房间，并确保开始 Tick
func (m *RoomManager) GetOrCreateRoom(id string) *Room {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rooms[id]
	if !ok {
		r = NewRoom(id, m.cfg)
		m.rooms[id] = r
		r.StartTicker()
	}
	return r
}
