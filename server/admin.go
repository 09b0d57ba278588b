package server

import (
	"encoding/json"
	"net/http"
)

// HandleAdminConfig 提供房间配置的只读视图
// GET /admin/config?room=room-1
// 配置启动后不可变，热更新会让世界规则在 Tick 中途变化，因此不提供写入口
func HandleAdminConfig(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "config is read-only after startup", http.StatusMethodNotAllowed)
		return
	}
	roomID := r.URL.Query().Get("room")
	if roomID == "" {
		roomID = "room-1"
	}
	rm := GetRoomManager()
	room := rm.GetOrCreateRoom(roomID)

	payload := map[string]any{
		"room": roomID,
		"config": map[string]any{
			"mapWidth":          room.cfg.MapWidth,
			"mapHeight":         room.cfg.MapHeight,
			"edgeInset":         room.cfg.EdgeInset,
			"simTickRate":       room.cfg.SimTickRate,
			"broadcastRate":     room.cfg.BroadcastRate,
			"initialShrimpSize": room.cfg.InitialShrimpSize,
			"maxShrimpSize":     room.cfg.MaxShrimpSize,
			"foodFloorCount":    room.cfg.FoodFloorCount,
			"foodSizeMin":       room.cfg.FoodSizeMin,
			"foodSizeMax":       room.cfg.FoodSizeMax,
			"growthPerFood":     room.cfg.GrowthPerFood,
			"growthPerShrimp":   room.cfg.GrowthPerShrimp,
			"scorePerFood":      room.cfg.ScorePerFood,
			"scorePerShrimp":    room.cfg.ScorePerShrimp,
		},
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(payload)
}

// HandleMetrics 输出指定房间的运行指标
// GET /metrics?room=room-1
func HandleMetrics(w http.ResponseWriter, r *http.Request) {
	roomID := r.URL.Query().Get("room")
	if roomID == "" {
		roomID = "room-1"
	}
	rm := GetRoomManager()
	room := rm.GetOrCreateRoom(roomID)
	payload := map[string]any{
		"room":    roomID,
		"metrics": room.metrics.Snapshot(),
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(payload)
}
