package server

// PlayerID 表示玩家唯一标识（即连接会话 ID，连接期间不复用）
type PlayerID string

// Shrimp 房间内的玩家实体（服务端权威状态）
// Size 只增不减（上限见配置 MaxShrimpSize），Score 独立累加、不受体型上限约束
type Shrimp struct {
	ID    PlayerID
	X     float64
	Y     float64
	Size  float64
	Score int
}

// Food 静态可消耗实体：出生时随机定型，被任意玩家吃掉后销毁
type Food struct {
	X    float64
	Y    float64
	Size float64
}

// ShrimpState 广播给客户端的玩家线格式
type ShrimpState struct {
	ID    string  `json:"id"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Size  float64 `json:"size"`
	Score int     `json:"score"`
}

// FoodState 广播给客户端的食物线格式
type FoodState struct {
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Size float64 `json:"size"`
}

// WorldSnapshot 某一时刻的完整世界视图（不可变副本）
// 两个序列的顺序均为底层存储的插入顺序，不携带任何语义，客户端不得依赖
type WorldSnapshot struct {
	Players []ShrimpState `json:"players"`
	Foods   []FoodState   `json:"foods"`
}
