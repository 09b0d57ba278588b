package server

// Input 客户端输入（指针位置意图），由服务端在 Tick 线程中落到世界状态
type Input struct {
	PlayerID PlayerID
	X        float64
	Y        float64
}

// 入站输入的简单 JSON 结构（WebSocket 文本消息）
// 示例：{"type":"move","x":320,"y":180}
type InputMessage struct {
	Type string  `json:"type"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

// joinRequest 加入请求：在 Tick 线程中落位，避免跨协程改动房间状态
type joinRequest struct {
	PlayerID PlayerID
	Session  Session
}
