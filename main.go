package main

import (
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"shrimparena/server"
)

// ShrimpArena 入口：读取配置、启动 HTTP + WebSocket 服务、初始化房间管理器
func main() {
	var addr string
	flag.StringVar(&addr, "addr", ":8080", "server listen address, e.g. :8080")
	flag.Parse()
	// 使用第三方 zap 日志库写入 arena.log（带滚动）
	if err := server.InitLogger("arena.log"); err != nil {
		panic(err)
	}
	defer server.SyncLogger()

	// 配置只读一次：校验失败直接退出，不把坏配置带进 Tick
	cfg := server.LoadConfig()
	if err := cfg.Validate(); err != nil {
		server.Log.Fatalf("invalid config: %v", err)
	}

	rm := server.InitRoomManager(cfg)
	// 先预创建一个默认房间，便于快速试跑
	_ = rm.GetOrCreateRoom("room-1")

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", server.HandleWS)
	// 前后端分离：将 / 映射到 web 目录的静态资源
	mux.Handle("/", http.FileServer(http.Dir("web")))
	// 管理与监控接口
	mux.HandleFunc("/admin/config", server.HandleAdminConfig)
	mux.HandleFunc("/metrics", server.HandleMetrics)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})

	srv := &http.Server{Addr: addr, Handler: mux}

	go func() {
		server.Log.Infof("ShrimpArena listening on %s; map=%.0fx%.0f sim=%dtps cast=%dtps",
			addr, cfg.MapWidth, cfg.MapHeight, cfg.SimTickRate, cfg.BroadcastRate)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			server.Log.Fatalf("listen: %v", err)
		}
	}()

	// 优雅退出（Ctrl+C）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	server.Log.Info("Shutting down...")
}
