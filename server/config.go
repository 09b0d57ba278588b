package server

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config 进程级只读配置：启动时从环境读取一次，之后不再修改
type Config struct {
	MapWidth  float64 // 地图宽度
	MapHeight float64 // 地图高度
	EdgeInset float64 // 随机出生点距离边界的内缩距离，避免实体卡在边缘

	SimTickRate   int // 模拟频率（每秒 Tick 数）
	BroadcastRate int // 广播频率（每秒快照次数），应 <= SimTickRate 以限制出站带宽

	InitialShrimpSize float64 // 玩家初始体型
	MaxShrimpSize     float64 // 玩家体型上限（分数不受此限制）

	FoodFloorCount int     // 食物数量下限，每 Tick 末尾补齐
	FoodSizeMin    float64 // 食物体型随机范围下界
	FoodSizeMax    float64 // 食物体型随机范围上界

	GrowthPerFood   float64 // 吃掉一个食物的体型增量
	GrowthPerShrimp float64 // 吃掉一个玩家的体型增量
	ScorePerFood    int     // 吃掉一个食物的得分
	ScorePerShrimp  int     // 吃掉一个玩家的得分
}

// DefaultConfig 缺省值（与 web 端渲染参数对齐）
func DefaultConfig() Config {
	return Config{
		MapWidth:          800,
		MapHeight:         600,
		EdgeInset:         50,
		SimTickRate:       60,
		BroadcastRate:     30,
		InitialShrimpSize: 10,
		MaxShrimpSize:     80,
		FoodFloorCount:    40,
		FoodSizeMin:       3,
		FoodSizeMax:       7,
		GrowthPerFood:     1,
		GrowthPerShrimp:   5,
		ScorePerFood:      5,
		ScorePerShrimp:    50,
	}
}

// LoadConfig 读取环境变量（可选 .env 文件），未设置的键保留缺省值
func LoadConfig() Config {
	// .env 不存在不算错误：容器与裸机部署都可能只用真实环境变量
	_ = godotenv.Load()

	cfg := DefaultConfig()
	envFloat("ARENA_MAP_WIDTH", &cfg.MapWidth)
	envFloat("ARENA_MAP_HEIGHT", &cfg.MapHeight)
	envFloat("ARENA_EDGE_INSET", &cfg.EdgeInset)
	envInt("ARENA_SIM_TICK_RATE", &cfg.SimTickRate)
	envInt("ARENA_BROADCAST_RATE", &cfg.BroadcastRate)
	envFloat("ARENA_INITIAL_SIZE", &cfg.InitialShrimpSize)
	envFloat("ARENA_MAX_SIZE", &cfg.MaxShrimpSize)
	envInt("ARENA_FOOD_FLOOR", &cfg.FoodFloorCount)
	envFloat("ARENA_FOOD_SIZE_MIN", &cfg.FoodSizeMin)
	envFloat("ARENA_FOOD_SIZE_MAX", &cfg.FoodSizeMax)
	envFloat("ARENA_GROWTH_PER_FOOD", &cfg.GrowthPerFood)
	envFloat("ARENA_GROWTH_PER_SHRIMP", &cfg.GrowthPerShrimp)
	envInt("ARENA_SCORE_PER_FOOD", &cfg.ScorePerFood)
	envInt("ARENA_SCORE_PER_SHRIMP", &cfg.ScorePerShrimp)
	return cfg
}

// Validate 启动期校验：配置错误直接快速失败，不留到 Tick 阶段
func (c Config) Validate() error {
	if c.MapWidth <= 0 || c.MapHeight <= 0 {
		return fmt.Errorf("map dimensions must be positive, got %.1fx%.1f", c.MapWidth, c.MapHeight)
	}
	if c.EdgeInset < 0 || c.EdgeInset*2 >= c.MapWidth || c.EdgeInset*2 >= c.MapHeight {
		return fmt.Errorf("edge inset %.1f does not fit map %.1fx%.1f", c.EdgeInset, c.MapWidth, c.MapHeight)
	}
	if c.SimTickRate <= 0 {
		return fmt.Errorf("sim tick rate must be positive, got %d", c.SimTickRate)
	}
	if c.BroadcastRate <= 0 || c.BroadcastRate > c.SimTickRate {
		return fmt.Errorf("broadcast rate %d must be in [1, sim tick rate %d]", c.BroadcastRate, c.SimTickRate)
	}
	if c.InitialShrimpSize <= 0 || c.MaxShrimpSize < c.InitialShrimpSize {
		return fmt.Errorf("shrimp sizes invalid: initial=%.1f max=%.1f", c.InitialShrimpSize, c.MaxShrimpSize)
	}
	if c.FoodFloorCount < 0 {
		return fmt.Errorf("food floor count must be non-negative, got %d", c.FoodFloorCount)
	}
	if c.FoodSizeMin <= 0 || c.FoodSizeMax < c.FoodSizeMin {
		return fmt.Errorf("food size range invalid: [%.1f, %.1f]", c.FoodSizeMin, c.FoodSizeMax)
	}
	if c.GrowthPerFood < 0 || c.GrowthPerShrimp < 0 || c.ScorePerFood < 0 || c.ScorePerShrimp < 0 {
		return fmt.Errorf("growth/score constants must be non-negative")
	}
	return nil
}

func envFloat(key string, dst *float64) {
	if raw := os.Getenv(key); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			*dst = v
		}
	}
}

func envInt(key string, dst *int) {
	if raw := os.Getenv(key); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			*dst = v
		}
	}
}
