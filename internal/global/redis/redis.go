package redis

import (
	"context"
	"time"

	"capstone-guard/config"
	"capstone-guard/internal/global/logger"
	"capstone-guard/internal/global/sentry/tracing"

	"github.com/redis/go-redis/v9"
)

// Client 未配置 Host 时为 nil，调用方需要判断
var Client *redis.Client

func Init() {
	cfg := config.Get().Redis
	if cfg.Host == "" {
		logger.New("Redis").Warn("未配置 Redis，embedding 缓存已关闭")
		return
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Host + ":" + cfg.Port,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if tracing.Enabled() {
		client.AddHook(tracing.NewRedisHook())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		panic(err)
	}
	Client = client
}
