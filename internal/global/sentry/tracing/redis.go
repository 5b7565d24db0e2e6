package tracing

import (
	"context"
	"errors"
	"net"
	"strings"
	"time"

	"capstone-guard/config"

	"github.com/redis/go-redis/v9"
)

// RedisHook 为 Redis 命令和 pipeline 创建 span
type RedisHook struct {
	slow time.Duration
}

func NewRedisHook() *RedisHook {
	ms := config.Get().Sentry.Tracing.RedisSlowThresholdMs
	return &RedisHook{slow: time.Duration(ms) * time.Millisecond}
}

func (h *RedisHook) DialHook(next redis.DialHook) redis.DialHook {
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		return next(ctx, network, addr)
	}
}

func (h *RedisHook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		start := time.Now()
		span := child(ctx, "db.redis", strings.ToUpper(cmd.Name()))
		if span != nil {
			span.SetData("db.system", "redis")
			ctx = span.Context()
		}
		err := next(ctx, cmd)
		spanErr := err
		if errors.Is(err, redis.Nil) {
			spanErr = nil
		}
		finish(span, time.Since(start), h.slow, spanErr)
		return err
	}
}

func (h *RedisHook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		start := time.Now()
		span := child(ctx, "db.redis.pipeline", pipelineName(cmds))
		if span != nil {
			span.SetData("db.system", "redis")
			span.SetData("redis.pipeline_length", len(cmds))
			ctx = span.Context()
		}
		err := next(ctx, cmds)
		finish(span, time.Since(start), h.slow, err)
		return err
	}
}

func pipelineName(cmds []redis.Cmder) string {
	const show = 3
	names := make([]string, 0, show)
	for i, cmd := range cmds {
		if i == show {
			names = append(names, "...")
			break
		}
		names = append(names, strings.ToUpper(cmd.Name()))
	}
	return "PIPELINE " + strings.Join(names, " ")
}
