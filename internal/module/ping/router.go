package ping

import (
	"context"
	"time"

	"capstone-guard/internal/global/database"
	"capstone-guard/internal/global/redis"
	"capstone-guard/internal/global/response"

	"github.com/gin-gonic/gin"
)

const version = "1.0.0"

type Resp struct {
	Message string            `json:"message"`
	Version string            `json:"version"`
	Checks  map[string]string `json:"checks"`
}

// checks 探测数据库和 Redis，未初始化的依赖标记为 disabled
func checks(ctx context.Context) map[string]string {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	out := map[string]string{"mysql": "disabled", "redis": "disabled"}
	if database.DB != nil {
		out["mysql"] = "ok"
		if sqlDB, err := database.DB.DB(); err != nil {
			out["mysql"] = err.Error()
		} else if err := sqlDB.PingContext(ctx); err != nil {
			out["mysql"] = err.Error()
		}
	}
	if redis.Client != nil {
		out["redis"] = "ok"
		if err := redis.Client.Ping(ctx).Err(); err != nil {
			out["redis"] = err.Error()
		}
	}
	for name, status := range out {
		if status != "ok" && status != "disabled" {
			log.Warn("依赖检查失败", "dependency", name, "error", status)
		}
	}
	return out
}

func (p *ModulePing) InitRouter(r *gin.RouterGroup) {
	r.GET("/ping", func(c *gin.Context) {
		response.Success(c, Resp{
			Message: "pong",
			Version: version,
			Checks:  checks(c.Request.Context()),
		})
	})
}
