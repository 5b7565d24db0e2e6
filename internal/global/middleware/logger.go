package middleware

import (
	"bytes"
	"log/slog"
	"time"

	"capstone-guard/internal/global/logger"

	sentrylib "github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
)

// maxBodyLog 日志中响应体的最大字节数
const maxBodyLog = 4 << 10

type bodyRecorder struct {
	gin.ResponseWriter
	buf bytes.Buffer
}

func (w *bodyRecorder) Write(b []byte) (int, error) {
	if room := maxBodyLog - w.buf.Len(); room > 0 {
		w.buf.Write(b[:min(room, len(b))])
	}
	return w.ResponseWriter.Write(b)
}

// Logger release 模式下的请求日志，附带截断后的响应体
func Logger(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		rec := &bodyRecorder{ResponseWriter: c.Writer}
		c.Writer = rec

		c.Next()

		status := c.Writer.Status()
		level := slog.LevelInfo
		if status >= 500 {
			level = slog.LevelError
		} else if status >= 400 {
			level = slog.LevelWarn
		}
		body := rec.buf.String()
		if rec.buf.Len() >= maxBodyLog {
			body += "...(truncated)"
		}
		logger.WithRequest(log, c).Log(c.Request.Context(), level, "HTTP 请求",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"query", c.Request.URL.RawQuery,
			"status", status,
			"latency", time.Since(start).String(),
			"response_body", body,
		)
	}
}

// SentryEnrichIP 把客户端 IP 写入 Sentry scope，需放在 sentry 中间件之后
func SentryEnrichIP() gin.HandlerFunc {
	return func(c *gin.Context) {
		if hub := sentrygin.GetHubFromContext(c); hub != nil {
			hub.ConfigureScope(func(scope *sentrylib.Scope) {
				ip := c.ClientIP()
				scope.SetUser(sentrylib.User{IPAddress: ip})
				scope.SetTag("client_ip", ip)
			})
		}
		c.Next()
	}
}
