package sentry

import (
	"fmt"
	"time"

	"capstone-guard/config"

	"github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
)

const release = "capstone-guard@1.0.0"

// CodedError 带错误码的错误，只有 5xx 会被上报
type CodedError interface {
	error
	GetCode() int32
}

func enabled() bool {
	return config.Get().Sentry.Dsn != ""
}

// Init 未配置 DSN 时不做任何事
func Init() error {
	cfg := config.Get()
	if cfg.Sentry.Dsn == "" {
		return nil
	}

	rate := cfg.Sentry.SampleRate
	if rate <= 0 {
		rate = 1.0
	}
	env := cfg.Sentry.Environment
	if env == "" {
		env = string(cfg.Mode)
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:              cfg.Sentry.Dsn,
		Environment:      env,
		Release:          release,
		SampleRate:       1.0,
		EnableTracing:    true,
		TracesSampleRate: rate,
		EnableLogs:       true,
		BeforeSend: func(event *sentry.Event, _ *sentry.EventHint) *sentry.Event {
			// 不上报认证头
			if event.Request != nil {
				delete(event.Request.Headers, "Authorization")
			}
			return event
		},
	})
	if err != nil {
		return fmt.Errorf("sentry 初始化失败: %w", err)
	}
	return nil
}

// Middleware 未启用时返回空中间件
func Middleware() gin.HandlerFunc {
	if !enabled() {
		return func(c *gin.Context) { c.Next() }
	}
	return sentrygin.New(sentrygin.Options{
		Repanic:         true,
		WaitForDelivery: false,
		Timeout:         2 * time.Second,
	})
}

// EnrichUser 在认证通过后把用户信息写入当前 hub 的 scope
func EnrichUser(c *gin.Context, id uint, email, role string) {
	if !enabled() {
		return
	}
	if hub := sentrygin.GetHubFromContext(c); hub != nil {
		hub.Scope().SetUser(sentry.User{
			ID:        fmt.Sprint(id),
			Email:     email,
			IPAddress: c.ClientIP(),
			Data:      map[string]string{"role": role},
		})
	}
}

// CaptureException 仅上报服务器错误，业务错误只记录在响应中
func CaptureException(c *gin.Context, err error) {
	if !enabled() || !shouldReport(err) {
		return
	}
	hub := sentrygin.GetHubFromContext(c)
	if hub == nil {
		return
	}
	hub.WithScope(func(scope *sentry.Scope) {
		scope.SetRequest(c.Request)
		scope.SetTag("path", c.FullPath())
		scope.SetTag("method", c.Request.Method)
		hub.CaptureException(err)
	})
}

func shouldReport(err error) bool {
	if e, ok := err.(CodedError); ok {
		return e.GetCode() >= 500 && e.GetCode() < 600
	}
	return true
}

// Flush 退出前调用，等待事件发送完成
func Flush(timeout time.Duration) {
	if enabled() {
		sentry.Flush(timeout)
	}
}
