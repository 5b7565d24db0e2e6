package logger

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"capstone-guard/config"

	sentryslog "github.com/getsentry/sentry-go/slog"
	"gopkg.in/natefinch/lumberjack.v2"
)

const appName = "capstone-guard"

var (
	root *slog.Logger
	once sync.Once
)

// fanout 将同一条日志分发给多个 handler
type fanout []slog.Handler

func (f fanout) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range f {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (f fanout) Handle(ctx context.Context, r slog.Record) error {
	var errs []error
	for _, h := range f {
		if !h.Enabled(ctx, r.Level) {
			continue
		}
		if err := h.Handle(ctx, r.Clone()); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (f fanout) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := make(fanout, len(f))
	for i, h := range f {
		next[i] = h.WithAttrs(attrs)
	}
	return next
}

func (f fanout) WithGroup(name string) slog.Handler {
	next := make(fanout, len(f))
	for i, h := range f {
		next[i] = h.WithGroup(name)
	}
	return next
}

// build 根据配置构造 handler，release 模式写入轮转文件，配置了 DSN 时同时上报 Sentry
func build(cfg *config.Config, stdout io.Writer) slog.Handler {
	release := cfg.Mode == config.ModeRelease
	opts := &slog.HandlerOptions{
		AddSource: release,
		Level:     ParseLevel(cfg.Log.Level),
	}

	var base slog.Handler
	if release && cfg.Log.FilePath != "" {
		base = slog.NewJSONHandler(&lumberjack.Logger{
			Filename:   cfg.Log.FilePath,
			MaxSize:    cfg.Log.MaxSize,
			MaxBackups: cfg.Log.MaxBackups,
			MaxAge:     cfg.Log.MaxAge,
			Compress:   cfg.Log.Compress,
		}, opts)
	} else {
		base = slog.NewTextHandler(stdout, opts)
	}

	if cfg.Sentry.Dsn == "" {
		return base
	}
	return fanout{base, sentryslog.Option{
		EventLevel: []slog.Level{slog.LevelError},
		LogLevel:   []slog.Level{slog.LevelWarn, slog.LevelError},
		AddSource:  release,
	}.NewSentryHandler(context.Background())}
}

// Get 返回全局 Logger，首次调用时按当前配置初始化
func Get() *slog.Logger {
	once.Do(func() {
		cfg := config.Get()
		root = slog.New(build(cfg, os.Stdout)).With("app", appName, "env", string(cfg.Mode))
	})
	return root
}

// New 返回带 module 字段的 Logger
func New(module string) *slog.Logger {
	return Get().With("module", module)
}

type requestInfo interface {
	ClientIP() string
	GetHeader(string) string
}

// WithRequest 附带请求来源信息，便于在 Sentry 中定位用户
func WithRequest(l *slog.Logger, c requestInfo) *slog.Logger {
	l = l.With("client_ip", c.ClientIP())
	if v := c.GetHeader("X-Forwarded-For"); v != "" {
		l = l.With("x_forwarded_for", v)
	}
	if v := c.GetHeader("X-Real-IP"); v != "" {
		l = l.With("x_real_ip", v)
	}
	return l
}

func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
