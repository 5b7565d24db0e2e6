// Package tracing 把数据库、Redis 和外部 HTTP 调用挂到当前请求的 Sentry transaction 下
package tracing

import (
	"context"
	"time"

	"capstone-guard/config"

	"github.com/getsentry/sentry-go"
)

// child 在 ctx 已有 span 时创建子 span，否则返回 nil
func child(ctx context.Context, op, desc string) *sentry.Span {
	if ctx == nil {
		return nil
	}
	parent := sentry.SpanFromContext(ctx)
	if parent == nil {
		return nil
	}
	span := parent.StartChild(op)
	span.Description = desc
	return span
}

// finish 结束 span；低于慢阈值的 span 不采样
func finish(span *sentry.Span, elapsed, slow time.Duration, err error) {
	if span == nil {
		return
	}
	if slow > 0 && elapsed < slow {
		span.Sampled = sentry.SampledFalse
	}
	if err != nil {
		span.Status = sentry.SpanStatusInternalError
		span.SetData("error", err.Error())
	} else {
		span.Status = sentry.SpanStatusOK
	}
	span.Finish()
}

// StartSpan 追踪一段业务逻辑，返回带 span 的 ctx 和结束函数；没有父 span 时结束函数为空操作
func StartSpan(ctx context.Context, op, desc string) (context.Context, func(error)) {
	span := child(ctx, op, desc)
	if span == nil {
		return ctx, func(error) {}
	}
	start := time.Now()
	return span.Context(), func(err error) { finish(span, time.Since(start), 0, err) }
}

// Enabled 配置了 DSN 时才注册各类追踪
func Enabled() bool {
	return config.Get().Sentry.Dsn != ""
}
