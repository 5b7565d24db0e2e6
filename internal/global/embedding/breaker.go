package embedding

import (
	"context"
	"errors"
	"log/slog"

	"capstone-guard/config"
	"capstone-guard/internal/global/logger"
	"capstone-guard/internal/global/metrics"

	gobreaker "github.com/sony/gobreaker/v2"
)

const breakerName = "embedding-api"

// Breaker 连续失败达到阈值后短路，避免每次提交都等待超时
type Breaker struct {
	next Embedder
	cb   *gobreaker.CircuitBreaker[[][]float64]
	log  *slog.Logger
}

func NewBreaker(next Embedder, cfg config.Embedding) *Breaker {
	failures := cfg.BreakerFailures
	if failures == 0 {
		failures = 5
	}
	b := &Breaker{next: next, log: logger.New("Embedding")}
	metrics.BreakerState.WithLabelValues(breakerName).Set(0)
	b.cb = gobreaker.NewCircuitBreaker[[][]float64](gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: 1,
		Timeout:     cfg.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrEmptyText) || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			b.log.Warn("熔断器状态变化", "name", name, "from", from.String(), "to", to.String())
			metrics.BreakerState.WithLabelValues(name).Set(float64(to))
		},
	})
	return b
}

func (b *Breaker) State() gobreaker.State {
	return b.cb.State()
}

func (b *Breaker) Embed(ctx context.Context, text string) ([]float64, error) {
	out, err := b.cb.Execute(func() ([][]float64, error) {
		v, err := b.next.Embed(ctx, text)
		return [][]float64{v}, err
	})
	if err != nil {
		return nil, err
	}
	return out[0], nil
}

func (b *Breaker) EmbedBatch(ctx context.Context, texts []string) ([][]float64, error) {
	return b.cb.Execute(func() ([][]float64, error) {
		return b.next.EmbedBatch(ctx, texts)
	})
}
