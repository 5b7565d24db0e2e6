// Package embedding 把文本转换为向量，封装 Gemini embedding API、熔断与 Redis 缓存
package embedding

import (
	"context"
	"errors"
	"strings"

	"capstone-guard/config"
	"capstone-guard/internal/global/httpclient"
	"capstone-guard/internal/global/redis"
)

// ErrEmptyText 空白文本不会发送给 API
var ErrEmptyText = errors.New("embedding: empty text")

type Embedder interface {
	Embed(ctx context.Context, text string) ([]float64, error)
	// EmbedBatch 返回与 texts 一一对应的向量，空白文本对应 nil
	EmbedBatch(ctx context.Context, texts []string) ([][]float64, error)
}

var Default Embedder

var newlineReplacer = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ")

// Normalize 去掉首尾空白并把换行替换为空格
func Normalize(text string) string {
	return strings.TrimSpace(newlineReplacer.Replace(text))
}

// Init 依次组装 API 客户端、熔断器和缓存（配置了 Redis 时）
func Init() {
	cfg := config.Get().Embedding
	var e Embedder = NewBreaker(NewGemini(httpclient.Client, cfg), cfg)
	if redis.Client != nil {
		e = NewCached(e, NewRedisCache(redis.Client, cfg), cfg)
	}
	Default = e
}
