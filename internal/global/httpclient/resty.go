package httpclient

import (
	"capstone-guard/config"
	"capstone-guard/internal/global/sentry/tracing"

	"github.com/go-resty/resty/v2"
)

var Client *resty.Client

// New 创建带 Sentry 追踪的客户端，超时取 embedding 配置
func New() *resty.Client {
	client := resty.New().
		SetTimeout(config.Get().Embedding.Timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("User-Agent", "capstone-guard")
	if tracing.Enabled() {
		tracing.SetupResty(client)
	}
	return client
}

func Init() {
	Client = New()
}
