// Package storage 保存项目附件，支持本地目录和 S3 兼容的对象存储
package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"capstone-guard/config"

	"github.com/google/uuid"
)

const (
	DriverLocal = "local"
	DriverS3    = "s3"
)

type Storage interface {
	Driver() string
	// Put 保存对象并返回之后 Delete / 下载时使用的路径
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error)
	Delete(ctx context.Context, path string) error
}

// Presigner 对象存储通过预签名 URL 下载，本地存储不实现
type Presigner interface {
	PresignGet(ctx context.Context, path, filename string) (string, error)
}

var Default Storage

// NewKey 生成对象 key，例如 3f0c...e1.pdf
func NewKey(ext string) string {
	ext = strings.TrimPrefix(strings.ToLower(ext), ".")
	if ext == "" {
		return uuid.NewString()
	}
	return uuid.NewString() + "." + ext
}

func New(ctx context.Context, cfg *config.Config) (Storage, error) {
	switch cfg.Storage.Driver {
	case "", DriverLocal:
		return NewLocal(cfg.Storage.Home), nil
	case DriverS3:
		return NewS3(ctx, cfg.S3)
	default:
		return nil, fmt.Errorf("未知的存储驱动 %q", cfg.Storage.Driver)
	}
}

func Init() {
	s, err := New(context.Background(), config.Get())
	if err != nil {
		panic(err)
	}
	Default = s
}
