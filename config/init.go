package config

import (
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/viper"
)

const envPrefix = "CG"

var (
	cfg *Config
	mu  sync.RWMutex
)

// Default 返回带默认值的配置
func Default() Config {
	return Config{
		Host:   "0.0.0.0",
		Port:   "8080",
		Prefix: "api",
		Mode:   ModeDebug,
		Mysql: Mysql{
			Host:   "127.0.0.1",
			Port:   "3306",
			DBName: "capstone_guard",
		},
		JWT: JWT{
			AccessExpire: 7 * 24 * 3600,
		},
		Log: Log{
			Level:      "info",
			MaxSize:    100,
			MaxBackups: 7,
			MaxAge:     30,
		},
		Storage: Storage{
			Driver:     "local",
			Home:       "./upload",
			MaxSize:    16 << 20,
			AllowedExt: []string{"pdf", "doc", "docx"},
		},
		S3: S3{
			PresignExpire: 3600,
		},
		Embedding: Embedding{
			BaseURL:         "https://generativelanguage.googleapis.com/v1beta",
			Model:           "gemini-embedding-001",
			TaskType:        "SEMANTIC_SIMILARITY",
			Timeout:         15 * time.Second,
			BatchSize:       100,
			CacheTTL:        30 * 24 * time.Hour,
			BreakerFailures: 5,
			BreakerTimeout:  time.Minute,
		},
		Similarity: Similarity{
			Threshold:         0.82,
			TitleWeight:       0.4,
			DescriptionWeight: 0.6,
			MaxRecords:        5,
		},
		LiveCheck: LiveCheck{
			MinTitleLength:       10,
			MinDescriptionLength: 50,
			MaxResults:           3,
			RequestsPerMinute:    30,
			Burst:                5,
		},
		Admin: Admin{
			Email:    "admin@capstoneguard.local",
			FullName: "System Administrator",
		},
		Metrics: Metrics{
			Enable: true,
			Path:   "/metrics",
		},
	}
}

// Init 依次加载默认值、config.yaml 与 CG_ 前缀的环境变量
func Init() {
	c := Default()

	v := viper.New()
	if path := os.Getenv(envPrefix + "_CONFIG"); path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			panic(fmt.Errorf("读取配置文件失败: %w", err))
		}
	}
	if err := v.Unmarshal(&c); err != nil {
		panic(fmt.Errorf("解析配置文件失败: %w", err))
	}
	if err := envconfig.Process(envPrefix, &c); err != nil {
		panic(fmt.Errorf("解析环境变量失败: %w", err))
	}
	if err := c.Validate(); err != nil {
		panic(err)
	}
	Set(&c)
}

// Validate 检查查重相关参数
func (c *Config) Validate() error {
	s := c.Similarity
	if s.Threshold <= 0 || s.Threshold > 1 {
		return fmt.Errorf("similarity.threshold 必须在 (0,1] 内: %v", s.Threshold)
	}
	if s.TitleWeight < 0 || s.TitleWeight > 1 || s.DescriptionWeight < 0 || s.DescriptionWeight > 1 {
		return fmt.Errorf("similarity 权重必须在 [0,1] 内: title=%v description=%v", s.TitleWeight, s.DescriptionWeight)
	}
	if c.Mode != ModeDebug && c.Mode != ModeRelease {
		return fmt.Errorf("未知运行模式: %s", c.Mode)
	}
	return nil
}

// Get 获取全局配置，未初始化时返回默认值
func Get() *Config {
	mu.RLock()
	defer mu.RUnlock()
	if cfg == nil {
		d := Default()
		return &d
	}
	return cfg
}

// Set 替换全局配置，测试中使用
func Set(c *Config) {
	mu.Lock()
	cfg = c
	mu.Unlock()
}
