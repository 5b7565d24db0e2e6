package config

import "time"

type Mode string

const (
	ModeDebug   Mode = "debug"
	ModeRelease Mode = "release"
)

// Config 环境变量使用 CG_ 前缀，例如 CG_MYSQL_HOST、CG_EMBEDDING_API_KEY
type Config struct {
	Host       string
	Port       string
	Domain     string
	Prefix     string
	Mode       Mode
	Mysql      Mysql
	Redis      Redis
	JWT        JWT
	Log        Log
	Sentry     Sentry
	Storage    Storage
	S3         S3
	Embedding  Embedding
	Similarity Similarity
	LiveCheck  LiveCheck `mapstructure:"live_check" split_words:"true"`
	Admin      Admin
	Metrics    Metrics
}

type Mysql struct {
	Host     string
	Port     string
	Username string
	Password string
	DBName   string `mapstructure:"db_name" split_words:"true"`
}

// Redis 为空 Host 时不启用 embedding 缓存
type Redis struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type JWT struct {
	AccessSecret string `mapstructure:"access_secret" split_words:"true"`
	AccessExpire int64  `mapstructure:"access_expire" split_words:"true"` // 秒
}

type Log struct {
	FilePath   string `mapstructure:"file_path" split_words:"true"`   // 日志文件路径
	Level      string `mapstructure:"level"`                          // 日志级别：debug, info, warn, error
	MaxSize    int    `mapstructure:"max_size" split_words:"true"`    // 日志文件最大大小（MB）
	MaxBackups int    `mapstructure:"max_backups" split_words:"true"` // 保留的旧日志文件数
	MaxAge     int    `mapstructure:"max_age" split_words:"true"`     // 日志文件保留天数
	Compress   bool   `mapstructure:"compress"`                       // 是否压缩旧日志文件
}

type Sentry struct {
	Dsn         string
	Environment string
	SampleRate  float64 `mapstructure:"sample_rate" split_words:"true"` // 性能追踪采样率
	Tracing     SentryTracing
}

type SentryTracing struct {
	DBSlowThresholdMs    int  `mapstructure:"db_slow_threshold_ms" split_words:"true"`
	RedisSlowThresholdMs int  `mapstructure:"redis_slow_threshold_ms" split_words:"true"`
	TraceHTTPCalls       bool `mapstructure:"trace_http_calls" split_words:"true"`
}

// Storage 附件存储，Driver 为 local 或 s3
type Storage struct {
	Driver     string
	Home       string
	MaxSize    int64    `mapstructure:"max_size" split_words:"true"` // 字节
	AllowedExt []string `mapstructure:"allowed_ext" split_words:"true"`
}

type S3 struct {
	Endpoint        string
	BaseURL         string `mapstructure:"base_url" split_words:"true"`
	Bucket          string
	Region          string
	AccessKey       string `mapstructure:"access_key" split_words:"true"`
	SecretAccessKey string `mapstructure:"secret_key" split_words:"true"`
	Prefix          string
	UsePathStyle    bool  `mapstructure:"path_style" split_words:"true"`
	PresignExpire   int64 `mapstructure:"presign_expire" split_words:"true"` // 秒
}

// Embedding 文本向量化接口（Gemini embedContent）
type Embedding struct {
	BaseURL         string        `mapstructure:"base_url" split_words:"true"`
	APIKey          string        `mapstructure:"api_key" split_words:"true"`
	Model           string        `mapstructure:"model"`
	TaskType        string        `mapstructure:"task_type" split_words:"true"`
	Dimensionality  int           `mapstructure:"dimensionality"`
	Timeout         time.Duration `mapstructure:"timeout"`
	BatchSize       int           `mapstructure:"batch_size" split_words:"true"`
	CacheTTL        time.Duration `mapstructure:"cache_ttl" split_words:"true"`
	BreakerFailures uint32        `mapstructure:"breaker_failures" split_words:"true"` // 连续失败多少次后熔断
	BreakerTimeout  time.Duration `mapstructure:"breaker_timeout" split_words:"true"`
}

type Similarity struct {
	Threshold         float64
	TitleWeight       float64 `mapstructure:"title_weight" split_words:"true"`
	DescriptionWeight float64 `mapstructure:"description_weight" split_words:"true"`
	MaxRecords        int     `mapstructure:"max_records" split_words:"true"` // 提交时保存的相似记录上限
}

type LiveCheck struct {
	MinTitleLength       int `mapstructure:"min_title_length" split_words:"true"`
	MinDescriptionLength int `mapstructure:"min_description_length" split_words:"true"`
	MaxResults           int `mapstructure:"max_results" split_words:"true"`
	RequestsPerMinute    int `mapstructure:"requests_per_minute" split_words:"true"`
	Burst                int
}

// Admin 启动时创建的初始管理员，Password 为空则跳过
type Admin struct {
	Email    string
	Password string
	FullName string `mapstructure:"full_name" split_words:"true"`
}

type Metrics struct {
	Enable bool
	Path   string
}
