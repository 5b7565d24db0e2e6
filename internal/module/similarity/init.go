package similarity

import (
	"log/slog"

	"capstone-guard/config"
	"capstone-guard/internal/global/database"
	"capstone-guard/internal/global/embedding"
	"capstone-guard/internal/global/logger"
	"capstone-guard/internal/global/middleware"
)

var (
	log     *slog.Logger
	limiter *middleware.RateLimiter
	// Default 供项目提交和实时检测共用
	Default *Detector
)

type ModuleSimilarity struct{}

func (m *ModuleSimilarity) GetName() string {
	return "Similarity"
}

func (m *ModuleSimilarity) Init() {
	cfg := config.Get()
	log = logger.New("Similarity")
	limiter = middleware.NewRateLimiter(cfg.LiveCheck.RequestsPerMinute, cfg.LiveCheck.Burst)
	Default = NewDetector(embedding.Default, GormSource{DB: database.DB}, cfg.Similarity, log)
}

func selfInit() {
	m := &ModuleSimilarity{}
	m.Init()
}
