package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"capstone-guard/config"
	"capstone-guard/internal/global/database"
	"capstone-guard/internal/global/embedding"
	"capstone-guard/internal/global/httpclient"
	"capstone-guard/internal/global/logger"
	"capstone-guard/internal/global/metrics"
	"capstone-guard/internal/global/middleware"
	"capstone-guard/internal/global/redis"
	"capstone-guard/internal/global/sentry"
	"capstone-guard/internal/global/storage"
	"capstone-guard/internal/module"
	"capstone-guard/tools"

	"github.com/gin-gonic/gin"
)

const shutdownTimeout = 10 * time.Second

var log *slog.Logger

func Init() {
	config.Init()
	// sentry 需要先于 logger 初始化，日志才能同步上报
	tools.PanicOnErr(sentry.Init())
	log = logger.New("Server")

	database.Init()
	redis.Init()
	httpclient.Init()
	embedding.Init()
	storage.Init()
	log.Info("基础组件初始化完成",
		"storage", storage.Default.Driver(),
		"embedding_cache", redis.Client != nil,
		"sentry", config.Get().Sentry.Dsn != "")

	for _, m := range module.Modules {
		log.Info(fmt.Sprintf("Init Module: %s", m.GetName()))
		m.Init()
	}
}

func newEngine() *gin.Engine {
	cfg := config.Get()
	gin.SetMode(string(cfg.Mode))
	r := gin.New()

	r.Use(sentry.Middleware())
	r.Use(middleware.SentryEnrichIP())
	if cfg.Metrics.Enable {
		r.Use(metrics.Middleware())
	}
	switch cfg.Mode {
	case config.ModeRelease:
		r.Use(middleware.Logger(logger.Get()))
	case config.ModeDebug:
		r.Use(gin.Logger())
	}
	r.Use(middleware.Cors())
	r.Use(middleware.Recovery())

	if cfg.Metrics.Enable {
		r.GET(cfg.Metrics.Path, metrics.Handler())
	}
	for _, m := range module.Modules {
		log.Info(fmt.Sprintf("Init Router: %s", m.GetName()))
		m.InitRouter(r.Group("/" + cfg.Prefix))
	}
	return r
}

// Run 收到 SIGINT / SIGTERM 后等待请求处理完成再退出
func Run() {
	cfg := config.Get()
	srv := &http.Server{
		Addr:              cfg.Host + ":" + cfg.Port,
		Handler:           newEngine(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info("服务启动", "addr", srv.Addr, "mode", cfg.Mode)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("服务异常退出", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("正在关闭服务")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("关闭服务失败", "error", err)
	}
	if redis.Client != nil {
		_ = redis.Client.Close()
	}
	sentry.Flush(2 * time.Second)
}
