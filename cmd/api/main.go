package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	dbadapter "taskmanager/internal/adapter/db"
	httpadapter "taskmanager/internal/adapter/http"
	"taskmanager/internal/adapter/http/handlers"
	httpmiddleware "taskmanager/internal/adapter/http/middleware"
	"taskmanager/internal/adapter/idempotency"
	"taskmanager/internal/adapter/llm"
	appservice "taskmanager/internal/app/service"
	"taskmanager/internal/config"
	"taskmanager/internal/core/ports"
	"taskmanager/pkg/translator"
)

const shutdownTimeout = 10 * time.Second

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	// Make zap available to packages that log through zap.L().
	zap.ReplaceGlobals(logger)
	defer func() {
		if err := logger.Sync(); err != nil {
			zap.L().Debug("failed to sync logger", zap.Error(err))
		}
	}()

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatal("invalid configuration", zap.Error(err))
	}

	translator.InitTranslator(translator.Config{
		TranslationFolder:  cfg.App.TranslationFolder,
		SupportedLanguages: []string{translator.LanguageEn, translator.LanguageFr},
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := dbadapter.ConnectDB(cfg)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.String("driver", cfg.DB.Driver), zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Warn("failed to close database connection", zap.Error(err))
		}
	}()

	if err := dbadapter.Migrate(db); err != nil {
		logger.Fatal("failed to migrate database", zap.Error(err))
	}

	// Left as a nil interface when no key is configured; the AI services report
	// themselves unavailable in that case.
	var model ports.LanguageModel
	if cfg.AI.Enabled() {
		gemini, err := llm.NewGeminiClient(ctx, cfg.AI.GeminiAPIKey, cfg.AI.Model)
		if err != nil {
			logger.Fatal("failed to create gemini client", zap.Error(err))
		}
		model = gemini
		logger.Info("ai features enabled", zap.String("model", cfg.AI.Model))
	} else {
		logger.Warn("GEMINI_API_KEY not set, ai features disabled")
	}

	store := newIdempotencyStore(cfg.Redis, logger)

	taskRepository := dbadapter.NewTaskRepository(db)
	taskService := appservice.NewTaskService(taskRepository)
	aiService := appservice.NewAIService(model, taskService, taskRepository, cfg.AI.Timeout)
	insightsService := appservice.NewInsightsService(taskRepository, model, cfg.AI.Timeout)

	r := gin.New()
	r.Use(
		gin.Recovery(),
		httpmiddleware.RequestIDMiddleware(),
		httpmiddleware.GinZapMiddleware(logger, "/health"),
		httpmiddleware.CORSMiddleware(cfg.HTTP.AllowedOrigins()),
	)
	if err := r.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		logger.Fatal("invalid trusted proxies", zap.Error(err))
	}

	httpadapter.RegisterRoutes(r, httpadapter.Handlers{
		Health: handlers.NewHealthHandler(db, cfg.App, aiService),
		Task:   handlers.NewTaskHandler(taskService),
		AI:     handlers.NewAIHandler(aiService, insightsService),
	}, store)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTP.Port,
		Handler:      r,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	go func() {
		logger.Info("starting server", zap.String("addr", srv.Addr), zap.String("version", cfg.App.Version))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("could not start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}

// newIdempotencyStore prefers Redis so replicas share keys, falling back to an
// in-process store.
func newIdempotencyStore(cfg config.RedisConfig, logger *zap.Logger) idempotency.Store {
	if cfg.Addr == "" {
		return idempotency.NewMemoryStore(cfg.IdempotencyTTL)
	}

	rdb, err := idempotency.NewRedisClient(cfg.Addr, cfg.Password, cfg.DB)
	if err != nil {
		logger.Warn("redis unavailable, using in-memory idempotency store", zap.String("addr", cfg.Addr), zap.Error(err))
		return idempotency.NewMemoryStore(cfg.IdempotencyTTL)
	}
	logger.Info("using redis idempotency store", zap.String("addr", cfg.Addr))
	return idempotency.NewRedisStore(rdb, cfg.IdempotencyTTL)
}
