package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"

	"taskmanager/internal/adapter/http/middleware"
	"taskmanager/internal/config"
	"taskmanager/internal/core/ports"
)

const (
	StatusOk        = "ok"
	StatusDown      = "down"
	StatusDisabled  = "disabled"
	healthDBTimeout = 2 * time.Second
)

type ServiceInfo struct {
	Message   string `json:"message"`
	Version   string `json:"version"`
	AIEnabled bool   `json:"ai_enabled"`
	Health    string `json:"health"`
}

type HealthBasic struct {
	AppName           string `json:"app_name"`
	AppVersion        string `json:"app_version"`
	CurrentSystemTime string `json:"current_system_time"`
	Message           string `json:"message"`
	Database          string `json:"database"`
}

type HealthServices struct {
	Database string `json:"database"`
	AI       string `json:"ai"`
}

type HealthAdvanced struct {
	AppName           string         `json:"app_name"`
	AppVersion        string         `json:"app_version"`
	CurrentSystemTime string         `json:"current_system_time"`
	Language          string         `json:"language"`
	Status            HealthServices `json:"status"`
}

type HealthHandler struct {
	db        *sqlx.DB
	app       config.AppConfig
	aiService ports.AIService
}

func NewHealthHandler(db *sqlx.DB, app config.AppConfig, aiService ports.AIService) *HealthHandler {
	return &HealthHandler{db: db, app: app, aiService: aiService}
}

func (h *HealthHandler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, ServiceInfo{
		Message:   "Welcome to " + h.appName(),
		Version:   h.appVersion(),
		AIEnabled: h.aiService.Status(c.Request.Context()).Available,
		Health:    "/health",
	})
}

func (h *HealthHandler) CheckHealth(c *gin.Context) {
	statusCode := http.StatusOK
	message := StatusOk
	database := StatusOk

	if !h.checkConnectionToDatabase(c.Request.Context()) {
		statusCode = http.StatusInternalServerError
		message = StatusDown
		database = StatusDown
	}

	c.JSON(statusCode, HealthBasic{
		AppName:           h.appName(),
		AppVersion:        h.appVersion(),
		CurrentSystemTime: time.Now().Format("2006-01-02 15:04:05"),
		Message:           message,
		Database:          database,
	})
}

func (h *HealthHandler) CheckHealthReport(c *gin.Context) {
	ctx := c.Request.Context()

	databaseStatus := StatusDown
	if h.checkConnectionToDatabase(ctx) {
		databaseStatus = StatusOk
	}

	aiStatus := StatusDisabled
	if h.aiService.Status(ctx).Available {
		aiStatus = StatusOk
	}

	c.JSON(http.StatusOK, HealthAdvanced{
		AppName:           h.appName(),
		AppVersion:        h.appVersion(),
		CurrentSystemTime: time.Now().Format("2006-01-02 15:04:05"),
		Language:          middleware.GetLang(c),
		Status: HealthServices{
			Database: databaseStatus,
			AI:       aiStatus,
		},
	})
}

func (h *HealthHandler) checkConnectionToDatabase(ctx context.Context) bool {
	if h.db == nil {
		return false
	}
	timeoutCtx, cancel := context.WithTimeout(ctx, healthDBTimeout)
	defer cancel()
	return h.db.PingContext(timeoutCtx) == nil
}

func (h *HealthHandler) appName() string {
	if h.app.Name == "" {
		return "Task Manager API"
	}
	return h.app.Name
}

func (h *HealthHandler) appVersion() string {
	if h.app.Version == "" {
		return "dev"
	}
	return h.app.Version
}
