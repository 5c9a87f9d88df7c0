package http

import (
	"github.com/gin-gonic/gin"

	"taskmanager/internal/adapter/http/handlers"
	"taskmanager/internal/adapter/http/middleware"
	"taskmanager/internal/adapter/idempotency"
)

type Handlers struct {
	Health *handlers.HealthHandler
	Task   *handlers.TaskHandler
	AI     *handlers.AIHandler
}

// RegisterRoutes mounts every endpoint at the root. Creating endpoints honour
// the Idempotency-Key header through store.
func RegisterRoutes(r *gin.Engine, h Handlers, store idempotency.Store) {
	idempotent := middleware.IdempotencyMiddleware(store)

	api := r.Group("/")
	api.Use(middleware.LanguageMiddleware())
	{
		api.GET("/", h.Health.Root)
		api.GET("/health", h.Health.CheckHealth)
		api.GET("/health/report", h.Health.CheckHealthReport)

		api.GET("/tasks", h.Task.ListTasks)
		api.GET("/tasks/:id", h.Task.GetTask)
		api.POST("/tasks", idempotent, h.Task.CreateTask)
		api.PUT("/tasks/:id", h.Task.UpdateTask)
		api.PATCH("/tasks/:id", h.Task.UpdateTask)
		api.DELETE("/tasks/:id", h.Task.DeleteTask)

		ai := api.Group("/ai")
		ai.GET("/status", h.AI.Status)
		ai.POST("/parse", h.AI.Parse)
		ai.POST("/parse-and-create", idempotent, h.AI.ParseAndCreate)
		ai.POST("/prioritize", h.AI.Prioritize)
		ai.POST("/categorize/:id", h.AI.Categorize)
		ai.GET("/insights", h.AI.Insights)
	}
}
