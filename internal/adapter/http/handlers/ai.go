package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"taskmanager/internal/adapter/http/dto"
	"taskmanager/internal/adapter/http/mapper"
	"taskmanager/internal/adapter/http/middleware"
	"taskmanager/internal/core/domain"
	"taskmanager/internal/core/ports"
	"taskmanager/pkg/apierrors"
)

type AIHandler struct {
	aiService       ports.AIService
	insightsService ports.InsightsService
}

func NewAIHandler(aiService ports.AIService, insightsService ports.InsightsService) *AIHandler {
	return &AIHandler{aiService: aiService, insightsService: insightsService}
}

func (h *AIHandler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, mapper.ToAIStatus(h.aiService.Status(c.Request.Context())))
}

func (h *AIHandler) Parse(c *gin.Context) {
	text, ok := bindParseText(c)
	if !ok {
		return
	}

	draft, err := h.aiService.Parse(c.Request.Context(), text)
	if err != nil {
		writeError(c, err, apierrors.MsgInvalidAIPayload, apierrors.MsgFailAIRequest)
		return
	}

	c.JSON(http.StatusOK, mapper.ToTaskDraft(draft))
}

func (h *AIHandler) ParseAndCreate(c *gin.Context) {
	text, ok := bindParseText(c)
	if !ok {
		return
	}

	task, draft, err := h.aiService.ParseAndCreate(c.Request.Context(), text)
	if err != nil {
		writeError(c, err, apierrors.MsgInvalidAIPayload, apierrors.MsgFailCreateTask)
		return
	}

	c.JSON(http.StatusCreated, dto.ParseAndCreateResponse{
		Message:    apierrors.GetTransMsg(apierrors.MsgTaskCreated, middleware.GetLang(c), nil),
		Task:       mapper.ToTaskItem(task),
		Confidence: draft.Confidence,
	})
}

func (h *AIHandler) Prioritize(c *gin.Context) {
	var req dto.PrioritizeRequest
	if err := c.ShouldBindJSON(&req); err != nil || len(req.TaskIDs) == 0 {
		writeBadRequest(c, apierrors.MsgInvalidAIPayload)
		return
	}

	result, err := h.aiService.Prioritize(c.Request.Context(), req.TaskIDs)
	if err != nil {
		if errors.Is(err, domain.ErrTaskNotFound) {
			c.JSON(
				http.StatusNotFound,
				apierrors.CreateError(http.StatusNotFound, apierrors.MsgNoTasksFound, middleware.GetLang(c)),
			)
			return
		}
		writeError(c, err, apierrors.MsgInvalidAIPayload, apierrors.MsgFailAIRequest)
		return
	}

	c.JSON(http.StatusOK, mapper.ToPrioritize(result))
}

func (h *AIHandler) Categorize(c *gin.Context) {
	taskID, ok := parseTaskID(c)
	if !ok {
		return
	}

	task, err := h.aiService.Categorize(c.Request.Context(), taskID)
	if err != nil {
		writeError(c, err, apierrors.MsgInvalidTaskID, apierrors.MsgFailAIRequest)
		return
	}

	c.JSON(http.StatusOK, dto.CategorizeResponse{
		Message:  apierrors.GetTransMsg(apierrors.MsgTaskCategorized, middleware.GetLang(c), nil),
		TaskID:   task.ID,
		Category: string(task.Category),
	})
}

func (h *AIHandler) Insights(c *gin.Context) {
	insights, err := h.insightsService.Generate(c.Request.Context())
	if err != nil {
		writeError(c, err, apierrors.MsgInvalidAIPayload, apierrors.MsgInsightsFailed)
		return
	}

	c.JSON(http.StatusOK, mapper.ToInsights(insights))
}

func bindParseText(c *gin.Context) (string, bool) {
	var req dto.ParseRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Text) == "" {
		writeBadRequest(c, apierrors.MsgInvalidAIPayload)
		return "", false
	}
	return req.Text, true
}
