package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"taskmanager/internal/adapter/http/middleware"
	"taskmanager/internal/core/domain"
	"taskmanager/pkg/apierrors"
)

// writeError maps a service error to its status and translated message.
// invalidMsg is used for validation failures, failMsg for anything unexpected.
func writeError(c *gin.Context, err error, invalidMsg, failMsg string) {
	lang := middleware.GetLang(c)
	status, msgKey := http.StatusInternalServerError, failMsg

	switch {
	case errors.Is(err, domain.ErrValidation):
		status, msgKey = http.StatusBadRequest, invalidMsg
	case errors.Is(err, domain.ErrTaskNotFound):
		status, msgKey = http.StatusNotFound, apierrors.MsgTaskNotFound
	case errors.Is(err, domain.ErrIdempotencyConflict):
		status, msgKey = http.StatusConflict, apierrors.MsgIdempotencyConflict
	case errors.Is(err, domain.ErrAIUnavailable):
		status, msgKey = http.StatusServiceUnavailable, apierrors.MsgAIUnavailable
	case errors.Is(err, domain.ErrExtraction):
		status, msgKey = http.StatusBadGateway, apierrors.MsgExtractionFailed
	case errors.Is(err, domain.ErrInsights):
		status, msgKey = http.StatusBadGateway, apierrors.MsgInsightsFailed
	default:
		zap.L().Error(failMsg,
			zap.String("request_id", middleware.GetRequestID(c)),
			zap.String("route", c.FullPath()),
			zap.Error(err),
		)
	}

	_ = c.Error(err)
	c.JSON(status, apierrors.CreateError(status, msgKey, lang))
}

func writeBadRequest(c *gin.Context, msgKey string) {
	c.JSON(
		http.StatusBadRequest,
		apierrors.CreateError(http.StatusBadRequest, msgKey, middleware.GetLang(c)),
	)
}

func parseTaskID(c *gin.Context) (uint64, bool) {
	taskID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || taskID == 0 {
		writeBadRequest(c, apierrors.MsgInvalidTaskID)
		return 0, false
	}
	return taskID, true
}
