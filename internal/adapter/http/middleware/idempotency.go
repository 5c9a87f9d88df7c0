package middleware

import (
	"bytes"
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"taskmanager/internal/adapter/idempotency"
	"taskmanager/pkg/apierrors"
)

const (
	IdempotencyKeyHeader     = "Idempotency-Key"
	IdempotentReplayedHeader = "Idempotent-Replayed"
	maxIdempotencyKeyLen     = 255
)

type bodyRecorder struct {
	gin.ResponseWriter
	body bytes.Buffer
}

func (w *bodyRecorder) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *bodyRecorder) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// IdempotencyMiddleware replays the stored response for a repeated Idempotency-Key.
// Keys are scoped by method and route. Server errors release the key so the
// client can retry with it.
func IdempotencyMiddleware(store idempotency.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader(IdempotencyKeyHeader)
		if key == "" {
			c.Next()
			return
		}

		lang := GetLang(c)
		if len(key) > maxIdempotencyKeyLen {
			c.AbortWithStatusJSON(
				http.StatusBadRequest,
				apierrors.CreateError(http.StatusBadRequest, apierrors.MsgInvalidTaskPayload, lang),
			)
			return
		}

		scoped := c.Request.Method + " " + c.FullPath() + " " + key
		ctx := c.Request.Context()

		record, err := store.Begin(ctx, scoped)
		switch {
		case errors.Is(err, idempotency.ErrInFlight):
			c.AbortWithStatusJSON(
				http.StatusConflict,
				apierrors.CreateError(http.StatusConflict, apierrors.MsgIdempotencyConflict, lang),
			)
			return
		case err != nil:
			zap.L().Warn("idempotency store unavailable, running request without it", zap.Error(err))
			c.Next()
			return
		case record != nil:
			c.Header(IdempotentReplayedHeader, "true")
			c.Data(record.Status, record.ContentType, record.Body)
			c.Abort()
			return
		}

		recorder := &bodyRecorder{ResponseWriter: c.Writer}
		c.Writer = recorder

		c.Next()

		// Settle the key even when the client has gone away.
		ctx = context.WithoutCancel(ctx)
		status := recorder.Status()
		if status >= http.StatusInternalServerError {
			if err := store.Release(ctx, scoped); err != nil {
				zap.L().Warn("failed to release idempotency key", zap.Error(err))
			}
			return
		}

		if err := store.Complete(ctx, scoped, idempotency.Record{
			Status:      status,
			ContentType: recorder.Header().Get("Content-Type"),
			Body:        recorder.body.Bytes(),
		}); err != nil {
			zap.L().Warn("failed to store idempotent response", zap.Error(err))
		}
	}
}
