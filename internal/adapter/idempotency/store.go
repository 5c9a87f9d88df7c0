package idempotency

import (
	"context"
	"time"

	"taskmanager/internal/core/domain"
)

const DefaultTTL = 24 * time.Hour

// ErrInFlight is returned by Begin while the first request for a key is still running.
var ErrInFlight = domain.ErrIdempotencyConflict

// Record is the stored outcome of the first request made with a key.
type Record struct {
	Status      int    `json:"status"`
	ContentType string `json:"content_type"`
	Body        []byte `json:"body"`
}

// Store tracks idempotency keys. Begin either claims the key for the caller
// (nil record, nil error), returns the finished record to replay, or fails with
// ErrInFlight. A claimed key must be settled with Complete or Release.
type Store interface {
	Begin(ctx context.Context, key string) (*Record, error)
	Complete(ctx context.Context, key string, record Record) error
	Release(ctx context.Context, key string) error
}
