package domain

import "errors"

var (
	ErrValidation          = errors.New("validation failed")
	ErrTaskNotFound        = errors.New("task not found")
	ErrExtraction          = errors.New("task extraction failed")
	ErrInsights            = errors.New("insights generation failed")
	ErrAIUnavailable       = errors.New("ai provider not configured")
	ErrIdempotencyConflict = errors.New("request with this idempotency key is in progress")
)
