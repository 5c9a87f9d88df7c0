package ports

import (
	"context"

	"taskmanager/internal/core/domain"
)

// ResponseFormat tells a LanguageModel which reply shape the caller expects, so the
// provider can constrain its output.
type ResponseFormat int

const (
	FormatText ResponseFormat = iota
	FormatTaskDraft
	FormatTaskOrder
	FormatInsights
)

type LanguageModel interface {
	Model() string
	Generate(ctx context.Context, prompt string, format ResponseFormat) (string, error)
}

type AIService interface {
	Status(ctx context.Context) domain.AIStatus
	Parse(ctx context.Context, text string) (domain.TaskDraft, error)
	ParseAndCreate(ctx context.Context, text string) (domain.Task, domain.TaskDraft, error)
	Prioritize(ctx context.Context, taskIDs []uint64) (domain.Prioritization, error)
	Categorize(ctx context.Context, taskID uint64) (domain.Task, error)
}

type InsightsService interface {
	Generate(ctx context.Context) (domain.Insights, error)
}
