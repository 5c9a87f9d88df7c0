package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"taskmanager/internal/core/domain"
	"taskmanager/internal/core/ports"
)

const insightsFlightKey = "insights"

type InsightsService struct {
	taskRepository ports.TaskRepository
	model          ports.LanguageModel
	timeout        time.Duration
	sf             singleflight.Group
}

func NewInsightsService(taskRepository ports.TaskRepository, model ports.LanguageModel, timeout time.Duration) *InsightsService {
	if timeout <= 0 {
		timeout = DefaultAITimeout
	}
	return &InsightsService{taskRepository: taskRepository, model: model, timeout: timeout}
}

// Generate collapses concurrent callers onto one store read and one model call.
// The shared flight is detached from any single caller's cancellation and bounded
// by the AI timeout; a cancelled caller stops waiting without failing the others.
// Nothing outlives the call.
func (s *InsightsService) Generate(ctx context.Context) (domain.Insights, error) {
	if s.model == nil {
		return domain.Insights{}, domain.ErrAIUnavailable
	}

	flightCtx := context.WithoutCancel(ctx)
	ch := s.sf.DoChan(insightsFlightKey, func() (interface{}, error) {
		return s.generate(flightCtx)
	})

	select {
	case <-ctx.Done():
		return domain.Insights{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return domain.Insights{}, res.Err
		}
		return res.Val.(domain.Insights), nil
	}
}

func (s *InsightsService) generate(ctx context.Context) (domain.Insights, error) {
	stats, err := s.taskRepository.TaskStats(ctx)
	if err != nil {
		return domain.Insights{}, err
	}
	recent, err := s.taskRepository.ListRecentTasks(ctx, recentTitlesLimit)
	if err != nil {
		return domain.Insights{}, err
	}

	reply, err := generate(ctx, s.model, s.timeout, buildInsightsPrompt(stats, recent), ports.FormatInsights)
	if err != nil {
		return domain.Insights{}, insightsError(err)
	}

	decoded, err := decodeInsights(reply)
	if err != nil {
		return domain.Insights{}, insightsError(err)
	}
	if decoded.Summary == "" {
		return domain.Insights{}, insightsError(errors.New("empty summary"))
	}

	return domain.Insights{
		Stats:          stats,
		CompletionRate: stats.CompletionRate(),
		Summary:        decoded.Summary,
		Tips:           decoded.Tips,
	}, nil
}

func insightsError(err error) error {
	zap.L().Warn("ai insights failed", zap.Error(err))
	return fmt.Errorf("%w: %v", domain.ErrInsights, err)
}

var _ ports.InsightsService = (*InsightsService)(nil)
