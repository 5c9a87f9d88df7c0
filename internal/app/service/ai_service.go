package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"taskmanager/internal/core/domain"
	"taskmanager/internal/core/ports"
)

const DefaultAITimeout = 20 * time.Second

type AIService struct {
	model          ports.LanguageModel
	taskService    ports.TaskService
	taskRepository ports.TaskRepository
	timeout        time.Duration
	now            func() time.Time
}

// NewAIService builds the extractor. A nil model leaves every AI operation
// reporting domain.ErrAIUnavailable.
func NewAIService(model ports.LanguageModel, taskService ports.TaskService, taskRepository ports.TaskRepository, timeout time.Duration) *AIService {
	if timeout <= 0 {
		timeout = DefaultAITimeout
	}
	return &AIService{
		model:          model,
		taskService:    taskService,
		taskRepository: taskRepository,
		timeout:        timeout,
		now:            utcNow,
	}
}

func (s *AIService) Status(_ context.Context) domain.AIStatus {
	if s.model == nil {
		return domain.AIStatus{}
	}
	return domain.AIStatus{Available: true, Model: s.model.Model()}
}

func (s *AIService) Parse(ctx context.Context, text string) (domain.TaskDraft, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return domain.TaskDraft{}, fmt.Errorf("%w: text is required", domain.ErrValidation)
	}

	reply, err := generate(ctx, s.model, s.timeout, buildParsePrompt(text, s.now()), ports.FormatTaskDraft)
	if err != nil {
		return domain.TaskDraft{}, extractionError("parse", err)
	}

	draft, err := decodeTaskDraft(reply, text)
	if err != nil {
		return domain.TaskDraft{}, extractionError("parse", err)
	}
	return draft, nil
}

// ParseAndCreate only writes once the draft is fully decoded.
func (s *AIService) ParseAndCreate(ctx context.Context, text string) (domain.Task, domain.TaskDraft, error) {
	draft, err := s.Parse(ctx, text)
	if err != nil {
		return domain.Task{}, domain.TaskDraft{}, err
	}

	task, err := s.taskService.CreateTask(ctx, draft.ToCreateInput())
	if err != nil {
		return domain.Task{}, domain.TaskDraft{}, err
	}
	return task, draft, nil
}

// Prioritize orders the incomplete tasks among taskIDs. Tasks the model leaves out
// are appended in id order so every requested task comes back exactly once.
func (s *AIService) Prioritize(ctx context.Context, taskIDs []uint64) (domain.Prioritization, error) {
	if len(taskIDs) == 0 {
		return domain.Prioritization{}, fmt.Errorf("%w: task_ids is required", domain.ErrValidation)
	}
	if s.model == nil {
		return domain.Prioritization{}, domain.ErrAIUnavailable
	}

	pending := false
	tasks, err := s.taskRepository.ListTasksByIDs(ctx, uniqueIDs(taskIDs), &pending)
	if err != nil {
		return domain.Prioritization{}, err
	}
	if len(tasks) == 0 {
		return domain.Prioritization{}, domain.ErrTaskNotFound
	}

	reply, err := generate(ctx, s.model, s.timeout, buildPrioritizePrompt(tasks), ports.FormatTaskOrder)
	if err != nil {
		return domain.Prioritization{}, extractionError("prioritize", err)
	}

	order, reasoning, err := decodeTaskOrder(reply)
	if err != nil {
		return domain.Prioritization{}, extractionError("prioritize", err)
	}
	if reasoning == "" {
		reasoning = "Prioritized by AI"
	}

	return domain.Prioritization{Tasks: applyOrder(tasks, order), Reasoning: reasoning}, nil
}

func (s *AIService) Categorize(ctx context.Context, taskID uint64) (domain.Task, error) {
	if s.model == nil {
		return domain.Task{}, domain.ErrAIUnavailable
	}

	task, err := s.taskService.GetTask(ctx, taskID)
	if err != nil {
		return domain.Task{}, err
	}

	reply, err := generate(ctx, s.model, s.timeout, buildCategorizePrompt(task), ports.FormatText)
	if err != nil {
		return domain.Task{}, extractionError("categorize", err)
	}

	category := coerceCategory(reply)
	return s.taskService.UpdateTask(ctx, taskID, domain.UpdateTaskInput{Category: &category})
}

func generate(ctx context.Context, model ports.LanguageModel, timeout time.Duration, prompt string, format ports.ResponseFormat) (string, error) {
	if model == nil {
		return "", domain.ErrAIUnavailable
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	return model.Generate(ctx, prompt, format)
}

// extractionError keeps ErrAIUnavailable intact so callers can tell a missing
// provider apart from a failing one.
func extractionError(op string, err error) error {
	if errors.Is(err, domain.ErrAIUnavailable) {
		return err
	}
	zap.L().Warn("ai extraction failed", zap.String("op", op), zap.Error(err))
	return fmt.Errorf("%w: %s: %v", domain.ErrExtraction, op, err)
}

func uniqueIDs(ids []uint64) []uint64 {
	seen := make(map[uint64]struct{}, len(ids))
	out := make([]uint64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// applyOrder expects tasks sorted by id.
func applyOrder(tasks []domain.Task, order []uint64) []domain.Task {
	byID := make(map[uint64]domain.Task, len(tasks))
	for _, task := range tasks {
		byID[task.ID] = task
	}

	out := make([]domain.Task, 0, len(tasks))
	for _, id := range order {
		task, ok := byID[id]
		if !ok {
			continue
		}
		out = append(out, task)
		delete(byID, id)
	}
	for _, task := range tasks {
		if _, ok := byID[task.ID]; ok {
			out = append(out, task)
		}
	}
	return out
}

var _ ports.AIService = (*AIService)(nil)
