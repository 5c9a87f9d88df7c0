package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"taskmanager/internal/core/domain"
	"taskmanager/internal/core/ports"
)

type TaskService struct {
	taskRepository ports.TaskRepository
	locks          *keyedMutex
	now            func() time.Time
}

func NewTaskService(taskRepository ports.TaskRepository) *TaskService {
	return &TaskService{
		taskRepository: taskRepository,
		locks:          newKeyedMutex(),
		now:            utcNow,
	}
}

func utcNow() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

func (s *TaskService) ListTasks(ctx context.Context, filter domain.TaskFilter) (domain.TaskList, error) {
	if filter.Offset < 0 || filter.Limit < 0 {
		return domain.TaskList{}, fmt.Errorf("%w: negative pagination", domain.ErrValidation)
	}

	tasks, total, err := s.taskRepository.ListTasks(ctx, filter)
	if err != nil {
		return domain.TaskList{}, err
	}
	return domain.TaskList{Tasks: tasks, Total: total}, nil
}

func (s *TaskService) GetTask(ctx context.Context, taskID uint64) (domain.Task, error) {
	return s.taskRepository.GetTask(ctx, taskID)
}

func (s *TaskService) CreateTask(ctx context.Context, input domain.CreateTaskInput) (domain.Task, error) {
	title, ok := domain.NormalizeTitle(input.Title)
	if !ok {
		return domain.Task{}, fmt.Errorf("%w: title must be 1-%d characters", domain.ErrValidation, domain.MaxTitleLength)
	}

	priority := input.Priority
	if priority == "" {
		priority = domain.PriorityMedium
	}
	if !priority.Valid() {
		return domain.Task{}, fmt.Errorf("%w: unknown priority %q", domain.ErrValidation, priority)
	}

	category := input.Category
	if category == "" {
		category = domain.CategoryOther
	}
	if !category.Valid() {
		return domain.Task{}, fmt.Errorf("%w: unknown category %q", domain.ErrValidation, category)
	}

	now := s.now()
	task, err := s.taskRepository.CreateTask(ctx, domain.Task{
		Title:       title,
		Description: input.Description,
		Priority:    priority,
		Category:    category,
		DueDate:     input.DueDate,
		AIGenerated: input.AIGenerated,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		return domain.Task{}, err
	}

	zap.L().Info("task created", zap.Uint64("task_id", task.ID), zap.Bool("ai_generated", task.AIGenerated))
	return task, nil
}

func (s *TaskService) UpdateTask(ctx context.Context, taskID uint64, input domain.UpdateTaskInput) (domain.Task, error) {
	if input.Title != nil {
		title, ok := domain.NormalizeTitle(*input.Title)
		if !ok {
			return domain.Task{}, fmt.Errorf("%w: title must be 1-%d characters", domain.ErrValidation, domain.MaxTitleLength)
		}
		input.Title = &title
	}
	if input.Priority != nil && !input.Priority.Valid() {
		return domain.Task{}, fmt.Errorf("%w: unknown priority %q", domain.ErrValidation, *input.Priority)
	}
	if input.Category != nil && !input.Category.Valid() {
		return domain.Task{}, fmt.Errorf("%w: unknown category %q", domain.ErrValidation, *input.Category)
	}

	unlock := s.locks.Lock(taskID)
	defer unlock()

	task, err := s.taskRepository.UpdateTask(ctx, taskID, func(task *domain.Task) error {
		input.Apply(task)
		task.UpdatedAt = s.now()
		return nil
	})
	if err != nil {
		return domain.Task{}, err
	}

	zap.L().Info("task updated", zap.Uint64("task_id", task.ID))
	return task, nil
}

func (s *TaskService) DeleteTask(ctx context.Context, taskID uint64) error {
	unlock := s.locks.Lock(taskID)
	defer unlock()

	if err := s.taskRepository.DeleteTask(ctx, taskID); err != nil {
		return err
	}

	zap.L().Info("task deleted", zap.Uint64("task_id", taskID))
	return nil
}

var _ ports.TaskService = (*TaskService)(nil)
