package service

import (
	"context"

	"github.com/stretchr/testify/mock"

	"taskmanager/internal/core/domain"
	"taskmanager/internal/core/ports"
)

type taskRepositoryMock struct {
	mock.Mock
}

func (m *taskRepositoryMock) ListTasks(ctx context.Context, filter domain.TaskFilter) ([]domain.Task, int, error) {
	args := m.Called(ctx, filter)

	var tasks []domain.Task
	if value := args.Get(0); value != nil {
		tasks = value.([]domain.Task)
	}
	return tasks, args.Int(1), args.Error(2)
}

func (m *taskRepositoryMock) GetTask(ctx context.Context, taskID uint64) (domain.Task, error) {
	args := m.Called(ctx, taskID)
	return args.Get(0).(domain.Task), args.Error(1)
}

func (m *taskRepositoryMock) ListTasksByIDs(ctx context.Context, taskIDs []uint64, completed *bool) ([]domain.Task, error) {
	args := m.Called(ctx, taskIDs, completed)

	var tasks []domain.Task
	if value := args.Get(0); value != nil {
		tasks = value.([]domain.Task)
	}
	return tasks, args.Error(1)
}

func (m *taskRepositoryMock) ListRecentTasks(ctx context.Context, limit int) ([]domain.Task, error) {
	args := m.Called(ctx, limit)

	var tasks []domain.Task
	if value := args.Get(0); value != nil {
		tasks = value.([]domain.Task)
	}
	return tasks, args.Error(1)
}

func (m *taskRepositoryMock) CreateTask(ctx context.Context, task domain.Task) (domain.Task, error) {
	args := m.Called(ctx, task)
	return args.Get(0).(domain.Task), args.Error(1)
}

// UpdateTask runs mutate against the stored task handed to Return, like the real
// repository does inside its transaction.
func (m *taskRepositoryMock) UpdateTask(ctx context.Context, taskID uint64, mutate func(*domain.Task) error) (domain.Task, error) {
	args := m.Called(ctx, taskID)
	if err := args.Error(1); err != nil {
		return domain.Task{}, err
	}

	task := args.Get(0).(domain.Task)
	if err := mutate(&task); err != nil {
		return domain.Task{}, err
	}
	return task, nil
}

func (m *taskRepositoryMock) DeleteTask(ctx context.Context, taskID uint64) error {
	args := m.Called(ctx, taskID)
	return args.Error(0)
}

func (m *taskRepositoryMock) TaskStats(ctx context.Context) (domain.TaskStats, error) {
	args := m.Called(ctx)
	return args.Get(0).(domain.TaskStats), args.Error(1)
}

type languageModelMock struct {
	mock.Mock
}

func (m *languageModelMock) Model() string {
	return "gemini-test"
}

func (m *languageModelMock) Generate(ctx context.Context, prompt string, format ports.ResponseFormat) (string, error) {
	args := m.Called(ctx, prompt, format)
	return args.String(0), args.Error(1)
}
