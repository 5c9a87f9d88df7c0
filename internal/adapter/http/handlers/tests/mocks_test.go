package tests

import (
	"context"

	"github.com/stretchr/testify/mock"

	"taskmanager/internal/core/domain"
	"taskmanager/internal/core/ports"
)

type taskServiceMock struct {
	mock.Mock
}

func (m *taskServiceMock) ListTasks(ctx context.Context, filter domain.TaskFilter) (domain.TaskList, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(domain.TaskList), args.Error(1)
}

func (m *taskServiceMock) GetTask(ctx context.Context, taskID uint64) (domain.Task, error) {
	args := m.Called(ctx, taskID)
	return args.Get(0).(domain.Task), args.Error(1)
}

func (m *taskServiceMock) CreateTask(ctx context.Context, input domain.CreateTaskInput) (domain.Task, error) {
	args := m.Called(ctx, input)
	return args.Get(0).(domain.Task), args.Error(1)
}

func (m *taskServiceMock) UpdateTask(ctx context.Context, taskID uint64, input domain.UpdateTaskInput) (domain.Task, error) {
	args := m.Called(ctx, taskID, input)
	return args.Get(0).(domain.Task), args.Error(1)
}

func (m *taskServiceMock) DeleteTask(ctx context.Context, taskID uint64) error {
	return m.Called(ctx, taskID).Error(0)
}

type aiServiceMock struct {
	mock.Mock
}

func (m *aiServiceMock) Status(ctx context.Context) domain.AIStatus {
	return m.Called(ctx).Get(0).(domain.AIStatus)
}

func (m *aiServiceMock) Parse(ctx context.Context, text string) (domain.TaskDraft, error) {
	args := m.Called(ctx, text)
	return args.Get(0).(domain.TaskDraft), args.Error(1)
}

func (m *aiServiceMock) ParseAndCreate(ctx context.Context, text string) (domain.Task, domain.TaskDraft, error) {
	args := m.Called(ctx, text)
	return args.Get(0).(domain.Task), args.Get(1).(domain.TaskDraft), args.Error(2)
}

func (m *aiServiceMock) Prioritize(ctx context.Context, taskIDs []uint64) (domain.Prioritization, error) {
	args := m.Called(ctx, taskIDs)
	return args.Get(0).(domain.Prioritization), args.Error(1)
}

func (m *aiServiceMock) Categorize(ctx context.Context, taskID uint64) (domain.Task, error) {
	args := m.Called(ctx, taskID)
	return args.Get(0).(domain.Task), args.Error(1)
}

type insightsServiceMock struct {
	mock.Mock
}

func (m *insightsServiceMock) Generate(ctx context.Context) (domain.Insights, error) {
	args := m.Called(ctx)
	return args.Get(0).(domain.Insights), args.Error(1)
}

var (
	_ ports.TaskService     = (*taskServiceMock)(nil)
	_ ports.AIService       = (*aiServiceMock)(nil)
	_ ports.InsightsService = (*insightsServiceMock)(nil)
)
