package ports

import (
	"context"

	"taskmanager/internal/core/domain"
)

type TaskRepository interface {
	ListTasks(ctx context.Context, filter domain.TaskFilter) ([]domain.Task, int, error)
	GetTask(ctx context.Context, taskID uint64) (domain.Task, error)
	ListTasksByIDs(ctx context.Context, taskIDs []uint64, completed *bool) ([]domain.Task, error)
	ListRecentTasks(ctx context.Context, limit int) ([]domain.Task, error)
	CreateTask(ctx context.Context, task domain.Task) (domain.Task, error)
	// UpdateTask loads the latest stored row, hands it to mutate and persists the
	// result, all inside one transaction.
	UpdateTask(ctx context.Context, taskID uint64, mutate func(*domain.Task) error) (domain.Task, error)
	DeleteTask(ctx context.Context, taskID uint64) error
	TaskStats(ctx context.Context) (domain.TaskStats, error)
}

type TaskService interface {
	ListTasks(ctx context.Context, filter domain.TaskFilter) (domain.TaskList, error)
	GetTask(ctx context.Context, taskID uint64) (domain.Task, error)
	CreateTask(ctx context.Context, input domain.CreateTaskInput) (domain.Task, error)
	UpdateTask(ctx context.Context, taskID uint64, input domain.UpdateTaskInput) (domain.Task, error)
	DeleteTask(ctx context.Context, taskID uint64) error
}
