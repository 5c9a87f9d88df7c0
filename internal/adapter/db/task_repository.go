package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"taskmanager/internal/config"
	"taskmanager/internal/core/domain"
	"taskmanager/internal/core/ports"
)

const taskColumns = `id, title, description, completed, priority, category, due_date, ai_generated, created_at, updated_at`

const insertTaskQuery = `
INSERT INTO tasks (title, description, completed, priority, category, due_date, ai_generated, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

const updateTaskQuery = `
UPDATE tasks
SET title = ?, description = ?, completed = ?, priority = ?, category = ?, due_date = ?, updated_at = ?
WHERE id = ?`

type TaskRepository struct {
	db *sqlx.DB
}

type taskRow struct {
	ID          uint64         `db:"id"`
	Title       string         `db:"title"`
	Description sql.NullString `db:"description"`
	Completed   bool           `db:"completed"`
	Priority    string         `db:"priority"`
	Category    string         `db:"category"`
	DueDate     sql.NullTime   `db:"due_date"`
	AIGenerated bool           `db:"ai_generated"`
	CreatedAt   time.Time      `db:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at"`
}

type groupCountRow struct {
	Key   string `db:"group_key"`
	Count int    `db:"group_count"`
}

var _ ports.TaskRepository = (*TaskRepository)(nil)

func NewTaskRepository(db *sqlx.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) ListTasks(ctx context.Context, filter domain.TaskFilter) ([]domain.Task, int, error) {
	where := ""
	var args []interface{}
	if filter.Completed != nil {
		where = " WHERE completed = ?"
		args = append(args, *filter.Completed)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, r.db.Rebind("SELECT COUNT(*) FROM tasks"+where), args...); err != nil {
		return nil, 0, fmt.Errorf("count tasks: %w", err)
	}

	query := "SELECT " + taskColumns + " FROM tasks" + where + " ORDER BY id"
	if filter.Limit > 0 {
		query += " LIMIT ? OFFSET ?"
		args = append(args, filter.Limit, filter.Offset)
	}

	var rows []taskRow
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...); err != nil {
		return nil, 0, fmt.Errorf("list tasks: %w", err)
	}

	return mapTaskRows(rows), total, nil
}

func (r *TaskRepository) GetTask(ctx context.Context, taskID uint64) (domain.Task, error) {
	var row taskRow
	err := r.db.GetContext(ctx, &row, r.db.Rebind("SELECT "+taskColumns+" FROM tasks WHERE id = ?"), taskID)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Task{}, domain.ErrTaskNotFound
	}
	if err != nil {
		return domain.Task{}, fmt.Errorf("get task %d: %w", taskID, err)
	}
	return mapTaskRowToDomainTask(row), nil
}

func (r *TaskRepository) ListTasksByIDs(ctx context.Context, taskIDs []uint64, completed *bool) ([]domain.Task, error) {
	if len(taskIDs) == 0 {
		return []domain.Task{}, nil
	}

	query := "SELECT " + taskColumns + " FROM tasks WHERE id IN (?)"
	args := []interface{}{taskIDs}
	if completed != nil {
		query += " AND completed = ?"
		args = append(args, *completed)
	}
	query += " ORDER BY id"

	query, args, err := sqlx.In(query, args...)
	if err != nil {
		return nil, fmt.Errorf("expand task ids: %w", err)
	}

	var rows []taskRow
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("list tasks by ids: %w", err)
	}
	return mapTaskRows(rows), nil
}

func (r *TaskRepository) ListRecentTasks(ctx context.Context, limit int) ([]domain.Task, error) {
	var rows []taskRow
	query := "SELECT " + taskColumns + " FROM tasks ORDER BY created_at DESC, id DESC LIMIT ?"
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), limit); err != nil {
		return nil, fmt.Errorf("list recent tasks: %w", err)
	}
	return mapTaskRows(rows), nil
}

func (r *TaskRepository) CreateTask(ctx context.Context, task domain.Task) (domain.Task, error) {
	args := []interface{}{
		task.Title,
		nullString(task.Description),
		task.Completed,
		string(task.Priority),
		string(task.Category),
		nullTime(task.DueDate),
		task.AIGenerated,
		task.CreatedAt,
		task.UpdatedAt,
	}

	if r.db.DriverName() == config.DriverPostgres {
		var id uint64
		if err := r.db.QueryRowxContext(ctx, r.db.Rebind(insertTaskQuery+" RETURNING id"), args...).Scan(&id); err != nil {
			return domain.Task{}, fmt.Errorf("insert task: %w", err)
		}
		task.ID = id
		return task, nil
	}

	result, err := r.db.ExecContext(ctx, r.db.Rebind(insertTaskQuery), args...)
	if err != nil {
		return domain.Task{}, fmt.Errorf("insert task: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return domain.Task{}, fmt.Errorf("insert task id: %w", err)
	}
	task.ID = uint64(id)
	return task, nil
}

func (r *TaskRepository) UpdateTask(ctx context.Context, taskID uint64, mutate func(*domain.Task) error) (domain.Task, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return domain.Task{}, fmt.Errorf("begin update: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var row taskRow
	query := "SELECT " + taskColumns + " FROM tasks WHERE id = ?" + r.rowLockClause()
	err = tx.GetContext(ctx, &row, tx.Rebind(query), taskID)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Task{}, domain.ErrTaskNotFound
	}
	if err != nil {
		return domain.Task{}, fmt.Errorf("load task %d: %w", taskID, err)
	}

	stored := mapTaskRowToDomainTask(row)
	task := stored
	if err := mutate(&task); err != nil {
		return domain.Task{}, err
	}
	task.ID = stored.ID
	task.CreatedAt = stored.CreatedAt
	task.AIGenerated = stored.AIGenerated

	_, err = tx.ExecContext(ctx, tx.Rebind(updateTaskQuery),
		task.Title,
		nullString(task.Description),
		task.Completed,
		string(task.Priority),
		string(task.Category),
		nullTime(task.DueDate),
		task.UpdatedAt,
		task.ID,
	)
	if err != nil {
		return domain.Task{}, fmt.Errorf("update task %d: %w", taskID, err)
	}

	if err := tx.Commit(); err != nil {
		return domain.Task{}, fmt.Errorf("commit update: %w", err)
	}
	return task, nil
}

func (r *TaskRepository) DeleteTask(ctx context.Context, taskID uint64) error {
	result, err := r.db.ExecContext(ctx, r.db.Rebind("DELETE FROM tasks WHERE id = ?"), taskID)
	if err != nil {
		return fmt.Errorf("delete task %d: %w", taskID, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete task %d: %w", taskID, err)
	}
	if affected == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

func (r *TaskRepository) TaskStats(ctx context.Context) (domain.TaskStats, error) {
	stats := domain.NewTaskStats()

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return stats, fmt.Errorf("begin stats: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := tx.GetContext(ctx, &stats.Total, "SELECT COUNT(*) FROM tasks"); err != nil {
		return stats, fmt.Errorf("count tasks: %w", err)
	}
	if err := tx.GetContext(ctx, &stats.Completed, tx.Rebind("SELECT COUNT(*) FROM tasks WHERE completed = ?"), true); err != nil {
		return stats, fmt.Errorf("count completed tasks: %w", err)
	}

	var byCategory []groupCountRow
	if err := tx.SelectContext(ctx, &byCategory, "SELECT category AS group_key, COUNT(*) AS group_count FROM tasks GROUP BY category"); err != nil {
		return stats, fmt.Errorf("count tasks by category: %w", err)
	}
	for _, group := range byCategory {
		stats.ByCategory[domain.Category(group.Key)] = group.Count
	}

	var byPriority []groupCountRow
	if err := tx.SelectContext(ctx, &byPriority, "SELECT priority AS group_key, COUNT(*) AS group_count FROM tasks GROUP BY priority"); err != nil {
		return stats, fmt.Errorf("count tasks by priority: %w", err)
	}
	for _, group := range byPriority {
		stats.ByPriority[domain.Priority(group.Key)] = group.Count
	}

	return stats, tx.Commit()
}

// SQLite serializes writers on its own and has no row locks.
func (r *TaskRepository) rowLockClause() string {
	if r.db.DriverName() == config.DriverSQLite {
		return ""
	}
	return " FOR UPDATE"
}

func mapTaskRows(rows []taskRow) []domain.Task {
	tasks := make([]domain.Task, 0, len(rows))
	for _, row := range rows {
		tasks = append(tasks, mapTaskRowToDomainTask(row))
	}
	return tasks
}

func mapTaskRowToDomainTask(row taskRow) domain.Task {
	task := domain.Task{
		ID:          row.ID,
		Title:       row.Title,
		Completed:   row.Completed,
		Priority:    domain.Priority(row.Priority),
		Category:    domain.Category(row.Category),
		AIGenerated: row.AIGenerated,
		CreatedAt:   row.CreatedAt.UTC(),
		UpdatedAt:   row.UpdatedAt.UTC(),
	}

	if row.Description.Valid {
		value := row.Description.String
		task.Description = &value
	}

	if row.DueDate.Valid {
		value := row.DueDate.Time.UTC()
		task.DueDate = &value
	}

	return task
}

func nullString(value *string) sql.NullString {
	if value == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *value, Valid: true}
}

func nullTime(value *time.Time) sql.NullTime {
	if value == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: value.UTC(), Valid: true}
}
