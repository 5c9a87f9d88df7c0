package mapper

import (
	"time"

	"taskmanager/internal/adapter/http/dto"
	"taskmanager/internal/core/domain"
)

func ToTaskItems(tasks []domain.Task) []dto.TaskItem {
	items := make([]dto.TaskItem, 0, len(tasks))
	for _, task := range tasks {
		items = append(items, ToTaskItem(task))
	}
	return items
}

func ToTaskItem(task domain.Task) dto.TaskItem {
	item := dto.TaskItem{
		ID:          task.ID,
		Title:       task.Title,
		Completed:   task.Completed,
		Priority:    string(task.Priority),
		Category:    string(task.Category),
		AIGenerated: task.AIGenerated,
		CreatedAt:   task.CreatedAt.UTC().Format(time.RFC3339Nano),
		UpdatedAt:   task.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}

	if task.Description != nil {
		value := *task.Description
		item.Description = &value
	}

	item.DueDate = formatTime(task.DueDate)

	return item
}

func ToTaskList(list domain.TaskList) dto.TaskListResponse {
	return dto.TaskListResponse{Tasks: ToTaskItems(list.Tasks), Total: list.Total}
}

func formatTime(value *time.Time) *string {
	if value == nil {
		return nil
	}
	formatted := value.UTC().Format(time.RFC3339Nano)
	return &formatted
}
