package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"

	"taskmanager/internal/adapter/http/dto"
	"taskmanager/internal/core/domain"
)

const MaxPageLimit = 100

var (
	ErrInvalidTaskPayload = errors.New("invalid task payload")
	ErrInvalidTaskQuery   = errors.New("invalid task query")
)

var wireTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

func BuildCreateTaskInput(req dto.CreateTaskRequest, raw map[string]json.RawMessage) (domain.CreateTaskInput, error) {
	if req.Title == nil {
		return domain.CreateTaskInput{}, ErrInvalidTaskPayload
	}
	if hasJSONField(raw, "priority") && req.Priority == nil {
		return domain.CreateTaskInput{}, ErrInvalidTaskPayload
	}
	if hasJSONField(raw, "category") && req.Category == nil {
		return domain.CreateTaskInput{}, ErrInvalidTaskPayload
	}

	input := domain.CreateTaskInput{
		Title:       strings.TrimSpace(*req.Title),
		Description: req.Description,
	}
	if input.Title == "" {
		return domain.CreateTaskInput{}, ErrInvalidTaskPayload
	}

	if req.Priority != nil {
		priority, ok := domain.ParsePriority(*req.Priority)
		if !ok {
			return domain.CreateTaskInput{}, ErrInvalidTaskPayload
		}
		input.Priority = priority
	}

	if req.Category != nil {
		category, ok := domain.ParseCategory(*req.Category)
		if !ok {
			return domain.CreateTaskInput{}, ErrInvalidTaskPayload
		}
		input.Category = category
	}

	if req.DueDate != nil {
		dueDate, err := ParseWireTime(*req.DueDate)
		if err != nil {
			return domain.CreateTaskInput{}, ErrInvalidTaskPayload
		}
		input.DueDate = &dueDate
	}

	return input, nil
}

// BuildUpdateTaskInput keeps only the mutable keys present in raw. Keys such as id,
// created_at or ai_generated are ignored; a body without any mutable key is rejected.
func BuildUpdateTaskInput(req dto.UpdateTaskRequest, raw map[string]json.RawMessage) (domain.UpdateTaskInput, error) {
	if !hasTaskUpdateFields(raw) {
		return domain.UpdateTaskInput{}, ErrInvalidTaskPayload
	}

	var input domain.UpdateTaskInput

	if hasJSONField(raw, "title") {
		if req.Title == nil {
			return domain.UpdateTaskInput{}, ErrInvalidTaskPayload
		}
		value := strings.TrimSpace(*req.Title)
		if value == "" {
			return domain.UpdateTaskInput{}, ErrInvalidTaskPayload
		}
		input.Title = &value
	}

	input.DescriptionSet = hasJSONField(raw, "description")
	input.Description = req.Description

	if hasJSONField(raw, "completed") && req.Completed == nil {
		return domain.UpdateTaskInput{}, ErrInvalidTaskPayload
	}
	input.Completed = req.Completed

	if hasJSONField(raw, "priority") {
		if req.Priority == nil {
			return domain.UpdateTaskInput{}, ErrInvalidTaskPayload
		}
		priority, ok := domain.ParsePriority(*req.Priority)
		if !ok {
			return domain.UpdateTaskInput{}, ErrInvalidTaskPayload
		}
		input.Priority = &priority
	}

	if hasJSONField(raw, "category") {
		if req.Category == nil {
			return domain.UpdateTaskInput{}, ErrInvalidTaskPayload
		}
		category, ok := domain.ParseCategory(*req.Category)
		if !ok {
			return domain.UpdateTaskInput{}, ErrInvalidTaskPayload
		}
		input.Category = &category
	}

	input.DueDateSet = hasJSONField(raw, "due_date")
	if input.DueDateSet && !isJSONNull(raw["due_date"]) {
		if req.DueDate == nil {
			return domain.UpdateTaskInput{}, ErrInvalidTaskPayload
		}
		dueDate, err := ParseWireTime(*req.DueDate)
		if err != nil {
			return domain.UpdateTaskInput{}, ErrInvalidTaskPayload
		}
		input.DueDate = &dueDate
	}

	return input, nil
}

// BuildTaskFilter reads ?completed=&skip=&limit=. Pagination applies only when
// skip or limit is given; limit then defaults to and is capped at MaxPageLimit.
func BuildTaskFilter(completed, skip, limit string) (domain.TaskFilter, error) {
	var filter domain.TaskFilter

	if completed != "" {
		value, err := strconv.ParseBool(completed)
		if err != nil {
			return domain.TaskFilter{}, ErrInvalidTaskQuery
		}
		filter.Completed = &value
	}

	if skip == "" && limit == "" {
		return filter, nil
	}

	filter.Limit = MaxPageLimit
	if skip != "" {
		value, err := strconv.Atoi(skip)
		if err != nil || value < 0 {
			return domain.TaskFilter{}, ErrInvalidTaskQuery
		}
		filter.Offset = value
	}
	if limit != "" {
		value, err := strconv.Atoi(limit)
		if err != nil || value < 1 || value > MaxPageLimit {
			return domain.TaskFilter{}, ErrInvalidTaskQuery
		}
		filter.Limit = value
	}

	return filter, nil
}

// ParseWireTime accepts RFC3339 and the zone-less ISO forms, read as UTC.
func ParseWireTime(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	var lastErr error
	for _, layout := range wireTimeLayouts {
		parsed, err := time.Parse(layout, value)
		if err == nil {
			return parsed.UTC(), nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

func hasTaskUpdateFields(raw map[string]json.RawMessage) bool {
	return hasJSONField(raw, "title") ||
		hasJSONField(raw, "description") ||
		hasJSONField(raw, "completed") ||
		hasJSONField(raw, "priority") ||
		hasJSONField(raw, "category") ||
		hasJSONField(raw, "due_date")
}

func hasJSONField(raw map[string]json.RawMessage, field string) bool {
	_, ok := raw[field]
	return ok
}

func isJSONNull(value json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(value), []byte("null"))
}
