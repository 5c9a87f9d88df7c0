package domain

import (
	"strings"
	"time"
	"unicode/utf8"
)

const MaxTitleLength = 255

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// Priorities lists every priority from least to most pressing.
var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent}

func (p Priority) Valid() bool {
	for _, candidate := range Priorities {
		if p == candidate {
			return true
		}
	}
	return false
}

// ParsePriority matches value case-insensitively against the known priorities.
func ParsePriority(value string) (Priority, bool) {
	p := Priority(strings.ToLower(strings.TrimSpace(value)))
	return p, p.Valid()
}

type Category string

const (
	CategoryWork     Category = "work"
	CategoryPersonal Category = "personal"
	CategoryHealth   Category = "health"
	CategoryFinance  Category = "finance"
	CategoryLearning Category = "learning"
	CategoryErrands  Category = "errands"
	CategoryOther    Category = "other"
)

var Categories = []Category{
	CategoryWork,
	CategoryPersonal,
	CategoryHealth,
	CategoryFinance,
	CategoryLearning,
	CategoryErrands,
	CategoryOther,
}

func (c Category) Valid() bool {
	for _, candidate := range Categories {
		if c == candidate {
			return true
		}
	}
	return false
}

func ParseCategory(value string) (Category, bool) {
	c := Category(strings.ToLower(strings.TrimSpace(value)))
	return c, c.Valid()
}

type Task struct {
	ID          uint64
	Title       string
	Description *string
	Completed   bool
	Priority    Priority
	Category    Category
	DueDate     *time.Time
	AIGenerated bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type TaskFilter struct {
	Completed *bool
	Offset    int
	Limit     int
}

type TaskList struct {
	Tasks []Task
	Total int
}

type CreateTaskInput struct {
	Title       string
	Description *string
	Priority    Priority
	Category    Category
	DueDate     *time.Time
	AIGenerated bool
}

// UpdateTaskInput carries a partial update. Nil pointers leave the stored value
// untouched; DescriptionSet and DueDateSet allow clearing with an explicit null.
type UpdateTaskInput struct {
	Title          *string
	Description    *string
	DescriptionSet bool
	Completed      *bool
	Priority       *Priority
	Category       *Category
	DueDate        *time.Time
	DueDateSet     bool
}

func (in UpdateTaskInput) Empty() bool {
	return in.Title == nil &&
		!in.DescriptionSet &&
		in.Completed == nil &&
		in.Priority == nil &&
		in.Category == nil &&
		!in.DueDateSet
}

// Apply merges the provided fields into task. Identity and creation time are never
// touched.
func (in UpdateTaskInput) Apply(task *Task) {
	if in.Title != nil {
		task.Title = *in.Title
	}
	if in.DescriptionSet {
		task.Description = in.Description
	}
	if in.Completed != nil {
		task.Completed = *in.Completed
	}
	if in.Priority != nil {
		task.Priority = *in.Priority
	}
	if in.Category != nil {
		task.Category = *in.Category
	}
	if in.DueDateSet {
		task.DueDate = in.DueDate
	}
}

// NormalizeTitle trims title and reports whether it satisfies the length rules.
func NormalizeTitle(title string) (string, bool) {
	title = strings.TrimSpace(title)
	if title == "" || utf8.RuneCountInString(title) > MaxTitleLength {
		return title, false
	}
	return title, true
}

// TruncateRunes cuts s to at most n runes.
func TruncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n])
}
