package taskclient

import (
	"encoding/json"
	"time"
)

type Task struct {
	ID          uint64     `json:"id"`
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	Completed   bool       `json:"completed"`
	Priority    string     `json:"priority"`
	Category    string     `json:"category"`
	DueDate     *time.Time `json:"due_date"`
	AIGenerated bool       `json:"ai_generated"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

type TaskList struct {
	Tasks []Task `json:"tasks"`
	Total int    `json:"total"`
}

type ListOptions struct {
	Completed *bool
	Skip      int
	// Limit of zero leaves pagination to the server.
	Limit int
}

type NewTask struct {
	Title       string     `json:"title"`
	Description *string    `json:"description,omitempty"`
	Priority    string     `json:"priority,omitempty"`
	Category    string     `json:"category,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
}

// TaskPatch is a partial update. Nil fields are not sent; ClearDescription and
// ClearDueDate send an explicit null.
type TaskPatch struct {
	Title            *string
	Description      *string
	ClearDescription bool
	Completed        *bool
	Priority         *string
	Category         *string
	DueDate          *time.Time
	ClearDueDate     bool
}

func (p TaskPatch) MarshalJSON() ([]byte, error) {
	body := make(map[string]any, 6)
	if p.Title != nil {
		body["title"] = *p.Title
	}
	switch {
	case p.ClearDescription:
		body["description"] = nil
	case p.Description != nil:
		body["description"] = *p.Description
	}
	if p.Completed != nil {
		body["completed"] = *p.Completed
	}
	if p.Priority != nil {
		body["priority"] = *p.Priority
	}
	if p.Category != nil {
		body["category"] = *p.Category
	}
	switch {
	case p.ClearDueDate:
		body["due_date"] = nil
	case p.DueDate != nil:
		body["due_date"] = p.DueDate.UTC().Format(time.RFC3339)
	}
	return json.Marshal(body)
}

type AIStatus struct {
	Available bool    `json:"available"`
	Model     *string `json:"model"`
}

type TaskDraft struct {
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	Priority    string     `json:"priority"`
	Category    string     `json:"category"`
	DueDate     *time.Time `json:"due_date"`
	Confidence  float64    `json:"confidence"`
}

type ParseAndCreateResult struct {
	Message    string  `json:"message"`
	Task       Task    `json:"task"`
	Confidence float64 `json:"confidence"`
}

type Prioritization struct {
	Tasks     []Task `json:"prioritized_tasks"`
	Reasoning string `json:"reasoning"`
}

type Categorization struct {
	Message  string `json:"message"`
	TaskID   uint64 `json:"task_id"`
	Category string `json:"category"`
}

type Insights struct {
	TotalTasks      int            `json:"total_tasks"`
	CompletedTasks  int            `json:"completed_tasks"`
	CompletionRate  float64        `json:"completion_rate"`
	TasksByCategory map[string]int `json:"tasks_by_category"`
	TasksByPriority map[string]int `json:"tasks_by_priority"`
	Summary         string         `json:"ai_summary"`
	Tips            []string       `json:"ai_tips"`
}
