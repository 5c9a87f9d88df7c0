package domain

import "time"

// TaskDraft is a candidate task derived from free text. It is never stored as is.
type TaskDraft struct {
	Title       string
	Description *string
	Priority    Priority
	Category    Category
	DueDate     *time.Time
	Confidence  float64
}

// ToCreateInput promotes the draft into a task creation request.
func (d TaskDraft) ToCreateInput() CreateTaskInput {
	return CreateTaskInput{
		Title:       d.Title,
		Description: d.Description,
		Priority:    d.Priority,
		Category:    d.Category,
		DueDate:     d.DueDate,
		AIGenerated: true,
	}
}

type AIStatus struct {
	Available bool
	Model     string
}

type Prioritization struct {
	Tasks     []Task
	Reasoning string
}

type TaskStats struct {
	Total      int
	Completed  int
	ByCategory map[Category]int
	ByPriority map[Priority]int
}

// NewTaskStats returns stats with every category and priority present at zero.
func NewTaskStats() TaskStats {
	stats := TaskStats{
		ByCategory: make(map[Category]int, len(Categories)),
		ByPriority: make(map[Priority]int, len(Priorities)),
	}
	for _, c := range Categories {
		stats.ByCategory[c] = 0
	}
	for _, p := range Priorities {
		stats.ByPriority[p] = 0
	}
	return stats
}

func (s TaskStats) CompletionRate() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Completed) / float64(s.Total)
}

type Insights struct {
	Stats          TaskStats
	CompletionRate float64
	Summary        string
	Tips           []string
}
