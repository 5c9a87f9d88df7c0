package dto

type AIStatusResponse struct {
	Available bool    `json:"available"`
	Model     *string `json:"model"`
}

type ParseRequest struct {
	Text string `json:"text"`
}

type TaskDraftResponse struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Priority    string  `json:"priority"`
	Category    string  `json:"category"`
	DueDate     *string `json:"due_date"`
	Confidence  float64 `json:"confidence"`
}

type ParseAndCreateResponse struct {
	Message    string   `json:"message"`
	Task       TaskItem `json:"task"`
	Confidence float64  `json:"confidence"`
}

type PrioritizeRequest struct {
	TaskIDs []uint64 `json:"task_ids" binding:"required"`
}

type PrioritizeResponse struct {
	PrioritizedTasks []TaskItem `json:"prioritized_tasks"`
	Reasoning        string     `json:"reasoning"`
}

type CategorizeResponse struct {
	Message  string `json:"message"`
	TaskID   uint64 `json:"task_id"`
	Category string `json:"category"`
}

type InsightsResponse struct {
	TotalTasks      int            `json:"total_tasks"`
	CompletedTasks  int            `json:"completed_tasks"`
	CompletionRate  float64        `json:"completion_rate"`
	TasksByCategory map[string]int `json:"tasks_by_category"`
	TasksByPriority map[string]int `json:"tasks_by_priority"`
	AISummary       string         `json:"ai_summary"`
	AITips          []string       `json:"ai_tips"`
}
