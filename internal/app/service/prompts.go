package service

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"taskmanager/internal/core/domain"
)

// Version tag sent with every prompt. Bump it whenever a reply shape changes.
const (
	taskDraftSchemaVersion = "task-draft/v1"
	taskOrderSchemaVersion = "task-order/v1"
	insightsSchemaVersion  = "insights/v1"
)

const recentTitlesLimit = 10

func buildParsePrompt(text string, today time.Time) string {
	var b strings.Builder

	b.WriteString("schema_version: ")
	b.WriteString(taskDraftSchemaVersion)
	b.WriteString("\n")
	b.WriteString("Parse this natural language task description into structured JSON.\n\n")

	b.WriteString("input: ")
	b.WriteString(fmt.Sprintf("%q", text))
	b.WriteString("\n")
	b.WriteString("today: ")
	b.WriteString(today.Format("2006-01-02"))
	b.WriteString("\n\n")

	b.WriteString("Extract:\n")
	b.WriteString("- title: a clear, concise task title\n")
	b.WriteString("- description: additional details, or null\n")
	b.WriteString("- priority: one of [")
	b.WriteString(joinPriorities())
	b.WriteString("] based on urgency words\n")
	b.WriteString("- category: one of [")
	b.WriteString(joinCategories())
	b.WriteString("]\n")
	b.WriteString("- due_date: ISO 8601 datetime relative to today if mentioned, or null\n")
	b.WriteString("- confidence: your confidence score between 0.0 and 1.0\n\n")

	b.WriteString("Respond ONLY with valid JSON, no other text:\n")
	b.WriteString(`{"title": "...", "description": "...", "priority": "...", "category": "...", "due_date": "...", "confidence": 0.0}`)
	b.WriteString("\n")

	return b.String()
}

func buildPrioritizePrompt(tasks []domain.Task) string {
	var b strings.Builder

	b.WriteString("schema_version: ")
	b.WriteString(taskOrderSchemaVersion)
	b.WriteString("\n")
	b.WriteString("Prioritize these tasks and explain why:\n\n")

	for _, task := range tasks {
		due := "none"
		if task.DueDate != nil {
			due = task.DueDate.Format(time.RFC3339)
		}
		b.WriteString(fmt.Sprintf("- ID %d: %s (priority: %s, due: %s, category: %s)\n",
			task.ID, task.Title, task.Priority, due, task.Category))
	}

	b.WriteString("\nConsider due dates first, then category importance, then task complexity.\n\n")
	b.WriteString("Respond ONLY with valid JSON:\n")
	b.WriteString(`{"order": [id1, id2, ...], "reasoning": "brief explanation"}`)
	b.WriteString("\n")

	return b.String()
}

func buildCategorizePrompt(task domain.Task) string {
	var b strings.Builder

	b.WriteString("Categorize this task into one of: ")
	b.WriteString(joinCategories())
	b.WriteString("\n\n")

	b.WriteString("task: ")
	b.WriteString(task.Title)
	b.WriteString("\n")

	if task.Description != nil && *task.Description != "" {
		b.WriteString("description: ")
		b.WriteString(*task.Description)
		b.WriteString("\n")
	}

	b.WriteString("\nRespond with just the category word, nothing else.\n")

	return b.String()
}

func buildInsightsPrompt(stats domain.TaskStats, recent []domain.Task) string {
	var b strings.Builder

	b.WriteString("schema_version: ")
	b.WriteString(insightsSchemaVersion)
	b.WriteString("\n")
	b.WriteString("You are a productivity coach. Based on this task data:\n\n")

	b.WriteString(fmt.Sprintf("total tasks: %d\n", stats.Total))
	b.WriteString(fmt.Sprintf("completed: %d\n", stats.Completed))
	b.WriteString(fmt.Sprintf("completion rate: %.1f%%\n", stats.CompletionRate()*100))
	b.WriteString("by category: ")
	b.WriteString(formatCounts(categoryCounts(stats.ByCategory)))
	b.WriteString("\n")
	b.WriteString("by priority: ")
	b.WriteString(formatCounts(priorityCounts(stats.ByPriority)))
	b.WriteString("\n")

	if len(recent) > 0 {
		b.WriteString("recent tasks:\n")
		for _, task := range recent {
			state := "open"
			if task.Completed {
				state = "done"
			}
			b.WriteString(fmt.Sprintf("- %s (%s)\n", task.Title, state))
		}
	}

	b.WriteString("\nProvide a brief summary (2-3 sentences) and 3 specific tips to improve productivity.\n")
	b.WriteString("Respond ONLY with valid JSON:\n")
	b.WriteString(`{"summary": "...", "tips": ["tip1", "tip2", "tip3"]}`)
	b.WriteString("\n")

	return b.String()
}

func joinPriorities() string {
	names := make([]string, 0, len(domain.Priorities))
	for _, p := range domain.Priorities {
		names = append(names, string(p))
	}
	return strings.Join(names, ", ")
}

func joinCategories() string {
	names := make([]string, 0, len(domain.Categories))
	for _, c := range domain.Categories {
		names = append(names, string(c))
	}
	return strings.Join(names, ", ")
}

func categoryCounts(counts map[domain.Category]int) map[string]int {
	out := make(map[string]int, len(counts))
	for k, v := range counts {
		out[string(k)] = v
	}
	return out
}

func priorityCounts(counts map[domain.Priority]int) map[string]int {
	out := make(map[string]int, len(counts))
	for k, v := range counts {
		out[string(k)] = v
	}
	return out
}

// formatCounts renders non-zero counts sorted by key so prompts stay stable.
func formatCounts(counts map[string]int) string {
	keys := make([]string, 0, len(counts))
	for k, v := range counts {
		if v > 0 {
			keys = append(keys, k)
		}
	}
	if len(keys) == 0 {
		return "none"
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%d", k, counts[k]))
	}
	return strings.Join(parts, ", ")
}
