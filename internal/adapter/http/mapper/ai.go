package mapper

import (
	"taskmanager/internal/adapter/http/dto"
	"taskmanager/internal/core/domain"
)

func ToAIStatus(status domain.AIStatus) dto.AIStatusResponse {
	resp := dto.AIStatusResponse{Available: status.Available}
	if status.Available {
		model := status.Model
		resp.Model = &model
	}
	return resp
}

func ToTaskDraft(draft domain.TaskDraft) dto.TaskDraftResponse {
	resp := dto.TaskDraftResponse{
		Title:      draft.Title,
		Priority:   string(draft.Priority),
		Category:   string(draft.Category),
		DueDate:    formatTime(draft.DueDate),
		Confidence: draft.Confidence,
	}
	if draft.Description != nil {
		value := *draft.Description
		resp.Description = &value
	}
	return resp
}

func ToPrioritize(result domain.Prioritization) dto.PrioritizeResponse {
	return dto.PrioritizeResponse{
		PrioritizedTasks: ToTaskItems(result.Tasks),
		Reasoning:        result.Reasoning,
	}
}

func ToInsights(insights domain.Insights) dto.InsightsResponse {
	byCategory := make(map[string]int, len(insights.Stats.ByCategory))
	for category, count := range insights.Stats.ByCategory {
		byCategory[string(category)] = count
	}
	byPriority := make(map[string]int, len(insights.Stats.ByPriority))
	for priority, count := range insights.Stats.ByPriority {
		byPriority[string(priority)] = count
	}

	tips := insights.Tips
	if tips == nil {
		tips = []string{}
	}

	return dto.InsightsResponse{
		TotalTasks:      insights.Stats.Total,
		CompletedTasks:  insights.Stats.Completed,
		CompletionRate:  insights.CompletionRate,
		TasksByCategory: byCategory,
		TasksByPriority: byPriority,
		AISummary:       insights.Summary,
		AITips:          tips,
	}
}
