package tests

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/suite"

	"taskmanager/internal/adapter/http/dto"
	"taskmanager/internal/core/ports"
)

type AIIntegrationSuite struct {
	IntegrationSuiteBase
}

func TestAIIntegrationSuite(t *testing.T) {
	suite.Run(t, new(AIIntegrationSuite))
}

func (s *AIIntegrationSuite) TestParseAndCreate() {
	s.Model.replies[ports.FormatTaskDraft] = "```json\n" +
		`{"title":"Call mom","priority":"HIGH","category":"personal","due_date":"2026-02-14","confidence":0.8}` +
		"\n```"

	rec := s.do(http.MethodPost, "/ai/parse", `{"text":"call mom tomorrow, important"}`)
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	var draft dto.TaskDraftResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &draft))
	s.Require().Equal("high", draft.Priority)

	var list dto.TaskListResponse
	s.Require().NoError(json.Unmarshal(s.do(http.MethodGet, "/tasks", "").Body.Bytes(), &list))
	s.Require().Zero(list.Total)

	rec = s.do(http.MethodPost, "/ai/parse-and-create", `{"text":"call mom tomorrow, important"}`)
	s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())
	var created dto.ParseAndCreateResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &created))
	s.Require().Equal("Task created successfully", created.Message)
	s.Require().True(created.Task.AIGenerated)
	s.Require().Equal("Call mom", created.Task.Title)
	s.Require().Equal("personal", created.Task.Category)
	s.Require().Equal("2026-02-14T00:00:00Z", *created.Task.DueDate)
	s.Require().InDelta(0.8, created.Confidence, 1e-9)
}

func (s *AIIntegrationSuite) TestParseAndCreateFailureCreatesNothing() {
	s.Model.replies[ports.FormatTaskDraft] = "I could not understand that."

	rec := s.do(http.MethodPost, "/ai/parse-and-create", `{"text":"??"}`)
	s.Require().Equal(http.StatusBadGateway, rec.Code)

	s.Model.err = errors.New("quota exceeded")
	rec = s.do(http.MethodPost, "/ai/parse-and-create", `{"text":"??"}`)
	s.Require().Equal(http.StatusBadGateway, rec.Code)

	var list dto.TaskListResponse
	s.Require().NoError(json.Unmarshal(s.do(http.MethodGet, "/tasks", "").Body.Bytes(), &list))
	s.Require().Zero(list.Total)
}

func (s *AIIntegrationSuite) TestPrioritize() {
	first := s.createTask(`{"title":"Water plants","priority":"low"}`)
	second := s.createTask(`{"title":"File taxes","priority":"urgent"}`)
	third := s.createTask(`{"title":"Book dentist"}`)
	s.Model.replies[ports.FormatTaskOrder] = fmt.Sprintf(`{"order":[%d,"%d"],"reasoning":"Taxes are due."}`, second.ID, first.ID)

	body := fmt.Sprintf(`{"task_ids":[%d,%d,%d,%d,424242]}`, first.ID, second.ID, third.ID, first.ID)
	rec := s.do(http.MethodPost, "/ai/prioritize", body)
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())

	var got dto.PrioritizeResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &got))
	s.Require().Equal("Taxes are due.", got.Reasoning)
	s.Require().Len(got.PrioritizedTasks, 3)
	s.Require().Equal(second.ID, got.PrioritizedTasks[0].ID)
	s.Require().Equal(first.ID, got.PrioritizedTasks[1].ID)
	s.Require().Equal(third.ID, got.PrioritizedTasks[2].ID)

	rec = s.do(http.MethodPost, "/ai/prioritize", `{"task_ids":[424242]}`)
	s.Require().Equal(http.StatusNotFound, rec.Code)
	s.Require().Equal("No tasks found", s.errorMessage(rec))
}

func (s *AIIntegrationSuite) TestCategorize() {
	task := s.createTask(`{"title":"Pay electricity bill"}`)
	s.Model.replies[ports.FormatText] = " Finance. "

	rec := s.do(http.MethodPost, fmt.Sprintf("/ai/categorize/%d", task.ID), "")
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	s.Require().JSONEq(
		fmt.Sprintf(`{"message":"Task categorized successfully","task_id":%d,"category":"finance"}`, task.ID),
		rec.Body.String(),
	)

	var stored dto.TaskItem
	s.Require().NoError(json.Unmarshal(s.do(http.MethodGet, fmt.Sprintf("/tasks/%d", task.ID), "").Body.Bytes(), &stored))
	s.Require().Equal("finance", stored.Category)

	rec = s.do(http.MethodPost, "/ai/categorize/424242", "")
	s.Require().Equal(http.StatusNotFound, rec.Code)
}

func (s *AIIntegrationSuite) TestInsights() {
	s.createTask(`{"title":"Write slides","category":"work"}`)
	s.createTask(`{"title":"Run 5k","category":"health","priority":"high"}`)
	s.Require().Equal(http.StatusOK, s.do(http.MethodPatch, "/tasks/1", `{"completed":true}`).Code)
	s.Model.replies[ports.FormatInsights] = `{"summary":"Balanced week.","tips":["Keep going"]}`

	rec := s.do(http.MethodGet, "/ai/insights", "")
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())

	var got dto.InsightsResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &got))
	s.Require().Equal(2, got.TotalTasks)
	s.Require().Equal(1, got.CompletedTasks)
	s.Require().InDelta(0.5, got.CompletionRate, 1e-9)
	s.Require().Equal(1, got.TasksByCategory["work"])
	s.Require().Equal(1, got.TasksByCategory["health"])
	s.Require().Equal(0, got.TasksByCategory["finance"])
	s.Require().Equal(1, got.TasksByPriority["high"])
	s.Require().Equal(1, got.TasksByPriority["medium"])
	s.Require().Equal("Balanced week.", got.AISummary)
	s.Require().Equal([]string{"Keep going"}, got.AITips)
}

func (s *AIIntegrationSuite) TestStatus() {
	rec := s.do(http.MethodGet, "/ai/status", "")
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Require().JSONEq(`{"available":true,"model":"scripted"}`, rec.Body.String())
}
