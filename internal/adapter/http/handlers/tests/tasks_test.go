package tests

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"taskmanager/internal/adapter/http/dto"
	"taskmanager/internal/adapter/http/handlers"
	"taskmanager/internal/adapter/http/middleware"
	"taskmanager/internal/core/domain"
	"taskmanager/pkg/apierrors"
	"taskmanager/pkg/translator"
)

var (
	createdAt = time.Date(2026, 2, 13, 10, 20, 30, 0, time.UTC)
	updatedAt = time.Date(2026, 2, 13, 11, 20, 30, 0, time.UTC)
)

func newTaskRouter(svc *taskServiceMock) *gin.Engine {
	handler := handlers.NewTaskHandler(svc)

	router := gin.New()
	router.Use(middleware.LanguageMiddleware())
	router.GET("/tasks", handler.ListTasks)
	router.GET("/tasks/:id", handler.GetTask)
	router.POST("/tasks", handler.CreateTask)
	router.PUT("/tasks/:id", handler.UpdateTask)
	router.PATCH("/tasks/:id", handler.UpdateTask)
	router.DELETE("/tasks/:id", handler.DeleteTask)
	return router
}

func serve(router *gin.Engine, method, target, body, lang string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if lang != "" {
		req.Header.Set("Accept-Language", lang)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) apierrors.Err {
	t.Helper()
	var got apierrors.JsonErr
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	return got.ErrDetails
}

func sampleTask() domain.Task {
	description := "quarterly numbers"
	dueDate := time.Date(2026, 2, 20, 17, 0, 0, 0, time.UTC)
	return domain.Task{
		ID:          1,
		Title:       "Finish report",
		Description: &description,
		Priority:    domain.PriorityHigh,
		Category:    domain.CategoryWork,
		DueDate:     &dueDate,
		CreatedAt:   createdAt,
		UpdatedAt:   updatedAt,
	}
}

func TestTaskHandler_ListTasks_Success(t *testing.T) {
	svc := new(taskServiceMock)
	svc.On("ListTasks", mock.Anything, domain.TaskFilter{}).Return(
		domain.TaskList{Tasks: []domain.Task{sampleTask()}, Total: 1}, nil,
	).Once()

	rec := serve(newTaskRouter(svc), http.MethodGet, "/tasks", "", translator.LanguageEn)
	require.Equal(t, http.StatusOK, rec.Code)

	var got dto.TaskListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Equal(t, 1, got.Total)
	require.Len(t, got.Tasks, 1)
	require.Equal(t, uint64(1), got.Tasks[0].ID)
	require.Equal(t, "Finish report", got.Tasks[0].Title)
	require.Equal(t, "quarterly numbers", *got.Tasks[0].Description)
	require.Equal(t, "high", got.Tasks[0].Priority)
	require.Equal(t, "work", got.Tasks[0].Category)
	require.Equal(t, "2026-02-20T17:00:00Z", *got.Tasks[0].DueDate)
	require.Equal(t, "2026-02-13T10:20:30Z", got.Tasks[0].CreatedAt)
	require.Equal(t, "2026-02-13T11:20:30Z", got.Tasks[0].UpdatedAt)
	require.False(t, got.Tasks[0].AIGenerated)
	svc.AssertExpectations(t)
}

func TestTaskHandler_ListTasks_EmptyIsArray(t *testing.T) {
	svc := new(taskServiceMock)
	svc.On("ListTasks", mock.Anything, mock.Anything).Return(domain.TaskList{}, nil).Once()

	rec := serve(newTaskRouter(svc), http.MethodGet, "/tasks", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"tasks":[],"total":0}`, rec.Body.String())
}

func TestTaskHandler_ListTasks_Filters(t *testing.T) {
	completed := true
	svc := new(taskServiceMock)
	svc.On("ListTasks", mock.Anything, domain.TaskFilter{Completed: &completed, Offset: 5, Limit: 10}).
		Return(domain.TaskList{Total: 12}, nil).Once()

	rec := serve(newTaskRouter(svc), http.MethodGet, "/tasks?completed=true&skip=5&limit=10", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	svc.AssertExpectations(t)
}

func TestTaskHandler_ListTasks_InvalidQuery(t *testing.T) {
	for _, query := range []string{"?completed=maybe", "?skip=-1", "?limit=0", "?limit=101", "?skip=abc"} {
		t.Run(query, func(t *testing.T) {
			svc := new(taskServiceMock)
			rec := serve(newTaskRouter(svc), http.MethodGet, "/tasks"+query, "", translator.LanguageEn)

			require.Equal(t, http.StatusBadRequest, rec.Code)
			require.Equal(t, "Invalid query parameters", decodeError(t, rec).Message)
			svc.AssertNotCalled(t, "ListTasks", mock.Anything, mock.Anything)
		})
	}
}

func TestTaskHandler_ListTasks_Error(t *testing.T) {
	svc := new(taskServiceMock)
	svc.On("ListTasks", mock.Anything, mock.Anything).Return(domain.TaskList{}, errors.New("db is down")).Once()

	rec := serve(newTaskRouter(svc), http.MethodGet, "/tasks", "", translator.LanguageEn)
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	got := decodeError(t, rec)
	require.Equal(t, http.StatusInternalServerError, got.Code)
	require.Equal(t, "failed to list tasks", got.Message)
}

func TestTaskHandler_GetTask(t *testing.T) {
	svc := new(taskServiceMock)
	svc.On("GetTask", mock.Anything, uint64(1)).Return(sampleTask(), nil).Once()
	svc.On("GetTask", mock.Anything, uint64(9)).Return(domain.Task{}, domain.ErrTaskNotFound).Once()
	router := newTaskRouter(svc)

	rec := serve(router, http.MethodGet, "/tasks/1", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var item dto.TaskItem
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &item))
	require.Equal(t, "Finish report", item.Title)

	rec = serve(router, http.MethodGet, "/tasks/9", "", translator.LanguageFr)
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, "Tâche introuvable", decodeError(t, rec).Message)

	svc.AssertExpectations(t)
}

func TestTaskHandler_GetTask_InvalidID(t *testing.T) {
	svc := new(taskServiceMock)
	router := newTaskRouter(svc)

	for _, id := range []string{"abc", "0", "-3"} {
		rec := serve(router, http.MethodGet, "/tasks/"+id, "", translator.LanguageEn)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Equal(t, "Invalid id", decodeError(t, rec).Message)
	}
	svc.AssertNotCalled(t, "GetTask", mock.Anything, mock.Anything)
}

func TestTaskHandler_CreateTask_Success(t *testing.T) {
	svc := new(taskServiceMock)
	svc.On("CreateTask", mock.Anything, mock.MatchedBy(func(in domain.CreateTaskInput) bool {
		return in.Title == "Finish report" &&
			in.Priority == domain.PriorityHigh &&
			in.Category == "" &&
			in.DueDate != nil && in.DueDate.Equal(time.Date(2026, 2, 20, 17, 0, 0, 0, time.UTC)) &&
			!in.AIGenerated
	})).Return(sampleTask(), nil).Once()

	body := `{"title":"  Finish report ","priority":"HIGH","due_date":"2026-02-20T17:00:00","ai_generated":true}`
	rec := serve(newTaskRouter(svc), http.MethodPost, "/tasks", body, "")

	require.Equal(t, http.StatusCreated, rec.Code)
	var item dto.TaskItem
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &item))
	require.Equal(t, uint64(1), item.ID)
	svc.AssertExpectations(t)
}

func TestTaskHandler_CreateTask_InvalidPayload(t *testing.T) {
	cases := map[string]string{
		"missing title": `{"priority":"low"}`,
		"blank title":   `{"title":"   "}`,
		"null title":    `{"title":null}`,
		"bad priority":  `{"title":"x","priority":"critical"}`,
		"null category": `{"title":"x","category":null}`,
		"bad category":  `{"title":"x","category":"hobby"}`,
		"bad due date":  `{"title":"x","due_date":"next tuesday"}`,
		"not json":      `title=x`,
		"wrong type":    `{"title":42}`,
		"array body":    `[]`,
		"priority type": `{"title":"x","priority":7}`,
	}

	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			svc := new(taskServiceMock)
			rec := serve(newTaskRouter(svc), http.MethodPost, "/tasks", body, translator.LanguageEn)

			require.Equal(t, http.StatusBadRequest, rec.Code)
			require.Equal(t, "Invalid task payload", decodeError(t, rec).Message)
			svc.AssertNotCalled(t, "CreateTask", mock.Anything, mock.Anything)
		})
	}
}

func TestTaskHandler_CreateTask_ServiceValidation(t *testing.T) {
	svc := new(taskServiceMock)
	svc.On("CreateTask", mock.Anything, mock.Anything).
		Return(domain.Task{}, fmt.Errorf("%w: title too long", domain.ErrValidation)).Once()

	rec := serve(newTaskRouter(svc), http.MethodPost, "/tasks", `{"title":"x"}`, translator.LanguageEn)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "Invalid task payload", decodeError(t, rec).Message)
}

func TestTaskHandler_UpdateTask_Partial(t *testing.T) {
	completed := true
	updated := sampleTask()
	updated.Completed = true

	svc := new(taskServiceMock)
	svc.On("UpdateTask", mock.Anything, uint64(1), domain.UpdateTaskInput{
		Completed:  &completed,
		DueDateSet: true,
	}).Return(updated, nil).Once()

	rec := serve(newTaskRouter(svc), http.MethodPatch, "/tasks/1", `{"completed":true,"due_date":null,"id":99}`, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var item dto.TaskItem
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &item))
	require.True(t, item.Completed)
	svc.AssertExpectations(t)
}

func TestTaskHandler_UpdateTask_PutBehavesLikePatch(t *testing.T) {
	title := "Renamed"
	svc := new(taskServiceMock)
	svc.On("UpdateTask", mock.Anything, uint64(1), domain.UpdateTaskInput{Title: &title}).
		Return(sampleTask(), nil).Once()

	rec := serve(newTaskRouter(svc), http.MethodPut, "/tasks/1", `{"title":" Renamed "}`, "")
	require.Equal(t, http.StatusOK, rec.Code)
	svc.AssertExpectations(t)
}

func TestTaskHandler_UpdateTask_Invalid(t *testing.T) {
	for name, body := range map[string]string{
		"empty body":     `{}`,
		"only immutable": `{"id":3,"created_at":"2026-01-01T00:00:00Z"}`,
		"null completed": `{"completed":null}`,
		"bad priority":   `{"priority":"asap"}`,
		"blank title":    `{"title":""}`,
		"bad due date":   `{"due_date":"soon"}`,
		"completed type": `{"completed":"yes"}`,
		"malformed json": `{"title":`,
		"null priority":  `{"priority":null}`,
		"bad category":   `{"category":"misc"}`,
	} {
		t.Run(name, func(t *testing.T) {
			svc := new(taskServiceMock)
			rec := serve(newTaskRouter(svc), http.MethodPatch, "/tasks/1", body, translator.LanguageEn)

			require.Equal(t, http.StatusBadRequest, rec.Code)
			svc.AssertNotCalled(t, "UpdateTask", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestTaskHandler_UpdateTask_NotFound(t *testing.T) {
	svc := new(taskServiceMock)
	svc.On("UpdateTask", mock.Anything, uint64(7), mock.Anything).Return(domain.Task{}, domain.ErrTaskNotFound).Once()

	rec := serve(newTaskRouter(svc), http.MethodPatch, "/tasks/7", `{"completed":false}`, translator.LanguageEn)
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, "Task not found", decodeError(t, rec).Message)
}

func TestTaskHandler_DeleteTask(t *testing.T) {
	svc := new(taskServiceMock)
	svc.On("DeleteTask", mock.Anything, uint64(4)).Return(nil).Once()
	svc.On("DeleteTask", mock.Anything, uint64(5)).Return(domain.ErrTaskNotFound).Once()
	svc.On("DeleteTask", mock.Anything, uint64(6)).Return(errors.New("db is down")).Once()
	router := newTaskRouter(svc)

	rec := serve(router, http.MethodDelete, "/tasks/4", "", translator.LanguageEn)
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"message":"Task 4 deleted successfully"}`, rec.Body.String())

	rec = serve(router, http.MethodDelete, "/tasks/5", "", translator.LanguageEn)
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = serve(router, http.MethodDelete, "/tasks/6", "", translator.LanguageFr)
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Equal(t, "Erreur lors de la suppression de la tâche", decodeError(t, rec).Message)

	svc.AssertExpectations(t)
}
