package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"taskmanager/internal/adapter/http/dto"
	"taskmanager/internal/adapter/http/mapper"
	"taskmanager/internal/adapter/http/middleware"
	"taskmanager/internal/adapter/http/validation"
	"taskmanager/internal/core/ports"
	"taskmanager/pkg/apierrors"
)

type TaskHandler struct {
	taskService ports.TaskService
}

func NewTaskHandler(taskService ports.TaskService) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

func (h *TaskHandler) ListTasks(c *gin.Context) {
	filter, err := validation.BuildTaskFilter(c.Query("completed"), c.Query("skip"), c.Query("limit"))
	if err != nil {
		writeBadRequest(c, apierrors.MsgInvalidTaskQuery)
		return
	}

	list, err := h.taskService.ListTasks(c.Request.Context(), filter)
	if err != nil {
		writeError(c, err, apierrors.MsgInvalidTaskQuery, apierrors.MsgFailListTask)
		return
	}

	c.JSON(http.StatusOK, mapper.ToTaskList(list))
}

func (h *TaskHandler) GetTask(c *gin.Context) {
	taskID, ok := parseTaskID(c)
	if !ok {
		return
	}

	task, err := h.taskService.GetTask(c.Request.Context(), taskID)
	if err != nil {
		writeError(c, err, apierrors.MsgInvalidTaskID, apierrors.MsgFailGetTask)
		return
	}

	c.JSON(http.StatusOK, mapper.ToTaskItem(task))
}

func (h *TaskHandler) CreateTask(c *gin.Context) {
	var req dto.CreateTaskRequest
	raw, ok := bindTaskBody(c, &req)
	if !ok {
		return
	}

	input, err := validation.BuildCreateTaskInput(req, raw)
	if err != nil {
		writeBadRequest(c, apierrors.MsgInvalidTaskPayload)
		return
	}

	task, err := h.taskService.CreateTask(c.Request.Context(), input)
	if err != nil {
		writeError(c, err, apierrors.MsgInvalidTaskPayload, apierrors.MsgFailCreateTask)
		return
	}

	c.JSON(http.StatusCreated, mapper.ToTaskItem(task))
}

func (h *TaskHandler) UpdateTask(c *gin.Context) {
	taskID, ok := parseTaskID(c)
	if !ok {
		return
	}

	var req dto.UpdateTaskRequest
	raw, ok := bindTaskBody(c, &req)
	if !ok {
		return
	}

	input, err := validation.BuildUpdateTaskInput(req, raw)
	if err != nil {
		writeBadRequest(c, apierrors.MsgInvalidTaskPayload)
		return
	}

	task, err := h.taskService.UpdateTask(c.Request.Context(), taskID, input)
	if err != nil {
		writeError(c, err, apierrors.MsgInvalidTaskPayload, apierrors.MsgFailUpdateTask)
		return
	}

	c.JSON(http.StatusOK, mapper.ToTaskItem(task))
}

func (h *TaskHandler) DeleteTask(c *gin.Context) {
	taskID, ok := parseTaskID(c)
	if !ok {
		return
	}

	if err := h.taskService.DeleteTask(c.Request.Context(), taskID); err != nil {
		writeError(c, err, apierrors.MsgInvalidTaskID, apierrors.MsgFailDeleteTask)
		return
	}

	message := apierrors.GetTransMsg(apierrors.MsgTaskDeleted, middleware.GetLang(c), map[string]interface{}{
		"ID": taskID,
	})
	c.JSON(http.StatusOK, dto.MessageResponse{Message: message})
}

// bindTaskBody decodes the body twice: once into req and once into a raw map so
// validation can tell an absent key from an explicit null.
func bindTaskBody(c *gin.Context, req any) (map[string]json.RawMessage, bool) {
	if err := c.ShouldBindBodyWith(req, binding.JSON); err != nil {
		writeBadRequest(c, apierrors.MsgInvalidTaskPayload)
		return nil, false
	}

	var raw map[string]json.RawMessage
	if err := c.ShouldBindBodyWith(&raw, binding.JSON); err != nil {
		writeBadRequest(c, apierrors.MsgInvalidTaskPayload)
		return nil, false
	}
	return raw, true
}
