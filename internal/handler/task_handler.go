package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/imartins/task-api/internal/domain"
	"github.com/imartins/task-api/internal/dto"
	"github.com/imartins/task-api/internal/repository"
	"github.com/imartins/task-api/internal/service"
)

// TaskHandler handles the user-scoped task resource
type TaskHandler struct {
	taskService service.TaskService
}

// NewTaskHandler creates a new task handler
func NewTaskHandler(taskService service.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
	}
}

// List returns all tasks of the authenticated user
func (h *TaskHandler) List(c *gin.Context) {
	tasks, err := h.taskService.List(c.Request.Context(), c.GetInt64(userIDKey))
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: err.Error()})
		return
	}

	if tasks == nil {
		tasks = []*domain.Task{}
	}

	c.JSON(http.StatusOK, tasks)
}

// Get returns a single task of the authenticated user
func (h *TaskHandler) Get(c *gin.Context) {
	id, ok := taskID(c)
	if !ok {
		return
	}

	task, err := h.taskService.Get(c.Request.Context(), id, c.GetInt64(userIDKey))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			respondTaskNotFound(c, id)
			return
		}
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: err.Error()})
		return
	}

	c.JSON(http.StatusOK, task)
}

// Create creates a task for the authenticated user
func (h *TaskHandler) Create(c *gin.Context) {
	var req dto.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "invalid request body"})
		return
	}

	task, err := h.taskService.Create(c.Request.Context(), c.GetInt64(userIDKey), &req)
	if err != nil {
		var validationErr *service.ValidationError
		if errors.As(err, &validationErr) {
			c.JSON(http.StatusUnprocessableEntity, dto.ValidationErrorResponse{Errors: validationErr.Errors})
			return
		}
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: err.Error()})
		return
	}

	c.JSON(http.StatusCreated, dto.CreatedResponse{Message: "Task created", ID: task.ID})
}

// Update applies a partial update to a task of the authenticated user
func (h *TaskHandler) Update(c *gin.Context) {
	id, ok := taskID(c)
	if !ok {
		return
	}

	var req dto.UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "invalid request body"})
		return
	}

	userID := c.GetInt64(userIDKey)

	if _, err := h.taskService.Get(c.Request.Context(), id, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			respondTaskNotFound(c, id)
			return
		}
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: err.Error()})
		return
	}

	rows, err := h.taskService.Update(c.Request.Context(), id, userID, &req)
	if err != nil {
		var validationErr *service.ValidationError
		if errors.As(err, &validationErr) {
			c.JSON(http.StatusUnprocessableEntity, dto.ValidationErrorResponse{Errors: validationErr.Errors})
			return
		}
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: err.Error()})
		return
	}

	c.JSON(http.StatusOK, dto.RowsResponse{Message: "Task updated", Rows: rows})
}

// Delete removes a task of the authenticated user
func (h *TaskHandler) Delete(c *gin.Context) {
	id, ok := taskID(c)
	if !ok {
		return
	}

	userID := c.GetInt64(userIDKey)

	if _, err := h.taskService.Get(c.Request.Context(), id, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			respondTaskNotFound(c, id)
			return
		}
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: err.Error()})
		return
	}

	rows, err := h.taskService.Delete(c.Request.Context(), id, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: err.Error()})
		return
	}

	c.JSON(http.StatusOK, dto.RowsResponse{Message: "Task deleted", Rows: rows})
}

func taskID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, dto.ErrorResponse{
			Message: fmt.Sprintf("The task with the id %s was not found", c.Param("id")),
		})
		return 0, false
	}
	return id, true
}

func respondTaskNotFound(c *gin.Context, id int64) {
	c.JSON(http.StatusNotFound, dto.ErrorResponse{
		Message: fmt.Sprintf("The task with the id %d was not found", id),
	})
}
