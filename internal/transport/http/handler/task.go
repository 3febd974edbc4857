package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/ErlanBelekov/todo-api/internal/domain"
	"github.com/ErlanBelekov/todo-api/internal/metrics"
	"github.com/ErlanBelekov/todo-api/internal/transport/http/middleware"
	"github.com/ErlanBelekov/todo-api/internal/usecase"
	"github.com/gin-gonic/gin"
)

type taskUsecaser interface {
	ListTasks(ctx context.Context, userID int64) ([]*domain.Task, error)
	CreateTask(ctx context.Context, input usecase.CreateTaskInput) (*domain.Task, error)
	UpdateTask(ctx context.Context, userID, taskID int64, patch domain.TaskPatch) (*domain.Task, error)
	DeleteTask(ctx context.Context, userID, taskID int64) error
}

type TaskHandler struct {
	taskUsecase taskUsecaser
	logger      *slog.Logger
}

func NewTaskHandler(taskUsecase taskUsecaser, logger *slog.Logger) *TaskHandler {
	return &TaskHandler{taskUsecase: taskUsecase, logger: logger.With("component", "task_handler")}
}

type createTaskRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
}

// updateTaskRequest keeps "absent" and "null" apart for description, which
// can be cleared. For title and isCompleted null means unchanged.
type updateTaskRequest struct {
	Title       *string        `json:"title"`
	Description optionalString `json:"description"`
	IsCompleted *bool          `json:"isCompleted"`
}

// optionalString records whether its key appeared in the JSON object.
// UnmarshalJSON is only invoked for present keys.
type optionalString struct {
	set   bool
	value *string
}

func (o *optionalString) UnmarshalJSON(data []byte) error {
	o.set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		o.value = nil
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	o.value = &s
	return nil
}

type taskResponse struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	IsCompleted bool      `json:"isCompleted"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func toTaskResponse(t *domain.Task) taskResponse {
	return taskResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		IsCompleted: t.IsCompleted,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

// GET /tasks
func (h *TaskHandler) List(c *gin.Context) {
	tasks, err := h.taskUsecase.ListTasks(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		h.logger.ErrorContext(c.Request.Context(), "list tasks", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errListFailed})
		return
	}

	items := make([]taskResponse, len(tasks))
	for i, t := range tasks {
		items[i] = toTaskResponse(t)
	}
	c.JSON(http.StatusOK, gin.H{"tasks": items})
}

// POST /tasks
func (h *TaskHandler) Create(c *gin.Context) {
	var req createTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBody})
		return
	}

	task, err := h.taskUsecase.CreateTask(c.Request.Context(), usecase.CreateTaskInput{
		UserID:      middleware.UserID(c),
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		var vErr *domain.ValidationError
		switch {
		case errors.As(err, &vErr):
			c.JSON(http.StatusBadRequest, gin.H{"error": vErr.Message})
		case errors.Is(err, domain.ErrUserNotFound):
			c.JSON(http.StatusForbidden, gin.H{"error": errTokenInvalid})
		default:
			h.logger.ErrorContext(c.Request.Context(), "create task", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": errCreateFailed})
		}
		return
	}

	metrics.TaskOperationsTotal.WithLabelValues("create").Inc()
	c.JSON(http.StatusCreated, gin.H{"task": toTaskResponse(task)})
}

// PUT /tasks/:id
func (h *TaskHandler) Update(c *gin.Context) {
	taskID, ok := taskIDParam(c)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": errTaskNotFound})
		return
	}

	// An absent body is an empty patch and still refreshes updated_at.
	var req updateTaskRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
			c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBody})
			return
		}
	}

	patch := domain.TaskPatch{
		Title:       req.Title,
		Description: domain.OptionalString{Set: req.Description.set, Value: req.Description.value},
		IsCompleted: req.IsCompleted,
	}

	task, err := h.taskUsecase.UpdateTask(c.Request.Context(), middleware.UserID(c), taskID, patch)
	if err != nil {
		var vErr *domain.ValidationError
		switch {
		case errors.As(err, &vErr):
			c.JSON(http.StatusBadRequest, gin.H{"error": vErr.Message})
		case errors.Is(err, domain.ErrTaskNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": errTaskNotFound})
		default:
			h.logger.ErrorContext(c.Request.Context(), "update task", "task_id", taskID, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": errUpdateFailed})
		}
		return
	}

	metrics.TaskOperationsTotal.WithLabelValues("update").Inc()
	c.JSON(http.StatusOK, gin.H{"task": toTaskResponse(task)})
}

// DELETE /tasks/:id
func (h *TaskHandler) Delete(c *gin.Context) {
	taskID, ok := taskIDParam(c)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": errTaskNotFound})
		return
	}

	err := h.taskUsecase.DeleteTask(c.Request.Context(), middleware.UserID(c), taskID)
	if err != nil {
		if errors.Is(err, domain.ErrTaskNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": errTaskNotFound})
			return
		}
		h.logger.ErrorContext(c.Request.Context(), "delete task", "task_id", taskID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errDeleteFailed})
		return
	}

	metrics.TaskOperationsTotal.WithLabelValues("delete").Inc()
	c.Status(http.StatusNoContent)
}

// taskIDParam parses :id. Anything that cannot name a task is reported as
// not found rather than as a bad request.
func taskIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
