package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/taskstack/task-tracker/internal/api/metrics"
	"github.com/taskstack/task-tracker/internal/core/ports"
)

// TaskHandler handles HTTP requests for task operations.
type TaskHandler struct {
	service  ports.TaskService
	activity ports.ActivityService
}

func NewTaskHandler(service ports.TaskService, activity ports.ActivityService) *TaskHandler {
	return &TaskHandler{service: service, activity: activity}
}

// Create handles POST /v1/tasks.
//
// @Summary      Create a new task
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createTaskRequest  true  "Task details"
// @Success      201   {object}  taskResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /v1/tasks [post]
func (h *TaskHandler) Create(c echo.Context) error {
	var req createTaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	task, err := h.service.Create(c.Request().Context(), ports.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		DueDate:     req.DueDate,
		Actor:       ctxUsername(c),
	})
	if err != nil {
		return err
	}

	metrics.TasksCreatedTotal.WithLabelValues(string(task.Status)).Inc()
	return c.JSON(http.StatusCreated, toTaskResponse(task))
}

// List handles GET /v1/tasks with optional title/status/due_date filters.
//
// @Summary      List tasks
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Param        title     query     string  false  "Case-insensitive substring match on title"
// @Param        status    query     string  false  "Exact status match (OPEN, IN_PROGRESS, DONE)"
// @Param        due_date  query     string  false  "Exact due date (RFC3339 or YYYY-MM-DD)"
// @Success      200       {array}   taskResponse
// @Failure      400       {object}  map[string]string
// @Router       /v1/tasks [get]
func (h *TaskHandler) List(c echo.Context) error {
	tasks, err := h.service.List(c.Request().Context(), ports.ListTasksInput{
		Title:   c.QueryParam("title"),
		Status:  c.QueryParam("status"),
		DueDate: c.QueryParam("due_date"),
	})
	if err != nil {
		return err
	}

	resp := make([]taskResponse, 0, len(tasks))
	for _, t := range tasks {
		resp = append(resp, toTaskResponse(t))
	}
	return c.JSON(http.StatusOK, resp)
}

// Get handles GET /v1/tasks/:id.
//
// @Summary      Get a task by id
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Task id"
// @Success      200  {object}  taskResponse
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /v1/tasks/{id} [get]
func (h *TaskHandler) Get(c echo.Context) error {
	task, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toTaskResponse(task))
}

// Update handles PATCH /v1/tasks/:id. Only the supplied fields change.
//
// @Summary      Update a task
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "Task id"
// @Param        body  body      updateTaskRequest  true  "Fields to change"
// @Success      200   {object}  taskResponse
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /v1/tasks/{id} [patch]
func (h *TaskHandler) Update(c echo.Context) error {
	var req updateTaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	task, err := h.service.Update(c.Request().Context(), c.Param("id"), ports.UpdateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		DueDate:     req.DueDate,
		Actor:       ctxUsername(c),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toTaskResponse(task))
}

// Delete handles DELETE /v1/tasks/:id. The deleted record is never echoed.
//
// @Summary      Delete a task
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Task id"
// @Success      200  {object}  messageResponse
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /v1/tasks/{id} [delete]
func (h *TaskHandler) Delete(c echo.Context) error {
	result, err := h.service.Delete(c.Request().Context(), c.Param("id"), ctxUsername(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: result.Message})
}

// Activity handles GET /v1/tasks/:id/activity — the task's audit trail.
//
// @Summary      Get a task's activity trail
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Task id"
// @Success      200  {array}   activityEntryResponse
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /v1/tasks/{id}/activity [get]
func (h *TaskHandler) Activity(c echo.Context) error {
	id := c.Param("id")

	// Resolve the task first so malformed and absent ids fail the same way
	// as every other task operation.
	if _, err := h.service.Get(c.Request().Context(), id); err != nil {
		return err
	}

	entries, err := h.activity.Trail(c.Request().Context(), id)
	if err != nil {
		return err
	}

	resp := make([]activityEntryResponse, 0, len(entries))
	for _, e := range entries {
		resp = append(resp, activityEntryResponse{
			Action:    string(e.Action),
			Title:     e.Title,
			Actor:     e.Actor,
			Timestamp: e.Timestamp,
		})
	}
	return c.JSON(http.StatusOK, resp)
}
