package handler

import (
	"time"

	"github.com/taskstack/task-tracker/internal/core/domain"
)

type createTaskRequest struct {
	Title       string `json:"title"       validate:"required"`
	Description string `json:"description" validate:"required"`
	Status      string `json:"status"      validate:"required,oneof=OPEN IN_PROGRESS DONE"`
	DueDate     string `json:"due_date"    validate:"required"`
}

// updateTaskRequest carries a partial update: absent fields stay untouched,
// so every field is a pointer to distinguish "omitted" from "empty".
type updateTaskRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
	DueDate     *string `json:"due_date"`
}

type taskResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	DueDate     time.Time `json:"due_date"`
}

func toTaskResponse(t *domain.Task) taskResponse {
	return taskResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Status:      string(t.Status),
		DueDate:     t.DueDate,
	}
}

type activityEntryResponse struct {
	Action    string    `json:"action"`
	Title     string    `json:"title"`
	Actor     string    `json:"actor,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}
