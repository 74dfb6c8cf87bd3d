package ports

import (
	"context"

	"github.com/taskstack/task-tracker/internal/core/domain"
)

// CreateTaskInput carries all data needed to create a new task. DueDate is
// the raw string from the transport layer; the service parses and validates it.
type CreateTaskInput struct {
	Title       string
	Description string
	Status      string
	DueDate     string
	Actor       string
}

// UpdateTaskInput carries a partial update. Nil fields are left untouched.
type UpdateTaskInput struct {
	Title       *string
	Description *string
	Status      *string
	DueDate     *string
	Actor       string
}

// ListTasksInput carries the optional query predicates, raw from transport.
type ListTasksInput struct {
	Title   string
	Status  string
	DueDate string
}

// DeleteTaskResult confirms a deletion without echoing the removed record.
type DeleteTaskResult struct {
	Message string
}

// TaskService defines use-case operations for tasks.
type TaskService interface {
	Create(ctx context.Context, input CreateTaskInput) (*domain.Task, error)
	List(ctx context.Context, input ListTasksInput) ([]*domain.Task, error)
	Get(ctx context.Context, id string) (*domain.Task, error)
	Update(ctx context.Context, id string, input UpdateTaskInput) (*domain.Task, error)
	Delete(ctx context.Context, id string, actor string) (*DeleteTaskResult, error)
}
