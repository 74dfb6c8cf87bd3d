package ports

import (
	"context"
	"time"

	"github.com/taskstack/task-tracker/internal/core/domain"
)

// TaskFilter carries the optional predicates for listing tasks. Zero-valued
// fields impose no constraint; an empty filter matches every task.
type TaskFilter struct {
	Title   string            // partial match, case-insensitive
	Status  domain.TaskStatus // exact match
	DueDate *time.Time        // exact calendar-date match
}

// TaskUpdate carries a partial update. Nil fields are left untouched.
type TaskUpdate struct {
	Title       *string
	Description *string
	Status      *domain.TaskStatus
	DueDate     *time.Time
}

// TaskRepository defines persistence operations for tasks.
type TaskRepository interface {
	Insert(ctx context.Context, task *domain.Task) (*domain.Task, error)
	// Find returns every task matching filter; result order is store-defined.
	Find(ctx context.Context, filter TaskFilter) ([]*domain.Task, error)
	FindByID(ctx context.Context, id string) (*domain.Task, error)
	// UpdateByID applies the non-nil fields of update and returns the
	// resulting task.
	UpdateByID(ctx context.Context, id string, update TaskUpdate) (*domain.Task, error)
	// DeleteByID removes the task and returns the removed record.
	DeleteByID(ctx context.Context, id string) (*domain.Task, error)
	// IsValidID reports whether id is a well-formed store identifier. The
	// format is store-specific and opaque to callers.
	IsValidID(id string) bool
}
