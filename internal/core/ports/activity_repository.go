package ports

import (
	"context"

	"github.com/taskstack/task-tracker/internal/core/domain"
)

// ActivityRepository persists the task audit trail.
type ActivityRepository interface {
	Insert(ctx context.Context, activity *domain.TaskActivity) error
	// FindByTaskID returns the trail for one task, oldest first.
	FindByTaskID(ctx context.Context, taskID string) ([]*domain.TaskActivity, error)
}
