package ports

import (
	"context"
	"time"

	"github.com/taskstack/task-tracker/internal/core/domain"
)

// ActivityInput is the DTO handed from the task service to the activity
// pipeline. Timestamp is set by the producer at mutation time.
type ActivityInput struct {
	TaskID    string
	Action    string
	Title     string
	Actor     string
	Timestamp time.Time
}

// ActivityService processes queued activity entries and serves the trail.
type ActivityService interface {
	Record(ctx context.Context, input ActivityInput) error
	Trail(ctx context.Context, taskID string) ([]*domain.TaskActivity, error)
}
