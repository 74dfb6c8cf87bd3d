package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/taskstack/task-tracker/internal/core/domain"
	"github.com/taskstack/task-tracker/internal/core/ports"
)

type activityService struct {
	repo ports.ActivityRepository
	log  zerolog.Logger
}

// NewActivityService returns an ActivityService implementation.
func NewActivityService(repo ports.ActivityRepository, log zerolog.Logger) ports.ActivityService {
	return &activityService{repo: repo, log: log}
}

// Record persists a single audit trail entry.
func (s *activityService) Record(ctx context.Context, in ports.ActivityInput) error {
	action := domain.ActivityAction(in.Action)
	switch action {
	case domain.ActionCreated, domain.ActionUpdated, domain.ActionDeleted:
	default:
		return fmt.Errorf("record activity: unknown action %q", in.Action)
	}

	ts := in.Timestamp
	if ts.IsZero() {
		ts = time.Now().UTC()
	}

	activity := &domain.TaskActivity{
		TaskID:    in.TaskID,
		Action:    action,
		Title:     in.Title,
		Actor:     in.Actor,
		Timestamp: ts,
	}

	if err := s.repo.Insert(ctx, activity); err != nil {
		return fmt.Errorf("record activity: %w", err)
	}

	s.log.Debug().
		Str("task_id", in.TaskID).
		Str("action", in.Action).
		Str("actor", in.Actor).
		Msg("activity recorded")

	return nil
}

// Trail returns the audit trail for one task, oldest first.
func (s *activityService) Trail(ctx context.Context, taskID string) ([]*domain.TaskActivity, error) {
	return s.repo.FindByTaskID(ctx, taskID)
}
