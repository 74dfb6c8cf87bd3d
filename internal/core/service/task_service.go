package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/taskstack/task-tracker/internal/core/domain"
	"github.com/taskstack/task-tracker/internal/core/ports"
)

// dueDateFormats lists the accepted due-date inputs, tried in order.
var dueDateFormats = []string{time.RFC3339, "2006-01-02"}

// ActivityDispatcher is the interface the service uses to enqueue audit
// trail entries. Enqueueing is fire-and-forget.
type ActivityDispatcher interface {
	Enqueue(input ports.ActivityInput)
}

// TaskService implements task commands and queries.
type TaskService struct {
	repo       ports.TaskRepository
	dispatcher ActivityDispatcher // optional, nil disables the trail
	logger     zerolog.Logger
}

func NewTaskService(repo ports.TaskRepository, dispatcher ActivityDispatcher, logger zerolog.Logger) *TaskService {
	return &TaskService{repo: repo, dispatcher: dispatcher, logger: logger}
}

// Create validates the supplied fields and persists a new task. All field
// problems are reported together in a single validation error.
func (s *TaskService) Create(ctx context.Context, input ports.CreateTaskInput) (*domain.Task, error) {
	msgs := validateTaskFields(input.Title, input.Description, domain.TaskStatus(input.Status))

	var due time.Time
	if input.DueDate == "" {
		msgs = append(msgs, "due date must not be empty")
	} else {
		parsed, err := parseDueDate(input.DueDate)
		if err != nil {
			msgs = append(msgs, fmt.Sprintf("due date %q is not a valid date", input.DueDate))
		} else {
			due = parsed
		}
	}

	if len(msgs) > 0 {
		return nil, domain.NewValidationError(msgs...)
	}

	task := &domain.Task{
		Title:       input.Title,
		Description: input.Description,
		Status:      domain.TaskStatus(input.Status),
		DueDate:     due,
	}

	created, err := s.repo.Insert(ctx, task)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to create task")
		return nil, err
	}

	s.logger.Info().Str("task_id", created.ID).Str("status", string(created.Status)).Msg("task created")
	s.recordActivity(created.ID, domain.ActionCreated, created.Title, input.Actor)

	return created, nil
}

// List returns every task matching the filter. Absent fields impose no
// constraint; an empty filter matches all tasks. An unparsable due date
// fails before the store is touched.
func (s *TaskService) List(ctx context.Context, input ports.ListTasksInput) ([]*domain.Task, error) {
	filter := ports.TaskFilter{Title: input.Title}

	if input.Status != "" {
		status := domain.TaskStatus(input.Status)
		if !status.IsValid() {
			return nil, domain.NewValidationError("status must be one of OPEN, IN_PROGRESS, DONE")
		}
		filter.Status = status
	}

	if input.DueDate != "" {
		due, err := parseDueDate(input.DueDate)
		if err != nil {
			return nil, err
		}
		filter.DueDate = &due
	}

	return s.repo.Find(ctx, filter)
}

// Get returns a single task by id. The id format is checked before any
// store access.
func (s *TaskService) Get(ctx context.Context, id string) (*domain.Task, error) {
	if !s.repo.IsValidID(id) {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidTaskID, id)
	}
	return s.repo.FindByID(ctx, id)
}

// Update merges the supplied fields onto the existing task, re-validates the
// merged record against the same constraints as Create, and persists it.
func (s *TaskService) Update(ctx context.Context, id string, input ports.UpdateTaskInput) (*domain.Task, error) {
	if !s.repo.IsValidID(id) {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidTaskID, id)
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	merged := *existing
	update := ports.TaskUpdate{}
	if input.Title != nil {
		merged.Title = *input.Title
		update.Title = input.Title
	}
	if input.Description != nil {
		merged.Description = *input.Description
		update.Description = input.Description
	}
	if input.Status != nil {
		status := domain.TaskStatus(*input.Status)
		merged.Status = status
		update.Status = &status
	}

	msgs := validateTaskFields(merged.Title, merged.Description, merged.Status)
	if input.DueDate != nil {
		due, err := parseDueDate(*input.DueDate)
		if err != nil {
			msgs = append(msgs, fmt.Sprintf("due date %q is not a valid date", *input.DueDate))
		} else {
			merged.DueDate = due
			update.DueDate = &due
		}
	}
	if len(msgs) > 0 {
		return nil, domain.NewValidationError(msgs...)
	}

	updated, err := s.repo.UpdateByID(ctx, id, update)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("task_id", id).Msg("task updated")
	s.recordActivity(id, domain.ActionUpdated, updated.Title, input.Actor)

	return updated, nil
}

// Delete removes a task by id and returns a confirmation. The deleted
// record's content is never echoed back.
func (s *TaskService) Delete(ctx context.Context, id string, actor string) (*ports.DeleteTaskResult, error) {
	if !s.repo.IsValidID(id) {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidTaskID, id)
	}

	deleted, err := s.repo.DeleteByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("task_id", id).Msg("task deleted")
	s.recordActivity(id, domain.ActionDeleted, deleted.Title, actor)

	return &ports.DeleteTaskResult{Message: "task deleted successfully"}, nil
}

func (s *TaskService) recordActivity(taskID string, action domain.ActivityAction, title, actor string) {
	if s.dispatcher == nil {
		return
	}
	s.dispatcher.Enqueue(ports.ActivityInput{
		TaskID:    taskID,
		Action:    string(action),
		Title:     title,
		Actor:     actor,
		Timestamp: time.Now().UTC(),
	})
}

// validateTaskFields checks the constraints shared by Create and Update.
func validateTaskFields(title, description string, status domain.TaskStatus) []string {
	var msgs []string
	if title == "" {
		msgs = append(msgs, "title must not be empty")
	}
	if description == "" {
		msgs = append(msgs, "description must not be empty")
	}
	if !status.IsValid() {
		msgs = append(msgs, "status must be one of OPEN, IN_PROGRESS, DONE")
	}
	return msgs
}

// parseDueDate accepts RFC3339 timestamps and plain calendar dates.
func parseDueDate(value string) (time.Time, error) {
	for _, layout := range dueDateFormats {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", domain.ErrInvalidDueDate, value)
}
