package domain

import (
	"errors"
	"strings"
	"time"
)

// TaskStatus represents the lifecycle state of a task.
type TaskStatus string

const (
	StatusOpen       TaskStatus = "OPEN"
	StatusInProgress TaskStatus = "IN_PROGRESS"
	StatusDone       TaskStatus = "DONE"
)

// IsValid reports whether s is a member of the status enumeration.
func (s TaskStatus) IsValid() bool {
	switch s {
	case StatusOpen, StatusInProgress, StatusDone:
		return true
	}
	return false
}

var ErrTaskNotFound = errors.New("task not found")
var ErrInvalidTaskID = errors.New("invalid task id")
var ErrInvalidDueDate = errors.New("invalid due date")

// ValidationError carries the full list of field-level failures so callers
// can surface every problem at once instead of the first one found.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Messages, "; ")
}

// NewValidationError builds a ValidationError from one or more messages.
func NewValidationError(messages ...string) *ValidationError {
	return &ValidationError{Messages: messages}
}

// Task is the core record of the tracker.
type Task struct {
	ID          string     `json:"id" bson:"_id,omitempty"`
	Title       string     `json:"title" bson:"title"`
	Description string     `json:"description" bson:"description"`
	Status      TaskStatus `json:"status" bson:"status"`
	DueDate     time.Time  `json:"due_date" bson:"due_date"`
}
