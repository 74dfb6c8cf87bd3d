package domain

import "time"

// ActivityAction identifies the kind of mutation recorded in the trail.
type ActivityAction string

const (
	ActionCreated ActivityAction = "created"
	ActionUpdated ActivityAction = "updated"
	ActionDeleted ActivityAction = "deleted"
)

// TaskActivity is one entry in a task's audit trail.
type TaskActivity struct {
	TaskID    string
	Action    ActivityAction
	Title     string
	Actor     string // username from the session token, empty if unknown
	Timestamp time.Time
}
