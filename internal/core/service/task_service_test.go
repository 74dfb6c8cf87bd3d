package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/taskstack/task-tracker/internal/core/domain"
	"github.com/taskstack/task-tracker/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory stub repository
// ---------------------------------------------------------------------------

type stubTaskRepo struct {
	tasks     map[string]*domain.Task
	seq       int
	findCalls int // number of Find invocations, to assert fail-fast paths
}

func newStubTaskRepo() *stubTaskRepo {
	return &stubTaskRepo{tasks: make(map[string]*domain.Task)}
}

// IsValidID mirrors the ObjectID hex format: 24 lowercase hex characters.
func (r *stubTaskRepo) IsValidID(id string) bool {
	if len(id) != 24 {
		return false
	}
	for _, c := range id {
		if !strings.ContainsRune("0123456789abcdef", c) {
			return false
		}
	}
	return true
}

func (r *stubTaskRepo) Insert(_ context.Context, task *domain.Task) (*domain.Task, error) {
	r.seq++
	clone := *task
	clone.ID = fmt.Sprintf("%024x", r.seq)
	r.tasks[clone.ID] = &clone
	copy := clone
	return &copy, nil
}

// Find applies the same filters the real Mongo repo would use.
func (r *stubTaskRepo) Find(_ context.Context, f ports.TaskFilter) ([]*domain.Task, error) {
	r.findCalls++
	var matched []*domain.Task
	for _, t := range r.tasks {
		if f.Title != "" && !strings.Contains(strings.ToLower(t.Title), strings.ToLower(f.Title)) {
			continue
		}
		if f.Status != "" && t.Status != f.Status {
			continue
		}
		if f.DueDate != nil && !t.DueDate.Equal(*f.DueDate) {
			continue
		}
		clone := *t
		matched = append(matched, &clone)
	}
	return matched, nil
}

func (r *stubTaskRepo) FindByID(_ context.Context, id string) (*domain.Task, error) {
	t, ok := r.tasks[id]
	if !ok {
		return nil, domain.ErrTaskNotFound
	}
	clone := *t
	return &clone, nil
}

func (r *stubTaskRepo) UpdateByID(_ context.Context, id string, update ports.TaskUpdate) (*domain.Task, error) {
	t, ok := r.tasks[id]
	if !ok {
		return nil, domain.ErrTaskNotFound
	}
	if update.Title != nil {
		t.Title = *update.Title
	}
	if update.Description != nil {
		t.Description = *update.Description
	}
	if update.Status != nil {
		t.Status = *update.Status
	}
	if update.DueDate != nil {
		t.DueDate = *update.DueDate
	}
	clone := *t
	return &clone, nil
}

func (r *stubTaskRepo) DeleteByID(_ context.Context, id string) (*domain.Task, error) {
	t, ok := r.tasks[id]
	if !ok {
		return nil, domain.ErrTaskNotFound
	}
	delete(r.tasks, id)
	return t, nil
}

// stubDispatcher collects enqueued activity entries synchronously.
type stubDispatcher struct {
	entries []ports.ActivityInput
}

func (d *stubDispatcher) Enqueue(input ports.ActivityInput) {
	d.entries = append(d.entries, input)
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

const absentID = "507f1f77bcf86cd799439011"

func validInput() ports.CreateTaskInput {
	return ports.CreateTaskInput{
		Title:       "Monthly Report",
		Description: "Compile the monthly numbers",
		Status:      "OPEN",
		DueDate:     "2026-09-30",
		Actor:       "alice",
	}
}

func mustCreate(t *testing.T, svc *TaskService, input ports.CreateTaskInput) *domain.Task {
	t.Helper()
	task, err := svc.Create(context.Background(), input)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	return task
}

// ---------------------------------------------------------------------------
// Create tests
// ---------------------------------------------------------------------------

func TestTaskService_Create_RoundTrip(t *testing.T) {
	repo := newStubTaskRepo()
	svc := NewTaskService(repo, nil, nopLogger)

	created := mustCreate(t, svc, validInput())
	if created.ID == "" {
		t.Fatal("expected assigned id")
	}

	got, err := svc.Get(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got.Title != "Monthly Report" || got.Description != "Compile the monthly numbers" {
		t.Fatalf("round trip mismatch: %+v", got)
	}
	if got.Status != domain.StatusOpen {
		t.Fatalf("expected status OPEN, got %s", got.Status)
	}
	want := time.Date(2026, 9, 30, 0, 0, 0, 0, time.UTC)
	if !got.DueDate.Equal(want) {
		t.Fatalf("expected due date %v, got %v", want, got.DueDate)
	}
}

func TestTaskService_Create_InvalidStatus(t *testing.T) {
	repo := newStubTaskRepo()
	svc := NewTaskService(repo, nil, nopLogger)

	input := validInput()
	input.Status = "PENDING"

	_, err := svc.Create(context.Background(), input)
	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(ve.Messages) != 1 || !strings.Contains(ve.Messages[0], "status") {
		t.Fatalf("expected status message, got %v", ve.Messages)
	}
	if len(repo.tasks) != 0 {
		t.Fatal("nothing should be persisted on validation failure")
	}
}

func TestTaskService_Create_CollectsAllFieldErrors(t *testing.T) {
	repo := newStubTaskRepo()
	svc := NewTaskService(repo, nil, nopLogger)

	_, err := svc.Create(context.Background(), ports.CreateTaskInput{Status: "NOPE", DueDate: "not-a-date"})
	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(ve.Messages) != 4 {
		t.Fatalf("expected 4 messages (title, description, status, due date), got %v", ve.Messages)
	}
}

func TestTaskService_Create_AcceptsRFC3339DueDate(t *testing.T) {
	repo := newStubTaskRepo()
	svc := NewTaskService(repo, nil, nopLogger)

	input := validInput()
	input.DueDate = "2026-09-30T18:00:00Z"

	created := mustCreate(t, svc, input)
	want := time.Date(2026, 9, 30, 18, 0, 0, 0, time.UTC)
	if !created.DueDate.Equal(want) {
		t.Fatalf("expected %v, got %v", want, created.DueDate)
	}
}

// ---------------------------------------------------------------------------
// List tests
// ---------------------------------------------------------------------------

func TestTaskService_List_EmptyFilterReturnsAll(t *testing.T) {
	repo := newStubTaskRepo()
	svc := NewTaskService(repo, nil, nopLogger)

	mustCreate(t, svc, validInput())
	second := validInput()
	second.Title = "Summary"
	second.Status = "DONE"
	mustCreate(t, svc, second)

	tasks, err := svc.List(context.Background(), ports.ListTasksInput{})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(tasks) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(tasks))
	}
}

func TestTaskService_List_TitleSubstringCaseInsensitive(t *testing.T) {
	repo := newStubTaskRepo()
	svc := NewTaskService(repo, nil, nopLogger)

	mustCreate(t, svc, validInput()) // "Monthly Report"
	other := validInput()
	other.Title = "Summary"
	mustCreate(t, svc, other)

	tasks, err := svc.List(context.Background(), ports.ListTasksInput{Title: "report"})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(tasks) != 1 {
		t.Fatalf("expected 1 match, got %d", len(tasks))
	}
	if tasks[0].Title != "Monthly Report" {
		t.Fatalf("expected Monthly Report, got %s", tasks[0].Title)
	}
}

func TestTaskService_List_StatusFilter(t *testing.T) {
	repo := newStubTaskRepo()
	svc := NewTaskService(repo, nil, nopLogger)

	mustCreate(t, svc, validInput())
	done := validInput()
	done.Title = "Shipped"
	done.Status = "DONE"
	mustCreate(t, svc, done)

	tasks, err := svc.List(context.Background(), ports.ListTasksInput{Status: "DONE"})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(tasks) != 1 || tasks[0].Status != domain.StatusDone {
		t.Fatalf("unexpected result: %+v", tasks)
	}
}

func TestTaskService_List_UnknownStatusRejected(t *testing.T) {
	repo := newStubTaskRepo()
	svc := NewTaskService(repo, nil, nopLogger)

	_, err := svc.List(context.Background(), ports.ListTasksInput{Status: "ARCHIVED"})
	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if repo.findCalls != 0 {
		t.Fatal("store must not be queried for an invalid status")
	}
}

func TestTaskService_List_InvalidDueDateFailsBeforeStore(t *testing.T) {
	repo := newStubTaskRepo()
	svc := NewTaskService(repo, nil, nopLogger)

	_, err := svc.List(context.Background(), ports.ListTasksInput{DueDate: "not-a-date"})
	if !errors.Is(err, domain.ErrInvalidDueDate) {
		t.Fatalf("expected ErrInvalidDueDate, got %v", err)
	}
	if repo.findCalls != 0 {
		t.Fatal("store must not be queried for an invalid due date")
	}
}

func TestTaskService_List_DueDateExactMatch(t *testing.T) {
	repo := newStubTaskRepo()
	svc := NewTaskService(repo, nil, nopLogger)

	mustCreate(t, svc, validInput()) // due 2026-09-30
	later := validInput()
	later.Title = "Next month"
	later.DueDate = "2026-10-31"
	mustCreate(t, svc, later)

	tasks, err := svc.List(context.Background(), ports.ListTasksInput{DueDate: "2026-10-31"})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(tasks) != 1 || tasks[0].Title != "Next month" {
		t.Fatalf("unexpected result: %+v", tasks)
	}
}

// ---------------------------------------------------------------------------
// Get tests
// ---------------------------------------------------------------------------

func TestTaskService_Get_InvalidID(t *testing.T) {
	repo := newStubTaskRepo()
	svc := NewTaskService(repo, nil, nopLogger)

	_, err := svc.Get(context.Background(), "not-an-id")
	if !errors.Is(err, domain.ErrInvalidTaskID) {
		t.Fatalf("expected ErrInvalidTaskID, got %v", err)
	}
}

func TestTaskService_Get_NotFound(t *testing.T) {
	repo := newStubTaskRepo()
	svc := NewTaskService(repo, nil, nopLogger)

	_, err := svc.Get(context.Background(), absentID)
	if !errors.Is(err, domain.ErrTaskNotFound) {
		t.Fatalf("expected ErrTaskNotFound, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// Update tests
// ---------------------------------------------------------------------------

func TestTaskService_Update_PartialLeavesOtherFieldsUntouched(t *testing.T) {
	repo := newStubTaskRepo()
	svc := NewTaskService(repo, nil, nopLogger)

	created := mustCreate(t, svc, validInput())

	newTitle := "New"
	updated, err := svc.Update(context.Background(), created.ID, ports.UpdateTaskInput{Title: &newTitle})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}

	if updated.Title != "New" {
		t.Fatalf("expected title New, got %s", updated.Title)
	}
	if updated.Description != created.Description {
		t.Fatalf("description changed: %s", updated.Description)
	}
	if updated.Status != created.Status {
		t.Fatalf("status changed: %s", updated.Status)
	}
	if !updated.DueDate.Equal(created.DueDate) {
		t.Fatalf("due date changed: %v", updated.DueDate)
	}
}

func TestTaskService_Update_NoFieldsIsNoOp(t *testing.T) {
	repo := newStubTaskRepo()
	svc := NewTaskService(repo, nil, nopLogger)

	created := mustCreate(t, svc, validInput())

	updated, err := svc.Update(context.Background(), created.ID, ports.UpdateTaskInput{})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if *updated != *created {
		t.Fatalf("record changed: %+v vs %+v", updated, created)
	}
}

func TestTaskService_Update_InvalidID(t *testing.T) {
	repo := newStubTaskRepo()
	svc := NewTaskService(repo, nil, nopLogger)

	title := "x"
	_, err := svc.Update(context.Background(), "bogus", ports.UpdateTaskInput{Title: &title})
	if !errors.Is(err, domain.ErrInvalidTaskID) {
		t.Fatalf("expected ErrInvalidTaskID, got %v", err)
	}
}

func TestTaskService_Update_NotFound(t *testing.T) {
	repo := newStubTaskRepo()
	svc := NewTaskService(repo, nil, nopLogger)

	title := "x"
	_, err := svc.Update(context.Background(), absentID, ports.UpdateTaskInput{Title: &title})
	if !errors.Is(err, domain.ErrTaskNotFound) {
		t.Fatalf("expected ErrTaskNotFound, got %v", err)
	}
}

// The merged record is re-validated against the same constraints as Create.
func TestTaskService_Update_RevalidatesMergedRecord(t *testing.T) {
	repo := newStubTaskRepo()
	svc := NewTaskService(repo, nil, nopLogger)

	created := mustCreate(t, svc, validInput())

	empty := ""
	_, err := svc.Update(context.Background(), created.ID, ports.UpdateTaskInput{Title: &empty})
	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}

	// Stored record must be unchanged after the failed update.
	got, _ := svc.Get(context.Background(), created.ID)
	if got.Title != "Monthly Report" {
		t.Fatalf("failed update must not persist, got title %s", got.Title)
	}
}

func TestTaskService_Update_BadStatus(t *testing.T) {
	repo := newStubTaskRepo()
	svc := NewTaskService(repo, nil, nopLogger)

	created := mustCreate(t, svc, validInput())

	bad := "WAITING"
	_, err := svc.Update(context.Background(), created.ID, ports.UpdateTaskInput{Status: &bad})
	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// Delete tests
// ---------------------------------------------------------------------------

func TestTaskService_Delete_RemovesRecord(t *testing.T) {
	repo := newStubTaskRepo()
	svc := NewTaskService(repo, nil, nopLogger)

	created := mustCreate(t, svc, validInput())

	result, err := svc.Delete(context.Background(), created.ID, "alice")
	if err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if result.Message == "" {
		t.Fatal("expected confirmation message")
	}

	if _, err := svc.Get(context.Background(), created.ID); !errors.Is(err, domain.ErrTaskNotFound) {
		t.Fatalf("expected ErrTaskNotFound after delete, got %v", err)
	}
}

func TestTaskService_Delete_InvalidID(t *testing.T) {
	repo := newStubTaskRepo()
	svc := NewTaskService(repo, nil, nopLogger)

	_, err := svc.Delete(context.Background(), "zz", "alice")
	if !errors.Is(err, domain.ErrInvalidTaskID) {
		t.Fatalf("expected ErrInvalidTaskID, got %v", err)
	}
}

func TestTaskService_Delete_NotFound(t *testing.T) {
	repo := newStubTaskRepo()
	svc := NewTaskService(repo, nil, nopLogger)

	_, err := svc.Delete(context.Background(), absentID, "alice")
	if !errors.Is(err, domain.ErrTaskNotFound) {
		t.Fatalf("expected ErrTaskNotFound, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// Activity trail
// ---------------------------------------------------------------------------

func TestTaskService_MutationsEnqueueActivity(t *testing.T) {
	repo := newStubTaskRepo()
	dispatcher := &stubDispatcher{}
	svc := NewTaskService(repo, dispatcher, nopLogger)

	created := mustCreate(t, svc, validInput())
	title := "Renamed"
	if _, err := svc.Update(context.Background(), created.ID, ports.UpdateTaskInput{Title: &title, Actor: "bob"}); err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if _, err := svc.Delete(context.Background(), created.ID, "carol"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	if len(dispatcher.entries) != 3 {
		t.Fatalf("expected 3 activity entries, got %d", len(dispatcher.entries))
	}
	wantActions := []string{"created", "updated", "deleted"}
	for i, want := range wantActions {
		if dispatcher.entries[i].Action != want {
			t.Fatalf("entry %d: expected action %s, got %s", i, want, dispatcher.entries[i].Action)
		}
		if dispatcher.entries[i].TaskID != created.ID {
			t.Fatalf("entry %d: wrong task id %s", i, dispatcher.entries[i].TaskID)
		}
	}
	if dispatcher.entries[2].Title != "Renamed" {
		t.Fatalf("delete entry should carry last title, got %s", dispatcher.entries[2].Title)
	}
}
