package domain

import (
	"time"

	"github.com/google/uuid"
)

// TaskStatus is the lifecycle state of a task.
type TaskStatus string

const (
	StatusPending    TaskStatus = "PENDING"
	StatusInProgress TaskStatus = "IN_PROGRESS"
	StatusCompleted  TaskStatus = "COMPLETED"
)

// AllStatuses lists every accepted status in lifecycle order.
var AllStatuses = []TaskStatus{StatusPending, StatusInProgress, StatusCompleted}

// ParseTaskStatus returns the status named by s. Matching is exact.
func ParseTaskStatus(s string) (TaskStatus, bool) {
	for _, status := range AllStatuses {
		if string(status) == s {
			return status, true
		}
	}
	return "", false
}

// IsValid reports whether the status is one of AllStatuses.
func (s TaskStatus) IsValid() bool {
	_, ok := ParseTaskStatus(string(s))
	return ok
}

func (s TaskStatus) String() string {
	return string(s)
}

// Task represents a task in the domain model.
type Task struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	Status      TaskStatus `json:"status"`
	Priority    *int       `json:"priority"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// NewTask creates a pending task with a fresh id, stamped at now.
// Timestamps keep microsecond precision, the finest both stores hold.
func NewTask(title string, now time.Time) Task {
	now = now.UTC().Truncate(time.Microsecond)
	return Task{
		ID:        uuid.NewString(),
		Title:     title,
		Status:    StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// IsValid checks if the task has the fields every stored task must carry.
func (t Task) IsValid() bool {
	return t.ID != "" && t.Title != "" && t.Status.IsValid()
}

// HasDescription reports whether a non-empty description is set.
func (t Task) HasDescription() bool {
	return t.Description != nil && *t.Description != ""
}

// String returns the task title for display purposes.
func (t Task) String() string {
	return t.Title
}

// TaskFilter narrows a task listing.
type TaskFilter struct {
	Status *TaskStatus
}
