package repository

import (
	"context"
	"time"
)

// TaskRecord is the storage shape of a task.
type TaskRecord struct {
	ID          string
	Title       string
	Description *string
	Status      string
	Priority    *int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ListOptions narrows ListTasks. A nil field means no filter.
type ListOptions struct {
	Status *string
}

// Repository defines the interface for task persistence
type Repository interface {
	// Create operations
	CreateTask(ctx context.Context, task *TaskRecord) error

	// Read operations
	GetTask(ctx context.Context, id string) (*TaskRecord, error)
	ListTasks(ctx context.Context, opts ListOptions) ([]*TaskRecord, error)
	ListTasksByIDs(ctx context.Context, ids []string) ([]*TaskRecord, error)

	// Update operations
	UpdateTask(ctx context.Context, task *TaskRecord) error
	// UpdateTasks updates every task in one transaction, or none of them
	UpdateTasks(ctx context.Context, tasks []*TaskRecord) error

	// Delete operations
	DeleteTask(ctx context.Context, id string) error

	// Utility
	Ping(ctx context.Context) error
	Close() error
}
