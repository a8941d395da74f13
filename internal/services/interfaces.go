package services

import (
	"context"

	"task-app/internal/ai"
	"task-app/internal/config"
	"task-app/internal/domain"
	"task-app/internal/repository"
)

// CreateTaskInput carries the fields accepted when creating a task
type CreateTaskInput struct {
	Title       string             `json:"title"`
	Description *string            `json:"description,omitempty"`
	Status      *domain.TaskStatus `json:"status,omitempty"`
	Priority    *int               `json:"priority,omitempty"`
}

// TaskService handles task lifecycle operations
type TaskService interface {
	// Task CRUD operations
	CreateTask(ctx context.Context, input CreateTaskInput) (*domain.Task, error)
	GetTask(ctx context.Context, id string) (*domain.Task, error)
	ListTasks(ctx context.Context, filter domain.TaskFilter) ([]*domain.Task, error)
	UpdateTask(ctx context.Context, id string, patch domain.TaskPatch) (*domain.Task, error)
	DeleteTask(ctx context.Context, id string) error

	// Bulk and targeted operations
	ListTasksByIDs(ctx context.Context, ids []string) ([]*domain.Task, error)
	UpdatePriorities(ctx context.Context, suggestions []domain.PrioritySuggestion) ([]*domain.Task, error)
}

// AIService provides the assistant features backed by a language model
type AIService interface {
	Summary(ctx context.Context) (string, error)
	SuggestPriorities(ctx context.Context, ids []string, apply bool) ([]domain.PrioritySuggestion, error)
	AutoComplete(ctx context.Context, title string) (string, error)
}

// ServiceContainer manages all services and their dependencies
type ServiceContainer struct {
	TaskService TaskService
	AIService   AIService
}

// NewServiceContainer wires the services around a repository and provider
func NewServiceContainer(repo repository.Repository, provider ai.Provider, cfg *config.Config) *ServiceContainer {
	tasks := NewTaskService(repo, cfg)
	return &ServiceContainer{
		TaskService: tasks,
		AIService:   NewAIService(tasks, provider, cfg),
	}
}
