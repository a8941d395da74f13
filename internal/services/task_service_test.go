package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"task-app/internal/domain"
	"task-app/internal/errors"
	"task-app/internal/repository/sqlite"
)

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func statusPtr(s domain.TaskStatus) *domain.TaskStatus { return &s }

func TestTaskService_CreateTask(t *testing.T) {
	tests := []struct {
		name           string
		input          CreateTaskInput
		errorAssertion func(t *testing.T, err error)
		check          func(t *testing.T, task *domain.Task)
	}{
		{
			name:  "should create task with defaults",
			input: CreateTaskInput{Title: "Write report"},
			check: func(t *testing.T, task *domain.Task) {
				assert.Equal(t, domain.StatusPending, task.Status)
				assert.Nil(t, task.Description)
				assert.Nil(t, task.Priority)
				assert.Equal(t, task.CreatedAt, task.UpdatedAt)
			},
		},
		{
			name: "should create task with every field",
			input: CreateTaskInput{
				Title:       "Ship release",
				Description: strPtr("Tag and publish"),
				Status:      statusPtr(domain.StatusInProgress),
				Priority:    intPtr(2),
			},
			check: func(t *testing.T, task *domain.Task) {
				assert.Equal(t, domain.StatusInProgress, task.Status)
				require.NotNil(t, task.Description)
				assert.Equal(t, "Tag and publish", *task.Description)
				require.NotNil(t, task.Priority)
				assert.Equal(t, 2, *task.Priority)
			},
		},
		{
			name:  "should trim the title",
			input: CreateTaskInput{Title: "  Buy milk  "},
			check: func(t *testing.T, task *domain.Task) {
				assert.Equal(t, "Buy milk", task.Title)
			},
		},
		{
			name:  "should return validation error for short title",
			input: CreateTaskInput{Title: "ab"},
			errorAssertion: func(t *testing.T, err error) {
				assert.True(t, errors.IsErrorType(err, errors.ErrorTypeValidation))
				assert.Contains(t, err.Error(), "title")
			},
		},
		{
			name:  "should return validation error for long title",
			input: CreateTaskInput{Title: strings.Repeat("a", 256)},
			errorAssertion: func(t *testing.T, err error) {
				assert.True(t, errors.IsErrorType(err, errors.ErrorTypeValidation))
			},
		},
		{
			name:  "should return validation error for unknown status",
			input: CreateTaskInput{Title: "Valid title", Status: statusPtr("DONE")},
			errorAssertion: func(t *testing.T, err error) {
				assert.True(t, errors.IsErrorType(err, errors.ErrorTypeValidation))
				assert.Contains(t, err.Error(), "status")
			},
		},
		{
			name:  "should return validation error for priority out of range",
			input: CreateTaskInput{Title: "Valid title", Priority: intPtr(6)},
			errorAssertion: func(t *testing.T, err error) {
				assert.True(t, errors.IsErrorType(err, errors.ErrorTypeValidation))
				assert.Contains(t, err.Error(), "priority")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			service := setupTaskService(t)
			ctx := context.Background()

			// Act
			result, err := service.CreateTask(ctx, tt.input)

			// Assert
			if tt.errorAssertion != nil {
				tt.errorAssertion(t, err)
				assert.Nil(t, result)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, result)
			_, parseErr := uuid.Parse(result.ID)
			assert.NoError(t, parseErr)
			tt.check(t, result)

			stored, err := service.GetTask(ctx, result.ID)
			require.NoError(t, err)
			assert.Equal(t, result, stored)
		})
	}
}

func TestTaskService_GetTask(t *testing.T) {
	tests := []struct {
		name           string
		id             func(created *domain.Task) string
		errorAssertion func(t *testing.T, err error)
	}{
		{
			name: "should get existing task",
			id:   func(created *domain.Task) string { return created.ID },
		},
		{
			name: "should return not found for unknown id",
			id:   func(*domain.Task) string { return uuid.NewString() },
			errorAssertion: func(t *testing.T, err error) {
				assert.True(t, errors.IsErrorType(err, errors.ErrorTypeNotFound))
			},
		},
		{
			name: "should return validation error for malformed id",
			id:   func(*domain.Task) string { return "not-a-uuid" },
			errorAssertion: func(t *testing.T, err error) {
				assert.True(t, errors.IsErrorType(err, errors.ErrorTypeValidation))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			service := setupTaskService(t)
			ctx := context.Background()
			created := createTestTask(t, service, "Existing task")

			// Act
			result, err := service.GetTask(ctx, tt.id(created))

			// Assert
			if tt.errorAssertion != nil {
				tt.errorAssertion(t, err)
				assert.Nil(t, result)
			} else {
				require.NoError(t, err)
				assert.Equal(t, created.ID, result.ID)
				assert.Equal(t, created.Title, result.Title)
			}
		})
	}
}

func TestTaskService_ListTasks(t *testing.T) {
	// Arrange
	ticker := newTicker()
	service := setupTaskServiceWithClock(t, ticker.now)
	ctx := context.Background()

	first := createTestTask(t, service, "First task")
	second, err := service.CreateTask(ctx, CreateTaskInput{Title: "Second task", Status: statusPtr(domain.StatusCompleted)})
	require.NoError(t, err)
	third := createTestTask(t, service, "Third task")

	t.Run("should list newest first", func(t *testing.T) {
		tasks, err := service.ListTasks(ctx, domain.TaskFilter{})
		require.NoError(t, err)
		require.Len(t, tasks, 3)
		assert.Equal(t, []string{third.ID, second.ID, first.ID}, ids(tasks))
	})

	t.Run("should filter by status", func(t *testing.T) {
		tasks, err := service.ListTasks(ctx, domain.TaskFilter{Status: statusPtr(domain.StatusPending)})
		require.NoError(t, err)
		assert.Equal(t, []string{third.ID, first.ID}, ids(tasks))
	})

	t.Run("should return empty list when nothing matches", func(t *testing.T) {
		tasks, err := service.ListTasks(ctx, domain.TaskFilter{Status: statusPtr(domain.StatusInProgress)})
		require.NoError(t, err)
		assert.NotNil(t, tasks)
		assert.Empty(t, tasks)
	})

	t.Run("should reject unknown status", func(t *testing.T) {
		_, err := service.ListTasks(ctx, domain.TaskFilter{Status: statusPtr("pending")})
		assert.True(t, errors.IsErrorType(err, errors.ErrorTypeValidation))
	})
}

func TestTaskService_ListTasksByIDs(t *testing.T) {
	// Arrange
	service := setupTaskService(t)
	ctx := context.Background()
	a := createTestTask(t, service, "Task A")
	b := createTestTask(t, service, "Task B")

	t.Run("should return tasks in request order without duplicates", func(t *testing.T) {
		tasks, err := service.ListTasksByIDs(ctx, []string{a.ID, b.ID, a.ID})
		require.NoError(t, err)
		assert.Equal(t, []string{a.ID, b.ID}, ids(tasks))
	})

	t.Run("should fail when any id is missing", func(t *testing.T) {
		missing := uuid.NewString()
		_, err := service.ListTasksByIDs(ctx, []string{a.ID, missing})
		assert.True(t, errors.IsErrorType(err, errors.ErrorTypeNotFound))
		assert.Contains(t, err.Error(), missing)
	})

	t.Run("should reject missing list", func(t *testing.T) {
		_, err := service.ListTasksByIDs(ctx, nil)
		assert.True(t, errors.IsErrorType(err, errors.ErrorTypeValidation))
	})

	t.Run("should return nothing for empty list", func(t *testing.T) {
		tasks, err := service.ListTasksByIDs(ctx, []string{})
		require.NoError(t, err)
		assert.NotNil(t, tasks)
		assert.Empty(t, tasks)
	})

	t.Run("should reject malformed ids", func(t *testing.T) {
		_, err := service.ListTasksByIDs(ctx, []string{a.ID, "nope"})
		assert.True(t, errors.IsErrorType(err, errors.ErrorTypeValidation))
	})

	t.Run("should load more ids than one batch", func(t *testing.T) {
		requested := []string{a.ID}
		for i := 0; i < idBatchSize+5; i++ {
			requested = append(requested, createTestTask(t, service, "Batch task").ID)
		}
		tasks, err := service.ListTasksByIDs(ctx, requested)
		require.NoError(t, err)
		assert.Equal(t, requested, ids(tasks))
	})
}

func TestTaskService_UpdateTask(t *testing.T) {
	tests := []struct {
		name           string
		patch          domain.TaskPatch
		errorAssertion func(t *testing.T, err error)
		check          func(t *testing.T, task *domain.Task)
	}{
		{
			name:  "should update title and keep other fields",
			patch: domain.TaskPatch{Title: domain.Some("  Renamed task ")},
			check: func(t *testing.T, task *domain.Task) {
				assert.Equal(t, "Renamed task", task.Title)
				require.NotNil(t, task.Description)
				assert.Equal(t, "Original description", *task.Description)
				require.NotNil(t, task.Priority)
				assert.Equal(t, 3, *task.Priority)
			},
		},
		{
			name:  "should update status",
			patch: domain.TaskPatch{Status: domain.Some(domain.StatusCompleted)},
			check: func(t *testing.T, task *domain.Task) {
				assert.Equal(t, domain.StatusCompleted, task.Status)
			},
		},
		{
			name:  "should clear description and priority with null",
			patch: domain.TaskPatch{Description: domain.Null[string](), Priority: domain.Null[int]()},
			check: func(t *testing.T, task *domain.Task) {
				assert.Nil(t, task.Description)
				assert.Nil(t, task.Priority)
			},
		},
		{
			name:  "should bump updatedAt on empty patch",
			patch: domain.TaskPatch{},
			check: func(t *testing.T, task *domain.Task) {
				assert.Equal(t, "Original title", task.Title)
			},
		},
		{
			name:  "should reject null title",
			patch: domain.TaskPatch{Title: domain.Null[string]()},
			errorAssertion: func(t *testing.T, err error) {
				assert.True(t, errors.IsErrorType(err, errors.ErrorTypeValidation))
			},
		},
		{
			name:  "should reject invalid priority",
			patch: domain.TaskPatch{Priority: domain.Some(0)},
			errorAssertion: func(t *testing.T, err error) {
				assert.True(t, errors.IsErrorType(err, errors.ErrorTypeValidation))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			ticker := newTicker()
			service := setupTaskServiceWithClock(t, ticker.now)
			ctx := context.Background()
			created, err := service.CreateTask(ctx, CreateTaskInput{
				Title:       "Original title",
				Description: strPtr("Original description"),
				Priority:    intPtr(3),
			})
			require.NoError(t, err)

			// Act
			result, err := service.UpdateTask(ctx, created.ID, tt.patch)

			// Assert
			if tt.errorAssertion != nil {
				tt.errorAssertion(t, err)
				assert.Nil(t, result)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, created.ID, result.ID)
			assert.Equal(t, created.CreatedAt, result.CreatedAt)
			assert.True(t, result.UpdatedAt.After(created.UpdatedAt))
			tt.check(t, result)

			stored, err := service.GetTask(ctx, created.ID)
			require.NoError(t, err)
			assert.Equal(t, result, stored)
		})
	}
}

func TestTaskService_UpdateTask_NotFound(t *testing.T) {
	// Arrange
	service := setupTaskService(t)

	// Act
	_, err := service.UpdateTask(context.Background(), uuid.NewString(), domain.TaskPatch{Title: domain.Some("New title")})

	// Assert
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeNotFound))
}

func TestTaskService_UpperCaseID(t *testing.T) {
	// Arrange
	service := setupTaskService(t)
	ctx := context.Background()
	created := createTestTask(t, service, "Shouted id")
	upper := strings.ToUpper(created.ID)

	// Act
	got, err := service.GetTask(ctx, upper)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	updated, err := service.UpdateTask(ctx, upper, domain.TaskPatch{Priority: domain.Some(2)})
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)

	require.NoError(t, service.DeleteTask(ctx, upper))
	_, err = service.GetTask(ctx, created.ID)
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeNotFound))
}

func TestTaskService_UpdatePriorities(t *testing.T) {
	tests := []struct {
		name           string
		suggestions    func(a, b *domain.Task) []domain.PrioritySuggestion
		errorAssertion func(t *testing.T, err error)
		want           []*int
	}{
		{
			name: "should update every task",
			suggestions: func(a, b *domain.Task) []domain.PrioritySuggestion {
				return []domain.PrioritySuggestion{
					{TaskID: a.ID, SuggestedPriority: 1},
					{TaskID: b.ID, SuggestedPriority: 4},
				}
			},
			want: []*int{intPtr(1), intPtr(4)},
		},
		{
			name: "should update nothing when a priority is out of range",
			suggestions: func(a, b *domain.Task) []domain.PrioritySuggestion {
				return []domain.PrioritySuggestion{
					{TaskID: a.ID, SuggestedPriority: 1},
					{TaskID: b.ID, SuggestedPriority: 9},
				}
			},
			errorAssertion: func(t *testing.T, err error) {
				assert.True(t, errors.IsErrorType(err, errors.ErrorTypeValidation))
			},
			want: []*int{nil, nil},
		},
		{
			name: "should update nothing when a task is missing",
			suggestions: func(a, b *domain.Task) []domain.PrioritySuggestion {
				return []domain.PrioritySuggestion{
					{TaskID: a.ID, SuggestedPriority: 1},
					{TaskID: uuid.NewString(), SuggestedPriority: 2},
				}
			},
			errorAssertion: func(t *testing.T, err error) {
				assert.True(t, errors.IsErrorType(err, errors.ErrorTypeNotFound))
			},
			want: []*int{nil, nil},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			service := setupTaskService(t)
			ctx := context.Background()
			a := createTestTask(t, service, "First task")
			b := createTestTask(t, service, "Second task")

			// Act
			_, err := service.UpdatePriorities(ctx, tt.suggestions(a, b))

			// Assert
			if tt.errorAssertion != nil {
				tt.errorAssertion(t, err)
			} else {
				require.NoError(t, err)
			}
			for i, task := range []*domain.Task{a, b} {
				stored, err := service.GetTask(ctx, task.ID)
				require.NoError(t, err)
				assert.Equal(t, tt.want[i], stored.Priority)
			}
		})
	}
}

func TestTaskService_DeleteTask(t *testing.T) {
	// Arrange
	service := setupTaskService(t)
	ctx := context.Background()
	created := createTestTask(t, service, "Delete me")

	// Act
	err := service.DeleteTask(ctx, created.ID)

	// Assert
	require.NoError(t, err)
	_, err = service.GetTask(ctx, created.ID)
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeNotFound))

	err = service.DeleteTask(ctx, created.ID)
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeNotFound))

	err = service.DeleteTask(ctx, "bad-id")
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeValidation))
}

// Helper functions

func setupTaskService(t *testing.T) TaskService {
	return setupTaskServiceWithClock(t, nil)
}

func setupTaskServiceWithClock(t *testing.T, now func() time.Time) TaskService {
	t.Helper()

	repo, err := sqlite.New(context.Background(), sqlite.MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })

	service := NewTaskService(repo, nil)
	if now != nil {
		service.(*taskServiceImpl).now = now
	}
	return service
}

func createTestTask(t *testing.T, service TaskService, title string) *domain.Task {
	t.Helper()
	task, err := service.CreateTask(context.Background(), CreateTaskInput{Title: title})
	require.NoError(t, err)
	return task
}

func ids(tasks []*domain.Task) []string {
	out := make([]string, 0, len(tasks))
	for _, task := range tasks {
		out = append(out, task.ID)
	}
	return out
}

// ticker is a clock that advances one second per call
type ticker struct {
	current time.Time
}

func newTicker() *ticker {
	return &ticker{current: time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *ticker) now() time.Time {
	c.current = c.current.Add(time.Second)
	return c.current
}
