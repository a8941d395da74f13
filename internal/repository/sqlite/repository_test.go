package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"task-app/internal/errors"
	"task-app/internal/repository"
)

func setupTestDB(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := New(context.Background(), MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return repo
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func newRecord(id, title, status string, created time.Time) *repository.TaskRecord {
	return &repository.TaskRecord{
		ID:        id,
		Title:     title,
		Status:    status,
		CreatedAt: created,
		UpdatedAt: created,
	}
}

func TestCreateAndGetTask(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()
	now := time.Date(2024, 5, 1, 9, 0, 0, 123, time.UTC)

	task := newRecord("7c9e6679-7425-40de-944b-e07fc1f90ae7", "Write report", "PENDING", now)
	task.Description = strPtr("Quarterly numbers")
	task.Priority = intPtr(4)

	require.NoError(t, repo.CreateTask(ctx, task))

	got, err := repo.GetTask(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, task.Title, got.Title)
	assert.Equal(t, "Quarterly numbers", *got.Description)
	assert.Equal(t, 4, *got.Priority)
	assert.Equal(t, "PENDING", got.Status)
	assert.True(t, now.Equal(got.CreatedAt))
}

func TestGetTask_NotFound(t *testing.T) {
	repo := setupTestDB(t)

	_, err := repo.GetTask(context.Background(), "00000000-0000-0000-0000-000000000000")
	require.Error(t, err)
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeNotFound))
}

func TestCreateTask_RejectsUnknownStatus(t *testing.T) {
	repo := setupTestDB(t)

	err := repo.CreateTask(context.Background(), newRecord("id-1", "Bad status", "DONE", time.Now()))
	require.Error(t, err)
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeDatabase))
}

func TestListTasks_NewestFirstWithFilter(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()
	base := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

	require.NoError(t, repo.CreateTask(ctx, newRecord("a", "First task", "PENDING", base)))
	require.NoError(t, repo.CreateTask(ctx, newRecord("b", "Second task", "COMPLETED", base.Add(time.Second))))
	require.NoError(t, repo.CreateTask(ctx, newRecord("c", "Third task", "PENDING", base.Add(2*time.Second))))

	all, err := repo.ListTasks(ctx, repository.ListOptions{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"c", "b", "a"}, []string{all[0].ID, all[1].ID, all[2].ID})

	pending := "PENDING"
	filtered, err := repo.ListTasks(ctx, repository.ListOptions{Status: &pending})
	require.NoError(t, err)
	require.Len(t, filtered, 2)
	assert.Equal(t, "c", filtered[0].ID)
	assert.Equal(t, "a", filtered[1].ID)
}

func TestListTasks_SameTimestampUsesInsertionOrder(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()
	now := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

	require.NoError(t, repo.CreateTask(ctx, newRecord("first", "Same time one", "PENDING", now)))
	require.NoError(t, repo.CreateTask(ctx, newRecord("second", "Same time two", "PENDING", now)))

	all, err := repo.ListTasks(ctx, repository.ListOptions{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "second", all[0].ID)
}

func TestListTasks_Empty(t *testing.T) {
	repo := setupTestDB(t)

	tasks, err := repo.ListTasks(context.Background(), repository.ListOptions{})
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestListTasksByIDs(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()
	now := time.Now().UTC()

	require.NoError(t, repo.CreateTask(ctx, newRecord("a", "Task A", "PENDING", now)))
	require.NoError(t, repo.CreateTask(ctx, newRecord("b", "Task B", "PENDING", now)))

	got, err := repo.ListTasksByIDs(ctx, []string{"a", "missing", "b"})
	require.NoError(t, err)
	assert.Len(t, got, 2)

	none, err := repo.ListTasksByIDs(ctx, nil)
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestUpdateTask(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()
	now := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

	task := newRecord("a", "Original", "PENDING", now)
	task.Description = strPtr("something")
	require.NoError(t, repo.CreateTask(ctx, task))

	task.Title = "Renamed"
	task.Status = "IN_PROGRESS"
	task.Description = nil
	task.Priority = intPtr(2)
	task.UpdatedAt = now.Add(time.Minute)
	require.NoError(t, repo.UpdateTask(ctx, task))

	got, err := repo.GetTask(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Title)
	assert.Equal(t, "IN_PROGRESS", got.Status)
	assert.Nil(t, got.Description)
	assert.Equal(t, 2, *got.Priority)
	assert.True(t, now.Equal(got.CreatedAt))
	assert.True(t, now.Add(time.Minute).Equal(got.UpdatedAt))
}

func TestUpdateTask_NotFound(t *testing.T) {
	repo := setupTestDB(t)

	err := repo.UpdateTask(context.Background(), newRecord("nope", "Ghost", "PENDING", time.Now()))
	require.Error(t, err)
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeNotFound))
}

func TestUpdateTasks(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()
	now := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

	a := newRecord("a", "First", "PENDING", now)
	b := newRecord("b", "Second", "PENDING", now)
	require.NoError(t, repo.CreateTask(ctx, a))
	require.NoError(t, repo.CreateTask(ctx, b))

	a.Priority = intPtr(1)
	b.Priority = intPtr(4)
	require.NoError(t, repo.UpdateTasks(ctx, []*repository.TaskRecord{a, b}))

	got, err := repo.GetTask(ctx, "b")
	require.NoError(t, err)
	require.NotNil(t, got.Priority)
	assert.Equal(t, 4, *got.Priority)

	require.NoError(t, repo.UpdateTasks(ctx, nil))
}

func TestUpdateTasks_RollsBackOnMissingTask(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()
	now := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

	a := newRecord("a", "First", "PENDING", now)
	require.NoError(t, repo.CreateTask(ctx, a))

	a.Priority = intPtr(2)
	err := repo.UpdateTasks(ctx, []*repository.TaskRecord{a, newRecord("ghost", "Ghost", "PENDING", now)})
	require.Error(t, err)
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeNotFound))

	got, err := repo.GetTask(ctx, "a")
	require.NoError(t, err)
	assert.Nil(t, got.Priority)
}

func TestDeleteTask(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()

	require.NoError(t, repo.CreateTask(ctx, newRecord("a", "Doomed", "PENDING", time.Now())))
	require.NoError(t, repo.DeleteTask(ctx, "a"))

	_, err := repo.GetTask(ctx, "a")
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeNotFound))

	err = repo.DeleteTask(ctx, "a")
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeNotFound))
}

func TestFileDatabasePersists(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "nested", "tasks.db")

	repo, err := New(ctx, dbPath)
	require.NoError(t, err)
	require.NoError(t, repo.CreateTask(ctx, newRecord("a", "Persisted", "PENDING", time.Now())))
	require.NoError(t, repo.Close())

	reopened, err := New(ctx, dbPath)
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.GetTask(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "Persisted", got.Title)
}

func TestMigrator_DownDropsTasks(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()

	version, err := repo.Migrator().Version(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, version)

	reverted, err := repo.Migrator().Down(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, reverted)

	_, err = repo.ListTasks(ctx, repository.ListOptions{})
	assert.Error(t, err)
}

func TestPing(t *testing.T) {
	repo := setupTestDB(t)
	assert.NoError(t, repo.Ping(context.Background()))
}

func TestOpen_EmptyPath(t *testing.T) {
	_, err := Open("")
	require.Error(t, err)
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeInvalidInput))
}
