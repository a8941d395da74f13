package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"task-app/internal/errors"
	"task-app/internal/repository"
	"task-app/internal/repository/migrations"

	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

// SQLiteRepository implements repository.Repository on top of modernc.org/sqlite
type SQLiteRepository struct {
	db *sql.DB
}

var _ repository.Repository = (*SQLiteRepository)(nil)

// Open connects to the database at dbPath without touching the schema.
func Open(dbPath string) (*SQLiteRepository, error) {
	if dbPath == "" {
		return nil, errors.NewInvalidInputError("db_path", dbPath, "must not be empty")
	}

	dsn := dbPath
	if dbPath != MemoryPath {
		if dir := filepath.Dir(dbPath); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, errors.NewDatabaseError("create database directory", err)
			}
		}
		dsn = "file:" + dbPath + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, errors.NewDatabaseError("open database", err)
	}

	// SQLite serialises writers, and each :memory: connection is its own database.
	db.SetMaxOpenConns(1)

	return &SQLiteRepository{db: db}, nil
}

// New creates a new SQLite repository instance with all migrations applied
func New(ctx context.Context, dbPath string) (*SQLiteRepository, error) {
	repo, err := Open(dbPath)
	if err != nil {
		return nil, err
	}

	if _, err := repo.Migrator().Up(ctx); err != nil {
		repo.Close()
		return nil, errors.NewDatabaseError("run migrations", err)
	}

	return repo, nil
}

// Migrator returns a runner over the embedded SQLite migrations.
func (r *SQLiteRepository) Migrator() *migrations.Runner {
	sub, err := fs.Sub(migrationFiles, "migrations")
	if err != nil {
		panic(err)
	}
	return migrations.NewRunner(r.db, sub, migrations.SQLite)
}

// Close closes the database connection
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

// Ping verifies the database is reachable
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	if err := r.db.PingContext(ctx); err != nil {
		return repository.HandleDatabaseError("ping", err)
	}
	return nil
}

// CreateTask inserts a new task
func (r *SQLiteRepository) CreateTask(ctx context.Context, task *repository.TaskRecord) error {
	query := `
	INSERT INTO tasks (id, title, description, status, priority, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?, ?, ?)`

	return repository.Execute(ctx, r.db, "create task", query,
		task.ID,
		task.Title,
		repository.StringArg(task.Description),
		task.Status,
		repository.IntArg(task.Priority),
		FormatTimeForDB(task.CreatedAt),
		FormatTimeForDB(task.UpdatedAt),
	)
}

// GetTask retrieves a task by ID
func (r *SQLiteRepository) GetTask(ctx context.Context, id string) (*repository.TaskRecord, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = ?`
	return repository.QuerySingle(ctx, r.db, query, ScanTask, "task", id, id)
}

// ListTasks retrieves tasks newest first, optionally filtered by status
func (r *SQLiteRepository) ListTasks(ctx context.Context, opts repository.ListOptions) ([]*repository.TaskRecord, error) {
	var (
		conditions []string
		args       []interface{}
	)

	if opts.Status != nil {
		conditions = append(conditions, "status = ?")
		args = append(args, *opts.Status)
	}

	query := `SELECT ` + taskColumns + ` FROM tasks`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at DESC, rowid DESC"

	return repository.QueryMultiple(ctx, r.db, query, ScanTasks, "tasks", args...)
}

// ListTasksByIDs retrieves the subset of ids that exist. Order is unspecified.
func (r *SQLiteRepository) ListTasksByIDs(ctx context.Context, ids []string) ([]*repository.TaskRecord, error) {
	if len(ids) == 0 {
		return []*repository.TaskRecord{}, nil
	}

	placeholders := make([]string, len(ids))
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		placeholders[i] = "?"
		args[i] = id
	}

	query := fmt.Sprintf(`SELECT %s FROM tasks WHERE id IN (%s)`, taskColumns, strings.Join(placeholders, ", "))
	return repository.QueryMultiple(ctx, r.db, query, ScanTasks, "tasks", args...)
}

// UpdateTask overwrites the mutable columns of an existing task
func (r *SQLiteRepository) UpdateTask(ctx context.Context, task *repository.TaskRecord) error {
	return updateTask(ctx, r.db, task)
}

// UpdateTasks overwrites several tasks atomically. A missing task rolls
// back the whole batch.
func (r *SQLiteRepository) UpdateTasks(ctx context.Context, tasks []*repository.TaskRecord) error {
	return repository.WithTx(ctx, r.db, "update tasks", func(tx *sql.Tx) error {
		for _, task := range tasks {
			if err := updateTask(ctx, tx, task); err != nil {
				return err
			}
		}
		return nil
	})
}

func updateTask(ctx context.Context, db repository.Execer, task *repository.TaskRecord) error {
	query := `
	UPDATE tasks
	SET title = ?, description = ?, status = ?, priority = ?, updated_at = ?
	WHERE id = ?`

	return repository.ExecuteWithRowsAffected(ctx, db, query, "task", task.ID,
		task.Title,
		repository.StringArg(task.Description),
		task.Status,
		repository.IntArg(task.Priority),
		FormatTimeForDB(task.UpdatedAt),
		task.ID,
	)
}

// DeleteTask removes a task by ID
func (r *SQLiteRepository) DeleteTask(ctx context.Context, id string) error {
	return repository.ExecuteWithRowsAffected(ctx, r.db, "DELETE FROM tasks WHERE id = ?", "task", id, id)
}
