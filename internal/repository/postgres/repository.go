package postgres

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/lib/pq"

	"task-app/internal/errors"
	"task-app/internal/repository"
	"task-app/internal/repository/migrations"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

const taskColumns = "id, title, description, status, priority, created_at, updated_at"

// PostgresRepository implements repository.Repository using lib/pq
type PostgresRepository struct {
	db *sql.DB
}

var _ repository.Repository = (*PostgresRepository)(nil)

// Open connects to the database described by dsn without touching the schema.
func Open(dsn string) (*PostgresRepository, error) {
	if dsn == "" {
		return nil, errors.NewInvalidInputError("db_dsn", dsn, "must not be empty")
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, errors.NewDatabaseError("open database", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	return &PostgresRepository{db: db}, nil
}

// New connects, verifies the connection and applies pending migrations.
func New(ctx context.Context, dsn string) (*PostgresRepository, error) {
	repo, err := Open(dsn)
	if err != nil {
		return nil, err
	}

	if err := repo.Ping(ctx); err != nil {
		repo.Close()
		return nil, err
	}

	if _, err := repo.Migrator().Up(ctx); err != nil {
		repo.Close()
		return nil, errors.NewDatabaseError("run migrations", err)
	}

	return repo, nil
}

// Migrator returns a runner over the embedded Postgres migrations.
func (r *PostgresRepository) Migrator() *migrations.Runner {
	sub, err := fs.Sub(migrationFiles, "migrations")
	if err != nil {
		panic(err)
	}
	return migrations.NewRunner(r.db, sub, migrations.Postgres)
}

// Close closes the connection pool
func (r *PostgresRepository) Close() error {
	return r.db.Close()
}

// Ping verifies the database is reachable
func (r *PostgresRepository) Ping(ctx context.Context) error {
	if err := r.db.PingContext(ctx); err != nil {
		return repository.HandleDatabaseError("ping", err)
	}
	return nil
}

// CreateTask inserts a new task
func (r *PostgresRepository) CreateTask(ctx context.Context, task *repository.TaskRecord) error {
	query := `
	INSERT INTO tasks (id, title, description, status, priority, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7)`

	return repository.Execute(ctx, r.db, "create task", query,
		task.ID,
		task.Title,
		repository.StringArg(task.Description),
		task.Status,
		repository.IntArg(task.Priority),
		task.CreatedAt.UTC(),
		task.UpdatedAt.UTC(),
	)
}

// GetTask retrieves a task by ID
func (r *PostgresRepository) GetTask(ctx context.Context, id string) (*repository.TaskRecord, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1`
	return repository.QuerySingle(ctx, r.db, query, scanTask, "task", id, id)
}

// ListTasks retrieves tasks newest first, optionally filtered by status
func (r *PostgresRepository) ListTasks(ctx context.Context, opts repository.ListOptions) ([]*repository.TaskRecord, error) {
	query, args := buildListQuery(opts)
	return repository.QueryMultiple(ctx, r.db, query, scanTasks, "tasks", args...)
}

// ListTasksByIDs retrieves the subset of ids that exist. Order is unspecified.
func (r *PostgresRepository) ListTasksByIDs(ctx context.Context, ids []string) ([]*repository.TaskRecord, error) {
	if len(ids) == 0 {
		return []*repository.TaskRecord{}, nil
	}
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = ANY($1::uuid[])`
	return repository.QueryMultiple(ctx, r.db, query, scanTasks, "tasks", pq.Array(ids))
}

// UpdateTask overwrites the mutable columns of an existing task
func (r *PostgresRepository) UpdateTask(ctx context.Context, task *repository.TaskRecord) error {
	return updateTask(ctx, r.db, task)
}

// UpdateTasks overwrites several tasks atomically
func (r *PostgresRepository) UpdateTasks(ctx context.Context, tasks []*repository.TaskRecord) error {
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
	SET title = $1, description = $2, status = $3, priority = $4, updated_at = $5
	WHERE id = $6`

	return repository.ExecuteWithRowsAffected(ctx, db, query, "task", task.ID,
		task.Title,
		repository.StringArg(task.Description),
		task.Status,
		repository.IntArg(task.Priority),
		task.UpdatedAt.UTC(),
		task.ID,
	)
}

// DeleteTask removes a task by ID
func (r *PostgresRepository) DeleteTask(ctx context.Context, id string) error {
	return repository.ExecuteWithRowsAffected(ctx, r.db, "DELETE FROM tasks WHERE id = $1", "task", id, id)
}

func buildListQuery(opts repository.ListOptions) (string, []interface{}) {
	var (
		conditions []string
		args       []interface{}
	)

	if opts.Status != nil {
		args = append(args, *opts.Status)
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}

	query := `SELECT ` + taskColumns + ` FROM tasks`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at DESC, seq DESC"

	return query, args
}

func scanTask(scanner repository.Scanner) (*repository.TaskRecord, error) {
	task := &repository.TaskRecord{}
	var (
		description sql.NullString
		priority    sql.NullInt64
	)

	err := scanner.Scan(
		&task.ID,
		&task.Title,
		&description,
		&task.Status,
		&priority,
		&task.CreatedAt,
		&task.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	task.Description = repository.NullableString(description)
	task.Priority = repository.NullableInt(priority)
	task.CreatedAt = task.CreatedAt.UTC()
	task.UpdatedAt = task.UpdatedAt.UTC()

	return task, nil
}

func scanTasks(rows repository.Rows) ([]*repository.TaskRecord, error) {
	return repository.ScanAll(rows, scanTask)
}
