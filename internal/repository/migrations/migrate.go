package migrations

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"sort"
	"strings"
)

// Migration represents a database migration
type Migration struct {
	Version int
	Name    string
	Up      string
	Down    string
}

// Dialect carries the driver-specific bits of the bookkeeping SQL.
type Dialect struct {
	Name string
	// Placeholder returns the bind marker for the n-th (1-based) argument.
	Placeholder func(n int) string
	// TimestampType is the column type used for applied_at.
	TimestampType string
}

// SQLite uses '?' markers.
var SQLite = Dialect{
	Name:          "sqlite",
	Placeholder:   func(int) string { return "?" },
	TimestampType: "DATETIME",
}

// Postgres uses '$n' markers.
var Postgres = Dialect{
	Name:          "postgres",
	Placeholder:   func(n int) string { return fmt.Sprintf("$%d", n) },
	TimestampType: "TIMESTAMPTZ",
}

// Runner applies the *.up.sql / *.down.sql pairs found at the root of FS.
type Runner struct {
	db      *sql.DB
	fsys    fs.FS
	dialect Dialect
}

// NewRunner creates a migration runner
func NewRunner(db *sql.DB, fsys fs.FS, dialect Dialect) *Runner {
	return &Runner{db: db, fsys: fsys, dialect: dialect}
}

// Up executes all pending migrations and returns the versions it applied.
func (r *Runner) Up(ctx context.Context) ([]int, error) {
	if err := r.createMigrationsTable(ctx); err != nil {
		return nil, fmt.Errorf("failed to create migrations table: %w", err)
	}

	if err := r.checkDirty(ctx); err != nil {
		return nil, err
	}

	migrations, err := Load(r.fsys)
	if err != nil {
		return nil, fmt.Errorf("failed to load migrations: %w", err)
	}

	applied, err := r.appliedVersions(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get applied migrations: %w", err)
	}

	var done []int
	for _, migration := range migrations {
		if applied[migration.Version] {
			continue
		}
		if err := r.apply(ctx, migration); err != nil {
			r.markDirty(ctx, migration.Version)
			return done, fmt.Errorf("failed to apply migration %d: %w", migration.Version, err)
		}
		done = append(done, migration.Version)
	}

	return done, nil
}

// Down rolls back the most recently applied migration. It returns the
// reverted version, or 0 when nothing was applied.
func (r *Runner) Down(ctx context.Context) (int, error) {
	if err := r.createMigrationsTable(ctx); err != nil {
		return 0, fmt.Errorf("failed to create migrations table: %w", err)
	}

	migrations, err := Load(r.fsys)
	if err != nil {
		return 0, fmt.Errorf("failed to load migrations: %w", err)
	}

	applied, err := r.appliedVersions(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to get applied migrations: %w", err)
	}

	for i := len(migrations) - 1; i >= 0; i-- {
		migration := migrations[i]
		if !applied[migration.Version] {
			continue
		}
		if err := r.revert(ctx, migration); err != nil {
			return 0, fmt.Errorf("failed to revert migration %d: %w", migration.Version, err)
		}
		return migration.Version, nil
	}

	return 0, nil
}

// Version reports the highest applied migration version.
func (r *Runner) Version(ctx context.Context) (int, error) {
	if err := r.createMigrationsTable(ctx); err != nil {
		return 0, err
	}
	var version sql.NullInt64
	if err := r.db.QueryRowContext(ctx, "SELECT MAX(version) FROM migrations").Scan(&version); err != nil {
		return 0, err
	}
	return int(version.Int64), nil
}

func (r *Runner) createMigrationsTable(ctx context.Context) error {
	query := fmt.Sprintf(`
	CREATE TABLE IF NOT EXISTS migrations (
		version INTEGER PRIMARY KEY,
		applied_at %s DEFAULT CURRENT_TIMESTAMP,
		dirty BOOLEAN NOT NULL DEFAULT FALSE
	)`, r.dialect.TimestampType)
	_, err := r.db.ExecContext(ctx, query)
	return err
}

func (r *Runner) checkDirty(ctx context.Context) error {
	rows, err := r.db.QueryContext(ctx, "SELECT version FROM migrations WHERE dirty = TRUE ORDER BY version")
	if err != nil {
		return fmt.Errorf("failed to check migration state: %w", err)
	}
	defer rows.Close()

	var dirty []int
	for rows.Next() {
		var version int
		if err := rows.Scan(&version); err != nil {
			return err
		}
		dirty = append(dirty, version)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	if len(dirty) > 0 {
		return fmt.Errorf("database is in a dirty state, failed migration(s): %v", dirty)
	}
	return nil
}

func (r *Runner) markDirty(ctx context.Context, version int) {
	query := fmt.Sprintf("INSERT INTO migrations (version, dirty) VALUES (%s, TRUE)", r.dialect.Placeholder(1))
	_, _ = r.db.ExecContext(ctx, query, version)
}

func (r *Runner) appliedVersions(ctx context.Context) (map[int]bool, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT version FROM migrations")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	applied := make(map[int]bool)
	for rows.Next() {
		var version int
		if err := rows.Scan(&version); err != nil {
			return nil, err
		}
		applied[version] = true
	}
	return applied, rows.Err()
}

func (r *Runner) apply(ctx context.Context, migration Migration) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, migration.Up); err != nil {
		tx.Rollback()
		return err
	}

	insert := fmt.Sprintf("INSERT INTO migrations (version) VALUES (%s)", r.dialect.Placeholder(1))
	if _, err := tx.ExecContext(ctx, insert, migration.Version); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit()
}

func (r *Runner) revert(ctx context.Context, migration Migration) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, migration.Down); err != nil {
		tx.Rollback()
		return err
	}

	del := fmt.Sprintf("DELETE FROM migrations WHERE version = %s", r.dialect.Placeholder(1))
	if _, err := tx.ExecContext(ctx, del, migration.Version); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit()
}

// Load reads every NNNNNN_name.up.sql file and its .down.sql sibling from
// the root of fsys, sorted by version.
func Load(fsys fs.FS) ([]Migration, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, err
	}

	var migrations []Migration
	for _, entry := range entries {
		if !strings.HasSuffix(entry.Name(), ".up.sql") {
			continue
		}

		version := extractVersion(entry.Name())
		if version == 0 {
			continue
		}

		upSQL, err := fs.ReadFile(fsys, entry.Name())
		if err != nil {
			return nil, err
		}

		downFile := strings.Replace(entry.Name(), ".up.sql", ".down.sql", 1)
		downSQL, err := fs.ReadFile(fsys, downFile)
		if err != nil {
			return nil, fmt.Errorf("missing down migration for %s: %w", entry.Name(), err)
		}

		migrations = append(migrations, Migration{
			Version: version,
			Name:    extractName(entry.Name()),
			Up:      string(upSQL),
			Down:    string(downSQL),
		})
	}

	sort.Slice(migrations, func(i, j int) bool {
		return migrations[i].Version < migrations[j].Version
	})

	return migrations, nil
}

func extractVersion(filename string) int {
	var version int
	fmt.Sscanf(filename, "%d_", &version)
	return version
}

func extractName(filename string) string {
	name := strings.TrimSuffix(filename, ".up.sql")
	if i := strings.Index(name, "_"); i >= 0 {
		return name[i+1:]
	}
	return name
}
