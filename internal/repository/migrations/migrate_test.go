package migrations

import (
	"context"
	"database/sql"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"000001_create_widgets.up.sql":   {Data: []byte(`CREATE TABLE widgets (id INTEGER PRIMARY KEY, name TEXT)`)},
		"000001_create_widgets.down.sql": {Data: []byte(`DROP TABLE widgets`)},
		"000002_add_colour.up.sql":       {Data: []byte(`ALTER TABLE widgets ADD COLUMN colour TEXT`)},
		"000002_add_colour.down.sql":     {Data: []byte(`ALTER TABLE widgets DROP COLUMN colour`)},
		"README.md":                      {Data: []byte(`ignored`)},
	}
}

func openDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestLoad(t *testing.T) {
	migrations, err := Load(testFS())
	require.NoError(t, err)
	require.Len(t, migrations, 2)

	assert.Equal(t, 1, migrations[0].Version)
	assert.Equal(t, "create_widgets", migrations[0].Name)
	assert.Equal(t, 2, migrations[1].Version)
	assert.Contains(t, migrations[1].Down, "DROP COLUMN")
}

func TestLoad_MissingDown(t *testing.T) {
	fsys := fstest.MapFS{
		"000001_only_up.up.sql": {Data: []byte(`SELECT 1`)},
	}
	_, err := Load(fsys)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing down migration")
}

func TestRunner_UpIsIdempotent(t *testing.T) {
	ctx := context.Background()
	db := openDB(t)
	runner := NewRunner(db, testFS(), SQLite)

	applied, err := runner.Up(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, applied)

	applied, err = runner.Up(ctx)
	require.NoError(t, err)
	assert.Empty(t, applied)

	version, err := runner.Version(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, version)

	_, err = db.Exec(`INSERT INTO widgets (name, colour) VALUES ('a', 'red')`)
	assert.NoError(t, err)
}

func TestRunner_Down(t *testing.T) {
	ctx := context.Background()
	db := openDB(t)
	runner := NewRunner(db, testFS(), SQLite)

	_, err := runner.Up(ctx)
	require.NoError(t, err)

	reverted, err := runner.Down(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, reverted)

	version, err := runner.Version(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, version)

	reverted, err = runner.Down(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, reverted)

	reverted, err = runner.Down(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, reverted)
}

func TestRunner_DirtyDatabase(t *testing.T) {
	ctx := context.Background()
	db := openDB(t)
	runner := NewRunner(db, testFS(), SQLite)

	require.NoError(t, runner.createMigrationsTable(ctx))
	_, err := db.Exec("INSERT INTO migrations (version, dirty) VALUES (1, TRUE)")
	require.NoError(t, err)

	_, err = runner.Up(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database is in a dirty state")
	assert.Contains(t, err.Error(), "failed migration(s): [1]")
}

func TestRunner_FailedMigrationMarksDirty(t *testing.T) {
	ctx := context.Background()
	db := openDB(t)
	fsys := fstest.MapFS{
		"000001_broken.up.sql":   {Data: []byte(`CREATE TABLE (`)},
		"000001_broken.down.sql": {Data: []byte(`SELECT 1`)},
	}
	runner := NewRunner(db, fsys, SQLite)

	_, err := runner.Up(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to apply migration 1")

	_, err = runner.Up(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dirty state")
}

func TestPostgresPlaceholder(t *testing.T) {
	assert.Equal(t, "$3", Postgres.Placeholder(3))
	assert.Equal(t, "?", SQLite.Placeholder(3))
}
