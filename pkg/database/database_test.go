package database

import (
	"context"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(Config{Path: filepath.Join(t.TempDir(), "data", "test.db")}, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestLoadMigrations_Embedded(t *testing.T) {
	migrations, err := LoadMigrations(Migrations())
	require.NoError(t, err)
	require.Len(t, migrations, 2)

	assert.Equal(t, 1, migrations[0].Version)
	assert.Equal(t, "salespeople", migrations[0].Name)
	assert.Equal(t, 2, migrations[1].Version)
	assert.Equal(t, "visits", migrations[1].Name)
}

func TestLoadMigrations_Invalid(t *testing.T) {
	t.Run("bad name", func(t *testing.T) {
		_, err := LoadMigrations(fstest.MapFS{"init.sql": {Data: []byte("SELECT 1;")}})
		assert.Error(t, err)
	})

	t.Run("duplicate version", func(t *testing.T) {
		_, err := LoadMigrations(fstest.MapFS{
			"001_a.sql": {Data: []byte("SELECT 1;")},
			"001_b.sql": {Data: []byte("SELECT 1;")},
		})
		assert.Error(t, err)
	})

	t.Run("ignores other files", func(t *testing.T) {
		migrations, err := LoadMigrations(fstest.MapFS{
			"README.md": {Data: []byte("docs")},
			"002_b.sql": {Data: []byte("SELECT 2;")},
			"001_a.sql": {Data: []byte("SELECT 1;")},
		})
		require.NoError(t, err)
		require.Len(t, migrations, 2)
		assert.Equal(t, "a", migrations[0].Name)
	})
}

func TestMigrator_RunIsIdempotent(t *testing.T) {
	db := openTestDB(t)
	m := NewMigrator(db, zap.NewNop())
	ctx := context.Background()

	require.NoError(t, m.Run(ctx, Migrations()))
	require.NoError(t, m.Run(ctx, Migrations()))

	var count int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&count))
	assert.Equal(t, 2, count)

	for _, table := range []string{"salespeople", "visits"} {
		var name string
		err := db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		require.NoError(t, err, table)
	}
}

func TestMigrator_FailedMigrationRollsBack(t *testing.T) {
	db := openTestDB(t)
	m := NewMigrator(db, zap.NewNop())

	err := m.Run(context.Background(), fstest.MapFS{
		"001_broken.sql": {Data: []byte("CREATE TABLE t (id INTEGER); NOT SQL;")},
	})
	require.Error(t, err)

	var count int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&count))
	assert.Equal(t, 0, count)
}
