package database

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSchema = `CREATE TABLE IF NOT EXISTS kv (k TEXT PRIMARY KEY, v TEXT NOT NULL);`

func TestOpen_FileDatabase(t *testing.T) {
	cfg := Config{Path: filepath.Join(t.TempDir(), "nested", "test.db")}

	db, err := Open(cfg)
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, Migrate(db, testSchema, testSchema))
	_, err = db.Exec(`INSERT INTO kv (k, v) VALUES ('a', 'b')`)
	require.NoError(t, err)

	var v string
	require.NoError(t, db.QueryRow(`SELECT v FROM kv WHERE k = 'a'`).Scan(&v))
	assert.Equal(t, "b", v)
}

func TestOpen_MemoryDatabasesAreIsolated(t *testing.T) {
	a, err := Open(MemoryConfig())
	require.NoError(t, err)
	defer a.Close()
	b, err := Open(MemoryConfig())
	require.NoError(t, err)
	defer b.Close()

	require.NoError(t, Migrate(a, testSchema))
	require.NoError(t, Migrate(b, testSchema))
	_, err = a.Exec(`INSERT INTO kv (k, v) VALUES ('only', 'a')`)
	require.NoError(t, err)

	var n int
	require.NoError(t, b.QueryRow(`SELECT COUNT(*) FROM kv`).Scan(&n))
	assert.Zero(t, n)
}

func TestMigrate_ReportsBadSchema(t *testing.T) {
	db, err := Open(MemoryConfig())
	require.NoError(t, err)
	defer db.Close()

	err = Migrate(db, "CREATE TABLE nope (")
	assert.ErrorContains(t, err, "apply schema 0")
}

func TestDefaultConfig_EnvOverride(t *testing.T) {
	t.Setenv("BOOKSHELF_DB_PATH", "/tmp/x.db")
	assert.Equal(t, "/tmp/x.db", DefaultConfig().Path)
}
