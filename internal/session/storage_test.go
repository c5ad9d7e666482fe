package session

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookshelf/pkg/database"
)

func exerciseStorage(t *testing.T, st Storage) {
	t.Helper()
	ctx := context.Background()

	_, ok, err := st.Get(ctx, StorageKey)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, st.Set(ctx, StorageKey, `{"id":1,"nome":"Ana"}`))
	require.NoError(t, st.Set(ctx, StorageKey, `{"id":2,"nome":"Ana"}`))
	v, ok, err := st.Get(ctx, StorageKey)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"id":2,"nome":"Ana"}`, v)

	require.NoError(t, st.Delete(ctx, StorageKey))
	require.NoError(t, st.Delete(ctx, StorageKey))
	_, ok, err = st.Get(ctx, StorageKey)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryStorage(t *testing.T) {
	exerciseStorage(t, NewMemoryStorage())
}

func TestFileStorage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.json")
	exerciseStorage(t, NewFileStorage(path))

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestFileStorage_OwnerOnlyPermissions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	st := NewFileStorage(path)
	require.NoError(t, st.Set(context.Background(), StorageKey, "x"))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestFileStorage_CorruptFileIsOverwritten(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0o600))
	st := NewFileStorage(path)

	_, _, err := st.Get(context.Background(), StorageKey)
	require.Error(t, err)

	require.NoError(t, st.Set(context.Background(), StorageKey, "v"))
	v, ok, err := st.Get(context.Background(), StorageKey)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v", v)
}

func TestSQLiteStorage(t *testing.T) {
	db, err := database.Open(database.MemoryConfig())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	st, err := NewSQLiteStorage(db)
	require.NoError(t, err)
	exerciseStorage(t, st)
}
