package share

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "nested", "shares.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLiteStore(t *testing.T) {
	ctx := context.Background()
	s := newTestSQLiteStore(t)

	_, err := s.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Put(ctx, "k", []byte(`{"a":1}`)))
	got, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, string(got))

	require.NoError(t, s.Put(ctx, "k", []byte(`{"a":2}`)))
	got, err = s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, `{"a":2}`, string(got))

	require.NoError(t, s.Delete(ctx, "k"))
	require.NoError(t, s.Delete(ctx, "k"))
	_, err = s.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSQLiteStorePersists(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "shares.db")

	s, err := NewSQLiteStore(path)
	require.NoError(t, err)
	require.NoError(t, s.Put(ctx, "k", []byte("v")))
	require.NoError(t, s.Close())

	reopened, err := NewSQLiteStore(path)
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", string(got))
}
