package bolt_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/healthtools/lazycache"
	boltbackend "github.com/healthtools/lazycache/backend/bolt"
)

func TestBackend(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "cache.db")

	backend, err := boltbackend.NewBackend[string](path, "entries")
	require.NoError(t, err)
	defer backend.Close()

	entry := lazycache.Entry[string]{
		Value:       ptr("testvalue"),
		RefreshedAt: time.Now().Add(-time.Minute),
	}

	t.Run("roundtrip", func(t *testing.T) {
		key := "test"
		err := backend.Set(ctx, key, time.Hour, &entry)
		assert.NoError(t, err)

		gotEntry, err := backend.Get(ctx, key)
		assert.NoError(t, err)
		assert.Equal(t, entry.Value, gotEntry.Value)
		assert.True(t, entry.RefreshedAt.Equal(gotEntry.RefreshedAt))
	})

	t.Run("missing key", func(t *testing.T) {
		gotEntry, err := backend.Get(ctx, "missing")
		assert.NoError(t, err)
		assert.Nil(t, gotEntry)
	})

	t.Run("retention elapsed", func(t *testing.T) {
		key := "expired"
		err := backend.Set(ctx, key, -time.Second, &entry)
		assert.NoError(t, err)

		gotEntry, err := backend.Get(ctx, key)
		assert.NoError(t, err)
		assert.Nil(t, gotEntry)

		// The expired entry is deleted on read.
		gotEntry, err = backend.Get(ctx, key)
		assert.NoError(t, err)
		assert.Nil(t, gotEntry)
	})
}

func TestBackendPersistence(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "cache.db")

	backend, err := boltbackend.NewBackend[string](path, "entries")
	require.NoError(t, err)

	entry := lazycache.Entry[string]{
		Value:       ptr("testvalue"),
		RefreshedAt: time.Now(),
	}
	require.NoError(t, backend.Set(ctx, "test", time.Hour, &entry))
	backend.Close()

	// Reopen: the entry survives the restart.
	backend, err = boltbackend.NewBackend[string](path, "entries")
	require.NoError(t, err)
	defer backend.Close()

	gotEntry, err := backend.Get(ctx, "test")
	assert.NoError(t, err)
	assert.Equal(t, entry.Value, gotEntry.Value)
}

func ptr[T any](v T) *T {
	return &v
}
