package bigcache_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/healthtools/lazycache"
	bigcachebackend "github.com/healthtools/lazycache/backend/bigcache"
)

func TestBackend(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	backend, err := bigcachebackend.NewBackend[string](ctx, 8, time.Hour)
	assert.NoError(t, err)
	defer backend.Close()

	entry := lazycache.Entry[string]{
		Value:       ptr("testvalue"),
		RefreshedAt: time.Now().Add(-time.Minute).Truncate(time.Second),
	}

	key := "test"
	err = backend.Set(ctx, key, time.Hour, &entry)
	assert.NoError(t, err)

	gotEntry, err := backend.Get(ctx, key)
	assert.NoError(t, err)
	assert.Equal(t, entry.Value, gotEntry.Value)
	assert.True(t, entry.RefreshedAt.Equal(gotEntry.RefreshedAt))

	gotEntry, err = backend.Get(ctx, "missing")
	assert.NoError(t, err)
	assert.Nil(t, gotEntry)
}

func ptr[T any](v T) *T {
	return &v
}
