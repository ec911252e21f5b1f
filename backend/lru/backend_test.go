package lru_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/healthtools/lazycache"
	"github.com/healthtools/lazycache/backend/lru"
)

func TestBackend(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	backend, err := lru.NewBackend[string](100)
	assert.NoError(t, err)

	entry := lazycache.Entry[string]{
		Value:       ptr("testvalue"),
		RefreshedAt: time.Now().Add(-time.Minute),
	}

	key := "test"
	err = backend.Set(ctx, key, time.Minute, &entry)
	assert.NoError(t, err)

	gotEntry, err := backend.Get(ctx, key)
	assert.NoError(t, err)
	assert.Equal(t, &entry, gotEntry)

	gotEntry, err = backend.Get(ctx, "missing")
	assert.NoError(t, err)
	assert.Nil(t, gotEntry)
}

func TestBackendEviction(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	backend, err := lru.NewBackend[string](1)
	assert.NoError(t, err)

	now := time.Now()
	err = backend.Set(ctx, "a", time.Minute, &lazycache.Entry[string]{Value: ptr("a"), RefreshedAt: now})
	assert.NoError(t, err)
	err = backend.Set(ctx, "b", time.Minute, &lazycache.Entry[string]{Value: ptr("b"), RefreshedAt: now})
	assert.NoError(t, err)

	gotEntry, err := backend.Get(ctx, "a")
	assert.NoError(t, err)
	assert.Nil(t, gotEntry)
}

func ptr[T any](v T) *T {
	return &v
}
