package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"

	"github.com/healthtools/lazycache"
	redisbackend "github.com/healthtools/lazycache/backend/redis"
)

func TestBackend(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := miniredis.RunT(t)

	rdb := redis.NewClient(&redis.Options{
		Addr: s.Addr(),
	})
	cmd := rdb.Ping(ctx)
	assert.NoError(t, cmd.Err())

	backend, err := redisbackend.NewBackend[string](rdb, "testprefix")
	assert.NoError(t, err)

	tests := []struct {
		name      string
		entry     lazycache.Entry[string]
		retention time.Duration
		wantGone  bool
	}{
		{
			name: "simple",
			entry: lazycache.Entry[string]{
				Value:       ptr("testvalue"),
				RefreshedAt: time.Now().Add(-time.Minute),
			},
			retention: time.Minute,
			wantGone:  false,
		},
		{
			name: "retention elapsed",
			entry: lazycache.Entry[string]{
				Value:       ptr("testvalue"),
				RefreshedAt: time.Now().Add(-time.Minute),
			},
			retention: time.Nanosecond,
			wantGone:  true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key := "test" + tt.name
			err = backend.Set(ctx, key, tt.retention, &tt.entry)
			assert.NoError(t, err)

			s.FastForward(time.Second)

			gotEntry, err := backend.Get(ctx, key)
			assert.NoError(t, err)
			if tt.wantGone {
				assert.Nil(t, gotEntry)
			} else {
				assert.Equal(t, tt.entry.Value, gotEntry.Value)
				assert.Equal(t, tt.entry.RefreshedAt.Unix(), gotEntry.RefreshedAt.Unix())
			}
		})
	}

	t.Run("missing key", func(t *testing.T) {
		gotEntry, err := backend.Get(ctx, "missing")
		assert.NoError(t, err)
		assert.Nil(t, gotEntry)
	})

	t.Run("nil client", func(t *testing.T) {
		_, err := redisbackend.NewBackend[string](nil, "")
		assert.Error(t, err)
	})
}

func ptr[T any](v T) *T {
	return &v
}
