package lazycache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEntryExpired(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		refreshedAt time.Time
		ttl         time.Duration
		wantExpired bool
	}{
		{
			name:        "zero ttl",
			refreshedAt: now,
			ttl:         0,
			wantExpired: true,
		},
		{
			name:        "fresh",
			refreshedAt: now,
			ttl:         time.Second,
			wantExpired: false,
		},
		{
			name:        "refreshed in past, expired",
			refreshedAt: now.Add(-time.Minute),
			ttl:         30 * time.Second,
			wantExpired: true,
		},
		{
			name:        "refreshed in past, not expired",
			refreshedAt: now.Add(-time.Minute),
			ttl:         2 * time.Minute,
			wantExpired: false,
		},
		{
			name:        "exactly at ttl",
			refreshedAt: now.Add(-time.Minute),
			ttl:         time.Minute,
			wantExpired: true,
		},
		{
			name:        "never refreshed",
			refreshedAt: time.Time{},
			ttl:         time.Hour,
			wantExpired: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := Entry[bool]{
				Value:       new(bool),
				RefreshedAt: tt.refreshedAt,
			}
			assert.Equal(t, tt.wantExpired, e.Expired(tt.ttl, now))
		})
	}
}
