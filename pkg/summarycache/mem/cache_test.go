package mem

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/lexsum/lexsum/pkg/fingerprint"
)

func TestCache_RoundTrip(t *testing.T) {
	ctx := context.Background()
	c := New(time.Hour)
	token := fingerprint.Compute([]byte("doc"))

	_, ok := c.Get(ctx, token)
	assert.False(t, ok, "miss expected before put")

	c.Put(ctx, token, "a summary")

	got, ok := c.Get(ctx, token)
	assert.True(t, ok)
	assert.Equal(t, "a summary", got)
}

func TestCache_Expiry(t *testing.T) {
	ctx := context.Background()
	c := New(time.Hour)

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	c.Now = func() time.Time { return now }

	token := fingerprint.Compute([]byte("doc"))
	c.Put(ctx, token, "a summary")

	now = now.Add(59 * time.Minute)
	_, ok := c.Get(ctx, token)
	assert.True(t, ok, "entry should still be valid")

	now = now.Add(2 * time.Minute)
	_, ok = c.Get(ctx, token)
	assert.False(t, ok, "entry should have expired")
}

func TestCache_LastWriterWins(t *testing.T) {
	ctx := context.Background()
	c := New(time.Hour)
	token := fingerprint.Compute([]byte("doc"))

	c.Put(ctx, token, "first")
	c.Put(ctx, token, "second")

	got, ok := c.Get(ctx, token)
	assert.True(t, ok)
	assert.Equal(t, "second", got)
}
