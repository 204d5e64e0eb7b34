package redis

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexsum/lexsum/pkg/jobstore"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return New(client)
}

func TestStore_Lifecycle(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	require.NoError(t, s.Create(ctx, "job-1", "contract.pdf"))

	rec, err := s.Get(ctx, "job-1")
	require.NoError(t, err)
	assert.Equal(t, jobstore.StatusUploaded, rec.Status)
	assert.Equal(t, "contract.pdf", rec.Filename)
	assert.False(t, rec.CreatedAt.IsZero())

	require.NoError(t, s.SetProcessing(ctx, "job-1"))
	require.NoError(t, s.SetCompleted(ctx, "job-1", "the summary"))

	rec, err = s.Get(ctx, "job-1")
	require.NoError(t, err)
	assert.Equal(t, jobstore.StatusCompleted, rec.Status)
	assert.Equal(t, "the summary", rec.Summary)
	assert.Empty(t, rec.Error)
}

func TestStore_SetFailedClearsSummary(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	require.NoError(t, s.Create(ctx, "job-2", "x.pdf"))
	require.NoError(t, s.SetCompleted(ctx, "job-2", "stale"))
	require.NoError(t, s.SetFailed(ctx, "job-2", "processing error: no text"))

	rec, err := s.Get(ctx, "job-2")
	require.NoError(t, err)
	assert.Equal(t, jobstore.StatusFailed, rec.Status)
	assert.Equal(t, "processing error: no text", rec.Error)
	assert.Empty(t, rec.Summary)
}

// Transitions on unknown jobs must not upsert partial hashes; the
// backend has to agree with the in-memory store's contract.
func TestStore_TransitionsOnUnknownJob(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	assert.ErrorIs(t, s.SetProcessing(ctx, "ghost"), jobstore.ErrNotFound)
	assert.ErrorIs(t, s.SetCompleted(ctx, "ghost", "s"), jobstore.ErrNotFound)
	assert.ErrorIs(t, s.SetFailed(ctx, "ghost", "e"), jobstore.ErrNotFound)

	// Nothing was created as a side effect.
	_, err := s.Get(ctx, "ghost")
	assert.ErrorIs(t, err, jobstore.ErrNotFound)
}

func TestStore_GetUnknownJob(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, jobstore.ErrNotFound)
}
