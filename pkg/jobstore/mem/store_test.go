package mem

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexsum/lexsum/pkg/jobstore"
)

func TestStore_Lifecycle(t *testing.T) {
	ctx := context.Background()
	s := New()

	require.NoError(t, s.Create(ctx, "job-1", "contract.pdf"))

	rec, err := s.Get(ctx, "job-1")
	require.NoError(t, err)
	assert.Equal(t, jobstore.StatusUploaded, rec.Status)
	assert.Equal(t, "contract.pdf", rec.Filename)
	assert.Empty(t, rec.Summary)
	assert.Empty(t, rec.Error)

	require.NoError(t, s.SetProcessing(ctx, "job-1"))
	rec, err = s.Get(ctx, "job-1")
	require.NoError(t, err)
	assert.Equal(t, jobstore.StatusProcessing, rec.Status)

	require.NoError(t, s.SetCompleted(ctx, "job-1", "the summary"))
	rec, err = s.Get(ctx, "job-1")
	require.NoError(t, err)
	assert.Equal(t, jobstore.StatusCompleted, rec.Status)
	assert.Equal(t, "the summary", rec.Summary)
	assert.Empty(t, rec.Error)
	assert.True(t, rec.Status.Terminal())
}

func TestStore_FailedClearsSummary(t *testing.T) {
	ctx := context.Background()
	s := New()

	require.NoError(t, s.Create(ctx, "job-2", "x.pdf"))
	require.NoError(t, s.SetCompleted(ctx, "job-2", "partial"))
	require.NoError(t, s.SetFailed(ctx, "job-2", "S3 error: boom"))

	rec, err := s.Get(ctx, "job-2")
	require.NoError(t, err)
	assert.Equal(t, jobstore.StatusFailed, rec.Status)
	assert.Equal(t, "S3 error: boom", rec.Error)
	assert.Empty(t, rec.Summary)
}

func TestStore_GetUnknown(t *testing.T) {
	s := New()

	_, err := s.Get(context.Background(), "nope")
	assert.True(t, errors.Is(err, jobstore.ErrNotFound))
}

func TestStore_TransitionUnknownJob(t *testing.T) {
	s := New()

	assert.ErrorIs(t, s.SetProcessing(context.Background(), "nope"), jobstore.ErrNotFound)
	assert.ErrorIs(t, s.SetCompleted(context.Background(), "nope", "s"), jobstore.ErrNotFound)
	assert.ErrorIs(t, s.SetFailed(context.Background(), "nope", "e"), jobstore.ErrNotFound)
}

func TestStore_DuplicateCreate(t *testing.T) {
	ctx := context.Background()
	s := New()

	require.NoError(t, s.Create(ctx, "job-3", "a.pdf"))
	assert.Error(t, s.Create(ctx, "job-3", "b.pdf"))
}

func TestStore_ReprocessingIsIdempotent(t *testing.T) {
	// Redelivery may replay processing on an already-terminal job; the
	// record must end in the same consistent state.
	ctx := context.Background()
	s := New()

	require.NoError(t, s.Create(ctx, "job-4", "x.pdf"))
	require.NoError(t, s.SetProcessing(ctx, "job-4"))
	require.NoError(t, s.SetCompleted(ctx, "job-4", "summary"))

	require.NoError(t, s.SetProcessing(ctx, "job-4"))
	require.NoError(t, s.SetCompleted(ctx, "job-4", "summary"))

	rec, err := s.Get(ctx, "job-4")
	require.NoError(t, err)
	assert.Equal(t, jobstore.StatusCompleted, rec.Status)
	assert.Equal(t, "summary", rec.Summary)
}
