package mem

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexsum/lexsum/pkg/blobstore"
)

func TestStore_PutGetDelete(t *testing.T) {
	ctx := context.Background()
	s := New("uploads")

	require.NoError(t, s.Put(ctx, "uploads/a.pdf", []byte("data")))

	got, err := s.Get(ctx, "uploads/a.pdf")
	require.NoError(t, err)
	assert.Equal(t, []byte("data"), got)

	require.NoError(t, s.Delete(ctx, "uploads/a.pdf"))

	_, err = s.Get(ctx, "uploads/a.pdf")
	assert.True(t, blobstore.IsNotFound(err))
}

func TestStore_GetMissing(t *testing.T) {
	s := New("uploads")

	_, err := s.Get(context.Background(), "nope")
	require.Error(t, err)
	assert.True(t, blobstore.IsNotFound(err))

	var storeErr *blobstore.StoreError
	require.ErrorAs(t, err, &storeErr)
	assert.Equal(t, "Get", storeErr.Op)
	assert.Equal(t, "uploads", storeErr.Bucket)
}

func TestStore_DeleteMissingIsNoop(t *testing.T) {
	s := New("uploads")
	assert.NoError(t, s.Delete(context.Background(), "nope"))
}
