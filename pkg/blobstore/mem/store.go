// Package mem provides an in-memory blob store for tests and local
// development.
package mem

import (
	"context"
	"sync"

	"github.com/lexsum/lexsum/pkg/blobstore"
)

// Store implements blobstore.Store backed by a map.
//
// Safe for concurrent use.
type Store struct {
	mu      sync.RWMutex
	bucket  string
	objects map[string][]byte

	// FailPuts makes Put return ErrUnavailable. Used in tests to
	// exercise ingestion failure paths.
	FailPuts bool
}

var _ blobstore.Store = (*Store)(nil)

func New(bucket string) *Store {
	return &Store{
		bucket:  bucket,
		objects: make(map[string][]byte),
	}
}

func (s *Store) Put(ctx context.Context, key string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailPuts {
		return &blobstore.StoreError{Op: "Put", Bucket: s.bucket, Key: key, Err: blobstore.ErrUnavailable}
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	s.objects[key] = cp
	return nil
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.objects[key]
	if !ok {
		return nil, &blobstore.StoreError{Op: "Get", Bucket: s.bucket, Key: key, Err: blobstore.ErrNotFound}
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	return cp, nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, key)
	return nil
}

func (s *Store) Bucket() string {
	return s.bucket
}

func (s *Store) Close() error {
	return nil
}

// Len returns the number of stored objects. Test helper.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.objects)
}
