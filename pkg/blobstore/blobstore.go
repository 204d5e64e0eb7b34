// Package blobstore defines the object-store abstraction used to hand
// uploaded documents from the ingestion gateway to the worker.
//
// Implementations should use SDK default credential chains and be safe
// for concurrent use. The pipeline writes a blob once per job and the
// worker reads it once; the durable copy is kept after processing
// (retention is an external policy), while worker staging copies are
// always removed.
package blobstore

import "context"

// Store abstracts object storage for uploaded documents.
type Store interface {
	// Put uploads data under key.
	Put(ctx context.Context, key string, data []byte) error

	// Get returns the bytes stored under key.
	// Returns ErrNotFound if the object does not exist.
	Get(ctx context.Context, key string) ([]byte, error)

	// Delete removes the object under key. Deleting a missing object
	// is not an error.
	Delete(ctx context.Context, key string) error

	// Bucket returns the bucket or namespace the store writes to, for
	// inclusion in queue notifications.
	Bucket() string

	// Close releases any resources held by the store.
	Close() error
}
