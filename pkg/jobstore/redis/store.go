// Package redis implements jobstore.Store on a Redis hash per job.
//
// Key layout: job:<job_id> -> {status, filename, summary, error,
// created_at, updated_at}. Writes are whole-field HSET updates; the
// worker is the only post-creation writer, so no transactions are
// needed.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/lexsum/lexsum/pkg/jobstore"
)

const keyPrefix = "job:"

// Store implements jobstore.Store.
type Store struct {
	client *redis.Client
}

var _ jobstore.Store = (*Store)(nil)

// New creates a store on an existing Redis client. The caller owns the
// client lifecycle.
func New(client *redis.Client) *Store {
	return &Store{client: client}
}

func key(jobID string) string {
	return keyPrefix + jobID
}

func (s *Store) Create(ctx context.Context, jobID, filename string) error {
	if jobID == "" {
		return fmt.Errorf("job_id is required")
	}
	now := time.Now().UTC().Format(time.RFC3339Nano)
	err := s.client.HSet(ctx, key(jobID), map[string]any{
		"status":     string(jobstore.StatusUploaded),
		"filename":   filename,
		"created_at": now,
		"updated_at": now,
	}).Err()
	if err != nil {
		return fmt.Errorf("create job %s: %w", jobID, err)
	}
	return nil
}

func (s *Store) SetProcessing(ctx context.Context, jobID string) error {
	return s.setFields(ctx, jobID, map[string]any{
		"status": string(jobstore.StatusProcessing),
	})
}

func (s *Store) SetCompleted(ctx context.Context, jobID, summary string) error {
	return s.setFields(ctx, jobID, map[string]any{
		"status":  string(jobstore.StatusCompleted),
		"summary": summary,
		"error":   "",
	})
}

func (s *Store) SetFailed(ctx context.Context, jobID, errMsg string) error {
	return s.setFields(ctx, jobID, map[string]any{
		"status":  string(jobstore.StatusFailed),
		"error":   errMsg,
		"summary": "",
	})
}

// setFields updates an existing record. Transitions on unknown jobs
// must not upsert partial hashes; they return ErrNotFound like every
// other backend. The existence check is not transactional with the
// write, which is fine: the worker is the sole post-creation writer
// and records are never deleted by the pipeline.
func (s *Store) setFields(ctx context.Context, jobID string, fields map[string]any) error {
	exists, err := s.client.Exists(ctx, key(jobID)).Result()
	if err != nil {
		return fmt.Errorf("update job %s: %w", jobID, err)
	}
	if exists == 0 {
		return jobstore.ErrNotFound
	}

	fields["updated_at"] = time.Now().UTC().Format(time.RFC3339Nano)
	if err := s.client.HSet(ctx, key(jobID), fields).Err(); err != nil {
		return fmt.Errorf("update job %s: %w", jobID, err)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, jobID string) (*jobstore.Record, error) {
	values, err := s.client.HGetAll(ctx, key(jobID)).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("get job %s: %w", jobID, err)
	}
	if len(values) == 0 {
		return nil, jobstore.ErrNotFound
	}

	rec := &jobstore.Record{
		JobID:    jobID,
		Filename: values["filename"],
		Status:   jobstore.Status(values["status"]),
		Summary:  values["summary"],
		Error:    values["error"],
	}
	if ts, perr := time.Parse(time.RFC3339Nano, values["created_at"]); perr == nil {
		rec.CreatedAt = ts
	}
	if ts, perr := time.Parse(time.RFC3339Nano, values["updated_at"]); perr == nil {
		rec.UpdatedAt = ts
	}
	return rec, nil
}
