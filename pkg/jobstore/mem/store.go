// Package mem provides an in-memory job store for tests and local
// development.
package mem

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/lexsum/lexsum/pkg/jobstore"
)

// Store implements jobstore.Store backed by a map.
//
// Safe for concurrent use.
type Store struct {
	mu      sync.RWMutex
	records map[string]jobstore.Record

	// Now is the clock used for record timestamps. Overridable in
	// tests; defaults to time.Now.
	Now func() time.Time
}

var _ jobstore.Store = (*Store)(nil)

func New() *Store {
	return &Store{
		records: make(map[string]jobstore.Record),
		Now:     time.Now,
	}
}

func (s *Store) Create(ctx context.Context, jobID, filename string) error {
	if jobID == "" {
		return fmt.Errorf("job_id is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.records[jobID]; exists {
		return fmt.Errorf("job %s already exists", jobID)
	}
	now := s.Now().UTC()
	s.records[jobID] = jobstore.Record{
		JobID:     jobID,
		Filename:  filename,
		Status:    jobstore.StatusUploaded,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return nil
}

func (s *Store) SetProcessing(ctx context.Context, jobID string) error {
	return s.update(jobID, func(r *jobstore.Record) {
		r.Status = jobstore.StatusProcessing
	})
}

func (s *Store) SetCompleted(ctx context.Context, jobID, summary string) error {
	return s.update(jobID, func(r *jobstore.Record) {
		r.Status = jobstore.StatusCompleted
		r.Summary = summary
		r.Error = ""
	})
}

func (s *Store) SetFailed(ctx context.Context, jobID, errMsg string) error {
	return s.update(jobID, func(r *jobstore.Record) {
		r.Status = jobstore.StatusFailed
		r.Error = errMsg
		r.Summary = ""
	})
}

func (s *Store) Get(ctx context.Context, jobID string) (*jobstore.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.records[jobID]
	if !ok {
		return nil, jobstore.ErrNotFound
	}
	out := r
	return &out, nil
}

func (s *Store) update(jobID string, mutate func(*jobstore.Record)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.records[jobID]
	if !ok {
		return jobstore.ErrNotFound
	}
	mutate(&r)
	r.UpdatedAt = s.Now().UTC()
	s.records[jobID] = r
	return nil
}
