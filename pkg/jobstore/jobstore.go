// Package jobstore tracks asynchronous summarization jobs.
//
// The job store is the single source of truth for job lifecycle. The
// ingestion gateway creates records in StatusUploaded; the worker is
// the sole writer after creation and moves a job to StatusProcessing
// and then to exactly one terminal status. Records are never deleted
// by the pipeline; retention is an operator concern.
package jobstore

import (
	"context"
	"errors"
	"time"
)

// Status is the lifecycle state of a job.
//
// NOTE: These values are persisted and are part of the stable wire
// contract with API clients.
type Status string

const (
	StatusUploaded   Status = "uploaded"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// Terminal reports whether no further transitions occur from s.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// ErrNotFound indicates the requested job does not exist.
var ErrNotFound = errors.New("job not found")

// Record is the persistent job record.
//
// Summary is set if and only if Status is StatusCompleted; Error is
// set if and only if Status is StatusFailed.
type Record struct {
	JobID     string    `json:"job_id"`
	Filename  string    `json:"filename"`
	Status    Status    `json:"status"`
	Summary   string    `json:"summary,omitempty"`
	Error     string    `json:"error,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Store persists job records.
//
// Implementations must tolerate concurrent access from many gateway
// and worker instances without client-side locking. Transitions are
// whole-record field updates, not read-modify-write transactions; the
// queue's per-message delivery semantics ensure at most one worker
// transitions a given job at a time.
type Store interface {
	// Create writes a new record in StatusUploaded. Creation is on the
	// producer's critical path and must fail loudly.
	Create(ctx context.Context, jobID, filename string) error

	// SetProcessing marks the job as picked up by a worker. Like all
	// transitions, it returns ErrNotFound for an unknown job rather
	// than creating a partial record.
	SetProcessing(ctx context.Context, jobID string) error

	// SetCompleted records the terminal success state with the summary
	// text, clearing any previous error.
	SetCompleted(ctx context.Context, jobID, summary string) error

	// SetFailed records the terminal failure state with a
	// human-readable error, clearing any previous summary.
	SetFailed(ctx context.Context, jobID, errMsg string) error

	// Get returns the record for jobID, or ErrNotFound if the job is
	// unknown.
	Get(ctx context.Context, jobID string) (*Record, error)
}
