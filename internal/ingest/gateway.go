// Package ingest implements the ingestion gateway: upload validation,
// content-addressed cache lookup, and job admission.
package ingest

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lexsum/lexsum/internal/queue"
	"github.com/lexsum/lexsum/pkg/blobstore"
	"github.com/lexsum/lexsum/pkg/fingerprint"
	"github.com/lexsum/lexsum/pkg/jobstore"
	"github.com/lexsum/lexsum/pkg/summarycache"
)

// PDFContentType is the only accepted upload media type.
const PDFContentType = "application/pdf"

// ErrInvalidInput indicates a user error (wrong content type, empty
// file). Maps to a 4xx response.
var ErrInvalidInput = errors.New("invalid input")

// IngestionError indicates the durability path (blob write, job
// creation, or enqueue) failed. The submission as a whole fails and no
// notification is left queued without a backing job record.
type IngestionError struct {
	Stage string // "blob", "jobstore", "enqueue"
	Err   error
}

func (e *IngestionError) Error() string {
	return fmt.Sprintf("ingestion failed at %s: %v", e.Stage, e.Err)
}

func (e *IngestionError) Unwrap() error {
	return e.Err
}

// Result source values.
const (
	SourceCache     = "cache"
	SourceGenerated = "generated"
)

// SubmitResult is the outcome of a submission: either an immediate
// cache hit or an admitted asynchronous job.
type SubmitResult struct {
	// Source is SourceCache on a cache hit, empty otherwise.
	Source  string
	Summary string

	// JobID and Status identify the admitted job on a cache miss.
	JobID  string
	Status jobstore.Status
}

// CacheHit reports whether the submission was served from cache.
func (r *SubmitResult) CacheHit() bool {
	return r.Source == SourceCache
}

// Gateway admits uploads into the pipeline. All collaborators are
// injected capability interfaces.
type Gateway struct {
	cache     summarycache.Cache
	blobs     blobstore.Store
	jobs      jobstore.Store
	publisher queue.Publisher
	logger    *zap.Logger
}

// NewGateway wires a gateway from its collaborators.
func NewGateway(cache summarycache.Cache, blobs blobstore.Store, jobs jobstore.Store, publisher queue.Publisher, logger *zap.Logger) *Gateway {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Gateway{
		cache:     cache,
		blobs:     blobs,
		jobs:      jobs,
		publisher: publisher,
		logger:    logger,
	}
}

// ObjectKey returns the blob key for a job's upload.
func ObjectKey(jobID string) string {
	return "uploads/" + jobID + ".pdf"
}

// Submit validates and admits one upload.
//
// On a cache hit the stored summary is returned immediately and no job
// or blob is created. On a miss the blob and job record are made
// durable before the notification is published; the client only sees
// success after both writes.
func (g *Gateway) Submit(ctx context.Context, data []byte, filename, contentType string) (*SubmitResult, error) {
	if contentType != PDFContentType {
		return nil, fmt.Errorf("%w: file must be a PDF, got %q", ErrInvalidInput, contentType)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: file is empty", ErrInvalidInput)
	}

	token := fingerprint.Compute(data)
	if summary, ok := g.cache.Get(ctx, token); ok {
		g.logger.Info("cache hit, skipping job admission",
			zap.String("token", token.String()),
			zap.String("filename", filename))
		return &SubmitResult{Source: SourceCache, Summary: summary}, nil
	}

	jobID := uuid.New().String()
	objectKey := ObjectKey(jobID)

	if err := g.blobs.Put(ctx, objectKey, data); err != nil {
		return nil, &IngestionError{Stage: "blob", Err: err}
	}
	if err := g.jobs.Create(ctx, jobID, filename); err != nil {
		return nil, &IngestionError{Stage: "jobstore", Err: err}
	}

	// Enqueue strictly after the job record is durable so the worker
	// cannot race ahead of an unseen record.
	notification := queue.Notification{
		JobID:     jobID,
		Bucket:    g.blobs.Bucket(),
		ObjectKey: objectKey,
	}
	if err := g.publisher.Publish(ctx, notification); err != nil {
		return nil, &IngestionError{Stage: "enqueue", Err: err}
	}

	g.logger.Info("job admitted",
		zap.String("job_id", jobID),
		zap.String("filename", filename),
		zap.Int("size_bytes", len(data)))

	return &SubmitResult{JobID: jobID, Status: jobstore.StatusUploaded}, nil
}

// Status returns the job record for jobID. Passes through
// jobstore.ErrNotFound for unknown jobs.
func (g *Gateway) Status(ctx context.Context, jobID string) (*jobstore.Record, error) {
	return g.jobs.Get(ctx, jobID)
}
