// Package worker consumes queued notifications and drives jobs to a
// terminal state.
//
// The worker performs no internal retries: redelivery by the queue
// transport is the retry mechanism, so processing must be idempotent.
// Re-running a notification after a crash overwrites the same fields
// and can never leave a half-written record.
package worker

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/lexsum/lexsum/internal/queue"
	"github.com/lexsum/lexsum/pkg/blobstore"
	"github.com/lexsum/lexsum/pkg/extract"
	"github.com/lexsum/lexsum/pkg/fingerprint"
	"github.com/lexsum/lexsum/pkg/jobstore"
	"github.com/lexsum/lexsum/pkg/summarize"
	"github.com/lexsum/lexsum/pkg/summarycache"
)

// FailureKind classifies per-item failures.
type FailureKind string

const (
	// TransportFailure: the blob could not be retrieved.
	TransportFailure FailureKind = "transport"

	// ProcessingFailure: extraction or summarization failed.
	ProcessingFailure FailureKind = "processing"

	// StateFailure: the job store was unreachable at a point where a
	// transition had to be recorded. The job is left stuck in its
	// prior status; this is a known limitation, surfaced in logs, not
	// masked.
	StateFailure FailureKind = "state"
)

// ItemResult is the outcome of one delivery in a batch.
type ItemResult struct {
	Delivery queue.Delivery
	JobID    string

	// Ack is true when the message should be deleted from the
	// transport: the job reached a terminal state, or the message can
	// never be handled (malformed). False leaves the message for
	// redelivery.
	Ack bool

	Failure FailureKind
	Err     error
}

// Processor executes the per-item state machine:
// Received -> Downloading -> Extracting -> Summarizing -> Completed|Failed.
type Processor struct {
	jobs       jobstore.Store
	blobs      blobstore.Store
	cache      summarycache.Cache
	extractor  extract.Extractor
	summarizer summarize.Summarizer
	stagingDir string
	logger     *zap.Logger
}

// NewProcessor wires a processor from its collaborators. stagingDir is
// the base directory for per-item staging; empty uses the OS temp dir.
func NewProcessor(
	jobs jobstore.Store,
	blobs blobstore.Store,
	cache summarycache.Cache,
	extractor extract.Extractor,
	summarizer summarize.Summarizer,
	stagingDir string,
	logger *zap.Logger,
) *Processor {
	if stagingDir == "" {
		stagingDir = os.TempDir()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Processor{
		jobs:       jobs,
		blobs:      blobs,
		cache:      cache,
		extractor:  extractor,
		summarizer: summarizer,
		stagingDir: stagingDir,
		logger:     logger,
	}
}

// HandleBatch processes deliveries independently. A failure in one
// item never aborts the rest of the batch.
func (p *Processor) HandleBatch(ctx context.Context, deliveries []queue.Delivery) []ItemResult {
	results := make([]ItemResult, 0, len(deliveries))
	for _, d := range deliveries {
		results = append(results, p.handleItem(ctx, d))
	}
	return results
}

func (p *Processor) handleItem(ctx context.Context, d queue.Delivery) ItemResult {
	result := ItemResult{Delivery: d}

	n, err := queue.ParseNotification(d.Body)
	if err != nil {
		// A malformed notification can never be handled; drop it
		// instead of poisoning the queue.
		p.logger.Warn("skipping malformed notification", zap.Error(err))
		result.Ack = true
		result.Err = err
		return result
	}
	result.JobID = n.JobID

	logger := p.logger.With(
		zap.String("job_id", n.JobID),
		zap.String("bucket", n.Bucket),
		zap.String("object_key", n.ObjectKey))
	logger.Info("processing job")

	// Advisory transition; if the store is down here we proceed anyway
	// and let the terminal write decide the job's fate.
	if err := p.jobs.SetProcessing(ctx, n.JobID); err != nil {
		logger.Warn("failed to mark job processing, proceeding", zap.Error(err))
	}

	// Downloading.
	data, err := p.blobs.Get(ctx, n.ObjectKey)
	if err != nil {
		return p.fail(ctx, logger, result, TransportFailure,
			fmt.Errorf("storage error: %w", err))
	}

	// Stage the blob locally with guaranteed cleanup on every exit
	// path.
	staging, err := os.MkdirTemp(p.stagingDir, "lexsum-job-*")
	if err != nil {
		return p.fail(ctx, logger, result, ProcessingFailure,
			fmt.Errorf("create staging dir: %w", err))
	}
	defer func() {
		if err := os.RemoveAll(staging); err != nil {
			logger.Warn("failed to remove staging dir",
				zap.String("dir", staging), zap.Error(err))
		}
	}()

	stagedPath := filepath.Join(staging, filepath.Base(n.ObjectKey))
	if err := os.WriteFile(stagedPath, data, 0600); err != nil {
		return p.fail(ctx, logger, result, ProcessingFailure,
			fmt.Errorf("stage blob: %w", err))
	}
	logger.Debug("staged blob", zap.String("path", stagedPath), zap.Int("size_bytes", len(data)))

	// Extracting, from the staged copy.
	chunks, err := p.extractor.ExtractAndChunk(ctx, stagedPath)
	if err != nil {
		return p.fail(ctx, logger, result, ProcessingFailure,
			fmt.Errorf("processing error: %w", err))
	}

	// Summarizing.
	summary, err := p.summarizer.Summarize(ctx, chunks)
	if err != nil {
		return p.fail(ctx, logger, result, ProcessingFailure,
			fmt.Errorf("processing error: %w", err))
	}

	// Terminal transition. An unreachable store leaves the job stuck in
	// processing and the message queued for redelivery. A missing record
	// means the document arrived outside the gateway (raw bucket drop);
	// there is nothing to transition, so the result only lands in the
	// cache and the message is dropped.
	if err := p.jobs.SetCompleted(ctx, n.JobID, summary); err != nil {
		if errors.Is(err, jobstore.ErrNotFound) {
			logger.Warn("no job record for completed document, caching summary only")
			p.cache.Put(ctx, fingerprint.Compute(data), summary)
			result.Ack = true
			result.Err = err
			return result
		}
		logger.Error("job store unreachable, job left stuck", zap.Error(err))
		result.Failure = StateFailure
		result.Err = err
		return result
	}

	// Fill the cache so a repeat upload of the same bytes is served
	// instantly. Best effort by contract.
	p.cache.Put(ctx, fingerprint.Compute(data), summary)

	logger.Info("job completed", zap.Int("summary_chars", len(summary)))
	result.Ack = true
	return result
}

// fail records a terminal failure on the job. If the store itself is
// unreachable the failure degrades to StateFailure and the message is
// left for redelivery.
func (p *Processor) fail(ctx context.Context, logger *zap.Logger, result ItemResult, kind FailureKind, cause error) ItemResult {
	logger.Error("job failed", zap.String("kind", string(kind)), zap.Error(cause))
	result.Failure = kind
	result.Err = cause

	if err := p.jobs.SetFailed(ctx, result.JobID, cause.Error()); err != nil {
		if errors.Is(err, jobstore.ErrNotFound) {
			// No record to mark; redelivery could never succeed either.
			logger.Warn("no job record for failed document, dropping", zap.Error(cause))
			result.Ack = true
			return result
		}
		logger.Error("job store unreachable while recording failure, job left stuck", zap.Error(err))
		result.Failure = StateFailure
		result.Err = err
		return result
	}

	result.Ack = true
	return result
}
