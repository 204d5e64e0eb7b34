package worker

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/lexsum/lexsum/internal/queue"
)

// Receive failures back off exponentially so a broken queue (bad URL,
// revoked credentials) does not spin the process.
const (
	receiveBackoffBase = time.Second
	receiveBackoffMax  = 30 * time.Second
)

// Runner drives a Processor from a queue consumer until the context is
// cancelled.
type Runner struct {
	processor *Processor
	consumer  queue.Consumer
	logger    *zap.Logger

	// sleep waits for d or until ctx is done. Overridable in tests.
	sleep func(ctx context.Context, d time.Duration)
}

func NewRunner(processor *Processor, consumer queue.Consumer, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{
		processor: processor,
		consumer:  consumer,
		logger:    logger,
		sleep:     sleepContext,
	}
}

func sleepContext(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
	}
}

// Run receives and processes batches until ctx is done. Receive errors
// are logged and retried with backoff; per-item outcomes decide message
// deletion.
func (r *Runner) Run(ctx context.Context) error {
	backoff := receiveBackoffBase
	for {
		deliveries, err := r.consumer.Receive(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return ctx.Err()
			}
			r.logger.Error("receive failed, retrying",
				zap.Duration("backoff", backoff), zap.Error(err))
			r.sleep(ctx, backoff)
			backoff *= 2
			if backoff > receiveBackoffMax {
				backoff = receiveBackoffMax
			}
			continue
		}
		backoff = receiveBackoffBase
		if len(deliveries) == 0 {
			continue
		}

		results := r.processor.HandleBatch(ctx, deliveries)
		for _, res := range results {
			if !res.Ack {
				// Left on the queue for redelivery.
				continue
			}
			if err := r.consumer.Delete(ctx, res.Delivery); err != nil {
				// At-least-once transport: a failed delete means a
				// redelivery, which processing tolerates.
				r.logger.Warn("failed to delete handled message",
					zap.String("job_id", res.JobID), zap.Error(err))
			}
		}

		if err := ctx.Err(); err != nil {
			return err
		}
	}
}
