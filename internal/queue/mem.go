package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"sync"
)

// MemQueue is an in-process queue for tests and local development. It
// implements both Publisher and Consumer over a buffered channel.
type MemQueue struct {
	mu      sync.Mutex
	ch      chan Delivery
	deleted []string
	seq     int
}

var (
	_ Publisher = (*MemQueue)(nil)
	_ Consumer  = (*MemQueue)(nil)
)

func NewMemQueue(buffer int) *MemQueue {
	if buffer <= 0 {
		buffer = 64
	}
	return &MemQueue{ch: make(chan Delivery, buffer)}
}

func (q *MemQueue) Publish(ctx context.Context, n Notification) error {
	body, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}
	q.mu.Lock()
	q.seq++
	handle := strconv.Itoa(q.seq)
	q.mu.Unlock()

	select {
	case q.ch <- Delivery{Body: body, ReceiptHandle: handle}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// PublishRaw enqueues an arbitrary body. Test helper for malformed
// payloads.
func (q *MemQueue) PublishRaw(body []byte) {
	q.mu.Lock()
	q.seq++
	handle := strconv.Itoa(q.seq)
	q.mu.Unlock()
	q.ch <- Delivery{Body: body, ReceiptHandle: handle}
}

func (q *MemQueue) Receive(ctx context.Context) ([]Delivery, error) {
	select {
	case d := <-q.ch:
		batch := []Delivery{d}
		// Drain whatever else is immediately available, like an SQS
		// batch receive.
		for len(batch) < 10 {
			select {
			case next := <-q.ch:
				batch = append(batch, next)
			default:
				return batch, nil
			}
		}
		return batch, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (q *MemQueue) Delete(ctx context.Context, d Delivery) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.deleted = append(q.deleted, d.ReceiptHandle)
	return nil
}

// Pending returns the number of undelivered messages. Test helper.
func (q *MemQueue) Pending() int {
	return len(q.ch)
}

// Deleted returns receipt handles acknowledged so far. Test helper.
func (q *MemQueue) Deleted() []string {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]string, len(q.deleted))
	copy(out, q.deleted)
	return out
}
