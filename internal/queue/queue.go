// Package queue defines the notification transport between the
// ingestion gateway and the worker.
//
// The transport is an external at-least-once channel; payloads are
// opaque JSON notifications referencing a blob location. The gateway
// publishes one notification per job after the job record is durable,
// so the worker never sees a notification for an unknown job under
// normal operation.
package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"path"
	"strings"
)

// Notification references one uploaded blob awaiting processing.
//
// JobID is carried explicitly: deriving it from the object key is
// fragile and kept only as a fallback for S3-event-style payloads.
type Notification struct {
	JobID     string `json:"job_id"`
	Bucket    string `json:"bucket"`
	ObjectKey string `json:"object_key"`
}

// Publisher enqueues notifications for the worker.
type Publisher interface {
	// Publish sends n. Must only be called after the job record is
	// durable.
	Publish(ctx context.Context, n Notification) error
}

// Delivery is one received message. ReceiptHandle identifies the
// message for deletion on the underlying transport.
type Delivery struct {
	Body          []byte
	ReceiptHandle string
}

// Consumer receives notification batches.
type Consumer interface {
	// Receive blocks until at least one message is available or the
	// context is done, returning a batch of 1..N deliveries.
	Receive(ctx context.Context) ([]Delivery, error)

	// Delete acknowledges a handled delivery so it is not redelivered.
	Delete(ctx context.Context, d Delivery) error
}

// s3Event mirrors the subset of the S3 event notification schema the
// fallback parser needs.
type s3Event struct {
	Records []struct {
		S3 struct {
			Bucket struct {
				Name string `json:"name"`
			} `json:"bucket"`
			Object struct {
				Key string `json:"key"`
			} `json:"object"`
		} `json:"s3"`
	} `json:"Records"`
}

// ParseNotification decodes a message body into a Notification.
//
// Native payloads carry the job id explicitly. S3-event payloads fall
// back to deriving the job id from the object key basename (with the
// .pdf suffix stripped). Malformed bodies return an error so the
// caller can skip the item without aborting the batch.
func ParseNotification(body []byte) (Notification, error) {
	var n Notification
	if err := json.Unmarshal(body, &n); err != nil {
		return Notification{}, fmt.Errorf("parse notification: %w", err)
	}
	if n.JobID != "" && n.Bucket != "" && n.ObjectKey != "" {
		return n, nil
	}

	var event s3Event
	if err := json.Unmarshal(body, &event); err == nil && len(event.Records) > 0 {
		rec := event.Records[0]
		n = Notification{
			Bucket:    rec.S3.Bucket.Name,
			ObjectKey: rec.S3.Object.Key,
		}
		n.JobID = jobIDFromKey(n.ObjectKey)
	}

	if n.JobID == "" || n.Bucket == "" || n.ObjectKey == "" {
		return Notification{}, fmt.Errorf("notification missing job_id, bucket, or object_key: %s", string(body))
	}
	return n, nil
}

// jobIDFromKey derives a job id from an object key like
// uploads/<id>.pdf. Returns empty for keys it cannot interpret.
func jobIDFromKey(key string) string {
	base := path.Base(key)
	if base == "." || base == "/" || base == "" {
		return ""
	}
	id := strings.TrimSuffix(base, ".pdf")
	if id == "" {
		return ""
	}
	if id == base && strings.Contains(base, ".") {
		// Some other extension; not one of ours.
		return ""
	}
	return id
}
