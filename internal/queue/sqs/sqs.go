// Package sqs implements the queue transport on Amazon SQS.
package sqs

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sqs"

	"github.com/lexsum/lexsum/internal/queue"
)

// Config configures the SQS transport.
type Config struct {
	// QueueURL is the full SQS queue URL (required).
	QueueURL string

	// Region is the AWS region. Empty lets the SDK resolve it.
	Region string

	// Endpoint overrides the SQS endpoint for local stacks
	// (LocalStack, ElasticMQ). Leave empty for AWS.
	Endpoint string

	// MaxMessages is the batch size per receive, 1..10. Defaults to 10.
	MaxMessages int32

	// WaitTimeSeconds is the long-poll duration, 0..20. Defaults to 20.
	WaitTimeSeconds int32
}

func (c *Config) Validate() error {
	if c.QueueURL == "" {
		return fmt.Errorf("sqs config: queue url is required")
	}
	return nil
}

// Queue implements queue.Publisher and queue.Consumer on SQS.
type Queue struct {
	client      *sqs.Client
	queueURL    string
	maxMessages int32
	waitTime    int32
}

var (
	_ queue.Publisher = (*Queue)(nil)
	_ queue.Consumer  = (*Queue)(nil)
)

// New creates an SQS-backed queue using the SDK default credential
// chain.
func New(ctx context.Context, cfg Config) (*Queue, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var opts []func(*awsconfig.LoadOptions) error
	if cfg.Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.Region))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	var clientOpts []func(*sqs.Options)
	if cfg.Endpoint != "" {
		clientOpts = append(clientOpts, func(o *sqs.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		})
	}

	maxMessages := cfg.MaxMessages
	if maxMessages <= 0 || maxMessages > 10 {
		maxMessages = 10
	}
	waitTime := cfg.WaitTimeSeconds
	if waitTime <= 0 || waitTime > 20 {
		waitTime = 20
	}

	return &Queue{
		client:      sqs.NewFromConfig(awsCfg, clientOpts...),
		queueURL:    cfg.QueueURL,
		maxMessages: maxMessages,
		waitTime:    waitTime,
	}, nil
}

// Publish sends one notification.
func (q *Queue) Publish(ctx context.Context, n queue.Notification) error {
	body, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}
	_, err = q.client.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:    aws.String(q.queueURL),
		MessageBody: aws.String(string(body)),
	})
	if err != nil {
		return fmt.Errorf("sqs send: %w", err)
	}
	return nil
}

// Receive long-polls for a batch of messages.
func (q *Queue) Receive(ctx context.Context) ([]queue.Delivery, error) {
	out, err := q.client.ReceiveMessage(ctx, &sqs.ReceiveMessageInput{
		QueueUrl:            aws.String(q.queueURL),
		MaxNumberOfMessages: q.maxMessages,
		WaitTimeSeconds:     q.waitTime,
	})
	if err != nil {
		return nil, fmt.Errorf("sqs receive: %w", err)
	}

	deliveries := make([]queue.Delivery, 0, len(out.Messages))
	for _, msg := range out.Messages {
		deliveries = append(deliveries, queue.Delivery{
			Body:          []byte(aws.ToString(msg.Body)),
			ReceiptHandle: aws.ToString(msg.ReceiptHandle),
		})
	}
	return deliveries, nil
}

// Delete acknowledges a handled delivery.
func (q *Queue) Delete(ctx context.Context, d queue.Delivery) error {
	_, err := q.client.DeleteMessage(ctx, &sqs.DeleteMessageInput{
		QueueUrl:      aws.String(q.queueURL),
		ReceiptHandle: aws.String(d.ReceiptHandle),
	})
	if err != nil {
		return fmt.Errorf("sqs delete: %w", err)
	}
	return nil
}
