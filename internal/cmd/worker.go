package cmd

import (
	"context"
	"errors"

	"github.com/fulmenhq/gofulmen/foundry"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lexsum/lexsum/internal/observability"
	"github.com/lexsum/lexsum/internal/queue/sqs"
	"github.com/lexsum/lexsum/internal/worker"
	s3blob "github.com/lexsum/lexsum/pkg/blobstore/s3"
	"github.com/lexsum/lexsum/pkg/extract"
	jobredis "github.com/lexsum/lexsum/pkg/jobstore/redis"
	"github.com/lexsum/lexsum/pkg/summarize"
	"github.com/lexsum/lexsum/pkg/summarycache"
	cacheredis "github.com/lexsum/lexsum/pkg/summarycache/redis"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Run the summarization worker",
	Long: `Run the summarization worker.

The worker long-polls the job queue for admitted documents, downloads
each PDF from the blob store, extracts and chunks its text, summarizes
it through the configured model backend, and records the outcome on the
job record. Successfully summarized documents also populate the
fingerprint cache so repeat uploads are answered without reprocessing.`,
	RunE: runWorker,
}

func init() {
	rootCmd.AddCommand(workerCmd)
}

func runWorker(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer func() { _ = redisClient.Close() }()

	jobs := jobredis.New(redisClient)

	ttl := cfg.Cache.TTL
	if ttl <= 0 {
		ttl = summarycache.DefaultTTL
	}
	cache := cacheredis.New(redisClient, ttl, observability.Logger)

	blobs, err := s3blob.New(ctx, s3blob.Config{
		Bucket:          cfg.S3.Bucket,
		Region:          cfg.S3.Region,
		Endpoint:        cfg.S3.Endpoint,
		Profile:         cfg.S3.Profile,
		AccessKeyID:     cfg.S3.AccessKeyID,
		SecretAccessKey: cfg.S3.SecretAccessKey,
		ForcePathStyle:  cfg.S3.ForcePathStyle || cfg.S3.Endpoint != "",
	})
	if err != nil {
		observability.CLILogger.Error("Failed to create blob store", zap.Error(err))
		return exitError(foundry.ExitExternalServiceUnavailable, "Failed to connect to blob storage", err)
	}
	defer func() { _ = blobs.Close() }()

	consumer, err := sqs.New(ctx, sqs.Config{
		QueueURL:        cfg.Queue.URL,
		Region:          cfg.Queue.Region,
		Endpoint:        cfg.Queue.Endpoint,
		MaxMessages:     cfg.Queue.MaxMessages,
		WaitTimeSeconds: cfg.Queue.WaitTimeSeconds,
	})
	if err != nil {
		observability.CLILogger.Error("Failed to create queue client", zap.Error(err))
		return exitError(foundry.ExitExternalServiceUnavailable, "Failed to connect to job queue", err)
	}

	chunker := extract.NewChunker(cfg.Summarizer.ChunkSize, cfg.Summarizer.ChunkOverlap)
	extractor := extract.NewPDFExtractor(chunker)

	summarizer, err := summarize.NewOpenAISummarizer(summarize.Config{
		APIKey:    cfg.Summarizer.APIKey,
		BaseURL:   cfg.Summarizer.BaseURL,
		Model:     cfg.Summarizer.Model,
		RateLimit: cfg.Summarizer.RateLimit,
	}, observability.Logger)
	if err != nil {
		observability.CLILogger.Error("Failed to create summarizer", zap.Error(err))
		return exitError(foundry.ExitInvalidArgument, "Invalid summarizer configuration", err)
	}

	processor := worker.NewProcessor(jobs, blobs, cache, extractor, summarizer,
		cfg.Worker.StagingDir, observability.Logger)
	runner := worker.NewRunner(processor, consumer, observability.Logger)

	observability.CLILogger.Info("Starting worker",
		zap.String("queue", cfg.Queue.URL),
		zap.String("bucket", blobs.Bucket()),
		zap.String("model", cfg.Summarizer.Model),
		zap.String("version", versionInfo.Version))

	if err := runner.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		observability.CLILogger.Error("Worker exited with error", zap.Error(err))
		return exitError(foundry.ExitExternalServiceUnavailable, "Worker failed", err)
	}

	observability.CLILogger.Info("Worker stopped")
	return nil
}
