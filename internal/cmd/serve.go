package cmd

import (
	"context"
	"fmt"

	"github.com/fulmenhq/gofulmen/foundry"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lexsum/lexsum/internal/ingest"
	"github.com/lexsum/lexsum/internal/observability"
	"github.com/lexsum/lexsum/internal/queue/sqs"
	"github.com/lexsum/lexsum/internal/server"
	"github.com/lexsum/lexsum/internal/server/handlers"
	s3blob "github.com/lexsum/lexsum/pkg/blobstore/s3"
	jobredis "github.com/lexsum/lexsum/pkg/jobstore/redis"
	"github.com/lexsum/lexsum/pkg/summarycache"
	cacheredis "github.com/lexsum/lexsum/pkg/summarycache/redis"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP ingestion gateway",
	Long: `Run the HTTP ingestion gateway.

The gateway accepts PDF uploads on POST /summarize, answers job status
queries on GET /status/{jobID}, and reports dependency health on
GET /health. Uploads that fingerprint-match a cached summary are
answered immediately; everything else is staged to the blob store and
enqueued for the worker.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

// redisHealthChecker probes the shared redis backend.
type redisHealthChecker struct {
	client *redis.Client
}

func (c redisHealthChecker) CheckHealth(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func runServe(cmd *cobra.Command, args []string) error {
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

	publisher, err := sqs.New(ctx, sqs.Config{
		QueueURL: cfg.Queue.URL,
		Region:   cfg.Queue.Region,
		Endpoint: cfg.Queue.Endpoint,
	})
	if err != nil {
		observability.CLILogger.Error("Failed to create queue client", zap.Error(err))
		return exitError(foundry.ExitExternalServiceUnavailable, "Failed to connect to job queue", err)
	}

	gateway := ingest.NewGateway(cache, blobs, jobs, publisher, observability.Logger)

	health := handlers.NewHealthManager(versionInfo.Version)
	health.RegisterChecker("redis", redisHealthChecker{client: redisClient})
	health.RegisterChecker("blobstore", blobs)

	srv := server.New(cfg.Server, gateway, health, observability.Logger)

	observability.CLILogger.Info("Starting gateway",
		zap.String("addr", fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)),
		zap.String("bucket", blobs.Bucket()),
		zap.String("version", versionInfo.Version))

	if err := srv.Run(ctx); err != nil {
		observability.CLILogger.Error("Gateway exited with error", zap.Error(err))
		return exitError(foundry.ExitExternalServiceUnavailable, "Gateway failed", err)
	}

	observability.CLILogger.Info("Gateway stopped")
	return nil
}
