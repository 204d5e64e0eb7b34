// Package cmd implements the lexsum CLI entrypoints.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fulmenhq/gofulmen/foundry"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lexsum/lexsum/internal/config"
	"github.com/lexsum/lexsum/internal/observability"
)

// versionInfo holds build-time version metadata, injected via
// SetVersionInfo from main.
var versionInfo = struct {
	Version   string
	Commit    string
	BuildDate string
}{
	Version:   "dev",
	Commit:    "HEAD",
	BuildDate: "unknown",
}

// SetVersionInfo records build metadata for the version command.
func SetVersionInfo(version, commit, buildDate string) {
	versionInfo.Version = version
	versionInfo.Commit = commit
	versionInfo.BuildDate = buildDate
}

// cfg is the loaded process configuration, populated before any
// subcommand runs.
var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "lexsum",
	Short: "Legal document summarization pipeline",
	Long: `lexsum runs the legal document summarization pipeline.

The pipeline has two halves: an HTTP gateway that accepts PDF uploads
and admits summarization jobs (serve), and a queue consumer that
downloads admitted documents, extracts their text, and produces
summaries (worker).

Configuration is read from lexsum.yaml and LEXSUM_* environment
variables.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load()
		if err != nil {
			return exitError(foundry.ExitInvalidArgument, "Invalid configuration", err)
		}
		cfg = loaded

		if err := observability.Init(cfg.Logging.Level, cfg.Logging.Profile); err != nil {
			return exitError(foundry.ExitInvalidArgument, "Invalid logging configuration", err)
		}
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	// Skip config loading; version must work in any environment.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("lexsum %s (commit %s, built %s)\n",
			versionInfo.Version, versionInfo.Commit, versionInfo.BuildDate)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

// cliError carries a process exit code alongside the failure.
type cliError struct {
	code    int
	message string
	err     error
}

func (e *cliError) Error() string {
	if e.err == nil {
		return e.message
	}
	return fmt.Sprintf("%s: %v", e.message, e.err)
}

func (e *cliError) Unwrap() error { return e.err }

// exitError creates an error that causes Execute to exit with code.
func exitError(code int, message string, err error) error {
	return &cliError{code: code, message: message, err: err}
}

// Execute runs the CLI. It installs signal handling so SIGINT and
// SIGTERM cancel the command context for graceful shutdown.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	observability.Sync()
	if err == nil {
		return
	}

	observability.CLILogger.Error("Command failed", zap.Error(err))

	var ce *cliError
	if errors.As(err, &ce) {
		os.Exit(ce.code)
	}
	os.Exit(1)
}
