// Package observability holds process-wide logging for the server and
// worker entrypoints.
package observability

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the process-wide structured logger. Defaults to a no-op
// logger until Init runs, so packages can log safely during early
// startup.
var Logger = zap.NewNop()

// CLILogger is the logger for command-level messages. Named separately
// so operator-facing output is distinguishable from pipeline events.
var CLILogger = zap.NewNop()

// Init configures process logging.
//
// level is a zap level string ("debug", "info", ...). profile selects
// the encoder: "STRUCTURED" emits JSON for log shippers, "CONSOLE"
// emits human-readable output for local development.
func Init(level, profile string) error {
	parsedLevel, err := zapcore.ParseLevel(strings.ToLower(level))
	if err != nil {
		return fmt.Errorf("parse log level %q: %w", level, err)
	}

	var cfg zap.Config
	switch strings.ToUpper(profile) {
	case "", "STRUCTURED":
		cfg = zap.NewProductionConfig()
	case "CONSOLE":
		cfg = zap.NewDevelopmentConfig()
	default:
		return fmt.Errorf("unknown logging profile %q", profile)
	}
	cfg.Level = zap.NewAtomicLevelAt(parsedLevel)

	logger, err := cfg.Build()
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}

	Logger = logger.Named("lexsum")
	CLILogger = logger.Named("cli")
	return nil
}

// Sync flushes buffered log entries. Call on shutdown.
func Sync() {
	_ = Logger.Sync()
	_ = CLILogger.Sync()
}
