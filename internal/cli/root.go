// Package cli implements the luceneql command-line tool: parse, render,
// validate, and expand query text from the shell or a pipeline.
package cli

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

// Version is set at build time via -ldflags.
var Version = "dev"

var logger *slog.Logger

var rootCmd = &cobra.Command{
	Use:   "luceneql",
	Short: "luceneql - parse, render, validate, and expand Lucene-style queries",
}

// Execute runs the CLI and returns any error the selected subcommand
// produced.
func Execute() error {
	logger = slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: parseLogLevel(getEnv("LUCENEQL_LOG_LEVEL", "warn")),
	}))
	slog.SetDefault(logger)
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(expandCmd)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseLogLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
