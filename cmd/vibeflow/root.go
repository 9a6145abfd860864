package main

import (
	"os"

	"github.com/spf13/cobra"

	"vibeflow/internal/logging"
	"vibeflow/internal/version"
)

var (
	// verboseFlag enables debug logging for any command
	verboseFlag bool
	// logFormatFlag selects json or human log lines
	logFormatFlag string
)

var rootCmd = &cobra.Command{
	Use:   "vibeflow",
	Short: "VibeFlow - module boundary discovery",
	Long: `VibeFlow scans a codebase, extracts its declarations and database-access
facts, and partitions them into cohesive module boundaries using semantic,
dependency, database and directory clustering. Results are ranked by
confidence with human-reviewable reasoning.`,
	Version: version.Version,
}

func init() {
	rootCmd.SetVersionTemplate("vibeflow version {{.Version}}\n")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false,
		"Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&logFormatFlag, "log-format", "",
		"Log format: human or json (default: human)")
}

// newLogger builds the command logger from flags and environment.
// Precedence: CLI flags > VIBEFLOW_LOG_LEVEL env var > defaults.
func newLogger() *logging.Logger {
	level := logging.InfoLevel
	if env := os.Getenv("VIBEFLOW_LOG_LEVEL"); env != "" {
		level = logging.LogLevel(env)
	}
	if verboseFlag {
		level = logging.DebugLevel
	}

	format := logging.HumanFormat
	if logFormatFlag == string(logging.JSONFormat) {
		format = logging.JSONFormat
	}

	return logging.NewLogger(logging.Config{Format: format, Level: level})
}
