package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"vibeflow/internal/config"
	"vibeflow/internal/discover"
	"vibeflow/internal/logging"
	"vibeflow/internal/storage"
)

var (
	discoverFormat     string
	discoverInclude    []string
	discoverExclude    []string
	discoverMaxFiles   int
	discoverNoSampling bool
	discoverStore      bool
	discoverTimeout    time.Duration
)

var discoverCmd = &cobra.Command{
	Use:   "discover [root]",
	Short: "Discover module boundaries in a codebase",
	Long: `Scan a repository, extract declarations and database-access facts, and
cluster them into ranked module boundaries.

Examples:
  vibeflow discover                       # Analyze the current directory
  vibeflow discover ./backend             # Analyze a subtree
  vibeflow discover --format json         # Machine-readable output
  vibeflow discover --max-files 500       # Tighter sampling for huge repos
  vibeflow discover --exclude '**/gen/**' # Skip generated code`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDiscover,
}

func init() {
	discoverCmd.Flags().StringVar(&discoverFormat, "format", "human", "Output format: human, json or yaml")
	discoverCmd.Flags().StringSliceVar(&discoverInclude, "include", nil, "Glob patterns of files to include")
	discoverCmd.Flags().StringSliceVar(&discoverExclude, "exclude", nil, "Additional glob patterns to exclude")
	discoverCmd.Flags().IntVar(&discoverMaxFiles, "max-files", 0, "Override the sampling file cap")
	discoverCmd.Flags().BoolVar(&discoverNoSampling, "no-sampling", false, "Disable file sampling entirely")
	discoverCmd.Flags().BoolVar(&discoverStore, "store", true, "Record the run in the history database")
	discoverCmd.Flags().DurationVar(&discoverTimeout, "timeout", 0, "Abort discovery after this duration (0 = no limit)")
	rootCmd.AddCommand(discoverCmd)
}

func runDiscover(cmd *cobra.Command, args []string) error {
	format, err := ParseFormat(discoverFormat)
	if err != nil {
		return err
	}

	root := "."
	if len(args) == 1 {
		root = args[0]
	}
	root, err = filepath.Abs(root)
	if err != nil {
		return fmt.Errorf("cannot resolve root path: %w", err)
	}

	logger := newLogger()

	cfg, err := config.LoadConfig(root)
	if err != nil {
		return err
	}
	if len(discoverInclude) > 0 {
		cfg.Discovery.Include = discoverInclude
	}
	cfg.Discovery.Exclude = append(cfg.Discovery.Exclude, discoverExclude...)
	if discoverMaxFiles > 0 {
		cfg.Sampling.MaxFiles = discoverMaxFiles
	}
	if discoverNoSampling {
		cfg.Sampling.MaxFiles = 0
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx := cmd.Context()
	if discoverTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, discoverTimeout)
		defer cancel()
	}

	engine := discover.NewEngine(cfg, logger)
	if format == FormatHuman && !verboseFlag {
		engine.SetProgress(newProgress())
	}

	result, runErr := engine.Discover(ctx, root)
	if result == nil {
		return runErr
	}

	if discoverStore && cfg.Storage.Enabled {
		storeRun(cfg, root, result, logger)
	}

	out, err := FormatResponse(result, format)
	if err != nil {
		return err
	}
	fmt.Println(out)

	// A partial result is still printed; the deadline error decides the exit code
	return runErr
}

// newProgress renders an extraction progress bar on stderr
func newProgress() discover.Progress {
	var bar *progressbar.ProgressBar
	return func(stage string, done, total int) {
		if stage != "extract" || total == 0 {
			return
		}
		if bar == nil {
			bar = progressbar.NewOptions(total,
				progressbar.OptionSetWriter(os.Stderr),
				progressbar.OptionSetDescription("extracting"),
				progressbar.OptionClearOnFinish(),
				progressbar.OptionShowCount(),
			)
		}
		_ = bar.Set(done)
	}
}

func storeRun(cfg *config.Config, root string, result *discover.Result, logger *logging.Logger) {
	dbPath := cfg.Storage.Path
	if !filepath.IsAbs(dbPath) {
		dbPath = filepath.Join(root, dbPath)
	}

	store, err := storage.Open(dbPath, logger)
	if err != nil {
		logger.Warn("cannot open history database, run not recorded", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}
	defer store.Close()

	if err := store.SaveRun(result); err != nil {
		logger.Warn("cannot record run", map[string]interface{}{
			"error": err.Error(),
		})
	}
}
