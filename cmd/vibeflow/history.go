package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"vibeflow/internal/config"
	"vibeflow/internal/storage"
)

var (
	historyFormat string
	historyLimit  int
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List and inspect stored discovery runs",
}

var historyListCmd = &cobra.Command{
	Use:   "list [root]",
	Short: "List stored discovery runs, newest first",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runHistoryList,
}

var historyShowCmd = &cobra.Command{
	Use:   "show <run-id> [root]",
	Short: "Print the full stored result of one run",
	Args:  cobra.RangeArgs(1, 2),
	RunE:  runHistoryShow,
}

func init() {
	historyCmd.PersistentFlags().StringVar(&historyFormat, "format", "human", "Output format: human, json or yaml")
	historyListCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Maximum number of runs to list")
	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyShowCmd)
	rootCmd.AddCommand(historyCmd)
}

func openHistory(rootArg string) (*storage.Store, error) {
	root := "."
	if rootArg != "" {
		root = rootArg
	}
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve root path: %w", err)
	}

	cfg, err := config.LoadConfig(root)
	if err != nil {
		return nil, err
	}

	dbPath := cfg.Storage.Path
	if !filepath.IsAbs(dbPath) {
		dbPath = filepath.Join(root, dbPath)
	}
	return storage.Open(dbPath, newLogger())
}

func runHistoryList(cmd *cobra.Command, args []string) error {
	format, err := ParseFormat(historyFormat)
	if err != nil {
		return err
	}

	rootArg := ""
	if len(args) == 1 {
		rootArg = args[0]
	}
	store, err := openHistory(rootArg)
	if err != nil {
		return err
	}
	defer store.Close()

	runs, err := store.ListRuns(historyLimit)
	if err != nil {
		return err
	}

	out, err := FormatResponse(runs, format)
	if err != nil {
		return err
	}
	fmt.Println(out)
	return nil
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	format, err := ParseFormat(historyFormat)
	if err != nil {
		return err
	}

	rootArg := ""
	if len(args) == 2 {
		rootArg = args[1]
	}
	store, err := openHistory(rootArg)
	if err != nil {
		return err
	}
	defer store.Close()

	result, err := store.LoadRun(args[0])
	if err != nil {
		return err
	}

	out, err := FormatResponse(result, format)
	if err != nil {
		return err
	}
	fmt.Println(out)
	return nil
}
