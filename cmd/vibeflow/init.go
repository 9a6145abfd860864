package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"vibeflow/internal/boundary"
	"vibeflow/internal/config"
)

var initBoundaries bool

var initCmd = &cobra.Command{
	Use:   "init [root]",
	Short: "Initialize vibeflow configuration for a repository",
	Long: `Write the default configuration to .vibeflow/config.json.

With --boundaries, also write a commented BOUNDARIES.toml starter file for
declaring known module boundaries.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolVar(&initBoundaries, "boundaries", false, "Also write an example BOUNDARIES.toml")
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	root := "."
	if len(args) == 1 {
		root = args[0]
	}
	root, err := filepath.Abs(root)
	if err != nil {
		return fmt.Errorf("cannot resolve root path: %w", err)
	}

	cfg := config.DefaultConfig()
	cfg.RepoRoot = root
	if err := cfg.Save(root); err != nil {
		return err
	}
	fmt.Printf("Wrote %s\n", filepath.Join(root, ".vibeflow", "config.json"))

	if initBoundaries {
		path := filepath.Join(root, cfg.Discovery.BoundariesFile)
		if err := boundary.WriteExample(path); err != nil {
			return err
		}
		fmt.Printf("Wrote %s\n", path)
	}

	return nil
}
