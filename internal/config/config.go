// Package config loads vibeflow configuration from .vibeflow/config.json.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config represents the complete vibeflow configuration
type Config struct {
	Version  int    `json:"version" mapstructure:"version"`
	RepoRoot string `json:"repoRoot" mapstructure:"repoRoot"`

	Discovery  DiscoveryConfig  `json:"discovery" mapstructure:"discovery"`
	Sampling   SamplingConfig   `json:"sampling" mapstructure:"sampling"`
	Clustering ClusteringConfig `json:"clustering" mapstructure:"clustering"`
	Storage    StorageConfig    `json:"storage" mapstructure:"storage"`
	Logging    LoggingConfig    `json:"logging" mapstructure:"logging"`
}

// DiscoveryConfig controls scanning and extraction
type DiscoveryConfig struct {
	// Include are doublestar glob patterns for candidate files; empty means all source files
	Include []string `json:"include" mapstructure:"include"`
	// Exclude are doublestar glob patterns removed from the candidate set
	Exclude []string `json:"exclude" mapstructure:"exclude"`
	// IgnoreDirs are directory names skipped entirely during the walk
	IgnoreDirs []string `json:"ignoreDirs" mapstructure:"ignoreDirs"`
	// WorkerCount bounds the per-file extraction pool (0 = NumCPU, capped at 8)
	WorkerCount int `json:"workerCount" mapstructure:"workerCount"`
	// ScipIndexPath points at an optional SCIP index used instead of heuristic extraction
	ScipIndexPath string `json:"scipIndexPath" mapstructure:"scipIndexPath"`
	// BoundariesFile is the repo-relative path of the user-declared boundary file
	BoundariesFile string `json:"boundariesFile" mapstructure:"boundariesFile"`
}

// SamplingConfig controls file down-sampling for large repositories
type SamplingConfig struct {
	// Strategy is "importance" or "stride"
	Strategy string `json:"strategy" mapstructure:"strategy"`
	// MaxFiles caps the number of files handed to extraction (0 disables sampling)
	MaxFiles int `json:"maxFiles" mapstructure:"maxFiles"`
}

// ClusteringConfig controls the clustering strategies and scoring thresholds
type ClusteringConfig struct {
	// MinClusterSize is the minimum member count for semantic/dependency/database groups
	MinClusterSize int `json:"minClusterSize" mapstructure:"minClusterSize"`
	// MinDirectorySize is the minimum member count for directory groups
	MinDirectorySize int `json:"minDirectorySize" mapstructure:"minDirectorySize"`
	// DependencyThreshold is the pairwise strength above which nodes join a cluster
	DependencyThreshold float64 `json:"dependencyThreshold" mapstructure:"dependencyThreshold"`
	// MaxPairwiseNodes caps the node count before the quadratic strength pass
	MaxPairwiseNodes int `json:"maxPairwiseNodes" mapstructure:"maxPairwiseNodes"`
	// MergeOverlapThreshold is the file-set Jaccard above which candidates are unioned
	MergeOverlapThreshold float64 `json:"mergeOverlapThreshold" mapstructure:"mergeOverlapThreshold"`
	// ConfidenceThreshold filters boundaries below this confidence before ranking
	ConfidenceThreshold float64 `json:"confidenceThreshold" mapstructure:"confidenceThreshold"`
	// VocabularyFile is an optional TOML file extending the domain keyword vocabulary
	VocabularyFile string `json:"vocabularyFile" mapstructure:"vocabularyFile"`
}

// StorageConfig controls the discovery run history database
type StorageConfig struct {
	Enabled bool   `json:"enabled" mapstructure:"enabled"`
	Path    string `json:"path" mapstructure:"path"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Format string `json:"format" mapstructure:"format"`
	Level  string `json:"level" mapstructure:"level"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Version:  1,
		RepoRoot: ".",
		Discovery: DiscoveryConfig{
			Include: []string{},
			Exclude: []string{
				"**/*_test.go",
				"**/*.test.*",
				"**/*.spec.*",
				"**/testdata/**",
			},
			IgnoreDirs:     []string{"vendor", "node_modules", ".git", "dist", "build", "target", "__pycache__"},
			WorkerCount:    0,
			ScipIndexPath:  ".scip/index.scip",
			BoundariesFile: "BOUNDARIES.toml",
		},
		Sampling: SamplingConfig{
			Strategy: "importance",
			MaxFiles: 2000,
		},
		Clustering: ClusteringConfig{
			MinClusterSize:        2,
			MinDirectorySize:      3,
			DependencyThreshold:   0.3,
			MaxPairwiseNodes:      100,
			MergeOverlapThreshold: 0.5,
			ConfidenceThreshold:   0.5,
			VocabularyFile:        "",
		},
		Storage: StorageConfig{
			Enabled: true,
			Path:    ".vibeflow/vibeflow.db",
		},
		Logging: LoggingConfig{
			Format: "human",
			Level:  "info",
		},
	}
}

// LoadConfig loads configuration from .vibeflow/config.json, falling back to
// defaults when the file does not exist.
func LoadConfig(repoRoot string) (*Config, error) {
	v := viper.New()

	v.SetDefault("version", 1)
	v.SetDefault("repoRoot", ".")

	v.SetConfigName("config")
	v.SetConfigType("json")
	v.AddConfigPath(filepath.Join(repoRoot, ".vibeflow"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return DefaultConfig(), nil
		}
		return nil, err
	}

	cfg := DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes the configuration to .vibeflow/config.json
func (c *Config) Save(repoRoot string) error {
	dir := filepath.Join(repoRoot, ".vibeflow")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(filepath.Join(dir, "config.json"), data, 0644)
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Version != 1 {
		return &ConfigError{Field: "version", Message: "unsupported config version"}
	}
	if c.Clustering.MinClusterSize < 2 {
		return &ConfigError{Field: "clustering.minClusterSize", Message: "must be at least 2"}
	}
	if c.Clustering.MinDirectorySize < 2 {
		return &ConfigError{Field: "clustering.minDirectorySize", Message: "must be at least 2"}
	}
	if c.Clustering.DependencyThreshold < 0 || c.Clustering.DependencyThreshold > 1 {
		return &ConfigError{Field: "clustering.dependencyThreshold", Message: "must be in [0,1]"}
	}
	if c.Clustering.MergeOverlapThreshold <= 0 || c.Clustering.MergeOverlapThreshold > 1 {
		return &ConfigError{Field: "clustering.mergeOverlapThreshold", Message: "must be in (0,1]"}
	}
	if c.Clustering.ConfidenceThreshold < 0 || c.Clustering.ConfidenceThreshold > 1 {
		return &ConfigError{Field: "clustering.confidenceThreshold", Message: "must be in [0,1]"}
	}
	if s := c.Sampling.Strategy; s != "" && s != "stride" && s != "importance" {
		return &ConfigError{Field: "sampling.strategy", Message: "must be 'stride' or 'importance'"}
	}
	return nil
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return "config error in field '" + e.Field + "': " + e.Message
}
