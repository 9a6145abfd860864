package main

import (
	"fmt"
	"sort"
	"strings"

	"vibeflow/internal/discover"
	"vibeflow/internal/output"
	"vibeflow/internal/storage"
)

// OutputFormat represents the output format type
type OutputFormat string

const (
	FormatJSON  OutputFormat = "json"
	FormatYAML  OutputFormat = "yaml"
	FormatHuman OutputFormat = "human"
)

// ParseFormat validates a --format flag value
func ParseFormat(s string) (OutputFormat, error) {
	switch OutputFormat(s) {
	case FormatJSON, FormatYAML, FormatHuman:
		return OutputFormat(s), nil
	default:
		return "", fmt.Errorf("unsupported format: %s (expected json, yaml or human)", s)
	}
}

// FormatResponse formats a response according to the specified format
func FormatResponse(resp interface{}, format OutputFormat) (string, error) {
	switch format {
	case FormatJSON:
		data, err := output.DeterministicEncodeIndented(resp, "  ")
		if err != nil {
			return "", fmt.Errorf("failed to marshal JSON: %w", err)
		}
		return string(data), nil
	case FormatYAML:
		data, err := output.EncodeYAML(resp)
		if err != nil {
			return "", fmt.Errorf("failed to marshal YAML: %w", err)
		}
		return string(data), nil
	case FormatHuman:
		return formatHuman(resp)
	default:
		return "", fmt.Errorf("unsupported format: %s", format)
	}
}

func formatHuman(resp interface{}) (string, error) {
	switch v := resp.(type) {
	case *discover.Result:
		return formatResultHuman(v), nil
	case []storage.RunSummary:
		return formatRunsHuman(v), nil
	default:
		data, err := output.DeterministicEncodeIndented(resp, "  ")
		if err != nil {
			return "", err
		}
		return string(data), nil
	}
}

func formatResultHuman(r *discover.Result) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("Boundary discovery for %s\n", r.Root))
	b.WriteString(strings.Repeat("=", 60) + "\n\n")
	b.WriteString(fmt.Sprintf("Files scanned:   %d\n", r.FilesScanned))
	b.WriteString(fmt.Sprintf("Nodes extracted: %d\n", r.NodesExtracted))
	b.WriteString(fmt.Sprintf("Overall confidence: %.0f%%\n", r.ConfidenceMetrics.OverallConfidence*100))
	b.WriteString(fmt.Sprintf("Cluster quality:    %s\n", output.FormatFloat(r.ClusteringAnalysis.ClusterQualityScore)))
	if r.Partial {
		b.WriteString("NOTE: run was aborted before completion, results are partial\n")
	}
	b.WriteString("\n")

	if len(r.DiscoveredBoundaries) == 0 {
		b.WriteString("No boundaries discovered.\n")
		return b.String()
	}

	b.WriteString(fmt.Sprintf("Boundaries (%d):\n", len(r.DiscoveredBoundaries)))
	for i, boundary := range r.DiscoveredBoundaries {
		b.WriteString(fmt.Sprintf("\n%d. %s (%.0f%%)\n", i+1, boundary.Name, boundary.Confidence))
		if boundary.Description != "" {
			b.WriteString(fmt.Sprintf("   %s\n", boundary.Description))
		}
		b.WriteString(fmt.Sprintf("   Files:     %s\n", joinOrDash(boundary.Files)))
		if len(boundary.Structs) > 0 {
			b.WriteString(fmt.Sprintf("   Structs:   %s\n", strings.Join(boundary.Structs, ", ")))
		}
		if len(boundary.Interfaces) > 0 {
			b.WriteString(fmt.Sprintf("   Interfaces: %s\n", strings.Join(boundary.Interfaces, ", ")))
		}
		if len(boundary.Functions) > 0 {
			b.WriteString(fmt.Sprintf("   Functions: %s\n", summarize(boundary.Functions, 8)))
		}
		if len(boundary.DatabaseTables) > 0 {
			b.WriteString(fmt.Sprintf("   Tables:    %s\n", strings.Join(boundary.DatabaseTables, ", ")))
		}
		for _, reason := range boundary.Reasoning {
			b.WriteString(fmt.Sprintf("   - %s\n", reason))
		}
	}

	if len(r.ClusteringAnalysis.OrphanedFiles) > 0 {
		b.WriteString(fmt.Sprintf("\nOrphaned files (%d):\n", len(r.ClusteringAnalysis.OrphanedFiles)))
		for _, f := range r.ClusteringAnalysis.OrphanedFiles {
			b.WriteString(fmt.Sprintf("  - %s\n", f))
		}
	}

	if len(r.Recommendations) > 0 {
		b.WriteString("\nRecommendations:\n")
		for _, rec := range r.Recommendations {
			b.WriteString(fmt.Sprintf("  [%s] %s: %s (%s)\n",
				rec.Difficulty, rec.Type, strings.Join(rec.Boundaries, " + "), rec.Reason))
		}
	}

	return b.String()
}

func formatRunsHuman(runs []storage.RunSummary) string {
	if len(runs) == 0 {
		return "No stored runs.\n"
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("%-36s  %-20s  %10s  %10s\n", "RUN ID", "GENERATED", "BOUNDARIES", "CONFIDENCE"))
	for _, r := range runs {
		b.WriteString(fmt.Sprintf("%-36s  %-20s  %10d  %9.0f%%\n",
			r.RunID, r.GeneratedAt, r.Boundaries, r.OverallConfidence*100))
	}
	return b.String()
}

func joinOrDash(items []string) string {
	if len(items) == 0 {
		return "-"
	}
	sorted := append([]string(nil), items...)
	sort.Strings(sorted)
	return strings.Join(sorted, ", ")
}

func summarize(items []string, max int) string {
	if len(items) <= max {
		return strings.Join(items, ", ")
	}
	return strings.Join(items[:max], ", ") + fmt.Sprintf(" (+%d more)", len(items)-max)
}
