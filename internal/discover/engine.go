// Package discover orchestrates the boundary discovery pipeline: scan,
// extract, cluster, merge, score, recommend.
package discover

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"vibeflow/internal/boundary"
	"vibeflow/internal/cluster"
	"vibeflow/internal/config"
	"vibeflow/internal/errors"
	"vibeflow/internal/extract"
	"vibeflow/internal/logging"
	"vibeflow/internal/merge"
	"vibeflow/internal/recommend"
	"vibeflow/internal/scan"
	"vibeflow/internal/score"
)

// Progress reports pipeline advancement. Stage is a short identifier
// ("scan", "extract", "cluster", "score"); total may be zero when unknown.
type Progress func(stage string, done, total int)

// Engine runs the discovery pipeline. It holds no per-run state: Discover
// may be called concurrently with distinct roots.
type Engine struct {
	cfg      *config.Config
	logger   *logging.Logger
	registry *extract.Registry
	progress Progress
}

// NewEngine creates a discovery engine
func NewEngine(cfg *config.Config, logger *logging.Logger) *Engine {
	return &Engine{
		cfg:      cfg,
		logger:   logger,
		registry: extract.NewRegistry(),
	}
}

// SetProgress installs a progress callback. Pass nil to disable.
func (e *Engine) SetProgress(p Progress) {
	e.progress = p
}

func (e *Engine) report(stage string, done, total int) {
	if e.progress != nil {
		e.progress(stage, done, total)
	}
}

// Discover runs the full pipeline over root. Cancellation is honored
// between stages: the returned result is marked partial and carries
// whatever was assembled before the deadline.
func (e *Engine) Discover(ctx context.Context, root string) (*Result, error) {
	result := newResult(root)
	started := time.Now()

	// Scan
	walker := scan.NewWalker(e.cfg.Discovery.Include, e.cfg.Discovery.Exclude, e.cfg.Discovery.IgnoreDirs, e.logger)
	files, err := walker.Walk(root)
	if err != nil {
		return nil, err
	}
	e.report("scan", len(files), len(files))

	// Sample
	if max := e.cfg.Sampling.MaxFiles; max > 0 && len(files) > max {
		sampler := scan.NewSampler(e.cfg.Sampling.Strategy)
		files = sampler.Sample(files, max)
		e.logger.Info("sampled file set", map[string]interface{}{
			"strategy": sampler.Name(),
			"kept":     len(files),
		})
	}
	result.FilesScanned = len(files)

	if len(files) == 0 {
		e.logger.Info("no source files under root", map[string]interface{}{"root": root})
		return result, nil
	}

	if aborted := e.checkDeadline(ctx, result, "scan"); aborted != nil {
		return result, aborted
	}

	// Extract
	arena := e.extractAll(root, files)
	result.NodesExtracted = arena.Len()
	if arena.Len() == 0 {
		return result, nil
	}

	if aborted := e.checkDeadline(ctx, result, "extract"); aborted != nil {
		return result, aborted
	}

	// Cluster
	vocab := e.loadVocabulary(root)
	strategies := cluster.DefaultStrategies(vocab,
		e.cfg.Clustering.MinClusterSize,
		e.cfg.Clustering.MinDirectorySize,
		e.cfg.Clustering.MaxPairwiseNodes,
		e.cfg.Clustering.DependencyThreshold)
	candidates := cluster.RunAll(arena, strategies, e.logger)
	e.report("cluster", len(candidates), len(candidates))

	// Declared boundaries come first so strategy clusters fold into them
	candidates = append(e.declaredCandidates(root, arena), candidates...)

	if aborted := e.checkDeadline(ctx, result, "cluster"); aborted != nil {
		return result, aborted
	}

	// Merge and score
	merger := merge.NewMerger(e.cfg.Clustering.MergeOverlapThreshold, e.logger)
	merged := merger.Merge(arena, candidates)

	scorer := score.NewScorer(e.cfg.Clustering.ConfidenceThreshold)
	ranked := scorer.Rank(arena, merged)
	e.report("score", len(ranked), len(ranked))

	// Assemble
	for _, r := range ranked {
		result.DiscoveredBoundaries = append(result.DiscoveredBoundaries, e.buildBoundary(arena, r))
	}
	result.ConfidenceMetrics = score.Aggregate(ranked)
	result.ClusteringAnalysis = e.analyze(arena, ranked, files)
	result.Recommendations = recommend.Analyze(arena, ranked)

	e.logger.Info("discovery finished", map[string]interface{}{
		"boundaries": len(result.DiscoveredBoundaries),
		"files":      result.FilesScanned,
		"nodes":      result.NodesExtracted,
		"elapsed_ms": time.Since(started).Milliseconds(),
	})
	return result, nil
}

func newResult(root string) *Result {
	return &Result{
		RunID:                uuid.NewString(),
		Root:                 root,
		GeneratedAt:          time.Now().UTC().Format(time.RFC3339),
		DiscoveredBoundaries: []Boundary{},
		ClusteringAnalysis: ClusteringAnalysis{
			BoundaryOverlaps: []BoundaryOverlap{},
			OrphanedFiles:    []string{},
		},
		Recommendations: []recommend.Recommendation{},
	}
}

func (e *Engine) checkDeadline(ctx context.Context, result *Result, stage string) error {
	if ctx.Err() == nil {
		return nil
	}
	result.Partial = true
	e.logger.Warn("discovery aborted", map[string]interface{}{"after_stage": stage})
	return errors.New(errors.Timeout, "discovery aborted after "+stage+" stage", ctx.Err())
}

// extractAll runs per-file extraction across a bounded worker pool and
// collects the results into a sorted arena. Completion order does not
// matter; the sort restores determinism.
func (e *Engine) extractAll(root string, files []scan.FileInfo) *extract.Arena {
	scip := e.loadSCIP(root)

	workers := e.cfg.Discovery.WorkerCount
	if workers <= 0 {
		workers = runtime.NumCPU()
		if workers > 8 {
			workers = 8
		}
	}
	if workers > len(files) {
		workers = len(files)
	}

	jobs := make(chan scan.FileInfo)
	structures := make(chan *extract.FileStructure, len(files))

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for f := range jobs {
				structures <- e.extractFile(f, scip)
			}
		}()
	}

	go func() {
		for _, f := range files {
			jobs <- f
		}
		close(jobs)
	}()

	go func() {
		wg.Wait()
		close(structures)
	}()

	arena := extract.NewArena()
	done := 0
	for fs := range structures {
		if fs != nil {
			arena.AddFile(fs)
		}
		done++
		e.report("extract", done, len(files))
	}

	arena.Sort()
	return arena
}

func (e *Engine) extractFile(f scan.FileInfo, scip *extract.SCIPExtractor) *extract.FileStructure {
	content, err := os.ReadFile(f.AbsPath)
	if err != nil {
		e.logger.Warn("cannot read file, skipping", map[string]interface{}{
			"file":  f.Path,
			"error": err.Error(),
		})
		return &extract.FileStructure{Path: f.Path}
	}

	var extractor extract.Extractor = e.registry.ForFile(f.Path)
	if scip != nil && scip.Has(f.Path) {
		extractor = scip
	}

	fs, err := extractor.Extract(content, f.Path)
	if err != nil {
		e.logger.Warn("extraction degraded to empty node set", map[string]interface{}{
			"file":      f.Path,
			"extractor": extractor.Name(),
			"error":     err.Error(),
		})
	}
	if fs == nil {
		fs = &extract.FileStructure{Path: f.Path}
	}
	return fs
}

// loadSCIP loads the configured SCIP index when present. Absence is normal.
func (e *Engine) loadSCIP(root string) *extract.SCIPExtractor {
	if e.cfg.Discovery.ScipIndexPath == "" {
		return nil
	}
	path := filepath.Join(root, e.cfg.Discovery.ScipIndexPath)

	scip, err := extract.LoadSCIPIndex(path)
	if err != nil {
		if !os.IsNotExist(err) {
			e.logger.Warn("ignoring unreadable SCIP index", map[string]interface{}{
				"path":  path,
				"error": err.Error(),
			})
		}
		return nil
	}

	e.logger.Info("using SCIP index", map[string]interface{}{"path": path})
	return scip
}

func (e *Engine) loadVocabulary(root string) *cluster.Vocabulary {
	path := e.cfg.Clustering.VocabularyFile
	if path == "" {
		path = filepath.Join(".vibeflow", "vocabulary.toml")
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(root, path)
	}

	vocab, err := cluster.LoadVocabulary(path)
	if err != nil {
		if !os.IsNotExist(err) {
			e.logger.Warn("ignoring unreadable vocabulary file", map[string]interface{}{
				"path":  path,
				"error": err.Error(),
			})
		}
		return cluster.DefaultVocabulary()
	}
	return vocab
}

func (e *Engine) declaredCandidates(root string, arena *extract.Arena) []*cluster.Candidate {
	if e.cfg.Discovery.BoundariesFile == "" {
		return nil
	}

	path := filepath.Join(root, e.cfg.Discovery.BoundariesFile)
	file, err := boundary.Load(path)
	if err != nil {
		e.logger.Warn("ignoring invalid boundaries file", map[string]interface{}{
			"path":  path,
			"error": err.Error(),
		})
		return nil
	}

	declared := file.Candidates(arena)
	if len(declared) > 0 {
		e.logger.Info("loaded declared boundaries", map[string]interface{}{"count": len(declared)})
	}
	return declared
}

// buildBoundary converts a scored candidate to its serialized form
func (e *Engine) buildBoundary(arena *extract.Arena, r score.Scored) Boundary {
	c := r.Candidate

	b := Boundary{
		Name:               c.Name,
		Description:        c.Description,
		Confidence:         r.Confidence.Total * 100,
		Files:              c.Files(arena),
		Structs:            c.NamesByKind(arena, extract.KindStruct),
		Interfaces:         c.NamesByKind(arena, extract.KindInterface),
		Functions:          c.NamesByKind(arena, extract.KindFunction),
		DatabaseTables:     c.Tables(arena),
		SemanticKeywords:   c.Keywords,
		DependencyClusters: append([]string(nil), c.Strategies...),
	}

	if c.Pinned {
		b.Reasoning = append(b.Reasoning, "declared by the project's boundary file")
	} else {
		b.Reasoning = append(b.Reasoning,
			"proposed by "+strings.Join(c.Strategies, ", ")+" clustering")
	}
	b.Reasoning = append(b.Reasoning,
		fmt.Sprintf("%d declarations across %d files with cohesion %.2f",
			len(c.Members), len(b.Files), c.Cohesion))
	if len(b.DatabaseTables) > 0 {
		b.Reasoning = append(b.Reasoning,
			"owns database tables: "+strings.Join(b.DatabaseTables, ", "))
	}
	b.Reasoning = append(b.Reasoning,
		fmt.Sprintf("confidence components: cohesion %.2f, size %.2f, database %.2f, isolation %.2f",
			r.Confidence.Cohesion, r.Confidence.Size, r.Confidence.Database, r.Confidence.Isolation))

	return b
}

// analyze builds the clustering analysis block: residual overlaps between
// final boundaries and files no boundary claimed.
func (e *Engine) analyze(arena *extract.Arena, ranked []score.Scored, files []scan.FileInfo) ClusteringAnalysis {
	analysis := ClusteringAnalysis{
		OptimalClusterCount: len(ranked),
		BoundaryOverlaps:    []BoundaryOverlap{},
		OrphanedFiles:       []string{},
	}

	if len(ranked) > 0 {
		sum := 0.0
		for _, r := range ranked {
			sum += r.Candidate.Cohesion
		}
		analysis.ClusterQualityScore = sum / float64(len(ranked))
	}

	for i := 0; i < len(ranked); i++ {
		for j := i + 1; j < len(ranked); j++ {
			a, b := ranked[i].Candidate, ranked[j].Candidate

			if overlap := cluster.FileOverlap(a, b, arena); overlap > 0 {
				suggestion := "assign the shared files to a single owner"
				if overlap > 0.3 {
					suggestion = "consider merging the boundaries"
				}
				analysis.BoundaryOverlaps = append(analysis.BoundaryOverlaps, BoundaryOverlap{
					Boundary1:            a.Name,
					Boundary2:            b.Name,
					OverlapType:          "file",
					OverlapStrength:      overlap,
					ResolutionSuggestion: suggestion,
				})
			}

			if kw := cluster.TokenJaccard(a.Keywords, b.Keywords); kw > 0.7 {
				analysis.BoundaryOverlaps = append(analysis.BoundaryOverlaps, BoundaryOverlap{
					Boundary1:            a.Name,
					Boundary2:            b.Name,
					OverlapType:          "keyword",
					OverlapStrength:      kw,
					ResolutionSuggestion: "boundaries describe the same domain concept, merge or rename",
				})
			}
		}
	}

	claimed := make(map[string]bool)
	for _, r := range ranked {
		for _, f := range r.Candidate.Files(arena) {
			claimed[f] = true
		}
	}
	for _, f := range files {
		if !claimed[f.Path] {
			analysis.OrphanedFiles = append(analysis.OrphanedFiles, f.Path)
		}
	}
	sort.Strings(analysis.OrphanedFiles)

	return analysis
}
