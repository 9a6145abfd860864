// Package storage persists discovery runs to a local SQLite database so
// boundary drift can be compared across runs.
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"
	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"vibeflow/internal/discover"
	"vibeflow/internal/errors"
	"vibeflow/internal/logging"
)

// Store is the discovery run history database
type Store struct {
	conn    *sql.DB
	logger  *logging.Logger
	dbPath  string
	encoder *zstd.Encoder
	decoder *zstd.Decoder
}

// Open opens or creates the history database at dbPath, creating parent
// directories as needed.
func Open(dbPath string, logger *logging.Logger) (*Store, error) {
	if logger == nil {
		logger = logging.Nop()
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, errors.New(errors.StorageFailure, "cannot create storage directory", err)
	}

	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, errors.New(errors.StorageFailure, "cannot open history database", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA temp_store=MEMORY",
	}
	for _, pragma := range pragmas {
		if _, err := conn.Exec(pragma); err != nil {
			conn.Close()
			return nil, errors.New(errors.StorageFailure, "cannot configure history database", err)
		}
	}

	if _, err := conn.Exec(schema); err != nil {
		conn.Close()
		return nil, errors.New(errors.StorageFailure, "cannot initialize history schema", err)
	}

	encoder, err := zstd.NewWriter(nil)
	if err != nil {
		conn.Close()
		return nil, errors.New(errors.StorageFailure, "cannot create payload compressor", err)
	}
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		encoder.Close()
		conn.Close()
		return nil, errors.New(errors.StorageFailure, "cannot create payload decompressor", err)
	}

	return &Store{
		conn:    conn,
		logger:  logger,
		dbPath:  dbPath,
		encoder: encoder,
		decoder: decoder,
	}, nil
}

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	run_id             TEXT PRIMARY KEY,
	root               TEXT NOT NULL,
	generated_at       TEXT NOT NULL,
	boundaries         INTEGER NOT NULL,
	overall_confidence REAL NOT NULL,
	payload            BLOB NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_runs_generated_at ON runs(generated_at);
`

// Close releases the database and compressor resources
func (s *Store) Close() error {
	s.encoder.Close()
	s.decoder.Close()
	if s.conn != nil {
		return s.conn.Close()
	}
	return nil
}

// RunSummary is one row of the run listing
type RunSummary struct {
	RunID             string  `json:"run_id"`
	Root              string  `json:"root"`
	GeneratedAt       string  `json:"generated_at"`
	Boundaries        int     `json:"boundaries"`
	OverallConfidence float64 `json:"overall_confidence"`
}

// SaveRun stores a discovery result. The full serialized result is kept as
// a zstd-compressed payload; summary columns support listing without
// decompression.
func (s *Store) SaveRun(result *discover.Result) error {
	payload, err := result.Encode()
	if err != nil {
		return errors.New(errors.StorageFailure, "cannot serialize run "+result.RunID, err)
	}
	compressed := s.encoder.EncodeAll(payload, nil)

	_, err = s.conn.Exec(
		`INSERT OR REPLACE INTO runs (run_id, root, generated_at, boundaries, overall_confidence, payload)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		result.RunID,
		result.Root,
		result.GeneratedAt,
		len(result.DiscoveredBoundaries),
		result.ConfidenceMetrics.OverallConfidence,
		compressed,
	)
	if err != nil {
		return errors.New(errors.StorageFailure, "cannot store run "+result.RunID, err)
	}

	s.logger.Debug("run stored", map[string]interface{}{
		"run_id":     result.RunID,
		"bytes":      len(compressed),
		"boundaries": len(result.DiscoveredBoundaries),
	})
	return nil
}

// ListRuns returns the most recent runs, newest first
func (s *Store) ListRuns(limit int) ([]RunSummary, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.conn.Query(
		`SELECT run_id, root, generated_at, boundaries, overall_confidence
		 FROM runs ORDER BY generated_at DESC, run_id LIMIT ?`, limit)
	if err != nil {
		return nil, errors.New(errors.StorageFailure, "cannot list runs", err)
	}
	defer rows.Close()

	var runs []RunSummary
	for rows.Next() {
		var r RunSummary
		if err := rows.Scan(&r.RunID, &r.Root, &r.GeneratedAt, &r.Boundaries, &r.OverallConfidence); err != nil {
			return nil, errors.New(errors.StorageFailure, "cannot scan run row", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// LoadRun retrieves and decodes a stored run by ID
func (s *Store) LoadRun(runID string) (*discover.Result, error) {
	var compressed []byte
	err := s.conn.QueryRow(`SELECT payload FROM runs WHERE run_id = ?`, runID).Scan(&compressed)
	if err == sql.ErrNoRows {
		return nil, errors.New(errors.StorageFailure, fmt.Sprintf("run %s not found", runID), nil)
	}
	if err != nil {
		return nil, errors.New(errors.StorageFailure, "cannot load run "+runID, err)
	}

	payload, err := s.decoder.DecodeAll(compressed, nil)
	if err != nil {
		return nil, errors.New(errors.StorageFailure, "cannot decompress run "+runID, err)
	}

	result, err := discover.ParseResult(payload)
	if err != nil {
		return nil, errors.New(errors.StorageFailure, "cannot decode run "+runID, err)
	}
	return result, nil
}
