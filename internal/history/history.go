// Package history persists a ledger of classifications backed by SQLite.
// The pipeline itself never writes here; the command-line tools append after
// each run.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Record is one ledger row.
type Record struct {
	ID            int64
	ReportID      string // empty for negative results
	ImagePath     string
	Label         int
	Confidence    float64
	HasConfidence bool
	Tier          string
	CreatedAt     time.Time
}

// Store manages ledger persistence.
type Store struct {
	db   *sql.DB
	path string
}

const schema = `
CREATE TABLE IF NOT EXISTS classifications (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	report_id TEXT NOT NULL DEFAULT '',
	image_path TEXT NOT NULL,
	label INTEGER NOT NULL,
	confidence REAL,
	tier TEXT NOT NULL,
	created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_classifications_created_at
	ON classifications(created_at);
`

// Open connects to the ledger database at path, creating parent directories
// and the schema as needed.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("ensure ledger dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open ledger db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply ledger schema: %w", err)
	}

	return &Store{db: db, path: path}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Append inserts a classification and returns its row id.
func (s *Store) Append(ctx context.Context, rec Record) (int64, error) {
	confidence := sql.NullFloat64{Float64: rec.Confidence, Valid: rec.HasConfidence}
	createdAt := rec.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO classifications (report_id, image_path, label, confidence, tier, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		rec.ReportID, rec.ImagePath, rec.Label, confidence, rec.Tier,
		createdAt.Format(time.RFC3339Nano))
	if err != nil {
		return 0, fmt.Errorf("append classification: %w", err)
	}
	return res.LastInsertId()
}

// Recent returns up to limit records, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, report_id, image_path, label, confidence, tier, created_at
		 FROM classifications ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query classifications: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var (
			rec        Record
			confidence sql.NullFloat64
			createdAt  string
		)
		if err := rows.Scan(&rec.ID, &rec.ReportID, &rec.ImagePath, &rec.Label,
			&confidence, &rec.Tier, &createdAt); err != nil {
			return nil, fmt.Errorf("scan classification: %w", err)
		}
		rec.Confidence = confidence.Float64
		rec.HasConfidence = confidence.Valid
		if ts, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
			rec.CreatedAt = ts
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
