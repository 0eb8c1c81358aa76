package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/hyperjump/odtreader/internal/models"
)

// SQLiteStorage implements Storage using SQLite.
type SQLiteStorage struct {
	db *sql.DB
}

// NewSQLiteStorage opens or creates a SQLite database at dbPath and initializes the schema.
// Parent directories are created if they do not exist.
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}

	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &SQLiteStorage{db: db}, nil
}

func initSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS extractions (
		id TEXT PRIMARY KEY,
		path TEXT,
		text TEXT NOT NULL,
		controls TEXT,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_extractions_updated_at ON extractions(updated_at);
	CREATE INDEX IF NOT EXISTS idx_extractions_path ON extractions(path);
	`
	_, err := db.Exec(schema)
	return err
}

// SaveExtraction upserts an extraction. CreatedAt is kept from the first save.
func (s *SQLiteStorage) SaveExtraction(ctx context.Context, ex *models.Extraction) error {
	controlsJSON, err := json.Marshal(ex.Controls)
	if err != nil {
		return fmt.Errorf("failed to marshal controls: %w", err)
	}

	now := time.Now()
	if ex.CreatedAt.IsZero() {
		ex.CreatedAt = now
	}
	ex.UpdatedAt = now

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO extractions (id, path, text, controls, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   path = excluded.path,
		   text = excluded.text,
		   controls = excluded.controls,
		   updated_at = excluded.updated_at`,
		ex.ID, ex.Path, ex.Text, string(controlsJSON), ex.CreatedAt, ex.UpdatedAt,
	)
	return err
}

// GetExtraction returns an extraction by ID.
func (s *SQLiteStorage) GetExtraction(ctx context.Context, id string) (*models.Extraction, error) {
	var ex models.Extraction
	var path sql.NullString
	var controlsJSON sql.NullString

	err := s.db.QueryRowContext(ctx,
		`SELECT id, path, text, controls, created_at, updated_at
		 FROM extractions WHERE id = ?`, id,
	).Scan(&ex.ID, &path, &ex.Text, &controlsJSON, &ex.CreatedAt, &ex.UpdatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	ex.Path = path.String

	if controlsJSON.String != "" && controlsJSON.String != "null" {
		if err := json.Unmarshal([]byte(controlsJSON.String), &ex.Controls); err != nil {
			return nil, fmt.Errorf("failed to unmarshal controls: %w", err)
		}
	}

	return &ex, nil
}

// DeleteExtraction removes an extraction by ID. Deleting a missing ID is not an error.
func (s *SQLiteStorage) DeleteExtraction(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM extractions WHERE id = ?`, id)
	return err
}

// ListExtractions returns summaries, most recently updated first.
func (s *SQLiteStorage) ListExtractions(ctx context.Context, offset, limit int) ([]*models.ExtractionSummary, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, path, length(text), substr(text, 1, 200), updated_at
		 FROM extractions ORDER BY updated_at DESC, id LIMIT ? OFFSET ?`,
		limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.ExtractionSummary
	for rows.Next() {
		var sum models.ExtractionSummary
		var path sql.NullString
		if err := rows.Scan(&sum.ID, &path, &sum.Chars, &sum.Head, &sum.UpdatedAt); err != nil {
			return nil, err
		}
		sum.Path = path.String
		out = append(out, &sum)
	}
	return out, rows.Err()
}

// CountExtractions returns the total number of extractions.
func (s *SQLiteStorage) CountExtractions(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM extractions`).Scan(&count)
	return count, err
}

// Close closes the database connection.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}
