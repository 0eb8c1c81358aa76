// Package storage defines persistence for extracted text.
package storage

import (
	"context"
	"errors"

	"github.com/hyperjump/odtreader/internal/models"
)

// ErrNotFound is returned when an extraction does not exist.
var ErrNotFound = errors.New("extraction not found")

// Storage defines extraction persistence operations.
type Storage interface {
	// SaveExtraction inserts ex or replaces the stored text of the same ID.
	SaveExtraction(ctx context.Context, ex *models.Extraction) error
	GetExtraction(ctx context.Context, id string) (*models.Extraction, error)
	DeleteExtraction(ctx context.Context, id string) error
	ListExtractions(ctx context.Context, offset, limit int) ([]*models.ExtractionSummary, error)
	CountExtractions(ctx context.Context) (int64, error)

	Close() error
}
