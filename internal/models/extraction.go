// Package models defines the records produced by text extraction.
package models

import "time"

// Extraction is the stored plain text of one document.
type Extraction struct {
	ID        string            `json:"id" db:"id"`
	Path      string            `json:"path,omitempty" db:"path"`
	Text      string            `json:"text" db:"text"`
	Controls  map[string]string `json:"controls,omitempty" db:"controls"`
	CreatedAt time.Time         `json:"created_at" db:"created_at"`
	UpdatedAt time.Time         `json:"updated_at" db:"updated_at"`
}

// ExtractionSummary is an Extraction without its text, used for listings.
type ExtractionSummary struct {
	ID        string    `json:"id"`
	Path      string    `json:"path,omitempty"`
	Chars     int       `json:"chars"`
	Head      string    `json:"head"` // first characters of the text
	UpdatedAt time.Time `json:"updated_at"`
}
