// Package cli formats odtreader command output.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/hyperjump/odtreader/internal/batch"
	"github.com/hyperjump/odtreader/internal/dump"
	"github.com/hyperjump/odtreader/internal/models"
	"github.com/hyperjump/odtreader/pkg/utils"
)

// OutputFormat is the format for command output.
type OutputFormat string

const (
	// OutputText is human-readable text (default).
	OutputText OutputFormat = "text"
	// OutputJSON is structured JSON for machine consumption.
	OutputJSON OutputFormat = "json"
)

// RulerWidth is the width of the separators printed between documents.
const RulerWidth = 79

// previewLen is how many characters of text a listing shows.
const previewLen = 60

// ParseOutputFormat validates a -output flag value.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch OutputFormat(strings.ToLower(s)) {
	case OutputText, "":
		return OutputText, nil
	case OutputJSON:
		return OutputJSON, nil
	}
	return "", fmt.Errorf("unknown output format %q (want text or json)", s)
}

// Document is one file handled by the extract command.
type Document struct {
	Path     string            `json:"path"`
	Text     string            `json:"text,omitempty"`
	Controls map[string]string `json:"controls,omitempty"`
	Error    string            `json:"error,omitempty"`

	// Dump prints Text character by character in text output.
	Dump      bool   `json:"-"`
	Paragraph string `json:"-"`
	LineBreak string `json:"-"`
}

// Printer writes the documents of one extract run. Text output is streamed;
// JSON output is buffered and written as one array by Close.
type Printer struct {
	w      io.Writer
	format OutputFormat
	multi  bool
	n      int
	docs   []Document
}

// NewPrinter returns a printer. When multi is set, text output numbers each
// document and separates them with rulers.
func NewPrinter(w io.Writer, format OutputFormat, multi bool) *Printer {
	return &Printer{w: w, format: format, multi: multi}
}

// Print writes or buffers doc.
func (p *Printer) Print(doc Document) error {
	p.n++
	if p.format == OutputJSON {
		p.docs = append(p.docs, doc)
		return nil
	}
	if p.multi {
		if p.n > 1 {
			fmt.Fprintln(p.w, strings.Repeat("=", RulerWidth))
		}
		fmt.Fprintf(p.w, "%d) %s\n", p.n, doc.Path)
		fmt.Fprintln(p.w, strings.Repeat("-", RulerWidth))
	}
	if doc.Error != "" {
		_, err := fmt.Fprintf(p.w, "Failed to extract %s: %s\n", doc.Path, doc.Error)
		return err
	}
	if doc.Dump {
		if err := dump.Write(p.w, doc.Text, doc.Paragraph, doc.LineBreak); err != nil {
			return err
		}
		_, err := fmt.Fprintln(p.w)
		return err
	}
	_, err := fmt.Fprintln(p.w, doc.Text)
	return err
}

// Close writes buffered JSON output. It is a no-op for text output.
func (p *Printer) Close() error {
	if p.format != OutputJSON {
		return nil
	}
	docs := p.docs
	if docs == nil {
		docs = []Document{}
	}
	return writeJSON(p.w, docs)
}

// WriteExtraction writes one stored extraction.
func WriteExtraction(w io.Writer, ex *models.Extraction, format OutputFormat) error {
	if format == OutputJSON {
		return writeJSON(w, ex)
	}
	fmt.Fprintf(w, "ID: %s\n", ex.ID)
	if ex.Path != "" {
		fmt.Fprintf(w, "Path: %s\n", ex.Path)
	}
	fmt.Fprintf(w, "Updated: %s\n", ex.UpdatedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintln(w, strings.Repeat("-", RulerWidth))
	_, err := fmt.Fprintln(w, ex.Text)
	return err
}

// WriteExtractionList writes a page of stored extraction summaries.
func WriteExtractionList(w io.Writer, items []*models.ExtractionSummary, total int64, format OutputFormat) error {
	if format == OutputJSON {
		if items == nil {
			items = []*models.ExtractionSummary{}
		}
		return writeJSON(w, map[string]interface{}{"extractions": items, "total": total})
	}
	fmt.Fprintf(w, "%d extraction(s)\n", total)
	for _, it := range items {
		name := it.Path
		if name == "" {
			name = "(upload)"
		}
		fmt.Fprintf(w, "%s  %6d chars  %s  %s\n", it.UpdatedAt.Format("2006-01-02 15:04"), it.Chars, it.ID, name)
		if head := Preview(it.Head); head != "" {
			fmt.Fprintf(w, "    %s\n", head)
		}
	}
	return nil
}

// WriteSummary writes the outcome of a batch run.
func WriteSummary(w io.Writer, sum batch.Summary, format OutputFormat) error {
	if format == OutputJSON {
		return writeJSON(w, sum)
	}
	fmt.Fprintf(w, "Extracted %d document(s) in %s\n", sum.Extracted, sum.Duration.Round(1e6))
	if len(sum.Failed) > 0 {
		fmt.Fprintf(w, "%d failed:\n", len(sum.Failed))
		for _, f := range sum.Failed {
			fmt.Fprintf(w, "  %s: %s\n", f.Path, utils.Truncate(f.Err, 200))
		}
	}
	return nil
}

// Preview returns a one-line excerpt of text for listings.
func Preview(text string) string {
	return utils.Truncate(utils.OneLine(text), previewLen)
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
