// Package extract opens OpenDocument text archives and converts their content
// to plain text.
package extract

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/hyperjump/odtreader/internal/odt"
)

// Extension is appended to paths that do not already end with it.
const Extension = ".odt"

// Extractor extracts plain text from .odt files with a fixed set of options.
type Extractor struct {
	opts   odt.Options
	logger *zap.Logger // optional; when set, logs debug events
}

// ExtractorOption configures an Extractor.
type ExtractorOption func(*Extractor)

// WithLogger sets a logger for debug output.
func WithLogger(l *zap.Logger) ExtractorOption {
	return func(e *Extractor) { e.logger = l }
}

// NewExtractor returns an Extractor rendering text with opts.
func NewExtractor(opts odt.Options, options ...ExtractorOption) *Extractor {
	e := &Extractor{opts: opts}
	for _, o := range options {
		o(e)
	}
	return e
}

// Options returns the rendering options as configured. Empty terminators are
// left unresolved; see odt.Options.Resolved.
func (e *Extractor) Options() odt.Options {
	return e.opts
}

// WithOptions returns a copy of e that renders with opts.
func (e *Extractor) WithOptions(opts odt.Options) *Extractor {
	c := *e
	c.opts = opts
	return &c
}

// NormalizePath appends the .odt extension when path lacks it (case-insensitive).
func NormalizePath(path string) string {
	if strings.HasSuffix(strings.ToLower(path), Extension) {
		return path
	}
	return path + Extension
}

// Extract reads the document at path and returns its text.
// See Parse for error conditions.
func (e *Extractor) Extract(path string) (string, error) {
	res, err := e.Parse(path)
	if err != nil {
		return "", err
	}
	return res.Text, nil
}

// ExtractBytes returns the text of an in-memory .odt archive.
func (e *Extractor) ExtractBytes(content []byte) (string, error) {
	res, err := e.ParseBytes(content)
	if err != nil {
		return "", err
	}
	return res.Text, nil
}

// Parse reads the document at path (with .odt appended when missing) and
// returns its text and control states. Returns an error if the file cannot be
// read, is not a zip archive, or has no content.xml.
func (e *Extractor) Parse(path string) (odt.Result, error) {
	path = NormalizePath(path)
	content, err := os.ReadFile(path)
	if err != nil {
		return odt.Result{}, fmt.Errorf("read file: %w", err)
	}
	res, err := e.ParseBytes(content)
	if err != nil {
		return odt.Result{}, err
	}
	if e.logger != nil {
		e.logger.Debug("document extracted",
			zap.String("path", path),
			zap.Int("chars", len(res.Text)),
			zap.Int("controls", len(res.Controls)),
		)
	}
	return res, nil
}

// ParseBytes is Parse for an in-memory archive.
func (e *Extractor) ParseBytes(content []byte) (odt.Result, error) {
	markup, err := ReadMarkupBytes(content)
	if err != nil {
		return odt.Result{}, err
	}
	return odt.Parse(markup, e.opts), nil
}
