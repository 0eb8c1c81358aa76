// Package fileid provides extraction IDs: deterministic ones for files on disk
// and random ones for uploaded documents that have no path.
package fileid

import (
	"crypto/sha256"
	"encoding/hex"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

const (
	filePrefix   = "file:"
	uploadPrefix = "upload:"
)

// FromPath returns a stable ID for the given absolute path.
// Same path always yields the same ID, so re-extracting a file replaces its record.
func FromPath(absolutePath string) string {
	normalized := filepath.Clean(absolutePath)
	hash := sha256.Sum256([]byte(normalized))
	return filePrefix + hex.EncodeToString(hash[:])
}

// ShortHash returns the first 12 hex digits of the path hash used by FromPath.
// It tells apart files that share a base name in different directories.
func ShortHash(absolutePath string) string {
	return strings.TrimPrefix(FromPath(absolutePath), filePrefix)[:12]
}

// NewUploadID returns a fresh ID for a document received without a path.
func NewUploadID() string {
	return uploadPrefix + uuid.New().String()
}

// IsUpload reports whether id was produced by NewUploadID.
func IsUpload(id string) bool {
	return strings.HasPrefix(id, uploadPrefix)
}
