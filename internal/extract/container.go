package extract

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"
)

// contentPath is the member of an OpenDocument archive that holds the body.
const contentPath = "content.xml"

// maxContentSize caps the decompressed size of content.xml.
const maxContentSize = 100 * 1024 * 1024

var (
	// ErrNotArchive is returned when the file is not a zip archive.
	ErrNotArchive = errors.New("not a zip archive")
	// ErrContentMissing is returned when the archive has no content.xml.
	ErrContentMissing = errors.New(contentPath + " not found")
	// ErrContentTooLarge is returned when content.xml inflates past maxContentSize.
	ErrContentTooLarge = errors.New(contentPath + " too large")
)

// ReadMarkup returns the decoded content.xml of the archive at path, with
// .odt appended to path when missing.
func ReadMarkup(path string) (string, error) {
	content, err := os.ReadFile(NormalizePath(path))
	if err != nil {
		return "", fmt.Errorf("read file: %w", err)
	}
	return ReadMarkupBytes(content)
}

// ReadMarkupBytes returns the decoded content.xml of an in-memory archive.
// Invalid UTF-8 sequences are replaced with the replacement character.
func ReadMarkupBytes(content []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("extract ODT: %w: %v", ErrNotArchive, err)
	}
	for _, f := range zr.File {
		if f.Name != contentPath {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return "", fmt.Errorf("extract ODT: open %s: %w", f.Name, err)
		}
		var buf bytes.Buffer
		_, err = buf.ReadFrom(io.LimitReader(rc, maxContentSize+1))
		_ = rc.Close()
		if err != nil {
			return "", fmt.Errorf("extract ODT: read %s: %w", f.Name, err)
		}
		if buf.Len() > maxContentSize {
			return "", fmt.Errorf("extract ODT: %w (limit %d bytes)", ErrContentTooLarge, maxContentSize)
		}
		if !utf8.Valid(buf.Bytes()) {
			return strings.ToValidUTF8(buf.String(), "\ufffd"), nil
		}
		return buf.String(), nil
	}
	return "", fmt.Errorf("extract ODT: %w", ErrContentMissing)
}
