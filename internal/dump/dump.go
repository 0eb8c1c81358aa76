// Package dump prints extracted text one character at a time, for checking
// by eye which terminators and invisible characters a document produced.
package dump

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

// PerLine is the number of character entries printed on one line.
const PerLine = 3

// Labels printed for the configured terminators.
const (
	ParagraphLabel = "Enter"
	LineBreakLabel = "Shift+Enter"
)

// Write prints text to w. Each occurrence of paragraph or lineBreak is printed
// as its label on a line of its own; every other character is printed as its
// quoted form and decimal code point, PerLine entries to a line. A tab is
// shown as \t. An empty lineBreak, or one equal to paragraph, is reported as
// a paragraph terminator.
func Write(w io.Writer, text, paragraph, lineBreak string) error {
	bw := bufio.NewWriter(w)
	n := 0 // entries on the current line
	for i := 0; i < len(text); {
		if label, size := terminatorAt(text[i:], paragraph, lineBreak); size > 0 {
			if n > 0 {
				bw.WriteByte('\n')
				n = 0
			}
			bw.WriteString(label)
			bw.WriteByte('\n')
			i += size
			continue
		}
		r, size := utf8.DecodeRuneInString(text[i:])
		shown := string(r)
		if r == '\t' {
			shown = `\t`
		}
		if n > 0 {
			bw.WriteByte('\t')
		}
		fmt.Fprintf(bw, "\"%s\" -> %d", shown, r)
		if n++; n == PerLine {
			bw.WriteByte('\n')
			n = 0
		}
		i += size
	}
	if n > 0 {
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

// terminatorAt reports which terminator s starts with and its length. The
// longer terminator is tried first so "\r\n" is not split by "\r".
func terminatorAt(s, paragraph, lineBreak string) (string, int) {
	if lineBreak == paragraph {
		lineBreak = ""
	}
	type term struct {
		label, value string
	}
	terms := []term{{ParagraphLabel, paragraph}, {LineBreakLabel, lineBreak}}
	if len(lineBreak) > len(paragraph) {
		terms[0], terms[1] = terms[1], terms[0]
	}
	for _, t := range terms {
		if t.value != "" && strings.HasPrefix(s, t.value) {
			return t.label, len(t.value)
		}
	}
	return "", 0
}
