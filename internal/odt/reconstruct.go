package odt

import "strings"

const (
	paragraphOpen  = "<text:p"
	paragraphClose = "</text:p>"
	spanOpen       = "<text:span"
	spanClose      = "</text:span>"
	textTag        = "<text:"
	drawTag        = "<draw:"
	selfClose      = "/>"
)

// Reconstruct walks the paragraphs of markup in document order and returns
// their cleaned text, each followed by the paragraph terminator. Entities are
// left escaped.
func Reconstruct(markup string, controls Controls, opts Options) string {
	opts = opts.Resolved()
	c := cleaner{controls: controls, lineBreak: opts.LineBreakTerminator}
	var out strings.Builder
	for i := nextElement(markup, paragraphOpen, 0); i >= 0; {
		openEnd, selfClosing := tagEnd(markup, i)
		if selfClosing {
			out.WriteString(opts.ParagraphTerminator)
			i = nextElement(markup, paragraphOpen, openEnd)
			continue
		}
		closeAt := indexFrom(markup, paragraphClose, openEnd)
		next := closeAt + len(paragraphClose)
		if closeAt < 0 {
			closeAt, next = len(markup), len(markup)
		}
		c.clean(&out, markup[openEnd:closeAt])
		out.WriteString(opts.ParagraphTerminator)
		i = nextElement(markup, paragraphOpen, next)
	}
	return out.String()
}

// cleaner resolves inline markup inside one paragraph.
type cleaner struct {
	controls  Controls
	lineBreak string
}

// clean appends s to out with inline tags resolved. Whichever of the text and
// draw families occurs first is handled, then scanning resumes after it.
// The next offset of each family is cached until the cursor passes it.
func (c *cleaner) clean(out *strings.Builder, s string) {
	t := indexFrom(s, textTag, 0)
	d := indexFrom(s, drawTag, 0)
	for pos := 0; pos < len(s); {
		if t >= 0 && t < pos {
			t = indexFrom(s, textTag, pos)
		}
		if d >= 0 && d < pos {
			d = indexFrom(s, drawTag, pos)
		}
		switch {
		case t < 0 && d < 0:
			out.WriteString(s[pos:])
			return
		case t >= 0 && (d < 0 || t <= d):
			out.WriteString(s[pos:t])
			pos = c.text(out, s, t)
		default:
			out.WriteString(s[pos:d])
			pos = c.draw(out, s, d)
		}
	}
}

// text handles the text: tag at offset at and returns the offset after it.
func (c *cleaner) text(out *strings.Builder, s string, at int) int {
	name := s[at+len(textTag):]
	openEnd, selfClosing := tagEnd(s, at)
	switch {
	case hasElement(name, "tab"):
		out.WriteByte('\t')
	case hasElement(name, "line-break"):
		out.WriteString(c.lineBreak)
	case hasElement(name, "span"):
		if selfClosing {
			break
		}
		closeAt, after := matchSpan(s, openEnd)
		c.clean(out, s[openEnd:closeAt])
		return after
	default:
		// Unknown text: tags are kept verbatim.
		out.WriteString(s[at:openEnd])
	}
	return openEnd
}

// draw handles the draw: tag at offset at and returns the offset after it.
// Only control objects bound to a harvested form control produce output.
func (c *cleaner) draw(out *strings.Builder, s string, at int) int {
	end := indexFrom(s, selfClose, at+len(drawTag))
	if end < 0 {
		return len(s)
	}
	body := s[at+len(drawTag) : end]
	if hasElement(body, "control") {
		if id, ok := attr(body, "draw:control"); ok {
			out.WriteString(c.controls[id])
		}
	}
	return end + len(selfClose)
}

// matchSpan finds the </text:span> that closes a span whose content starts at
// from, counting nested spans. It returns the close offset and the offset
// after the close tag; both are len(s) when the span is never closed.
func matchSpan(s string, from int) (closeAt, after int) {
	depth := 1
	for {
		closeAt = indexFrom(s, spanClose, from)
		if closeAt < 0 {
			return len(s), len(s)
		}
		open := nextElement(s, spanOpen, from)
		if open >= 0 && open < closeAt {
			openEnd, selfClosing := tagEnd(s, open)
			if !selfClosing {
				depth++
			}
			from = openEnd
			continue
		}
		depth--
		if depth == 0 {
			return closeAt, closeAt + len(spanClose)
		}
		from = closeAt + len(spanClose)
	}
}
