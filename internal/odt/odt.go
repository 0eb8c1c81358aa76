// Package odt turns the content.xml markup of an OpenDocument text file into
// plain text. It scans the markup as a string and understands only
// paragraphs, spans, tabs, line breaks and checkbox or radio controls; other
// markup is ignored.
//
// All functions are pure and safe for concurrent use on different documents.
package odt

// Result is the outcome of converting one document.
type Result struct {
	Text     string
	Controls Controls
}

// Parse harvests the form controls of markup, rebuilds its text and applies
// entity unescaping and, when enabled, normalization.
func Parse(markup string, opts Options) Result {
	opts = opts.Resolved()
	controls := HarvestControls(markup)
	text := Unescape(Reconstruct(markup, controls, opts))
	if opts.Normalize {
		text = NormalizeText(text)
	}
	return Result{Text: text, Controls: controls}
}

// Text returns the plain text of markup.
func Text(markup string, opts Options) string {
	return Parse(markup, opts).Text
}
