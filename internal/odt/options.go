package odt

// Markers printed in place of form controls.
const (
	CheckboxOn  = "[X]"
	CheckboxOff = "[ ]"
	RadioOn     = "(X)"
	RadioOff    = "( )"
)

// DefaultTerminator is the paragraph terminator used when none is configured.
const DefaultTerminator = "\n"

// Options controls how extracted text is rendered.
type Options struct {
	// Normalize folds U+00A0 into a plain space and the four typographic
	// quotes into ' and ".
	Normalize bool
	// ParagraphTerminator is written after every paragraph. Empty means "\n".
	ParagraphTerminator string
	// LineBreakTerminator is written for every explicit line break.
	// Empty means the paragraph terminator.
	LineBreakTerminator string
}

// DefaultOptions returns normalization on and "\n" for both terminators.
func DefaultOptions() Options {
	return Options{Normalize: true, ParagraphTerminator: DefaultTerminator}
}

// Resolved returns a copy of o with empty terminators replaced by their defaults.
func (o Options) Resolved() Options {
	if o.ParagraphTerminator == "" {
		o.ParagraphTerminator = DefaultTerminator
	}
	if o.LineBreakTerminator == "" {
		o.LineBreakTerminator = o.ParagraphTerminator
	}
	return o
}
