package odt

import "strings"

// Controls maps a form control identifier to the marker that replaces every
// drawing object bound to it.
type Controls map[string]string

const (
	formOpen  = "<form:form"
	formClose = "</form:form>"
	formTag   = "<form:"
)

type controlKind struct {
	name      string
	stateAttr string
	stateOn   string
	on, off   string
}

var controlKinds = []controlKind{
	{
		name:      "checkbox",
		stateAttr: "form:current-state",
		stateOn:   "checked",
		on:        CheckboxOn,
		off:       CheckboxOff,
	},
	{
		name:      "radio",
		stateAttr: "form:current-selected",
		stateOn:   "true",
		on:        RadioOn,
		off:       RadioOff,
	},
}

// marker returns the marker for a declaration whose start tag is openTag.
func (k controlKind) marker(openTag string) string {
	if v, ok := attr(openTag, k.stateAttr); ok && v == k.stateOn {
		return k.on
	}
	return k.off
}

// HarvestControls collects checkbox and radio states from the forms region of
// markup. A document without forms yields an empty, non-nil map. When an
// identifier is declared more than once the first declaration wins.
func HarvestControls(markup string) Controls {
	controls := make(Controls)
	start := strings.Index(markup, formOpen)
	if start < 0 {
		return controls
	}
	end := len(markup)
	if j := strings.LastIndex(markup, formClose); j > start {
		end = j
	}
	region := markup[start:end]

	// State attributes live on the start tag, so the scan resumes right after
	// it. A declaration whose end tag is missing cannot hide later siblings.
	for i := strings.Index(region, formTag); i >= 0; {
		next := i + len(formTag)
		if kind, ok := kindAt(region[next:]); ok {
			openEnd, _ := tagEnd(region, i)
			openTag := region[i:openEnd]
			if id := controlID(openTag); id != "" {
				if _, seen := controls[id]; !seen {
					controls[id] = kind.marker(openTag)
				}
			}
			if openEnd > next {
				next = openEnd
			}
		}
		i = indexFrom(region, formTag, next)
	}
	return controls
}

func kindAt(s string) (controlKind, bool) {
	for _, k := range controlKinds {
		if hasElement(s, k.name) {
			return k, true
		}
	}
	return controlKind{}, false
}

// controlID prefers xml:id, which drawing objects reference, and falls back to
// form:id written by older producers.
func controlID(openTag string) string {
	if id, ok := attr(openTag, "xml:id"); ok && id != "" {
		return id
	}
	id, _ := attr(openTag, "form:id")
	return id
}
