package odt

import "strings"

// entityReplacer works in a single left-to-right pass, so the text produced by
// &amp; is never read again: "&amp;lt;" becomes "&lt;", not "<".
var entityReplacer = strings.NewReplacer(
	"&lt;", "<",
	"&gt;", ">",
	"&apos;", "'",
	"&quot;", `"`,
	"&amp;", "&",
)

var typographyReplacer = strings.NewReplacer(
	"\u00a0", " ",
	"\u2018", "'",
	"\u2019", "'",
	"\u201c", `"`,
	"\u201d", `"`,
)

// Unescape replaces the five predefined XML entities.
func Unescape(s string) string {
	return entityReplacer.Replace(s)
}

// NormalizeText folds non-breaking spaces and typographic quotes into ASCII.
func NormalizeText(s string) string {
	return typographyReplacer.Replace(s)
}
