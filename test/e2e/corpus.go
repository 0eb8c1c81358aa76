package e2e

import (
	"fmt"
	"strings"
)

// Document is an .odt in the corpus with the text it must extract to, using
// "\n" terminators and normalization.
type Document struct {
	Name     string
	Content  string
	Expected string
}

// Corpus returns a set of documents covering the markup an office suite
// produces for forms: tabs, line breaks, spans, controls, entities and
// typographic characters.
func Corpus() []Document {
	docs := []Document{
		{
			Name:     "letter.odt",
			Content:  ContentXML(nil, `<text:p text:style-name="P1">Dear <text:span text:style-name="T1">Mario</text:span>,</text:p>`, `<text:p/>`, `<text:p>Regards</text:p>`),
			Expected: "Dear Mario,\n\nRegards\n",
		},
		{
			Name: "consent.odt",
			Content: ContentXML(
				[]Control{{ID: "control1", Selected: true}, {ID: "control2"}},
				`<text:p>`+ControlRef("control1")+` I accept the terms</text:p>`,
				`<text:p>`+ControlRef("control2")+` Send me news</text:p>`,
			),
			Expected: "[X] I accept the terms\n[ ] Send me news\n",
		},
		{
			Name: "survey.odt",
			Content: ContentXML(
				[]Control{{ID: "r1", Radio: true}, {ID: "r2", Radio: true, Selected: true}},
				`<text:p>Rating:<text:tab/>`+ControlRef("r1")+` low `+ControlRef("r2")+` high</text:p>`,
			),
			Expected: "Rating:\t( ) low (X) high\n",
		},
		{
			Name:     "address.odt",
			Content:  ContentXML(nil, `<text:p>Via Roma 1<text:line-break/>00100 Roma</text:p>`),
			Expected: "Via Roma 1\n00100 Roma\n",
		},
		{
			Name:     "quotes.odt",
			Content:  ContentXML(nil, "<text:p>\u201cSmart\u201d \u2018quotes\u2019&#160;and&amp;more &lt;tags&gt;</text:p>", "<text:p>a\u00a0b</text:p>"),
			Expected: "\"Smart\" 'quotes'&#160;and&more <tags>\na b\n",
		},
	}
	// Bulk documents so batch runs exercise several workers
	for i := 1; i <= 20; i++ {
		docs = append(docs, Document{
			Name:     fmt.Sprintf("bulk-%02d.odt", i),
			Content:  ContentXML(nil, fmt.Sprintf("<text:p>Document %d</text:p>", i), strings.Repeat("<text:p>line</text:p>", i)),
			Expected: fmt.Sprintf("Document %d\n", i) + strings.Repeat("line\n", i),
		})
	}
	return docs
}
