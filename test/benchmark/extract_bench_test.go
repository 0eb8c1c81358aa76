package benchmark

import (
	"fmt"
	"strings"
	"testing"

	"github.com/hyperjump/odtreader/internal/extract"
	"github.com/hyperjump/odtreader/internal/odt"
	"github.com/hyperjump/odtreader/test/e2e"
)

// largeForm builds a document with n paragraphs, each holding spans, a tab
// and a checkbox.
func largeForm(n int) string {
	controls := make([]e2e.Control, 0, n)
	var paragraphs []string
	for i := 0; i < n; i++ {
		id := fmt.Sprintf("control%d", i)
		controls = append(controls, e2e.Control{ID: id, Selected: i%2 == 0})
		paragraphs = append(paragraphs, `<text:p text:style-name="P1">Field `+
			`<text:span text:style-name="T1">number <text:span text:style-name="T2">`+fmt.Sprint(i)+`</text:span></text:span>`+
			`<text:tab/>`+e2e.ControlRef(id)+` “label” &amp; more</text:p>`)
	}
	return e2e.ContentXML(controls, paragraphs...)
}

func BenchmarkParse(b *testing.B) {
	markup := largeForm(1000)
	opts := odt.DefaultOptions()
	b.SetBytes(int64(len(markup)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = odt.Parse(markup, opts)
	}
}

// BenchmarkParse_longParagraph measures one paragraph holding many inline
// tags and no drawing objects.
func BenchmarkParse_longParagraph(b *testing.B) {
	markup := e2e.ContentXML(nil, `<text:p>`+strings.Repeat(`a<text:tab/><text:span>b</text:span>`, 20000)+`</text:p>`)
	opts := odt.DefaultOptions()
	b.SetBytes(int64(len(markup)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = odt.Parse(markup, opts)
	}
}

func BenchmarkHarvestControls(b *testing.B) {
	markup := largeForm(1000)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = odt.HarvestControls(markup)
	}
}

func BenchmarkExtractBytes(b *testing.B) {
	data := e2e.BuildOdt(largeForm(200))
	e := extract.NewExtractor(odt.DefaultOptions())
	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := e.ExtractBytes(data); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkNormalizeText(b *testing.B) {
	text := strings.Repeat("“quoted” ‘text’ here ", 1000)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = odt.NormalizeText(text)
	}
}
