// Package e2e provides end-to-end tests; this file builds OpenDocument Text
// files laid out the way office suites write them.
package e2e

import (
	"archive/zip"
	"bytes"
	"strings"
)

const (
	odtMimetype = "application/vnd.oasis.opendocument.text"

	contentHeader = `<?xml version="1.0" encoding="UTF-8"?>` +
		`<office:document-content xmlns:office="urn:oasis:names:tc:opendocument:xmlns:office:1.0"` +
		` xmlns:text="urn:oasis:names:tc:opendocument:xmlns:text:1.0"` +
		` xmlns:draw="urn:oasis:names:tc:opendocument:xmlns:drawing:1.0"` +
		` xmlns:form="urn:oasis:names:tc:opendocument:xmlns:form:1.0"` +
		` office:version="1.3"><office:automatic-styles/><office:body><office:text>`
	contentFooter = `</office:text></office:body></office:document-content>`

	manifest = `<?xml version="1.0" encoding="UTF-8"?>` +
		`<manifest:manifest xmlns:manifest="urn:oasis:names:tc:opendocument:xmlns:manifest:1.0" manifest:version="1.3">` +
		`<manifest:file-entry manifest:full-path="/" manifest:media-type="` + odtMimetype + `"/>` +
		`<manifest:file-entry manifest:full-path="content.xml" manifest:media-type="text/xml"/>` +
		`<manifest:file-entry manifest:full-path="styles.xml" manifest:media-type="text/xml"/>` +
		`</manifest:manifest>`

	styles = `<?xml version="1.0" encoding="UTF-8"?><office:document-styles/>`
)

// Control is a form control declared in a document.
type Control struct {
	ID       string
	Radio    bool
	Selected bool
}

func (c Control) markup() string {
	if c.Radio {
		state := ""
		if c.Selected {
			state = ` form:current-selected="true"`
		}
		return `<form:radio form:name="` + c.ID + `" xml:id="` + c.ID + `"` + state + `><form:properties/></form:radio>`
	}
	state := ""
	if c.Selected {
		state = ` form:current-state="checked"`
	}
	return `<form:checkbox form:name="` + c.ID + `" xml:id="` + c.ID + `"` + state + `><form:properties/></form:checkbox>`
}

// ControlRef returns the inline anchor that places control id in a paragraph.
func ControlRef(id string) string {
	return `<draw:control text:anchor-type="as-char" svg:width="0.4cm" svg:height="0.4cm" draw:control="` + id + `"/>`
}

// ContentXML wraps paragraphs (already marked up) in a content.xml document,
// with a forms block when controls are given.
func ContentXML(controls []Control, paragraphs ...string) string {
	var b strings.Builder
	b.WriteString(contentHeader)
	if len(controls) > 0 {
		b.WriteString(`<office:forms form:automatic-focus="false" form:apply-design-mode="false">`)
		b.WriteString(`<form:form form:name="Standard" form:apply-filter="true" office:target-frame="">`)
		for _, c := range controls {
			b.WriteString(c.markup())
		}
		b.WriteString(`</form:form></office:forms>`)
	}
	b.WriteString(`<text:sequence-decls/>`)
	for _, p := range paragraphs {
		b.WriteString(p)
	}
	b.WriteString(contentFooter)
	return b.String()
}

// BuildOdt returns the bytes of an .odt archive holding contentXML. The
// mimetype entry is stored first and uncompressed, as the format requires.
func BuildOdt(contentXML string) []byte {
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	mt, _ := w.CreateHeader(&zip.FileHeader{Name: "mimetype", Method: zip.Store})
	_, _ = mt.Write([]byte(odtMimetype))
	for _, f := range []struct{ name, data string }{
		{"content.xml", contentXML},
		{"styles.xml", styles},
		{"META-INF/manifest.xml", manifest},
	} {
		fw, _ := w.Create(f.name)
		_, _ = fw.Write([]byte(f.data))
	}
	_ = w.Close()
	return buf.Bytes()
}
