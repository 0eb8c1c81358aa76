package odt

import (
	"strings"
	"testing"
)

// sampleForms declares two checkboxes and two radio buttons the way Writer does.
const sampleForms = `<office:forms form:automatic-focus="false" form:apply-design-mode="false">` +
	`<form:form form:name="Form" form:apply-filter="true" form:command-type="table">` +
	`<form:properties><form:property form:property-name="PropertyChangeNotificationEnabled" office:value-type="boolean" office:boolean-value="true"/></form:properties>` +
	`<form:checkbox form:name="Check Box 1" xml:id="control1" form:id="control1" form:current-state="checked" form:image-position="center">` +
	`<form:properties><form:property form:property-name="DefaultControl" office:value-type="string" office:string-value="com.sun.star.form.control.CheckBox"/></form:properties>` +
	`</form:checkbox>` +
	`<form:checkbox form:name="Check Box 2" xml:id="control2" form:id="control2" form:image-position="center"><form:properties/></form:checkbox>` +
	`<form:radio form:name="Option Button 1" xml:id="control3" form:id="control3" form:current-selected="true" form:image-position="center"><form:properties/></form:radio>` +
	`<form:radio form:name="Option Button 2" xml:id="control4" form:id="control4" form:image-position="center"/>` +
	`</form:form></office:forms>`

func document(body string) string {
	return `<?xml version="1.0" encoding="UTF-8"?><office:document-content office:version="1.2"><office:body><office:text>` +
		sampleForms + body + `</office:text></office:body></office:document-content>`
}

func control(id string) string {
	return `<draw:control text:anchor-type="as-char" svg:y="-0.3cm" draw:z-index="0" draw:style-name="gr1" draw:text-style-name="P2" svg:width="0.4cm" svg:height="0.4cm" draw:control="` + id + `"/>`
}

func TestText_tabScenario(t *testing.T) {
	got := Text(`<text:p>A<text:tab/>B</text:p>`, Options{})
	if got != "A\tB\n" {
		t.Errorf("got %q", got)
	}
}

func TestText_checkboxScenario(t *testing.T) {
	markup := `<office:forms><form:form form:name="Form"><form:checkbox form:name="cb" xml:id="cb1" form:current-state="checked"></form:checkbox></form:form></office:forms>` +
		`<text:p>` + control("cb1") + `</text:p>`
	got := Text(markup, Options{})
	if got != "[X]\n" {
		t.Errorf("got %q", got)
	}
}

func TestText_controlMarkers(t *testing.T) {
	tests := []struct {
		id   string
		want string
	}{
		{"control1", "[X] label\n"},
		{"control2", "[ ] label\n"},
		{"control3", "(X) label\n"},
		{"control4", "( ) label\n"},
		{"unknown", " label\n"},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			markup := document(`<text:p text:style-name="P1">` + control(tt.id) + ` label</text:p>`)
			if got := Text(markup, Options{}); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestText_normalization(t *testing.T) {
	markup := "<text:p>a\u00a0b \u201dq\u201d \u2018s\u2019</text:p>"
	t.Run("enabled", func(t *testing.T) {
		got := Text(markup, Options{Normalize: true})
		if got != "a b \"q\" 's'\n" {
			t.Errorf("got %q", got)
		}
	})
	t.Run("disabled", func(t *testing.T) {
		got := Text(markup, Options{})
		if got != "a\u00a0b \u201dq\u201d \u2018s\u2019\n" {
			t.Errorf("got %q", got)
		}
	})
}

func TestText_customTerminators(t *testing.T) {
	markup := `<text:p>one<text:line-break/>two</text:p><text:p/>`
	tests := []struct {
		name string
		opts Options
		want string
	}{
		{"defaults", Options{}, "one\ntwo\n\n"},
		{"windows paragraphs", Options{ParagraphTerminator: "\r\n"}, "one\r\ntwo\r\n\r\n"},
		{"separate line break", Options{ParagraphTerminator: "\n", LineBreakTerminator: "\r"}, "one\rtwo\n\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Text(markup, tt.opts); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestText_entities(t *testing.T) {
	got := Text(`<text:p>&lt;b&gt; &quot;q&quot; it&apos;s &amp;amp; &amp;lt;</text:p>`, Options{})
	want := "<b> \"q\" it's &amp; &lt;\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestParse_returnsControls(t *testing.T) {
	res := Parse(document(`<text:p>x</text:p>`), DefaultOptions())
	if len(res.Controls) != 4 {
		t.Errorf("controls: got %v", res.Controls)
	}
	if res.Text != "x\n" {
		t.Errorf("text: got %q", res.Text)
	}
}

func TestText_truncatedMarkupTerminates(t *testing.T) {
	full := document(`<text:p text:style-name="P1">Name<text:tab/><text:span text:style-name="T1">A <text:span text:style-name="T2">B</text:span></text:span>` +
		control("control1") + `<text:line-break/>end</text:p><text:p/><text:p>&amp;</text:p>`)
	for i := 0; i <= len(full); i++ {
		_ = Text(full[:i], DefaultOptions())
	}
	if got := Text(full, Options{}); !strings.HasPrefix(got, "Name\tA B[X]\nend\n") {
		t.Errorf("full document: got %q", got)
	}
}
