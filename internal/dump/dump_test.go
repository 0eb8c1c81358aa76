package dump

import (
	"bytes"
	"testing"
)

func TestWrite(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		paragraph string
		lineBreak string
		want      string
	}{
		{
			name:      "terminators",
			text:      "a\rb\n",
			paragraph: "\n",
			lineBreak: "\r",
			want:      "\"a\" -> 97\nShift+Enter\n\"b\" -> 98\nEnter\n",
		},
		{
			name:      "three entries per line",
			text:      "abcd",
			paragraph: "\n",
			lineBreak: "\r",
			want:      "\"a\" -> 97\t\"b\" -> 98\t\"c\" -> 99\n\"d\" -> 100\n",
		},
		{
			name:      "tab and non-ASCII",
			text:      "\té",
			paragraph: "\n",
			lineBreak: "\r",
			want:      "\"\\t\" -> 9\t\"é\" -> 233\n",
		},
		{
			name:      "multi-byte terminator",
			text:      "x\r\n",
			paragraph: "\r\n",
			lineBreak: "\r",
			want:      "\"x\" -> 120\nEnter\n",
		},
		{
			name:      "line break equal to paragraph",
			text:      "\n",
			paragraph: "\n",
			lineBreak: "\n",
			want:      "Enter\n",
		},
		{
			name:      "empty text",
			text:      "",
			paragraph: "\n",
			want:      "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := Write(&buf, tt.text, tt.paragraph, tt.lineBreak); err != nil {
				t.Fatal(err)
			}
			if got := buf.String(); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}
