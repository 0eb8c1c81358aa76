package odt

import "strings"

// indexFrom returns the index of substr in s at or after from, or -1.
func indexFrom(s, substr string, from int) int {
	if from < 0 {
		from = 0
	}
	if from > len(s) {
		return -1
	}
	i := strings.Index(s[from:], substr)
	if i < 0 {
		return -1
	}
	return from + i
}

// tagEnd returns the offset just past the '>' closing the tag that starts at
// start, and whether that tag is self-closing. An unterminated tag runs to the
// end of s.
func tagEnd(s string, start int) (end int, selfClosing bool) {
	i := indexFrom(s, ">", start)
	if i < 0 {
		return len(s), false
	}
	return i + 1, i > start && s[i-1] == '/'
}

// hasElement reports whether s starts with name followed by a byte that can
// end an element name.
func hasElement(s, name string) bool {
	return strings.HasPrefix(s, name) && (len(s) == len(name) || isNameEnd(s[len(name)]))
}

// nextElement returns the offset of the next "<prefix:name" at or after from
// whose name is not merely a prefix of a longer name, or -1.
func nextElement(s, open string, from int) int {
	for {
		i := indexFrom(s, open, from)
		if i < 0 {
			return -1
		}
		k := i + len(open)
		if k < len(s) && isNameEnd(s[k]) {
			return i
		}
		from = k
	}
}

// attr returns the value of name="..." inside tag. The attribute name must be
// preceded by whitespace so that "form:id" does not match "xform:id".
func attr(tag, name string) (string, bool) {
	key := name + `="`
	for from := 0; ; {
		i := indexFrom(tag, key, from)
		if i < 0 {
			return "", false
		}
		if i > 0 && isSpace(tag[i-1]) {
			v := i + len(key)
			j := indexFrom(tag, `"`, v)
			if j < 0 {
				return "", false
			}
			return tag[v:j], true
		}
		from = i + 1
	}
}

func isNameEnd(b byte) bool {
	return b == '>' || b == '/' || isSpace(b)
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}
