package model

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// SummaryLength is the preview length used for dashboard cards.
const SummaryLength = 150

// PlainText returns the text content of rich-text markup. Block-level
// elements and line breaks are separated by a newline.
func PlainText(markup string) string {
	var b strings.Builder
	z := html.NewTokenizer(strings.NewReader(markup))
	skip := 0
	for {
		switch z.Next() {
		case html.ErrorToken:
			// io.EOF or malformed input; either way the text so far is the result.
			return strings.TrimSpace(b.String())
		case html.TextToken:
			if skip == 0 {
				b.Write(z.Text())
			}
		case html.StartTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			a := atom.Lookup(name)
			if a == atom.Script || a == atom.Style {
				skip++
			}
			if breaksLine(a) {
				b.WriteByte('\n')
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			a := atom.Lookup(name)
			if (a == atom.Script || a == atom.Style) && skip > 0 {
				skip--
			}
			if breaksLine(a) {
				b.WriteByte('\n')
			}
		}
	}
}

func breaksLine(a atom.Atom) bool {
	switch a {
	case atom.Br, atom.P, atom.Div, atom.Li, atom.Ul, atom.Ol, atom.Pre, atom.Blockquote,
		atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6, atom.Tr:
		return true
	}
	return false
}

// Summary returns the plain text of markup with whitespace collapsed,
// truncated to max runes followed by "..." when longer.
func Summary(markup string, max int) string {
	text := strings.Join(strings.Fields(PlainText(markup)), " ")
	if utf8.RuneCountInString(text) <= max {
		return text
	}
	runes := []rune(text)
	return string(runes[:max]) + "..."
}

// WordCount counts whitespace-separated words in the plain text of markup.
func WordCount(markup string) int {
	return len(strings.Fields(PlainText(markup)))
}

// CharCount counts the characters in the plain text of markup.
func CharCount(markup string) int {
	return utf8.RuneCountInString(PlainText(markup))
}
