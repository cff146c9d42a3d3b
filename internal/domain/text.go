package domain

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// StripTags removes markup from a translation, footnote markers included.
// Entities are decoded.
func StripTags(fragment string) string {
	var buf strings.Builder
	z := html.NewTokenizer(strings.NewReader(fragment))
	footnote := 0

	for {
		switch z.Next() {
		case html.ErrorToken:
			return strings.TrimSpace(buf.String())
		case html.StartTagToken:
			if isFootnote(z) {
				footnote++
			}
		case html.EndTagToken:
			if isFootnote(z) && footnote > 0 {
				footnote--
			}
		case html.TextToken:
			if footnote == 0 {
				buf.Write(z.Text())
			}
		}
	}
}

// TagsToNewlines turns markup into line breaks and collapses blank runs.
// Used for the chapter description whose paragraphs arrive as <p>/<br>.
func TagsToNewlines(fragment string) string {
	var buf strings.Builder
	z := html.NewTokenizer(strings.NewReader(fragment))
	newline := func() {
		if s := buf.String(); s != "" && !strings.HasSuffix(s, "\n") {
			buf.WriteByte('\n')
		}
	}

	for {
		switch z.Next() {
		case html.ErrorToken:
			return strings.TrimSpace(buf.String())
		case html.StartTagToken, html.EndTagToken, html.SelfClosingTagToken:
			newline()
		case html.TextToken:
			for i, line := range strings.Split(string(z.Text()), "\n") {
				if i > 0 {
					newline()
				}
				buf.WriteString(line)
			}
		}
	}
}

func isFootnote(z *html.Tokenizer) bool {
	name, _ := z.TagName()
	return atom.Lookup(name) == atom.Sup
}
