package tokenize

import (
	"io"
	"strings"

	"golang.org/x/net/html"
)

// breakingTags are elements whose boundaries separate words
var breakingTags = map[string]bool{
	"br": true, "p": true, "div": true, "li": true, "tr": true, "td": true, "hr": true,
}

// StripMarkup removes HTML tags and decodes entities, as found in fields of
// flash-card exports ("<b>make</b>&nbsp;up"). Input that is not well-formed
// markup, such as "if a<b then c", is returned unchanged apart from
// surrounding whitespace.
func StripMarkup(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return strings.TrimSpace(s)
	}

	var b strings.Builder
	consumed := 0
	z := html.NewTokenizer(strings.NewReader(s))
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			// An unterminated tag is swallowed at EOF; every input byte
			// must belong to a token for the stripped text to be trusted
			if z.Err() != io.EOF || consumed != len(s) {
				return strings.TrimSpace(s)
			}
			return collapseSpace(b.String())
		}

		raw := z.Raw()
		consumed += len(raw)
		switch tt {
		case html.TextToken:
			b.Write(z.Text())
		case html.StartTagToken, html.EndTagToken, html.SelfClosingTagToken:
			if !strings.HasSuffix(string(raw), ">") {
				return strings.TrimSpace(s)
			}
			name, _ := z.TagName()
			if breakingTags[string(name)] {
				b.WriteByte(' ')
			}
		}
	}
}

// collapseSpace trims s and folds whitespace runs (NBSP included) to a single space
func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
