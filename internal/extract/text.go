package extract

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/net/html"
)

// VisibleText returns the text of an HTML fragment, skipping scripts and
// styles. Plain text passes through unchanged apart from entity decoding.
func VisibleText(content string) (string, error) {
	doc, err := html.Parse(strings.NewReader(content))
	if err != nil {
		return "", err
	}
	return extractVisibleText(doc), nil
}

// extractVisibleText extracts text nodes from HTML, skipping scripts/styles
func extractVisibleText(n *html.Node) string {
	var buf strings.Builder

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript", "iframe":
				return
			}
		}

		if n.Type == html.TextNode {
			text := strings.TrimSpace(n.Data)
			if text != "" {
				buf.WriteString(text)
				buf.WriteString(" ")
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	walk(n)
	return strings.TrimSpace(buf.String())
}

// SplitSentences splits text on sentence terminators followed by space. A
// terminator followed by a lower-case word ("Super Mario Bros. released")
// does not end the sentence. A sentence longer than long that spans several
// lines is split into its lines instead.
func SplitSentences(text string, long int) []string {
	var sentences []string
	add := func(s string) {
		s = strings.TrimSpace(s)
		if s == "" {
			return
		}
		if long > 0 && len(s) > long && strings.Contains(s, "\n") {
			for _, line := range strings.Split(s, "\n") {
				if line = strings.TrimSpace(line); line != "" {
					sentences = append(sentences, line)
				}
			}
			return
		}
		sentences = append(sentences, strings.Join(strings.Fields(s), " "))
	}

	var current strings.Builder
	for i, r := range text {
		current.WriteRune(r)

		if r == '.' || r == '!' || r == '?' {
			if i+1 < len(text) && isSpace(text[i+1]) && !continuesLower(text[i+1:]) {
				add(current.String())
				current.Reset()
			}
		}
	}
	add(current.String())

	return sentences
}

// continuesLower reports whether the first word of rest starts lower-case
func continuesLower(rest string) bool {
	rest = strings.TrimLeftFunc(rest, unicode.IsSpace)
	r, _ := utf8.DecodeRuneInString(rest)
	return unicode.IsLower(r)
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}
