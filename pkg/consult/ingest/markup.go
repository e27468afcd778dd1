package ingest

import (
	"fmt"
	"strings"

	"github.com/russross/blackfriday/v2"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Markup names the format comment bodies arrive in.
type Markup string

const (
	MarkupPlain    Markup = "plain"
	MarkupMarkdown Markup = "markdown"
	MarkupHTML     Markup = "html"
)

// ParseMarkup maps a config value to a Markup. Empty means plain.
func ParseMarkup(s string) (Markup, error) {
	switch m := Markup(strings.ToLower(strings.TrimSpace(s))); m {
	case "", MarkupPlain:
		return MarkupPlain, nil
	case MarkupMarkdown, MarkupHTML:
		return m, nil
	default:
		return "", fmt.Errorf("unknown markup %q", s)
	}
}

// Normalize converts a body to plain text. Plain bodies are returned as is so
// the detailed table keeps the submitted text byte for byte.
func (m Markup) Normalize(body string) string {
	switch m {
	case MarkupMarkdown:
		rendered := blackfriday.Run([]byte(body), blackfriday.WithNoExtensions())
		return stripHTML(string(rendered))
	case MarkupHTML:
		return stripHTML(body)
	default:
		return body
	}
}

// blockEnds separate text of adjacent block elements.
var blockEnds = map[atom.Atom]bool{
	atom.P: true, atom.Div: true, atom.Br: true, atom.Li: true, atom.Tr: true,
	atom.Td: true, atom.H1: true, atom.H2: true, atom.H3: true, atom.H4: true,
	atom.H5: true, atom.H6: true, atom.Blockquote: true, atom.Pre: true,
}

func stripHTML(s string) string {
	doc, err := html.Parse(strings.NewReader(s))
	if err != nil {
		// Fallback to string if parsing fails
		return s
	}

	var buf strings.Builder
	var extractText func(*html.Node)
	extractText = func(n *html.Node) {
		if n.Type == html.ElementNode && (n.DataAtom == atom.Script || n.DataAtom == atom.Style) {
			return
		}
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extractText(c)
		}
		if n.Type == html.ElementNode && blockEnds[n.DataAtom] {
			buf.WriteByte(' ')
		}
	}
	extractText(doc)

	return strings.Join(strings.Fields(buf.String()), " ")
}
