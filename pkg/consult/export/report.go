package export

import (
	"bytes"
	"encoding/json"
	"io"
	"strings"

	"github.com/russross/blackfriday/v2"
)

// WriteJSON writes v as indented JSON followed by a newline.
func WriteJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}

// NarrativeMarkdown rewrites a narrative as markdown: upper-case section
// titles become headings and bullet lines become list items.
func NarrativeMarkdown(narrative string) string {
	var b strings.Builder
	lines := strings.Split(strings.TrimRight(narrative, "\n"), "\n")
	for i, line := range lines {
		switch {
		case strings.HasPrefix(line, "• "):
			b.WriteString("- " + strings.TrimPrefix(line, "• "))
		case isSectionTitle(line):
			b.WriteString("## " + strings.TrimSuffix(line, ":"))
		default:
			b.WriteString(line)
		}
		if i < len(lines)-1 {
			b.WriteByte('\n')
		}
		if isSectionTitle(line) {
			b.WriteByte('\n')
		}
	}
	b.WriteByte('\n')
	return b.String()
}

func isSectionTitle(line string) bool {
	return strings.HasSuffix(line, ":") && line == strings.ToUpper(line) && strings.TrimSpace(line) != ":"
}

// NarrativeHTML renders a narrative as an HTML fragment.
func NarrativeHTML(narrative string) []byte {
	out := blackfriday.Run([]byte(NarrativeMarkdown(narrative)))
	return bytes.TrimSpace(out)
}
