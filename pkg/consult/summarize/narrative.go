package summarize

import (
	"fmt"
	"strings"

	"github.com/cognicore/consult/pkg/consult/analytics"
	"github.com/cognicore/consult/pkg/consult/ingest"
	"github.com/cognicore/consult/pkg/consult/sentiment"
)

// Narrative section limits.
const (
	narrativeCategories = 3
	narrativeThemes     = 5
	narrativeKeywords   = 3
)

// KeyThemes returns the most frequent terms of the whole corpus.
func (s *Summarizer) KeyThemes(records []ingest.CommentRecord) []string {
	return s.themes(records, s.themeCount)
}

func (s *Summarizer) themes(records []ingest.CommentRecord, n int) []string {
	return analytics.Tokens(s.weights.Frequency(analytics.JoinBodies(records)).Top(n))
}

// Narrative renders the multi-section corpus overview: label distribution,
// most discussed categories, main themes, then the domain terms of
// Positive and of Negative comments when either label occurs.
func (s *Summarizer) Narrative(records []ingest.CommentRecord, details []sentiment.Detail) string {
	total := len(records)

	var counts sentiment.LabelCounts
	for _, d := range details {
		counts.Add(d.Label)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Analysis of %d stakeholder comments reveals:\n\n", total)

	b.WriteString("SENTIMENT OVERVIEW:\n")
	for _, lc := range counts.Ranked() {
		pct := 0.0
		if total > 0 {
			pct = float64(lc.Count) / float64(total) * 100
		}
		fmt.Fprintf(&b, "• %s: %d comments (%.1f%%)\n", lc.Label, lc.Count, pct)
	}

	b.WriteString("\nMOST DISCUSSED PROVISIONS:\n")
	ranked := analytics.RankCategories(records)
	if len(ranked) > narrativeCategories {
		ranked = ranked[:narrativeCategories]
	}
	for _, cc := range ranked {
		fmt.Fprintf(&b, "• %s: %d comments\n", cc.Category, cc.Count)
	}

	b.WriteString("\nKEY THEMES:\n")
	fmt.Fprintf(&b, "• Main topics: %s\n", strings.Join(s.themes(records, narrativeThemes), ", "))

	if text, n := analytics.JoinLabel(details, sentiment.Positive); n > 0 {
		b.WriteString("\nPOSITIVE FEEDBACK:\n")
		fmt.Fprintf(&b, "• Stakeholders appreciate: %s\n", strings.Join(s.DomainKeywords(text, narrativeKeywords), ", "))
	}
	if text, n := analytics.JoinLabel(details, sentiment.Negative); n > 0 {
		b.WriteString("\nCONCERNS RAISED:\n")
		fmt.Fprintf(&b, "• Main concerns: %s\n", strings.Join(s.DomainKeywords(text, narrativeKeywords), ", "))
	}
	return b.String()
}

// DomainKeywords returns the n most frequent domain terms of text.
func (s *Summarizer) DomainKeywords(text string, n int) []string {
	return analytics.Tokens(s.keywords.Restricted(text, s.domain, n))
}
