package analytics

import (
	"strings"

	"github.com/cognicore/consult/pkg/consult/ingest"
	"github.com/cognicore/consult/pkg/consult/sentiment"
)

// Term limits for word-cloud data.
const (
	MainCloudTerms      = 50
	SentimentCloudTerms = 30
	CategoryCloudTerms  = 30
	ChartTerms          = 15
	CloudCategories     = 3
)

// CloudData holds the term weights an external renderer needs to draw word
// clouds and the frequency chart.
type CloudData struct {
	Main        []Term            `json:"main"`
	BySentiment map[string][]Term `json:"by_sentiment"`
	ByCategory  map[string][]Term `json:"by_category"`
	Chart       []Term            `json:"frequency_chart"`
}

// Cloud builds word-cloud data: the whole corpus, each label present in the
// batch (lowercase keys), and the most discussed categories.
func (e *Extractor) Cloud(records []ingest.CommentRecord, details []sentiment.Detail) CloudData {
	all := e.Frequency(JoinBodies(records))
	data := CloudData{
		Main:        all.Top(MainCloudTerms),
		Chart:       all.Top(ChartTerms),
		BySentiment: make(map[string][]Term),
		ByCategory:  make(map[string][]Term),
	}

	for _, l := range sentiment.Labels {
		text, n := JoinLabel(details, l)
		if n == 0 {
			continue
		}
		data.BySentiment[l.Key()] = e.TopKeywords(text, SentimentCloudTerms)
	}

	ranked := RankCategories(records)
	if len(ranked) > CloudCategories {
		ranked = ranked[:CloudCategories]
	}
	for _, cc := range ranked {
		data.ByCategory[cc.Category] = e.TopKeywords(JoinCategory(records, cc.Category), CategoryCloudTerms)
	}
	return data
}

// JoinBodies concatenates record bodies with single spaces.
func JoinBodies(records []ingest.CommentRecord) string {
	parts := make([]string, len(records))
	for i, r := range records {
		parts[i] = r.Body
	}
	return strings.Join(parts, " ")
}

// JoinCategory concatenates the bodies filed under one category.
func JoinCategory(records []ingest.CommentRecord, category string) string {
	var parts []string
	for _, r := range records {
		if r.Category == category {
			parts = append(parts, r.Body)
		}
	}
	return strings.Join(parts, " ")
}

// JoinLabel concatenates the texts of details with the given label and
// reports how many matched.
func JoinLabel(details []sentiment.Detail, l sentiment.Label) (string, int) {
	var parts []string
	for _, d := range details {
		if d.Label == l {
			parts = append(parts, d.Text)
		}
	}
	return strings.Join(parts, " "), len(parts)
}
