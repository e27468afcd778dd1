package summarize

import (
	"sort"
	"strings"

	"github.com/cognicore/consult/pkg/consult/analytics"
	"github.com/cognicore/consult/pkg/consult/ingest"
	"github.com/cognicore/consult/pkg/consult/stoplist"
)

// Excerpt limits, in words.
const (
	DefaultMaxWords  = 50
	CategoryMaxWords = 100
)

// Ellipsis marks a truncated excerpt.
const Ellipsis = "..."

// topSentences is the number of sentences an excerpt keeps.
const topSentences = 2

// DomainTerms is the allow-list of consultation vocabulary the narrative's
// appreciated and concern lists are drawn from.
var DomainTerms = []string{
	"compliance", "regulation", "business", "cost", "implementation",
	"transparency", "governance", "reform", "burden", "support",
	"accountability", "framework", "amendment", "provision",
	"requirement", "documentation", "innovation", "growth",
}

// Options configures a Summarizer.
type Options struct {
	// Stops filters both the sentence-weight and domain-keyword vocabularies.
	// The zero value uses stoplist.Summary.
	Stops stoplist.Set
	// ExtraDomainTerms extends DomainTerms.
	ExtraDomainTerms []string
	// ThemeCount is the number of key themes in a Result; 0 uses 10.
	ThemeCount int
	// ExcerptWords bounds per-category excerpts; 0 uses CategoryMaxWords.
	ExcerptWords int
}

// Summarizer produces extractive excerpts and corpus narratives.
type Summarizer struct {
	weights      *analytics.Extractor
	keywords     *analytics.Extractor
	domain       map[string]struct{}
	themeCount   int
	excerptWords int
}

// New creates a summarizer.
func New(opts Options) *Summarizer {
	stops := opts.Stops
	if stops.Len() == 0 {
		stops = stoplist.Summary
	}
	if opts.ThemeCount <= 0 {
		opts.ThemeCount = 10
	}
	if opts.ExcerptWords <= 0 {
		opts.ExcerptWords = CategoryMaxWords
	}

	domain := make(map[string]struct{}, len(DomainTerms)+len(opts.ExtraDomainTerms))
	for _, t := range DomainTerms {
		domain[t] = struct{}{}
	}
	for _, t := range opts.ExtraDomainTerms {
		if t = strings.ToLower(strings.TrimSpace(t)); t != "" {
			domain[t] = struct{}{}
		}
	}

	return &Summarizer{
		weights:      analytics.NewExtractor(ingest.NewTokenizer(stops, ingest.SummaryMinLen)),
		keywords:     analytics.NewExtractor(ingest.NewTokenizer(stops, ingest.DefaultMinLen)),
		domain:       domain,
		themeCount:   opts.ThemeCount,
		excerptWords: opts.ExcerptWords,
	}
}

var defaultSummarizer = New(Options{})

// Summarize excerpts text with the default summarizer.
func Summarize(text string, maxWords int) string {
	return defaultSummarizer.Summarize(text, maxWords)
}

// Summarize returns text unchanged when it has at most maxWords words.
// Otherwise it keeps the two sentences with the highest mean term weight,
// joined with ". ", and truncates to maxWords words plus an ellipsis when
// still too long. Text with fewer than three "."-separated pieces is
// truncated directly.
func (s *Summarizer) Summarize(text string, maxWords int) string {
	words := strings.Fields(text)
	if len(words) <= maxWords {
		return text
	}

	pieces := strings.Split(text, ".")
	if len(pieces) <= topSentences {
		return truncate(words, maxWords)
	}

	freq := s.weights.Frequency(text)

	type scored struct {
		text  string
		score float64
	}
	var sentences []scored
	seen := make(map[string]struct{})
	for _, p := range pieces {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		sentences = append(sentences, scored{text: p, score: sentenceScore(freq, p)})
	}

	sort.SliceStable(sentences, func(i, j int) bool { return sentences[i].score > sentences[j].score })
	if len(sentences) > topSentences {
		sentences = sentences[:topSentences]
	}

	kept := make([]string, len(sentences))
	for i, sc := range sentences {
		kept[i] = sc.text
	}
	summary := strings.Join(kept, ". ")

	if w := strings.Fields(summary); len(w) > maxWords {
		return truncate(w, maxWords)
	}
	return summary
}

// sentenceScore is the mean weight of the sentence's lowercased words.
// Words keep their punctuation, so only bare words carry weight.
func sentenceScore(freq analytics.Frequencies, sentence string) float64 {
	words := strings.Fields(strings.ToLower(sentence))
	if len(words) == 0 {
		return 0
	}
	var sum float64
	for _, w := range words {
		sum += freq.Weight(w)
	}
	return sum / float64(len(words))
}

func truncate(words []string, maxWords int) string {
	if maxWords < 0 {
		maxWords = 0
	}
	if len(words) > maxWords {
		words = words[:maxWords]
	}
	return strings.Join(words, " ") + Ellipsis
}

// CategoryExcerpt is the excerpt of everything filed under one category.
type CategoryExcerpt struct {
	Category string `json:"provision_reference"`
	Summary  string `json:"summary"`
}

// ByCategory excerpts the concatenated bodies of each category, categories
// in order of first appearance.
func (s *Summarizer) ByCategory(records []ingest.CommentRecord) []CategoryExcerpt {
	var out []CategoryExcerpt
	seen := make(map[string]struct{})
	for _, r := range records {
		if _, ok := seen[r.Category]; ok {
			continue
		}
		seen[r.Category] = struct{}{}
		text := analytics.JoinCategory(records, r.Category)
		out = append(out, CategoryExcerpt{Category: r.Category, Summary: s.Summarize(text, s.excerptWords)})
	}
	return out
}
