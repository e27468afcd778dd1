package config

import (
	"fmt"

	"github.com/cognicore/consult/pkg/consult/analytics"
	"github.com/cognicore/consult/pkg/consult/ingest"
	"github.com/cognicore/consult/pkg/consult/sentiment"
	"github.com/cognicore/consult/pkg/consult/stoplist"
	"github.com/cognicore/consult/pkg/consult/summarize"
)

// Loader constructs pipeline components from a configuration.
type Loader struct {
	Config *Config
	// Model replaces the VADER model when set.
	Model sentiment.Model
}

// Components holds the initialized pipeline parts.
type Components struct {
	Keywords   *analytics.Extractor
	Cloud      *analytics.Extractor
	Summarizer *summarize.Summarizer
	Scorer     *sentiment.Scorer
	Buckets    analytics.Buckets
	Markup     ingest.Markup

	KeywordCount          int
	SubstitutionWarnRatio float64
}

// Load validates the configuration and returns initialized components.
// A nil Config uses the defaults.
func (l *Loader) Load() (*Components, error) {
	cfg := l.Config
	if cfg == nil {
		cfg = Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	markup, err := ingest.ParseMarkup(cfg.Analysis.Markup)
	if err != nil {
		return nil, fmt.Errorf("load markup: %w", err)
	}

	extra := cfg.Vocabulary.Stopwords
	analysisStops := stoplist.Analysis.With(extra...)
	cloudStops := stoplist.Cloud.With(extra...)
	summaryStops := stoplist.Summary.With(extra...)

	model := l.Model
	if model == nil {
		model = sentiment.NewVADER()
	}

	comp := &Components{
		Keywords: analytics.NewExtractor(ingest.NewTokenizer(analysisStops, ingest.DefaultMinLen)),
		Cloud:    analytics.NewExtractor(ingest.NewTokenizer(cloudStops, ingest.DefaultMinLen)),
		Summarizer: summarize.New(summarize.Options{
			Stops:            summaryStops,
			ExtraDomainTerms: cfg.Vocabulary.DomainTerms,
			ThemeCount:       cfg.Analysis.ThemeCount,
			ExcerptWords:     cfg.Analysis.ExcerptWords,
		}),
		Scorer:                sentiment.NewScorer(model, cfg.Analysis.Workers),
		Buckets:               analytics.DefaultBuckets,
		Markup:                markup,
		KeywordCount:          cfg.Analysis.KeywordCount,
		SubstitutionWarnRatio: cfg.Analysis.SubstitutionWarnRatio,
	}
	if len(cfg.Vocabulary.SubmitterTypes) > 0 {
		comp.Buckets = analytics.DefaultBuckets.WithKeywords(cfg.Vocabulary.SubmitterTypes)
	}
	return comp, nil
}
