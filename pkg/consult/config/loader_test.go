package config

import (
	"testing"

	"github.com/cognicore/consult/pkg/consult/analytics"
	"github.com/cognicore/consult/pkg/consult/ingest"
	"github.com/cognicore/consult/pkg/consult/sentiment"
)

func TestLoaderDefaults(t *testing.T) {
	loader := Loader{}
	comp, err := loader.Load()
	if err != nil {
		t.Fatalf("Empty loader should succeed: %v", err)
	}

	if comp.Keywords == nil || comp.Cloud == nil || comp.Summarizer == nil || comp.Scorer == nil {
		t.Fatal("components should be initialized")
	}
	if comp.Markup != ingest.MarkupPlain {
		t.Errorf("markup = %q", comp.Markup)
	}
	if comp.KeywordCount != 10 || comp.SubstitutionWarnRatio != 0.25 {
		t.Errorf("limits = %d %v", comp.KeywordCount, comp.SubstitutionWarnRatio)
	}
	if got := comp.Buckets.Classify("Federal Agency"); got != analytics.TypeIndividual {
		t.Errorf("Classify() = %s", got)
	}
}

func TestLoaderVocabulary(t *testing.T) {
	cfg := Default()
	cfg.Analysis.Workers = 2
	cfg.Vocabulary.Stopwords = []string{"hereby"}
	cfg.Vocabulary.DomainTerms = []string{"startup"}
	cfg.Vocabulary.SubmitterTypes = map[string][]string{analytics.TypeGovernment: {"agency"}}

	stub := sentiment.ModelFunc(func(string) (float64, float64, error) { return 0.5, 0.5, nil })
	comp, err := (&Loader{Config: cfg, Model: stub}).Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if comp.Scorer.Workers() != 2 {
		t.Errorf("workers = %d", comp.Scorer.Workers())
	}
	if r := comp.Scorer.Score("anything"); r.Label != sentiment.Positive {
		t.Errorf("stub model not used: %+v", r)
	}
	for _, term := range comp.Keywords.TopKeywords("hereby hereby amended", 5) {
		if term.Token == "hereby" {
			t.Error("extra stopword should be filtered")
		}
	}
	if got := comp.Summarizer.DomainKeywords("startup growth", 3); len(got) != 2 || got[0] != "startup" {
		t.Errorf("DomainKeywords() = %v", got)
	}
	if got := comp.Buckets.Classify("Federal Agency"); got != analytics.TypeGovernment {
		t.Errorf("Classify() = %s", got)
	}
}

func TestLoaderInvalidConfig(t *testing.T) {
	cfg := Default()
	cfg.Analysis.ThemeCount = 0
	if _, err := (&Loader{Config: cfg}).Load(); err == nil {
		t.Error("invalid config should fail")
	}
}
