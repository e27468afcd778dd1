package sentiment

import (
	"context"
	"errors"
	"fmt"
	"math"
	"reflect"
	"testing"

	"github.com/cognicore/consult/pkg/consult/ingest"
	"github.com/cognicore/consult/pkg/consult/internalerr"
)

var errStub = errors.New("stub failure")

// stubModel returns fixed polarities keyed by text and fails on unknown text.
type stubModel map[string]float64

func (m stubModel) Polarity(text string) (float64, float64, error) {
	p, ok := m[text]
	if !ok {
		return 0, 0, errStub
	}
	return p, math.Abs(p), nil
}

func records(texts ...string) []ingest.CommentRecord {
	out := make([]ingest.CommentRecord, len(texts))
	for i, t := range texts {
		out[i] = ingest.CommentRecord{
			ID:        fmt.Sprintf("%d", i+1),
			Submitter: "Someone",
			Body:      t,
			Category:  "S1",
		}
	}
	return out
}

func TestClassifyBoundaries(t *testing.T) {
	tests := []struct {
		polarity float64
		want     Label
	}{
		{1, Positive},
		{0.1001, Positive},
		{0.1, Neutral},
		{0, Neutral},
		{-0.1, Neutral},
		{-0.1001, Negative},
		{-1, Negative},
	}
	for _, tt := range tests {
		if got := Classify(tt.polarity); got != tt.want {
			t.Errorf("Classify(%v) = %s, want %s", tt.polarity, got, tt.want)
		}
	}
}

func TestScoreSubstitutesModelFailure(t *testing.T) {
	s := NewScorer(stubModel{}, 1)

	res := s.Score("unknown")
	if !res.Substituted() {
		t.Fatal("expected substituted result")
	}
	if res.Label != Neutral || res.Polarity != 0 || res.Subjectivity != 0 {
		t.Errorf("substitute = %+v, want neutral zero", res)
	}
	if !errors.Is(res.Err, internalerr.ErrSentimentModel) {
		t.Error("Err should match ErrSentimentModel")
	}
	if !errors.Is(res.Err, errStub) {
		t.Error("Err should wrap the model error")
	}
}

func TestScoreBatchPreservesOrder(t *testing.T) {
	model := stubModel{}
	var texts []string
	for i := 0; i < 200; i++ {
		text := fmt.Sprintf("text-%d", i)
		model[text] = float64(i%21-10) / 10
		texts = append(texts, text)
	}

	s := NewScorer(model, 8)
	details, err := s.ScoreBatch(context.Background(), records(texts...))
	if err != nil {
		t.Fatalf("ScoreBatch: %v", err)
	}
	if len(details) != len(texts) {
		t.Fatalf("expected %d details, got %d", len(texts), len(details))
	}
	for i, d := range details {
		if d.Text != texts[i] || d.ID != fmt.Sprintf("%d", i+1) {
			t.Fatalf("detail %d out of order: %+v", i, d)
		}
		if want := Classify(model[texts[i]]); d.Label != want {
			t.Errorf("detail %d label %s, want %s", i, d.Label, want)
		}
	}
}

func TestScoreBatchContinuesPastFailures(t *testing.T) {
	s := NewScorer(stubModel{"good": 0.5, "bad": -0.5}, 2)

	details, err := s.ScoreBatch(context.Background(), records("good", "   ", "bad"))
	if err != nil {
		t.Fatalf("ScoreBatch: %v", err)
	}

	got := []Label{details[0].Label, details[1].Label, details[2].Label}
	if !reflect.DeepEqual(got, []Label{Positive, Neutral, Negative}) {
		t.Errorf("labels = %v", got)
	}
	if !details[1].Substituted || details[0].Substituted || details[2].Substituted {
		t.Errorf("only the failed record should be substituted: %+v", details)
	}
}

func TestScoreBatchRoundsForDisplay(t *testing.T) {
	s := NewScorer(stubModel{"x": 0.123456, "y": -0.98765}, 1)

	details, err := s.ScoreBatch(context.Background(), records("x", "y"))
	if err != nil {
		t.Fatalf("ScoreBatch: %v", err)
	}
	if details[0].Polarity != 0.123 || details[0].Subjectivity != 0.123 {
		t.Errorf("x rounded to %v/%v", details[0].Polarity, details[0].Subjectivity)
	}
	if details[1].Polarity != -0.988 || details[1].Subjectivity != 0.988 {
		t.Errorf("y rounded to %v/%v", details[1].Polarity, details[1].Subjectivity)
	}
}

func TestScoreRecordNamesRecord(t *testing.T) {
	s := NewScorer(stubModel{}, 1)

	res := s.score("c-7", "unknown")
	var me *internalerr.SentimentModelError
	if !errors.As(res.Err, &me) {
		t.Fatalf("expected SentimentModelError, got %T: %v", res.Err, res.Err)
	}
	if me.RecordID != "c-7" {
		t.Errorf("RecordID = %q, want c-7", me.RecordID)
	}
}

func TestScoreRecoversModelPanic(t *testing.T) {
	model := ModelFunc(func(text string) (float64, float64, error) {
		if text == "boom" {
			panic("lexicon exploded")
		}
		return 0.5, 0.5, nil
	})
	s := NewScorer(model, 2)

	res := s.Score("boom")
	if !res.Substituted() || res.Label != Neutral || res.Polarity != 0 {
		t.Fatalf("panic should yield a neutral substitute, got %+v", res)
	}
	if !errors.Is(res.Err, internalerr.ErrSentimentModel) {
		t.Errorf("Err should match ErrSentimentModel, got %v", res.Err)
	}

	details, err := s.ScoreBatch(context.Background(), records("fine", "boom", "fine"))
	if err != nil {
		t.Fatalf("ScoreBatch: %v", err)
	}
	if len(details) != 3 {
		t.Fatalf("expected 3 details, got %d", len(details))
	}
	if !details[1].Substituted || details[0].Substituted || details[2].Substituted {
		t.Errorf("only the panicking record should be substituted: %+v", details)
	}
	if details[0].Label != Positive || details[2].Label != Positive {
		t.Errorf("other records should score normally: %+v", details)
	}
}

func TestScoreBatchCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := NewScorer(stubModel{"a": 1}, 2)
	if _, err := s.ScoreBatch(ctx, records("a", "a", "a")); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestNewScorerDefaultsWorkers(t *testing.T) {
	if NewScorer(stubModel{}, 0).Workers() < 1 {
		t.Error("workers should default to at least 1")
	}
	if got := NewScorer(stubModel{}, 3).Workers(); got != 3 {
		t.Errorf("Workers() = %d, want 3", got)
	}
}

func TestAggregate(t *testing.T) {
	details := []Detail{
		{Label: Positive, Polarity: 0.5},
		{Label: Positive, Polarity: 0.3},
		{Label: Negative, Polarity: -0.4},
		{Label: Neutral, Polarity: 0.0, Substituted: true},
	}

	o, err := Aggregate(details)
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}
	if o.Total != 4 {
		t.Errorf("Total = %d", o.Total)
	}
	if o.Distribution != (LabelCounts{Positive: 2, Negative: 1, Neutral: 1}) {
		t.Errorf("Distribution = %+v", o.Distribution)
	}
	if o.MeanPolarity != 0.1 {
		t.Errorf("MeanPolarity = %v, want 0.1", o.MeanPolarity)
	}
	if o.PositivePct != 50 || o.NegativePct != 25 || o.NeutralPct != 25 {
		t.Errorf("percentages = %v/%v/%v", o.PositivePct, o.NegativePct, o.NeutralPct)
	}
	if o.Substituted != 1 || o.SubstitutionRatio() != 0.25 {
		t.Errorf("Substituted = %d ratio %v", o.Substituted, o.SubstitutionRatio())
	}
}

func TestAggregateAveragesRoundedScores(t *testing.T) {
	// Raw polarity 0.1004 would classify Positive; the table holds 0.1.
	s := NewScorer(stubModel{"a": 0.1004, "b": 0.1004}, 1)
	details, err := s.ScoreBatch(context.Background(), records("a", "b"))
	if err != nil {
		t.Fatalf("ScoreBatch: %v", err)
	}

	o, err := Aggregate(details)
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}
	if o.MeanPolarity != 0.1 {
		t.Errorf("MeanPolarity = %v, want 0.1", o.MeanPolarity)
	}
	if o.Label != Neutral {
		t.Errorf("overall label = %s, want Neutral", o.Label)
	}
	if details[0].Label != Positive {
		t.Errorf("record label = %s, want Positive from raw polarity", details[0].Label)
	}
}

func TestAggregateCountsAndPercentagesSum(t *testing.T) {
	batches := [][]Label{
		{Positive},
		{Positive, Negative, Neutral},
		{Positive, Positive, Negative, Neutral, Neutral, Neutral, Negative},
	}
	for _, labels := range batches {
		details := make([]Detail, len(labels))
		for i, l := range labels {
			details[i] = Detail{Label: l}
		}
		o, err := Aggregate(details)
		if err != nil {
			t.Fatalf("Aggregate: %v", err)
		}
		if o.Distribution.Total() != o.Total {
			t.Errorf("label counts %d != total %d", o.Distribution.Total(), o.Total)
		}
		sum := o.PositivePct + o.NegativePct + o.NeutralPct
		if math.Abs(sum-100) > 0.15 {
			t.Errorf("percentages sum to %v", sum)
		}
	}
}

func TestAggregateEmpty(t *testing.T) {
	_, err := Aggregate(nil)
	if !errors.Is(err, internalerr.ErrEmptyInput) {
		t.Fatalf("expected ErrEmptyInput, got %v", err)
	}
	var eie *internalerr.EmptyInputError
	if !errors.As(err, &eie) {
		t.Fatalf("expected EmptyInputError, got %T", err)
	}
}

func TestPercentZeroTotal(t *testing.T) {
	if got := Percent(3, 0); got != 0 {
		t.Errorf("Percent(3, 0) = %v", got)
	}
	if got := Percent(1, 3); got != 33.3 {
		t.Errorf("Percent(1, 3) = %v", got)
	}
}

func TestLabelCounts(t *testing.T) {
	var c LabelCounts
	for _, l := range []Label{Neutral, Negative, Negative, Positive, Negative} {
		c.Add(l)
	}

	if !reflect.DeepEqual(c.Map(), map[string]int{"positive": 1, "negative": 3, "neutral": 1}) {
		t.Errorf("Map() = %v", c.Map())
	}
	ranked := c.Ranked()
	want := []LabelCount{{Negative, 3}, {Positive, 1}, {Neutral, 1}}
	if !reflect.DeepEqual(ranked, want) {
		t.Errorf("Ranked() = %v, want %v", ranked, want)
	}

	var empty LabelCounts
	if len(empty.Map()) != 0 || len(empty.Ranked()) != 0 {
		t.Error("zero counts should be omitted")
	}
}

func TestVADERScenario(t *testing.T) {
	s := NewScorer(NewVADER(), 2)

	details, err := s.ScoreBatch(context.Background(), records(
		"Great transparency improvement",
		"Terrible cost burden",
		"It is what it is",
	))
	if err != nil {
		t.Fatalf("ScoreBatch: %v", err)
	}

	got := []Label{details[0].Label, details[1].Label, details[2].Label}
	if !reflect.DeepEqual(got, []Label{Positive, Negative, Neutral}) {
		t.Errorf("labels = %v", got)
	}
	for _, d := range details {
		if d.Subjectivity < 0 || d.Subjectivity > 1 {
			t.Errorf("subjectivity out of range: %v", d.Subjectivity)
		}
	}
}

func TestVADEREmptyText(t *testing.T) {
	_, _, err := NewVADER().Polarity(" \n\t")
	if !errors.Is(err, ErrEmptyText) {
		t.Fatalf("expected ErrEmptyText, got %v", err)
	}
}
