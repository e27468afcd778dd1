package sentiment

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/cognicore/consult/pkg/consult/ingest"
	"github.com/cognicore/consult/pkg/consult/internalerr"
)

// DisplayPlaces is the precision of scores in the detailed table.
const DisplayPlaces = 3

// Result is the raw, unrounded score of one text.
type Result struct {
	Polarity     float64
	Subjectivity float64
	Label        Label
	// Err is set when the model failed and a neutral zero result was
	// substituted.
	Err error
}

// Substituted reports whether the result stands in for a failed score.
func (r Result) Substituted() bool { return r.Err != nil }

// Detail is one row of the detailed table: the record, its label and
// scores rounded for display.
type Detail struct {
	ID           string  `json:"comment_id"`
	Submitter    string  `json:"stakeholder_name"`
	Text         string  `json:"comment_text"`
	Category     string  `json:"provision_reference"`
	Label        Label   `json:"sentiment"`
	Polarity     float64 `json:"polarity_score"`
	Subjectivity float64 `json:"subjectivity_score"`
	Substituted  bool    `json:"substituted,omitempty"`
}

// Scorer applies a Model and the fixed thresholds to texts and batches.
type Scorer struct {
	model   Model
	workers int
}

// NewScorer creates a scorer. workers bounds batch concurrency; values
// below 1 use runtime.NumCPU().
func NewScorer(model Model, workers int) *Scorer {
	if workers < 1 {
		workers = runtime.NumCPU()
	}
	return &Scorer{model: model, workers: workers}
}

// Workers reports the batch concurrency.
func (s *Scorer) Workers() int { return s.workers }

// Score scores a single text. A model failure, including a panic inside
// the model, yields a Neutral result with zero scores and Err wrapping the
// cause.
func (s *Scorer) Score(text string) Result {
	return s.score("", text)
}

func (s *Scorer) score(id, text string) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			res = Result{Label: Neutral, Err: &internalerr.SentimentModelError{
				RecordID: id,
				Err:      fmt.Errorf("model panic: %v", r),
			}}
		}
	}()

	polarity, subjectivity, err := s.model.Polarity(text)
	if err != nil {
		return Result{Label: Neutral, Err: &internalerr.SentimentModelError{RecordID: id, Err: err}}
	}
	return Result{
		Polarity:     polarity,
		Subjectivity: subjectivity,
		Label:        Classify(polarity),
	}
}

// ScoreBatch scores every record and returns one Detail per record in input
// order. Model failures never abort the batch; they are logged and marked
// Substituted. The only error is context cancellation.
func (s *Scorer) ScoreBatch(ctx context.Context, records []ingest.CommentRecord) ([]Detail, error) {
	details := make([]Detail, len(records))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i := range records {
		if gctx.Err() != nil {
			break
		}
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			details[i] = s.detail(records[i])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return details, nil
}

func (s *Scorer) detail(rec ingest.CommentRecord) Detail {
	res := s.score(rec.ID, rec.Body)
	if res.Err != nil {
		slog.Warn("sentiment model failed, substituting neutral", "comment_id", rec.ID, "err", res.Err)
	}
	return Detail{
		ID:           rec.ID,
		Submitter:    rec.Submitter,
		Text:         rec.Body,
		Category:     rec.Category,
		Label:        res.Label,
		Polarity:     Round(res.Polarity, DisplayPlaces),
		Subjectivity: Round(res.Subjectivity, DisplayPlaces),
		Substituted:  res.Substituted(),
	}
}
