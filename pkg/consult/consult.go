package consult

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/oklog/ulid/v2"
	"gonum.org/v1/gonum/stat"

	"github.com/cognicore/consult/pkg/consult/analytics"
	"github.com/cognicore/consult/pkg/consult/config"
	"github.com/cognicore/consult/pkg/consult/ingest"
	"github.com/cognicore/consult/pkg/consult/internalerr"
	"github.com/cognicore/consult/pkg/consult/sentiment"
	"github.com/cognicore/consult/pkg/consult/store"
	"github.com/cognicore/consult/pkg/consult/summarize"
)

// Consult is the comment analytics facade
type Consult struct {
	comp  *config.Components
	store store.Store
	now   func() time.Time

	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
}

// Options configures a Consult instance
type Options struct {
	// Components are the pipeline parts; nil loads the defaults.
	Components *config.Components
	// Store archives every report when set.
	Store store.Store
	// Now overrides the report clock.
	Now func() time.Time
}

// New creates a Consult instance with the given dependencies
func New(opts Options) (*Consult, error) {
	comp := opts.Components
	if comp == nil {
		var err error
		if comp, err = (&config.Loader{}).Load(); err != nil {
			return nil, err
		}
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Consult{
		comp:    comp,
		store:   opts.Store,
		now:     now,
		entropy: ulid.Monotonic(rand.Reader, 0),
	}, nil
}

// Close releases the archive, if any
func (c *Consult) Close() error {
	if c.store == nil {
		return nil
	}
	return c.store.Close()
}

// Markup is the body format files are normalized from.
func (c *Consult) Markup() ingest.Markup { return c.comp.Markup }

// Report is the result bundle of one analysis.
type Report struct {
	ID                 string                      `json:"id"`
	CreatedAt          time.Time                   `json:"created_at"`
	Source             string                      `json:"source,omitempty"`
	Summary            map[string]int              `json:"summary"`
	Overall            sentiment.Overall           `json:"overall_stats"`
	Detailed           []sentiment.Detail          `json:"detailed"`
	ByProvision        []analytics.Group           `json:"by_provision"`
	ByStakeholder      []StakeholderCounts         `json:"by_stakeholder"`
	StakeholderGroups  []analytics.Group           `json:"stakeholder_groups"`
	Narrative          string                      `json:"overall_summary"`
	KeyThemes          []string                    `json:"key_themes"`
	TopKeywords        []analytics.Term            `json:"top_keywords"`
	ProvisionSummaries []summarize.CategoryExcerpt `json:"provision_summaries"`
	WordFrequencies    analytics.CloudData         `json:"word_frequencies"`
	Statistics         Statistics                  `json:"statistics"`
	Warnings           []string                    `json:"warnings,omitempty"`
}

// StakeholderCounts is the label tally of one submitter.
type StakeholderCounts struct {
	Name     string `json:"stakeholder_name"`
	Positive int    `json:"positive"`
	Negative int    `json:"negative"`
	Neutral  int    `json:"neutral"`
	Total    int    `json:"total"`
}

// Statistics describes the analyzed batch.
type Statistics struct {
	TotalComments       int     `json:"total_comments"`
	UniqueStakeholders  int     `json:"unique_stakeholders"`
	ProvisionsDiscussed int     `json:"provisions_discussed"`
	AvgCommentLength    float64 `json:"avg_comment_length"`
	DroppedRows         int     `json:"dropped_rows,omitempty"`
}

// AnalyzeFile loads a CSV or JSONL file and analyzes its records.
func (c *Consult) AnalyzeFile(ctx context.Context, path string) (*Report, error) {
	batch, err := ingest.Load(path, ingest.Options{Markup: c.comp.Markup})
	if err != nil {
		return nil, err
	}
	return c.analyze(ctx, batch.Records, path, batch.Dropped)
}

// Analyze runs the whole pipeline over records. An empty batch is an
// EmptyInputError and yields no report.
func (c *Consult) Analyze(ctx context.Context, records []ingest.CommentRecord) (*Report, error) {
	return c.analyze(ctx, records, "", 0)
}

func (c *Consult) analyze(ctx context.Context, records []ingest.CommentRecord, source string, dropped int) (*Report, error) {
	if len(records) == 0 {
		return nil, &internalerr.EmptyInputError{Stage: "analyze"}
	}

	details, err := c.comp.Scorer.ScoreBatch(ctx, records)
	if err != nil {
		return nil, fmt.Errorf("score comments: %w", err)
	}

	overall, err := sentiment.Aggregate(details)
	if err != nil {
		return nil, err
	}

	sum := c.comp.Summarizer
	r := &Report{
		ID:                 c.newID(),
		CreatedAt:          c.now().UTC(),
		Source:             source,
		Summary:            overall.Distribution.Map(),
		Overall:            overall,
		Detailed:           details,
		ByProvision:        analytics.ByCategory(details),
		ByStakeholder:      stakeholderCounts(details),
		StakeholderGroups:  analytics.BySubmitterType(details, c.comp.Buckets),
		Narrative:          sum.Narrative(records, details),
		KeyThemes:          sum.KeyThemes(records),
		TopKeywords:        c.comp.Keywords.TopKeywords(analytics.JoinBodies(records), c.comp.KeywordCount),
		ProvisionSummaries: sum.ByCategory(records),
		WordFrequencies:    c.comp.Cloud.Cloud(records, details),
		Statistics:         statistics(records),
	}
	r.Statistics.DroppedRows = dropped

	if ratio := overall.SubstitutionRatio(); overall.Substituted > 0 && ratio > c.comp.SubstitutionWarnRatio {
		msg := fmt.Sprintf("sentiment model failed on %d of %d comments (%.1f%%); their results are Neutral placeholders",
			overall.Substituted, overall.Total, ratio*100)
		slog.Warn("high substitution ratio", "run_id", r.ID, "substituted", overall.Substituted, "total", overall.Total)
		r.Warnings = append(r.Warnings, msg)
	}
	if dropped > 0 {
		r.Warnings = append(r.Warnings, fmt.Sprintf("dropped %d rows without comment text", dropped))
	}

	if c.store != nil {
		if err := c.save(ctx, r); err != nil {
			return nil, fmt.Errorf("archive run: %w", err)
		}
	}
	return r, nil
}

func (c *Consult) save(ctx context.Context, r *Report) error {
	data, err := json.Marshal(r)
	if err != nil {
		return err
	}
	return c.store.SaveRun(ctx, store.Run{
		RunSummary: store.RunSummary{
			ID:           r.ID,
			CreatedAt:    r.CreatedAt,
			Source:       r.Source,
			Total:        r.Overall.Total,
			Overall:      r.Overall.Label,
			MeanPolarity: r.Overall.MeanPolarity,
			Substituted:  r.Overall.Substituted,
		},
		Narrative: r.Narrative,
		Report:    data,
		Details:   r.Detailed,
	})
}

func (c *Consult) newID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(c.now()), c.entropy).String()
}

func stakeholderCounts(details []sentiment.Detail) []StakeholderCounts {
	groups := analytics.BySubmitter(details)
	out := make([]StakeholderCounts, len(groups))
	for i, g := range groups {
		out[i] = StakeholderCounts{
			Name:     g.Key,
			Positive: g.Labels.Positive,
			Negative: g.Labels.Negative,
			Neutral:  g.Labels.Neutral,
			Total:    g.Count,
		}
	}
	return out
}

func statistics(records []ingest.CommentRecord) Statistics {
	submitters := make(map[string]struct{})
	categories := make(map[string]struct{})
	lengths := make([]float64, len(records))
	for i, r := range records {
		submitters[r.Submitter] = struct{}{}
		categories[r.Category] = struct{}{}
		lengths[i] = float64(utf8.RuneCountInString(r.Body))
	}

	s := Statistics{
		TotalComments:       len(records),
		UniqueStakeholders:  len(submitters),
		ProvisionsDiscussed: len(categories),
	}
	if len(records) > 0 {
		s.AvgCommentLength = stat.Mean(lengths, nil)
	}
	return s
}
