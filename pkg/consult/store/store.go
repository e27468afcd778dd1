package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/cognicore/consult/pkg/consult/sentiment"
)

// Store archives completed analysis runs.
type Store interface {
	Close() error

	// SaveRun inserts or replaces a run and its detailed rows.
	SaveRun(ctx context.Context, r Run) error
	// GetRun returns a run with its details, or internalerr.ErrNotFound.
	GetRun(ctx context.Context, id string) (Run, error)
	// ListRuns returns at most limit summaries, newest first.
	ListRuns(ctx context.Context, limit int) ([]RunSummary, error)
	// RunDetails returns the detailed rows of a run in input order.
	RunDetails(ctx context.Context, id string) ([]sentiment.Detail, error)
	// DeleteRun removes a run, or returns internalerr.ErrNotFound.
	DeleteRun(ctx context.Context, id string) error
}

// RunSummary is the listing view of a run.
type RunSummary struct {
	ID           string          `json:"id"`
	CreatedAt    time.Time       `json:"created_at"`
	Source       string          `json:"source,omitempty"`
	Total        int             `json:"total_comments"`
	Overall      sentiment.Label `json:"overall_sentiment"`
	MeanPolarity float64         `json:"average_polarity"`
	Substituted  int             `json:"substituted_results"`
}

// Run is an archived analysis.
type Run struct {
	RunSummary
	Narrative string             `json:"narrative"`
	Report    json.RawMessage    `json:"report,omitempty"`
	Details   []sentiment.Detail `json:"detailed_results"`
}

// DefaultListLimit applies when ListRuns gets a non-positive limit.
const DefaultListLimit = 20
