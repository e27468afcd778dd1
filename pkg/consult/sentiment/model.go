package sentiment

import (
	"errors"
	"strings"
	"sync"

	"github.com/jonreiter/govader"
)

// ErrEmptyText is returned by models for text with no content to score.
var ErrEmptyText = errors.New("no text to score")

// Model computes polarity in [-1, 1] and subjectivity in [0, 1] for a text.
type Model interface {
	Polarity(text string) (polarity, subjectivity float64, err error)
}

// ModelFunc adapts a function to Model.
type ModelFunc func(text string) (float64, float64, error)

// Polarity implements Model.
func (f ModelFunc) Polarity(text string) (float64, float64, error) { return f(text) }

var (
	vaderAnalyzer *govader.SentimentIntensityAnalyzer
	vaderOnce     sync.Once
)

func getVaderAnalyzer() *govader.SentimentIntensityAnalyzer {
	vaderOnce.Do(func() {
		vaderAnalyzer = govader.NewSentimentIntensityAnalyzer()
	})

	return vaderAnalyzer
}

// VADER scores text with the VADER lexicon. Polarity is the compound score;
// subjectivity is the share of the text carrying positive or negative
// valence.
type VADER struct {
	analyzer *govader.SentimentIntensityAnalyzer
}

// NewVADER returns a model backed by the shared lexicon, loaded on first use.
func NewVADER() *VADER {
	return &VADER{analyzer: getVaderAnalyzer()}
}

// Polarity implements Model.
func (v *VADER) Polarity(text string) (float64, float64, error) {
	if strings.TrimSpace(text) == "" {
		return 0, 0, ErrEmptyText
	}

	scores := v.analyzer.PolarityScores(text)
	return clamp(scores.Compound, -1, 1), clamp(scores.Positive+scores.Negative, 0, 1), nil
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
