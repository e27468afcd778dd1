package sentiment

import (
	"math"
	"sort"
	"strings"
)

// Label is the discrete sentiment class of a text.
type Label string

const (
	Positive Label = "Positive"
	Negative Label = "Negative"
	Neutral  Label = "Neutral"
)

// Labels lists every label in reporting order.
var Labels = []Label{Positive, Negative, Neutral}

// Classification thresholds. Both boundaries are Neutral.
const (
	PositiveThreshold = 0.1
	NegativeThreshold = -0.1
)

// Classify maps a polarity to its label.
func Classify(polarity float64) Label {
	switch {
	case polarity > PositiveThreshold:
		return Positive
	case polarity < NegativeThreshold:
		return Negative
	default:
		return Neutral
	}
}

// Key returns the lowercase form used in exported summaries.
func (l Label) Key() string { return strings.ToLower(string(l)) }

// LabelCounts tallies results per label.
type LabelCounts struct {
	Positive int `json:"positive"`
	Negative int `json:"negative"`
	Neutral  int `json:"neutral"`
}

// Add counts one result with the given label.
func (c *LabelCounts) Add(l Label) {
	switch l {
	case Positive:
		c.Positive++
	case Negative:
		c.Negative++
	default:
		c.Neutral++
	}
}

// Get returns the count for a label.
func (c LabelCounts) Get(l Label) int {
	switch l {
	case Positive:
		return c.Positive
	case Negative:
		return c.Negative
	default:
		return c.Neutral
	}
}

// Total is the sum over all labels.
func (c LabelCounts) Total() int { return c.Positive + c.Negative + c.Neutral }

// Map returns lowercase label keys for labels with a non-zero count.
func (c LabelCounts) Map() map[string]int {
	out := make(map[string]int, len(Labels))
	for _, l := range Labels {
		if n := c.Get(l); n > 0 {
			out[l.Key()] = n
		}
	}
	return out
}

// LabelCount pairs a label with its count.
type LabelCount struct {
	Label Label `json:"label"`
	Count int   `json:"count"`
}

// Ranked returns labels with a non-zero count, most frequent first.
// Equal counts keep reporting order.
func (c LabelCounts) Ranked() []LabelCount {
	out := make([]LabelCount, 0, len(Labels))
	for _, l := range Labels {
		if n := c.Get(l); n > 0 {
			out = append(out, LabelCount{Label: l, Count: n})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out
}

// Round rounds x to the given number of decimal places, half away from zero.
func Round(x float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(x*p) / p
}
