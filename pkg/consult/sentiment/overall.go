package sentiment

import (
	"gonum.org/v1/gonum/stat"

	"github.com/cognicore/consult/pkg/consult/internalerr"
)

// Overall is the corpus-level sentiment rollup.
type Overall struct {
	Label        Label       `json:"overall_sentiment"`
	MeanPolarity float64     `json:"average_polarity"`
	Distribution LabelCounts `json:"sentiment_distribution"`
	Total        int         `json:"total_comments"`
	PositivePct  float64     `json:"positive_percentage"`
	NegativePct  float64     `json:"negative_percentage"`
	NeutralPct   float64     `json:"neutral_percentage"`
	Substituted  int         `json:"substituted_results"`
}

// Aggregate rolls up a scored batch. The mean is taken over the rounded
// per-record polarities of the detailed table, then rounded again to 3
// places; the overall label classifies that mean. Percentages are rounded
// to 1 place. An empty batch is an EmptyInputError.
func Aggregate(details []Detail) (Overall, error) {
	if len(details) == 0 {
		return Overall{}, &internalerr.EmptyInputError{Stage: "sentiment aggregate"}
	}

	var out Overall
	polarities := make([]float64, len(details))
	for i, d := range details {
		out.Distribution.Add(d.Label)
		polarities[i] = d.Polarity
		if d.Substituted {
			out.Substituted++
		}
	}

	mean := stat.Mean(polarities, nil)
	out.Total = len(details)
	out.Label = Classify(mean)
	out.MeanPolarity = Round(mean, DisplayPlaces)
	out.PositivePct = Percent(out.Distribution.Positive, out.Total)
	out.NegativePct = Percent(out.Distribution.Negative, out.Total)
	out.NeutralPct = Percent(out.Distribution.Neutral, out.Total)
	return out, nil
}

// SubstitutionRatio is the share of results that replaced a model failure.
func (o Overall) SubstitutionRatio() float64 {
	if o.Total == 0 {
		return 0
	}
	return float64(o.Substituted) / float64(o.Total)
}

// Percent returns count/total*100 rounded to 1 place, or 0 when total is 0.
func Percent(count, total int) float64 {
	if total == 0 {
		return 0
	}
	return Round(float64(count)/float64(total)*100, 1)
}
