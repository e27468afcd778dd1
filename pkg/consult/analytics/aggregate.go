package analytics

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/cognicore/consult/pkg/consult/ingest"
	"github.com/cognicore/consult/pkg/consult/sentiment"
)

// Group is the sentiment rollup of all details sharing a key.
type Group struct {
	Key          string                `json:"key"`
	Count        int                   `json:"count"`
	MeanPolarity float64               `json:"avg_polarity"`
	Labels       sentiment.LabelCounts `json:"sentiments"`
}

// GroupBy partitions details by key and rolls up each partition. Groups are
// returned in order of first appearance. The mean is taken over the rounded
// polarities and rounded to 3 places.
func GroupBy(details []sentiment.Detail, key func(sentiment.Detail) string) []Group {
	var order []string
	members := make(map[string][]sentiment.Detail)
	for _, d := range details {
		k := key(d)
		if _, ok := members[k]; !ok {
			order = append(order, k)
		}
		members[k] = append(members[k], d)
	}

	groups := make([]Group, 0, len(order))
	for _, k := range order {
		groups = append(groups, rollup(k, members[k]))
	}
	return groups
}

func rollup(key string, details []sentiment.Detail) Group {
	g := Group{Key: key, Count: len(details)}
	if len(details) == 0 {
		return g
	}
	polarities := make([]float64, len(details))
	for i, d := range details {
		g.Labels.Add(d.Label)
		polarities[i] = d.Polarity
	}
	g.MeanPolarity = sentiment.Round(stat.Mean(polarities, nil), sentiment.DisplayPlaces)
	return g
}

// ByCategory groups details by category reference.
func ByCategory(details []sentiment.Detail) []Group {
	return GroupBy(details, func(d sentiment.Detail) string { return d.Category })
}

// BySubmitter groups details by submitter name.
func BySubmitter(details []sentiment.Detail) []Group {
	return GroupBy(details, func(d sentiment.Detail) string { return d.Submitter })
}

// BySubmitterType groups details by the submitter type of their names.
// Groups follow the buckets' priority order; empty types are omitted.
func BySubmitterType(details []sentiment.Detail, buckets Buckets) []Group {
	byType := GroupBy(details, func(d sentiment.Detail) string { return buckets.Classify(d.Submitter) })

	rank := make(map[string]int)
	for i, name := range buckets.Names() {
		rank[name] = i
	}
	sort.SliceStable(byType, func(i, j int) bool { return rank[byType[i].Key] < rank[byType[j].Key] })
	return byType
}

// CategoryCount is the number of records filed under a category.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// RankCategories counts records per category, most discussed first.
// Equal counts keep first-appearance order.
func RankCategories(records []ingest.CommentRecord) []CategoryCount {
	var out []CategoryCount
	index := make(map[string]int)
	for _, r := range records {
		i, ok := index[r.Category]
		if !ok {
			i = len(out)
			index[r.Category] = i
			out = append(out, CategoryCount{Category: r.Category})
		}
		out[i].Count++
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out
}
