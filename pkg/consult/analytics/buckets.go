package analytics

import "strings"

// Submitter type names.
const (
	TypeLegal       = "Legal"
	TypeBusiness    = "Business"
	TypeGovernment  = "Government"
	TypeAssociation = "Association"
	TypeIndividual  = "Individual"
)

// Bucket is a submitter type and the name fragments that select it.
type Bucket struct {
	Name     string
	Keywords []string
}

// Buckets classifies submitter names into types. Buckets are tested in
// order; a name matching none falls into the fallback type.
type Buckets struct {
	order    []Bucket
	fallback string
}

// NewBuckets builds a classifier. Keywords are lowercased.
func NewBuckets(order []Bucket, fallback string) Buckets {
	out := make([]Bucket, len(order))
	for i, b := range order {
		kws := make([]string, 0, len(b.Keywords))
		for _, kw := range b.Keywords {
			if kw = strings.ToLower(strings.TrimSpace(kw)); kw != "" {
				kws = append(kws, kw)
			}
		}
		out[i] = Bucket{Name: b.Name, Keywords: kws}
	}
	return Buckets{order: out, fallback: fallback}
}

// DefaultBuckets is the fixed submitter-type classifier. Legal is tested
// before Business so "Acme Legal Partners" is Legal.
var DefaultBuckets = NewBuckets([]Bucket{
	{Name: TypeLegal, Keywords: []string{"firm", "legal", "lawyer"}},
	{Name: TypeBusiness, Keywords: []string{"business", "company", "ceo", "founder"}},
	{Name: TypeGovernment, Keywords: []string{"ministry", "government"}},
	{Name: TypeAssociation, Keywords: []string{"association", "chamber", "group", "org"}},
}, TypeIndividual)

// Classify returns the type of a submitter name by lowercase substring match.
func (b Buckets) Classify(name string) string {
	lower := strings.ToLower(name)
	for _, bucket := range b.order {
		for _, kw := range bucket.Keywords {
			if strings.Contains(lower, kw) {
				return bucket.Name
			}
		}
	}
	return b.fallback
}

// Names returns every type in priority order, the fallback last.
func (b Buckets) Names() []string {
	out := make([]string, 0, len(b.order)+1)
	for _, bucket := range b.order {
		out = append(out, bucket.Name)
	}
	return append(out, b.fallback)
}

// WithKeywords returns a copy where the named buckets use the given
// keywords. Unknown names are ignored; priority order never changes.
func (b Buckets) WithKeywords(overrides map[string][]string) Buckets {
	order := make([]Bucket, len(b.order))
	for i, bucket := range b.order {
		if kws, ok := overrides[bucket.Name]; ok {
			bucket = Bucket{Name: bucket.Name, Keywords: kws}
		}
		order[i] = bucket
	}
	return NewBuckets(order, b.fallback)
}
