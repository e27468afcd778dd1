package stoplist

import (
	"sort"
	"strings"
)

// Set is an immutable, case-insensitive stopword set.
type Set struct {
	name  string
	stops map[string]struct{}
}

// New builds a named set. Terms are lowercased and trimmed; blanks are dropped.
func New(name string, terms []string) Set {
	stops := make(map[string]struct{}, len(terms))
	for _, t := range terms {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		stops[t] = struct{}{}
	}
	return Set{name: name, stops: stops}
}

// Name returns the label the set was built with.
func (s Set) Name() string { return s.name }

// IsStop checks if a token is a stopword
func (s Set) IsStop(token string) bool {
	_, ok := s.stops[strings.ToLower(token)]
	return ok
}

// Len returns the number of stopwords.
func (s Set) Len() int { return len(s.stops) }

// All returns all stopwords in sorted order.
func (s Set) All() []string {
	result := make([]string, 0, len(s.stops))
	for t := range s.stops {
		result = append(result, t)
	}
	sort.Strings(result)
	return result
}

// With returns a new set holding the receiver's terms plus extra.
// The receiver is left untouched.
func (s Set) With(extra ...string) Set {
	terms := make([]string, 0, len(s.stops)+len(extra))
	for t := range s.stops {
		terms = append(terms, t)
	}
	return New(s.name, append(terms, extra...))
}

// Auxiliaries, articles and prepositions shared by every built-in set.
var core = []string{
	"the", "is", "at", "which", "on", "and", "a", "an", "in",
	"to", "for", "of", "with", "as", "by", "that", "this",
	"it", "from", "or", "but", "are", "was", "were", "be",
}

var modals = []string{
	"have", "has", "had", "do", "does", "did", "will", "would",
	"could", "should", "may", "might", "must", "can", "shall",
}

var pronouns = []string{
	"we", "our", "us", "them", "they", "their", "these", "those",
	"been", "being", "having", "more", "very", "some", "any",
}

// Built-in sets. Summary is the short list used when scoring sentences,
// Analysis adds auxiliaries and modals for keyword extraction, Cloud adds
// pronouns and quantifiers for word-cloud term weights.
var (
	Summary  = New("summary", core)
	Analysis = New("analysis", concat(core, modals))
	Cloud    = New("cloud", concat(core, modals, pronouns))
)

func concat(lists ...[]string) []string {
	var out []string
	for _, l := range lists {
		out = append(out, l...)
	}
	return out
}
