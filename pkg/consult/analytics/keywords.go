package analytics

import (
	"sort"

	"github.com/cognicore/consult/pkg/consult/ingest"
)

// Term is a token with its raw count and its weight relative to the most
// frequent token of the corpus.
type Term struct {
	Token  string  `json:"token"`
	Count  int     `json:"count"`
	Weight float64 `json:"weight"`
}

// Counter accumulates token counts in first-encountered order.
type Counter struct {
	order  []string
	counts map[string]int
}

// NewCounter creates an empty counter.
func NewCounter() *Counter {
	return &Counter{counts: make(map[string]int)}
}

// Add consumes one document's tokens.
func (c *Counter) Add(tokens []string) *Counter {
	for _, tok := range tokens {
		if tok == "" {
			continue
		}
		if _, ok := c.counts[tok]; !ok {
			c.order = append(c.order, tok)
		}
		c.counts[tok]++
	}
	return c
}

// Snapshot returns the normalized frequencies accumulated so far.
func (c *Counter) Snapshot() Frequencies {
	maxCount := 0
	for _, n := range c.counts {
		if n > maxCount {
			maxCount = n
		}
	}

	f := Frequencies{
		terms: make([]Term, len(c.order)),
		index: make(map[string]int, len(c.order)),
	}
	for i, tok := range c.order {
		n := c.counts[tok]
		f.terms[i] = Term{Token: tok, Count: n, Weight: float64(n) / float64(maxCount)}
		f.index[tok] = i
	}
	return f
}

// Frequencies is an ordered token→count/weight table. The zero value is an
// empty table.
type Frequencies struct {
	terms []Term
	index map[string]int
}

// Frequency counts tokens and normalizes by the maximum count.
func Frequency(tokens []string) Frequencies {
	return NewCounter().Add(tokens).Snapshot()
}

// Len returns the number of distinct tokens.
func (f Frequencies) Len() int { return len(f.terms) }

// Weight returns the normalized weight of a token, 0 when absent.
func (f Frequencies) Weight(token string) float64 {
	if i, ok := f.index[token]; ok {
		return f.terms[i].Weight
	}
	return 0
}

// Count returns the raw count of a token, 0 when absent.
func (f Frequencies) Count(token string) int {
	if i, ok := f.index[token]; ok {
		return f.terms[i].Count
	}
	return 0
}

// Terms returns every term in first-encountered order.
func (f Frequencies) Terms() []Term {
	out := make([]Term, len(f.terms))
	copy(out, f.terms)
	return out
}

// Top returns at most n terms by descending count. Equal counts keep
// first-encountered order. n <= 0 yields nothing.
func (f Frequencies) Top(n int) []Term {
	if n <= 0 {
		return nil
	}
	out := f.Terms()
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	if len(out) > n {
		out = out[:n]
	}
	return out
}

// Tokens returns the tokens of terms, in order.
func Tokens(terms []Term) []string {
	out := make([]string, len(terms))
	for i, t := range terms {
		out[i] = t.Token
	}
	return out
}

// Extractor computes keyword statistics with a fixed tokenizer.
type Extractor struct {
	tokenizer *ingest.Tokenizer
}

// NewExtractor creates an extractor.
func NewExtractor(tokenizer *ingest.Tokenizer) *Extractor {
	return &Extractor{tokenizer: tokenizer}
}

// Frequency tokenizes text and returns its normalized term frequencies.
func (e *Extractor) Frequency(text string) Frequencies {
	return Frequency(e.tokenizer.Tokenize(text))
}

// TopKeywords returns at most n (token, count) terms of text by descending
// count, ties in first-encountered order. Empty text yields nothing.
func (e *Extractor) TopKeywords(text string, n int) []Term {
	return e.Frequency(text).Top(n)
}

// Restricted counts only tokens present in allow and returns the top n.
// Tokens outside the allow-list never surface regardless of frequency.
func (e *Extractor) Restricted(text string, allow map[string]struct{}, n int) []Term {
	var kept []string
	for _, tok := range e.tokenizer.Tokenize(text) {
		if _, ok := allow[tok]; ok {
			kept = append(kept, tok)
		}
	}
	return Frequency(kept).Top(n)
}
