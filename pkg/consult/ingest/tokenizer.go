package ingest

import (
	"strings"
	"unicode"

	"github.com/cognicore/consult/pkg/consult/stoplist"
)

// Default minimum lengths. Tokens must be strictly longer than MinLen.
const (
	DefaultMinLen = 3
	SummaryMinLen = 2
)

// Tokenizer handles text tokenization and normalization
type Tokenizer struct {
	stops  stoplist.Set
	minLen int
}

// NewTokenizer creates a tokenizer with the given stopword set that keeps
// tokens strictly longer than minLen. A negative minLen keeps every token.
func NewTokenizer(stops stoplist.Set, minLen int) *Tokenizer {
	return &Tokenizer{stops: stops, minLen: minLen}
}

// MinLen reports the length filter.
func (t *Tokenizer) MinLen() int { return t.minLen }

// Stops returns the stopword set.
func (t *Tokenizer) Stops() stoplist.Set { return t.stops }

// Tokenize lowercases text, drops every character that is neither an ASCII
// letter nor whitespace, splits on whitespace and filters stopwords and
// short tokens.
func (t *Tokenizer) Tokenize(text string) []string {
	var tokens []string
	for _, word := range strings.Fields(Clean(text)) {
		if t.keep(word) {
			tokens = append(tokens, word)
		}
	}
	return tokens
}

func (t *Tokenizer) keep(word string) bool {
	if len(word) <= t.minLen {
		return false
	}
	return !t.stops.IsStop(word)
}

// Clean lowercases text, removes characters outside [a-zA-Z] and whitespace,
// and collapses whitespace runs to single spaces.
func Clean(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	space := false
	for _, r := range text {
		switch {
		case r >= 'a' && r <= 'z':
			b.WriteRune(r)
			space = false
		case r >= 'A' && r <= 'Z':
			b.WriteRune(unicode.ToLower(r))
			space = false
		case unicode.IsSpace(r):
			if !space && b.Len() > 0 {
				b.WriteByte(' ')
			}
			space = true
		}
	}
	return strings.TrimRight(b.String(), " ")
}
