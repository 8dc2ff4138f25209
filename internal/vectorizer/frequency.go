package vectorizer

import (
	"cmp"
	"slices"

	"github.com/happyhackingspace/cooc/internal/textutil"
	"github.com/happyhackingspace/cooc/vocab"
)

// TermCount is a token with the number of groups it occurs in.
type TermCount struct {
	Term string `json:"term"`
	DF   int    `json:"df"`
}

// FrequencyCounter selects a category vocabulary from a corpus by group
// (document) frequency.
type FrequencyCounter struct {
	MinDF     int
	MaxSize   int // 0 keeps every term
	Lowercase bool
	StopWords map[string]bool
	// Tokens whose digit ratio reaches MaxDigitRatio are ignored; 0 disables.
	MaxDigitRatio float64

	df     map[string]int
	groups int
}

// NewFrequencyCounter creates a FrequencyCounter.
func NewFrequencyCounter(minDF, maxSize int, lowercase bool, stopWords map[string]bool) *FrequencyCounter {
	if minDF < 1 {
		minDF = 1
	}
	return &FrequencyCounter{
		MinDF:     minDF,
		MaxSize:   maxSize,
		Lowercase: lowercase,
		StopWords: stopWords,
		df:        make(map[string]int),
	}
}

func (fc *FrequencyCounter) term(token string) (string, bool) {
	if fc.Lowercase {
		token = textutil.Normalize(token)
	}
	if token == "" || fc.StopWords[token] {
		return "", false
	}
	if fc.MaxDigitRatio > 0 && textutil.DigitRatio(token) >= fc.MaxDigitRatio {
		return "", false
	}
	return token, true
}

// Fit counts document frequencies. groups[i] is the group of tokens[i]; a
// term is counted once per contiguous group run.
func (fc *FrequencyCounter) Fit(tokens, groups []string) {
	seen := make(map[string]bool)
	for i, tok := range tokens {
		if i == 0 || groups[i] != groups[i-1] {
			clear(seen)
			fc.groups++
		}
		term, ok := fc.term(tok)
		if !ok || seen[term] {
			continue
		}
		seen[term] = true
		fc.df[term]++
	}
}

// Groups returns the number of groups seen by Fit.
func (fc *FrequencyCounter) Groups() int {
	return fc.groups
}

// Terms returns the terms with at least MinDF occurrences, most frequent
// first and ties broken alphabetically, truncated to MaxSize.
func (fc *FrequencyCounter) Terms() []TermCount {
	terms := make([]TermCount, 0, len(fc.df))
	for term, count := range fc.df {
		if count >= fc.MinDF {
			terms = append(terms, TermCount{Term: term, DF: count})
		}
	}
	slices.SortFunc(terms, func(a, b TermCount) int {
		if c := cmp.Compare(b.DF, a.DF); c != 0 {
			return c
		}
		return cmp.Compare(a.Term, b.Term)
	})
	if fc.MaxSize > 0 && len(terms) > fc.MaxSize {
		terms = terms[:fc.MaxSize]
	}
	return terms
}

// Vocabulary returns the selected terms as a vocabulary.
func (fc *FrequencyCounter) Vocabulary() (*vocab.Vocabulary, error) {
	terms := fc.Terms()
	labels := make([]string, len(terms))
	for i, t := range terms {
		labels[i] = t.Term
	}
	return vocab.New(labels)
}
