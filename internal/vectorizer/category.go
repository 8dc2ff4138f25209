// Package vectorizer turns token label sequences into sparse category
// indicator matrices and names the columns of windowed feature matrices.
package vectorizer

import (
	"fmt"

	"github.com/happyhackingspace/cooc/internal/textutil"
	"github.com/happyhackingspace/cooc/sparse"
	"github.com/happyhackingspace/cooc/vocab"
)

// CategoryVectorizer maps tokens to one-hot category indicators against a
// fixed vocabulary. Tokens outside the vocabulary get an all-zero row.
type CategoryVectorizer struct {
	Vocab     *vocab.Vocabulary
	Lowercase bool

	lookup map[string]int32
}

// NewCategoryVectorizer creates a vectorizer for v. With lowercase set, both
// vocabulary labels and tokens are normalized before matching; labels that
// collide after normalization are rejected.
func NewCategoryVectorizer(v *vocab.Vocabulary, lowercase bool) (*CategoryVectorizer, error) {
	cv := &CategoryVectorizer{
		Vocab:     v,
		Lowercase: lowercase,
		lookup:    make(map[string]int32, v.Size()),
	}
	for id, label := range v.Labels() {
		key := cv.normalize(label)
		if prev, ok := cv.lookup[key]; ok {
			return nil, fmt.Errorf("%w: labels %q and %q collide as %q",
				vocab.ErrInvalidVocabulary, v.Label(int(prev)), label, key)
		}
		cv.lookup[key] = int32(id)
	}
	return cv, nil
}

func (cv *CategoryVectorizer) normalize(s string) string {
	if cv.Lowercase {
		return textutil.Normalize(s)
	}
	return s
}

// LabelID returns the id of label in v, or -1. With lowercase set, an exact
// miss falls back to comparing normalized labels.
func LabelID(v *vocab.Vocabulary, label string, lowercase bool) int {
	if id := v.Get(label); id >= 0 || !lowercase {
		return id
	}
	key := textutil.Normalize(label)
	for id, l := range v.Labels() {
		if textutil.Normalize(l) == key {
			return id
		}
	}
	return -1
}

// Codes returns the column id of each token, or -1 for unknown tokens.
func (cv *CategoryVectorizer) Codes(tokens []string) []int32 {
	codes := make([]int32, len(tokens))
	for i, tok := range tokens {
		if id, ok := cv.lookup[cv.normalize(tok)]; ok {
			codes[i] = id
		} else {
			codes[i] = -1
		}
	}
	return codes
}

// Transform converts a token sequence to an N x K indicator matrix.
func (cv *CategoryVectorizer) Transform(tokens []string) (*sparse.Matrix, error) {
	return Indicator(cv.Codes(tokens), cv.Vocab.Size())
}

// VocabSize returns the vocabulary size.
func (cv *CategoryVectorizer) VocabSize() int {
	return cv.Vocab.Size()
}

// Indicator builds the N x k indicator matrix for per-token category codes.
// Negative codes produce empty rows. Each row holds at most one entry, so the
// CSR arrays are written directly in one pass.
func Indicator(codes []int32, k int) (*sparse.Matrix, error) {
	n := len(codes)
	nnz := 0
	for _, c := range codes {
		if c >= 0 {
			nnz++
		}
	}
	indptr := make([]int, n+1)
	indices := make([]int32, 0, nnz)
	data := make([]int32, 0, nnz)
	for i, c := range codes {
		if c >= 0 {
			indices = append(indices, c)
			data = append(data, 1)
		}
		indptr[i+1] = len(indices)
	}
	return sparse.NewCSR(n, k, indptr, indices, data)
}
