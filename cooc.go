// Package cooc computes windowed, group-aware category co-occurrence
// features over long token sequences.
//
// Every token carries a category label (or none) and belongs to one group
// (a document). For each token it counts, per category, how many of the W
// preceding and W following tokens of the same group carry that category.
// The result is an N x 2K sparse count matrix: columns [0, K) hold the
// "earlier" counts and columns [K, 2K) the "later" counts.
//
//	v, _ := vocab.New([]string{"revenue", "debt", "growth"})
//	f, _ := cooc.Extract(tokens, groupIDs, v, 5)
//	fmt.Println(f.Count(42, sparse.Earlier, "debt"))
package cooc

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/happyhackingspace/cooc/internal/boundary"
	"github.com/happyhackingspace/cooc/internal/vectorizer"
	"github.com/happyhackingspace/cooc/internal/window"
	"github.com/happyhackingspace/cooc/sparse"
	"github.com/happyhackingspace/cooc/vocab"
)

// ExtractConfig holds configuration for extraction.
type ExtractConfig struct {
	// Window is the number of positions counted in each direction.
	Window int
	// Lowercase matches tokens against labels case-insensitively.
	Lowercase bool
	// Sequential computes the two directions one after another instead of
	// concurrently, halving peak working memory.
	Sequential bool
}

// Features is a terminal N x 2K windowed count matrix with the parameters
// that produced it.
type Features struct {
	Matrix    *sparse.Matrix
	Vocab     *vocab.Vocabulary
	Window    int
	Lowercase bool
	Groups    int
	RunID     string
	CreatedAt time.Time
}

// Extract computes windowed features with default settings.
func Extract(tokens, groupIDs []string, v *vocab.Vocabulary, window int) (*Features, error) {
	return ExtractWithConfig(tokens, groupIDs, v, &ExtractConfig{Window: window})
}

// ExtractWithConfig computes windowed features for tokens, where
// groupIDs[i] names the group of tokens[i]. Each group must occupy one
// contiguous run of positions.
func ExtractWithConfig(tokens, groupIDs []string, v *vocab.Vocabulary, config *ExtractConfig) (*Features, error) {
	if config == nil {
		return nil, fmt.Errorf("cooc: %w: missing config", ErrInvalidWindow)
	}
	if v == nil {
		return nil, fmt.Errorf("cooc: %w: missing vocabulary", ErrInvalidVocabulary)
	}
	n := len(tokens)
	if len(groupIDs) != n {
		return nil, fmt.Errorf("cooc: %w: %d tokens but %d group ids", ErrShapeMismatch, n, len(groupIDs))
	}
	if err := window.CheckWindow(config.Window, n); err != nil {
		return nil, fmt.Errorf("cooc: %w", err)
	}

	groups, err := boundary.New(groupIDs)
	if err != nil {
		return nil, fmt.Errorf("cooc: %w", err)
	}
	cv, err := vectorizer.NewCategoryVectorizer(v, config.Lowercase)
	if err != nil {
		return nil, fmt.Errorf("cooc: %w", err)
	}

	start := time.Now()
	indicator, err := cv.Transform(tokens)
	if err != nil {
		return nil, fmt.Errorf("cooc: encode: %w", err)
	}
	defer indicator.Release()
	slog.Info("Categories encoded",
		"tokens", n,
		"groups", groups.Count(),
		"categories", v.Size(),
		"indicators", indicator.Nnz(),
		"duration", time.Since(start))

	halves, err := accumulateBoth(indicator, groups, config)
	if err != nil {
		return nil, fmt.Errorf("cooc: %w", err)
	}

	matrix, err := sparse.HStack(halves...)
	for _, h := range halves {
		h.Release()
	}
	if err != nil {
		return nil, fmt.Errorf("cooc: assemble: %w", err)
	}
	slog.Info("Features assembled",
		"rows", matrix.Rows(),
		"cols", matrix.Cols(),
		"nnz", matrix.Nnz(),
		"size", humanize.IBytes(uint64(matrixBytes(matrix))),
		"duration", time.Since(start))

	return &Features{
		Matrix:    matrix,
		Vocab:     v,
		Window:    config.Window,
		Lowercase: config.Lowercase,
		Groups:    groups.Count(),
		RunID:     uuid.NewString(),
		CreatedAt: time.Now().UTC(),
	}, nil
}

// accumulateBoth runs the earlier and later accumulations, concurrently
// unless config asks for sequential execution. They share only the
// read-only indicator and group inputs.
func accumulateBoth(indicator *sparse.Matrix, groups *boundary.Groups, config *ExtractConfig) ([]*sparse.Matrix, error) {
	halves := make([]*sparse.Matrix, len(vectorizer.Directions))
	var g errgroup.Group
	if config.Sequential {
		g.SetLimit(1)
	}
	for i, dir := range vectorizer.Directions {
		g.Go(func() error {
			start := time.Now()
			m, err := window.Accumulate(indicator, groups, config.Window, dir)
			if err != nil {
				return err
			}
			halves[i] = m
			slog.Debug("Direction accumulated", "direction", dir, "nnz", m.Nnz(), "duration", time.Since(start))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		for _, h := range halves {
			if h != nil {
				h.Release()
			}
		}
		return nil, err
	}
	return halves, nil
}

// matrixBytes estimates the in-memory size of a CSR matrix.
func matrixBytes(m *sparse.Matrix) int {
	return (m.Rows()+1)*8 + m.Nnz()*8
}

// Columns returns the 2K column names in output order.
func (f *Features) Columns() []string {
	return vectorizer.FeatureNames(f.Vocab)
}

// Column returns the output column for label in the dir block, or -1 when
// the label is not in the vocabulary. Lowercase runs match label
// case-insensitively.
func (f *Features) Column(dir sparse.Direction, label string) int {
	id := vectorizer.LabelID(f.Vocab, label, f.Lowercase)
	if id < 0 {
		return -1
	}
	return vectorizer.Column(dir, id, f.Vocab.Size())
}

// Count returns how many tokens labelled label lie within the window of
// token i in dir.
func (f *Features) Count(i int, dir sparse.Direction, label string) int32 {
	col := f.Column(dir, label)
	if col < 0 {
		return 0
	}
	return f.Matrix.At(i, col)
}

// Rows returns the number of tokens.
func (f *Features) Rows() int {
	return f.Matrix.Rows()
}
