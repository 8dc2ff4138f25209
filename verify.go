package cooc

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"

	"github.com/happyhackingspace/cooc/internal/boundary"
	"github.com/happyhackingspace/cooc/internal/vectorizer"
	"github.com/happyhackingspace/cooc/internal/window"
	"github.com/happyhackingspace/cooc/sparse"
)

// maxReportedMismatches bounds VerifyResult.Mismatches.
const maxReportedMismatches = 20

// VerifyConfig holds configuration for Verify.
type VerifyConfig struct {
	// Samples is the number of (group, category) pairs checked.
	Samples int
	Seed    uint64
}

// Mismatch is a position where the stored count differs from a direct scan.
type Mismatch struct {
	Group     string           `json:"group"`
	Position  int              `json:"position"`
	Label     string           `json:"label"`
	Direction sparse.Direction `json:"direction"`
	Got       int32            `json:"got"`
	Want      int32            `json:"want"`
}

// VerifyResult reports the outcome of Verify.
type VerifyResult struct {
	Samples    int        `json:"samples"`
	Positions  int        `json:"positions"`
	Failed     int        `json:"failed"`
	Mismatches []Mismatch `json:"mismatches,omitempty"`
}

// OK reports whether every checked position matched.
func (r *VerifyResult) OK() bool {
	return r.Failed == 0
}

// Verify recomputes randomly sampled (group, category) columns of f by
// scanning each position's window directly and compares them with the
// stored counts. tokens and groupIDs must be the inputs f was built from.
func Verify(f *Features, tokens, groupIDs []string, config *VerifyConfig) (*VerifyResult, error) {
	if config == nil {
		return nil, errors.New("cooc: verify: missing config")
	}
	n := f.Matrix.Rows()
	if len(tokens) != n || len(groupIDs) != n {
		return nil, fmt.Errorf("cooc: verify: %w: %d rows, %d tokens, %d group ids",
			ErrShapeMismatch, n, len(tokens), len(groupIDs))
	}
	k := f.Vocab.Size()
	if f.Matrix.Cols() != 2*k {
		return nil, fmt.Errorf("cooc: verify: %w: %d columns for %d categories",
			ErrShapeMismatch, f.Matrix.Cols(), k)
	}
	groups, err := boundary.New(groupIDs)
	if err != nil {
		return nil, fmt.Errorf("cooc: verify: %w", err)
	}
	cv, err := vectorizer.NewCategoryVectorizer(f.Vocab, f.Lowercase)
	if err != nil {
		return nil, fmt.Errorf("cooc: verify: %w", err)
	}
	codes := cv.Codes(tokens)

	rng := rand.New(rand.NewPCG(config.Seed, config.Seed^0x9e3779b97f4a7c15))
	res := &VerifyResult{}
	if groups.Count() == 0 {
		slog.Info("Verification skipped", "reason", "no rows")
		return res, nil
	}
	for range config.Samples {
		g := rng.IntN(groups.Count())
		c := int32(rng.IntN(k))
		lo, hi := groups.Span(g)
		for _, dir := range vectorizer.Directions {
			col := vectorizer.Column(dir, int(c), k)
			want := window.DirectGroup(codes, lo, hi, f.Window, dir, c)
			for off, w := range want {
				got := f.Matrix.At(lo+off, col)
				if got == w {
					continue
				}
				res.Failed++
				if len(res.Mismatches) < maxReportedMismatches {
					res.Mismatches = append(res.Mismatches, Mismatch{
						Group:     groups.Name(g),
						Position:  lo + off,
						Label:     f.Vocab.Label(int(c)),
						Direction: dir,
						Got:       got,
						Want:      w,
					})
				}
			}
			res.Positions += hi - lo
		}
		res.Samples++
	}

	slog.Info("Verification finished", "samples", res.Samples, "positions", res.Positions, "failed", res.Failed)
	return res, nil
}
