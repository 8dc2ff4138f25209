package cooc

import (
	"fmt"

	"github.com/happyhackingspace/cooc/internal/persist"
	"github.com/happyhackingspace/cooc/vocab"
)

// Save writes f into dir using format ("csr", "coo" or "sqlite").
func (f *Features) Save(dir, format string) error {
	b := &persist.Bundle{
		Meta: persist.Metadata{
			Format:     persist.Format(format),
			Window:     f.Window,
			Lowercase:  f.Lowercase,
			Groups:     f.Groups,
			Vocabulary: f.Vocab.Labels(),
			RunID:      f.RunID,
			CreatedAt:  f.CreatedAt,
		},
		Columns: f.Columns(),
		Matrix:  f.Matrix,
	}
	if err := persist.Save(dir, b); err != nil {
		return fmt.Errorf("cooc: save: %w", err)
	}
	return nil
}

// Load reads features previously written by Save.
func Load(dir string) (*Features, error) {
	b, err := persist.Load(dir)
	if err != nil {
		return nil, fmt.Errorf("cooc: load: %w", err)
	}
	v, err := vocab.New(b.Meta.Vocabulary)
	if err != nil {
		return nil, fmt.Errorf("cooc: load: %w", err)
	}
	if b.Matrix.Cols() != 2*v.Size() {
		return nil, fmt.Errorf("cooc: load: %w: %d columns for %d categories",
			ErrShapeMismatch, b.Matrix.Cols(), v.Size())
	}
	return &Features{
		Matrix:    b.Matrix,
		Vocab:     v,
		Window:    b.Meta.Window,
		Lowercase: b.Meta.Lowercase,
		Groups:    b.Meta.Groups,
		RunID:     b.Meta.RunID,
		CreatedAt: b.Meta.CreatedAt,
	}, nil
}
