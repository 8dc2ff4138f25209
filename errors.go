package cooc

import (
	"errors"
	"io/fs"

	"github.com/happyhackingspace/cooc/internal/boundary"
	"github.com/happyhackingspace/cooc/internal/window"
	"github.com/happyhackingspace/cooc/sparse"
	"github.com/happyhackingspace/cooc/vocab"
)

// Errors returned by extraction. Wrapped errors match with errors.Is.
var (
	ErrShapeMismatch       = window.ErrShapeMismatch
	ErrInvalidWindow       = window.ErrInvalidWindow
	ErrInvalidVocabulary   = vocab.ErrInvalidVocabulary
	ErrStructuralInvariant = sparse.ErrInvariant
	ErrGroupingInvariant   = boundary.ErrNotContiguous
)

// Code is a stable, machine-readable error class.
type Code string

const (
	CodeOK           Code = "ok"
	CodeShape        Code = "shape_mismatch"
	CodeWindow       Code = "invalid_window"
	CodeVocabulary   Code = "invalid_vocabulary"
	CodeGrouping     Code = "grouping_invariant"
	CodeStructural   Code = "structural_invariant"
	CodeIO           Code = "io"
	CodeUnclassified Code = "unclassified"
)

// Classify maps err onto the class of the first sentinel it wraps.
// Vocabulary errors describe a malformed K dimension and so sit next to
// shape errors, but keep their own code.
func Classify(err error) Code {
	switch {
	case err == nil:
		return CodeOK
	case errors.Is(err, ErrShapeMismatch):
		return CodeShape
	case errors.Is(err, ErrInvalidWindow):
		return CodeWindow
	case errors.Is(err, ErrInvalidVocabulary):
		return CodeVocabulary
	case errors.Is(err, ErrGroupingInvariant):
		return CodeGrouping
	case errors.Is(err, ErrStructuralInvariant):
		return CodeStructural
	case errors.As(err, new(*fs.PathError)):
		return CodeIO
	default:
		return CodeUnclassified
	}
}

// ExitCode returns the process exit status for err.
func ExitCode(err error) int {
	switch Classify(err) {
	case CodeOK:
		return 0
	case CodeStructural, CodeIO, CodeUnclassified:
		return 1
	default:
		return 2
	}
}
