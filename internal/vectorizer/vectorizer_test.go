package vectorizer

import (
	"errors"
	"reflect"
	"testing"

	"github.com/happyhackingspace/cooc/sparse"
	"github.com/happyhackingspace/cooc/vocab"
)

func TestCategoryVectorizerCodes(t *testing.T) {
	cv, err := NewCategoryVectorizer(vocab.MustNew("debt", "revenue"), false)
	if err != nil {
		t.Fatal(err)
	}
	got := cv.Codes([]string{"revenue", "Debt", "debt", "", "other"})
	want := []int32{1, -1, 0, -1, -1}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Codes = %v, want %v", got, want)
	}
	if cv.VocabSize() != 2 {
		t.Errorf("VocabSize = %d, want 2", cv.VocabSize())
	}
}

func TestCategoryVectorizerLowercase(t *testing.T) {
	cv, err := NewCategoryVectorizer(vocab.MustNew("Debt", "revenue"), true)
	if err != nil {
		t.Fatal(err)
	}
	got := cv.Codes([]string{"DEBT", "Revenue", "debt"})
	if !reflect.DeepEqual(got, []int32{0, 1, 0}) {
		t.Errorf("Codes = %v", got)
	}

	_, err = NewCategoryVectorizer(vocab.MustNew("Debt", "debt"), true)
	if !errors.Is(err, vocab.ErrInvalidVocabulary) {
		t.Errorf("expected ErrInvalidVocabulary for colliding labels, got %v", err)
	}
}

func TestCategoryVectorizerTransform(t *testing.T) {
	cv, err := NewCategoryVectorizer(vocab.MustNew("a", "b", "c"), false)
	if err != nil {
		t.Fatal(err)
	}
	m, err := cv.Transform([]string{"b", "x", "c", "b"})
	if err != nil {
		t.Fatal(err)
	}
	if r, c := m.Shape(); r != 4 || c != 3 {
		t.Fatalf("shape = %dx%d, want 4x3", r, c)
	}
	if !reflect.DeepEqual(m.Indptr(), []int{0, 1, 1, 2, 3}) {
		t.Errorf("indptr = %v", m.Indptr())
	}
	if !reflect.DeepEqual(m.Indices(), []int32{1, 2, 1}) {
		t.Errorf("indices = %v", m.Indices())
	}
	for i := range m.Rows() {
		if m.RowNnz(i) > 1 {
			t.Errorf("row %d has %d entries", i, m.RowNnz(i))
		}
	}
}

func TestLabelID(t *testing.T) {
	v := vocab.MustNew("Debt", "revenue")
	tests := []struct {
		label     string
		lowercase bool
		want      int
	}{
		{"Debt", false, 0},
		{"debt", false, -1},
		{"DEBT", true, 0},
		{"Revenue", true, 1},
		{"growth", true, -1},
	}
	for _, tt := range tests {
		if got := LabelID(v, tt.label, tt.lowercase); got != tt.want {
			t.Errorf("LabelID(%q, %v) = %d, want %d", tt.label, tt.lowercase, got, tt.want)
		}
	}
}

func TestIndicatorRejectsOutOfRangeCode(t *testing.T) {
	if _, err := Indicator([]int32{0, 3}, 2); !errors.Is(err, sparse.ErrInvariant) {
		t.Errorf("expected ErrInvariant, got %v", err)
	}
}

func TestFeatureNames(t *testing.T) {
	got := FeatureNames(vocab.MustNew("x", "y"))
	want := []string{"earlier=x", "earlier=y", "later=x", "later=y"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("FeatureNames = %v, want %v", got, want)
	}
	for i, name := range got {
		dir, label, err := ParseFeatureName(name)
		if err != nil {
			t.Fatal(err)
		}
		id := map[string]int{"x": 0, "y": 1}[label]
		if Column(dir, id, 2) != i {
			t.Errorf("Column(%s, %s) = %d, want %d", dir, label, Column(dir, id, 2), i)
		}
	}
}

func TestParseFeatureNameErrors(t *testing.T) {
	for _, name := range []string{"earlier", "earlier=", "sideways=x"} {
		if _, _, err := ParseFeatureName(name); err == nil {
			t.Errorf("ParseFeatureName(%q) succeeded", name)
		}
	}
	dir, label, err := ParseFeatureName("later=a=b")
	if err != nil || dir != sparse.Later || label != "a=b" {
		t.Errorf("ParseFeatureName(later=a=b) = %v, %q, %v", dir, label, err)
	}
}

func TestFrequencyCounter(t *testing.T) {
	tokens := []string{"Debt", "rose", "the", "debt", "debt", "revenue", "2024", "revenue", "Debt"}
	groups := []string{"d1", "d1", "d1", "d1", "d2", "d2", "d2", "d3", "d3"}

	fc := NewFrequencyCounter(2, 0, true, EnglishStopWords())
	fc.MaxDigitRatio = 0.5
	fc.Fit(tokens, groups)
	if fc.Groups() != 3 {
		t.Errorf("Groups = %d, want 3", fc.Groups())
	}
	want := []TermCount{{"debt", 3}, {"revenue", 2}}
	if got := fc.Terms(); !reflect.DeepEqual(got, want) {
		t.Errorf("Terms = %v, want %v", got, want)
	}

	fc.MaxSize = 1
	v, err := fc.Vocabulary()
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(v.Labels(), []string{"debt"}) {
		t.Errorf("Vocabulary = %v", v.Labels())
	}
}

func TestFrequencyCounterKeepsCaseAndNumbers(t *testing.T) {
	fc := NewFrequencyCounter(0, 0, false, nil)
	fc.Fit([]string{"Debt", "debt", "2024"}, []string{"g", "g", "g"})
	want := []TermCount{{"2024", 1}, {"Debt", 1}, {"debt", 1}}
	if got := fc.Terms(); !reflect.DeepEqual(got, want) {
		t.Errorf("Terms = %v, want %v", got, want)
	}
}
