// Package vocab holds the fixed, ordered category vocabulary that defines
// the column order of every feature matrix.
package vocab

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrInvalidVocabulary reports an empty vocabulary, an empty label or a
// duplicate label.
var ErrInvalidVocabulary = errors.New("invalid vocabulary")

// Vocabulary maps between category labels and column ids. It is immutable.
type Vocabulary struct {
	labels []string
	index  map[string]int
}

// New builds a vocabulary from labels in column order.
func New(labels []string) (*Vocabulary, error) {
	if len(labels) == 0 {
		return nil, fmt.Errorf("%w: no labels", ErrInvalidVocabulary)
	}
	v := &Vocabulary{
		labels: make([]string, len(labels)),
		index:  make(map[string]int, len(labels)),
	}
	for i, label := range labels {
		if label == "" {
			return nil, fmt.Errorf("%w: empty label at position %d", ErrInvalidVocabulary, i)
		}
		if prev, ok := v.index[label]; ok {
			return nil, fmt.Errorf("%w: duplicate label %q at positions %d and %d", ErrInvalidVocabulary, label, prev, i)
		}
		v.index[label] = i
		v.labels[i] = label
	}
	return v, nil
}

// MustNew is like New but panics on error. Intended for tests and fixed tables.
func MustNew(labels ...string) *Vocabulary {
	v, err := New(labels)
	if err != nil {
		panic(err)
	}
	return v
}

// Get returns the column id for a label, or -1 if not found.
func (v *Vocabulary) Get(label string) int {
	if id, ok := v.index[label]; ok {
		return id
	}
	return -1
}

// Label returns the label of column id.
func (v *Vocabulary) Label(id int) string {
	return v.labels[id]
}

// Size returns the number of labels (K).
func (v *Vocabulary) Size() int {
	return len(v.labels)
}

// Labels returns a copy of the labels in column order.
func (v *Vocabulary) Labels() []string {
	return append([]string(nil), v.labels...)
}

// Equal reports whether both vocabularies hold the same labels in the same order.
func (v *Vocabulary) Equal(other *Vocabulary) bool {
	if v.Size() != other.Size() {
		return false
	}
	for i, label := range v.labels {
		if other.labels[i] != label {
			return false
		}
	}
	return true
}

// MarshalJSON implements json.Marshaler as a JSON array of labels.
func (v *Vocabulary) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.labels)
}

// UnmarshalJSON implements json.Unmarshaler.
func (v *Vocabulary) UnmarshalJSON(data []byte) error {
	var labels []string
	if err := json.Unmarshal(data, &labels); err != nil {
		return err
	}
	parsed, err := New(labels)
	if err != nil {
		return err
	}
	*v = *parsed
	return nil
}

// Load reads a vocabulary file. Files ending in .json hold a JSON array of
// labels; anything else is read as one label per line, skipping blank lines
// and lines starting with '#'.
func Load(path string) (*Vocabulary, error) {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		var v Vocabulary
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, fmt.Errorf("vocab %s: %w", path, err)
		}
		return &v, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	var labels []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		labels = append(labels, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("vocab %s: %w", path, err)
	}
	v, err := New(labels)
	if err != nil {
		return nil, fmt.Errorf("vocab %s: %w", path, err)
	}
	return v, nil
}

// lineSafe reports whether label reads back unchanged from the line format.
func lineSafe(label string) bool {
	return label == strings.TrimSpace(label) &&
		!strings.HasPrefix(label, "#") &&
		!strings.ContainsAny(label, "\r\n")
}

// Save writes the vocabulary as one label per line, or as a JSON array when
// path ends in .json. Labels the line format cannot hold (surrounding
// whitespace, a leading '#', line breaks) are rejected; save those as JSON.
func (v *Vocabulary) Save(path string) error {
	var data []byte
	if strings.EqualFold(filepath.Ext(path), ".json") {
		var err error
		data, err = json.MarshalIndent(v.labels, "", "  ")
		if err != nil {
			return err
		}
	} else {
		for _, label := range v.labels {
			if !lineSafe(label) {
				return fmt.Errorf("vocab %s: %w: label %q needs a .json file", path, ErrInvalidVocabulary, label)
			}
		}
		data = []byte(strings.Join(v.labels, "\n") + "\n")
	}
	return os.WriteFile(path, data, 0644)
}
