// Package persist stores feature matrices on disk.
//
// A feature directory holds metadata.yaml plus one matrix file whose
// encoding is named by the metadata format field:
//
//	csr     features.csr   little-endian CSR arrays with a crc64 trailer
//	coo     features.tsv   one "row<TAB>col<TAB>value" line per entry
//	sqlite  features.db    tables columns(col, name) and features(row, col, value)
package persist

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/happyhackingspace/cooc/sparse"
)

const (
	metadataVersion = 1
	metadataFile    = "metadata.yaml"
)

// ErrCorrupt reports a feature file that fails its integrity checks.
var ErrCorrupt = errors.New("corrupt feature file")

// Format names a matrix encoding.
type Format string

const (
	FormatCSR    Format = "csr"
	FormatCOO    Format = "coo"
	FormatSQLite Format = "sqlite"
)

// Formats lists the supported encodings.
var Formats = []Format{FormatCSR, FormatCOO, FormatSQLite}

// File returns the matrix file name for f.
func (f Format) File() (string, error) {
	switch f {
	case FormatCSR:
		return "features.csr", nil
	case FormatCOO:
		return "features.tsv", nil
	case FormatSQLite:
		return "features.db", nil
	default:
		return "", fmt.Errorf("unknown format %q", string(f))
	}
}

// Metadata describes a stored feature matrix.
type Metadata struct {
	Version    int       `yaml:"version"`
	Format     Format    `yaml:"format"`
	Rows       int       `yaml:"rows"`
	Cols       int       `yaml:"cols"`
	Nnz        int       `yaml:"nnz"`
	Window     int       `yaml:"window"`
	Lowercase  bool      `yaml:"lowercase"`
	Groups     int       `yaml:"groups"`
	Vocabulary []string  `yaml:"vocabulary"`
	RunID      string    `yaml:"run_id"`
	CreatedAt  time.Time `yaml:"created_at"`
}

// Bundle is a matrix with its metadata and column names.
type Bundle struct {
	Meta    Metadata
	Columns []string
	Matrix  *sparse.Matrix
}

// Save writes b into dir using b.Meta.Format. Shape fields of the metadata
// are filled from the matrix.
func Save(dir string, b *Bundle) error {
	name, err := b.Meta.Format.File()
	if err != nil {
		return fmt.Errorf("persist: %w", err)
	}
	if b.Columns != nil && len(b.Columns) != b.Matrix.Cols() {
		return fmt.Errorf("persist: %d column names for %d columns", len(b.Columns), b.Matrix.Cols())
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("persist: create dir: %w", err)
	}

	path := filepath.Join(dir, name)
	switch b.Meta.Format {
	case FormatCSR:
		err = writeCSR(path, b.Matrix)
	case FormatCOO:
		err = writeCOO(path, b.Matrix)
	case FormatSQLite:
		err = writeSQLite(path, b.Matrix, b.Columns)
	}
	if err != nil {
		return fmt.Errorf("persist: write %s: %w", name, err)
	}

	meta := b.Meta
	meta.Version = metadataVersion
	meta.Rows, meta.Cols = b.Matrix.Shape()
	meta.Nnz = b.Matrix.Nnz()
	if err := saveMetadata(dir, &meta); err != nil {
		return fmt.Errorf("persist: %w", err)
	}
	b.Meta = meta
	return nil
}

// Load reads a bundle written by Save. Columns is only populated for
// formats that store names.
func Load(dir string) (*Bundle, error) {
	meta, err := loadMetadata(dir)
	if err != nil {
		return nil, fmt.Errorf("persist: %w", err)
	}
	if meta.Version != metadataVersion {
		return nil, fmt.Errorf("persist: unsupported metadata version %d", meta.Version)
	}
	name, err := meta.Format.File()
	if err != nil {
		return nil, fmt.Errorf("persist: %w", err)
	}

	path := filepath.Join(dir, name)
	b := &Bundle{Meta: *meta}
	switch meta.Format {
	case FormatCSR:
		b.Matrix, err = readCSR(path)
	case FormatCOO:
		b.Matrix, err = readCOO(path, meta.Rows, meta.Cols)
	case FormatSQLite:
		b.Matrix, b.Columns, err = readSQLite(path, meta.Rows, meta.Cols)
	}
	if err != nil {
		return nil, fmt.Errorf("persist: read %s: %w", name, err)
	}

	rows, cols := b.Matrix.Shape()
	if rows != meta.Rows || cols != meta.Cols || b.Matrix.Nnz() != meta.Nnz {
		return nil, fmt.Errorf("persist: %w: matrix %dx%d nnz %d, metadata %dx%d nnz %d",
			ErrCorrupt, rows, cols, b.Matrix.Nnz(), meta.Rows, meta.Cols, meta.Nnz)
	}
	return b, nil
}

func saveMetadata(dir string, meta *Metadata) error {
	data, err := yaml.Marshal(meta)
	if err != nil {
		return fmt.Errorf("marshal metadata: %w", err)
	}
	return writeFileAtomic(filepath.Join(dir, metadataFile), data)
}

func loadMetadata(dir string) (*Metadata, error) {
	data, err := os.ReadFile(filepath.Join(dir, metadataFile))
	if err != nil {
		return nil, fmt.Errorf("read metadata: %w", err)
	}
	var meta Metadata
	if err := yaml.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("parse metadata: %w", err)
	}
	return &meta, nil
}

// writeFileAtomic writes data to a temporary sibling and renames it over path.
func writeFileAtomic(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}
