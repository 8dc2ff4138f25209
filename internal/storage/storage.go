package storage

import (
	"crypto/md5"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/net/publicsuffix"

	"github.com/happyhackingspace/cooc/internal/textutil"
)

// Storage wraps a corpus data folder: config.json, index.json and one plain
// text file per document.
type Storage struct {
	Folder string
}

// NewStorage creates a Storage for the given data folder.
func NewStorage(folder string) *Storage {
	return &Storage{Folder: folder}
}

// configJSON is the structure of config.json.
type configJSON struct {
	Categories []string `json:"categories"`
}

// indexEntry represents a single entry in index.json.
type indexEntry struct {
	URL   string `json:"url"`
	Group string `json:"group,omitempty"`
}

// GetConfig reads the config file.
func (s *Storage) GetConfig() (*configJSON, error) {
	data, err := os.ReadFile(filepath.Join(s.Folder, "config.json"))
	if err != nil {
		return nil, err
	}
	var config configJSON
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("parse config.json: %w", err)
	}
	return &config, nil
}

// GetCategories returns the category labels listed in config.json.
func (s *Storage) GetCategories() ([]string, error) {
	config, err := s.GetConfig()
	if err != nil {
		return nil, err
	}
	return config.Categories, nil
}

// GetIndex reads the index file.
func (s *Storage) GetIndex() (map[string]indexEntry, error) {
	data, err := os.ReadFile(filepath.Join(s.Folder, "index.json"))
	if err != nil {
		return nil, err
	}
	var index map[string]indexEntry
	if err := json.Unmarshal(data, &index); err != nil {
		return nil, fmt.Errorf("parse index.json: %w", err)
	}
	return index, nil
}

// groupKey returns the group a document belongs to under opts.
func groupKey(path string, info indexEntry, by GroupBy) string {
	switch by {
	case GroupByDomain:
		if info.URL == "" {
			return path
		}
		return GetDomain(info.URL)
	case GroupByField:
		if info.Group == "" {
			return path
		}
		return info.Group
	default:
		return path
	}
}

// LoadCorpus reads every indexed document, tokenizes it and concatenates
// the tokens. Documents are ordered by group key then path, so each group
// occupies one contiguous run.
func (s *Storage) LoadCorpus(opts IterOptions) (*Corpus, error) {
	index, err := s.GetIndex()
	if err != nil {
		return nil, fmt.Errorf("get index: %w", err)
	}

	type pathInfo struct {
		path  string
		group string
	}
	sorted := make([]pathInfo, 0, len(index))
	for path, info := range index {
		sorted = append(sorted, pathInfo{path, groupKey(path, info, opts.GroupBy)})
	}
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].group != sorted[j].group {
			return sorted[i].group < sorted[j].group
		}
		return sorted[i].path < sorted[j].path
	})

	seen := make(map[[md5.Size]byte]bool)
	corpus := &Corpus{}
	for _, pi := range sorted {
		data, err := os.ReadFile(filepath.Join(s.Folder, pi.path))
		if err != nil {
			if opts.SkipMissing {
				slog.Warn("Cannot read document", "path", pi.path, "error", err)
				continue
			}
			return nil, fmt.Errorf("read document: %w", err)
		}

		// Deduplication by document content hash
		if opts.DropDuplicates {
			hash := md5.Sum(data)
			if seen[hash] {
				slog.Debug("Skipping duplicate document", "path", pi.path)
				continue
			}
			seen[hash] = true
		}

		tokens := textutil.Tokenize(string(data))
		if len(tokens) == 0 {
			slog.Debug("Skipping empty document", "path", pi.path)
			continue
		}
		corpus.Append(pi.group, tokens)
		corpus.Documents++
	}
	return corpus, nil
}

// GroupBy selects how documents are assigned to groups.
type GroupBy string

const (
	// GroupByDocument makes every document its own group.
	GroupByDocument GroupBy = "document"
	// GroupByDomain groups documents by the registrable domain of their URL.
	GroupByDomain GroupBy = "domain"
	// GroupByField uses the "group" field of index.json.
	GroupByField GroupBy = "field"
)

// IterOptions controls corpus loading behavior.
type IterOptions struct {
	GroupBy        GroupBy
	DropDuplicates bool
	SkipMissing    bool
}

// DefaultIterOptions returns the default options for loading a corpus.
func DefaultIterOptions() IterOptions {
	return IterOptions{
		GroupBy:        GroupByDocument,
		DropDuplicates: true,
		SkipMissing:    true,
	}
}

// GetDomain extracts the domain name from a URL.
func GetDomain(rawURL string) string {
	host := rawURL
	if idx := strings.Index(host, "://"); idx >= 0 {
		host = host[idx+3:]
	}
	if idx := strings.Index(host, "/"); idx >= 0 {
		host = host[:idx]
	}
	if idx := strings.Index(host, ":"); idx >= 0 {
		host = host[:idx]
	}

	domain, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return host
	}
	// "example.co.uk" -> "example"
	if idx := strings.Index(domain, "."); idx >= 0 {
		return domain[:idx]
	}
	return domain
}
