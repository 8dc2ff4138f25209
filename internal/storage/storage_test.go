package storage

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestGetDomain(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"http://example.org/page", "example"},
		{"https://foo.example.co.uk/path", "example"},
		{"http://www.google.com", "google"},
		{"example.org", "example"},
		{"http://localhost:8080/path", "localhost"},
	}
	for _, tt := range tests {
		got := GetDomain(tt.url)
		if got != tt.want {
			t.Errorf("GetDomain(%q) = %q, want %q", tt.url, got, tt.want)
		}
	}
}

func writeFolder(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

const testIndex = `{
  "b.txt": {"url": "https://news.example.org/b"},
  "a.txt": {"url": "http://other.com/a", "group": "q1"},
  "c.txt": {"url": "http://www.example.org/c", "group": "q1"},
  "dup.txt": {"url": "http://dup.net/"}
}`

func TestLoadCorpusByDocument(t *testing.T) {
	dir := writeFolder(t, map[string]string{
		"index.json": testIndex,
		"a.txt":      "debt rose",
		"b.txt":      "Revenue grew, debt fell",
		"c.txt":      "growth",
		"dup.txt":    "debt rose",
	})
	c, err := NewStorage(dir).LoadCorpus(DefaultIterOptions())
	if err != nil {
		t.Fatal(err)
	}
	wantTokens := []string{"debt", "rose", "Revenue", "grew", "debt", "fell", "growth"}
	wantGroups := []string{"a.txt", "a.txt", "b.txt", "b.txt", "b.txt", "b.txt", "c.txt"}
	if !reflect.DeepEqual(c.Tokens, wantTokens) {
		t.Errorf("tokens = %v, want %v", c.Tokens, wantTokens)
	}
	if !reflect.DeepEqual(c.Groups, wantGroups) {
		t.Errorf("groups = %v, want %v", c.Groups, wantGroups)
	}
	if c.Documents != 3 {
		t.Errorf("documents = %d, want 3", c.Documents)
	}
}

func TestLoadCorpusByDomain(t *testing.T) {
	dir := writeFolder(t, map[string]string{
		"index.json": testIndex,
		"a.txt":      "one",
		"b.txt":      "two",
		"c.txt":      "three",
		"dup.txt":    "four",
	})
	opts := DefaultIterOptions()
	opts.GroupBy = GroupByDomain
	c, err := NewStorage(dir).LoadCorpus(opts)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"dup", "example", "example", "other"}
	if !reflect.DeepEqual(c.Groups, want) {
		t.Errorf("groups = %v, want %v", c.Groups, want)
	}
	if !reflect.DeepEqual(c.Tokens, []string{"four", "two", "three", "one"}) {
		t.Errorf("tokens = %v", c.Tokens)
	}
}

func TestLoadCorpusByField(t *testing.T) {
	dir := writeFolder(t, map[string]string{
		"index.json": testIndex,
		"a.txt":      "one",
		"b.txt":      "two",
		"c.txt":      "three",
		"dup.txt":    "four",
	})
	opts := DefaultIterOptions()
	opts.GroupBy = GroupByField
	c, err := NewStorage(dir).LoadCorpus(opts)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"b.txt", "dup.txt", "q1", "q1"}
	if !reflect.DeepEqual(c.Groups, want) {
		t.Errorf("groups = %v, want %v", c.Groups, want)
	}
}

func TestLoadCorpusMissingDocument(t *testing.T) {
	dir := writeFolder(t, map[string]string{
		"index.json": `{"gone.txt": {"url": "http://a.com"}}`,
	})
	c, err := NewStorage(dir).LoadCorpus(DefaultIterOptions())
	if err != nil {
		t.Fatal(err)
	}
	if c.Len() != 0 {
		t.Errorf("expected empty corpus, got %d tokens", c.Len())
	}

	_, err = NewStorage(dir).LoadCorpus(IterOptions{GroupBy: GroupByDocument})
	if err == nil {
		t.Error("expected error for missing document")
	}
}

func TestGetCategories(t *testing.T) {
	dir := writeFolder(t, map[string]string{
		"config.json": `{"categories": ["debt", "revenue"]}`,
	})
	got, err := NewStorage(dir).GetCategories()
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, []string{"debt", "revenue"}) {
		t.Errorf("categories = %v", got)
	}
}

func TestReadTSV(t *testing.T) {
	input := "# group\ttoken\nd1\ta\nd1\tb\n\nd2\ta\nd2\t\n"
	c, err := ReadTSV(strings.NewReader(input))
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(c.Tokens, []string{"a", "b", "a", ""}) {
		t.Errorf("tokens = %q", c.Tokens)
	}
	if !reflect.DeepEqual(c.Groups, []string{"d1", "d1", "d2", "d2"}) {
		t.Errorf("groups = %v", c.Groups)
	}
	if c.Documents != 2 {
		t.Errorf("documents = %d, want 2", c.Documents)
	}
}

func TestReadTSVErrors(t *testing.T) {
	for _, input := range []string{"no-tab\n", "\ttoken\n"} {
		if _, err := ReadTSV(strings.NewReader(input)); err == nil {
			t.Errorf("expected error for %q", input)
		}
	}
}
