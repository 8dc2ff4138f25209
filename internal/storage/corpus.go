// Package storage loads token corpora for feature extraction, either from a
// data folder of indexed documents or from a group/token TSV stream.
package storage

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// Corpus is a token sequence with one group id per token.
type Corpus struct {
	Tokens    []string
	Groups    []string
	Documents int
}

// Len returns the number of tokens.
func (c *Corpus) Len() int {
	return len(c.Tokens)
}

// Append adds tokens belonging to group.
func (c *Corpus) Append(group string, tokens []string) {
	c.Tokens = append(c.Tokens, tokens...)
	for range tokens {
		c.Groups = append(c.Groups, group)
	}
}

// ReadTSV parses "group<TAB>token" lines. Blank lines and lines starting
// with '#' are skipped. Tokens must already be in group order.
func ReadTSV(r io.Reader) (*Corpus, error) {
	c := &Corpus{}
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	prev := ""
	for sc.Scan() {
		line++
		text := strings.TrimRight(sc.Text(), "\r")
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		group, token, ok := strings.Cut(text, "\t")
		if !ok {
			return nil, fmt.Errorf("line %d: missing tab separator", line)
		}
		if group == "" {
			return nil, fmt.Errorf("line %d: empty group id", line)
		}
		if group != prev || c.Len() == 0 {
			c.Documents++
			prev = group
		}
		c.Tokens = append(c.Tokens, token)
		c.Groups = append(c.Groups, group)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return c, nil
}

// ReadTSVFile opens path and parses it with ReadTSV.
func ReadTSVFile(path string) (*Corpus, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	c, err := ReadTSV(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}
