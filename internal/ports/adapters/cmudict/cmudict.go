// Package cmudict reads the CMU Pronouncing Dictionary text format.
//
// Both published layouts are accepted: the classic cmudict-0.7b file
// (uppercase headwords, ";;;" comments, two-space separator) and the
// cmudict.dict file (lowercase headwords, trailing "#" comments). Alternate
// pronunciations are marked "WORD(2)" and are kept in file order.
package cmudict

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
)

type Dict struct {
	entries map[string][]string
	words   []string
}

func Load(path string) (*Dict, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open cmudict: %w", err)
	}
	defer f.Close()
	d, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return d, nil
}

func Parse(r io.Reader) (*Dict, error) {
	d := &Dict{entries: make(map[string][]string)}
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	n := 0
	for sc.Scan() {
		n++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, ";;;") {
			continue
		}
		if i := strings.Index(line, "#"); i >= 0 {
			line = strings.TrimSpace(line[:i])
			if line == "" {
				continue
			}
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			return nil, fmt.Errorf("line %d: missing pronunciation", n)
		}
		d.add(headword(fields[0]), strings.Join(fields[1:], " "))
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scan cmudict: %w", err)
	}
	return d, nil
}

func (d *Dict) add(word, pron string) {
	if _, ok := d.entries[word]; !ok {
		d.words = append(d.words, word)
	}
	d.entries[word] = append(d.entries[word], pron)
}

// headword lowercases and drops the "(n)" variant suffix.
func headword(s string) string {
	if i := strings.IndexByte(s, '('); i > 0 && strings.HasSuffix(s, ")") {
		s = s[:i]
	}
	return strings.ToLower(s)
}

func (d *Dict) Pronunciations(_ context.Context, word string) ([]string, error) {
	return d.entries[strings.ToLower(word)], nil
}

func (d *Dict) Len() int { return len(d.words) }

// Each visits every headword in file order until fn returns an error.
func (d *Dict) Each(fn func(word string, prons []string) error) error {
	for _, w := range d.words {
		if err := fn(w, d.entries[w]); err != nil {
			return err
		}
	}
	return nil
}
