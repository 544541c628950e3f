// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package bibliography merges BibTeX files into a single reference list,
// keeping the first entry seen for every citation key.
package bibliography

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/pdiddy/texport/internal/files"
	"github.com/pdiddy/texport/pkg/types"
)

var (
	// entryStartRe marks a line that opens a new entry: @type{ or @type {.
	entryStartRe = regexp.MustCompile(`(?m)^@\w+\s*\{`)

	// keyRe captures the citation key of an entry: @type{ key ,
	keyRe = regexp.MustCompile(`^@\w+\s*\{\s*([^,\s]+)\s*,`)
)

// Source is one bibliography file to merge.
type Source struct {
	// Name identifies the file in warnings (usually its base name).
	Name string
	// Content is the file's text.
	Content string
}

// Result is the outcome of a merge.
type Result struct {
	// Entries are the retained entries in input order.
	Entries []types.BibEntry
	// Warnings lists skipped entries and duplicate keys.
	Warnings []string
}

// Split cuts BibTeX text into chunks, one per entry. A chunk boundary is a
// newline followed by a line that starts a new entry; text before the first
// entry (comments, @preamble lines without braces) stays in the first chunk.
func Split(text string) []string {
	var chunks []string
	start := 0
	for _, loc := range entryStartRe.FindAllStringIndex(text, -1) {
		if loc[0] == 0 {
			continue
		}
		chunks = append(chunks, text[start:loc[0]-1])
		start = loc[0]
	}
	return append(chunks, text[start:])
}

// Merge walks sources in order and keeps the first entry for each key.
// Chunks that do not start with '@' are ignored. An entry whose key cannot
// be read, or whose key was already kept, is skipped with a warning.
func Merge(sources []Source) Result {
	var res Result
	seen := make(map[string]bool)

	for _, src := range sources {
		for _, chunk := range Split(src.Content) {
			entry := strings.TrimSpace(chunk)
			if !strings.HasPrefix(entry, "@") {
				continue
			}
			m := keyRe.FindStringSubmatch(entry)
			if m == nil {
				res.Warnings = append(res.Warnings,
					fmt.Sprintf("Could not parse bib entry key (skipped): %s", src.Name))
				continue
			}
			key := strings.TrimSpace(m[1])
			if seen[key] {
				res.Warnings = append(res.Warnings,
					fmt.Sprintf("Duplicate bib key skipped: %s (from %s)", key, src.Name))
				continue
			}
			seen[key] = true
			res.Entries = append(res.Entries, types.BibEntry{Key: key, Raw: entry, Source: src.Name})
		}
	}
	return res
}

// Render joins entries with a blank line between them. Every entry ends in a
// newline.
func Render(entries []types.BibEntry) string {
	parts := make([]string, len(entries))
	for i, e := range entries {
		parts[i] = e.Raw + "\n"
	}
	return strings.Join(parts, "\n\n")
}

// MergeFiles reads the .bib files at paths, merges them, and writes the
// result to out. It reports whether a file was written: when no entry
// survives the merge nothing is written. Warnings are returned either way.
func MergeFiles(paths []string, out string) (bool, []string, error) {
	sources := make([]Source, 0, len(paths))
	for _, p := range paths {
		content, err := files.ReadText(p)
		if err != nil {
			return false, nil, fmt.Errorf("reading %s: %w", p, err)
		}
		sources = append(sources, Source{Name: filepath.Base(p), Content: content})
	}

	res := Merge(sources)
	if len(res.Entries) == 0 {
		return false, res.Warnings, nil
	}

	if err := files.WriteAtomic(out, []byte(Render(res.Entries))); err != nil {
		return false, res.Warnings, fmt.Errorf("writing %s: %w", out, err)
	}
	return true, res.Warnings, nil
}
