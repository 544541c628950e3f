// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the texport pipeline:
// candidate documents, extracted metadata, bibliography entries, the
// conversion report, and run configuration.
package types

import "strings"

// Markers recognized in LaTeX sources. They must match verbatim.
const (
	DocumentClassMarker = `\documentclass`
	BeginDocument       = `\begin{document}`
	EndDocument         = `\end{document}`
)

// CandidateFile is a .tex file found under a source or template root.
type CandidateFile struct {
	// Path is the file's location on disk.
	Path string `json:"path" yaml:"path"`

	// Rel is Path relative to the scanned root, using forward slashes.
	Rel string `json:"rel" yaml:"rel"`

	// Content is the file's text.
	Content string `json:"-" yaml:"-"`

	// Size is the file size in bytes.
	Size int64 `json:"size" yaml:"size"`
}

// Qualifies reports whether the file declares a document class and opens a
// document body. Only qualifying files can be selected as the main document.
func (c CandidateFile) Qualifies() bool {
	return strings.Contains(c.Content, DocumentClassMarker) &&
		strings.Contains(c.Content, BeginDocument)
}

// Metadata holds the title and abstract pulled from a source manuscript.
// Either may be absent, in which case the template's defaults stay in place.
type Metadata struct {
	Title       string `json:"title,omitempty" yaml:"title,omitempty"`
	HasTitle    bool   `json:"has_title" yaml:"has_title"`
	Abstract    string `json:"abstract,omitempty" yaml:"abstract,omitempty"`
	HasAbstract bool   `json:"has_abstract" yaml:"has_abstract"`
}

// BibEntry is one record from a .bib file, kept verbatim.
type BibEntry struct {
	// Key is the citation key (e.g. "smith2020").
	Key string `json:"key" yaml:"key"`

	// Raw is the trimmed entry text starting at '@'.
	Raw string `json:"raw" yaml:"raw"`

	// Source is the name of the file the entry came from.
	Source string `json:"source" yaml:"source"`
}
