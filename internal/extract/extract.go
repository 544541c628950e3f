// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract isolates the document body of a LaTeX manuscript and pulls
// out its title and abstract. Extraction is pattern based; it does not parse
// LaTeX.
package extract

import (
	"regexp"
	"strings"

	"github.com/pdiddy/texport/pkg/types"
)

var (
	// titleRe matches the first \title{...} declaration. Nested braces are
	// not supported.
	titleRe = regexp.MustCompile(`\\title\{([^}]+)\}`)

	// abstractHeaderRe matches an Abstract section header that is directly
	// followed by a label, e.g. \section*{Abstract}\label{sec:abstract}.
	abstractHeaderRe = regexp.MustCompile(`(?i)\\section\*?\{Abstract\}\\label\{[^}]*\}`)

	// sectionRe finds the next section header after the abstract.
	sectionRe = regexp.MustCompile(`(?i)\\section`)
)

// Body returns the trimmed text between the first \begin{document} and the
// last \end{document}. It reports false when either marker is missing or the
// end marker does not come after the start marker.
func Body(text string) (string, bool) {
	begin := strings.Index(text, types.BeginDocument)
	end := strings.LastIndex(text, types.EndDocument)
	if begin == -1 || end == -1 || end <= begin {
		return "", false
	}
	return strings.TrimSpace(text[begin+len(types.BeginDocument) : end]), true
}

// Title returns the trimmed argument of the first \title{...} in text. A
// blank argument counts as no title.
func Title(text string) (string, bool) {
	m := titleRe.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	title := strings.TrimSpace(m[1])
	return title, title != ""
}

// Abstract finds the labelled Abstract section in body and returns its text
// together with the body with that section removed. The section runs up to
// the next \section or the end of the body. When no labelled Abstract
// section exists, Abstract returns the body unchanged and false. A labelled
// section with no text is still removed but reports false.
func Abstract(body string) (abstract, rest string, ok bool) {
	loc := abstractHeaderRe.FindStringIndex(body)
	if loc == nil {
		return "", body, false
	}

	end := len(body)
	if next := sectionRe.FindStringIndex(body[loc[1]:]); next != nil {
		end = loc[1] + next[0]
	}

	abstract = strings.TrimSpace(body[loc[1]:end])
	rest = strings.TrimSpace(body[:loc[0]] + body[end:])
	return abstract, rest, abstract != ""
}

// Metadata extracts the title from the full source text and the abstract
// from its body. It returns the metadata and the body with the abstract
// section removed.
func Metadata(source, body string) (types.Metadata, string) {
	var meta types.Metadata
	meta.Title, meta.HasTitle = Title(source)
	meta.Abstract, body, meta.HasAbstract = Abstract(body)
	return meta, body
}
