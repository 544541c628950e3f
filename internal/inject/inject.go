// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package inject splices a converted body into the MDPI template's main
// file and fills the template's title and abstract placeholders.
package inject

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/pdiddy/texport/pkg/types"
)

// ErrTemplateStructure is returned when the template's document markers are
// missing or out of order.
var ErrTemplateStructure = errors.New("template main file has malformed document structure")

var (
	// Markers must start a line so commented-out copies are ignored.
	beginRe = regexp.MustCompile(`(?m)^\\begin\{document\}`)
	endRe   = regexp.MustCompile(`(?m)^\\end\{document\}`)

	titlePlaceholderRe    = regexp.MustCompile(`\\Title\{[^}]*\}`)
	abstractPlaceholderRe = regexp.MustCompile(`(?s)\\abstract\{[^}]*?\}`)
)

// Result is an assembled MDPI document.
type Result struct {
	Text     string
	Warnings []string
}

// Inject assembles the final document from the template text and the
// converted body. The preamble keeps everything up to \begin{document}, with
// the title and abstract placeholders replaced when meta provides them; the
// postamble keeps everything from \end{document} on. If the body has no
// bibliography of its own, a \bibliography directive pointing at bibName is
// inserted before the final \end{document} and a warning is returned.
func Inject(template, body string, meta types.Metadata, bibName string) (Result, error) {
	begin := beginRe.FindStringIndex(template)
	end := endRe.FindStringIndex(template)
	if begin == nil || end == nil {
		return Result{}, fmt.Errorf("locating begin/end document: %w", ErrTemplateStructure)
	}
	if end[0] <= begin[1] {
		return Result{}, fmt.Errorf("end document precedes begin document: %w", ErrTemplateStructure)
	}

	pre := template[:begin[1]]
	post := template[end[0]:]

	if meta.HasTitle {
		pre = replaceFirst(titlePlaceholderRe, pre, `\Title{`+meta.Title+`}`)
	}
	if meta.HasAbstract {
		pre = replaceFirst(abstractPlaceholderRe, pre, `\abstract{`+meta.Abstract+`}`)
	}

	final := pre + "\n\n" + body + "\n\n" + post

	var res Result
	if !HasBibliography(body) {
		if i := strings.LastIndex(final, types.EndDocument); i != -1 {
			directive := DefaultDirective(bibName)
			final = final[:i] + directive + "\n\n" + final[i:]
			res.Warnings = append(res.Warnings,
				fmt.Sprintf(`No bibliography directive found; added %s before \end{document}.`, directive))
		}
	}
	res.Text = final
	return res, nil
}

// HasBibliography reports whether body already includes a bibliography,
// either through \bibliography{...} or a thebibliography environment.
func HasBibliography(body string) bool {
	return strings.Contains(body, `\bibliography{`) ||
		strings.Contains(body, `\begin{thebibliography}`)
}

// DefaultDirective returns the \bibliography directive for a merged
// bibliography file name, e.g. refs.bib -> \bibliography{refs}.
func DefaultDirective(bibName string) string {
	if bibName == "" {
		bibName = types.DefaultBibName
	}
	base := strings.TrimSuffix(filepath.Base(bibName), filepath.Ext(bibName))
	return `\bibliography{` + base + `}`
}

// replaceFirst substitutes the first match of re in s with repl, inserted
// literally so backslashes in titles and abstracts survive unchanged.
func replaceFirst(re *regexp.Regexp, s, repl string) string {
	loc := re.FindStringIndex(s)
	if loc == nil {
		return s
	}
	return s[:loc[0]] + repl + s[loc[1]:]
}
