// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package transform rewrites AMA-specific markup in a document body into
// its MDPI equivalent. Each rewrite is a Rule; Pipeline lists them in the
// order they must run.
package transform

import (
	"path"
	"regexp"
	"strings"

	"github.com/pdiddy/texport/pkg/types"
)

// Context carries the settings rules depend on.
type Context struct {
	// FiguresDir is the directory name images are relocated under.
	FiguresDir string
}

// Rule rewrites text and returns the new text plus any warnings. Rules are
// pure: the same input always yields the same output.
type Rule struct {
	Name  string
	Apply func(text string, ctx Context) (string, []string)
}

// Pipeline is the fixed rule order applied to every converted body.
var Pipeline = []Rule{
	{Name: "citations", Apply: NormalizeCitations},
	{Name: "biblatex", Apply: RemoveBiblatex},
	{Name: "artifacts", Apply: StripArtifacts},
	{Name: "images", Apply: FixImagePaths},
}

// Apply runs every rule of Pipeline over body in order, recording warnings
// on the report, and returns the transformed body.
func Apply(body string, ctx Context, report *types.Report) string {
	for _, rule := range Pipeline {
		var warns []string
		body, warns = rule.Apply(body, ctx)
		report.Warn(warns...)
	}
	return body
}

// Warnings emitted by the rules. The text is user facing and shows up in the
// conversion report.
const (
	WarnCiteAuthor        = `\citeauthor detected: the MDPI template may not support it without natbib.`
	WarnCiteYear          = `\citeyear detected: the MDPI template may not support it without natbib.`
	WarnPrintBibliography = `Removed \printbibliography (MDPI uses natbib, not biblatex).`
	WarnAddBibResource    = `Removed \addbibresource (MDPI uses natbib, not biblatex).`
)

var (
	citepRe = regexp.MustCompile(`\\citep\s*\{`)
	citetRe = regexp.MustCompile(`\\citet\s*\{`)

	printBibRe   = regexp.MustCompile(`\\printbibliography\s*(?:\[[^\]]*\])?\s*`)
	addBibRe     = regexp.MustCompile(`\\addbibresource\s*\{[^}]+\}\s*`)
	makeTitleRe  = regexp.MustCompile(`\\maketitle\s*`)
	includeGfxRe = regexp.MustCompile(`(\\includegraphics(?:\[[^\]]*\])?\{)([^}]+)(\})`)
)

// NormalizeCitations rewrites the natbib author-year commands \citep and
// \citet to \cite, keeping their arguments. \citeauthor and \citeyear are
// left in place and reported once each.
func NormalizeCitations(text string, _ Context) (string, []string) {
	text = citepRe.ReplaceAllLiteralString(text, `\cite{`)
	text = citetRe.ReplaceAllLiteralString(text, `\cite{`)

	var warns []string
	if strings.Contains(text, `\citeauthor`) {
		warns = append(warns, WarnCiteAuthor)
	}
	if strings.Contains(text, `\citeyear`) {
		warns = append(warns, WarnCiteYear)
	}
	return text, warns
}

// RemoveBiblatex deletes biblatex directives that conflict with the MDPI
// natbib setup. Each directive kind produces one warning when removed.
func RemoveBiblatex(text string, _ Context) (string, []string) {
	var warns []string
	if printBibRe.MatchString(text) {
		text = printBibRe.ReplaceAllLiteralString(text, "")
		warns = append(warns, WarnPrintBibliography)
	}
	if addBibRe.MatchString(text) {
		text = addBibRe.ReplaceAllLiteralString(text, "")
		warns = append(warns, WarnAddBibResource)
	}
	return text, warns
}

// StripArtifacts removes AMA commands that have no place in the MDPI body.
// The MDPI class renders the title itself, so \maketitle goes.
func StripArtifacts(text string, _ Context) (string, []string) {
	return makeTitleRe.ReplaceAllLiteralString(text, ""), nil
}

// FixImagePaths points every \includegraphics at the figures directory.
// Paths already under it are kept; any other path is reduced to its base
// name and prefixed with the figures directory. Applying it twice is the
// same as applying it once.
func FixImagePaths(text string, ctx Context) (string, []string) {
	dir := ctx.FiguresDir
	if dir == "" {
		dir = types.DefaultFiguresDir
	}
	out := includeGfxRe.ReplaceAllStringFunc(text, func(m string) string {
		sub := includeGfxRe.FindStringSubmatch(m)
		prefix, p, suffix := sub[1], strings.TrimSpace(sub[2]), sub[3]
		if strings.HasPrefix(p, dir+"/") || strings.HasPrefix(p, "./"+dir+"/") {
			return m
		}
		return prefix + dir + "/" + baseName(p) + suffix
	})
	return out, nil
}

// baseName returns the last element of a LaTeX path, accepting both slash
// styles since manuscripts authored on Windows use backslashes.
func baseName(p string) string {
	return path.Base(strings.ReplaceAll(p, `\`, "/"))
}
