// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package transform

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pdiddy/texport/pkg/types"
)

var figs = Context{FiguresDir: "figures"}

func TestNormalizeCitations(t *testing.T) {
	tests := []struct {
		name      string
		in        string
		want      string
		wantWarns []string
	}{
		{
			name: "citep and citet rewritten",
			in:   `As shown \citep{foo} and by \citet{bar}.`,
			want: `As shown \cite{foo} and by \cite{bar}.`,
		},
		{
			name: "whitespace before brace",
			in:   `\citep  {a,b}`,
			want: `\cite{a,b}`,
		},
		{
			name: "already unified is a no-op",
			in:   `\cite{foo} \cite[p.~3]{bar}`,
			want: `\cite{foo} \cite[p.~3]{bar}`,
		},
		{
			name:      "unsupported commands flagged once each",
			in:        `\citeauthor{x} \citeauthor{y} \citeyear{z}`,
			want:      `\citeauthor{x} \citeauthor{y} \citeyear{z}`,
			wantWarns: []string{WarnCiteAuthor, WarnCiteYear},
		},
		{
			name: "citetitle untouched",
			in:   `\citetitle{k}`,
			want: `\citetitle{k}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, warns := NormalizeCitations(tt.in, figs)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantWarns, warns)

			again, _ := NormalizeCitations(got, figs)
			assert.Equal(t, got, again, "normalization must be idempotent")
		})
	}
}

func TestNormalizeCitationsOrderIndependent(t *testing.T) {
	a, _ := NormalizeCitations(`\citep{x}\citet{y}`, figs)
	b, _ := NormalizeCitations(`\citet{x}\citep{y}`, figs)
	assert.Equal(t, a, b)
}

func TestRemoveBiblatex(t *testing.T) {
	tests := []struct {
		name      string
		in        string
		want      string
		wantWarns []string
	}{
		{
			name: "nothing to remove",
			in:   "Text.",
			want: "Text.",
		},
		{
			name:      "printbibliography with options",
			in:        "End.\n\\printbibliography[heading=none]\n\\printbibliography\n",
			want:      "End.\n",
			wantWarns: []string{WarnPrintBibliography},
		},
		{
			name:      "addbibresource",
			in:        "\\addbibresource{refs.bib}\nBody",
			want:      "Body",
			wantWarns: []string{WarnAddBibResource},
		},
		{
			name:      "both kinds",
			in:        "\\addbibresource{a.bib}\\addbibresource{b.bib}x\\printbibliography",
			want:      "x",
			wantWarns: []string{WarnPrintBibliography, WarnAddBibResource},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, warns := RemoveBiblatex(tt.in, figs)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantWarns, warns)
		})
	}
}

func TestStripArtifacts(t *testing.T) {
	got, warns := StripArtifacts("\\maketitle\n\n\\section{Intro}", figs)
	assert.Equal(t, "\\section{Intro}", got)
	assert.Empty(t, warns)
}

func TestFixImagePaths(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "relative path reduced to basename",
			in:   `\includegraphics{img/plots/a.png}`,
			want: `\includegraphics{figures/a.png}`,
		},
		{
			name: "options preserved",
			in:   `\includegraphics[width=0.5\linewidth]{../shared/b.pdf}`,
			want: `\includegraphics[width=0.5\linewidth]{figures/b.pdf}`,
		},
		{
			name: "already in figures",
			in:   `\includegraphics{figures/sub/c.png}`,
			want: `\includegraphics{figures/sub/c.png}`,
		},
		{
			name: "dot slash figures kept",
			in:   `\includegraphics{./figures/d.eps}`,
			want: `\includegraphics{./figures/d.eps}`,
		},
		{
			name: "bare filename",
			in:   `\includegraphics{ e.jpg }`,
			want: `\includegraphics{figures/e.jpg}`,
		},
		{
			name: "several images",
			in:   "\\includegraphics{x/1.png}\n\\includegraphics[scale=2]{y/2.png}",
			want: "\\includegraphics{figures/1.png}\n\\includegraphics[scale=2]{figures/2.png}",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, warns := FixImagePaths(tt.in, figs)
			assert.Equal(t, tt.want, got)
			assert.Empty(t, warns)

			again, _ := FixImagePaths(got, figs)
			assert.Equal(t, got, again, "image path fixing must be idempotent")
		})
	}
}

func TestFixImagePathsCustomDir(t *testing.T) {
	got, _ := FixImagePaths(`\includegraphics{img/a.png}`, Context{FiguresDir: "art"})
	assert.Equal(t, `\includegraphics{art/a.png}`, got)
}

func TestApply(t *testing.T) {
	body := strings.Join([]string{
		`\maketitle`,
		`See \citep{foo} and \citet{bar}.`,
		`\includegraphics{img/a.png}`,
		`\printbibliography`,
	}, "\n")

	report := types.NewReport("test")
	got := Apply(body, figs, report)

	want := "See \\cite{foo} and \\cite{bar}.\n\\includegraphics{figures/a.png}\n"
	assert.Equal(t, want, got)
	assert.Equal(t, []string{WarnPrintBibliography}, report.Warnings)
}

func TestApplyCitationsOnly(t *testing.T) {
	report := types.NewReport("test")
	got := Apply(`Text \citep{foo} more \citet{bar} end.`, figs, report)
	assert.Equal(t, `Text \cite{foo} more \cite{bar} end.`, got)
	assert.Empty(t, report.Warnings)
}
