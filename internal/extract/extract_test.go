package extract

import (
	"testing"
)

func TestBody(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		want   string
		wantOK bool
	}{
		{
			name:   "well formed",
			text:   "\\documentclass{ama}\n\\begin{document}\n  Hello world.\n\\end{document}\n",
			want:   "Hello world.",
			wantOK: true,
		},
		{
			name:   "uses first begin and last end",
			text:   "\\begin{document}A\\end{document}B\\begin{document}C\\end{document}",
			want:   "A\\end{document}B\\begin{document}C",
			wantOK: true,
		},
		{
			name: "missing begin",
			text: "text\\end{document}",
		},
		{
			name: "missing end",
			text: "\\begin{document} text",
		},
		{
			name: "inverted markers",
			text: "\\end{document} x \\begin{document}",
		},
		{
			name:   "empty body",
			text:   "\\begin{document}\n\n\\end{document}",
			want:   "",
			wantOK: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Body(tt.text)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if got != tt.want {
				t.Errorf("body = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTitle(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		want   string
		wantOK bool
	}{
		{"simple", `\title{  Example Paper }`, "Example Paper", true},
		{"first match wins", `\title{One}\title{Two}`, "One", true},
		{"missing", `\author{Someone}`, "", false},
		{"empty argument", `\title{}`, "", false},
		{"blank argument", "\\title{   }", "", false},
		{"blank argument before real title", "\\title{ \t }\\title{Two}", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Title(tt.text)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("Title() = (%q, %v), want (%q, %v)", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestAbstract(t *testing.T) {
	tests := []struct {
		name         string
		body         string
		wantAbstract string
		wantRest     string
		wantOK       bool
	}{
		{
			name:         "labelled abstract before introduction",
			body:         "\\section*{Abstract}\\label{sec:abs}\nWe study things.\n\nTwo paragraphs.\n\\section{Introduction}\nIntro text.",
			wantAbstract: "We study things.\n\nTwo paragraphs.",
			wantRest:     "\\section{Introduction}\nIntro text.",
			wantOK:       true,
		},
		{
			name:         "case insensitive unstarred header",
			body:         "Lead.\n\\section{ABSTRACT}\\label{a}\nShort.\n\\section{Methods}\nM.",
			wantAbstract: "Short.",
			wantRest:     "Lead.\n\\section{Methods}\nM.",
			wantOK:       true,
		},
		{
			name:         "abstract runs to end of body",
			body:         "\\section{Intro}\nI.\n\\section{Abstract}\\label{x}\nFinal words.",
			wantAbstract: "Final words.",
			wantRest:     "\\section{Intro}\nI.",
			wantOK:       true,
		},
		{
			name:     "header without label is not an abstract",
			body:     "\\section*{Abstract}\nText.\n\\section{Intro}",
			wantRest: "\\section*{Abstract}\nText.\n\\section{Intro}",
		},
		{
			name:     "no abstract",
			body:     "  \\section{Intro}\nText.  ",
			wantRest: "  \\section{Intro}\nText.  ",
		},
		{
			name:     "blank abstract is removed but not reported",
			body:     "\\section*{Abstract}\\label{abs}\n   \n\\section{Intro}\nI.",
			wantRest: "\\section{Intro}\nI.",
		},
		{
			name:         "only first abstract removed",
			body:         "\\section{Abstract}\\label{a}\nA1\n\\section{Abstract}\\label{b}\nA2",
			wantAbstract: "A1",
			wantRest:     "\\section{Abstract}\\label{b}\nA2",
			wantOK:       true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			abs, rest, ok := Abstract(tt.body)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if abs != tt.wantAbstract {
				t.Errorf("abstract = %q, want %q", abs, tt.wantAbstract)
			}
			if rest != tt.wantRest {
				t.Errorf("rest = %q, want %q", rest, tt.wantRest)
			}
		})
	}
}

func TestMetadataBlankTitle(t *testing.T) {
	meta, _ := Metadata("\\title{  }\n\\begin{document}\n\\end{document}", "Body.")
	if meta.HasTitle || meta.Title != "" {
		t.Errorf("title = (%q, %v), want absent", meta.Title, meta.HasTitle)
	}
}

func TestMetadata(t *testing.T) {
	source := "\\documentclass{ama}\n\\title{Example Paper}\n\\begin{document}\n...\n\\end{document}"
	body := "\\section*{Abstract}\\label{abs}\nShort abstract.\n\\section{Intro}\nBody."

	meta, rest := Metadata(source, body)
	if !meta.HasTitle || meta.Title != "Example Paper" {
		t.Errorf("title = (%q, %v)", meta.Title, meta.HasTitle)
	}
	if !meta.HasAbstract || meta.Abstract != "Short abstract." {
		t.Errorf("abstract = (%q, %v)", meta.Abstract, meta.HasAbstract)
	}
	if rest != "\\section{Intro}\nBody." {
		t.Errorf("rest = %q", rest)
	}
}
