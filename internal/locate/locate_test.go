// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package locate

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/pdiddy/texport/pkg/types"
)

const mainDoc = "\\documentclass{article}\n\\begin{document}\nHi\n\\end{document}\n"

func candidate(rel string, size int64, content string) types.CandidateFile {
	return types.CandidateFile{Path: "/root/" + rel, Rel: rel, Size: size, Content: content}
}

func TestLocate(t *testing.T) {
	tests := []struct {
		name       string
		candidates []types.CandidateFile
		wantRel    string
		wantOK     bool
	}{
		{
			name:       "no candidates",
			candidates: nil,
		},
		{
			name: "nothing qualifies",
			candidates: []types.CandidateFile{
				candidate("sections/intro.tex", 10, "\\section{Intro}"),
				candidate("preamble.tex", 10, "\\documentclass{article}"),
			},
		},
		{
			name: "priority name beats shallower and larger files",
			candidates: []types.CandidateFile{
				candidate("big.tex", 9000, mainDoc),
				candidate("deep/nested/Manuscript.TEX", 10, mainDoc),
			},
			wantRel: "deep/nested/Manuscript.TEX",
			wantOK:  true,
		},
		{
			name: "priority list order wins over candidate order",
			candidates: []types.CandidateFile{
				candidate("paper.tex", 10, mainDoc),
				candidate("main.tex", 10, mainDoc),
			},
			wantRel: "main.tex",
			wantOK:  true,
		},
		{
			name: "shared priority name prefers root file",
			candidates: []types.CandidateFile{
				candidate("backup/main.tex", 10, mainDoc),
				candidate("main.tex", 10, mainDoc),
			},
			wantRel: "main.tex",
			wantOK:  true,
		},
		{
			name: "shared priority name at equal depth prefers larger file",
			candidates: []types.CandidateFile{
				candidate("a/main.tex", 10, mainDoc),
				candidate("b/main.tex", 500, mainDoc),
			},
			wantRel: "b/main.tex",
			wantOK:  true,
		},
		{
			name: "priority name ignored when not qualifying",
			candidates: []types.CandidateFile{
				candidate("main.tex", 10, "\\input{body}"),
				candidate("article.tex", 10, mainDoc),
			},
			wantRel: "article.tex",
			wantOK:  true,
		},
		{
			name: "shallowest wins",
			candidates: []types.CandidateFile{
				candidate("a/b/deep.tex", 9000, mainDoc),
				candidate("a/shallow.tex", 10, mainDoc),
			},
			wantRel: "a/shallow.tex",
			wantOK:  true,
		},
		{
			name: "equal depth prefers larger file",
			candidates: []types.CandidateFile{
				candidate("small.tex", 10, mainDoc),
				candidate("large.tex", 500, mainDoc),
			},
			wantRel: "large.tex",
			wantOK:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Locate(tt.candidates, types.DefaultPriorityNames)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && got.Rel != tt.wantRel {
				t.Errorf("selected %q, want %q", got.Rel, tt.wantRel)
			}
		})
	}
}

func TestLessIsTotal(t *testing.T) {
	a := candidate("x.tex", 10, mainDoc)
	b := candidate("y.tex", 10, mainDoc)
	if !Less(a, b) || Less(b, a) {
		t.Error("equal depth and size should fall back to relative path order")
	}
	if Less(a, a) {
		t.Error("Less must be irreflexive")
	}
}

func TestDepth(t *testing.T) {
	tests := map[string]int{
		"main.tex":       1,
		"src/main.tex":   2,
		"a/b/c/main.tex": 4,
		"/leading/x.tex": 2,
	}
	for rel, want := range tests {
		if got := Depth(types.CandidateFile{Rel: rel}); got != want {
			t.Errorf("Depth(%q) = %d, want %d", rel, got, want)
		}
	}
}

func TestScan(t *testing.T) {
	root := t.TempDir()
	write := func(rel, content string) {
		t.Helper()
		p := filepath.Join(root, rel)
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	write("sections/intro.tex", "\\section{Intro}")
	write("ama.tex", mainDoc)
	write("old/ama_v1.tex", mainDoc+"% longer older draft kept for reference\n")

	got, err := Scan(root, types.DefaultPriorityNames)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if got.Rel != "ama.tex" {
		t.Errorf("selected %q, want ama.tex", got.Rel)
	}
	if got.Content != mainDoc {
		t.Error("content should be loaded")
	}
}

func TestScanSharedPriorityName(t *testing.T) {
	root := t.TempDir()
	for _, rel := range []string{"main.tex", "backup/main.tex"} {
		p := filepath.Join(root, rel)
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(mainDoc), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	got, err := Scan(root, types.DefaultPriorityNames)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if got.Rel != "main.tex" {
		t.Errorf("selected %q, want main.tex", got.Rel)
	}
}

func TestScanNotFound(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "notes.tex"), []byte("plain"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := Scan(root, types.DefaultPriorityNames)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}
