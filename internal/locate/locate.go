// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package locate selects the main document among the .tex files of a
// manuscript or template tree.
package locate

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pdiddy/texport/internal/files"
	"github.com/pdiddy/texport/pkg/types"
)

// ErrNotFound is returned when no file in a tree qualifies as a main document.
var ErrNotFound = errors.New("no main document found")

// Locate picks the single main document from candidates. Only files that
// declare a document class and open a document body are considered. A
// candidate whose base name matches an entry in priority (case-insensitive,
// in list order) wins outright, with Less breaking ties between files that
// share the name; otherwise the shallowest file wins, with larger files
// preferred among equally deep ones.
func Locate(candidates []types.CandidateFile, priority []string) (types.CandidateFile, bool) {
	var qualified []types.CandidateFile
	for _, c := range candidates {
		if c.Qualifies() {
			qualified = append(qualified, c)
		}
	}
	if len(qualified) == 0 {
		return types.CandidateFile{}, false
	}

	for _, name := range priority {
		var best types.CandidateFile
		found := false
		for _, c := range qualified {
			if !strings.EqualFold(filepath.Base(c.Path), name) {
				continue
			}
			if !found || Less(c, best) {
				best, found = c, true
			}
		}
		if found {
			return best, true
		}
	}

	sort.SliceStable(qualified, func(i, j int) bool {
		return Less(qualified[i], qualified[j])
	})
	return qualified[0], true
}

// Less orders candidates for the fallback selection: fewer path segments
// first, then larger size, then relative path so the order is total.
func Less(a, b types.CandidateFile) bool {
	da, db := Depth(a), Depth(b)
	if da != db {
		return da < db
	}
	if a.Size != b.Size {
		return a.Size > b.Size
	}
	return a.Rel < b.Rel
}

// Depth counts the path segments of a candidate relative to its root.
func Depth(c types.CandidateFile) int {
	rel := c.Rel
	if rel == "" {
		rel = filepath.ToSlash(c.Path)
	}
	return len(strings.Split(strings.Trim(rel, "/"), "/"))
}

// Scan reads every .tex file under root and returns the main document.
// It returns ErrNotFound when nothing qualifies.
func Scan(root string, priority []string) (types.CandidateFile, error) {
	paths, err := files.Collect(root, []string{".tex"})
	if err != nil {
		return types.CandidateFile{}, err
	}

	candidates := make([]types.CandidateFile, 0, len(paths))
	for _, p := range paths {
		content, err := files.ReadText(p)
		if err != nil {
			return types.CandidateFile{}, fmt.Errorf("reading %s: %w", p, err)
		}
		info, err := os.Stat(p)
		if err != nil {
			return types.CandidateFile{}, fmt.Errorf("stat %s: %w", p, err)
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return types.CandidateFile{}, err
		}
		candidates = append(candidates, types.CandidateFile{
			Path:    p,
			Rel:     filepath.ToSlash(rel),
			Content: content,
			Size:    info.Size(),
		})
	}

	main, ok := Locate(candidates, priority)
	if !ok {
		return types.CandidateFile{}, fmt.Errorf("%s: %w", root, ErrNotFound)
	}
	return main, nil
}
