// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/pdiddy/texport/internal/container"
)

// DefaultLatexImage provides latexmk and a full TeX Live installation.
const DefaultLatexImage = "texlive/texlive:latest"

// logTailLines is how much of the latexmk output is kept in a failure.
const logTailLines = 8

// LatexmkCompiler compiles documents by running latexmk inside a TeX Live
// container. It depends on a container.Runtime (docker or podman) injected
// at construction time.
type LatexmkCompiler struct {
	runtime container.Runtime
	image   string
}

// NewLatexmkCompiler creates a compiler that runs image (DefaultLatexImage
// when empty) through rt. It verifies that the image exists locally before
// returning.
func NewLatexmkCompiler(ctx context.Context, rt container.Runtime, image string) (*LatexmkCompiler, error) {
	if image == "" {
		image = DefaultLatexImage
	}
	if err := rt.ImageExists(ctx, image); err != nil {
		return nil, fmt.Errorf("latex image not available in %s: %w", rt.Name(), err)
	}
	return &LatexmkCompiler{runtime: rt, image: image}, nil
}

// Compile runs latexmk -pdf on mainTex inside dir. On failure the error
// carries the tail of the latexmk output.
func (l *LatexmkCompiler) Compile(ctx context.Context, dir, mainTex string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	job := container.Job{
		Image: l.image,
		Dir:   dir,
		Args:  []string{"latexmk", "-pdf", "-interaction=nonstopmode", "-halt-on-error", mainTex},
	}
	var out bytes.Buffer
	if err := l.runtime.RunIn(ctx, job, &out); err != nil {
		if tail := lastLines(out.String(), logTailLines); tail != "" {
			return fmt.Errorf("compiling %s: %w\n%s", mainTex, err, tail)
		}
		return fmt.Errorf("compiling %s: %w", mainTex, err)
	}
	return nil
}

func lastLines(s string, n int) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
