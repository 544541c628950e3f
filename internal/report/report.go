// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package report renders a conversion report as Markdown, YAML, and HTML and
// prints the console summary.
package report

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/yuin/goldmark"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/texport/internal/files"
	"github.com/pdiddy/texport/pkg/types"
)

// maxListedImages caps the image list in the Markdown report.
const maxListedImages = 40

// Markdown renders r as a human-readable report.
func Markdown(r *types.Report) string {
	var b strings.Builder
	b.WriteString("# AMA → MDPI LaTeX Conversion Report\n\n")

	b.WriteString("## 1) Main file identification\n")
	fmt.Fprintf(&b, "- AMA main tex: %s\n", orNone(r.SourceMain, "(not found)"))
	fmt.Fprintf(&b, "- MDPI template main tex: %s\n", orNone(r.TemplateMain, "(not found)"))

	b.WriteString("\n## 2) Body extraction\n")
	fmt.Fprintf(&b, "- Extracted body lines (approx.): %d\n", r.BodyLines)

	b.WriteString("\n## 3) Image migration\n")
	if len(r.CopiedImages) > 0 {
		fmt.Fprintf(&b, "- Images copied: %d\n", len(r.CopiedImages))
		for i, p := range r.CopiedImages {
			if i == maxListedImages {
				b.WriteString("  - ... (remaining omitted)\n")
				break
			}
			fmt.Fprintf(&b, "  - %s\n", p)
		}
	} else {
		b.WriteString("- No images found or copied\n")
	}

	b.WriteString("\n## 4) Reference migration\n")
	fmt.Fprintf(&b, "- Bibliography: %s\n", orNone(r.MergedBib, "(not generated)"))
	if r.Compile != "" && r.Compile != types.CompileSkipped {
		fmt.Fprintf(&b, "- Compile check: %s\n", r.Compile)
	}

	b.WriteString("\n## 5) Warnings (may need manual review)\n")
	writeList(&b, r.Warnings, "⚠️ ")

	b.WriteString("\n## 6) Errors (must be fixed)\n")
	writeList(&b, r.Errors, "❌ ")

	return b.String()
}

func writeList(b *strings.Builder, items []string, mark string) {
	if len(items) == 0 {
		b.WriteString("- (none)\n")
		return
	}
	for _, it := range items {
		fmt.Fprintf(b, "- %s%s\n", mark, it)
	}
}

func orNone(s, none string) string {
	if s == "" {
		return none
	}
	return s
}

// YAML marshals r for machine consumption.
func YAML(r *types.Report) ([]byte, error) {
	data, err := yaml.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("marshaling report YAML: %w", err)
	}
	return data, nil
}

// HTML converts a Markdown report to an HTML page.
func HTML(md string) ([]byte, error) {
	var body bytes.Buffer
	if err := goldmark.New().Convert([]byte(md), &body); err != nil {
		return nil, fmt.Errorf("rendering report HTML: %w", err)
	}

	var page bytes.Buffer
	page.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n")
	page.WriteString("<title>Conversion Report</title>\n</head>\n<body>\n")
	page.Write(body.Bytes())
	page.WriteString("</body>\n</html>\n")
	return page.Bytes(), nil
}

// Paths returns the Markdown, YAML, and HTML report paths for a report named
// name (e.g. conversion_report.md) under dir.
func Paths(dir, name string) (md, yml, html string) {
	if name == "" {
		name = types.DefaultReportName
	}
	base := strings.TrimSuffix(name, filepath.Ext(name))
	return filepath.Join(dir, name),
		filepath.Join(dir, base+".yaml"),
		filepath.Join(dir, base+".html")
}

// Save writes the Markdown report and its YAML and HTML sidecars to dir.
func Save(dir, name string, r *types.Report) error {
	mdPath, ymlPath, htmlPath := Paths(dir, name)

	md := Markdown(r)
	if err := files.WriteAtomic(mdPath, []byte(md)); err != nil {
		return fmt.Errorf("writing %s: %w", mdPath, err)
	}

	yml, err := YAML(r)
	if err != nil {
		return err
	}
	if err := files.WriteAtomic(ymlPath, yml); err != nil {
		return fmt.Errorf("writing %s: %w", ymlPath, err)
	}

	html, err := HTML(md)
	if err != nil {
		return err
	}
	if err := files.WriteAtomic(htmlPath, html); err != nil {
		return fmt.Errorf("writing %s: %w", htmlPath, err)
	}
	return nil
}
