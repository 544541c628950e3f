// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/charmbracelet/lipgloss"

	"github.com/pdiddy/texport/pkg/types"
)

var (
	okStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#3FB950"))
	errorStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF6B6B"))
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#D29922"))
	detail     = lipgloss.NewStyle().Foreground(lipgloss.Color("#AAAAAA"))
)

// Summary prints the end-of-run console summary for r. A failed run lists
// every error and points at the report; a successful run lists the produced
// artifacts.
func Summary(w io.Writer, r *types.Report, cfg types.ConversionConfig) {
	cfg = cfg.WithDefaults()
	reportPath := filepath.Join(cfg.OutDir, cfg.ReportName)

	if !r.OK() {
		fmt.Fprintf(w, "%s Conversion failed. Check report: %s\n", errorStyle.Render("[ERROR]"), reportPath)
		for _, e := range r.Errors {
			fmt.Fprintf(w, "  - %s\n", detail.Render(e))
		}
		return
	}

	ok := okStyle.Render("[OK]")
	fmt.Fprintf(w, "%s Converted project generated at: %s\n", ok, cfg.OutDir)
	fmt.Fprintf(w, "%s Main TeX: %s\n", ok, filepath.Join(cfg.OutDir, cfg.OutMainTex))
	fmt.Fprintf(w, "%s Report: %s\n", ok, reportPath)
	if n := len(r.Warnings); n > 0 {
		fmt.Fprintln(w, warnStyle.Render(fmt.Sprintf("%d warning(s) need review; see the report.", n)))
	}
}
