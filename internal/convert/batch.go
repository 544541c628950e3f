// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"context"
	"fmt"
	"io"

	"github.com/pdiddy/texport/pkg/types"
)

// BatchResult holds the outcome of a batch conversion run.
type BatchResult struct {
	Converted int
	Failed    int
}

// Total returns the total number of manuscripts processed.
func (r BatchResult) Total() int {
	return r.Converted + r.Failed
}

// HasFailures reports whether any manuscript failed conversion.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// ConvertBatch converts each configuration in turn, printing per-run status
// to w and returning a summary. A failed run does not stop the batch.
func ConvertBatch(ctx context.Context, cfgs []types.ConversionConfig, w io.Writer, opts ...Option) BatchResult {
	var result BatchResult
	for _, cfg := range cfgs {
		r := New(cfg, io.Discard, opts...).Run(ctx)
		if r.OK() {
			fmt.Fprintf(w, "converted: %s (%d warnings)\n", cfg.SourceDir, len(r.Warnings))
			result.Converted++
			continue
		}
		fmt.Fprintf(w, "failed:  %s (%s)\n", cfg.SourceDir, r.Errors[0])
		result.Failed++
	}
	fmt.Fprintf(w, "\nBatch summary: %d converted, %d failed (total: %d)\n",
		result.Converted, result.Failed, result.Total())
	return result
}
