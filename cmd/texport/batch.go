// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/pdiddy/texport/internal/convert"
	"github.com/pdiddy/texport/pkg/types"
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Convert every manuscript under a directory",
	Long: `Batch treats each immediate subdirectory of sources-dir as one AMA
manuscript and converts it into out-dir/<name> using the same template.
A failed manuscript does not stop the batch; the command exits non-zero if
any conversion failed.`,
	RunE: runBatch,
}

func runBatch(cmd *cobra.Command, args []string) error {
	sourcesDir := stringSetting(cmd, "sources-dir", "sources_dir")
	base := conversionConfig(cmd)
	if sourcesDir == "" || base.TemplateDir == "" || base.OutDir == "" {
		return fmt.Errorf("--sources-dir, --template-dir, and --out-dir are required")
	}

	names, err := sourceDirs(sourcesDir)
	if err != nil {
		return err
	}
	if len(names) == 0 {
		return fmt.Errorf("no manuscript directories found in %s", sourcesDir)
	}

	var cfgs []types.ConversionConfig
	for _, name := range names {
		cfg := base
		cfg.SourceDir = filepath.Join(sourcesDir, name)
		if filepath.Clean(cfg.SourceDir) == filepath.Clean(base.OutDir) {
			continue
		}
		cfg.OutDir = filepath.Join(base.OutDir, name)
		cfgs = append(cfgs, cfg)
	}

	opts, cleanup, err := converterOptions(cmd)
	defer cleanup()
	if err != nil {
		return err
	}

	result := convert.ConvertBatch(context.Background(), cfgs, os.Stdout, opts...)
	if result.HasFailures() {
		return fmt.Errorf("%d of %d manuscript(s) failed conversion", result.Failed, result.Total())
	}
	return nil
}

// sourceDirs returns the sorted names of the immediate subdirectories of
// root, skipping hidden ones.
func sourceDirs(root string) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("reading sources directory %s: %w", root, err)
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() || e.Name()[0] == '.' {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names, nil
}

func init() {
	batchCmd.Flags().String("sources-dir", "", "directory whose subdirectories are AMA manuscripts")
	addOutputFlags(batchCmd)

	rootCmd.AddCommand(batchCmd)
}
