// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/texport/internal/convert"
	"github.com/pdiddy/texport/internal/report"
)

var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert one AMA manuscript to the MDPI template",
	Long: `Convert copies the MDPI template tree into out-dir, moves the AMA
manuscript's body, title, and abstract into the template's main file,
rewrites \citep/\citet to \cite, points \includegraphics at the figures
directory, copies images, and merges every .bib file into one bibliography.

A conversion report (Markdown, YAML, and HTML) is always written to out-dir.
The command exits non-zero when the conversion fails.`,
	RunE: runConvert,
}

func runConvert(cmd *cobra.Command, args []string) error {
	cfg := conversionConfig(cmd)
	if cfg.SourceDir == "" || cfg.TemplateDir == "" || cfg.OutDir == "" {
		return fmt.Errorf("--source-dir, --template-dir, and --out-dir are required")
	}

	opts, cleanup, err := converterOptions(cmd)
	defer cleanup()
	if err != nil {
		return err
	}

	r := convert.New(cfg, os.Stdout, opts...).Run(context.Background())
	report.Summary(os.Stdout, r, cfg)
	if !r.OK() {
		return fmt.Errorf("conversion failed with %d error(s)", len(r.Errors))
	}
	return nil
}

func init() {
	convertCmd.Flags().String("source-dir", "", "AMA source directory")
	addOutputFlags(convertCmd)

	rootCmd.AddCommand(convertCmd)
}
