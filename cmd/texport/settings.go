// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/texport/internal/container"
	"github.com/pdiddy/texport/internal/convert"
	"github.com/pdiddy/texport/internal/history"
	"github.com/pdiddy/texport/pkg/types"
)

// stringSetting resolves a setting from an explicitly set flag, then the
// viper key (config file or TEXPORT_* environment), then the flag default.
func stringSetting(cmd *cobra.Command, flag, key string) string {
	if f := cmd.Flags().Lookup(flag); f != nil && f.Changed {
		return f.Value.String()
	}
	if viper.IsSet(key) {
		return viper.GetString(key)
	}
	v, _ := cmd.Flags().GetString(flag)
	return v
}

// boolSetting is stringSetting for boolean flags.
func boolSetting(cmd *cobra.Command, flag, key string) bool {
	if f := cmd.Flags().Lookup(flag); f != nil && f.Changed {
		v, _ := cmd.Flags().GetBool(flag)
		return v
	}
	if viper.IsSet(key) {
		return viper.GetBool(key)
	}
	v, _ := cmd.Flags().GetBool(flag)
	return v
}

// addOutputFlags registers the flags shared by convert and batch.
func addOutputFlags(cmd *cobra.Command) {
	cmd.Flags().String("template-dir", "", "MDPI template directory")
	cmd.Flags().String("out-dir", "", "output directory")
	cmd.Flags().String("out-main-tex", types.DefaultOutMainTex, "filename of the converted main file")
	cmd.Flags().String("figures-dir", types.DefaultFiguresDir, "subdirectory of out-dir receiving images")
	cmd.Flags().String("bib-name", types.DefaultBibName, "filename of the merged bibliography")
	cmd.Flags().Bool("compile", false, "compile the output with latexmk in a container (docker or podman)")
	cmd.Flags().String("latex-image", convert.DefaultLatexImage, "container image providing latexmk")
	cmd.Flags().Bool("no-history", false, "do not record runs in the history database")
}

// conversionConfig builds a ConversionConfig from flags and viper keys.
func conversionConfig(cmd *cobra.Command) types.ConversionConfig {
	return types.ConversionConfig{
		SourceDir:   stringSetting(cmd, "source-dir", "source_dir"),
		TemplateDir: stringSetting(cmd, "template-dir", "template_dir"),
		OutDir:      stringSetting(cmd, "out-dir", "out_dir"),
		OutMainTex:  stringSetting(cmd, "out-main-tex", "out_main_tex"),
		FiguresDir:  stringSetting(cmd, "figures-dir", "figures_dir"),
		BibName:     stringSetting(cmd, "bib-name", "bib_name"),
	}.WithDefaults()
}

// converterOptions wires the history ledger and the compile check according
// to the command's settings. The returned cleanup closes what was opened.
func converterOptions(cmd *cobra.Command) ([]convert.Option, func(), error) {
	opts := []convert.Option{convert.WithLogger(slog.Default())}
	cleanup := func() {}

	if !boolSetting(cmd, "no-history", "no_history") {
		store, err := history.Open(stringSetting(cmd, "history-db", "history_db"))
		if err != nil {
			return nil, cleanup, fmt.Errorf("opening history: %w", err)
		}
		opts = append(opts, convert.WithRecorder(store))
		cleanup = func() { store.Close() }
	}

	if boolSetting(cmd, "compile", "compile") {
		rt, err := container.DetectRuntime(cmd.Context())
		if err != nil {
			return nil, cleanup, fmt.Errorf("compile check: %w", err)
		}
		comp, err := convert.NewLatexmkCompiler(cmd.Context(), rt, stringSetting(cmd, "latex-image", "latex_image"))
		if err != nil {
			return nil, cleanup, fmt.Errorf("compile check: %w", err)
		}
		opts = append(opts, convert.WithCompiler(comp))
	}

	return opts, cleanup, nil
}
