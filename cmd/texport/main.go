// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the texport CLI, which converts AMA
// LaTeX manuscripts to the MDPI template.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/texport/internal/history"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the texport CLI.
var rootCmd = &cobra.Command{
	Use:   "texport",
	Short: "Convert AMA LaTeX manuscripts to the MDPI template",
	Long: `texport converts a LaTeX manuscript written against the AMA journal
template into an equivalent manuscript built on the MDPI template. It
locates the main file in each tree, moves the body, title, and abstract
into a copy of the template, normalizes citations and image paths, merges
bibliographies, and writes a conversion report next to the output.

Settings come from flags, from texport.yaml (in . or ~/.config/texport/),
or from TEXPORT_* environment variables, in that order of precedence.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setupLogging(cmd)
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./texport.yaml or ~/.config/texport/texport.yaml)")
	rootCmd.PersistentFlags().String("log-level", "warn", "log level: debug, info, warn, or error")
	rootCmd.PersistentFlags().String("history-db", history.DefaultDBPath, "SQLite file recording conversion runs")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("texport")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "texport"))
		}
	}

	viper.SetEnvPrefix("TEXPORT")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// setupLogging installs the default slog logger at the configured level.
func setupLogging(cmd *cobra.Command) error {
	var level slog.Level
	name := stringSetting(cmd, "log-level", "log_level")
	if err := level.UnmarshalText([]byte(name)); err != nil {
		return fmt.Errorf("invalid log level %q: %w", name, err)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
