// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/texport/internal/history"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded conversion runs",
	Long: `History lists past conversions recorded in the history database,
newest first. Use "history show <id>" to see one run's warnings and errors.`,
	RunE: runHistoryList,
}

var historyShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one recorded conversion run",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryShow,
}

func openHistory(cmd *cobra.Command) (*history.Store, error) {
	return history.Open(stringSetting(cmd, "history-db", "history_db"))
}

func runHistoryList(cmd *cobra.Command, args []string) error {
	store, err := openHistory(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	limit, _ := cmd.Flags().GetInt("limit")
	runs, err := store.List(context.Background(), limit)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatRuns(os.Stdout, runs, jsonOutput)
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	store, err := openHistory(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	run, err := store.Get(context.Background(), args[0])
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatRun(os.Stdout, run, jsonOutput)
}

func formatRuns(w io.Writer, runs []history.Run, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(runs)
	}

	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs recorded.")
		return nil
	}

	fmt.Fprintf(w, "%-36s  %-20s  %-6s  %-8s  %-6s  %s\n",
		"ID", "Started", "Status", "Warnings", "Errors", "Source")
	fmt.Fprintln(w, strings.Repeat("-", 110))

	for _, r := range runs {
		source := r.SourceDir
		if len(source) > 30 {
			source = "..." + source[len(source)-27:]
		}
		fmt.Fprintf(w, "%-36s  %-20s  %-6s  %-8d  %-6d  %s\n",
			r.ID, r.StartedAt.Local().Format(time.DateTime), status(r.OK), r.Warnings, r.Errors, source)
	}

	fmt.Fprintf(w, "\n%d runs\n", len(runs))
	return nil
}

func formatRun(w io.Writer, r history.Run, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	}

	fmt.Fprintf(w, "Run:       %s\n", r.ID)
	fmt.Fprintf(w, "Status:    %s\n", status(r.OK))
	fmt.Fprintf(w, "Started:   %s\n", r.StartedAt.Local().Format(time.DateTime))
	fmt.Fprintf(w, "Duration:  %s\n", r.FinishedAt.Sub(r.StartedAt).Round(time.Millisecond))
	fmt.Fprintf(w, "Source:    %s\n", r.SourceDir)
	fmt.Fprintf(w, "Template:  %s\n", r.TemplateDir)
	fmt.Fprintf(w, "Output:    %s\n", r.OutDir)
	fmt.Fprintf(w, "Report:    %s\n", r.Report)

	for _, m := range r.Messages {
		fmt.Fprintf(w, "  [%s] %s\n", m.Kind, m.Text)
	}
	return nil
}

func status(ok bool) string {
	if ok {
		return "ok"
	}
	return "failed"
}

func init() {
	historyCmd.Flags().Int("limit", 20, "maximum number of runs to list (0 for all)")
	historyCmd.Flags().Bool("json", false, "output runs as JSON")
	historyShowCmd.Flags().Bool("json", false, "output the run as JSON")

	historyCmd.AddCommand(historyShowCmd)
	rootCmd.AddCommand(historyCmd)
}
