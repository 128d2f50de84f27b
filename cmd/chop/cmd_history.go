package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sadopc/chop/internal/core/history"
)

var (
	historyJSON   bool
	historyFilter string
	historyClear  bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show or clear recently shortened URLs",
	Long: `Show the most recent shortened URLs, newest first.

Examples:
  chop history
  chop history --filter docs
  chop history --json
  chop history --clear`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().BoolVar(&historyJSON, "json", false, "Print as JSON")
	historyCmd.Flags().StringVarP(&historyFilter, "filter", "f", "", "Fuzzy filter on short and long URL")
	historyCmd.Flags().BoolVar(&historyClear, "clear", false, "Clear the history")
}

func runHistory(cmd *cobra.Command, args []string) error {
	e, err := openEnv(cmd, false)
	if err != nil {
		return err
	}
	defer e.Close()

	out := cmd.OutOrStdout()

	if historyClear {
		if _, err := e.history.Clear(); err != nil {
			return fmt.Errorf("clearing history: %w", err)
		}
		fmt.Fprintln(out, "History cleared.")
		return nil
	}

	entries := e.history.Load()
	if historyFilter != "" {
		entries = history.Match(entries, historyFilter)
	}

	if historyJSON {
		if entries == nil {
			entries = history.List{}
		}
		return writeJSON(out, entries)
	}

	if len(entries) == 0 {
		if historyFilter != "" {
			fmt.Fprintln(out, "No matches.")
		} else {
			fmt.Fprintln(out, "No history yet.")
		}
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "#\tSHORT URL\tLONG URL")
	for i, entry := range entries {
		fmt.Fprintf(w, "%d\t%s\t%s\n", i+1, entry.ShortURL, entry.LongURL)
	}
	return w.Flush()
}
