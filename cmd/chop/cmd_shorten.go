package main

import (
	"context"
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/sadopc/chop/internal/core/history"
	"github.com/sadopc/chop/internal/core/linkcheck"
	"github.com/sadopc/chop/internal/errkind"
	"github.com/sadopc/chop/internal/shortener"
)

var (
	shortenAlias     string
	shortenOutput    string
	shortenNoHistory bool
)

var shortenCmd = &cobra.Command{
	Use:   "shorten <url>...",
	Short: "Shorten one or more URLs",
	Long: `Normalize, validate and shorten each URL, then record it in the
recent history.

Examples:
  chop shorten example.com/a/very/long/path
  chop shorten https://example.com --alias launch
  chop shorten a.com b.com --output json --no-history

Exit codes:
  0  every URL was shortened
  1  one or more URLs failed`,
	Args: cobra.MinimumNArgs(1),
	RunE: runShorten,
}

func init() {
	shortenCmd.Flags().StringVar(&shortenAlias, "alias", "", "Custom alias (only with a single URL)")
	shortenCmd.Flags().StringVarP(&shortenOutput, "output", "o", "text", "Output format: text, json")
	shortenCmd.Flags().BoolVar(&shortenNoHistory, "no-history", false, "Do not record results in history")
}

// shortenOutcome is one line of shorten output.
type shortenOutcome struct {
	Input      string `json:"input"`
	LongURL    string `json:"longUrl,omitempty"`
	ShortURL   string `json:"shortUrl,omitempty"`
	StatusCode int    `json:"status,omitempty"`
	DurationMS int64  `json:"durationMs,omitempty"`
	Size       int64  `json:"size,omitempty"`
	Error      string `json:"error,omitempty"`
	Warning    string `json:"warning,omitempty"`
}

func runShorten(cmd *cobra.Command, args []string) error {
	switch shortenOutput {
	case "text", "json":
	default:
		return fmt.Errorf("invalid output format %q (must be text or json)", shortenOutput)
	}
	if shortenAlias != "" && len(args) > 1 {
		return fmt.Errorf("--alias can only be used with a single URL")
	}
	if err := linkcheck.CheckAlias(shortenAlias); err != nil {
		return fmt.Errorf("%s", errkind.UserMessage(err))
	}

	e, err := openEnv(cmd, false)
	if err != nil {
		return err
	}
	defer e.Close()

	ctx := commandContext(cmd)
	if err := e.session.Start(ctx); err != nil {
		e.log.Warn().Err(err).Msg("session not restored")
	}

	outcomes := make([]shortenOutcome, 0, len(args))
	failed := 0
	for _, input := range args {
		o := shortenOne(ctx, e, input)
		if o.Error != "" {
			failed++
		}
		outcomes = append(outcomes, o)
	}

	out := cmd.OutOrStdout()
	if shortenOutput == "json" {
		if err := writeJSON(out, outcomes); err != nil {
			return err
		}
	} else {
		printOutcomesText(out, outcomes)
	}

	if failed > 0 {
		return &exitError{code: 1}
	}
	return nil
}

func shortenOne(ctx context.Context, e *env, input string) shortenOutcome {
	o := shortenOutcome{Input: input}

	longURL, err := linkcheck.Prepare(input)
	if err != nil {
		o.Error = errkind.UserMessage(err)
		return o
	}
	o.LongURL = longURL

	res, err := e.shortener.Shorten(ctx, shortener.Request{URL: longURL, CustomAlias: shortenAlias})
	if err != nil {
		e.log.Debug().Err(err).Str("url", longURL).Msg("shorten failed")
		o.Error = errkind.UserMessage(err)
		return o
	}
	o.ShortURL = res.ShortURL
	o.StatusCode = res.StatusCode
	o.DurationMS = res.Duration.Milliseconds()
	o.Size = res.Size

	if !shortenNoHistory {
		if _, err := e.history.Record(history.Entry{LongURL: longURL, ShortURL: res.ShortURL}); err != nil {
			e.log.Warn().Err(err).Msg("history not saved")
			o.Warning = errkind.UserMessage(err)
		}
	}
	return o
}

func printOutcomesText(w io.Writer, outcomes []shortenOutcome) {
	for _, o := range outcomes {
		if o.Error != "" {
			fmt.Fprintf(w, "✗ %s\n    %s\n", o.Input, o.Error)
			continue
		}
		fmt.Fprintf(w, "✓ %s\n    %s  (%d, %dms, %s)\n",
			o.LongURL, o.ShortURL, o.StatusCode, o.DurationMS, humanize.IBytes(uint64(o.Size)))
		if o.Warning != "" {
			fmt.Fprintf(w, "    warning: %s\n", o.Warning)
		}
	}
}

