package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sadopc/chop/internal/core/linkcheck"
)

var validateQuiet bool

var validateCmd = &cobra.Command{
	Use:   "validate <url>...",
	Short: "Check whether URLs can be shortened",
	Long: `Normalize each URL the way the shortener does and report whether it
passes validation. Nothing is sent over the network.

Exit codes:
  0  every URL is valid
  1  one or more URLs are invalid`,
	Args: cobra.MinimumNArgs(1),
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().BoolVarP(&validateQuiet, "quiet", "q", false, "Only set the exit code")
}

func runValidate(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	invalid := 0
	for _, input := range args {
		normalized := linkcheck.Normalize(input)
		reason := linkcheck.Check(normalized)
		if reason != linkcheck.ReasonOK {
			invalid++
		}
		if validateQuiet {
			continue
		}
		if reason == linkcheck.ReasonOK {
			fmt.Fprintf(out, "✓ %s\n", normalized)
		} else {
			fmt.Fprintf(out, "✗ %s: %s\n", input, reason)
		}
	}

	if invalid > 0 {
		if !validateQuiet {
			fmt.Fprintf(cmd.ErrOrStderr(), "%d of %d URL(s) invalid\n", invalid, len(args))
		}
		return &exitError{code: 1}
	}
	return nil
}
