package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"traitvote/internal/ballots"
	"traitvote/internal/logging"
	"traitvote/internal/report"
	"traitvote/internal/textutil"
)

// preprocessHeader names the single column of a cleaned item list.
const preprocessHeader = "trait"

func newPreprocessCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "preprocess IN.csv OUT.csv",
		Short: "Normalize and deduplicate a raw item list",
		Long: `Read the first column of IN.csv, lower-case each value, collapse internal
whitespace, strip edge punctuation, drop blanks and duplicates, and write the
sorted result to OUT.csv.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			file, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open input: %w", err)
			}
			items, err := ballots.ReadItemsCSV(file)
			file.Close()
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}

			unique, stats := textutil.Deduplicate(items)
			err = writeLocked(args[1], func(w io.Writer) error {
				return report.WriteItemsCSV(w, preprocessHeader, unique)
			})
			if err != nil {
				return err
			}

			logger.Debug("preprocess complete",
				logging.Int("initial", stats.Initial),
				logging.Int("final", stats.Final),
			)

			if jsonOutput {
				return writeJSON(cmd, stats)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Initial items: %d\n", stats.Initial)
			fmt.Fprintf(out, "Unique items:  %d\n", stats.Final)
			fmt.Fprintf(out, "Removed:       %d (%s)\n", stats.Removed, formatPercent(stats.ReductionPct))
			fmt.Fprintf(out, "Wrote %s\n", args[1])
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit statistics as JSON")
	return cmd
}
