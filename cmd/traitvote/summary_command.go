package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"traitvote/internal/report"
)

func newSummaryCommand(ctx *commandContext) *cobra.Command {
	var (
		flagColumn string
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "summary VERDICTS.csv",
		Short: "Summarize the confidence flags of a verdict file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open verdicts: %w", err)
			}
			defer file.Close()

			col, err := report.ReadTierColumn(file, flagColumn)
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			summary, err := col.Summarize()
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}

			if jsonOutput {
				return writeJSON(cmd, summary)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderSummaryTable(summary, shouldColorize(out)))
			return nil
		},
	}

	cmd.Flags().StringVar(&flagColumn, "flag-column", report.ColumnFlag, "Column holding the confidence flag")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit JSON instead of a table")
	return cmd
}
