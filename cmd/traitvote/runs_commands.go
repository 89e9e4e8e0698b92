package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"traitvote/internal/consensus"
	"traitvote/internal/report"
	"traitvote/internal/runstore"
)

const runIDDisplayLen = 8

func newRunsCommand(ctx *commandContext) *cobra.Command {
	runsCmd := &cobra.Command{
		Use:   "runs",
		Short: "Inspect recorded aggregation runs",
	}
	runsCmd.AddCommand(newRunsListCommand(ctx))
	runsCmd.AddCommand(newRunsShowCommand(ctx))
	return runsCmd
}

func newRunsListCommand(ctx *commandContext) *cobra.Command {
	var (
		limit      int
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent runs, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(store *runstore.Store) error {
				runs, err := store.ListRuns(cmd.Context(), limit)
				if err != nil {
					return err
				}
				if jsonOutput {
					return writeJSON(cmd, runs)
				}
				out := cmd.OutOrStdout()
				if len(runs) == 0 {
					fmt.Fprintln(out, "No runs recorded")
					return nil
				}
				rows := make([][]string, 0, len(runs))
				for _, run := range runs {
					rows = append(rows, []string{
						shortID(run.ID),
						string(run.Phase),
						run.CreatedAt.Local().Format(time.DateTime),
						strconv.Itoa(run.ItemCount),
						strconv.Itoa(run.High),
						strconv.Itoa(run.Medium),
						strconv.Itoa(run.Low),
					})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"ID", "Phase", "Created", "Items",
						consensus.TierHigh.Glyph(), consensus.TierMedium.Glyph(), consensus.TierLow.Glyph()},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight, alignRight},
				))
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum runs to list (0 for all)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit JSON instead of a table")
	return cmd
}

func newRunsShowCommand(ctx *commandContext) *cobra.Command {
	var (
		exportFormat string
		tierFilter   string
	)

	cmd := &cobra.Command{
		Use:   "show RUN_ID",
		Short: "Show the verdicts of a recorded run",
		Long: `Show a recorded run. RUN_ID may be any unique prefix of the full identifier.

With --export csv or --export json the verdicts are written to stdout in the
same layout the aggregate command produces.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var only *consensus.Tier
			if strings.TrimSpace(tierFilter) != "" {
				t, err := consensus.ParseTier(tierFilter)
				if err != nil {
					return err
				}
				only = &t
			}

			return ctx.withStore(func(store *runstore.Store) error {
				run, err := store.GetRun(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				verdicts, err := store.Verdicts(cmd.Context(), run.ID)
				if err != nil {
					return err
				}
				if only != nil {
					filtered := verdicts[:0]
					for _, v := range verdicts {
						if v.Tier == *only {
							filtered = append(filtered, v)
						}
					}
					verdicts = filtered
				}
				panel, err := consensus.NewPanel(run.Panel)
				if err != nil {
					return fmt.Errorf("run %s: %w", run.ID, err)
				}

				out := cmd.OutOrStdout()
				switch strings.ToLower(strings.TrimSpace(exportFormat)) {
				case "csv":
					return report.WriteVerdictsCSV(out, run.Phase, panel, verdicts)
				case "json":
					return report.WriteVerdictsJSON(out, panel, verdicts)
				case "":
				default:
					return fmt.Errorf("unsupported export format %q (want csv or json)", exportFormat)
				}

				colorize := shouldColorize(out)
				fmt.Fprintf(out, "Run:     %s\n", run.ID)
				fmt.Fprintf(out, "Phase:   %s\n", run.Phase)
				fmt.Fprintf(out, "Panel:   %s\n", strings.Join(run.Panel, ", "))
				if run.Source != "" {
					fmt.Fprintf(out, "Input:   %s\n", run.Source)
				}
				fmt.Fprintf(out, "Created: %s\n", run.CreatedAt.Local().Format(time.DateTime))
				if run.ItemCount > 0 {
					fmt.Fprintf(out, "Summary: %s\n", summaryLine(run.Summary()))
				}

				rows := make([][]string, 0, len(verdicts))
				for _, v := range verdicts {
					rows = append(rows, []string{v.Item, v.Label, v.Ratio(), tierLabel(v.Tier, colorize)})
				}
				fmt.Fprintln(out, renderTable(
					[]string{run.Phase.ItemColumn(), run.Phase.LabelColumn(), "Agreement", "Flag"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignRight, alignLeft},
				))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&exportFormat, "export", "", "Write verdicts to stdout as csv or json")
	cmd.Flags().StringVar(&tierFilter, "tier", "", "Only include verdicts with this flag (high, medium, low or a glyph)")
	return cmd
}

func shortID(id string) string {
	if len(id) <= runIDDisplayLen {
		return id
	}
	return id[:runIDDisplayLen]
}
