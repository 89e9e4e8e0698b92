package main

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"traitvote/internal/ballots"
	"traitvote/internal/consensus"
	"traitvote/internal/fileutil"
	"traitvote/internal/logging"
	"traitvote/internal/report"
	"traitvote/internal/runstore"
)

const stdoutPath = "-"

func newAggregateCommand(ctx *commandContext) *cobra.Command {
	var (
		phaseFlag  string
		dirFlag    string
		wideFlag   string
		outFlag    string
		formatFlag string
		noHistory  bool
	)

	cmd := &cobra.Command{
		Use:   "aggregate",
		Short: "Resolve panel ballots into consensus verdicts",
		Long: `Load one ballot per panel source (--dir) or a single wide CSV with one
column per source (--wide), pick the majority label for every item, and write
the verdicts with their agreement ratio and confidence flag.

Use --out - to write verdicts to stdout.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			phase, err := consensus.ParsePhase(phaseFlag)
			if err != nil {
				return err
			}
			format := strings.ToLower(strings.TrimSpace(formatFlag))
			if format != "csv" && format != "json" {
				return fmt.Errorf("unsupported format %q (want csv or json)", formatFlag)
			}
			dir := strings.TrimSpace(dirFlag)
			wide := strings.TrimSpace(wideFlag)
			if (dir == "") == (wide == "") {
				return errors.New("exactly one of --dir or --wide is required")
			}

			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			panel, err := ctx.panel()
			if err != nil {
				return err
			}

			var (
				labels consensus.SourceLabels
				input  string
			)
			if dir != "" {
				input = dir
				labels, err = ballots.LoadSourceDir(dir, phase)
			} else {
				input = wide
				labels, err = ballots.LoadWideFile(wide, phase)
			}
			if err != nil {
				return fmt.Errorf("load ballots: %w", err)
			}

			aggregator, err := consensus.NewAggregator(panel,
				consensus.WithWorkers(cfg.Aggregation.Workers),
				consensus.WithLogger(logging.NewComponentLogger(logger, "aggregate")),
			)
			if err != nil {
				return err
			}
			runID := uuid.NewString()
			runCtx := logging.WithRunID(cmd.Context(), runID)
			verdicts, err := aggregator.Aggregate(runCtx, phase, labels)
			if err != nil {
				return fmt.Errorf("aggregate %s: %w", phase, err)
			}

			write := func(w io.Writer) error {
				if format == "json" {
					return report.WriteVerdictsJSON(w, panel, verdicts)
				}
				return report.WriteVerdictsCSV(w, phase, panel, verdicts)
			}

			out := strings.TrimSpace(outFlag)
			if out == "" {
				out = filepath.Join(cfg.Paths.OutputDir, fmt.Sprintf("%s_consensus.%s", phase, format))
			}
			if out == stdoutPath {
				if err := write(cmd.OutOrStdout()); err != nil {
					return fmt.Errorf("write verdicts: %w", err)
				}
			} else if err := writeLocked(out, write); err != nil {
				return err
			}

			var run runstore.Run
			if cfg.History.Enabled && !noHistory {
				err := ctx.withStore(func(store *runstore.Store) error {
					saved, err := store.SaveRun(runCtx, runstore.Run{
						ID:     runID,
						Phase:  phase,
						Panel:  panel.Sources(),
						Source: input,
					}, verdicts)
					run = saved
					return err
				})
				if err != nil {
					return fmt.Errorf("record run: %w", err)
				}
				logging.WithContext(runCtx, logger).Info("run recorded",
					logging.String(logging.FieldPhase, string(phase)),
					logging.Int("verdicts", run.ItemCount),
				)
			}

			if out == stdoutPath {
				return nil
			}

			stdout := cmd.OutOrStdout()
			fmt.Fprintf(stdout, "Wrote %d verdicts to %s\n", len(verdicts), out)
			if run.ID != "" {
				fmt.Fprintf(stdout, "Run ID: %s\n", run.ID)
			}
			if len(verdicts) == 0 {
				return nil
			}
			summary, err := consensus.Summarize(verdicts)
			if err != nil {
				return err
			}
			fmt.Fprintln(stdout, renderSummaryTable(summary, shouldColorize(stdout)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&phaseFlag, "phase", "p", "", "Phase to aggregate (umbrella or category)")
	cmd.Flags().StringVar(&dirFlag, "dir", "", "Directory holding one <source>.csv or <source>.json per panel source")
	cmd.Flags().StringVar(&wideFlag, "wide", "", "Single CSV with one label column per source")
	cmd.Flags().StringVarP(&outFlag, "out", "o", "", "Output path (default <output_dir>/<phase>_consensus.<format>; - for stdout)")
	cmd.Flags().StringVarP(&formatFlag, "format", "f", "csv", "Output format (csv or json)")
	cmd.Flags().BoolVar(&noHistory, "no-history", false, "Do not record this run in the history database")
	_ = cmd.MarkFlagRequired("phase")
	return cmd
}

// writeLocked holds the output's sidecar lock while replacing it atomically.
func writeLocked(path string, write func(io.Writer) error) error {
	lock, err := fileutil.Acquire(path)
	if err != nil {
		if errors.Is(err, fileutil.ErrLocked) {
			return fmt.Errorf("%s is being written by another traitvote process", path)
		}
		return err
	}
	defer func() { _ = lock.Release() }()

	if err := fileutil.WriteFileAtomic(path, 0o644, write); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
