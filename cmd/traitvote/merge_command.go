package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"traitvote/internal/ballots"
	"traitvote/internal/consensus"
)

type mergeResult struct {
	Quorum     int                       `json:"quorum"`
	Categories []string                  `json:"categories"`
	Counts     []consensus.ProposalCount `json:"counts"`
	NearMisses []consensus.NearMiss      `json:"near_misses,omitempty"`
}

func newMergeCommand(ctx *commandContext) *cobra.Command {
	var (
		quorumFlag   int
		nearMissFlag float64
		jsonOutput   bool
	)

	cmd := &cobra.Command{
		Use:   "merge PROPOSALS.yaml",
		Short: "Merge per-source category proposals into a shared vocabulary",
		Long: `Read a YAML mapping of source name to proposed categories, fold case and
whitespace, and keep every category proposed at least --quorum times.

Categories below quorum that closely resemble a kept one are listed as near
misses for manual review; they never change the merged result.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			quorum := cfg.Proposals.Quorum
			if cmd.Flags().Changed("quorum") {
				quorum = quorumFlag
			}
			threshold := cfg.Proposals.NearMissSimilarity
			if cmd.Flags().Changed("near-miss") {
				threshold = nearMissFlag
			}

			proposals, err := ballots.LoadProposals(args[0])
			if err != nil {
				return err
			}
			merged, err := consensus.MergeProposals(proposals, quorum)
			if err != nil {
				return err
			}
			counts := consensus.CountProposals(proposals)
			result := mergeResult{
				Quorum:     quorum,
				Categories: merged,
				Counts:     counts,
				NearMisses: consensus.NearMisses(counts, merged, threshold),
			}

			if jsonOutput {
				return writeJSON(cmd, result)
			}

			kept := make(map[string]struct{}, len(merged))
			for _, category := range merged {
				kept[category] = struct{}{}
			}
			rows := make([][]string, 0, len(counts))
			for _, pc := range counts {
				mark := ""
				if _, ok := kept[pc.Category]; ok {
					mark = "yes"
				}
				rows = append(rows, []string{pc.Category, strconv.Itoa(pc.Count), mark})
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable(
				[]string{"Category", "Proposals", "Kept"},
				rows,
				[]columnAlignment{alignLeft, alignRight, alignLeft},
			))
			fmt.Fprintf(out, "%d of %d categories reached quorum %d\n", len(merged), len(counts), quorum)
			if len(result.NearMisses) > 0 {
				fmt.Fprintln(out, "Near misses:")
				for _, miss := range result.NearMisses {
					fmt.Fprintf(out, "  %s (%d) resembles %s (%.2f)\n", miss.Category, miss.Count, miss.Resembles, miss.Similarity)
				}
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&quorumFlag, "quorum", "q", consensus.DefaultQuorum, "Minimum proposals for a category to be kept (default from config)")
	cmd.Flags().Float64Var(&nearMissFlag, "near-miss", 0, "Cosine similarity for near-miss reporting; 0 disables (default from config)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit JSON instead of a table")
	return cmd
}
