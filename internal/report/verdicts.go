package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"

	"traitvote/internal/consensus"
)

const (
	// ColumnAgreement holds the "agreement/cast" ratio.
	ColumnAgreement = "agreement"
	// ColumnFlag holds the confidence tier glyph.
	ColumnFlag = "flag"
)

// VerdictHeader returns the CSV header for a phase and panel.
func VerdictHeader(phase consensus.Phase, panel consensus.Panel) []string {
	header := []string{phase.ItemColumn(), phase.LabelColumn(), ColumnAgreement, ColumnFlag}
	return append(header, panel.Sources()...)
}

// WriteVerdictsCSV writes one row per verdict.
func WriteVerdictsCSV(w io.Writer, phase consensus.Phase, panel consensus.Panel, verdicts []consensus.Verdict) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(VerdictHeader(phase, panel)); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	sources := panel.Sources()
	for _, v := range verdicts {
		row := []string{v.Item, v.Label, v.Ratio(), v.Tier.Glyph()}
		for _, source := range sources {
			label, _ := v.Vote(source)
			row = append(row, label)
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("write verdict %q: %w", v.Item, err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// VerdictRecord is the JSON shape of one verdict.
type VerdictRecord struct {
	Item      string             `json:"item"`
	Label     string             `json:"label"`
	Agreement string             `json:"agreement"`
	Flag      consensus.Tier     `json:"flag"`
	Tier      string             `json:"tier"`
	Votes     map[string]*string `json:"votes"`
}

// Records converts verdicts to their JSON shape.
func Records(panel consensus.Panel, verdicts []consensus.Verdict) []VerdictRecord {
	sources := panel.Sources()
	records := make([]VerdictRecord, 0, len(verdicts))
	for _, v := range verdicts {
		votes := make(map[string]*string, len(sources))
		for _, source := range sources {
			if label, ok := v.Vote(source); ok {
				votes[source] = &label
			} else {
				votes[source] = nil
			}
		}
		records = append(records, VerdictRecord{
			Item:      v.Item,
			Label:     v.Label,
			Agreement: v.Ratio(),
			Flag:      v.Tier,
			Tier:      v.Tier.String(),
			Votes:     votes,
		})
	}
	return records
}

// WriteVerdictsJSON writes verdicts as an indented JSON array.
func WriteVerdictsJSON(w io.Writer, panel consensus.Panel, verdicts []consensus.Verdict) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(Records(panel, verdicts))
}

// WriteItemsCSV writes a single-column CSV.
func WriteItemsCSV(w io.Writer, header string, items []string) error {
	writer := csv.NewWriter(w)
	if err := writer.Write([]string{header}); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, item := range items {
		if err := writer.Write([]string{item}); err != nil {
			return fmt.Errorf("write item: %w", err)
		}
	}
	writer.Flush()
	return writer.Error()
}
