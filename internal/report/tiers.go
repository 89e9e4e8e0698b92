package report

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"traitvote/internal/consensus"
)

// TierColumn is the parsed tier column of a verdict file. Rows counts every
// data row, including rows whose tier cell is empty.
type TierColumn struct {
	Tiers []consensus.Tier
	Rows  int
}

// Summarize tallies the column; unflagged rows count toward the total only.
func (c TierColumn) Summarize() (consensus.Summary, error) {
	return consensus.SummarizeRows(c.Tiers, c.Rows)
}

// ReadTierColumn reads a verdict CSV and parses the tier held in column.
// Rows with an empty tier cell carry no tier but are still counted; unknown
// values are an error.
func ReadTierColumn(r io.Reader, column string) (TierColumn, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return TierColumn{}, errors.New("read verdicts: empty file")
	}
	if err != nil {
		return TierColumn{}, fmt.Errorf("read verdicts: %w", err)
	}
	idx := -1
	for i, name := range header {
		if strings.EqualFold(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")), column) {
			idx = i
			break
		}
	}
	if idx < 0 {
		return TierColumn{}, fmt.Errorf("read verdicts: column %q not found", column)
	}

	var col TierColumn
	for line := 2; ; line++ {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return TierColumn{}, fmt.Errorf("read verdicts: %w", err)
		}
		col.Rows++
		if idx >= len(row) || strings.TrimSpace(row[idx]) == "" {
			continue
		}
		tier, err := consensus.ParseTier(row[idx])
		if err != nil {
			return TierColumn{}, fmt.Errorf("read verdicts: line %d: %w", line, err)
		}
		col.Tiers = append(col.Tiers, tier)
	}
	return col, nil
}
