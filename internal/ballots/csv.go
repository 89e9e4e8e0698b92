package ballots

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"traitvote/internal/consensus"
	"traitvote/internal/textutil"
)

// ReadSourceCSV reads one source's votes from a CSV with a header row. Rows
// with a blank item are skipped; a blank label is kept and later treated as an
// abstention.
func ReadSourceCSV(r io.Reader, itemColumn, labelColumn string) (map[string]string, error) {
	rows, err := readAll(r)
	if err != nil {
		return nil, err
	}
	header := rows[0]
	itemIdx := findColumn(header, itemColumn)
	if itemIdx < 0 {
		return nil, fmt.Errorf("%w: %q", ErrMissingColumn, itemColumn)
	}
	labelIdx := findColumn(header, labelColumn)
	if labelIdx < 0 {
		return nil, fmt.Errorf("%w: %q", ErrMissingColumn, labelColumn)
	}

	votes := make(map[string]string, len(rows)-1)
	for line, row := range rows[1:] {
		item := cell(row, itemIdx)
		if item == "" {
			continue
		}
		label := cell(row, labelIdx)
		if prev, ok := votes[item]; ok && prev != label {
			return nil, fmt.Errorf("%w: row %d labels %q as %q, earlier row said %q",
				ErrConflictingVote, line+2, item, label, prev)
		}
		votes[item] = label
	}
	return votes, nil
}

// ReadWideCSV reads a table with an item column and one column per source.
// Source names come from the header and are sanitized like panel members.
func ReadWideCSV(r io.Reader, itemColumn string) (consensus.SourceLabels, error) {
	rows, err := readAll(r)
	if err != nil {
		return nil, err
	}
	header := rows[0]
	itemIdx := findColumn(header, itemColumn)
	if itemIdx < 0 {
		return nil, fmt.Errorf("%w: %q", ErrMissingColumn, itemColumn)
	}

	labels := make(consensus.SourceLabels)
	sources := make(map[int]string)
	for i, name := range header {
		if i == itemIdx || cleanCell(name) == "" {
			continue
		}
		source := textutil.SanitizeToken(name)
		if _, dup := labels[source]; dup {
			return nil, fmt.Errorf("source column %q appears more than once", source)
		}
		sources[i] = source
		labels[source] = make(map[string]string)
	}

	for line, row := range rows[1:] {
		item := cell(row, itemIdx)
		if item == "" {
			continue
		}
		for i, source := range sources {
			label := cell(row, i)
			if label == "" {
				continue
			}
			if prev, ok := labels[source][item]; ok && prev != label {
				return nil, fmt.Errorf("%w: row %d labels %q as %q for %s, earlier row said %q",
					ErrConflictingVote, line+2, item, label, source, prev)
			}
			labels[source][item] = label
		}
	}
	return labels, nil
}

// ReadItemsCSV returns the first column of every row after the header.
func ReadItemsCSV(r io.Reader) ([]string, error) {
	rows, err := readAll(r)
	if err != nil {
		return nil, err
	}
	items := make([]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if len(row) == 0 {
			continue
		}
		items = append(items, row[0])
	}
	return items, nil
}

func readAll(r io.Reader) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	if len(rows) == 0 {
		return nil, errors.New("read csv: empty file")
	}
	return rows, nil
}

func cleanCell(v string) string {
	v = strings.TrimPrefix(v, "\ufeff")
	return strings.TrimSpace(v)
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return cleanCell(row[idx])
}

func findColumn(header []string, name string) int {
	for i, col := range header {
		if strings.EqualFold(cleanCell(col), name) {
			return i
		}
	}
	return -1
}
