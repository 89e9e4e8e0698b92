package ballots

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"traitvote/internal/consensus"
	"traitvote/internal/textutil"
)

// LoadSourceDir reads every <source>.csv and <source>.json file in dir. CSV
// files use the phase's item and label columns; JSON files hold a flat
// {"item": "label"} object. The source name is the sanitized file stem.
func LoadSourceDir(dir string, phase consensus.Phase) (consensus.SourceLabels, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read ballot dir: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(entry.Name())) {
		case ".csv", ".json":
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)
	if len(names) == 0 {
		return nil, fmt.Errorf("no .csv or .json ballot files in %s", dir)
	}

	labels := make(consensus.SourceLabels, len(names))
	origin := make(map[string]string, len(names))
	for _, name := range names {
		stem := strings.TrimSuffix(name, filepath.Ext(name))
		source := textutil.SanitizeToken(stem)
		if prev, dup := origin[source]; dup {
			return nil, fmt.Errorf("ballot files %s and %s both map to source %q", prev, name, source)
		}
		origin[source] = name

		votes, err := loadSourceFile(filepath.Join(dir, name), phase)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		labels[source] = votes
	}
	return labels, nil
}

func loadSourceFile(path string, phase consensus.Phase) (map[string]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	if strings.EqualFold(filepath.Ext(path), ".json") {
		var raw map[string]string
		if err := json.NewDecoder(file).Decode(&raw); err != nil {
			return nil, fmt.Errorf("decode json: %w", err)
		}
		votes := make(map[string]string, len(raw))
		for item, label := range raw {
			item = cleanCell(item)
			if item == "" {
				continue
			}
			votes[item] = cleanCell(label)
		}
		return votes, nil
	}
	return ReadSourceCSV(file, phase.ItemColumn(), phase.LabelColumn())
}

// LoadWideFile opens path and reads it with ReadWideCSV.
func LoadWideFile(path string, phase consensus.Phase) (consensus.SourceLabels, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", filepath.Base(path), err)
	}
	defer file.Close()
	labels, err := ReadWideCSV(file, phase.ItemColumn())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return labels, nil
}
