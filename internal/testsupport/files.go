package testsupport

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// WriteFile writes content to path, creating parent directories as needed.
func WriteFile(t testing.TB, path, content string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// WriteBallot writes a two-column ballot CSV for one source into dir and
// returns its path. Each row is an item and label pair.
func WriteBallot(t testing.TB, dir, source, itemColumn, labelColumn string, rows [][2]string) string {
	t.Helper()

	var b strings.Builder
	b.WriteString(itemColumn + "," + labelColumn + "\n")
	for _, row := range rows {
		b.WriteString(row[0] + "," + row[1] + "\n")
	}
	path := filepath.Join(dir, source+".csv")
	WriteFile(t, path, b.String())
	return path
}

// ReadFile returns the content at path or fails the test.
func ReadFile(t testing.TB, path string) string {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}
