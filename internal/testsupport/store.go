package testsupport

import (
	"testing"

	"traitvote/internal/config"
	"traitvote/internal/runstore"
)

// MustOpenStore opens a runstore.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *runstore.Store {
	t.Helper()

	store, err := runstore.Open(cfg.History.Path)
	if err != nil {
		t.Fatalf("runstore.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}
