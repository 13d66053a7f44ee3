package testsupport

import (
	"testing"

	"reelsmith/internal/config"
	"reelsmith/internal/library"
)

// MustOpenLibrary opens the catalog configured for cfg and closes it on cleanup.
func MustOpenLibrary(t testing.TB, cfg *config.Config) *library.Store {
	t.Helper()
	store, err := library.Open(cfg.Paths.LibraryPath)
	if err != nil {
		t.Fatalf("library.Open: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}
