package testsupport

import (
	"testing"

	"darkroom/internal/catalog"
	"darkroom/internal/config"
)

// MustOpenCatalog opens the catalog named by cfg and registers cleanup.
func MustOpenCatalog(t testing.TB, cfg *config.Config) *catalog.Store {
	t.Helper()

	store, err := catalog.Open(cfg.Paths.Catalog)
	if err != nil {
		t.Fatalf("catalog.Open: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}
