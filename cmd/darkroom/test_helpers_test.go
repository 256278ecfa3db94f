package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"darkroom/internal/catalog"
	"darkroom/internal/config"
	"darkroom/internal/photos"
	"darkroom/internal/testsupport"
)

type cliTestEnv struct {
	cfg        *config.Config
	lib        *testsupport.Library
	configPath string
	dest       string
}

func setupCLITestEnv(t *testing.T, gen photos.Generation) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	t.Setenv("HOME", filepath.Join(base, "home"))
	t.Setenv("DARKROOM_LIBRARY", "")

	cfg := testsupport.NewConfig(t)
	configPath := filepath.Join(base, "config.toml")
	writeTestConfig(t, configPath, cfg)

	dest := filepath.Join(base, "out")
	if err := os.MkdirAll(dest, 0o755); err != nil {
		t.Fatalf("mkdir dest: %v", err)
	}

	return &cliTestEnv{
		cfg:        cfg,
		lib:        testsupport.NewLibrary(t, gen),
		configPath: configPath,
		dest:       dest,
	}
}

// seed records the library context and assets in the env's catalog. The
// store is closed before returning so the CLI opens it fresh.
func (e *cliTestEnv) seed(t *testing.T, assets ...*photos.AssetRecord) {
	t.Helper()
	store, err := catalog.Open(e.cfg.Paths.Catalog)
	if err != nil {
		t.Fatalf("catalog.Open: %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.SetLibrary(ctx, e.lib.Context); err != nil {
		t.Fatalf("SetLibrary: %v", err)
	}
	for _, asset := range assets {
		if err := store.Put(ctx, asset); err != nil {
			t.Fatalf("Put %s: %v", asset.UUID, err)
		}
	}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	data, err := cfg.Encode()
	if err != nil {
		t.Fatalf("encode config: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
