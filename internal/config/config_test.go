package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/HaukurPall/ruv-dl/internal/config"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadDefaultsWhenFileMissing(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.toml")
	cfg, resolved, exists, err := config.Load(missing)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if exists {
		t.Fatalf("expected exists=false for %s", resolved)
	}
	if cfg.Download.Quality != "1080p" {
		t.Errorf("default quality = %q", cfg.Download.Quality)
	}
	if cfg.Download.Workers != 2 {
		t.Errorf("default workers = %d", cfg.Download.Workers)
	}
	if !filepath.IsAbs(cfg.Paths.WorkDir) {
		t.Errorf("work dir not absolute: %q", cfg.Paths.WorkDir)
	}
}

func TestLoadDerivesPathsFromWorkDir(t *testing.T) {
	work := t.TempDir()
	path := writeConfig(t, "[paths]\nwork_dir = \""+work+"\"\n")

	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected config file to be found")
	}
	if cfg.Paths.DownloadDir != filepath.Join(work, "downloads") {
		t.Errorf("download dir = %q", cfg.Paths.DownloadDir)
	}
	if cfg.Paths.LedgerPath != filepath.Join(work, "downloaded.jsonl") {
		t.Errorf("ledger path = %q", cfg.Paths.LedgerPath)
	}
}

func TestLoadRejectsUnknownQuality(t *testing.T) {
	path := writeConfig(t, "[download]\nquality = \"4k\"\n")
	if _, _, _, err := config.Load(path); err == nil {
		t.Fatal("expected error for unknown quality tier")
	} else if !strings.Contains(err.Error(), "quality") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestLoadRejectsBadLogFormat(t *testing.T) {
	path := writeConfig(t, "[logging]\nformat = \"xml\"\n")
	if _, _, _, err := config.Load(path); err == nil {
		t.Fatal("expected error for unsupported log format")
	}
}

func TestEnsureDirectories(t *testing.T) {
	work := filepath.Join(t.TempDir(), "nested", "work")
	path := writeConfig(t, "[paths]\nwork_dir = \""+work+"\"\n")

	cfg, _, _, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories returned error: %v", err)
	}
	for _, dir := range []string{cfg.Paths.DownloadDir, cfg.Paths.OrganizedDir, cfg.Paths.LogDir} {
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			t.Errorf("expected directory %s: %v", dir, err)
		}
	}
}
