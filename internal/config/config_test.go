package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadDefaultsWhenFileMissing(t *testing.T) {
	cfg, path, exists, err := Load(filepath.Join(t.TempDir(), "config.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if exists {
		t.Fatalf("expected missing file, got exists for %s", path)
	}
	if cfg.Sampling.DefaultSeed != DefaultSeed {
		t.Errorf("default seed = %d, want %d", cfg.Sampling.DefaultSeed, DefaultSeed)
	}
	if cfg.Logging.Format != "console" || cfg.Logging.Level != "info" {
		t.Errorf("unexpected logging defaults: %+v", cfg.Logging)
	}
	if !cfg.Materialize.CheckFreeSpace {
		t.Error("check_free_space should default on")
	}
	if !filepath.IsAbs(cfg.Paths.LedgerDir) {
		t.Errorf("ledger dir not absolute: %q", cfg.Paths.LedgerDir)
	}
}

func TestLoadParsesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := strings.Join([]string{
		"[paths]",
		`ledger_dir = "` + filepath.Join(dir, "ledger") + `"`,
		`log_dir = "` + filepath.Join(dir, "logs") + `"`,
		"[sampling]",
		"default_seed = 7",
		"strict = true",
		"[materialize]",
		"copy_only = true",
		"[logging]",
		`format = "json"`,
		`level = "debug"`,
	}, "\n")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !exists || resolved != path {
		t.Fatalf("resolved = %q exists = %v", resolved, exists)
	}
	if cfg.Sampling.DefaultSeed != 7 || !cfg.Sampling.Strict {
		t.Errorf("sampling section not applied: %+v", cfg.Sampling)
	}
	if !cfg.Materialize.CopyOnly {
		t.Error("materialize.copy_only not applied")
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "debug" {
		t.Errorf("logging section not applied: %+v", cfg.Logging)
	}
}

func TestLoadRejectsBadLogging(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[logging]\nformat = \"xml\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, _, _, err := Load(path); err == nil {
		t.Fatal("expected validation error for bad format")
	}
}

func TestLoadRejectsNegativeSeed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[sampling]\ndefault_seed = -1\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, _, _, err := Load(path); err == nil {
		t.Fatal("expected validation error for negative seed")
	}
}

func TestEnsureDirectories(t *testing.T) {
	dir := t.TempDir()
	cfg := Default()
	cfg.Paths.LedgerDir = filepath.Join(dir, "ledger")
	cfg.Paths.LogDir = filepath.Join(dir, "logs")

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}
	for _, d := range []string{cfg.Paths.LedgerDir, cfg.Paths.LogDir} {
		info, err := os.Stat(d)
		if err != nil || !info.IsDir() {
			t.Errorf("directory %s missing after EnsureDirectories", d)
		}
	}
}

func TestCreateSampleParsesBackCleanly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	if _, _, _, err := Load(path); err != nil {
		t.Fatalf("sample config does not load: %v", err)
	}
}

func TestExpandPathHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("no home dir: %v", err)
	}
	got, err := ExpandPath("~/datasets")
	if err != nil {
		t.Fatalf("ExpandPath: %v", err)
	}
	if got != filepath.Join(home, "datasets") {
		t.Errorf("ExpandPath = %q", got)
	}
}
