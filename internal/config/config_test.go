package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("missing config should not fail: %v", err)
	}
	if cfg.Practice.Randomize != nil || cfg.Log.Level != nil {
		t.Fatalf("expected empty config, got %+v", cfg)
	}
	if _, err := LoadConfig(""); err == nil {
		t.Fatalf("expected error for empty path")
	}
}

func TestLoadConfigSections(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := `
[practice]
randomize = false
mode = "tutor"

[dictionary]
timeout-seconds = 3

[log]
level = "debug"
`
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Practice.Randomize == nil || *cfg.Practice.Randomize {
		t.Fatalf("expected randomize=false, got %v", cfg.Practice.Randomize)
	}
	if got := StringOr(cfg.Practice.Mode, "student"); got != "tutor" {
		t.Fatalf("unexpected mode %q", got)
	}
	if cfg.Practice.ExcludeCorrect != nil {
		t.Fatalf("unset key should stay nil")
	}
	if cfg.Dictionary.TimeoutSeconds == nil || *cfg.Dictionary.TimeoutSeconds != 3 {
		t.Fatalf("unexpected timeout %v", cfg.Dictionary.TimeoutSeconds)
	}
	if got := StringOr(cfg.Storage.DB, "fallback.db"); got != "fallback.db" {
		t.Fatalf("unexpected db fallback %q", got)
	}
}

func TestLoadConfigRejectsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[practice]\nlang = \"en\"\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	_, err := LoadConfig(path)
	if err == nil || !strings.Contains(err.Error(), "practice.lang") {
		t.Fatalf("expected unknown key error, got %v", err)
	}
}

func TestDefaultPathsFollowXDG(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "cfg"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(dir, "state"))

	if got, want := DefaultConfigPath(), filepath.Join(dir, "cfg", "spellbee", "config.toml"); got != want {
		t.Fatalf("config path = %q, want %q", got, want)
	}
	if got, want := DefaultDBPath(), filepath.Join(dir, "data", "spellbee", "spellbee.db"); got != want {
		t.Fatalf("db path = %q, want %q", got, want)
	}
	if got, want := DefaultLogPath(), filepath.Join(dir, "state", "spellbee", "spellbee.log"); got != want {
		t.Fatalf("log path = %q, want %q", got, want)
	}
}
