package config

import (
	"os"
	"path/filepath"
	"testing"
)

func setupDataDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_DATA_HOME", dir)
	t.Setenv("TASKDECK_STATE", "")
	t.Setenv("TASKDECK_LOG", "")
	t.Setenv("TASKDECK_LOG_LEVEL", "")
	t.Setenv("TASKDECK_AUTOSAVE_MS", "")
	return dir
}

func TestLoad_Defaults(t *testing.T) {
	dir := setupDataDir(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	want := filepath.Join(dir, "taskdeck", "state.json")
	if cfg.StatePath != want {
		t.Errorf("StatePath = %q, want %q", cfg.StatePath, want)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want info", cfg.LogLevel)
	}
	if cfg.AutoSaveIntervalMS != 30000 {
		t.Errorf("AutoSaveIntervalMS = %d, want 30000", cfg.AutoSaveIntervalMS)
	}

	if _, err := os.Stat(filepath.Join(dir, "taskdeck")); err != nil {
		t.Errorf("data directory was not created: %v", err)
	}
}

func TestLoad_File(t *testing.T) {
	setupDataDir(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	data := "state_path: /tmp/custom.json\nlog_level: debug\nautosave_interval_ms: 5000\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.StatePath != "/tmp/custom.json" {
		t.Errorf("StatePath = %q", cfg.StatePath)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q", cfg.LogLevel)
	}
	if cfg.AutoSaveIntervalMS != 5000 {
		t.Errorf("AutoSaveIntervalMS = %d", cfg.AutoSaveIntervalMS)
	}
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	setupDataDir(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("missing file must not fail: %v", err)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want info", cfg.LogLevel)
	}
}

func TestLoad_BadYAML(t *testing.T) {
	setupDataDir(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("state_path: [unclosed"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); err == nil {
		t.Error("expected error for malformed config")
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	setupDataDir(t)
	t.Setenv("TASKDECK_STATE", "/tmp/env.json")
	t.Setenv("TASKDECK_LOG_LEVEL", "warn")
	t.Setenv("TASKDECK_AUTOSAVE_MS", "1500")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.StatePath != "/tmp/env.json" {
		t.Errorf("StatePath = %q", cfg.StatePath)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("LogLevel = %q", cfg.LogLevel)
	}
	if cfg.AutoSaveIntervalMS != 1500 {
		t.Errorf("AutoSaveIntervalMS = %d", cfg.AutoSaveIntervalMS)
	}
}

func TestLoad_NonPositiveIntervalFallsBack(t *testing.T) {
	setupDataDir(t)
	t.Setenv("TASKDECK_AUTOSAVE_MS", "-1")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.AutoSaveIntervalMS != 30000 {
		t.Errorf("AutoSaveIntervalMS = %d, want fallback 30000", cfg.AutoSaveIntervalMS)
	}
}
