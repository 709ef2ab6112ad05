package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Engine.MaxErrors != 2 || cfg.Engine.TwoWordErrors != 1 {
		t.Errorf("default edit budgets = %d/%d, want 2/1", cfg.Engine.MaxErrors, cfg.Engine.TwoWordErrors)
	}
	if !cfg.Engine.EnableSplit || !cfg.Engine.EnableCompletion {
		t.Error("split and completion should default on")
	}
	if cfg.Proximity.GridWidth != 32 || cfg.Proximity.GridHeight != 16 {
		t.Errorf("default grid = %dx%d, want 32x16", cfg.Proximity.GridWidth, cfg.Proximity.GridHeight)
	}
}

func TestSaveAndLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	cfg := DefaultConfig()
	cfg.Engine.MaxErrors = 3
	cfg.Engine.EnableSplit = false
	cfg.Server.DefaultLimit = 7
	if err := SaveConfig(cfg, path); err != nil {
		t.Fatalf("SaveConfig: %v", err)
	}

	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if loaded.Engine.MaxErrors != 3 {
		t.Errorf("loaded max_errors = %d, want 3", loaded.Engine.MaxErrors)
	}
	if loaded.Engine.EnableSplit {
		t.Error("loaded enable_split should be false")
	}
	if loaded.Server.DefaultLimit != 7 {
		t.Errorf("loaded default_limit = %d, want 7", loaded.Server.DefaultLimit)
	}
}

func TestInitConfigCreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.toml")

	cfg, err := InitConfig(path)
	if err != nil {
		t.Fatalf("InitConfig: %v", err)
	}
	if cfg.Engine.MaxErrors != 2 {
		t.Errorf("created config max_errors = %d, want default 2", cfg.Engine.MaxErrors)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("config file not created: %v", err)
	}
}

func TestLoadConfigPartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := "[engine]\nmax_errors = 5\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Engine.MaxErrors != 5 {
		t.Errorf("max_errors = %d, want 5", cfg.Engine.MaxErrors)
	}
	// Missing sections fall back to defaults.
	if cfg.Proximity.GridWidth != 32 {
		t.Errorf("grid_width = %d, want default 32", cfg.Proximity.GridWidth)
	}
}

func TestLoadConfigGarbageFallsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("not toml at all {{{"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig on garbage: %v", err)
	}
	if cfg.Engine.MaxErrors != 2 {
		t.Errorf("garbage config should fall back to defaults, got max_errors = %d", cfg.Engine.MaxErrors)
	}
}

func TestUpdatePersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	cfg := DefaultConfig()

	maxErrors := 1
	enableSplit := false
	if err := cfg.Update(path, &maxErrors, nil, &enableSplit, nil); err != nil {
		t.Fatalf("Update: %v", err)
	}

	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if loaded.Engine.MaxErrors != 1 || loaded.Engine.EnableSplit {
		t.Errorf("persisted config = %+v", loaded.Engine)
	}
}
