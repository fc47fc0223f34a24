package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "selfswitch.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg != Default() {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
db_path = "/var/game/switches.db"
map_dir = "/var/game/data"
current_map = 4
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DBPath != "/var/game/switches.db" || cfg.MapDir != "/var/game/data" || cfg.CurrentMap != 4 {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if cfg.LogLevel != "info" {
		t.Fatalf("expected default log level kept, got %q", cfg.LogLevel)
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, `current_map = 4
log_level = "warn"`)
	t.Setenv("SELFSWITCH_CURRENT_MAP", "9")
	t.Setenv("SELFSWITCH_LISTEN", ":7000")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.CurrentMap != 9 || cfg.ListenAddr != ":7000" || cfg.LogLevel != "warn" {
		t.Fatalf("unexpected config %+v", cfg)
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	path := writeConfig(t, `db_path = "x.db"
dbpath = "typo.db"`)
	_, err := Load(path)
	if err == nil || !strings.Contains(err.Error(), "dbpath") {
		t.Fatalf("expected unknown key error, got %v", err)
	}
}

func TestLoadRejectsBadEnv(t *testing.T) {
	t.Setenv("SELFSWITCH_CURRENT_MAP", "first")
	if _, err := Load(""); err == nil {
		t.Fatal("expected env parse error")
	}
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.DBPath = " "
	if err := Validate(cfg); err == nil {
		t.Fatal("expected error for empty db path")
	}
	cfg = Default()
	cfg.CurrentMap = -1
	if err := Validate(cfg); err == nil {
		t.Fatal("expected error for negative current map")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.toml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
