package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
)

// Config holds settings shared by the selfswitch tools.
type Config struct {
	DBPath     string `toml:"db_path" env:"SELFSWITCH_DB"`
	MapDir     string `toml:"map_dir" env:"SELFSWITCH_MAP_DIR"`
	CurrentMap int    `toml:"current_map" env:"SELFSWITCH_CURRENT_MAP"`
	ListenAddr string `toml:"listen_addr" env:"SELFSWITCH_LISTEN"`
	LogLevel   string `toml:"log_level" env:"SELFSWITCH_LOG_LEVEL"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		DBPath:     "selfswitch.db",
		MapDir:     "data",
		CurrentMap: 1,
		ListenAddr: "localhost:50061",
		LogLevel:   "info",
	}
}

// Load applies, in order, the defaults, the TOML file at path (skipped when
// path is empty) and SELFSWITCH_* environment variables.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		meta, err := toml.DecodeFile(path, &cfg)
		if err != nil {
			return Config{}, fmt.Errorf("decode config %s: %w", path, err)
		}
		if undecoded := meta.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, len(undecoded))
			for i, k := range undecoded {
				keys[i] = k.String()
			}
			return Config{}, fmt.Errorf("config %s: unknown keys: %s", path, strings.Join(keys, ", "))
		}
	}
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings the tools cannot run with.
func Validate(cfg Config) error {
	if strings.TrimSpace(cfg.DBPath) == "" {
		return errors.New("config: db_path is required")
	}
	if cfg.CurrentMap < 0 {
		return fmt.Errorf("config: current_map must be non-negative, got %d", cfg.CurrentMap)
	}
	return nil
}
