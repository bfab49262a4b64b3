package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/BurntSushi/toml"
)

// Load reads configuration from standard locations with environment overrides.
// Search order: ~/.ttyrewrc, $XDG_CONFIG_HOME/ttyrew/config.toml,
// ~/.config/ttyrew/config.toml
func Load() (*Config, error) {
	cfg := Default()

	// Try loading from file. Decoding over the defaults keeps values
	// the file does not mention.
	path := findConfigFile()
	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, err
		}
	}

	cfg.ApplyDefaults()
	applyEnvOverrides(cfg)

	return cfg, nil
}

// LoadFrom reads configuration from a specific file path.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, err
	}
	cfg.ApplyDefaults()
	applyEnvOverrides(cfg)
	return cfg, nil
}

// findConfigFile returns the first existing config file path.
func findConfigFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	paths := []string{
		filepath.Join(home, ".ttyrewrc"),
	}

	// XDG_CONFIG_HOME or default
	xdgConfig := os.Getenv("XDG_CONFIG_HOME")
	if xdgConfig == "" {
		xdgConfig = filepath.Join(home, ".config")
	}
	paths = append(paths, filepath.Join(xdgConfig, "ttyrew", "config.toml"))

	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}

// applyEnvOverrides applies environment variable overrides to the config.
func applyEnvOverrides(cfg *Config) {
	// Playback
	if v := os.Getenv("TTYREW_TIMESTEP_US"); v != "" {
		if i, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.Playback.TimestepUS = i
		}
	}
	if v := os.Getenv("TTYREW_TIMECAP"); v != "" {
		cfg.Playback.Timecap = v
	}
	if v := os.Getenv("TTYREW_SPEED"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Playback.Speed = f
		}
	}

	// Terminal
	if v := os.Getenv("TTYREW_ENCODING"); v != "" {
		cfg.Terminal.Encoding = v
	}

	// UI
	if v := os.Getenv("TTYREW_UI"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.UI.Enabled = b
		}
	}

	// Log
	if v := os.Getenv("TTYREW_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("TTYREW_LOG_FILE"); v != "" {
		cfg.Log.File = v
	}
}
