package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Config holds the user settings read from config.toml.
type Config struct {
	ClaudeRoot  string `toml:"claude_root"`
	HistoryFile string `toml:"history_file"`
	Workers     int    `toml:"workers"`
	LogLevel    string `toml:"log_level"`
	Editor      string `toml:"editor"`
}

// DefaultPath returns ~/.config/hist/config.toml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "hist", "config.toml"), nil
}

// Default returns the settings used when no config file exists.
func Default(home string) *Config {
	return &Config{
		ClaudeRoot:  filepath.Join(home, ".claude", "projects"),
		HistoryFile: filepath.Join(home, ".claude", "history.jsonl"),
		Workers:     1,
		LogLevel:    "warn",
	}
}

// Load reads the config at path over the defaults. An empty path means the
// default location, which may be absent; an explicit path must exist.
func Load(path string) (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	return load(path, home)
}

func load(path, home string) (*Config, error) {
	cfg := Default(home)

	explicit := path != ""
	if !explicit {
		path = filepath.Join(home, ".config", "hist", "config.toml")
	}
	path = expandHome(path, home)

	if _, err := os.Stat(path); err == nil {
		md, err := toml.DecodeFile(path, cfg)
		if err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, fmt.Errorf("parse config %s: unknown key %q", path, undecoded[0].String())
		}
	} else if explicit {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}

	// expand ~ in paths
	cfg.ClaudeRoot = expandHome(cfg.ClaudeRoot, home)
	cfg.HistoryFile = expandHome(cfg.HistoryFile, home)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks values that would otherwise fail later and obscurely.
func (c *Config) Validate() error {
	if c.Workers < 0 {
		return errors.New("workers must not be negative")
	}
	switch strings.ToLower(c.LogLevel) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("unknown log_level %q", c.LogLevel)
	}
	return nil
}

// EditorCommand returns the editor to open files with: the configured one,
// then $EDITOR, then less.
func (c *Config) EditorCommand() string {
	if c.Editor != "" {
		return c.Editor
	}
	if e := os.Getenv("EDITOR"); e != "" {
		return e
	}
	return "less"
}

func expandHome(path, home string) string {
	if path == "~" {
		return home
	}
	if len(path) > 1 && path[0] == '~' && path[1] == '/' {
		return filepath.Join(home, path[2:])
	}
	return path
}
