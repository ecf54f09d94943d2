package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

const (
	DefaultShell           = "/bin/sh"
	DefaultKillSignal      = "SIGKILL"
	DefaultDetailLines     = 100
	DefaultListLines       = 10
	DefaultInboxSize       = 100
	DefaultShutdownTimeout = 5 * time.Second

	envShell           = "BGPROC_SHELL"
	envKillSignal      = "BGPROC_KILL_SIGNAL"
	envHistoryPath     = "BGPROC_HISTORY_PATH"
	envShutdownTimeout = "BGPROC_SHUTDOWN_TIMEOUT"
	envDesktopNotify   = "BGPROC_DESKTOP_NOTIFY"
)

// Config holds the daemon's tunables.
type Config struct {
	Shell           string
	KillSignal      string
	DetailLines     int
	ListLines       int
	InboxSize       int
	DesktopNotify   bool
	HistoryPath     string // empty disables the event history
	ShutdownTimeout time.Duration
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Shell:           DefaultShell,
		KillSignal:      DefaultKillSignal,
		DetailLines:     DefaultDetailLines,
		ListLines:       DefaultListLines,
		InboxSize:       DefaultInboxSize,
		ShutdownTimeout: DefaultShutdownTimeout,
	}
}

// Load builds a Config from an optional file plus environment overrides.
// The file format follows its extension: .json, .toml, .yaml or .yml.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		raw, err := loadFromFile(path)
		if err != nil {
			return cfg, fmt.Errorf("load config %s: %w", path, err)
		}
		if err := raw.apply(&cfg); err != nil {
			return cfg, fmt.Errorf("load config %s: %w", path, err)
		}
	}

	applyEnvOverrides(&cfg)
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv(envShell); v != "" {
		cfg.Shell = v
	}
	if v := os.Getenv(envKillSignal); v != "" {
		cfg.KillSignal = v
	}
	if v, ok := os.LookupEnv(envHistoryPath); ok {
		cfg.HistoryPath = v
	}
	if v := os.Getenv(envShutdownTimeout); v != "" {
		if dur, err := time.ParseDuration(v); err == nil && dur > 0 {
			cfg.ShutdownTimeout = dur
		} else {
			log.Printf("invalid %s value %q: must be a positive duration", envShutdownTimeout, v)
		}
	}
	if v := os.Getenv(envDesktopNotify); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.DesktopNotify = b
		} else {
			log.Printf("invalid %s value %q: %v", envDesktopNotify, v, err)
		}
	}
}

type fileConfig struct {
	Shell           string `json:"shell" toml:"shell" yaml:"shell"`
	KillSignal      string `json:"kill_signal" toml:"kill_signal" yaml:"kill_signal"`
	DetailLines     int    `json:"detail_lines" toml:"detail_lines" yaml:"detail_lines"`
	ListLines       int    `json:"list_lines" toml:"list_lines" yaml:"list_lines"`
	InboxSize       int    `json:"inbox_size" toml:"inbox_size" yaml:"inbox_size"`
	DesktopNotify   *bool  `json:"desktop_notify" toml:"desktop_notify" yaml:"desktop_notify"`
	HistoryPath     string `json:"history_path" toml:"history_path" yaml:"history_path"`
	ShutdownTimeout string `json:"shutdown_timeout" toml:"shutdown_timeout" yaml:"shutdown_timeout"`
}

func loadFromFile(path string) (fileConfig, error) {
	var raw fileConfig

	data, err := os.ReadFile(path)
	if err != nil {
		return raw, err
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json", "":
		err = json.Unmarshal(data, &raw)
	case ".toml":
		_, err = toml.Decode(string(data), &raw)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &raw)
	default:
		return raw, fmt.Errorf("unsupported config format %q", ext)
	}
	return raw, err
}

func (raw fileConfig) apply(cfg *Config) error {
	if raw.Shell != "" {
		cfg.Shell = raw.Shell
	}
	if raw.KillSignal != "" {
		cfg.KillSignal = raw.KillSignal
	}
	if raw.DetailLines < 0 || raw.ListLines < 0 || raw.InboxSize < 0 {
		return errors.New("detail_lines, list_lines and inbox_size must be >= 0")
	}
	if raw.DetailLines > 0 {
		cfg.DetailLines = raw.DetailLines
	}
	if raw.ListLines > 0 {
		cfg.ListLines = raw.ListLines
	}
	if raw.InboxSize > 0 {
		cfg.InboxSize = raw.InboxSize
	}
	if raw.DesktopNotify != nil {
		cfg.DesktopNotify = *raw.DesktopNotify
	}
	if raw.HistoryPath != "" {
		cfg.HistoryPath = raw.HistoryPath
	}
	if raw.ShutdownTimeout != "" {
		dur, err := time.ParseDuration(raw.ShutdownTimeout)
		if err != nil {
			return fmt.Errorf("parse shutdown_timeout: %w", err)
		}
		if dur <= 0 {
			return errors.New("shutdown_timeout must be > 0")
		}
		cfg.ShutdownTimeout = dur
	}
	return nil
}
