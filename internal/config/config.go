package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds the runtime settings for slumber.
type Config struct {
	DeviceBind    string
	Storage       string
	StoragePath   string
	LogPath       string
	DeviceTimeout time.Duration
	FetchAttempts int
	PollInterval  time.Duration
	Appearance    string
}

const (
	defaultConfigPath    = "~/.config/slumber/config.toml"
	defaultDeviceBind    = "127.0.0.1:8765"
	defaultStorage       = "file"
	defaultLogPath       = "~/.local/share/slumber/slumber.log"
	defaultDeviceTimeout = 10 * time.Second
	defaultFetchAttempts = 3
	defaultPollInterval  = 5 * time.Minute
)

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		DeviceBind:    defaultDeviceBind,
		Storage:       defaultStorage,
		LogPath:       mustExpand(defaultLogPath),
		DeviceTimeout: defaultDeviceTimeout,
		FetchAttempts: defaultFetchAttempts,
		PollInterval:  defaultPollInterval,
	}
}

type rawConfig struct {
	DeviceBind           string `toml:"device_bind"`
	Storage              string `toml:"storage"`
	StoragePath          string `toml:"storage_path"`
	LogPath              string `toml:"log_path"`
	DeviceTimeoutSeconds int    `toml:"device_timeout_seconds"`
	FetchAttempts        int    `toml:"fetch_attempts"`
	PollSeconds          int    `toml:"poll_seconds"`
	Appearance           string `toml:"appearance"`
}

// Load locates and parses the config file, falling back to defaults when missing.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw rawConfig
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	return raw.resolve()
}

func (raw rawConfig) resolve() (Config, error) {
	cfg := Default()

	if v := strings.TrimSpace(raw.DeviceBind); v != "" {
		cfg.DeviceBind = v
	}

	if v := strings.ToLower(strings.TrimSpace(raw.Storage)); v != "" {
		switch v {
		case "file", "sqlite":
			cfg.Storage = v
		default:
			return Config{}, fmt.Errorf("storage %q: must be file or sqlite", raw.Storage)
		}
	}

	if v := strings.TrimSpace(raw.StoragePath); v != "" {
		expanded, err := expandPath(v)
		if err != nil {
			return Config{}, fmt.Errorf("storage_path: %w", err)
		}
		cfg.StoragePath = expanded
	}

	if v := strings.TrimSpace(raw.LogPath); v != "" {
		expanded, err := expandPath(v)
		if err != nil {
			return Config{}, fmt.Errorf("log_path: %w", err)
		}
		cfg.LogPath = expanded
	}

	if raw.DeviceTimeoutSeconds > 0 {
		cfg.DeviceTimeout = time.Duration(raw.DeviceTimeoutSeconds) * time.Second
	}
	if raw.FetchAttempts > 0 {
		cfg.FetchAttempts = raw.FetchAttempts
	}
	if raw.PollSeconds > 0 {
		cfg.PollInterval = time.Duration(raw.PollSeconds) * time.Second
	}

	switch v := strings.ToLower(strings.TrimSpace(raw.Appearance)); v {
	case "", "light", "dark":
		cfg.Appearance = v
	default:
		return Config{}, fmt.Errorf("appearance %q: must be light, dark, or empty", raw.Appearance)
	}

	return cfg, nil
}

// LogDir returns the directory holding the log file.
func (c Config) LogDir() string {
	if strings.TrimSpace(c.LogPath) == "" {
		return filepath.Dir(mustExpand(defaultLogPath))
	}
	return filepath.Dir(c.LogPath)
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
