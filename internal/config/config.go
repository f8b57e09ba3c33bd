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

// Config captures the settings recipebox reads from its TOML file.
type Config struct {
	APIURL         string
	TokenFile      string
	PrefsFile      string
	LogFile        string
	LogLevel       string
	Theme          string
	SearchDebounce time.Duration
	RequestTimeout time.Duration
}

// EnvAPIURL overrides api_url when set.
const EnvAPIURL = "RECIPEBOX_API_URL"

const (
	defaultConfigPath     = "~/.config/recipebox/config.toml"
	defaultAPIURL         = "http://127.0.0.1:8000"
	defaultTokenFile      = "~/.config/recipebox/session.toml"
	defaultPrefsFile      = "~/.config/recipebox/prefs.toml"
	defaultLogFile        = "~/.local/state/recipebox/recipebox.log"
	defaultLogLevel       = "info"
	defaultTheme          = "Nightfox"
	defaultSearchDebounce = 300 * time.Millisecond
	defaultRequestTimeout = 10 * time.Second
)

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		APIURL:         defaultAPIURL,
		TokenFile:      mustExpand(defaultTokenFile),
		PrefsFile:      mustExpand(defaultPrefsFile),
		LogFile:        mustExpand(defaultLogFile),
		LogLevel:       defaultLogLevel,
		Theme:          defaultTheme,
		SearchDebounce: defaultSearchDebounce,
		RequestTimeout: defaultRequestTimeout,
	}
}

// DefaultPath returns the config location used when none is given.
func DefaultPath() string {
	return mustExpand(defaultConfigPath)
}

// Load locates and parses the recipebox config, falling back to defaults when missing.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			applyEnv(&cfg)
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		APIURL                string `toml:"api_url"`
		TokenFile             string `toml:"token_file"`
		PrefsFile             string `toml:"prefs_file"`
		LogFile               string `toml:"log_file"`
		LogLevel              string `toml:"log_level"`
		Theme                 string `toml:"theme"`
		SearchDebounceMS      int    `toml:"search_debounce_ms"`
		RequestTimeoutSeconds int    `toml:"request_timeout_seconds"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if v := strings.TrimSpace(raw.APIURL); v != "" {
		cfg.APIURL = v
	}
	if v := strings.TrimSpace(raw.TokenFile); v != "" {
		cfg.TokenFile = mustExpand(v)
	}
	if v := strings.TrimSpace(raw.PrefsFile); v != "" {
		cfg.PrefsFile = mustExpand(v)
	}
	if v := strings.TrimSpace(raw.LogFile); v != "" {
		cfg.LogFile = mustExpand(v)
	}
	if v := strings.TrimSpace(raw.LogLevel); v != "" {
		cfg.LogLevel = strings.ToLower(v)
	}
	if v := strings.TrimSpace(raw.Theme); v != "" {
		cfg.Theme = v
	}
	if raw.SearchDebounceMS > 0 {
		cfg.SearchDebounce = time.Duration(raw.SearchDebounceMS) * time.Millisecond
	}
	if raw.RequestTimeoutSeconds > 0 {
		cfg.RequestTimeout = time.Duration(raw.RequestTimeoutSeconds) * time.Second
	}

	applyEnv(&cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv(EnvAPIURL)); v != "" {
		cfg.APIURL = v
	}
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
