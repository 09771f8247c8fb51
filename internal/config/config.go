package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	toml "github.com/pelletier/go-toml/v2"
)

// Config holds the settings atelier needs to reach the gateway.
type Config struct {
	APIBase        string
	UserID         int64
	RequestTimeout time.Duration
	CacheTTL       time.Duration
	PollInterval   time.Duration
	LogFile        string
}

const (
	defaultConfigPath     = "~/.config/atelier/config.toml"
	defaultLogFile        = "~/.local/state/atelier/atelier.log"
	defaultAPIBase        = "http://localhost:3000"
	defaultRequestTimeout = 10 * time.Second
	defaultCacheTTL       = 180 * time.Second
	defaultPollInterval   = 15 * time.Second

	envAPIBase = "ATELIER_API_BASE"
	envUserID  = "ATELIER_USER_ID"
	envLogFile = "ATELIER_LOG_FILE"

	dotenvFile = ".env"
)

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		APIBase:        defaultAPIBase,
		RequestTimeout: defaultRequestTimeout,
		CacheTTL:       defaultCacheTTL,
		PollInterval:   defaultPollInterval,
		LogFile:        mustExpand(defaultLogFile),
	}
}

// Load reads the TOML config at path (or the default path), falling back to
// defaults when the file is missing, then applies .env and environment
// overrides.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	raw, err := readFile(resolved)
	if err != nil {
		return Config{}, err
	}
	if raw != nil {
		cfg = merge(cfg, *raw)
	}

	if err := applyEnv(&cfg, envLookup(dotenvFile)); err != nil {
		return Config{}, err
	}
	cfg.LogFile = mustExpand(cfg.LogFile)
	return cfg, nil
}

type fileConfig struct {
	APIBase        string `toml:"api_base"`
	UserID         int64  `toml:"user_id"`
	RequestTimeout int    `toml:"request_timeout"`
	CacheTTL       int    `toml:"cache_ttl"`
	PollInterval   int    `toml:"poll_interval"`
	LogFile        string `toml:"log_file"`
}

func readFile(path string) (*fileConfig, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var raw fileConfig
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return &raw, nil
}

func merge(cfg Config, raw fileConfig) Config {
	if v := strings.TrimSpace(raw.APIBase); v != "" {
		cfg.APIBase = v
	}
	if raw.UserID > 0 {
		cfg.UserID = raw.UserID
	}
	if raw.RequestTimeout > 0 {
		cfg.RequestTimeout = time.Duration(raw.RequestTimeout) * time.Second
	}
	if raw.CacheTTL > 0 {
		cfg.CacheTTL = time.Duration(raw.CacheTTL) * time.Second
	}
	if raw.PollInterval > 0 {
		cfg.PollInterval = time.Duration(raw.PollInterval) * time.Second
	}
	if v := strings.TrimSpace(raw.LogFile); v != "" {
		cfg.LogFile = v
	}
	return cfg
}

// envLookup prefers the process environment and falls back to the dotenv
// file, which is read without touching os.Environ.
func envLookup(dotenvPath string) func(string) (string, bool) {
	fileVars, err := godotenv.Read(dotenvPath)
	if err != nil {
		fileVars = nil
	}
	return func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := fileVars[key]
		return v, ok
	}
}

func applyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	if v, ok := lookup(envAPIBase); ok && strings.TrimSpace(v) != "" {
		cfg.APIBase = strings.TrimSpace(v)
	}
	if v, ok := lookup(envUserID); ok && strings.TrimSpace(v) != "" {
		id, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return fmt.Errorf("parse %s: %w", envUserID, err)
		}
		cfg.UserID = id
	}
	if v, ok := lookup(envLogFile); ok && strings.TrimSpace(v) != "" {
		cfg.LogFile = strings.TrimSpace(v)
	}
	return nil
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
