package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{envAPIBase, envUserID, envLogFile} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
	{
		dir := t.TempDir()
		wd, err := os.Getwd()
		if err != nil {
			t.Fatal(err)
		}
		if err := os.Chdir(dir); err != nil {
			t.Fatal(err)
		}
		t.Cleanup(func() { _ = os.Chdir(wd) })
	}
}

func TestLoad_MissingConfigFallsBackToDefaults(t *testing.T) {
	clearEnv(t)
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, err := Load(filepath.Join(home, "does-not-exist.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.APIBase != defaultAPIBase {
		t.Fatalf("APIBase = %q, want %q", cfg.APIBase, defaultAPIBase)
	}
	if cfg.RequestTimeout != 10*time.Second || cfg.CacheTTL != 180*time.Second || cfg.PollInterval != 15*time.Second {
		t.Fatalf("durations = %v %v %v", cfg.RequestTimeout, cfg.CacheTTL, cfg.PollInterval)
	}
	if cfg.UserID != 0 {
		t.Fatalf("UserID = %d, want 0", cfg.UserID)
	}

	wantLog, err := expandPath(defaultLogFile)
	if err != nil {
		t.Fatalf("expandPath(defaultLogFile) returned error: %v", err)
	}
	if cfg.LogFile != wantLog {
		t.Fatalf("LogFile = %q, want %q", cfg.LogFile, wantLog)
	}
}

func TestLoad_ParsesAndTrimsConfig(t *testing.T) {
	clearEnv(t)
	home := t.TempDir()
	t.Setenv("HOME", home)

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`
api_base = "  http://gallery.local:8080  "
user_id = 42
request_timeout = 3
cache_ttl = 60
poll_interval = 5
log_file = "  ~/logs/atelier.log  "
`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.APIBase != "http://gallery.local:8080" {
		t.Fatalf("APIBase = %q", cfg.APIBase)
	}
	if cfg.UserID != 42 {
		t.Fatalf("UserID = %d, want 42", cfg.UserID)
	}
	if cfg.RequestTimeout != 3*time.Second || cfg.CacheTTL != time.Minute || cfg.PollInterval != 5*time.Second {
		t.Fatalf("durations = %v %v %v", cfg.RequestTimeout, cfg.CacheTTL, cfg.PollInterval)
	}
	if !strings.HasPrefix(cfg.LogFile, home) {
		t.Fatalf("LogFile = %q, want it under HOME %q", cfg.LogFile, home)
	}
}

func TestLoad_EmptyValuesUseDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("HOME", t.TempDir())

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`
api_base = "   "
request_timeout = 0
cache_ttl = -4
log_file = ""
`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.APIBase != defaultAPIBase {
		t.Fatalf("APIBase = %q, want %q", cfg.APIBase, defaultAPIBase)
	}
	if cfg.RequestTimeout != defaultRequestTimeout || cfg.CacheTTL != defaultCacheTTL {
		t.Fatalf("durations = %v %v", cfg.RequestTimeout, cfg.CacheTTL)
	}
}

func TestLoad_InvalidTOMLFails(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`api_base = [`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	_, err := Load(path)
	if err == nil {
		t.Fatalf("Load returned nil error, want parse error")
	}
	if !strings.Contains(err.Error(), "parse config") {
		t.Fatalf("Load error = %q, want it to mention parse config", err.Error())
	}
}

func TestLoad_EnvironmentOverridesFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("HOME", t.TempDir())

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("api_base = \"http://file\"\nuser_id = 1\n"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	t.Setenv(envAPIBase, "http://env")
	t.Setenv(envUserID, "77")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.APIBase != "http://env" || cfg.UserID != 77 {
		t.Fatalf("cfg = %+v, want env values", cfg)
	}
}

func TestLoad_DotenvFileFillsGaps(t *testing.T) {
	clearEnv(t)
	t.Setenv("HOME", t.TempDir())

	if err := os.WriteFile(dotenvFile, []byte("ATELIER_USER_ID=9\nATELIER_API_BASE=http://dotenv\n"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	t.Setenv(envAPIBase, "http://process")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.UserID != 9 {
		t.Fatalf("UserID = %d, want 9 from .env", cfg.UserID)
	}
	if cfg.APIBase != "http://process" {
		t.Fatalf("APIBase = %q, process environment should win", cfg.APIBase)
	}
}

func TestLoad_BadUserIDFails(t *testing.T) {
	clearEnv(t)
	t.Setenv(envUserID, "abc")
	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Fatalf("Load returned nil error for a non-numeric user id")
	}
}

func TestExpandPath_ExpandsTildeAndReturnsAbs(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got, err := expandPath("~/a/b")
	if err != nil {
		t.Fatalf("expandPath returned error: %v", err)
	}
	want := filepath.Join(home, "a/b")
	if got != want {
		t.Fatalf("expandPath = %q, want %q", got, want)
	}
}

func TestExpandPath_EmptyErrors(t *testing.T) {
	if _, err := expandPath("   "); err == nil {
		t.Fatalf("expandPath returned nil error, want error")
	}
}
