package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{EnvUserID, EnvAPIToken, EnvBaseURL, EnvTimeout, EnvDB, EnvLogLevel, EnvLogFile, EnvLogFormat} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.BaseURL != "https://habitica.com/api/v3" {
		t.Errorf("Expected habitica base URL, got %s", cfg.BaseURL)
	}
	if cfg.Timeout != 30*time.Second {
		t.Errorf("Expected 30s timeout, got %s", cfg.Timeout)
	}
	if filepath.Base(cfg.DBPath) != "habiterm.db" {
		t.Errorf("Unexpected db path %s", cfg.DBPath)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	clearEnv(t)
	tmpDir := t.TempDir()
	t.Setenv(EnvUserID, " user-1 ")
	t.Setenv(EnvAPIToken, "token-1")
	t.Setenv(EnvTimeout, "5s")

	cfg, err := Load(Options{
		ConfigFile: "",
		EnvFile:    filepath.Join(tmpDir, "missing.env"),
	})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.UserID != "user-1" {
		t.Errorf("Expected trimmed user id, got %q", cfg.UserID)
	}
	if cfg.APIToken != "token-1" {
		t.Errorf("Expected token-1, got %q", cfg.APIToken)
	}
	if cfg.Timeout != 5*time.Second {
		t.Errorf("Expected 5s timeout, got %s", cfg.Timeout)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate failed: %v", err)
	}
}

func TestLoadEnvFileAndConfigFile(t *testing.T) {
	clearEnv(t)
	tmpDir := t.TempDir()

	envPath := filepath.Join(tmpDir, ".env")
	if err := os.WriteFile(envPath, []byte("HABITICA_USER_ID=from-dotenv\nHABITICA_API_TOKEN=secret\n"), 0600); err != nil {
		t.Fatal(err)
	}
	cfgPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(cfgPath, []byte("base_url: http://localhost:9999/api/v3\nlog_level: debug\n"), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(Options{ConfigFile: cfgPath, EnvFile: envPath})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.UserID != "from-dotenv" {
		t.Errorf("Expected user from .env, got %q", cfg.UserID)
	}
	if cfg.BaseURL != "http://localhost:9999/api/v3" {
		t.Errorf("Expected base url from config file, got %q", cfg.BaseURL)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("Expected debug log level, got %q", cfg.LogLevel)
	}
}

func TestLoadExplicitConfigMissing(t *testing.T) {
	clearEnv(t)
	tmpDir := t.TempDir()

	_, err := Load(Options{
		ConfigFile: filepath.Join(tmpDir, "nope.yaml"),
		EnvFile:    filepath.Join(tmpDir, "nope.env"),
	})
	if err == nil {
		t.Fatal("Expected error for missing explicit config file")
	}
}

func TestValidateMissingCredentials(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"no user", Config{APIToken: "t", Timeout: time.Second}},
		{"no token", Config{UserID: "u", Timeout: time.Second}},
		{"neither", Config{Timeout: time.Second}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if !errors.Is(err, ErrMissingCredentials) {
				t.Errorf("Expected ErrMissingCredentials, got %v", err)
			}
		})
	}
}

func TestLogFormat(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvUserID, "user-1")
	t.Setenv(EnvAPIToken, "token-1")

	cfg, err := Load(Options{EnvFile: filepath.Join(t.TempDir(), "missing.env")})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.LogFormat != "text" {
		t.Errorf("Expected default text format, got %q", cfg.LogFormat)
	}

	t.Setenv(EnvLogFormat, "json")
	cfg, err = Load(Options{EnvFile: filepath.Join(t.TempDir(), "missing.env")})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.LogFormat != "json" {
		t.Errorf("Expected json format, got %q", cfg.LogFormat)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate failed: %v", err)
	}

	cfg.LogFormat = "xml"
	if err := cfg.Validate(); err == nil {
		t.Error("Expected error for unknown log format")
	}
}
