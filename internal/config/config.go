// Package config loads habiterm settings from defaults, an optional YAML file,
// a .env file and the process environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// ErrMissingCredentials is returned when the Habitica user id or API token is unset.
var ErrMissingCredentials = errors.New("missing Habitica credentials")

// Environment variable names.
const (
	EnvUserID    = "HABITICA_USER_ID"
	EnvAPIToken  = "HABITICA_API_TOKEN"
	EnvBaseURL   = "HABITERM_BASE_URL"
	EnvTimeout   = "HABITERM_TIMEOUT"
	EnvDB        = "HABITERM_DB"
	EnvLogLevel  = "HABITERM_LOG_LEVEL"
	EnvLogFile   = "HABITERM_LOG_FILE"
	EnvLogFormat = "HABITERM_LOG_FORMAT"
)

// Config holds the runtime configuration.
type Config struct {
	UserID    string        `mapstructure:"user_id"`
	APIToken  string        `mapstructure:"api_token"`
	BaseURL   string        `mapstructure:"base_url"`
	Timeout   time.Duration `mapstructure:"timeout"`
	DBPath    string        `mapstructure:"db"`
	LogLevel  string        `mapstructure:"log_level"`
	LogFile   string        `mapstructure:"log_file"`
	LogFormat string        `mapstructure:"log_format"` // text or json
}

// Options selects where configuration is read from.
// Empty fields fall back to ~/.habiterm/config.yaml and ./.env; missing
// default files are ignored, a missing explicit ConfigFile is an error.
type Options struct {
	ConfigFile string
	EnvFile    string
}

// Dir returns the habiterm state directory.
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".habiterm"
	}
	return filepath.Join(home, ".habiterm")
}

// DefaultConfig returns the configuration used when nothing overrides it.
func DefaultConfig() *Config {
	dir := Dir()
	return &Config{
		BaseURL:   "https://habitica.com/api/v3",
		Timeout:   30 * time.Second,
		DBPath:    filepath.Join(dir, "habiterm.db"),
		LogLevel:  "info",
		LogFile:   filepath.Join(dir, "habiterm.log"),
		LogFormat: "text",
	}
}

// Load reads configuration. It does not validate credentials; call Validate.
func Load(opts Options) (*Config, error) {
	envFile := opts.EnvFile
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load env file %s: %w", envFile, err)
	}

	def := DefaultConfig()
	v := viper.New()
	v.SetDefault("base_url", def.BaseURL)
	v.SetDefault("timeout", def.Timeout)
	v.SetDefault("db", def.DBPath)
	v.SetDefault("log_level", def.LogLevel)
	v.SetDefault("log_file", def.LogFile)
	v.SetDefault("log_format", def.LogFormat)

	bindings := map[string]string{
		"user_id":    EnvUserID,
		"api_token":  EnvAPIToken,
		"base_url":   EnvBaseURL,
		"timeout":    EnvTimeout,
		"db":         EnvDB,
		"log_level":  EnvLogLevel,
		"log_file":   EnvLogFile,
		"log_format": EnvLogFormat,
	}
	for key, env := range bindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("bind %s: %w", env, err)
		}
	}

	configFile := opts.ConfigFile
	explicit := configFile != ""
	if !explicit {
		configFile = filepath.Join(Dir(), "config.yaml")
	}
	if _, err := os.Stat(configFile); err == nil {
		v.SetConfigFile(configFile)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", configFile, err)
		}
	} else if explicit {
		return nil, fmt.Errorf("read config %s: %w", configFile, err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.UserID = strings.TrimSpace(cfg.UserID)
	cfg.APIToken = strings.TrimSpace(cfg.APIToken)
	return cfg, nil
}

// Validate checks that both credentials are present.
func (c *Config) Validate() error {
	var missing []string
	if c.UserID == "" {
		missing = append(missing, EnvUserID)
	}
	if c.APIToken == "" {
		missing = append(missing, EnvAPIToken)
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: set %s", ErrMissingCredentials, strings.Join(missing, " and "))
	}
	if c.LogFormat != "" && c.LogFormat != "text" && c.LogFormat != "json" {
		return fmt.Errorf("invalid log format %q (want text or json)", c.LogFormat)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("invalid timeout %s", c.Timeout)
	}
	return nil
}
