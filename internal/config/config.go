// Package config resolves csvdesk settings. Sources are layered, later ones
// winning: built-in defaults, the YAML file, .env and the process
// environment, then command-line flags (applied by the caller).
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"csvdesk/internal/api"
	"csvdesk/internal/store"
)

// DefaultFile is read when no --config path is given and it exists.
const DefaultFile = "csvdesk.yaml"

// DefaultEnvFile is loaded into the environment when present. Variables
// already set in the environment are not overwritten.
const DefaultEnvFile = ".env"

// Environment variables.
const (
	EnvAPIURL      = "CSVDESK_API_URL"
	EnvDBPath      = "CSVDESK_DB"
	EnvTimeout     = "CSVDESK_TIMEOUT"
	EnvLogLevel    = "CSVDESK_LOG_LEVEL"
	EnvLogFormat   = "CSVDESK_LOG_FORMAT"
	EnvDownloadDir = "CSVDESK_DOWNLOAD_DIR"
)

// Config holds all csvdesk settings.
type Config struct {
	APIURL      string        `yaml:"api_url"`
	DBPath      string        `yaml:"db_path"`
	Timeout     time.Duration `yaml:"timeout"` // zero means no client timeout
	DownloadDir string        `yaml:"download_dir"`

	Logging LoggingConfig `yaml:"logging"`
	Mock    MockConfig    `yaml:"mock"`
}

// LoggingConfig configures internal/logging.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text, json
}

// MockConfig configures the csvdesk-mock backend.
type MockConfig struct {
	Addr     string `yaml:"addr"`
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		APIURL:      api.DefaultBaseURL,
		DBPath:      store.DefaultDBPath,
		DownloadDir: ".",
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Mock: MockConfig{
			Addr:     ":5000",
			Email:    "demo@example.com",
			Password: "demo",
			Name:     "Demo User",
		},
	}
}

// Load resolves the configuration from path (or DefaultFile when path is
// empty), DefaultEnvFile and the environment. An explicit path must exist.
func Load(path string) (Config, error) {
	return LoadFrom(path, DefaultEnvFile)
}

// LoadFrom is Load with an explicit .env location. An empty envFile skips
// dotenv loading.
func LoadFrom(path, envFile string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}
	if err := cfg.mergeFile(path); err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			return Config{}, err
		}
	}

	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", envFile, err)
		}
	}
	if err := cfg.applyEnvOverrides(); err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnvOverrides() error {
	if v := os.Getenv(EnvAPIURL); v != "" {
		c.APIURL = v
	}
	if v := os.Getenv(EnvDBPath); v != "" {
		c.DBPath = v
	}
	if v := os.Getenv(EnvDownloadDir); v != "" {
		c.DownloadDir = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv(EnvLogFormat); v != "" {
		c.Logging.Format = v
	}
	if v := os.Getenv(EnvTimeout); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvTimeout, err)
		}
		c.Timeout = d
	}
	return nil
}

// Validate checks the resolved settings.
func (c Config) Validate() error {
	var errs []error
	if !strings.HasPrefix(c.APIURL, "http://") && !strings.HasPrefix(c.APIURL, "https://") {
		errs = append(errs, fmt.Errorf("api_url %q must be an http(s) URL", c.APIURL))
	}
	if c.DBPath == "" {
		errs = append(errs, errors.New("db_path must not be empty"))
	}
	if c.Timeout < 0 {
		errs = append(errs, fmt.Errorf("timeout %s must not be negative", c.Timeout))
	}
	return errors.Join(errs...)
}
