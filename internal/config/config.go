// Package config holds process configuration for the balkana CLI.
//
// Values are layered, lowest precedence first: defaults from New, an
// optional YAML file named by BALKANA_CONFIG, then BALKANA_* environment
// variables. A .env file in the working directory is read into the
// environment before the layers are applied.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/rs/zerolog"
)

const (
	envPrefix  = "BALKANA_"
	envConfig  = "BALKANA_CONFIG"
	defaultDir = ".balkana"
)

// Config contains process configuration.
type Config struct {
	// DBPath is the SQLite database file.
	DBPath string `koanf:"db_path"`

	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// FaceitAPIKey authenticates FACEIT Data API calls.
	FaceitAPIKey  string `koanf:"faceit_api_key"`
	FaceitBaseURL string `koanf:"faceit_base_url"`

	HTTPTimeout time.Duration `koanf:"http_timeout"`

	// BuildWorkers caps concurrent per-match work in a series build.
	// Zero means one goroutine per match.
	BuildWorkers int `koanf:"build_workers"`

	// Providers whose ids are used for matches without an explicit source.
	FPSProvider  string `koanf:"fps_provider"`
	MOBAProvider string `koanf:"moba_provider"`
}

// New returns a Config populated with defaults.
func New() *Config {
	return &Config{
		DBPath:        defaultDBPath(),
		LogLevel:      "info",
		FaceitBaseURL: "https://open.faceit.com/data/v4",
		HTTPTimeout:   30 * time.Second,
		FPSProvider:   "faceit",
		MOBAProvider:  "riot",
	}
}

// Load builds a Config from defaults, the optional YAML file and the
// environment.
func Load(logger zerolog.Logger) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Debug().Msg(".env file not found, using environment variables or defaults")
	}

	cfg := New()
	k := koanf.New(".")

	if path := os.Getenv(envConfig); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	// BALKANA_DB_PATH -> db_path. Keys stay flat.
	envProvider := env.Provider(envPrefix, ".", func(s string) string {
		return strings.TrimPrefix(strings.ToLower(s), strings.ToLower(envPrefix))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.DBPath = expandHome(cfg.DBPath)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports the first invalid field.
func (c *Config) Validate() error {
	if c.DBPath == "" {
		return errors.New("db_path must not be empty")
	}
	if c.HTTPTimeout <= 0 {
		return errors.New("http_timeout must be positive")
	}
	if c.BuildWorkers < 0 {
		return errors.New("build_workers must not be negative")
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}
	return nil
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(defaultDir, "stats.db")
	}
	return filepath.Join(home, defaultDir, "stats.db")
}

func expandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~"))
}
