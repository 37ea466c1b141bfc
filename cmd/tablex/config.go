package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/fwojciec/tablex"
	"github.com/fwojciec/tablex/batch"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

// Environment variables read by the CLI.
const (
	EnvDB          = "TABLEX_DB"
	EnvTimeout     = "TABLEX_TIMEOUT"
	EnvConcurrency = "TABLEX_CONCURRENCY"
	EnvRPS         = "TABLEX_RPS"
	EnvConfig      = "TABLEX_CONFIG"
)

// Config holds settings shared by all commands. Values are layered:
// defaults, then the YAML file, then the environment (including .env),
// then command-line flags.
type Config struct {
	DB          string                `yaml:"db"`
	Timeout     time.Duration         `yaml:"timeout"`
	Concurrency int                   `yaml:"concurrency"`
	RPS         float64               `yaml:"rps"`
	Format      string                `yaml:"format"`
	PageSize    int                   `yaml:"page_size"`
	Extract     tablex.ExtractOptions `yaml:"extract"`
}

// DefaultConfig returns the built-in settings.
func DefaultConfig() *Config {
	return &Config{
		DB:          defaultDBPath(),
		Timeout:     10 * time.Second,
		Concurrency: batch.DefaultConcurrency,
		RPS:         batch.DefaultRequestsPerSecond,
		Format:      string(tablex.FormatCSV),
		PageSize:    tablex.DefaultPageSize,
		Extract:     tablex.DefaultExtractOptions(),
	}
}

// Env looks up configuration variables from the process environment and
// then from a .env file. Process variables win.
type Env struct {
	file map[string]string
}

// LoadEnv reads the .env file at path. A missing file is not an error.
func LoadEnv(path string) (*Env, error) {
	env := &Env{file: map[string]string{}}
	if path == "" {
		return env, nil
	}
	values, err := godotenv.Read(path)
	if os.IsNotExist(err) {
		return env, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	env.file = values
	return env, nil
}

// Lookup returns the value of key and whether it is set.
func (e *Env) Lookup(key string) (string, bool) {
	if v, ok := os.LookupEnv(key); ok {
		return v, true
	}
	v, ok := e.file[key]
	return v, ok
}

// LoadConfig builds the configuration from defaults, the YAML file at path
// (or TABLEX_CONFIG when path is empty) and the environment.
func LoadConfig(path string, env *Env) (*Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		path, _ = env.Lookup(EnvConfig)
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, tablex.Errorf(tablex.EINVALID, "invalid config %s: %v", path, err)
		}
	}

	if v, ok := env.Lookup(EnvDB); ok && v != "" {
		cfg.DB = v
	}
	if v, ok := env.Lookup(EnvTimeout); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, tablex.Errorf(tablex.EINVALID, "invalid %s %q: %v", EnvTimeout, v, err)
		}
		cfg.Timeout = d
	}
	if v, ok := env.Lookup(EnvConcurrency); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, tablex.Errorf(tablex.EINVALID, "invalid %s %q: %v", EnvConcurrency, v, err)
		}
		cfg.Concurrency = n
	}
	if v, ok := env.Lookup(EnvRPS); ok && v != "" {
		rps, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, tablex.Errorf(tablex.EINVALID, "invalid %s %q: %v", EnvRPS, v, err)
		}
		cfg.RPS = rps
	}

	if _, err := tablex.ParseFormat(cfg.Format); err != nil {
		return nil, err
	}
	return cfg, nil
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "tablex.db"
	}
	return filepath.Join(home, ".tablex", "tablex.db")
}
