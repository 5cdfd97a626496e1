// Package config loads dbrepo settings from defaults, an optional YAML file
// and DBREPO_* environment variables, in that order of precedence.
//
// Example file:
//
//	log:
//	  level: debug
//	  format: console
//	domains:
//	  default:
//	    driver: mysql
//	    dsn: user:pass@tcp(localhost:3306)/app
//	    max_open_conns: 10
//	  stats:
//	    driver: postgres
//	    dsn: postgres://localhost/stats?sslmode=disable
//
// Environment overrides use "_" as the separator:
//
//	DBREPO_LOG_LEVEL=debug
//	DBREPO_DOMAINS_DEFAULT_DSN=file:app.db
//	DBREPO_DOMAINS_STATS_MAX_OPEN_CONNS=4
package config

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/aertgo/dbrepo"
)

// EnvPrefix is the prefix of environment variables read by Load.
const EnvPrefix = "DBREPO_"

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = EnvPrefix + "CONFIG"

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
var DefaultConfigPaths = []string{
	"dbrepo.yaml",
	"dbrepo.yml",
	"/etc/dbrepo/dbrepo.yaml",
}

// Config is the complete configuration.
type Config struct {
	Log     LogConfig                      `koanf:"log"`
	Domains map[string]dbrepo.DomainConfig `koanf:"domains,omitempty"`
}

// LogConfig mirrors logging.Config without the output writer.
type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// defaultConfig returns the defaults applied before the file and environment.
func defaultConfig() *Config {
	return &Config{
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// domainFields are the koanf keys of dbrepo.DomainConfig, longest first so that
// "max_open_conns" wins over any shorter suffix.
var domainFields = []string{
	"conn_max_lifetime",
	"max_open_conns",
	"max_idle_conns",
	"driver",
	"dsn",
}

// Load loads configuration with layered sources:
//  1. Defaults
//  2. Config file: the given path, or DBREPO_CONFIG, or the first of DefaultConfigPaths
//  3. DBREPO_* environment variables
//
// An explicitly given path must exist.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path == "" {
		path = findConfigFile()
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// Validate checks that every domain names a supported driver.
func (c *Config) Validate() error {
	names := make([]string, 0, len(c.Domains))
	for name := range c.Domains {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		domain := c.Domains[name]
		if dbrepo.DriverName(domain.Driver) == "" {
			return fmt.Errorf("domain %q: unsupported driver %q", name, domain.Driver)
		}
		if domain.MaxOpenConns < 0 || domain.MaxIdleConns < 0 {
			return fmt.Errorf("domain %q: connection limits must not be negative", name)
		}
	}
	return nil
}

// findConfigFile returns the path of the first existing config file, or "".
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// envTransformFunc maps environment variable names to koanf paths:
//
//	DBREPO_LOG_LEVEL                    -> log.level
//	DBREPO_DOMAINS_DEFAULT_DSN          -> domains.default.dsn
//	DBREPO_DOMAINS_MY_STATS_MAX_OPEN_CONNS -> domains.my_stats.max_open_conns
//
// Unknown variables map to "" and are ignored.
func envTransformFunc(key string) string {
	key = strings.ToLower(strings.TrimPrefix(key, EnvPrefix))

	switch {
	case strings.HasPrefix(key, "log_"):
		return "log." + strings.TrimPrefix(key, "log_")

	case strings.HasPrefix(key, "domains_"):
		rest := strings.TrimPrefix(key, "domains_")
		for _, field := range domainFields {
			domain, ok := strings.CutSuffix(rest, "_"+field)
			if ok && domain != "" {
				return "domains." + domain + "." + field
			}
		}
	}
	return ""
}
