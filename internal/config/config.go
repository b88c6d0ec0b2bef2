// Package config defines the run configuration of lifeexp and loads it from
// an optional YAML file and LIFEEXP__ environment variables.
//
// Example:
//
//	input:
//	  path: data/eu_life_expectancy_raw.tsv
//	  na_values: [":"]
//	region:
//	  code: PT
//	  strict: true
//	output:
//	  path: data/pt_life_expectancy.csv
//	sinks:
//	  - kind: postgres
//	    dsn: postgres://etl@localhost/lifeexp
//	    table: public.life_expectancy
//	    auto_create_table: true
//	    replace: true
//
// Environment variables use "__" between sections, for example
// LIFEEXP__REGION__CODE=ES or LIFEEXP__LOG__LEVEL=debug. Command-line flags
// are applied by cmd/lifeexp on top of the loaded Config.
package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "LIFEEXP__"

// Defaults.
const (
	DefaultInputPath = "data/eu_life_expectancy_raw.tsv"
	DefaultRegion    = "PT"
	DefaultTable     = "life_expectancy"
	DefaultBatchSize = 1000
	DefaultJob       = "lifeexp"
)

type Config struct {
	Input   InputConfig   `koanf:"input"`
	Region  RegionConfig  `koanf:"region"`
	Output  OutputConfig  `koanf:"output"`
	Sinks   []SinkConfig  `koanf:"sinks"`
	HTTP    HTTPConfig    `koanf:"http"`
	Log     LogConfig     `koanf:"log"`
	Metrics MetricsConfig `koanf:"metrics"`
}

type InputConfig struct {
	// Path is a local file or an http(s) URL.
	Path string `koanf:"path"`

	// Format forces a loader ("tsv", "csv", "json", "zip"). Empty means
	// use the file extension.
	Format string `koanf:"format"`

	// Comma overrides the delimiter for delimited input. One character.
	Comma     string   `koanf:"comma"`
	NAValues  []string `koanf:"na_values"`
	TrimSpace bool     `koanf:"trim_space"`
}

type RegionConfig struct {
	Code string `koanf:"code"`

	// Strict defaults to true when unset.
	Strict *bool `koanf:"strict"`
}

// IsStrict reports the effective strict setting.
func (r RegionConfig) IsStrict() bool { return r.Strict == nil || *r.Strict }

type OutputConfig struct {
	// Path of the CSV file. Empty derives it from the region, see
	// DefaultOutputPath.
	Path string `koanf:"path"`
}

// SinkConfig describes one additional destination for the cleaned rows.
type SinkConfig struct {
	// Kind is a registered storage backend: csv, postgres, sqlite, mssql
	// or mysql.
	Kind string `koanf:"kind"`

	// DSN is the connection string, or the file path for kind csv.
	DSN   string `koanf:"dsn"`
	Table string `koanf:"table"`

	AutoCreateTable bool `koanf:"auto_create_table"`

	// Replace deletes existing rows of the region before writing.
	Replace   bool `koanf:"replace"`
	BatchSize int  `koanf:"batch_size"`
}

type HTTPConfig struct {
	Timeout    time.Duration `koanf:"timeout"`
	MaxRetries int           `koanf:"max_retries"`
}

type LogConfig struct {
	Level string `koanf:"level"`
	JSON  bool   `koanf:"json"`
}

type MetricsConfig struct {
	// Backend is one of none, prometheus (Pushgateway) or datadog.
	Backend        string `koanf:"backend"`
	PushgatewayURL string `koanf:"pushgateway_url"`
	DatadogAddr    string `koanf:"datadog_addr"`
	Job            string `koanf:"job"`
}

// Load reads path (when non-empty) and then the environment. A missing
// explicit path is an error.
func Load(path string) (Config, error) {
	k := koanf.New(".")
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, fmt.Errorf("config: load %s: %w", path, err)
		}
	}
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return Config{}, fmt.Errorf("config: load env: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("config: decode: %w", err)
	}
	applyDefaults(&cfg)
	return cfg, nil
}

// Default returns a Config with only defaults applied.
func Default() Config {
	var cfg Config
	applyDefaults(&cfg)
	return cfg
}

// envKey maps LIFEEXP__REGION__CODE to region.code.
func envKey(s string) string {
	s = strings.TrimPrefix(s, EnvPrefix)
	return strings.ReplaceAll(strings.ToLower(s), "__", ".")
}

func applyDefaults(c *Config) {
	if c.Input.Path == "" {
		c.Input.Path = DefaultInputPath
	}
	if c.Input.NAValues == nil {
		c.Input.NAValues = []string{":"}
	}
	if c.Region.Code == "" {
		c.Region.Code = DefaultRegion
	}
	for i := range c.Sinks {
		s := &c.Sinks[i]
		s.Kind = strings.ToLower(strings.TrimSpace(s.Kind))
		if s.Table == "" {
			s.Table = DefaultTable
		}
		if s.BatchSize == 0 {
			s.BatchSize = DefaultBatchSize
		}
	}
	if c.HTTP.Timeout == 0 {
		c.HTTP.Timeout = 30 * time.Second
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Metrics.Backend == "" {
		c.Metrics.Backend = "none"
	}
	if c.Metrics.Job == "" {
		c.Metrics.Job = DefaultJob
	}
}

// OutputPath returns Output.Path, or DefaultOutputPath for the region.
func (c Config) OutputPath() string {
	if c.Output.Path != "" {
		return c.Output.Path
	}
	return DefaultOutputPath(c.Region.Code)
}

// DefaultOutputPath is data/<region in lower case>_life_expectancy.csv.
func DefaultOutputPath(region string) string {
	return filepath.Join("data", strings.ToLower(region)+"_life_expectancy.csv")
}

// CommaRune returns the configured delimiter rune, or 0 when unset.
func (in InputConfig) CommaRune() rune {
	for _, r := range in.Comma {
		return r
	}
	return 0
}
