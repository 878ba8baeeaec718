// Package config loads the growthplan YAML configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/felixgeelhaar/growthplan/internal/advisory"
	"github.com/felixgeelhaar/growthplan/internal/errors"
	"github.com/felixgeelhaar/growthplan/internal/provider"
	"github.com/felixgeelhaar/growthplan/internal/telemetry"
)

// DefaultPath is where the CLI looks for its config file.
const DefaultPath = ".growthplan/config.yaml"

// Search provider types.
const (
	SearchCorpus = "corpus"
	SearchHTTP   = "http"
	SearchNone   = "none"
)

// Config is the complete configuration.
type Config struct {
	DataDir   string           `yaml:"data_dir"`
	Advisory  AdvisoryConfig   `yaml:"advisory"`
	Search    SearchConfig     `yaml:"search"`
	History   HistoryConfig    `yaml:"history"`
	Logging   LoggingConfig    `yaml:"logging"`
	Telemetry telemetry.Config `yaml:"telemetry"`
	Metrics   MetricsConfig    `yaml:"metrics"`
}

// AdvisoryConfig configures the text-generation backend.
type AdvisoryConfig struct {
	Enabled  bool                    `yaml:"enabled"`
	Provider provider.ProviderConfig `yaml:"provider"`
	// Fallbacks are tried in order when the primary provider is unavailable.
	Fallbacks   []provider.ProviderConfig `yaml:"fallbacks,omitempty"`
	Timeout     time.Duration             `yaml:"timeout"`
	Concurrency int                       `yaml:"concurrency"`
	// Operations overrides max_tokens and temperature per advisory tag.
	Operations map[advisory.Tag]advisory.Params `yaml:"operations,omitempty"`
}

// SearchConfig configures the knowledge search backend.
type SearchConfig struct {
	Type                  string        `yaml:"type"`
	Endpoint              string        `yaml:"endpoint,omitempty"`
	APIKey                string        `yaml:"api_key,omitempty"`
	CorpusPath            string        `yaml:"corpus_path,omitempty"`
	MaxResults            int           `yaml:"max_results"`
	MaxQueriesPerCategory int           `yaml:"max_queries_per_category"`
	Concurrency           int           `yaml:"concurrency"`
	Timeout               time.Duration `yaml:"timeout"`
}

// HistoryConfig configures the invocation history. An empty path keeps history in memory.
type HistoryConfig struct {
	Path string `yaml:"path"`
}

// LoggingConfig configures the process logger.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// MetricsConfig configures the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

// Default returns a configuration with every field set.
func Default() *Config {
	return &Config{
		DataDir: ".growthplan/data",
		Advisory: AdvisoryConfig{
			Enabled: os.Getenv("ANTHROPIC_API_KEY") != "",
			Provider: provider.ProviderConfig{
				Name:    "anthropic",
				Kind:    provider.KindAnthropic,
				Enabled: true,
				APIKey:  "${ANTHROPIC_API_KEY}",
			},
			Timeout:     60 * time.Second,
			Concurrency: 4,
		},
		Search: SearchConfig{
			Type:                  SearchNone,
			MaxResults:            5,
			MaxQueriesPerCategory: 3,
			Concurrency:           4,
			Timeout:               10 * time.Second,
		},
		History: HistoryConfig{
			Path: ".growthplan/history.jsonl",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Telemetry: telemetry.DefaultConfig(),
		Metrics: MetricsConfig{
			Addr: ":9090",
		},
	}
}

// Load reads path, expands ${VAR} references and fills unset fields with defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) // #nosec G304 - config path comes from flags
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewConfigNotFoundError(path)
		}
		return nil, errors.Wrap(errors.ErrCodeFileReadFailed, fmt.Sprintf("failed to read config %s", path), err)
	}

	cfg := Default()
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), cfg); err != nil {
		return nil, errors.NewFileUnmarshalError(path, "YAML", err)
	}
	cfg.applyDefaults()
	cfg.expandSecrets()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadOrDefault loads path, or returns the defaults when the file does not exist.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.HasCode(err, errors.ErrCodeConfigNotFound) {
		cfg = Default()
		cfg.expandSecrets()
		return cfg, nil
	}
	return cfg, err
}

// Save writes cfg to path as YAML, creating the parent directory.
func Save(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.Wrap(errors.ErrCodeFileMarshal, "failed to encode config", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return errors.Wrap(errors.ErrCodeDirectoryFailed, fmt.Sprintf("failed to create config directory for %s", path), err)
	}
	// 0600: the file may carry API keys
	if err := os.WriteFile(path, data, 0600); err != nil {
		return errors.Wrap(errors.ErrCodeFileWriteFailed, fmt.Sprintf("failed to write config %s", path), err)
	}
	return nil
}

// applyDefaults restores defaults for fields a file set to zero values.
func (c *Config) applyDefaults() {
	d := Default()
	if c.DataDir == "" {
		c.DataDir = d.DataDir
	}
	if c.Advisory.Timeout <= 0 {
		c.Advisory.Timeout = d.Advisory.Timeout
	}
	if c.Advisory.Concurrency <= 0 {
		c.Advisory.Concurrency = d.Advisory.Concurrency
	}
	if c.Search.Type == "" {
		c.Search.Type = d.Search.Type
	}
	if c.Search.MaxResults <= 0 {
		c.Search.MaxResults = d.Search.MaxResults
	}
	if c.Search.MaxQueriesPerCategory <= 0 {
		c.Search.MaxQueriesPerCategory = d.Search.MaxQueriesPerCategory
	}
	if c.Search.Concurrency <= 0 {
		c.Search.Concurrency = d.Search.Concurrency
	}
	if c.Search.Timeout <= 0 {
		c.Search.Timeout = d.Search.Timeout
	}
	if c.Logging.Level == "" {
		c.Logging.Level = d.Logging.Level
	}
	if c.Logging.Format == "" {
		c.Logging.Format = d.Logging.Format
	}
	if c.Metrics.Addr == "" {
		c.Metrics.Addr = d.Metrics.Addr
	}
	c.Telemetry.ServiceName = d.Telemetry.ServiceName
	if c.Telemetry.ServiceVersion == "" {
		c.Telemetry.ServiceVersion = d.Telemetry.ServiceVersion
	}
}

// expandSecrets resolves ${VAR} references left over from the defaults.
func (c *Config) expandSecrets() {
	c.Advisory.Provider.APIKey = os.ExpandEnv(c.Advisory.Provider.APIKey)
	for i := range c.Advisory.Fallbacks {
		c.Advisory.Fallbacks[i].APIKey = os.ExpandEnv(c.Advisory.Fallbacks[i].APIKey)
	}
	c.Search.APIKey = os.ExpandEnv(c.Search.APIKey)
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.Advisory.Enabled {
		if err := c.Advisory.Provider.Validate(); err != nil {
			return errors.NewConfigInvalidError(fmt.Sprintf("advisory.provider: %v", err))
		}
		for i := range c.Advisory.Fallbacks {
			if err := c.Advisory.Fallbacks[i].Validate(); err != nil {
				return errors.NewConfigInvalidError(fmt.Sprintf("advisory.fallbacks[%d]: %v", i, err))
			}
		}
	}
	for tag, p := range c.Advisory.Operations {
		if !tag.IsKnown() {
			return errors.NewConfigInvalidError(fmt.Sprintf("advisory.operations: unknown tag %q", tag))
		}
		if p.MaxTokens < 0 {
			return errors.NewConfigInvalidError(fmt.Sprintf("advisory.operations.%s: max_tokens must be non-negative", tag))
		}
		if p.Temperature < 0 || p.Temperature > 2 {
			return errors.NewConfigInvalidError(fmt.Sprintf("advisory.operations.%s: temperature must be between 0 and 2", tag))
		}
	}

	switch c.Search.Type {
	case SearchNone:
	case SearchHTTP:
		if strings.TrimSpace(c.Search.Endpoint) == "" {
			return errors.NewConfigInvalidError("search.endpoint is required for http search")
		}
	case SearchCorpus:
		if strings.TrimSpace(c.Search.CorpusPath) == "" {
			return errors.NewConfigInvalidError("search.corpus_path is required for corpus search")
		}
	default:
		return errors.NewConfigInvalidError(fmt.Sprintf("search.type %q must be corpus, http or none", c.Search.Type))
	}

	switch strings.ToLower(c.Logging.Format) {
	case "json", "text":
	default:
		return errors.NewConfigInvalidError(fmt.Sprintf("logging.format %q must be json or text", c.Logging.Format))
	}

	if c.Telemetry.SampleRate < 0 || c.Telemetry.SampleRate > 1 {
		return errors.NewConfigInvalidError("telemetry.sample_rate must be between 0 and 1")
	}
	return nil
}

// Redacted returns a copy with secrets masked, for display.
func (c *Config) Redacted() *Config {
	out := *c
	out.Advisory.Provider.APIKey = mask(c.Advisory.Provider.APIKey)
	if len(c.Advisory.Fallbacks) > 0 {
		out.Advisory.Fallbacks = make([]provider.ProviderConfig, len(c.Advisory.Fallbacks))
		for i, fb := range c.Advisory.Fallbacks {
			fb.APIKey = mask(fb.APIKey)
			out.Advisory.Fallbacks[i] = fb
		}
	}
	out.Search.APIKey = mask(c.Search.APIKey)
	return &out
}

func mask(secret string) string {
	if secret == "" {
		return ""
	}
	return "********"
}
