// Package config assembles the configuration of every component into one
// file-loadable structure.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/tailored-agentic-units/rfp/advisory"
	"github.com/tailored-agentic-units/rfp/match"
	"github.com/tailored-agentic-units/rfp/pricing"
	"github.com/tailored-agentic-units/rfp/risk"
	"github.com/tailored-agentic-units/rfp/workflow"
)

// Config holds initialization parameters for every component. Each section
// is handed to that component's constructor.
type Config struct {
	Risk     risk.Config     `json:"risk" yaml:"risk"`
	Match    match.Config    `json:"match" yaml:"match"`
	Pricing  pricing.Config  `json:"pricing" yaml:"pricing"`
	Advisory advisory.Config `json:"advisory" yaml:"advisory"`
	Workflow workflow.Config `json:"workflow" yaml:"workflow"`

	// Catalog is the product catalog file. Empty uses the built-in sample.
	Catalog string `json:"catalog" yaml:"catalog"`

	Rates   RatesConfig   `json:"rates" yaml:"rates"`
	Store   StoreConfig   `json:"store" yaml:"store"`
	NATS    NATSConfig    `json:"nats" yaml:"nats"`
	Archive ArchiveConfig `json:"archive" yaml:"archive"`
	Log     LogConfig     `json:"log" yaml:"log"`
	Server  ServerConfig  `json:"server" yaml:"server"`
}

// RatesConfig selects the commodity rate source. Without a file the static
// LME table is used.
type RatesConfig struct {
	File  string `json:"file" yaml:"file"`
	Watch bool   `json:"watch" yaml:"watch"`
}

// StoreConfig selects the SQL database for bids and checkpoints. An empty
// DSN disables the store.
type StoreConfig struct {
	Driver string `json:"driver" yaml:"driver"`
	DSN    string `json:"dsn" yaml:"dsn"`
}

// NATSConfig enables publishing of bids. An empty URL disables it.
type NATSConfig struct {
	URL    string `json:"url" yaml:"url"`
	Prefix string `json:"prefix" yaml:"prefix"`
}

// ArchiveConfig enables the JSON bid archive. An empty path disables it.
type ArchiveConfig struct {
	Path string `json:"path" yaml:"path"`
}

type LogConfig struct {
	Level  string `json:"level" yaml:"level"`
	Format string `json:"format" yaml:"format"`
}

type ServerConfig struct {
	Addr string `json:"addr" yaml:"addr"`
}

// DefaultConfig returns a Config with sensible defaults for all components.
func DefaultConfig() Config {
	return Config{
		Risk:     risk.DefaultConfig(),
		Match:    match.DefaultConfig(),
		Pricing:  pricing.DefaultConfig(),
		Advisory: advisory.DefaultConfig(),
		Workflow: workflow.DefaultConfig(),
		Store:    StoreConfig{Driver: "sqlite"},
		NATS:     NATSConfig{Prefix: "rfp.bids"},
		Log:      LogConfig{Level: "info", Format: "text"},
		Server:   ServerConfig{Addr: ":8080"},
	}
}

// Merge applies non-zero values from source into c, delegating to each
// component's Merge method.
func (c *Config) Merge(source *Config) {
	c.Risk.Merge(&source.Risk)
	c.Match.Merge(&source.Match)
	c.Pricing.Merge(&source.Pricing)
	c.Advisory.Merge(&source.Advisory)
	c.Workflow.Merge(&source.Workflow)

	if source.Catalog != "" {
		c.Catalog = source.Catalog
	}
	if source.Rates.File != "" {
		c.Rates.File = source.Rates.File
	}
	if source.Rates.Watch {
		c.Rates.Watch = true
	}
	if source.Store.Driver != "" {
		c.Store.Driver = source.Store.Driver
	}
	if source.Store.DSN != "" {
		c.Store.DSN = source.Store.DSN
	}
	if source.NATS.URL != "" {
		c.NATS.URL = source.NATS.URL
	}
	if source.NATS.Prefix != "" {
		c.NATS.Prefix = source.NATS.Prefix
	}
	if source.Archive.Path != "" {
		c.Archive.Path = source.Archive.Path
	}
	if source.Log.Level != "" {
		c.Log.Level = source.Log.Level
	}
	if source.Log.Format != "" {
		c.Log.Format = source.Log.Format
	}
	if source.Server.Addr != "" {
		c.Server.Addr = source.Server.Addr
	}
}

// Load builds the effective configuration: defaults, then the YAML file at
// filename (skipped when empty), then RFP_* environment variables. A .env
// file in the working directory is loaded first if present.
func Load(filename string) (*Config, error) {
	_ = godotenv.Load()

	cfg := DefaultConfig()

	if filename != "" {
		data, err := os.ReadFile(filename)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		var loaded Config
		if err := yaml.Unmarshal(data, &loaded); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
		cfg.Merge(&loaded)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

var stringEnv = []struct {
	key   string
	field func(*Config) *string
}{
	{"RFP_CATALOG", func(c *Config) *string { return &c.Catalog }},
	{"RFP_RATES_FILE", func(c *Config) *string { return &c.Rates.File }},
	{"RFP_STORE_DRIVER", func(c *Config) *string { return &c.Store.Driver }},
	{"RFP_STORE_DSN", func(c *Config) *string { return &c.Store.DSN }},
	{"RFP_NATS_URL", func(c *Config) *string { return &c.NATS.URL }},
	{"RFP_NATS_PREFIX", func(c *Config) *string { return &c.NATS.Prefix }},
	{"RFP_ARCHIVE_PATH", func(c *Config) *string { return &c.Archive.Path }},
	{"RFP_LOG_LEVEL", func(c *Config) *string { return &c.Log.Level }},
	{"RFP_LOG_FORMAT", func(c *Config) *string { return &c.Log.Format }},
	{"RFP_SERVER_ADDR", func(c *Config) *string { return &c.Server.Addr }},
	{"RFP_OBSERVER", func(c *Config) *string { return &c.Workflow.Graph.Observer }},
}

var floatEnv = []struct {
	key   string
	field func(*Config) *float64
}{
	{"RFP_EXCHANGE_RATE", func(c *Config) *float64 { return &c.Pricing.ExchangeRate }},
	{"RFP_TARGET_MARGIN", func(c *Config) *float64 { return &c.Pricing.TargetMargin }},
	{"RFP_AUTO_APPROVE_RISK", func(c *Config) *float64 { return &c.Workflow.AutoApproveRisk }},
}

func (c *Config) applyEnv() error {
	for _, e := range stringEnv {
		if v, ok := os.LookupEnv(e.key); ok && v != "" {
			*e.field(c) = v
		}
	}

	for _, e := range floatEnv {
		v, ok := os.LookupEnv(e.key)
		if !ok || v == "" {
			continue
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", e.key, err)
		}
		*e.field(c) = f
	}

	if v, ok := os.LookupEnv("RFP_RATES_WATCH"); ok && v != "" {
		watch, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid RFP_RATES_WATCH: %w", err)
		}
		c.Rates.Watch = watch
	}

	return nil
}
