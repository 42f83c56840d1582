// Copyright 2018 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

// Package config loads the deployment configuration for the strata
// daemons and tools.  Configuration is layered: compiled-in defaults,
// then an optional YAML file, then STRATA_* environment variables.
// Load validates the merged result; a bad configuration is reported at
// startup, before the process serves anything.
package config

import (
	"fmt"
	"io/ioutil"
	"os"
	"strconv"

	"gopkg.in/yaml.v2"

	"github.com/diffeo/go-strata/mapper"
	"github.com/diffeo/go-strata/strata"
)

// Provider identifies the data provider running a deployment.
type Provider struct {
	Name         string `yaml:"name"`
	Description  string `yaml:"description"`
	Prefix       string `yaml:"prefix"`
	Homepage     string `yaml:"homepage"`
	IndexBaseURL string `yaml:"index_base_url"`
}

// Implementation identifies the server software.
type Implementation struct {
	Name            string `yaml:"name"`
	Version         string `yaml:"version"`
	SourceURL       string `yaml:"source_url"`
	MaintainerEmail string `yaml:"maintainer_email"`
}

// EntryType holds the per-entry-type mapping configuration: explicit
// aliases, bare provider field names, and length aliases, all keyed by
// canonical name.
type EntryType struct {
	Aliases        map[string]string `yaml:"aliases"`
	ProviderFields []string          `yaml:"provider_fields"`
	LengthAliases  map[string]string `yaml:"length_aliases"`
}

// Mongo holds MongoDB backend settings.
type Mongo struct {
	URI      string `yaml:"uri"`
	Database string `yaml:"database"`
}

// Postgres holds PostgreSQL backend settings.
type Postgres struct {
	DSN string `yaml:"dsn"`
}

// Config is the full deployment configuration.
type Config struct {
	Debug    bool   `yaml:"debug"`
	LogLevel string `yaml:"log_level"`
	BaseURL  string `yaml:"base_url"`

	PageLimit    int `yaml:"page_limit"`
	MaxPageLimit int `yaml:"max_page_limit"`

	Provider       Provider       `yaml:"provider"`
	ExtraPrefixes  []string       `yaml:"extra_prefixes"`
	Implementation Implementation `yaml:"implementation"`

	EntryTypes map[string]EntryType `yaml:"entry_types"`

	CacheSize int      `yaml:"cache_size"`
	Mongo     Mongo    `yaml:"mongo"`
	Postgres  Postgres `yaml:"postgres"`
}

// Default returns the compiled-in configuration.
func Default() Config {
	return Config{
		LogLevel:     "info",
		PageLimit:    20,
		MaxPageLimit: 500,
		CacheSize:    1024,
		Mongo: Mongo{
			URI:      "mongodb://localhost:27017",
			Database: "strata",
		},
	}
}

// Load produces the effective configuration: defaults, overlaid with
// the YAML file at path if path is non-empty, overlaid with STRATA_*
// environment variables, then validated.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := ioutil.ReadFile(path)
		if err != nil {
			return cfg, err
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("%s: %v", path, err)
		}
	}
	if err := cfg.fromEnv(); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

// fromEnv overrides scalar settings from STRATA_* environment
// variables.  Structured settings (aliases, provider fields) only come
// from the file.
func (cfg *Config) fromEnv() error {
	setString(&cfg.LogLevel, "STRATA_LOG_LEVEL")
	setString(&cfg.BaseURL, "STRATA_BASE_URL")
	setString(&cfg.Provider.Prefix, "STRATA_PROVIDER_PREFIX")
	setString(&cfg.Mongo.URI, "STRATA_MONGO_URI")
	setString(&cfg.Mongo.Database, "STRATA_MONGO_DATABASE")
	setString(&cfg.Postgres.DSN, "STRATA_POSTGRES_DSN")
	if err := setBool(&cfg.Debug, "STRATA_DEBUG"); err != nil {
		return err
	}
	if err := setInt(&cfg.PageLimit, "STRATA_PAGE_LIMIT"); err != nil {
		return err
	}
	if err := setInt(&cfg.MaxPageLimit, "STRATA_MAX_PAGE_LIMIT"); err != nil {
		return err
	}
	return setInt(&cfg.CacheSize, "STRATA_CACHE_SIZE")
}

// Validate checks the merged configuration.  Violations are fatal at
// startup; the daemon refuses to serve with a bad configuration.
func (cfg Config) Validate() error {
	if cfg.Provider.Prefix != "" {
		if err := mapper.ValidatePrefix(cfg.Provider.Prefix); err != nil {
			return err
		}
	}
	for _, prefix := range cfg.ExtraPrefixes {
		if err := mapper.ValidatePrefix(prefix); err != nil {
			return err
		}
	}
	if cfg.PageLimit <= 0 {
		return fmt.Errorf("page_limit must be positive, not %v", cfg.PageLimit)
	}
	if cfg.MaxPageLimit < cfg.PageLimit {
		return fmt.Errorf("max_page_limit %v is less than page_limit %v",
			cfg.MaxPageLimit, cfg.PageLimit)
	}
	if cfg.CacheSize < 0 {
		return fmt.Errorf("cache_size cannot be negative")
	}
	known := make(map[string]bool)
	for _, name := range strata.EntryTypes() {
		known[name] = true
	}
	for name, entry := range cfg.EntryTypes {
		if !known[name] {
			return fmt.Errorf("entry_types: unknown entry type %q", name)
		}
		if len(entry.ProviderFields) > 0 && cfg.Provider.Prefix == "" {
			return fmt.Errorf("entry_types.%s declares provider_fields but provider.prefix is unset", name)
		}
	}
	return nil
}

// Deployment returns the mapper deployment for one entry type,
// combining the deployment-wide provider identity with that entry
// type's own mapping configuration.
func (cfg Config) Deployment(entryType string) mapper.Deployment {
	entry := cfg.EntryTypes[entryType]
	return mapper.Deployment{
		Prefix:         cfg.Provider.Prefix,
		ExtraPrefixes:  cfg.ExtraPrefixes,
		Aliases:        entry.Aliases,
		ProviderFields: entry.ProviderFields,
		LengthAliases:  entry.LengthAliases,
	}
}

// Deployments returns one mapper deployment per shipped entry type.
func (cfg Config) Deployments() map[string]mapper.Deployment {
	deps := make(map[string]mapper.Deployment)
	for _, name := range strata.EntryTypes() {
		deps[name] = cfg.Deployment(name)
	}
	return deps
}

// Mappers builds the effective mapper for every shipped entry type
// under this configuration.
func (cfg Config) Mappers() (map[string]*mapper.Mapper, error) {
	return strata.NewMappers(strata.Definitions(), cfg.Deployments())
}

func setString(out *string, name string) {
	if value := os.Getenv(name); value != "" {
		*out = value
	}
}

func setBool(out *bool, name string) error {
	raw := os.Getenv(name)
	if raw == "" {
		return nil
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return fmt.Errorf("invalid %s %q: %v", name, raw, err)
	}
	*out = value
	return nil
}

func setInt(out *int, name string) error {
	raw := os.Getenv(name)
	if raw == "" {
		return nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fmt.Errorf("invalid %s %q: %v", name, raw, err)
	}
	*out = value
	return nil
}
