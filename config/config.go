// Package config loads gateway service configuration from a yaml/json file
// with optional environment overrides.
package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config is the root gateway configuration.
type Config struct {
	Server  ServerConfig  `json:"server"`
	Audit   AuditConfig   `json:"audit"`
	Logging LoggingConfig `json:"logging"`
}

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	// Addr is the listen address, host:port.
	Addr string `json:"addr"`
}

// AuditConfig locates the append-only queue audit log.
type AuditConfig struct {
	// Path is the audit log file; opened once at startup, closed at
	// shutdown.
	Path string `json:"path"`
}

// LoggingConfig controls diagnostic log verbosity.
type LoggingConfig struct {
	// Level is a logrus level name ("debug", "info", ...).
	Level string `json:"level"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = ":8000"
	}
	if c.Audit.Path == "" {
		c.Audit.Path = "queue.log"
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
}

// Validate checks mandatory fields.
func (c Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}
	if c.Audit.Path == "" {
		return fmt.Errorf("audit.path is required")
	}
	return nil
}

// Default returns the configuration used when no config file is given.
func Default() *Config {
	cfg := &Config{}
	cfg.SetDefaults()
	return cfg
}

// Load reads the config file at path (yaml or json, by extension), applies
// RELIEF_-prefixed environment overrides (RELIEF_SERVER__ADDR -> server.addr),
// then defaults and validation.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	ext := strings.ToLower(filepath.Ext(path))
	var parser koanf.Parser
	switch ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}

	// Optional environment overrides
	if err := k.Load(env.Provider("RELIEF_", "__", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "relief_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}

	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
