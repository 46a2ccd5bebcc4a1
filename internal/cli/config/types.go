// Package config provides configuration management for the vql CLI.
package config

import "time"

// Config holds all CLI configuration options.
type Config struct {
	CatalogPath  string      `koanf:"catalog_path"`
	OutputFormat string      `koanf:"output"`
	Verbose      bool        `koanf:"verbose"`
	Serve        ServeConfig `koanf:"serve"`
	Ping         PingConfig  `koanf:"ping"`
}

// ServeConfig holds configuration for the HTTP API.
type ServeConfig struct {
	Addr string `koanf:"addr"`
}

// PingConfig holds configuration for the ping command.
type PingConfig struct {
	Timeout     time.Duration `koanf:"timeout"`
	Concurrency int           `koanf:"concurrency"`
}

// Default configuration values.
const (
	DefaultCatalogFile     = ".vql/catalog.db"
	DefaultOutput          = "auto" // TTY=text, non-TTY=markdown
	DefaultServeAddr       = "127.0.0.1:8787"
	DefaultPingTimeout     = 5 * time.Second
	DefaultPingConcurrency = 4
)

// Default returns a Config populated with default values.
func Default() *Config {
	return &Config{
		CatalogPath:  DefaultCatalogFile,
		OutputFormat: DefaultOutput,
		Serve:        ServeConfig{Addr: DefaultServeAddr},
		Ping: PingConfig{
			Timeout:     DefaultPingTimeout,
			Concurrency: DefaultPingConcurrency,
		},
	}
}
