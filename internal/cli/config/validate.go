package config

import (
	"fmt"
	"slices"
	"strings"
)

var validOutputs = []string{"auto", "text", "markdown", "md", "json", "yaml"}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.CatalogPath == "" {
		return fmt.Errorf("catalog_path is required")
	}
	if !slices.Contains(validOutputs, strings.ToLower(c.OutputFormat)) {
		return fmt.Errorf("invalid output format %q (expected one of %s)", c.OutputFormat, strings.Join(validOutputs, ", "))
	}
	if c.Ping.Concurrency < 1 {
		return fmt.Errorf("ping.concurrency must be at least 1, got %d", c.Ping.Concurrency)
	}
	if c.Ping.Timeout <= 0 {
		return fmt.Errorf("ping.timeout must be positive, got %s", c.Ping.Timeout)
	}
	return nil
}
