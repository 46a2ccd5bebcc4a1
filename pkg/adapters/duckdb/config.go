package duckdb

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/go-viper/mapstructure/v2"
)

// settingPrefix marks data source options that become DuckDB session
// settings: duckdb_memory_limit = '1GB' runs SET memory_limit = '1GB'.
const settingPrefix = "duckdb_"

// Extension and setting names are spliced into INSTALL, LOAD and SET
// statements, so they must be plain identifiers.
var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Params holds DuckDB-specific configuration decoded from adapter options.
type Params struct {
	// Extensions to install and load (e.g. "httpfs", "json").
	Extensions []string `mapstructure:"extensions"`

	// Settings to apply at session level (e.g. memory_limit, threads).
	Settings map[string]string `mapstructure:"settings"`
}

// ParseParams decodes DuckDB params from data source options. Option names
// are matched case-insensitively; Extensions is a comma-separated list.
func ParseParams(opts map[string]string) (*Params, error) {
	raw := map[string]any{}
	settings := map[string]string{}
	for k, v := range opts {
		lower := strings.ToLower(k)
		switch {
		case lower == "extensions":
			raw["extensions"] = v
		case strings.HasPrefix(lower, settingPrefix) && len(lower) > len(settingPrefix):
			settings[lower[len(settingPrefix):]] = v
		}
	}
	if len(settings) > 0 {
		raw["settings"] = settings
	}

	params := &Params{}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.StringToSliceHookFunc(","),
		Result:     params,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, fmt.Errorf("invalid duckdb options: %w", err)
	}

	exts := params.Extensions[:0]
	for _, e := range params.Extensions {
		if e = strings.TrimSpace(e); e != "" {
			exts = append(exts, e)
		}
	}
	params.Extensions = exts
	if len(params.Extensions) == 0 {
		params.Extensions = nil
	}

	for _, e := range params.Extensions {
		if !identPattern.MatchString(e) {
			return nil, fmt.Errorf("invalid duckdb extension name %q", e)
		}
	}
	for k := range params.Settings {
		if !identPattern.MatchString(k) {
			return nil, fmt.Errorf("invalid duckdb setting name %q", k)
		}
	}

	return params, nil
}
