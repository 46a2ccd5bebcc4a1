package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdir switches to dir for the duration of the test.
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func newFlags() *pflag.FlagSet {
	flags := pflag.NewFlagSet("vql", pflag.ContinueOnError)
	flags.String("config", "", "")
	flags.String("catalog", "", "")
	flags.StringP("output", "o", "", "")
	flags.BoolP("verbose", "v", false, "")
	return flags
}

func TestLoadConfig_Defaults(t *testing.T) {
	ResetConfig()
	chdir(t, t.TempDir())

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	assert.Equal(t, DefaultCatalogFile, cfg.CatalogPath)
	assert.Equal(t, DefaultOutput, cfg.OutputFormat)
	assert.False(t, cfg.Verbose)
	assert.Equal(t, DefaultServeAddr, cfg.Serve.Addr)
	assert.Equal(t, DefaultPingTimeout, cfg.Ping.Timeout)
	assert.Equal(t, DefaultPingConcurrency, cfg.Ping.Concurrency)
	assert.Empty(t, GetConfigFileUsed())
	assert.Same(t, cfg, GetCurrentConfig())
}

func TestLoadConfig_File(t *testing.T) {
	ResetConfig()
	dir := t.TempDir()
	chdir(t, dir)

	content := `catalog_path: state/catalog.db
output: json
serve:
  addr: ":9000"
ping:
  timeout: 250ms
  concurrency: 2
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "vql.yaml"), []byte(content), 0o600))

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	wd, err := os.Getwd()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(wd, "state", "catalog.db"), cfg.CatalogPath)
	assert.Equal(t, "json", cfg.OutputFormat)
	assert.Equal(t, ":9000", cfg.Serve.Addr)
	assert.Equal(t, 250*time.Millisecond, cfg.Ping.Timeout)
	assert.Equal(t, 2, cfg.Ping.Concurrency)
	assert.Equal(t, "vql.yaml", GetConfigFileUsed())
}

func TestLoadConfig_YmlFallback(t *testing.T) {
	ResetConfig()
	dir := t.TempDir()
	chdir(t, dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "vql.yml"), []byte("output: yaml\n"), 0o600))

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)
	assert.Equal(t, "yaml", cfg.OutputFormat)
	assert.Equal(t, "vql.yml", GetConfigFileUsed())
}

func TestLoadConfig_ExplicitFileMissing(t *testing.T) {
	ResetConfig()
	chdir(t, t.TempDir())

	_, err := LoadConfig("does-not-exist.yaml", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}

func TestLoadConfig_Precedence(t *testing.T) {
	ResetConfig()
	dir := t.TempDir()
	chdir(t, dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "vql.yaml"), []byte("output: json\nping:\n  concurrency: 2\n"), 0o600))

	t.Setenv("VQL_OUTPUT", "yaml")
	t.Setenv("VQL_PING_CONCURRENCY", "8")
	t.Setenv("VQL_SERVE_ADDR", "0.0.0.0:1")

	flags := newFlags()
	require.NoError(t, flags.Parse([]string{"--output", "text", "--catalog", "/tmp/x.db", "-v"}))

	cfg, err := LoadConfig("", flags)
	require.NoError(t, err)

	assert.Equal(t, "text", cfg.OutputFormat, "flag beats env and file")
	assert.Equal(t, 8, cfg.Ping.Concurrency, "env beats file")
	assert.Equal(t, "0.0.0.0:1", cfg.Serve.Addr)
	assert.Equal(t, "/tmp/x.db", cfg.CatalogPath)
	assert.True(t, cfg.Verbose)
}

func TestLoadConfig_ExpandsEnvInCatalogPath(t *testing.T) {
	ResetConfig()
	chdir(t, t.TempDir())
	t.Setenv("VQL_TEST_HOME", "/srv/vql")
	t.Setenv("VQL_CATALOG_PATH", "${VQL_TEST_HOME}/catalog.db")

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)
	assert.Equal(t, "/srv/vql/catalog.db", cfg.CatalogPath)
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name      string
		env       map[string]string
		errSubstr string
	}{
		{
			name:      "bad output",
			env:       map[string]string{"VQL_OUTPUT": "xml"},
			errSubstr: `invalid output format "xml"`,
		},
		{
			name:      "zero concurrency",
			env:       map[string]string{"VQL_PING_CONCURRENCY": "0"},
			errSubstr: "ping.concurrency must be at least 1",
		},
		{
			name:      "negative timeout",
			env:       map[string]string{"VQL_PING_TIMEOUT": "-1s"},
			errSubstr: "ping.timeout must be positive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ResetConfig()
			chdir(t, t.TempDir())
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := LoadConfig("", nil)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errSubstr)
		})
	}
}

func TestEnvKey(t *testing.T) {
	tests := map[string]string{
		"VQL_CATALOG_PATH":     "catalog_path",
		"VQL_OUTPUT":           "output",
		"VQL_SERVE_ADDR":       "serve.addr",
		"VQL_PING_TIMEOUT":     "ping.timeout",
		"VQL_PING_CONCURRENCY": "ping.concurrency",
	}
	for in, want := range tests {
		assert.Equal(t, want, envKey(in), in)
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("VQL_TEST_VAR", "value")

	assert.Equal(t, "a/value/b", expandEnvVars("a/${VQL_TEST_VAR}/b"))
	assert.Equal(t, "${VQL_TEST_UNSET}", expandEnvVars("${VQL_TEST_UNSET}"))
	assert.Equal(t, "plain", expandEnvVars("plain"))
}

func TestGetLogger(t *testing.T) {
	assert.NotNil(t, GetLogger(context.Background()))

	logger := NewLogger(os.Stderr, true)
	ctx := context.WithValue(context.Background(), LoggerKey(), logger)
	assert.Same(t, logger, GetLogger(ctx))
}
