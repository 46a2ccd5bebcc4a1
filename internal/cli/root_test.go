package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/leapstack-labs/vql/internal/cli/config"
	"github.com/leapstack-labs/vql/internal/cli/testutil"
	"github.com/leapstack-labs/vql/pkg/vql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	config.ResetConfig()
	t.Cleanup(config.ResetConfig)

	cmd := NewRootCmd()
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetArgs(append([]string{}, args...))

	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestRootCommand_Subcommands(t *testing.T) {
	cmd := NewRootCmd()

	var names []string
	for _, c := range cmd.Commands() {
		names = append(names, c.Name())
	}
	for _, want := range []string{"parse", "apply", "datasource", "ping", "query", "shell", "serve", "version", "completion"} {
		assert.Contains(t, names, want)
	}

	for _, flag := range []string{"config", "catalog", "output", "verbose"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(flag), "flag %q should exist", flag)
	}
}

func TestRootCommand_ParseWithFlags(t *testing.T) {
	path := testutil.WriteScript(t, "sources.vql", testutil.Sample)

	out, _, err := run(t, "parse", path, "-o", "json", "--catalog", filepath.Join(t.TempDir(), "c.db"))
	require.NoError(t, err)

	var descs []vql.Description
	require.NoError(t, json.Unmarshal([]byte(out), &descs))
	assert.Len(t, descs, 3)
}

func TestRootCommand_ApplyThenList(t *testing.T) {
	catalogPath := filepath.Join(t.TempDir(), "nested", "catalog.db")
	path := testutil.WriteScript(t, "sources.vql", testutil.Sample)

	_, _, err := run(t, "apply", path, "--catalog", catalogPath, "-o", "text")
	require.NoError(t, err)
	_, err = os.Stat(catalogPath)
	require.NoError(t, err, "catalog created")

	out, _, err := run(t, "ds", "ls", "--catalog", catalogPath, "-o", "yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "name: crm")
	assert.Contains(t, out, "name: local")
	assert.Contains(t, out, "type: postgres")
}

func TestRootCommand_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("catalog_path: data/catalog.db\noutput: json\n"), 0o600))

	out, _, err := run(t, "--config", cfgPath, "datasource", "list")
	require.NoError(t, err)
	assert.JSONEq(t, "[]", out)

	_, err = os.Stat(filepath.Join(dir, "data", "catalog.db"))
	assert.NoError(t, err, "catalog path is relative to the config file")
}

func TestRootCommand_InvalidConfig(t *testing.T) {
	_, _, err := run(t, "parse", "-o", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid output format "xml"`)
}

func TestRootCommand_Verbose(t *testing.T) {
	path := testutil.WriteScript(t, "s.vql", "SELECT 1")

	_, errOut, err := run(t, "parse", path, "-v", "-o", "json")
	require.NoError(t, err)
	assert.Contains(t, errOut, "parsed script")
}

func TestCompletionCommand(t *testing.T) {
	for _, shell := range []string{"bash", "zsh", "fish", "powershell"} {
		t.Run(shell, func(t *testing.T) {
			out, _, err := run(t, "completion", shell)
			require.NoError(t, err)
			assert.Contains(t, out, "vql")
		})
	}

	_, _, err := run(t, "completion", "tcsh")
	assert.Error(t, err)
}
