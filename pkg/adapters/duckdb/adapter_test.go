package duckdb

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/leapstack-labs/vql/pkg/adapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdapter_Connect(t *testing.T) {
	tests := []struct {
		name string
		cfg  adapter.Config
	}{
		{name: "in-memory", cfg: adapter.Config{Type: "duckdb", Path: ":memory:"}},
		{name: "empty path", cfg: adapter.Config{Type: "duckdb"}},
		{name: "file", cfg: adapter.Config{Type: "duckdb", Path: filepath.Join(t.TempDir(), "test.duckdb")}},
		{
			name: "with settings",
			cfg: adapter.Config{
				Type:    "duckdb",
				Options: map[string]string{"duckdb_threads": "2"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			a := New(nil)
			require.NoError(t, a.Connect(ctx, tt.cfg))
			defer func() { _ = a.Close() }()

			assert.True(t, a.IsConnected())
			assert.NoError(t, a.Ping(ctx))
		})
	}
}

func TestAdapter_QueryExecution(t *testing.T) {
	ctx := context.Background()
	a := New(nil)
	require.NoError(t, a.Connect(ctx, adapter.Config{Type: "duckdb"}))
	defer func() { _ = a.Close() }()

	require.NoError(t, a.Exec(ctx, "CREATE TABLE users (id INTEGER, name VARCHAR)"))
	require.NoError(t, a.Exec(ctx, "INSERT INTO users VALUES (1, 'alice'), (2, NULL)"))

	rows, err := a.Query(ctx, "SELECT id, name FROM users ORDER BY id")
	require.NoError(t, err)
	columns, data, err := rows.Collect(0)
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "name"}, columns)
	assert.Equal(t, [][]string{{"1", "alice"}, {"2", "NULL"}}, data)
}

func TestAdapter_BadSetting(t *testing.T) {
	a := New(nil)
	err := a.Connect(context.Background(), adapter.Config{
		Type:    "duckdb",
		Options: map[string]string{"duckdb_no_such_setting": "1"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duckdb setup")
	assert.False(t, a.IsConnected())
}

func TestAdapter_Registry(t *testing.T) {
	a, err := adapter.NewAdapter(adapter.Config{Type: "duckdb"}, nil)
	require.NoError(t, err)
	assert.IsType(t, &Adapter{}, a)
}
