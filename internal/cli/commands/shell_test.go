package commands

import (
	"context"
	"testing"

	"github.com/leapstack-labs/vql/internal/catalog"
	"github.com/leapstack-labs/vql/internal/cli/output"
	"github.com/leapstack-labs/vql/internal/cli/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestShell(t *testing.T) (*shell, *testutil.TestRenderer) {
	t.Helper()

	store := catalog.NewStore(nil)
	require.NoError(t, store.Open(":memory:"))
	require.NoError(t, store.Migrate())
	t.Cleanup(func() { _ = store.Close() })

	tr := testutil.NewTestRenderer(output.ModeText, false)
	return &shell{r: tr.Renderer, store: store}, tr
}

func TestShell_MultiLineStatement(t *testing.T) {
	sh, tr := newTestShell(t)
	ctx := context.Background()

	assert.False(t, sh.handleLine(ctx, "CREATE DATASOURCE crm CONFIG("))
	assert.False(t, sh.handleLine(ctx, "  Type = 'postgres'"))
	assert.Positive(t, sh.buf.Len(), "statement still pending")
	assert.Empty(t, tr.Output())

	assert.False(t, sh.handleLine(ctx, ");"))
	assert.Zero(t, sh.buf.Len())
	assert.Contains(t, tr.Output(), "registered data source crm (postgres, 1 entries)")

	ds, err := sh.store.Get(ctx, "crm")
	require.NoError(t, err)
	assert.Equal(t, "postgres", ds.Type)
}

func TestShell_MixedBatch(t *testing.T) {
	sh, tr := newTestShell(t)
	ctx := context.Background()

	sh.handleLine(ctx, "SELECT 1; CREATE DATASOURCE a CONFIG(); DELETE FROM t;")

	out := tr.Output()
	assert.Contains(t, out, "SELECT statement OK")
	assert.Contains(t, out, "registered data source a (unknown, 0 entries)")
	assert.Contains(t, out, "DELETE statement OK")
}

func TestShell_ParseErrorKeepsSession(t *testing.T) {
	sh, tr := newTestShell(t)
	ctx := context.Background()

	assert.False(t, sh.handleLine(ctx, "CREATE DATASOURCE ds (a = 'b');"))
	assert.Contains(t, tr.ErrorOutput(), "expected CONFIG")
	assert.Zero(t, sh.buf.Len())

	assert.False(t, sh.handleLine(ctx, "SELECT 1;"))
	assert.Contains(t, tr.Output(), "SELECT statement OK")
}

func TestShell_DotCommands(t *testing.T) {
	sh, tr := newTestShell(t)
	ctx := context.Background()

	sh.handleLine(ctx, "CREATE DATASOURCE lake CONFIG(Type = 'duckdb' ApiToken = 't0k3n');")

	assert.False(t, sh.handleLine(ctx, ".help"))
	assert.Contains(t, tr.Output(), ".show <name>")

	assert.False(t, sh.handleLine(ctx, ".list"))
	assert.Contains(t, tr.Output(), "Data sources (1 total)")

	assert.False(t, sh.handleLine(ctx, ".show lake"))
	assert.Contains(t, tr.Output(), "duckdb")
	assert.NotContains(t, tr.Output(), "t0k3n")

	assert.False(t, sh.handleLine(ctx, ".show"))
	assert.Contains(t, tr.ErrorOutput(), "usage: .show <name>")

	assert.False(t, sh.handleLine(ctx, ".show missing"))
	assert.Contains(t, tr.ErrorOutput(), "datasource not found: missing")

	assert.False(t, sh.handleLine(ctx, ".bogus"))
	assert.Contains(t, tr.ErrorOutput(), "unknown command: .bogus")

	assert.True(t, sh.handleLine(ctx, ".quit"))
	assert.True(t, sh.handleLine(ctx, ".EXIT"))
}

func TestShell_DotInsideStatementIsText(t *testing.T) {
	sh, _ := newTestShell(t)
	ctx := context.Background()

	sh.handleLine(ctx, "SELECT")
	assert.False(t, sh.handleLine(ctx, ".quit"), "only a fresh line starts a dot-command")
	assert.Positive(t, sh.buf.Len())
}
