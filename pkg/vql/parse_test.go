package vql_test

import (
	"errors"
	"sync"
	"testing"

	"github.com/leapstack-labs/vql/pkg/parser"
	"github.com/leapstack-labs/vql/pkg/token"
	"github.com/leapstack-labs/vql/pkg/vql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pair struct{ name, value string }

func pairs(ds *vql.CreateDataSource) []pair {
	out := make([]pair, 0, len(ds.ConfigParameters))
	for _, e := range ds.ConfigParameters {
		out = append(out, pair{e.Name, e.Value})
	}
	return out
}

func requireDataSource(t *testing.T, stmt vql.Statement) *vql.CreateDataSource {
	t.Helper()
	ds, ok := stmt.(*vql.CreateDataSource)
	require.True(t, ok, "expected *vql.CreateDataSource, got %T", stmt)
	return ds
}

func requireSQL(t *testing.T, stmt vql.Statement) parser.Stmt {
	t.Helper()
	s, ok := stmt.(*vql.SQLStatement)
	require.True(t, ok, "expected *vql.SQLStatement, got %T", stmt)
	return s.Stmt
}

// ---------- Dispatch ----------

func TestParseEndToEnd(t *testing.T) {
	stmts, err := vql.Parse("CREATE DATASOURCE user CONFIG(DriverClassName = 'com.mysql.jdbc.Driver' UserName = 'acme_user') ; select * from user;")
	require.NoError(t, err)
	require.Len(t, stmts, 2)

	ds := requireDataSource(t, stmts[0])
	assert.Equal(t, "user", ds.TableName)
	assert.Equal(t, []pair{
		{"DriverClassName", "com.mysql.jdbc.Driver"},
		{"UserName", "acme_user"},
	}, pairs(ds))

	sel := requireSQL(t, stmts[1])
	assert.Equal(t, "SELECT", sel.Kind())
}

func TestParseMultiline(t *testing.T) {
	input := `
    CREATE DATASOURCE user
    CONFIG(
        DriverClassName = 'com.mysql.jdbc.Driver'
        DataBaseUri = 'jdbc:mysql://localhost:3306/acme_crm'
        UserName = 'acme_user'
        UserPassword = 'xxxx'
        DatabaseName = 'mysql'
        DatabaseVersion = '8'

    )


    select * from user;
    `
	stmts, err := vql.Parse(input)
	require.NoError(t, err)
	require.Len(t, stmts, 2)

	ds := requireDataSource(t, stmts[0])
	assert.Equal(t, token.Position{Line: 2, Column: 5, Offset: 5}, ds.Pos())
	assert.Equal(t, []pair{
		{"DriverClassName", "com.mysql.jdbc.Driver"},
		{"DataBaseUri", "jdbc:mysql://localhost:3306/acme_crm"},
		{"UserName", "acme_user"},
		{"UserPassword", "xxxx"},
		{"DatabaseName", "mysql"},
		{"DatabaseVersion", "8"},
	}, pairs(ds))
	assert.Equal(t, 4, ds.ConfigParameters[0].Pos.Line)
	assert.Equal(t, 9, ds.ConfigParameters[0].Pos.Column)

	assert.Equal(t, "SELECT", requireSQL(t, stmts[1]).Kind())
	assert.Equal(t, 14, stmts[1].Pos().Line)
}

func TestParseGenericOnly(t *testing.T) {
	tests := []struct {
		name  string
		input string
		count int
	}{
		{"empty", "", 0},
		{"whitespace", "  \n\t-- nothing\n", 0},
		{"single", "SELECT 1", 1},
		{"single with separator", "SELECT 1;", 1},
		{"several", "SELECT 1; INSERT INTO t VALUES (1); UPDATE t SET a = 2; DELETE FROM t; DROP TABLE t", 5},
		{"no separators", "SELECT a FROM t SELECT b FROM u", 2},
		{"with clause", "WITH x AS (SELECT 1) SELECT * FROM x; SELECT 2", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stmts, err := vql.Parse(tt.input)
			require.NoError(t, err)
			require.Len(t, stmts, tt.count)
			for _, s := range stmts {
				requireSQL(t, s)
			}
		})
	}
}

func TestParseTrailingSeparatorIrrelevant(t *testing.T) {
	const script = "CREATE DATASOURCE a CONFIG(k = 'v'); SELECT 1"

	without, err := vql.Parse(script)
	require.NoError(t, err)
	with, err := vql.Parse(script + ";")
	require.NoError(t, err)

	assert.Equal(t, without, with)
}

func TestParseIdempotent(t *testing.T) {
	const script = "select 1; CREATE DATASOURCE a CONFIG(x = '1' x = '2'); create datasource b config()"

	first, err := vql.Parse(script)
	require.NoError(t, err)
	second, err := vql.Parse(script)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestParseConcurrent(t *testing.T) {
	const script = "CREATE DATASOURCE a CONFIG(k = 'v'); SELECT * FROM a"

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			stmts, err := vql.Parse(script)
			assert.NoError(t, err)
			assert.Len(t, stmts, 2)
		}()
	}
	wg.Wait()
}

func TestParseMixedOrder(t *testing.T) {
	stmts, err := vql.Parse(`
		SELECT 1;
		CREATE DATASOURCE a CONFIG(Type = 'sqlite')
		CREATE DATASOURCE b CONFIG();
		DELETE FROM t`)
	require.NoError(t, err)
	require.Len(t, stmts, 4)

	requireSQL(t, stmts[0])
	assert.Equal(t, "a", requireDataSource(t, stmts[1]).TableName)
	assert.Equal(t, "b", requireDataSource(t, stmts[2]).TableName)
	assert.Equal(t, "DELETE", requireSQL(t, stmts[3]).Kind())
}

// ---------- Extension Grammar ----------

func TestParseDataSourceForms(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		table   string
		entries []pair
	}{
		{
			name:    "empty config",
			input:   "CREATE DATASOURCE ds CONFIG()",
			table:   "ds",
			entries: []pair{},
		},
		{
			name:    "lower case keywords",
			input:   "create datasource Ds config ( a = 'b' )",
			table:   "Ds",
			entries: []pair{{"a", "b"}},
		},
		{
			name:    "mixed case keywords",
			input:   "CrEaTe DataSource ds Config(a = 'b')",
			table:   "ds",
			entries: []pair{{"a", "b"}},
		},
		{
			name:    "keywords as names",
			input:   "CREATE DATASOURCE select CONFIG(from = 'x' Table = 'y')",
			table:   "select",
			entries: []pair{{"from", "x"}, {"Table", "y"}},
		},
		{
			name:    "quoted names",
			input:   `CREATE DATASOURCE "My Source" CONFIG("user name" = 'bob')`,
			table:   "My Source",
			entries: []pair{{"user name", "bob"}},
		},
		{
			name:    "duplicates kept in order",
			input:   "CREATE DATASOURCE ds CONFIG(k = '1' K = '2' k = '3')",
			table:   "ds",
			entries: []pair{{"k", "1"}, {"K", "2"}, {"k", "3"}},
		},
		{
			name:    "doubled quote and empty value",
			input:   "CREATE DATASOURCE ds CONFIG(Note = 'it''s' Empty = '')",
			table:   "ds",
			entries: []pair{{"Note", "it's"}, {"Empty", ""}},
		},
		{
			name:    "comments between entries",
			input:   "CREATE DATASOURCE ds CONFIG(\n a = 'b' -- first\n /* second */ c = 'd')",
			table:   "ds",
			entries: []pair{{"a", "b"}, {"c", "d"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stmts, err := vql.Parse(tt.input)
			require.NoError(t, err)
			require.Len(t, stmts, 1)

			ds := requireDataSource(t, stmts[0])
			assert.Equal(t, tt.table, ds.TableName)
			assert.Equal(t, tt.entries, pairs(ds))
		})
	}
}

func TestParseCreateDataSourceStopsAfterParen(t *testing.T) {
	p := parser.NewParser("CREATE DATASOURCE ds CONFIG(a = 'b') SELECT 1")
	ds, err := vql.ParseCreateDataSource(p)
	require.NoError(t, err)
	assert.Equal(t, "ds", ds.TableName)
	assert.Equal(t, token.SELECT, p.Token().Type)
}

func TestParseConfigEntry(t *testing.T) {
	p := parser.NewParser("Host = 'db.local' Port = '5432'")

	e, err := vql.ParseConfigEntry(p)
	require.NoError(t, err)
	assert.Equal(t, "Host", e.Name)
	assert.Equal(t, "db.local", e.Value)
	assert.Equal(t, token.Position{Line: 1, Column: 1, Offset: 0}, e.Pos)

	e, err = vql.ParseConfigEntry(p)
	require.NoError(t, err)
	assert.Equal(t, "Port", e.Name)
	assert.Equal(t, "5432", e.Value)
	assert.Equal(t, token.EOF, p.Token().Type)
}

// ---------- Errors ----------

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   error
		line   int
		column int
	}{
		{
			name:   "missing config keyword",
			input:  "CREATE DATASOURCE ds (a = 'b')",
			want:   vql.ErrExpectedConfig,
			line:   1,
			column: 22,
		},
		{
			name:   "wrong config keyword",
			input:  "CREATE DATASOURCE ds SETTINGS(a = 'b')",
			want:   vql.ErrExpectedConfig,
			line:   1,
			column: 22,
		},
		{
			name:   "missing closing paren",
			input:  "CREATE DATASOURCE ds CONFIG(a = 'b'",
			want:   vql.ErrExpectedIdentifier,
			line:   1,
			column: 36,
		},
		{
			name:   "missing closing paren before separator",
			input:  "CREATE DATASOURCE ds CONFIG(a = 'b'; SELECT 1",
			want:   vql.ErrExpectedIdentifier,
			line:   1,
			column: 36,
		},
		{
			name:   "create table",
			input:  "CREATE TABLE t (a INT)",
			want:   vql.ErrExpectedDataSource,
			line:   1,
			column: 8,
		},
		{
			name:   "datasource without create",
			input:  "MAKE DATASOURCE ds CONFIG()",
			want:   vql.ErrExpectedCreate,
			line:   1,
			column: 1,
		},
		{
			name:   "quoted create is not a keyword",
			input:  `"CREATE" DATASOURCE ds CONFIG()`,
			want:   vql.ErrExpectedCreate,
			line:   1,
			column: 1,
		},
		{
			name:   "string as name",
			input:  "CREATE DATASOURCE 'ds' CONFIG()",
			want:   vql.ErrExpectedTableName,
			line:   1,
			column: 19,
		},
		{
			name:   "empty quoted name",
			input:  `CREATE DATASOURCE "" CONFIG()`,
			want:   vql.ErrExpectedTableName,
			line:   1,
			column: 19,
		},
		{
			name:   "missing name at end",
			input:  "CREATE DATASOURCE",
			want:   vql.ErrExpectedTableName,
			line:   1,
			column: 18,
		},
		{
			name:   "missing open paren",
			input:  "CREATE DATASOURCE ds CONFIG a = 'b'",
			want:   vql.ErrExpectedLParen,
			line:   1,
			column: 29,
		},
		{
			name:   "entry name is a string",
			input:  "CREATE DATASOURCE ds CONFIG('a' = 'b')",
			want:   vql.ErrExpectedIdentifier,
			line:   1,
			column: 29,
		},
		{
			name:   "comma between entries",
			input:  "CREATE DATASOURCE ds CONFIG(a = 'b', c = 'd')",
			want:   vql.ErrExpectedIdentifier,
			line:   1,
			column: 36,
		},
		{
			name:   "number value",
			input:  "CREATE DATASOURCE ds CONFIG(Port = 5432)",
			want:   vql.ErrExpectedValue,
			line:   1,
			column: 36,
		},
		{
			name:   "unterminated value",
			input:  "CREATE DATASOURCE ds CONFIG(a = 'b)",
			want:   vql.ErrExpectedValue,
			line:   1,
			column: 33,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stmts, err := vql.Parse(tt.input)
			require.Error(t, err)
			assert.Nil(t, stmts)
			assert.ErrorIs(t, err, tt.want)

			var pe *vql.ParseError
			require.True(t, errors.As(err, &pe))
			assert.Equal(t, tt.line, pe.Pos.Line)
			assert.Equal(t, tt.column, pe.Pos.Column)
		})
	}
}

func TestParseMissingEqualsPropagatesCursorError(t *testing.T) {
	_, err := vql.Parse("CREATE DATASOURCE ds CONFIG(a 'b')")
	require.Error(t, err)

	var pe *parser.ParseError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, 31, pe.Pos.Column)
	assert.Equal(t, "parse error at line 1, column 31: unexpected string 'b', expected =", err.Error())
}

func TestParseGenericErrorVerbatim(t *testing.T) {
	_, direct := parser.ParseStatement("SELECT FROM t")
	require.Error(t, direct)

	stmts, err := vql.Parse("CREATE DATASOURCE ds CONFIG(); SELECT FROM t")
	require.Error(t, err)
	assert.Nil(t, stmts)

	var pe *parser.ParseError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, "unexpected FROM in expression", pe.Message)
	assert.Equal(t, 39, pe.Pos.Column)
	assert.Equal(t, direct.(*parser.ParseError).Message, pe.Message)
}

func TestParseEmptyStatementRejected(t *testing.T) {
	_, err := vql.Parse("SELECT 1;;")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported statement starting with ;")
}

func TestParseErrorMessage(t *testing.T) {
	_, err := vql.Parse("CREATE DATASOURCE ds (a = 'b')")
	require.Error(t, err)
	assert.Equal(t, "parse error at line 1, column 22: expected CONFIG, found (", err.Error())
}

func TestErrorPosition(t *testing.T) {
	_, err := vql.Parse("CREATE DATASOURCE ds (a = 'b')")
	pos, ok := vql.ErrorPosition(err)
	require.True(t, ok)
	assert.Equal(t, 22, pos.Column)

	_, err = vql.Parse("SELECT 1;\nSELECT FROM t")
	pos, ok = vql.ErrorPosition(err)
	require.True(t, ok)
	assert.Equal(t, 2, pos.Line)
	assert.Equal(t, 8, pos.Column)

	_, ok = vql.ErrorPosition(errors.New("plain"))
	assert.False(t, ok)
}
