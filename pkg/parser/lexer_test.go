package parser_test

import (
	"testing"

	"github.com/leapstack-labs/vql/pkg/parser"
	"github.com/leapstack-labs/vql/pkg/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func types(toks []token.Token) []token.TokenType {
	out := make([]token.TokenType, len(toks))
	for i, t := range toks {
		out[i] = t.Type
	}
	return out
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []token.TokenType
	}{
		{
			name:  "empty",
			input: "",
			want:  []token.TokenType{token.EOF},
		},
		{
			name:  "select",
			input: "SELECT a, b FROM t;",
			want: []token.TokenType{
				token.SELECT, token.IDENT, token.COMMA, token.IDENT,
				token.FROM, token.IDENT, token.SEMICOLON, token.EOF,
			},
		},
		{
			name:  "extension words",
			input: "create DataSource ds CONFIG(k = 'v')",
			want: []token.TokenType{
				token.CREATE, token.IDENT, token.IDENT, token.IDENT, token.LPAREN,
				token.IDENT, token.EQ, token.STRING, token.RPAREN, token.EOF,
			},
		},
		{
			name:  "operators",
			input: "<= >= <> != || < > = + - * / %",
			want: []token.TokenType{
				token.LE, token.GE, token.NE, token.NE, token.DPIPE, token.LT, token.GT,
				token.EQ, token.PLUS, token.MINUS, token.STAR, token.SLASH, token.PERCENT, token.EOF,
			},
		},
		{
			name:  "comments",
			input: "-- leading\nSELECT /* inline */ 1 -- trailing",
			want:  []token.TokenType{token.SELECT, token.NUMBER, token.EOF},
		},
		{
			name:  "numbers",
			input: "1 2.5 3e10 4.0E-2",
			want:  []token.TokenType{token.NUMBER, token.NUMBER, token.NUMBER, token.NUMBER, token.EOF},
		},
		{
			name:  "illegal",
			input: "a ? b",
			want:  []token.TokenType{token.IDENT, token.ILLEGAL, token.IDENT, token.EOF},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, types(parser.Tokenize(tt.input)))
		})
	}
}

func TestLexerStrings(t *testing.T) {
	toks := parser.Tokenize(`'plain' 'it''s' '' "Quoted ""id"""`)
	require.Len(t, toks, 5)

	assert.Equal(t, token.STRING, toks[0].Type)
	assert.Equal(t, "plain", toks[0].Literal)
	assert.Equal(t, "it's", toks[1].Literal)
	assert.Equal(t, "", toks[2].Literal)
	assert.Equal(t, token.STRING, toks[2].Type)

	assert.Equal(t, token.IDENT, toks[3].Type)
	assert.True(t, toks[3].Quoted)
	assert.Equal(t, `Quoted "id"`, toks[3].Literal)
}

func TestLexerUnterminated(t *testing.T) {
	toks := parser.Tokenize("x = 'abc")
	require.Len(t, toks, 4)
	assert.Equal(t, token.ILLEGAL, toks[2].Type)
	assert.Equal(t, parser.ErrUnterminatedString, toks[2].Literal)

	toks = parser.Tokenize(`"abc`)
	assert.Equal(t, token.ILLEGAL, toks[0].Type)
	assert.Equal(t, parser.ErrUnterminatedIdent, toks[0].Literal)
}

func TestLexerKeepsIdentifierCase(t *testing.T) {
	toks := parser.Tokenize("Select MyTable")
	assert.Equal(t, token.SELECT, toks[0].Type)
	assert.Equal(t, "Select", toks[0].Literal)
	assert.Equal(t, "MyTable", toks[1].Literal)
}

func TestLexerPositions(t *testing.T) {
	toks := parser.Tokenize("SELECT a\n  FROM t")
	require.Len(t, toks, 5)

	assert.Equal(t, token.Position{Line: 1, Column: 1, Offset: 0}, toks[0].Pos)
	assert.Equal(t, token.Position{Line: 1, Column: 8, Offset: 7}, toks[1].Pos)
	assert.Equal(t, token.Position{Line: 2, Column: 3, Offset: 11}, toks[2].Pos)
	assert.Equal(t, token.Position{Line: 2, Column: 8, Offset: 16}, toks[3].Pos)
}

func TestLexerUTF8Identifier(t *testing.T) {
	toks := parser.Tokenize("SELECT größe FROM t")
	require.Len(t, toks, 5)
	assert.Equal(t, "größe", toks[1].Literal)
	assert.Equal(t, token.IDENT, toks[1].Type)
}
