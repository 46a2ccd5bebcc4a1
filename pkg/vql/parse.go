package vql

import (
	"github.com/leapstack-labs/vql/pkg/parser"
	"github.com/leapstack-labs/vql/pkg/token"
)

// Cursor is the token stream the extension parser runs on. *parser.Parser
// implements it.
type Cursor interface {
	// Token returns the current token.
	Token() token.Token
	// Peek returns the token after the current one.
	Peek() token.Token
	// PeekN returns the token n positions ahead; PeekN(0) is the current token.
	PeekN(n int) token.Token
	// NextToken advances past the current token.
	NextToken()
	// Check reports whether the current token has type t.
	Check(t token.TokenType) bool
	// Match consumes the current token if it has type t.
	Match(t token.TokenType) bool
	// Expect consumes a token of type t or returns a positioned error.
	Expect(t token.TokenType) error
	// ParseStatement parses one standard SQL statement.
	ParseStatement() (parser.Stmt, error)
}

var _ Cursor = (*parser.Parser)(nil)

// Parse parses a script of statements separated by optional semicolons.
// The first error aborts the whole call and no statements are returned.
func Parse(input string) ([]Statement, error) {
	return ParseCursor(parser.NewParser(input))
}

// ParseCursor parses statements from c until end of input.
func ParseCursor(c Cursor) ([]Statement, error) {
	var stmts []Statement

	for !c.Check(token.EOF) {
		var stmt Statement
		if isExtension(c) {
			ds, err := ParseCreateDataSource(c)
			if err != nil {
				return nil, err
			}
			stmt = ds
		} else {
			s, err := c.ParseStatement()
			if err != nil {
				return nil, err
			}
			stmt = &SQLStatement{Stmt: s}
		}
		stmts = append(stmts, stmt)

		c.Match(token.SEMICOLON)
	}

	return stmts, nil
}

// isExtension looks at the current and next token. CREATE alone is enough:
// the extension parser rejects CREATE TABLE and friends itself.
func isExtension(c Cursor) bool {
	cur := c.Token()
	if !cur.IsWord() {
		return false
	}
	return cur.Is("CREATE") || c.Peek().Is("DATASOURCE")
}
