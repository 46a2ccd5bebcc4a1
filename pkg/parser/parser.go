// Package parser provides a tokenizer-backed cursor and a recursive descent
// parser for standard SQL statements.
//
// # Usage
//
//	stmts, err := parser.ParseStatements("SELECT a FROM t; DELETE FROM t")
//
// Extensions that add their own statement forms drive a *Parser directly: they
// inspect tokens with Token/PeekN, consume them with NextToken/Expect, and hand
// everything they do not recognize to ParseStatement.
//
// # Grammar Overview
//
//	statement     → select_stmt | insert_stmt | update_stmt | delete_stmt | drop_stmt
//	select_stmt   → [WITH cte_list] select_body
//	select_body   → select_core [(UNION|INTERSECT|EXCEPT) [ALL] select_body]
//	select_core   → SELECT [DISTINCT] select_list [FROM from_clause]
//	                [WHERE expr] [GROUP BY expr_list] [HAVING expr]
//	                [ORDER BY order_list] [LIMIT expr [OFFSET expr]]
//
// See each file for detailed grammar rules for that section.
package parser

import (
	"fmt"

	"github.com/leapstack-labs/vql/pkg/token"
)

// Parser parses SQL into an AST. A Parser is a single-use cursor over one
// input and must not be shared between goroutines.
type Parser struct {
	lexer  *Lexer
	token  token.Token   // current token
	ahead  []token.Token // buffered lookahead after the current token
	errors []error
}

// NewParser creates a new parser positioned at the first token of sql.
func NewParser(sql string) *Parser {
	p := &Parser{lexer: NewLexer(sql)}
	p.token = p.lexer.NextToken()
	return p
}

// ParseStatement parses a single SQL statement.
func ParseStatement(sql string) (Stmt, error) {
	p := NewParser(sql)
	stmt, err := p.ParseStatement()
	if err != nil {
		return nil, err
	}
	p.Match(token.SEMICOLON)
	if !p.check(token.EOF) {
		return nil, p.unexpectedError("end of input")
	}
	return stmt, nil
}

// ParseStatements parses semicolon-separated SQL statements.
func ParseStatements(sql string) ([]Stmt, error) {
	p := NewParser(sql)
	var stmts []Stmt
	for !p.check(token.EOF) {
		if p.match(token.SEMICOLON) {
			continue
		}
		stmt, err := p.ParseStatement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
		if !p.match(token.SEMICOLON) && !p.check(token.EOF) {
			return nil, p.unexpectedError("; or end of input")
		}
	}
	return stmts, nil
}

// ---------- Token Helpers ----------

// nextToken advances to the next token.
func (p *Parser) nextToken() {
	if len(p.ahead) > 0 {
		p.token = p.ahead[0]
		p.ahead = p.ahead[1:]
		return
	}
	p.token = p.lexer.NextToken()
}

// peekN returns the token n positions after the current one (n >= 1).
func (p *Parser) peekN(n int) token.Token {
	for len(p.ahead) < n {
		p.ahead = append(p.ahead, p.lexer.NextToken())
	}
	return p.ahead[n-1]
}

// check returns true if the current token is of the given type.
func (p *Parser) check(t token.TokenType) bool {
	return p.token.Type == t
}

// checkPeek returns true if the next token is of the given type.
func (p *Parser) checkPeek(t token.TokenType) bool {
	return p.peekN(1).Type == t
}

// match consumes the current token if it matches and returns true.
func (p *Parser) match(t token.TokenType) bool {
	if p.check(t) {
		p.nextToken()
		return true
	}
	return false
}

// expect consumes the current token if it matches, otherwise adds an error.
func (p *Parser) expect(t token.TokenType) bool {
	if p.check(t) {
		p.nextToken()
		return true
	}
	p.errors = append(p.errors, p.unexpectedError(t.String()))
	return false
}

// addError adds a parse error at the current token.
func (p *Parser) addError(msg string) {
	p.errors = append(p.errors, &ParseError{
		Pos:     p.token.Pos,
		Message: msg,
	})
}

// failed reports whether an error has been recorded for the current statement.
func (p *Parser) failed() bool {
	return len(p.errors) > 0
}

// unexpectedError builds the error for the current token when want was
// required. Illegal tokens report the lexical problem instead.
func (p *Parser) unexpectedError(want string) *ParseError {
	msg := fmt.Sprintf(ErrUnexpectedToken, p.token.Describe(), want)
	if p.token.Type == token.ILLEGAL {
		msg = p.illegalMessage()
	}
	return &ParseError{Pos: p.token.Pos, Message: msg}
}

func (p *Parser) illegalMessage() string {
	switch p.token.Literal {
	case ErrUnterminatedString, ErrUnterminatedIdent:
		return p.token.Literal
	default:
		return fmt.Sprintf(ErrIllegalCharacter, p.token.Literal)
	}
}

// ---------- Cursor API ----------
// These methods are the contract offered to statement extensions.

// Token returns the current token.
func (p *Parser) Token() token.Token {
	return p.token
}

// Peek returns the token after the current one.
func (p *Parser) Peek() token.Token {
	return p.peekN(1)
}

// PeekN returns the token n positions after the current one. PeekN(0) is the
// current token. Past the end of input it returns EOF.
func (p *Parser) PeekN(n int) token.Token {
	if n <= 0 {
		return p.token
	}
	return p.peekN(n)
}

// NextToken advances past the current token.
func (p *Parser) NextToken() {
	p.nextToken()
}

// Check returns true if the current token is of the given type.
func (p *Parser) Check(t token.TokenType) bool {
	return p.check(t)
}

// Match consumes the current token if it matches.
func (p *Parser) Match(t token.TokenType) bool {
	return p.match(t)
}

// Expect consumes the current token if it matches, otherwise returns a
// position-annotated *ParseError.
func (p *Parser) Expect(t token.TokenType) error {
	if p.check(t) {
		p.nextToken()
		return nil
	}
	return p.unexpectedError(t.String())
}

// ParseStatement parses exactly one standard statement starting at the
// current token. A trailing semicolon is left for the caller.
func (p *Parser) ParseStatement() (Stmt, error) {
	p.errors = nil
	stmt := p.parseStatement()
	if p.failed() {
		return nil, p.errors[0]
	}
	return stmt, nil
}
