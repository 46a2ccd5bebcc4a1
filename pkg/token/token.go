// Package token defines the lexical tokens shared by the SQL lexer, the
// generic statement parser and the VQL extension parser.
package token

import (
	"fmt"
	"strings"
)

// TokenType represents the type of a lexical token.
//
//nolint:revive // Accept stutter as token.TokenType is clear and widely used
type TokenType int32

const (
	// Special tokens
	EOF TokenType = iota
	ILLEGAL

	// Literals
	IDENT  // identifier or "quoted identifier"
	NUMBER // 123, 45.67, 1e10
	STRING // 'hello'

	// Operators and punctuation
	PLUS      // +
	MINUS     // -
	STAR      // *
	SLASH     // /
	PERCENT   // %
	DPIPE     // ||
	EQ        // =
	NE        // != or <>
	LT        // <
	GT        // >
	LE        // <=
	GE        // >=
	DOT       // .
	COMMA     // ,
	SEMICOLON // ;
	LPAREN    // (
	RPAREN    // )

	// Keywords (alphabetical)
	keywordStart
	ALL
	AND
	AS
	ASC
	BETWEEN
	BY
	CASE
	CAST
	CREATE
	CROSS
	DELETE
	DESC
	DISTINCT
	DROP
	ELSE
	END
	EXCEPT
	EXISTS
	FALSE
	FIRST
	FROM
	FULL
	GROUP
	HAVING
	IF
	IN
	INNER
	INSERT
	INTERSECT
	INTO
	IS
	JOIN
	LAST
	LEFT
	LIKE
	LIMIT
	NOT
	NULL
	NULLS
	OFFSET
	ON
	OR
	ORDER
	OUTER
	RECURSIVE
	RIGHT
	SELECT
	SET
	TABLE
	THEN
	TRUE
	UNION
	UPDATE
	USING
	VALUES
	VIEW
	WHEN
	WHERE
	WITH
	keywordEnd
)

var tokenNames = map[TokenType]string{
	EOF:     "EOF",
	ILLEGAL: "ILLEGAL",

	IDENT:  "IDENT",
	NUMBER: "NUMBER",
	STRING: "STRING",

	PLUS:      "+",
	MINUS:     "-",
	STAR:      "*",
	SLASH:     "/",
	PERCENT:   "%",
	DPIPE:     "||",
	EQ:        "=",
	NE:        "!=",
	LT:        "<",
	GT:        ">",
	LE:        "<=",
	GE:        ">=",
	DOT:       ".",
	COMMA:     ",",
	SEMICOLON: ";",
	LPAREN:    "(",
	RPAREN:    ")",
}

// keywords maps lowercase keyword strings to their token types.
var keywords = map[string]TokenType{}

func init() {
	for t := keywordStart + 1; t < keywordEnd; t++ {
		name := keywordNames[t-keywordStart-1]
		tokenNames[t] = name
		keywords[strings.ToLower(name)] = t
	}
}

// keywordNames is ordered exactly like the keyword constants.
var keywordNames = [...]string{
	"ALL", "AND", "AS", "ASC", "BETWEEN", "BY", "CASE", "CAST", "CREATE",
	"CROSS", "DELETE", "DESC", "DISTINCT", "DROP", "ELSE", "END", "EXCEPT", "EXISTS",
	"FALSE", "FIRST", "FROM", "FULL", "GROUP", "HAVING", "IF", "IN", "INNER",
	"INSERT", "INTERSECT", "INTO", "IS", "JOIN", "LAST", "LEFT", "LIKE",
	"LIMIT", "NOT", "NULL", "NULLS", "OFFSET", "ON", "OR", "ORDER", "OUTER",
	"RECURSIVE", "RIGHT", "SELECT", "SET", "TABLE", "THEN", "TRUE", "UNION",
	"UPDATE", "USING", "VALUES", "VIEW", "WHEN", "WHERE", "WITH",
}

// String returns a human-readable representation of the token type.
func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TOKEN(%d)", t)
}

// LookupIdent returns the keyword token type for the given lowercase
// identifier, or IDENT if it is not a keyword.
func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return IDENT
}

// IsKeyword returns true if the token type is a reserved keyword.
func IsKeyword(t TokenType) bool {
	return t > keywordStart && t < keywordEnd
}

// IsOperator returns true if the token type is an operator or punctuation.
func IsOperator(t TokenType) bool {
	return t >= PLUS && t <= RPAREN
}

// Position represents a location in the source text.
type Position struct {
	Line   int // 1-based line number
	Column int // 1-based column number
	Offset int // 0-based byte offset
}

// IsValid returns true if the position is valid (line > 0).
func (p Position) IsValid() bool {
	return p.Line > 0
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Token represents a lexical token with position information.
type Token struct {
	Type    TokenType
	Literal string // decoded text: quotes stripped for strings and quoted identifiers
	Quoted  bool   // IDENT written as "quoted identifier"
	Pos     Position
}

// IsWord reports whether the token is a bare word: an identifier (quoted or
// not) or a keyword. Words are what SQL accepts as object names.
func (t Token) IsWord() bool {
	return t.Type == IDENT || IsKeyword(t.Type)
}

// Is reports whether the token is the unquoted word kw, compared
// case-insensitively. Quoted identifiers never match.
func (t Token) Is(kw string) bool {
	return t.IsWord() && !t.Quoted && strings.EqualFold(t.Literal, kw)
}

// Describe renders the token for error messages.
func (t Token) Describe() string {
	switch {
	case t.Type == EOF:
		return "end of input"
	case t.Type == STRING:
		return fmt.Sprintf("string '%s'", t.Literal)
	case t.Type == IDENT || t.Type == NUMBER || t.Type == ILLEGAL:
		return fmt.Sprintf("%s %q", t.Type, t.Literal)
	default:
		return t.Type.String()
	}
}
