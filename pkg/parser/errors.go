package parser

import (
	"fmt"

	"github.com/leapstack-labs/vql/pkg/token"
)

// ParseError represents a parsing error with position information.
type ParseError struct {
	Pos     token.Position
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at line %d, column %d: %s", e.Pos.Line, e.Pos.Column, e.Message)
}

// Common error messages
const (
	ErrUnexpectedToken    = "unexpected %s, expected %s"
	ErrUnterminatedString = "unterminated string literal"
	ErrUnterminatedIdent  = "unterminated quoted identifier"
	ErrIllegalCharacter   = "illegal character %q"
	ErrUnsupportedStmt    = "unsupported statement starting with %s"
	ErrExpectedExpression = "unexpected %s in expression"
)
