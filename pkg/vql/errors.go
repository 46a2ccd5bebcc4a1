package vql

import (
	"errors"
	"fmt"

	"github.com/leapstack-labs/vql/pkg/parser"
	"github.com/leapstack-labs/vql/pkg/token"
)

// Grammar errors of the CREATE DATASOURCE statement. They are returned
// wrapped in a *ParseError and can be matched with errors.Is.
var (
	ErrExpectedCreate     = errors.New("expected CREATE")
	ErrExpectedDataSource = errors.New("expected DATASOURCE")
	ErrExpectedTableName  = errors.New("expected data source name")
	ErrExpectedConfig     = errors.New("expected CONFIG")
	ErrExpectedLParen     = errors.New("expected ( after CONFIG")
	ErrExpectedIdentifier = errors.New("expected config entry name")
	ErrExpectedValue      = errors.New("expected quoted string value")
)

// ParseError reports a grammar error of the extension statement at the
// offending token.
type ParseError struct {
	Pos   token.Position
	Err   error
	Found string // description of the offending token
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at line %d, column %d: %v, found %s",
		e.Pos.Line, e.Pos.Column, e.Err, e.Found)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func errorAt(err error, tok token.Token) *ParseError {
	return &ParseError{Pos: tok.Pos, Err: err, Found: tok.Describe()}
}

// ErrorPosition returns the source position carried by err, which may be
// an extension or a generic SQL parse error.
func ErrorPosition(err error) (token.Position, bool) {
	var pe *ParseError
	if errors.As(err, &pe) {
		return pe.Pos, true
	}
	var ge *parser.ParseError
	if errors.As(err, &ge) {
		return ge.Pos, true
	}
	return token.Position{}, false
}
