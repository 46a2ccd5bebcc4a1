package parser

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/vql/pkg/token"
)

// Primary expression parsing: literals, column refs, function calls.
//
// Grammar:
//
//	primary       → literal | column_ref | func_call | paren_expr | case_expr | cast_expr | exists_expr | "*"
//	literal       → NUMBER | STRING | TRUE | FALSE | NULL
//	column_ref    → [table "."] column | [schema "." table "."] column | table "." "*"
//	func_call     → identifier "(" [DISTINCT] [expr_list | "*"] ")"

// parsePrimary parses primary expressions.
func (p *Parser) parsePrimary() Expr {
	switch p.token.Type {
	case token.NUMBER:
		lit := &Literal{Type: LiteralNumber, Value: p.token.Literal}
		p.nextToken()
		return lit

	case token.STRING:
		lit := &Literal{Type: LiteralString, Value: p.token.Literal}
		p.nextToken()
		return lit

	case token.TRUE:
		p.nextToken()
		return &Literal{Type: LiteralBool, Value: "true"}

	case token.FALSE:
		p.nextToken()
		return &Literal{Type: LiteralBool, Value: "false"}

	case token.NULL:
		p.nextToken()
		return &Literal{Type: LiteralNull, Value: "null"}

	case token.CASE:
		return p.parseCaseExpr()

	case token.CAST:
		return p.parseCastExpr()

	case token.EXISTS:
		return p.parseExistsExpr(false)

	case token.IDENT:
		return p.parseIdentifierExpr()

	case token.LPAREN:
		return p.parseParenExpr()

	case token.STAR:
		p.nextToken()
		return &StarExpr{}

	case token.ILLEGAL:
		p.errors = append(p.errors, p.unexpectedError("expression"))
		return nil

	default:
		p.addError(fmt.Sprintf(ErrExpectedExpression, p.token.Describe()))
		return nil
	}
}

// parseIdentifierExpr parses an identifier which could be a column ref or function call.
func (p *Parser) parseIdentifierExpr() Expr {
	name := p.token.Literal
	p.nextToken()

	if p.check(token.LPAREN) {
		return p.parseFuncCall(name)
	}

	if p.check(token.DOT) {
		return p.parseQualifiedColumnRef(name)
	}

	return &ColumnRef{Column: name}
}

// parseQualifiedColumnRef parses table.column, schema.table.column or table.*.
func (p *Parser) parseQualifiedColumnRef(first string) Expr {
	parts := []string{first}

	for p.match(token.DOT) {
		if p.check(token.STAR) {
			p.nextToken()
			return &StarExpr{Table: parts[len(parts)-1]}
		}
		if !p.check(token.IDENT) {
			p.errors = append(p.errors, p.unexpectedError("column name"))
			return nil
		}
		parts = append(parts, p.token.Literal)
		p.nextToken()
	}

	ref := &ColumnRef{Column: parts[len(parts)-1]}
	if len(parts) >= 2 {
		ref.Table = parts[len(parts)-2]
	}
	return ref
}

// parseFuncCall parses a function call.
func (p *Parser) parseFuncCall(name string) Expr {
	fn := &FuncCall{Name: strings.ToUpper(name)}

	p.expect(token.LPAREN)

	// COUNT(*) and friends
	if p.check(token.STAR) {
		fn.Star = true
		p.nextToken()
	} else if !p.check(token.RPAREN) {
		fn.Distinct = p.match(token.DISTINCT)
		fn.Args = p.parseExpressionList()
	}

	p.expect(token.RPAREN)
	return fn
}
