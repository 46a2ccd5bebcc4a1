package parser

import (
	"strings"

	"github.com/leapstack-labs/vql/pkg/token"
)

// Special expression parsing: CASE, CAST, EXISTS, parenthesized expressions, subqueries.
//
// Grammar:
//
//	case_expr     → CASE [expr] (WHEN expr THEN expr)+ [ELSE expr] END
//	cast_expr     → CAST "(" expr AS type_name ")"
//	exists_expr   → [NOT] EXISTS "(" select_stmt ")"
//	paren_expr    → "(" expression ")" | "(" select_stmt ")"
//	type_name     → identifier ["(" number ["," number] ")"]

// parseCaseExpr parses a CASE expression.
func (p *Parser) parseCaseExpr() Expr {
	p.expect(token.CASE)
	caseExpr := &CaseExpr{}

	// Simple CASE: CASE expr WHEN ...
	if !p.check(token.WHEN) {
		caseExpr.Operand = p.parseExpression()
	}

	for !p.failed() && p.match(token.WHEN) {
		when := WhenClause{}
		when.Condition = p.parseExpression()
		p.expect(token.THEN)
		when.Result = p.parseExpression()
		caseExpr.Whens = append(caseExpr.Whens, when)
	}

	if len(caseExpr.Whens) == 0 && !p.failed() {
		p.errors = append(p.errors, p.unexpectedError("WHEN"))
		return caseExpr
	}

	if p.match(token.ELSE) {
		caseExpr.Else = p.parseExpression()
	}

	p.expect(token.END)
	return caseExpr
}

// parseCastExpr parses a CAST expression.
func (p *Parser) parseCastExpr() Expr {
	p.expect(token.CAST)
	p.expect(token.LPAREN)

	cast := &CastExpr{}
	cast.Expr = p.parseExpression()

	p.expect(token.AS)
	cast.Type = p.parseTypeName()

	p.expect(token.RPAREN)
	return cast
}

// parseTypeName parses a type name with optional parameters like VARCHAR(255).
func (p *Parser) parseTypeName() string {
	if p.failed() {
		return ""
	}
	if !p.check(token.IDENT) {
		p.errors = append(p.errors, p.unexpectedError("type name"))
		return ""
	}

	var b strings.Builder
	b.WriteString(p.token.Literal)
	p.nextToken()

	if p.match(token.LPAREN) {
		b.WriteByte('(')
		for !p.failed() {
			if !p.check(token.NUMBER) {
				p.errors = append(p.errors, p.unexpectedError("type parameter"))
				break
			}
			b.WriteString(p.token.Literal)
			p.nextToken()
			if !p.match(token.COMMA) {
				break
			}
			b.WriteString(", ")
		}
		p.expect(token.RPAREN)
		b.WriteByte(')')
	}

	return b.String()
}

// parseParenExpr parses a parenthesized expression or scalar subquery.
func (p *Parser) parseParenExpr() Expr {
	p.expect(token.LPAREN)

	if p.check(token.SELECT) || p.check(token.WITH) {
		subquery := &SubqueryExpr{Select: p.parseSelectStatement()}
		p.expect(token.RPAREN)
		return subquery
	}

	expr := p.parseExpression()
	p.expect(token.RPAREN)
	return &ParenExpr{Expr: expr}
}

// parseExistsExpr parses EXISTS (subquery). NOT, if any, is already consumed.
func (p *Parser) parseExistsExpr(not bool) Expr {
	p.expect(token.EXISTS)
	p.expect(token.LPAREN)
	exists := &ExistsExpr{Not: not, Select: p.parseSelectStatement()}
	p.expect(token.RPAREN)
	return exists
}
