package parser

import "github.com/leapstack-labs/vql/pkg/token"

// Expression precedence parsing using a Pratt parser.
//
// Precedence levels:
//
//	precedenceNone       = 0
//	precedenceOr         = 1
//	precedenceAnd        = 2
//	precedenceNot        = 3
//	precedenceComparison = 4  (=, <>, <, >, <=, >=, IS, IN, BETWEEN, LIKE)
//	precedenceAddition   = 5  (+, -, ||)
//	precedenceMultiply   = 6  (*, /, %)
//	precedenceUnary      = 7  (-, +)

const (
	precedenceNone = iota
	precedenceOr
	precedenceAnd
	precedenceNot
	precedenceComparison
	precedenceAddition
	precedenceMultiply
	precedenceUnary
)

// parseExpression parses an expression using precedence climbing.
func (p *Parser) parseExpression() Expr {
	return p.parseExpressionWithPrecedence(precedenceNone + 1)
}

// parseExpressionWithPrecedence implements Pratt parsing.
func (p *Parser) parseExpressionWithPrecedence(minPrecedence int) Expr {
	left := p.parsePrefixExpr()
	if left == nil || p.failed() {
		return left
	}

	for !p.failed() {
		prec := infixPrecedence(p.token.Type)
		if prec == precedenceNone || prec < minPrecedence {
			break
		}
		left = p.parseInfixExpr(left, prec)
	}

	return left
}

// parsePrefixExpr parses unary operators and primary expressions.
func (p *Parser) parsePrefixExpr() Expr {
	switch p.token.Type {
	case token.NOT:
		if p.checkPeek(token.EXISTS) {
			p.nextToken() // NOT
			return p.parseExistsExpr(true)
		}
		p.nextToken()
		return &UnaryExpr{Op: token.NOT, Expr: p.parseExpressionWithPrecedence(precedenceNot)}

	case token.MINUS, token.PLUS:
		op := p.token.Type
		p.nextToken()
		return &UnaryExpr{Op: op, Expr: p.parseExpressionWithPrecedence(precedenceUnary)}

	default:
		return p.parsePrimary()
	}
}

// infixPrecedence returns the precedence of t as an infix operator, or
// precedenceNone when t cannot continue an expression.
func infixPrecedence(t token.TokenType) int {
	switch t {
	case token.OR:
		return precedenceOr
	case token.AND:
		return precedenceAnd
	case token.EQ, token.NE, token.LT, token.GT, token.LE, token.GE,
		token.IS, token.IN, token.BETWEEN, token.LIKE, token.NOT:
		return precedenceComparison
	case token.PLUS, token.MINUS, token.DPIPE:
		return precedenceAddition
	case token.STAR, token.SLASH, token.PERCENT:
		return precedenceMultiply
	default:
		return precedenceNone
	}
}

// parseInfixExpr parses an infix expression given the left operand.
func (p *Parser) parseInfixExpr(left Expr, prec int) Expr {
	switch p.token.Type {
	case token.NOT:
		return p.parseNotInfixExpr(left)
	case token.IS:
		return p.parseIsExpr(left)
	case token.IN:
		p.nextToken()
		return p.parseInExpr(left, false)
	case token.BETWEEN:
		p.nextToken()
		return p.parseBetweenExpr(left, false)
	case token.LIKE:
		p.nextToken()
		return p.parseLikeExpr(left, false)
	}

	op := p.token.Type
	p.nextToken()

	// Left-associative: the right operand binds tighter.
	right := p.parseExpressionWithPrecedence(prec + 1)
	return &BinaryExpr{Left: left, Op: op, Right: right}
}

// parseNotInfixExpr handles NOT IN, NOT BETWEEN and NOT LIKE.
func (p *Parser) parseNotInfixExpr(left Expr) Expr {
	p.nextToken() // NOT

	switch p.token.Type {
	case token.IN:
		p.nextToken()
		return p.parseInExpr(left, true)
	case token.BETWEEN:
		p.nextToken()
		return p.parseBetweenExpr(left, true)
	case token.LIKE:
		p.nextToken()
		return p.parseLikeExpr(left, true)
	default:
		p.errors = append(p.errors, p.unexpectedError("IN, BETWEEN or LIKE after NOT"))
		return left
	}
}

// parseIsExpr parses IS [NOT] NULL / TRUE / FALSE.
func (p *Parser) parseIsExpr(left Expr) Expr {
	p.nextToken() // IS
	not := p.match(token.NOT)

	switch p.token.Type {
	case token.NULL:
		p.nextToken()
		return &IsNullExpr{Expr: left, Not: not}
	case token.TRUE:
		p.nextToken()
		return &IsBoolExpr{Expr: left, Not: not, Value: true}
	case token.FALSE:
		p.nextToken()
		return &IsBoolExpr{Expr: left, Not: not, Value: false}
	default:
		p.errors = append(p.errors, p.unexpectedError("NULL, TRUE or FALSE after IS"))
		return left
	}
}

// parseInExpr parses the parenthesized list or subquery after IN.
func (p *Parser) parseInExpr(left Expr, not bool) Expr {
	in := &InExpr{Expr: left, Not: not}
	if !p.expect(token.LPAREN) {
		return in
	}

	if p.check(token.SELECT) || p.check(token.WITH) {
		in.Query = p.parseSelectStatement()
	} else {
		in.Values = p.parseExpressionList()
	}

	p.expect(token.RPAREN)
	return in
}

// parseBetweenExpr parses low AND high after BETWEEN.
func (p *Parser) parseBetweenExpr(left Expr, not bool) Expr {
	between := &BetweenExpr{Expr: left, Not: not}
	// Bounds parse at addition precedence so the AND is not captured.
	between.Low = p.parseExpressionWithPrecedence(precedenceAddition)
	p.expect(token.AND)
	between.High = p.parseExpressionWithPrecedence(precedenceAddition)
	return between
}

// parseLikeExpr parses the pattern after LIKE.
func (p *Parser) parseLikeExpr(left Expr, not bool) Expr {
	return &LikeExpr{
		Expr:    left,
		Not:     not,
		Pattern: p.parseExpressionWithPrecedence(precedenceAddition),
	}
}
