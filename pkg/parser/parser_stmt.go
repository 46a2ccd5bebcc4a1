package parser

import (
	"fmt"

	"github.com/leapstack-labs/vql/pkg/token"
)

// Statement parsing: dispatch, WITH clause, CTEs, SELECT body, SELECT list, ORDER BY.
//
// Grammar:
//
//	cte_list      → cte ("," cte)*
//	cte           → identifier ["(" ident_list ")"] AS "(" select_stmt ")"
//	select_list   → select_item ("," select_item)*
//	select_item   → "*" | table "." "*" | expr [[AS] identifier]
//	order_list    → order_item ("," order_item)*
//	order_item    → expr [ASC|DESC] [NULLS FIRST|LAST]

// parseStatement dispatches on the leading keyword.
func (p *Parser) parseStatement() Stmt {
	switch p.token.Type {
	case token.SELECT, token.WITH:
		return p.parseSelectStatement()
	case token.INSERT:
		return p.parseInsert()
	case token.UPDATE:
		return p.parseUpdate()
	case token.DELETE:
		return p.parseDelete()
	case token.DROP:
		return p.parseDrop()
	case token.EOF, token.ILLEGAL:
		p.errors = append(p.errors, p.unexpectedError("statement"))
		return nil
	default:
		p.addError(fmt.Sprintf(ErrUnsupportedStmt, p.token.Describe()))
		return nil
	}
}

// parseSelectStatement parses [WITH ...] select_body.
func (p *Parser) parseSelectStatement() *SelectStmt {
	stmt := &SelectStmt{NodeInfo: NodeInfo{Start: p.token.Pos}}

	if p.check(token.WITH) {
		stmt.With = p.parseWithClause()
	}

	stmt.Body = p.parseSelectBody()
	return stmt
}

// parseWithClause parses a WITH clause with CTEs.
func (p *Parser) parseWithClause() *WithClause {
	p.expect(token.WITH)
	with := &WithClause{}

	if p.match(token.RECURSIVE) {
		with.Recursive = true
	}

	for {
		with.CTEs = append(with.CTEs, p.parseCTE())
		if p.failed() || !p.match(token.COMMA) {
			break
		}
	}

	return with
}

// parseCTE parses a single CTE.
func (p *Parser) parseCTE() *CTE {
	cte := &CTE{}

	if !p.check(token.IDENT) {
		p.errors = append(p.errors, p.unexpectedError("CTE name"))
		return cte
	}
	cte.Name = p.token.Literal
	p.nextToken()

	if p.check(token.LPAREN) {
		cte.Columns = p.parseIdentList()
	}

	p.expect(token.AS)
	p.expect(token.LPAREN)
	cte.Select = p.parseSelectStatement()
	p.expect(token.RPAREN)

	return cte
}

// parseIdentList parses "(" ident ("," ident)* ")".
func (p *Parser) parseIdentList() []string {
	var names []string
	p.expect(token.LPAREN)
	for !p.failed() {
		if !p.check(token.IDENT) {
			p.errors = append(p.errors, p.unexpectedError("column name"))
			break
		}
		names = append(names, p.token.Literal)
		p.nextToken()
		if !p.match(token.COMMA) {
			break
		}
	}
	p.expect(token.RPAREN)
	return names
}

// parseSelectBody parses a SELECT body with possible set operations.
func (p *Parser) parseSelectBody() *SelectBody {
	body := &SelectBody{}
	body.Left = p.parseSelectCore()
	if p.failed() {
		return body
	}

	switch p.token.Type {
	case token.UNION:
		p.nextToken()
		body.Op = SetOpUnion
		if p.match(token.ALL) {
			body.All = true
		} else {
			p.match(token.DISTINCT)
		}
	case token.INTERSECT:
		p.nextToken()
		body.Op = SetOpIntersect
		body.All = p.match(token.ALL)
	case token.EXCEPT:
		p.nextToken()
		body.Op = SetOpExcept
		body.All = p.match(token.ALL)
	default:
		return body
	}

	body.Right = p.parseSelectBody()
	return body
}

// parseSelectCore parses a single SELECT clause.
func (p *Parser) parseSelectCore() *SelectCore {
	core := &SelectCore{}
	if !p.expect(token.SELECT) {
		return core
	}

	if p.match(token.DISTINCT) {
		core.Distinct = true
	} else {
		p.match(token.ALL)
	}

	core.Columns = p.parseSelectList()

	if p.match(token.FROM) {
		core.From = p.parseFromClause()
	}
	if p.match(token.WHERE) {
		core.Where = p.parseExpression()
	}
	if p.check(token.GROUP) {
		p.nextToken()
		p.expect(token.BY)
		core.GroupBy = p.parseExpressionList()
	}
	if p.match(token.HAVING) {
		core.Having = p.parseExpression()
	}
	if p.check(token.ORDER) {
		p.nextToken()
		p.expect(token.BY)
		core.OrderBy = p.parseOrderByList()
	}
	if p.match(token.LIMIT) {
		core.Limit = p.parseExpression()
	}
	if p.match(token.OFFSET) {
		core.Offset = p.parseExpression()
	}

	return core
}

// parseSelectList parses the list of SELECT items.
func (p *Parser) parseSelectList() []SelectItem {
	var items []SelectItem

	for {
		items = append(items, p.parseSelectItem())
		if p.failed() || !p.match(token.COMMA) {
			break
		}
	}

	return items
}

// parseSelectItem parses a single SELECT item.
func (p *Parser) parseSelectItem() SelectItem {
	item := SelectItem{}

	if p.match(token.STAR) {
		item.Star = true
		return item
	}

	// table.* using 3-token lookahead (no rollback needed)
	if p.check(token.IDENT) && p.checkPeek(token.DOT) && p.peekN(2).Type == token.STAR {
		item.TableStar = p.token.Literal
		p.nextToken() // identifier
		p.nextToken() // DOT
		p.nextToken() // STAR
		return item
	}

	item.Expr = p.parseExpression()
	item.Alias = p.parseOptionalAlias()
	return item
}

// parseOptionalAlias parses [AS] identifier.
func (p *Parser) parseOptionalAlias() string {
	if p.match(token.AS) {
		if p.check(token.IDENT) {
			alias := p.token.Literal
			p.nextToken()
			return alias
		}
		p.errors = append(p.errors, p.unexpectedError("alias after AS"))
		return ""
	}
	if p.check(token.IDENT) {
		alias := p.token.Literal
		p.nextToken()
		return alias
	}
	return ""
}

// parseOrderByList parses a list of ORDER BY items.
func (p *Parser) parseOrderByList() []OrderByItem {
	var items []OrderByItem

	for {
		items = append(items, p.parseOrderByItem())
		if p.failed() || !p.match(token.COMMA) {
			break
		}
	}

	return items
}

// parseOrderByItem parses a single ORDER BY item.
func (p *Parser) parseOrderByItem() OrderByItem {
	item := OrderByItem{}
	item.Expr = p.parseExpression()

	if p.match(token.DESC) {
		item.Desc = true
	} else {
		p.match(token.ASC)
	}

	if p.match(token.NULLS) {
		switch {
		case p.match(token.FIRST):
			b := true
			item.NullsFirst = &b
		case p.match(token.LAST):
			b := false
			item.NullsFirst = &b
		default:
			p.errors = append(p.errors, p.unexpectedError("FIRST or LAST"))
		}
	}

	return item
}

// parseExpressionList parses a comma-separated list of expressions.
func (p *Parser) parseExpressionList() []Expr {
	var exprs []Expr

	for {
		exprs = append(exprs, p.parseExpression())
		if p.failed() || !p.match(token.COMMA) {
			break
		}
	}

	return exprs
}
