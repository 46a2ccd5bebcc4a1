package parser

import "github.com/leapstack-labs/vql/pkg/token"

// FROM clause parsing: table references, derived tables, joins.
//
// Grammar:
//
//	from_clause   → table_ref (join_clause | "," table_ref)*
//	table_ref     → table_name [[AS] alias] | "(" select_stmt ")" [AS] alias
//	table_name    → identifier ["." identifier]
//	join_clause   → [INNER | LEFT [OUTER] | RIGHT [OUTER] | FULL [OUTER] | CROSS] JOIN
//	                table_ref [ON expr | USING "(" ident_list ")"]

// parseFromClause parses the FROM clause.
func (p *Parser) parseFromClause() *FromClause {
	from := &FromClause{}
	from.Source = p.parseTableRef()

	for !p.failed() {
		if p.match(token.COMMA) {
			from.Joins = append(from.Joins, &Join{Type: JoinComma, Right: p.parseTableRef()})
			continue
		}
		joinType, ok := p.parseJoinType()
		if !ok {
			break
		}
		from.Joins = append(from.Joins, p.parseJoin(joinType))
	}

	return from
}

// parseJoinType consumes the join keywords up to and including JOIN.
func (p *Parser) parseJoinType() (JoinType, bool) {
	var jt JoinType
	switch p.token.Type {
	case token.JOIN:
		p.nextToken()
		return JoinInner, true
	case token.INNER:
		jt = JoinInner
	case token.LEFT:
		jt = JoinLeft
	case token.RIGHT:
		jt = JoinRight
	case token.FULL:
		jt = JoinFull
	case token.CROSS:
		jt = JoinCross
	default:
		return "", false
	}
	p.nextToken()
	if jt == JoinLeft || jt == JoinRight || jt == JoinFull {
		p.match(token.OUTER)
	}
	p.expect(token.JOIN)
	return jt, true
}

// parseJoin parses the right side and condition of a join.
func (p *Parser) parseJoin(jt JoinType) *Join {
	join := &Join{Type: jt}
	join.Right = p.parseTableRef()

	if jt == JoinCross {
		return join
	}

	switch {
	case p.match(token.ON):
		join.Condition = p.parseExpression()
	case p.check(token.USING):
		p.nextToken()
		join.Using = p.parseIdentList()
	}
	return join
}

// parseTableRef parses a table name or derived table.
func (p *Parser) parseTableRef() TableRef {
	if p.match(token.LPAREN) {
		derived := &DerivedTable{Select: p.parseSelectStatement()}
		p.expect(token.RPAREN)
		derived.Alias = p.parseOptionalAlias()
		return derived
	}

	table := p.parseTableName()
	if table != nil {
		table.Alias = p.parseOptionalAlias()
	}
	return table
}

// parseTableName parses identifier ["." identifier].
func (p *Parser) parseTableName() *TableName {
	if !p.check(token.IDENT) {
		p.errors = append(p.errors, p.unexpectedError("table name"))
		return &TableName{}
	}
	table := &TableName{Name: p.token.Literal}
	p.nextToken()

	if p.match(token.DOT) {
		if !p.check(token.IDENT) {
			p.errors = append(p.errors, p.unexpectedError("table name"))
			return table
		}
		table.Schema = table.Name
		table.Name = p.token.Literal
		p.nextToken()
	}
	return table
}
