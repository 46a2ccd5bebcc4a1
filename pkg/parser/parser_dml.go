package parser

import "github.com/leapstack-labs/vql/pkg/token"

// Data modification and DDL statements.
//
// Grammar:
//
//	insert_stmt   → INSERT INTO table_name ["(" ident_list ")"]
//	                (VALUES row ("," row)* | select_stmt)
//	row           → "(" expr_list ")"
//	update_stmt   → UPDATE table_name SET assignment ("," assignment)* [WHERE expr]
//	assignment    → identifier "=" expr
//	delete_stmt   → DELETE FROM table_name [WHERE expr]
//	drop_stmt     → DROP (TABLE|VIEW) [IF EXISTS] table_name ("," table_name)*

// parseInsert parses an INSERT statement.
func (p *Parser) parseInsert() *InsertStmt {
	stmt := &InsertStmt{NodeInfo: NodeInfo{Start: p.token.Pos}}
	p.expect(token.INSERT)
	p.expect(token.INTO)
	stmt.Table = p.parseTableName()

	if p.check(token.LPAREN) {
		stmt.Columns = p.parseIdentList()
	}

	switch {
	case p.match(token.VALUES):
		for !p.failed() {
			p.expect(token.LPAREN)
			stmt.Values = append(stmt.Values, p.parseExpressionList())
			p.expect(token.RPAREN)
			if !p.match(token.COMMA) {
				break
			}
		}
	case p.check(token.SELECT) || p.check(token.WITH):
		stmt.Select = p.parseSelectStatement()
	default:
		p.errors = append(p.errors, p.unexpectedError("VALUES or SELECT"))
	}

	return stmt
}

// parseUpdate parses an UPDATE statement.
func (p *Parser) parseUpdate() *UpdateStmt {
	stmt := &UpdateStmt{NodeInfo: NodeInfo{Start: p.token.Pos}}
	p.expect(token.UPDATE)
	stmt.Table = p.parseTableName()
	p.expect(token.SET)

	for !p.failed() {
		if !p.check(token.IDENT) {
			p.errors = append(p.errors, p.unexpectedError("column name"))
			break
		}
		a := Assignment{Column: p.token.Literal}
		p.nextToken()
		p.expect(token.EQ)
		a.Value = p.parseExpression()
		stmt.Set = append(stmt.Set, a)
		if !p.match(token.COMMA) {
			break
		}
	}

	if p.match(token.WHERE) {
		stmt.Where = p.parseExpression()
	}
	return stmt
}

// parseDelete parses a DELETE statement.
func (p *Parser) parseDelete() *DeleteStmt {
	stmt := &DeleteStmt{NodeInfo: NodeInfo{Start: p.token.Pos}}
	p.expect(token.DELETE)
	p.expect(token.FROM)
	stmt.Table = p.parseTableName()
	if p.match(token.WHERE) {
		stmt.Where = p.parseExpression()
	}
	return stmt
}

// parseDrop parses a DROP TABLE or DROP VIEW statement.
func (p *Parser) parseDrop() *DropStmt {
	stmt := &DropStmt{NodeInfo: NodeInfo{Start: p.token.Pos}}
	p.expect(token.DROP)

	switch p.token.Type {
	case token.TABLE, token.VIEW:
		stmt.Object = p.token.Type.String()
		p.nextToken()
	default:
		p.errors = append(p.errors, p.unexpectedError("TABLE or VIEW"))
		return stmt
	}

	if p.match(token.IF) {
		p.expect(token.EXISTS)
		stmt.IfExists = true
	}

	for !p.failed() {
		stmt.Names = append(stmt.Names, p.parseTableName())
		if !p.match(token.COMMA) {
			break
		}
	}
	return stmt
}
