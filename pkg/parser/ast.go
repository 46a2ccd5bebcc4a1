package parser

import "github.com/leapstack-labs/vql/pkg/token"

// Node is the base interface for all AST nodes.
type Node interface {
	// Pos returns the position of the first token of the node.
	Pos() token.Position
}

// Stmt is a top-level SQL statement.
type Stmt interface {
	Node
	// Kind returns the leading statement keyword, e.g. "SELECT".
	Kind() string
	stmtNode()
}

// Expr is a marker interface for expression nodes.
type Expr interface {
	exprNode()
}

// NodeInfo carries the source position of a statement.
type NodeInfo struct {
	Start token.Position
}

// Pos implements Node.
func (n NodeInfo) Pos() token.Position { return n.Start }

// ---------- Statements ----------

// SelectStmt represents a complete SELECT statement with optional WITH clause.
type SelectStmt struct {
	NodeInfo
	With *WithClause
	Body *SelectBody
}

// WithClause represents a WITH clause with CTEs.
type WithClause struct {
	Recursive bool
	CTEs      []*CTE
}

// CTE represents a Common Table Expression.
type CTE struct {
	Name    string
	Columns []string
	Select  *SelectStmt
}

// SelectBody represents the body of a SELECT with possible set operations.
type SelectBody struct {
	Left  *SelectCore
	Op    SetOpType   // UNION, INTERSECT, EXCEPT, or empty
	All   bool        // UNION ALL
	Right *SelectBody // For chained set operations
}

// SetOpType represents the type of set operation.
type SetOpType string

// SetOpType constants for set operations in queries.
const (
	SetOpNone      SetOpType = ""
	SetOpUnion     SetOpType = "UNION"
	SetOpIntersect SetOpType = "INTERSECT"
	SetOpExcept    SetOpType = "EXCEPT"
)

// SelectCore represents the core SELECT clause.
type SelectCore struct {
	Distinct bool
	Columns  []SelectItem
	From     *FromClause
	Where    Expr
	GroupBy  []Expr
	Having   Expr
	OrderBy  []OrderByItem
	Limit    Expr
	Offset   Expr
}

// SelectItem represents an item in the SELECT list.
type SelectItem struct {
	Star      bool   // SELECT *
	TableStar string // SELECT t.*
	Expr      Expr
	Alias     string
}

// FromClause represents the FROM clause.
type FromClause struct {
	Source TableRef
	Joins  []*Join
}

// TableRef is a FROM clause source.
type TableRef interface {
	tableRef()
}

// TableName is a reference to a (possibly qualified) table.
type TableName struct {
	Schema string
	Name   string
	Alias  string
}

// DerivedTable is a parenthesized subquery in FROM.
type DerivedTable struct {
	Select *SelectStmt
	Alias  string
}

func (*TableName) tableRef()    {}
func (*DerivedTable) tableRef() {}

// JoinType is the SQL keyword of a join, e.g. "LEFT".
type JoinType string

// Join types.
const (
	JoinInner JoinType = "INNER"
	JoinLeft  JoinType = "LEFT"
	JoinRight JoinType = "RIGHT"
	JoinFull  JoinType = "FULL"
	JoinCross JoinType = "CROSS"
	JoinComma JoinType = ","
)

// Join represents a JOIN clause.
type Join struct {
	Type      JoinType
	Right     TableRef
	Condition Expr     // ON clause
	Using     []string // USING (col1, col2)
}

// OrderByItem represents an item in ORDER BY clause.
type OrderByItem struct {
	Expr       Expr
	Desc       bool
	NullsFirst *bool // nil means default
}

// InsertStmt represents INSERT INTO ... VALUES | SELECT.
type InsertStmt struct {
	NodeInfo
	Table   *TableName
	Columns []string
	Values  [][]Expr
	Select  *SelectStmt
}

// Assignment is one SET column = expr pair.
type Assignment struct {
	Column string
	Value  Expr
}

// UpdateStmt represents UPDATE ... SET ... [WHERE].
type UpdateStmt struct {
	NodeInfo
	Table *TableName
	Set   []Assignment
	Where Expr
}

// DeleteStmt represents DELETE FROM ... [WHERE].
type DeleteStmt struct {
	NodeInfo
	Table *TableName
	Where Expr
}

// DropStmt represents DROP TABLE|VIEW [IF EXISTS] name[, name...].
type DropStmt struct {
	NodeInfo
	Object   string // "TABLE" or "VIEW"
	IfExists bool
	Names    []*TableName
}

func (*SelectStmt) stmtNode() {}
func (*InsertStmt) stmtNode() {}
func (*UpdateStmt) stmtNode() {}
func (*DeleteStmt) stmtNode() {}
func (*DropStmt) stmtNode()   {}

// Kind implements Stmt.
func (*SelectStmt) Kind() string { return "SELECT" }

// Kind implements Stmt.
func (*InsertStmt) Kind() string { return "INSERT" }

// Kind implements Stmt.
func (*UpdateStmt) Kind() string { return "UPDATE" }

// Kind implements Stmt.
func (*DeleteStmt) Kind() string { return "DELETE" }

// Kind implements Stmt.
func (*DropStmt) Kind() string { return "DROP" }

// ---------- Expressions ----------

// ColumnRef represents a column reference (possibly qualified).
type ColumnRef struct {
	Table  string
	Column string
}

// LiteralType represents the type of a literal.
type LiteralType int

// LiteralType constants for SQL literal value types.
const (
	LiteralNumber LiteralType = iota
	LiteralString
	LiteralBool
	LiteralNull
)

// Literal represents a literal value.
type Literal struct {
	Type  LiteralType
	Value string
}

// BinaryExpr represents a binary expression.
type BinaryExpr struct {
	Left  Expr
	Op    token.TokenType
	Right Expr
}

// UnaryExpr represents a unary expression.
type UnaryExpr struct {
	Op   token.TokenType
	Expr Expr
}

// FuncCall represents a function call.
type FuncCall struct {
	Name     string
	Distinct bool
	Args     []Expr
	Star     bool // COUNT(*)
}

// WhenClause is one WHEN ... THEN ... arm.
type WhenClause struct {
	Condition Expr
	Result    Expr
}

// CaseExpr represents CASE [operand] WHEN ... END.
type CaseExpr struct {
	Operand Expr
	Whens   []WhenClause
	Else    Expr
}

// CastExpr represents CAST(expr AS type).
type CastExpr struct {
	Expr Expr
	Type string
}

// InExpr represents expr [NOT] IN (values | subquery).
type InExpr struct {
	Expr   Expr
	Not    bool
	Values []Expr
	Query  *SelectStmt
}

// BetweenExpr represents expr [NOT] BETWEEN low AND high.
type BetweenExpr struct {
	Expr Expr
	Not  bool
	Low  Expr
	High Expr
}

// LikeExpr represents expr [NOT] LIKE pattern.
type LikeExpr struct {
	Expr    Expr
	Not     bool
	Pattern Expr
}

// IsNullExpr represents expr IS [NOT] NULL.
type IsNullExpr struct {
	Expr Expr
	Not  bool
}

// IsBoolExpr represents expr IS [NOT] TRUE|FALSE.
type IsBoolExpr struct {
	Expr  Expr
	Not   bool
	Value bool
}

// ExistsExpr represents [NOT] EXISTS (subquery).
type ExistsExpr struct {
	Not    bool
	Select *SelectStmt
}

// SubqueryExpr is a scalar subquery.
type SubqueryExpr struct {
	Select *SelectStmt
}

// ParenExpr is a parenthesized expression.
type ParenExpr struct {
	Expr Expr
}

// StarExpr is * or t.* used as an expression.
type StarExpr struct {
	Table string
}

func (*ColumnRef) exprNode()    {}
func (*Literal) exprNode()      {}
func (*BinaryExpr) exprNode()   {}
func (*UnaryExpr) exprNode()    {}
func (*FuncCall) exprNode()     {}
func (*CaseExpr) exprNode()     {}
func (*CastExpr) exprNode()     {}
func (*InExpr) exprNode()       {}
func (*BetweenExpr) exprNode()  {}
func (*LikeExpr) exprNode()     {}
func (*IsNullExpr) exprNode()   {}
func (*IsBoolExpr) exprNode()   {}
func (*ExistsExpr) exprNode()   {}
func (*SubqueryExpr) exprNode() {}
func (*ParenExpr) exprNode()    {}
func (*StarExpr) exprNode()     {}
