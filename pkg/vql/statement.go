package vql

import (
	"strings"

	"github.com/leapstack-labs/vql/pkg/parser"
	"github.com/leapstack-labs/vql/pkg/token"
)

// Statement is one top-level statement of a script. It is either a
// *SQLStatement or an ExtensionStatement.
type Statement interface {
	Pos() token.Position
	statement()
}

// SQLStatement wraps a standard SQL statement produced by the generic parser.
type SQLStatement struct {
	Stmt parser.Stmt
}

// Pos implements Statement.
func (s *SQLStatement) Pos() token.Position { return s.Stmt.Pos() }

func (*SQLStatement) statement() {}

// ExtensionStatement is a statement form that standard SQL does not have.
// The only variant is *CreateDataSource.
type ExtensionStatement interface {
	Statement
	extension()
}

// CreateDataSource is CREATE DATASOURCE name CONFIG (...).
type CreateDataSource struct {
	parser.NodeInfo
	TableName string
	// ConfigParameters keeps every entry in source order, duplicates included.
	ConfigParameters []ConfigEntry
}

func (*CreateDataSource) statement() {}
func (*CreateDataSource) extension() {}

// Lookup returns the value of the last entry whose name matches name
// case-insensitively.
func (c *CreateDataSource) Lookup(name string) (string, bool) {
	for i := len(c.ConfigParameters) - 1; i >= 0; i-- {
		if strings.EqualFold(c.ConfigParameters[i].Name, name) {
			return c.ConfigParameters[i].Value, true
		}
	}
	return "", false
}

// Params returns the entries as a map keyed by name as written. Later
// entries overwrite earlier ones with the same name.
func (c *CreateDataSource) Params() map[string]string {
	params := make(map[string]string, len(c.ConfigParameters))
	for _, e := range c.ConfigParameters {
		params[e.Name] = e.Value
	}
	return params
}

// ConfigEntry is one name = 'value' pair of a CONFIG list. Value is the
// string literal with its quotes removed.
type ConfigEntry struct {
	Name  string         `json:"name" yaml:"name"`
	Value string         `json:"value" yaml:"value"`
	Pos   token.Position `json:"-" yaml:"-"`
}
