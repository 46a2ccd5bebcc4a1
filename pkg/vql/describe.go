package vql

import "strings"

// Statement kinds reported by Describe.
const (
	KindCreateDataSource = "create_datasource"
	KindSQL              = "sql"
)

// Description is a serializable summary of a parsed statement.
type Description struct {
	Kind             string        `json:"kind" yaml:"kind"`
	Line             int           `json:"line" yaml:"line"`
	Column           int           `json:"column" yaml:"column"`
	TableName        string        `json:"table_name,omitempty" yaml:"table_name,omitempty"`
	ConfigParameters []ConfigEntry `json:"config_parameters,omitempty" yaml:"config_parameters,omitempty"`
	StatementType    string        `json:"statement_type,omitempty" yaml:"statement_type,omitempty"`
}

// Describe summarizes statements in order.
func Describe(stmts []Statement) []Description {
	out := make([]Description, 0, len(stmts))
	for _, s := range stmts {
		d := Description{Line: s.Pos().Line, Column: s.Pos().Column}
		switch s := s.(type) {
		case *CreateDataSource:
			d.Kind = KindCreateDataSource
			d.TableName = s.TableName
			d.ConfigParameters = s.ConfigParameters
		case *SQLStatement:
			d.Kind = KindSQL
			d.StatementType = s.Stmt.Kind()
		}
		out = append(out, d)
	}
	return out
}

// Redacted replaces secret values in display output.
const Redacted = "********"

// IsSecret reports whether a config entry name looks like it holds a
// credential.
func IsSecret(name string) bool {
	n := strings.ToLower(name)
	return strings.Contains(n, "password") || strings.Contains(n, "secret") || strings.Contains(n, "token")
}

// RedactEntries returns a copy of entries with secret values masked.
func RedactEntries(entries []ConfigEntry) []ConfigEntry {
	out := make([]ConfigEntry, len(entries))
	for i, e := range entries {
		if IsSecret(e.Name) {
			e.Value = Redacted
		}
		out[i] = e
	}
	return out
}

// Redact returns a copy of descs with secret config values masked.
func Redact(descs []Description) []Description {
	out := make([]Description, len(descs))
	for i, d := range descs {
		if d.ConfigParameters != nil {
			d.ConfigParameters = RedactEntries(d.ConfigParameters)
		}
		out[i] = d
	}
	return out
}
