// Package catalog resolves CREATE DATASOURCE statements into typed data
// source definitions and persists them in a SQLite catalog.
package catalog

import (
	"fmt"
	"maps"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/leapstack-labs/vql/pkg/adapter"
	"github.com/leapstack-labs/vql/pkg/vql"
)

// Properties are the well-known CONFIG entries of a data source. Names
// match case-insensitively.
type Properties struct {
	DriverClassName string `mapstructure:"driverclassname" json:"driver_class_name,omitempty" yaml:"driver_class_name,omitempty"`
	DataBaseURI     string `mapstructure:"databaseuri" json:"database_uri,omitempty" yaml:"database_uri,omitempty"`
	UserName        string `mapstructure:"username" json:"user_name,omitempty" yaml:"user_name,omitempty"`
	UserPassword    string `mapstructure:"userpassword" json:"user_password,omitempty" yaml:"user_password,omitempty"`
	DatabaseName    string `mapstructure:"databasename" json:"database_name,omitempty" yaml:"database_name,omitempty"`
	DatabaseVersion string `mapstructure:"databaseversion" json:"database_version,omitempty" yaml:"database_version,omitempty"`
	Type            string `mapstructure:"type" json:"type,omitempty" yaml:"type,omitempty"`
	Host            string `mapstructure:"host" json:"host,omitempty" yaml:"host,omitempty"`
	Port            int    `mapstructure:"port" json:"port,omitempty" yaml:"port,omitempty"`
	Schema          string `mapstructure:"schema" json:"schema,omitempty" yaml:"schema,omitempty"`
	Path            string `mapstructure:"path" json:"path,omitempty" yaml:"path,omitempty"`
}

// DataSource is a resolved data source definition.
type DataSource struct {
	ID   string `json:"id,omitempty" yaml:"id,omitempty"`
	Name string `json:"name" yaml:"name"`
	// Type is the adapter type, or empty when it could not be inferred.
	Type       string     `json:"type" yaml:"type"`
	Properties Properties `json:"properties" yaml:"properties"`
	// Options holds entries that are not well-known properties, keyed by
	// name as last written.
	Options map[string]string `json:"options,omitempty" yaml:"options,omitempty"`
	// Entries is the CONFIG list exactly as declared.
	Entries   []vql.ConfigEntry `json:"entries" yaml:"entries"`
	CreatedAt time.Time         `json:"created_at,omitzero" yaml:"created_at,omitempty"`
	UpdatedAt time.Time         `json:"updated_at,omitzero" yaml:"updated_at,omitempty"`
}

// Resolve turns a parsed statement into a DataSource. Later duplicates of an
// entry win for the typed properties; Entries keeps all of them.
func Resolve(stmt *vql.CreateDataSource) (*DataSource, error) {
	ds, err := resolveEntries(stmt.TableName, stmt.ConfigParameters)
	if err != nil {
		pos := stmt.Pos()
		return nil, fmt.Errorf("datasource %s (line %d): %w", stmt.TableName, pos.Line, err)
	}
	return ds, nil
}

func resolveEntries(name string, entries []vql.ConfigEntry) (*DataSource, error) {
	raw := make(map[string]any, len(entries))
	original := make(map[string]string, len(entries))
	for _, e := range entries {
		key := strings.ToLower(e.Name)
		raw[key] = e.Value
		original[key] = e.Name
	}

	var props Properties
	var md mapstructure.Metadata
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Metadata:         &md,
		Result:           &props,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	options := make(map[string]string, len(md.Unused))
	for _, key := range md.Unused {
		options[original[key]] = raw[key].(string)
	}

	if j, ok := parseJDBC(props.DataBaseURI); ok {
		if props.Host == "" {
			props.Host = j.host
		}
		if props.Port == 0 {
			props.Port = j.port
		}
		if props.DatabaseName == "" {
			props.DatabaseName = j.database
		}
		if props.Path == "" {
			props.Path = j.path
		}
		for k, v := range j.params {
			if _, ok := options[k]; !ok {
				options[k] = v
			}
		}
	}

	ds := &DataSource{
		Name:       name,
		Type:       inferType(props),
		Properties: props,
		Entries:    append([]vql.ConfigEntry(nil), entries...),
	}
	if len(options) > 0 {
		ds.Options = options
	}
	return ds, nil
}

// driverTypes maps JDBC driver class names to adapter types.
var driverTypes = map[string]string{
	"org.postgresql.driver":    "postgres",
	"org.duckdb.duckdbdriver":  "duckdb",
	"org.sqlite.jdbc":          "sqlite",
	"com.mysql.jdbc.driver":    "mysql",
	"com.mysql.cj.jdbc.driver": "mysql",
	"org.mariadb.jdbc.driver":  "mysql",
}

// inferType picks the adapter type from Type, then DriverClassName, then the
// JDBC subprotocol of DataBaseUri.
func inferType(p Properties) string {
	if p.Type != "" {
		return normalizeType(p.Type)
	}
	if t, ok := driverTypes[strings.ToLower(p.DriverClassName)]; ok {
		return t
	}
	if j, ok := parseJDBC(p.DataBaseURI); ok {
		return normalizeType(j.subprotocol)
	}
	return ""
}

func normalizeType(t string) string {
	switch t = strings.ToLower(strings.TrimSpace(t)); t {
	case "postgresql", "pgsql", "pgx":
		return "postgres"
	case "sqlite3":
		return "sqlite"
	case "mariadb":
		return "mysql"
	default:
		return t
	}
}

type jdbcURI struct {
	subprotocol string
	host        string
	port        int
	database    string
	path        string
	params      map[string]string
}

// parseJDBC splits jdbc:<sub>://host:port/db?k=v or jdbc:<sub>:<path>.
func parseJDBC(uri string) (jdbcURI, bool) {
	if len(uri) < 5 || !strings.EqualFold(uri[:5], "jdbc:") {
		return jdbcURI{}, false
	}
	sub, rest, ok := strings.Cut(uri[5:], ":")
	if !ok || sub == "" {
		return jdbcURI{}, false
	}

	j := jdbcURI{subprotocol: strings.ToLower(sub)}
	if !strings.HasPrefix(rest, "//") {
		j.path = rest
		return j, true
	}

	u, err := url.Parse(j.subprotocol + ":" + rest)
	if err != nil {
		return j, true
	}
	j.host = u.Hostname()
	j.port, _ = strconv.Atoi(u.Port())
	j.database = strings.TrimPrefix(u.Path, "/")
	if q := u.Query(); len(q) > 0 {
		j.params = make(map[string]string, len(q))
		for k := range q {
			j.params[k] = q.Get(k)
		}
	}
	return j, true
}

// AdapterConfig maps the data source onto adapter connection settings.
func (d *DataSource) AdapterConfig() adapter.Config {
	p := d.Properties
	path := p.Path
	if path == "" && (d.Type == "sqlite" || d.Type == "duckdb") {
		path = p.DatabaseName
	}
	return adapter.Config{
		Type:     d.Type,
		Path:     path,
		Host:     p.Host,
		Port:     p.Port,
		Database: p.DatabaseName,
		Username: p.UserName,
		Password: p.UserPassword,
		Schema:   p.Schema,
		Options:  maps.Clone(d.Options),
	}
}

const redacted = vql.Redacted

// Redact returns a copy with secret values masked, for display.
func (d *DataSource) Redact() *DataSource {
	out := *d
	if out.Properties.UserPassword != "" {
		out.Properties.UserPassword = redacted
	}
	out.Entries = vql.RedactEntries(d.Entries)
	if d.Options != nil {
		out.Options = make(map[string]string, len(d.Options))
		for k, v := range d.Options {
			if vql.IsSecret(k) {
				v = redacted
			}
			out.Options[k] = v
		}
	}
	return &out
}
