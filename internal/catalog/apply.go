package catalog

import (
	"context"

	"github.com/leapstack-labs/vql/pkg/vql"
)

// Writer stores resolved data sources.
type Writer interface {
	Put(ctx context.Context, sources ...*DataSource) error
}

// ApplyResult reports what Apply did.
type ApplyResult struct {
	// Applied lists the stored data sources in statement order.
	Applied []*DataSource
	// Skipped counts standard SQL statements, which the catalog ignores.
	Skipped int
}

// Apply resolves every CREATE DATASOURCE statement and stores them together.
// Nothing is stored when any statement fails to resolve. A name declared
// twice ends up with the later definition.
func Apply(ctx context.Context, w Writer, stmts []vql.Statement) (*ApplyResult, error) {
	result := &ApplyResult{}
	for _, stmt := range stmts {
		switch s := stmt.(type) {
		case *vql.CreateDataSource:
			ds, err := Resolve(s)
			if err != nil {
				return nil, err
			}
			result.Applied = append(result.Applied, ds)
		default:
			result.Skipped++
		}
	}

	if len(result.Applied) == 0 {
		return result, nil
	}
	if err := w.Put(ctx, result.Applied...); err != nil {
		return nil, err
	}
	return result, nil
}
