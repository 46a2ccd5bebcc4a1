package commands

import (
	"fmt"

	"github.com/leapstack-labs/vql/internal/cli/output"
	"github.com/leapstack-labs/vql/pkg/adapter"
)

// renderResults collects up to limit rows and renders them. Structured
// modes emit one object per row keyed by column name.
func renderResults(r *output.Renderer, rows *adapter.Rows, limit int) error {
	cols, data, err := rows.Collect(limit)
	if err != nil {
		return err
	}

	mode := r.EffectiveMode()
	if mode == output.ModeJSON || mode == output.ModeYAML {
		results := make([]map[string]string, len(data))
		for i, row := range data {
			m := make(map[string]string, len(cols))
			for j, col := range cols {
				m[col] = row[j]
			}
			results[i] = m
		}
		_, err := r.Structured(results)
		return err
	}

	if len(data) == 0 {
		r.Println("(0 rows)")
		return nil
	}

	r.Table(cols, data)
	if limit > 0 && len(data) == limit {
		r.Println(r.Muted(fmt.Sprintf("(%d rows, limit reached)", len(data))))
		return nil
	}
	r.Printf("(%d rows)\n", len(data))
	return nil
}
