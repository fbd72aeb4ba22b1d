package verify

import (
	"context"
	"database/sql"
	"fmt"

	"db-verify/internal/dialect"
)

// findOrphans returns child key tuples with no matching parent row, truncated
// to limit. Callers pass effective (live-resolved) column sets of equal,
// non-zero arity; the SQL itself enforces the null semantics: a child tuple
// with every column null is never a violation.
func findOrphans(ctx context.Context, db *sql.DB, d dialect.Dialect, child string, childCols []string, parent string, parentCols []string, limit int) ([][]string, error) {
	rows, err := db.QueryContext(ctx, d.OrphanQuery(child, childCols, parent, parentCols, limit))
	if err != nil {
		return nil, fmt.Errorf("failed to query orphans of %s -> %s: %w", child, parent, err)
	}
	defer rows.Close()

	var orphans [][]string
	for rows.Next() {
		vals := make([]any, len(childCols))
		ptrs := make([]any, len(vals))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("failed to scan orphan of %s: %w", child, err)
		}
		tuple := make([]string, len(childCols))
		for i := range vals {
			tuple[i] = Canon(vals[i])
		}
		orphans = append(orphans, tuple)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating orphans of %s: %w", child, err)
	}
	return orphans, nil
}
