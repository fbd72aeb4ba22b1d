package verify

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"

	"db-verify/internal/dialect"
)

// DuplicateGroup is one store-side key tuple that appears more than once.
type DuplicateGroup struct {
	Key   []string
	Count int
}

// findDuplicates groups the store table on its effective key and returns
// groups with more than one member, truncated to limit. Truncation caps the
// list, not the has-duplicates signal: any non-empty result means duplicates
// exist.
func findDuplicates(ctx context.Context, db *sql.DB, d dialect.Dialect, table string, keyCols []string, limit int) ([]DuplicateGroup, error) {
	rows, err := db.QueryContext(ctx, d.DuplicateGroupsQuery(table, keyCols, limit))
	if err != nil {
		return nil, fmt.Errorf("failed to query duplicates of %s: %w", table, err)
	}
	defer rows.Close()

	var groups []DuplicateGroup
	for rows.Next() {
		vals := make([]any, len(keyCols)+1)
		ptrs := make([]any, len(vals))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("failed to scan duplicate group of %s: %w", table, err)
		}

		g := DuplicateGroup{Key: make([]string, len(keyCols))}
		for i := range keyCols {
			g.Key[i] = Canon(vals[i])
		}
		g.Count = groupCount(vals[len(keyCols)])
		groups = append(groups, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating duplicates of %s: %w", table, err)
	}
	return groups, nil
}

// groupCount decodes the COUNT(*) column, which some drivers return as text.
// The HAVING clause guarantees every group has at least two members, so an
// unparseable value floors at 2 rather than reporting an impossible count.
func groupCount(v any) int {
	switch c := v.(type) {
	case int64:
		return int(c)
	default:
		n, err := strconv.Atoi(Canon(c))
		if err != nil || n < 2 {
			return 2
		}
		return n
	}
}
