package verify

import (
	"context"
	"database/sql"
	"fmt"

	"db-verify/internal/dialect"
)

// storeCount fetches the row count with a single aggregate query; streaming
// the table just to count it would be wasteful.
func storeCount(ctx context.Context, db *sql.DB, d dialect.Dialect, table string) (int, error) {
	var n int
	if err := db.QueryRowContext(ctx, d.CountQuery(table)).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", table, err)
	}
	return n, nil
}
