package schema

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"db-verify/internal/dialect"
)

// ErrTableMissing reports a declared table absent from the store. It is fatal
// for that table's checks only; sibling tables continue.
var ErrTableMissing = errors.New("table not found in store")

// Introspector discovers live columns per table, memoized for the run.
// Safe for concurrent use; each table's catalog query runs at most once.
type Introspector struct {
	db         *sql.DB
	d          dialect.Dialect
	schemaName string

	mu    sync.Mutex
	cache map[string][]string
}

func NewIntrospector(db *sql.DB, d dialect.Dialect, schemaName string) *Introspector {
	return &Introspector{
		db:         db,
		d:          d,
		schemaName: d.GetSchemaName(schemaName),
		cache:      make(map[string][]string),
	}
}

// Columns returns the ordered live column names for a table.
func (in *Introspector) Columns(ctx context.Context, table string) ([]string, error) {
	in.mu.Lock()
	defer in.mu.Unlock()

	if cols, ok := in.cache[table]; ok {
		return cols, nil
	}

	rows, err := in.db.QueryContext(ctx, in.d.ColumnsQuery(in.schemaName), in.schemaName, table)
	if err != nil {
		return nil, fmt.Errorf("failed to query columns of %s: %w", table, err)
	}
	defer rows.Close()

	var cols []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan column name (table: %s): %w", table, err)
		}
		cols = append(cols, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating columns of %s: %w", table, err)
	}

	// information_schema reports nothing for an unknown table rather than
	// erroring, and a real table always has at least one column.
	if len(cols) == 0 {
		return nil, fmt.Errorf("%s: %w", table, ErrTableMissing)
	}

	in.cache[table] = cols
	return cols, nil
}

// Resolve intersects declared columns with live columns, preserving declared
// order. missing is the complement.
func (in *Introspector) Resolve(ctx context.Context, table string, declared []string) (effective, missing []string, err error) {
	live, err := in.Columns(ctx, table)
	if err != nil {
		return nil, nil, err
	}
	effective, missing = ResolveColumns(declared, live)
	return effective, missing, nil
}

// ResolveColumns intersects declared columns with live columns, preserving
// declared order; missing is the complement.
func ResolveColumns(declared, live []string) (effective, missing []string) {
	set := make(map[string]bool, len(live))
	for _, c := range live {
		set[c] = true
	}
	for _, c := range declared {
		if set[c] {
			effective = append(effective, c)
		} else {
			missing = append(missing, c)
		}
	}
	return effective, missing
}
