package dialect

import (
	"fmt"
	"strings"
)

// GeneratePlaceholders is a helper function to create a slice of placeholder strings.
// It takes the number of placeholders needed and a function that returns the placeholder for a given index.
// It returns a comma-separated string of the generated placeholders.
func GeneratePlaceholders(count int, placeholderFunc func(int) string) string {
	placeholders := make([]string, count)
	for i := 0; i < count; i++ {
		placeholders[i] = placeholderFunc(i)
	}
	return strings.Join(placeholders, ", ")
}

// DefaultGetSchemaName is a default implementation for Getting Schema Name (identity).
func DefaultGetSchemaName(input string) string {
	return input
}

func quoteAll(d Dialect, names []string) []string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = d.QuoteIdent(n)
	}
	return out
}

// buildCountQuery is shared by all dialects; COUNT(1) is portable.
func buildCountQuery(d Dialect, table string) string {
	return fmt.Sprintf("SELECT COUNT(1) FROM %s", d.QuoteIdent(table))
}

// buildScanQuery produces a full-table scan, ordered when orderCols is
// non-empty. The verifier relies on this ordering for checksum stability.
func buildScanQuery(d Dialect, table string, orderCols []string) string {
	q := fmt.Sprintf("SELECT * FROM %s", d.QuoteIdent(table))
	if len(orderCols) > 0 {
		q += " ORDER BY " + strings.Join(quoteAll(d, orderCols), ", ")
	}
	return q
}

// buildDuplicateGroupsQuery groups on the key columns and keeps groups with
// more than one member. COUNT(*) is repeated in HAVING because column aliases
// are not visible there on every supported database.
func buildDuplicateGroupsQuery(d Dialect, table string, keyCols []string, limit int) string {
	cols := strings.Join(quoteAll(d, keyCols), ", ")
	q := fmt.Sprintf("SELECT %s, COUNT(*) FROM %s GROUP BY %s HAVING COUNT(*) > 1",
		cols, d.QuoteIdent(table), cols)
	return d.GetLimitRowQuery(q, limit)
}

// buildOrphanQuery performs a left anti-join from child to parent.
// A child row qualifies when at least one of its key columns is non-null
// (all-null foreign keys are not violations) and no parent row matched.
func buildOrphanQuery(d Dialect, child string, childCols []string, parent string, parentCols []string, limit int) string {
	on := make([]string, len(childCols))
	notNull := make([]string, len(childCols))
	parentNull := make([]string, len(parentCols))
	sel := make([]string, len(childCols))
	for i, cc := range childCols {
		qc := d.QuoteIdent(cc)
		qp := d.QuoteIdent(parentCols[i])
		on[i] = fmt.Sprintf("C.%s = P.%s", qc, qp)
		notNull[i] = fmt.Sprintf("C.%s IS NOT NULL", qc)
		parentNull[i] = fmt.Sprintf("P.%s IS NULL", qp)
		sel[i] = fmt.Sprintf("C.%s", qc)
	}
	q := fmt.Sprintf("SELECT %s FROM %s C LEFT JOIN %s P ON %s WHERE (%s) AND (%s)",
		strings.Join(sel, ", "),
		d.QuoteIdent(child),
		d.QuoteIdent(parent),
		strings.Join(on, " AND "),
		strings.Join(notNull, " OR "),
		strings.Join(parentNull, " OR "))
	return d.GetLimitRowQuery(q, limit)
}

// buildPointLookupQuery selects specific columns for a single keyed row.
func buildPointLookupQuery(d Dialect, table string, selectCols, whereCols []string) string {
	where := make([]string, len(whereCols))
	for i, wc := range whereCols {
		where[i] = fmt.Sprintf("%s = %s", d.QuoteIdent(wc), d.Placeholder(i))
	}
	sel := "*"
	if len(selectCols) > 0 {
		sel = strings.Join(quoteAll(d, selectCols), ", ")
	}
	q := fmt.Sprintf("SELECT %s FROM %s WHERE %s",
		sel, d.QuoteIdent(table), strings.Join(where, " AND "))
	return d.GetLimitRowQuery(q, 1)
}
