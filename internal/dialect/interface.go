package dialect

// Dialect abstracts database-specific SQL generation for the verifier.
// Every query it produces is read-only.
type Dialect interface {
	// Metadata Queries (Schema Introspection)
	// ColumnsQuery lists live columns for one table. Bind args: schema, table.
	ColumnsQuery(schema string) string

	// Verification Queries
	CountQuery(table string) string
	ScanQuery(table string, orderCols []string) string
	DuplicateGroupsQuery(table string, keyCols []string, limit int) string
	OrphanQuery(child string, childCols []string, parent string, parentCols []string, limit int) string
	PointLookupQuery(table string, selectCols, whereCols []string) string

	// Helpers
	QuoteIdent(name string) string
	Placeholder(index int) string // Returns ?, $1, @p1, etc.
	GetSchemaName(input string) string
	GetLimitRowQuery(query string, limit int) string
}
