package dialect

import (
	"fmt"
)

type PostgresDialect struct{}

func (d *PostgresDialect) ColumnsQuery(schema string) string {
	// use $1/$2 placeholders
	return `SELECT column_name FROM information_schema.columns WHERE table_schema = $1 AND table_name = $2 ORDER BY ordinal_position`
}

func (d *PostgresDialect) CountQuery(table string) string {
	return buildCountQuery(d, table)
}

func (d *PostgresDialect) ScanQuery(table string, orderCols []string) string {
	return buildScanQuery(d, table, orderCols)
}

func (d *PostgresDialect) DuplicateGroupsQuery(table string, keyCols []string, limit int) string {
	return buildDuplicateGroupsQuery(d, table, keyCols, limit)
}

func (d *PostgresDialect) OrphanQuery(child string, childCols []string, parent string, parentCols []string, limit int) string {
	return buildOrphanQuery(d, child, childCols, parent, parentCols, limit)
}

func (d *PostgresDialect) PointLookupQuery(table string, selectCols, whereCols []string) string {
	return buildPointLookupQuery(d, table, selectCols, whereCols)
}

func (d *PostgresDialect) QuoteIdent(name string) string {
	return `"` + name + `"`
}

func (d *PostgresDialect) Placeholder(index int) string {
	return fmt.Sprintf("$%d", index+1)
}

func (d *PostgresDialect) GetSchemaName(input string) string {
	if input == "" {
		return "public"
	}
	return input
}

func (d *PostgresDialect) GetLimitRowQuery(query string, limit int) string {
	return fmt.Sprintf("%s LIMIT %d", query, limit)
}
