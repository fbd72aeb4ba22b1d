package dialect

import (
	"fmt"
)

type OracleDialect struct{}

func (d *OracleDialect) ColumnsQuery(schema string) string {
	// Oracle scopes USER_TAB_COLUMNS to the current user; the schema argument
	// is consumed by a dummy predicate to keep the bind arity uniform.
	return `SELECT COLUMN_NAME FROM USER_TAB_COLUMNS WHERE :1 IS NOT NULL AND TABLE_NAME = UPPER(:2) ORDER BY COLUMN_ID`
}

func (d *OracleDialect) CountQuery(table string) string {
	return buildCountQuery(d, table)
}

func (d *OracleDialect) ScanQuery(table string, orderCols []string) string {
	return buildScanQuery(d, table, orderCols)
}

func (d *OracleDialect) DuplicateGroupsQuery(table string, keyCols []string, limit int) string {
	return buildDuplicateGroupsQuery(d, table, keyCols, limit)
}

func (d *OracleDialect) OrphanQuery(child string, childCols []string, parent string, parentCols []string, limit int) string {
	return buildOrphanQuery(d, child, childCols, parent, parentCols, limit)
}

func (d *OracleDialect) PointLookupQuery(table string, selectCols, whereCols []string) string {
	return buildPointLookupQuery(d, table, selectCols, whereCols)
}

func (d *OracleDialect) QuoteIdent(name string) string {
	// Oracle folds unquoted identifiers to uppercase; quoting preserves the
	// declared case so mixed-case schemas keep working.
	return `"` + name + `"`
}

func (d *OracleDialect) Placeholder(index int) string {
	return fmt.Sprintf(":%d", index+1)
}

func (d *OracleDialect) GetSchemaName(input string) string {
	return DefaultGetSchemaName(input)
}

func (d *OracleDialect) GetLimitRowQuery(query string, limit int) string {
	return fmt.Sprintf("SELECT * FROM (%s) WHERE ROWNUM <= %d", query, limit)
}
