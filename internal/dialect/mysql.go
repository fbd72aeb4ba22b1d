package dialect

import (
	"fmt"
)

type MysqlDialect struct{}

func (d *MysqlDialect) ColumnsQuery(schema string) string {
	return `SELECT COLUMN_NAME FROM information_schema.COLUMNS WHERE TABLE_SCHEMA = ? AND TABLE_NAME = ? ORDER BY ORDINAL_POSITION`
}

func (d *MysqlDialect) CountQuery(table string) string {
	return buildCountQuery(d, table)
}

func (d *MysqlDialect) ScanQuery(table string, orderCols []string) string {
	return buildScanQuery(d, table, orderCols)
}

func (d *MysqlDialect) DuplicateGroupsQuery(table string, keyCols []string, limit int) string {
	return buildDuplicateGroupsQuery(d, table, keyCols, limit)
}

func (d *MysqlDialect) OrphanQuery(child string, childCols []string, parent string, parentCols []string, limit int) string {
	return buildOrphanQuery(d, child, childCols, parent, parentCols, limit)
}

func (d *MysqlDialect) PointLookupQuery(table string, selectCols, whereCols []string) string {
	return buildPointLookupQuery(d, table, selectCols, whereCols)
}

func (d *MysqlDialect) QuoteIdent(name string) string {
	return "`" + name + "`"
}

func (d *MysqlDialect) Placeholder(index int) string {
	return "?"
}

func (d *MysqlDialect) GetSchemaName(input string) string {
	return DefaultGetSchemaName(input)
}

func (d *MysqlDialect) GetLimitRowQuery(query string, limit int) string {
	return fmt.Sprintf("%s LIMIT %d", query, limit)
}
