package dialect

import (
	"fmt"
	"strings"

	_ "github.com/denisenkom/go-mssqldb" // SQL Server Driver
)

type MSSQLDialect struct{}

// MSSQL Driver (go-mssqldb) prefers @p1, @p2 named parameters over ?.

func (d *MSSQLDialect) ColumnsQuery(schema string) string {
	return `SELECT COLUMN_NAME FROM INFORMATION_SCHEMA.COLUMNS WHERE TABLE_SCHEMA = @p1 AND TABLE_NAME = @p2 ORDER BY ORDINAL_POSITION`
}

func (d *MSSQLDialect) CountQuery(table string) string {
	return buildCountQuery(d, table)
}

func (d *MSSQLDialect) ScanQuery(table string, orderCols []string) string {
	return buildScanQuery(d, table, orderCols)
}

func (d *MSSQLDialect) DuplicateGroupsQuery(table string, keyCols []string, limit int) string {
	return buildDuplicateGroupsQuery(d, table, keyCols, limit)
}

func (d *MSSQLDialect) OrphanQuery(child string, childCols []string, parent string, parentCols []string, limit int) string {
	return buildOrphanQuery(d, child, childCols, parent, parentCols, limit)
}

func (d *MSSQLDialect) PointLookupQuery(table string, selectCols, whereCols []string) string {
	return buildPointLookupQuery(d, table, selectCols, whereCols)
}

func (d *MSSQLDialect) QuoteIdent(name string) string {
	return "[" + name + "]"
}

func (d *MSSQLDialect) Placeholder(index int) string {
	return fmt.Sprintf("@p%d", index+1)
}

func (d *MSSQLDialect) GetSchemaName(input string) string {
	if input == "" {
		return "dbo"
	}
	return input
}

func (d *MSSQLDialect) GetLimitRowQuery(query string, limit int) string {
	// Simple T-SQL TOP injection on the outermost SELECT.
	trimmed := strings.TrimSpace(query)
	if strings.HasPrefix(strings.ToUpper(trimmed), "SELECT") {
		return strings.Replace(query, "SELECT", fmt.Sprintf("SELECT TOP %d", limit), 1)
	}
	return query
}
