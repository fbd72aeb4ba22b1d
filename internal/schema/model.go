package schema

import (
	"fmt"
	"strings"
)

// TableSpec declares a table under verification and its primary key tuple.
// Primary key order defines the canonical key-tuple ordering for the table.
type TableSpec struct {
	Name       string   `mapstructure:"name"`
	PrimaryKey []string `mapstructure:"primary_key"`
}

// Edge declares a foreign-key relationship: each non-null ChildColumns value
// must match some row's ParentColumns value. Both sides have the same arity.
type Edge struct {
	ChildTable    string   `mapstructure:"child_table"`
	ChildColumns  []string `mapstructure:"child_columns"`
	ParentTable   string   `mapstructure:"parent_table"`
	ParentColumns []string `mapstructure:"parent_columns"`
}

func (e Edge) String() string {
	return fmt.Sprintf("%s(%s) -> %s(%s)",
		e.ChildTable, strings.Join(e.ChildColumns, ","),
		e.ParentTable, strings.Join(e.ParentColumns, ","))
}

// Declaration is the static schema supplied by the caller. It is never
// mutated during a run.
type Declaration struct {
	Tables []TableSpec `mapstructure:"tables"`
	Edges  []Edge      `mapstructure:"edges"`
}

// Table returns the spec for a table name, or nil if undeclared.
func (dec *Declaration) Table(name string) *TableSpec {
	for i := range dec.Tables {
		if dec.Tables[i].Name == name {
			return &dec.Tables[i]
		}
	}
	return nil
}

// Validate rejects malformed declarations before any audit starts.
func (dec *Declaration) Validate() error {
	if len(dec.Tables) == 0 {
		return fmt.Errorf("declaration has no tables")
	}
	seen := make(map[string]bool)
	for _, t := range dec.Tables {
		if t.Name == "" {
			return fmt.Errorf("declaration contains a table with an empty name")
		}
		if seen[t.Name] {
			return fmt.Errorf("table %q declared twice", t.Name)
		}
		seen[t.Name] = true
		for _, c := range t.PrimaryKey {
			if c == "" {
				return fmt.Errorf("table %q: empty primary key column", t.Name)
			}
		}
	}
	for _, e := range dec.Edges {
		if e.ChildTable == "" || e.ParentTable == "" {
			return fmt.Errorf("edge %s: empty table name", e)
		}
		if len(e.ChildColumns) == 0 {
			return fmt.Errorf("edge %s: no columns", e)
		}
		if len(e.ChildColumns) != len(e.ParentColumns) {
			return fmt.Errorf("edge %s: child/parent column arity mismatch (%d vs %d)",
				e, len(e.ChildColumns), len(e.ParentColumns))
		}
		if !seen[e.ChildTable] {
			return fmt.Errorf("edge %s: child table %q not declared", e, e.ChildTable)
		}
		if !seen[e.ParentTable] {
			return fmt.Errorf("edge %s: parent table %q not declared", e, e.ParentTable)
		}
	}
	return nil
}
