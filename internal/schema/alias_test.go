package schema_test

import (
	"testing"

	"db-verify/internal/schema"
)

func TestAliasSet_Candidates(t *testing.T) {
	aliases := schema.DefaultAliases()
	cands := aliases.Candidates("year")
	if cands[0] != "year" {
		t.Errorf("the field's own name must come first, got %v", cands)
	}
	found := false
	for _, c := range cands {
		if c == "acad_year" {
			found = true
		}
	}
	if !found {
		t.Errorf("acad_year missing from candidates: %v", cands)
	}
}

func TestAliasSet_ResolveColumn(t *testing.T) {
	aliases := schema.DefaultAliases()

	col, ok := aliases.ResolveColumn("year", []string{"ID", "yr", "semester"})
	if !ok || col != "yr" {
		t.Errorf("ResolveColumn(year) = %q, %v", col, ok)
	}

	// exact name wins over aliases
	col, ok = aliases.ResolveColumn("year", []string{"yr", "year"})
	if !ok || col != "year" {
		t.Errorf("exact match must win, got %q", col)
	}

	if _, ok := aliases.ResolveColumn("year", []string{"ID"}); ok {
		t.Error("expected no resolution")
	}
}

func TestAliasSet_UnknownFieldFallsBackToItself(t *testing.T) {
	aliases := schema.DefaultAliases()
	col, ok := aliases.ResolveColumn("dept_name", []string{"dept_name", "building"})
	if !ok || col != "dept_name" {
		t.Errorf("unknown field should resolve by its own name, got %q, %v", col, ok)
	}
}

func TestFallbackOrderColumn(t *testing.T) {
	if col, ok := schema.FallbackOrderColumn([]string{"building", "id", "room"}); !ok || col != "id" {
		t.Errorf("conventional id column preferred, got %q", col)
	}
	if col, ok := schema.FallbackOrderColumn([]string{"building", "room"}); !ok || col != "building" {
		t.Errorf("first live column expected, got %q", col)
	}
	if _, ok := schema.FallbackOrderColumn(nil); ok {
		t.Error("columnless table has no ordering column")
	}
}

func TestDefaultAliases_CopyIsIndependent(t *testing.T) {
	a := schema.DefaultAliases()
	a["year"] = append(a["year"], "school_year")
	b := schema.DefaultAliases()
	for _, c := range b["year"] {
		if c == "school_year" {
			t.Error("mutating one copy leaked into the defaults")
		}
	}
}
