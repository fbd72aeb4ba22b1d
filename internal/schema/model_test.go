package schema_test

import (
	"testing"

	"db-verify/internal/schema"
)

func TestValidate_DefaultDeclaration(t *testing.T) {
	if err := schema.DefaultDeclaration().Validate(); err != nil {
		t.Fatalf("built-in declaration must validate, got: %v", err)
	}
}

func TestValidate_Rejections(t *testing.T) {
	cases := []struct {
		name string
		decl schema.Declaration
	}{
		{
			name: "no tables",
			decl: schema.Declaration{},
		},
		{
			name: "empty table name",
			decl: schema.Declaration{Tables: []schema.TableSpec{{Name: ""}}},
		},
		{
			name: "duplicate table",
			decl: schema.Declaration{Tables: []schema.TableSpec{
				{Name: "course", PrimaryKey: []string{"course_id"}},
				{Name: "course", PrimaryKey: []string{"course_id"}},
			}},
		},
		{
			name: "empty pk column",
			decl: schema.Declaration{Tables: []schema.TableSpec{
				{Name: "course", PrimaryKey: []string{""}},
			}},
		},
		{
			name: "edge arity mismatch",
			decl: schema.Declaration{
				Tables: []schema.TableSpec{{Name: "a"}, {Name: "b"}},
				Edges: []schema.Edge{{
					ChildTable: "a", ChildColumns: []string{"x", "y"},
					ParentTable: "b", ParentColumns: []string{"x"},
				}},
			},
		},
		{
			name: "edge with no columns",
			decl: schema.Declaration{
				Tables: []schema.TableSpec{{Name: "a"}, {Name: "b"}},
				Edges:  []schema.Edge{{ChildTable: "a", ParentTable: "b"}},
			},
		},
		{
			name: "edge to undeclared table",
			decl: schema.Declaration{
				Tables: []schema.TableSpec{{Name: "a"}},
				Edges: []schema.Edge{{
					ChildTable: "a", ChildColumns: []string{"x"},
					ParentTable: "ghost", ParentColumns: []string{"x"},
				}},
			},
		},
	}
	for _, c := range cases {
		if err := c.decl.Validate(); err == nil {
			t.Errorf("%s: expected validation error", c.name)
		}
	}
}

func TestDeclaration_TableLookup(t *testing.T) {
	decl := schema.DefaultDeclaration()
	if ts := decl.Table("advisor"); ts == nil || len(ts.PrimaryKey) != 2 {
		t.Errorf("advisor lookup failed: %+v", ts)
	}
	if ts := decl.Table("nope"); ts != nil {
		t.Errorf("unexpected table: %+v", ts)
	}
}

func TestEdge_String(t *testing.T) {
	e := schema.Edge{
		ChildTable: "takes", ChildColumns: []string{"course_id", "sec_id"},
		ParentTable: "section", ParentColumns: []string{"course_id", "sec_id"},
	}
	want := "takes(course_id,sec_id) -> section(course_id,sec_id)"
	if got := e.String(); got != want {
		t.Errorf("Edge.String() = %q, want %q", got, want)
	}
}

func TestResolveColumns(t *testing.T) {
	live := []string{"ID", "course_id", "sec_id", "semester"}

	eff, missing := schema.ResolveColumns([]string{"ID", "course_id", "year"}, live)
	if len(eff) != 2 || eff[0] != "ID" || eff[1] != "course_id" {
		t.Errorf("effective = %v", eff)
	}
	if len(missing) != 1 || missing[0] != "year" {
		t.Errorf("missing = %v", missing)
	}

	eff, missing = schema.ResolveColumns([]string{"gone"}, live)
	if len(eff) != 0 || len(missing) != 1 {
		t.Errorf("expected full miss, got effective=%v missing=%v", eff, missing)
	}
}
