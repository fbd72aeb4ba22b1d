package dataset_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"db-verify/internal/dataset"
	"db-verify/internal/schema"
)

func writeSnapshot(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "app.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadJSON_ObjectOfArrays(t *testing.T) {
	path := writeSnapshot(t, `{
		"department": [{"dept_name": "CS", "budget": 100000}, {"dept_name": "EE"}],
		"metadata": {"version": 3},
		"course": []
	}`)

	ds, err := dataset.LoadJSON(path)
	if err != nil {
		t.Fatalf("LoadJSON: %v", err)
	}

	dept := ds.Table("department")
	if len(dept) != 2 {
		t.Fatalf("department records = %d, want 2", len(dept))
	}
	if dept[0]["dept_name"] != "CS" {
		t.Errorf("first record = %v", dept[0])
	}

	// non-array members are ignored, absent tables come back nil
	if ds.Table("metadata") != nil {
		t.Error("object member must not become a table")
	}
	if ds.Table("student") != nil {
		t.Error("absent table must be nil")
	}
}

func TestLoadJSON_KeepsLargeIntegersExact(t *testing.T) {
	// float64 decoding would round this id to ...992; the loader must hand
	// the exact digits through to the comparison layer.
	path := writeSnapshot(t, `{"student": [{"ID": 9007199254740993}]}`)
	ds, err := dataset.LoadJSON(path)
	if err != nil {
		t.Fatalf("LoadJSON: %v", err)
	}
	id, ok := ds.Table("student")[0]["ID"].(json.Number)
	if !ok {
		t.Fatalf("ID decoded as %T, want json.Number", ds.Table("student")[0]["ID"])
	}
	if id.String() != "9007199254740993" {
		t.Errorf("ID = %s, want exact digits", id)
	}
}

func TestLoadJSON_BareArray(t *testing.T) {
	path := writeSnapshot(t, `[{"id": 1}, {"id": 2}]`)
	ds, err := dataset.LoadJSON(path)
	if err != nil {
		t.Fatalf("LoadJSON: %v", err)
	}
	if len(ds.Table("root")) != 2 {
		t.Errorf("bare array should load as collection %q", "root")
	}
}

func TestLoadJSON_Unsupported(t *testing.T) {
	path := writeSnapshot(t, `"just a string"`)
	if _, err := dataset.LoadJSON(path); err == nil {
		t.Error("expected error for non-object, non-array document")
	}
}

func TestLoadJSON_MissingFile(t *testing.T) {
	if _, err := dataset.LoadJSON(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestRecord_Lookup(t *testing.T) {
	aliases := schema.DefaultAliases()
	rec := dataset.Record{"acad_year": float64(2017), "ID": "00128"}

	v, ok := rec.Lookup("year", aliases)
	if !ok || v.(float64) != 2017 {
		t.Errorf("Lookup(year) = %v, %v", v, ok)
	}

	if _, ok := rec.Lookup("semester", aliases); ok {
		t.Error("expected miss for absent field")
	}

	// direct hit without aliases involved
	v, ok = rec.Lookup("ID", aliases)
	if !ok || v != "00128" {
		t.Errorf("Lookup(ID) = %v, %v", v, ok)
	}
}
