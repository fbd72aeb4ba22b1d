package verify

import (
	"reflect"
	"testing"

	"db-verify/internal/dataset"
	"db-verify/internal/schema"
)

func TestDiscoverEncryptedFields(t *testing.T) {
	live := []string{"ID", "dept_name", "name_ct", "name_iv", "salary_ct", "salary_iv", "tot_cred"}
	got := discoverEncryptedFields(live, []string{"ID", "dept_name"})
	want := []string{"name", "salary"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("discovered %v, want %v", got, want)
	}
}

func TestDiscoverEncryptedFields_PreserveExcluded(t *testing.T) {
	live := []string{"ID_ct", "ID_iv", "grade_ct", "grade_iv"}
	got := discoverEncryptedFields(live, []string{"ID"})
	if !reflect.DeepEqual(got, []string{"grade"}) {
		t.Errorf("discovered %v, want [grade]", got)
	}
}

func TestDiscoverEncryptedFields_None(t *testing.T) {
	if got := discoverEncryptedFields([]string{"ID", "name"}, nil); got != nil {
		t.Errorf("expected none, got %v", got)
	}
}

func TestRecordKey_UsesAliases(t *testing.T) {
	aliases := schema.AliasSet{"i_id": {"i_ID"}}
	rec := dataset.Record{"i_ID": float64(10101), "s_ID": "00128"}
	got := recordKey(rec, []string{"i_id", "s_ID"}, aliases)
	want := []string{"10101", "00128"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("recordKey = %v, want %v", got, want)
	}
}
