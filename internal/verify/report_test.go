package verify_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"db-verify/internal/schema"
	"db-verify/internal/verify"
)

func cleanTable(name string) verify.TableReport {
	return verify.TableReport{
		Table:             name,
		CountStatus:       verify.StatusOK,
		FingerprintStatus: verify.StatusOK,
		DuplicateStatus:   verify.StatusOK,
	}
}

func TestReport_CleanAllOK(t *testing.T) {
	r := &verify.Report{
		Tables: []verify.TableReport{cleanTable("department")},
		Edges: []verify.EdgeReport{
			{Edge: schema.Edge{ChildTable: "student", ChildColumns: []string{"dept_name"}, ParentTable: "department", ParentColumns: []string{"dept_name"}}, Status: verify.StatusOK},
		},
	}
	if !r.Clean() {
		t.Error("all-OK report must be clean")
	}
}

func TestReport_SkippedAndDegradedStayClean(t *testing.T) {
	// Skips and degraded checks are not findings, but they must still render
	// as their own statuses, never as OK.
	tbl := cleanTable("takes")
	tbl.FingerprintStatus = verify.StatusDegraded
	tbl.DuplicateStatus = verify.StatusSkipped
	r := &verify.Report{Tables: []verify.TableReport{tbl}}

	if !r.Clean() {
		t.Error("degraded/skipped checks must not flip Clean")
	}

	var buf strings.Builder
	r.Render(&buf)
	out := buf.String()
	if !strings.Contains(out, "DEGRADED") {
		t.Error("degraded status missing from rendering")
	}
	if !strings.Contains(out, "SKIPPED") {
		t.Error("skipped status missing from rendering")
	}
}

func TestReport_FindingsAreUnclean(t *testing.T) {
	cases := []verify.TableReport{
		func() verify.TableReport { tr := cleanTable("a"); tr.CountStatus = verify.StatusMismatch; return tr }(),
		func() verify.TableReport { tr := cleanTable("b"); tr.FingerprintStatus = verify.StatusDiff; return tr }(),
		func() verify.TableReport { tr := cleanTable("c"); tr.DuplicateStatus = verify.StatusDuplicates; return tr }(),
		func() verify.TableReport { tr := cleanTable("d"); tr.CountStatus = verify.StatusError; return tr }(),
	}
	for _, tr := range cases {
		r := &verify.Report{Tables: []verify.TableReport{tr}}
		if r.Clean() {
			t.Errorf("table %s: report with %s/%s/%s must be unclean",
				tr.Table, tr.CountStatus, tr.FingerprintStatus, tr.DuplicateStatus)
		}
	}

	orphaned := &verify.Report{Edges: []verify.EdgeReport{{Status: verify.StatusOrphans}}}
	if orphaned.Clean() {
		t.Error("orphan findings must be unclean")
	}
}

func TestReport_RenderWarnings(t *testing.T) {
	tbl := cleanTable("takes")
	tbl.Warnings = []string{"missing PK columns [year]; using subset [ID, course_id]"}
	r := &verify.Report{Tables: []verify.TableReport{tbl}}

	var buf strings.Builder
	r.Render(&buf)
	if !strings.Contains(buf.String(), "[WARN] takes: missing PK columns") {
		t.Errorf("warning not rendered:\n%s", buf.String())
	}
}

func TestReport_RenderCountsAndDigests(t *testing.T) {
	tbl := cleanTable("department")
	tbl.ImportCount = 2
	tbl.StoreCount = 1
	tbl.CountStatus = verify.StatusMismatch
	tbl.ImportDigest = "aaa"
	tbl.StoreDigest = "bbb"
	tbl.FingerprintStatus = verify.StatusDiff
	r := &verify.Report{Tables: []verify.TableReport{tbl}}

	var buf strings.Builder
	r.Render(&buf)
	out := buf.String()
	if !strings.Contains(out, "snapshot=2 | store=1 -> MISMATCH") {
		t.Errorf("count line missing:\n%s", out)
	}
	// both digests must be visible for manual diffing
	if !strings.Contains(out, "aaa") || !strings.Contains(out, "bbb") {
		t.Errorf("digest pair missing:\n%s", out)
	}
}

func TestReport_StageErrorsStayIsolated(t *testing.T) {
	// A failed count query must not suppress a fingerprint that succeeded,
	// and each stage reports its own error text.
	tbl := cleanTable("course")
	tbl.CountStatus = verify.StatusError
	tbl.CountError = "count query timed out"
	tbl.ImportDigest = "aaa"
	tbl.StoreDigest = "aaa"
	r := &verify.Report{Tables: []verify.TableReport{tbl}}

	var buf strings.Builder
	r.Render(&buf)
	out := buf.String()
	if !strings.Contains(out, "count query timed out") {
		t.Errorf("count error missing:\n%s", out)
	}
	if !strings.Contains(out, "SHA256(snapshot)=aaa") {
		t.Errorf("successful fingerprint hidden by count error:\n%s", out)
	}
	if !strings.Contains(out, "- course: OK") {
		t.Errorf("successful uniqueness check hidden by count error:\n%s", out)
	}

	tbl = cleanTable("section")
	tbl.DuplicateStatus = verify.StatusError
	tbl.DuplicateError = "dup scan failed"
	r = &verify.Report{Tables: []verify.TableReport{tbl}}
	buf.Reset()
	r.Render(&buf)
	if !strings.Contains(buf.String(), "dup scan failed") {
		t.Errorf("duplicate error missing:\n%s", buf.String())
	}
}

func TestReport_PreviewLookupErrorIsNotAMiss(t *testing.T) {
	r := &verify.Report{Previews: []verify.PreviewTable{{
		Table: "takes",
		Rows: []verify.PreviewRow{
			{Key: []string{"00128"}, Err: "connection reset"},
			{Key: []string{"00129"}, NotFound: true},
		},
	}}}

	var buf strings.Builder
	r.Render(&buf)
	out := buf.String()
	if !strings.Contains(out, "lookup failed (connection reset)") {
		t.Errorf("lookup error not rendered as an error:\n%s", out)
	}
	if !strings.Contains(out, "Key=(00129) | store: row not found!") {
		t.Errorf("genuine miss missing:\n%s", out)
	}
	if strings.Contains(out, "Key=(00128) | store: row not found!") {
		t.Errorf("lookup error rendered as a miss:\n%s", out)
	}
}

func TestReport_WriteCSV(t *testing.T) {
	dir := t.TempDir()
	r := &verify.Report{
		Tables: []verify.TableReport{{
			Table:           "section",
			DuplicateStatus: verify.StatusDuplicates,
			DuplicateGroups: []verify.DuplicateGroup{{Key: []string{"CS-101", "1"}, Count: 2}},
		}},
		Edges: []verify.EdgeReport{{
			Edge:    schema.Edge{ChildTable: "advisor", ChildColumns: []string{"i_ID"}, ParentTable: "instructor", ParentColumns: []string{"ID"}},
			Status:  verify.StatusOrphans,
			Orphans: [][]string{{"99"}},
		}},
	}
	if err := r.WriteCSV(dir); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}

	dups, err := os.ReadFile(filepath.Join(dir, "duplicates.csv"))
	if err != nil {
		t.Fatalf("duplicates.csv: %v", err)
	}
	if !strings.Contains(string(dups), "CS-101|1") {
		t.Errorf("duplicates.csv content: %s", dups)
	}

	orphans, err := os.ReadFile(filepath.Join(dir, "orphans.csv"))
	if err != nil {
		t.Fatalf("orphans.csv: %v", err)
	}
	if !strings.Contains(string(orphans), "99") {
		t.Errorf("orphans.csv content: %s", orphans)
	}
}
