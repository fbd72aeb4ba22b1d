package verify

import (
	"fmt"
	"io"
	"strings"

	"db-verify/internal/schema"
)

// Status classifies one check's outcome. Warnings and skips render as their
// own statuses so an all-green report can never hide a silently skipped check.
type Status string

const (
	StatusOK         Status = "OK"
	StatusMismatch   Status = "MISMATCH"
	StatusDiff       Status = "DIFF"
	StatusDuplicates Status = "DUPLICATES"
	StatusOrphans    Status = "ORPHANS"
	StatusDegraded   Status = "DEGRADED"
	StatusSkipped    Status = "SKIPPED"
	StatusError      Status = "ERROR"
)

// Finding reports whether the status is an actual integrity finding, as
// opposed to a pass, a skip, or a degraded-but-matching check.
func (s Status) Finding() bool {
	switch s {
	case StatusMismatch, StatusDiff, StatusDuplicates, StatusOrphans, StatusError:
		return true
	}
	return false
}

// TableReport is the audit outcome for one declared table. Each stage keeps
// its own status and error so one failed query never hides the results the
// other stages produced.
type TableReport struct {
	Table string

	CountStatus Status
	CountError  string
	ImportCount int
	StoreCount  int

	FingerprintStatus Status
	FingerprintError  string
	ImportDigest      string
	StoreDigest       string

	DuplicateStatus Status
	DuplicateError  string
	DuplicateGroups []DuplicateGroup

	Warnings []string
}

// EdgeReport is the referential integrity outcome for one declared edge.
type EdgeReport struct {
	Edge     schema.Edge
	Status   Status
	Orphans  [][]string
	Warnings []string
	ErrorMsg string
}

// PreviewField is one sensitive field shown side by side: the snapshot's
// plaintext against the store's opaque representation. Ciphertext is reported
// as a length and a hex nonce, never decrypted.
type PreviewField struct {
	Name    string
	Plain   string
	CtLen   int
	NonceHx string
}

// PreviewRow is one sampled record. NotFound means the lookup ran and
// matched nothing; Err means the lookup itself failed.
type PreviewRow struct {
	Key      []string
	NotFound bool
	Err      string
	Fields   []PreviewField
}

// PreviewTable groups preview rows for one table.
type PreviewTable struct {
	Table    string
	Warnings []string
	Rows     []PreviewRow
}

// Report is the run's sole output artifact.
type Report struct {
	Tables   []TableReport
	Edges    []EdgeReport
	Previews []PreviewTable
}

// Clean reports whether the run produced no integrity findings. Warnings,
// skips and degraded checks do not make a report unclean, but they stay
// visible in the rendering.
func (r *Report) Clean() bool {
	for _, t := range r.Tables {
		if t.CountStatus.Finding() || t.FingerprintStatus.Finding() || t.DuplicateStatus.Finding() {
			return false
		}
	}
	for _, e := range r.Edges {
		if e.Status.Finding() {
			return false
		}
	}
	return true
}

func printHeader(w io.Writer, title string) {
	fmt.Fprintf(w, "\n%s\n%s\n%s\n", strings.Repeat("=", len(title)), title, strings.Repeat("=", len(title)))
}

// Render writes the human-readable report.
func (r *Report) Render(w io.Writer) {
	if len(r.Tables) > 0 {
		r.renderTables(w)
	}
	if len(r.Edges) > 0 {
		r.renderEdges(w)
	}
	r.renderPreviews(w)
	r.renderWarnings(w)
}

func (r *Report) renderTables(w io.Writer) {
	printHeader(w, "ROW COUNTS (snapshot vs store)")
	for _, t := range r.Tables {
		if t.CountStatus == StatusError {
			fmt.Fprintf(w, "- %s: ERROR (%s)\n", t.Table, t.CountError)
			continue
		}
		fmt.Fprintf(w, "- %s: snapshot=%d | store=%d -> %s\n", t.Table, t.ImportCount, t.StoreCount, t.CountStatus)
	}

	printHeader(w, "CHECKSUMS by Primary Key (snapshot vs store)")
	for _, t := range r.Tables {
		if t.FingerprintStatus == StatusError {
			fmt.Fprintf(w, "- %s: ERROR (%s)\n", t.Table, t.FingerprintError)
			continue
		}
		fmt.Fprintf(w, "- %s: SHA256(snapshot)=%s | SHA256(store)=%s -> %s\n",
			t.Table, t.ImportDigest, t.StoreDigest, t.FingerprintStatus)
	}

	printHeader(w, "PRIMARY KEY UNIQUENESS (store)")
	for _, t := range r.Tables {
		switch t.DuplicateStatus {
		case StatusDuplicates:
			fmt.Fprintf(w, "- %s: DUPLICATES found (showing up to %d):\n", t.Table, len(t.DuplicateGroups))
			for _, g := range t.DuplicateGroups {
				fmt.Fprintf(w, "    (%s) x%d\n", strings.Join(g.Key, ", "), g.Count)
			}
		case StatusError:
			fmt.Fprintf(w, "- %s: ERROR (%s)\n", t.Table, t.DuplicateError)
		default:
			fmt.Fprintf(w, "- %s: %s\n", t.Table, t.DuplicateStatus)
		}
	}
}

func (r *Report) renderEdges(w io.Writer) {
	printHeader(w, "FOREIGN KEY COMPLETENESS (store)")
	for _, e := range r.Edges {
		switch e.Status {
		case StatusOrphans:
			fmt.Fprintf(w, "- %s: ORPHANS found (showing up to %d):\n", e.Edge, len(e.Orphans))
			for _, o := range e.Orphans {
				fmt.Fprintf(w, "    (%s)\n", strings.Join(o, ", "))
			}
		case StatusError:
			fmt.Fprintf(w, "- %s: ERROR (%s)\n", e.Edge, e.ErrorMsg)
		default:
			fmt.Fprintf(w, "- %s: %s\n", e.Edge, e.Status)
		}
	}
}

func (r *Report) renderPreviews(w io.Writer) {
	for _, p := range r.Previews {
		printHeader(w, fmt.Sprintf("TOP %d: %s (snapshot plaintext vs store ciphertext)", len(p.Rows), p.Table))
		for _, warn := range p.Warnings {
			fmt.Fprintf(w, "[WARN] %s\n", warn)
		}
		for _, row := range p.Rows {
			if row.Err != "" {
				fmt.Fprintf(w, "- Key=(%s) | store: lookup failed (%s)\n", strings.Join(row.Key, ", "), row.Err)
				continue
			}
			if row.NotFound {
				fmt.Fprintf(w, "- Key=(%s) | store: row not found!\n", strings.Join(row.Key, ", "))
				continue
			}
			parts := make([]string, len(row.Fields))
			for i, f := range row.Fields {
				parts[i] = fmt.Sprintf("%s: snapshot='%s' | ct_len=%d | nonce=%s", f.Name, f.Plain, f.CtLen, f.NonceHx)
			}
			fmt.Fprintf(w, "- Key=(%s) | %s\n", strings.Join(row.Key, ", "), strings.Join(parts, " ; "))
		}
	}
}

func (r *Report) renderWarnings(w io.Writer) {
	var warned bool
	for _, t := range r.Tables {
		for _, warn := range t.Warnings {
			if !warned {
				printHeader(w, "WARNINGS")
				warned = true
			}
			fmt.Fprintf(w, "[WARN] %s: %s\n", t.Table, warn)
		}
	}
	for _, e := range r.Edges {
		for _, warn := range e.Warnings {
			if !warned {
				printHeader(w, "WARNINGS")
				warned = true
			}
			fmt.Fprintf(w, "[WARN] %s: %s\n", e.Edge, warn)
		}
	}
}
