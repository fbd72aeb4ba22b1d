package schema

// AliasSet maps a logical field name to the column names it may appear under.
// Variant spellings accumulate as datasets pass through loaders that rename
// columns (year vs yr, i_id vs i_ID), so candidates are declared once here
// instead of being probed ad hoc at each call site.
type AliasSet map[string][]string

var defaultAliases = AliasSet{
	"year": {"year", "year_", "yr", "acad_year"},
	"i_id": {"i_id", "i_ID", "I_ID", "instructor_id", "instructorId"},
	"s_id": {"s_id", "s_ID", "S_ID", "student_id", "studentId"},
}

// Conventional identifier columns, tried in order when a table's declared
// key has no surviving column.
var fallbackOrderColumns = []string{"id", "ID", "pk"}

// DefaultAliases returns a copy of the built-in alias table, safe for the
// caller to extend.
func DefaultAliases() AliasSet {
	out := make(AliasSet, len(defaultAliases))
	for k, v := range defaultAliases {
		out[k] = append([]string(nil), v...)
	}
	return out
}

// Candidates lists the column names to try for a logical field, the field's
// own name first.
func (a AliasSet) Candidates(field string) []string {
	out := []string{field}
	for _, alt := range a[field] {
		if alt != field {
			out = append(out, alt)
		}
	}
	return out
}

// ResolveColumn picks the first candidate present in live, if any.
func (a AliasSet) ResolveColumn(field string, live []string) (string, bool) {
	set := make(map[string]bool, len(live))
	for _, c := range live {
		set[c] = true
	}
	for _, cand := range a.Candidates(field) {
		if set[cand] {
			return cand, true
		}
	}
	return "", false
}

// FallbackOrderColumn picks a deterministic ordering column for a table whose
// declared key vanished entirely: a conventional id column if present, else
// the first live column. Returns false for a columnless table.
func FallbackOrderColumn(live []string) (string, bool) {
	set := make(map[string]bool, len(live))
	for _, c := range live {
		set[c] = true
	}
	for _, cand := range fallbackOrderColumns {
		if set[cand] {
			return cand, true
		}
	}
	if len(live) > 0 {
		return live[0], true
	}
	return "", false
}
