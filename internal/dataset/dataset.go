package dataset

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"db-verify/internal/schema"
)

// Record is one imported row: field name to scalar value. Values carry
// whatever encoding/json produced (nil, bool, json.Number, string) plus
// whatever the caller put there when building datasets programmatically.
type Record map[string]any

// Dataset maps table name to its imported records. Built once from the
// snapshot file; immutable for the duration of a run.
type Dataset map[string][]Record

// LoadJSON reads a snapshot file. The expected shape is a top-level object of
// arrays ({"student": [...], ...}); a bare top-level array becomes the single
// collection "root". Non-array members are ignored.
func LoadJSON(path string) (Dataset, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot %s: %w", path, err)
	}

	// UseNumber keeps integer keys exact; plain float64 decoding silently
	// rounds ids above 2^53 and they stop matching the store's int64 values.
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to parse snapshot %s: %w", path, err)
	}

	switch v := doc.(type) {
	case map[string]any:
		ds := make(Dataset)
		for name, member := range v {
			arr, ok := member.([]any)
			if !ok {
				continue
			}
			ds[name] = toRecords(arr)
		}
		return ds, nil
	case []any:
		return Dataset{"root": toRecords(v)}, nil
	default:
		return nil, fmt.Errorf("snapshot %s: unsupported top-level JSON structure", path)
	}
}

func toRecords(arr []any) []Record {
	var out []Record
	for _, item := range arr {
		if m, ok := item.(map[string]any); ok {
			out = append(out, Record(m))
		}
	}
	return out
}

// Table returns the records for a table, or nil when the table is absent from
// the snapshot (absent means empty, a warning, not an error).
func (ds Dataset) Table(name string) []Record {
	return ds[name]
}

// Lookup fetches a field, trying alias spellings when the canonical name is
// absent.
func (r Record) Lookup(field string, aliases schema.AliasSet) (any, bool) {
	for _, cand := range aliases.Candidates(field) {
		if v, ok := r[cand]; ok {
			return v, true
		}
	}
	return nil, false
}
