package verify

import (
	"context"
	"database/sql"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"

	"db-verify/internal/dataset"
	"db-verify/internal/dialect"
	"db-verify/internal/schema"
)

// PreviewSpec configures the Sample Inspector for one table. Preserve lists
// the plaintext key columns excluded from encrypted-field discovery; the
// remaining *_ct/*_iv column pairs are treated as opaque ciphertext.
type PreviewSpec struct {
	Table     string   `mapstructure:"table"`
	Preserve  []string `mapstructure:"preserve"`
	MaxFields int      `mapstructure:"max_fields"`
}

const defaultPreviewFields = 4

// preview builds side-by-side rows for spot audits: the snapshot's plaintext
// next to the store's ciphertext length and hex nonce. Rows are sorted by the
// snapshot's primary key so repeated runs sample the same records.
func preview(ctx context.Context, db *sql.DB, d dialect.Dialect, intr *schema.Introspector,
	decl *schema.Declaration, data dataset.Dataset, aliases schema.AliasSet,
	spec PreviewSpec, sampleLimit int) PreviewTable {

	out := PreviewTable{Table: spec.Table}

	ts := decl.Table(spec.Table)
	if ts == nil {
		out.Warnings = append(out.Warnings, "table not declared; preview skipped")
		return out
	}
	live, err := intr.Columns(ctx, spec.Table)
	if err != nil {
		out.Warnings = append(out.Warnings, err.Error())
		return out
	}
	records := data.Table(spec.Table)
	if len(records) == 0 {
		out.Warnings = append(out.Warnings, "table absent from snapshot or empty; nothing to preview")
		return out
	}

	encFields := discoverEncryptedFields(live, spec.Preserve)
	if len(encFields) == 0 {
		out.Warnings = append(out.Warnings, "no encrypted fields detected")
	}
	maxFields := spec.MaxFields
	if maxFields <= 0 {
		maxFields = defaultPreviewFields
	}
	if len(encFields) > maxFields {
		encFields = encFields[:maxFields]
	}

	// deterministic sample: sort snapshot records by canonical key tuple
	sorted := make([]dataset.Record, len(records))
	copy(sorted, records)
	sort.Slice(sorted, func(a, b int) bool {
		return lessTuple(recordKey(sorted[a], ts.PrimaryKey, aliases), recordKey(sorted[b], ts.PrimaryKey, aliases))
	})
	if len(sorted) > sampleLimit {
		sorted = sorted[:sampleLimit]
	}

	// resolve each key column against live columns once, tolerating variant
	// spellings; unresolvable columns drop out of the lookup predicate
	var whereCols, whereFields []string
	for _, col := range ts.PrimaryKey {
		storeCol, ok := aliases.ResolveColumn(col, live)
		if !ok {
			out.Warnings = append(out.Warnings,
				fmt.Sprintf("key column %q (or alias) not found in store; lookup uses remaining columns", col))
			continue
		}
		whereCols = append(whereCols, storeCol)
		whereFields = append(whereFields, col)
	}
	if len(whereCols) == 0 {
		out.Warnings = append(out.Warnings, "no usable key column for point lookups; preview skipped")
		return out
	}

	query := d.PointLookupQuery(spec.Table, nil, whereCols)
	for _, rec := range sorted {
		row := PreviewRow{Key: recordKey(rec, ts.PrimaryKey, aliases)}

		args := make([]any, len(whereFields))
		for i, f := range whereFields {
			v, _ := rec.Lookup(f, aliases)
			args[i] = v
		}
		stored, err := pointLookup(ctx, db, query, args)
		if err != nil {
			// a failed query is not evidence the row is missing
			row.Err = err.Error()
			out.Rows = append(out.Rows, row)
			continue
		}
		if stored == nil {
			row.NotFound = true
			out.Rows = append(out.Rows, row)
			continue
		}

		for _, base := range encFields {
			f := PreviewField{Name: base, NonceHx: "(NULL)"}
			if v, ok := rec.Lookup(base, aliases); ok {
				f.Plain = Canon(v)
			}
			if ct, ok := stored[base+"_ct"].([]byte); ok {
				f.CtLen = len(ct)
			}
			if iv, ok := stored[base+"_iv"].([]byte); ok {
				f.NonceHx = hex.EncodeToString(iv)
			}
			row.Fields = append(row.Fields, f)
		}
		out.Rows = append(out.Rows, row)
	}
	return out
}

// discoverEncryptedFields finds the logical names behind *_ct columns,
// excluding preserved plaintext keys.
func discoverEncryptedFields(live, preserve []string) []string {
	keep := make(map[string]bool, len(preserve))
	for _, p := range preserve {
		keep[p] = true
	}
	var fields []string
	for _, c := range live {
		if strings.HasSuffix(c, "_ct") {
			base := strings.TrimSuffix(c, "_ct")
			if !keep[base] {
				fields = append(fields, base)
			}
		}
	}
	sort.Strings(fields)
	return fields
}

func recordKey(r dataset.Record, keyCols []string, aliases schema.AliasSet) []string {
	out := make([]string, len(keyCols))
	for i, c := range keyCols {
		v, _ := r.Lookup(c, aliases)
		out[i] = Canon(v)
	}
	return out
}

// pointLookup fetches at most one row as a column map; nil means not found.
func pointLookup(ctx context.Context, db *sql.DB, query string, args []any) (dataset.Record, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}
	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	vals := make([]any, len(cols))
	ptrs := make([]any, len(cols))
	for i := range vals {
		ptrs[i] = &vals[i]
	}
	if err := rows.Scan(ptrs...); err != nil {
		return nil, err
	}
	rec := make(dataset.Record, len(cols))
	for i, c := range cols {
		if b, ok := vals[i].([]byte); ok {
			cp := make([]byte, len(b))
			copy(cp, b)
			rec[c] = cp
		} else {
			rec[c] = vals[i]
		}
	}
	return rec, rows.Err()
}
