package verify

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"

	"db-verify/internal/dataset"
	"db-verify/internal/dialect"
	"db-verify/internal/schema"
)

// Options tunes a verification run. Zero values fall back to the built-in
// defaults (batch 2000, anomaly limit 20, sample limit 10).
type Options struct {
	BatchSize    int
	AnomalyLimit int
	SampleLimit  int
	Workers      int
	Aliases      schema.AliasSet
	Previews     []PreviewSpec
}

func (o *Options) fillDefaults() {
	if o.BatchSize <= 0 {
		o.BatchSize = 2000
	}
	if o.AnomalyLimit <= 0 {
		o.AnomalyLimit = 20
	}
	if o.SampleLimit <= 0 {
		o.SampleLimit = 10
	}
	if o.Workers <= 0 {
		o.Workers = 4
	}
	if o.Aliases == nil {
		o.Aliases = schema.DefaultAliases()
	}
}

// Runner executes every audit over a declaration, a snapshot and a live
// store. Audits are independent and read-only, so tables and edges fan out
// over a bounded worker pool; the only shared state is the introspector's
// per-table column cache, which is warmed up front.
type Runner struct {
	db   *sql.DB
	d    dialect.Dialect
	intr *schema.Introspector
	decl *schema.Declaration
	data dataset.Dataset
	opts Options
}

func NewRunner(db *sql.DB, d dialect.Dialect, schemaName string, decl *schema.Declaration, data dataset.Dataset, opts Options) *Runner {
	opts.fillDefaults()
	return &Runner{
		db:   db,
		d:    d,
		intr: schema.NewIntrospector(db, d, schemaName),
		decl: decl,
		data: data,
		opts: opts,
	}
}

// Steps reports how many audit units Run executes, for progress display.
func (r *Runner) Steps() int {
	return len(r.decl.Tables) + len(r.decl.Edges)
}

// Run validates the declaration, then executes all audits. A cancelled
// context aborts the run and discards partial results; they are never
// reported. onStep, when non-nil, is called once per finished table or edge.
func (r *Runner) Run(ctx context.Context, onStep func()) (*Report, error) {
	if err := r.decl.Validate(); err != nil {
		return nil, fmt.Errorf("invalid schema declaration: %w", err)
	}

	// Warm the live-column cache sequentially so concurrent audits never
	// race on catalog queries. Missing tables are recorded, not fatal.
	for _, t := range r.decl.Tables {
		if _, err := r.intr.Columns(ctx, t.Name); err != nil {
			if errors.Is(err, schema.ErrTableMissing) {
				continue
			}
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, err
		}
	}

	report := &Report{
		Tables: make([]TableReport, len(r.decl.Tables)),
		Edges:  make([]EdgeReport, len(r.decl.Edges)),
	}

	sem := make(chan struct{}, r.opts.Workers)
	var wg sync.WaitGroup
	for i := range r.decl.Tables {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			if ctx.Err() != nil {
				return
			}
			report.Tables[i] = r.auditTable(ctx, r.decl.Tables[i])
			if onStep != nil {
				onStep()
			}
		}(i)
	}
	for i := range r.decl.Edges {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			if ctx.Err() != nil {
				return
			}
			report.Edges[i] = r.auditEdge(ctx, r.decl.Edges[i])
			if onStep != nil {
				onStep()
			}
		}(i)
	}
	wg.Wait()

	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	for _, spec := range r.opts.Previews {
		report.Previews = append(report.Previews,
			preview(ctx, r.db, r.d, r.intr, r.decl, r.data, r.opts.Aliases, spec, r.opts.SampleLimit))
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	return report, nil
}

// Previews runs only the sample inspector over the configured preview specs.
func (r *Runner) Previews(ctx context.Context) ([]PreviewTable, error) {
	if err := r.decl.Validate(); err != nil {
		return nil, fmt.Errorf("invalid schema declaration: %w", err)
	}
	var out []PreviewTable
	for _, spec := range r.opts.Previews {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		out = append(out, preview(ctx, r.db, r.d, r.intr, r.decl, r.data, r.opts.Aliases, spec, r.opts.SampleLimit))
	}
	return out, nil
}

func (r *Runner) auditTable(ctx context.Context, ts schema.TableSpec) TableReport {
	rep := TableReport{Table: ts.Name}

	records := r.data.Table(ts.Name)
	rep.ImportCount = len(records)
	if records == nil {
		rep.Warnings = append(rep.Warnings, "table absent from snapshot; treated as empty")
	}

	live, err := r.intr.Columns(ctx, ts.Name)
	if err != nil {
		rep.CountStatus = StatusError
		rep.CountError = err.Error()
		rep.FingerprintStatus = StatusError
		rep.FingerprintError = err.Error()
		rep.DuplicateStatus = StatusError
		rep.DuplicateError = err.Error()
		return rep
	}

	// Counts
	n, err := storeCount(ctx, r.db, r.d, ts.Name)
	if err != nil {
		rep.CountStatus = StatusError
		rep.CountError = err.Error()
	} else {
		rep.StoreCount = n
		if n == rep.ImportCount {
			rep.CountStatus = StatusOK
		} else {
			rep.CountStatus = StatusMismatch
		}
	}

	if len(ts.PrimaryKey) == 0 {
		rep.FingerprintStatus = StatusSkipped
		rep.DuplicateStatus = StatusSkipped
		rep.Warnings = append(rep.Warnings, "no primary key declared; checksum and uniqueness checks skipped")
		return rep
	}

	effective, missing := schema.ResolveColumns(ts.PrimaryKey, live)
	if len(missing) > 0 {
		rep.Warnings = append(rep.Warnings, fmt.Sprintf(
			"missing PK columns [%s]; using subset [%s]",
			strings.Join(missing, ", "), strings.Join(effective, ", ")))
	}

	// Checksums
	if len(effective) > 0 {
		rep.ImportDigest = fingerprintImport(records, effective)
		digest, err := fingerprintStore(ctx, r.db, r.d, ts.Name, effective, effective, r.opts.BatchSize)
		if err != nil {
			rep.FingerprintStatus = StatusError
			rep.FingerprintError = err.Error()
		} else {
			rep.StoreDigest = digest
			if digest == rep.ImportDigest {
				rep.FingerprintStatus = StatusOK
			} else {
				rep.FingerprintStatus = StatusDiff
			}
		}
	} else {
		// No declared key column survives; hash full rows in scan order on
		// the store side and the declared key on the snapshot side. The
		// digests are reported for manual diffing but carry no equality
		// guarantee, so the status is DEGRADED, never OK.
		rep.ImportDigest = fingerprintImport(records, ts.PrimaryKey)
		var orderCols []string
		if orderCol, ok := schema.FallbackOrderColumn(live); ok {
			orderCols = []string{orderCol}
			rep.Warnings = append(rep.Warnings, fmt.Sprintf(
				"none of declared PK columns exist; full-row checksum ordered by %q", orderCol))
		} else {
			rep.Warnings = append(rep.Warnings, "no usable ordering column; full-row checksum is unordered")
		}
		digest, err := fingerprintStore(ctx, r.db, r.d, ts.Name, orderCols, nil, r.opts.BatchSize)
		if err != nil {
			rep.FingerprintStatus = StatusError
			rep.FingerprintError = err.Error()
		} else {
			rep.StoreDigest = digest
			rep.FingerprintStatus = StatusDegraded
		}
	}

	// Uniqueness
	if len(effective) == 0 {
		rep.DuplicateStatus = StatusSkipped
		rep.Warnings = append(rep.Warnings, "cannot check PK duplicates; no declared key column exists in store")
		return rep
	}
	groups, err := findDuplicates(ctx, r.db, r.d, ts.Name, effective, r.opts.AnomalyLimit)
	if err != nil {
		rep.DuplicateStatus = StatusError
		rep.DuplicateError = err.Error()
		return rep
	}
	rep.DuplicateGroups = groups
	if len(groups) > 0 {
		rep.DuplicateStatus = StatusDuplicates
	} else {
		rep.DuplicateStatus = StatusOK
	}
	return rep
}

func (r *Runner) auditEdge(ctx context.Context, e schema.Edge) EdgeReport {
	rep := EdgeReport{Edge: e}

	childLive, err := r.intr.Columns(ctx, e.ChildTable)
	if err != nil {
		rep.Status = StatusError
		rep.ErrorMsg = err.Error()
		return rep
	}
	parentLive, err := r.intr.Columns(ctx, e.ParentTable)
	if err != nil {
		rep.Status = StatusError
		rep.ErrorMsg = err.Error()
		return rep
	}

	// Degrade pairwise: a column pair survives only when both its child and
	// parent columns exist, so surviving pairs always line up positionally.
	childCols, parentCols, dropped := effectivePairs(e, childLive, parentLive)
	if len(dropped) > 0 {
		rep.Warnings = append(rep.Warnings, fmt.Sprintf(
			"dropping column pairs missing from store: %s", strings.Join(dropped, ", ")))
	}
	if len(childCols) == 0 {
		rep.Status = StatusSkipped
		rep.Warnings = append(rep.Warnings, "no usable column pairing; edge skipped")
		return rep
	}

	orphans, err := findOrphans(ctx, r.db, r.d, e.ChildTable, childCols, e.ParentTable, parentCols, r.opts.AnomalyLimit)
	if err != nil {
		rep.Status = StatusError
		rep.ErrorMsg = err.Error()
		return rep
	}
	rep.Orphans = orphans
	if len(orphans) > 0 {
		rep.Status = StatusOrphans
	} else {
		rep.Status = StatusOK
	}
	return rep
}

func effectivePairs(e schema.Edge, childLive, parentLive []string) (childCols, parentCols, dropped []string) {
	cSet := make(map[string]bool, len(childLive))
	for _, c := range childLive {
		cSet[c] = true
	}
	pSet := make(map[string]bool, len(parentLive))
	for _, c := range parentLive {
		pSet[c] = true
	}
	for i := range e.ChildColumns {
		cc, pc := e.ChildColumns[i], e.ParentColumns[i]
		if cSet[cc] && pSet[pc] {
			childCols = append(childCols, cc)
			parentCols = append(parentCols, pc)
		} else {
			dropped = append(dropped, fmt.Sprintf("%s=%s", cc, pc))
		}
	}
	return childCols, parentCols, dropped
}
