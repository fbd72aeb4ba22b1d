package verify

import (
	"context"
	"database/sql"
	"fmt"

	"db-verify/internal/dataset"
	"db-verify/internal/dialect"
)

// rowStream is a single-pass, pull-based scan over one table. Rows are
// decoded in bounded batches so peak memory stays flat regardless of table
// size; a consumer that stops early never pays for unread batches.
type rowStream struct {
	rows      *sql.Rows
	cols      []string
	batchSize int

	buf []dataset.Record
	idx int
	err error
}

// openStream runs an ordered full scan. orderCols may be empty, in which case
// row order is whatever the store yields.
func openStream(ctx context.Context, db *sql.DB, d dialect.Dialect, table string, orderCols []string, batchSize int) (*rowStream, error) {
	rows, err := db.QueryContext(ctx, d.ScanQuery(table, orderCols))
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", table, err)
	}
	cols, err := rows.Columns()
	if err != nil {
		rows.Close()
		return nil, fmt.Errorf("failed to read columns of %s: %w", table, err)
	}
	if batchSize <= 0 {
		batchSize = 2000
	}
	return &rowStream{rows: rows, cols: cols, batchSize: batchSize}, nil
}

// Columns returns the result column names in scan order.
func (s *rowStream) Columns() []string {
	return s.cols
}

// Next yields the next row, fetching the next batch only when the current one
// is exhausted. Returns false at end of data or on error; check Err.
func (s *rowStream) Next() (dataset.Record, bool) {
	if s.idx >= len(s.buf) {
		if !s.fill() {
			return nil, false
		}
	}
	rec := s.buf[s.idx]
	s.idx++
	return rec, true
}

func (s *rowStream) fill() bool {
	if s.err != nil {
		return false
	}
	s.buf = s.buf[:0]
	s.idx = 0
	for len(s.buf) < s.batchSize && s.rows.Next() {
		vals := make([]any, len(s.cols))
		ptrs := make([]any, len(s.cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := s.rows.Scan(ptrs...); err != nil {
			s.err = fmt.Errorf("failed to scan row: %w", err)
			return false
		}
		rec := make(dataset.Record, len(s.cols))
		for i, c := range s.cols {
			// drivers may reuse []byte buffers between Next calls
			if b, ok := vals[i].([]byte); ok {
				cp := make([]byte, len(b))
				copy(cp, b)
				rec[c] = cp
			} else {
				rec[c] = vals[i]
			}
		}
		s.buf = append(s.buf, rec)
	}
	if len(s.buf) == 0 {
		s.err = s.rows.Err()
		return false
	}
	return true
}

// Err reports the first error hit while streaming, if any.
func (s *rowStream) Err() error {
	return s.err
}

func (s *rowStream) Close() error {
	return s.rows.Close()
}
