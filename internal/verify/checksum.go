package verify

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"sort"
	"strings"

	"db-verify/internal/dataset"
	"db-verify/internal/dialect"
)

// fingerprintImport computes the SHA-256 fingerprint of a snapshot table over
// its canonicalized key tuples. The snapshot's native order and the store's
// scan order are unrelated, so the tuples are sorted into the canonical
// ordering before hashing.
func fingerprintImport(records []dataset.Record, keyCols []string) string {
	tuples := make([][]string, len(records))
	for i, r := range records {
		t := make([]string, len(keyCols))
		for j, c := range keyCols {
			t[j] = Canon(r[c])
		}
		tuples[i] = t
	}
	sort.Slice(tuples, func(a, b int) bool {
		return lessTuple(tuples[a], tuples[b])
	})

	h := sha256.New()
	for _, t := range tuples {
		h.Write([]byte(joinTuple(t) + "\n"))
	}
	return hex.EncodeToString(h.Sum(nil))
}

// fingerprintStore hashes the store side. The scan is ordered by orderCols
// and the stream therefore already matches the canonical ordering when
// orderCols equals the effective key, so tuples are hashed in streamed order
// without re-sorting. With empty hashCols the hash degrades to full rows in
// scan order.
func fingerprintStore(ctx context.Context, db *sql.DB, d dialect.Dialect, table string, orderCols, hashCols []string, batchSize int) (string, error) {
	stream, err := openStream(ctx, db, d, table, orderCols, batchSize)
	if err != nil {
		return "", err
	}
	defer stream.Close()

	if len(hashCols) == 0 {
		hashCols = stream.Columns()
	}

	h := sha256.New()
	for {
		rec, ok := stream.Next()
		if !ok {
			break
		}
		t := make([]string, len(hashCols))
		for i, c := range hashCols {
			t[i] = Canon(rec[c])
		}
		h.Write([]byte(joinTuple(t) + "\n"))
	}
	if err := stream.Err(); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

func joinTuple(t []string) string {
	return strings.Join(t, "|")
}

func lessTuple(a, b []string) bool {
	for i := range a {
		if i >= len(b) {
			return false
		}
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return len(a) < len(b)
}
