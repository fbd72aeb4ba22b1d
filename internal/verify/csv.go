package verify

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// WriteCSV exports the anomaly lists for offline review: one file for
// duplicate key groups and one for orphaned foreign keys. Nothing is written
// for a clean report.
func (r *Report) WriteCSV(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output dir %s: %w", dir, err)
	}

	var dupRows [][]string
	for _, t := range r.Tables {
		for _, g := range t.DuplicateGroups {
			dupRows = append(dupRows, []string{t.Table, strings.Join(g.Key, "|"), strconv.Itoa(g.Count)})
		}
	}
	if len(dupRows) > 0 {
		if err := writeCSVFile(filepath.Join(dir, "duplicates.csv"),
			[]string{"table", "key", "count"}, dupRows); err != nil {
			return err
		}
	}

	var orphanRows [][]string
	for _, e := range r.Edges {
		for _, o := range e.Orphans {
			orphanRows = append(orphanRows, []string{e.Edge.String(), strings.Join(o, "|")})
		}
	}
	if len(orphanRows) > 0 {
		if err := writeCSVFile(filepath.Join(dir, "orphans.csv"),
			[]string{"edge", "child_key"}, orphanRows); err != nil {
			return err
		}
	}
	return nil
}

func writeCSVFile(path string, header []string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := w.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	w.Flush()
	return w.Error()
}
