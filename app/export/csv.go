// Package export writes ranking tables as delimited text.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/graham-riches/nhl-stats-analysis/app/stats"
)

// WriteCSV writes the table with the row key as the first column.
func WriteCSV(w io.Writer, t *stats.Table) error {
	cw := csv.NewWriter(w)
	cols := t.Columns()

	if err := cw.Write(append([]string{stats.IndexColumn}, cols...)); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	record := make([]string, len(cols)+1)
	for row, key := range t.Index() {
		record[0] = key
		for i, c := range cols {
			v, _ := t.Value(row, c)
			record[i+1] = v.String()
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write row %s: %w", key, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteCSVFile writes the table to path, creating parent directories.
func WriteCSVFile(path string, t *stats.Table) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create export dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create export: %w", err)
	}

	if err := WriteCSV(f, t); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
