// Package report renders ranking tables for the console.
package report

import (
	"fmt"
	"math"
	"strconv"

	"github.com/syohex/go-texttable"

	"github.com/graham-riches/nhl-stats-analysis/app/stats"
)

// Render draws the first limit rows of t with a rank, the row key and the
// given columns. A non-positive limit renders every row.
func Render(t *stats.Table, columns []string, limit int) (string, error) {
	for _, c := range columns {
		if !t.Has(c) {
			return "", fmt.Errorf("render %s: %w", c, stats.ErrMissingColumn)
		}
	}

	if limit > 0 {
		t = t.Head(limit)
	}

	tbl := &texttable.TextTable{}
	header := append([]string{"#", "Player"}, columns...)
	if err := tbl.SetHeader(header...); err != nil {
		return "", fmt.Errorf("set header: %w", err)
	}

	for row, key := range t.Index() {
		cells := []string{strconv.Itoa(row + 1), key}
		for _, c := range columns {
			v, _ := t.Value(row, c)
			cells = append(cells, format(v))
		}
		if err := tbl.AddRow(cells...); err != nil {
			return "", fmt.Errorf("add row %s: %w", key, err)
		}
	}

	return tbl.Draw(), nil
}

func format(v stats.Value) string {
	switch v.Kind() {
	case stats.Float:
		if math.IsNaN(v.Float()) {
			return "-"
		}
		return fmt.Sprintf("%.2f", v.Float())
	default:
		return v.String()
	}
}
