package stats

import (
	"fmt"
	"math"
	"slices"
	"sort"
)

// IndexColumn names the row key column in exported tables.
const IndexColumn = "player_name"

// Table is a column-oriented result keyed by player name. Operations return
// new tables and never modify the receiver.
type Table struct {
	index   []string
	columns []string
	kinds   map[string]Kind
	data    map[string][]Value
}

// NewTable makes an empty table with the given row keys. Keys are expected
// to be unique.
func NewTable(index []string) *Table {
	return &Table{
		index: append([]string(nil), index...),
		kinds: make(map[string]Kind),
		data:  make(map[string][]Value),
	}
}

// AddColumn appends a copy of values as a column, replacing an existing
// one with the same name.
func (t *Table) AddColumn(name string, kind Kind, values []Value) error {
	if len(values) != len(t.index) {
		return fmt.Errorf("column %s has %d values for %d rows", name, len(values), len(t.index))
	}
	t.setColumn(name, kind, slices.Clone(values))
	return nil
}

// setColumn stores values without copying; callers hand over ownership.
func (t *Table) setColumn(name string, kind Kind, values []Value) {
	if _, ok := t.data[name]; !ok {
		t.columns = append(t.columns, name)
	}
	t.kinds[name] = kind
	t.data[name] = values
}

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.index) }

// Index returns row keys in order.
func (t *Table) Index() []string { return append([]string(nil), t.index...) }

// Columns returns column names in order.
func (t *Table) Columns() []string { return append([]string(nil), t.columns...) }

// Has reports whether the column exists.
func (t *Table) Has(name string) bool {
	_, ok := t.data[name]
	return ok
}

// Kind returns the kind of the column.
func (t *Table) Kind(name string) (Kind, bool) {
	k, ok := t.kinds[name]
	return k, ok
}

// Column returns a copy of the values of the column.
func (t *Table) Column(name string) ([]Value, error) {
	vals, err := t.column(name)
	if err != nil {
		return nil, err
	}
	return slices.Clone(vals), nil
}

func (t *Table) column(name string) ([]Value, error) {
	vals, ok := t.data[name]
	if !ok {
		return nil, fmt.Errorf("%s: %w", name, ErrMissingColumn)
	}
	return vals, nil
}

// Floats returns the numeric values of the column.
func (t *Table) Floats(name string) ([]float64, error) {
	vals, err := t.column(name)
	if err != nil {
		return nil, err
	}
	if k := t.kinds[name]; k != Int && k != Float {
		return nil, fmt.Errorf("%s: %w", name, ErrNotNumeric)
	}
	res := make([]float64, len(vals))
	for i, v := range vals {
		res[i] = v.Float()
	}
	return res, nil
}

// Value returns the cell at the given row position and column.
func (t *Table) Value(row int, col string) (Value, bool) {
	vals, ok := t.data[col]
	if !ok || row < 0 || row >= len(vals) {
		return Value{}, false
	}
	return vals[row], true
}

// Row returns the position of the row with the given key.
func (t *Table) Row(key string) (int, bool) {
	for i, k := range t.index {
		if k == key {
			return i, true
		}
	}
	return 0, false
}

// Select returns a table with exactly the named columns in the given order.
// Repeated names are kept once.
func (t *Table) Select(columns []string) (*Table, error) {
	res := NewTable(t.index)
	for _, c := range columns {
		if res.Has(c) {
			continue
		}
		vals, err := t.column(c)
		if err != nil {
			return nil, err
		}
		res.setColumn(c, t.kinds[c], slices.Clone(vals))
	}
	return res, nil
}

// Filter returns the rows for which keep reports true on the column value.
func (t *Table) Filter(col string, keep func(Value) bool) (*Table, error) {
	vals, err := t.column(col)
	if err != nil {
		return nil, err
	}
	var rows []int
	for i, v := range vals {
		if keep(v) {
			rows = append(rows, i)
		}
	}
	return t.take(rows), nil
}

// Join returns the rows present in both tables, in the receiver's order,
// with the receiver's columns followed by the other table's columns the
// receiver does not have.
func (t *Table) Join(other *Table) *Table {
	pos := make(map[string]int, len(other.index))
	for i, k := range other.index {
		pos[k] = i
	}

	var left, right []int
	for i, k := range t.index {
		if j, ok := pos[k]; ok {
			left = append(left, i)
			right = append(right, j)
		}
	}

	res := t.take(left)
	r := other.take(right)
	for _, c := range r.columns {
		if res.Has(c) {
			continue
		}
		res.setColumn(c, r.kinds[c], r.data[c])
	}
	return res
}

// SortBy orders rows by a numeric column. NaN values sort last.
func (t *Table) SortBy(col string, desc bool) (*Table, error) {
	vals, err := t.Floats(col)
	if err != nil {
		return nil, err
	}

	rows := allRows(len(vals))
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := vals[rows[i]], vals[rows[j]]
		switch {
		case math.IsNaN(a):
			return false
		case math.IsNaN(b):
			return true
		case desc:
			return a > b
		default:
			return a < b
		}
	})
	return t.take(rows), nil
}

// Head returns at most n leading rows.
func (t *Table) Head(n int) *Table {
	if n < 0 || n >= len(t.index) {
		n = len(t.index)
	}
	return t.take(allRows(n))
}

func (t *Table) take(rows []int) *Table {
	index := make([]string, len(rows))
	for i, r := range rows {
		index[i] = t.index[r]
	}

	res := NewTable(index)
	for _, c := range t.columns {
		src := t.data[c]
		vals := make([]Value, len(rows))
		for i, r := range rows {
			vals[i] = src[r]
		}
		res.setColumn(c, t.kinds[c], vals)
	}
	return res
}
