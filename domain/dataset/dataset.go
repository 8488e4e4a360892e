// Package dataset holds the in-memory tabular model analysed by the engine:
// ordered, named columns of nullable scalar values with equal row counts.
package dataset

import (
	"fmt"
	"time"

	"autobi/domain/core"
)

// DType is the raw storage type of a column, derived from its values
type DType string

const (
	DTypeNumeric  DType = "numeric"
	DTypeDatetime DType = "datetime"
	DTypeBool     DType = "bool"
	DTypeObject   DType = "object"
	DTypeEmpty    DType = "empty"
)

// Column is a named, ordered sequence of values
type Column struct {
	Name   string  `json:"name"`
	Values []Value `json:"values"`
}

// Dataset is an immutable snapshot of tabular data
type Dataset struct {
	columns []Column
	index   map[string]int
	rows    int
}

// New validates columns and builds a dataset. Columns must have unique names
// and identical row counts.
func New(columns ...Column) (*Dataset, error) {
	ds := &Dataset{
		columns: make([]Column, 0, len(columns)),
		index:   make(map[string]int, len(columns)),
	}
	for i, col := range columns {
		if _, exists := ds.index[col.Name]; exists {
			return nil, core.NewColumnError(core.ErrDuplicateColumn, col.Name)
		}
		if i == 0 {
			ds.rows = len(col.Values)
		} else if len(col.Values) != ds.rows {
			return nil, fmt.Errorf("%w: %q has %d rows, expected %d",
				core.ErrColumnLengthMismatch, col.Name, len(col.Values), ds.rows)
		}
		ds.index[col.Name] = i
		ds.columns = append(ds.columns, col)
	}
	return ds, nil
}

// MustNew is New for fixtures; it panics on invalid input
func MustNew(columns ...Column) *Dataset {
	ds, err := New(columns...)
	if err != nil {
		panic(err)
	}
	return ds
}

// Empty returns a dataset with no columns and no rows
func Empty() *Dataset {
	return &Dataset{index: map[string]int{}}
}

// Rows returns the row count
func (d *Dataset) Rows() int { return d.rows }

// Width returns the column count
func (d *Dataset) Width() int { return len(d.columns) }

// IsEmpty reports a dataset with no rows or no columns
func (d *Dataset) IsEmpty() bool { return d.rows == 0 || len(d.columns) == 0 }

// Names returns column names in order
func (d *Dataset) Names() []string {
	names := make([]string, len(d.columns))
	for i, c := range d.columns {
		names[i] = c.Name
	}
	return names
}

// Columns returns the columns in order. Callers must not mutate the values.
func (d *Dataset) Columns() []Column { return d.columns }

// Has reports whether a column exists
func (d *Dataset) Has(name string) bool {
	_, ok := d.index[name]
	return ok
}

// Column looks up a column by name
func (d *Dataset) Column(name string) (Column, bool) {
	i, ok := d.index[name]
	if !ok {
		return Column{}, false
	}
	return d.columns[i], true
}

// Values returns the values of a named column, or nil
func (d *Dataset) Values(name string) []Value {
	col, ok := d.Column(name)
	if !ok {
		return nil
	}
	return col.Values
}

// Row returns the i-th row as values in column order
func (d *Dataset) Row(i int) []Value {
	row := make([]Value, len(d.columns))
	for j, c := range d.columns {
		row[j] = c.Values[i]
	}
	return row
}

// WithColumn returns a copy of the dataset where the named column is replaced
func (d *Dataset) WithColumn(col Column) *Dataset {
	i, ok := d.index[col.Name]
	if !ok || len(col.Values) != d.rows {
		return d
	}
	cols := make([]Column, len(d.columns))
	copy(cols, d.columns)
	cols[i] = col
	return &Dataset{columns: cols, index: d.index, rows: d.rows}
}

// Filter returns a dataset holding only the rows for which keep returns true
func (d *Dataset) Filter(keep func(row int) bool) *Dataset {
	selected := make([]int, 0, d.rows)
	for i := 0; i < d.rows; i++ {
		if keep(i) {
			selected = append(selected, i)
		}
	}
	return d.Take(selected)
}

// Take returns a dataset holding the given rows in the given order
func (d *Dataset) Take(rows []int) *Dataset {
	cols := make([]Column, len(d.columns))
	for j, c := range d.columns {
		values := make([]Value, len(rows))
		for k, r := range rows {
			values[k] = c.Values[r]
		}
		cols[j] = Column{Name: c.Name, Values: values}
	}
	return &Dataset{columns: cols, index: d.index, rows: len(rows)}
}

// Head returns at most n leading rows
func (d *Dataset) Head(n int) *Dataset {
	if n >= d.rows {
		return d
	}
	rows := make([]int, n)
	for i := range rows {
		rows[i] = i
	}
	return d.Take(rows)
}

// NonMissing returns the non-null values of a column, in order
func NonMissing(values []Value) []Value {
	out := make([]Value, 0, len(values))
	for _, v := range values {
		if !v.IsMissing() {
			out = append(out, v)
		}
	}
	return out
}

// NullCount counts missing values
func NullCount(values []Value) int {
	n := 0
	for _, v := range values {
		if v.IsMissing() {
			n++
		}
	}
	return n
}

// DistinctCount counts distinct non-missing values
func DistinctCount(values []Value) int {
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		if v.IsMissing() {
			continue
		}
		seen[v.Key()] = struct{}{}
	}
	return len(seen)
}

// Floats returns the numeric non-missing values of a column
func Floats(values []Value) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if v.IsNumeric() {
			out = append(out, *v.NumericVal)
		}
	}
	return out
}

// DTypeOf derives the raw storage type of a column
func DTypeOf(values []Value) DType {
	var numeric, timestamps, booleans, present int
	for _, v := range values {
		switch {
		case v.IsMissing():
			continue
		case v.IsNumeric():
			numeric++
		case v.IsTimestamp():
			timestamps++
		case v.IsBoolean():
			booleans++
		}
		present++
	}
	switch {
	case present == 0:
		return DTypeEmpty
	case numeric == present:
		return DTypeNumeric
	case timestamps == present:
		return DTypeDatetime
	case booleans == present:
		return DTypeBool
	}
	return DTypeObject
}

// TimeColumn builds a column of timestamps, used for parsed date views
func TimeColumn(name string, times []*time.Time) Column {
	values := make([]Value, len(times))
	for i, t := range times {
		if t == nil {
			values[i] = NewMissingValue()
			continue
		}
		values[i] = NewTimestampValue(*t)
	}
	return Column{Name: name, Values: values}
}

// Point is one dated measure value
type Point struct {
	Time  time.Time
	Value float64
}
