// Package preprocessing holds the tabular input type and the correlation
// based feature selector.
package preprocessing

import (
	"gonum.org/v1/gonum/mat"

	scierrors "github.com/YuminosukeSato/statlearn/pkg/errors"
)

// ColumnKind tells whether a column holds numbers or raw date strings.
type ColumnKind int

const (
	// Numeric columns hold float64 values.
	Numeric ColumnKind = iota
	// Date columns hold unparsed date strings until ConvertDates runs.
	Date
)

type column struct {
	name    string
	kind    ColumnKind
	numeric []float64
	raw     []string
}

// Table is an ordered set of equally long named columns.
//
// 使用例:
//
//	t := preprocessing.NewTable()
//	_ = t.AddNumeric("price", prices)
//	_ = t.AddDates("date", rawDates)
//	best, _ := preprocessing.FeatureSelection(t, y, 5)
type Table struct {
	columns []column
	index   map[string]int
	rows    int
}

// NewTable creates an empty Table.
func NewTable() *Table {
	return &Table{index: make(map[string]int)}
}

// AddNumeric appends a numeric column. The slice is copied.
func (t *Table) AddNumeric(name string, values []float64) error {
	if err := t.checkAdd(name, len(values)); err != nil {
		return err
	}
	t.append(column{name: name, kind: Numeric, numeric: append([]float64(nil), values...)})
	return nil
}

// AddDates appends a raw date column. Values are parsed by ConvertDates.
func (t *Table) AddDates(name string, raw []string) error {
	if err := t.checkAdd(name, len(raw)); err != nil {
		return err
	}
	t.append(column{name: name, kind: Date, raw: append([]string(nil), raw...)})
	return nil
}

func (t *Table) checkAdd(name string, n int) error {
	if name == "" {
		return scierrors.NewValidationError("name", "column name must not be empty", name)
	}
	if _, dup := t.index[name]; dup {
		return scierrors.NewValidationError("name", "duplicate column", name)
	}
	if len(t.columns) > 0 && n != t.rows {
		return scierrors.NewDimensionError("Table.Add", t.rows, n, 0)
	}
	return nil
}

func (t *Table) append(c column) {
	if len(t.columns) == 0 {
		t.rows = len(c.numeric) + len(c.raw)
	}
	t.index[c.name] = len(t.columns)
	t.columns = append(t.columns, c)
}

// Names returns the column names in insertion order.
func (t *Table) Names() []string {
	names := make([]string, len(t.columns))
	for i, c := range t.columns {
		names[i] = c.name
	}
	return names
}

// Rows returns the number of rows.
func (t *Table) Rows() int { return t.rows }

// Kind returns the kind of the named column.
func (t *Table) Kind(name string) (ColumnKind, error) {
	i, ok := t.index[name]
	if !ok {
		return 0, scierrors.NewValidationError("name", "unknown column", name)
	}
	return t.columns[i].kind, nil
}

// Column returns a copy of the named numeric column. Date columns yield
// ErrUnconvertedColumn until ConvertDates has been applied.
func (t *Table) Column(name string) ([]float64, error) {
	i, ok := t.index[name]
	if !ok {
		return nil, scierrors.NewValidationError("name", "unknown column", name)
	}
	c := t.columns[i]
	if c.kind != Numeric {
		return nil, scierrors.Wrapf(scierrors.ErrUnconvertedColumn, "column %q", name)
	}
	return append([]float64(nil), c.numeric...), nil
}

// Matrix stacks the named numeric columns into a rows×len(names) matrix.
// With no names every column is used.
func (t *Table) Matrix(names ...string) (*mat.Dense, error) {
	if len(names) == 0 {
		names = t.Names()
	}
	if len(names) == 0 || t.rows == 0 {
		return nil, scierrors.WithStack(scierrors.ErrEmptyData)
	}

	out := mat.NewDense(t.rows, len(names), nil)
	for j, name := range names {
		col, err := t.Column(name)
		if err != nil {
			return nil, err
		}
		out.SetCol(j, col)
	}
	return out, nil
}
