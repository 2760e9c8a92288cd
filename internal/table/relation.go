package table

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrNoColumns is returned when a relation would have no columns.
	ErrNoColumns = errors.New("relation has no columns")

	// ErrDuplicateColumn is returned when two columns share a name.
	ErrDuplicateColumn = errors.New("duplicate column name")

	// ErrRaggedRow is returned when a row's width differs from the header.
	ErrRaggedRow = errors.New("row width does not match column count")
)

// LoadOptions controls how raw text becomes cells.
type LoadOptions struct {
	// NullTokens are raw values treated as Null. Matching is exact.
	NullTokens []string

	// Delimiter separates CSV fields. Zero means ','.
	Delimiter rune

	// NoHeader makes CSV loading name columns col0, col1, ... and treat the
	// first record as data.
	NoHeader bool
}

// DefaultLoadOptions returns the options used when none are given.
func DefaultLoadOptions() LoadOptions {
	return LoadOptions{
		NullTokens: []string{"NULL"},
		Delimiter:  ',',
	}
}

// Column is one typed column of a Relation.
type Column struct {
	name   string
	kind   Kind
	cells  []Cell
	metric Metric // nil unless the column is metrizable
}

// Name returns the column name.
func (c *Column) Name() string { return c.name }

// Kind returns the inferred column kind.
func (c *Column) Kind() Kind { return c.kind }

// Cell returns the cell at row.
func (c *Column) Cell(row int) Cell { return c.cells[row] }

// Relation is an immutable typed table stored column by column.
type Relation struct {
	columns []*Column
	index   map[string]int
	rows    int
}

// NewRelation builds a Relation from a header and raw text rows.
// Empty strings become Empty cells and null tokens become Null cells.
func NewRelation(names []string, rows [][]string, opts LoadOptions) (*Relation, error) {
	for i, row := range rows {
		if len(row) != len(names) {
			return nil, fmt.Errorf("%w: row %d has %d values, expected %d", ErrRaggedRow, i, len(row), len(names))
		}
	}
	return build(names, len(rows), opts, func(r, c int) (string, bool) {
		return rows[r][c], false
	})
}

// NewRelationFromNullable builds a Relation from rows where a nil entry is an
// explicit null, as produced by SQL drivers.
func NewRelationFromNullable(names []string, rows [][]*string, opts LoadOptions) (*Relation, error) {
	for i, row := range rows {
		if len(row) != len(names) {
			return nil, fmt.Errorf("%w: row %d has %d values, expected %d", ErrRaggedRow, i, len(row), len(names))
		}
	}
	return build(names, len(rows), opts, func(r, c int) (string, bool) {
		if rows[r][c] == nil {
			return "", true
		}
		return *rows[r][c], false
	})
}

func build(names []string, rowCount int, opts LoadOptions, at func(r, c int) (string, bool)) (*Relation, error) {
	if len(names) == 0 {
		return nil, ErrNoColumns
	}

	nullTokens := make(map[string]bool, len(opts.NullTokens))
	for _, tok := range opts.NullTokens {
		nullTokens[tok] = true
	}

	rel := &Relation{
		columns: make([]*Column, len(names)),
		index:   make(map[string]int, len(names)),
		rows:    rowCount,
	}

	for c, name := range names {
		if _, dup := rel.index[name]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateColumn, name)
		}
		rel.index[name] = c

		cells := make([]Cell, rowCount)
		for r := 0; r < rowCount; r++ {
			raw, isNull := at(r, c)
			switch {
			case isNull || nullTokens[raw]:
				cells[r] = Cell{Raw: raw, State: Null}
			case raw == "":
				cells[r] = Cell{State: Empty}
			default:
				cells[r] = Cell{Raw: raw, State: Present}
			}
		}

		kind := inferColumn(cells)
		rel.columns[c] = &Column{
			name:   name,
			kind:   kind,
			cells:  cells,
			metric: metricFor(kind),
		}
	}

	return rel, nil
}

// ColumnIndex returns the index of the named column.
func (r *Relation) ColumnIndex(name string) (int, bool) {
	idx, ok := r.index[name]
	return idx, ok
}

// ColumnName returns the name of column idx.
func (r *Relation) ColumnName(idx int) string {
	return r.columns[idx].name
}

// Column returns column idx.
func (r *Relation) Column(idx int) *Column {
	return r.columns[idx]
}

// ColumnCount returns the number of columns.
func (r *Relation) ColumnCount() int {
	return len(r.columns)
}

// RowCount returns the number of rows.
func (r *Relation) RowCount() int {
	return r.rows
}

// Classification returns the distance classification of column idx.
func (r *Relation) Classification(idx int) Classification {
	return classify(r.columns[idx].kind)
}

// IsNull reports whether the cell is an explicit null.
func (r *Relation) IsNull(idx, row int) bool {
	return r.columns[idx].cells[row].State == Null
}

// IsEmpty reports whether the cell is blank.
func (r *Relation) IsEmpty(idx, row int) bool {
	return r.columns[idx].cells[row].State == Empty
}

// Distance returns the distance between two rows of column idx.
//
// The result is NaN when the column is not metrizable or either cell is not
// present; callers are expected to check Classification, IsNull and IsEmpty
// first.
func (r *Relation) Distance(idx, rowA, rowB int) float64 {
	col := r.columns[idx]
	a, b := col.cells[rowA], col.cells[rowB]
	if col.metric == nil || a.State != Present || b.State != Present {
		return math.NaN()
	}
	return col.metric.Distance(a.Value, b.Value)
}

// ValueString renders a cell for diagnostics.
func (r *Relation) ValueString(idx, row int) string {
	cell := r.columns[idx].cells[row]
	if cell.State == Null && cell.Raw == "" {
		return "NULL"
	}
	return cell.Raw
}
