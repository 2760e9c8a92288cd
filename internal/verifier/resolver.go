package verifier

import (
	"fmt"
	"math"

	"github.com/roach88/ddverify/internal/dd"
	"github.com/roach88/ddverify/internal/table"
)

// ResolvedColumn is a constraint's column name bound to a table column.
type ResolvedColumn struct {
	Name           string
	Index          int
	Classification table.Classification
}

// resolveColumns maps every constraint to its table column.
func resolveColumns(t Table, constraints []dd.ConstraintInterval) ([]ResolvedColumn, error) {
	columns := make([]ResolvedColumn, len(constraints))
	for i, c := range constraints {
		idx, ok := t.ColumnIndex(c.Column)
		if !ok {
			return nil, dd.NewUnknownColumnError(c.Column)
		}
		columns[i] = ResolvedColumn{
			Name:           c.Column,
			Index:          idx,
			Classification: t.Classification(idx),
		}
	}
	return columns, nil
}

// checkMetrizable fails on the first column without a distance function.
func checkMetrizable(columns []ResolvedColumn) error {
	for _, col := range columns {
		switch col.Classification.Class {
		case table.ClassMetrizable:
			continue
		case table.ClassUndefined:
			return dd.NewUnsupportedColumnTypeError(col.Name,
				fmt.Sprintf("column %q type undefined", col.Name))
		case table.ClassMixed:
			return dd.NewUnsupportedColumnTypeError(col.Name,
				fmt.Sprintf("column %q contains values of different types", col.Name))
		default:
			return dd.NewUnsupportedColumnTypeError(col.Name,
				fmt.Sprintf("column %q of type %s has no distance function", col.Name, col.Classification.Kind))
		}
	}
	return nil
}

// DistanceResolver computes checked distances over a Table.
type DistanceResolver struct {
	table Table
}

// NewDistanceResolver returns a resolver reading from t.
func NewDistanceResolver(t Table) DistanceResolver {
	return DistanceResolver{table: t}
}

// Distance returns the distance between rowA and rowB in col.
//
// A null or empty cell in either row, or a distance that is NaN, infinite or
// negative, is reported as a MISSING_VALUE error naming the column and rows.
func (r DistanceResolver) Distance(col ResolvedColumn, rowA, rowB int) (float64, error) {
	if err := r.checkPresent(col, rowA, rowB); err != nil {
		return 0, err
	}

	d := r.table.Distance(col.Index, rowA, rowB)
	if math.IsNaN(d) || math.IsInf(d, 0) || d < 0 {
		return 0, dd.NewMissingValueError(col.Name,
			fmt.Sprintf("distance between rows %d and %d is ill-defined (%v)", rowA, rowB, d), rowA, rowB)
	}
	return d, nil
}

func (r DistanceResolver) checkPresent(col ResolvedColumn, rowA, rowB int) error {
	var rows []int
	nulls, empties := 0, 0
	for _, row := range []int{rowA, rowB} {
		switch {
		case r.table.IsNull(col.Index, row):
			rows = append(rows, row)
			nulls++
		case r.table.IsEmpty(col.Index, row):
			rows = append(rows, row)
			empties++
		}
	}

	switch {
	case len(rows) == 0:
		return nil
	case empties == 0:
		return dd.NewMissingValueError(col.Name, "value is null", rows...)
	case nulls == 0:
		return dd.NewMissingValueError(col.Name, "value is empty", rows...)
	default:
		return dd.NewMissingValueError(col.Name, "values are null or empty", rows...)
	}
}
