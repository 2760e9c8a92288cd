package verifier

import "github.com/roach88/ddverify/internal/table"

// Table is the read-only typed table a DD is verified against.
// *table.Relation implements it.
type Table interface {
	ColumnIndex(name string) (int, bool)
	ColumnName(idx int) string
	Classification(idx int) table.Classification
	IsNull(idx, row int) bool
	IsEmpty(idx, row int) bool
	Distance(idx, rowA, rowB int) float64
	ValueString(idx, row int) string
	RowCount() int
}

var _ Table = (*table.Relation)(nil)
