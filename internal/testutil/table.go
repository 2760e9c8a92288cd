package testutil

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/ddverify/internal/table"
)

// Relation builds a relation from a header and rows with default load options.
// Cells equal to "NULL" are nulls and "" are empty.
func Relation(t testing.TB, names []string, rows ...[]string) *table.Relation {
	t.Helper()
	rel, err := table.NewRelation(names, rows, table.DefaultLoadOptions())
	require.NoError(t, err)
	return rel
}

// CSV builds a relation from CSV text with a header row.
func CSV(t testing.TB, text string) *table.Relation {
	t.Helper()
	rel, err := table.LoadCSV(strings.NewReader(text), table.DefaultLoadOptions())
	require.NoError(t, err)
	return rel
}
