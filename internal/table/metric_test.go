package table

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDistance_ByKind(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want float64
	}{
		{"int", "10", "12", 2},
		{"int negative", "-5", "5", 10},
		{"int extremes", "-9223372036854775808", "9223372036854775807", math.MaxUint64},
		{"double", "1.25", "0.5", 0.75},
		{"promoted", "1", "2.5", 1.5},
		{"date", "2024-02-27", "2024-03-02", 4},
		{"date across centuries", "1600-01-01", "2000-01-01", 146097},
		{"string", "kitten", "sitting", 3},
		{"string identical", "abc", "abc", 0},
		{"string unicode", "naïve", "naive", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rel, err := NewRelation([]string{"c"}, [][]string{{tt.a}, {tt.b}}, DefaultLoadOptions())
			require.NoError(t, err)
			require.True(t, rel.Classification(0).IsMetrizable())

			assert.Equal(t, tt.want, rel.Distance(0, 0, 1))
			assert.Equal(t, tt.want, rel.Distance(0, 1, 0), "distance is symmetric")
		})
	}
}

func TestDistance_StringNormalisesComposedForms(t *testing.T) {
	composed := "caf\u00e9"
	decomposed := "cafe\u0301"

	rel, err := NewRelation([]string{"c"}, [][]string{{composed}, {decomposed}}, DefaultLoadOptions())
	require.NoError(t, err)

	assert.Equal(t, 0.0, rel.Distance(0, 0, 1))
}

func TestDistance_InfiniteDouble(t *testing.T) {
	rel, err := NewRelation([]string{"c"}, [][]string{{"1.5"}, {"+Inf"}}, DefaultLoadOptions())
	require.NoError(t, err)

	assert.Equal(t, KindDouble, rel.Column(0).Kind())
	assert.True(t, math.IsInf(rel.Distance(0, 0, 1), 1))
}

func TestInferCell_WordsAreNotNumbers(t *testing.T) {
	for _, word := range []string{"nan", "NaN", "inf", "Infinity"} {
		k, _ := inferCell(word)
		assert.Equal(t, KindString, k, word)
	}
}

func TestUnify(t *testing.T) {
	assert.Equal(t, KindInt, unify(KindUndefined, KindInt))
	assert.Equal(t, KindDouble, unify(KindInt, KindDouble))
	assert.Equal(t, KindDouble, unify(KindDouble, KindInt))
	assert.Equal(t, KindMixed, unify(KindInt, KindString))
	assert.Equal(t, KindMixed, unify(KindMixed, KindInt))
	assert.Equal(t, KindMixed, unify(KindDate, KindBool))
}
