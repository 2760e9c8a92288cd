package dd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  DifferentialDependency
	}{
		{
			name:  "single constraint each side",
			input: "age [0;5] -> age [0;0]",
			want: DifferentialDependency{
				Left:  []ConstraintInterval{{Column: "age", Lower: 0, Upper: 5}},
				Right: []ConstraintInterval{{Column: "age", Lower: 0, Upper: 0}},
			},
		},
		{
			name:  "multiple constraints and no spaces",
			input: "a[0;1],b[2;3.5]->c[0;10]",
			want: DifferentialDependency{
				Left: []ConstraintInterval{
					{Column: "a", Lower: 0, Upper: 1},
					{Column: "b", Lower: 2, Upper: 3.5},
				},
				Right: []ConstraintInterval{{Column: "c", Lower: 0, Upper: 10}},
			},
		},
		{
			name:  "empty lhs",
			input: " -> salary [0;100]",
			want: DifferentialDependency{
				Right: []ConstraintInterval{{Column: "salary", Lower: 0, Upper: 100}},
			},
		},
		{
			name:  "column name with spaces",
			input: "first name [0;2] -> last name [0;3]",
			want: DifferentialDependency{
				Left:  []ConstraintInterval{{Column: "first name", Lower: 0, Upper: 2}},
				Right: []ConstraintInterval{{Column: "last name", Lower: 0, Upper: 3}},
			},
		},
		{
			name:  "inverted bounds parse",
			input: "x [5;2] -> y [0;1]",
			want: DifferentialDependency{
				Left:  []ConstraintInterval{{Column: "x", Lower: 5, Upper: 2}},
				Right: []ConstraintInterval{{Column: "y", Lower: 0, Upper: 1}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParse_Errors(t *testing.T) {
	inputs := map[string]string{
		"no arrow":           "age [0;5]",
		"two arrows":         "a [0;1] -> b [0;1] -> c [0;1]",
		"missing brackets":   "age 0;5 -> b [0;1]",
		"missing semicolon":  "age [0,5] -> b [0;1]",
		"bad number":         "age [zero;5] -> b [0;1]",
		"missing column":     "[0;5] -> b [0;1]",
		"unterminated":       "age [0;5 -> b [0;1]",
		"nested brackets":    "age [[0;5]] -> b [0;1]",
		"unmatched close":    "age ]0;5] -> b [0;1]",
		"trailing separator": "age [0;5], -> b [0;1]",
	}

	for name, input := range inputs {
		t.Run(name, func(t *testing.T) {
			_, err := Parse(input)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrSyntax)
		})
	}
}

func TestMustParse_Panics(t *testing.T) {
	assert.Panics(t, func() { MustParse("not a dd") })
	assert.NotPanics(t, func() { MustParse("a [0;1] -> b [0;1]") })
}
