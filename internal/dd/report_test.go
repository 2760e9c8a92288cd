package dd

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewReport_ErrorRate(t *testing.T) {
	r := NewReport(4, 1, []Highlight{{Column: 2, Pair: RowPair{0, 1}}})

	assert.Equal(t, 0.25, r.ErrorRate)
	assert.Equal(t, 1, r.ViolatingPairs)
	assert.Equal(t, 4, r.LhsPairs)
	assert.False(t, r.Holds)
}

func TestNewReport_EmptyDenominator(t *testing.T) {
	r := NewReport(0, 0, nil)

	assert.Equal(t, 0.0, r.ErrorRate)
	assert.True(t, r.Holds)
	assert.NotNil(t, r.Highlights)
	assert.Empty(t, r.Highlights)
}

func TestReport_HighlightedPairs(t *testing.T) {
	r := NewReport(3, 2, []Highlight{
		{Column: 1, Pair: RowPair{0, 1}},
		{Column: 2, Pair: RowPair{0, 1}},
		{Column: 1, Pair: RowPair{1, 2}},
	})

	assert.Equal(t, []RowPair{{0, 1}, {1, 2}}, r.HighlightedPairs())
	assert.Len(t, r.HighlightedPairs(), r.ViolatingPairs)
}

func TestReport_Fingerprint(t *testing.T) {
	a := NewReport(2, 1, []Highlight{{Column: 0, Pair: RowPair{0, 1}}})
	b := NewReport(2, 1, []Highlight{{Column: 0, Pair: RowPair{0, 1}}})
	c := NewReport(2, 1, []Highlight{{Column: 1, Pair: RowPair{0, 1}}})

	assert.Equal(t, a.Fingerprint(), b.Fingerprint())
	assert.NotEqual(t, a.Fingerprint(), c.Fingerprint())
	assert.Len(t, a.Fingerprint(), 64)
}
