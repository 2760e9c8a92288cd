package dd

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strconv"
)

// DomainReport is the domain prefix for report fingerprints.
// The version suffix allows the rendering to change without collisions.
const DomainReport = "ddverify/report/v1"

// Report is the outcome of one verification run.
type Report struct {
	// ErrorRate is ViolatingPairs / LhsPairs, or 0 when LhsPairs is 0.
	ErrorRate float64 `json:"error_rate"`

	// ViolatingPairs counts LHS-satisfying pairs violating at least one RHS constraint.
	ViolatingPairs int `json:"violating_pair_count"`

	// LhsPairs counts pairs satisfying every LHS constraint.
	LhsPairs int `json:"lhs_pair_count"`

	// Holds is true iff ViolatingPairs is 0.
	Holds bool `json:"holds"`

	// Highlights lists every violated (RHS column, pair), ordered by pair then RHS order.
	Highlights []Highlight `json:"highlights"`
}

// NewReport assembles a Report from the pipeline results.
func NewReport(lhsPairs, violatingPairs int, highlights []Highlight) Report {
	rate := 0.0
	if lhsPairs > 0 {
		rate = float64(violatingPairs) / float64(lhsPairs)
	}
	if highlights == nil {
		highlights = []Highlight{}
	}
	return Report{
		ErrorRate:      rate,
		ViolatingPairs: violatingPairs,
		LhsPairs:       lhsPairs,
		Holds:          violatingPairs == 0,
		Highlights:     highlights,
	}
}

// HighlightedPairs returns the distinct pairs appearing in Highlights, in order.
func (r Report) HighlightedPairs() []RowPair {
	var pairs []RowPair
	for i, h := range r.Highlights {
		if i > 0 && r.Highlights[i-1].Pair == h.Pair {
			continue
		}
		pairs = append(pairs, h.Pair)
	}
	return pairs
}

// Fingerprint returns a SHA-256 digest identifying the report content.
// Identical inputs produce identical fingerprints.
func (r Report) Fingerprint() string {
	type highlight struct {
		Column int `json:"c"`
		First  int `json:"i"`
		Second int `json:"j"`
	}
	hs := make([]highlight, len(r.Highlights))
	for i, h := range r.Highlights {
		hs[i] = highlight{Column: h.Column, First: h.Pair.First, Second: h.Pair.Second}
	}
	// Struct field order fixes key order; the rate is rendered exactly.
	data, _ := json.Marshal(struct {
		ErrorRate  string      `json:"error_rate"`
		Violating  int         `json:"violating"`
		LhsPairs   int         `json:"lhs_pairs"`
		Holds      bool        `json:"holds"`
		Highlights []highlight `json:"highlights"`
	}{
		ErrorRate:  strconv.FormatFloat(r.ErrorRate, 'g', -1, 64),
		Violating:  r.ViolatingPairs,
		LhsPairs:   r.LhsPairs,
		Holds:      r.Holds,
		Highlights: hs,
	})

	h := sha256.New()
	h.Write([]byte(DomainReport))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}
