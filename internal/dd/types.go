package dd

import (
	"fmt"
	"strconv"
	"strings"
)

// ConstraintInterval binds a closed distance interval to one column.
type ConstraintInterval struct {
	Column string  `json:"column" yaml:"column"`
	Lower  float64 `json:"lower" yaml:"lower"`
	Upper  float64 `json:"upper" yaml:"upper"`
}

// NewConstraint returns a ConstraintInterval for column with the given bounds.
// Bounds are not checked here; see Validate.
func NewConstraint(column string, lower, upper float64) ConstraintInterval {
	return ConstraintInterval{Column: column, Lower: lower, Upper: upper}
}

// Contains reports whether distance lies inside [Lower, Upper].
// Both bounds are inclusive.
func (c ConstraintInterval) Contains(distance float64) bool {
	return distance >= c.Lower && distance <= c.Upper
}

// String renders the constraint in DD syntax, e.g. "age [0;5]".
func (c ConstraintInterval) String() string {
	return fmt.Sprintf("%s [%s;%s]", c.Column, formatBound(c.Lower), formatBound(c.Upper))
}

func formatBound(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// DifferentialDependency is an ordered list of LHS constraints and an ordered
// list of RHS constraints.
//
// The order of Left affects only the amount of work done by matching, never the
// resulting pair set. The order of Right determines highlight order.
type DifferentialDependency struct {
	Left  []ConstraintInterval `json:"lhs" yaml:"lhs"`
	Right []ConstraintInterval `json:"rhs" yaml:"rhs"`
}

// New creates a DifferentialDependency.
// The slices are copied so later mutation by the caller has no effect.
func New(left, right []ConstraintInterval) DifferentialDependency {
	return DifferentialDependency{
		Left:  append([]ConstraintInterval(nil), left...),
		Right: append([]ConstraintInterval(nil), right...),
	}
}

// Columns returns every referenced column name, LHS first, in declaration
// order. Names referenced more than once appear once.
func (d DifferentialDependency) Columns() []string {
	seen := make(map[string]bool, len(d.Left)+len(d.Right))
	var names []string
	for _, c := range d.Left {
		if !seen[c.Column] {
			seen[c.Column] = true
			names = append(names, c.Column)
		}
	}
	for _, c := range d.Right {
		if !seen[c.Column] {
			seen[c.Column] = true
			names = append(names, c.Column)
		}
	}
	return names
}

// String renders the DD in the syntax accepted by Parse.
func (d DifferentialDependency) String() string {
	return joinSide(d.Left) + " -> " + joinSide(d.Right)
}

func joinSide(side []ConstraintInterval) string {
	parts := make([]string, len(side))
	for i, c := range side {
		parts[i] = c.String()
	}
	return strings.Join(parts, ", ")
}

// RowPair is an unordered pair of row indices, stored with First < Second.
type RowPair struct {
	First  int `json:"first"`
	Second int `json:"second"`
}

// Less orders pairs by (First, Second) ascending.
func (p RowPair) Less(o RowPair) bool {
	if p.First != o.First {
		return p.First < o.First
	}
	return p.Second < o.Second
}

func (p RowPair) String() string {
	return fmt.Sprintf("(%d, %d)", p.First, p.Second)
}

// Highlight records one violated RHS constraint for one row pair.
// A pair violating several RHS constraints yields several highlights.
type Highlight struct {
	Column int     `json:"column"`
	Pair   RowPair `json:"pair"`
}
