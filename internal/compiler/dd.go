// Package compiler turns CUE DD specification files into
// dd.DifferentialDependency values.
//
// A specification is either structured:
//
//	dd: "age-salary": {
//		description: "close ages imply close salaries"
//		lhs: [{column: "age", lower: 0, upper: 5}]
//		rhs: [{column: "salary", lower: 0, upper: 1000}]
//	}
//
// or the textual form accepted by dd.Parse:
//
//	dd: "age-salary": "age [0;5] -> salary [0;1000]"
//
// An omitted upper bound is unbounded (+Inf). Compilation checks shape only;
// bounds are checked by dd.Validate.
package compiler

import (
	"fmt"
	"math"

	"cuelang.org/go/cue"

	"github.com/roach88/ddverify/internal/dd"
)

// NamedDD is a compiled specification entry.
type NamedDD struct {
	Name        string
	Description string
	DD          dd.DifferentialDependency
}

// CompileDD parses a CUE value into a NamedDD.
//
// The CUE value should be the entry itself, e.g.:
//
//	ctx := cuecontext.New()
//	v := ctx.CompileString(`dd: x: {lhs: [], rhs: []}`)
//	spec, err := CompileDD(v.LookupPath(cue.ParsePath("dd.x")))
func CompileDD(v cue.Value) (*NamedDD, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	spec := &NamedDD{Name: labelOf(v)}

	if v.IncompleteKind() == cue.StringKind {
		text, err := v.String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		parsed, err := dd.Parse(text)
		if err != nil {
			return nil, &CompileError{Field: "dd", Message: err.Error(), Pos: v.Pos()}
		}
		spec.DD = parsed
		return spec, nil
	}

	if v.IncompleteKind() != cue.StructKind {
		return nil, &CompileError{
			Field:   "dd",
			Message: "must be a string or a struct with lhs and rhs",
			Pos:     v.Pos(),
		}
	}

	if descVal := v.LookupPath(cue.ParsePath("description")); descVal.Exists() {
		desc, err := descVal.String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		spec.Description = desc
	}

	left, err := parseSide(v, "lhs")
	if err != nil {
		return nil, err
	}
	right, err := parseSide(v, "rhs")
	if err != nil {
		return nil, err
	}
	spec.DD = dd.New(left, right)

	return spec, nil
}

// parseSide reads a required, possibly empty, list of constraints.
func parseSide(v cue.Value, side string) ([]dd.ConstraintInterval, error) {
	sideVal := v.LookupPath(cue.ParsePath(side))
	if !sideVal.Exists() {
		return nil, &CompileError{
			Field:   side,
			Message: side + " is required (use [] for no constraints)",
			Pos:     v.Pos(),
		}
	}

	iter, err := sideVal.List()
	if err != nil {
		return nil, formatCUEError(err)
	}

	var constraints []dd.ConstraintInterval
	for i := 0; iter.Next(); i++ {
		c, err := parseConstraint(iter.Value(), fmt.Sprintf("%s[%d]", side, i))
		if err != nil {
			return nil, err
		}
		constraints = append(constraints, c)
	}
	return constraints, nil
}

func parseConstraint(v cue.Value, field string) (dd.ConstraintInterval, error) {
	var c dd.ConstraintInterval

	colVal := v.LookupPath(cue.ParsePath("column"))
	if !colVal.Exists() {
		return c, &CompileError{Field: field + ".column", Message: "column is required", Pos: v.Pos()}
	}
	column, err := colVal.String()
	if err != nil {
		return c, formatCUEError(err)
	}
	c.Column = column

	lowerVal := v.LookupPath(cue.ParsePath("lower"))
	if !lowerVal.Exists() {
		return c, &CompileError{Field: field + ".lower", Message: "lower is required", Pos: v.Pos()}
	}
	if c.Lower, err = number(lowerVal, field+".lower"); err != nil {
		return c, err
	}

	c.Upper = math.Inf(1)
	if upperVal := v.LookupPath(cue.ParsePath("upper")); upperVal.Exists() {
		if c.Upper, err = number(upperVal, field+".upper"); err != nil {
			return c, err
		}
	}

	return c, nil
}

// number accepts CUE ints and floats.
func number(v cue.Value, field string) (float64, error) {
	if v.IncompleteKind()&cue.NumberKind == 0 {
		return 0, &CompileError{Field: field, Message: "must be a number", Pos: v.Pos()}
	}
	f, err := v.Float64()
	if err != nil {
		return 0, formatCUEError(err)
	}
	return f, nil
}

// labelOf returns the unquoted final path label of v.
func labelOf(v cue.Value) string {
	sels := v.Path().Selectors()
	if len(sels) == 0 {
		return ""
	}
	last := sels[len(sels)-1]
	if last.IsString() {
		return last.Unquoted()
	}
	return last.String()
}
