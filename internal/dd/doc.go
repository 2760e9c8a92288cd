// Package dd provides the data model for differential dependency verification.
//
// A differential dependency (DD) generalises a functional dependency by
// replacing attribute equality with a bounded distance. Each side of a DD is an
// ordered list of ConstraintIntervals, each binding a closed interval
// [lower, upper] to one column.
//
// This package contains types, structural validation, the textual DD syntax
// and the error taxonomy shared by every other internal package. It imports
// nothing internal.
//
// Key invariants:
//   - 0 <= Lower <= Upper for every ConstraintInterval
//   - Intervals are closed: a distance equal to either bound satisfies it
//   - Report.Holds == (Report.ViolatingPairs == 0)
//   - Highlights are ordered by row pair (i, j) ascending, then by RHS order
package dd
