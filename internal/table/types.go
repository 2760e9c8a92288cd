package table

import "fmt"

// Kind is the inferred runtime type of a cell or column.
type Kind int

const (
	KindUndefined Kind = iota
	KindMixed
	KindInt
	KindDouble
	KindDate
	KindString
	KindBool
)

var kindNames = map[Kind]string{
	KindUndefined: "undefined",
	KindMixed:     "mixed",
	KindInt:       "int",
	KindDouble:    "double",
	KindDate:      "date",
	KindString:    "string",
	KindBool:      "bool",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Class is the distance-capability classification of a column.
type Class int

const (
	ClassUndefined Class = iota
	ClassMixed
	ClassMetrizable
	ClassNonMetrizable
)

// Classification pairs a Class with the column Kind it was derived from.
type Classification struct {
	Class Class
	Kind  Kind
}

// IsMetrizable reports whether the column has a distance function.
func (c Classification) IsMetrizable() bool {
	return c.Class == ClassMetrizable
}

func (c Classification) String() string {
	switch c.Class {
	case ClassUndefined:
		return "undefined"
	case ClassMixed:
		return "mixed"
	case ClassMetrizable:
		return "metrizable(" + c.Kind.String() + ")"
	case ClassNonMetrizable:
		return "non-metrizable(" + c.Kind.String() + ")"
	default:
		return fmt.Sprintf("class(%d)", int(c.Class))
	}
}

func classify(k Kind) Classification {
	switch k {
	case KindUndefined:
		return Classification{Class: ClassUndefined, Kind: k}
	case KindMixed:
		return Classification{Class: ClassMixed, Kind: k}
	case KindInt, KindDouble, KindDate, KindString:
		return Classification{Class: ClassMetrizable, Kind: k}
	default:
		return Classification{Class: ClassNonMetrizable, Kind: k}
	}
}

// CellState distinguishes real values from absent ones.
type CellState int

const (
	Present CellState = iota
	Null
	Empty
)

// Cell is one stored value. Value holds the parsed representation of a present
// cell (int64, float64, time.Time, string or bool) and is nil otherwise.
type Cell struct {
	Raw   string
	State CellState
	Value any
}
