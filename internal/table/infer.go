package table

import (
	"strconv"
	"strings"
	"time"
)

// DateLayout is the only date format recognised by inference.
const DateLayout = "2006-01-02"

// inferCell parses one present raw value into its most specific kind.
func inferCell(raw string) (Kind, any) {
	if v, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return KindInt, v
	}
	if looksNumeric(raw) {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			return KindDouble, v
		}
	}
	if v, err := time.Parse(DateLayout, raw); err == nil {
		return KindDate, v
	}
	if strings.EqualFold(raw, "true") {
		return KindBool, true
	}
	if strings.EqualFold(raw, "false") {
		return KindBool, false
	}
	return KindString, raw
}

// looksNumeric keeps words such as "nan" or "infinity" out of numeric columns
// while still accepting signed forms like "+Inf".
func looksNumeric(raw string) bool {
	if raw == "" {
		return false
	}
	switch c := raw[0]; {
	case c >= '0' && c <= '9', c == '.', c == '-', c == '+':
		return true
	}
	return false
}

// unify folds the kind of one more present cell into the running column kind.
func unify(column, cell Kind) Kind {
	switch {
	case column == KindUndefined:
		return cell
	case column == cell:
		return column
	case column == KindMixed:
		return KindMixed
	case isNumeric(column) && isNumeric(cell):
		return KindDouble
	default:
		return KindMixed
	}
}

func isNumeric(k Kind) bool {
	return k == KindInt || k == KindDouble
}

// inferColumn assigns a kind to the column and normalises present values to it.
func inferColumn(cells []Cell) Kind {
	kind := KindUndefined
	kinds := make([]Kind, len(cells))
	for i := range cells {
		if cells[i].State != Present {
			continue
		}
		k, v := inferCell(cells[i].Raw)
		kinds[i] = k
		cells[i].Value = v
		kind = unify(kind, k)
	}

	if kind == KindDouble {
		for i := range cells {
			if kinds[i] == KindInt {
				cells[i].Value = float64(cells[i].Value.(int64))
			}
		}
	}
	return kind
}
