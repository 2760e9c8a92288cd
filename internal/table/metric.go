package table

import (
	"math"
	"time"

	"github.com/agnivade/levenshtein"
	"golang.org/x/text/unicode/norm"
)

// Metric is the distance capability of a metrizable column type.
// Distance receives two parsed cell values of the column's kind.
type Metric interface {
	Distance(a, b any) float64
}

// metricFor returns the Metric for k, or nil when k has no distance.
func metricFor(k Kind) Metric {
	switch k {
	case KindInt:
		return intMetric{}
	case KindDouble:
		return doubleMetric{}
	case KindDate:
		return dateMetric{}
	case KindString:
		return stringMetric{}
	default:
		return nil
	}
}

type intMetric struct{}

// Distance is exact for the full int64 range.
func (intMetric) Distance(a, b any) float64 {
	x, y := a.(int64), b.(int64)
	if x < y {
		x, y = y, x
	}
	return float64(uint64(x) - uint64(y))
}

type doubleMetric struct{}

func (doubleMetric) Distance(a, b any) float64 {
	return math.Abs(a.(float64) - b.(float64))
}

type dateMetric struct{}

const secondsPerDay = 24 * 60 * 60

// Distance counts whole days between two dates. Unix seconds are used instead
// of time.Duration, which saturates after roughly 292 years.
func (dateMetric) Distance(a, b any) float64 {
	d := a.(time.Time).Unix() - b.(time.Time).Unix()
	if d < 0 {
		d = -d
	}
	return float64(d / secondsPerDay)
}

type stringMetric struct{}

// Distance is the Levenshtein distance between the NFC forms of both strings,
// counted in runes.
func (stringMetric) Distance(a, b any) float64 {
	return float64(levenshtein.ComputeDistance(norm.NFC.String(a.(string)), norm.NFC.String(b.(string))))
}
