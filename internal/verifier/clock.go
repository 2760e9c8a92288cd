package verifier

import "time"

// Clock supplies wall time for timing instrumentation only.
// Timing never influences a Report.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }
