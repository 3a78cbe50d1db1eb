// Package loyalty derives a member's free-session eligibility from the
// completed-session counter.  The values here are pure computations:
// nothing is stored, and callers must recompute on every read because
// the counter can change between reads within one request flow.
package loyalty

// DefaultCycle is the club's standing offer: every 10th session is free.
const DefaultCycle = 10

// CycleProgress returns the position inside the current loyalty cycle,
// in the range [0, cycle).
func CycleProgress(completed, cycle int) int {
	if cycle <= 0 {
		cycle = DefaultCycle
	}
	if completed < 0 {
		return 0
	}
	return completed % cycle
}

// IsFreeEligible reports whether the member's next claim is the free
// one, i.e. they sit on the last position of the cycle.
func IsFreeEligible(completed, cycle int) bool {
	if cycle <= 0 {
		cycle = DefaultCycle
	}
	return CycleProgress(completed, cycle) == cycle-1
}
