package entity

import "time"

// Now returns the current instant in UTC. The lifecycle and decision
// packages never call time.Now directly; they take a Clock so cycles and
// decisions are reproducible in tests.
func Now() time.Time { return time.Now().UTC() }

// Clock supplies "now" to the lifecycle controller and decision operations.
// Both fall back to entity.Now when their Clock is nil.
type Clock func() time.Time

// DateOnly truncates t to a UTC calendar day, matching how CommuteDate is
// compared across matches (§4.5's "target commute_date").
func DateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
