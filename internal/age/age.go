// Package age computes the elapsed and remaining durations shown next to todos.
package age

import "time"

// AgeData computes how long ago createdAt was and whether timing data exists.
// Future timestamps clamp to zero.
func AgeData(createdAt time.Time, now time.Time) (time.Duration, bool) {
	if createdAt.IsZero() {
		return 0, false
	}
	if createdAt.After(now) {
		return 0, true
	}
	return now.Sub(createdAt), true
}

// Remaining returns the time left until due. The second result is false when
// due is unset or already passed.
func Remaining(due time.Time, now time.Time) (time.Duration, bool) {
	if due.IsZero() {
		return 0, false
	}
	diff := due.Sub(now)
	if diff <= 0 {
		return 0, false
	}
	return diff, true
}
