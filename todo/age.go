package todo

import (
	"time"

	internalage "github.com/amonks/quadrant/internal/age"
)

// AgeData computes the display age and whether timing data exists.
func AgeData(item Todo, now time.Time) (time.Duration, bool) {
	return internalage.AgeData(item.CreatedAt, now)
}

// TimeRemaining returns how long until the todo is due. The second return
// is false when there is no due date or it has passed.
func TimeRemaining(item Todo, now time.Time) (time.Duration, bool) {
	if item.DueDate == nil {
		return 0, false
	}
	return internalage.Remaining(*item.DueDate, now)
}
