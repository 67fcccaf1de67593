package todo

import (
	"time"

	"github.com/amonks/quadrant/internal/ids"
)

// GenerateID creates a unique 8-character ID for a new record.
// Two calls with the same title and timestamp still differ.
func GenerateID(title string, timestamp time.Time) string {
	return ids.New(title, timestamp)
}
