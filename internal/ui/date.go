package ui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidDate is returned when a date argument cannot be parsed.
var ErrInvalidDate = errors.New("invalid date")

var dateLayouts = []string{
	time.RFC3339,
	DateLayout,
	"2006-01-02T15:04",
}

// ParseDate reads a due date typed by a user. It accepts RFC 3339,
// "YYYY-MM-DD HH:MM", a bare "YYYY-MM-DD" (end of that day), "today",
// "tomorrow", and offsets from now such as "+90m", "+2h" or "+3d". Empty
// input and "none" return nil.
func ParseDate(input string, now time.Time) (*time.Time, error) {
	value := strings.ToLower(strings.TrimSpace(input))
	switch value {
	case "", "none":
		return nil, nil
	case "today":
		return endOfDay(now), nil
	case "tomorrow":
		return endOfDay(now.AddDate(0, 0, 1)), nil
	}

	if strings.HasPrefix(value, "+") {
		return parseOffset(value[1:], now, input)
	}

	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, strings.TrimSpace(input), now.Location()); err == nil {
			return &t, nil
		}
	}
	if day, err := time.ParseInLocation("2006-01-02", value, now.Location()); err == nil {
		return endOfDay(day), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrInvalidDate, input)
}

func parseOffset(value string, now time.Time, input string) (*time.Time, error) {
	if days, ok := strings.CutSuffix(value, "d"); ok {
		n, err := strconv.Atoi(days)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("%w: %q", ErrInvalidDate, input)
		}
		t := now.AddDate(0, 0, n)
		return &t, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil || d < 0 {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDate, input)
	}
	t := now.Add(d)
	return &t, nil
}

func endOfDay(t time.Time) *time.Time {
	y, m, d := t.Date()
	end := time.Date(y, m, d, 23, 59, 0, 0, t.Location())
	return &end
}
