package todo

import "time"

// NextOccurrence returns the date after from according to rule.
// The second return is false when the rule is disabled, invalid, or the
// next date falls after the rule's end date.
func NextOccurrence(from time.Time, rule *RepeatRule) (time.Time, bool) {
	if rule == nil || !rule.IsEnabled || ValidateRepeatRule(rule) != nil {
		return time.Time{}, false
	}

	var next time.Time
	switch rule.Type {
	case RepeatDaily:
		next = from.AddDate(0, 0, rule.Interval)
	case RepeatWeekly:
		next = from.AddDate(0, 0, 7*rule.Interval)
	case RepeatMonthly:
		next = from.AddDate(0, rule.Interval, 0)
	case RepeatYearly:
		next = from.AddDate(rule.Interval, 0, 0)
	}

	if rule.EndDate != nil && next.After(*rule.EndDate) {
		return time.Time{}, false
	}
	return next, true
}
