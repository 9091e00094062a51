package utils

import "time"

// WeekStart returns the Monday on or before the given date, truncated to
// midnight in the date's location.
func WeekStart(date time.Time) time.Time {
	day := DateOnly(date)
	offset := int(day.Weekday()) - int(time.Monday)
	if offset < 0 {
		offset += 7
	}
	return day.AddDate(0, 0, -offset)
}

// MonthStart returns the first day of the date's month.
func MonthStart(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), 1, 0, 0, 0, 0, date.Location())
}

// DateOnly truncates a time to midnight.
func DateOnly(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
}
