package chillout

import "time"

// DateLayout is the key format for daily records.
const DateLayout = "2006-01-02"

// Weekdays holds the school week labels in column order.
var Weekdays = []string{"Maandag", "Dinsdag", "Woensdag", "Donderdag", "Vrijdag"}

// shortDayNames indexes time.Weekday (Sunday first).
var shortDayNames = []string{"Zo", "Ma", "Di", "Wo", "Do", "Vr", "Za"}

// SchoolWeekDays is the number of days in a school week.
const SchoolWeekDays = 5

// FormatDate renders a time as a record date key.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseDate parses a record date key.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

// DayName returns the short Dutch weekday name for a date.
func DayName(t time.Time) string {
	return shortDayNames[int(t.Weekday())]
}

// WeekNumber returns the ISO 8601 week number of a date.
func WeekNumber(t time.Time) int {
	_, week := t.ISOWeek()
	return week
}

// WeekStart returns the Monday that opens the week containing t.
func WeekStart(t time.Time) time.Time {
	offset := (int(t.Weekday()) + 6) % 7
	start := t.AddDate(0, 0, -offset)
	return time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location())
}
