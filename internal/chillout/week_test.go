package chillout

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatAndParseDate(t *testing.T) {
	day := time.Date(2025, 3, 7, 14, 30, 0, 0, time.UTC)
	assert.Equal(t, "2025-03-07", FormatDate(day))

	parsed, err := ParseDate("2025-03-07")
	require.NoError(t, err)
	assert.Equal(t, 2025, parsed.Year())
	assert.Equal(t, time.March, parsed.Month())
}

func TestDayName(t *testing.T) {
	// 2025-03-03 is a Monday.
	monday := time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "Ma", DayName(monday))
	assert.Equal(t, "Vr", DayName(monday.AddDate(0, 0, 4)))
	assert.Equal(t, "Zo", DayName(monday.AddDate(0, 0, 6)))
}

func TestWeekStart(t *testing.T) {
	wednesday := time.Date(2025, 3, 5, 11, 0, 0, 0, time.UTC)
	start := WeekStart(wednesday)
	assert.Equal(t, "2025-03-03", FormatDate(start))
	assert.Equal(t, time.Monday, start.Weekday())

	// Sunday belongs to the week that started the previous Monday.
	sunday := time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "2025-03-03", FormatDate(WeekStart(sunday)))

	monday := time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, monday, WeekStart(monday))
}

func TestWeekNumber(t *testing.T) {
	assert.Equal(t, 10, WeekNumber(time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC)))
	// Jan 1st 2027 falls in week 53 of 2026.
	assert.Equal(t, 53, WeekNumber(time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC)))
}
