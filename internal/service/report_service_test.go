package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chillouts/beheer-api/internal/chillout"
	"github.com/chillouts/beheer-api/internal/models"
)

type rosterRepoMock struct {
	students []models.Student
}

func (m *rosterRepoMock) ListAll(ctx context.Context) ([]models.Student, error) {
	return m.students, nil
}

func reportFixture() (*recordRepoMock, *rosterRepoMock) {
	records := &recordRepoMock{records: map[string]*models.DailyRecord{
		"2025-03-03": {
			Date:    "2025-03-03",
			DayName: "Ma",
			Entries: models.EntriesColumn{
				"s1": {1: chillout.HourEntries{{Count: 1, Type: catPtrOf(chillout.CategoryVR)}, {Count: 1}}},
			},
		},
		"2025-03-05": {
			Date:    "2025-03-05",
			DayName: "Wo",
			Entries: models.EntriesColumn{
				"s2": {3: chillout.HourEntries{{Count: 1, Type: catPtrOf(chillout.CategoryVL)}}},
			},
		},
	}}
	roster := &rosterRepoMock{students: []models.Student{
		{ID: "s1", Name: "Anna", Klas: "1A", Status: models.StudentActief},
		{ID: "s2", Name: "Bram", Klas: "2B", Status: models.StudentActief},
	}}
	return records, roster
}

func TestReportServiceDaily(t *testing.T) {
	records, roster := reportFixture()
	svc := NewReportService(records, roster, nil, nil, 0)

	report, err := svc.Daily(context.Background(), "2025-03-03")
	require.NoError(t, err)
	assert.Equal(t, "Ma", report.DayName)
	assert.Equal(t, 2, report.Totals.Totals[1])
	assert.Equal(t, 1, report.Totals.VR[1])
}

func TestReportServiceDailyWithoutRecord(t *testing.T) {
	records, roster := reportFixture()
	svc := NewReportService(records, roster, nil, nil, 0)

	report, err := svc.Daily(context.Background(), "2025-06-02")
	require.NoError(t, err)
	assert.Equal(t, "Ma", report.DayName)
	for hour := chillout.FirstHour; hour <= chillout.LastHour; hour++ {
		assert.Equal(t, 0, report.Totals.Totals[hour])
	}
}

func TestReportServiceWeeklyByStartDate(t *testing.T) {
	records, roster := reportFixture()
	svc := NewReportService(records, roster, nil, nil, 0)

	weekly, err := svc.Weekly(context.Background(), models.WeeklyQuery{StartDate: "2025-03-05"})
	require.NoError(t, err)

	// Any day inside the week snaps back to Monday.
	assert.Equal(t, "2025-03-03", weekly.StartDate)
	assert.Equal(t, 10, weekly.WeekNumber)
	assert.Equal(t, chillout.DayCell{Total: 2, VR: 1}, weekly.PerKlas["1A"]["Maandag"])
	assert.Equal(t, chillout.DayCell{Total: 1, VL: 1}, weekly.PerKlas["2B"]["Woensdag"])
}

func TestReportServiceWeeklyByWeekNumber(t *testing.T) {
	records, roster := reportFixture()
	svc := NewReportService(records, roster, nil, nil, 0)

	weekly, err := svc.Weekly(context.Background(), models.WeeklyQuery{Year: 2025, WeekNumber: 10})
	require.NoError(t, err)
	assert.Equal(t, "2025-03-03", weekly.StartDate)
}

func TestReportServiceWeeklyDefaultsToCurrentWeek(t *testing.T) {
	records, roster := reportFixture()
	svc := NewReportService(records, roster, nil, nil, 0)
	svc.now = func() time.Time { return time.Date(2025, 3, 6, 9, 0, 0, 0, time.UTC) }

	weekly, err := svc.Weekly(context.Background(), models.WeeklyQuery{})
	require.NoError(t, err)
	assert.Equal(t, "2025-03-03", weekly.StartDate)
}

func TestReportServiceWeeklyByStudent(t *testing.T) {
	records, roster := reportFixture()
	svc := NewReportService(records, roster, nil, nil, 0)

	weekly, err := svc.WeeklyByStudent(context.Background(), models.WeeklyQuery{StartDate: "2025-03-03"})
	require.NoError(t, err)
	require.Len(t, weekly.Students, 2)
	assert.Equal(t, "Anna", weekly.Students[0].Name)
	assert.Equal(t, chillout.DayCell{Total: 2, VR: 1}, weekly.Students[0].Total)
}

func TestReportServiceStats(t *testing.T) {
	records, roster := reportFixture()
	svc := NewReportService(records, roster, nil, nil, 0)

	stats, err := svc.Stats(context.Background(), models.StatsQuery{})
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 1, stats.VR)
	assert.Equal(t, 1, stats.VL)
	assert.Equal(t, 1, stats.Generic)

	stats, err = svc.Stats(context.Background(), models.StatsQuery{Klas: "1A"})
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Total)
}

func TestReportServiceStatsInvalidDate(t *testing.T) {
	records, roster := reportFixture()
	svc := NewReportService(records, roster, nil, nil, 0)

	_, err := svc.Stats(context.Background(), models.StatsQuery{DateFrom: "not-a-date"})
	require.Error(t, err)
}
