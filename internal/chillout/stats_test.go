package chillout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func statsFixture() (map[string]RecordEntries, []RosterStudent) {
	records := map[string]RecordEntries{
		"2025-03-03": {
			"s1": {1: HourEntries{{Count: 1, Type: catPtr(CategoryVR)}, {Count: 1, Type: nil}}},
			"s2": {2: HourEntries{{Count: 1, Type: catPtr(CategoryVL)}}},
		},
		"2025-03-04": {
			"s1": {1: HourEntries{{Count: 1, Type: nil}}},
			"s3": {3: HourEntries{{Count: 1, Type: nil}}},
			"s4": {3: HourEntries{{Count: 1, Type: nil}}},
		},
	}
	roster := []RosterStudent{
		{ID: "s1", Name: "Anna", Klas: "1A", Active: true},
		{ID: "s2", Name: "Bram", Klas: "1A", Active: true},
		{ID: "s3", Name: "Chris", Klas: "2B", Active: false},
		{ID: "s4", Name: "Dana", Klas: "2B", Active: true},
	}
	return records, roster
}

func TestComputeStatsTotals(t *testing.T) {
	records, roster := statsFixture()
	stats := ComputeStats(records, roster, StatsFilter{})

	assert.Equal(t, 5, stats.Total)
	assert.Equal(t, 1, stats.VR)
	assert.Equal(t, 1, stats.VL)
	assert.Equal(t, 3, stats.Generic)

	require.Len(t, stats.ByHour, LastHour)
	assert.Equal(t, HourStat{Hour: 1, Total: 3, VR: 1}, stats.ByHour[0])
	assert.Equal(t, HourStat{Hour: 2, Total: 1, VL: 1}, stats.ByHour[1])
}

func TestComputeStatsByKlasOrderingAndPercentage(t *testing.T) {
	records, roster := statsFixture()
	stats := ComputeStats(records, roster, StatsFilter{})

	require.Len(t, stats.ByKlas, 2)
	assert.Equal(t, "1A", stats.ByKlas[0].Klas)
	assert.Equal(t, 4, stats.ByKlas[0].Total)
	assert.Equal(t, 80, stats.ByKlas[0].Percentage)
	assert.Equal(t, "2B", stats.ByKlas[1].Klas)
	assert.Equal(t, 20, stats.ByKlas[1].Percentage)
}

func TestComputeStatsExcludesInactiveStudents(t *testing.T) {
	records, roster := statsFixture()
	stats := ComputeStats(records, roster, StatsFilter{})

	// Chris is inactive; only Dana counts toward hour 3 and klas 2B.
	assert.Equal(t, HourStat{Hour: 3, Total: 1}, stats.ByHour[2])
	assert.Equal(t, 1, stats.ByKlas[1].Total)
	for _, s := range stats.ByStudent {
		assert.NotEqual(t, "s3", s.ID)
	}

	// A roster of only inactive students yields an empty report.
	stats = ComputeStats(records, []RosterStudent{
		{ID: "s3", Name: "Chris", Klas: "2B", Active: false},
	}, StatsFilter{})
	assert.Equal(t, 0, stats.Total)
	assert.Empty(t, stats.ByKlas)
	assert.Empty(t, stats.ByStudent)
	assert.Empty(t, stats.ByDay)
}

func TestComputeStatsByStudentOrdering(t *testing.T) {
	records, roster := statsFixture()
	stats := ComputeStats(records, roster, StatsFilter{})

	require.Len(t, stats.ByStudent, 3)
	assert.Equal(t, "Anna", stats.ByStudent[0].Name)
	assert.Equal(t, 3, stats.ByStudent[0].Total)
	assert.Equal(t, "Bram", stats.ByStudent[1].Name)
	assert.Equal(t, "Dana", stats.ByStudent[2].Name)
}

func TestComputeStatsDateFilterInclusive(t *testing.T) {
	records, roster := statsFixture()

	stats := ComputeStats(records, roster, StatsFilter{DateFrom: "2025-03-04", DateTo: "2025-03-04"})
	assert.Equal(t, 2, stats.Total)
	require.Len(t, stats.ByDay, 1)
	assert.Equal(t, "2025-03-04", stats.ByDay[0].Date)

	stats = ComputeStats(records, roster, StatsFilter{DateTo: "2025-03-02"})
	assert.Equal(t, 0, stats.Total)
	assert.Empty(t, stats.ByKlas)
}

func TestComputeStatsKlasAndStudentFilter(t *testing.T) {
	records, roster := statsFixture()

	stats := ComputeStats(records, roster, StatsFilter{Klas: "2B"})
	assert.Equal(t, 1, stats.Total)
	assert.Equal(t, 100, stats.ByKlas[0].Percentage)
	require.Len(t, stats.ByStudent, 1)
	assert.Equal(t, "Dana", stats.ByStudent[0].Name)

	stats = ComputeStats(records, roster, StatsFilter{StudentID: "s2"})
	assert.Equal(t, 1, stats.Total)
	require.Len(t, stats.ByStudent, 1)
	assert.Equal(t, "Bram", stats.ByStudent[0].Name)
}

func TestComputeStatsByDayOrdered(t *testing.T) {
	records, roster := statsFixture()
	stats := ComputeStats(records, roster, StatsFilter{})

	require.Len(t, stats.ByDay, 2)
	assert.Equal(t, "2025-03-03", stats.ByDay[0].Date)
	assert.Equal(t, 3, stats.ByDay[0].Total)
	assert.Equal(t, "2025-03-04", stats.ByDay[1].Date)
	assert.Equal(t, 2, stats.ByDay[1].Total)
}

func TestComputeStatsEmptyIsSafe(t *testing.T) {
	stats := ComputeStats(nil, nil, StatsFilter{})
	assert.Equal(t, 0, stats.Total)
	assert.Empty(t, stats.ByKlas)
	assert.Empty(t, stats.ByStudent)
	require.Len(t, stats.ByHour, LastHour)
}
