package chillout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregateDaily(t *testing.T) {
	entries := RecordEntries{
		"s1": {
			1: HourEntries{{Count: 1, Type: catPtr(CategoryVR)}, {Count: 1, Type: nil}},
			3: HourEntries{{Count: 1, Type: catPtr(CategoryVL)}},
		},
		"s2": {
			1: HourEntries{{Count: 1, Type: catPtr(CategoryVR)}},
		},
	}

	totals := AggregateDaily(entries)

	assert.Equal(t, 3, totals.Totals[1])
	assert.Equal(t, 2, totals.VR[1])
	assert.Equal(t, 0, totals.VL[1])
	assert.Equal(t, 1, totals.Totals[3])
	assert.Equal(t, 1, totals.VL[3])
}

func TestAggregateDailyEmptyRecord(t *testing.T) {
	totals := AggregateDaily(nil)

	require.Len(t, totals.Totals, LastHour)
	for hour := FirstHour; hour <= LastHour; hour++ {
		assert.Equal(t, 0, totals.Totals[hour])
		assert.Equal(t, 0, totals.VR[hour])
		assert.Equal(t, 0, totals.VL[hour])
	}
}

func TestAggregateDailyIgnoresOutOfRangeHours(t *testing.T) {
	entries := RecordEntries{
		"s1": {9: HourEntries{{Count: 1, Type: nil}}},
	}

	totals := AggregateDaily(entries)
	for hour := FirstHour; hour <= LastHour; hour++ {
		assert.Equal(t, 0, totals.Totals[hour])
	}
}
