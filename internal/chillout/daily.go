package chillout

// DailyTotals aggregates one day's entries per class hour. Generic
// entries count towards Totals only.
type DailyTotals struct {
	Totals map[int]int `json:"totals"`
	VR     map[int]int `json:"vr"`
	VL     map[int]int `json:"vl"`
}

// AggregateDaily reduces a day's entry map to per-hour counters. Every
// hour of the school day appears in the result, zero when empty.
func AggregateDaily(entries RecordEntries) DailyTotals {
	totals := DailyTotals{
		Totals: make(map[int]int, LastHour),
		VR:     make(map[int]int, LastHour),
		VL:     make(map[int]int, LastHour),
	}
	for hour := FirstHour; hour <= LastHour; hour++ {
		totals.Totals[hour] = 0
		totals.VR[hour] = 0
		totals.VL[hour] = 0
	}

	for _, hours := range entries {
		for hour, list := range hours {
			if hour < FirstHour || hour > LastHour {
				continue
			}
			for _, e := range list {
				totals.Totals[hour] += e.Count
				if e.Type == nil {
					continue
				}
				switch *e.Type {
				case CategoryVR:
					totals.VR[hour] += e.Count
				case CategoryVL:
					totals.VL[hour] += e.Count
				}
			}
		}
	}

	return totals
}
