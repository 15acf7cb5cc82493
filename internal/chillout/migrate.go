package chillout

// StudentHours maps class hour (1..7) to the entries collected there.
type StudentHours map[int]HourEntries

// RecordEntries maps student ID to their hours for one day.
type RecordEntries map[string]StudentHours

// MigrateEntries normalises a day's entry map: nil hour lists become
// empty lists, hours outside the school day are dropped and multi-count
// elements are flattened to one element per chill-out. The JSON codec
// already expands the legacy object shape, so applying this twice is a
// no-op.
func MigrateEntries(raw RecordEntries) RecordEntries {
	if raw == nil {
		return RecordEntries{}
	}

	migrated := make(RecordEntries, len(raw))
	for studentID, hours := range raw {
		cleaned := make(StudentHours, len(hours))
		for hour, entries := range hours {
			if hour < FirstHour || hour > LastHour {
				continue
			}
			cleaned[hour] = flattenEntries(entries)
		}
		migrated[studentID] = cleaned
	}
	return migrated
}

// flattenEntries expands entries so that every element counts exactly
// one chill-out. Array data written by older clients may carry a count
// above one in a single element; the per-hour cap arithmetic relies on
// the one-element-per-chill-out shape. Non-positive counts disappear.
func flattenEntries(entries HourEntries) HourEntries {
	flat := make(HourEntries, 0, len(entries))
	for _, e := range entries {
		for i := 0; i < e.Count; i++ {
			flat = append(flat, Entry{Count: 1, Type: copyCategory(e.Type)})
		}
	}
	return flat
}

// CloneEntries deep-copies a day's entry map so callers can modify the
// result without aliasing stored state.
func CloneEntries(src RecordEntries) RecordEntries {
	if src == nil {
		return RecordEntries{}
	}

	dst := make(RecordEntries, len(src))
	for studentID, hours := range src {
		hoursCopy := make(StudentHours, len(hours))
		for hour, entries := range hours {
			entriesCopy := make(HourEntries, len(entries))
			copy(entriesCopy, entries)
			hoursCopy[hour] = entriesCopy
		}
		dst[studentID] = hoursCopy
	}
	return dst
}
