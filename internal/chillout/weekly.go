package chillout

import (
	"sort"
	"time"
)

// RosterStudent is the slice of student state the aggregators need.
type RosterStudent struct {
	ID     string
	Name   string
	Klas   string
	Active bool
}

// DayCell is one cell in a weekly overview table.
type DayCell struct {
	Total int `json:"total"`
	VR    int `json:"vr"`
	VL    int `json:"vl"`
}

func (c *DayCell) add(e Entry) {
	c.Total += e.Count
	if e.Type == nil {
		return
	}
	switch *e.Type {
	case CategoryVR:
		c.VR += e.Count
	case CategoryVL:
		c.VL += e.Count
	}
}

// WeeklyTotals is the per-klas weekly overview: rows are klassen,
// columns the five school days.
type WeeklyTotals struct {
	WeekNumber int                           `json:"week_number"`
	StartDate  string                        `json:"start_date"`
	Dates      []string                      `json:"dates"`
	Klassen    []string                      `json:"klassen"`
	PerKlas    map[string]map[string]DayCell `json:"per_klas"`
}

// StudentWeek is one row of the per-student weekly overview.
type StudentWeek struct {
	ID    string             `json:"id"`
	Name  string             `json:"name"`
	Klas  string             `json:"klas"`
	Days  map[string]DayCell `json:"days"`
	Total DayCell            `json:"total"`
}

// WeeklyStudentTotals is the weekly overview broken down per student.
type WeeklyStudentTotals struct {
	WeekNumber int           `json:"week_number"`
	StartDate  string        `json:"start_date"`
	Dates      []string      `json:"dates"`
	Students   []StudentWeek `json:"students"`
}

// AggregateWeekly reduces the five school days starting at start to
// per-klas totals. Records are keyed by date; days without a record
// contribute zeroes. The klas set is derived from the roster, so a
// klas with no chill-outs still shows an all-zero row.
func AggregateWeekly(weekNumber int, start time.Time, records map[string]RecordEntries, roster []RosterStudent) WeeklyTotals {
	result := WeeklyTotals{
		WeekNumber: weekNumber,
		StartDate:  FormatDate(start),
		Dates:      weekDates(start),
		Klassen:    distinctKlassen(roster),
		PerKlas:    make(map[string]map[string]DayCell),
	}

	klasOf := make(map[string]string, len(roster))
	for _, s := range roster {
		klasOf[s.ID] = s.Klas
	}

	for _, klas := range result.Klassen {
		row := make(map[string]DayCell, SchoolWeekDays)
		for _, label := range Weekdays {
			row[label] = DayCell{}
		}
		result.PerKlas[klas] = row
	}

	for i, label := range Weekdays {
		rec := records[result.Dates[i]]
		for studentID, hours := range rec {
			klas, known := klasOf[studentID]
			if !known {
				continue
			}
			cell := result.PerKlas[klas][label]
			for _, list := range hours {
				for _, e := range list {
					cell.add(e)
				}
			}
			result.PerKlas[klas][label] = cell
		}
	}

	return result
}

// AggregateWeeklyByStudent performs the same weekly reduction keyed by
// student. Summing the rows of one klas reproduces that klas's row in
// AggregateWeekly.
func AggregateWeeklyByStudent(weekNumber int, start time.Time, records map[string]RecordEntries, roster []RosterStudent) WeeklyStudentTotals {
	result := WeeklyStudentTotals{
		WeekNumber: weekNumber,
		StartDate:  FormatDate(start),
		Dates:      weekDates(start),
	}

	rows := make(map[string]*StudentWeek, len(roster))
	for _, s := range roster {
		row := &StudentWeek{ID: s.ID, Name: s.Name, Klas: s.Klas, Days: make(map[string]DayCell, SchoolWeekDays)}
		for _, label := range Weekdays {
			row.Days[label] = DayCell{}
		}
		rows[s.ID] = row
	}

	for i, label := range Weekdays {
		rec := records[result.Dates[i]]
		for studentID, hours := range rec {
			row, known := rows[studentID]
			if !known {
				continue
			}
			cell := row.Days[label]
			for _, list := range hours {
				for _, e := range list {
					cell.add(e)
					row.Total.add(e)
				}
			}
			row.Days[label] = cell
		}
	}

	result.Students = make([]StudentWeek, 0, len(rows))
	for _, row := range rows {
		result.Students = append(result.Students, *row)
	}
	sort.Slice(result.Students, func(i, j int) bool {
		a, b := result.Students[i], result.Students[j]
		if a.Klas != b.Klas {
			return a.Klas < b.Klas
		}
		return a.Name < b.Name
	})

	return result
}

func weekDates(start time.Time) []string {
	dates := make([]string, SchoolWeekDays)
	for i := 0; i < SchoolWeekDays; i++ {
		dates[i] = FormatDate(start.AddDate(0, 0, i))
	}
	return dates
}

func distinctKlassen(roster []RosterStudent) []string {
	seen := make(map[string]struct{})
	var klassen []string
	for _, s := range roster {
		if s.Klas == "" {
			continue
		}
		if _, ok := seen[s.Klas]; ok {
			continue
		}
		seen[s.Klas] = struct{}{}
		klassen = append(klassen, s.Klas)
	}
	sort.Strings(klassen)
	return klassen
}
