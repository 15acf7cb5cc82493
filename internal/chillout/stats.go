package chillout

import (
	"math"
	"sort"
)

// StatsFilter narrows a statistics computation. Empty fields match
// everything; dates are inclusive bounds on the record keys.
type StatsFilter struct {
	Klas      string
	StudentID string
	DateFrom  string
	DateTo    string
}

// HourStat is the accumulated count for one class hour.
type HourStat struct {
	Hour  int `json:"hour"`
	Total int `json:"total"`
	VR    int `json:"vr"`
	VL    int `json:"vl"`
}

// KlasStat is a klas's share of the filtered total.
type KlasStat struct {
	Klas       string `json:"klas"`
	Total      int    `json:"total"`
	VR         int    `json:"vr"`
	VL         int    `json:"vl"`
	Percentage int    `json:"percentage"`
}

// StudentStat is one student's accumulated counts.
type StudentStat struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Klas  string `json:"klas"`
	Total int    `json:"total"`
	VR    int    `json:"vr"`
	VL    int    `json:"vl"`
}

// DayStat is the accumulated count for one record date.
type DayStat struct {
	Date  string `json:"date"`
	Total int    `json:"total"`
	VR    int    `json:"vr"`
	VL    int    `json:"vl"`
}

// Stats is the full statistics report.
type Stats struct {
	Total     int           `json:"total"`
	VR        int           `json:"vr"`
	VL        int           `json:"vl"`
	Generic   int           `json:"generic"`
	ByHour    []HourStat    `json:"by_hour"`
	ByKlas    []KlasStat    `json:"by_klas"`
	ByStudent []StudentStat `json:"by_student"`
	ByDay     []DayStat     `json:"by_day"`
}

// ComputeStats accumulates every record that survives the filter.
// Inactive students and students outside the klas/student filter are
// ignored entirely; the per-student breakdown additionally hides rows
// without a single chill-out. ByKlas is ordered by descending total,
// ByStudent by klas then name, ByDay by date.
func ComputeStats(records map[string]RecordEntries, roster []RosterStudent, filter StatsFilter) Stats {
	students := make(map[string]RosterStudent, len(roster))
	for _, s := range roster {
		if !s.Active {
			continue
		}
		if filter.Klas != "" && s.Klas != filter.Klas {
			continue
		}
		if filter.StudentID != "" && s.ID != filter.StudentID {
			continue
		}
		students[s.ID] = s
	}

	stats := Stats{}
	byHour := make(map[int]*HourStat, LastHour)
	for hour := FirstHour; hour <= LastHour; hour++ {
		byHour[hour] = &HourStat{Hour: hour}
	}
	byKlas := make(map[string]*KlasStat)
	byStudent := make(map[string]*StudentStat)
	byDay := make(map[string]*DayStat)

	for date, rec := range records {
		if filter.DateFrom != "" && date < filter.DateFrom {
			continue
		}
		if filter.DateTo != "" && date > filter.DateTo {
			continue
		}

		for studentID, hours := range rec {
			student, ok := students[studentID]
			if !ok {
				continue
			}

			for hour, list := range hours {
				if hour < FirstHour || hour > LastHour {
					continue
				}
				for _, e := range list {
					stats.Total += e.Count
					isVR := e.Type != nil && *e.Type == CategoryVR
					isVL := e.Type != nil && *e.Type == CategoryVL
					if isVR {
						stats.VR += e.Count
					}
					if isVL {
						stats.VL += e.Count
					}

					accumulate := func(total, vr, vl *int) {
						*total += e.Count
						if isVR {
							*vr += e.Count
						}
						if isVL {
							*vl += e.Count
						}
					}

					h := byHour[hour]
					accumulate(&h.Total, &h.VR, &h.VL)

					k, ok := byKlas[student.Klas]
					if !ok {
						k = &KlasStat{Klas: student.Klas}
						byKlas[student.Klas] = k
					}
					accumulate(&k.Total, &k.VR, &k.VL)

					s, ok := byStudent[studentID]
					if !ok {
						s = &StudentStat{ID: student.ID, Name: student.Name, Klas: student.Klas}
						byStudent[studentID] = s
					}
					accumulate(&s.Total, &s.VR, &s.VL)

					d, ok := byDay[date]
					if !ok {
						d = &DayStat{Date: date}
						byDay[date] = d
					}
					accumulate(&d.Total, &d.VR, &d.VL)
				}
			}
		}
	}

	stats.Generic = stats.Total - stats.VR - stats.VL

	stats.ByHour = make([]HourStat, 0, LastHour)
	for hour := FirstHour; hour <= LastHour; hour++ {
		stats.ByHour = append(stats.ByHour, *byHour[hour])
	}

	divisor := stats.Total
	if divisor == 0 {
		divisor = 1
	}
	stats.ByKlas = make([]KlasStat, 0, len(byKlas))
	for _, k := range byKlas {
		k.Percentage = int(math.Round(float64(k.Total) * 100 / float64(divisor)))
		stats.ByKlas = append(stats.ByKlas, *k)
	}
	sort.Slice(stats.ByKlas, func(i, j int) bool {
		if stats.ByKlas[i].Total != stats.ByKlas[j].Total {
			return stats.ByKlas[i].Total > stats.ByKlas[j].Total
		}
		return stats.ByKlas[i].Klas < stats.ByKlas[j].Klas
	})

	stats.ByStudent = make([]StudentStat, 0, len(byStudent))
	for _, s := range byStudent {
		if s.Total == 0 {
			continue
		}
		stats.ByStudent = append(stats.ByStudent, *s)
	}
	sort.Slice(stats.ByStudent, func(i, j int) bool {
		a, b := stats.ByStudent[i], stats.ByStudent[j]
		if a.Klas != b.Klas {
			return a.Klas < b.Klas
		}
		return a.Name < b.Name
	})

	stats.ByDay = make([]DayStat, 0, len(byDay))
	for _, d := range byDay {
		stats.ByDay = append(stats.ByDay, *d)
	}
	sort.Slice(stats.ByDay, func(i, j int) bool {
		return stats.ByDay[i].Date < stats.ByDay[j].Date
	})

	return stats
}
