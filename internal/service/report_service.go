package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/chillouts/beheer-api/internal/chillout"
	"github.com/chillouts/beheer-api/internal/models"
	appErrors "github.com/chillouts/beheer-api/pkg/errors"
)

type reportRecordRepository interface {
	GetByDate(ctx context.Context, date string) (*models.DailyRecord, error)
	ListRange(ctx context.Context, from, to string) ([]models.DailyRecord, error)
}

type rosterRepository interface {
	ListAll(ctx context.Context) ([]models.Student, error)
}

// DailyReport is the per-hour overview of one school day.
type DailyReport struct {
	Date    string               `json:"date"`
	DayName string               `json:"day_name"`
	Totals  chillout.DailyTotals `json:"totals"`
}

// ReportService computes the daily, weekly and statistics reports.
type ReportService struct {
	records  reportRecordRepository
	students rosterRepository
	cache    *CacheService
	logger   *zap.Logger
	cacheTTL time.Duration
	now      func() time.Time
}

// NewReportService constructs the report service.
func NewReportService(records reportRecordRepository, students rosterRepository, cache *CacheService, logger *zap.Logger, cacheTTL time.Duration) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportService{
		records:  records,
		students: students,
		cache:    cache,
		logger:   logger,
		cacheTTL: cacheTTL,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Daily computes the per-hour totals for one date.
func (s *ReportService) Daily(ctx context.Context, date string) (*DailyReport, error) {
	day, err := chillout.ParseDate(date)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid date")
	}

	key := "reports:daily:" + date
	var cached DailyReport
	if hit, _ := s.cache.Get(ctx, key, &cached); hit {
		return &cached, nil
	}

	record, err := s.records.GetByDate(ctx, date)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load record")
	}

	report := &DailyReport{Date: date, DayName: chillout.DayName(day)}
	if record != nil {
		report.Totals = chillout.AggregateDaily(chillout.RecordEntries(record.Entries))
		if record.DayName != "" {
			report.DayName = record.DayName
		}
	} else {
		report.Totals = chillout.AggregateDaily(nil)
	}

	_ = s.cache.Set(ctx, key, report, s.cacheTTL)
	return report, nil
}

// Weekly computes the per-klas weekly overview for the selected week.
func (s *ReportService) Weekly(ctx context.Context, q models.WeeklyQuery) (*chillout.WeeklyTotals, error) {
	start, err := s.resolveWeekStart(q)
	if err != nil {
		return nil, err
	}

	key := "reports:weekly:" + chillout.FormatDate(start)
	var cached chillout.WeeklyTotals
	if hit, _ := s.cache.Get(ctx, key, &cached); hit {
		return &cached, nil
	}

	records, roster, err := s.weekData(ctx, start)
	if err != nil {
		return nil, err
	}

	weekly := chillout.AggregateWeekly(chillout.WeekNumber(start), start, records, roster)
	_ = s.cache.Set(ctx, key, weekly, s.cacheTTL)
	return &weekly, nil
}

// WeeklyByStudent computes the weekly overview broken down per student.
func (s *ReportService) WeeklyByStudent(ctx context.Context, q models.WeeklyQuery) (*chillout.WeeklyStudentTotals, error) {
	start, err := s.resolveWeekStart(q)
	if err != nil {
		return nil, err
	}

	key := "reports:weekly-students:" + chillout.FormatDate(start)
	var cached chillout.WeeklyStudentTotals
	if hit, _ := s.cache.Get(ctx, key, &cached); hit {
		return &cached, nil
	}

	records, roster, err := s.weekData(ctx, start)
	if err != nil {
		return nil, err
	}

	weekly := chillout.AggregateWeeklyByStudent(chillout.WeekNumber(start), start, records, roster)
	_ = s.cache.Set(ctx, key, weekly, s.cacheTTL)
	return &weekly, nil
}

// Stats computes the filtered statistics report.
func (s *ReportService) Stats(ctx context.Context, q models.StatsQuery) (*chillout.Stats, error) {
	for _, date := range []string{q.DateFrom, q.DateTo} {
		if date == "" {
			continue
		}
		if _, err := chillout.ParseDate(date); err != nil {
			return nil, appErrors.Clone(appErrors.ErrValidation, "invalid date filter")
		}
	}

	key := fmt.Sprintf("reports:stats:%s:%s:%s:%s", q.Klas, q.StudentID, q.DateFrom, q.DateTo)
	var cached chillout.Stats
	if hit, _ := s.cache.Get(ctx, key, &cached); hit {
		return &cached, nil
	}

	rows, err := s.records.ListRange(ctx, q.DateFrom, q.DateTo)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load records")
	}
	students, err := s.students.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load roster")
	}

	records := make(map[string]chillout.RecordEntries, len(rows))
	for _, row := range rows {
		records[row.Date] = chillout.RecordEntries(row.Entries)
	}

	stats := chillout.ComputeStats(records, toRoster(students), chillout.StatsFilter{
		Klas:      q.Klas,
		StudentID: q.StudentID,
		DateFrom:  q.DateFrom,
		DateTo:    q.DateTo,
	})

	_ = s.cache.Set(ctx, key, stats, s.cacheTTL)
	return &stats, nil
}

func (s *ReportService) weekData(ctx context.Context, start time.Time) (map[string]chillout.RecordEntries, []chillout.RosterStudent, error) {
	from := chillout.FormatDate(start)
	to := chillout.FormatDate(start.AddDate(0, 0, chillout.SchoolWeekDays-1))

	rows, err := s.records.ListRange(ctx, from, to)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load records")
	}
	students, err := s.students.ListAll(ctx)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load roster")
	}

	records := make(map[string]chillout.RecordEntries, len(rows))
	for _, row := range rows {
		records[row.Date] = chillout.RecordEntries(row.Entries)
	}
	return records, toRoster(students), nil
}

// resolveWeekStart picks the Monday for a weekly query: an explicit
// start date wins, then an ISO year/week pair, then the current week.
func (s *ReportService) resolveWeekStart(q models.WeeklyQuery) (time.Time, error) {
	if q.StartDate != "" {
		day, err := chillout.ParseDate(q.StartDate)
		if err != nil {
			return time.Time{}, appErrors.Clone(appErrors.ErrValidation, "invalid start date")
		}
		return chillout.WeekStart(day), nil
	}
	if q.Year > 0 && q.WeekNumber > 0 {
		// January 4th always falls in ISO week 1.
		jan4 := time.Date(q.Year, time.January, 4, 0, 0, 0, 0, time.UTC)
		return chillout.WeekStart(jan4).AddDate(0, 0, (q.WeekNumber-1)*7), nil
	}
	return chillout.WeekStart(s.now()), nil
}

func toRoster(students []models.Student) []chillout.RosterStudent {
	roster := make([]chillout.RosterStudent, 0, len(students))
	for _, s := range students {
		roster = append(roster, chillout.RosterStudent{
			ID:     s.ID,
			Name:   s.Name,
			Klas:   s.Klas,
			Active: s.Active(),
		})
	}
	return roster
}
