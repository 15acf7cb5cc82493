package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/chillouts/beheer-api/internal/chillout"
	"github.com/chillouts/beheer-api/internal/models"
	appErrors "github.com/chillouts/beheer-api/pkg/errors"
)

const reportsCachePattern = "reports:*"

type recordRepository interface {
	GetByDate(ctx context.Context, date string) (*models.DailyRecord, error)
	Upsert(ctx context.Context, record *models.DailyRecord) error
}

// RecordService manages the per-day chill-out records. Concurrent
// editors race on whole-day writes; the last writer wins.
type RecordService struct {
	repo      recordRepository
	audit     auditWriter
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewRecordService constructs the record service.
func NewRecordService(repo recordRepository, audit auditWriter, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *RecordService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RecordService{repo: repo, audit: audit, cache: cache, validator: validate, logger: logger}
}

// GetDay loads the record for a date. A day that has no registrations
// yet comes back as an empty record with the weekday resolved; nothing
// is persisted until the first write.
func (s *RecordService) GetDay(ctx context.Context, date string) (*models.DailyRecord, error) {
	day, err := chillout.ParseDate(date)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid date")
	}

	record, err := s.repo.GetByDate(ctx, date)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load record")
	}
	if record == nil {
		return &models.DailyRecord{
			Date:    date,
			DayName: chillout.DayName(day),
			Entries: models.EntriesColumn{},
		}, nil
	}

	if record.DayName == "" {
		record.DayName = chillout.DayName(day)
	}
	record.Entries = models.EntriesColumn(chillout.MigrateEntries(chillout.RecordEntries(record.Entries)))
	return record, nil
}

// SetEntries sets the number of entries of one category for a student
// in a class hour and persists the whole day. A request that would
// push the hour past the cap leaves the record as it was; mirroring
// the registration screen, that is not an error.
func (s *RecordService) SetEntries(ctx context.Context, date string, req models.SetEntriesRequest, actor *models.JWTClaims) (*models.DailyRecord, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid entries payload")
	}

	var cat *chillout.Category
	if req.Category != nil {
		c := chillout.Category(*req.Category)
		if !c.Valid() {
			return nil, appErrors.Clone(appErrors.ErrValidation, "unknown category")
		}
		if req.Count > 1 {
			return nil, appErrors.Clone(appErrors.ErrValidation, "tagged categories allow at most one entry")
		}
		cat = &c
	}

	record, err := s.GetDay(ctx, date)
	if err != nil {
		return nil, err
	}

	entries := chillout.CloneEntries(chillout.RecordEntries(record.Entries))
	hours := entries[req.StudentID]
	if hours == nil {
		hours = chillout.StudentHours{}
		entries[req.StudentID] = hours
	}
	before := hours[req.Hour]
	hours[req.Hour] = chillout.SetCategoryCount(before, cat, req.Count)
	record.Entries = models.EntriesColumn(entries)

	if err := s.repo.Upsert(ctx, record); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store record")
	}

	if s.audit != nil {
		log := newAuditLog(actor, models.AuditActionUpdated, models.AuditResourceRecord, record.Date,
			map[string]interface{}{"student_id": req.StudentID, "hour": req.Hour, "entries": before},
			map[string]interface{}{"student_id": req.StudentID, "hour": req.Hour, "entries": hours[req.Hour]})
		if err := s.audit.Insert(ctx, log); err != nil {
			s.logger.Warn("failed to record audit log", zap.Error(err))
		}
	}

	if err := s.cache.Invalidate(ctx, reportsCachePattern); err != nil {
		s.logger.Warn("failed to invalidate report cache", zap.Error(err))
	}

	return record, nil
}
