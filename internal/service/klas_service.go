package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/chillouts/beheer-api/internal/models"
	appErrors "github.com/chillouts/beheer-api/pkg/errors"
)

type klasRepository interface {
	ListKlassen(ctx context.Context) ([]models.Klas, error)
	CountByKlas(ctx context.Context, klas string) (int, error)
	KlasExists(ctx context.Context, name string, exclude string) (bool, error)
	RenameKlas(ctx context.Context, from, to string) (int64, error)
}

// KlasService exposes the klas projection. Klassen only exist through
// the students that reference them; renames are bulk roster updates.
// Names that differ in whitespace or accents count as distinct.
type KlasService struct {
	repo      klasRepository
	audit     auditWriter
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewKlasService constructs the klas service.
func NewKlasService(repo klasRepository, audit auditWriter, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *KlasService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &KlasService{repo: repo, audit: audit, cache: cache, validator: validate, logger: logger}
}

// List returns the distinct klassen with student counts.
func (s *KlasService) List(ctx context.Context) ([]models.Klas, error) {
	klassen, err := s.repo.ListKlassen(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list klassen")
	}
	return klassen, nil
}

// Rename moves every student from one klas to another. The target may
// not collide case-insensitively with an existing klas, except when
// only the casing of the same klas changes.
func (s *KlasService) Rename(ctx context.Context, req models.RenameKlasRequest, actor *models.JWTClaims) (*models.Klas, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid rename payload")
	}
	if req.From == req.To {
		return nil, appErrors.Clone(appErrors.ErrValidation, "klas names are identical")
	}

	count, err := s.repo.CountByKlas(ctx, req.From)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to inspect klas")
	}
	if count == 0 {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "klas not found")
	}

	if !strings.EqualFold(req.From, req.To) {
		exists, err := s.repo.KlasExists(ctx, req.To, "")
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check klas name")
		}
		if exists {
			return nil, appErrors.Clone(appErrors.ErrConflict, "klas name already in use")
		}
	}

	moved, err := s.repo.RenameKlas(ctx, req.From, req.To)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to rename klas")
	}

	if s.audit != nil {
		log := newAuditLog(actor, models.AuditActionUpdated, models.AuditResourceKlas, req.To,
			map[string]interface{}{"name": req.From},
			map[string]interface{}{"name": req.To, "students_moved": moved})
		if err := s.audit.Insert(ctx, log); err != nil {
			s.logger.Warn("failed to record audit log", zap.Error(err))
		}
	}
	if err := s.cache.Invalidate(ctx, reportsCachePattern); err != nil {
		s.logger.Warn("failed to invalidate report cache", zap.Error(err))
	}

	return &models.Klas{Name: req.To, StudentCount: int(moved)}, nil
}

// Delete checks that no student references the klas anymore. Since a
// klas is a projection, removing the last student already removes the
// klas; this guards against deleting one that is still in use.
func (s *KlasService) Delete(ctx context.Context, name string, actor *models.JWTClaims) error {
	if name == "" {
		return appErrors.Clone(appErrors.ErrValidation, "klas name required")
	}

	count, err := s.repo.CountByKlas(ctx, name)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to inspect klas")
	}
	if count > 0 {
		return appErrors.ErrKlasNotEmpty
	}

	if s.audit != nil {
		log := newAuditLog(actor, models.AuditActionDeleted, models.AuditResourceKlas, name,
			map[string]interface{}{"name": name}, nil)
		if err := s.audit.Insert(ctx, log); err != nil {
			s.logger.Warn("failed to record audit log", zap.Error(err))
		}
	}
	return nil
}
