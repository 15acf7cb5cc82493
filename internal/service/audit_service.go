package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/chillouts/beheer-api/internal/models"
	appErrors "github.com/chillouts/beheer-api/pkg/errors"
)

// auditWriter is the minimal sink the mutating services log into.
type auditWriter interface {
	Insert(ctx context.Context, log *models.AuditLog) error
}

type auditRepository interface {
	auditWriter
	FindByID(ctx context.Context, id string) (*models.AuditLog, error)
	List(ctx context.Context, filter models.AuditFilter) ([]models.AuditLog, error)
	MarkReverted(ctx context.Context, id string, at time.Time) error
}

type auditStudentRepository interface {
	FindByID(ctx context.Context, id string) (*models.Student, error)
	Create(ctx context.Context, student *models.Student) error
	Update(ctx context.Context, student *models.Student) error
	Delete(ctx context.Context, id string) error
}

// AuditService lists the audit trail and reverts student mutations.
type AuditService struct {
	repo     auditRepository
	students auditStudentRepository
	logger   *zap.Logger
	maxList  int
}

// NewAuditService constructs the audit service.
func NewAuditService(repo auditRepository, students auditStudentRepository, logger *zap.Logger, maxList int) *AuditService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if maxList <= 0 {
		maxList = 200
	}
	return &AuditService{repo: repo, students: students, logger: logger, maxList: maxList}
}

// List returns audit entries, newest first.
func (s *AuditService) List(ctx context.Context, filter models.AuditFilter) ([]models.AuditLog, error) {
	if filter.Limit <= 0 || filter.Limit > s.maxList {
		filter.Limit = s.maxList
	}
	logs, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list audit logs")
	}
	return logs, nil
}

// Revert undoes a logged student mutation using the stored snapshots
// and flags the entry. An entry can be reverted once.
func (s *AuditService) Revert(ctx context.Context, id string, actor *models.JWTClaims) (*models.AuditLog, error) {
	log, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "audit entry not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load audit entry")
	}
	if log.Reverted {
		return nil, appErrors.ErrAlreadyReverted
	}
	if log.Resource != models.AuditResourceStudent {
		return nil, appErrors.Clone(appErrors.ErrValidation, "only student changes can be reverted")
	}

	switch log.Action {
	case models.AuditActionCreated:
		if log.ResourceID == nil {
			return nil, appErrors.Clone(appErrors.ErrValidation, "audit entry misses resource id")
		}
		if err := s.students.Delete(ctx, *log.ResourceID); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to revert creation")
		}
	case models.AuditActionDeleted:
		student, err := decodeStudentSnapshot(log.OldValues)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "corrupt audit snapshot")
		}
		if err := s.students.Create(ctx, student); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to restore student")
		}
	case models.AuditActionUpdated:
		student, err := decodeStudentSnapshot(log.OldValues)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "corrupt audit snapshot")
		}
		if err := s.students.Update(ctx, student); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to restore student")
		}
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "action cannot be reverted")
	}

	now := time.Now().UTC()
	if err := s.repo.MarkReverted(ctx, log.ID, now); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to flag audit entry")
	}
	log.Reverted = true
	log.RevertedAt = &now

	s.logger.Info("audit entry reverted",
		zap.String("audit_id", log.ID),
		zap.String("action", log.Action),
		zap.String("actor", actorName(actor)))

	return log, nil
}

func decodeStudentSnapshot(raw []byte) (*models.Student, error) {
	var student models.Student
	if err := json.Unmarshal(raw, &student); err != nil {
		return nil, err
	}
	return &student, nil
}

// newAuditLog assembles an audit entry with JSON snapshots. Snapshot
// marshal failures degrade to an entry without that snapshot.
func newAuditLog(actor *models.JWTClaims, action, resource string, resourceID string, oldValue, newValue interface{}) *models.AuditLog {
	log := &models.AuditLog{
		Action:   action,
		Resource: resource,
		Username: actorName(actor),
	}
	if actor != nil && actor.UserID != "" {
		id := actor.UserID
		log.UserID = &id
	}
	if resourceID != "" {
		log.ResourceID = &resourceID
	}
	if oldValue != nil {
		if data, err := json.Marshal(oldValue); err == nil {
			log.OldValues = data
		}
	}
	if newValue != nil {
		if data, err := json.Marshal(newValue); err == nil {
			log.NewValues = data
		}
	}
	return log
}

func actorName(actor *models.JWTClaims) string {
	if actor == nil {
		return "system"
	}
	if actor.Username != "" {
		return actor.Username
	}
	return actor.UserID
}
