package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/chillouts/beheer-api/internal/models"
)

// AuditRepository persists the audit trail.
type AuditRepository struct {
	db *sqlx.DB
}

// NewAuditRepository constructs an AuditRepository.
func NewAuditRepository(db *sqlx.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

const auditColumns = "id, user_id, username, action, resource, resource_id, old_values, new_values, reverted, reverted_at, created_at"

// Insert stores an audit log entry.
func (r *AuditRepository) Insert(ctx context.Context, log *models.AuditLog) error {
	if log.ID == "" {
		log.ID = uuid.NewString()
	}
	if log.CreatedAt.IsZero() {
		log.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO audit_logs (id, user_id, username, action, resource, resource_id, old_values, new_values, reverted, created_at)
        VALUES (:id, :user_id, :username, :action, :resource, :resource_id, :old_values, :new_values, :reverted, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, log); err != nil {
		return fmt.Errorf("insert audit log: %w", err)
	}
	return nil
}

// FindByID loads one audit log entry.
func (r *AuditRepository) FindByID(ctx context.Context, id string) (*models.AuditLog, error) {
	query := fmt.Sprintf("SELECT %s FROM audit_logs WHERE id = $1 LIMIT 1", auditColumns)
	var log models.AuditLog
	if err := r.db.GetContext(ctx, &log, query, id); err != nil {
		return nil, err
	}
	return &log, nil
}

// List returns audit entries, newest first.
func (r *AuditRepository) List(ctx context.Context, filter models.AuditFilter) ([]models.AuditLog, error) {
	conditions := []string{"1=1"}
	args := []interface{}{}

	if filter.Resource != "" {
		conditions = append(conditions, fmt.Sprintf("resource = $%d", len(args)+1))
		args = append(args, filter.Resource)
	}
	if filter.Action != "" {
		conditions = append(conditions, fmt.Sprintf("action = $%d", len(args)+1))
		args = append(args, filter.Action)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}

	query := fmt.Sprintf("SELECT %s FROM audit_logs WHERE %s ORDER BY created_at DESC LIMIT %d",
		auditColumns, strings.Join(conditions, " AND "), limit)

	var logs []models.AuditLog
	if err := r.db.SelectContext(ctx, &logs, query, args...); err != nil {
		return nil, fmt.Errorf("list audit logs: %w", err)
	}
	return logs, nil
}

// MarkReverted flags an entry as reverted.
func (r *AuditRepository) MarkReverted(ctx context.Context, id string, at time.Time) error {
	const query = `UPDATE audit_logs SET reverted = true, reverted_at = $2 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, at); err != nil {
		return fmt.Errorf("mark audit reverted: %w", err)
	}
	return nil
}
