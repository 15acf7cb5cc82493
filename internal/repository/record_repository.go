package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/chillouts/beheer-api/internal/models"
)

// RecordRepository persists daily chill-out records keyed by date.
type RecordRepository struct {
	db *sqlx.DB
}

// NewRecordRepository constructs a RecordRepository.
func NewRecordRepository(db *sqlx.DB) *RecordRepository {
	return &RecordRepository{db: db}
}

// GetByDate loads the record for a date. A day without registrations
// returns nil without error.
func (r *RecordRepository) GetByDate(ctx context.Context, date string) (*models.DailyRecord, error) {
	const query = `SELECT date, day_name, entries, created_at, updated_at FROM daily_records WHERE date = $1 LIMIT 1`
	var record models.DailyRecord
	if err := r.db.GetContext(ctx, &record, query, date); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get record %s: %w", date, err)
	}
	return &record, nil
}

// Upsert stores a full record, replacing any existing row for the date.
func (r *RecordRepository) Upsert(ctx context.Context, record *models.DailyRecord) error {
	now := time.Now().UTC()
	if record.CreatedAt.IsZero() {
		record.CreatedAt = now
	}
	record.UpdatedAt = now
	const query = `INSERT INTO daily_records (date, day_name, entries, created_at, updated_at)
        VALUES (:date, :day_name, :entries, :created_at, :updated_at)
        ON CONFLICT (date) DO UPDATE SET day_name = EXCLUDED.day_name, entries = EXCLUDED.entries, updated_at = EXCLUDED.updated_at`
	if _, err := r.db.NamedExecContext(ctx, query, record); err != nil {
		return fmt.Errorf("upsert record %s: %w", record.Date, err)
	}
	return nil
}

// ListRange returns the records within the inclusive date range,
// ordered by date. Empty bounds are open.
func (r *RecordRepository) ListRange(ctx context.Context, from, to string) ([]models.DailyRecord, error) {
	query := "SELECT date, day_name, entries, created_at, updated_at FROM daily_records WHERE 1=1"
	args := []interface{}{}
	if from != "" {
		args = append(args, from)
		query += fmt.Sprintf(" AND date >= $%d", len(args))
	}
	if to != "" {
		args = append(args, to)
		query += fmt.Sprintf(" AND date <= $%d", len(args))
	}
	query += " ORDER BY date"

	var records []models.DailyRecord
	if err := r.db.SelectContext(ctx, &records, query, args...); err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	return records, nil
}
