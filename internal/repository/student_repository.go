package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/chillouts/beheer-api/internal/models"
)

// StudentRepository manages persistence for the student roster.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository constructs a StudentRepository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

const studentColumns = "id, name, klas, status, created_at, updated_at"

// List returns students matching the provided filters.
func (r *StudentRepository) List(ctx context.Context, filter models.StudentFilter) ([]models.Student, int, error) {
	conditions := []string{"1=1"}
	args := []interface{}{}

	if filter.Klas != "" {
		conditions = append(conditions, fmt.Sprintf("klas = $%d", len(args)+1))
		args = append(args, filter.Klas)
	}
	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)+1))
		args = append(args, *filter.Status)
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("LOWER(name) LIKE $%d", len(args)+1))
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}

	where := strings.Join(conditions, " AND ")

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 200 {
		size = 50
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("SELECT %s FROM students WHERE %s ORDER BY klas, name LIMIT %d OFFSET %d",
		studentColumns, where, size, offset)

	var students []models.Student
	if err := r.db.SelectContext(ctx, &students, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list students: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM students WHERE %s", where)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count students: %w", err)
	}
	return students, total, nil
}

// ListAll returns the full roster ordered by klas and name.
func (r *StudentRepository) ListAll(ctx context.Context) ([]models.Student, error) {
	query := fmt.Sprintf("SELECT %s FROM students ORDER BY klas, name", studentColumns)
	var students []models.Student
	if err := r.db.SelectContext(ctx, &students, query); err != nil {
		return nil, fmt.Errorf("list all students: %w", err)
	}
	return students, nil
}

// FindByID fetches a student by ID.
func (r *StudentRepository) FindByID(ctx context.Context, id string) (*models.Student, error) {
	query := fmt.Sprintf("SELECT %s FROM students WHERE id = $1 LIMIT 1", studentColumns)
	var student models.Student
	if err := r.db.GetContext(ctx, &student, query, id); err != nil {
		return nil, err
	}
	return &student, nil
}

// Create inserts a new student record.
func (r *StudentRepository) Create(ctx context.Context, student *models.Student) error {
	if student.ID == "" {
		student.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if student.CreatedAt.IsZero() {
		student.CreatedAt = now
	}
	student.UpdatedAt = now
	const query = `INSERT INTO students (id, name, klas, status, created_at, updated_at)
        VALUES (:id, :name, :klas, :status, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, student); err != nil {
		return fmt.Errorf("create student: %w", err)
	}
	return nil
}

// Update modifies an existing student.
func (r *StudentRepository) Update(ctx context.Context, student *models.Student) error {
	student.UpdatedAt = time.Now().UTC()
	const query = `UPDATE students SET name = :name, klas = :klas, status = :status, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, student); err != nil {
		return fmt.Errorf("update student: %w", err)
	}
	return nil
}

// Delete removes a student permanently.
func (r *StudentRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM students WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete student: %w", err)
	}
	return nil
}

// ListKlassen projects the distinct klas names with student counts.
func (r *StudentRepository) ListKlassen(ctx context.Context) ([]models.Klas, error) {
	const query = `SELECT klas, COUNT(*) AS student_count FROM students WHERE klas <> '' GROUP BY klas ORDER BY klas`
	var klassen []models.Klas
	if err := r.db.SelectContext(ctx, &klassen, query); err != nil {
		return nil, fmt.Errorf("list klassen: %w", err)
	}
	return klassen, nil
}

// CountByKlas returns how many students reference a klas.
func (r *StudentRepository) CountByKlas(ctx context.Context, klas string) (int, error) {
	const query = `SELECT COUNT(*) FROM students WHERE klas = $1`
	var count int
	if err := r.db.GetContext(ctx, &count, query, klas); err != nil {
		return 0, fmt.Errorf("count klas students: %w", err)
	}
	return count, nil
}

// KlasExists checks for a klas name case-insensitively, optionally
// excluding an exact name (used by rename).
func (r *StudentRepository) KlasExists(ctx context.Context, name string, exclude string) (bool, error) {
	query := "SELECT 1 FROM students WHERE LOWER(klas) = LOWER($1)"
	args := []interface{}{name}
	if exclude != "" {
		query += " AND klas <> $2"
		args = append(args, exclude)
	}
	var exists int
	if err := r.db.GetContext(ctx, &exists, query+" LIMIT 1", args...); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check klas: %w", err)
	}
	return true, nil
}

// RenameKlas moves every student from one klas to another and reports
// how many rows changed.
func (r *StudentRepository) RenameKlas(ctx context.Context, from, to string) (int64, error) {
	const query = `UPDATE students SET klas = $2, updated_at = $3 WHERE klas = $1`
	result, err := r.db.ExecContext(ctx, query, from, to, time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("rename klas: %w", err)
	}
	moved, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rename klas rows: %w", err)
	}
	return moved, nil
}
