package models

import "time"

// StudentStatus marks whether a student is part of the active roster.
type StudentStatus string

const (
	StudentActief   StudentStatus = "actief"
	StudentInactief StudentStatus = "inactief"
)

// Student represents a learner tracked by the chill-out registration.
type Student struct {
	ID        string        `db:"id" json:"id"`
	Name      string        `db:"name" json:"name"`
	Klas      string        `db:"klas" json:"klas"`
	Status    StudentStatus `db:"status" json:"status"`
	CreatedAt time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt time.Time     `db:"updated_at" json:"updated_at"`
}

// Active reports whether the student counts towards reports.
func (s Student) Active() bool {
	return s.Status == StudentActief
}

// StudentFilter encapsulates allowed search parameters for listing students.
type StudentFilter struct {
	Search   string
	Klas     string
	Status   *StudentStatus
	Page     int
	PageSize int
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}

// CreateStudentRequest is the payload for registering a student.
type CreateStudentRequest struct {
	Name   string        `json:"name" validate:"required"`
	Klas   string        `json:"klas" validate:"required"`
	Status StudentStatus `json:"status" validate:"omitempty,oneof=actief inactief"`
}

// UpdateStudentRequest carries partial updates for a student.
type UpdateStudentRequest struct {
	Name   *string        `json:"name,omitempty"`
	Klas   *string        `json:"klas,omitempty"`
	Status *StudentStatus `json:"status,omitempty" validate:"omitempty,oneof=actief inactief"`
}

// Klas is a derived grouping projected from the student roster.
type Klas struct {
	Name         string `db:"klas" json:"name"`
	StudentCount int    `db:"student_count" json:"student_count"`
}

// RenameKlasRequest moves every student from one klas to another.
type RenameKlasRequest struct {
	From string `json:"from" validate:"required"`
	To   string `json:"to" validate:"required"`
}
