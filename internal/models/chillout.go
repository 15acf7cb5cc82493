package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/chillouts/beheer-api/internal/chillout"
)

// EntriesColumn stores a day's entry map as a JSONB column. Decoding
// runs through the legacy-tolerant codec, so old single-object shapes
// are migrated the moment a row is loaded.
type EntriesColumn chillout.RecordEntries

// Value implements driver.Valuer.
func (e EntriesColumn) Value() (driver.Value, error) {
	if e == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(e)
}

// Scan implements sql.Scanner.
func (e *EntriesColumn) Scan(src interface{}) error {
	if src == nil {
		*e = EntriesColumn{}
		return nil
	}

	var data []byte
	switch v := src.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported entries column type %T", src)
	}

	var decoded chillout.RecordEntries
	if err := json.Unmarshal(data, &decoded); err != nil {
		return fmt.Errorf("decode entries column: %w", err)
	}
	*e = EntriesColumn(chillout.MigrateEntries(decoded))
	return nil
}

// DailyRecord is one school day's chill-out registrations, keyed by
// date.
type DailyRecord struct {
	Date      string        `db:"date" json:"date"`
	DayName   string        `db:"day_name" json:"day_name"`
	Entries   EntriesColumn `db:"entries" json:"entries"`
	CreatedAt time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt time.Time     `db:"updated_at" json:"updated_at"`
}

// SetEntriesRequest sets the number of entries of one category for a
// student in a class hour.
type SetEntriesRequest struct {
	StudentID string  `json:"student_id" validate:"required"`
	Hour      int     `json:"hour" validate:"required,min=1,max=7"`
	Category  *string `json:"category" validate:"omitempty,oneof=VR VL"`
	Count     int     `json:"count" validate:"min=0,max=3"`
}

// WeeklyQuery selects a school week either by explicit start date or
// by ISO week number within a year.
type WeeklyQuery struct {
	StartDate  string `form:"start_date"`
	Year       int    `form:"year"`
	WeekNumber int    `form:"week"`
}

// StatsQuery carries the statistics filters.
type StatsQuery struct {
	Klas      string `form:"klas"`
	StudentID string `form:"student_id"`
	DateFrom  string `form:"date_from"`
	DateTo    string `form:"date_to"`
}
