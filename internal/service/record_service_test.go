package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chillouts/beheer-api/internal/chillout"
	"github.com/chillouts/beheer-api/internal/models"
	appErrors "github.com/chillouts/beheer-api/pkg/errors"
)

type recordRepoMock struct {
	records map[string]*models.DailyRecord
	getErr  error
	upserts []*models.DailyRecord
}

func (m *recordRepoMock) GetByDate(ctx context.Context, date string) (*models.DailyRecord, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.records[date], nil
}

func (m *recordRepoMock) Upsert(ctx context.Context, record *models.DailyRecord) error {
	m.upserts = append(m.upserts, record)
	if m.records == nil {
		m.records = map[string]*models.DailyRecord{}
	}
	m.records[record.Date] = record
	return nil
}

func (m *recordRepoMock) ListRange(ctx context.Context, from, to string) ([]models.DailyRecord, error) {
	var out []models.DailyRecord
	for _, rec := range m.records {
		if from != "" && rec.Date < from {
			continue
		}
		if to != "" && rec.Date > to {
			continue
		}
		out = append(out, *rec)
	}
	return out, nil
}

type auditWriterMock struct {
	logs []*models.AuditLog
	err  error
}

func (m *auditWriterMock) Insert(ctx context.Context, log *models.AuditLog) error {
	m.logs = append(m.logs, log)
	return m.err
}

func testActor() *models.JWTClaims {
	return &models.JWTClaims{UserID: "u1", Username: "jan", Role: models.RoleAdmin}
}

func TestRecordServiceGetDayLazy(t *testing.T) {
	svc := NewRecordService(&recordRepoMock{}, nil, nil, nil, nil)

	record, err := svc.GetDay(context.Background(), "2025-03-03")
	require.NoError(t, err)
	assert.Equal(t, "2025-03-03", record.Date)
	assert.Equal(t, "Ma", record.DayName)
	assert.Empty(t, record.Entries)
}

func TestRecordServiceGetDayInvalidDate(t *testing.T) {
	svc := NewRecordService(&recordRepoMock{}, nil, nil, nil, nil)

	_, err := svc.GetDay(context.Background(), "03-03-2025")
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestRecordServiceSetEntries(t *testing.T) {
	repo := &recordRepoMock{}
	audit := &auditWriterMock{}
	svc := NewRecordService(repo, audit, nil, nil, nil)

	cat := "VR"
	record, err := svc.SetEntries(context.Background(), "2025-03-03", models.SetEntriesRequest{
		StudentID: "s1",
		Hour:      2,
		Category:  &cat,
		Count:     1,
	}, testActor())
	require.NoError(t, err)

	list := record.Entries["s1"][2]
	require.Len(t, list, 1)
	assert.Equal(t, chillout.CategoryVR, *list[0].Type)
	require.Len(t, repo.upserts, 1)

	require.Len(t, audit.logs, 1)
	assert.Equal(t, models.AuditActionUpdated, audit.logs[0].Action)
	assert.Equal(t, models.AuditResourceRecord, audit.logs[0].Resource)
	assert.Equal(t, "jan", audit.logs[0].Username)
}

func TestRecordServiceSetEntriesSilentlyRejectsOverflow(t *testing.T) {
	repo := &recordRepoMock{}
	svc := NewRecordService(repo, nil, nil, nil, nil)

	// Fill the hour to the cap with generic entries.
	_, err := svc.SetEntries(context.Background(), "2025-03-03", models.SetEntriesRequest{
		StudentID: "s1", Hour: 1, Count: 3,
	}, testActor())
	require.NoError(t, err)

	cat := "VL"
	record, err := svc.SetEntries(context.Background(), "2025-03-03", models.SetEntriesRequest{
		StudentID: "s1", Hour: 1, Category: &cat, Count: 1,
	}, testActor())
	require.NoError(t, err)

	list := record.Entries["s1"][1]
	assert.Equal(t, 3, chillout.TotalCount(list))
	assert.Equal(t, 0, chillout.CountByCategory(list, catPtrOf(chillout.CategoryVL)))
}

func TestRecordServiceSetEntriesRejectsMultipleTagged(t *testing.T) {
	svc := NewRecordService(&recordRepoMock{}, nil, nil, nil, nil)

	cat := "VR"
	_, err := svc.SetEntries(context.Background(), "2025-03-03", models.SetEntriesRequest{
		StudentID: "s1", Hour: 1, Category: &cat, Count: 2,
	}, testActor())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func catPtrOf(c chillout.Category) *chillout.Category {
	return &c
}
