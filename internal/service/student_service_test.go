package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chillouts/beheer-api/internal/models"
	appErrors "github.com/chillouts/beheer-api/pkg/errors"
)

type studentRepoMock struct {
	students map[string]*models.Student
	created  []*models.Student
	updated  []*models.Student
	deleted  []string
}

func (m *studentRepoMock) List(ctx context.Context, filter models.StudentFilter) ([]models.Student, int, error) {
	var out []models.Student
	for _, s := range m.students {
		out = append(out, *s)
	}
	return out, len(out), nil
}

func (m *studentRepoMock) FindByID(ctx context.Context, id string) (*models.Student, error) {
	s, ok := m.students[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copy := *s
	return &copy, nil
}

func (m *studentRepoMock) Create(ctx context.Context, student *models.Student) error {
	if student.ID == "" {
		student.ID = "gen-1"
	}
	if m.students == nil {
		m.students = map[string]*models.Student{}
	}
	m.students[student.ID] = student
	m.created = append(m.created, student)
	return nil
}

func (m *studentRepoMock) Update(ctx context.Context, student *models.Student) error {
	m.students[student.ID] = student
	m.updated = append(m.updated, student)
	return nil
}

func (m *studentRepoMock) Delete(ctx context.Context, id string) error {
	delete(m.students, id)
	m.deleted = append(m.deleted, id)
	return nil
}

func TestStudentServiceCreate(t *testing.T) {
	repo := &studentRepoMock{}
	audit := &auditWriterMock{}
	svc := NewStudentService(repo, audit, nil, nil, nil)

	student, err := svc.Create(context.Background(), models.CreateStudentRequest{Name: "Anna", Klas: "1A"}, testActor())
	require.NoError(t, err)
	assert.Equal(t, models.StudentActief, student.Status)
	require.Len(t, repo.created, 1)

	require.Len(t, audit.logs, 1)
	log := audit.logs[0]
	assert.Equal(t, models.AuditActionCreated, log.Action)
	assert.Nil(t, log.OldValues)

	var snapshot models.Student
	require.NoError(t, json.Unmarshal(log.NewValues, &snapshot))
	assert.Equal(t, "Anna", snapshot.Name)
}

func TestStudentServiceCreateInvalid(t *testing.T) {
	svc := NewStudentService(&studentRepoMock{}, nil, nil, nil, nil)

	_, err := svc.Create(context.Background(), models.CreateStudentRequest{Name: ""}, testActor())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestStudentServiceUpdateWritesSnapshots(t *testing.T) {
	repo := &studentRepoMock{students: map[string]*models.Student{
		"s1": {ID: "s1", Name: "Anna", Klas: "1A", Status: models.StudentActief},
	}}
	audit := &auditWriterMock{}
	svc := NewStudentService(repo, audit, nil, nil, nil)

	newKlas := "2B"
	student, err := svc.Update(context.Background(), "s1", models.UpdateStudentRequest{Klas: &newKlas}, testActor())
	require.NoError(t, err)
	assert.Equal(t, "2B", student.Klas)
	assert.Equal(t, "Anna", student.Name)

	require.Len(t, audit.logs, 1)
	var before models.Student
	require.NoError(t, json.Unmarshal(audit.logs[0].OldValues, &before))
	assert.Equal(t, "1A", before.Klas)
}

func TestStudentServiceUpdateMissing(t *testing.T) {
	svc := NewStudentService(&studentRepoMock{}, nil, nil, nil, nil)

	name := "X"
	_, err := svc.Update(context.Background(), "ghost", models.UpdateStudentRequest{Name: &name}, testActor())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestStudentServiceDelete(t *testing.T) {
	repo := &studentRepoMock{students: map[string]*models.Student{
		"s1": {ID: "s1", Name: "Anna", Klas: "1A", Status: models.StudentActief},
	}}
	audit := &auditWriterMock{}
	svc := NewStudentService(repo, audit, nil, nil, nil)

	require.NoError(t, svc.Delete(context.Background(), "s1", testActor()))
	assert.Equal(t, []string{"s1"}, repo.deleted)

	require.Len(t, audit.logs, 1)
	log := audit.logs[0]
	assert.Equal(t, models.AuditActionDeleted, log.Action)
	assert.Nil(t, log.NewValues)

	var snapshot models.Student
	require.NoError(t, json.Unmarshal(log.OldValues, &snapshot))
	assert.Equal(t, "s1", snapshot.ID)
}
