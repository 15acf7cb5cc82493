package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chillouts/beheer-api/internal/models"
	appErrors "github.com/chillouts/beheer-api/pkg/errors"
)

type klasRepoMock struct {
	klassen map[string]int
	renames [][2]string
}

func (m *klasRepoMock) ListKlassen(ctx context.Context) ([]models.Klas, error) {
	var out []models.Klas
	for name, count := range m.klassen {
		out = append(out, models.Klas{Name: name, StudentCount: count})
	}
	return out, nil
}

func (m *klasRepoMock) CountByKlas(ctx context.Context, klas string) (int, error) {
	return m.klassen[klas], nil
}

func (m *klasRepoMock) KlasExists(ctx context.Context, name string, exclude string) (bool, error) {
	for existing := range m.klassen {
		if exclude != "" && existing == exclude {
			continue
		}
		if equalsFold(existing, name) {
			return true, nil
		}
	}
	return false, nil
}

func (m *klasRepoMock) RenameKlas(ctx context.Context, from, to string) (int64, error) {
	count := m.klassen[from]
	delete(m.klassen, from)
	m.klassen[to] = count
	m.renames = append(m.renames, [2]string{from, to})
	return int64(count), nil
}

func equalsFold(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := 0; i < len(a); i++ {
		ca, cb := a[i], b[i]
		if 'A' <= ca && ca <= 'Z' {
			ca += 'a' - 'A'
		}
		if 'A' <= cb && cb <= 'Z' {
			cb += 'a' - 'A'
		}
		if ca != cb {
			return false
		}
	}
	return true
}

func TestKlasServiceRename(t *testing.T) {
	repo := &klasRepoMock{klassen: map[string]int{"1A": 12, "2B": 9}}
	audit := &auditWriterMock{}
	svc := NewKlasService(repo, audit, nil, nil, nil)

	klas, err := svc.Rename(context.Background(), models.RenameKlasRequest{From: "1A", To: "1C"}, testActor())
	require.NoError(t, err)
	assert.Equal(t, "1C", klas.Name)
	assert.Equal(t, 12, klas.StudentCount)
	require.Len(t, audit.logs, 1)
	assert.Equal(t, models.AuditResourceKlas, audit.logs[0].Resource)
}

func TestKlasServiceRenameConflict(t *testing.T) {
	repo := &klasRepoMock{klassen: map[string]int{"1A": 12, "2B": 9}}
	svc := NewKlasService(repo, nil, nil, nil, nil)

	_, err := svc.Rename(context.Background(), models.RenameKlasRequest{From: "1A", To: "2b"}, testActor())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestKlasServiceRenameCasingOnly(t *testing.T) {
	repo := &klasRepoMock{klassen: map[string]int{"1a": 7}}
	svc := NewKlasService(repo, nil, nil, nil, nil)

	klas, err := svc.Rename(context.Background(), models.RenameKlasRequest{From: "1a", To: "1A"}, testActor())
	require.NoError(t, err)
	assert.Equal(t, "1A", klas.Name)
}

func TestKlasServiceRenameUnknown(t *testing.T) {
	repo := &klasRepoMock{klassen: map[string]int{}}
	svc := NewKlasService(repo, nil, nil, nil, nil)

	_, err := svc.Rename(context.Background(), models.RenameKlasRequest{From: "9Z", To: "9X"}, testActor())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestKlasServiceDeleteNonEmpty(t *testing.T) {
	repo := &klasRepoMock{klassen: map[string]int{"1A": 3}}
	svc := NewKlasService(repo, nil, nil, nil, nil)

	err := svc.Delete(context.Background(), "1A", testActor())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrKlasNotEmpty.Code, appErrors.FromError(err).Code)
}

func TestKlasServiceDeleteEmpty(t *testing.T) {
	repo := &klasRepoMock{klassen: map[string]int{}}
	audit := &auditWriterMock{}
	svc := NewKlasService(repo, audit, nil, nil, nil)

	require.NoError(t, svc.Delete(context.Background(), "1A", testActor()))
	require.Len(t, audit.logs, 1)
	assert.Equal(t, models.AuditActionDeleted, audit.logs[0].Action)
}
