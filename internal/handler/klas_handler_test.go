package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chillouts/beheer-api/internal/models"
	"github.com/chillouts/beheer-api/internal/service"
)

type klasStoreMock struct {
	counts map[string]int
}

func (m *klasStoreMock) ListKlassen(ctx context.Context) ([]models.Klas, error) {
	var out []models.Klas
	for name, count := range m.counts {
		out = append(out, models.Klas{Name: name, StudentCount: count})
	}
	return out, nil
}

func (m *klasStoreMock) CountByKlas(ctx context.Context, klas string) (int, error) {
	return m.counts[klas], nil
}

func (m *klasStoreMock) KlasExists(ctx context.Context, name, exclude string) (bool, error) {
	_, ok := m.counts[name]
	return ok, nil
}

func (m *klasStoreMock) RenameKlas(ctx context.Context, from, to string) (int64, error) {
	count := m.counts[from]
	delete(m.counts, from)
	m.counts[to] = count
	return int64(count), nil
}

func TestKlasHandlerRename(t *testing.T) {
	store := &klasStoreMock{counts: map[string]int{"1A": 4}}
	handler := NewKlasHandler(service.NewKlasService(store, nil, nil, nil, nil))

	payload, _ := json.Marshal(models.RenameKlasRequest{From: "1A", To: "1B"})
	c, w := adminContext(t, http.MethodPost, "/klassen/rename", payload)

	handler.Rename(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 4, store.counts["1B"])
}

func TestKlasHandlerDeleteNonEmpty(t *testing.T) {
	store := &klasStoreMock{counts: map[string]int{"1A": 4}}
	handler := NewKlasHandler(service.NewKlasService(store, nil, nil, nil, nil))

	c, w := adminContext(t, http.MethodDelete, "/klassen/1A", nil)
	c.Params = gin.Params{{Key: "name", Value: "1A"}}

	handler.Delete(c)
	require.Equal(t, http.StatusConflict, w.Code)
}
