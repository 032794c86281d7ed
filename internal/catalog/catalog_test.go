package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"caritas/internal/config"
	"caritas/internal/domain"
)

type mockRepository struct {
	FindAllFunc func(ctx context.Context) ([]domain.CatalogService, error)
}

func (m *mockRepository) FindAll(ctx context.Context) ([]domain.CatalogService, error) {
	return m.FindAllFunc(ctx)
}

func TestStatic_LookupAndAll(t *testing.T) {
	c := NewStatic([]domain.CatalogService{
		{ID: "s1", Name: "Lavandería"},
		{ID: "s2", Name: "Transporte"},
		{ID: "s1", Name: "Duplicado"},
	})

	s, ok := c.Lookup("s1")
	assert.True(t, ok)
	assert.Equal(t, "Lavandería", s.Name)

	_, ok = c.Lookup("missing")
	assert.False(t, ok)

	all := c.All()
	assert.Len(t, all, 2)

	all[0].Name = "mutated"
	s, _ = c.Lookup("s1")
	assert.Equal(t, "Lavandería", s.Name)
	assert.Equal(t, "Lavandería", c.All()[0].Name)
}

func TestFromConfig(t *testing.T) {
	c := FromConfig([]config.CatalogEntry{{ID: "s3", Name: "Comedor"}})

	s, ok := c.Lookup("s3")
	require.True(t, ok)
	assert.Equal(t, domain.CatalogService{ID: "s3", Name: "Comedor"}, s)
}

func TestLoad(t *testing.T) {
	calls := 0
	repo := &mockRepository{
		FindAllFunc: func(ctx context.Context) ([]domain.CatalogService, error) {
			calls++
			return []domain.CatalogService{{ID: "s5", Name: "Albergue"}}, nil
		},
	}

	c, err := Load(context.Background(), repo)
	require.NoError(t, err)

	_, ok := c.Lookup("s5")
	assert.True(t, ok)
	c.Lookup("s5")
	c.All()
	assert.Equal(t, 1, calls)
}

func TestLoad_Error(t *testing.T) {
	repo := &mockRepository{
		FindAllFunc: func(ctx context.Context) ([]domain.CatalogService, error) {
			return nil, errors.New("db down")
		},
	}

	c, err := Load(context.Background(), repo)
	assert.Error(t, err)
	assert.Nil(t, c)
}

func TestController_HandleList(t *testing.T) {
	ctrl := NewController(NewStatic([]domain.CatalogService{
		{ID: "s1", Name: "Lavandería"},
		{ID: "s2", Name: "Transporte"},
	}), zap.NewNop())

	rec := httptest.NewRecorder()
	ctrl.HandleList(rec, httptest.NewRequest(http.MethodGet, "/admin/catalog", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body catalogResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, []serviceResponse{{ID: "s1", Name: "Lavandería"}, {ID: "s2", Name: "Transporte"}}, body.Services)
	assert.NotEmpty(t, body.TraceID)
}
