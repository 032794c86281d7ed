package catalog

import (
	"context"
	"fmt"

	"caritas/internal/config"
	"caritas/internal/domain"
)

// Catalog is the read-only list of services staff can assign to a
// reservation.
type Catalog interface {
	Lookup(id string) (domain.CatalogService, bool)
	All() []domain.CatalogService
}

type Static struct {
	entries []domain.CatalogService
	byID    map[string]domain.CatalogService
}

func NewStatic(entries []domain.CatalogService) *Static {
	s := &Static{
		entries: make([]domain.CatalogService, 0, len(entries)),
		byID:    make(map[string]domain.CatalogService, len(entries)),
	}
	for _, e := range entries {
		if _, dup := s.byID[e.ID]; dup {
			continue
		}
		s.entries = append(s.entries, e)
		s.byID[e.ID] = e
	}
	return s
}

func FromConfig(entries []config.CatalogEntry) *Static {
	services := make([]domain.CatalogService, 0, len(entries))
	for _, e := range entries {
		services = append(services, domain.CatalogService{ID: e.ID, Name: e.Name})
	}
	return NewStatic(services)
}

func (s *Static) Lookup(id string) (domain.CatalogService, bool) {
	e, ok := s.byID[id]
	return e, ok
}

func (s *Static) All() []domain.CatalogService {
	return append([]domain.CatalogService(nil), s.entries...)
}

type Repository interface {
	FindAll(ctx context.Context) ([]domain.CatalogService, error)
}

// Load snapshots the repository once; the result never hits the database again.
func Load(ctx context.Context, repo Repository) (*Static, error) {
	services, err := repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading service catalog: %w", err)
	}
	return NewStatic(services), nil
}
