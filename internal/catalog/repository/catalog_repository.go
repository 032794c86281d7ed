package repository

import (
	"context"
	"database/sql"
	"fmt"

	"caritas/internal/domain"
)

type MySQLCatalogRepository struct {
	db *sql.DB
}

func NewMySQLCatalogRepository(db *sql.DB) *MySQLCatalogRepository {
	return &MySQLCatalogRepository{db: db}
}

func (r *MySQLCatalogRepository) FindAll(ctx context.Context) ([]domain.CatalogService, error) {
	query := `
		SELECT id, name
		FROM Service
		WHERE isActive = 1
		ORDER BY name`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying services: %w", err)
	}
	defer rows.Close()

	return scanServices(rows)
}

func scanServices(rows *sql.Rows) ([]domain.CatalogService, error) {
	var services []domain.CatalogService
	for rows.Next() {
		var s domain.CatalogService
		if err := rows.Scan(&s.ID, &s.Name); err != nil {
			return nil, fmt.Errorf("scanning service row: %w", err)
		}
		services = append(services, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating service rows: %w", err)
	}

	return services, nil
}
