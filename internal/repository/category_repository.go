package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/helpdeskhq/helpdesk-service/internal/domain"
)

// CategoryRepository manages category reference data.
type CategoryRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Category, error)
	List(ctx context.Context) ([]domain.Category, error)
}

type categoryRepository struct {
	pool *pgxpool.Pool
}

// NewCategoryRepository builds the repository.
func NewCategoryRepository(pool *pgxpool.Pool) CategoryRepository {
	return &categoryRepository{pool: pool}
}

func (r *categoryRepository) GetByID(ctx context.Context, id int64) (*domain.Category, error) {
	const query = `SELECT id, name FROM categories WHERE id=$1`
	var category domain.Category
	if err := r.pool.QueryRow(ctx, query, id).Scan(&category.ID, &category.Name); err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepository) List(ctx context.Context) ([]domain.Category, error) {
	const query = `SELECT id, name FROM categories ORDER BY name ASC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Category
	for rows.Next() {
		var category domain.Category
		if err := rows.Scan(&category.ID, &category.Name); err != nil {
			return nil, err
		}
		result = append(result, category)
	}
	return result, rows.Err()
}
