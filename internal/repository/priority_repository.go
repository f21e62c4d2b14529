package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/helpdeskhq/helpdesk-service/internal/domain"
)

// PriorityRepository manages priority reference data.
type PriorityRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Priority, error)
	List(ctx context.Context) ([]domain.Priority, error)
}

type priorityRepository struct {
	pool *pgxpool.Pool
}

// NewPriorityRepository builds the repository.
func NewPriorityRepository(pool *pgxpool.Pool) PriorityRepository {
	return &priorityRepository{pool: pool}
}

func (r *priorityRepository) GetByID(ctx context.Context, id int64) (*domain.Priority, error) {
	const query = `SELECT id, name FROM priorities WHERE id=$1`
	var priority domain.Priority
	if err := r.pool.QueryRow(ctx, query, id).Scan(&priority.ID, &priority.Name); err != nil {
		return nil, err
	}
	return &priority, nil
}

func (r *priorityRepository) List(ctx context.Context) ([]domain.Priority, error) {
	const query = `SELECT id, name FROM priorities ORDER BY id ASC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Priority
	for rows.Next() {
		var priority domain.Priority
		if err := rows.Scan(&priority.ID, &priority.Name); err != nil {
			return nil, err
		}
		result = append(result, priority)
	}
	return result, rows.Err()
}
