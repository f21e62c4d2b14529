package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/helpdeskhq/helpdesk-service/internal/domain"
)

// CommentRepository manages ticket comment threads. Comments are
// immutable; deletion happens only through the ticket FK cascade.
type CommentRepository interface {
	Create(ctx context.Context, comment *domain.Comment) error
	GetByID(ctx context.Context, id string) (*domain.Comment, error)
	ListByTicket(ctx context.Context, ticketID string) ([]domain.Comment, error)
}

type commentRepository struct {
	pool *pgxpool.Pool
}

// NewCommentRepository builds repository.
func NewCommentRepository(pool *pgxpool.Pool) CommentRepository {
	return &commentRepository{pool: pool}
}

func (r *commentRepository) Create(ctx context.Context, comment *domain.Comment) error {
	const query = `
        INSERT INTO ticket_comments (ticket_id, author_id, content)
        VALUES ($1,$2,$3)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		comment.TicketID,
		comment.AuthorID,
		comment.Content,
	).Scan(&comment.ID, &comment.CreatedAt)
}

func (r *commentRepository) GetByID(ctx context.Context, id string) (*domain.Comment, error) {
	const query = `
        SELECT id, ticket_id, author_id, content, created_at
        FROM ticket_comments WHERE id=$1`
	var comment domain.Comment
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&comment.ID,
		&comment.TicketID,
		&comment.AuthorID,
		&comment.Content,
		&comment.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &comment, nil
}

func (r *commentRepository) ListByTicket(ctx context.Context, ticketID string) ([]domain.Comment, error) {
	const query = `
        SELECT id, ticket_id, author_id, content, created_at
        FROM ticket_comments WHERE ticket_id=$1 ORDER BY created_at ASC`
	rows, err := r.pool.Query(ctx, query, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Comment
	for rows.Next() {
		var comment domain.Comment
		if err := rows.Scan(
			&comment.ID,
			&comment.TicketID,
			&comment.AuthorID,
			&comment.Content,
			&comment.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, comment)
	}
	return result, rows.Err()
}
