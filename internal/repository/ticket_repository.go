package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/helpdeskhq/helpdesk-service/internal/domain"
)

// TicketRepository encapsulates ticket persistence. Mutations are
// single-field-set writes: content, status, priority and assignment
// each update only their own columns.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)
	ListAll(ctx context.Context) ([]domain.Ticket, error)
	ListByOwner(ctx context.Context, ownerID string) ([]domain.Ticket, error)
	UpdateContent(ctx context.Context, id, title, description string, categoryID int64) error
	UpdateStatus(ctx context.Context, id string, status domain.TicketStatus) error
	UpdatePriority(ctx context.Context, id string, priorityID int64) error
	UpdateAssignee(ctx context.Context, id string, assigneeID *string) error
	// Claim is a compare-and-swap on the assignee column: it succeeds
	// only while the ticket is unassigned or already held by actorID.
	// Returns false when another agent holds the ticket.
	Claim(ctx context.Context, id, actorID string) (bool, error)
	Delete(ctx context.Context, id string) error
}

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        INSERT INTO tickets (title, description, category_id, priority_id, status, owner_id, assigned_to_id)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		ticket.Title,
		ticket.Description,
		ticket.CategoryID,
		ticket.PriorityID,
		ticket.Status,
		ticket.OwnerID,
		ticket.AssignedToID,
	).Scan(&ticket.ID, &ticket.CreatedAt)
}

func (r *ticketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	const query = `
        SELECT id, title, description, category_id, priority_id, status, owner_id, assigned_to_id, created_at
        FROM tickets WHERE id=$1`
	var ticket domain.Ticket
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&ticket.ID,
		&ticket.Title,
		&ticket.Description,
		&ticket.CategoryID,
		&ticket.PriorityID,
		&ticket.Status,
		&ticket.OwnerID,
		&ticket.AssignedToID,
		&ticket.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (r *ticketRepository) ListAll(ctx context.Context) ([]domain.Ticket, error) {
	const query = `
        SELECT id, title, description, category_id, priority_id, status, owner_id, assigned_to_id, created_at
        FROM tickets ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTickets(rows)
}

func (r *ticketRepository) ListByOwner(ctx context.Context, ownerID string) ([]domain.Ticket, error) {
	const query = `
        SELECT id, title, description, category_id, priority_id, status, owner_id, assigned_to_id, created_at
        FROM tickets WHERE owner_id=$1 ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTickets(rows)
}

func (r *ticketRepository) UpdateContent(ctx context.Context, id, title, description string, categoryID int64) error {
	const query = `
        UPDATE tickets SET title=$1, description=$2, category_id=$3 WHERE id=$4`
	return r.execExpectRow(ctx, query, title, description, categoryID, id)
}

func (r *ticketRepository) UpdateStatus(ctx context.Context, id string, status domain.TicketStatus) error {
	const query = `UPDATE tickets SET status=$1 WHERE id=$2`
	return r.execExpectRow(ctx, query, status, id)
}

func (r *ticketRepository) UpdatePriority(ctx context.Context, id string, priorityID int64) error {
	const query = `UPDATE tickets SET priority_id=$1 WHERE id=$2`
	return r.execExpectRow(ctx, query, priorityID, id)
}

func (r *ticketRepository) UpdateAssignee(ctx context.Context, id string, assigneeID *string) error {
	const query = `UPDATE tickets SET assigned_to_id=$1 WHERE id=$2`
	return r.execExpectRow(ctx, query, assigneeID, id)
}

func (r *ticketRepository) Claim(ctx context.Context, id, actorID string) (bool, error) {
	const query = `
        UPDATE tickets SET assigned_to_id=$1
        WHERE id=$2 AND (assigned_to_id IS NULL OR assigned_to_id=$1)`
	cmd, err := r.pool.Exec(ctx, query, actorID, id)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}

func (r *ticketRepository) Delete(ctx context.Context, id string) error {
	// ticket_comments rows go with the ticket via ON DELETE CASCADE
	const query = `DELETE FROM tickets WHERE id=$1`
	return r.execExpectRow(ctx, query, id)
}

func (r *ticketRepository) execExpectRow(ctx context.Context, query string, args ...any) error {
	cmd, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func scanTickets(rows pgx.Rows) ([]domain.Ticket, error) {
	var result []domain.Ticket
	for rows.Next() {
		var ticket domain.Ticket
		if err := rows.Scan(
			&ticket.ID,
			&ticket.Title,
			&ticket.Description,
			&ticket.CategoryID,
			&ticket.PriorityID,
			&ticket.Status,
			&ticket.OwnerID,
			&ticket.AssignedToID,
			&ticket.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, ticket)
	}
	return result, rows.Err()
}
