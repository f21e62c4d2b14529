package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/helpdeskhq/helpdesk-service/internal/domain"
)

// ActorDirectory is the identity collaborator: account lookup plus
// live role membership. Role memberships can change at any time, so
// callers query them per request instead of caching them.
type ActorDirectory interface {
	Create(ctx context.Context, account *domain.ActorAccount, roles ...domain.Role) error
	GetByID(ctx context.Context, id string) (*domain.ActorAccount, error)
	GetByEmail(ctx context.Context, email string) (*domain.ActorAccount, error)
	RolesOf(ctx context.Context, actorID string) (domain.RoleSet, error)
	ListIDsWithRole(ctx context.Context, role domain.Role) ([]string, error)
}

type actorDirectory struct {
	pool *pgxpool.Pool
}

// NewActorDirectory returns a Postgres-backed implementation.
func NewActorDirectory(pool *pgxpool.Pool) ActorDirectory {
	return &actorDirectory{pool: pool}
}

func (r *actorDirectory) Create(ctx context.Context, account *domain.ActorAccount, roles ...domain.Role) error {
	const insertActor = `
        INSERT INTO actors (name, email, password_hash, status)
        VALUES ($1,$2,$3,$4)
        RETURNING id, created_at, updated_at`
	if err := r.pool.QueryRow(ctx, insertActor,
		account.Name,
		account.Email,
		account.PasswordHash,
		account.Status,
	).Scan(&account.ID, &account.CreatedAt, &account.UpdatedAt); err != nil {
		return err
	}

	const insertRole = `
        INSERT INTO actor_roles (actor_id, role) VALUES ($1,$2)
        ON CONFLICT DO NOTHING`
	for _, role := range roles {
		if _, err := r.pool.Exec(ctx, insertRole, account.ID, role); err != nil {
			return err
		}
	}
	return nil
}

func (r *actorDirectory) GetByID(ctx context.Context, id string) (*domain.ActorAccount, error) {
	const query = `
        SELECT id, name, email, password_hash, status, created_at, updated_at
        FROM actors WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *actorDirectory) GetByEmail(ctx context.Context, email string) (*domain.ActorAccount, error) {
	const query = `
        SELECT id, name, email, password_hash, status, created_at, updated_at
        FROM actors WHERE email=$1`
	return r.fetchSingle(ctx, query, email)
}

func (r *actorDirectory) fetchSingle(ctx context.Context, query string, arg any) (*domain.ActorAccount, error) {
	var account domain.ActorAccount
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&account.ID,
		&account.Name,
		&account.Email,
		&account.PasswordHash,
		&account.Status,
		&account.CreatedAt,
		&account.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *actorDirectory) RolesOf(ctx context.Context, actorID string) (domain.RoleSet, error) {
	const query = `SELECT role FROM actor_roles WHERE actor_id=$1`
	rows, err := r.pool.Query(ctx, query, actorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	roles := domain.NewRoleSet()
	for rows.Next() {
		var role domain.Role
		if err := rows.Scan(&role); err != nil {
			return nil, err
		}
		roles[role] = struct{}{}
	}
	return roles, rows.Err()
}

func (r *actorDirectory) ListIDsWithRole(ctx context.Context, role domain.Role) ([]string, error) {
	const query = `SELECT actor_id FROM actor_roles WHERE role=$1`
	rows, err := r.pool.Query(ctx, query, role)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
