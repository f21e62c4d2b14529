package service

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/helpdeskhq/helpdesk-service/internal/domain"
)

// In-memory repository fakes backing the service tests. The ticket
// fake serializes Claim under its mutex so the compare-and-swap
// semantics match the SQL implementation.

type fakeTicketRepo struct {
	mu      sync.Mutex
	seq     int
	tickets map[string]domain.Ticket
}

func newFakeTicketRepo() *fakeTicketRepo {
	return &fakeTicketRepo{tickets: map[string]domain.Ticket{}}
}

func (r *fakeTicketRepo) Create(_ context.Context, ticket *domain.Ticket) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	ticket.ID = "ticket-" + strconv.Itoa(r.seq)
	ticket.CreatedAt = time.Now()
	r.tickets[ticket.ID] = *ticket
	return nil
}

func (r *fakeTicketRepo) GetByID(_ context.Context, id string) (*domain.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ticket, ok := r.tickets[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := ticket
	return &copied, nil
}

func (r *fakeTicketRepo) ListAll(_ context.Context) ([]domain.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Ticket, 0, len(r.tickets))
	for _, ticket := range r.tickets {
		out = append(out, ticket)
	}
	return out, nil
}

func (r *fakeTicketRepo) ListByOwner(_ context.Context, ownerID string) ([]domain.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Ticket
	for _, ticket := range r.tickets {
		if ticket.OwnerID == ownerID {
			out = append(out, ticket)
		}
	}
	return out, nil
}

func (r *fakeTicketRepo) UpdateContent(_ context.Context, id, title, description string, categoryID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	ticket, ok := r.tickets[id]
	if !ok {
		return pgx.ErrNoRows
	}
	ticket.Title = title
	ticket.Description = description
	ticket.CategoryID = categoryID
	r.tickets[id] = ticket
	return nil
}

func (r *fakeTicketRepo) UpdateStatus(_ context.Context, id string, status domain.TicketStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	ticket, ok := r.tickets[id]
	if !ok {
		return pgx.ErrNoRows
	}
	ticket.Status = status
	r.tickets[id] = ticket
	return nil
}

func (r *fakeTicketRepo) UpdatePriority(_ context.Context, id string, priorityID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	ticket, ok := r.tickets[id]
	if !ok {
		return pgx.ErrNoRows
	}
	ticket.PriorityID = priorityID
	r.tickets[id] = ticket
	return nil
}

func (r *fakeTicketRepo) UpdateAssignee(_ context.Context, id string, assigneeID *string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	ticket, ok := r.tickets[id]
	if !ok {
		return pgx.ErrNoRows
	}
	ticket.AssignedToID = assigneeID
	r.tickets[id] = ticket
	return nil
}

func (r *fakeTicketRepo) Claim(_ context.Context, id, actorID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ticket, ok := r.tickets[id]
	if !ok {
		return false, nil
	}
	if ticket.AssignedToID != nil && *ticket.AssignedToID != actorID {
		return false, nil
	}
	ticket.AssignedToID = &actorID
	r.tickets[id] = ticket
	return true, nil
}

func (r *fakeTicketRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tickets[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.tickets, id)
	return nil
}

type fakeCommentRepo struct {
	mu       sync.Mutex
	seq      int
	comments map[string]domain.Comment
}

func newFakeCommentRepo() *fakeCommentRepo {
	return &fakeCommentRepo{comments: map[string]domain.Comment{}}
}

func (r *fakeCommentRepo) Create(_ context.Context, comment *domain.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	comment.ID = "comment-" + strconv.Itoa(r.seq)
	comment.CreatedAt = time.Now()
	r.comments[comment.ID] = *comment
	return nil
}

func (r *fakeCommentRepo) GetByID(_ context.Context, id string) (*domain.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	comment, ok := r.comments[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := comment
	return &copied, nil
}

func (r *fakeCommentRepo) ListByTicket(_ context.Context, ticketID string) ([]domain.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Comment
	for _, comment := range r.comments {
		if comment.TicketID == ticketID {
			out = append(out, comment)
		}
	}
	return out, nil
}

// deleteByTicket mimics the FK cascade that fires in Postgres.
func (r *fakeCommentRepo) deleteByTicket(ticketID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, comment := range r.comments {
		if comment.TicketID == ticketID {
			delete(r.comments, id)
		}
	}
}

type fakePriorityRepo struct {
	priorities []domain.Priority
}

func (r *fakePriorityRepo) GetByID(_ context.Context, id int64) (*domain.Priority, error) {
	for i := range r.priorities {
		if r.priorities[i].ID == id {
			copied := r.priorities[i]
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakePriorityRepo) List(_ context.Context) ([]domain.Priority, error) {
	return append([]domain.Priority{}, r.priorities...), nil
}

type fakeCategoryRepo struct {
	categories []domain.Category
}

func (r *fakeCategoryRepo) GetByID(_ context.Context, id int64) (*domain.Category, error) {
	for i := range r.categories {
		if r.categories[i].ID == id {
			copied := r.categories[i]
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeCategoryRepo) List(_ context.Context) ([]domain.Category, error) {
	return append([]domain.Category{}, r.categories...), nil
}

type fakeNotificationRepo struct {
	mu            sync.Mutex
	seq           int
	notifications map[string]domain.Notification
	failFor       map[string]bool
}

func newFakeNotificationRepo() *fakeNotificationRepo {
	return &fakeNotificationRepo{notifications: map[string]domain.Notification{}}
}

func (r *fakeNotificationRepo) Create(_ context.Context, notification *domain.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failFor[notification.RecipientID] {
		return context.DeadlineExceeded
	}
	r.seq++
	notification.ID = "notification-" + strconv.Itoa(r.seq)
	notification.CreatedAt = time.Now().Add(time.Duration(r.seq) * time.Millisecond)
	r.notifications[notification.ID] = *notification
	return nil
}

func (r *fakeNotificationRepo) ListByRecipient(_ context.Context, recipientID string) ([]domain.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Notification
	for _, notification := range r.notifications {
		if notification.RecipientID == recipientID {
			out = append(out, notification)
		}
	}
	for i := 0; i < len(out); i++ {
		for j := i + 1; j < len(out); j++ {
			if out[j].CreatedAt.After(out[i].CreatedAt) {
				out[i], out[j] = out[j], out[i]
			}
		}
	}
	return out, nil
}

func (r *fakeNotificationRepo) MarkRead(_ context.Context, recipientID, notificationID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	notification, ok := r.notifications[notificationID]
	if !ok || notification.RecipientID != recipientID {
		return pgx.ErrNoRows
	}
	notification.Read = true
	r.notifications[notificationID] = notification
	return nil
}

func (r *fakeNotificationRepo) MarkAllRead(_ context.Context, recipientID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, notification := range r.notifications {
		if notification.RecipientID == recipientID && !notification.Read {
			notification.Read = true
			r.notifications[id] = notification
		}
	}
	return nil
}

func (r *fakeNotificationRepo) CountUnread(_ context.Context, recipientID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, notification := range r.notifications {
		if notification.RecipientID == recipientID && !notification.Read {
			count++
		}
	}
	return count, nil
}

type fakeDirectory struct {
	mu       sync.Mutex
	seq      int
	accounts map[string]domain.ActorAccount
	roles    map[string]domain.RoleSet
}

func newFakeDirectory() *fakeDirectory {
	return &fakeDirectory{
		accounts: map[string]domain.ActorAccount{},
		roles:    map[string]domain.RoleSet{},
	}
}

func (r *fakeDirectory) addActor(id string, roles ...domain.Role) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.accounts[id] = domain.ActorAccount{
		ID:     id,
		Name:   id,
		Email:  id + "@example.com",
		Status: domain.ActorStatusActive,
	}
	r.roles[id] = domain.NewRoleSet(roles...)
}

func (r *fakeDirectory) Create(_ context.Context, account *domain.ActorAccount, roles ...domain.Role) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	account.ID = "actor-" + strconv.Itoa(r.seq)
	account.CreatedAt = time.Now()
	account.UpdatedAt = account.CreatedAt
	r.accounts[account.ID] = *account
	r.roles[account.ID] = domain.NewRoleSet(roles...)
	return nil
}

func (r *fakeDirectory) GetByID(_ context.Context, id string) (*domain.ActorAccount, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	account, ok := r.accounts[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := account
	return &copied, nil
}

func (r *fakeDirectory) GetByEmail(_ context.Context, email string) (*domain.ActorAccount, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, account := range r.accounts {
		if account.Email == email {
			copied := account
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeDirectory) RolesOf(_ context.Context, actorID string) (domain.RoleSet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	roles, ok := r.roles[actorID]
	if !ok {
		return domain.NewRoleSet(), nil
	}
	return roles, nil
}

func (r *fakeDirectory) ListIDsWithRole(_ context.Context, role domain.Role) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var ids []string
	for id, roles := range r.roles {
		if roles.Has(role) {
			ids = append(ids, id)
		}
	}
	return ids, nil
}
