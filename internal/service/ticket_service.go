package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/helpdeskhq/helpdesk-service/internal/authz"
	"github.com/helpdeskhq/helpdesk-service/internal/domain"
	"github.com/helpdeskhq/helpdesk-service/internal/events"
	"github.com/helpdeskhq/helpdesk-service/internal/repository"
	apperrors "github.com/helpdeskhq/helpdesk-service/pkg/util"
)

// TicketService owns the ticket state machine: guarded transitions over
// (status, priority, assignment) plus content edits and the comment
// thread. Every operation takes the explicit acting identity and
// evaluates the authorization predicates against the ticket's current
// persisted state.
type TicketService struct {
	tickets    repository.TicketRepository
	comments   repository.CommentRepository
	priorities repository.PriorityRepository
	categories repository.CategoryRepository
	dispatcher events.Dispatcher
	defaults   PriorityDefaults
}

// PriorityDefaults configures the creation-time priority policy.
type PriorityDefaults struct {
	// PreferredName is matched case- and accent-insensitively.
	PreferredName string
}

// TicketDependencies bundles collaborators for the ticket service.
type TicketDependencies struct {
	TicketRepo   repository.TicketRepository
	CommentRepo  repository.CommentRepository
	PriorityRepo repository.PriorityRepository
	CategoryRepo repository.CategoryRepository
	Dispatcher   events.Dispatcher
	Defaults     PriorityDefaults
}

// TicketCreateInput describes ticket creation payload. Owner, status,
// priority and timestamps are never accepted from the caller.
type TicketCreateInput struct {
	Title       string
	Description string
	CategoryID  int64
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	return &TicketService{
		tickets:    deps.TicketRepo,
		comments:   deps.CommentRepo,
		priorities: deps.PriorityRepo,
		categories: deps.CategoryRepo,
		dispatcher: deps.Dispatcher,
		defaults:   deps.Defaults,
	}
}

// CreateTicket creates a ticket owned by the acting identity. Status
// starts as "New"; the priority is resolved by the default policy and
// creation is rejected outright when no priorities are configured.
func (s *TicketService) CreateTicket(ctx context.Context, actor domain.Actor, input TicketCreateInput) (*domain.Ticket, error) {
	title := strings.TrimSpace(input.Title)
	description := strings.TrimSpace(input.Description)
	if title == "" || description == "" {
		return nil, apperrors.NewValidationError("title and description required", nil)
	}

	if _, err := s.categories.GetByID(ctx, input.CategoryID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewValidationError("unknown category", map[string]any{"category_id": input.CategoryID})
		}
		return nil, apperrors.MapError(err)
	}

	priorities, err := s.priorities.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	defaultPriority := ResolveDefaultPriority(priorities, s.defaults.PreferredName)
	if defaultPriority == nil {
		return nil, apperrors.NewValidationError("no priorities configured", nil)
	}

	ticket := &domain.Ticket{
		Title:       title,
		Description: description,
		CategoryID:  input.CategoryID,
		PriorityID:  defaultPriority.ID,
		Status:      domain.TicketStatusNew,
		OwnerID:     actor.ID,
	}
	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.publishEvent(ctx, events.Event{
		Type:         events.EventTicketCreated,
		TicketID:     ticket.ID,
		TicketTitle:  ticket.Title,
		OwnerID:      ticket.OwnerID,
		AssignedToID: ticket.AssignedToID,
		ActorID:      actor.ID,
		Payload: events.TicketCreatedPayload{
			CategoryID: ticket.CategoryID,
			PriorityID: ticket.PriorityID,
		},
	})
	return ticket, nil
}

// ListTickets returns all tickets for elevated roles and only the
// actor's own tickets otherwise, newest first.
func (s *TicketService) ListTickets(ctx context.Context, actor domain.Actor) ([]domain.Ticket, error) {
	if authz.IsElevated(actor) {
		tickets, err := s.tickets.ListAll(ctx)
		return tickets, apperrors.MapError(err)
	}
	tickets, err := s.tickets.ListByOwner(ctx, actor.ID)
	return tickets, apperrors.MapError(err)
}

// GetTicket fetches a ticket and its comment thread for a viewer.
func (s *TicketService) GetTicket(ctx context.Context, actor domain.Actor, ticketID string) (*domain.Ticket, []domain.Comment, error) {
	ticket, err := s.getTicket(ctx, ticketID)
	if err != nil {
		return nil, nil, err
	}
	if !authz.CanView(actor, ticket) {
		return nil, nil, apperrors.NewForbidden("access denied")
	}
	comments, err := s.comments.ListByTicket(ctx, ticket.ID)
	if err != nil {
		return nil, nil, apperrors.MapError(err)
	}
	return ticket, comments, nil
}

// EditContent mutates title, description and category only. Status,
// priority and assignment are untouched regardless of caller input.
func (s *TicketService) EditContent(ctx context.Context, actor domain.Actor, ticketID string, input TicketCreateInput) (*domain.Ticket, error) {
	title := strings.TrimSpace(input.Title)
	description := strings.TrimSpace(input.Description)
	if title == "" || description == "" {
		return nil, apperrors.NewValidationError("title and description required", nil)
	}

	ticket, err := s.getTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if !authz.CanEditContent(actor, ticket) {
		return nil, apperrors.NewForbidden("access denied")
	}
	if _, err := s.categories.GetByID(ctx, input.CategoryID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewValidationError("unknown category", map[string]any{"category_id": input.CategoryID})
		}
		return nil, apperrors.MapError(err)
	}

	if err := s.tickets.UpdateContent(ctx, ticket.ID, title, description, input.CategoryID); err != nil {
		return nil, apperrors.MapError(err)
	}
	ticket.Title = title
	ticket.Description = description
	ticket.CategoryID = input.CategoryID
	s.publishEvent(ctx, events.Event{
		Type:         events.EventTicketContentEdited,
		TicketID:     ticket.ID,
		TicketTitle:  ticket.Title,
		OwnerID:      ticket.OwnerID,
		AssignedToID: ticket.AssignedToID,
		ActorID:      actor.ID,
	})
	return ticket, nil
}

// ChangeStatus applies an arbitrary non-empty status label. Only Admin
// or the assigned Support agent may change status.
func (s *TicketService) ChangeStatus(ctx context.Context, actor domain.Actor, ticketID string, status domain.TicketStatus) (*domain.Ticket, error) {
	label := domain.TicketStatus(strings.TrimSpace(string(status)))
	if label == "" {
		return nil, apperrors.NewValidationError("status required", nil)
	}

	ticket, err := s.getTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if !authz.CanChangeStatusOrPriority(actor, ticket) {
		return nil, apperrors.NewForbidden("status change not permitted")
	}

	oldStatus := ticket.Status
	if err := s.tickets.UpdateStatus(ctx, ticket.ID, label); err != nil {
		return nil, apperrors.MapError(err)
	}
	ticket.Status = label
	s.publishEvent(ctx, events.Event{
		Type:         events.EventTicketStatusChanged,
		TicketID:     ticket.ID,
		TicketTitle:  ticket.Title,
		OwnerID:      ticket.OwnerID,
		AssignedToID: ticket.AssignedToID,
		ActorID:      actor.ID,
		Payload: events.StatusChangedPayload{
			OldStatus: oldStatus,
			NewStatus: label,
		},
	})
	return ticket, nil
}

// ChangePriority moves the ticket to an existing priority. An unknown
// priority id is a validation error, never silently ignored.
func (s *TicketService) ChangePriority(ctx context.Context, actor domain.Actor, ticketID string, priorityID int64) (*domain.Ticket, error) {
	ticket, err := s.getTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if !authz.CanChangeStatusOrPriority(actor, ticket) {
		return nil, apperrors.NewForbidden("priority change not permitted")
	}
	if _, err := s.priorities.GetByID(ctx, priorityID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewValidationError("unknown priority", map[string]any{"priority_id": priorityID})
		}
		return nil, apperrors.MapError(err)
	}

	oldPriorityID := ticket.PriorityID
	if err := s.tickets.UpdatePriority(ctx, ticket.ID, priorityID); err != nil {
		return nil, apperrors.MapError(err)
	}
	ticket.PriorityID = priorityID
	s.publishEvent(ctx, events.Event{
		Type:         events.EventTicketPriorityChanged,
		TicketID:     ticket.ID,
		TicketTitle:  ticket.Title,
		OwnerID:      ticket.OwnerID,
		AssignedToID: ticket.AssignedToID,
		ActorID:      actor.ID,
		Payload: events.PriorityChangedPayload{
			OldPriorityID: oldPriorityID,
			NewPriorityID: priorityID,
		},
	})
	return ticket, nil
}

// DeleteTicket removes the ticket; its comments go with it via the FK
// cascade. Notifications referencing the ticket are retained.
func (s *TicketService) DeleteTicket(ctx context.Context, actor domain.Actor, ticketID string) error {
	ticket, err := s.getTicket(ctx, ticketID)
	if err != nil {
		return err
	}
	if !authz.CanDelete(actor, ticket) {
		return apperrors.NewForbidden("access denied")
	}
	if err := s.tickets.Delete(ctx, ticket.ID); err != nil {
		return apperrors.MapError(err)
	}
	s.publishEvent(ctx, events.Event{
		Type:         events.EventTicketDeleted,
		TicketID:     ticket.ID,
		TicketTitle:  ticket.Title,
		OwnerID:      ticket.OwnerID,
		AssignedToID: ticket.AssignedToID,
		ActorID:      actor.ID,
	})
	return nil
}

// AddComment appends an immutable comment for any actor that may view
// the ticket. Empty or whitespace-only content is rejected.
func (s *TicketService) AddComment(ctx context.Context, actor domain.Actor, ticketID, content string) (*domain.Comment, error) {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return nil, apperrors.NewValidationError("content required", nil)
	}

	ticket, err := s.getTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if !authz.CanView(actor, ticket) {
		return nil, apperrors.NewForbidden("access denied")
	}

	comment := &domain.Comment{
		TicketID: ticket.ID,
		AuthorID: actor.ID,
		Content:  trimmed,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.publishEvent(ctx, events.Event{
		Type:         events.EventCommentAdded,
		TicketID:     ticket.ID,
		TicketTitle:  ticket.Title,
		OwnerID:      ticket.OwnerID,
		AssignedToID: ticket.AssignedToID,
		ActorID:      actor.ID,
		Payload: events.CommentAddedPayload{
			CommentID:      comment.ID,
			ContentPreview: stringPreview(trimmed, 120),
		},
	})
	return comment, nil
}

// ListPriorities exposes priority reference data.
func (s *TicketService) ListPriorities(ctx context.Context) ([]domain.Priority, error) {
	priorities, err := s.priorities.List(ctx)
	return priorities, apperrors.MapError(err)
}

// ListCategories exposes category reference data.
func (s *TicketService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	categories, err := s.categories.List(ctx)
	return categories, apperrors.MapError(err)
}

func (s *TicketService) getTicket(ctx context.Context, ticketID string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return nil, apperrors.MapError(err)
	}
	return ticket, nil
}

func (s *TicketService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func stringPreview(body string, max int) string {
	body = strings.TrimSpace(body)
	if len(body) <= max {
		return body
	}
	if max <= 3 {
		return body[:max]
	}
	return body[:max-3] + "..."
}
