package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/helpdeskhq/helpdesk-service/internal/authz"
	"github.com/helpdeskhq/helpdesk-service/internal/domain"
	"github.com/helpdeskhq/helpdesk-service/internal/events"
	"github.com/helpdeskhq/helpdesk-service/internal/repository"
	apperrors "github.com/helpdeskhq/helpdesk-service/pkg/util"
)

// AssignmentService handles ticket assignment: the admin path (assign
// any Support agent) and the support path (claim an unassigned ticket).
type AssignmentService struct {
	tickets    repository.TicketRepository
	directory  repository.ActorDirectory
	dispatcher events.Dispatcher
}

// AssignmentDependencies bundles collaborators.
type AssignmentDependencies struct {
	TicketRepo repository.TicketRepository
	Directory  repository.ActorDirectory
	Dispatcher events.Dispatcher
}

// NewAssignmentService creates the service.
func NewAssignmentService(deps AssignmentDependencies) *AssignmentService {
	return &AssignmentService{
		tickets:    deps.TicketRepo,
		directory:  deps.Directory,
		dispatcher: deps.Dispatcher,
	}
}

// Assign sets the assignee on behalf of an Admin. The target must hold
// the Support role at the time of assignment; that is not re-validated
// later if the target's roles change.
func (s *AssignmentService) Assign(ctx context.Context, actor domain.Actor, ticketID, assigneeID string) (*domain.Ticket, error) {
	if !authz.CanAssignArbitrary(actor) {
		return nil, apperrors.NewForbidden("assignment requires admin role")
	}

	ticket, err := s.getTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}

	assigneeRoles, err := s.directory.RolesOf(ctx, assigneeID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if !assigneeRoles.Has(domain.RoleSupport) {
		return nil, apperrors.NewValidationError("assignee does not hold the support role", map[string]any{"assignee_id": assigneeID})
	}

	if err := s.tickets.UpdateAssignee(ctx, ticket.ID, &assigneeID); err != nil {
		return nil, apperrors.MapError(err)
	}
	ticket.AssignedToID = &assigneeID
	s.publishAssigned(ctx, actor.ID, ticket, false)
	return ticket, nil
}

// Take lets a Support agent claim a ticket for themselves. The claim is
// a compare-and-swap on the assignee column, so of N concurrent claims
// exactly one succeeds; the losers are rejected without overwriting the
// winner. Re-taking a ticket already held by the actor is a no-op.
func (s *AssignmentService) Take(ctx context.Context, actor domain.Actor, ticketID string) (*domain.Ticket, error) {
	ticket, err := s.getTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if !authz.CanSelfAssign(actor, ticket) {
		return nil, apperrors.NewForbidden("ticket is assigned to another agent")
	}
	if ticket.AssignedToID != nil && *ticket.AssignedToID == actor.ID {
		return ticket, nil
	}

	claimed, err := s.tickets.Claim(ctx, ticket.ID, actor.ID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if !claimed {
		// lost the race: another agent holds the ticket now
		return nil, apperrors.NewForbidden("ticket is assigned to another agent")
	}
	assigneeID := actor.ID
	ticket.AssignedToID = &assigneeID
	s.publishAssigned(ctx, actor.ID, ticket, true)
	return ticket, nil
}

func (s *AssignmentService) getTicket(ctx context.Context, ticketID string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return nil, apperrors.MapError(err)
	}
	return ticket, nil
}

func (s *AssignmentService) publishAssigned(ctx context.Context, actorID string, ticket *domain.Ticket, selfAssigned bool) {
	if s.dispatcher == nil || ticket.AssignedToID == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:           uuid.NewString(),
		Type:         events.EventTicketAssigned,
		TicketID:     ticket.ID,
		TicketTitle:  ticket.Title,
		OwnerID:      ticket.OwnerID,
		AssignedToID: ticket.AssignedToID,
		ActorID:      actorID,
		Timestamp:    time.Now(),
		Payload: events.AssignedPayload{
			AssigneeID:   *ticket.AssignedToID,
			SelfAssigned: selfAssigned,
		},
	})
}
