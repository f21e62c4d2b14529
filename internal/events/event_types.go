package events

import (
	"time"

	"github.com/helpdeskhq/helpdesk-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated         EventType = "ticket_created"
	EventTicketContentEdited   EventType = "ticket_content_edited"
	EventTicketStatusChanged   EventType = "ticket_status_changed"
	EventTicketPriorityChanged EventType = "ticket_priority_changed"
	EventTicketAssigned        EventType = "ticket_assigned"
	EventTicketDeleted         EventType = "ticket_deleted"
	EventCommentAdded          EventType = "ticket_comment_added"
)

// Event represents a domain event emitted by services. OwnerID and
// AssignedToID are the post-mutation snapshot of the ticket, captured
// after the state change was durably applied, so recipient resolution
// never re-reads the ticket and always observes the new state.
type Event struct {
	ID           string      `json:"id"`
	Type         EventType   `json:"type"`
	TicketID     string      `json:"ticket_id"`
	TicketTitle  string      `json:"ticket_title"`
	OwnerID      string      `json:"owner_id"`
	AssignedToID *string     `json:"assigned_to_id,omitempty"`
	// ActorID is empty for system-initiated events.
	ActorID   string      `json:"actor_id,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	CategoryID int64 `json:"category_id"`
	PriorityID int64 `json:"priority_id"`
}

// StatusChangedPayload payload.
type StatusChangedPayload struct {
	OldStatus domain.TicketStatus `json:"old_status"`
	NewStatus domain.TicketStatus `json:"new_status"`
}

// PriorityChangedPayload payload.
type PriorityChangedPayload struct {
	OldPriorityID int64 `json:"old_priority_id"`
	NewPriorityID int64 `json:"new_priority_id"`
}

// AssignedPayload payload. SelfAssigned distinguishes a support claim
// from an admin assignment.
type AssignedPayload struct {
	AssigneeID   string `json:"assignee_id"`
	SelfAssigned bool   `json:"self_assigned"`
}

// CommentAddedPayload payload.
type CommentAddedPayload struct {
	CommentID      string `json:"comment_id"`
	ContentPreview string `json:"content_preview"`
}
