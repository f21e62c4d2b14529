package dto

import (
	"time"

	"github.com/helpdeskhq/helpdesk-service/internal/domain"
)

// CreateTicketRequest payload. Status, priority and owner are set by
// the server and ignored if supplied.
type CreateTicketRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	CategoryID  int64  `json:"category_id"`
}

// EditTicketRequest payload for content edits.
type EditTicketRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	CategoryID  int64  `json:"category_id"`
}

// ChangeStatusRequest payload.
type ChangeStatusRequest struct {
	Status string `json:"status"`
}

// ChangePriorityRequest payload.
type ChangePriorityRequest struct {
	PriorityID int64 `json:"priority_id"`
}

// AssignRequest payload for the admin assignment path.
type AssignRequest struct {
	AssigneeID string `json:"assignee_id"`
}

// CreateCommentRequest payload.
type CreateCommentRequest struct {
	Content string `json:"content"`
}

// TicketResponse representation.
type TicketResponse struct {
	ID           string              `json:"id"`
	Title        string              `json:"title"`
	Description  string              `json:"description"`
	CategoryID   int64               `json:"category_id"`
	PriorityID   int64               `json:"priority_id"`
	Status       domain.TicketStatus `json:"status"`
	OwnerID      string              `json:"owner_id"`
	AssignedToID *string             `json:"assigned_to_id,omitempty"`
	CreatedAt    time.Time           `json:"created_at"`
}

// TicketDetailResponse includes the comment thread.
type TicketDetailResponse struct {
	TicketResponse
	Comments []CommentResponse `json:"comments"`
}

// CommentResponse representation.
type CommentResponse struct {
	ID        string    `json:"id"`
	TicketID  string    `json:"ticket_id"`
	AuthorID  string    `json:"author_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// PriorityResponse reference data.
type PriorityResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// CategoryResponse reference data.
type CategoryResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
