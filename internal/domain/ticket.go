package domain

import "time"

// TicketStatus is a free-form status label. No enumerated set is
// enforced; any non-empty string is a legal status.
type TicketStatus string

// TicketStatusNew is the label every ticket starts with.
const TicketStatusNew TicketStatus = "New"

// Ticket is the aggregate for support requests. OwnerID is immutable
// after creation. AssignedToID is either nil or the id of an actor that
// held the Support role when the assignment was made.
type Ticket struct {
	ID           string
	Title        string
	Description  string
	CategoryID   int64
	PriorityID   int64
	Status       TicketStatus
	OwnerID      string
	AssignedToID *string
	CreatedAt    time.Time
}

// Priority is reference data. Every ticket holds exactly one valid
// priority id at any time.
type Priority struct {
	ID   int64
	Name string
}

// Category is reference data chosen by the requester at creation.
type Category struct {
	ID   int64
	Name string
}
