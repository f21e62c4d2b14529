package domain

import "time"

// Comment is an immutable entry in a ticket's thread. Comments are
// removed only when their parent ticket is deleted.
type Comment struct {
	ID        string
	TicketID  string
	AuthorID  string
	Content   string
	CreatedAt time.Time
}
