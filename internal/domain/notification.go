package domain

import "time"

// Notification is an in-app record created by the fan-out service and
// mutated only by the ledger's mark-read operations. Link is free text
// (for example /tickets/{id}); it carries no foreign-key obligation, so
// notifications outlive the tickets they reference.
type Notification struct {
	ID          string
	RecipientID string
	Title       string
	Message     string
	Link        *string
	Read        bool
	CreatedAt   time.Time
}
