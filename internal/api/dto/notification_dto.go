package dto

import "time"

// NotificationResponse representation.
type NotificationResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Link      *string   `json:"link,omitempty"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

// UnreadCountResponse backs the bell affordance.
type UnreadCountResponse struct {
	Unread int64 `json:"unread"`
}
