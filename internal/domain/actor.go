package domain

import "time"

// Role enumerates help-desk role memberships.
type Role string

const (
	RoleRequester Role = "REQUESTER"
	RoleSupport   Role = "SUPPORT"
	RoleAdmin     Role = "ADMIN"
)

// RoleSet is the set of roles an actor currently holds. Membership is
// resolved live from the actor directory on every request; it is never
// stored on tickets or cached across requests.
type RoleSet map[Role]struct{}

// NewRoleSet builds a set from the given roles.
func NewRoleSet(roles ...Role) RoleSet {
	set := make(RoleSet, len(roles))
	for _, role := range roles {
		set[role] = struct{}{}
	}
	return set
}

// Has reports whether the set contains the role.
func (s RoleSet) Has(role Role) bool {
	_, ok := s[role]
	return ok
}

// Roles returns the members as a slice.
func (s RoleSet) Roles() []Role {
	out := make([]Role, 0, len(s))
	for role := range s {
		out = append(out, role)
	}
	return out
}

// ActorStatus represents lifecycle states for an account.
type ActorStatus string

const (
	ActorStatusActive    ActorStatus = "ACTIVE"
	ActorStatusSuspended ActorStatus = "SUSPENDED"
)

// ActorAccount is the stored account behind an actor id.
type ActorAccount struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Status       ActorStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Actor is the acting identity threaded through every core operation:
// the resolved id plus the role set held at the time of the request.
type Actor struct {
	ID    string
	Roles RoleSet
}
