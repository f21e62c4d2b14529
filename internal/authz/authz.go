// Package authz holds the authorization predicates for tickets. Every
// predicate is a pure function of the acting identity and a ticket
// snapshot: no I/O, no caching, evaluated fresh against the ticket's
// current persisted state on each request.
package authz

import "github.com/helpdeskhq/helpdesk-service/internal/domain"

// IsElevated reports whether the actor holds Admin or Support.
func IsElevated(actor domain.Actor) bool {
	return actor.Roles.Has(domain.RoleAdmin) || actor.Roles.Has(domain.RoleSupport)
}

// CanView allows Admin, Support, or the ticket owner.
func CanView(actor domain.Actor, ticket *domain.Ticket) bool {
	return IsElevated(actor) || ticket.OwnerID == actor.ID
}

// CanEditContent covers title/description/category. Support may edit
// content on any ticket regardless of assignment; that is deliberately
// broader than the status/priority rights below.
func CanEditContent(actor domain.Actor, ticket *domain.Ticket) bool {
	return IsElevated(actor) || ticket.OwnerID == actor.ID
}

// CanDelete mirrors CanView: elevated roles or the owner.
func CanDelete(actor domain.Actor, ticket *domain.Ticket) bool {
	return IsElevated(actor) || ticket.OwnerID == actor.ID
}

// CanChangeStatusOrPriority allows Admin, or Support only while the
// ticket is assigned to that same agent. An unassigned Support agent
// can view and comment but is denied here.
func CanChangeStatusOrPriority(actor domain.Actor, ticket *domain.Ticket) bool {
	if actor.Roles.Has(domain.RoleAdmin) {
		return true
	}
	if !actor.Roles.Has(domain.RoleSupport) {
		return false
	}
	return ticket.AssignedToID != nil && *ticket.AssignedToID == actor.ID
}

// CanAssignArbitrary allows Admin to assign any Support agent to any
// ticket.
func CanAssignArbitrary(actor domain.Actor) bool {
	return actor.Roles.Has(domain.RoleAdmin)
}

// CanSelfAssign allows a Support agent to claim an unassigned ticket.
// Re-claiming a ticket already assigned to the same agent is permitted
// as an idempotent no-op; a ticket held by someone else is denied.
func CanSelfAssign(actor domain.Actor, ticket *domain.Ticket) bool {
	if !actor.Roles.Has(domain.RoleSupport) {
		return false
	}
	return ticket.AssignedToID == nil || *ticket.AssignedToID == actor.ID
}
