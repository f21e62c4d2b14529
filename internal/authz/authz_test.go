package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/helpdeskhq/helpdesk-service/internal/domain"
)

func actorWith(id string, roles ...domain.Role) domain.Actor {
	return domain.Actor{ID: id, Roles: domain.NewRoleSet(roles...)}
}

func ticketOwnedBy(ownerID string, assigneeID *string) *domain.Ticket {
	return &domain.Ticket{
		ID:           "t1",
		Title:        "printer on fire",
		OwnerID:      ownerID,
		AssignedToID: assigneeID,
		Status:       domain.TicketStatusNew,
	}
}

func strPtr(s string) *string { return &s }

func TestCanView(t *testing.T) {
	ticket := ticketOwnedBy("owner", nil)

	tests := []struct {
		name  string
		actor domain.Actor
		want  bool
	}{
		{"owner requester", actorWith("owner", domain.RoleRequester), true},
		{"foreign requester", actorWith("stranger", domain.RoleRequester), false},
		{"support non owner", actorWith("agent", domain.RoleSupport), true},
		{"admin non owner", actorWith("boss", domain.RoleAdmin), true},
		{"admin and support", actorWith("both", domain.RoleAdmin, domain.RoleSupport), true},
		{"no roles foreign", actorWith("nobody"), false},
		{"no roles but owner", actorWith("owner"), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanView(tt.actor, ticket))
		})
	}
}

func TestEditAndDeleteMirrorView(t *testing.T) {
	ticket := ticketOwnedBy("owner", nil)
	actors := []domain.Actor{
		actorWith("owner", domain.RoleRequester),
		actorWith("stranger", domain.RoleRequester),
		actorWith("agent", domain.RoleSupport),
		actorWith("boss", domain.RoleAdmin),
		actorWith("nobody"),
	}
	for _, actor := range actors {
		want := CanView(actor, ticket)
		assert.Equal(t, want, CanEditContent(actor, ticket), "edit for %s", actor.ID)
		assert.Equal(t, want, CanDelete(actor, ticket), "delete for %s", actor.ID)
	}
}

func TestCanChangeStatusOrPriority(t *testing.T) {
	tests := []struct {
		name     string
		actor    domain.Actor
		assignee *string
		want     bool
	}{
		{"admin unassigned", actorWith("boss", domain.RoleAdmin), nil, true},
		{"admin assigned elsewhere", actorWith("boss", domain.RoleAdmin), strPtr("agent"), true},
		{"support unassigned", actorWith("agent", domain.RoleSupport), nil, false},
		{"support assigned to self", actorWith("agent", domain.RoleSupport), strPtr("agent"), true},
		{"support assigned to other", actorWith("agent", domain.RoleSupport), strPtr("rival"), false},
		{"owner requester", actorWith("owner", domain.RoleRequester), nil, false},
		{"owner assigned to owner id", actorWith("owner", domain.RoleRequester), strPtr("owner"), false},
		{"no roles", actorWith("nobody"), strPtr("nobody"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ticket := ticketOwnedBy("owner", tt.assignee)
			assert.Equal(t, tt.want, CanChangeStatusOrPriority(tt.actor, ticket))
		})
	}
}

func TestCanAssignArbitrary(t *testing.T) {
	assert.True(t, CanAssignArbitrary(actorWith("boss", domain.RoleAdmin)))
	assert.True(t, CanAssignArbitrary(actorWith("both", domain.RoleAdmin, domain.RoleSupport)))
	assert.False(t, CanAssignArbitrary(actorWith("agent", domain.RoleSupport)))
	assert.False(t, CanAssignArbitrary(actorWith("owner", domain.RoleRequester)))
}

func TestCanSelfAssign(t *testing.T) {
	tests := []struct {
		name     string
		actor    domain.Actor
		assignee *string
		want     bool
	}{
		{"support unassigned", actorWith("agent", domain.RoleSupport), nil, true},
		{"support already holds", actorWith("agent", domain.RoleSupport), strPtr("agent"), true},
		{"support held by other", actorWith("agent", domain.RoleSupport), strPtr("rival"), false},
		{"admin without support", actorWith("boss", domain.RoleAdmin), nil, false},
		{"requester", actorWith("owner", domain.RoleRequester), nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ticket := ticketOwnedBy("owner", tt.assignee)
			assert.Equal(t, tt.want, CanSelfAssign(tt.actor, ticket))
		})
	}
}

func TestIsElevated(t *testing.T) {
	assert.True(t, IsElevated(actorWith("a", domain.RoleAdmin)))
	assert.True(t, IsElevated(actorWith("s", domain.RoleSupport)))
	assert.False(t, IsElevated(actorWith("r", domain.RoleRequester)))
	assert.False(t, IsElevated(actorWith("n")))
}
