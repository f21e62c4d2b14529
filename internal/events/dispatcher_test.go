package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestDispatcherDeliversToSubscribers(t *testing.T) {
	dispatcher := NewInMemoryDispatcher(zap.NewNop())

	var got []Event
	dispatcher.Subscribe(EventTicketCreated, func(_ context.Context, event Event) error {
		got = append(got, event)
		return nil
	})
	dispatcher.Subscribe(EventTicketCreated, func(_ context.Context, event Event) error {
		got = append(got, event)
		return nil
	})

	require.NoError(t, dispatcher.Publish(context.Background(), Event{Type: EventTicketCreated, TicketID: "t1"}))
	require.Len(t, got, 2)
	assert.Equal(t, "t1", got[0].TicketID)
}

func TestDispatcherIgnoresOtherEventTypes(t *testing.T) {
	dispatcher := NewInMemoryDispatcher(zap.NewNop())

	called := false
	dispatcher.Subscribe(EventTicketDeleted, func(context.Context, Event) error {
		called = true
		return nil
	})

	require.NoError(t, dispatcher.Publish(context.Background(), Event{Type: EventTicketCreated}))
	assert.False(t, called)
}

func TestDispatcherSwallowsHandlerErrors(t *testing.T) {
	dispatcher := NewInMemoryDispatcher(zap.NewNop())

	secondRan := false
	dispatcher.Subscribe(EventCommentAdded, func(context.Context, Event) error {
		return errors.New("handler exploded")
	})
	dispatcher.Subscribe(EventCommentAdded, func(context.Context, Event) error {
		secondRan = true
		return nil
	})

	err := dispatcher.Publish(context.Background(), Event{Type: EventCommentAdded})
	assert.NoError(t, err, "a failing handler must not fail the publish")
	assert.True(t, secondRan, "later handlers still run")
}
