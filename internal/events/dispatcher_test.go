package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishInvokesAllHandlersForType(t *testing.T) {
	dispatcher := NewInMemoryDispatcher()
	var first, second []Event

	dispatcher.Subscribe(EventDesignSubmitted, func(_ context.Context, e Event) error {
		first = append(first, e)
		return nil
	})
	dispatcher.Subscribe(EventDesignSubmitted, func(_ context.Context, e Event) error {
		second = append(second, e)
		return nil
	})

	err := dispatcher.Publish(context.Background(), Event{ID: "evt-1", Type: EventDesignSubmitted, OrderID: "order-1"})

	require.NoError(t, err)
	require.Len(t, first, 1)
	require.Len(t, second, 1)
	assert.Equal(t, "order-1", first[0].OrderID)
}

func TestPublishSkipsUnrelatedTypes(t *testing.T) {
	dispatcher := NewInMemoryDispatcher()
	var seen []Event

	dispatcher.Subscribe(EventDesignApproved, func(_ context.Context, e Event) error {
		seen = append(seen, e)
		return nil
	})

	require.NoError(t, dispatcher.Publish(context.Background(), Event{ID: "evt-1", Type: EventDesignRejected}))
	assert.Empty(t, seen)
}

func TestPublishHandlerErrorDoesNotAbortOthers(t *testing.T) {
	dispatcher := NewInMemoryDispatcher()
	var reached bool

	dispatcher.Subscribe(EventOrderStatusChanged, func(_ context.Context, _ Event) error {
		return errors.New("handler exploded")
	})
	dispatcher.Subscribe(EventOrderStatusChanged, func(_ context.Context, _ Event) error {
		reached = true
		return nil
	})

	err := dispatcher.Publish(context.Background(), Event{ID: "evt-1", Type: EventOrderStatusChanged})

	require.NoError(t, err)
	assert.True(t, reached)
}

func TestPublishWithNoSubscribersIsHarmless(t *testing.T) {
	dispatcher := NewInMemoryDispatcher()
	assert.NoError(t, dispatcher.Publish(context.Background(), Event{ID: "evt-1", Type: EventTaskStatusChanged}))
}
