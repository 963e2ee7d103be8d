package web

import (
	"context"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poib/testflow/pkg/channels/gochannel"
	"github.com/poib/testflow/pkg/eventbus"
	"github.com/poib/testflow/pkg/events"
)

func TestEventStreamRelaysStoreEvents(t *testing.T) {
	pub, sub, err := gochannel.CreateTestChannel(watermill.NopLogger{})
	require.NoError(t, err)

	bus := eventbus.NewWatermillEventBus(pub, sub)
	t.Cleanup(func() { _ = bus.Close() })

	stream, err := NewEventStream(bus)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, bus.Subscribe(ctx))

	listener, unsubscribe := stream.subscribe()
	defer unsubscribe()

	require.NoError(t, bus.Publish(ctx, "store", events.ScenarioUpdated{
		BaseEvent:  events.NewBaseEvent(events.ScenarioUpdatedEvent),
		ScenarioID: "scenario-1",
		StepCount:  4,
	}))

	select {
	case streamed := <-listener:
		assert.Equal(t, events.ScenarioUpdatedEvent, streamed.Type)

		updated, ok := streamed.Event.(*events.ScenarioUpdated)
		require.True(t, ok)
		assert.Equal(t, "scenario-1", updated.ScenarioID)
		assert.Equal(t, 4, updated.StepCount)
	case <-time.After(time.Second):
		t.Fatal("event never reached the stream listener")
	}
}

func TestEventStreamUnsubscribeStopsDelivery(t *testing.T) {
	stream, err := NewEventStream(nil)
	require.NoError(t, err)

	listener, unsubscribe := stream.subscribe()
	unsubscribe()

	stream.broadcast(events.GraphUpdatedEvent, &events.GraphUpdated{})

	select {
	case <-listener:
		t.Fatal("unsubscribed listener still received an event")
	default:
	}
}

func TestEventStreamDropsOnFullListener(t *testing.T) {
	stream, err := NewEventStream(nil)
	require.NoError(t, err)

	listener, unsubscribe := stream.subscribe()
	defer unsubscribe()

	for i := 0; i < 100; i++ {
		stream.broadcast(events.GraphUpdatedEvent, &events.GraphUpdated{NodeCount: i})
	}

	assert.Len(t, listener, 64)
}
