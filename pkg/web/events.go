package web

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/gofiber/fiber/v3"

	"github.com/poib/testflow/pkg/events"
	"github.com/poib/testflow/pkg/eventbus"
)

// StreamedEvent is one store change notification as sent to SSE listeners.
type StreamedEvent struct {
	Type  events.EventType `json:"type"`
	Event any              `json:"event"`
}

// EventStream fans store events out to any number of SSE listeners. It
// registers a handler for every event type on the bus; the bus owner still
// has to call Subscribe to start the consume loop.
type EventStream struct {
	mu        sync.Mutex
	listeners map[int]chan StreamedEvent
	nextID    int
}

// NewEventStream wires the stream into the given bus. A nil bus yields a
// stream that never emits, so the endpoint degrades to keepalives only.
func NewEventStream(bus eventbus.EventSubscriber) (*EventStream, error) {
	stream := &EventStream{listeners: map[int]chan StreamedEvent{}}

	if bus == nil {
		return stream, nil
	}

	for _, eventType := range events.Types() {
		err := bus.Handle(eventType, func(_ context.Context, event any) error {
			stream.broadcast(eventType, event)

			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to register %s handler: %w", eventType, err)
		}
	}

	return stream, nil
}

func (s *EventStream) broadcast(eventType events.EventType, event any) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, listener := range s.listeners {
		select {
		case listener <- StreamedEvent{Type: eventType, Event: event}:
		default: // drop on slow consumer, state stays queryable via /state
		}
	}
}

func (s *EventStream) subscribe() (<-chan StreamedEvent, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++

	listener := make(chan StreamedEvent, 64)
	s.listeners[id] = listener

	return listener, func() {
		s.mu.Lock()
		defer s.mu.Unlock()

		delete(s.listeners, id)
	}
}

// Stream relays store events to one client as server-sent events. A
// keepalive comment goes out every 15s so intermediaries do not drop the
// idle connection.
func (s *EventStream) Stream(c fiber.Ctx) error {
	listener, unsubscribe := s.subscribe()

	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")

	return c.SendStreamWriter(func(w *bufio.Writer) {
		defer unsubscribe()

		keepalive := time.NewTicker(15 * time.Second)
		defer keepalive.Stop()

		for {
			select {
			case streamed := <-listener:
				payload, err := json.Marshal(streamed)
				if err != nil {
					continue
				}

				if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", streamed.Type, payload); err != nil {
					return
				}
			case <-keepalive.C:
				if _, err := fmt.Fprint(w, ": keepalive\n\n"); err != nil {
					return
				}
			}

			if err := w.Flush(); err != nil {
				return
			}
		}
	})
}
