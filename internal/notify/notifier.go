// Package notify fans booking status changes out to connected observers.
//
// Delivery is best effort: there is no persistence or replay, and an
// observer whose buffer is full misses the event. Observers that connect
// late must re-query bookings to catch up.
package notify

import (
	"context"
	"sync"
	"time"

	"booking-platform/internal/data/entity"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Event struct {
	BookingID  uuid.UUID            `json:"booking_id"`
	CustomerID uuid.UUID            `json:"customer_id"`
	Status     entity.BookingStatus `json:"status"`
	OccurredAt time.Time            `json:"occurred_at"`
}

type Publisher interface {
	Publish(ctx context.Context, event Event)
}

// Fanout publishes every event to each of its publishers in order.
type Fanout []Publisher

func (f Fanout) Publish(ctx context.Context, event Event) {
	for _, p := range f {
		p.Publish(ctx, event)
	}
}

// Hub is the in-process subscriber registry.
type Hub struct {
	mu     sync.Mutex
	subs   map[*Subscription]struct{}
	closed bool
	buffer int
	log    *zap.Logger
}

func NewHub(buffer int, log *zap.Logger) *Hub {
	if buffer < 1 {
		buffer = 16
	}
	return &Hub{
		subs:   make(map[*Subscription]struct{}),
		buffer: buffer,
		log:    log.With(zap.String("component", "notify_hub")),
	}
}

// Subscription is one observer's channel. Close it when the observer goes away.
type Subscription struct {
	C <-chan Event

	ch  chan Event
	hub *Hub
}

func (h *Hub) Subscribe() *Subscription {
	ch := make(chan Event, h.buffer)
	sub := &Subscription{C: ch, ch: ch, hub: h}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		close(ch)
		return sub
	}
	h.subs[sub] = struct{}{}
	return sub
}

// OnStatusChange calls fn for every event until the returned subscription is closed.
func (h *Hub) OnStatusChange(fn func(Event)) *Subscription {
	sub := h.Subscribe()
	go func() {
		for event := range sub.ch {
			fn(event)
		}
	}()
	return sub
}

// Publish never blocks on a slow observer. The registry lock is held for the
// whole fan-out, so events reach each observer in publish order.
func (h *Hub) Publish(_ context.Context, event Event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	dropped := 0
	for sub := range h.subs {
		select {
		case sub.ch <- event:
		default:
			dropped++
		}
	}

	if dropped > 0 {
		h.log.Warn("Status event dropped for slow observers",
			zap.String("booking_id", event.BookingID.String()),
			zap.String("status", string(event.Status)),
			zap.Int("dropped", dropped),
		)
	}
}

// Close unregisters the observer and closes its channel. It is safe to call
// more than once.
func (s *Subscription) Close() {
	s.hub.mu.Lock()
	defer s.hub.mu.Unlock()

	if _, ok := s.hub.subs[s]; ok {
		delete(s.hub.subs, s)
		close(s.ch)
	}
}

// Close ends every subscription. Later subscriptions start closed.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for sub := range h.subs {
		delete(h.subs, sub)
		close(sub.ch)
	}
	h.closed = true
}
