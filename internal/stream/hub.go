package stream

import (
	"sync"

	"github.com/expensio/internal/models"
)

// Event types pushed to expense stream subscribers
const (
	EventExpenseCreated = "expense_created"
	EventExpenseUpdated = "expense_updated"
	EventExpenseDeleted = "expense_deleted"
)

// Event is a single expense change notification
type Event struct {
	Type      string          `json:"type"`
	Expense   *models.Expense `json:"expense,omitempty"`
	ExpenseID uint            `json:"expense_id,omitempty"`
}

// Subscriber receives events for one connection
type Subscriber struct {
	UserID uint
	Events chan Event
}

// Hub fans expense change events out to per-user subscribers. Events
// are only ever delivered to subscribers with the owning user's ID, so
// the stream obeys the same ownership boundary as the REST surface.
type Hub struct {
	mu   sync.RWMutex
	subs map[uint]map[*Subscriber]struct{}
}

// NewHub creates an empty hub
func NewHub() *Hub {
	return &Hub{
		subs: make(map[uint]map[*Subscriber]struct{}),
	}
}

// Subscribe registers a new subscriber for a user
func (h *Hub) Subscribe(userID uint) *Subscriber {
	sub := &Subscriber{
		UserID: userID,
		Events: make(chan Event, 16),
	}

	h.mu.Lock()
	if h.subs[userID] == nil {
		h.subs[userID] = make(map[*Subscriber]struct{})
	}
	h.subs[userID][sub] = struct{}{}
	h.mu.Unlock()

	return sub
}

// Unsubscribe removes a subscriber and closes its channel
func (h *Hub) Unsubscribe(sub *Subscriber) {
	h.mu.Lock()
	if subs, ok := h.subs[sub.UserID]; ok {
		if _, ok := subs[sub]; ok {
			delete(subs, sub)
			close(sub.Events)
		}
		if len(subs) == 0 {
			delete(h.subs, sub.UserID)
		}
	}
	h.mu.Unlock()
}

// Publish delivers an event to every subscriber of the user. Slow
// subscribers drop events rather than blocking the publisher.
func (h *Hub) Publish(userID uint, event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for sub := range h.subs[userID] {
		select {
		case sub.Events <- event:
		default:
		}
	}
}
