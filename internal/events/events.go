package events

import (
	"encoding/json"
	"sync"
	"time"
)

const (
	EventBookingCreated = "booking_created"
	EventBookingUpdated = "booking_updated"
	EventBookingDeleted = "booking_deleted"

	EventExpenseCreated = "expense_created"
	EventExpenseDeleted = "expense_deleted"

	EventSenderoCreated = "sendero_created"
	EventSenderoDeleted = "sendero_deleted"

	EventBarTxCreated = "bar_transaction_created"
	EventBarTxUpdated = "bar_transaction_updated"
	EventBarTxDeleted = "bar_transaction_deleted"

	EventInventoryAdjusted = "inventory_adjusted"

	EventSessionChanged  = "session_changed"
	EventResyncCompleted = "resync_completed"
)

// RecordEventPayload describes the minimal record snapshot for event consumers.
type RecordEventPayload struct {
	Collection string `json:"collection"`
	RecordID   string `json:"record_id"`
	Actor      string `json:"actor,omitempty"`
}

// InventoryEventPayload carries a stock adjustment.
type InventoryEventPayload struct {
	ItemID   string `json:"item_id"`
	ItemName string `json:"item_name"`
	Delta    int    `json:"delta"`
	NewStock int    `json:"new_stock"`
}

// SessionEventPayload signals a sign-in or sign-out.
type SessionEventPayload struct {
	UserID   string `json:"user_id"`
	SignedIn bool   `json:"signed_in"`
}

// ResyncEventPayload summarizes a completed mirror refresh.
type ResyncEventPayload struct {
	TakenAt time.Time      `json:"taken_at"`
	Counts  map[string]int `json:"counts"`
}

// Event represents a lightweight domain event.
type Event struct {
	ID        int64
	Type      string
	Payload   []byte
	CreatedAt time.Time
	Processed bool
}

// EventHandler reacts to an event.
type EventHandler func(event *Event) error

// EventBus provides in-process pub/sub for events.
type EventBus struct {
	subscribers map[string][]EventHandler
	mu          sync.RWMutex
}

// NewEventBus constructs an empty bus.
func NewEventBus() *EventBus {
	return &EventBus{subscribers: make(map[string][]EventHandler)}
}

// Subscribe registers a handler for a given event type.
func (b *EventBus) Subscribe(eventType string, handler EventHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers[eventType] = append(b.subscribers[eventType], handler)
}

// Publish notifies subscribers of the event type.
func (b *EventBus) Publish(event *Event) {
	b.mu.RLock()
	handlers := append([]EventHandler(nil), b.subscribers[event.Type]...)
	b.mu.RUnlock()

	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}

	for _, handler := range handlers {
		// Handlers run synchronously; caller decides concurrency model.
		_ = handler(event)
	}
}

// PublishJSON serializes the payload and publishes an event.
func (b *EventBus) PublishJSON(eventType string, payload any) error {
	if b == nil {
		return nil
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	b.Publish(&Event{Type: eventType, Payload: raw, CreatedAt: time.Now()})
	return nil
}
