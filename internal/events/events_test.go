package events

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventBus_PublishSubscribe(t *testing.T) {
	bus := NewEventBus()

	var got []string
	bus.Subscribe(EventBookingCreated, func(e *Event) error {
		var payload RecordEventPayload
		require.NoError(t, json.Unmarshal(e.Payload, &payload))
		got = append(got, payload.RecordID)
		return nil
	})

	err := bus.PublishJSON(EventBookingCreated, RecordEventPayload{
		Collection: "bookings",
		RecordID:   "b-1",
	})
	require.NoError(t, err)

	// Событие другого типа не должно попасть в подписчика
	err = bus.PublishJSON(EventExpenseCreated, RecordEventPayload{RecordID: "e-1"})
	require.NoError(t, err)

	assert.Equal(t, []string{"b-1"}, got)
}

func TestEventBus_MultipleHandlers(t *testing.T) {
	bus := NewEventBus()

	calls := 0
	handler := func(e *Event) error {
		calls++
		return nil
	}
	bus.Subscribe(EventResyncCompleted, handler)
	bus.Subscribe(EventResyncCompleted, handler)

	require.NoError(t, bus.PublishJSON(EventResyncCompleted, ResyncEventPayload{}))
	assert.Equal(t, 2, calls)
}

func TestEventBus_HandlerErrorDoesNotStopOthers(t *testing.T) {
	bus := NewEventBus()

	second := false
	bus.Subscribe(EventBarTxCreated, func(e *Event) error { return errors.New("boom") })
	bus.Subscribe(EventBarTxCreated, func(e *Event) error { second = true; return nil })

	require.NoError(t, bus.PublishJSON(EventBarTxCreated, RecordEventPayload{}))
	assert.True(t, second)
}

func TestEventBus_NilBus(t *testing.T) {
	var bus *EventBus
	assert.NoError(t, bus.PublishJSON(EventSessionChanged, SessionEventPayload{}))
}
