package service

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"onhostel/internal/domain"
	"onhostel/internal/events"
	"onhostel/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type snapshotRemote struct {
	snapshot *domain.Snapshot
	err      error
}

func (r *snapshotRemote) Upsert(ctx context.Context, collection, id string, record any) error {
	return nil
}

func (r *snapshotRemote) Delete(ctx context.Context, collection, id string) error { return nil }

func (r *snapshotRemote) FetchSnapshot(ctx context.Context) (*domain.Snapshot, error) {
	return r.snapshot, r.err
}

func (r *snapshotRemote) Ping(ctx context.Context) error { return r.err }

func TestResyncOverwritesMirror(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	// Локальная запись, которой нет в удаленном снимке, исчезает.
	require.NoError(t, store.CreateBooking(ctx, &models.Booking{
		ID: "local-only", UnitID: "room_a", GuestName: "Stale",
		CheckIn: day("2024-03-01"), CheckOut: day("2024-03-02"), Quantity: 1, CreatedAt: time.Now(),
	}))

	remote := &snapshotRemote{snapshot: &domain.Snapshot{
		Bookings: []models.Booking{{
			ID: "remote-1", UnitID: "room_a", GuestName: "Ana",
			CheckIn: day("2024-03-10"), CheckOut: day("2024-03-12"), Quantity: 1, CreatedAt: time.Now(),
		}},
		Expenses: []models.Expense{{
			ID: "e1", Date: day("2024-03-11"), Description: "Gas", Amount: 30,
			PaymentMethod: models.PaymentCash, CreatedAt: time.Now(),
		}},
		BarInventory: []models.BarInventoryItem{{
			ID: "beer", Name: "Cerveza", Category: "bebidas",
			InitialStock: 10, CurrentStock: 7, Price: 2.5, CreatedAt: time.Now(),
		}},
		TakenAt: time.Now(),
	}}

	bus := events.NewEventBus()
	var resyncEvents int
	bus.Subscribe(events.EventResyncCompleted, func(event *events.Event) error {
		resyncEvents++
		return nil
	})

	logger := zerolog.New(os.Stdout)
	svc := NewResyncService(store, remote, bus, &logger)

	snapshot, err := svc.Resync(ctx)
	require.NoError(t, err)
	require.NotNil(t, snapshot)

	bookings, err := store.GetBookings(ctx)
	require.NoError(t, err)
	require.Len(t, bookings, 1)
	assert.Equal(t, "remote-1", bookings[0].ID)

	expenses, err := store.GetExpenses(ctx)
	require.NoError(t, err)
	assert.Len(t, expenses, 1)

	items, err := store.GetBarInventory(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 7, items[0].CurrentStock)

	assert.Equal(t, 1, resyncEvents)
}

func TestResyncFetchFailureKeepsMirror(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.CreateBooking(ctx, &models.Booking{
		ID: "b1", UnitID: "room_a", GuestName: "Ana",
		CheckIn: day("2024-03-10"), CheckOut: day("2024-03-12"), Quantity: 1, CreatedAt: time.Now(),
	}))

	logger := zerolog.New(os.Stdout)
	svc := NewResyncService(store, &snapshotRemote{err: errors.New("network down")}, nil, &logger)

	_, err := svc.Resync(ctx)
	require.Error(t, err)

	bookings, err := store.GetBookings(ctx)
	require.NoError(t, err)
	assert.Len(t, bookings, 1, "mirror untouched when the snapshot cannot be read")
}
