package service

import (
	"context"
	"os"
	"testing"

	"onhostel/internal/database"
	"onhostel/internal/events"
	"onhostel/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testUnits = []models.Unit{
	{ID: "room_a", Name: "Habitación A", Kind: models.UnitKindRoom},
	{ID: "tent_zone", Name: "Zona de acampada", Kind: models.UnitKindTent},
}

func newBookingService(t *testing.T, store *database.DB) *BookingService {
	t.Helper()
	logger := zerolog.New(os.Stdout)
	return NewBookingService(store, events.NewEventBus(), nil, testUnits, &logger)
}

func TestCreateBookingNormalizes(t *testing.T) {
	store := newTestStore(t)
	svc := newBookingService(t, store)
	ctx := context.Background()

	booking := &models.Booking{
		UnitID:    "room_a",
		CheckIn:   day("2024-03-10"),
		CheckOut:  day("2024-03-12"),
		GuestName: "Ana",
		Total:     300,
		Deposit:   100,
	}
	require.NoError(t, svc.CreateBooking(ctx, booking))

	assert.NotEmpty(t, booking.ID)
	assert.Equal(t, 1, booking.Quantity)
	assert.Equal(t, 200.0, booking.Remaining, "remaining = total - deposit")
	assert.False(t, booking.CreatedAt.IsZero())

	stored, err := store.GetBookings(ctx)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, booking.ID, stored[0].ID)
}

func TestCreateBookingValidation(t *testing.T) {
	store := newTestStore(t)
	svc := newBookingService(t, store)
	ctx := context.Background()

	err := svc.CreateBooking(ctx, &models.Booking{GuestName: "Ana"})
	assert.ErrorIs(t, err, ErrMissingUnit)

	err = svc.CreateBooking(ctx, &models.Booking{UnitID: "garage", GuestName: "Ana"})
	assert.ErrorIs(t, err, ErrUnknownUnit)

	err = svc.CreateBooking(ctx, &models.Booking{UnitID: "room_a"})
	assert.ErrorIs(t, err, ErrMissingGuestName)

	err = svc.CreateBooking(ctx, &models.Booking{
		UnitID: "room_a", GuestName: "Ana",
		CheckIn: day("2024-03-12"), CheckOut: day("2024-03-10"),
	})
	assert.ErrorIs(t, err, ErrInvalidDates)

	stored, err := store.GetBookings(ctx)
	require.NoError(t, err)
	assert.Empty(t, stored)
}

func TestCreateBookingAllowsSameDayCheckout(t *testing.T) {
	store := newTestStore(t)
	svc := newBookingService(t, store)

	err := svc.CreateBooking(context.Background(), &models.Booking{
		UnitID: "room_a", GuestName: "Ana",
		CheckIn: day("2024-03-10"), CheckOut: day("2024-03-10"),
	})
	assert.NoError(t, err)
}

func TestUpdateBookingReplacesRecord(t *testing.T) {
	store := newTestStore(t)
	svc := newBookingService(t, store)
	ctx := context.Background()

	booking := &models.Booking{
		UnitID: "room_a", GuestName: "Ana",
		CheckIn: day("2024-03-10"), CheckOut: day("2024-03-12"),
		Total: 300, Deposit: 100,
	}
	require.NoError(t, svc.CreateBooking(ctx, booking))

	booking.GuestName = "Ana María"
	booking.Deposit = 300
	require.NoError(t, svc.UpdateBooking(ctx, booking))

	stored, err := store.GetBookings(ctx)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, "Ana María", stored[0].GuestName)
	assert.Equal(t, 0.0, stored[0].Remaining)
}

func TestUpdateMissingBooking(t *testing.T) {
	store := newTestStore(t)
	svc := newBookingService(t, store)

	err := svc.UpdateBooking(context.Background(), &models.Booking{
		ID: "ghost", UnitID: "room_a", GuestName: "Ana",
		CheckIn: day("2024-03-10"), CheckOut: day("2024-03-11"),
	})
	assert.True(t, database.IsNotFound(err))
}

func TestDeleteBooking(t *testing.T) {
	store := newTestStore(t)
	svc := newBookingService(t, store)
	ctx := context.Background()

	booking := &models.Booking{
		UnitID: "room_a", GuestName: "Ana",
		CheckIn: day("2024-03-10"), CheckOut: day("2024-03-12"),
	}
	require.NoError(t, svc.CreateBooking(ctx, booking))
	require.NoError(t, svc.DeleteBooking(ctx, booking.ID))

	stored, err := store.GetBookings(ctx)
	require.NoError(t, err)
	assert.Empty(t, stored)

	assert.True(t, database.IsNotFound(svc.DeleteBooking(ctx, booking.ID)))
}

func TestOccupancyUsesStoredBookings(t *testing.T) {
	store := newTestStore(t)
	svc := newBookingService(t, store)
	ctx := context.Background()

	require.NoError(t, svc.CreateBooking(ctx, &models.Booking{
		UnitID: "tent_zone", GuestName: "Grupo", Quantity: 4,
		CheckIn: day("2024-03-10"), CheckOut: day("2024-03-12"),
	}))

	grid, err := svc.Occupancy(ctx, day("2024-03-01"))
	require.NoError(t, err)
	require.Contains(t, grid, "tent_zone")
	assert.Equal(t, 4, grid["tent_zone"][9].Quantity)
	assert.False(t, grid["room_a"][9].Occupied)
}
