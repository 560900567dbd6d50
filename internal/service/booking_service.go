package service

import (
	"context"
	"time"

	"onhostel/internal/dates"
	"onhostel/internal/domain"
	"onhostel/internal/events"
	"onhostel/internal/metrics"
	"onhostel/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// BookingService ведет бронирования. Запись замещается целиком при
// редактировании, id и createdAt сохраняются.
type BookingService struct {
	store    domain.Store
	eventBus domain.EventPublisher
	worker   domain.SyncWorker
	units    map[string]models.Unit
	logger   *zerolog.Logger
}

func NewBookingService(store domain.Store, eventBus domain.EventPublisher, worker domain.SyncWorker, units []models.Unit, logger *zerolog.Logger) *BookingService {
	byID := make(map[string]models.Unit, len(units))
	for _, u := range units {
		byID[u.ID] = u
	}
	return &BookingService{
		store:    store,
		eventBus: eventBus,
		worker:   worker,
		units:    byID,
		logger:   logger,
	}
}

func (s *BookingService) GetBookings(ctx context.Context) ([]models.Booking, error) {
	return s.store.GetBookings(ctx)
}

func (s *BookingService) validate(booking *models.Booking) error {
	if booking.UnitID == "" {
		return ErrMissingUnit
	}
	if _, ok := s.units[booking.UnitID]; !ok {
		return ErrUnknownUnit
	}
	if booking.GuestName == "" {
		return ErrMissingGuestName
	}
	if dates.Day(booking.CheckOut).Before(dates.Day(booking.CheckIn)) {
		return ErrInvalidDates
	}
	return nil
}

// normalize приводит запись к инвариантам формы: даты без времени суток,
// quantity минимум 1, remaining = total - deposit.
func (s *BookingService) normalize(booking *models.Booking) {
	booking.CheckIn = dates.Day(booking.CheckIn)
	booking.CheckOut = dates.Day(booking.CheckOut)
	if booking.Quantity < 1 {
		booking.Quantity = 1
	}
	booking.Remaining = booking.Total - booking.Deposit
}

func (s *BookingService) CreateBooking(ctx context.Context, booking *models.Booking) error {
	if err := s.validate(booking); err != nil {
		return err
	}
	s.normalize(booking)

	if booking.ID == "" {
		booking.ID = uuid.NewString()
	}
	if booking.CreatedAt.IsZero() {
		booking.CreatedAt = time.Now()
	}

	if err := s.store.CreateBooking(ctx, booking); err != nil {
		return err
	}
	metrics.IncWrite(models.CollectionBookings, "create")
	s.publishEvent(events.EventBookingCreated, booking.ID)
	s.enqueueUpsert(ctx, booking)
	return nil
}

func (s *BookingService) UpdateBooking(ctx context.Context, booking *models.Booking) error {
	if err := s.validate(booking); err != nil {
		return err
	}
	s.normalize(booking)

	if err := s.store.UpdateBooking(ctx, booking); err != nil {
		return err
	}
	metrics.IncWrite(models.CollectionBookings, "update")
	s.publishEvent(events.EventBookingUpdated, booking.ID)
	s.enqueueUpsert(ctx, booking)
	return nil
}

func (s *BookingService) DeleteBooking(ctx context.Context, id string) error {
	if err := s.store.DeleteBooking(ctx, id); err != nil {
		return err
	}
	metrics.IncWrite(models.CollectionBookings, "delete")
	s.publishEvent(events.EventBookingDeleted, id)

	if s.worker != nil {
		if err := s.worker.EnqueueDelete(ctx, models.CollectionBookings, id); err != nil {
			s.logger.Error().Err(err).Str("booking_id", id).Msg("sync enqueue error")
		}
	}
	return nil
}

// Occupancy возвращает сетку занятости за месяц по всем объектам.
func (s *BookingService) Occupancy(ctx context.Context, month time.Time) (map[string][]UnitDay, error) {
	bookings, err := s.store.GetBookings(ctx)
	if err != nil {
		return nil, err
	}

	units := make([]models.Unit, 0, len(s.units))
	for _, u := range s.units {
		units = append(units, u)
	}
	return OccupancyGrid(month, units, bookings), nil
}

func (s *BookingService) publishEvent(eventType, bookingID string) {
	if s.eventBus == nil {
		return
	}
	payload := events.RecordEventPayload{Collection: models.CollectionBookings, RecordID: bookingID}
	if err := s.eventBus.PublishJSON(eventType, payload); err != nil {
		s.logger.Error().Err(err).Str("event_type", eventType).Str("booking_id", bookingID).Msg("publish event error")
	}
}

func (s *BookingService) enqueueUpsert(ctx context.Context, booking *models.Booking) {
	if s.worker == nil {
		return
	}
	if err := s.worker.EnqueueUpsert(ctx, models.CollectionBookings, booking.ID, booking); err != nil {
		s.logger.Error().Err(err).Str("booking_id", booking.ID).Msg("sync enqueue error")
	}
}
