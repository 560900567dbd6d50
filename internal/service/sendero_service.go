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

// SenderoService ведет журнал пеших экскурсий. Только добавление
// и удаление; выручка записи считается как personCount * pricePerPerson.
type SenderoService struct {
	store    domain.Store
	eventBus domain.EventPublisher
	worker   domain.SyncWorker
	logger   *zerolog.Logger
}

func NewSenderoService(store domain.Store, eventBus domain.EventPublisher, worker domain.SyncWorker, logger *zerolog.Logger) *SenderoService {
	return &SenderoService{
		store:    store,
		eventBus: eventBus,
		worker:   worker,
		logger:   logger,
	}
}

func (s *SenderoService) GetRecords(ctx context.Context) ([]models.SenderoRecord, error) {
	return s.store.GetSenderoRecords(ctx)
}

func (s *SenderoService) validate(record *models.SenderoRecord) error {
	if record.Employee == "" {
		return ErrMissingEmployee
	}
	if record.PersonCount <= 0 {
		return ErrInvalidQuantity
	}
	if record.PricePerPerson < 0 {
		return ErrMissingAmount
	}
	return nil
}

func (s *SenderoService) CreateRecord(ctx context.Context, record *models.SenderoRecord) error {
	if err := s.validate(record); err != nil {
		return err
	}

	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.Date.IsZero() {
		record.Date = time.Now()
	}
	record.Date = dates.Day(record.Date)
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now()
	}

	if err := s.store.CreateSenderoRecord(ctx, record); err != nil {
		return err
	}
	metrics.IncWrite(models.CollectionSendero, "create")
	s.publishEvent(events.EventSenderoCreated, record.ID)

	if s.worker != nil {
		if err := s.worker.EnqueueUpsert(ctx, models.CollectionSendero, record.ID, record); err != nil {
			s.logger.Error().Err(err).Str("record_id", record.ID).Msg("sync enqueue error")
		}
	}
	return nil
}

func (s *SenderoService) DeleteRecord(ctx context.Context, id string) error {
	if err := s.store.DeleteSenderoRecord(ctx, id); err != nil {
		return err
	}
	metrics.IncWrite(models.CollectionSendero, "delete")
	s.publishEvent(events.EventSenderoDeleted, id)

	if s.worker != nil {
		if err := s.worker.EnqueueDelete(ctx, models.CollectionSendero, id); err != nil {
			s.logger.Error().Err(err).Str("record_id", id).Msg("sync enqueue error")
		}
	}
	return nil
}

func (s *SenderoService) publishEvent(eventType, recordID string) {
	if s.eventBus == nil {
		return
	}
	payload := events.RecordEventPayload{Collection: models.CollectionSendero, RecordID: recordID}
	if err := s.eventBus.PublishJSON(eventType, payload); err != nil {
		s.logger.Error().Err(err).Str("event_type", eventType).Str("record_id", recordID).Msg("publish event error")
	}
}
