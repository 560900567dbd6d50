package service

import (
	"context"
	"fmt"

	"onhostel/internal/domain"
	"onhostel/internal/events"

	"github.com/rs/zerolog"
)

// ResyncService выполняет полную пересборку зеркала из удаленного
// источника: зеркало = снимок удаленной базы на момент T. Это
// единственный механизм схождения между клиентами; выделен в явный шаг
// со своим каналом ошибок и не смешивается с обычной загрузкой данных.
type ResyncService struct {
	store    domain.Store
	remote   domain.RemoteStore
	eventBus domain.EventPublisher
	logger   *zerolog.Logger
}

func NewResyncService(store domain.Store, remote domain.RemoteStore, eventBus domain.EventPublisher, logger *zerolog.Logger) *ResyncService {
	return &ResyncService{
		store:    store,
		remote:   remote,
		eventBus: eventBus,
		logger:   logger,
	}
}

// Resync читает снимок и перезаписывает каждую коллекцию зеркала целиком.
// Локальные незасинхронизированные правки при этом теряются, последний
// снимок побеждает.
func (s *ResyncService) Resync(ctx context.Context) (*domain.Snapshot, error) {
	snapshot, err := s.remote.FetchSnapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch snapshot: %w", err)
	}

	if err := s.store.ReplaceBookings(ctx, snapshot.Bookings); err != nil {
		return nil, fmt.Errorf("replace bookings: %w", err)
	}
	if err := s.store.ReplaceExpenses(ctx, snapshot.Expenses); err != nil {
		return nil, fmt.Errorf("replace expenses: %w", err)
	}
	if err := s.store.ReplaceSenderoRecords(ctx, snapshot.SenderoRecords); err != nil {
		return nil, fmt.Errorf("replace sendero records: %w", err)
	}
	if err := s.store.ReplaceBarTransactions(ctx, snapshot.BarTxs); err != nil {
		return nil, fmt.Errorf("replace bar transactions: %w", err)
	}
	if err := s.store.ReplaceBarInventory(ctx, snapshot.BarInventory); err != nil {
		return nil, fmt.Errorf("replace bar inventory: %w", err)
	}

	counts := map[string]int{
		"bookings":         len(snapshot.Bookings),
		"expenses":         len(snapshot.Expenses),
		"sendero_records":  len(snapshot.SenderoRecords),
		"bar_transactions": len(snapshot.BarTxs),
		"bar_inventory":    len(snapshot.BarInventory),
	}
	s.logger.Info().Fields(map[string]any{"counts": counts}).Time("taken_at", snapshot.TakenAt).Msg("mirror resynced from remote")

	if s.eventBus != nil {
		payload := events.ResyncEventPayload{TakenAt: snapshot.TakenAt, Counts: counts}
		if err := s.eventBus.PublishJSON(events.EventResyncCompleted, payload); err != nil {
			s.logger.Error().Err(err).Msg("publish resync event")
		}
	}

	return snapshot, nil
}
