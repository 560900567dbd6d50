package service

import (
	"context"
	"time"

	"onhostel/internal/domain"
	"onhostel/internal/events"
	"onhostel/internal/metrics"
	"onhostel/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// BarService ведет кассу бара и согласует остатки склада с историей
// операций. Запись операции и корректировка остатка -- две независимые
// записи, между ними нет транзакции; валидация выполняется до первой.
type BarService struct {
	store    domain.Store
	eventBus domain.EventPublisher
	worker   domain.SyncWorker
	logger   *zerolog.Logger
}

func NewBarService(store domain.Store, eventBus domain.EventPublisher, worker domain.SyncWorker, logger *zerolog.Logger) *BarService {
	return &BarService{
		store:    store,
		eventBus: eventBus,
		worker:   worker,
		logger:   logger,
	}
}

func (s *BarService) GetTransactions(ctx context.Context) ([]models.BarTransaction, error) {
	return s.store.GetBarTransactions(ctx)
}

func (s *BarService) GetInventory(ctx context.Context) ([]models.BarInventoryItem, error) {
	return s.store.GetBarInventory(ctx)
}

func (s *BarService) validateTransaction(tx *models.BarTransaction) error {
	if tx.Type != models.TransactionIncome && tx.Type != models.TransactionExpense {
		return ErrInvalidTxType
	}
	if tx.Description == "" {
		return ErrMissingDesc
	}
	if tx.Amount <= 0 {
		return ErrMissingAmount
	}
	if tx.IsFromInventory && tx.Quantity < 0 {
		return ErrInvalidQuantity
	}
	return nil
}

// isSale сообщает, является ли операция продажей со склада.
func isSale(tx *models.BarTransaction) bool {
	return tx.Type == models.TransactionIncome && tx.IsFromInventory && tx.InventoryItemID != ""
}

// CreateTransaction проверяет остаток до каких-либо записей, затем пишет
// операцию и списывает количество со склада.
func (s *BarService) CreateTransaction(ctx context.Context, tx *models.BarTransaction) error {
	if err := s.validateTransaction(tx); err != nil {
		return err
	}

	if tx.ID == "" {
		tx.ID = uuid.NewString()
	}
	if tx.Date.IsZero() {
		tx.Date = time.Now()
	}
	if tx.CreatedAt.IsZero() {
		tx.CreatedAt = time.Now()
	}

	if isSale(tx) {
		item, err := s.store.GetBarInventoryItem(ctx, tx.InventoryItemID)
		if err != nil {
			return err
		}
		qty := tx.SaleQuantity()
		if qty > item.CurrentStock {
			return &InsufficientStockError{ItemName: item.Name, Available: item.CurrentStock}
		}
	}

	if err := s.store.CreateBarTransaction(ctx, tx); err != nil {
		return err
	}
	metrics.IncWrite(models.CollectionBarTxs, "create")
	s.publishRecordEvent(events.EventBarTxCreated, models.CollectionBarTxs, tx.ID)
	s.enqueueUpsert(ctx, models.CollectionBarTxs, tx.ID, tx)

	if isSale(tx) {
		s.adjustStock(ctx, tx.InventoryItemID, -tx.SaleQuantity())
	}

	return nil
}

// UpdateTransaction замещает операцию целиком и досогласует остаток.
// Если операция остается продажей того же товара, к остатку применяется
// разница количеств; уход из продажи (смена типа или отвязка от склада)
// безусловно возвращает старое количество на склад.
func (s *BarService) UpdateTransaction(ctx context.Context, tx *models.BarTransaction) error {
	if err := s.validateTransaction(tx); err != nil {
		return err
	}

	old, err := s.store.GetBarTransaction(ctx, tx.ID)
	if err != nil {
		return err
	}
	tx.CreatedAt = old.CreatedAt

	oldSale := isSale(old)
	newSale := isSale(tx)

	// Валидация остатка до записи. Старое количество той же продажи
	// считается доступным: оно будет возвращено разницей.
	if newSale {
		item, err := s.store.GetBarInventoryItem(ctx, tx.InventoryItemID)
		if err != nil {
			return err
		}
		available := item.CurrentStock
		if oldSale && old.InventoryItemID == tx.InventoryItemID {
			available += old.SaleQuantity()
		}
		if tx.SaleQuantity() > available {
			return &InsufficientStockError{ItemName: item.Name, Available: available}
		}
	}

	if err := s.store.UpdateBarTransaction(ctx, tx); err != nil {
		return err
	}
	metrics.IncWrite(models.CollectionBarTxs, "update")
	s.publishRecordEvent(events.EventBarTxUpdated, models.CollectionBarTxs, tx.ID)
	s.enqueueUpsert(ctx, models.CollectionBarTxs, tx.ID, tx)

	switch {
	case oldSale && newSale && old.InventoryItemID == tx.InventoryItemID:
		if delta := old.SaleQuantity() - tx.SaleQuantity(); delta != 0 {
			s.adjustStock(ctx, tx.InventoryItemID, delta)
		}
	case oldSale && newSale:
		// Продажа перевелась на другой товар.
		s.adjustStock(ctx, old.InventoryItemID, old.SaleQuantity())
		s.adjustStock(ctx, tx.InventoryItemID, -tx.SaleQuantity())
	case oldSale:
		s.adjustStock(ctx, old.InventoryItemID, old.SaleQuantity())
	case newSale:
		s.adjustStock(ctx, tx.InventoryItemID, -tx.SaleQuantity())
	}

	return nil
}

// DeleteTransaction удаляет операцию; продажа возвращает количество
// (по умолчанию 1) на склад.
func (s *BarService) DeleteTransaction(ctx context.Context, id string) error {
	old, err := s.store.GetBarTransaction(ctx, id)
	if err != nil {
		return err
	}

	if err := s.store.DeleteBarTransaction(ctx, id); err != nil {
		return err
	}
	metrics.IncWrite(models.CollectionBarTxs, "delete")
	s.publishRecordEvent(events.EventBarTxDeleted, models.CollectionBarTxs, id)
	s.enqueueDelete(ctx, models.CollectionBarTxs, id)

	if old.IsFromInventory && old.InventoryItemID != "" {
		s.adjustStock(ctx, old.InventoryItemID, old.SaleQuantity())
	}

	return nil
}

// adjustStock применяет дельту к остатку с нижней границей 0. Ошибка
// не возвращается: запись операции уже состоялась, расхождение остатка
// логируется как принятая слабость двух независимых записей.
func (s *BarService) adjustStock(ctx context.Context, itemID string, delta int) {
	item, err := s.store.GetBarInventoryItem(ctx, itemID)
	if err != nil {
		s.logger.Error().Err(err).Str("item_id", itemID).Int("delta", delta).Msg("stock adjust: load item")
		return
	}

	newStock := item.CurrentStock + delta
	if newStock < 0 {
		newStock = 0
	}
	item.CurrentStock = newStock

	if err := s.store.UpdateBarInventoryItem(ctx, item); err != nil {
		s.logger.Error().Err(err).Str("item_id", itemID).Int("delta", delta).Msg("stock adjust: write item")
		return
	}
	metrics.IncWrite(models.CollectionBarInventory, "update")
	s.enqueueUpsert(ctx, models.CollectionBarInventory, item.ID, item)

	if s.eventBus != nil {
		payload := events.InventoryEventPayload{
			ItemID:   item.ID,
			ItemName: item.Name,
			Delta:    delta,
			NewStock: newStock,
		}
		if err := s.eventBus.PublishJSON(events.EventInventoryAdjusted, payload); err != nil {
			s.logger.Error().Err(err).Str("item_id", itemID).Msg("publish inventory event")
		}
	}
}

func (s *BarService) CreateItem(ctx context.Context, item *models.BarInventoryItem) error {
	if item.Name == "" {
		return ErrMissingName
	}
	if item.InitialStock < 0 || item.Price < 0 {
		return ErrMissingAmount
	}

	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	if item.CurrentStock == 0 {
		item.CurrentStock = item.InitialStock
	}
	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now()
	}

	if err := s.store.CreateBarInventoryItem(ctx, item); err != nil {
		return err
	}
	metrics.IncWrite(models.CollectionBarInventory, "create")
	s.enqueueUpsert(ctx, models.CollectionBarInventory, item.ID, item)
	return nil
}

func (s *BarService) UpdateItem(ctx context.Context, item *models.BarInventoryItem) error {
	if item.Name == "" {
		return ErrMissingName
	}

	old, err := s.store.GetBarInventoryItem(ctx, item.ID)
	if err != nil {
		return err
	}
	item.CreatedAt = old.CreatedAt
	if item.CurrentStock < 0 {
		item.CurrentStock = 0
	}

	if err := s.store.UpdateBarInventoryItem(ctx, item); err != nil {
		return err
	}
	metrics.IncWrite(models.CollectionBarInventory, "update")
	s.enqueueUpsert(ctx, models.CollectionBarInventory, item.ID, item)
	return nil
}

func (s *BarService) DeleteItem(ctx context.Context, id string) error {
	if err := s.store.DeleteBarInventoryItem(ctx, id); err != nil {
		return err
	}
	metrics.IncWrite(models.CollectionBarInventory, "delete")
	s.enqueueDelete(ctx, models.CollectionBarInventory, id)
	return nil
}

func (s *BarService) publishRecordEvent(eventType, collection, recordID string) {
	if s.eventBus == nil {
		return
	}
	payload := events.RecordEventPayload{Collection: collection, RecordID: recordID}
	if err := s.eventBus.PublishJSON(eventType, payload); err != nil {
		s.logger.Error().Err(err).Str("event_type", eventType).Str("record_id", recordID).Msg("publish event error")
	}
}

func (s *BarService) enqueueUpsert(ctx context.Context, collection, recordID string, record any) {
	if s.worker == nil {
		return
	}
	if err := s.worker.EnqueueUpsert(ctx, collection, recordID, record); err != nil {
		s.logger.Error().Err(err).Str("collection", collection).Str("record_id", recordID).Msg("sync enqueue error")
	}
}

func (s *BarService) enqueueDelete(ctx context.Context, collection, recordID string) {
	if s.worker == nil {
		return
	}
	if err := s.worker.EnqueueDelete(ctx, collection, recordID); err != nil {
		s.logger.Error().Err(err).Str("collection", collection).Str("record_id", recordID).Msg("sync enqueue error")
	}
}
