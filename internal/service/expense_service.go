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

// ExpenseService ведет журнал расходов. Операции только добавление
// и удаление, редактирования нет.
type ExpenseService struct {
	store    domain.Store
	eventBus domain.EventPublisher
	worker   domain.SyncWorker
	sessions domain.SessionRepository
	logger   *zerolog.Logger
}

func NewExpenseService(store domain.Store, eventBus domain.EventPublisher, worker domain.SyncWorker, sessions domain.SessionRepository, logger *zerolog.Logger) *ExpenseService {
	return &ExpenseService{
		store:    store,
		eventBus: eventBus,
		worker:   worker,
		sessions: sessions,
		logger:   logger,
	}
}

func (s *ExpenseService) GetExpenses(ctx context.Context) ([]models.Expense, error) {
	return s.store.GetExpenses(ctx)
}

func (s *ExpenseService) validate(expense *models.Expense) error {
	if expense.Description == "" {
		return ErrMissingDesc
	}
	if expense.Amount <= 0 {
		return ErrMissingAmount
	}
	if expense.PaymentMethod != models.PaymentCash && expense.PaymentMethod != models.PaymentTransfer {
		return ErrInvalidPayment
	}
	return nil
}

// CreateExpense пишет расход и запоминает дату и способ оплаты в
// сессионном контексте пользователя для подстановки в следующую форму.
func (s *ExpenseService) CreateExpense(ctx context.Context, expense *models.Expense, userID string) error {
	if expense.PaymentMethod == "" {
		expense.PaymentMethod = models.PaymentCash
	}
	if err := s.validate(expense); err != nil {
		return err
	}

	if expense.ID == "" {
		expense.ID = uuid.NewString()
	}
	if expense.Date.IsZero() {
		expense.Date = time.Now()
	}
	expense.Date = dates.Day(expense.Date)
	if expense.CreatedAt.IsZero() {
		expense.CreatedAt = time.Now()
	}

	if err := s.store.CreateExpense(ctx, expense); err != nil {
		return err
	}
	metrics.IncWrite(models.CollectionExpenses, "create")
	s.publishEvent(events.EventExpenseCreated, expense.ID)
	s.enqueueUpsert(ctx, expense)
	s.rememberFormDefaults(ctx, userID, expense)
	return nil
}

func (s *ExpenseService) DeleteExpense(ctx context.Context, id string) error {
	if err := s.store.DeleteExpense(ctx, id); err != nil {
		return err
	}
	metrics.IncWrite(models.CollectionExpenses, "delete")
	s.publishEvent(events.EventExpenseDeleted, id)

	if s.worker != nil {
		if err := s.worker.EnqueueDelete(ctx, models.CollectionExpenses, id); err != nil {
			s.logger.Error().Err(err).Str("expense_id", id).Msg("sync enqueue error")
		}
	}
	return nil
}

// rememberFormDefaults сохраняет последние введенные значения формы.
// Ошибки хранилища сессий только логируются.
func (s *ExpenseService) rememberFormDefaults(ctx context.Context, userID string, expense *models.Expense) {
	if s.sessions == nil || userID == "" {
		return
	}

	session, err := s.sessions.GetSession(ctx, userID)
	if err != nil {
		s.logger.Warn().Err(err).Str("user_id", userID).Msg("load session for form defaults")
		return
	}
	if session == nil {
		session = &models.SessionContext{UserID: userID}
	}

	session.LastExpenseDate = expense.Date
	session.LastExpenseMethod = expense.PaymentMethod
	if err := s.sessions.SetSession(ctx, session); err != nil {
		s.logger.Warn().Err(err).Str("user_id", userID).Msg("save session form defaults")
	}
}

func (s *ExpenseService) publishEvent(eventType, expenseID string) {
	if s.eventBus == nil {
		return
	}
	payload := events.RecordEventPayload{Collection: models.CollectionExpenses, RecordID: expenseID}
	if err := s.eventBus.PublishJSON(eventType, payload); err != nil {
		s.logger.Error().Err(err).Str("event_type", eventType).Str("expense_id", expenseID).Msg("publish event error")
	}
}

func (s *ExpenseService) enqueueUpsert(ctx context.Context, expense *models.Expense) {
	if s.worker == nil {
		return
	}
	if err := s.worker.EnqueueUpsert(ctx, models.CollectionExpenses, expense.ID, expense); err != nil {
		s.logger.Error().Err(err).Str("expense_id", expense.ID).Msg("sync enqueue error")
	}
}
