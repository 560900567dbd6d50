package service

import (
	"context"
	"time"

	"onhostel/internal/dates"
	"onhostel/internal/domain"
	"onhostel/internal/models"

	"github.com/rs/zerolog"
)

// FinanceService собирает месячные сводки по данным зеркала. Сами
// вычисления чистые и пересчитываются на каждый запрос, промежуточные
// агрегаты нигде не хранятся.
type FinanceService struct {
	store    domain.Store
	sessions domain.SessionRepository
	logger   *zerolog.Logger
}

func NewFinanceService(store domain.Store, sessions domain.SessionRepository, logger *zerolog.Logger) *FinanceService {
	return &FinanceService{
		store:    store,
		sessions: sessions,
		logger:   logger,
	}
}

// collections читает три коллекции зеркала. Ошибка чтения дает пустую
// коллекцию, сводка продолжает строиться по остальным данным.
func (s *FinanceService) collections(ctx context.Context) ([]models.Booking, []models.Expense, []models.SenderoRecord, error) {
	bookings, err := s.store.GetBookings(ctx)
	if err != nil {
		s.logger.Warn().Err(err).Msg("read bookings for summary")
		bookings = nil
	}
	expenses, err := s.store.GetExpenses(ctx)
	if err != nil {
		s.logger.Warn().Err(err).Msg("read expenses for summary")
		expenses = nil
	}
	senderoRecords, err := s.store.GetSenderoRecords(ctx)
	if err != nil {
		s.logger.Warn().Err(err).Msg("read sendero records for summary")
		senderoRecords = nil
	}
	return bookings, expenses, senderoRecords, nil
}

// MonthlySummary возвращает сводку за месяц вместе с приростом дохода
// к предыдущему месяцу.
func (s *FinanceService) MonthlySummary(ctx context.Context, month time.Time) (*models.MonthlySummary, float64, error) {
	bookings, expenses, senderoRecords, err := s.collections(ctx)
	if err != nil {
		return nil, 0, err
	}

	current := Aggregate(month, bookings, expenses, senderoRecords)
	previous := Aggregate(dates.AddMonths(month, -1), bookings, expenses, senderoRecords)
	return current, Growth(current.TotalIncome, previous.TotalIncome), nil
}

// MovementsPage -- страница ленты движений.
type MovementsPage struct {
	Movements []models.Movement `json:"movements"`
	Page      int               `json:"page"`
	PageCount int               `json:"page_count"`
	Total     int               `json:"total"`
}

// Movements возвращает страницу отфильтрованной ленты за месяц и
// запоминает месяц, запрос и позицию в сессионном контексте.
func (s *FinanceService) Movements(ctx context.Context, userID string, month time.Time, query string, page int) (*MovementsPage, error) {
	summary, _, err := s.MonthlySummary(ctx, month)
	if err != nil {
		return nil, err
	}

	filtered := FilterMovements(summary.Movements, query)
	if page < 1 {
		page = 1
	}
	items, pageCount := PaginateMovements(filtered, page)

	s.rememberView(ctx, userID, month, query, page)

	return &MovementsPage{
		Movements: items,
		Page:      page,
		PageCount: pageCount,
		Total:     len(filtered),
	}, nil
}

// TrendWindow возвращает скользящее окно помесячных итогов для графиков,
// от старых месяцев к новым.
func (s *FinanceService) TrendWindow(ctx context.Context, month time.Time) ([]models.MonthBucket, error) {
	bookings, expenses, senderoRecords, err := s.collections(ctx)
	if err != nil {
		return nil, err
	}
	return Trend(month, models.TrendMonths, bookings, expenses, senderoRecords), nil
}

// BarSummary возвращает сводку кассы бара за месяц.
func (s *FinanceService) BarSummary(ctx context.Context, month time.Time) (*models.BarMonthlySummary, error) {
	txs, err := s.store.GetBarTransactions(ctx)
	if err != nil {
		return nil, err
	}
	return AggregateBar(month, txs), nil
}

func (s *FinanceService) rememberView(ctx context.Context, userID string, month time.Time, query string, page int) {
	if s.sessions == nil || userID == "" {
		return
	}

	session, err := s.sessions.GetSession(ctx, userID)
	if err != nil {
		s.logger.Warn().Err(err).Str("user_id", userID).Msg("load session for view state")
		return
	}
	if session == nil {
		session = &models.SessionContext{UserID: userID}
	}

	session.SelectedMonth = dates.StartOfMonth(month)
	session.MovementsQuery = query
	session.MovementsPage = page
	if err := s.sessions.SetSession(ctx, session); err != nil {
		s.logger.Warn().Err(err).Str("user_id", userID).Msg("save session view state")
	}
}
