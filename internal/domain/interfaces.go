package domain

import (
	"context"
	"time"

	"onhostel/internal/models"
)

// Store -- локальное зеркало коллекций. Методы Replace* используются только
// шагом полной ресинхронизации (зеркало <- удаленный источник).
type Store interface {
	GetBookings(ctx context.Context) ([]models.Booking, error)
	CreateBooking(ctx context.Context, booking *models.Booking) error
	UpdateBooking(ctx context.Context, booking *models.Booking) error
	DeleteBooking(ctx context.Context, id string) error
	ReplaceBookings(ctx context.Context, bookings []models.Booking) error

	GetExpenses(ctx context.Context) ([]models.Expense, error)
	CreateExpense(ctx context.Context, expense *models.Expense) error
	DeleteExpense(ctx context.Context, id string) error
	ReplaceExpenses(ctx context.Context, expenses []models.Expense) error

	GetSenderoRecords(ctx context.Context) ([]models.SenderoRecord, error)
	CreateSenderoRecord(ctx context.Context, record *models.SenderoRecord) error
	DeleteSenderoRecord(ctx context.Context, id string) error
	ReplaceSenderoRecords(ctx context.Context, records []models.SenderoRecord) error

	GetBarTransactions(ctx context.Context) ([]models.BarTransaction, error)
	GetBarTransaction(ctx context.Context, id string) (*models.BarTransaction, error)
	CreateBarTransaction(ctx context.Context, tx *models.BarTransaction) error
	UpdateBarTransaction(ctx context.Context, tx *models.BarTransaction) error
	DeleteBarTransaction(ctx context.Context, id string) error
	ReplaceBarTransactions(ctx context.Context, txs []models.BarTransaction) error

	GetBarInventory(ctx context.Context) ([]models.BarInventoryItem, error)
	GetBarInventoryItem(ctx context.Context, id string) (*models.BarInventoryItem, error)
	CreateBarInventoryItem(ctx context.Context, item *models.BarInventoryItem) error
	UpdateBarInventoryItem(ctx context.Context, item *models.BarInventoryItem) error
	DeleteBarInventoryItem(ctx context.Context, id string) error
	ReplaceBarInventory(ctx context.Context, items []models.BarInventoryItem) error
}

// Snapshot -- полное состояние удаленного источника на момент чтения.
type Snapshot struct {
	Bookings       []models.Booking
	Expenses       []models.Expense
	SenderoRecords []models.SenderoRecord
	BarTxs         []models.BarTransaction
	BarInventory   []models.BarInventoryItem
	TakenAt        time.Time
}

// RemoteStore -- удаленная документная база. Записи -- простые документы,
// ключ -- поле id; проверок версий нет, последняя запись побеждает.
type RemoteStore interface {
	Upsert(ctx context.Context, collection, id string, record any) error
	Delete(ctx context.Context, collection, id string) error
	FetchSnapshot(ctx context.Context) (*Snapshot, error)
	Ping(ctx context.Context) error
}

// SessionRepository хранит сессионный контекст пользователей панели.
type SessionRepository interface {
	GetSession(ctx context.Context, userID string) (*models.SessionContext, error)
	SetSession(ctx context.Context, session *models.SessionContext) error
	ClearSession(ctx context.Context, userID string) error
	CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

// SyncWorker принимает задачи на репликацию в удаленную базу. Постановка
// задачи никогда не блокирует вызывающий код дольше локальной записи.
type SyncWorker interface {
	EnqueueUpsert(ctx context.Context, collection, recordID string, record any) error
	EnqueueDelete(ctx context.Context, collection, recordID string) error
}

// EventPublisher -- внутрипроцессная шина событий.
type EventPublisher interface {
	PublishJSON(eventType string, payload any) error
}

// SummaryPublisher публикует готовую месячную сводку во внешний документ
// (Google-таблица). Ошибки публикации только логируются.
type SummaryPublisher interface {
	PublishSummary(ctx context.Context, summary *models.MonthlySummary) error
}

// Identity -- поставщик аутентификации панели.
type Identity interface {
	SignIn(ctx context.Context, email, password string) (token string, userID string, err error)
	SignOut(ctx context.Context, userID string) error
	Verify(token string) (userID string, err error)
}
