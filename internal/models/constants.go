package models

const (
	UnitKindRoom      = "room"
	UnitKindHouse     = "house"
	UnitKindTent      = "tent"
	UnitKindMotorhome = "motorhome"
)

const (
	TransactionIncome  = "income"
	TransactionExpense = "expense"
)

const (
	PaymentCash     = "cash"
	PaymentTransfer = "transfer"
)

const (
	CollectionBookings     = "bookings"
	CollectionExpenses     = "expenses"
	CollectionSendero      = "sendero_records"
	CollectionBarTxs       = "bar_transactions"
	CollectionBarInventory = "bar_inventory"
)

const (
	// DefaultSessionTTL время жизни сессионного контекста в Redis
	DefaultSessionTTL = 24 * 60 * 60 // 24 часа в секундах

	// MovementsPageSize размер страницы ленты движений
	MovementsPageSize = 15

	// TrendMonths размер скользящего окна для графиков
	TrendMonths = 12

	// WorkerQueueSize размер очереди воркера синхронизации
	WorkerQueueSize = 1000

	// RateLimitRequests количество запросов в окне
	RateLimitRequests = 60

	// RateLimitWindow окно ограничения частоты запросов
	RateLimitWindow = 60 // 1 минута в секундах
)

// Collections перечисляет все коллекции, участвующие в синхронизации
var Collections = []string{
	CollectionBookings,
	CollectionExpenses,
	CollectionSendero,
	CollectionBarTxs,
	CollectionBarInventory,
}
