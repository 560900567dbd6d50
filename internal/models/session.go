package models

import "time"

// SessionContext хранит состояние интерфейса для одного пользователя между
// запросами: выбранный месяц, последние введенные значения форм, позиция
// пагинации. Сбрасывается при выходе из системы.
type SessionContext struct {
	UserID            string    `json:"user_id"`
	SelectedMonth     time.Time `json:"selected_month"`
	LastExpenseDate   time.Time `json:"last_expense_date"`
	LastExpenseMethod string    `json:"last_expense_method"`
	MovementsQuery    string    `json:"movements_query"`
	MovementsPage     int       `json:"movements_page"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// ExpenseDateOrDefault возвращает запомненную дату расхода либо fallback,
// если контекст пуст.
func (s *SessionContext) ExpenseDateOrDefault(fallback time.Time) time.Time {
	if s == nil || s.LastExpenseDate.IsZero() {
		return fallback
	}
	return s.LastExpenseDate
}

// ExpenseMethodOrDefault возвращает запомненный способ оплаты либо cash.
func (s *SessionContext) ExpenseMethodOrDefault() string {
	if s == nil || s.LastExpenseMethod == "" {
		return PaymentCash
	}
	return s.LastExpenseMethod
}
