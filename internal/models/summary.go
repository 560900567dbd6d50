package models

import "time"

const (
	MovementBooking = "booking"
	MovementSendero = "sendero"
	MovementExpense = "expense"
)

// Movement -- одна строка единой ленты движений за месяц. Amount
// положительный для доходов и отрицательный для расходов.
type Movement struct {
	Date        time.Time `json:"date"`
	Category    string    `json:"category"`
	Description string    `json:"description"`
	Amount      float64   `json:"amount"`
}

// MonthlySummary -- финансовая сводка за календарный месяц.
type MonthlySummary struct {
	Month             time.Time  `json:"month"`
	BookingIncome     float64    `json:"booking_income"`
	SenderoIncome     float64    `json:"sendero_income"`
	TotalIncome       float64    `json:"total_income"`
	PendingCollection float64    `json:"pending_collection"`
	TotalExpenses     float64    `json:"total_expenses"`
	NetProfit         float64    `json:"net_profit"`
	Movements         []Movement `json:"movements"`
}

// MonthBucket -- точка скользящего окна для графиков доход/расход.
type MonthBucket struct {
	Month   time.Time `json:"month"`
	Income  float64   `json:"income"`
	Expense float64   `json:"expense"`
	Profit  float64   `json:"profit"`
}

// BarMonthlySummary -- сводка кассы бара за месяц.
type BarMonthlySummary struct {
	Month        time.Time        `json:"month"`
	TotalIncome  float64          `json:"total_income"`
	TotalExpense float64          `json:"total_expense"`
	Balance      float64          `json:"balance"`
	Transactions []BarTransaction `json:"transactions"`
}
