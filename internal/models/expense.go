package models

import "time"

// Expense хранит расход хостела. Записи только добавляются и удаляются,
// операции обновления нет.
type Expense struct {
	ID            string    `json:"id" bson:"_id"`
	Date          time.Time `json:"date" bson:"date"`
	Description   string    `json:"description" bson:"description"`
	Amount        float64   `json:"amount" bson:"amount"`
	PaymentMethod string    `json:"payment_method" bson:"payment_method"` // cash, transfer
	CreatedAt     time.Time `json:"created_at" bson:"created_at"`
}
