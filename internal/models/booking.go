package models

import "time"

// Booking хранит бронирование единицы размещения. CheckIn и CheckOut --
// календарные дни, время суток в сравнениях не участвует.
type Booking struct {
	ID         string    `json:"id" bson:"_id"`
	UnitID     string    `json:"unit_id" bson:"unit_id"`
	CheckIn    time.Time `json:"check_in" bson:"check_in"`
	CheckOut   time.Time `json:"check_out" bson:"check_out"`
	GuestName  string    `json:"guest_name" bson:"guest_name"`
	GuestCount int       `json:"guest_count" bson:"guest_count"`
	Quantity   int       `json:"quantity" bson:"quantity"` // мест в кемпинге, по умолчанию 1
	GuestDoc   string    `json:"guest_doc,omitempty" bson:"guest_doc,omitempty"`
	Deposit    float64   `json:"deposit" bson:"deposit"`
	Remaining  float64   `json:"remaining" bson:"remaining"`
	Total      float64   `json:"total" bson:"total"`
	Notes      string    `json:"notes,omitempty" bson:"notes,omitempty"`
	CreatedAt  time.Time `json:"created_at" bson:"created_at"`
}

// SlotQuantity возвращает количество занимаемых мест (минимум 1).
func (b Booking) SlotQuantity() int {
	if b.Quantity < 1 {
		return 1
	}
	return b.Quantity
}
