package models

import "time"

// SenderoRecord хранит запись о проведенной экскурсии-сендеро.
// Записи только добавляются и удаляются.
type SenderoRecord struct {
	ID             string    `json:"id" bson:"_id"`
	Employee       string    `json:"employee" bson:"employee"`
	PersonCount    int       `json:"person_count" bson:"person_count"`
	PricePerPerson float64   `json:"price_per_person" bson:"price_per_person"`
	Hours          float64   `json:"hours" bson:"hours"`
	Date           time.Time `json:"date" bson:"date"`
	CreatedAt      time.Time `json:"created_at" bson:"created_at"`
}

// Revenue возвращает выручку экскурсии.
func (r SenderoRecord) Revenue() float64 {
	return float64(r.PersonCount) * r.PricePerPerson
}
