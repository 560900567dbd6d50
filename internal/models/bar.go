package models

import "time"

// BarInventoryItem хранит позицию инвентаря бара. CurrentStock -- единственное
// часто изменяемое поле; инвариант CurrentStock >= 0 поддерживается кодом,
// но не хранилищем.
type BarInventoryItem struct {
	ID           string    `json:"id" bson:"_id"`
	Name         string    `json:"name" bson:"name"`
	Category     string    `json:"category" bson:"category"`
	InitialStock int       `json:"initial_stock" bson:"initial_stock"`
	CurrentStock int       `json:"current_stock" bson:"current_stock"`
	Price        float64   `json:"price" bson:"price"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
}

// BarTransaction хранит движение по кассе бара. Если IsFromInventory -- это
// продажа позиции инвентаря, и Quantity списывается со склада.
type BarTransaction struct {
	ID              string    `json:"id" bson:"_id"`
	Type            string    `json:"type" bson:"type"` // income, expense
	Quantity        int       `json:"quantity" bson:"quantity"`
	Amount          float64   `json:"amount" bson:"amount"`
	Description     string    `json:"description" bson:"description"`
	Date            time.Time `json:"date" bson:"date"`
	CreatedAt       time.Time `json:"created_at" bson:"created_at"`
	IsFromInventory bool      `json:"is_from_inventory,omitempty" bson:"is_from_inventory,omitempty"`
	InventoryItemID string    `json:"inventory_item_id,omitempty" bson:"inventory_item_id,omitempty"`
}

// SaleQuantity возвращает количество проданных единиц (минимум 1).
func (t BarTransaction) SaleQuantity() int {
	if t.Quantity < 1 {
		return 1
	}
	return t.Quantity
}
