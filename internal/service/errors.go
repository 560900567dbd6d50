package service

import (
	"errors"
	"fmt"
)

// Ошибки валидации. Возвращаются до какой-либо записи состояния.
var (
	ErrMissingUnit      = errors.New("unit is required")
	ErrUnknownUnit      = errors.New("unknown unit")
	ErrMissingGuestName = errors.New("guest name is required")
	ErrInvalidDates     = errors.New("check-out must not be before check-in")
	ErrMissingAmount    = errors.New("amount must be positive")
	ErrMissingDesc      = errors.New("description is required")
	ErrInvalidPayment   = errors.New("unknown payment method")
	ErrInvalidTxType    = errors.New("unknown transaction type")
	ErrMissingEmployee  = errors.New("employee is required")
	ErrInvalidQuantity  = errors.New("quantity must be positive")
	ErrMissingName      = errors.New("name is required")
)

// InsufficientStockError возвращается, когда продажа превышает остаток.
// Несет имя товара и доступное количество для сообщения в форме.
type InsufficientStockError struct {
	ItemName  string
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %q: %d available", e.ItemName, e.Available)
}

// IsInsufficientStock сообщает, является ли ошибка нехваткой остатка.
func IsInsufficientStock(err error) bool {
	var target *InsufficientStockError
	return errors.As(err, &target)
}
