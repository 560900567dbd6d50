package service

import (
	"time"

	"onhostel/internal/dates"
	"onhostel/internal/models"
)

// Занятость считается по календарным дням: время суток не участвует
// в сравнении. Функции чистые, вызываются на каждую ячейку календаря.

// coversDay сообщает, покрывает ли бронирование день d.
// Интервал полуоткрытый [checkIn, checkOut); однодневное бронирование
// с checkIn == checkOut занимает ровно этот день.
func coversDay(booking *models.Booking, d time.Time) bool {
	day := dates.Day(d)
	checkIn := dates.Day(booking.CheckIn)
	checkOut := dates.Day(booking.CheckOut)

	if checkIn.Equal(checkOut) {
		return day.Equal(checkIn)
	}
	return !day.Before(checkIn) && day.Before(checkOut)
}

// IsOccupied сообщает, занят ли объект unitID в день d.
func IsOccupied(d time.Time, unitID string, bookings []models.Booking) bool {
	for i := range bookings {
		if bookings[i].UnitID == unitID && coversDay(&bookings[i], d) {
			return true
		}
	}
	return false
}

// OccupiedQuantity возвращает суммарное число мест, занятых в объекте
// unitID в день d. Для общих объектов (кемпинг) бронирования складываются,
// для эксклюзивных результат совпадает с IsOccupied в смысле > 0.
func OccupiedQuantity(d time.Time, unitID string, bookings []models.Booking) int {
	total := 0
	for i := range bookings {
		if bookings[i].UnitID == unitID && coversDay(&bookings[i], d) {
			total += bookings[i].SlotQuantity()
		}
	}
	return total
}

// UnitDay -- одна ячейка сетки занятости.
type UnitDay struct {
	Date     time.Time `json:"date"`
	Occupied bool      `json:"occupied"`
	Quantity int       `json:"quantity"`
}

// OccupancyGrid строит сетку занятости за календарный месяц: для каждого
// объекта список дней с флагом занятости и суммарным количеством мест.
func OccupancyGrid(month time.Time, units []models.Unit, bookings []models.Booking) map[string][]UnitDay {
	start := dates.StartOfMonth(month)
	end := dates.EndOfMonth(month)

	grid := make(map[string][]UnitDay, len(units))
	for _, unit := range units {
		var days []UnitDay
		for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
			qty := OccupiedQuantity(d, unit.ID, bookings)
			days = append(days, UnitDay{
				Date:     d,
				Occupied: qty > 0,
				Quantity: qty,
			})
		}
		grid[unit.ID] = days
	}
	return grid
}
