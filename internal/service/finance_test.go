package service

import (
	"fmt"
	"testing"

	"onhostel/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregateMonthlyTotals(t *testing.T) {
	month := day("2024-03-01")
	bookings := []models.Booking{
		{ID: "b1", UnitID: "room_a", CheckIn: day("2024-03-05"), CheckOut: day("2024-03-08"),
			GuestName: "Ana", Total: 1000, Deposit: 800, Remaining: 200},
		{ID: "b2", UnitID: "room_a", CheckIn: day("2024-04-01"), CheckOut: day("2024-04-03"),
			GuestName: "Luis", Total: 500, Remaining: 500},
	}
	expenses := []models.Expense{
		{ID: "e1", Date: day("2024-03-12"), Description: "Gas", Amount: 300, PaymentMethod: models.PaymentCash},
		{ID: "e2", Date: day("2024-02-28"), Description: "Leña", Amount: 50, PaymentMethod: models.PaymentCash},
	}

	summary := Aggregate(month, bookings, expenses, nil)

	assert.Equal(t, 1000.0, summary.TotalIncome)
	assert.Equal(t, 300.0, summary.TotalExpenses)
	assert.Equal(t, 700.0, summary.NetProfit)
	assert.Equal(t, 200.0, summary.PendingCollection)
	assert.Len(t, summary.Movements, 2, "records outside the month are excluded")
}

func TestAggregateIncludesSenderoRevenue(t *testing.T) {
	month := day("2024-03-01")
	records := []models.SenderoRecord{
		{ID: "s1", Employee: "Marta", PersonCount: 4, PricePerPerson: 10, Date: day("2024-03-20")},
	}

	summary := Aggregate(month, nil, nil, records)

	assert.Equal(t, 40.0, summary.SenderoIncome)
	assert.Equal(t, 40.0, summary.TotalIncome)
	require.Len(t, summary.Movements, 1)
	assert.Equal(t, models.MovementSendero, summary.Movements[0].Category)
	assert.Equal(t, 40.0, summary.Movements[0].Amount)
}

func TestAggregateMovementsSortedNewestFirst(t *testing.T) {
	month := day("2024-03-01")
	bookings := []models.Booking{
		{ID: "b1", UnitID: "room_a", CheckIn: day("2024-03-05"), CheckOut: day("2024-03-06"), GuestName: "Ana", Total: 100},
		{ID: "b2", UnitID: "room_a", CheckIn: day("2024-03-20"), CheckOut: day("2024-03-21"), GuestName: "Luis", Total: 200},
	}
	expenses := []models.Expense{
		{ID: "e1", Date: day("2024-03-05"), Description: "Gas", Amount: 30, PaymentMethod: models.PaymentCash},
	}

	summary := Aggregate(month, bookings, expenses, nil)

	require.Len(t, summary.Movements, 3)
	assert.Equal(t, "Luis", summary.Movements[0].Description)
	// Равные даты: порядок коллекций стабилен, бронирование раньше расхода.
	assert.Equal(t, "Ana", summary.Movements[1].Description)
	assert.Equal(t, "Gas", summary.Movements[2].Description)
	assert.Equal(t, -30.0, summary.Movements[2].Amount)
}

func TestFilterMovements(t *testing.T) {
	movements := []models.Movement{
		{Date: day("2024-03-05"), Category: models.MovementBooking, Description: "Ana García", Amount: 100},
		{Date: day("2024-03-06"), Category: models.MovementExpense, Description: "Gas", Amount: -30},
		{Date: day("2024-03-07"), Category: models.MovementSendero, Description: "Marta", Amount: 40},
	}

	assert.Len(t, FilterMovements(movements, ""), 3)
	assert.Len(t, FilterMovements(movements, "GARCÍA"), 1)
	assert.Len(t, FilterMovements(movements, "expense"), 1)
	assert.Len(t, FilterMovements(movements, "2024-03-07"), 1)
	assert.Len(t, FilterMovements(movements, "-30"), 1, "amount text matches")
	assert.Empty(t, FilterMovements(movements, "nothing"))
}

func TestPaginateMovements(t *testing.T) {
	movements := make([]models.Movement, 32)
	for i := range movements {
		movements[i] = models.Movement{Description: fmt.Sprintf("m%d", i)}
	}

	page1, pageCount := PaginateMovements(movements, 1)
	assert.Equal(t, 3, pageCount)
	assert.Len(t, page1, 15)

	page3, _ := PaginateMovements(movements, 3)
	assert.Len(t, page3, 2)

	page4, pageCount := PaginateMovements(movements, 4)
	assert.Equal(t, 3, pageCount)
	assert.Empty(t, page4, "out-of-range page is empty, not an error")

	page0, _ := PaginateMovements(movements, 0)
	assert.Empty(t, page0)

	empty, pageCount := PaginateMovements(nil, 1)
	assert.Empty(t, empty)
	assert.Equal(t, 0, pageCount)
}

func TestGrowth(t *testing.T) {
	assert.Equal(t, 0.0, Growth(500, 0), "zero previous income never divides")
	assert.Equal(t, 0.0, Growth(500, -10))
	assert.InDelta(t, 25.0, Growth(500, 400), 0.001)
	assert.InDelta(t, -50.0, Growth(200, 400), 0.001)
}

func TestTrendWindow(t *testing.T) {
	bookings := []models.Booking{
		{ID: "b1", UnitID: "room_a", CheckIn: day("2024-03-05"), CheckOut: day("2024-03-06"), GuestName: "Ana", Total: 100},
		{ID: "b2", UnitID: "room_a", CheckIn: day("2024-01-10"), CheckOut: day("2024-01-12"), GuestName: "Luis", Total: 250},
	}

	buckets := Trend(day("2024-03-15"), 12, bookings, nil, nil)

	require.Len(t, buckets, 12)
	assert.Equal(t, day("2023-04-01"), buckets[0].Month, "oldest month first")
	assert.Equal(t, day("2024-03-01"), buckets[11].Month)
	assert.Equal(t, 100.0, buckets[11].Income)
	assert.Equal(t, 250.0, buckets[9].Income, "January bucket")
	assert.Equal(t, 0.0, buckets[5].Income)
}

func TestAggregateBar(t *testing.T) {
	month := day("2024-03-01")
	txs := []models.BarTransaction{
		{ID: "t1", Type: models.TransactionIncome, Amount: 120, Date: day("2024-03-10"), Description: "Cervezas"},
		{ID: "t2", Type: models.TransactionExpense, Amount: 40, Date: day("2024-03-11"), Description: "Hielo"},
		{ID: "t3", Type: models.TransactionIncome, Amount: 99, Date: day("2024-04-01"), Description: "Fuera de mes"},
	}

	summary := AggregateBar(month, txs)

	assert.Equal(t, 120.0, summary.TotalIncome)
	assert.Equal(t, 40.0, summary.TotalExpense)
	assert.Equal(t, 80.0, summary.Balance)
	assert.Len(t, summary.Transactions, 2)
}
