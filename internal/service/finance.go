package service

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"onhostel/internal/dates"
	"onhostel/internal/models"
)

// Aggregate строит финансовую сводку за календарный месяц. Записи
// фильтруются по дню заезда (бронирования) либо дню операции, сравнение
// календарное, без учета времени суток.
func Aggregate(month time.Time, bookings []models.Booking, expenses []models.Expense, senderoRecords []models.SenderoRecord) *models.MonthlySummary {
	summary := &models.MonthlySummary{Month: dates.StartOfMonth(month)}

	var movements []models.Movement

	for i := range bookings {
		b := &bookings[i]
		if !dates.InMonth(b.CheckIn, month) {
			continue
		}
		summary.BookingIncome += b.Total
		summary.PendingCollection += b.Remaining
		movements = append(movements, models.Movement{
			Date:        dates.Day(b.CheckIn),
			Category:    models.MovementBooking,
			Description: b.GuestName,
			Amount:      b.Total,
		})
	}

	for i := range senderoRecords {
		r := &senderoRecords[i]
		if !dates.InMonth(r.Date, month) {
			continue
		}
		revenue := r.Revenue()
		summary.SenderoIncome += revenue
		movements = append(movements, models.Movement{
			Date:        dates.Day(r.Date),
			Category:    models.MovementSendero,
			Description: r.Employee,
			Amount:      revenue,
		})
	}

	for i := range expenses {
		e := &expenses[i]
		if !dates.InMonth(e.Date, month) {
			continue
		}
		summary.TotalExpenses += e.Amount
		movements = append(movements, models.Movement{
			Date:        dates.Day(e.Date),
			Category:    models.MovementExpense,
			Description: e.Description,
			Amount:      -e.Amount,
		})
	}

	// Свежие сверху; при равных датах сохраняется порядок коллекций.
	sort.SliceStable(movements, func(i, j int) bool {
		return movements[i].Date.After(movements[j].Date)
	})

	summary.TotalIncome = summary.BookingIncome + summary.SenderoIncome
	summary.NetProfit = summary.TotalIncome - summary.TotalExpenses
	summary.Movements = movements
	return summary
}

// AggregateBar строит сводку кассы бара за месяц.
func AggregateBar(month time.Time, txs []models.BarTransaction) *models.BarMonthlySummary {
	summary := &models.BarMonthlySummary{Month: dates.StartOfMonth(month)}

	for i := range txs {
		tx := &txs[i]
		if !dates.InMonth(tx.Date, month) {
			continue
		}
		switch tx.Type {
		case models.TransactionIncome:
			summary.TotalIncome += tx.Amount
		case models.TransactionExpense:
			summary.TotalExpense += tx.Amount
		}
		summary.Transactions = append(summary.Transactions, *tx)
	}

	summary.Balance = summary.TotalIncome - summary.TotalExpense
	return summary
}

// FilterMovements оставляет записи, у которых дата, категория, описание
// или сумма содержат query без учета регистра. Пустой запрос возвращает
// ленту целиком.
func FilterMovements(movements []models.Movement, query string) []models.Movement {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return movements
	}

	var filtered []models.Movement
	for _, m := range movements {
		haystack := strings.ToLower(strings.Join([]string{
			dates.FormatDay(m.Date),
			m.Category,
			m.Description,
			strconv.FormatFloat(m.Amount, 'f', -1, 64),
		}, " "))
		if strings.Contains(haystack, query) {
			filtered = append(filtered, m)
		}
	}
	return filtered
}

// PaginateMovements возвращает страницу ленты (нумерация с 1) и общее
// число страниц. Запрос за пределами диапазона дает пустую страницу.
func PaginateMovements(movements []models.Movement, page int) ([]models.Movement, int) {
	pageCount := (len(movements) + models.MovementsPageSize - 1) / models.MovementsPageSize

	if page < 1 || page > pageCount {
		return nil, pageCount
	}

	start := (page - 1) * models.MovementsPageSize
	end := start + models.MovementsPageSize
	if end > len(movements) {
		end = len(movements)
	}
	return movements[start:end], pageCount
}

// Growth -- прирост дохода месяц к месяцу в процентах. При нулевом или
// отрицательном доходе прошлого месяца возвращает 0, а не бесконечность.
func Growth(current, previous float64) float64 {
	if previous <= 0 {
		return 0
	}
	return (current - previous) / previous * 100
}

// Trend строит скользящее окно помесячных итогов, заканчивающееся month,
// от старых к новым. Каждая точка считается тем же агрегатором.
func Trend(month time.Time, months int, bookings []models.Booking, expenses []models.Expense, senderoRecords []models.SenderoRecord) []models.MonthBucket {
	if months <= 0 {
		months = models.TrendMonths
	}

	buckets := make([]models.MonthBucket, 0, months)
	for i := months - 1; i >= 0; i-- {
		m := dates.AddMonths(dates.StartOfMonth(month), -i)
		s := Aggregate(m, bookings, expenses, senderoRecords)
		buckets = append(buckets, models.MonthBucket{
			Month:   m,
			Income:  s.TotalIncome,
			Expense: s.TotalExpenses,
			Profit:  s.NetProfit,
		})
	}
	return buckets
}
