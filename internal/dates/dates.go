// Package dates содержит помощники для работы с календарными днями.
// Все сравнения в панели ведутся по дням, без времени суток, чтобы
// исключить дрейф из-за часовых поясов.
package dates

import "time"

const DayFormat = "2006-01-02"

// Day нормализует время к полуночи локального календарного дня.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// SameDay сравнивает два момента как календарные дни.
func SameDay(a, b time.Time) bool {
	return Day(a).Equal(Day(b))
}

// ParseDay разбирает строку формата YYYY-MM-DD в календарный день.
func ParseDay(s string) (time.Time, error) {
	return time.ParseInLocation(DayFormat, s, time.Local)
}

// FormatDay форматирует календарный день в YYYY-MM-DD.
func FormatDay(t time.Time) string {
	return t.Format(DayFormat)
}

// StartOfMonth возвращает первый день месяца, к которому относится t.
func StartOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// EndOfMonth возвращает последний день месяца, к которому относится t.
func EndOfMonth(t time.Time) time.Time {
	return StartOfMonth(t).AddDate(0, 1, -1)
}

// InMonth проверяет, попадает ли день t в месяц month (включительно по
// границам, сравнение по календарным дням).
func InMonth(t, month time.Time) bool {
	d := Day(t)
	return !d.Before(StartOfMonth(month)) && !d.After(EndOfMonth(month))
}

// AddMonths сдвигает месяц на n вперед или назад, оставаясь на первом числе.
func AddMonths(month time.Time, n int) time.Time {
	return StartOfMonth(month).AddDate(0, n, 0)
}
