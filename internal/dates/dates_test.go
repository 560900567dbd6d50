package dates

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDay(t *testing.T) {
	ts := time.Date(2024, 3, 10, 23, 59, 58, 0, time.Local)
	day := Day(ts)
	assert.Equal(t, 2024, day.Year())
	assert.Equal(t, time.March, day.Month())
	assert.Equal(t, 10, day.Day())
	assert.Equal(t, 0, day.Hour())
}

func TestSameDay(t *testing.T) {
	a := time.Date(2024, 3, 10, 0, 1, 0, 0, time.Local)
	b := time.Date(2024, 3, 10, 23, 0, 0, 0, time.Local)
	c := time.Date(2024, 3, 11, 0, 0, 0, 0, time.Local)

	assert.True(t, SameDay(a, b))
	assert.False(t, SameDay(a, c))
}

func TestParseDay(t *testing.T) {
	day, err := ParseDay("2024-03-10")
	require.NoError(t, err)
	assert.Equal(t, 2024, day.Year())
	assert.Equal(t, time.March, day.Month())
	assert.Equal(t, 10, day.Day())
	assert.Equal(t, "2024-03-10", FormatDay(day))

	_, err = ParseDay("10/03/2024")
	assert.Error(t, err)
}

func TestMonthBounds(t *testing.T) {
	mid := time.Date(2024, 2, 15, 12, 0, 0, 0, time.Local)

	assert.Equal(t, 1, StartOfMonth(mid).Day())
	// 2024 високосный
	assert.Equal(t, 29, EndOfMonth(mid).Day())

	assert.True(t, InMonth(time.Date(2024, 2, 1, 0, 0, 0, 0, time.Local), mid))
	assert.True(t, InMonth(time.Date(2024, 2, 29, 23, 0, 0, 0, time.Local), mid))
	assert.False(t, InMonth(time.Date(2024, 3, 1, 0, 0, 0, 0, time.Local), mid))
	assert.False(t, InMonth(time.Date(2024, 1, 31, 0, 0, 0, 0, time.Local), mid))
}

func TestAddMonths(t *testing.T) {
	jan := time.Date(2024, 1, 31, 0, 0, 0, 0, time.Local)
	next := AddMonths(jan, 1)
	assert.Equal(t, time.February, next.Month())
	assert.Equal(t, 1, next.Day())

	prev := AddMonths(jan, -1)
	assert.Equal(t, time.December, prev.Month())
	assert.Equal(t, 2023, prev.Year())
}
