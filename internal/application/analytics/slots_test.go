package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/studiobook/backend/internal/domain/booking"
)

func TestPopularTimeSlots_RankingAndShare(t *testing.T) {
	day := time.Date(2026, time.August, 10, 0, 0, 0, 0, time.UTC) // Monday
	txs := []booking.Transaction{
		newTx(day.Add(10 * time.Hour)).amount(100).build(),
		newTx(day.Add(10 * time.Hour)).amount(100).build(),
		newTx(day.Add(10 * time.Hour)).amount(100).build(),
		newTx(day.Add(14 * time.Hour)).amount(500).build(),
		newTx(day.Add(18 * time.Hour)).amount(50).build(),
		newTx(day.Add(18 * time.Hour)).amount(50).cancelled("Illness").build(),
	}

	slots := popularTimeSlots(txs)

	// only hours with confirmed bookings appear, most-booked first
	assert.Len(t, slots.TimeSlots, 3)
	assert.Equal(t, "10:00", slots.TimeSlots[0].Slot)
	assert.Equal(t, 3, slots.TimeSlots[0].Bookings)
	assert.Equal(t, 300.0, slots.TimeSlots[0].Revenue)
	// 14:00 and 18:00 tie on bookings; revenue breaks the tie
	assert.Equal(t, "14:00", slots.TimeSlots[1].Slot)
	assert.Equal(t, "18:00", slots.TimeSlots[2].Slot)

	// percentages are booking share and sum to 100
	assert.Equal(t, 60.0, slots.TimeSlots[0].Percentage)
	assert.Equal(t, 20.0, slots.TimeSlots[1].Percentage)
	assert.Equal(t, 20.0, slots.TimeSlots[2].Percentage)
}

func TestPopularTimeSlots_ByDayCarriesAllSeven(t *testing.T) {
	monday := time.Date(2026, time.August, 10, 10, 0, 0, 0, time.UTC)
	sunday := time.Date(2026, time.August, 9, 10, 0, 0, 0, time.UTC)
	txs := []booking.Transaction{
		newTx(monday).amount(100).build(),
		newTx(monday).amount(100).build(),
		newTx(sunday).amount(100).build(),
	}

	slots := popularTimeSlots(txs)

	assert.Len(t, slots.ByDay, 7)
	assert.Equal(t, "Monday", slots.ByDay[0].Day)
	assert.Equal(t, 1, slots.ByDay[0].DayIndex)
	assert.Equal(t, 2, slots.ByDay[0].Bookings)
	assert.Equal(t, "Sunday", slots.ByDay[1].Day)

	// empty days tie at zero bookings and fall back to index order
	assert.Equal(t, "Tuesday", slots.ByDay[2].Day)
	assert.Equal(t, 0, slots.ByDay[2].Bookings)

	total := 0.0
	for _, d := range slots.ByDay {
		total += d.Percentage
	}
	assert.InDelta(t, 100.0, total, 1e-9)
}

func TestPopularTimeSlots_Empty(t *testing.T) {
	slots := popularTimeSlots(nil)

	assert.Empty(t, slots.TimeSlots)
	assert.Len(t, slots.ByDay, 7)
	for _, d := range slots.ByDay {
		assert.Equal(t, 0, d.Bookings)
		assert.Equal(t, 0.0, d.Percentage)
	}
}
