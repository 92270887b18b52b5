package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studiobook/backend/internal/domain/booking"
)

func TestStudioRows_RankingAndGrowth(t *testing.T) {
	now := time.Date(2026, time.August, 15, 12, 0, 0, 0, time.UTC)
	w := booking.CurrentMonth(now)
	at := time.Date(2026, time.August, 10, 10, 0, 0, 0, time.UTC)

	current := []booking.Transaction{
		newTx(at).studio("Main Studio").amount(200).build(),
		newTx(at).studio("Main Studio").amount(200).build(),
		newTx(at).studio("Main Studio").cancelled("Illness").build(),
		newTx(at).studio("Rehearsal Room A").amount(100).build(),
		newTx(at).studio("Aleph Room").amount(100).build(),
	}
	previous := []booking.Transaction{
		newTx(at.AddDate(0, -1, 0)).studio("Main Studio").amount(200).build(),
		newTx(at.AddDate(0, -1, 0)).studio("Rehearsal Room A").amount(200).build(),
	}

	rows := studioRows(current, previous, w)

	require.Len(t, rows, 3)
	main := rows[0]
	assert.Equal(t, "Main Studio", main.StudioName)
	assert.Equal(t, 400.0, main.Revenue)
	assert.Equal(t, 2, main.BookingCount)
	assert.Equal(t, 200.0, main.AvgBookingValue)
	assert.Equal(t, "+100%", main.GrowthTrend)
	// 2 booked slot-hours over 31 days x 12
	assert.Equal(t, 0.54, main.Occupancy)

	// a full revenue/bookings tie falls back to name order
	assert.Equal(t, "Aleph Room", rows[1].StudioName)
	assert.Equal(t, "Rehearsal Room A", rows[2].StudioName)
	assert.Equal(t, "-50%", rows[2].GrowthTrend)
	// no history last month reads as growth from nothing
	assert.Equal(t, "+100%", rows[1].GrowthTrend)
}

func TestStudioRows_TopItemsAndCustomers(t *testing.T) {
	now := time.Date(2026, time.August, 15, 12, 0, 0, 0, time.UTC)
	w := booking.CurrentMonth(now)
	at := time.Date(2026, time.August, 10, 10, 0, 0, 0, time.UTC)

	alice := newTx(at).studio("Main Studio").item("Mixing").amount(300).build()
	bobFirst := newTx(at).studio("Main Studio").item("Recording Session").amount(100).discount(25).build()
	bobSecond := newTx(at).studio("Main Studio").item("Recording Session").amount(100).build()
	bobSecond.CustomerID = bobFirst.CustomerID
	bobSecond.CustomerName = bobFirst.CustomerName

	rows := studioRows([]booking.Transaction{alice, bobFirst, bobSecond}, nil, w)

	require.Len(t, rows, 1)
	row := rows[0]

	require.Len(t, row.TopItems, 2)
	assert.Equal(t, "Mixing", row.TopItems[0].Name)
	assert.Equal(t, 300.0, row.TopItems[0].Revenue)
	assert.Equal(t, 1, row.TopItems[0].Bookings)
	assert.Equal(t, "Recording Session", row.TopItems[1].Name)
	assert.Equal(t, 200.0, row.TopItems[1].Revenue)

	// customers rank on net spend: Alice 300 beats Bob's 175
	require.Len(t, row.TopCustomers, 2)
	assert.Equal(t, alice.CustomerID, row.TopCustomers[0].ID)
	assert.Equal(t, 300.0, row.TopCustomers[0].TotalSpent)
	assert.Equal(t, 175.0, row.TopCustomers[1].TotalSpent)
	assert.Equal(t, 2, row.TopCustomers[1].BookingsCount)
}

func TestStudioRows_Empty(t *testing.T) {
	now := time.Date(2026, time.August, 15, 12, 0, 0, 0, time.UTC)
	assert.Empty(t, studioRows(nil, nil, booking.CurrentMonth(now)))
}

func TestOpenSlotHours(t *testing.T) {
	now := time.Date(2026, time.August, 15, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, 31*12, openSlotHours(booking.CurrentMonth(now)))
	assert.Equal(t, 7*12, openSlotHours(booking.LastNDays(now, 7)))
	// sub-day windows floor at one day of capacity
	assert.Equal(t, 12, openSlotHours(booking.Window{Start: now, End: now.Add(2 * time.Hour)}))
}

func TestOccupancyOf(t *testing.T) {
	assert.Equal(t, 50.0, occupancyOf(6, 12))
	assert.Equal(t, 0.0, occupancyOf(0, 12))
	// demand past capacity caps at 100
	assert.Equal(t, 100.0, occupancyOf(20, 12))
}
