package analytics

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studiobook/backend/internal/domain/booking"
)

func TestMerchantStats_TotalsAndTrends(t *testing.T) {
	now := time.Date(2026, time.August, 15, 12, 0, 0, 0, time.UTC)
	w := booking.CurrentMonth(now)

	// Monday Aug 10 falls inside both the month and the current week
	at := time.Date(2026, time.August, 10, 10, 0, 0, 0, time.UTC)
	all := []booking.Transaction{
		newTx(at).studio("Main Studio").amount(100).build(),
		newTx(at).studio("Main Studio").amount(100).discount(10).build(),
		newTx(at).studio("Main Studio").amount(100).build(),
		newTx(at).studio("Main Studio").cancelled("Illness").build(),
		// previous month, a different customer
		newTx(time.Date(2026, time.July, 10, 10, 0, 0, 0, time.UTC)).amount(250).build(),
	}

	stats := merchantStats(all, w, now)

	assert.Equal(t, 300.0, stats.TotalRevenue)
	assert.Equal(t, 290.0, stats.RevenueNet)
	assert.Equal(t, 10.0, stats.TotalCouponDiscounts)
	assert.Equal(t, 75.0, stats.ConversionRate)
	assert.Equal(t, 3, stats.TotalBookings)
	assert.Equal(t, 100.0, stats.AvgPerBooking)

	// every August customer is first seen in August, the cancelled one included
	assert.Equal(t, 4, stats.NewClients)

	assert.Equal(t, "+20%", stats.Trends.TotalRevenue)
	assert.True(t, stats.IsPositive.TotalRevenue)
	assert.Equal(t, "+200%", stats.Trends.TotalBookings)
	assert.True(t, stats.IsPositive.TotalBookings)
	assert.Equal(t, "-60%", stats.Trends.AvgPerBooking)
	assert.False(t, stats.IsPositive.AvgPerBooking)
	assert.Equal(t, "+300%", stats.Trends.NewClients)
	assert.True(t, stats.IsPositive.NewClients)

	require.Len(t, stats.RevenueByPeriod.Monthly, 12)
	require.Len(t, stats.RevenueByPeriod.Weekly, 7)
	require.Len(t, stats.RevenueByPeriod.Daily, 24)
	assert.Equal(t, 300.0, stats.RevenueByPeriod.Monthly[11])
	assert.Equal(t, 250.0, stats.RevenueByPeriod.Monthly[10])
	assert.Equal(t, 300.0, stats.RevenueByPeriod.Weekly[1]) // Monday
	assert.Equal(t, 0.0, sum(stats.RevenueByPeriod.Daily))  // nothing booked today
}

func TestMerchantStats_Empty(t *testing.T) {
	now := time.Date(2026, time.August, 15, 12, 0, 0, 0, time.UTC)

	stats := merchantStats(nil, booking.CurrentMonth(now), now)

	assert.Equal(t, 0.0, stats.TotalRevenue)
	assert.Equal(t, 0, stats.TotalBookings)
	assert.Equal(t, 0.0, stats.ConversionRate)
	assert.Equal(t, "0%", stats.Trends.TotalRevenue)
	assert.True(t, stats.IsPositive.TotalRevenue)
	assert.Empty(t, stats.TopClients)
	assert.Len(t, stats.RevenueByPeriod.Monthly, 12)
}

func TestNewClients_ReturningClientIsNotNew(t *testing.T) {
	now := time.Date(2026, time.August, 15, 12, 0, 0, 0, time.UTC)
	w := booking.CurrentMonth(now)
	returning := uuid.New()

	all := []booking.Transaction{
		newTx(time.Date(2026, time.June, 3, 10, 0, 0, 0, time.UTC)).customer(returning, "Noa Levi").build(),
		newTx(time.Date(2026, time.August, 4, 10, 0, 0, 0, time.UTC)).customer(returning, "Noa Levi").build(),
	}

	assert.Equal(t, 0, newClients(all, w))

	// the same history against June counts her once
	assert.Equal(t, 1, newClients(all, booking.CurrentMonth(time.Date(2026, time.June, 15, 0, 0, 0, 0, time.UTC))))
}

func TestTopClients_RankedByNetSpendCappedAtFive(t *testing.T) {
	at := time.Date(2026, time.August, 10, 10, 0, 0, 0, time.UTC)

	txs := make([]booking.Transaction, 0, 8)
	big := uuid.New()
	// 2 x (350 - 50) = 600 net
	txs = append(txs,
		newTx(at).customer(big, "Noa Levi").amount(350).discount(50).build(),
		newTx(at.AddDate(0, 0, 2)).customer(big, "Noa Levi").amount(350).discount(50).build(),
	)
	for i, spend := range []float64{500, 400, 300, 200, 100} {
		txs = append(txs, newTx(at.AddDate(0, 0, i)).amount(spend).build())
	}
	// a cancel-only customer never makes the list
	txs = append(txs, newTx(at).cancelled("Price").build())

	top := topClients(txs)

	require.Len(t, top, 5)
	assert.Equal(t, big, top[0].ID)
	assert.Equal(t, 600.0, top[0].TotalSpent)
	assert.Equal(t, 2, top[0].BookingsCount)
	assert.Equal(t, "12/08/2026", top[0].LastVisit)
	assert.Equal(t, 500.0, top[1].TotalSpent)
	assert.Equal(t, 200.0, top[4].TotalSpent)
}

func TestQuickStats_SessionsAndOccupancy(t *testing.T) {
	now := time.Date(2026, time.August, 15, 12, 0, 0, 0, time.UTC)
	w := booking.LastNDays(now, 1) // 12 open slot-hours per studio

	alice := uuid.New()
	bob := uuid.New()
	txs := []booking.Transaction{
		// two slots on the same day are one session
		newTx(time.Date(2026, time.August, 15, 10, 0, 0, 0, time.UTC)).customer(alice, "Alice").studio("Room A").build(),
		newTx(time.Date(2026, time.August, 15, 11, 0, 0, 0, time.UTC)).customer(alice, "Alice").studio("Room A").build(),
		newTx(time.Date(2026, time.August, 15, 14, 0, 0, 0, time.UTC)).customer(bob, "Bob").studio("Room B").build(),
		newTx(time.Date(2026, time.August, 15, 16, 0, 0, 0, time.UTC)).cancelled("Weather").build(),
	}

	qs := quickStats(txs, w)

	// 3 booked slot-hours over 2 sessions
	assert.Equal(t, 1.5, qs.AvgSessionTime)

	require.Len(t, qs.Studios, 2)
	assert.Equal(t, "Room A", qs.Studios[0].Name)
	assert.Equal(t, 16.67, qs.Studios[0].Occupancy)
	assert.Equal(t, "Room B", qs.Studios[1].Name)
	assert.Equal(t, 8.33, qs.Studios[1].Occupancy)

	// 3 booked over 24 open across both studios
	assert.Equal(t, 12.5, qs.Occupancy)
}

func TestQuickStats_Empty(t *testing.T) {
	now := time.Date(2026, time.August, 15, 12, 0, 0, 0, time.UTC)

	qs := quickStats(nil, booking.CurrentMonth(now))

	assert.Equal(t, 0.0, qs.AvgSessionTime)
	assert.Equal(t, 0.0, qs.Occupancy)
	assert.Empty(t, qs.Studios)
}
