package analytics

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studiobook/backend/internal/domain/analytics"
	"github.com/studiobook/backend/internal/domain/booking"
)

func TestClassifyChurn_DecisionTable(t *testing.T) {
	tests := []struct {
		name      string
		frequency float64
		days      int
		want      analytics.ChurnRisk
	}{
		{"frequent and recent", 2.0, 10, analytics.ChurnLow},
		{"exactly on the low boundary", 0.6, 45, analytics.ChurnLow},
		{"frequent but stale", 0.7, 46, analytics.ChurnMedium},
		{"rare visitor", 0.29, 10, analytics.ChurnHigh},
		{"exactly on the rare boundary", 0.3, 10, analytics.ChurnMedium},
		{"long gone", 0.5, 91, analytics.ChurnHigh},
		{"exactly on the stale boundary", 0.5, 90, analytics.ChurnMedium},
		{"rare and long gone", 0.1, 200, analytics.ChurnHigh},
		{"middling", 0.4, 60, analytics.ChurnMedium},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, classifyChurn(tt.frequency, tt.days))
		})
	}
}

func TestCustomerRows_FrequencyAndChurn(t *testing.T) {
	now := time.Date(2026, time.August, 15, 12, 0, 0, 0, time.UTC)
	customerID := uuid.MustParse("11111111-1111-1111-1111-111111111111")

	// 6 confirmed bookings, first visit 3 months back, last one month ago ->
	// frequency 2.0 and recent -> low churn risk
	txs := make([]booking.Transaction, 0, 6)
	for i := 0; i < 6; i++ {
		at := now.AddDate(0, -(1 + i%3), 0)
		txs = append(txs, newTx(at).customer(customerID, "Noa Levi").amount(100).build())
	}

	rows := customerRows(txs, now)
	require.Len(t, rows, 1)

	row := rows[0]
	assert.Equal(t, customerID, row.CustomerID)
	assert.Equal(t, 6, row.BookingCount)
	assert.Equal(t, 2.0, row.VisitFrequency)
	assert.Equal(t, analytics.ChurnLow, row.ChurnRisk)
	assert.Equal(t, 600.0, row.LifetimeValue)
	assert.Equal(t, 100.0, row.AvgSpendPerVisit)
}

func TestCustomerRows_LifetimeValueNetOfDiscounts(t *testing.T) {
	now := time.Date(2026, time.August, 15, 12, 0, 0, 0, time.UTC)
	customerID := uuid.New()
	txs := []booking.Transaction{
		newTx(now.AddDate(0, 0, -5)).customer(customerID, "Maya Peretz").amount(100).discount(10).build(),
		newTx(now.AddDate(0, 0, -3)).customer(customerID, "Maya Peretz").amount(200).build(),
	}

	rows := customerRows(txs, now)
	require.Len(t, rows, 1)
	assert.Equal(t, 290.0, rows[0].LifetimeValue)
}

func TestCustomerRows_CancelOnlyCustomerStillAppears(t *testing.T) {
	now := time.Date(2026, time.August, 15, 12, 0, 0, 0, time.UTC)
	customerID := uuid.New()
	txs := []booking.Transaction{
		newTx(now.AddDate(0, -2, 0)).customer(customerID, "Itay Mizrahi").cancelled("Illness").build(),
	}

	rows := customerRows(txs, now)
	require.Len(t, rows, 1)

	row := rows[0]
	assert.Equal(t, 0, row.BookingCount)
	assert.Equal(t, 0.0, row.LifetimeValue)
	assert.Equal(t, analytics.ChurnHigh, row.ChurnRisk)
	// visit dates fall back to the cancelled transactions
	assert.NotEmpty(t, row.FirstVisit)
	assert.NotEmpty(t, row.LastVisit)
}

func TestCustomerRows_FavoriteStudioTieBreaks(t *testing.T) {
	now := time.Date(2026, time.August, 15, 12, 0, 0, 0, time.UTC)
	customerID := uuid.New()
	at := now.AddDate(0, 0, -10)
	txs := []booking.Transaction{
		// same booking count; Rehearsal Room A carries more revenue
		newTx(at).customer(customerID, "Shira Katz").studio("Main Studio").amount(50).build(),
		newTx(at).customer(customerID, "Shira Katz").studio("Rehearsal Room A").amount(120).build(),
	}

	rows := customerRows(txs, now)
	require.Len(t, rows, 1)
	assert.Equal(t, "Rehearsal Room A", rows[0].FavoriteStudio)
}

func TestSortCustomerRows(t *testing.T) {
	now := time.Date(2026, time.August, 15, 12, 0, 0, 0, time.UTC)
	alice := uuid.MustParse("aaaaaaaa-0000-0000-0000-000000000000")
	bob := uuid.MustParse("bbbbbbbb-0000-0000-0000-000000000000")
	carol := uuid.MustParse("cccccccc-0000-0000-0000-000000000000")

	txs := []booking.Transaction{
		newTx(now.AddDate(0, 0, -1)).customer(alice, "Alice").amount(100).build(),
		newTx(now.AddDate(0, 0, -30)).customer(bob, "Bob").amount(400).build(),
		newTx(now.AddDate(0, 0, -10)).customer(carol, "Carol").amount(250).build(),
		newTx(now.AddDate(0, 0, -10)).customer(carol, "Carol").amount(250).build(),
	}

	rows := customerRows(txs, now)
	require.Len(t, rows, 3)

	// default ordering is total spent desc
	assert.Equal(t, carol, rows[0].CustomerID)
	assert.Equal(t, bob, rows[1].CustomerID)
	assert.Equal(t, alice, rows[2].CustomerID)

	sortCustomerRows(rows, analytics.SortByLastVisit)
	assert.Equal(t, alice, rows[0].CustomerID)
	assert.Equal(t, carol, rows[1].CustomerID)
	assert.Equal(t, bob, rows[2].CustomerID)

	sortCustomerRows(rows, analytics.SortByBookings)
	assert.Equal(t, carol, rows[0].CustomerID)
	// Alice and Bob tie on bookings; lifetime value breaks the tie
	assert.Equal(t, bob, rows[1].CustomerID)
	assert.Equal(t, alice, rows[2].CustomerID)
}

func TestCustomerDetail(t *testing.T) {
	now := time.Date(2026, time.August, 15, 12, 0, 0, 0, time.UTC)
	customerID := uuid.New()

	txs := []booking.Transaction{
		newTx(time.Date(2026, time.July, 6, 10, 0, 0, 0, time.UTC)).customer(customerID, "Omer Biton").amount(100).build(),  // Monday 10:00
		newTx(time.Date(2026, time.July, 13, 10, 0, 0, 0, time.UTC)).customer(customerID, "Omer Biton").amount(100).build(), // Monday 10:00
		newTx(time.Date(2026, time.July, 15, 18, 0, 0, 0, time.UTC)).customer(customerID, "Omer Biton").amount(150).build(), // Wednesday 18:00
		newTx(time.Date(2026, time.July, 20, 9, 0, 0, 0, time.UTC)).customer(customerID, "Omer Biton").cancelled("Illness").build(),
	}

	detail := customerDetail(customerID, txs, now)

	require.Len(t, detail.BookingHistory, 4)
	// newest first
	assert.Equal(t, "20/07/2026", detail.BookingHistory[0].Date)
	assert.Equal(t, "cancelled", detail.BookingHistory[0].Status)
	assert.Equal(t, "06/07/2026", detail.BookingHistory[3].Date)

	// cancelled bookings don't shape preferences
	assert.Equal(t, []string{"10:00", "18:00"}, detail.PreferredTimeSlots)
	assert.Equal(t, []string{"Monday", "Wednesday"}, detail.PreferredDays)

	assert.Len(t, detail.SpendingTrend, 12)
	assert.Equal(t, 350.0, detail.SpendingTrend[10]) // July, one month back
}

func TestRepeatCustomerStats(t *testing.T) {
	regular := uuid.MustParse("11111111-0000-0000-0000-000000000000")
	oneTimer := uuid.MustParse("22222222-0000-0000-0000-000000000000")
	at := time.Date(2026, time.August, 1, 10, 0, 0, 0, time.UTC)

	txs := []booking.Transaction{
		newTx(at).customer(regular, "Regular").amount(100).build(),
		newTx(at.AddDate(0, 0, 7)).customer(regular, "Regular").amount(100).build(),
		newTx(at.AddDate(0, 0, 14)).customer(regular, "Regular").amount(100).build(),
		newTx(at).customer(oneTimer, "One Timer").amount(100).build(),
	}

	stats := repeatCustomerStats(txs)

	assert.Equal(t, 2, stats.TotalCustomers)
	assert.Equal(t, 1, stats.RepeatCustomers)
	assert.Equal(t, 50.0, stats.RepeatRate)
	assert.Equal(t, 3.0, stats.AvgBookingsPerRepeat)
	assert.Equal(t, 300.0, stats.RepeatCustomerRevenue)
	assert.Equal(t, 75.0, stats.RevenuePercentage)

	require.Len(t, stats.TopRepeatCustomers, 1)
	assert.Equal(t, regular, stats.TopRepeatCustomers[0].ID)
	assert.Equal(t, 3, stats.TopRepeatCustomers[0].Bookings)
}

func TestRepeatCustomerStats_Empty(t *testing.T) {
	stats := repeatCustomerStats(nil)

	assert.Equal(t, 0, stats.TotalCustomers)
	assert.Equal(t, 0, stats.RepeatCustomers)
	assert.Equal(t, 0.0, stats.RepeatRate)
	assert.Equal(t, 0.0, stats.RevenuePercentage)
	assert.Empty(t, stats.TopRepeatCustomers)
}
