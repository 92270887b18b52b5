package analytics

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/studiobook/backend/internal/domain/analytics"
	"github.com/studiobook/backend/internal/domain/booking"
)

// merchantStats assembles the dashboard read model. It takes the merchant's
// full history so the 12-month series and new-client detection stay anchored
// to the calendar even when the query window is narrow.
func merchantStats(all []booking.Transaction, w booking.Window, now time.Time) *analytics.MerchantStats {
	current := filterWindow(all, w)
	previous := filterWindow(all, w.Previous())

	cur := windowTotals(current)
	prev := windowTotals(previous)

	stats := &analytics.MerchantStats{
		TotalRevenue:         toFloat64(cur.revenue),
		RevenueNet:           toFloat64(cur.revenue.Sub(cur.discounts)),
		TotalCouponDiscounts: toFloat64(cur.discounts),
		ConversionRate:       rateFromInts(cur.confirmed, cur.confirmed+cur.cancelled),
		TotalBookings:        cur.confirmed,
		AvgPerBooking:        toFloat64(avgOf(cur.revenue, cur.confirmed)),
		TopClients:           topClients(current),
		RevenueByPeriod: analytics.RevenueByPeriod{
			Monthly: bucketsToFloat(monthlyRevenue(all, now)),
			Weekly:  bucketsToFloat(weeklyRevenue(all, now)),
			Daily:   bucketsToFloat(dailyRevenue(all, now)),
		},
	}

	stats.NewClients = newClients(all, w)
	prevNewClients := newClients(all, w.Previous())

	stats.Trends.TotalRevenue, stats.IsPositive.TotalRevenue = trendOf(cur.revenue, prev.revenue)
	stats.Trends.TotalBookings, stats.IsPositive.TotalBookings = trendOfInts(cur.confirmed, prev.confirmed)
	stats.Trends.AvgPerBooking, stats.IsPositive.AvgPerBooking = trendOf(avgOf(cur.revenue, cur.confirmed), avgOf(prev.revenue, prev.confirmed))
	stats.Trends.NewClients, stats.IsPositive.NewClients = trendOfInts(stats.NewClients, prevNewClients)

	stats.QuickStats = quickStats(current, w)
	return stats
}

type windowTotal struct {
	revenue   decimal.Decimal
	discounts decimal.Decimal
	confirmed int
	cancelled int
}

func windowTotals(txs []booking.Transaction) windowTotal {
	t := windowTotal{revenue: decimal.Zero, discounts: decimal.Zero}
	for _, tx := range txs {
		if !tx.IsConfirmed() {
			t.cancelled++
			continue
		}
		t.confirmed++
		t.revenue = t.revenue.Add(tx.Amount)
		t.discounts = t.discounts.Add(tx.DiscountAmount)
	}
	return t
}

func avgOf(total decimal.Decimal, count int) decimal.Decimal {
	if count == 0 {
		return decimal.Zero
	}
	return total.Div(decimal.NewFromInt(int64(count)))
}

func filterWindow(txs []booking.Transaction, w booking.Window) []booking.Transaction {
	out := make([]booking.Transaction, 0, len(txs))
	for _, tx := range txs {
		if w.Contains(tx.OccurredAt) {
			out = append(out, tx)
		}
	}
	return out
}

// newClients counts customers whose first-ever transaction falls inside the
// window.
func newClients(all []booking.Transaction, w booking.Window) int {
	first := map[uuid.UUID]time.Time{}
	for _, tx := range all {
		at, ok := first[tx.CustomerID]
		if !ok || tx.OccurredAt.Before(at) {
			first[tx.CustomerID] = tx.OccurredAt
		}
	}
	count := 0
	for _, at := range first {
		if w.Contains(at) {
			count++
		}
	}
	return count
}

// topClients ranks window customers by net spend desc, bookings desc, id asc.
func topClients(txs []booking.Transaction) []analytics.TopClient {
	customers := groupByCustomer(txs)
	ranked := make([]*customerHistory, 0, len(customers))
	for _, c := range customers {
		if c.bookings > 0 {
			ranked = append(ranked, c)
		}
	}
	sort.SliceStable(ranked, func(a, b int) bool {
		if !ranked[a].spend.Equal(ranked[b].spend) {
			return ranked[a].spend.GreaterThan(ranked[b].spend)
		}
		if ranked[a].bookings != ranked[b].bookings {
			return ranked[a].bookings > ranked[b].bookings
		}
		return ranked[a].id.String() < ranked[b].id.String()
	})

	out := make([]analytics.TopClient, 0, topListSize)
	for _, c := range ranked {
		if len(out) == topListSize {
			break
		}
		out = append(out, analytics.TopClient{
			ID:            c.id,
			Name:          c.name,
			TotalSpent:    toFloat64(c.spend),
			BookingsCount: c.bookings,
			LastVisit:     listDate(c.last),
		})
	}
	return out
}

// quickStats derives the side-panel figures from one-hour slots. Session time
// is the average number of booked slot-hours per customer per day; occupancy
// is booked slot-hours over open slot-hours.
func quickStats(txs []booking.Transaction, w booking.Window) analytics.QuickStats {
	type studioLoad struct {
		id       uuid.UUID
		name     string
		bookings int
	}
	studios := map[uuid.UUID]*studioLoad{}
	sessions := map[string]int{}
	booked := 0
	for _, tx := range txs {
		if !tx.IsConfirmed() {
			continue
		}
		booked++
		s := studios[tx.StudioID]
		if s == nil {
			s = &studioLoad{id: tx.StudioID, name: tx.StudioName}
			studios[tx.StudioID] = s
		}
		s.bookings++
		sessions[tx.CustomerID.String()+tx.OccurredAt.Format("2006-01-02")]++
	}

	qs := analytics.QuickStats{Studios: []analytics.StudioOccupancy{}}
	if len(sessions) > 0 {
		qs.AvgSessionTime = toFloat64(
			decimal.NewFromInt(int64(booked)).Div(decimal.NewFromInt(int64(len(sessions)))))
	}

	slotHours := openSlotHours(w)
	ordered := make([]*studioLoad, 0, len(studios))
	for _, s := range studios {
		ordered = append(ordered, s)
	}
	sort.SliceStable(ordered, func(a, b int) bool {
		if ordered[a].bookings != ordered[b].bookings {
			return ordered[a].bookings > ordered[b].bookings
		}
		return ordered[a].name < ordered[b].name
	})
	for _, s := range ordered {
		qs.Studios = append(qs.Studios, analytics.StudioOccupancy{
			StudioID:  s.id,
			Name:      s.name,
			Occupancy: occupancyOf(s.bookings, slotHours),
		})
	}
	if len(studios) > 0 {
		qs.Occupancy = occupancyOf(booked, slotHours*len(studios))
	}
	return qs
}
