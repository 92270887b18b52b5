package analytics

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/studiobook/backend/internal/domain/analytics"
	"github.com/studiobook/backend/internal/domain/booking"
)

const (
	churnFrequentVisits = 0.6
	churnRareVisits     = 0.3
	churnRecentDays     = 45
	churnStaleDays      = 90

	topListSize = 5
)

// classifyChurn applies the churn decision table. The bands are asymmetric:
// low is checked first, then high, and medium is the remainder. Reordering the
// checks misclassifies customers sitting on a boundary.
func classifyChurn(visitFrequency float64, daysSinceLast int) analytics.ChurnRisk {
	if visitFrequency >= churnFrequentVisits && daysSinceLast <= churnRecentDays {
		return analytics.ChurnLow
	}
	if visitFrequency < churnRareVisits || daysSinceLast > churnStaleDays {
		return analytics.ChurnHigh
	}
	return analytics.ChurnMedium
}

type customerHistory struct {
	id       uuid.UUID
	name     string
	bookings int
	spend    decimal.Decimal
	first    time.Time
	last     time.Time
	anyFirst time.Time
	anyLast  time.Time
	studios  map[string]*revenueGroup
	items    map[string]*revenueGroup
}

func groupByCustomer(txs []booking.Transaction) map[uuid.UUID]*customerHistory {
	customers := map[uuid.UUID]*customerHistory{}
	for _, tx := range txs {
		c := customers[tx.CustomerID]
		if c == nil {
			c = &customerHistory{
				id:      tx.CustomerID,
				name:    tx.CustomerName,
				spend:   decimal.Zero,
				studios: map[string]*revenueGroup{},
				items:   map[string]*revenueGroup{},
			}
			customers[tx.CustomerID] = c
		}
		at := tx.OccurredAt
		if c.anyFirst.IsZero() || at.Before(c.anyFirst) {
			c.anyFirst = at
		}
		if at.After(c.anyLast) {
			c.anyLast = at
		}
		if !tx.IsConfirmed() {
			continue
		}
		c.bookings++
		c.spend = c.spend.Add(tx.NetAmount())
		if c.first.IsZero() || at.Before(c.first) {
			c.first = at
		}
		if at.After(c.last) {
			c.last = at
		}
		bumpGroup(c.studios, tx.StudioName, tx.Amount)
		bumpGroup(c.items, tx.ItemName, tx.Amount)
	}
	return customers
}

func bumpGroup(m map[string]*revenueGroup, key string, amount decimal.Decimal) {
	g := m[key]
	if g == nil {
		g = &revenueGroup{key: key, revenue: decimal.Zero}
		m[key] = g
	}
	g.bookings++
	g.revenue = g.revenue.Add(amount)
}

// favoriteOf picks the group with the most bookings; ties break by revenue
// desc, then name asc.
func favoriteOf(m map[string]*revenueGroup) string {
	var best *revenueGroup
	for _, g := range m {
		if best == nil {
			best = g
			continue
		}
		switch {
		case g.bookings != best.bookings:
			if g.bookings > best.bookings {
				best = g
			}
		case !g.revenue.Equal(best.revenue):
			if g.revenue.GreaterThan(best.revenue) {
				best = g
			}
		case g.key < best.key:
			best = g
		}
	}
	if best == nil {
		return ""
	}
	return best.key
}

// customerRows materializes one segmentation row per customer from the
// merchant's full transaction history. Customers whose only transactions were
// cancelled still appear, with zero value and high churn risk.
func customerRows(txs []booking.Transaction, now time.Time) []analytics.CustomerAnalyticsRow {
	customers := groupByCustomer(txs)
	rows := make([]analytics.CustomerAnalyticsRow, 0, len(customers))
	for _, c := range customers {
		first, last := c.first, c.last
		if c.bookings == 0 {
			first, last = c.anyFirst, c.anyLast
		}
		frequency := float64(c.bookings) / float64(monthsSince(first, now))
		frequency = toFloat64(decimal.NewFromFloat(frequency))

		avgSpend := decimal.Zero
		if c.bookings > 0 {
			avgSpend = c.spend.Div(decimal.NewFromInt(int64(c.bookings)))
		}

		rows = append(rows, analytics.CustomerAnalyticsRow{
			CustomerID:       c.id,
			CustomerName:     c.name,
			LifetimeValue:    toFloat64(c.spend),
			BookingCount:     c.bookings,
			AvgSpendPerVisit: toFloat64(avgSpend),
			FirstVisit:       listDate(first),
			LastVisit:        listDate(last),
			FavoriteStudio:   favoriteOf(c.studios),
			FavoriteItem:     favoriteOf(c.items),
			VisitFrequency:   frequency,
			ChurnRisk:        classifyChurn(frequency, daysSince(last, now)),
		})
	}
	sortCustomerRows(rows, analytics.SortByTotalSpent)
	return rows
}

// sortCustomerRows orders rows by the requested key desc; ties break by
// lifetime value desc, then customer id asc.
func sortCustomerRows(rows []analytics.CustomerAnalyticsRow, sortBy analytics.CustomerSortBy) {
	sort.SliceStable(rows, func(a, b int) bool {
		switch sortBy {
		case analytics.SortByLastVisit:
			at, _ := time.Parse(listDateLayout, rows[a].LastVisit)
			bt, _ := time.Parse(listDateLayout, rows[b].LastVisit)
			if !at.Equal(bt) {
				return at.After(bt)
			}
		case analytics.SortByBookings:
			if rows[a].BookingCount != rows[b].BookingCount {
				return rows[a].BookingCount > rows[b].BookingCount
			}
		}
		if rows[a].LifetimeValue != rows[b].LifetimeValue {
			return rows[a].LifetimeValue > rows[b].LifetimeValue
		}
		return rows[a].CustomerID.String() < rows[b].CustomerID.String()
	})
}

// customerDetail builds the drill-down view from one customer's transactions.
func customerDetail(customerID uuid.UUID, txs []booking.Transaction, now time.Time) *analytics.CustomerDetail {
	history := make([]analytics.BookingHistoryEntry, 0, len(txs))
	ordered := make([]booking.Transaction, len(txs))
	copy(ordered, txs)
	sort.SliceStable(ordered, func(a, b int) bool {
		if !ordered[a].OccurredAt.Equal(ordered[b].OccurredAt) {
			return ordered[a].OccurredAt.After(ordered[b].OccurredAt)
		}
		return ordered[a].ID.String() < ordered[b].ID.String()
	})

	hourCounts := map[int]int{}
	dayCounts := map[int]int{}
	for _, tx := range ordered {
		history = append(history, analytics.BookingHistoryEntry{
			ID:         tx.ID,
			Date:       listDate(tx.OccurredAt),
			StudioName: tx.StudioName,
			ItemName:   tx.ItemName,
			Price:      toFloat64(tx.Amount),
			Status:     string(tx.Status),
		})
		if tx.IsConfirmed() {
			hourCounts[tx.OccurredAt.Hour()]++
			dayCounts[int(tx.OccurredAt.Weekday())]++
		}
	}

	return &analytics.CustomerDetail{
		CustomerID:         customerID,
		BookingHistory:     history,
		SpendingTrend:      bucketsToFloat(monthlySpend(txs, now)),
		PreferredTimeSlots: topIndexes(hourCounts, slotLabel),
		PreferredDays:      topIndexes(dayCounts, func(i int) string { return dayNames[i] }),
	}
}

// topIndexes returns up to 3 labels ranked by count desc, index asc.
func topIndexes(counts map[int]int, label func(int) string) []string {
	type entry struct {
		index, count int
	}
	entries := make([]entry, 0, len(counts))
	for i, c := range counts {
		entries = append(entries, entry{i, c})
	}
	sort.SliceStable(entries, func(a, b int) bool {
		if entries[a].count != entries[b].count {
			return entries[a].count > entries[b].count
		}
		return entries[a].index < entries[b].index
	})
	out := make([]string, 0, 3)
	for _, e := range entries {
		if len(out) == 3 {
			break
		}
		out = append(out, label(e.index))
	}
	return out
}

// repeatCustomerStats detects customers with more than one confirmed booking
// and their share of net revenue.
func repeatCustomerStats(txs []booking.Transaction) *analytics.RepeatCustomerStats {
	customers := groupByCustomer(txs)

	stats := &analytics.RepeatCustomerStats{TopRepeatCustomers: []analytics.RepeatCustomer{}}
	totalRevenue := decimal.Zero
	repeatRevenue := decimal.Zero
	repeatBookings := 0
	repeaters := make([]*customerHistory, 0, len(customers))

	for _, c := range customers {
		if c.bookings == 0 {
			continue
		}
		stats.TotalCustomers++
		totalRevenue = totalRevenue.Add(c.spend)
		if c.bookings < 2 {
			continue
		}
		stats.RepeatCustomers++
		repeatBookings += c.bookings
		repeatRevenue = repeatRevenue.Add(c.spend)
		repeaters = append(repeaters, c)
	}

	sort.SliceStable(repeaters, func(a, b int) bool {
		if !repeaters[a].spend.Equal(repeaters[b].spend) {
			return repeaters[a].spend.GreaterThan(repeaters[b].spend)
		}
		if repeaters[a].bookings != repeaters[b].bookings {
			return repeaters[a].bookings > repeaters[b].bookings
		}
		return repeaters[a].id.String() < repeaters[b].id.String()
	})
	for _, c := range repeaters {
		if len(stats.TopRepeatCustomers) == topListSize {
			break
		}
		stats.TopRepeatCustomers = append(stats.TopRepeatCustomers, analytics.RepeatCustomer{
			ID:         c.id,
			Name:       c.name,
			Bookings:   c.bookings,
			TotalSpent: toFloat64(c.spend),
			LastVisit:  listDate(c.last),
		})
	}

	stats.RepeatRate = rateFromInts(stats.RepeatCustomers, stats.TotalCustomers)
	if stats.RepeatCustomers > 0 {
		stats.AvgBookingsPerRepeat = toFloat64(
			decimal.NewFromInt(int64(repeatBookings)).Div(decimal.NewFromInt(int64(stats.RepeatCustomers))))
	}
	stats.RepeatCustomerRevenue = toFloat64(repeatRevenue)
	stats.RevenuePercentage = toFloat64(rate(repeatRevenue, totalRevenue))
	return stats
}
