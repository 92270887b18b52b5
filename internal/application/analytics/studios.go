package analytics

import (
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/studiobook/backend/internal/domain/analytics"
	"github.com/studiobook/backend/internal/domain/booking"
)

// openHoursPerDay is the bookable span assumed per studio per day when
// deriving occupancy from one-hour slots.
const openHoursPerDay = 12

type studioAggregate struct {
	id        uuid.UUID
	name      string
	revenue   decimal.Decimal
	bookings  int
	items     map[uuid.UUID]*itemAggregate
	customers map[uuid.UUID]*customerHistory
}

type itemAggregate struct {
	id       uuid.UUID
	name     string
	revenue  decimal.Decimal
	bookings int
}

// studioRows builds one row per studio in the merchant's portfolio for the
// window, ranked by revenue desc, bookings desc, name asc. Growth compares
// each studio's revenue to the previous equal-length window.
func studioRows(current, previous []booking.Transaction, w booking.Window) []analytics.StudioAnalyticsRow {
	studios := map[uuid.UUID]*studioAggregate{}
	for _, tx := range current {
		if !tx.IsConfirmed() {
			continue
		}
		s := studios[tx.StudioID]
		if s == nil {
			s = &studioAggregate{
				id:        tx.StudioID,
				name:      tx.StudioName,
				revenue:   decimal.Zero,
				items:     map[uuid.UUID]*itemAggregate{},
				customers: map[uuid.UUID]*customerHistory{},
			}
			studios[tx.StudioID] = s
		}
		s.revenue = s.revenue.Add(tx.Amount)
		s.bookings++

		it := s.items[tx.ItemID]
		if it == nil {
			it = &itemAggregate{id: tx.ItemID, name: tx.ItemName, revenue: decimal.Zero}
			s.items[tx.ItemID] = it
		}
		it.revenue = it.revenue.Add(tx.Amount)
		it.bookings++

		c := s.customers[tx.CustomerID]
		if c == nil {
			c = &customerHistory{id: tx.CustomerID, name: tx.CustomerName, spend: decimal.Zero}
			s.customers[tx.CustomerID] = c
		}
		c.bookings++
		c.spend = c.spend.Add(tx.NetAmount())
	}

	prevRevenue := map[uuid.UUID]decimal.Decimal{}
	for _, tx := range previous {
		if !tx.IsConfirmed() {
			continue
		}
		r, ok := prevRevenue[tx.StudioID]
		if !ok {
			r = decimal.Zero
		}
		prevRevenue[tx.StudioID] = r.Add(tx.Amount)
	}

	slotHours := openSlotHours(w)
	rows := make([]analytics.StudioAnalyticsRow, 0, len(studios))
	for _, s := range studios {
		avg := decimal.Zero
		if s.bookings > 0 {
			avg = s.revenue.Div(decimal.NewFromInt(int64(s.bookings)))
		}
		prev, ok := prevRevenue[s.id]
		if !ok {
			prev = decimal.Zero
		}
		growth, _ := trendOf(s.revenue, prev)

		rows = append(rows, analytics.StudioAnalyticsRow{
			StudioID:        s.id,
			StudioName:      s.name,
			Revenue:         toFloat64(s.revenue),
			BookingCount:    s.bookings,
			AvgBookingValue: toFloat64(avg),
			Occupancy:       occupancyOf(s.bookings, slotHours),
			TopItems:        topItems(s.items),
			GrowthTrend:     growth,
			TopCustomers:    topStudioCustomers(s.customers),
		})
	}

	sort.SliceStable(rows, func(a, b int) bool {
		if rows[a].Revenue != rows[b].Revenue {
			return rows[a].Revenue > rows[b].Revenue
		}
		if rows[a].BookingCount != rows[b].BookingCount {
			return rows[a].BookingCount > rows[b].BookingCount
		}
		return rows[a].StudioName < rows[b].StudioName
	})
	return rows
}

// openSlotHours is the bookable slot-hour capacity of one studio over the
// window, floored at one day's worth for sub-day windows.
func openSlotHours(w booking.Window) int {
	days := int(w.End.Sub(w.Start).Hours() / 24)
	if days < 1 {
		days = 1
	}
	return days * openHoursPerDay
}

func occupancyOf(bookings, slotHours int) float64 {
	pct := rateFromInts(bookings, slotHours)
	if pct > 100 {
		pct = 100
	}
	return pct
}

func topItems(items map[uuid.UUID]*itemAggregate) []analytics.StudioItemStats {
	ranked := make([]*itemAggregate, 0, len(items))
	for _, it := range items {
		ranked = append(ranked, it)
	}
	sort.SliceStable(ranked, func(a, b int) bool {
		if !ranked[a].revenue.Equal(ranked[b].revenue) {
			return ranked[a].revenue.GreaterThan(ranked[b].revenue)
		}
		if ranked[a].bookings != ranked[b].bookings {
			return ranked[a].bookings > ranked[b].bookings
		}
		return ranked[a].name < ranked[b].name
	})
	out := make([]analytics.StudioItemStats, 0, topListSize)
	for _, it := range ranked {
		if len(out) == topListSize {
			break
		}
		out = append(out, analytics.StudioItemStats{
			ItemID:   it.id,
			Name:     it.name,
			Bookings: it.bookings,
			Revenue:  toFloat64(it.revenue),
		})
	}
	return out
}

func topStudioCustomers(customers map[uuid.UUID]*customerHistory) []analytics.StudioTopCustomer {
	ranked := make([]*customerHistory, 0, len(customers))
	for _, c := range customers {
		ranked = append(ranked, c)
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
	out := make([]analytics.StudioTopCustomer, 0, topListSize)
	for _, c := range ranked {
		if len(out) == topListSize {
			break
		}
		out = append(out, analytics.StudioTopCustomer{
			ID:            c.id,
			Name:          c.name,
			TotalSpent:    toFloat64(c.spend),
			BookingsCount: c.bookings,
		})
	}
	return out
}
