package analytics

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/studiobook/backend/internal/domain/analytics"
	"github.com/studiobook/backend/internal/domain/booking"
)

type revenueGroup struct {
	key        string
	studioName string
	revenue    decimal.Decimal
	bookings   int
}

// rankGroups orders ranked revenue lists: revenue desc, bookings desc,
// key asc. The same rule applies to every ranked list in the engine so equal
// inputs always produce identical output.
func rankGroups(groups []revenueGroup) {
	sort.SliceStable(groups, func(a, b int) bool {
		if !groups[a].revenue.Equal(groups[b].revenue) {
			return groups[a].revenue.GreaterThan(groups[b].revenue)
		}
		if groups[a].bookings != groups[b].bookings {
			return groups[a].bookings > groups[b].bookings
		}
		return groups[a].key < groups[b].key
	})
}

// revenueBreakdown slices confirmed window revenue by studio, item, weekday
// and hour. Studio and item lists are ranked with largest-remainder
// percentages; weekday and hour axes are fixed-length and zero-filled.
func revenueBreakdown(txs []booking.Transaction) *analytics.RevenueBreakdown {
	byStudio := map[string]*revenueGroup{}
	byItem := map[string]*revenueGroup{}
	days := make([]revenueGroup, 7)
	hours := make([]revenueGroup, 24)
	for i := range days {
		days[i].revenue = decimal.Zero
	}
	for i := range hours {
		hours[i].revenue = decimal.Zero
	}

	total := decimal.Zero
	impact := analytics.CouponImpact{}
	discounts := decimal.Zero
	discountPctSum := decimal.Zero

	for _, tx := range txs {
		if !tx.IsConfirmed() {
			continue
		}
		total = total.Add(tx.Amount)

		s := byStudio[tx.StudioName]
		if s == nil {
			s = &revenueGroup{key: tx.StudioName, revenue: decimal.Zero}
			byStudio[tx.StudioName] = s
		}
		s.revenue = s.revenue.Add(tx.Amount)
		s.bookings++

		itemKey := tx.ItemName + "\x00" + tx.StudioName
		it := byItem[itemKey]
		if it == nil {
			it = &revenueGroup{key: tx.ItemName, studioName: tx.StudioName, revenue: decimal.Zero}
			byItem[itemKey] = it
		}
		it.revenue = it.revenue.Add(tx.Amount)
		it.bookings++

		d := int(tx.OccurredAt.Weekday())
		days[d].revenue = days[d].revenue.Add(tx.Amount)
		days[d].bookings++

		h := tx.OccurredAt.Hour()
		hours[h].revenue = hours[h].revenue.Add(tx.Amount)
		hours[h].bookings++

		if tx.DiscountAmount.IsPositive() {
			impact.BookingsWithCoupon++
			discounts = discounts.Add(tx.DiscountAmount)
			if tx.Amount.IsPositive() {
				discountPctSum = discountPctSum.Add(rate(tx.DiscountAmount, tx.Amount))
			}
		} else {
			impact.BookingsWithoutCoupon++
		}
	}

	impact.TotalDiscounts = toFloat64(discounts)
	if impact.BookingsWithCoupon > 0 {
		impact.AvgDiscountPercent = toFloat64(discountPctSum.Div(decimal.NewFromInt(int64(impact.BookingsWithCoupon))))
	}

	out := &analytics.RevenueBreakdown{
		ByStudio:     make([]analytics.StudioRevenue, 0, len(byStudio)),
		ByItem:       make([]analytics.ItemRevenue, 0, len(byItem)),
		ByDayOfWeek:  make([]analytics.DayRevenue, 7),
		ByTimeOfDay:  make([]analytics.HourRevenue, 24),
		CouponImpact: impact,
	}

	studios := collect(byStudio)
	rankGroups(studios)
	for _, g := range studios {
		out.ByStudio = append(out.ByStudio, analytics.StudioRevenue{Name: g.key, Revenue: toFloat64(g.revenue)})
	}
	for i, pct := range allocatePercentages(groupRevenues(studios), total) {
		out.ByStudio[i].Percentage = pct
	}

	items := collect(byItem)
	rankGroups(items)
	for _, g := range items {
		out.ByItem = append(out.ByItem, analytics.ItemRevenue{
			Name:       g.key,
			StudioName: g.studioName,
			Revenue:    toFloat64(g.revenue),
			Bookings:   g.bookings,
		})
	}
	for i, pct := range allocatePercentages(groupRevenues(items), total) {
		out.ByItem[i].Percentage = pct
	}

	for i := range days {
		out.ByDayOfWeek[i] = analytics.DayRevenue{
			Day:      dayNames[i],
			DayIndex: i,
			Revenue:  toFloat64(days[i].revenue),
			Bookings: days[i].bookings,
		}
	}
	for i := range hours {
		out.ByTimeOfDay[i] = analytics.HourRevenue{
			Hour:     i,
			Revenue:  toFloat64(hours[i].revenue),
			Bookings: hours[i].bookings,
		}
	}
	return out
}

func collect(m map[string]*revenueGroup) []revenueGroup {
	out := make([]revenueGroup, 0, len(m))
	for _, g := range m {
		out = append(out, *g)
	}
	return out
}

func groupRevenues(groups []revenueGroup) []decimal.Decimal {
	out := make([]decimal.Decimal, len(groups))
	for i, g := range groups {
		out[i] = g.revenue
	}
	return out
}
