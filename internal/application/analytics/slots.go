package analytics

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/studiobook/backend/internal/domain/analytics"
	"github.com/studiobook/backend/internal/domain/booking"
)

// popularTimeSlots ranks one-hour slots and weekdays by confirmed booking
// count. Ties break by revenue desc, then slot/day index asc. Slot percentages
// are booking share, corrected with largest remainder; the weekday axis always
// carries all 7 days, ranked.
func popularTimeSlots(txs []booking.Transaction) *analytics.PopularTimeSlots {
	type bucket struct {
		index    int
		bookings int
		revenue  decimal.Decimal
	}
	hours := make([]bucket, 24)
	days := make([]bucket, 7)
	for i := range hours {
		hours[i] = bucket{index: i, revenue: decimal.Zero}
	}
	for i := range days {
		days[i] = bucket{index: i, revenue: decimal.Zero}
	}

	total := 0
	for _, tx := range txs {
		if !tx.IsConfirmed() {
			continue
		}
		total++
		h := tx.OccurredAt.Hour()
		hours[h].bookings++
		hours[h].revenue = hours[h].revenue.Add(tx.Amount)
		d := int(tx.OccurredAt.Weekday())
		days[d].bookings++
		days[d].revenue = days[d].revenue.Add(tx.Amount)
	}

	rank := func(buckets []bucket) {
		sort.SliceStable(buckets, func(a, b int) bool {
			if buckets[a].bookings != buckets[b].bookings {
				return buckets[a].bookings > buckets[b].bookings
			}
			if !buckets[a].revenue.Equal(buckets[b].revenue) {
				return buckets[a].revenue.GreaterThan(buckets[b].revenue)
			}
			return buckets[a].index < buckets[b].index
		})
	}

	active := make([]bucket, 0, len(hours))
	for _, h := range hours {
		if h.bookings > 0 {
			active = append(active, h)
		}
	}
	rank(active)
	rank(days)

	out := &analytics.PopularTimeSlots{
		TimeSlots: make([]analytics.TimeSlotStats, len(active)),
		ByDay:     make([]analytics.DayStats, 7),
	}

	slotCounts := make([]int, len(active))
	for i, h := range active {
		slotCounts[i] = h.bookings
		out.TimeSlots[i] = analytics.TimeSlotStats{
			Slot:     slotLabel(h.index),
			Bookings: h.bookings,
			Revenue:  toFloat64(h.revenue),
		}
	}
	for i, pct := range allocatePercentagesInt(slotCounts, total) {
		out.TimeSlots[i].Percentage = pct
	}

	dayCounts := make([]int, 7)
	for i, d := range days {
		dayCounts[i] = d.bookings
		out.ByDay[i] = analytics.DayStats{
			Day:      dayNames[d.index],
			DayIndex: d.index,
			Bookings: d.bookings,
			Revenue:  toFloat64(d.revenue),
		}
	}
	for i, pct := range allocatePercentagesInt(dayCounts, total) {
		out.ByDay[i].Percentage = pct
	}
	return out
}
