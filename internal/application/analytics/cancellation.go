package analytics

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/studiobook/backend/internal/domain/analytics"
	"github.com/studiobook/backend/internal/domain/booking"
)

// cancellationStats analyzes cancelled bookings in the current window against
// the previous equal-length window. The rate denominator is all transactions
// (cancelled + confirmed); a missing cancellation reason counts under "Other".
func cancellationStats(current, previous []booking.Transaction) *analytics.CancellationStats {
	cancelled, confirmed := 0, 0
	cancelledRevenue := decimal.Zero
	reasons := map[string]int{}
	byDay := make([]int, 7)

	for _, tx := range current {
		if tx.IsConfirmed() {
			confirmed++
			continue
		}
		cancelled++
		cancelledRevenue = cancelledRevenue.Add(tx.Amount)
		reasons[tx.Reason()]++
		byDay[int(tx.OccurredAt.Weekday())]++
	}

	currentRate := rateFromInts(cancelled, cancelled+confirmed)
	previousRate := cancellationRateOf(previous)

	ranked := make([]analytics.ReasonCount, 0, len(reasons))
	for reason, count := range reasons {
		ranked = append(ranked, analytics.ReasonCount{Reason: reason, Count: count})
	}
	sort.SliceStable(ranked, func(a, b int) bool {
		if ranked[a].Count != ranked[b].Count {
			return ranked[a].Count > ranked[b].Count
		}
		return ranked[a].Reason < ranked[b].Reason
	})

	return &analytics.CancellationStats{
		TotalCancelled:         cancelled,
		CancellationRate:       currentRate,
		CancelledRevenue:       toFloat64(cancelledRevenue),
		TopCancellationReasons: ranked,
		CancellationsByDay:     byDay,
		Trend:                  rateDelta(currentRate, previousRate),
		IsPositive:             currentRate <= previousRate,
	}
}

func cancellationRateOf(txs []booking.Transaction) float64 {
	cancelled, total := 0, 0
	for _, tx := range txs {
		total++
		if !tx.IsConfirmed() {
			cancelled++
		}
	}
	return rateFromInts(cancelled, total)
}

// rateDelta formats the change between two rates in percentage points.
func rateDelta(current, previous float64) string {
	delta := current - previous
	switch {
	case delta > 0:
		return fmt.Sprintf("+%.1f%%", delta)
	case delta < 0:
		return fmt.Sprintf("%.1f%%", delta)
	default:
		return "0%"
	}
}
