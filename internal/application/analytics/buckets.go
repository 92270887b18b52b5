package analytics

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/studiobook/backend/internal/domain/booking"
)

// Time-bucket aggregation. Every series is calendar-anchored to now,
// zero-filled, and counts confirmed transactions only, bucketed by the booked
// slot's timestamp (OccurredAt).

// monthlyRevenue returns 12 calendar-month buckets, oldest first; index 11 is
// the month containing now.
func monthlyRevenue(txs []booking.Transaction, now time.Time) []decimal.Decimal {
	buckets := zeroBuckets(12)
	for _, tx := range txs {
		if !tx.IsConfirmed() {
			continue
		}
		back := (now.Year()-tx.OccurredAt.Year())*12 + int(now.Month()) - int(tx.OccurredAt.Month())
		if back < 0 || back > 11 {
			continue
		}
		buckets[11-back] = buckets[11-back].Add(tx.Amount)
	}
	return buckets
}

// weeklyRevenue returns the 7 days of the week containing now, Sunday first.
func weeklyRevenue(txs []booking.Transaction, now time.Time) []decimal.Decimal {
	buckets := zeroBuckets(7)
	weekStart := startOfDay(now).AddDate(0, 0, -int(now.Weekday()))
	weekEnd := weekStart.AddDate(0, 0, 7)
	for _, tx := range txs {
		if !tx.IsConfirmed() {
			continue
		}
		if tx.OccurredAt.Before(weekStart) || !tx.OccurredAt.Before(weekEnd) {
			continue
		}
		day := int(tx.OccurredAt.Weekday())
		buckets[day] = buckets[day].Add(tx.Amount)
	}
	return buckets
}

// dailyRevenue returns the 24 hours of the day containing now.
func dailyRevenue(txs []booking.Transaction, now time.Time) []decimal.Decimal {
	buckets := zeroBuckets(24)
	dayStart := startOfDay(now)
	dayEnd := dayStart.AddDate(0, 0, 1)
	for _, tx := range txs {
		if !tx.IsConfirmed() {
			continue
		}
		if tx.OccurredAt.Before(dayStart) || !tx.OccurredAt.Before(dayEnd) {
			continue
		}
		hour := tx.OccurredAt.Hour()
		buckets[hour] = buckets[hour].Add(tx.Amount)
	}
	return buckets
}

// monthlySpend is monthlyRevenue net of discounts, used for per-customer
// spending trends.
func monthlySpend(txs []booking.Transaction, now time.Time) []decimal.Decimal {
	buckets := zeroBuckets(12)
	for _, tx := range txs {
		if !tx.IsConfirmed() {
			continue
		}
		back := (now.Year()-tx.OccurredAt.Year())*12 + int(now.Month()) - int(tx.OccurredAt.Month())
		if back < 0 || back > 11 {
			continue
		}
		buckets[11-back] = buckets[11-back].Add(tx.NetAmount())
	}
	return buckets
}

func zeroBuckets(n int) []decimal.Decimal {
	buckets := make([]decimal.Decimal, n)
	for i := range buckets {
		buckets[i] = decimal.Zero
	}
	return buckets
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func bucketsToFloat(buckets []decimal.Decimal) []float64 {
	out := make([]float64, len(buckets))
	for i, b := range buckets {
		out[i] = toFloat64(b)
	}
	return out
}
