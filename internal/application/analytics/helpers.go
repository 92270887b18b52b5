package analytics

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

const listDateLayout = "02/01/2006"

var dayNames = [7]string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

func listDate(t time.Time) string {
	return t.Format(listDateLayout)
}

func slotLabel(hour int) string {
	return fmt.Sprintf("%02d:00", hour)
}

func toFloat64(d decimal.Decimal) float64 {
	f, _ := d.Round(2).Float64()
	return f
}

// rate returns num/den scaled by 100, or zero when den is zero.
// Every rate in the engine goes through here so division by zero
// always resolves to 0.
func rate(num, den decimal.Decimal) decimal.Decimal {
	if den.IsZero() {
		return decimal.Zero
	}
	return num.Div(den).Mul(decimal.NewFromInt(100))
}

func rateFromInts(num, den int) float64 {
	return toFloat64(rate(decimal.NewFromInt(int64(num)), decimal.NewFromInt(int64(den))))
}

// trendOf formats the percent change of current vs previous as "+12%" / "-3%"
// / "0%". previous == 0 collapses to "+100%" when current grew from nothing.
// The bool reports whether the move is non-negative.
func trendOf(current, previous decimal.Decimal) (string, bool) {
	if previous.IsZero() {
		if current.IsPositive() {
			return "+100%", true
		}
		return "0%", true
	}
	change := current.Sub(previous).Div(previous).Mul(decimal.NewFromInt(100)).Round(0).IntPart()
	switch {
	case change > 0:
		return fmt.Sprintf("+%d%%", change), true
	case change < 0:
		return fmt.Sprintf("%d%%", change), false
	default:
		return "0%", true
	}
}

func trendOfInts(current, previous int) (string, bool) {
	return trendOf(decimal.NewFromInt(int64(current)), decimal.NewFromInt(int64(previous)))
}

// monthsSince counts whole calendar months between first and now, floored at 1
// so visit frequencies stay defined for brand-new customers.
func monthsSince(first, now time.Time) int {
	months := (now.Year()-first.Year())*12 + int(now.Month()) - int(first.Month())
	if months < 1 {
		return 1
	}
	return months
}

func daysSince(last, now time.Time) int {
	d := int(now.Sub(last).Hours() / 24)
	if d < 0 {
		return 0
	}
	return d
}
