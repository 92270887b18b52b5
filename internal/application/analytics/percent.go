package analytics

import (
	"sort"

	"github.com/shopspring/decimal"
)

// allocatePercentages converts parts of total into one-decimal percentages
// that sum to exactly 100.0, using largest-remainder correction: each share is
// floored to a tenth of a percent and the rounding residue is handed out one
// tenth at a time to the largest fractional remainders (earlier index wins
// ties, so ranked inputs stay deterministic). A zero total yields all zeros.
func allocatePercentages(parts []decimal.Decimal, total decimal.Decimal) []float64 {
	out := make([]float64, len(parts))
	if len(parts) == 0 || total.IsZero() {
		return out
	}

	thousand := decimal.NewFromInt(1000)
	units := make([]int64, len(parts))
	fracs := make([]decimal.Decimal, len(parts))
	var allocated int64
	for i, p := range parts {
		share := p.Div(total).Mul(thousand) // tenths of a percent
		floor := share.Floor()
		units[i] = floor.IntPart()
		fracs[i] = share.Sub(floor)
		allocated += units[i]
	}

	order := make([]int, len(parts))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return fracs[order[a]].GreaterThan(fracs[order[b]])
	})

	for i := int64(0); i < 1000-allocated && int(i) < len(order); i++ {
		units[order[i]]++
	}

	for i, u := range units {
		out[i] = float64(u) / 10
	}
	return out
}

func allocatePercentagesInt(counts []int, total int) []float64 {
	parts := make([]decimal.Decimal, len(counts))
	for i, c := range counts {
		parts[i] = decimal.NewFromInt(int64(c))
	}
	return allocatePercentages(parts, decimal.NewFromInt(int64(total)))
}
