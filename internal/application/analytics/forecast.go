package analytics

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/studiobook/backend/internal/domain/analytics"
)

const (
	confidenceHighCV   = 0.15
	confidenceMediumCV = 0.35

	seasonalFloor = 0.5
	seasonalCeil  = 2.0
)

// forecast projects the next three months from the 12-month actuals series.
//
// The series is decomposed into a least-squares linear trend and a per-month
// seasonal multiplier (ratio of each month's value to the fitted trend line,
// clamped to [0.5, 2.0]). Each projected month is
// movingAverage(last 3) × growthFactor^i × seasonal(target month); the target
// month's multiplier is taken from its occurrence one year earlier in the
// series. Confidence is a pure function of the coefficient of variation of the
// last three actuals.
func forecast(monthly []decimal.Decimal, confirmedUpcoming decimal.Decimal) *analytics.Projections {
	actuals := bucketsToFloat(monthly)

	out := &analytics.Projections{
		ConfirmedUpcoming: toFloat64(confirmedUpcoming),
		ProjectedMonthly:  make([]float64, 3),
		MonthlyActuals:    actuals,
		ProjectedLine:     make([]float64, 3),
		Confidence:        analytics.ConfidenceLow,
	}

	base := movingAverage(actuals, 3)
	if base <= 0 {
		return out
	}

	slope, intercept := linearFit(actuals)
	growth := 1 + slope/base
	if growth < seasonalFloor {
		growth = seasonalFloor
	}
	if growth > seasonalCeil {
		growth = seasonalCeil
	}

	for i := 1; i <= 3; i++ {
		// month now+i has the same calendar month as series index i-1
		seasonal := seasonalMultiplier(actuals, slope, intercept, i-1)
		value := base * math.Pow(growth, float64(i)) * seasonal
		out.ProjectedMonthly[i-1] = toFloat64(decimal.NewFromFloat(value))
	}
	copy(out.ProjectedLine, out.ProjectedMonthly)

	out.Confidence = confidenceOf(actuals[len(actuals)-3:])
	return out
}

func movingAverage(values []float64, n int) float64 {
	if len(values) < n || n == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values[len(values)-n:] {
		sum += v
	}
	return sum / float64(n)
}

// linearFit returns the least-squares slope and intercept of values over
// x = 0..len-1.
func linearFit(values []float64) (slope, intercept float64) {
	n := float64(len(values))
	if n < 2 {
		return 0, movingAverage(values, len(values))
	}
	var sumX, sumY, sumXY, sumXX float64
	for i, v := range values {
		x := float64(i)
		sumX += x
		sumY += v
		sumXY += x * v
		sumXX += x * x
	}
	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		return 0, sumY / n
	}
	slope = (n*sumXY - sumX*sumY) / denom
	intercept = (sumY - slope*sumX) / n
	return slope, intercept
}

func seasonalMultiplier(values []float64, slope, intercept float64, index int) float64 {
	trend := intercept + slope*float64(index)
	if trend <= 0 || index < 0 || index >= len(values) {
		return 1
	}
	m := values[index] / trend
	if m < seasonalFloor {
		return seasonalFloor
	}
	if m > seasonalCeil {
		return seasonalCeil
	}
	return m
}

// confidenceOf maps the coefficient of variation of recent actuals to a
// confidence band: steadier history, stronger forecast.
func confidenceOf(recent []float64) analytics.Confidence {
	mean := movingAverage(recent, len(recent))
	if mean <= 0 {
		return analytics.ConfidenceLow
	}
	var variance float64
	for _, v := range recent {
		variance += (v - mean) * (v - mean)
	}
	variance /= float64(len(recent))
	cv := math.Sqrt(variance) / mean
	switch {
	case cv <= confidenceHighCV:
		return analytics.ConfidenceHigh
	case cv <= confidenceMediumCV:
		return analytics.ConfidenceMedium
	default:
		return analytics.ConfidenceLow
	}
}
