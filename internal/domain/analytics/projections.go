package analytics

// Confidence classifies recent revenue volatility for the projection
type Confidence string

const (
	ConfidenceLow    Confidence = "low"
	ConfidenceMedium Confidence = "medium"
	ConfidenceHigh   Confidence = "high"
)

// Projections is the revenue forecast read model.
// ConfirmedUpcoming is a floor (already-booked future revenue), not a forecast.
// MonthlyActuals shares the 12-month axis of RevenueByPeriod.Monthly;
// ProjectedMonthly and ProjectedLine carry the next three months.
type Projections struct {
	ConfirmedUpcoming float64    `json:"confirmedUpcoming"`
	ProjectedMonthly  []float64  `json:"projectedMonthly"`
	MonthlyActuals    []float64  `json:"monthlyActuals"`
	ProjectedLine     []float64  `json:"projectedLine"`
	Confidence        Confidence `json:"confidence"`
}

// CombinedAnalytics bundles the three dashboard analytics panels fetched
// together by the combined endpoint
type CombinedAnalytics struct {
	TimeSlots       PopularTimeSlots    `json:"timeSlots"`
	Cancellations   CancellationStats   `json:"cancellations"`
	RepeatCustomers RepeatCustomerStats `json:"repeatCustomers"`
}
