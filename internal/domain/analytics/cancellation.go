package analytics

// ReasonCount is one ranked cancellation reason
type ReasonCount struct {
	Reason string `json:"reason"`
	Count  int    `json:"count"`
}

// CancellationStats summarizes cancelled bookings for a window.
// IsPositive is true when the cancellation rate decreased vs the previous
// window: fewer cancellations is the desired direction.
type CancellationStats struct {
	TotalCancelled         int           `json:"totalCancelled"`
	CancellationRate       float64       `json:"cancellationRate"`
	CancelledRevenue       float64       `json:"cancelledRevenue"`
	TopCancellationReasons []ReasonCount `json:"topCancellationReasons"`
	CancellationsByDay     []int         `json:"cancellationsByDay"`
	Trend                  string        `json:"trend"`
	IsPositive             bool          `json:"isPositive"`
}
