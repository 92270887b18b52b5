package analytics

// RevenueBreakdown slices window revenue along four dimensions.
// Within each dimension the percentages sum to exactly 100.0 via
// largest-remainder correction, or are all 0.0 when total revenue is zero.
type RevenueBreakdown struct {
	ByStudio     []StudioRevenue `json:"byStudio"`
	ByItem       []ItemRevenue   `json:"byItem"`
	ByDayOfWeek  []DayRevenue    `json:"byDayOfWeek"`
	ByTimeOfDay  []HourRevenue   `json:"byTimeOfDay"`
	CouponImpact CouponImpact    `json:"couponImpact"`
}

// StudioRevenue is one studio's share of window revenue
type StudioRevenue struct {
	Name       string  `json:"name"`
	Revenue    float64 `json:"revenue"`
	Percentage float64 `json:"percentage"`
}

// ItemRevenue is one bookable item's share of window revenue
type ItemRevenue struct {
	Name       string  `json:"name"`
	StudioName string  `json:"studioName"`
	Revenue    float64 `json:"revenue"`
	Bookings   int     `json:"bookings"`
	Percentage float64 `json:"percentage"`
}

// DayRevenue is revenue bucketed by weekday (0 = Sunday), always 7 entries
type DayRevenue struct {
	Day      string  `json:"day"`
	DayIndex int     `json:"dayIndex"`
	Revenue  float64 `json:"revenue"`
	Bookings int     `json:"bookings"`
}

// HourRevenue is revenue bucketed by hour of day, always 24 entries
type HourRevenue struct {
	Hour     int     `json:"hour"`
	Revenue  float64 `json:"revenue"`
	Bookings int     `json:"bookings"`
}

// CouponImpact summarizes discount usage within the window
type CouponImpact struct {
	TotalDiscounts        float64 `json:"totalDiscounts"`
	AvgDiscountPercent    float64 `json:"avgDiscountPercent"`
	BookingsWithCoupon    int     `json:"bookingsWithCoupon"`
	BookingsWithoutCoupon int     `json:"bookingsWithoutCoupon"`
}
