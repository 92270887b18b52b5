package analytics

import "github.com/google/uuid"

// MerchantStats is the dashboard read model for a merchant and window.
// It is a pure projection of the transaction log; recomputation is the only
// update path. Monetary fields are in the merchant's currency (2dp).
type MerchantStats struct {
	TotalRevenue         float64         `json:"totalRevenue"`
	RevenueNet           float64         `json:"revenueNet"`
	TotalCouponDiscounts float64         `json:"totalCouponDiscounts"`
	ConversionRate       float64         `json:"conversionRate"`
	TotalBookings        int             `json:"totalBookings"`
	AvgPerBooking        float64         `json:"avgPerBooking"`
	NewClients           int             `json:"newClients"`
	Trends               MetricTrends    `json:"trends"`
	IsPositive           MetricFlags     `json:"isPositive"`
	QuickStats           QuickStats      `json:"quickStats"`
	TopClients           []TopClient     `json:"topClients"`
	RevenueByPeriod      RevenueByPeriod `json:"revenueByPeriod"`
}

// MetricTrends holds percent-change strings vs the prior equal-length window,
// formatted like "+12%" / "-3%".
type MetricTrends struct {
	TotalRevenue  string `json:"totalRevenue"`
	TotalBookings string `json:"totalBookings"`
	AvgPerBooking string `json:"avgPerBooking"`
	NewClients    string `json:"newClients"`
}

// MetricFlags marks whether each trend moved in the desired direction
type MetricFlags struct {
	TotalRevenue  bool `json:"totalRevenue"`
	TotalBookings bool `json:"totalBookings"`
	AvgPerBooking bool `json:"avgPerBooking"`
	NewClients    bool `json:"newClients"`
}

// QuickStats carries the dashboard side panel figures
type QuickStats struct {
	AvgSessionTime float64           `json:"avgSessionTime"`
	Occupancy      float64           `json:"occupancy"`
	Studios        []StudioOccupancy `json:"studios"`
}

// StudioOccupancy is per-studio occupancy, as a percentage of open slot-hours
type StudioOccupancy struct {
	StudioID  uuid.UUID `json:"studioId"`
	Name      string    `json:"name"`
	Occupancy float64   `json:"occupancy"`
}

// TopClient is one entry of the ranked top-spender list.
// LastVisit uses the DD/MM/YYYY list-date format.
type TopClient struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	TotalSpent    float64   `json:"totalSpent"`
	BookingsCount int       `json:"bookingsCount"`
	LastVisit     string    `json:"lastVisit"`
}

// RevenueByPeriod holds the calendar-anchored revenue series.
// Monthly has 12 entries (index 11 = current month), Weekly 7 (current week,
// index 0 = Sunday), Daily 24 (current day, index = hour). Buckets with no
// transactions are zero-filled, never omitted.
type RevenueByPeriod struct {
	Monthly []float64 `json:"monthly"`
	Weekly  []float64 `json:"weekly"`
	Daily   []float64 `json:"daily"`
}
