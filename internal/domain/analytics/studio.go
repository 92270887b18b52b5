package analytics

import "github.com/google/uuid"

// StudioAnalyticsRow is one studio's slice of the merchant portfolio
type StudioAnalyticsRow struct {
	StudioID        uuid.UUID           `json:"studioId"`
	StudioName      string              `json:"studioName"`
	Revenue         float64             `json:"revenue"`
	BookingCount    int                 `json:"bookingCount"`
	AvgBookingValue float64             `json:"avgBookingValue"`
	Occupancy       float64             `json:"occupancy"`
	TopItems        []StudioItemStats   `json:"topItems"`
	GrowthTrend     string              `json:"growthTrend"`
	TopCustomers    []StudioTopCustomer `json:"topCustomers"`
}

// StudioItemStats is a ranked bookable item within a studio
type StudioItemStats struct {
	ItemID   uuid.UUID `json:"itemId"`
	Name     string    `json:"name"`
	Bookings int       `json:"bookings"`
	Revenue  float64   `json:"revenue"`
}

// StudioTopCustomer is a ranked customer within a studio
type StudioTopCustomer struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	TotalSpent    float64   `json:"totalSpent"`
	BookingsCount int       `json:"bookingsCount"`
}
