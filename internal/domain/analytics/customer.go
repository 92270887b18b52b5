package analytics

import (
	"github.com/google/uuid"

	"github.com/studiobook/backend/internal/domain/shared"
)

// ChurnRisk is the categorical estimate of how likely a customer is to stop
// booking, derived from visit frequency and recency
type ChurnRisk string

const (
	ChurnLow    ChurnRisk = "low"
	ChurnMedium ChurnRisk = "medium"
	ChurnHigh   ChurnRisk = "high"
)

// CustomerSortBy selects the sort order of the customer analytics listing
type CustomerSortBy string

const (
	SortByTotalSpent CustomerSortBy = "totalSpent"
	SortByLastVisit  CustomerSortBy = "lastVisit"
	SortByBookings   CustomerSortBy = "bookings"
)

// ParseCustomerSortBy validates a sortBy query value. An unknown value is a
// validation error, rejected before any computation.
func ParseCustomerSortBy(value string) (CustomerSortBy, error) {
	switch value {
	case "", string(SortByTotalSpent):
		return SortByTotalSpent, nil
	case string(SortByLastVisit):
		return SortByLastVisit, nil
	case string(SortByBookings):
		return SortByBookings, nil
	default:
		return "", shared.NewDomainError(shared.ErrCodeValidation,
			"unknown sortBy: valid values are totalSpent, lastVisit, bookings")
	}
}

// CustomerAnalyticsRow is the per-customer segmentation read model,
// materialized on demand from the customer's full transaction history.
// FirstVisit/LastVisit use the DD/MM/YYYY list-date format.
type CustomerAnalyticsRow struct {
	CustomerID       uuid.UUID `json:"customerId"`
	CustomerName     string    `json:"customerName"`
	LifetimeValue    float64   `json:"lifetimeValue"`
	BookingCount     int       `json:"bookingCount"`
	AvgSpendPerVisit float64   `json:"avgSpendPerVisit"`
	FirstVisit       string    `json:"firstVisit"`
	LastVisit        string    `json:"lastVisit"`
	FavoriteStudio   string    `json:"favoriteStudio"`
	FavoriteItem     string    `json:"favoriteItem"`
	VisitFrequency   float64   `json:"visitFrequency"`
	ChurnRisk        ChurnRisk `json:"churnRisk"`
}

// BookingHistoryEntry is one row of a customer's booking history,
// most recent first
type BookingHistoryEntry struct {
	ID         uuid.UUID `json:"id"`
	Date       string    `json:"date"`
	StudioName string    `json:"studioName"`
	ItemName   string    `json:"itemName"`
	Price      float64   `json:"price"`
	Status     string    `json:"status"`
}

// CustomerDetail is the drill-down read model for one customer.
// SpendingTrend aligns with the same 12-month axis as
// MerchantStats.RevenueByPeriod.Monthly.
type CustomerDetail struct {
	CustomerID         uuid.UUID             `json:"customerId"`
	BookingHistory     []BookingHistoryEntry `json:"bookingHistory"`
	SpendingTrend      []float64             `json:"spendingTrend"`
	PreferredTimeSlots []string              `json:"preferredTimeSlots"`
	PreferredDays      []string              `json:"preferredDays"`
}

// RepeatCustomer is a ranked entry of the repeat-customer list
type RepeatCustomer struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Bookings   int       `json:"bookings"`
	TotalSpent float64   `json:"totalSpent"`
	LastVisit  string    `json:"lastVisit"`
}

// RepeatCustomerStats summarizes customers with more than one confirmed booking
type RepeatCustomerStats struct {
	TotalCustomers        int              `json:"totalCustomers"`
	RepeatCustomers       int              `json:"repeatCustomers"`
	RepeatRate            float64          `json:"repeatRate"`
	AvgBookingsPerRepeat  float64          `json:"avgBookingsPerRepeat"`
	RepeatCustomerRevenue float64          `json:"repeatCustomerRevenue"`
	RevenuePercentage     float64          `json:"revenuePercentage"`
	TopRepeatCustomers    []RepeatCustomer `json:"topRepeatCustomers"`
}
