package analytics

// TimeSlotStats is one ranked one-hour slot ("14:00")
type TimeSlotStats struct {
	Slot       string  `json:"slot"`
	Bookings   int     `json:"bookings"`
	Revenue    float64 `json:"revenue"`
	Percentage float64 `json:"percentage"`
}

// DayStats is one ranked weekday (0 = Sunday)
type DayStats struct {
	Day        string  `json:"day"`
	DayIndex   int     `json:"dayIndex"`
	Bookings   int     `json:"bookings"`
	Revenue    float64 `json:"revenue"`
	Percentage float64 `json:"percentage"`
}

// PopularTimeSlots ranks slots and weekdays by booking count.
// Percentages are booking share, not revenue share.
type PopularTimeSlots struct {
	TimeSlots []TimeSlotStats `json:"timeSlots"`
	ByDay     []DayStats      `json:"byDay"`
}
