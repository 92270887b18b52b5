package booking

import (
	"fmt"
	"time"

	"github.com/studiobook/backend/internal/domain/shared"
)

// Window is the explicit time range an analytics query is computed over.
// The range is half-open: Start inclusive, End exclusive.
type Window struct {
	Start time.Time
	End   time.Time
}

// CurrentMonth returns the calendar month containing now
func CurrentMonth(now time.Time) Window {
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	return Window{Start: start, End: start.AddDate(0, 1, 0)}
}

// LastMonth returns the calendar month before the one containing now.
// The month is derived from the year/month fields rather than AddDate,
// which on day 29-31 can normalize past a shorter month and land back in
// the current one.
func LastMonth(now time.Time) Window {
	start := time.Date(now.Year(), now.Month()-1, 1, 0, 0, 0, 0, now.Location())
	return Window{Start: start, End: start.AddDate(0, 1, 0)}
}

// LastNDays returns the n calendar days ending with today
func LastNDays(now time.Time, n int) Window {
	end := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).AddDate(0, 0, 1)
	return Window{Start: end.AddDate(0, 0, -n), End: end}
}

// LastNMonths returns the n calendar months ending with the current month
func LastNMonths(now time.Time, n int) Window {
	end := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, 1, 0)
	return Window{Start: end.AddDate(0, -n, 0), End: end}
}

// Previous returns the immediately preceding window of equal length
func (w Window) Previous() Window {
	d := w.End.Sub(w.Start)
	return Window{Start: w.Start.Add(-d), End: w.Start}
}

// Contains reports whether t falls inside the window
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

// Key returns a stable cache-key fragment for the window
func (w Window) Key() string {
	return fmt.Sprintf("%d-%d", w.Start.Unix(), w.End.Unix())
}

// ParseWindow maps the window= query values onto concrete ranges.
// An empty value defaults to the current calendar month.
func ParseWindow(value string, now time.Time) (Window, error) {
	switch value {
	case "", "current_month":
		return CurrentMonth(now), nil
	case "last_month":
		return LastMonth(now), nil
	case "7d":
		return LastNDays(now, 7), nil
	case "30d":
		return LastNDays(now, 30), nil
	case "90d":
		return LastNDays(now, 90), nil
	case "12m":
		return LastNMonths(now, 12), nil
	default:
		return Window{}, shared.NewDomainError(shared.ErrCodeValidation,
			"unknown window: valid values are current_month, last_month, 7d, 30d, 90d, 12m")
	}
}
