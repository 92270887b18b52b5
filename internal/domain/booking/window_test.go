package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studiobook/backend/internal/domain/shared"
)

var anchor = time.Date(2026, time.August, 15, 12, 30, 0, 0, time.UTC)

func TestCurrentMonth(t *testing.T) {
	w := CurrentMonth(anchor)

	assert.Equal(t, time.Date(2026, time.August, 1, 0, 0, 0, 0, time.UTC), w.Start)
	assert.Equal(t, time.Date(2026, time.September, 1, 0, 0, 0, 0, time.UTC), w.End)
}

func TestLastNDays_IncludesToday(t *testing.T) {
	w := LastNDays(anchor, 7)

	assert.Equal(t, time.Date(2026, time.August, 9, 0, 0, 0, 0, time.UTC), w.Start)
	assert.Equal(t, time.Date(2026, time.August, 16, 0, 0, 0, 0, time.UTC), w.End)
	assert.True(t, w.Contains(anchor))
}

func TestLastNMonths(t *testing.T) {
	w := LastNMonths(anchor, 12)

	assert.Equal(t, time.Date(2025, time.September, 1, 0, 0, 0, 0, time.UTC), w.Start)
	assert.Equal(t, time.Date(2026, time.September, 1, 0, 0, 0, 0, time.UTC), w.End)
}

func TestWindow_Previous(t *testing.T) {
	w := CurrentMonth(anchor)
	prev := w.Previous()

	assert.Equal(t, w.Start, prev.End)
	assert.Equal(t, w.End.Sub(w.Start), prev.End.Sub(prev.Start))
}

func TestWindow_ContainsIsHalfOpen(t *testing.T) {
	w := CurrentMonth(anchor)

	assert.True(t, w.Contains(w.Start))
	assert.True(t, w.Contains(w.End.Add(-time.Nanosecond)))
	assert.False(t, w.Contains(w.End))
	assert.False(t, w.Contains(w.Start.Add(-time.Nanosecond)))
}

func TestParseWindow(t *testing.T) {
	tests := []struct {
		value string
		want  Window
	}{
		{"", CurrentMonth(anchor)},
		{"current_month", CurrentMonth(anchor)},
		{"last_month", LastMonth(anchor)},
		{"7d", LastNDays(anchor, 7)},
		{"30d", LastNDays(anchor, 30)},
		{"90d", LastNDays(anchor, 90)},
		{"12m", LastNMonths(anchor, 12)},
	}
	for _, tt := range tests {
		w, err := ParseWindow(tt.value, anchor)
		require.NoError(t, err, tt.value)
		assert.Equal(t, tt.want, w, tt.value)
	}
}

func TestLastMonth(t *testing.T) {
	w := LastMonth(anchor)

	assert.Equal(t, time.Date(2026, time.July, 1, 0, 0, 0, 0, time.UTC), w.Start)
	assert.Equal(t, time.Date(2026, time.August, 1, 0, 0, 0, 0, time.UTC), w.End)
}

func TestLastMonth_MonthEndAfterShorterMonth(t *testing.T) {
	// 31 March has no day-for-day counterpart in February; the window must
	// still be February, not a normalized date back in March
	w := LastMonth(time.Date(2026, time.March, 31, 9, 0, 0, 0, time.UTC))

	assert.Equal(t, time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC), w.Start)
	assert.Equal(t, time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC), w.End)
}

func TestLastMonth_JanuaryRollsBackAYear(t *testing.T) {
	w := LastMonth(time.Date(2026, time.January, 31, 9, 0, 0, 0, time.UTC))

	assert.Equal(t, time.Date(2025, time.December, 1, 0, 0, 0, 0, time.UTC), w.Start)
	assert.Equal(t, time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC), w.End)
}

func TestParseWindow_LastMonthAtMonthEnd(t *testing.T) {
	w, err := ParseWindow("last_month", time.Date(2026, time.March, 31, 9, 0, 0, 0, time.UTC))

	require.NoError(t, err)
	assert.Equal(t, time.February, w.Start.Month())
	assert.Equal(t, time.March, w.End.Month())
}

func TestParseWindow_UnknownValue(t *testing.T) {
	_, err := ParseWindow("fortnight", anchor)

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, shared.ErrCodeValidation, domainErr.Code)
}
