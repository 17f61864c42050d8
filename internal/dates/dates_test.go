package dates

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	d, err := Parse(" 2024-02-29 ")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), d)

	_, err = Parse("29/02/2024")
	assert.Error(t, err)
}

func TestParseOrToday(t *testing.T) {
	defer func(prev func() time.Time, loc *time.Location) { Now, Location = prev, loc }(Now, Location)
	Location = time.UTC
	Now = func() time.Time { return time.Date(2025, 3, 10, 22, 0, 0, 0, time.UTC) }

	assert.Equal(t, "2025-03-10", Format(ParseOrToday("garbage")))
	assert.Equal(t, "2025-01-02", Format(ParseOrToday("2025-01-02")))
}

func TestTodayUsesShopTimezone(t *testing.T) {
	defer func(prev func() time.Time, loc *time.Location) { Now, Location = prev, loc }(Now, Location)

	Location = time.FixedZone("IST", 5*3600+1800)
	// 20:00 UTC is already the next day in India
	Now = func() time.Time { return time.Date(2025, 3, 10, 20, 0, 0, 0, time.UTC) }

	assert.Equal(t, time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC), Today())
}

func TestMonthBounds(t *testing.T) {
	first, last := MonthBounds(2024, time.February)
	assert.Equal(t, "2024-02-01", Format(first))
	assert.Equal(t, "2024-02-29", Format(last))

	first, last = MonthBounds(2025, time.December)
	assert.Equal(t, "2025-12-01", Format(first))
	assert.Equal(t, "2025-12-31", Format(last))
}

func TestWeekStart(t *testing.T) {
	// 2025-03-16 is a Sunday
	assert.Equal(t, "2025-03-10", Format(WeekStart(time.Date(2025, 3, 16, 0, 0, 0, 0, time.UTC))))
	assert.Equal(t, "2025-03-17", Format(WeekStart(time.Date(2025, 3, 17, 0, 0, 0, 0, time.UTC))))
}
