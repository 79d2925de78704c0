package recargo_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/recargo-engine/recargo"
)

func hours(f float64) decimal.Decimal { return decimal.NewFromFloat(f) }

func TestExpandToHourUnits_SameDay(t *testing.T) {
	units, err := recargo.ExpandToHourUnits(hours(8.5), hours(11))
	require.NoError(t, err)
	require.Len(t, units, 3)

	assert.True(t, units[0].From.Equal(hours(8.5)))
	assert.True(t, units[0].To.Equal(hours(9)))
	assert.True(t, units[0].Duration().Equal(hours(0.5)))
	assert.True(t, units[2].From.Equal(hours(10)))
	assert.True(t, units[2].To.Equal(hours(11)))
	for _, u := range units {
		assert.False(t, u.Night)
		assert.False(t, u.NextDay)
	}
}

func TestExpandToHourUnits_CrossesMidnight(t *testing.T) {
	units, err := recargo.ExpandToHourUnits(hours(22), hours(2))
	require.NoError(t, err)
	require.Len(t, units, 4)

	assert.False(t, units[0].NextDay)
	assert.False(t, units[1].NextDay)
	assert.True(t, units[1].To.Equal(hours(24)))
	assert.True(t, units[2].NextDay)
	assert.True(t, units[2].From.IsZero())
	assert.True(t, units[3].NextDay)
	for _, u := range units {
		assert.True(t, u.Night, "every unit between 22:00 and 02:00 is night")
	}
}

func TestExpandToHourUnits_NightWindowEdges(t *testing.T) {
	units, err := recargo.ExpandToHourUnits(hours(5), hours(7))
	require.NoError(t, err)
	require.Len(t, units, 2)
	assert.True(t, units[0].Night, "05:00-06:00 is night")
	assert.False(t, units[1].Night, "06:00-07:00 is day")

	units, err = recargo.ExpandToHourUnits(hours(20.5), hours(21.5))
	require.NoError(t, err)
	require.Len(t, units, 2)
	assert.False(t, units[0].Night, "20:30-21:00 is day")
	assert.True(t, units[1].Night, "21:00-21:30 is night")
}

func TestExpandToHourUnits_EndAtMidnight(t *testing.T) {
	for _, end := range []float64{0, 24} {
		units, err := recargo.ExpandToHourUnits(hours(22), hours(end))
		require.NoError(t, err)
		require.Len(t, units, 2)
		for _, u := range units {
			assert.False(t, u.NextDay, "ending at midnight never spills into the next day")
		}
	}
}

func TestExpandToHourUnits_Invalid(t *testing.T) {
	_, err := recargo.ExpandToHourUnits(hours(10), hours(10))
	assert.ErrorIs(t, err, recargo.ErrInvalidShift)

	_, err = recargo.ExpandToHourUnits(hours(10), hours(10.2))
	assert.ErrorIs(t, err, recargo.ErrInvalidShift)
}

func TestShiftDuration(t *testing.T) {
	tests := []struct {
		start, end, want float64
	}{
		{8, 17, 9},
		{22, 6, 8},
		{22, 0, 2},
		{22, 24, 2},
		{0, 24, 24},
		{10, 9.5, 23.5},
		{23.5, 0.5, 1},
	}
	for _, tt := range tests {
		got, err := recargo.ShiftDuration(hours(tt.start), hours(tt.end))
		require.NoError(t, err)
		assert.Truef(t, got.Equal(hours(tt.want)), "%v-%v: expected %v, got %s", tt.start, tt.end, tt.want, got)
	}
}

func TestIsNightHour(t *testing.T) {
	night := []int{21, 22, 23, 0, 1, 5}
	day := []int{6, 7, 12, 20}
	for _, h := range night {
		assert.True(t, recargo.IsNightHour(h), "hour %d", h)
	}
	for _, h := range day {
		assert.False(t, recargo.IsNightHour(h), "hour %d", h)
	}
}
