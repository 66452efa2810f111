package work

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRawDurationHours(t *testing.T) {
	p := DefaultPolicy()

	tests := []struct {
		name string
		in   Clock
		out  Clock
		want float64
	}{
		{"day shift", NewClock(8, 0), NewClock(17, 30), 9.5},
		{"cross midnight", NewClock(22, 0), NewClock(6, 0), 8},
		{"one minute", NewClock(23, 59), NewClock(0, 0), 1.0 / 60},
		{"full day", NewClock(7, 0), NewClock(7, 0), 24},
		{"almost full day", NewClock(0, 0), NewClock(23, 59), 23 + 59.0/60},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := RawDurationHours(tt.in, tt.out, p)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-12)
			assert.Greater(t, got, 0.0)
			assert.LessOrEqual(t, got, float64(HoursPerDay))
		})
	}
}

func TestShiftMinutesZeroDurationRejected(t *testing.T) {
	p := DefaultPolicy()
	p.ZeroDurationIsFullDay = false

	_, err := ShiftMinutes(NewClock(9, 0), NewClock(9, 0), p)
	assert.ErrorIs(t, err, ErrZeroDuration)

	minutes, err := ShiftMinutes(NewClock(9, 0), NewClock(8, 59), p)
	require.NoError(t, err)
	assert.Equal(t, MinutesPerDay-1, minutes)
}

func TestShiftMinutesOutOfRange(t *testing.T) {
	_, err := ShiftMinutes(Clock(-5), NewClock(9, 0), DefaultPolicy())
	assert.ErrorIs(t, err, ErrClockOutOfRange)

	_, err = ShiftMinutes(NewClock(9, 0), Clock(MinutesPerDay), DefaultPolicy())
	assert.ErrorIs(t, err, ErrClockOutOfRange)
}
