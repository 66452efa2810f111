package work

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClock(t *testing.T) {
	tests := []struct {
		input  string
		want   Clock
		reason ReasonCode
	}{
		{"08:00", NewClock(8, 0), ""},
		{"8:05", NewClock(8, 5), ""},
		{" 23:59 ", NewClock(23, 59), ""},
		{"00:00", 0, ""},
		{"24:00", 0, ReasonClockOutOfRange},
		{"12:60", 0, ReasonClockOutOfRange},
		{"8h30", 0, ReasonMalformedTime},
		{"", 0, ReasonMalformedTime},
		{"08:00:00", 0, ReasonMalformedTime},
		{"-1:00", 0, ReasonMalformedTime},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseClock(FieldClockIn, tt.input)
			if tt.reason == "" {
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
				return
			}
			var pe *ParseError
			require.True(t, errors.As(err, &pe), "expected *ParseError, got %v", err)
			assert.Equal(t, tt.reason, pe.Reason)
			assert.Equal(t, FieldClockIn, pe.Field)
		})
	}
}

func TestClockString(t *testing.T) {
	assert.Equal(t, "07:05", NewClock(7, 5).String())
	assert.Equal(t, "23:59", NewClock(23, 59).String())
	assert.False(t, Clock(MinutesPerDay).Valid())
	assert.False(t, Clock(-1).Valid())
}

func TestParseHours(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		want     []float64
		reason   ReasonCode
		position int
	}{
		{"empty", "", nil, "", 0},
		{"whitespace", "   ", nil, "", 0},
		{"single", "1", []float64{1}, "", 0},
		{"list", "1, 0.5", []float64{1, 0.5}, "", 0},
		{"leading dot", ".5", []float64{0.5}, "", 0},
		{"semicolons", "0.25;0.75", []float64{0.25, 0.75}, "", 0},
		{"json list", "[1, 0.5]", []float64{1, 0.5}, "", 0},
		{"empty json list", "[]", nil, "", 0},
		{"bad second item", "1,abc", nil, ReasonMalformedNumber, 2},
		{"negative", "0.5,-1", nil, ReasonNegativeValue, 2},
		{"empty item", "1,,2", nil, ReasonMalformedNumber, 2},
		{"exponent", "1e2", nil, ReasonMalformedNumber, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseHours(FieldBreaks, tt.input)
			if tt.reason == "" {
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
				return
			}
			var pe *ParseError
			require.ErrorAs(t, err, &pe)
			assert.Equal(t, tt.reason, pe.Reason)
			assert.Equal(t, tt.position, pe.Position)
			assert.Contains(t, pe.Error(), "item")
		})
	}
}

func TestParseDate(t *testing.T) {
	want := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)

	got, err := ParseDate(FieldDate, "05/03/2024", nil)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	got, err = ParseDate(FieldDate, " 2024-03-05 ", DefaultDateLayouts)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	for _, text := range []string{"5/3/2024", "05/3/2024", "5/03/2024"} {
		got, err = ParseDate(FieldDate, text, nil)
		require.NoError(t, err, text)
		assert.Equal(t, want, got, text)
	}

	_, err = ParseDate(FieldDate, "31/02/2024", nil)
	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, ReasonMalformedDate, pe.Reason)

	_, err = ParseDate(FieldDate, "2024-03-05", []string{"02/01/2006"})
	assert.Error(t, err)

	_, err = ParseDate(FieldDate, "5/3/2024", []string{"02/01/2006"})
	assert.Error(t, err)
}

func TestUnpaddedLayout(t *testing.T) {
	tests := []struct {
		layout string
		want   string
	}{
		{"02/01/2006", "2/1/2006"},
		{"01/02/2006", "1/2/2006"},
		{"2006-01-02", "2006-1-2"},
		{"2/1/2006", "2/1/2006"},
	}

	for _, tt := range tests {
		t.Run(tt.layout, func(t *testing.T) {
			assert.Equal(t, tt.want, UnpaddedLayout(tt.layout))
		})
	}
}
