package work

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validEntry() RawEntry {
	return RawEntry{
		Date:       "05/03/2024",
		EmployeeID: "E001",
		Name:       "Alice",
		ShiftLabel: "Day",
		ClockIn:    "08:00",
		ClockOut:   "17:30",
		Breaks:     "1, 0.5",
	}
}

func TestBuildRecord(t *testing.T) {
	rec, err := Build(validEntry(), DefaultPolicy())
	require.NoError(t, err)

	assert.Equal(t, time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), rec.Date())
	assert.Equal(t, "E001", rec.EmployeeID())
	assert.Equal(t, "Alice", rec.Name())
	assert.Equal(t, "Day", rec.ShiftLabel())
	assert.Equal(t, "08:00", rec.ClockIn().String())
	assert.Equal(t, "17:30", rec.ClockOut().String())
	assert.Equal(t, 9.5, rec.RawDurationHours())
	assert.Equal(t, 1.5, rec.BreakTotalHours())
	assert.Equal(t, 8.0, rec.NetWorkedHours())
	assert.Equal(t, 8.0, rec.RegularHours())
	assert.Equal(t, 0.0, rec.OvertimeHours())
	assert.Equal(t, 8.0, rec.WorkedHours())
}

func TestBuildRecordOvertime(t *testing.T) {
	tests := []struct {
		name     string
		clockIn  string
		clockOut string
		breaks   string
		extra    string
		regular  float64
		overtime float64
	}{
		{"declared overtime", "08:00", "17:00", "1", "1", 8, 1},
		{"excess hours", "08:00", "17:00", "", "", 8, 1},
		{"night shift", "22:00", "06:00", "", "", 8, 0},
		{"multiple declared values", "08:00", "16:00", "", "0.5;0.25", 8, 0.75},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry := validEntry()
			entry.ClockIn, entry.ClockOut = tt.clockIn, tt.clockOut
			entry.Breaks, entry.AdditionalOT = tt.breaks, tt.extra

			rec, err := Build(entry, DefaultPolicy())
			require.NoError(t, err)
			assert.InDelta(t, tt.regular, rec.RegularHours(), 1e-9)
			assert.InDelta(t, tt.overtime, rec.OvertimeHours(), 1e-9)
		})
	}
}

func TestBuildRecordRejects(t *testing.T) {
	strict := DefaultPolicy()
	strict.ZeroDurationIsFullDay = false
	capped := DefaultPolicy()
	capped.MaxNetHours = 16

	tests := []struct {
		name   string
		mutate func(*RawEntry)
		policy Policy
		reason ReasonCode
		field  string
	}{
		{"missing employee", func(e *RawEntry) { e.EmployeeID = " " }, DefaultPolicy(), ReasonMissingField, FieldEmployeeID},
		{"missing name", func(e *RawEntry) { e.Name = "" }, DefaultPolicy(), ReasonMissingField, FieldName},
		{"missing clock out", func(e *RawEntry) { e.ClockOut = "" }, DefaultPolicy(), ReasonMissingField, FieldClockOut},
		{"bad date", func(e *RawEntry) { e.Date = "2024/03/05" }, DefaultPolicy(), ReasonMalformedDate, FieldDate},
		{"bad clock in", func(e *RawEntry) { e.ClockIn = "8am" }, DefaultPolicy(), ReasonMalformedTime, FieldClockIn},
		{"clock out of range", func(e *RawEntry) { e.ClockOut = "25:00" }, DefaultPolicy(), ReasonClockOutOfRange, FieldClockOut},
		{"negative break", func(e *RawEntry) { e.Breaks = "-1" }, DefaultPolicy(), ReasonNegativeValue, FieldBreaks},
		{"bad overtime", func(e *RawEntry) { e.AdditionalOT = "x" }, DefaultPolicy(), ReasonMalformedNumber, FieldAdditionalOT},
		{"breaks exceed shift", func(e *RawEntry) { e.Breaks = "5,5" }, DefaultPolicy(), ReasonBreakExceedsShift, FieldBreaks},
		{"zero duration", func(e *RawEntry) { e.ClockOut = e.ClockIn }, strict, ReasonZeroDuration, FieldClockIn},
		{"net cap", func(e *RawEntry) { e.ClockOut = e.ClockIn; e.Breaks = "" }, capped, ReasonNetHoursExceeded, FieldClockIn},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry := validEntry()
			tt.mutate(&entry)

			rec, err := Build(entry, tt.policy)
			require.Error(t, err)
			assert.Equal(t, AttendanceRecord{}, rec)

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.reason, verr.Reason)
			assert.Contains(t, verr.Fields, tt.field)
		})
	}
}

func TestBuildRecordKeepsBreakCause(t *testing.T) {
	entry := validEntry()
	entry.Breaks = "6, 4"

	_, err := Build(entry, DefaultPolicy())

	var ibe *InvalidBreakError
	require.True(t, errors.As(err, &ibe))
	assert.Equal(t, 10.0, ibe.BreakTotal)
	assert.Equal(t, 9.5, ibe.RawDuration)
}

func TestNewRecordFromInput(t *testing.T) {
	in := RecordInput{
		Date:         time.Date(2024, 3, 5, 15, 30, 0, 0, time.UTC),
		EmployeeID:   "E002",
		Name:         "Bob",
		ClockIn:      NewClock(9, 0),
		ClockOut:     NewClock(18, 0),
		Breaks:       []float64{1},
		AdditionalOT: 0.5,
	}

	rec, err := NewRecord(in, DefaultPolicy())
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), rec.Date())
	assert.Equal(t, 8.5, rec.OvertimeHours()+rec.RegularHours())

	back := rec.Input()
	assert.Equal(t, in.Breaks, back.Breaks)
	assert.Equal(t, in.AdditionalOT, back.AdditionalOT)

	_, err = NewRecord(RecordInput{EmployeeID: "E002", Name: "Bob", ClockIn: 0, ClockOut: 60}, DefaultPolicy())
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, ReasonMissingField, verr.Reason)

	in.AdditionalOT = -1
	_, err = NewRecord(in, DefaultPolicy())
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, ReasonNegativeValue, verr.Reason)
	assert.ErrorIs(t, err, ErrNegativeHours)
}

func TestRecordBreaksAreCopied(t *testing.T) {
	breaks := []float64{1, 0.5}
	in := RecordInput{
		Date:       time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC),
		EmployeeID: "E001",
		Name:       "Alice",
		ClockIn:    NewClock(8, 0),
		ClockOut:   NewClock(17, 30),
		Breaks:     breaks,
	}
	rec, err := NewRecord(in, DefaultPolicy())
	require.NoError(t, err)

	breaks[0] = 9
	got := rec.Breaks()
	got[1] = 9

	assert.Equal(t, []float64{1, 0.5}, rec.Breaks())
	assert.Equal(t, 8.0, rec.NetWorkedHours())
}

func TestValidationErrorMessage(t *testing.T) {
	entry := validEntry()
	entry.ClockIn = "8h"

	_, err := Build(entry, DefaultPolicy())
	require.Error(t, err)
	assert.Equal(t, `invalid clock_in "8h": malformed_time`, err.Error())

	entry = validEntry()
	entry.Breaks = "1, x"
	_, err = Build(entry, DefaultPolicy())
	require.Error(t, err)
	assert.Equal(t, `invalid breaks "x": malformed_number (item 2)`, err.Error())

	var pe *ParseError
	assert.ErrorAs(t, err, &pe)

	entry = validEntry()
	entry.Breaks = "10"
	_, err = Build(entry, DefaultPolicy())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "break_exceeds_shift: break total 10.00h exceeds shift duration 9.50h")
}

func TestBuildRecordUnpaddedDate(t *testing.T) {
	entry := validEntry()
	entry.Date = "5/3/2024"

	rec, err := Build(entry, DefaultPolicy())
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), rec.Date())
}
