package work

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"time"
)

// RawEntry is one attendance entry as typed or imported, before any coercion.
// Line is the source line when the entry came from a file, 0 otherwise.
type RawEntry struct {
	Date         string
	EmployeeID   string
	Name         string
	ShiftLabel   string
	ClockIn      string
	ClockOut     string
	Breaks       string
	AdditionalOT string
	Line         int
}

// RecordInput is an already typed entry, e.g. one loaded from storage.
type RecordInput struct {
	Date         time.Time
	EmployeeID   string
	Name         string
	ShiftLabel   string
	ClockIn      Clock
	ClockOut     Clock
	Breaks       []float64
	AdditionalOT float64
}

// AttendanceRecord is a validated day of attendance. Derived hours are
// computed once when the record is built and the record is never modified.
type AttendanceRecord struct {
	date         time.Time
	employeeID   string
	name         string
	shiftLabel   string
	clockIn      Clock
	clockOut     Clock
	breaks       []float64
	additionalOT float64
	hours        Breakdown
}

func (r AttendanceRecord) Date() time.Time    { return r.date }
func (r AttendanceRecord) EmployeeID() string { return r.employeeID }
func (r AttendanceRecord) Name() string       { return r.name }
func (r AttendanceRecord) ShiftLabel() string { return r.shiftLabel }
func (r AttendanceRecord) ClockIn() Clock     { return r.clockIn }
func (r AttendanceRecord) ClockOut() Clock    { return r.clockOut }

// Breaks returns a copy of the break durations in entry order.
func (r AttendanceRecord) Breaks() []float64 {
	return append([]float64(nil), r.breaks...)
}

func (r AttendanceRecord) AdditionalOTHours() float64 { return r.additionalOT }
func (r AttendanceRecord) RawDurationHours() float64  { return r.hours.RawHours }
func (r AttendanceRecord) BreakTotalHours() float64   { return r.hours.BreakTotal }
func (r AttendanceRecord) NetWorkedHours() float64    { return r.hours.NetHours }
func (r AttendanceRecord) RegularHours() float64      { return r.hours.RegularHours }
func (r AttendanceRecord) OvertimeHours() float64     { return r.hours.OvertimeHours }

// WorkedHours is regular plus overtime, the figure summaries total up.
func (r AttendanceRecord) WorkedHours() float64 {
	return r.hours.RegularHours + r.hours.OvertimeHours
}

// Input returns the typed values the record was built from.
func (r AttendanceRecord) Input() RecordInput {
	return RecordInput{
		Date:         r.date,
		EmployeeID:   r.employeeID,
		Name:         r.name,
		ShiftLabel:   r.shiftLabel,
		ClockIn:      r.clockIn,
		ClockOut:     r.clockOut,
		Breaks:       r.Breaks(),
		AdditionalOT: r.additionalOT,
	}
}

// Build parses a raw entry and validates it into a record. Any failure is
// returned as a *ValidationError and no record is produced.
func Build(raw RawEntry, p Policy) (AttendanceRecord, error) {
	rec, verr := build(raw, p)
	if verr != nil {
		return AttendanceRecord{}, verr
	}
	return rec, nil
}

func build(raw RawEntry, p Policy) (AttendanceRecord, *ValidationError) {
	required := []struct {
		field string
		value string
	}{
		{FieldDate, raw.Date},
		{FieldEmployeeID, raw.EmployeeID},
		{FieldName, raw.Name},
		{FieldClockIn, raw.ClockIn},
		{FieldClockOut, raw.ClockOut},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return AttendanceRecord{}, invalid(ReasonMissingField, "", nil, r.field)
		}
	}

	date, err := ParseDate(FieldDate, raw.Date, p.dateLayouts())
	if err != nil {
		return AttendanceRecord{}, fromParse(err)
	}
	clockIn, err := ParseClock(FieldClockIn, raw.ClockIn)
	if err != nil {
		return AttendanceRecord{}, fromParse(err)
	}
	clockOut, err := ParseClock(FieldClockOut, raw.ClockOut)
	if err != nil {
		return AttendanceRecord{}, fromParse(err)
	}
	breaks, err := ParseHours(FieldBreaks, raw.Breaks)
	if err != nil {
		return AttendanceRecord{}, fromParse(err)
	}
	extra, err := ParseHours(FieldAdditionalOT, raw.AdditionalOT)
	if err != nil {
		return AttendanceRecord{}, fromParse(err)
	}

	return newRecord(RecordInput{
		Date:         date,
		EmployeeID:   strings.TrimSpace(raw.EmployeeID),
		Name:         strings.TrimSpace(raw.Name),
		ShiftLabel:   strings.TrimSpace(raw.ShiftLabel),
		ClockIn:      clockIn,
		ClockOut:     clockOut,
		Breaks:       breaks,
		AdditionalOT: sum(extra),
	}, p)
}

// NewRecord validates typed input into a record.
func NewRecord(in RecordInput, p Policy) (AttendanceRecord, error) {
	rec, verr := newRecord(in, p)
	if verr != nil {
		return AttendanceRecord{}, verr
	}
	return rec, nil
}

func newRecord(in RecordInput, p Policy) (AttendanceRecord, *ValidationError) {
	if strings.TrimSpace(in.EmployeeID) == "" {
		return AttendanceRecord{}, invalid(ReasonMissingField, "", nil, FieldEmployeeID)
	}
	if strings.TrimSpace(in.Name) == "" {
		return AttendanceRecord{}, invalid(ReasonMissingField, "", nil, FieldName)
	}
	if in.Date.IsZero() {
		return AttendanceRecord{}, invalid(ReasonMissingField, "", nil, FieldDate)
	}
	if !in.ClockIn.Valid() {
		return AttendanceRecord{}, invalid(ReasonClockOutOfRange, strconv.Itoa(int(in.ClockIn)), ErrClockOutOfRange, FieldClockIn)
	}
	if !in.ClockOut.Valid() {
		return AttendanceRecord{}, invalid(ReasonClockOutOfRange, strconv.Itoa(int(in.ClockOut)), ErrClockOutOfRange, FieldClockOut)
	}
	for _, b := range in.Breaks {
		if !nonNegative(b) {
			return AttendanceRecord{}, invalid(ReasonNegativeValue, formatHours(b), ErrNegativeHours, FieldBreaks)
		}
	}
	if !nonNegative(in.AdditionalOT) {
		return AttendanceRecord{}, invalid(ReasonNegativeValue, formatHours(in.AdditionalOT), ErrNegativeHours, FieldAdditionalOT)
	}

	raw, err := RawDurationHours(in.ClockIn, in.ClockOut, p)
	if err != nil {
		value := in.ClockIn.String() + "-" + in.ClockOut.String()
		if errors.Is(err, ErrZeroDuration) {
			return AttendanceRecord{}, invalid(ReasonZeroDuration, value, err, FieldClockIn, FieldClockOut)
		}
		return AttendanceRecord{}, invalid(ReasonClockOutOfRange, value, err, FieldClockIn, FieldClockOut)
	}

	hours, err := Resolve(raw, in.Breaks, in.AdditionalOT, p)
	if err != nil {
		var ibe *InvalidBreakError
		if errors.As(err, &ibe) {
			return AttendanceRecord{}, invalid(ReasonBreakExceedsShift, formatHours(ibe.BreakTotal), err, FieldBreaks)
		}
		return AttendanceRecord{}, invalid(ReasonNegativeValue, "", err, FieldBreaks, FieldAdditionalOT)
	}

	if verr := checkInvariants(hours, p); verr != nil {
		return AttendanceRecord{}, verr
	}

	return AttendanceRecord{
		date:         dateOnly(in.Date),
		employeeID:   strings.TrimSpace(in.EmployeeID),
		name:         strings.TrimSpace(in.Name),
		shiftLabel:   strings.TrimSpace(in.ShiftLabel),
		clockIn:      in.ClockIn,
		clockOut:     in.ClockOut,
		breaks:       append([]float64(nil), in.Breaks...),
		additionalOT: in.AdditionalOT,
		hours:        hours,
	}, nil
}

func checkInvariants(h Breakdown, p Policy) *ValidationError {
	if h.RawHours <= 0 || h.RawHours > HoursPerDay {
		return invalid(ReasonInconsistentTotals, formatHours(h.RawHours), nil, FieldClockIn, FieldClockOut)
	}
	if h.BreakTotal > h.RawHours+tolerance || h.NetHours < 0 {
		return invalid(ReasonBreakExceedsShift, formatHours(h.BreakTotal), nil, FieldBreaks)
	}
	if p.MaxNetHours > 0 && h.NetHours > p.MaxNetHours+tolerance {
		return invalid(ReasonNetHoursExceeded, formatHours(h.NetHours), nil, FieldClockIn, FieldClockOut, FieldBreaks)
	}
	if math.Abs(h.RegularHours+(h.OvertimeHours-h.AdditionalOT)-h.NetHours) > tolerance {
		return invalid(ReasonInconsistentTotals, formatHours(h.NetHours), nil, FieldClockIn, FieldClockOut, FieldBreaks)
	}
	return nil
}

func formatHours(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
