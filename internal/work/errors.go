package work

import (
	"errors"
	"fmt"
	"strings"
)

// ReasonCode classifies why an entry was rejected.
type ReasonCode string

const (
	ReasonMissingField       ReasonCode = "missing_field"
	ReasonMalformedDate      ReasonCode = "malformed_date"
	ReasonMalformedTime      ReasonCode = "malformed_time"
	ReasonMalformedNumber    ReasonCode = "malformed_number"
	ReasonNegativeValue      ReasonCode = "negative_value"
	ReasonClockOutOfRange    ReasonCode = "clock_out_of_range"
	ReasonZeroDuration       ReasonCode = "zero_duration"
	ReasonBreakExceedsShift  ReasonCode = "break_exceeds_shift"
	ReasonNetHoursExceeded   ReasonCode = "net_hours_exceeded"
	ReasonInconsistentTotals ReasonCode = "inconsistent_totals"
)

// Field names used in errors.
const (
	FieldDate         = "date"
	FieldEmployeeID   = "employee_id"
	FieldName         = "name"
	FieldClockIn      = "clock_in"
	FieldClockOut     = "clock_out"
	FieldBreaks       = "breaks"
	FieldAdditionalOT = "additional_ot"
)

var (
	ErrZeroDuration    = errors.New("clock-in equals clock-out")
	ErrClockOutOfRange = errors.New("clock value outside 00:00-23:59")
	ErrNegativeHours   = errors.New("hour values must be finite and non-negative")
)

// ParseError reports text that could not be coerced into a time, date or
// hour value. Position is the 1-based field index inside a list, 0 otherwise.
type ParseError struct {
	Field    string
	Text     string
	Position int
	Reason   ReasonCode
}

func (e *ParseError) Error() string {
	if e.Position > 0 {
		return fmt.Sprintf("parse %s: item %d %q: %s", e.Field, e.Position, e.Text, e.Reason)
	}
	return fmt.Sprintf("parse %s: %q: %s", e.Field, e.Text, e.Reason)
}

// InvalidBreakError is returned when breaks add up to more than the shift.
type InvalidBreakError struct {
	BreakTotal  float64
	RawDuration float64
}

func (e *InvalidBreakError) Error() string {
	return fmt.Sprintf("break total %.2fh exceeds shift duration %.2fh", e.BreakTotal, e.RawDuration)
}

// ValidationError is the single failure type produced for a rejected entry.
// Err holds the underlying cause when there is one.
type ValidationError struct {
	Fields []string
	Value  string
	Reason ReasonCode
	Err    error
}

func (e *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("invalid ")
	sb.WriteString(strings.Join(e.Fields, ","))
	if e.Value != "" {
		sb.WriteString(fmt.Sprintf(" %q", e.Value))
	}
	sb.WriteString(": ")
	sb.WriteString(string(e.Reason))

	// A ParseError carries the same field, text and reason; only its
	// position adds anything.
	var pe *ParseError
	switch {
	case errors.As(e.Err, &pe):
		if pe.Position > 0 {
			sb.WriteString(fmt.Sprintf(" (item %d)", pe.Position))
		}
	case e.Err != nil:
		sb.WriteString(": ")
		sb.WriteString(e.Err.Error())
	}
	return sb.String()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func invalid(reason ReasonCode, value string, err error, fields ...string) *ValidationError {
	return &ValidationError{Fields: fields, Value: value, Reason: reason, Err: err}
}

// fromParse turns a parser failure into the validator's error.
func fromParse(err error) *ValidationError {
	var pe *ParseError
	if errors.As(err, &pe) {
		return invalid(pe.Reason, pe.Text, pe, pe.Field)
	}
	return invalid(ReasonMalformedNumber, "", err)
}
