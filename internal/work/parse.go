package work

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Clock is a wall-clock time of day in minutes since midnight.
type Clock int

// NewClock builds a Clock from hour and minute without range checks.
func NewClock(hour, minute int) Clock {
	return Clock(hour*MinutesPerHour + minute)
}

func (c Clock) Hour() int   { return int(c) / MinutesPerHour }
func (c Clock) Minute() int { return int(c) % MinutesPerHour }

// Valid reports whether c lies within 00:00-23:59.
func (c Clock) Valid() bool {
	return c >= 0 && int(c) < MinutesPerDay
}

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour(), c.Minute())
}

var (
	clockPattern = regexp.MustCompile(`^(\d{1,2}):(\d{2})$`)
	hoursPattern = regexp.MustCompile(`^(\d+(\.\d*)?|\.\d+)$`)
)

// ParseClock parses "HH:MM" (or "H:MM") into a Clock.
func ParseClock(field, text string) (Clock, error) {
	m := clockPattern.FindStringSubmatch(strings.TrimSpace(text))
	if m == nil {
		return 0, &ParseError{Field: field, Text: text, Reason: ReasonMalformedTime}
	}
	hour, _ := strconv.Atoi(m[1])
	minute, _ := strconv.Atoi(m[2])
	if hour > 23 || minute > 59 {
		return 0, &ParseError{Field: field, Text: text, Reason: ReasonClockOutOfRange}
	}
	return NewClock(hour, minute), nil
}

// ParseHours parses a comma separated list of non-negative hour values.
// Blank input is an empty list. ';' also separates items and a surrounding
// [...] is ignored, so JSON style lists are accepted.
func ParseHours(field, text string) ([]float64, error) {
	cleaned := strings.TrimSpace(text)
	if strings.HasPrefix(cleaned, "[") && strings.HasSuffix(cleaned, "]") {
		cleaned = strings.TrimSpace(cleaned[1 : len(cleaned)-1])
	}
	if cleaned == "" {
		return nil, nil
	}

	parts := strings.Split(strings.ReplaceAll(cleaned, ";", ","), ",")
	values := make([]float64, 0, len(parts))
	for i, part := range parts {
		item := strings.TrimSpace(part)
		if !hoursPattern.MatchString(item) {
			reason := ReasonMalformedNumber
			if strings.HasPrefix(item, "-") && hoursPattern.MatchString(item[1:]) {
				reason = ReasonNegativeValue
			}
			return nil, &ParseError{Field: field, Text: item, Position: i + 1, Reason: reason}
		}
		v, err := strconv.ParseFloat(item, 64)
		if err != nil {
			return nil, &ParseError{Field: field, Text: item, Position: i + 1, Reason: ReasonMalformedNumber}
		}
		values = append(values, v)
	}
	return values, nil
}

// ParseDate parses a calendar date using the first layout that matches.
// The result is midnight UTC; no timezone conversion takes place.
func ParseDate(field, text string, layouts []string) (time.Time, error) {
	cleaned := strings.TrimSpace(text)
	if len(layouts) == 0 {
		layouts = DefaultDateLayouts
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, cleaned); err == nil {
			return dateOnly(t), nil
		}
	}
	return time.Time{}, &ParseError{Field: field, Text: text, Reason: ReasonMalformedDate}
}

// UnpaddedLayout returns layout with zero-padded day and month replaced by
// their unpadded forms, so "02/01/2006" becomes "2/1/2006". Unpadded layouts
// still accept two-digit values.
func UnpaddedLayout(layout string) string {
	return unpadder.Replace(layout)
}

var unpadder = strings.NewReplacer("02", "2", "01", "1")

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func sum(values []float64) float64 {
	total := 0.0
	for _, v := range values {
		total += v
	}
	return total
}
