package work

// ShiftMinutes returns the minutes elapsed from in to out. When out is not
// after in the shift is taken to cross midnight. in == out is a full day
// unless the policy disables it.
func ShiftMinutes(in, out Clock, p Policy) (int, error) {
	if !in.Valid() || !out.Valid() {
		return 0, ErrClockOutOfRange
	}
	if out > in {
		return int(out - in), nil
	}
	if out == in && !p.ZeroDurationIsFullDay {
		return 0, ErrZeroDuration
	}
	return int(out) + MinutesPerDay - int(in), nil
}

// RawDurationHours is ShiftMinutes expressed in hours.
func RawDurationHours(in, out Clock, p Policy) (float64, error) {
	minutes, err := ShiftMinutes(in, out, p)
	if err != nil {
		return 0, err
	}
	return float64(minutes) / MinutesPerHour, nil
}
