package work

// =============================================================================
// WORK RULES CONFIGURATION
// =============================================================================
// Defaults used when no configuration file overrides them.
//
// To customize for your company:
// 1. Change StandardShiftHours to your regular daily shift length
// 2. Set ZeroDurationIsFullDay to false if clock-in == clock-out should be rejected
// 3. Set MaxNetHours to cap net worked hours per record (0 = no cap)
// =============================================================================

const (
	// DefaultStandardShiftHours - hours per record counted as regular time
	DefaultStandardShiftHours = 8.0

	HoursPerDay    = 24
	MinutesPerHour = 60
	MinutesPerDay  = HoursPerDay * MinutesPerHour

	// tolerance absorbs float rounding when comparing summed hour values
	tolerance = 1e-9
)

// DefaultDateLayouts are tried in order when parsing entry dates. The first
// one is also the output layout; "2/1/2006" accepts 5/3/2024.
var DefaultDateLayouts = []string{"02/01/2006", "2/1/2006", "2006-01-02"}

// Policy carries the rules a record is validated under. It is passed
// explicitly so records can be checked under different rules side by side.
type Policy struct {
	StandardShiftHours    float64
	ZeroDurationIsFullDay bool
	MaxNetHours           float64
	DateLayouts           []string
}

// DefaultPolicy returns the standard 8 hour shift rules.
func DefaultPolicy() Policy {
	return Policy{
		StandardShiftHours:    DefaultStandardShiftHours,
		ZeroDurationIsFullDay: true,
		DateLayouts:           append([]string(nil), DefaultDateLayouts...),
	}
}

// EffectiveShiftHours is the regular-time limit actually applied: the
// configured shift length, or the default when it is not positive.
func (p Policy) EffectiveShiftHours() float64 {
	if p.StandardShiftHours <= 0 {
		return DefaultStandardShiftHours
	}
	return p.StandardShiftHours
}

func (p Policy) dateLayouts() []string {
	if len(p.DateLayouts) == 0 {
		return DefaultDateLayouts
	}
	return p.DateLayouts
}
