package summary

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/Kaitokidbua/worktime-codex/internal/work"
)

// Granularity selects the period records are grouped by.
type Granularity int

const (
	Daily Granularity = iota
	Weekly
	Monthly
)

func (g Granularity) String() string {
	switch g {
	case Daily:
		return "daily"
	case Weekly:
		return "weekly"
	case Monthly:
		return "monthly"
	default:
		return fmt.Sprintf("Granularity(%d)", int(g))
	}
}

// ParseGranularity accepts daily, weekly or monthly (and day, week, month).
func ParseGranularity(s string) (Granularity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "daily", "day":
		return Daily, nil
	case "weekly", "week":
		return Weekly, nil
	case "monthly", "month":
		return Monthly, nil
	}
	return 0, fmt.Errorf("unknown granularity %q (want daily, weekly or monthly)", s)
}

// Granularities lists every granularity in report order.
func Granularities() []Granularity {
	return []Granularity{Daily, Weekly, Monthly}
}

// Key identifies one employee's period.
type Key struct {
	EmployeeID string
	Period     string
}

// PeriodSummary totals one employee's records in one period.
type PeriodSummary struct {
	EmployeeID         string
	Name               string
	PeriodKey          string
	PeriodStart        time.Time
	PeriodEnd          time.Time
	TotalRegularHours  float64
	TotalOvertimeHours float64
	TotalWorkedHours   float64
	RecordCount        int
	DaysPresent        int
}

// PeriodOf returns the period key and the inclusive first and last day of
// the period containing date. Weeks are ISO weeks starting Monday.
func PeriodOf(date time.Time, g Granularity) (string, time.Time, time.Time) {
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	switch g {
	case Weekly:
		year, week := day.ISOWeek()
		start := WeekStart(day)
		return fmt.Sprintf("%04d-W%02d", year, week), start, start.AddDate(0, 0, 6)
	case Monthly:
		start := time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, time.UTC)
		return start.Format("2006-01"), start, start.AddDate(0, 1, -1)
	default:
		return day.Format("2006-01-02"), day, day
	}
}

// WeekStart returns the Monday of the week containing t, keeping its time of day.
func WeekStart(t time.Time) time.Time {
	weekday := int(t.Weekday())
	if weekday == 0 {
		weekday = 7
	}
	return t.AddDate(0, 0, -weekday+1)
}

type group struct {
	summary  PeriodSummary
	regular  []float64
	overtime []float64
	days     map[time.Time]struct{}
	nameDate time.Time
}

// Summarize groups records by employee and period. The result does not
// depend on the order of records.
func Summarize(records []work.AttendanceRecord, g Granularity) map[Key]PeriodSummary {
	groups := make(map[Key]*group)
	for _, r := range records {
		period, start, end := PeriodOf(r.Date(), g)
		key := Key{EmployeeID: r.EmployeeID(), Period: period}

		grp, ok := groups[key]
		if !ok {
			grp = &group{
				summary: PeriodSummary{
					EmployeeID:  r.EmployeeID(),
					PeriodKey:   period,
					PeriodStart: start,
					PeriodEnd:   end,
				},
				days: make(map[time.Time]struct{}),
			}
			groups[key] = grp
		}

		grp.regular = append(grp.regular, r.RegularHours())
		grp.overtime = append(grp.overtime, r.OvertimeHours())
		grp.days[r.Date()] = struct{}{}
		grp.summary.RecordCount++

		// The reported name is the one on the latest record; ties go to the
		// greatest name so any input order picks the same one.
		if grp.summary.Name == "" || r.Date().After(grp.nameDate) ||
			(r.Date().Equal(grp.nameDate) && r.Name() > grp.summary.Name) {
			grp.summary.Name = r.Name()
			grp.nameDate = r.Date()
		}
	}

	out := make(map[Key]PeriodSummary, len(groups))
	for key, grp := range groups {
		s := grp.summary
		s.TotalRegularHours = canonicalSum(grp.regular)
		s.TotalOvertimeHours = canonicalSum(grp.overtime)
		s.TotalWorkedHours = s.TotalRegularHours + s.TotalOvertimeHours
		s.DaysPresent = len(grp.days)
		out[key] = s
	}
	return out
}

// Sorted orders summaries by period start, then employee id.
func Sorted(summaries map[Key]PeriodSummary) []PeriodSummary {
	list := make([]PeriodSummary, 0, len(summaries))
	for _, s := range summaries {
		list = append(list, s)
	}
	sort.Slice(list, func(i, j int) bool {
		if !list[i].PeriodStart.Equal(list[j].PeriodStart) {
			return list[i].PeriodStart.Before(list[j].PeriodStart)
		}
		return list[i].EmployeeID < list[j].EmployeeID
	})
	return list
}

// canonicalSum adds values in ascending order so float rounding does not
// depend on the order records arrived in.
func canonicalSum(values []float64) float64 {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	total := 0.0
	for _, v := range sorted {
		total += v
	}
	return total
}
