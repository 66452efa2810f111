package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Kaitokidbua/worktime-codex/internal/summary"
	"github.com/Kaitokidbua/worktime-codex/internal/work"
)

const isoDate = "2006-01-02"

// RecordColumns starts with the columns the CSV importer reads, so an
// exported file can be imported again.
var RecordColumns = []string{
	"date", "employee_id", "name", "clock_in", "clock_out", "breaks", "ot_hours", "shift_label",
	"raw_hours", "break_hours", "net_hours", "regular_hours", "overtime_hours",
}

var SummaryColumns = []string{
	"period", "period_start", "period_end", "employee_id", "name",
	"regular_hours", "overtime_hours", "worked_hours", "records", "days_present",
}

// Hours renders an hour value with two decimals.
func Hours(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}

// Round2 rounds an hour value to two decimals for numeric output.
func Round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

func formatBreaks(breaks []float64) string {
	parts := make([]string, len(breaks))
	for i, b := range breaks {
		parts[i] = strconv.FormatFloat(b, 'f', -1, 64)
	}
	return strings.Join(parts, ",")
}

func formatExtra(v float64) string {
	if v == 0 {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func layoutOrISO(layout string) string {
	if layout == "" {
		return isoDate
	}
	return layout
}

// WriteRecordsCSV writes one row per record with dates in dateLayout.
func WriteRecordsCSV(w io.Writer, records []work.AttendanceRecord, dateLayout string) error {
	layout := layoutOrISO(dateLayout)
	writer := csv.NewWriter(w)

	if err := writer.Write(RecordColumns); err != nil {
		return err
	}
	for _, r := range records {
		row := []string{
			r.Date().Format(layout),
			r.EmployeeID(),
			r.Name(),
			r.ClockIn().String(),
			r.ClockOut().String(),
			formatBreaks(r.Breaks()),
			formatExtra(r.AdditionalOTHours()),
			r.ShiftLabel(),
			Hours(r.RawDurationHours()),
			Hours(r.BreakTotalHours()),
			Hours(r.NetWorkedHours()),
			Hours(r.RegularHours()),
			Hours(r.OvertimeHours()),
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

func summaryRow(s summary.PeriodSummary) []string {
	return []string{
		s.PeriodKey,
		s.PeriodStart.Format(isoDate),
		s.PeriodEnd.Format(isoDate),
		s.EmployeeID,
		s.Name,
		Hours(s.TotalRegularHours),
		Hours(s.TotalOvertimeHours),
		Hours(s.TotalWorkedHours),
		strconv.Itoa(s.RecordCount),
		strconv.Itoa(s.DaysPresent),
	}
}

// WriteSummariesCSV writes period summaries in the order given.
func WriteSummariesCSV(w io.Writer, summaries []summary.PeriodSummary) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(SummaryColumns); err != nil {
		return err
	}
	for _, s := range summaries {
		if err := writer.Write(summaryRow(s)); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

type recordExport struct {
	Date          string    `json:"date"`
	EmployeeID    string    `json:"employee_id"`
	Name          string    `json:"name"`
	ShiftLabel    string    `json:"shift_label,omitempty"`
	ClockIn       string    `json:"clock_in"`
	ClockOut      string    `json:"clock_out"`
	Breaks        []float64 `json:"breaks"`
	AdditionalOT  float64   `json:"additional_ot_hours"`
	RawHours      float64   `json:"raw_duration_hours"`
	BreakHours    float64   `json:"break_total_hours"`
	NetHours      float64   `json:"net_worked_hours"`
	RegularHours  float64   `json:"regular_hours"`
	OvertimeHours float64   `json:"overtime_hours"`
}

type summaryExport struct {
	Period        string  `json:"period"`
	PeriodStart   string  `json:"period_start"`
	PeriodEnd     string  `json:"period_end"`
	EmployeeID    string  `json:"employee_id"`
	Name          string  `json:"name"`
	RegularHours  float64 `json:"total_regular_hours"`
	OvertimeHours float64 `json:"total_overtime_hours"`
	WorkedHours   float64 `json:"total_worked_hours"`
	RecordCount   int     `json:"record_count"`
	DaysPresent   int     `json:"days_present"`
}

// WriteJSON writes records together with their summaries at granularity g.
func WriteJSON(w io.Writer, records []work.AttendanceRecord, g summary.Granularity, generated time.Time) error {
	recs := make([]recordExport, 0, len(records))
	for _, r := range records {
		breaks := r.Breaks()
		if breaks == nil {
			breaks = []float64{}
		}
		recs = append(recs, recordExport{
			Date:          r.Date().Format(isoDate),
			EmployeeID:    r.EmployeeID(),
			Name:          r.Name(),
			ShiftLabel:    r.ShiftLabel(),
			ClockIn:       r.ClockIn().String(),
			ClockOut:      r.ClockOut().String(),
			Breaks:        breaks,
			AdditionalOT:  r.AdditionalOTHours(),
			RawHours:      Round2(r.RawDurationHours()),
			BreakHours:    Round2(r.BreakTotalHours()),
			NetHours:      Round2(r.NetWorkedHours()),
			RegularHours:  Round2(r.RegularHours()),
			OvertimeHours: Round2(r.OvertimeHours()),
		})
	}

	sums := summary.Sorted(summary.Summarize(records, g))
	exports := make([]summaryExport, 0, len(sums))
	for _, s := range sums {
		exports = append(exports, summaryExport{
			Period:        s.PeriodKey,
			PeriodStart:   s.PeriodStart.Format(isoDate),
			PeriodEnd:     s.PeriodEnd.Format(isoDate),
			EmployeeID:    s.EmployeeID,
			Name:          s.Name,
			RegularHours:  Round2(s.TotalRegularHours),
			OvertimeHours: Round2(s.TotalOvertimeHours),
			WorkedHours:   Round2(s.TotalWorkedHours),
			RecordCount:   s.RecordCount,
			DaysPresent:   s.DaysPresent,
		})
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(map[string]interface{}{
		"export_date":   generated.Format(isoDate),
		"granularity":   g.String(),
		"total_records": len(records),
		"records":       recs,
		"summaries":     exports,
	}); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}
