package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Kaitokidbua/worktime-codex/internal/work"
)

// Columns is the header written by the records exporter and expected here.
var Columns = []string{
	"date",
	"employee_id",
	"name",
	"clock_in",
	"clock_out",
	"breaks",
	"ot_hours",
	"shift_label",
}

var requiredColumns = []string{"date", "employee_id", "name", "clock_in", "clock_out"}

var aliases = map[string]string{
	"additional_ot":       "ot_hours",
	"additional_ot_hours": "ot_hours",
	"ot":                  "ot_hours",
	"shift":               "shift_label",
	"break":               "breaks",
}

// ReadEntriesFile reads attendance entries from the CSV file at path.
func ReadEntriesFile(path string) ([]work.RawEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	entries, err := ReadEntries(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return entries, nil
}

// ReadEntries maps CSV rows to raw entries by header name. Header matching
// is case-insensitive and column order is free; optional columns may be
// absent. Values are passed through untouched for the validator.
func ReadEntries(r io.Reader) ([]work.RawEntry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	index := make(map[string]int, len(header))
	for i, h := range header {
		name := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if canonical, ok := aliases[name]; ok {
			name = canonical
		}
		if _, seen := index[name]; !seen {
			index[name] = i
		}
	}
	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("missing required column %q", col)
		}
	}

	var entries []work.RawEntry
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		line, _ := cr.FieldPos(0)

		get := func(col string) string {
			i, ok := index[col]
			if !ok || i >= len(row) {
				return ""
			}
			return row[i]
		}
		entries = append(entries, work.RawEntry{
			Date:         get("date"),
			EmployeeID:   get("employee_id"),
			Name:         get("name"),
			ShiftLabel:   get("shift_label"),
			ClockIn:      get("clock_in"),
			ClockOut:     get("clock_out"),
			Breaks:       get("breaks"),
			AdditionalOT: get("ot_hours"),
			Line:         line,
		})
	}
	return entries, nil
}
