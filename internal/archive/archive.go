package archive

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Kaitokidbua/worktime-codex/internal/export"
	"github.com/Kaitokidbua/worktime-codex/internal/storage"
	"github.com/Kaitokidbua/worktime-codex/internal/summary"
	"github.com/Kaitokidbua/worktime-codex/internal/tracker"
	"github.com/Kaitokidbua/worktime-codex/internal/work"
)

// ErrNoRecords is returned when a month has nothing to archive.
var ErrNoRecords = errors.New("no records to archive")

// Archiver writes monthly attendance to markdown files
type Archiver struct {
	tracker     *tracker.Tracker
	historyPath string
	log         *logrus.Logger
	now         func() time.Time
}

// New creates a new Archiver
func New(tr *tracker.Tracker, historyPath string, logger *logrus.Logger) *Archiver {
	if logger == nil {
		logger = logrus.New()
	}
	return &Archiver{
		tracker:     tr,
		historyPath: historyPath,
		log:         logger,
		now:         time.Now,
	}
}

// MonthArchive contains the data written for one month
type MonthArchive struct {
	Month     time.Time
	Employees []summary.PeriodSummary
	Weeks     []summary.PeriodSummary
	Records   []work.AttendanceRecord
	Skipped   []tracker.SkippedRecord
}

// Result reports what ArchiveMonth wrote and removed. Skipped rows fail the
// current policy; they are listed in the file but stay in the database.
type Result struct {
	Path     string
	Archived int
	Skipped  int
	Deleted  int64
}

func monthBounds(year int, month time.Month) (time.Time, time.Time) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, -1)
}

func fileName(year int, month time.Month) string {
	return fmt.Sprintf("%d-%02d.md", year, month)
}

// ArchiveMonth exports a month's records to markdown. With cleanDB the
// archived rows, and only those, are deleted afterwards.
func (a *Archiver) ArchiveMonth(year int, month time.Month, cleanDB bool) (*Result, error) {
	start, end := monthBounds(year, month)

	loaded, skipped, err := a.tracker.Load(storage.Filter{Start: start, End: end})
	if err != nil {
		return nil, fmt.Errorf("failed to load records: %w", err)
	}
	if len(loaded) == 0 {
		return nil, fmt.Errorf("%s: %w", start.Format("January 2006"), ErrNoRecords)
	}

	records := make([]work.AttendanceRecord, len(loaded))
	ids := make([]string, len(loaded))
	for i, l := range loaded {
		records[i] = l.Record
		ids[i] = l.ID
	}

	archive := &MonthArchive{
		Month:     start,
		Employees: byEmployee(summary.Sorted(summary.Summarize(records, summary.Monthly))),
		Weeks:     byEmployee(summary.Sorted(summary.Summarize(records, summary.Weekly))),
		Records:   records,
		Skipped:   skipped,
	}
	markdown := a.generateMarkdown(archive)

	if err := os.MkdirAll(a.historyPath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}

	result := &Result{
		Path:     filepath.Join(a.historyPath, fileName(year, month)),
		Archived: len(records),
		Skipped:  len(skipped),
	}
	if err := os.WriteFile(result.Path, []byte(markdown), 0644); err != nil {
		return nil, fmt.Errorf("failed to write archive: %w", err)
	}

	entry := a.log.WithFields(logrus.Fields{
		"month":   start.Format("2006-01"),
		"records": result.Archived,
		"skipped": result.Skipped,
		"file":    result.Path,
	})
	if result.Skipped > 0 {
		entry.Warn("month archived with rows that fail the current rules")
	} else {
		entry.Info("month archived")
	}

	if cleanDB {
		if result.Deleted, err = a.tracker.DeleteIDs(ids); err != nil {
			return result, fmt.Errorf("failed to clean database: %w", err)
		}
	}

	return result, nil
}

// byEmployee orders summaries by employee, then period.
func byEmployee(list []summary.PeriodSummary) []summary.PeriodSummary {
	sort.SliceStable(list, func(i, j int) bool {
		if list[i].EmployeeID != list[j].EmployeeID {
			return list[i].EmployeeID < list[j].EmployeeID
		}
		return list[i].PeriodStart.Before(list[j].PeriodStart)
	})
	return list
}

func (a *Archiver) generateMarkdown(m *MonthArchive) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("# %s\n\n", m.Month.Format("January 2006")))

	sb.WriteString("## Summary\n\n")
	sb.WriteString("| Employee | Name | Regular | Overtime | Worked | Records | Days Present |\n")
	sb.WriteString("|----------|------|---------|----------|--------|---------|--------------|\n")
	for _, s := range m.Employees {
		sb.WriteString(fmt.Sprintf("| %s | %s | %s | %s | %s | %d | %d |\n",
			s.EmployeeID, cell(s.Name), export.Hours(s.TotalRegularHours), export.Hours(s.TotalOvertimeHours),
			export.Hours(s.TotalWorkedHours), s.RecordCount, s.DaysPresent))
	}
	sb.WriteString("\n")

	sb.WriteString("## Weekly Breakdown\n\n")
	sb.WriteString("| Employee | Week | Regular | Overtime | Worked |\n")
	sb.WriteString("|----------|------|---------|----------|--------|\n")
	for _, s := range m.Weeks {
		sb.WriteString(fmt.Sprintf("| %s | %s | %s | %s | %s |\n",
			s.EmployeeID, s.PeriodKey, export.Hours(s.TotalRegularHours),
			export.Hours(s.TotalOvertimeHours), export.Hours(s.TotalWorkedHours)))
	}
	sb.WriteString("\n")

	sb.WriteString("## Records\n\n")
	sb.WriteString("| Date | Employee | In | Out | Breaks | Regular | Overtime | Shift |\n")
	sb.WriteString("|------|----------|----|-----|--------|---------|----------|-------|\n")
	for _, r := range m.Records {
		label := r.ShiftLabel()
		if len(label) > 30 {
			label = label[:27] + "..."
		}
		sb.WriteString(fmt.Sprintf("| %s | %s | %s | %s | %s | %s | %s | %s |\n",
			r.Date().Format("2006-01-02"), r.EmployeeID(), r.ClockIn(), r.ClockOut(),
			export.Hours(r.BreakTotalHours()), export.Hours(r.RegularHours()),
			export.Hours(r.OvertimeHours()), cell(label)))
	}
	sb.WriteString("\n")

	if len(m.Skipped) > 0 {
		sb.WriteString("## Not Archived\n\n")
		sb.WriteString("These rows fail the current rules and were kept in the database.\n\n")
		sb.WriteString("| ID | Date | Employee | In | Out | Reason |\n")
		sb.WriteString("|----|------|----------|----|-----|--------|\n")
		for _, sk := range m.Skipped {
			in := sk.Stored.Input
			sb.WriteString(fmt.Sprintf("| %s | %s | %s | %s | %s | %s |\n",
				sk.Stored.ID, in.Date.Format("2006-01-02"), in.EmployeeID, in.ClockIn, in.ClockOut,
				cell(skipReason(sk.Err))))
		}
		sb.WriteString("\n")
	}

	sb.WriteString(fmt.Sprintf("---\n*Archived: %s*\n", a.now().Format("2006-01-02 15:04")))

	return sb.String()
}

func skipReason(err error) string {
	var verr *work.ValidationError
	if errors.As(err, &verr) {
		return string(verr.Reason)
	}
	return err.Error()
}

// cell keeps free text from breaking the table.
func cell(s string) string {
	return strings.ReplaceAll(s, "|", "/")
}

// AutoArchivePastMonths archives and cleans every complete month before now
// that has records and no archive file yet.
func (a *Archiver) AutoArchivePastMonths(now time.Time) ([]Result, error) {
	currentMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	oldestDate, err := a.tracker.OldestDate()
	if err != nil {
		return nil, err
	}
	if oldestDate == nil {
		return nil, nil
	}

	var archived []Result
	monthStart := time.Date(oldestDate.Year(), oldestDate.Month(), 1, 0, 0, 0, 0, time.UTC)

	for ; monthStart.Before(currentMonth); monthStart = monthStart.AddDate(0, 1, 0) {
		if _, err := os.Stat(filepath.Join(a.historyPath, fileName(monthStart.Year(), monthStart.Month()))); err == nil {
			continue
		}

		result, err := a.ArchiveMonth(monthStart.Year(), monthStart.Month(), true)
		if err != nil {
			if errors.Is(err, ErrNoRecords) {
				continue
			}
			return archived, err
		}
		archived = append(archived, *result)
	}

	return archived, nil
}

// ListArchives returns list of archived months
func (a *Archiver) ListArchives() ([]string, error) {
	entries, err := os.ReadDir(a.historyPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var archives []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".md") {
			archives = append(archives, e.Name())
		}
	}

	sort.Strings(archives)
	return archives, nil
}

// ReadArchive reads a specific month's archive
func (a *Archiver) ReadArchive(year int, month time.Month) (string, error) {
	filename := fileName(year, month)

	data, err := os.ReadFile(filepath.Join(a.historyPath, filename))
	if err != nil {
		return "", fmt.Errorf("archive not found: %s", filename)
	}

	return string(data), nil
}
