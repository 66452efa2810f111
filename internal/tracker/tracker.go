package tracker

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Kaitokidbua/worktime-codex/internal/storage"
	"github.com/Kaitokidbua/worktime-codex/internal/summary"
	"github.com/Kaitokidbua/worktime-codex/internal/work"
)

// Tracker validates entries, persists them and answers summary queries.
type Tracker struct {
	db     *storage.Database
	policy work.Policy
	log    *logrus.Logger
}

func New(db *storage.Database, policy work.Policy, logger *logrus.Logger) *Tracker {
	if logger == nil {
		logger = logrus.New()
	}
	return &Tracker{
		db:     db,
		policy: policy,
		log:    logger,
	}
}

// Policy returns the rules records are validated under.
func (t *Tracker) Policy() work.Policy {
	return t.policy
}

// Record validates and stores a single entry.
func (t *Tracker) Record(raw work.RawEntry) (string, work.AttendanceRecord, error) {
	rec, err := work.Build(raw, t.policy)
	if err != nil {
		t.log.WithFields(logrus.Fields{
			"employee_id": raw.EmployeeID,
			"date":        raw.Date,
		}).WithError(err).Warn("entry rejected")
		return "", work.AttendanceRecord{}, err
	}

	ids, err := t.db.InsertRecords([]work.AttendanceRecord{rec})
	if err != nil {
		return "", work.AttendanceRecord{}, fmt.Errorf("store record: %w", err)
	}

	t.log.WithFields(logrus.Fields{
		"id":          ids[0],
		"employee_id": rec.EmployeeID(),
		"date":        rec.Date().Format("2006-01-02"),
		"regular":     rec.RegularHours(),
		"overtime":    rec.OvertimeHours(),
	}).Info("record stored")
	return ids[0], rec, nil
}

// Import validates a batch, stores the valid records and returns the
// per-entry outcome. Nothing is stored when persisting fails.
func (t *Tracker) Import(entries []work.RawEntry) (work.ImportResult, []string, error) {
	result := work.ImportEntries(entries, t.policy)
	for _, f := range result.Failures {
		t.log.WithFields(logrus.Fields{
			"index":  f.Index,
			"line":   f.Entry.Line,
			"reason": f.Err.Reason,
		}).WithError(f.Err).Warn("import entry rejected")
	}

	var ids []string
	if len(result.Records) > 0 {
		var err error
		ids, err = t.db.InsertRecords(result.Records)
		if err != nil {
			return result, nil, fmt.Errorf("store imported records: %w", err)
		}
	}

	t.log.WithFields(logrus.Fields{
		"entries":  len(entries),
		"stored":   len(result.Records),
		"rejected": len(result.Failures),
	}).Info("import finished")
	return result, ids, nil
}

// LoadedRecord pairs a rebuilt record with the id of its stored row.
type LoadedRecord struct {
	ID     string
	Record work.AttendanceRecord
}

// SkippedRecord is a stored row that no longer validates under the policy.
type SkippedRecord struct {
	Stored storage.StoredRecord
	Err    error
}

// Load rebuilds the filtered rows under the current policy. Rows that fail
// are returned separately, never dropped.
func (t *Tracker) Load(f storage.Filter) ([]LoadedRecord, []SkippedRecord, error) {
	stored, err := t.db.ListRecords(f)
	if err != nil {
		return nil, nil, fmt.Errorf("list records: %w", err)
	}

	loaded := make([]LoadedRecord, 0, len(stored))
	var skipped []SkippedRecord
	for _, s := range stored {
		rec, err := work.NewRecord(s.Input, t.policy)
		if err != nil {
			t.log.WithFields(logrus.Fields{
				"id":          s.ID,
				"employee_id": s.Input.EmployeeID,
			}).WithError(err).Warn("stored record skipped")
			skipped = append(skipped, SkippedRecord{Stored: s, Err: err})
			continue
		}
		loaded = append(loaded, LoadedRecord{ID: s.ID, Record: rec})
	}
	return loaded, skipped, nil
}

// Records loads stored entries and rebuilds them under the current policy.
// Rows that no longer validate are skipped with a warning.
func (t *Tracker) Records(f storage.Filter) ([]work.AttendanceRecord, error) {
	loaded, _, err := t.Load(f)
	if err != nil {
		return nil, err
	}

	records := make([]work.AttendanceRecord, len(loaded))
	for i, l := range loaded {
		records[i] = l.Record
	}
	return records, nil
}

// StoredRecords returns the raw rows with their ids, for listing and deletion.
func (t *Tracker) StoredRecords(f storage.Filter) ([]storage.StoredRecord, error) {
	return t.db.ListRecords(f)
}

// Summaries aggregates the filtered records, ordered by period then employee.
func (t *Tracker) Summaries(f storage.Filter, g summary.Granularity) ([]summary.PeriodSummary, error) {
	records, err := t.Records(f)
	if err != nil {
		return nil, err
	}
	return summary.Sorted(summary.Summarize(records, g)), nil
}

// WeekProgress collects one employee's worked hours per day for the ISO
// week containing day.
func (t *Tracker) WeekProgress(employeeID string, day time.Time) (*WeekProgress, error) {
	_, weekStart, weekEnd := summary.PeriodOf(day, summary.Weekly)

	records, err := t.Records(storage.Filter{EmployeeID: employeeID, Start: weekStart, End: weekEnd})
	if err != nil {
		return nil, err
	}

	progress := &WeekProgress{
		EmployeeID:    employeeID,
		WeekStart:     weekStart,
		WeekEnd:       weekEnd,
		DaysWorked:    make(map[string]float64),
		StandardHours: t.policy.EffectiveShiftHours(),
	}
	for _, r := range records {
		progress.Name = r.Name()
		progress.TotalHours += r.WorkedHours()
		progress.RegularHours += r.RegularHours()
		progress.OvertimeHours += r.OvertimeHours()
		progress.DaysWorked[r.Date().Format("2006-01-02")] += r.WorkedHours()
	}
	progress.DaysWorkedCount = len(progress.DaysWorked)

	return progress, nil
}

func (t *Tracker) Delete(id string) error {
	if err := t.db.DeleteRecord(id); err != nil {
		return err
	}
	t.log.WithField("id", id).Info("record deleted")
	return nil
}

// DeleteIDs removes the given records and reports how many were deleted.
func (t *Tracker) DeleteIDs(ids []string) (int64, error) {
	n, err := t.db.DeleteRecords(ids)
	if err != nil {
		return 0, err
	}
	t.log.WithFields(logrus.Fields{
		"requested": len(ids),
		"deleted":   n,
	}).Info("records deleted")
	return n, nil
}

// OldestDate returns the date of the earliest stored record, or nil.
func (t *Tracker) OldestDate() (*time.Time, error) {
	return t.db.OldestRecordDate()
}

type WeekProgress struct {
	EmployeeID      string
	Name            string
	WeekStart       time.Time
	WeekEnd         time.Time
	TotalHours      float64
	RegularHours    float64
	OvertimeHours   float64
	StandardHours   float64
	DaysWorked      map[string]float64
	DaysWorkedCount int
}
