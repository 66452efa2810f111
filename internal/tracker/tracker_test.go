package tracker

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kaitokidbua/worktime-codex/internal/storage"
	"github.com/Kaitokidbua/worktime-codex/internal/summary"
	"github.com/Kaitokidbua/worktime-codex/internal/work"
)

func newTestTracker(t *testing.T, policy work.Policy) (*Tracker, *test.Hook) {
	t.Helper()
	db, err := storage.New(filepath.Join(t.TempDir(), "worktime.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	logger, hook := test.NewNullLogger()
	return New(db, policy, logger), hook
}

func entry(date, id, in, out, breaks string) work.RawEntry {
	return work.RawEntry{
		Date:       date,
		EmployeeID: id,
		Name:       "Employee " + id,
		ClockIn:    in,
		ClockOut:   out,
		Breaks:     breaks,
	}
}

func TestRecord(t *testing.T) {
	tr, hook := newTestTracker(t, work.DefaultPolicy())

	id, rec, err := tr.Record(entry("05/03/2024", "E001", "08:00", "17:30", "1,0.5"))
	require.NoError(t, err)
	assert.NotEmpty(t, id)
	assert.Equal(t, 8.0, rec.NetWorkedHours())
	assert.Equal(t, "record stored", hook.LastEntry().Message)

	_, _, err = tr.Record(entry("05/03/2024", "E001", "8am", "17:30", ""))
	var verr *work.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)

	records, err := tr.Records(storage.Filter{})
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestImport(t *testing.T) {
	tr, hook := newTestTracker(t, work.DefaultPolicy())

	entries := []work.RawEntry{
		entry("04/03/2024", "E001", "08:00", "17:00", "1"),
		entry("05/03/2024", "E001", "08:00", "18:00", "1"),
		entry("05/03/2024", "E002", "25:00", "18:00", ""),
		entry("10/03/2024", "E001", "08:00", "12:00", ""),
	}
	entries[2].Line = 4

	result, ids, err := tr.Import(entries)
	require.NoError(t, err)
	assert.Len(t, result.Records, 3)
	assert.Len(t, ids, 3)
	require.Len(t, result.Failures, 1)
	assert.Equal(t, 4, result.Failures[0].Entry.Line)
	assert.Equal(t, work.ReasonClockOutOfRange, result.Failures[0].Err.Reason)
	assert.Equal(t, "import finished", hook.LastEntry().Message)

	weekly, err := tr.Summaries(storage.Filter{}, summary.Weekly)
	require.NoError(t, err)
	require.Len(t, weekly, 1)
	assert.Equal(t, "2024-W10", weekly[0].PeriodKey)
	assert.Equal(t, 3, weekly[0].RecordCount)
	assert.Equal(t, 20.0, weekly[0].TotalRegularHours)
	assert.Equal(t, 1.0, weekly[0].TotalOvertimeHours)
}

func TestRecordsSkipsRowsInvalidUnderPolicy(t *testing.T) {
	tr, hook := newTestTracker(t, work.DefaultPolicy())

	_, _, err := tr.Record(entry("05/03/2024", "E001", "08:00", "08:00", ""))
	require.NoError(t, err)

	strict := work.DefaultPolicy()
	strict.ZeroDurationIsFullDay = false
	other := New(tr.db, strict, tr.log)

	records, err := other.Records(storage.Filter{})
	require.NoError(t, err)
	assert.Empty(t, records)
	assert.Equal(t, "stored record skipped", hook.LastEntry().Message)
}

func TestWeekProgress(t *testing.T) {
	tr, _ := newTestTracker(t, work.DefaultPolicy())

	_, _, err := tr.Import([]work.RawEntry{
		entry("03/03/2024", "E001", "08:00", "16:00", ""), // previous week
		entry("04/03/2024", "E001", "08:00", "17:00", ""),
		entry("06/03/2024", "E001", "22:00", "06:00", "0.5"),
		entry("06/03/2024", "E002", "08:00", "16:00", ""),
	})
	require.NoError(t, err)

	progress, err := tr.WeekProgress("E001", time.Date(2024, 3, 7, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, "2024-03-04", progress.WeekStart.Format("2006-01-02"))
	assert.Equal(t, "2024-03-10", progress.WeekEnd.Format("2006-01-02"))
	assert.Equal(t, 2, progress.DaysWorkedCount)
	assert.Equal(t, 16.5, progress.TotalHours)
	assert.Equal(t, 1.0, progress.OvertimeHours)
	assert.Equal(t, 9.0, progress.DaysWorked["2024-03-04"])
	assert.Equal(t, "Employee E001", progress.Name)
}

func TestDelete(t *testing.T) {
	tr, _ := newTestTracker(t, work.DefaultPolicy())

	id, _, err := tr.Record(entry("05/03/2024", "E001", "08:00", "16:00", ""))
	require.NoError(t, err)
	_, _, err = tr.Record(entry("20/03/2024", "E001", "08:00", "16:00", ""))
	require.NoError(t, err)

	oldest, err := tr.OldestDate()
	require.NoError(t, err)
	assert.Equal(t, "2024-03-05", oldest.Format("2006-01-02"))

	require.NoError(t, tr.Delete(id))
	assert.ErrorIs(t, tr.Delete(id), storage.ErrNotFound)

	stored, err := tr.StoredRecords(storage.Filter{})
	require.NoError(t, err)
	require.Len(t, stored, 1)

	n, err := tr.DeleteIDs([]string{stored[0].ID, id})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	oldest, err = tr.OldestDate()
	require.NoError(t, err)
	assert.Nil(t, oldest)
}

func TestLoadKeepsSkippedRows(t *testing.T) {
	tr, _ := newTestTracker(t, work.DefaultPolicy())

	okID, _, err := tr.Record(entry("05/03/2024", "E001", "08:00", "16:00", ""))
	require.NoError(t, err)
	fullDayID, _, err := tr.Record(entry("06/03/2024", "E001", "07:00", "07:00", ""))
	require.NoError(t, err)

	strict := work.DefaultPolicy()
	strict.ZeroDurationIsFullDay = false
	other := New(tr.db, strict, tr.log)

	loaded, skipped, err := other.Load(storage.Filter{})
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, okID, loaded[0].ID)
	require.Len(t, skipped, 1)
	assert.Equal(t, fullDayID, skipped[0].Stored.ID)

	var verr *work.ValidationError
	require.ErrorAs(t, skipped[0].Err, &verr)
	assert.Equal(t, work.ReasonZeroDuration, verr.Reason)
}

func TestWeekProgressEffectiveShiftHours(t *testing.T) {
	tr, _ := newTestTracker(t, work.Policy{ZeroDurationIsFullDay: true})

	progress, err := tr.WeekProgress("E001", time.Date(2024, 3, 7, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, work.DefaultStandardShiftHours, progress.StandardHours)

	tr, _ = newTestTracker(t, work.Policy{StandardShiftHours: 7.5})
	progress, err = tr.WeekProgress("E001", time.Date(2024, 3, 7, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, 7.5, progress.StandardHours)
}
