package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/Kaitokidbua/worktime-codex/internal/work"
)

const (
	dateFormat      = "2006-01-02"
	timestampFormat = "2006-01-02T15:04:05"
)

// ErrNotFound is returned when no record has the requested id.
var ErrNotFound = errors.New("record not found")

// StoredRecord is a persisted attendance entry. Only the inputs are
// authoritative; derived hours are recomputed when the record is loaded.
type StoredRecord struct {
	ID        string
	CreatedAt time.Time
	Input     work.RecordInput
}

// Filter narrows ListRecords. Zero values leave that side unbounded and
// both dates are inclusive.
type Filter struct {
	EmployeeID string
	Start      time.Time
	End        time.Time
}

type Database struct {
	db *sql.DB
}

func New(path string) (*Database, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		return nil, err
	}

	database := &Database{db: db}
	if err := database.createTables(); err != nil {
		db.Close()
		return nil, err
	}

	return database, nil
}

func (d *Database) createTables() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS attendance_records (
			id TEXT PRIMARY KEY,
			date TEXT NOT NULL,
			employee_id TEXT NOT NULL,
			name TEXT NOT NULL,
			shift_label TEXT,
			clock_in TEXT NOT NULL,
			clock_out TEXT NOT NULL,
			breaks TEXT NOT NULL DEFAULT '[]',
			additional_ot REAL DEFAULT 0,
			net_hours REAL,
			regular_hours REAL,
			overtime_hours REAL,
			created_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_records_date ON attendance_records(date)`,
		`CREATE INDEX IF NOT EXISTS idx_records_employee ON attendance_records(employee_id, date)`,
	}

	for _, query := range queries {
		if _, err := d.db.Exec(query); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}

	return nil
}

func (d *Database) Close() error {
	return d.db.Close()
}

// InsertRecords stores all records in one transaction and returns their ids
// in the same order.
func (d *Database) InsertRecords(records []work.AttendanceRecord) ([]string, error) {
	tx, err := d.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(
		`INSERT INTO attendance_records (id, date, employee_id, name, shift_label, clock_in, clock_out,
		 breaks, additional_ot, net_hours, regular_hours, overtime_hours, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return nil, err
	}
	defer stmt.Close()

	now := time.Now().Format(timestampFormat)
	ids := make([]string, 0, len(records))
	for _, r := range records {
		breaks, err := json.Marshal(nonNilBreaks(r.Breaks()))
		if err != nil {
			return nil, err
		}
		id := uuid.NewString()
		_, err = stmt.Exec(
			id,
			r.Date().Format(dateFormat),
			r.EmployeeID(),
			r.Name(),
			r.ShiftLabel(),
			r.ClockIn().String(),
			r.ClockOut().String(),
			string(breaks),
			r.AdditionalOTHours(),
			r.NetWorkedHours(),
			r.RegularHours(),
			r.OvertimeHours(),
			now,
		)
		if err != nil {
			return nil, fmt.Errorf("insert record for %s on %s: %w", r.EmployeeID(), r.Date().Format(dateFormat), err)
		}
		ids = append(ids, id)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return ids, nil
}

const selectColumns = `SELECT id, date, employee_id, name, shift_label, clock_in, clock_out,
	breaks, additional_ot, created_at FROM attendance_records`

func (d *Database) GetRecord(id string) (*StoredRecord, error) {
	row := d.db.QueryRow(selectColumns+` WHERE id = ?`, id)
	rec, err := scanRecord(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// ListRecords returns matching records ordered by date, employee and insertion.
func (d *Database) ListRecords(f Filter) ([]StoredRecord, error) {
	var (
		where []string
		args  []interface{}
	)
	if f.EmployeeID != "" {
		where = append(where, "employee_id = ?")
		args = append(args, f.EmployeeID)
	}
	if !f.Start.IsZero() {
		where = append(where, "date >= ?")
		args = append(args, f.Start.Format(dateFormat))
	}
	if !f.End.IsZero() {
		where = append(where, "date <= ?")
		args = append(args, f.End.Format(dateFormat))
	}

	query := selectColumns
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY date ASC, employee_id ASC, created_at ASC, rowid ASC"

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []StoredRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}

	return records, rows.Err()
}

func (d *Database) DeleteRecord(id string) error {
	result, err := d.db.Exec("DELETE FROM attendance_records WHERE id = ?", id)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteRecords removes the records with the given ids in one transaction
// and reports how many of them existed.
func (d *Database) DeleteRecords(ids []string) (int64, error) {
	tx, err := d.db.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare("DELETE FROM attendance_records WHERE id = ?")
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	var deleted int64
	for _, id := range ids {
		result, err := stmt.Exec(id)
		if err != nil {
			return 0, fmt.Errorf("delete record %s: %w", id, err)
		}
		n, err := result.RowsAffected()
		if err != nil {
			return 0, err
		}
		deleted += n
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return deleted, nil
}

// OldestRecordDate returns the earliest record date, or nil when empty.
func (d *Database) OldestRecordDate() (*time.Time, error) {
	var date sql.NullString
	if err := d.db.QueryRow("SELECT MIN(date) FROM attendance_records").Scan(&date); err != nil {
		return nil, err
	}
	if !date.Valid {
		return nil, nil
	}
	t, err := time.Parse(dateFormat, date.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanRecord(s scanner) (*StoredRecord, error) {
	var (
		rec       StoredRecord
		date      string
		shift     sql.NullString
		clockIn   string
		clockOut  string
		breaks    string
		createdAt string
	)
	err := s.Scan(&rec.ID, &date, &rec.Input.EmployeeID, &rec.Input.Name, &shift,
		&clockIn, &clockOut, &breaks, &rec.Input.AdditionalOT, &createdAt)
	if err != nil {
		return nil, err
	}

	if rec.Input.Date, err = time.Parse(dateFormat, date); err != nil {
		return nil, fmt.Errorf("record %s: bad date %q: %w", rec.ID, date, err)
	}
	if rec.Input.ClockIn, err = work.ParseClock(work.FieldClockIn, clockIn); err != nil {
		return nil, fmt.Errorf("record %s: %w", rec.ID, err)
	}
	if rec.Input.ClockOut, err = work.ParseClock(work.FieldClockOut, clockOut); err != nil {
		return nil, fmt.Errorf("record %s: %w", rec.ID, err)
	}
	if err := json.Unmarshal([]byte(breaks), &rec.Input.Breaks); err != nil {
		return nil, fmt.Errorf("record %s: bad breaks %q: %w", rec.ID, breaks, err)
	}
	rec.Input.ShiftLabel = shift.String
	rec.CreatedAt, _ = time.Parse(timestampFormat, createdAt)

	return &rec, nil
}

func nonNilBreaks(b []float64) []float64 {
	if b == nil {
		return []float64{}
	}
	return b
}
