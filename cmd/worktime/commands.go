package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Kaitokidbua/worktime-codex/internal/config"
	"github.com/Kaitokidbua/worktime-codex/internal/export"
	"github.com/Kaitokidbua/worktime-codex/internal/ingest"
	"github.com/Kaitokidbua/worktime-codex/internal/storage"
	"github.com/Kaitokidbua/worktime-codex/internal/summary"
	"github.com/Kaitokidbua/worktime-codex/internal/visualization"
	"github.com/Kaitokidbua/worktime-codex/internal/work"
)

var recordCmd = &cobra.Command{
	Use:     "record",
	Aliases: []string{"add", "rec"},
	Short:   "Record one attendance entry",
	Long: `Record a single attendance entry. Required values missing from the flags
are asked for interactively.

Examples:
  worktime record --employee E001 --name Alice --date 05/03/2024 --in 08:00 --out 17:30 --breaks 1,0.5
  worktime record --employee E002 --name Bob --in 22:00 --out 06:00 --ot 1`,
	RunE: func(cmd *cobra.Command, args []string) error {
		raw := work.RawEntry{}
		raw.Date, _ = cmd.Flags().GetString("date")
		raw.EmployeeID, _ = cmd.Flags().GetString("employee")
		raw.Name, _ = cmd.Flags().GetString("name")
		raw.ClockIn, _ = cmd.Flags().GetString("in")
		raw.ClockOut, _ = cmd.Flags().GetString("out")
		raw.Breaks, _ = cmd.Flags().GetString("breaks")
		raw.AdditionalOT, _ = cmd.Flags().GetString("ot")
		raw.ShiftLabel, _ = cmd.Flags().GetString("shift")

		reader := bufio.NewReader(os.Stdin)
		prompts := []struct {
			label string
			value *string
		}{
			{"Employee ID", &raw.EmployeeID},
			{"Name", &raw.Name},
			{fmt.Sprintf("Date (%s)", cfg.DateLayout), &raw.Date},
			{"Clock in (HH:MM)", &raw.ClockIn},
			{"Clock out (HH:MM)", &raw.ClockOut},
		}
		for _, p := range prompts {
			if strings.TrimSpace(*p.value) != "" {
				continue
			}
			v, err := prompt(reader, p.label)
			if err != nil {
				return err
			}
			*p.value = v
		}

		id, rec, err := trackerService.Record(raw)
		if err != nil {
			return err
		}

		fmt.Printf("Recorded %s for %s (%s) on %s\n", id[:8], rec.Name(), rec.EmployeeID(), rec.Date().Format(cfg.DateLayout))
		fmt.Printf("  Shift: %s - %s | Raw: %sh | Breaks: %sh | Net: %sh\n",
			rec.ClockIn(), rec.ClockOut(), export.Hours(rec.RawDurationHours()),
			export.Hours(rec.BreakTotalHours()), export.Hours(rec.NetWorkedHours()))
		fmt.Printf("  Regular: %sh | Overtime: %sh\n", export.Hours(rec.RegularHours()), export.Hours(rec.OvertimeHours()))
		return nil
	},
}

func prompt(reader *bufio.Reader, label string) (string, error) {
	fmt.Printf("%s: ", label)
	line, err := reader.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	value := strings.TrimSpace(line)
	if value == "" {
		return "", fmt.Errorf("%s is required", strings.ToLower(label))
	}
	return value, nil
}

var importCmd = &cobra.Command{
	Use:   "import <file.csv>",
	Short: "Import attendance entries from CSV",
	Long: `Import attendance entries from a CSV file with the header
date,employee_id,name,clock_in,clock_out,breaks,ot_hours,shift_label

Valid rows are stored and every rejected row is reported with its line number.
With --strict nothing is stored unless every row is valid.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		strict, _ := cmd.Flags().GetBool("strict")

		entries, err := ingest.ReadEntriesFile(args[0])
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			fmt.Println("No entries found")
			return nil
		}

		if strict {
			check := work.ImportEntries(entries, trackerService.Policy())
			if len(check.Failures) > 0 {
				printFailures(check.Failures)
				return fmt.Errorf("%d of %d entries rejected; nothing imported", len(check.Failures), len(entries))
			}
		}

		result, _, err := trackerService.Import(entries)
		if err != nil {
			return err
		}

		fmt.Printf("Imported %d of %d entries\n", len(result.Records), len(entries))
		if len(result.Failures) > 0 {
			printFailures(result.Failures)
		}
		return nil
	},
}

func printFailures(failures []work.EntryFailure) {
	fmt.Printf("Rejected %d entries:\n", len(failures))
	for _, f := range failures {
		fmt.Printf("  line %d: %v\n", f.Entry.Line, f.Err)
	}
}

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls", "records"},
	Short:   "List stored records with their IDs",
	RunE: func(cmd *cobra.Command, args []string) error {
		filter, err := filterFromFlags(cmd)
		if err != nil {
			return err
		}

		stored, err := trackerService.StoredRecords(filter)
		if err != nil {
			return err
		}
		if len(stored) == 0 {
			fmt.Println("No records found")
			return nil
		}

		policy := trackerService.Policy()
		for _, s := range stored {
			status := ""
			if _, err := work.NewRecord(s.Input, policy); err != nil {
				status = " [INVALID: " + err.Error() + "]"
			}
			fmt.Printf("%s  %s  %-8s %-20s %s-%s%s\n",
				s.ID[:8], s.Input.Date.Format(cfg.DateLayout), s.Input.EmployeeID, s.Input.Name,
				s.Input.ClockIn, s.Input.ClockOut, status)
		}
		return nil
	},
}

var summaryCmd = &cobra.Command{
	Use:     "summary [daily|weekly|monthly]",
	Aliases: []string{"sum"},
	Short:   "Show regular and overtime totals per period",
	Long: `Summarize records per employee and period. Weeks are ISO weeks (Monday to Sunday).

Examples:
  worktime summary weekly
  worktime summary monthly --employee E001
  worktime summary daily --start 01/03/2024 --end 31/03/2024`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		g := summary.Weekly
		if len(args) > 0 {
			var err error
			if g, err = summary.ParseGranularity(args[0]); err != nil {
				return err
			}
		}

		filter, err := filterFromFlags(cmd)
		if err != nil {
			return err
		}

		summaries, err := trackerService.Summaries(filter, g)
		if err != nil {
			return err
		}
		if len(summaries) == 0 {
			fmt.Println("No records found")
			return nil
		}

		fmt.Printf("%-12s %-10s %-20s %9s %9s %9s %5s\n", "Period", "Employee", "Name", "Regular", "Overtime", "Worked", "Days")
		var regular, overtime float64
		for _, s := range summaries {
			fmt.Printf("%-12s %-10s %-20s %9s %9s %9s %5d\n",
				s.PeriodKey, s.EmployeeID, s.Name,
				export.Hours(s.TotalRegularHours), export.Hours(s.TotalOvertimeHours),
				export.Hours(s.TotalWorkedHours), s.DaysPresent)
			regular += s.TotalRegularHours
			overtime += s.TotalOvertimeHours
		}
		fmt.Printf("\nTotal: %sh regular, %sh overtime\n", export.Hours(regular), export.Hours(overtime))
		return nil
	},
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Write the Excel report with daily, weekly and monthly sheets",
	RunE: func(cmd *cobra.Command, args []string) error {
		outputPath, _ := cmd.Flags().GetString("output")
		if outputPath == "" {
			outputPath = cfg.ReportPath
		}

		filter, err := filterFromFlags(cmd)
		if err != nil {
			return err
		}
		records, err := trackerService.Records(filter)
		if err != nil {
			return err
		}

		if err := export.SaveWorkbook(outputPath, records); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
		fmt.Printf("Report for %d records written to %s\n", len(records), outputPath)
		return nil
	},
}

var exportCmd = &cobra.Command{
	Use:     "export [format]",
	Aliases: []string{"exp"},
	Short:   "Export records to CSV, JSON, HTML or a summary CSV",
	Long: `Export records in one of these formats:
  csv      one row per record, importable again with 'worktime import'
  json     records plus period summaries
  html     period summary report
  summary  period summaries as CSV

Examples:
  worktime export csv -o march.csv --start 01/03/2024 --end 31/03/2024
  worktime export summary --granularity monthly --employee E001`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		outputPath, _ := cmd.Flags().GetString("output")
		granularity, _ := cmd.Flags().GetString("granularity")

		if len(args) > 0 {
			format = args[0]
		}
		g, err := summary.ParseGranularity(granularity)
		if err != nil {
			return err
		}

		filter, err := filterFromFlags(cmd)
		if err != nil {
			return err
		}
		records, err := trackerService.Records(filter)
		if err != nil {
			return err
		}

		var write func(io.Writer) error
		switch format {
		case "csv":
			write = func(w io.Writer) error {
				return export.WriteRecordsCSV(w, records, cfg.DateLayout)
			}
		case "json":
			write = func(w io.Writer) error {
				return export.WriteJSON(w, records, g, time.Now())
			}
		case "html":
			title := fmt.Sprintf("Attendance Summary (%s)", g)
			report := visualization.New().GenerateHTMLReport(title, summary.Sorted(summary.Summarize(records, g)), time.Now())
			write = func(w io.Writer) error {
				_, err := io.WriteString(w, report)
				return err
			}
		case "summary":
			write = func(w io.Writer) error {
				return export.WriteSummariesCSV(w, summary.Sorted(summary.Summarize(records, g)))
			}
		default:
			return fmt.Errorf("unknown format: %s (use csv, json, html or summary)", format)
		}

		return writeOutput(outputPath, write)
	},
}

var chartCmd = &cobra.Command{
	Use:   "chart",
	Short: "Draw an SVG chart of worked hours",
	Long: `With --employee, draw that employee's ISO week containing --date.
Without it, draw one bar per employee and period.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		employee, _ := cmd.Flags().GetString("employee")
		outputPath, _ := cmd.Flags().GetString("output")
		v := visualization.New()

		var svg string
		if employee != "" {
			day := time.Now()
			if s, _ := cmd.Flags().GetString("date"); s != "" {
				var err error
				if day, err = work.ParseDate("date", s, trackerService.Policy().DateLayouts); err != nil {
					return err
				}
			}
			progress, err := trackerService.WeekProgress(employee, day)
			if err != nil {
				return err
			}
			svg = v.GenerateWeekSVG(progress)
		} else {
			granularity, _ := cmd.Flags().GetString("granularity")
			g, err := summary.ParseGranularity(granularity)
			if err != nil {
				return err
			}
			filter, err := filterFromFlags(cmd)
			if err != nil {
				return err
			}
			sums, err := trackerService.Summaries(filter, g)
			if err != nil {
				return err
			}
			svg = v.GeneratePeriodSVG(fmt.Sprintf("Worked Hours (%s)", g), sums)
		}

		return writeOutput(outputPath, func(w io.Writer) error {
			_, err := io.WriteString(w, svg)
			return err
		})
	},
}

var deleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Aliases: []string{"del", "rm", "remove"},
	Short:   "Delete a record",
	Long:    `Delete an attendance record by its ID. Use 'list' to see IDs; a unique prefix is enough.`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := resolveID(args[0])
		if err != nil {
			return err
		}

		force, _ := cmd.Flags().GetBool("force")
		if !force {
			fmt.Printf("Delete record %s? This cannot be undone. Use --force to confirm.\n", id[:8])
			return nil
		}

		if err := trackerService.Delete(id); err != nil {
			return err
		}
		fmt.Printf("Record %s deleted\n", id[:8])
		return nil
	},
}

// resolveID expands a unique ID prefix to the full record ID.
func resolveID(prefix string) (string, error) {
	stored, err := trackerService.StoredRecords(storage.Filter{})
	if err != nil {
		return "", err
	}

	var matches []string
	for _, s := range stored {
		if s.ID == prefix {
			return s.ID, nil
		}
		if strings.HasPrefix(s.ID, prefix) {
			matches = append(matches, s.ID)
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("%s: %w", prefix, storage.ErrNotFound)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("id prefix %s matches %d records", prefix, len(matches))
	}
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective configuration",
	Long: `Show the configuration after file, .env and WORKTIME_* overrides.
With --save the effective values are written back to the config file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Printf("Config file: %s\n", config.Path())
		fmt.Printf("  DatabasePath:          %s\n", cfg.DatabasePath)
		fmt.Printf("  StandardShiftHours:    %.2f\n", cfg.StandardShiftHours)
		fmt.Printf("  ZeroDurationIsFullDay: %t\n", cfg.ZeroDurationIsFullDay)
		fmt.Printf("  MaxNetHours:           %.2f (0 = no cap)\n", cfg.MaxNetHours)
		fmt.Printf("  DateLayout:            %s\n", cfg.DateLayout)
		fmt.Printf("  ReportPath:            %s\n", cfg.ReportPath)
		fmt.Printf("  HistoryPath:           %s\n", cfg.HistoryPath)
		fmt.Printf("  LogLevel:              %s\n", cfg.LogLevel)
		fmt.Printf("  LogFormat:             %s\n", cfg.LogFormat)

		if save, _ := cmd.Flags().GetBool("save"); save {
			if err := config.Save(cfg); err != nil {
				return fmt.Errorf("failed to save config: %w", err)
			}
			fmt.Println("Configuration saved")
		}
		return nil
	},
}

// filterFromFlags reads --employee, --start and --end when the command has them.
func filterFromFlags(cmd *cobra.Command) (storage.Filter, error) {
	var f storage.Filter
	layouts := trackerService.Policy().DateLayouts

	if cmd.Flags().Lookup("employee") != nil {
		f.EmployeeID, _ = cmd.Flags().GetString("employee")
	}
	for _, bound := range []struct {
		flag string
		dst  *time.Time
	}{
		{"start", &f.Start},
		{"end", &f.End},
	} {
		if cmd.Flags().Lookup(bound.flag) == nil {
			continue
		}
		s, _ := cmd.Flags().GetString(bound.flag)
		if s == "" {
			continue
		}
		t, err := work.ParseDate(bound.flag, s, layouts)
		if err != nil {
			return f, err
		}
		*bound.dst = t
	}

	if !f.Start.IsZero() && !f.End.IsZero() && f.End.Before(f.Start) {
		return f, errors.New("--end is before --start")
	}
	return f, nil
}

// writeOutput runs write against the file at path, or stdout when path is
// empty. A failed close is reported when the write itself succeeded.
func writeOutput(path string, write func(io.Writer) error) (err error) {
	if path == "" {
		return write(os.Stdout)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", path, cerr)
		}
	}()

	return write(f)
}

func addFilterFlags(cmd *cobra.Command) {
	cmd.Flags().String("employee", "", "Only this employee ID")
	cmd.Flags().StringP("start", "s", "", "Start date (inclusive)")
	cmd.Flags().StringP("end", "e", "", "End date (inclusive)")
}

func init() {
	recordCmd.Flags().StringP("date", "d", "", "Date of the shift start")
	recordCmd.Flags().String("employee", "", "Employee ID")
	recordCmd.Flags().StringP("name", "n", "", "Employee name")
	recordCmd.Flags().String("in", "", "Clock-in time (HH:MM)")
	recordCmd.Flags().String("out", "", "Clock-out time (HH:MM)")
	recordCmd.Flags().StringP("breaks", "b", "", "Break durations in hours, comma separated")
	recordCmd.Flags().String("ot", "", "Additional overtime hours")
	recordCmd.Flags().String("shift", "", "Shift label")

	importCmd.Flags().Bool("strict", false, "Import nothing if any row is invalid")

	addFilterFlags(listCmd)
	addFilterFlags(summaryCmd)

	reportCmd.Flags().StringP("output", "o", "", "Output file (default ReportPath from config)")
	addFilterFlags(reportCmd)

	exportCmd.Flags().StringP("format", "f", "csv", "Output format: csv, json, html, summary")
	exportCmd.Flags().StringP("output", "o", "", "Output file (stdout if empty)")
	exportCmd.Flags().StringP("granularity", "g", "weekly", "Summary period: daily, weekly, monthly")
	addFilterFlags(exportCmd)

	chartCmd.Flags().StringP("output", "o", "", "Output file (stdout if empty)")
	chartCmd.Flags().StringP("date", "d", "", "Any day of the week to draw (default today)")
	chartCmd.Flags().StringP("granularity", "g", "weekly", "Summary period: daily, weekly, monthly")
	addFilterFlags(chartCmd)

	deleteCmd.Flags().BoolP("force", "f", false, "Force delete without confirmation")

	configCmd.Flags().Bool("save", false, "Write the effective configuration to the config file")
}
