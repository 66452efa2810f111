package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Kaitokidbua/worktime-codex/internal/archive"
)

func newArchiver() *archive.Archiver {
	return archive.New(trackerService, cfg.HistoryPath, logger)
}

func parseMonth(s string) (time.Time, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("month %q: want YYYY-MM, e.g. 2024-03", s)
	}
	return t, nil
}

// printResult shows one archived month. Rows that fail the current rules
// are never deleted, so they are called out for manual review.
func printResult(r archive.Result, cleaned bool) {
	fmt.Printf("  %s: %d record(s) archived", r.Path, r.Archived)
	if cleaned {
		fmt.Printf(", %d removed from the database", r.Deleted)
	}
	fmt.Println()
	if r.Skipped > 0 {
		fmt.Printf("    %d row(s) fail the current rules and were kept; see 'worktime list'\n", r.Skipped)
	}
}

var archiveCmd = &cobra.Command{
	Use:   "archive",
	Short: "Move past months of attendance into markdown files",
	Long: `Write a month's per-employee totals, ISO-week breakdown and records to
HistoryPath/YYYY-MM.md. Rows that no longer pass validation are listed in the
file but always stay in the database.`,
}

var archiveAutoCmd = &cobra.Command{
	Use:   "auto",
	Short: "Archive and clean every complete month not archived yet",
	RunE: func(cmd *cobra.Command, args []string) error {
		results, err := newArchiver().AutoArchivePastMonths(time.Now())
		for _, r := range results {
			printResult(r, true)
		}
		if err != nil {
			return err
		}

		if len(results) == 0 {
			fmt.Println("Nothing to archive")
			return nil
		}

		var archived, deleted, kept int
		for _, r := range results {
			archived += r.Archived
			deleted += int(r.Deleted)
			kept += r.Skipped
		}
		fmt.Printf("%d month(s): %d record(s) archived, %d removed, %d kept\n", len(results), archived, deleted, kept)
		return nil
	},
}

var archiveMonthCmd = &cobra.Command{
	Use:   "month <YYYY-MM>",
	Short: "Archive one month",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := parseMonth(args[0])
		if err != nil {
			return err
		}

		clean, _ := cmd.Flags().GetBool("clean")
		result, err := newArchiver().ArchiveMonth(t.Year(), t.Month(), clean)
		if result != nil {
			printResult(*result, clean)
		}
		return err
	},
}

var archiveListCmd = &cobra.Command{
	Use:   "list",
	Short: "List archive files",
	RunE: func(cmd *cobra.Command, args []string) error {
		files, err := newArchiver().ListArchives()
		if err != nil {
			return err
		}

		if len(files) == 0 {
			fmt.Printf("No archives in %s\n", cfg.HistoryPath)
			return nil
		}
		for _, f := range files {
			fmt.Println(f)
		}
		return nil
	},
}

var archiveShowCmd = &cobra.Command{
	Use:   "show <YYYY-MM>",
	Short: "Print an archived month",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := parseMonth(args[0])
		if err != nil {
			return err
		}

		content, err := newArchiver().ReadArchive(t.Year(), t.Month())
		if err != nil {
			return err
		}
		fmt.Print(content)
		return nil
	},
}

func init() {
	archiveCmd.AddCommand(archiveAutoCmd, archiveMonthCmd, archiveListCmd, archiveShowCmd)

	archiveMonthCmd.Flags().Bool("clean", false, "Delete the archived rows from the database")
}
