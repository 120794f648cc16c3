// Package backfill copies the deprecated period and actual columns of answers
// into month, year and status.
package backfill

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/fatih/color"

	"github.com/lysyi3m/moodlehack/app/database"
	"github.com/lysyi3m/moodlehack/app/model"
)

// maxListedErrors caps the errors printed in the summary.
const maxListedErrors = 10

type Options struct {
	Force       bool
	DryRun      bool
	Limit       int
	SkipPeriods bool
	SkipStatus  bool
}

// Confirm asks the operator a yes/no question.
type Confirm func(prompt string) (bool, error)

// RecordError is a failure confined to one answer. It never aborts a run.
type RecordError struct {
	ID      int64
	Message string
}

func (e RecordError) Error() string {
	return fmt.Sprintf("ID %d: %s", e.ID, e.Message)
}

type Report struct {
	Total     int
	Conflicts int
	Migrated  int
	Skipped   int
	Errors    []RecordError
	DryRun    bool
	Cancelled bool

	PeriodUpdates int
	StatusUpdates int
}

type Runner struct {
	repo    database.BackfillRepository
	out     io.Writer
	confirm Confirm

	warn    *color.Color
	fail    *color.Color
	success *color.Color
	heading *color.Color
}

func NewRunner(repo database.BackfillRepository, out io.Writer, confirm Confirm) *Runner {
	return &Runner{
		repo:    repo,
		out:     out,
		confirm: confirm,
		warn:    color.New(color.FgYellow),
		fail:    color.New(color.FgRed),
		success: color.New(color.FgGreen),
		heading: color.New(color.Bold),
	}
}

// Run processes the first opts.Limit answers by id (all when Limit <= 0).
// Outside dry-run and force mode the operator must confirm first; a declined
// confirmation returns a Cancelled report and writes nothing.
func (r *Runner) Run(ctx context.Context, opts Options) (*Report, error) {
	report := &Report{DryRun: opts.DryRun}

	stats, err := r.repo.GetBackfillStats(ctx, opts.Limit)
	if err != nil {
		return nil, err
	}
	report.Total = stats.Total
	report.Conflicts = stats.Conflicts

	r.rule("=")
	r.heading.Fprintln(r.out, "MIGRATION FROM DEPRECATED FIELDS")
	r.rule("=")
	fmt.Fprintf(r.out, "\nTotal answers: %d\n", stats.Total)
	fmt.Fprintf(r.out, "With period: %d\n", stats.WithPeriod)
	fmt.Fprintf(r.out, "Month populated: %d\n", stats.MonthPopulated)
	fmt.Fprintf(r.out, "Year populated: %d\n", stats.YearPopulated)

	if stats.Conflicts > 0 && !opts.Force {
		r.warn.Fprintf(r.out, "\nWARNING: %d records already have month and year populated.\n", stats.Conflicts)
		fmt.Fprintln(r.out, "Migration will overwrite them with values from the deprecated fields.")
	}

	if !opts.Force && !opts.DryRun {
		ok, err := r.confirm("\nAre you sure you want to proceed with migration? (yes/no): ")
		if err != nil {
			return nil, fmt.Errorf("failed to read confirmation: %w", err)
		}
		if !ok {
			r.warn.Fprintln(r.out, "Migration cancelled.")
			report.Cancelled = true
			return report, nil
		}
	}

	if opts.DryRun {
		fmt.Fprintln(r.out, "\nDRY RUN MODE: no changes will be saved")
		fmt.Fprintln(r.out, "Showing what would be migrated:")
	} else {
		fmt.Fprintln(r.out, "\nEXECUTING MIGRATION...")
	}

	answers, err := r.repo.ListForBackfill(ctx, opts.Limit)
	if err != nil {
		return nil, err
	}

	for i := range answers {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		answer := &answers[i]
		changed, err := r.process(ctx, i+1, answer, opts, report)
		if err != nil {
			recErr := RecordError{ID: answer.ID, Message: err.Error()}
			report.Errors = append(report.Errors, recErr)
			r.fail.Fprintf(r.out, "Error in record ID %d: %s\n", answer.ID, recErr.Message)
			slog.Warn("Backfill record failed", "id", answer.ID, "error", err)
			continue
		}

		if changed {
			report.Migrated++
		} else {
			report.Skipped++
		}
	}

	r.summary(report, opts)
	return report, nil
}

// process updates one answer in memory and, outside dry-run, saves it.
// A panic is reported as the record's error.
func (r *Runner) process(ctx context.Context, n int, answer *model.Answer, opts Options, report *Report) (changed bool, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			changed, err = false, fmt.Errorf("panic: %v", rec)
		}
	}()

	periodChanged := false
	if !opts.SkipPeriods && answer.Period != nil && answer.Period.Date != nil {
		newMonth := model.Month(answer.Period.Date.Month())
		newYear := answer.Period.Date.Year()

		if answer.Month != newMonth || answer.Year != newYear {
			periodChanged = true
			if answer.Month != 0 && answer.Year != 0 {
				fmt.Fprintf(r.out, "%d. ID %d: period %d/%d -> %d/%d\n",
					n, answer.ID, answer.Month, answer.Year, newMonth, newYear)
			} else {
				fmt.Fprintf(r.out, "%d. ID %d: would add period %d/%d from %s\n",
					n, answer.ID, newMonth, newYear, answer.Period.Display(nil))
			}
			if !opts.DryRun {
				answer.Month = newMonth
				answer.Year = newYear
			}
		}
	}

	statusChanged := false
	if !opts.SkipStatus && answer.Actual != nil {
		newStatus := model.StatusOutdated
		if *answer.Actual {
			newStatus = model.StatusActual
		}

		if answer.Status != newStatus {
			statusChanged = true
			fmt.Fprintf(r.out, "%d. ID %d: status '%s' -> '%s' (from actual=%t)\n",
				n, answer.ID, answer.Status, newStatus, *answer.Actual)
			if !opts.DryRun {
				answer.Status = newStatus
			}
		}
	}

	if !periodChanged && !statusChanged {
		return false, nil
	}

	if !opts.DryRun {
		if err := r.repo.SaveBackfill(ctx, answer); err != nil {
			return false, err
		}
	}

	if periodChanged {
		report.PeriodUpdates++
	}
	if statusChanged {
		report.StatusUpdates++
	}
	return true, nil
}

func (r *Runner) summary(report *Report, opts Options) {
	fmt.Fprintln(r.out)
	r.rule("=")
	r.heading.Fprintln(r.out, "MIGRATION SUMMARY")
	r.rule("=")

	fmt.Fprintf(r.out, "Total processed: %d\n", report.Total)
	fmt.Fprintf(r.out, "Conflicting records: %d\n", report.Conflicts)
	if opts.DryRun {
		fmt.Fprintf(r.out, "Would update records: %d\n", report.Migrated)
		fmt.Fprintf(r.out, "Would skip records: %d\n", report.Skipped)
	} else {
		fmt.Fprintf(r.out, "Updated records: %d\n", report.Migrated)
		fmt.Fprintf(r.out, "Skipped records: %d\n", report.Skipped)
	}

	if len(report.Errors) > 0 {
		r.fail.Fprintf(r.out, "\nErrors: %d\n", len(report.Errors))
		for i, recErr := range report.Errors {
			if i == maxListedErrors {
				r.fail.Fprintf(r.out, "  ... and %d more errors\n", len(report.Errors)-maxListedErrors)
				break
			}
			r.fail.Fprintf(r.out, "  %s\n", recErr.Error())
		}
	} else {
		r.success.Fprintln(r.out, "\nNo errors!")
	}

	if opts.DryRun {
		r.warn.Fprintln(r.out, "\nThis was a dry run, no changes were made. Run without --dry-run to migrate.")
		return
	}
	r.success.Fprintln(r.out, "\nMigration completed successfully!")

	if report.Migrated == 0 {
		return
	}

	fmt.Fprintln(r.out)
	r.rule("-")
	r.heading.Fprintln(r.out, "RECOMMENDATIONS:")
	r.rule("-")
	if !opts.SkipPeriods && report.PeriodUpdates > 0 {
		fmt.Fprintf(r.out, "- %d period records were migrated.\n", report.PeriodUpdates)
		fmt.Fprintln(r.out, "  The deprecated 'period' field can be removed when ready.")
	}
	if !opts.SkipStatus && report.StatusUpdates > 0 {
		fmt.Fprintf(r.out, "- %d status records were migrated.\n", report.StatusUpdates)
		fmt.Fprintln(r.out, "  The deprecated 'actual' field can be removed when ready.")
	}
}

func (r *Runner) rule(ch string) {
	fmt.Fprintln(r.out, strings.Repeat(ch, 60))
}
