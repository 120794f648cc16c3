package backfill

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/lysyi3m/moodlehack/app/database"
	"github.com/lysyi3m/moodlehack/app/model"
)

type fakeRepo struct {
	answers map[int64]model.Answer
	saves   int
	failIDs map[int64]bool
}

func newFakeRepo(answers ...model.Answer) *fakeRepo {
	r := &fakeRepo{answers: make(map[int64]model.Answer), failIDs: make(map[int64]bool)}
	for _, a := range answers {
		r.answers[a.ID] = a
	}
	return r
}

func (r *fakeRepo) sorted(limit int) []model.Answer {
	out := make([]model.Answer, 0, len(r.answers))
	for _, a := range r.answers {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out
}

func (r *fakeRepo) GetBackfillStats(ctx context.Context, limit int) (database.BackfillStats, error) {
	var stats database.BackfillStats
	for _, a := range r.sorted(limit) {
		stats.Total++
		if a.PeriodID != nil {
			stats.WithPeriod++
		}
		if a.Month != 0 {
			stats.MonthPopulated++
		}
		if a.Year != 0 {
			stats.YearPopulated++
		}
		if a.PeriodID != nil && a.Month != 0 && a.Year != 0 {
			stats.Conflicts++
		}
	}
	return stats, nil
}

func (r *fakeRepo) ListForBackfill(ctx context.Context, limit int) ([]model.Answer, error) {
	return r.sorted(limit), nil
}

func (r *fakeRepo) SaveBackfill(ctx context.Context, answer *model.Answer) error {
	if r.failIDs[answer.ID] {
		return fmt.Errorf("database is locked")
	}
	r.saves++
	r.answers[answer.ID] = *answer
	return nil
}

func legacyAnswer(id int64, date *time.Time, actual *bool, status model.Status) model.Answer {
	a := model.Answer{ID: id, Question: fmt.Sprintf("q%d", id), Status: status, Actual: actual}
	if date != nil {
		pid := id
		a.PeriodID = &pid
		a.Period = &model.Period{ID: pid, Date: date}
	}
	return a
}

func boolPtr(b bool) *bool { return &b }

func datePtr(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func neverAsked(t *testing.T) Confirm {
	return func(string) (bool, error) {
		t.Fatal("Confirmation should not be requested")
		return false, nil
	}
}

func TestRunMapsPeriodAndStatus(t *testing.T) {
	repo := newFakeRepo(
		legacyAnswer(1, datePtr(2024, 3, 15), nil, model.StatusActual),
		legacyAnswer(2, nil, boolPtr(true), model.StatusDraft),
		legacyAnswer(3, nil, boolPtr(false), model.StatusActual),
		legacyAnswer(4, nil, nil, model.StatusReview),
	)
	var out bytes.Buffer

	report, err := NewRunner(repo, &out, neverAsked(t)).Run(context.Background(), Options{Force: true})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if a := repo.answers[1]; a.Month != 3 || a.Year != 2024 {
		t.Errorf("Expected 3/2024, got %d/%d", a.Month, a.Year)
	}
	if a := repo.answers[2]; a.Status != model.StatusActual {
		t.Errorf("Expected actual=true to map to actual, got %s", a.Status)
	}
	if a := repo.answers[3]; a.Status != model.StatusOutdated {
		t.Errorf("Expected actual=false to map to outdated, got %s", a.Status)
	}
	if a := repo.answers[4]; a.Status != model.StatusReview {
		t.Errorf("Expected unset actual to keep review, got %s", a.Status)
	}

	if report.Migrated != 3 || report.Skipped != 1 {
		t.Errorf("Expected 3 migrated and 1 skipped, got %d and %d", report.Migrated, report.Skipped)
	}
	if report.PeriodUpdates != 1 || report.StatusUpdates != 2 {
		t.Errorf("Expected 1 period and 2 status updates, got %d and %d", report.PeriodUpdates, report.StatusUpdates)
	}
	if !strings.Contains(out.String(), "would add period 3/2024 from March - 2024") {
		t.Errorf("Expected add line in output, got:\n%s", out.String())
	}
	if !strings.Contains(out.String(), "RECOMMENDATIONS") {
		t.Error("Expected recommendations after a migrating run")
	}
}

func TestRunIsIdempotent(t *testing.T) {
	repo := newFakeRepo(
		legacyAnswer(1, datePtr(2024, 3, 15), boolPtr(true), model.StatusDraft),
		legacyAnswer(2, datePtr(2023, 11, 1), boolPtr(false), model.StatusActual),
	)
	runner := NewRunner(repo, &bytes.Buffer{}, neverAsked(t))

	first, err := runner.Run(context.Background(), Options{Force: true})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if first.Migrated != 2 {
		t.Errorf("Expected 2 migrated on first run, got %d", first.Migrated)
	}

	second, err := runner.Run(context.Background(), Options{Force: true})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if second.Migrated != 0 || second.Skipped != 2 {
		t.Errorf("Expected no updates on second run, got %d migrated %d skipped", second.Migrated, second.Skipped)
	}
}

func TestRunDryRunChangesNothing(t *testing.T) {
	repo := newFakeRepo(legacyAnswer(1, datePtr(2024, 3, 15), boolPtr(false), model.StatusActual))
	var out bytes.Buffer

	report, err := NewRunner(repo, &out, neverAsked(t)).Run(context.Background(), Options{DryRun: true})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if report.Migrated != 1 {
		t.Errorf("Expected 1 would-be update, got %d", report.Migrated)
	}
	if repo.saves != 0 {
		t.Errorf("Expected no saves in dry run, got %d", repo.saves)
	}
	if a := repo.answers[1]; a.Month != 0 || a.Status != model.StatusActual {
		t.Errorf("Expected answer untouched, got %+v", a)
	}
	if !strings.Contains(out.String(), "This was a dry run, no changes were made") {
		t.Errorf("Expected dry run notice, got:\n%s", out.String())
	}
}

func TestRunSkipFlags(t *testing.T) {
	repo := newFakeRepo(legacyAnswer(1, datePtr(2024, 3, 15), boolPtr(false), model.StatusActual))

	_, err := NewRunner(repo, &bytes.Buffer{}, neverAsked(t)).
		Run(context.Background(), Options{Force: true, SkipStatus: true})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if a := repo.answers[1]; a.Month != 3 || a.Status != model.StatusActual {
		t.Errorf("Expected only the period to migrate, got %+v", a)
	}

	_, err = NewRunner(repo, &bytes.Buffer{}, neverAsked(t)).
		Run(context.Background(), Options{Force: true, SkipPeriods: true})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if a := repo.answers[1]; a.Status != model.StatusOutdated {
		t.Errorf("Expected status to migrate, got %s", a.Status)
	}
}

func TestRunConfirmation(t *testing.T) {
	conflicting := legacyAnswer(1, datePtr(2024, 3, 15), nil, model.StatusActual)
	conflicting.Month, conflicting.Year = 1, 2024
	repo := newFakeRepo(conflicting)

	var prompts []string
	decline := func(prompt string) (bool, error) {
		prompts = append(prompts, prompt)
		return false, nil
	}
	var out bytes.Buffer

	report, err := NewRunner(repo, &out, decline).Run(context.Background(), Options{})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !report.Cancelled {
		t.Error("Expected run to be cancelled")
	}
	if len(prompts) != 1 {
		t.Errorf("Expected one prompt, got %d", len(prompts))
	}
	if repo.saves != 0 {
		t.Errorf("Expected no saves after declining, got %d", repo.saves)
	}
	if !strings.Contains(out.String(), "WARNING: 1 records already have month and year populated") {
		t.Errorf("Expected conflict warning, got:\n%s", out.String())
	}

	accept := func(string) (bool, error) { return true, nil }
	report, err = NewRunner(repo, &bytes.Buffer{}, accept).Run(context.Background(), Options{})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if report.Migrated != 1 || repo.answers[1].Month != 3 {
		t.Errorf("Expected conflicting record to be overwritten, got %+v", repo.answers[1])
	}
}

func TestRunContinuesAfterRecordErrors(t *testing.T) {
	var answers []model.Answer
	for id := int64(1); id <= 13; id++ {
		answers = append(answers, legacyAnswer(id, nil, boolPtr(false), model.StatusActual))
	}
	repo := newFakeRepo(answers...)
	for id := int64(1); id <= 12; id++ {
		repo.failIDs[id] = true
	}
	var out bytes.Buffer

	report, err := NewRunner(repo, &out, neverAsked(t)).Run(context.Background(), Options{Force: true})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(report.Errors) != 12 {
		t.Errorf("Expected 12 errors, got %d", len(report.Errors))
	}
	if report.Migrated != 1 || repo.answers[13].Status != model.StatusOutdated {
		t.Errorf("Expected the last record to migrate, got %d migrated", report.Migrated)
	}
	if !strings.Contains(out.String(), "... and 2 more errors") {
		t.Errorf("Expected overflow line, got:\n%s", out.String())
	}
}

func TestRunRecoversFromPanics(t *testing.T) {
	repo := newFakeRepo(
		legacyAnswer(1, nil, boolPtr(true), model.StatusDraft),
		legacyAnswer(2, nil, boolPtr(false), model.StatusActual),
	)

	report, err := NewRunner(&panickingRepo{fakeRepo: repo, panicID: 1}, &bytes.Buffer{}, neverAsked(t)).
		Run(context.Background(), Options{Force: true})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(report.Errors) != 1 || report.Errors[0].ID != 1 {
		t.Errorf("Expected a single error for record 1, got %+v", report.Errors)
	}
	if report.Migrated != 1 {
		t.Errorf("Expected record 2 to migrate, got %d", report.Migrated)
	}
}

type panickingRepo struct {
	*fakeRepo
	panicID int64
}

func (r *panickingRepo) SaveBackfill(ctx context.Context, answer *model.Answer) error {
	if answer.ID == r.panicID {
		panic("boom")
	}
	return r.fakeRepo.SaveBackfill(ctx, answer)
}

func TestRunHonorsLimitAndCancellation(t *testing.T) {
	repo := newFakeRepo(
		legacyAnswer(1, nil, boolPtr(false), model.StatusActual),
		legacyAnswer(2, nil, boolPtr(false), model.StatusActual),
	)

	report, err := NewRunner(repo, &bytes.Buffer{}, neverAsked(t)).
		Run(context.Background(), Options{Force: true, Limit: 1})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if report.Total != 1 || repo.answers[2].Status != model.StatusActual {
		t.Errorf("Expected only the first record to be processed, got %+v", report)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = NewRunner(repo, &bytes.Buffer{}, neverAsked(t)).Run(ctx, Options{Force: true})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}
