package database

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/lysyi3m/moodlehack/app/model"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	version, dirty, err := RunMigrations(db)
	if err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}
	if version != 2 || dirty {
		t.Fatalf("Expected clean schema version 2, got %d (dirty=%v)", version, dirty)
	}

	return db
}

func createCategory(t *testing.T, repo *CategoryRepo, name string) *model.Category {
	t.Helper()
	category := &model.Category{Name: name}
	if err := repo.CreateCategory(context.Background(), category); err != nil {
		t.Fatalf("Failed to create category: %v", err)
	}
	return category
}

func TestAnswerRepositoryCRUD(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	categories := NewCategoryRepository(db)
	answers := NewAnswerRepository(db)

	category := createCategory(t, categories, "Math")

	answer := &model.Answer{
		Question:   "What is 2+2?",
		Answer:     "**4**",
		URL:        "https://example.com/math",
		Month:      3,
		Year:       2024,
		Status:     model.StatusDraft,
		CategoryID: category.ID,
	}
	if err := answers.CreateAnswer(ctx, answer); err != nil {
		t.Fatalf("Failed to create answer: %v", err)
	}
	if answer.ID == 0 {
		t.Fatal("Expected answer id to be assigned")
	}
	if answer.Created.IsZero() || !answer.Created.Equal(answer.Updated) {
		t.Errorf("Expected equal non-zero timestamps, got %v and %v", answer.Created, answer.Updated)
	}

	got, err := answers.GetAnswer(ctx, answer.ID)
	if err != nil {
		t.Fatalf("Failed to get answer: %v", err)
	}
	if got == nil {
		t.Fatal("Expected answer, got nil")
	}
	if got.Question != answer.Question || got.Month != 3 || got.Year != 2024 {
		t.Errorf("Unexpected answer: %+v", got)
	}
	if got.Status != model.StatusDraft {
		t.Errorf("Expected status draft, got %s", got.Status)
	}
	if got.Category == nil || got.Category.Name != "Math" {
		t.Errorf("Expected category Math, got %+v", got.Category)
	}
	if got.Tag != "" || got.PeriodID != nil || got.Actual != nil {
		t.Errorf("Expected empty optional fields, got tag=%q period=%v actual=%v", got.Tag, got.PeriodID, got.Actual)
	}

	got.Answer = "4"
	if err := answers.UpdateAnswer(ctx, got); err != nil {
		t.Fatalf("Failed to update answer: %v", err)
	}

	deleted, err := answers.DeleteAnswer(ctx, answer.ID)
	if err != nil {
		t.Fatalf("Failed to delete answer: %v", err)
	}
	if !deleted {
		t.Error("Expected answer to be deleted")
	}

	missing, err := answers.GetAnswer(ctx, answer.ID)
	if err != nil {
		t.Fatalf("Failed to get answer: %v", err)
	}
	if missing != nil {
		t.Errorf("Expected nil for deleted answer, got %+v", missing)
	}

	deleted, err = answers.DeleteAnswer(ctx, answer.ID)
	if err != nil {
		t.Fatalf("Failed to delete answer: %v", err)
	}
	if deleted {
		t.Error("Expected second delete to report nothing deleted")
	}
}

func TestAnswerRepositoryUniqueQuestion(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	category := createCategory(t, NewCategoryRepository(db), "General")
	answers := NewAnswerRepository(db)

	first := &model.Answer{Question: "Привет мир", Answer: "a", Month: 1, Year: 2024, CategoryID: category.ID}
	if err := answers.CreateAnswer(ctx, first); err != nil {
		t.Fatalf("Failed to create answer: %v", err)
	}

	exists, err := answers.QuestionExists(ctx, "ПРИВЕТ МИР", 0)
	if err != nil {
		t.Fatalf("Failed to check question: %v", err)
	}
	if !exists {
		t.Error("Expected case-insensitive match to exist")
	}

	exists, err = answers.QuestionExists(ctx, "привет мир", first.ID)
	if err != nil {
		t.Fatalf("Failed to check question: %v", err)
	}
	if exists {
		t.Error("Expected the excluded answer not to count")
	}

	dup := &model.Answer{Question: "Привет мир", Answer: "b", Month: 1, Year: 2024, CategoryID: category.ID}
	err = answers.CreateAnswer(ctx, dup)
	if !IsUniqueViolation(err) {
		t.Errorf("Expected unique violation, got %v", err)
	}
}

func TestAnswerRepositoryOrderingAndFilters(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	categories := NewCategoryRepository(db)
	answers := NewAnswerRepository(db)

	math := createCategory(t, categories, "Math")
	history := createCategory(t, categories, "History")

	base := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	create := func(question string, year, month int, category int64, status model.Status, offset time.Duration) {
		t.Helper()
		answers.now = func() time.Time { return base.Add(offset) }
		answer := &model.Answer{
			Question:   question,
			Answer:     "answer to " + question,
			Month:      model.Month(month),
			Year:       year,
			Status:     status,
			CategoryID: category,
		}
		if err := answers.CreateAnswer(ctx, answer); err != nil {
			t.Fatalf("Failed to create answer %q: %v", question, err)
		}
	}

	create("t1", 2024, 1, math.ID, model.StatusActual, time.Hour)
	create("t2", 2024, 3, math.ID, model.StatusActual, 2*time.Hour)
	create("t3", 2023, 12, history.ID, model.StatusOutdated, 3*time.Hour)
	create("t4", 2024, 1, history.ID, model.StatusActual, 4*time.Hour)

	list, err := answers.ListAnswers(ctx, AnswerFilter{}, 0, 0)
	if err != nil {
		t.Fatalf("Failed to list answers: %v", err)
	}
	expected := []string{"t2", "t4", "t1", "t3"}
	if len(list) != len(expected) {
		t.Fatalf("Expected %d answers, got %d", len(expected), len(list))
	}
	for i, question := range expected {
		if list[i].Question != question {
			t.Errorf("Expected %s at position %d, got %s", question, i, list[i].Question)
		}
	}

	tests := []struct {
		name     string
		filter   AnswerFilter
		expected int
	}{
		{"search question", AnswerFilter{Query: "T2"}, 1},
		{"search answer", AnswerFilter{Query: "ANSWER TO"}, 4},
		{"category", AnswerFilter{CategoryID: history.ID}, 2},
		{"status", AnswerFilter{Status: "outdated"}, 1},
		{"year", AnswerFilter{Year: 2024}, 3},
		{"month", AnswerFilter{Month: 1}, 2},
		{"first quarter", AnswerFilter{MonthFrom: 1, MonthTo: 3}, 3},
		{"fourth quarter", AnswerFilter{MonthFrom: 10, MonthTo: 12}, 1},
		{"combined", AnswerFilter{CategoryID: math.ID, Month: 1}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			count, err := answers.CountAnswers(ctx, tt.filter)
			if err != nil {
				t.Fatalf("Failed to count answers: %v", err)
			}
			if count != tt.expected {
				t.Errorf("Expected %d answers, got %d", tt.expected, count)
			}
		})
	}

	page, err := answers.ListAnswers(ctx, AnswerFilter{}, 2, 2)
	if err != nil {
		t.Fatalf("Failed to list answers: %v", err)
	}
	if len(page) != 2 || page[0].Question != "t1" {
		t.Errorf("Expected second page starting at t1, got %+v", page)
	}
}

func TestCategoryProtectedDelete(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	categories := NewCategoryRepository(db)
	answers := NewAnswerRepository(db)

	category := createCategory(t, categories, "Physics")
	answer := &model.Answer{Question: "q", Answer: "a", Month: 5, Year: 2024, CategoryID: category.ID}
	if err := answers.CreateAnswer(ctx, answer); err != nil {
		t.Fatalf("Failed to create answer: %v", err)
	}

	count, err := categories.CountCategoryReferences(ctx, category.ID)
	if err != nil {
		t.Fatalf("Failed to count references: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected 1 reference, got %d", count)
	}

	_, err = categories.DeleteCategory(ctx, category.ID)
	if !IsForeignKeyViolation(err) {
		t.Fatalf("Expected foreign key violation, got %v", err)
	}

	if got, _ := categories.GetCategory(ctx, category.ID); got == nil {
		t.Error("Expected category to survive the rejected delete")
	}
	if got, _ := answers.GetAnswer(ctx, answer.ID); got == nil {
		t.Error("Expected answer to survive the rejected delete")
	}
}

func TestCategorySearch(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	categories := NewCategoryRepository(db)

	createCategory(t, categories, "Математика")
	createCategory(t, categories, "Алгебра")
	createCategory(t, categories, "History")

	all, err := categories.ListCategories(ctx, "")
	if err != nil {
		t.Fatalf("Failed to list categories: %v", err)
	}
	if len(all) != 3 || all[0].Name != "History" {
		t.Errorf("Expected 3 categories ordered by name, got %+v", all)
	}

	found, err := categories.ListCategories(ctx, "МАТ")
	if err != nil {
		t.Fatalf("Failed to search categories: %v", err)
	}
	if len(found) != 1 || found[0].Name != "Математика" {
		t.Errorf("Expected Математика, got %+v", found)
	}
}

func TestPeriodRepository(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	periods := NewPeriodRepository(db)

	date := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	withDate := &model.Period{Date: &date}
	empty := &model.Period{}
	for _, p := range []*model.Period{empty, withDate} {
		if err := periods.CreatePeriod(ctx, p); err != nil {
			t.Fatalf("Failed to create period: %v", err)
		}
	}

	list, err := periods.ListPeriods(ctx)
	if err != nil {
		t.Fatalf("Failed to list periods: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("Expected 2 periods, got %d", len(list))
	}
	if list[0].Date == nil || !list[0].Date.Equal(date) {
		t.Errorf("Expected dated period first, got %+v", list[0])
	}
	if list[1].Date != nil {
		t.Errorf("Expected empty period last, got %v", list[1].Date)
	}
}

func TestBackfillQueries(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	category := createCategory(t, NewCategoryRepository(db), "Legacy")
	periods := NewPeriodRepository(db)
	answers := NewAnswerRepository(db)

	date := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	period := &model.Period{Date: &date}
	if err := periods.CreatePeriod(ctx, period); err != nil {
		t.Fatalf("Failed to create period: %v", err)
	}

	actual := true
	legacy := &model.Answer{Question: "legacy", Answer: "a", CategoryID: category.ID, PeriodID: &period.ID, Actual: &actual}
	current := &model.Answer{Question: "current", Answer: "a", Month: 1, Year: 2025, CategoryID: category.ID}
	conflicting := &model.Answer{Question: "both", Answer: "a", Month: 2, Year: 2024, CategoryID: category.ID, PeriodID: &period.ID}
	for _, a := range []*model.Answer{legacy, current, conflicting} {
		if err := answers.CreateAnswer(ctx, a); err != nil {
			t.Fatalf("Failed to create answer: %v", err)
		}
	}

	stats, err := answers.GetBackfillStats(ctx, 0)
	if err != nil {
		t.Fatalf("Failed to get stats: %v", err)
	}
	expected := BackfillStats{Total: 3, WithPeriod: 2, MonthPopulated: 2, YearPopulated: 2, Conflicts: 1}
	if stats != expected {
		t.Errorf("Expected stats %+v, got %+v", expected, stats)
	}

	limited, err := answers.GetBackfillStats(ctx, 1)
	if err != nil {
		t.Fatalf("Failed to get stats: %v", err)
	}
	if limited.Total != 1 || limited.WithPeriod != 1 {
		t.Errorf("Expected stats for the first answer only, got %+v", limited)
	}

	rows, err := answers.ListForBackfill(ctx, 0)
	if err != nil {
		t.Fatalf("Failed to list for backfill: %v", err)
	}
	if len(rows) != 3 || rows[0].Question != "legacy" {
		t.Fatalf("Expected 3 rows ordered by id, got %+v", rows)
	}
	first := rows[0]
	if first.Period == nil || first.Period.Date == nil || !first.Period.Date.Equal(date) {
		t.Errorf("Expected legacy period date to be loaded, got %+v", first.Period)
	}
	if first.Month != 0 || first.Year != 0 {
		t.Errorf("Expected unset month/year, got %d/%d", first.Month, first.Year)
	}

	first.Month = 3
	first.Year = 2024
	if err := answers.SaveBackfill(ctx, &first); err != nil {
		t.Fatalf("Failed to save backfill: %v", err)
	}

	saved, err := answers.GetAnswer(ctx, first.ID)
	if err != nil {
		t.Fatalf("Failed to get answer: %v", err)
	}
	if saved.Month != 3 || saved.Year != 2024 {
		t.Errorf("Expected 3/2024, got %d/%d", saved.Month, saved.Year)
	}
}

func TestUserRepository(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	users := NewUserRepository(db)

	user := &model.User{Username: "admin", PasswordHash: "hash", IsActive: true}
	if err := users.CreateUser(ctx, user); err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}

	got, err := users.GetUserByUsername(ctx, "admin")
	if err != nil {
		t.Fatalf("Failed to get user: %v", err)
	}
	if got == nil || got.ID != user.ID || !got.IsActive {
		t.Fatalf("Unexpected user: %+v", got)
	}

	if err := users.SetPassword(ctx, user.ID, "new-hash"); err != nil {
		t.Fatalf("Failed to set password: %v", err)
	}
	got, _ = users.GetUser(ctx, user.ID)
	if got.PasswordHash != "new-hash" {
		t.Errorf("Expected new-hash, got %s", got.PasswordHash)
	}

	missing, err := users.GetUserByUsername(ctx, "nobody")
	if err != nil || missing != nil {
		t.Errorf("Expected nil user without error, got %+v, %v", missing, err)
	}

	if err := users.CreateUser(ctx, &model.User{Username: "admin", PasswordHash: "x"}); !IsUniqueViolation(err) {
		t.Errorf("Expected unique violation, got %v", err)
	}
}
