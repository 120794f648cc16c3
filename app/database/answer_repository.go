package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/lysyi3m/moodlehack/app/model"
)

var (
	_ AnswerRepository   = (*AnswerRepo)(nil)
	_ BackfillRepository = (*AnswerRepo)(nil)
)

const answerSelect = `
	SELECT a.id, a.question, a.answer, a.note, COALESCE(a.url, ''), COALESCE(a.tag, ''),
	       COALESCE(a.month, 0), COALESCE(a.year, 0), a.status,
	       a.category_id, c.name, a.period_id, p.period, a.actual,
	       a.created_at, a.updated_at
	FROM answers a
	JOIN categories c ON c.id = a.category_id
	LEFT JOIN periods p ON p.id = a.period_id`

// AnswerRepo handles database operations for answers
type AnswerRepo struct {
	db  *DB
	now func() time.Time
}

// NewAnswerRepository creates a new answer repository
func NewAnswerRepository(db *DB) *AnswerRepo {
	return &AnswerRepo{db: db, now: time.Now}
}

// GetAnswer returns the answer with the given id, or nil if it does not exist
func (r *AnswerRepo) GetAnswer(ctx context.Context, id int64) (*model.Answer, error) {
	row := r.db.QueryRowContext(ctx, answerSelect+` WHERE a.id = ?`, id)
	answer, err := scanAnswer(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get answer: %w", err)
	}
	return answer, nil
}

// ListAnswers returns answers matching filter, newest period first and most
// recently updated first within a period. A non-positive limit means no limit.
func (r *AnswerRepo) ListAnswers(ctx context.Context, filter AnswerFilter, limit, offset int) ([]model.Answer, error) {
	where, args := buildAnswerWhere(filter)
	if limit <= 0 {
		limit = -1
	}
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, answerSelect+where+`
		ORDER BY a.year DESC, a.month DESC, a.updated_at DESC, a.id DESC
		LIMIT ? OFFSET ?`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list answers: %w", err)
	}
	defer rows.Close()

	return collectAnswers(rows)
}

// CountAnswers returns the number of answers matching filter
func (r *AnswerRepo) CountAnswers(ctx context.Context, filter AnswerFilter) (int, error) {
	where, args := buildAnswerWhere(filter)

	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM answers a`+where, args...).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count answers: %w", err)
	}
	return count, nil
}

// QuestionExists reports whether another answer has the same question,
// compared case-insensitively. excludeID (when non-zero) is ignored.
func (r *AnswerRepo) QuestionExists(ctx context.Context, question string, excludeID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM answers
			WHERE casefold(question) = casefold(?) AND id <> ?
		)
	`, question, excludeID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check question: %w", err)
	}
	return exists, nil
}

// CreateAnswer inserts answer and fills in its id and timestamps
func (r *AnswerRepo) CreateAnswer(ctx context.Context, answer *model.Answer) error {
	now := r.now().UTC()

	result, err := r.db.ExecContext(ctx, `
		INSERT INTO answers (
			question, answer, note, url, tag, month, year, status,
			category_id, period_id, actual, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, answer.Question, answer.Answer, answer.Note, nullString(answer.URL), nullString(answer.Tag),
		nullInt(int(answer.Month)), nullInt(answer.Year), answer.Status,
		answer.CategoryID, answer.PeriodID, answer.Actual, now, now)
	if err != nil {
		return fmt.Errorf("failed to create answer: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read answer id: %w", err)
	}

	answer.ID = id
	answer.Created = now
	answer.Updated = now
	return nil
}

// UpdateAnswer stores every writable field of answer and bumps its update time
func (r *AnswerRepo) UpdateAnswer(ctx context.Context, answer *model.Answer) error {
	now := r.now().UTC()

	result, err := r.db.ExecContext(ctx, `
		UPDATE answers
		SET question = ?, answer = ?, note = ?, url = ?, tag = ?, month = ?, year = ?,
		    status = ?, category_id = ?, period_id = ?, actual = ?, updated_at = ?
		WHERE id = ?
	`, answer.Question, answer.Answer, answer.Note, nullString(answer.URL), nullString(answer.Tag),
		nullInt(int(answer.Month)), nullInt(answer.Year), answer.Status,
		answer.CategoryID, answer.PeriodID, answer.Actual, now, answer.ID)
	if err != nil {
		return fmt.Errorf("failed to update answer: %w", err)
	}

	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}

	answer.Updated = now
	return nil
}

// DeleteAnswer removes the answer permanently. It reports false if no row matched.
func (r *AnswerRepo) DeleteAnswer(ctx context.Context, id int64) (bool, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM answers WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete answer: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return affected > 0, nil
}

// GetBackfillStats summarizes the first limit answers (all when limit <= 0) by id
func (r *AnswerRepo) GetBackfillStats(ctx context.Context, limit int) (BackfillStats, error) {
	if limit <= 0 {
		limit = -1
	}

	var stats BackfillStats
	err := r.db.QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			COALESCE(SUM(CASE WHEN period_id IS NOT NULL THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN month IS NOT NULL THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN year IS NOT NULL THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN period_id IS NOT NULL AND month IS NOT NULL AND year IS NOT NULL
			                  THEN 1 ELSE 0 END), 0)
		FROM (SELECT period_id, month, year FROM answers ORDER BY id LIMIT ?)
	`, limit).Scan(&stats.Total, &stats.WithPeriod, &stats.MonthPopulated, &stats.YearPopulated, &stats.Conflicts)
	if err != nil {
		return BackfillStats{}, fmt.Errorf("failed to get backfill stats: %w", err)
	}
	return stats, nil
}

// ListForBackfill returns the first limit answers by id with their legacy period loaded
func (r *AnswerRepo) ListForBackfill(ctx context.Context, limit int) ([]model.Answer, error) {
	if limit <= 0 {
		limit = -1
	}

	rows, err := r.db.QueryContext(ctx, answerSelect+` ORDER BY a.id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list answers for backfill: %w", err)
	}
	defer rows.Close()

	return collectAnswers(rows)
}

// SaveBackfill writes the backfilled month, year and status of answer
func (r *AnswerRepo) SaveBackfill(ctx context.Context, answer *model.Answer) error {
	now := r.now().UTC()

	_, err := r.db.ExecContext(ctx, `
		UPDATE answers
		SET month = ?, year = ?, status = ?, updated_at = ?
		WHERE id = ?
	`, nullInt(int(answer.Month)), nullInt(answer.Year), answer.Status, now, answer.ID)
	if err != nil {
		return fmt.Errorf("failed to save backfilled answer: %w", err)
	}

	answer.Updated = now
	return nil
}

func buildAnswerWhere(f AnswerFilter) (string, []any) {
	var clauses []string
	var args []any

	if f.Query != "" {
		clauses = append(clauses,
			"(instr(casefold(a.question), casefold(?)) > 0 OR instr(casefold(a.answer), casefold(?)) > 0)")
		args = append(args, f.Query, f.Query)
	}
	if f.CategoryID != 0 {
		clauses = append(clauses, "a.category_id = ?")
		args = append(args, f.CategoryID)
	}
	if f.Status != "" {
		clauses = append(clauses, "a.status = ?")
		args = append(args, f.Status)
	}
	if f.Year != 0 {
		clauses = append(clauses, "a.year = ?")
		args = append(args, f.Year)
	}
	if f.Month != 0 {
		clauses = append(clauses, "a.month = ?")
		args = append(args, f.Month)
	}
	if f.MonthFrom != 0 && f.MonthTo != 0 {
		clauses = append(clauses, "a.month BETWEEN ? AND ?")
		args = append(args, f.MonthFrom, f.MonthTo)
	}

	if len(clauses) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAnswer(row rowScanner) (*model.Answer, error) {
	var (
		answer     model.Answer
		category   model.Category
		month      int
		periodID   sql.NullInt64
		periodDate sql.NullTime
		actual     sql.NullBool
	)

	err := row.Scan(
		&answer.ID, &answer.Question, &answer.Answer, &answer.Note, &answer.URL, &answer.Tag,
		&month, &answer.Year, &answer.Status,
		&category.ID, &category.Name, &periodID, &periodDate, &actual,
		&answer.Created, &answer.Updated,
	)
	if err != nil {
		return nil, err
	}

	answer.Month = model.Month(month)
	answer.CategoryID = category.ID
	answer.Category = &category

	if periodID.Valid {
		id := periodID.Int64
		answer.PeriodID = &id
		answer.Period = &model.Period{ID: id}
		if periodDate.Valid {
			date := periodDate.Time
			answer.Period.Date = &date
		}
	}
	if actual.Valid {
		value := actual.Bool
		answer.Actual = &value
	}

	return &answer, nil
}

func collectAnswers(rows *sql.Rows) ([]model.Answer, error) {
	var answers []model.Answer
	for rows.Next() {
		answer, err := scanAnswer(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan answer row: %w", err)
		}
		answers = append(answers, *answer)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating answer rows: %w", err)
	}

	return answers, nil
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullInt(n int) any {
	if n == 0 {
		return nil
	}
	return n
}
