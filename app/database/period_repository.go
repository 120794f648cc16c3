package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lysyi3m/moodlehack/app/model"
)

var _ PeriodRepository = (*PeriodRepo)(nil)

// PeriodRepo handles database operations for legacy periods
type PeriodRepo struct {
	db *DB
}

// NewPeriodRepository creates a new period repository
func NewPeriodRepository(db *DB) *PeriodRepo {
	return &PeriodRepo{db: db}
}

func (r *PeriodRepo) GetPeriod(ctx context.Context, id int64) (*model.Period, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, period FROM periods WHERE id = ?`, id)
	period, err := scanPeriod(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get period: %w", err)
	}
	return period, nil
}

// ListPeriods returns periods with the latest date first and empty periods last
func (r *PeriodRepo) ListPeriods(ctx context.Context) ([]model.Period, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, period FROM periods
		ORDER BY period IS NULL, period DESC, id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list periods: %w", err)
	}
	defer rows.Close()

	var periods []model.Period
	for rows.Next() {
		period, err := scanPeriod(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan period row: %w", err)
		}
		periods = append(periods, *period)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating period rows: %w", err)
	}

	return periods, nil
}

func (r *PeriodRepo) CreatePeriod(ctx context.Context, period *model.Period) error {
	result, err := r.db.ExecContext(ctx, `INSERT INTO periods (period) VALUES (?)`, periodDate(period))
	if err != nil {
		return fmt.Errorf("failed to create period: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read period id: %w", err)
	}
	period.ID = id
	return nil
}

func (r *PeriodRepo) UpdatePeriod(ctx context.Context, period *model.Period) error {
	result, err := r.db.ExecContext(ctx, `UPDATE periods SET period = ? WHERE id = ?`, periodDate(period), period.ID)
	if err != nil {
		return fmt.Errorf("failed to update period: %w", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *PeriodRepo) DeletePeriod(ctx context.Context, id int64) (bool, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM periods WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete period: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return affected > 0, nil
}

func (r *PeriodRepo) CountPeriodReferences(ctx context.Context, id int64) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM answers WHERE period_id = ?`, id).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count period references: %w", err)
	}
	return count, nil
}

func scanPeriod(row rowScanner) (*model.Period, error) {
	var period model.Period
	var date sql.NullTime
	if err := row.Scan(&period.ID, &date); err != nil {
		return nil, err
	}
	if date.Valid {
		d := date.Time
		period.Date = &d
	}
	return &period, nil
}

// periodDate normalizes the stored value to midnight UTC of the given day.
func periodDate(period *model.Period) any {
	if period.Date == nil {
		return nil
	}
	y, m, d := period.Date.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
