package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lysyi3m/moodlehack/app/model"
)

var _ CategoryRepository = (*CategoryRepo)(nil)

// CategoryRepo handles database operations for categories
type CategoryRepo struct {
	db *DB
}

// NewCategoryRepository creates a new category repository
func NewCategoryRepository(db *DB) *CategoryRepo {
	return &CategoryRepo{db: db}
}

func (r *CategoryRepo) GetCategory(ctx context.Context, id int64) (*model.Category, error) {
	var category model.Category
	err := r.db.QueryRowContext(ctx, `SELECT id, name FROM categories WHERE id = ?`, id).
		Scan(&category.ID, &category.Name)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	return &category, nil
}

// ListCategories returns categories ordered by name. A non-empty search
// keeps only names containing it, case-insensitively.
func (r *CategoryRepo) ListCategories(ctx context.Context, search string) ([]model.Category, error) {
	query := `SELECT id, name FROM categories`
	var args []any
	if search != "" {
		query += ` WHERE instr(casefold(name), casefold(?)) > 0`
		args = append(args, search)
	}
	query += ` ORDER BY name, id`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	var categories []model.Category
	for rows.Next() {
		var category model.Category
		if err := rows.Scan(&category.ID, &category.Name); err != nil {
			return nil, fmt.Errorf("failed to scan category row: %w", err)
		}
		categories = append(categories, category)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating category rows: %w", err)
	}

	return categories, nil
}

func (r *CategoryRepo) CreateCategory(ctx context.Context, category *model.Category) error {
	result, err := r.db.ExecContext(ctx, `INSERT INTO categories (name) VALUES (?)`, category.Name)
	if err != nil {
		return fmt.Errorf("failed to create category: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read category id: %w", err)
	}
	category.ID = id
	return nil
}

func (r *CategoryRepo) UpdateCategory(ctx context.Context, category *model.Category) error {
	result, err := r.db.ExecContext(ctx, `UPDATE categories SET name = ? WHERE id = ?`, category.Name, category.ID)
	if err != nil {
		return fmt.Errorf("failed to update category: %w", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// DeleteCategory removes the category. The foreign key on answers refuses
// the delete while the category is referenced.
func (r *CategoryRepo) DeleteCategory(ctx context.Context, id int64) (bool, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete category: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return affected > 0, nil
}

func (r *CategoryRepo) CountCategoryReferences(ctx context.Context, id int64) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM answers WHERE category_id = ?`, id).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count category references: %w", err)
	}
	return count, nil
}
