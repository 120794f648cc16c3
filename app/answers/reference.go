package answers

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/lysyi3m/moodlehack/app/database"
	"github.com/lysyi3m/moodlehack/app/model"
)

func (s *Service) ListCategories(ctx context.Context, search string) ([]model.Category, error) {
	return s.categories.ListCategories(ctx, strings.TrimSpace(search))
}

func (s *Service) GetCategory(ctx context.Context, id int64) (*model.Category, error) {
	category, err := s.categories.GetCategory(ctx, id)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, &NotFoundError{Entity: "category", ID: id}
	}
	return category, nil
}

func (s *Service) CreateCategory(ctx context.Context, name string) (*model.Category, error) {
	name, err := validateCategoryName(name)
	if err != nil {
		return nil, err
	}

	category := &model.Category{Name: name}
	if err := s.categories.CreateCategory(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// RenameCategory changes the display name only; references keep pointing at
// the same row.
func (s *Service) RenameCategory(ctx context.Context, id int64, name string) (*model.Category, error) {
	name, err := validateCategoryName(name)
	if err != nil {
		return nil, err
	}

	category := &model.Category{ID: id, Name: name}
	if err := s.categories.UpdateCategory(ctx, category); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &NotFoundError{Entity: "category", ID: id}
		}
		return nil, err
	}
	return category, nil
}

// DeleteCategory refuses with ReferentialIntegrityError while any answer
// references the category.
func (s *Service) DeleteCategory(ctx context.Context, id int64) error {
	return s.protectedDelete(ctx, "category", id,
		s.categories.CountCategoryReferences, s.categories.DeleteCategory)
}

func (s *Service) ListPeriods(ctx context.Context) ([]model.Period, error) {
	return s.periods.ListPeriods(ctx)
}

func (s *Service) GetPeriod(ctx context.Context, id int64) (*model.Period, error) {
	period, err := s.periods.GetPeriod(ctx, id)
	if err != nil {
		return nil, err
	}
	if period == nil {
		return nil, &NotFoundError{Entity: "period", ID: id}
	}
	return period, nil
}

func (s *Service) CreatePeriod(ctx context.Context, date *time.Time) (*model.Period, error) {
	period := &model.Period{Date: date}
	if err := s.periods.CreatePeriod(ctx, period); err != nil {
		return nil, err
	}
	return period, nil
}

func (s *Service) UpdatePeriod(ctx context.Context, id int64, date *time.Time) (*model.Period, error) {
	period := &model.Period{ID: id, Date: date}
	if err := s.periods.UpdatePeriod(ctx, period); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &NotFoundError{Entity: "period", ID: id}
		}
		return nil, err
	}
	return s.GetPeriod(ctx, id)
}

func (s *Service) DeletePeriod(ctx context.Context, id int64) error {
	return s.protectedDelete(ctx, "period", id,
		s.periods.CountPeriodReferences, s.periods.DeletePeriod)
}

type (
	countFunc  func(ctx context.Context, id int64) (int, error)
	deleteFunc func(ctx context.Context, id int64) (bool, error)
)

func (s *Service) protectedDelete(ctx context.Context, entity string, id int64, count countFunc, del deleteFunc) error {
	refs, err := count(ctx, id)
	if err != nil {
		return err
	}
	if refs > 0 {
		return &ReferentialIntegrityError{Entity: entity, ID: id, References: refs}
	}

	deleted, err := del(ctx, id)
	if err != nil {
		// An answer was attached between the count and the delete.
		if database.IsForeignKeyViolation(err) {
			refs, _ = count(ctx, id)
			return &ReferentialIntegrityError{Entity: entity, ID: id, References: refs}
		}
		return fmt.Errorf("failed to delete %s: %w", entity, err)
	}
	if !deleted {
		return &NotFoundError{Entity: entity, ID: id}
	}
	return nil
}

func validateCategoryName(name string) (string, error) {
	name = strings.TrimSpace(name)
	verr := &ValidationError{}
	if name == "" {
		verr.Add("name", "This field is required.")
	} else if utf8.RuneCountInString(name) > model.CategoryNameMaxLength {
		verr.Add("name", "Ensure this value has at most %d characters.", model.CategoryNameMaxLength)
	}
	return name, verr.orNil()
}
