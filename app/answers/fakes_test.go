package answers

import (
	"context"
	"database/sql"
	"strings"

	"github.com/lysyi3m/moodlehack/app/database"
	"github.com/lysyi3m/moodlehack/app/model"
)

type fakeAnswerRepo struct {
	answers    map[int64]*model.Answer
	nextID     int64
	lastFilter database.AnswerFilter
	lastLimit  int
	lastOffset int
	createErr  error
}

func newFakeAnswerRepo() *fakeAnswerRepo {
	return &fakeAnswerRepo{answers: make(map[int64]*model.Answer)}
}

func (r *fakeAnswerRepo) GetAnswer(ctx context.Context, id int64) (*model.Answer, error) {
	a, ok := r.answers[id]
	if !ok {
		return nil, nil
	}
	c := *a
	return &c, nil
}

func (r *fakeAnswerRepo) ListAnswers(ctx context.Context, filter database.AnswerFilter, limit, offset int) ([]model.Answer, error) {
	r.lastFilter, r.lastLimit, r.lastOffset = filter, limit, offset
	var out []model.Answer
	for _, a := range r.answers {
		out = append(out, *a)
	}
	return out, nil
}

func (r *fakeAnswerRepo) CountAnswers(ctx context.Context, filter database.AnswerFilter) (int, error) {
	r.lastFilter = filter
	return len(r.answers), nil
}

func (r *fakeAnswerRepo) QuestionExists(ctx context.Context, question string, excludeID int64) (bool, error) {
	for id, a := range r.answers {
		if id != excludeID && strings.EqualFold(a.Question, question) {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeAnswerRepo) CreateAnswer(ctx context.Context, answer *model.Answer) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.nextID++
	answer.ID = r.nextID
	c := *answer
	r.answers[answer.ID] = &c
	return nil
}

func (r *fakeAnswerRepo) UpdateAnswer(ctx context.Context, answer *model.Answer) error {
	if _, ok := r.answers[answer.ID]; !ok {
		return sql.ErrNoRows
	}
	c := *answer
	r.answers[answer.ID] = &c
	return nil
}

func (r *fakeAnswerRepo) DeleteAnswer(ctx context.Context, id int64) (bool, error) {
	if _, ok := r.answers[id]; !ok {
		return false, nil
	}
	delete(r.answers, id)
	return true, nil
}

type fakeCategoryRepo struct {
	categories map[int64]*model.Category
	refs       map[int64]int
}

func newFakeCategoryRepo(categories ...model.Category) *fakeCategoryRepo {
	r := &fakeCategoryRepo{categories: make(map[int64]*model.Category), refs: make(map[int64]int)}
	for i := range categories {
		r.categories[categories[i].ID] = &categories[i]
	}
	return r
}

func (r *fakeCategoryRepo) GetCategory(ctx context.Context, id int64) (*model.Category, error) {
	c, ok := r.categories[id]
	if !ok {
		return nil, nil
	}
	return c, nil
}

func (r *fakeCategoryRepo) ListCategories(ctx context.Context, search string) ([]model.Category, error) {
	var out []model.Category
	for _, c := range r.categories {
		if strings.Contains(strings.ToLower(c.Name), strings.ToLower(search)) {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *fakeCategoryRepo) CreateCategory(ctx context.Context, category *model.Category) error {
	category.ID = int64(len(r.categories) + 100)
	r.categories[category.ID] = category
	return nil
}

func (r *fakeCategoryRepo) UpdateCategory(ctx context.Context, category *model.Category) error {
	if _, ok := r.categories[category.ID]; !ok {
		return sql.ErrNoRows
	}
	r.categories[category.ID] = category
	return nil
}

func (r *fakeCategoryRepo) DeleteCategory(ctx context.Context, id int64) (bool, error) {
	if _, ok := r.categories[id]; !ok {
		return false, nil
	}
	delete(r.categories, id)
	return true, nil
}

func (r *fakeCategoryRepo) CountCategoryReferences(ctx context.Context, id int64) (int, error) {
	return r.refs[id], nil
}

type fakePeriodRepo struct {
	periods map[int64]*model.Period
	refs    map[int64]int
}

func newFakePeriodRepo(periods ...model.Period) *fakePeriodRepo {
	r := &fakePeriodRepo{periods: make(map[int64]*model.Period), refs: make(map[int64]int)}
	for i := range periods {
		r.periods[periods[i].ID] = &periods[i]
	}
	return r
}

func (r *fakePeriodRepo) GetPeriod(ctx context.Context, id int64) (*model.Period, error) {
	p, ok := r.periods[id]
	if !ok {
		return nil, nil
	}
	return p, nil
}

func (r *fakePeriodRepo) ListPeriods(ctx context.Context) ([]model.Period, error) {
	var out []model.Period
	for _, p := range r.periods {
		out = append(out, *p)
	}
	return out, nil
}

func (r *fakePeriodRepo) CreatePeriod(ctx context.Context, period *model.Period) error {
	period.ID = int64(len(r.periods) + 1)
	r.periods[period.ID] = period
	return nil
}

func (r *fakePeriodRepo) UpdatePeriod(ctx context.Context, period *model.Period) error {
	if _, ok := r.periods[period.ID]; !ok {
		return sql.ErrNoRows
	}
	r.periods[period.ID] = period
	return nil
}

func (r *fakePeriodRepo) DeletePeriod(ctx context.Context, id int64) (bool, error) {
	if _, ok := r.periods[id]; !ok {
		return false, nil
	}
	delete(r.periods, id)
	return true, nil
}

func (r *fakePeriodRepo) CountPeriodReferences(ctx context.Context, id int64) (int, error) {
	return r.refs[id], nil
}
