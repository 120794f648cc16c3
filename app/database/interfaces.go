package database

import (
	"context"

	"github.com/lysyi3m/moodlehack/app/model"
)

// AnswerFilter is the storage-level form of a listing query. Zero values
// mean "no restriction"; MonthFrom/MonthTo bound the month inclusively.
type AnswerFilter struct {
	Query      string
	CategoryID int64
	Status     string
	Year       int
	Month      int
	MonthFrom  int
	MonthTo    int
}

// BackfillStats describes the rows a backfill run is about to touch.
type BackfillStats struct {
	Total          int
	WithPeriod     int
	MonthPopulated int
	YearPopulated  int
	Conflicts      int
}

type AnswerRepository interface {
	GetAnswer(ctx context.Context, id int64) (*model.Answer, error)
	ListAnswers(ctx context.Context, filter AnswerFilter, limit, offset int) ([]model.Answer, error)
	CountAnswers(ctx context.Context, filter AnswerFilter) (int, error)
	QuestionExists(ctx context.Context, question string, excludeID int64) (bool, error)

	CreateAnswer(ctx context.Context, answer *model.Answer) error
	UpdateAnswer(ctx context.Context, answer *model.Answer) error
	DeleteAnswer(ctx context.Context, id int64) (bool, error)
}

type BackfillRepository interface {
	GetBackfillStats(ctx context.Context, limit int) (BackfillStats, error)
	ListForBackfill(ctx context.Context, limit int) ([]model.Answer, error)
	SaveBackfill(ctx context.Context, answer *model.Answer) error
}

type CategoryRepository interface {
	GetCategory(ctx context.Context, id int64) (*model.Category, error)
	ListCategories(ctx context.Context, search string) ([]model.Category, error)
	CreateCategory(ctx context.Context, category *model.Category) error
	UpdateCategory(ctx context.Context, category *model.Category) error
	DeleteCategory(ctx context.Context, id int64) (bool, error)
	CountCategoryReferences(ctx context.Context, id int64) (int, error)
}

type PeriodRepository interface {
	GetPeriod(ctx context.Context, id int64) (*model.Period, error)
	ListPeriods(ctx context.Context) ([]model.Period, error)
	CreatePeriod(ctx context.Context, period *model.Period) error
	UpdatePeriod(ctx context.Context, period *model.Period) error
	DeletePeriod(ctx context.Context, id int64) (bool, error)
	CountPeriodReferences(ctx context.Context, id int64) (int, error)
}

type UserRepository interface {
	GetUser(ctx context.Context, id int64) (*model.User, error)
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
	CreateUser(ctx context.Context, user *model.User) error
	SetPassword(ctx context.Context, id int64, passwordHash string) error
}
