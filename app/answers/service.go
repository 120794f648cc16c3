package answers

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/lysyi3m/moodlehack/app/database"
	"github.com/lysyi3m/moodlehack/app/model"
)

const (
	urlMaxLength = 200
	tagMaxLength = 50
)

// Input carries the writable fields of an answer as submitted by a form or
// the API. Server-managed timestamps are not part of it.
type Input struct {
	Question string
	Answer   string
	Note     string
	URL      string
	Tag      string
	Category int64
	Status   string
	Month    int
	Year     int

	// Deprecated legacy fields, still writable for compatibility.
	Period *int64
	Actual *bool
}

// FromAnswer returns the input that would reproduce a.
func FromAnswer(a *model.Answer) Input {
	return Input{
		Question: a.Question,
		Answer:   a.Answer,
		Note:     a.Note,
		URL:      a.URL,
		Tag:      a.Tag,
		Category: a.CategoryID,
		Status:   a.Status.String(),
		Month:    int(a.Month),
		Year:     a.Year,
		Period:   a.PeriodID,
		Actual:   a.Actual,
	}
}

// ListResult is one page of a filtered listing.
type ListResult struct {
	Answers []model.Answer
	Page    Page
}

type Service struct {
	answers    database.AnswerRepository
	categories database.CategoryRepository
	periods    database.PeriodRepository
	paginator  Paginator
	now        func() time.Time
}

func NewService(
	answers database.AnswerRepository,
	categories database.CategoryRepository,
	periods database.PeriodRepository,
	paginator Paginator,
) *Service {
	return &Service{
		answers:    answers,
		categories: categories,
		periods:    periods,
		paginator:  paginator,
		now:        time.Now,
	}
}

// List returns the requested page of answers matching filter, newest first.
func (s *Service) List(ctx context.Context, filter Filter, page string) (*ListResult, error) {
	storageFilter := filter.storage()

	count, err := s.answers.CountAnswers(ctx, storageFilter)
	if err != nil {
		return nil, err
	}

	p, err := s.paginator.Page(count, page)
	if err != nil {
		return nil, err
	}

	list, err := s.answers.ListAnswers(ctx, storageFilter, p.PerPage, p.Offset())
	if err != nil {
		return nil, err
	}

	return &ListResult{Answers: list, Page: p}, nil
}

// Recent returns up to limit answers in listing order.
func (s *Service) Recent(ctx context.Context, limit int) ([]model.Answer, error) {
	return s.answers.ListAnswers(ctx, database.AnswerFilter{}, limit, 0)
}

func (s *Service) Count(ctx context.Context) (int, error) {
	return s.answers.CountAnswers(ctx, database.AnswerFilter{})
}

func (s *Service) Get(ctx context.Context, id int64) (*model.Answer, error) {
	answer, err := s.answers.GetAnswer(ctx, id)
	if err != nil {
		return nil, err
	}
	if answer == nil {
		return nil, &NotFoundError{Entity: "answer", ID: id}
	}
	return answer, nil
}

// QuestionExists reports whether an answer other than excludeID already has
// question, ignoring case and surrounding whitespace. It is advisory only:
// the storage constraint is what guarantees uniqueness.
func (s *Service) QuestionExists(ctx context.Context, question string, excludeID int64) (bool, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return false, nil
	}
	return s.answers.QuestionExists(ctx, question, excludeID)
}

// Create validates in and stores a new answer. Month and year default to the
// current date and status to actual when left empty.
func (s *Service) Create(ctx context.Context, in Input) (*model.Answer, error) {
	now := s.now()
	if in.Month == 0 {
		in.Month = int(now.Month())
	}
	if in.Year == 0 {
		in.Year = now.Year()
	}
	if in.Status == "" {
		in.Status = model.StatusActual.String()
	}

	answer := &model.Answer{}
	if err := s.apply(ctx, answer, in, 0); err != nil {
		return nil, err
	}

	if err := s.answers.CreateAnswer(ctx, answer); err != nil {
		return nil, s.storageError(err)
	}

	slog.Info("Answer created", "id", answer.ID, "category_id", answer.CategoryID)
	return answer, nil
}

// Update replaces every writable field of answer id with in.
func (s *Service) Update(ctx context.Context, id int64, in Input) (*model.Answer, error) {
	answer, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.apply(ctx, answer, in, id); err != nil {
		return nil, err
	}

	if err := s.answers.UpdateAnswer(ctx, answer); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &NotFoundError{Entity: "answer", ID: id}
		}
		return nil, s.storageError(err)
	}

	slog.Info("Answer updated", "id", answer.ID)
	return s.Get(ctx, id)
}

// Delete removes answer id permanently.
func (s *Service) Delete(ctx context.Context, id int64) error {
	deleted, err := s.answers.DeleteAnswer(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return &NotFoundError{Entity: "answer", ID: id}
	}

	slog.Info("Answer deleted", "id", id)
	return nil
}

// apply validates in and copies it onto answer. excludeID is the answer being
// edited, zero when creating.
func (s *Service) apply(ctx context.Context, answer *model.Answer, in Input, excludeID int64) error {
	verr := &ValidationError{}

	question := strings.TrimSpace(in.Question)
	if question == "" {
		verr.Add("question", "This field is required.")
	}

	text := strings.TrimSpace(in.Answer)
	if text == "" {
		verr.Add("answer", "This field is required.")
	}

	rawURL := strings.TrimSpace(in.URL)
	if rawURL != "" {
		if utf8.RuneCountInString(rawURL) > urlMaxLength {
			verr.Add("url", "Ensure this value has at most %d characters.", urlMaxLength)
		} else if !validURL(rawURL) {
			verr.Add("url", "Enter a valid URL.")
		}
	}

	tag := strings.TrimSpace(in.Tag)
	if utf8.RuneCountInString(tag) > tagMaxLength {
		verr.Add("tag", "Ensure this value has at most %d characters.", tagMaxLength)
	}

	month := model.Month(in.Month)
	if in.Month == 0 {
		verr.Add("month", "This field is required.")
	} else if !month.Valid() {
		verr.Add("month", "Select a valid month.")
	}

	if in.Year == 0 {
		verr.Add("year", "This field is required.")
	} else if in.Year < model.MinYear || in.Year > model.MaxYear {
		verr.Add("year", "Select a year between %d and %d.", model.MinYear, model.MaxYear)
	}

	var status model.Status
	if in.Status == "" {
		verr.Add("status", "This field is required.")
	} else if parsed, err := model.ParseStatus(in.Status); err != nil {
		verr.Add("status", "Select a valid status.")
	} else {
		status = parsed
	}

	var category *model.Category
	if in.Category == 0 {
		verr.Add("category", "This field is required.")
	} else {
		c, err := s.categories.GetCategory(ctx, in.Category)
		if err != nil {
			return err
		}
		if c == nil {
			verr.Add("category", "Select a valid category.")
		}
		category = c
	}

	var period *model.Period
	if in.Period != nil {
		p, err := s.periods.GetPeriod(ctx, *in.Period)
		if err != nil {
			return err
		}
		if p == nil {
			verr.Add("period", "Select a valid period.")
		}
		period = p
	}

	if question != "" && !verr.Has("question") {
		exists, err := s.answers.QuestionExists(ctx, question, excludeID)
		if err != nil {
			return err
		}
		if exists {
			verr.Add("question", "Answer with this question already exists.")
		}
	}

	if err := verr.orNil(); err != nil {
		return err
	}

	answer.Question = question
	answer.Answer = text
	answer.Note = strings.TrimSpace(in.Note)
	answer.URL = rawURL
	answer.Tag = tag
	answer.Month = month
	answer.Year = in.Year
	answer.Status = status
	answer.CategoryID = category.ID
	answer.Category = category
	answer.PeriodID = in.Period
	answer.Period = period
	answer.Actual = in.Actual
	return nil
}

// storageError maps constraint failures that slipped past validation (a
// concurrent writer) onto field errors.
func (s *Service) storageError(err error) error {
	switch {
	case database.IsUniqueViolation(err):
		verr := &ValidationError{}
		verr.Add("question", "Answer with this question already exists.")
		return verr
	case database.IsForeignKeyViolation(err):
		verr := &ValidationError{}
		verr.Add("category", "Select a valid category.")
		return verr
	default:
		return fmt.Errorf("failed to save answer: %w", err)
	}
}

func validURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
