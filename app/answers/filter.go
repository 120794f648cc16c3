package answers

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/lysyi3m/moodlehack/app/database"
	"github.com/lysyi3m/moodlehack/app/model"
)

// Filter holds the listing query parameters. Zero values are inactive.
type Filter struct {
	Query    string
	Category int64
	Status   string
	Year     int
	Month    int
	Quarter  int
}

// ParseFilter reads q, category, status, year, month and quarter. Values that
// are not integers, and quarters outside 1-4, are ignored.
func ParseFilter(values url.Values) Filter {
	f := Filter{
		Query:  strings.TrimSpace(values.Get("q")),
		Status: strings.TrimSpace(values.Get("status")),
	}

	if id, err := strconv.ParseInt(values.Get("category"), 10, 64); err == nil && id > 0 {
		f.Category = id
	}
	if year, err := strconv.Atoi(values.Get("year")); err == nil && year > 0 {
		f.Year = year
	}
	if month, err := strconv.Atoi(values.Get("month")); err == nil && month > 0 {
		f.Month = month
	}
	if quarter, err := strconv.Atoi(values.Get("quarter")); err == nil {
		if _, _, ok := model.QuarterMonths(quarter); ok {
			f.Quarter = quarter
		}
	}

	return f
}

// Active reports whether any restriction is set.
func (f Filter) Active() bool {
	return f != Filter{}
}

func (f Filter) storage() database.AnswerFilter {
	out := database.AnswerFilter{
		Query:      f.Query,
		CategoryID: f.Category,
		Status:     f.Status,
		Year:       f.Year,
		Month:      f.Month,
	}
	if from, to, ok := model.QuarterMonths(f.Quarter); ok {
		out.MonthFrom = int(from)
		out.MonthTo = int(to)
	}
	return out
}
