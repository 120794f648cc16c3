package model

import (
	"fmt"
	"time"

	"golang.org/x/text/message"
)

// Supported range for Answer.Year.
const (
	MinYear = 2023
	MaxYear = 2033
)

// Years returns every selectable year, ascending.
func Years() []int {
	years := make([]int, 0, MaxYear-MinYear+1)
	for y := MinYear; y <= MaxYear; y++ {
		years = append(years, y)
	}
	return years
}

// Month is a calendar month, 1-12. Zero means "not set" and only occurs on
// legacy rows that have not been backfilled yet.
type Month int

func (m Month) Valid() bool {
	return m >= 1 && m <= 12
}

// Quarter returns 1-4, or 0 for an invalid month.
func (m Month) Quarter() int {
	if !m.Valid() {
		return 0
	}
	return (int(m)-1)/3 + 1
}

// Name is the untranslated English month name, used as a catalog key.
func (m Month) Name() string {
	if !m.Valid() {
		return ""
	}
	return time.Month(m).String()
}

// Months returns January..December.
func Months() []Month {
	months := make([]Month, 12)
	for i := range months {
		months[i] = Month(i + 1)
	}
	return months
}

// QuarterMonths returns the inclusive month range covered by quarter q.
func QuarterMonths(q int) (Month, Month, bool) {
	if q < 1 || q > 4 {
		return 0, 0, false
	}
	return Month((q-1)*3 + 1), Month(q * 3), true
}

type Answer struct {
	ID       int64
	Question string
	Answer   string
	Note     string
	URL      string
	Tag      string
	Month    Month
	Year     int
	Status   Status

	CategoryID int64
	Category   *Category

	// Deprecated: superseded by Month and Year.
	PeriodID *int64
	Period   *Period
	// Deprecated: superseded by Status.
	Actual *bool

	Created time.Time
	Updated time.Time
}

// PeriodCode is a monotonic sort key, e.g. 202601 for January 2026.
func (a *Answer) PeriodCode() int {
	return a.Year*100 + int(a.Month)
}

func (a *Answer) Quarter() int {
	return a.Month.Quarter()
}

// QuarterDisplay renders as "2026 Q1", or "" before the month and year are set.
func (a *Answer) QuarterDisplay() string {
	if a.Year == 0 || !a.Month.Valid() {
		return ""
	}
	return fmt.Sprintf("%d Q%d", a.Year, a.Quarter())
}

func (a *Answer) IsActual() bool {
	return a.Status == StatusActual
}

func (a *Answer) StatusColor() string {
	return a.Status.Color()
}

func (a *Answer) MonthDisplay(p *message.Printer) string {
	return translate(p, a.Month.Name())
}

// PeriodDisplay renders as "January 2026" in the printer's language.
func (a *Answer) PeriodDisplay(p *message.Printer) string {
	if a.Year == 0 {
		return ""
	}
	if !a.Month.Valid() {
		return fmt.Sprintf("%d", a.Year)
	}
	return fmt.Sprintf("%s %d", a.MonthDisplay(p), a.Year)
}

func (a *Answer) StatusDisplay(p *message.Printer) string {
	return translate(p, a.Status.Label())
}

func translate(p *message.Printer, key string) string {
	if p == nil || key == "" {
		return key
	}
	return p.Sprintf(key)
}
