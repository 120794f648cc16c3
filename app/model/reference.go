package model

import (
	"time"

	"golang.org/x/text/message"
)

const CategoryNameMaxLength = 50

type Category struct {
	ID   int64
	Name string
}

// Period is a legacy month marker. Deprecated: answers carry Month and Year.
type Period struct {
	ID   int64
	Date *time.Time
}

// Display renders as "January - 2024".
func (p *Period) Display(printer *message.Printer) string {
	if p.Date == nil {
		return translate(printer, "Empty period")
	}
	return translate(printer, p.Date.Month().String()) + " - " + p.Date.Format("2006")
}

type User struct {
	ID           int64
	Username     string
	PasswordHash string
	IsActive     bool
	Created      time.Time
}
