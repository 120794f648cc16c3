package answers

import (
	"strconv"
)

// Ellipsis marks a collapsed run of pages in an elided page range.
const Ellipsis = 0

type Paginator struct {
	PerPage    int
	OnEachSide int
	OnEnds     int
}

// Page describes one page of a listing. Number is 1-based.
type Page struct {
	Number   int
	NumPages int
	Count    int
	PerPage  int
	Range    []int
}

func (p Page) Offset() int {
	return (p.Number - 1) * p.PerPage
}

func (p Page) HasPrevious() bool { return p.Number > 1 }
func (p Page) HasNext() bool     { return p.Number < p.NumPages }
func (p Page) HasOtherPages() bool {
	return p.HasPrevious() || p.HasNext()
}
func (p Page) PreviousNumber() int { return p.Number - 1 }
func (p Page) NextNumber() int     { return p.Number + 1 }

// StartIndex is the 1-based index of the first item on the page.
func (p Page) StartIndex() int {
	if p.Count == 0 {
		return 0
	}
	return p.Offset() + 1
}

func (p Page) EndIndex() int {
	if p.Number == p.NumPages {
		return p.Count
	}
	return p.Number * p.PerPage
}

// Page resolves raw ("" for the first page, a number, or "last") against
// count items. An unparsable or out-of-range page is a NotFoundError.
func (pg Paginator) Page(count int, raw string) (Page, error) {
	perPage := pg.PerPage
	if perPage <= 0 {
		perPage = 24
	}

	numPages := 1
	if count > 0 {
		numPages = (count + perPage - 1) / perPage
	}

	number := 1
	switch raw {
	case "":
	case "last":
		number = numPages
	default:
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > numPages {
			return Page{}, &NotFoundError{Entity: "page", ID: int64(n)}
		}
		number = n
	}

	return Page{
		Number:   number,
		NumPages: numPages,
		Count:    count,
		PerPage:  perPage,
		Range:    ElidedPageRange(number, numPages, pg.OnEachSide, pg.OnEnds),
	}, nil
}

// ElidedPageRange lists page numbers around number, keeping onEnds pages at
// both ends and onEachSide pages next to number. Gaps are Ellipsis.
func ElidedPageRange(number, numPages, onEachSide, onEnds int) []int {
	if numPages <= (onEachSide+onEnds)*2 {
		return pageSpan(1, numPages)
	}

	var out []int
	if number > 1+onEachSide+onEnds+1 {
		out = append(out, pageSpan(1, onEnds)...)
		out = append(out, Ellipsis)
		out = append(out, pageSpan(number-onEachSide, number)...)
	} else {
		out = append(out, pageSpan(1, number)...)
	}

	if number < numPages-onEachSide-onEnds-1 {
		out = append(out, pageSpan(number+1, number+onEachSide)...)
		out = append(out, Ellipsis)
		out = append(out, pageSpan(numPages-onEnds+1, numPages)...)
	} else {
		out = append(out, pageSpan(number+1, numPages)...)
	}

	return out
}

func pageSpan(from, to int) []int {
	if to < from {
		return nil
	}
	out := make([]int, 0, to-from+1)
	for i := from; i <= to; i++ {
		out = append(out, i)
	}
	return out
}
