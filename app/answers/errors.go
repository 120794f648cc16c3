package answers

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/message"
)

// FieldError is an untranslated field message; Message is a catalog key.
type FieldError struct {
	Message string
	Args    []any
}

func (e FieldError) Translate(p *message.Printer) string {
	if p == nil {
		return fmt.Sprintf(e.Message, e.Args...)
	}
	return p.Sprintf(e.Message, e.Args...)
}

// ValidationError collects per-field problems with submitted input.
type ValidationError struct {
	Fields map[string]FieldError
}

func (e *ValidationError) Add(field, msg string, args ...any) {
	if e.Fields == nil {
		e.Fields = make(map[string]FieldError)
	}
	if _, exists := e.Fields[field]; exists {
		return
	}
	e.Fields[field] = FieldError{Message: msg, Args: args}
}

func (e *ValidationError) Has(field string) bool {
	_, ok := e.Fields[field]
	return ok
}

// Messages returns field messages translated with p.
func (e *ValidationError) Messages(p *message.Printer) map[string]string {
	out := make(map[string]string, len(e.Fields))
	for field, fe := range e.Fields {
		out[field] = fe.Translate(p)
	}
	return out
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Fields))
	for field := range e.Fields {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, field+": "+e.Fields[field].Translate(nil))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// orNil lets validators build the error incrementally and return a nil error.
func (e *ValidationError) orNil() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}

type NotFoundError struct {
	Entity string
	ID     int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Entity, e.ID)
}

// ReferentialIntegrityError means a delete was refused because answers still
// reference the row.
type ReferentialIntegrityError struct {
	Entity     string
	ID         int64
	References int
}

func (e *ReferentialIntegrityError) Error() string {
	return fmt.Sprintf("cannot delete %s %d: referenced by %d answer(s)", e.Entity, e.ID, e.References)
}
