package model

import (
	"database/sql/driver"
	"fmt"
)

// Status is the relevance state of an answer.
type Status uint8

const (
	StatusActual Status = iota
	StatusOutdated
	StatusDraft
	StatusReview
	StatusUnknown

	statusCount
)

type statusMeta struct {
	code  string
	label string
	color string
}

// Order follows the Status constants. Labels are catalog keys, see app/i18n.
var statusInfo = [...]statusMeta{
	{code: "actual", label: "Actual", color: "success"},
	{code: "outdated", label: "Outdated", color: "secondary"},
	{code: "draft", label: "Draft", color: "info"},
	{code: "review", label: "Under review", color: "warning"},
	{code: "unknown", label: "Unknown", color: "dark"},
}

// A Status constant without a statusInfo entry (or the reverse) does not compile.
var (
	_ [int(statusCount) - len(statusInfo)]struct{}
	_ [len(statusInfo) - int(statusCount)]struct{}
)

// Statuses returns every status in declaration order.
func Statuses() []Status {
	out := make([]Status, 0, statusCount)
	for s := StatusActual; s < statusCount; s++ {
		out = append(out, s)
	}
	return out
}

// ParseStatus maps a stored code ("actual", "draft", ...) to a Status.
func ParseStatus(code string) (Status, error) {
	for i, meta := range statusInfo {
		if meta.code == code {
			return Status(i), nil
		}
	}
	return 0, fmt.Errorf("invalid status %q", code)
}

func (s Status) Valid() bool {
	return s < statusCount
}

func (s Status) String() string {
	if !s.Valid() {
		return fmt.Sprintf("Status(%d)", uint8(s))
	}
	return statusInfo[s].code
}

// Label is the untranslated display name.
func (s Status) Label() string {
	if !s.Valid() {
		return ""
	}
	return statusInfo[s].label
}

// Color is a presentation hint (bootstrap contextual class suffix).
func (s Status) Color() string {
	if !s.Valid() {
		return "secondary"
	}
	return statusInfo[s].color
}

func (s Status) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid status %d", uint8(s))
	}
	return []byte(s.String()), nil
}

func (s *Status) UnmarshalText(text []byte) error {
	parsed, err := ParseStatus(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

func (s Status) Value() (driver.Value, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid status %d", uint8(s))
	}
	return s.String(), nil
}

func (s *Status) Scan(src any) error {
	switch v := src.(type) {
	case string:
		return s.UnmarshalText([]byte(v))
	case []byte:
		return s.UnmarshalText(v)
	case nil:
		*s = StatusActual
		return nil
	default:
		return fmt.Errorf("cannot scan %T into Status", src)
	}
}
