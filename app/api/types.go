package api

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/lysyi3m/moodlehack/app/model"
)

// Field lists are declared here explicitly, one struct per resource and
// direction. Output structs carry every read-only field; payload structs
// only the writable ones, so anything else a client sends is ignored.

type categoryResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type categoryPayload struct {
	Name *string `json:"name"`
}

// Deprecated resource: answers carry month and year.
type periodResponse struct {
	ID     int64   `json:"id"`
	Period *string `json:"period"`
}

type periodPayload struct {
	Period nullable[string] `json:"period"`
}

type answerResponse struct {
	ID       int64        `json:"id"`
	Question string       `json:"question"`
	Answer   string       `json:"answer"`
	Note     string       `json:"note"`
	URL      string       `json:"url"`
	Tag      string       `json:"tag"`
	Status   model.Status `json:"status"`
	Month    *int         `json:"month"`
	Year     *int         `json:"year"`
	Category int64        `json:"category"`

	PeriodDisplay  string `json:"period_display"`
	MonthDisplay   string `json:"month_display"`
	Quarter        int    `json:"quarter"`
	QuarterDisplay string `json:"quarter_display"`
	StatusDisplay  string `json:"status_display"`

	Create time.Time `json:"create"`
	Update time.Time `json:"update"`

	Period *int64 `json:"period"`
	Actual *bool  `json:"actual"`
}

type answerPayload struct {
	Question *string `json:"question"`
	Answer   *string `json:"answer"`
	Note     *string `json:"note"`
	URL      *string `json:"url"`
	Tag      *string `json:"tag"`
	Status   *string `json:"status"`
	Month    *int    `json:"month"`
	Year     *int    `json:"year"`
	Category *int64  `json:"category"`

	Period nullable[int64] `json:"period"`
	Actual nullable[bool]  `json:"actual"`
}

type listResponse[T any] struct {
	Count    int `json:"count"`
	Page     int `json:"page"`
	NumPages int `json:"num_pages"`
	Results  []T `json:"results"`
}

type tokenPayload struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

// nullable distinguishes an absent key (Set false) from an explicit null
// (Set true, Value nil).
type nullable[T any] struct {
	Set   bool
	Value *T
}

func (n *nullable[T]) UnmarshalJSON(data []byte) error {
	n.Set = true
	if bytes.Equal(data, []byte("null")) {
		n.Value = nil
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	n.Value = &v
	return nil
}
