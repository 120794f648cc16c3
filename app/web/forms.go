package web

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/text/message"

	"github.com/lysyi3m/moodlehack/app/answers"
	"github.com/lysyi3m/moodlehack/app/model"
)

// answerForm holds the submitted or initial values of the answer form and
// the errors to show next to each field.
type answerForm struct {
	ID       int64
	Question string
	Answer   string
	Note     string
	URL      string
	Tag      string
	Category string
	Status   string
	Month    string
	Year     string
	Errors   map[string]string
}

func newAnswerForm(in answers.Input) answerForm {
	f := answerForm{
		Question: in.Question,
		Answer:   in.Answer,
		Note:     in.Note,
		URL:      in.URL,
		Tag:      in.Tag,
		Status:   in.Status,
	}
	if in.Category != 0 {
		f.Category = strconv.FormatInt(in.Category, 10)
	}
	if in.Month != 0 {
		f.Month = strconv.Itoa(in.Month)
	}
	if in.Year != 0 {
		f.Year = strconv.Itoa(in.Year)
	}
	return f
}

func bindAnswerForm(c *gin.Context) answerForm {
	return answerForm{
		Question: c.PostForm("question"),
		Answer:   c.PostForm("answer"),
		Note:     c.PostForm("note"),
		URL:      c.PostForm("url"),
		Tag:      c.PostForm("tag"),
		Category: strings.TrimSpace(c.PostForm("category")),
		Status:   strings.TrimSpace(c.PostForm("status")),
		Month:    strings.TrimSpace(c.PostForm("month")),
		Year:     strings.TrimSpace(c.PostForm("year")),
	}
}

// input converts the form to service input. Non-numeric choices become -1
// so the service reports them as invalid rather than missing.
func (f answerForm) input(base answers.Input) answers.Input {
	base.Question = f.Question
	base.Answer = f.Answer
	base.Note = f.Note
	base.URL = f.URL
	base.Tag = f.Tag
	base.Status = f.Status
	base.Category = int64(formInt(f.Category))
	base.Month = formInt(f.Month)
	base.Year = formInt(f.Year)
	return base
}

func formInt(raw string) int {
	if raw == "" {
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return -1
	}
	return n
}

type option struct {
	Value    string
	Label    string
	Selected bool
}

func monthOptions(p *message.Printer, selected string) []option {
	out := make([]option, 0, 12)
	for _, m := range model.Months() {
		value := strconv.Itoa(int(m))
		out = append(out, option{Value: value, Label: p.Sprintf(m.Name()), Selected: value == selected})
	}
	return out
}

func yearOptions(selected string) []option {
	years := model.Years()
	out := make([]option, 0, len(years))
	for i := len(years) - 1; i >= 0; i-- {
		value := strconv.Itoa(years[i])
		out = append(out, option{Value: value, Label: value, Selected: value == selected})
	}
	return out
}

func statusOptions(p *message.Printer, selected string) []option {
	statuses := model.Statuses()
	out := make([]option, 0, len(statuses))
	for _, s := range statuses {
		out = append(out, option{Value: s.String(), Label: p.Sprintf(s.Label()), Selected: s.String() == selected})
	}
	return out
}

func categoryOptions(categories []model.Category, selected string) []option {
	out := make([]option, 0, len(categories))
	for _, c := range categories {
		value := strconv.FormatInt(c.ID, 10)
		out = append(out, option{Value: value, Label: c.Name, Selected: value == selected})
	}
	return out
}

func quarterOptions(selected string) []option {
	out := make([]option, 0, 4)
	for q := 1; q <= 4; q++ {
		value := strconv.Itoa(q)
		out = append(out, option{Value: value, Label: "Q" + value, Selected: value == selected})
	}
	return out
}
