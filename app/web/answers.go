package web

import (
	"errors"
	"fmt"
	"html"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/lysyi3m/moodlehack/app/answers"
	"github.com/lysyi3m/moodlehack/app/model"
)

// Index lists answers. HTMX requests get only the results fragment.
func (h *Handler) Index(c *gin.Context) {
	ctx := c.Request.Context()
	query := c.Request.URL.Query()
	filter := answers.ParseFilter(query)

	result, err := h.answers.List(ctx, filter, c.Query("page"))
	if err != nil {
		h.fail(c, err)
		return
	}

	views := make([]answerView, 0, len(result.Answers))
	for i := range result.Answers {
		views = append(views, h.newAnswerView(ctx, &result.Answers[i]))
	}

	data := gin.H{
		"Title":   h.translate("Answers"),
		"Answers": views,
		"Page":    result.Page,
		"Query":   query,
		"Filter":  filter,
	}

	// The fragment carries no toasts, so flashes stay queued.
	if c.GetHeader("HX-Request") != "" {
		c.HTML(http.StatusOK, "answers_list", data)
		return
	}

	categories, err := h.answers.ListCategories(ctx, "")
	if err != nil {
		h.serverError(c, err)
		return
	}

	data["Categories"] = categoryOptions(categories, query.Get("category"))
	data["Statuses"] = statusOptions(h.printer, filter.Status)
	data["Months"] = monthOptions(h.printer, query.Get("month"))
	data["Years"] = yearOptions(query.Get("year"))
	data["Quarters"] = quarterOptions(query.Get("quarter"))

	h.render(c, http.StatusOK, "index", data)
}

func (h *Handler) ShowAnswer(c *gin.Context) {
	answer, ok := h.loadAnswer(c)
	if !ok {
		return
	}

	h.render(c, http.StatusOK, "detail", gin.H{
		"Title":  h.translate("View answer #%d", answer.ID),
		"Answer": h.newAnswerView(c.Request.Context(), answer),
	})
}

// NewAnswer shows an empty form preset to the current month, year and the
// actual status.
func (h *Handler) NewAnswer(c *gin.Context) {
	now := h.now()
	form := newAnswerForm(answers.Input{
		Status: model.StatusActual.String(),
		Month:  int(now.Month()),
		Year:   now.Year(),
	})
	h.renderForm(c, http.StatusOK, form)
}

func (h *Handler) CreateAnswer(c *gin.Context) {
	form := bindAnswerForm(c)

	answer, err := h.answers.Create(c.Request.Context(), form.input(answers.Input{}))
	if err != nil {
		h.formError(c, form, err)
		return
	}

	h.addFlash(c, FlashSuccess, h.translate("Answer #%d successfully created!", answer.ID))

	switch {
	case hasKey(c, "save_and_add"):
		c.Redirect(http.StatusFound, "/answers/new")
	case hasKey(c, "save_and_continue"):
		c.Redirect(http.StatusFound, editPath(answer.ID))
	default:
		c.Redirect(http.StatusFound, detailPath(answer.ID))
	}
}

func (h *Handler) EditAnswer(c *gin.Context) {
	answer, ok := h.loadAnswer(c)
	if !ok {
		return
	}

	form := newAnswerForm(answers.FromAnswer(answer))
	form.ID = answer.ID
	h.renderForm(c, http.StatusOK, form)
}

func (h *Handler) UpdateAnswer(c *gin.Context) {
	answer, ok := h.loadAnswer(c)
	if !ok {
		return
	}

	form := bindAnswerForm(c)
	form.ID = answer.ID

	// Deprecated fields are not on the form and keep their stored values.
	updated, err := h.answers.Update(c.Request.Context(), answer.ID, form.input(answers.FromAnswer(answer)))
	if err != nil {
		h.formError(c, form, err)
		return
	}

	h.addFlash(c, FlashSuccess, h.translate("Answer successfully updated!"))

	if hasKey(c, "save_and_continue") {
		c.Redirect(http.StatusFound, editPath(updated.ID))
		return
	}
	c.Redirect(http.StatusFound, detailPath(updated.ID))
}

func (h *Handler) DeleteAnswer(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		h.notFound(c)
		return
	}

	if err := h.answers.Delete(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}

	h.addFlash(c, FlashDanger, h.translate("Answer successfully deleted!"))
	c.Redirect(http.StatusFound, "/")
}

// CheckQuestion answers the live uniqueness probe of the answer form with a
// feedback fragment and an HX-Trigger event naming the field state.
func (h *Handler) CheckQuestion(c *gin.Context) {
	question := strings.TrimSpace(c.PostForm("question"))
	if question == "" {
		c.Data(http.StatusOK, "text/html; charset=utf-8", nil)
		return
	}

	var excludeID int64
	if raw := c.PostForm("instance_id"); raw != "" {
		if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
			excludeID = id
		}
	}

	exists, err := h.answers.QuestionExists(c.Request.Context(), question, excludeID)
	if err != nil {
		h.serverError(c, err)
		return
	}

	if exists {
		c.Header("HX-Trigger", `{"fieldInvalid": "question"}`)
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(fmt.Sprintf(
			`<span id="error_1_id_question" class="invalid-feedback d-block"><strong>%s</strong></span>`,
			html.EscapeString(h.translate("Answer with this question already exists.")))))
		return
	}

	c.Header("HX-Trigger", `{"fieldValid": "question"}`)
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(fmt.Sprintf(
		`<span class="valid-feedback d-block"><strong>%s</strong></span>`,
		html.EscapeString(h.translate("Question is unique.")))))
}

func (h *Handler) renderForm(c *gin.Context, status int, form answerForm) {
	categories, err := h.answers.ListCategories(c.Request.Context(), "")
	if err != nil {
		h.serverError(c, err)
		return
	}

	title := h.translate("Add new answer")
	if form.ID != 0 {
		title = h.translate("Edit answer #%d", form.ID)
	}

	h.render(c, status, "form", gin.H{
		"Title":      title,
		"Form":       form,
		"Categories": categoryOptions(categories, form.Category),
		"Statuses":   statusOptions(h.printer, form.Status),
		"Months":     monthOptions(h.printer, form.Month),
		"Years":      yearOptions(form.Year),
	})
}

// formError re-renders the form with field errors, or fails the request.
func (h *Handler) formError(c *gin.Context, form answerForm, err error) {
	var verr *answers.ValidationError
	if !errors.As(err, &verr) {
		h.fail(c, err)
		return
	}

	form.Errors = verr.Messages(h.printer)
	h.renderForm(c, http.StatusOK, form)
}

func (h *Handler) loadAnswer(c *gin.Context) (*model.Answer, bool) {
	id, ok := idParam(c)
	if !ok {
		h.notFound(c)
		return nil, false
	}

	answer, err := h.answers.Get(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return nil, false
	}
	return answer, true
}

func (h *Handler) fail(c *gin.Context, err error) {
	var nf *answers.NotFoundError
	if errors.As(err, &nf) {
		h.notFound(c)
		return
	}
	h.serverError(c, err)
}

func idParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	return id, err == nil && id > 0
}

// hasKey reports whether the submitted form carries key, which is how the
// pressed submit button is identified.
func hasKey(c *gin.Context, key string) bool {
	_, ok := c.GetPostForm(key)
	return ok
}

func detailPath(id int64) string { return "/answers/" + strconv.FormatInt(id, 10) }
func editPath(id int64) string   { return detailPath(id) + "/edit" }
