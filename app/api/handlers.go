package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/text/message"

	"github.com/lysyi3m/moodlehack/app/answers"
	"github.com/lysyi3m/moodlehack/app/auth"
	"github.com/lysyi3m/moodlehack/app/cache"
	"github.com/lysyi3m/moodlehack/app/cfg"
	"github.com/lysyi3m/moodlehack/app/feed"
	"github.com/lysyi3m/moodlehack/app/model"
)

const dateLayout = "2006-01-02"

type Handler struct {
	answers   *answers.Service
	auth      *auth.Service
	generator *feed.Generator
	store     cache.Store
	printer   *message.Printer
	site      *cfg.Site
	language  string
}

func NewHandler(answerService *answers.Service, authService *auth.Service, generator *feed.Generator,
	store cache.Store, printer *message.Printer, site *cfg.Site, language string) *Handler {
	return &Handler{
		answers:   answerService,
		auth:      authService,
		generator: generator,
		store:     store,
		printer:   printer,
		site:      site,
		language:  language,
	}
}

// RequireToken rejects requests without a valid API token.
func (h *Handler) RequireToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := h.auth.Resolve(c.Request.Context(), auth.APIToken(c.Request), auth.KindAPI)
		if err != nil {
			h.fail(c, err)
			return
		}
		auth.SetUser(c, user)
		c.Next()
	}
}

// deprecated marks every response of a route group as deprecated.
func deprecated(c *gin.Context) {
	c.Header("Deprecation", "true")
	c.Next()
}

func (h *Handler) ObtainToken(c *gin.Context) {
	var payload tokenPayload
	if err := c.ShouldBind(&payload); err != nil {
		h.respondError(c, http.StatusBadRequest, "parse_error", "Malformed request body.")
		return
	}

	token, _, err := h.auth.Login(c.Request.Context(), payload.Username, payload.Password, auth.KindAPI)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		h.respondError(c, http.StatusBadRequest, "invalid_credentials", "Please enter a correct username and password.")
		return
	}
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}

func (h *Handler) GetSchema(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"version":   cfg.GetVersion(),
		"resources": apiSchema,
	})
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := map[string]any{
		"timestamp": time.Now().In(time.Local).Format(time.RFC3339),
	}

	// Stored data is reported to token holders only.
	ctx := c.Request.Context()
	if token := auth.APIToken(c.Request); token != "" {
		if _, err := h.auth.Resolve(ctx, token, auth.KindAPI); err == nil {
			if count, err := h.answers.Count(ctx); err == nil {
				health["answers"] = count
			}
		}
	}

	health["cache"] = h.store.Health(ctx)

	c.JSON(http.StatusOK, health)
}

func (h *Handler) GetFeed(c *gin.Context) {
	list, err := h.answers.Recent(c.Request.Context(), h.site.Feed.MaxItems)
	if err != nil {
		h.fail(c, err)
		return
	}

	channel := feed.Channel{Title: h.site.Label, Description: h.site.Tagline, Language: h.language}
	rss, err := h.generator.Run(c.Request.Context(), channel, list)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.Header("Content-Type", "application/xml; charset=utf-8")
	c.Header("X-Feed-Items", strconv.Itoa(len(list)))
	c.String(http.StatusOK, rss)
}

// Categories

func (h *Handler) ListCategories(c *gin.Context) {
	list, err := h.answers.ListCategories(c.Request.Context(), c.Query("search"))
	if err != nil {
		h.fail(c, err)
		return
	}

	results := make([]categoryResponse, 0, len(list))
	for _, category := range list {
		results = append(results, newCategoryResponse(&category))
	}
	c.JSON(http.StatusOK, results)
}

func (h *Handler) GetCategory(c *gin.Context) {
	id, ok := h.idParam(c)
	if !ok {
		return
	}

	category, err := h.answers.GetCategory(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, newCategoryResponse(category))
}

func (h *Handler) CreateCategory(c *gin.Context) {
	var payload categoryPayload
	if !h.bind(c, &payload) {
		return
	}

	category, err := h.answers.CreateCategory(c.Request.Context(), deref(payload.Name))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, newCategoryResponse(category))
}

// UpdateCategory serves both PUT and PATCH; name is the only writable field.
func (h *Handler) UpdateCategory(c *gin.Context) {
	id, ok := h.idParam(c)
	if !ok {
		return
	}

	var payload categoryPayload
	if !h.bind(c, &payload) {
		return
	}

	ctx := c.Request.Context()
	existing, err := h.answers.GetCategory(ctx, id)
	if err != nil {
		h.fail(c, err)
		return
	}

	name := existing.Name
	if payload.Name != nil || c.Request.Method == http.MethodPut {
		name = deref(payload.Name)
	}

	category, err := h.answers.RenameCategory(ctx, id, name)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, newCategoryResponse(category))
}

func (h *Handler) DeleteCategory(c *gin.Context) {
	id, ok := h.idParam(c)
	if !ok {
		return
	}

	if err := h.answers.DeleteCategory(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Periods

func (h *Handler) ListPeriods(c *gin.Context) {
	list, err := h.answers.ListPeriods(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}

	results := make([]periodResponse, 0, len(list))
	for _, period := range list {
		results = append(results, newPeriodResponse(&period))
	}
	c.JSON(http.StatusOK, results)
}

func (h *Handler) GetPeriod(c *gin.Context) {
	id, ok := h.idParam(c)
	if !ok {
		return
	}

	period, err := h.answers.GetPeriod(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, newPeriodResponse(period))
}

func (h *Handler) CreatePeriod(c *gin.Context) {
	var payload periodPayload
	if !h.bind(c, &payload) {
		return
	}

	date, err := parsePeriodDate(payload.Period.Value)
	if err != nil {
		h.fail(c, err)
		return
	}

	period, err := h.answers.CreatePeriod(c.Request.Context(), date)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, newPeriodResponse(period))
}

func (h *Handler) UpdatePeriod(c *gin.Context) {
	id, ok := h.idParam(c)
	if !ok {
		return
	}

	var payload periodPayload
	if !h.bind(c, &payload) {
		return
	}

	ctx := c.Request.Context()
	existing, err := h.answers.GetPeriod(ctx, id)
	if err != nil {
		h.fail(c, err)
		return
	}

	date := existing.Date
	if payload.Period.Set || c.Request.Method == http.MethodPut {
		if date, err = parsePeriodDate(payload.Period.Value); err != nil {
			h.fail(c, err)
			return
		}
	}

	period, err := h.answers.UpdatePeriod(ctx, id, date)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, newPeriodResponse(period))
}

func (h *Handler) DeletePeriod(c *gin.Context) {
	id, ok := h.idParam(c)
	if !ok {
		return
	}

	if err := h.answers.DeletePeriod(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Answers

func (h *Handler) ListAnswers(c *gin.Context) {
	filter := answers.Filter{Query: c.Query("search")}

	result, err := h.answers.List(c.Request.Context(), filter, c.Query("page"))
	if err != nil {
		h.fail(c, err)
		return
	}

	results := make([]answerResponse, 0, len(result.Answers))
	for i := range result.Answers {
		results = append(results, h.newAnswerResponse(&result.Answers[i]))
	}

	c.JSON(http.StatusOK, listResponse[answerResponse]{
		Count:    result.Page.Count,
		Page:     result.Page.Number,
		NumPages: result.Page.NumPages,
		Results:  results,
	})
}

func (h *Handler) GetAnswer(c *gin.Context) {
	id, ok := h.idParam(c)
	if !ok {
		return
	}

	answer, err := h.answers.Get(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, h.newAnswerResponse(answer))
}

func (h *Handler) CreateAnswer(c *gin.Context) {
	var payload answerPayload
	if !h.bind(c, &payload) {
		return
	}

	answer, err := h.answers.Create(c.Request.Context(), payload.apply(answers.Input{}))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, h.newAnswerResponse(answer))
}

// UpdateAnswer replaces the answer on PUT and merges onto it on PATCH.
func (h *Handler) UpdateAnswer(c *gin.Context) {
	id, ok := h.idParam(c)
	if !ok {
		return
	}

	var payload answerPayload
	if !h.bind(c, &payload) {
		return
	}

	ctx := c.Request.Context()
	existing, err := h.answers.Get(ctx, id)
	if err != nil {
		h.fail(c, err)
		return
	}

	// PUT replaces the current fields; the deprecated ones change only when sent.
	base := answers.Input{Period: existing.PeriodID, Actual: existing.Actual}
	if c.Request.Method == http.MethodPatch {
		base = answers.FromAnswer(existing)
	}

	answer, err := h.answers.Update(ctx, id, payload.apply(base))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, h.newAnswerResponse(answer))
}

func (h *Handler) DeleteAnswer(c *gin.Context) {
	id, ok := h.idParam(c)
	if !ok {
		return
	}

	if err := h.answers.Delete(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) idParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		h.respondError(c, http.StatusNotFound, "not_found", "Not found.")
		return 0, false
	}
	return id, true
}

func (h *Handler) bind(c *gin.Context, payload any) bool {
	if err := c.ShouldBindJSON(payload); err != nil {
		h.respondError(c, http.StatusBadRequest, "parse_error", "Malformed request body.")
		return false
	}
	return true
}

func (p answerPayload) apply(in answers.Input) answers.Input {
	if p.Question != nil {
		in.Question = *p.Question
	}
	if p.Answer != nil {
		in.Answer = *p.Answer
	}
	if p.Note != nil {
		in.Note = *p.Note
	}
	if p.URL != nil {
		in.URL = *p.URL
	}
	if p.Tag != nil {
		in.Tag = *p.Tag
	}
	if p.Status != nil {
		in.Status = *p.Status
	}
	if p.Month != nil {
		in.Month = *p.Month
	}
	if p.Year != nil {
		in.Year = *p.Year
	}
	if p.Category != nil {
		in.Category = *p.Category
	}
	if p.Period.Set {
		in.Period = p.Period.Value
	}
	if p.Actual.Set {
		in.Actual = p.Actual.Value
	}
	return in
}

func (h *Handler) newAnswerResponse(a *model.Answer) answerResponse {
	r := answerResponse{
		ID:             a.ID,
		Question:       a.Question,
		Answer:         a.Answer,
		Note:           a.Note,
		URL:            a.URL,
		Tag:            a.Tag,
		Status:         a.Status,
		Category:       a.CategoryID,
		PeriodDisplay:  a.PeriodDisplay(h.printer),
		MonthDisplay:   a.MonthDisplay(h.printer),
		Quarter:        a.Quarter(),
		QuarterDisplay: a.QuarterDisplay(),
		StatusDisplay:  a.StatusDisplay(h.printer),
		Create:         a.Created,
		Update:         a.Updated,
		Period:         a.PeriodID,
		Actual:         a.Actual,
	}
	if a.Month != 0 {
		month := int(a.Month)
		r.Month = &month
	}
	if a.Year != 0 {
		year := a.Year
		r.Year = &year
	}
	return r
}

func newCategoryResponse(c *model.Category) categoryResponse {
	return categoryResponse{ID: c.ID, Name: c.Name}
}

func newPeriodResponse(p *model.Period) periodResponse {
	r := periodResponse{ID: p.ID}
	if p.Date != nil {
		date := p.Date.Format(dateLayout)
		r.Period = &date
	}
	return r
}

func parsePeriodDate(value *string) (*time.Time, error) {
	if value == nil || *value == "" {
		return nil, nil
	}
	date, err := time.Parse(dateLayout, *value)
	if err != nil {
		verr := &answers.ValidationError{}
		verr.Add("period", "Enter a valid date.")
		return nil, verr
	}
	return &date, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
