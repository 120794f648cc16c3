package web

import (
	"context"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lysyi3m/moodlehack/app/auth"
	"github.com/lysyi3m/moodlehack/app/model"
)

// answerView is an answer with its localized labels and rendered markdown.
type answerView struct {
	*model.Answer
	HTML          template.HTML
	NoteHTML      template.HTML
	CategoryName  string
	MonthDisplay  string
	PeriodDisplay string
	StatusDisplay string
}

func (h *Handler) newAnswerView(ctx context.Context, a *model.Answer) answerView {
	v := answerView{
		Answer:        a,
		HTML:          h.renderer.Render(ctx, a.Answer),
		NoteHTML:      h.renderer.Render(ctx, a.Note),
		MonthDisplay:  a.MonthDisplay(h.printer),
		PeriodDisplay: a.PeriodDisplay(h.printer),
		StatusDisplay: a.StatusDisplay(h.printer),
	}
	if a.Category != nil {
		v.CategoryName = a.Category.Name
	}
	return v
}

// render executes a page template with the data every page shares.
func (h *Handler) render(c *gin.Context, status int, name string, data gin.H) {
	data["Site"] = h.site
	data["Language"] = h.opts.Language
	data["User"] = auth.CurrentUser(c)
	data["Flashes"] = h.popFlashes(c)
	data["Path"] = c.Request.URL.Path

	c.HTML(status, name, data)
}

func (h *Handler) notFound(c *gin.Context) {
	h.render(c, http.StatusNotFound, "error", gin.H{
		"Title":   h.translate("Not found."),
		"Message": h.translate("The page you requested does not exist."),
	})
}

func (h *Handler) serverError(c *gin.Context, err error) {
	slog.Error("Web request failed", "method", c.Request.Method, "path", c.FullPath(), "error", err)
	h.render(c, http.StatusInternalServerError, "error", gin.H{
		"Title":   h.translate("Server error"),
		"Message": h.translate("Something went wrong. Please try again later."),
	})
}
