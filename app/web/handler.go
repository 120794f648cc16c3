package web

import (
	"embed"
	"html/template"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/text/message"

	"github.com/lysyi3m/moodlehack/app/answers"
	"github.com/lysyi3m/moodlehack/app/auth"
	"github.com/lysyi3m/moodlehack/app/cfg"
	"github.com/lysyi3m/moodlehack/app/markdown"
)

//go:embed templates/*.html
var templateFS embed.FS

type Options struct {
	Language      string
	SessionTTL    time.Duration
	SecureCookies bool
}

type Handler struct {
	answers  *answers.Service
	auth     *auth.Service
	renderer *markdown.Renderer
	printer  *message.Printer
	site     *cfg.Site
	opts     Options
	now      func() time.Time
}

func NewHandler(answerService *answers.Service, authService *auth.Service, renderer *markdown.Renderer,
	printer *message.Printer, site *cfg.Site, opts Options) *Handler {
	return &Handler{
		answers:  answerService,
		auth:     authService,
		renderer: renderer,
		printer:  printer,
		site:     site,
		opts:     opts,
		now:      time.Now,
	}
}

// Templates parses the embedded page templates with the handler's helpers.
func (h *Handler) Templates() (*template.Template, error) {
	return template.New("").Funcs(template.FuncMap{
		"t":        h.translate,
		"query":    updateQuery,
		"ellipsis": func(n int) bool { return n == answers.Ellipsis },
	}).ParseFS(templateFS, "templates/*.html")
}

func (h *Handler) translate(key string, args ...any) string {
	return h.printer.Sprintf(key, args...)
}

// Register installs the templates and mounts the web routes on r.
func Register(r *gin.Engine, h *Handler) error {
	tmpl, err := h.Templates()
	if err != nil {
		return err
	}
	r.SetHTMLTemplate(tmpl)

	accounts := r.Group("/accounts")
	accounts.GET("/login", h.LoginForm)
	accounts.POST("/login", h.Login)
	accounts.POST("/logout", h.Logout)

	private := r.Group("", h.RequireLogin())
	private.GET("/", h.Index)
	private.GET("/answers/new", h.NewAnswer)
	private.POST("/answers/new", h.CreateAnswer)
	private.POST("/answers/check-question", h.CheckQuestion)
	private.GET("/answers/:id", h.ShowAnswer)
	private.GET("/answers/:id/edit", h.EditAnswer)
	private.POST("/answers/:id/edit", h.UpdateAnswer)
	private.POST("/answers/:id/delete", h.DeleteAnswer)

	return nil
}
