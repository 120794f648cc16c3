package server

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lysyi3m/moodlehack/app/api"
	"github.com/lysyi3m/moodlehack/app/web"
)

type Options struct {
	Debug       bool
	CORSOrigins []string
}

// New builds the gin engine serving both the web UI and the JSON API.
func New(apiHandler *api.Handler, webHandler *web.Handler, opts Options) (*gin.Engine, error) {
	if opts.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(RequestID(), RequestLogger(), gin.Recovery(), CORS("/api/", opts.CORSOrigins))

	api.Register(r, apiHandler)

	if err := web.Register(r, webHandler); err != nil {
		return nil, fmt.Errorf("failed to load templates: %w", err)
	}

	// Favicon handler (return 204 to avoid 404s)
	r.GET("/favicon.ico", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	return r, nil
}
