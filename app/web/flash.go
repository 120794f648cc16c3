package web

import (
	"encoding/base64"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
)

const flashCookie = "moodlehack_flash"

// Flash levels map onto toast colours.
const (
	FlashSuccess = "success"
	FlashWarning = "warning"
	FlashError   = "error"
	FlashDanger  = "danger"
)

type Flash struct {
	Level string `json:"level"`
	Text  string `json:"text"`
}

// addFlash queues a message for the next rendered page.
func (h *Handler) addFlash(c *gin.Context, level, text string) {
	flashes := readFlashes(c)
	flashes = append(flashes, Flash{Level: level, Text: text})

	data, err := json.Marshal(flashes)
	if err != nil {
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(flashCookie, base64.RawURLEncoding.EncodeToString(data), 60, "/", "", h.opts.SecureCookies, true)
}

// popFlashes returns the queued messages and clears them.
func (h *Handler) popFlashes(c *gin.Context) []Flash {
	flashes := readFlashes(c)
	if len(flashes) > 0 {
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(flashCookie, "", -1, "/", "", h.opts.SecureCookies, true)
	}
	return flashes
}

func readFlashes(c *gin.Context) []Flash {
	raw, err := c.Cookie(flashCookie)
	if err != nil || raw == "" {
		return nil
	}

	data, err := base64.RawURLEncoding.DecodeString(raw)
	if err != nil {
		return nil
	}

	var flashes []Flash
	if err := json.Unmarshal(data, &flashes); err != nil {
		return nil
	}
	return flashes
}
