package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lysyi3m/moodlehack/app/answers"
	"github.com/lysyi3m/moodlehack/app/auth"
)

type apiError struct {
	Message string            `json:"message"`
	Code    string            `json:"code,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
}

type errorEnvelope struct {
	Error apiError `json:"error"`
}

func (h *Handler) respondError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, errorEnvelope{
		Error: apiError{Message: h.printer.Sprintf(message), Code: code},
	})
}

// fail maps service errors onto status codes and the error envelope.
func (h *Handler) fail(c *gin.Context, err error) {
	var (
		verr *answers.ValidationError
		nf   *answers.NotFoundError
		rie  *answers.ReferentialIntegrityError
	)

	switch {
	case errors.As(err, &verr):
		c.AbortWithStatusJSON(http.StatusBadRequest, errorEnvelope{
			Error: apiError{
				Message: h.printer.Sprintf("Please correct the errors below."),
				Code:    "validation_error",
				Fields:  verr.Messages(h.printer),
			},
		})
	case errors.As(err, &nf):
		h.respondError(c, http.StatusNotFound, "not_found", "Not found.")
	case errors.As(err, &rie):
		c.AbortWithStatusJSON(http.StatusConflict, errorEnvelope{
			Error: apiError{
				Message: h.printer.Sprintf("Cannot delete: referenced by %d answer(s).", rie.References),
				Code:    "protected",
			},
		})
	case errors.Is(err, auth.ErrTokenExpired):
		h.unauthorized(c, "Token has expired.")
	case errors.Is(err, auth.ErrTokenInvalid):
		h.unauthorized(c, "Invalid token.")
	case errors.Is(err, auth.ErrUnauthorized):
		h.unauthorized(c, "Authentication credentials were not provided.")
	default:
		slog.Error("API request failed", "method", c.Request.Method, "path", c.FullPath(), "error", err)
		h.respondError(c, http.StatusInternalServerError, "internal_error", "Internal server error.")
	}
}

func (h *Handler) unauthorized(c *gin.Context, message string) {
	c.Header("WWW-Authenticate", `Token realm="api"`)
	h.respondError(c, http.StatusUnauthorized, "not_authenticated", message)
}
