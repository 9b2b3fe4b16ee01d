package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"carelink/api/internal/apperr"
)

// respondError maps an application error to its HTTP response. Unexpected
// failures are logged and masked; typed failures pass their message through
// unchanged.
func (h HandlerSet) respondError(c *gin.Context, err error) {
	status := apperr.Status(err)
	if status >= http.StatusInternalServerError {
		h.log.Error().Err(err).
			Str("path", c.Request.URL.Path).
			Msg("request failed")
	}

	message := err.Error()
	if status == http.StatusInternalServerError && !apperr.IsStatus(err, status) {
		message = "Internal Server Error"
	}

	c.JSON(status, gin.H{"error": message})
}
