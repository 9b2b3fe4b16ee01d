package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"carelink/api/internal/middleware"
)

func (h HandlerSet) Patients(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authorized"})
		return
	}

	patients, err := h.doctors.Patients(c.Request.Context(), user.ID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	resp := make([]userResponse, 0, len(patients))
	for _, patient := range patients {
		resp = append(resp, toUserResponse(patient))
	}

	c.JSON(http.StatusOK, gin.H{"patients": resp})
}
