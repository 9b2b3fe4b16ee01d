package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"carelink/api/internal/middleware"
)

func (h HandlerSet) AvailableDoctors(c *gin.Context) {
	doctors, err := h.patients.AvailableDoctors(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"doctors": doctors})
}

type selectDoctorRequest struct {
	DoctorID string `json:"doctorId" binding:"required"`
}

func (h HandlerSet) SelectDoctor(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authorized"})
		return
	}

	var req selectDoctorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "doctorId is required"})
		return
	}

	if err := h.patients.SelectDoctor(c.Request.Context(), user.ID, req.DoctorID); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Doctor selected successfully"})
}

func (h HandlerSet) MyDoctor(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authorized"})
		return
	}

	doctor, err := h.patients.MyDoctor(c.Request.Context(), user.ID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"doctor": toUserResponse(doctor)})
}
