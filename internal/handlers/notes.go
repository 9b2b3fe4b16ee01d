package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"carelink/api/internal/middleware"
	"carelink/api/internal/models"
)

type createNoteRequest struct {
	PatientID    string `json:"patientId" binding:"required"`
	OriginalNote string `json:"originalNote" binding:"required"`
}

type noteResponse struct {
	ID           string    `json:"id"`
	DoctorID     string    `json:"doctorId"`
	PatientID    string    `json:"patientId"`
	OriginalNote string    `json:"originalNote"`
	Checklist    string    `json:"checklist"`
	Plan         string    `json:"plan"`
	NumberOfDays int       `json:"numberOfDays"`
	IntervalDays int       `json:"intervalDays"`
	DaysLeft     int       `json:"daysLeft"`
	RemindToday  bool      `json:"remindToday"`
	CreatedAt    time.Time `json:"createdAt"`
}

func toNoteResponse(note models.Note) noteResponse {
	return noteResponse{
		ID:           note.ID,
		DoctorID:     note.DoctorID,
		PatientID:    note.PatientID,
		OriginalNote: note.OriginalNote,
		Checklist:    note.Checklist,
		Plan:         note.Plan,
		NumberOfDays: note.NumberOfDays,
		IntervalDays: note.IntervalDays,
		DaysLeft:     note.DaysLeft,
		RemindToday:  note.RemindToday,
		CreatedAt:    note.CreatedAt,
	}
}

func (h HandlerSet) CreateNoteTask(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authorized"})
		return
	}

	var req createNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "patientId and originalNote are required"})
		return
	}

	note, err := h.notes.CreateTask(c.Request.Context(), user.ID, req.PatientID, req.OriginalNote)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"note": toNoteResponse(note)})
}

func (h HandlerSet) MyTasks(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authorized"})
		return
	}

	tasks, err := h.notes.Tasks(c.Request.Context(), user.ID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	resp := make([]noteResponse, 0, len(tasks))
	for _, note := range tasks {
		resp = append(resp, toNoteResponse(note))
	}

	c.JSON(http.StatusOK, gin.H{"tasks": resp})
}
