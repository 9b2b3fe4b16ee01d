package service

import (
	"context"

	"github.com/rs/zerolog"

	"carelink/api/internal/apperr"
	"carelink/api/internal/ids"
	"carelink/api/internal/llm"
	"carelink/api/internal/models"
)

type NoteStore interface {
	Create(ctx context.Context, note models.Note) error
	ListActiveByPatient(ctx context.Context, patientID string) ([]models.Note, error)
}

// NoteService turns a doctor's free-text note into a stored, scheduled
// task via the external extractor.
type NoteService struct {
	notes     NoteStore
	extractor llm.Extractor
	log       zerolog.Logger
}

func NewNoteService(notes NoteStore, extractor llm.Extractor, log zerolog.Logger) *NoteService {
	return &NoteService{
		notes:     notes,
		extractor: extractor,
		log:       log,
	}
}

func (s *NoteService) CreateTask(ctx context.Context, doctorID, patientID, originalNote string) (models.Note, error) {
	actions, err := s.extractor.Extract(ctx, originalNote)
	if err != nil {
		s.log.Error().Err(err).Str("doctor_id", doctorID).Msg("note extraction failed")
		return models.Note{}, apperr.Internal("Could not parse the note")
	}

	note := models.Note{
		ID:           ids.New(),
		DoctorID:     doctorID,
		PatientID:    patientID,
		OriginalNote: originalNote,
		Checklist:    actions.Checklist,
		Plan:         actions.Plan,
		NumberOfDays: actions.NumberOfDays,
		IntervalDays: actions.IntervalDays,
		DaysLeft:     actions.NumberOfDays,
	}
	if err := s.notes.Create(ctx, note); err != nil {
		return models.Note{}, err
	}
	return note, nil
}

// Tasks returns the patient's pending notes, newest first.
func (s *NoteService) Tasks(ctx context.Context, patientID string) ([]models.Note, error) {
	return s.notes.ListActiveByPatient(ctx, patientID)
}
