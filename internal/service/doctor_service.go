package service

import (
	"context"

	"carelink/api/internal/apperr"
	"carelink/api/internal/models"
)

// DoctorService covers the doctor-facing glue: the roster of patients
// assigned to a doctor.
type DoctorService struct {
	assignments AssignmentStore
}

func NewDoctorService(assignments AssignmentStore) *DoctorService {
	return &DoctorService{assignments: assignments}
}

func (s *DoctorService) Patients(ctx context.Context, doctorID string) ([]models.User, error) {
	patients, err := s.assignments.ListPatients(ctx, doctorID)
	if err != nil {
		return nil, err
	}
	if len(patients) == 0 {
		return nil, apperr.NotFound("No patients assigned to this doctor")
	}
	return patients, nil
}
