package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"carelink/api/internal/apperr"
	"carelink/api/internal/models"
	"carelink/api/internal/repository"
)

const (
	doctorsCacheKey = "carelink:doctors:available"
	doctorsCacheTTL = 5 * time.Minute
)

type DoctorDirectory interface {
	GetByID(ctx context.Context, id string) (models.User, error)
	ListByRole(ctx context.Context, role models.UserRole) ([]models.User, error)
}

type AssignmentStore interface {
	Upsert(ctx context.Context, doctorID, patientID string) error
	DoctorFor(ctx context.Context, patientID string) (models.User, error)
	ListPatients(ctx context.Context, doctorID string) ([]models.User, error)
}

// PatientService covers the patient-facing glue: browsing doctors and
// picking one.
type PatientService struct {
	users       DoctorDirectory
	assignments AssignmentStore
	cache       *redis.Client
	log         zerolog.Logger
}

func NewPatientService(users DoctorDirectory, assignments AssignmentStore, cache *redis.Client, log zerolog.Logger) *PatientService {
	return &PatientService{
		users:       users,
		assignments: assignments,
		cache:       cache,
		log:         log,
	}
}

type DoctorListing struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

func (s *PatientService) AvailableDoctors(ctx context.Context) ([]DoctorListing, error) {
	if cached, err := s.cache.Get(ctx, doctorsCacheKey).Result(); err == nil {
		var listings []DoctorListing
		if err := json.Unmarshal([]byte(cached), &listings); err == nil {
			return listings, nil
		}
	} else if !errors.Is(err, redis.Nil) {
		s.log.Warn().Err(err).Msg("doctors cache read failed")
	}

	doctors, err := s.users.ListByRole(ctx, models.UserRoleDoctor)
	if err != nil {
		return nil, err
	}

	listings := make([]DoctorListing, 0, len(doctors))
	for _, doctor := range doctors {
		listings = append(listings, DoctorListing{ID: doctor.ID, Email: doctor.Email})
	}

	if encoded, err := json.Marshal(listings); err == nil {
		if err := s.cache.Set(ctx, doctorsCacheKey, encoded, doctorsCacheTTL).Err(); err != nil {
			s.log.Warn().Err(err).Msg("doctors cache write failed")
		}
	}

	return listings, nil
}

// SelectDoctor assigns the patient to the chosen doctor. Re-selecting the
// same doctor is a no-op.
func (s *PatientService) SelectDoctor(ctx context.Context, patientID, doctorID string) error {
	doctor, err := s.users.GetByID(ctx, doctorID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return apperr.NotFound("Doctor not found")
		}
		return err
	}
	if doctor.Role != models.UserRoleDoctor {
		return apperr.NotFound("Doctor not found")
	}

	return s.assignments.Upsert(ctx, doctorID, patientID)
}

// MyDoctor returns the doctor the patient currently has selected.
func (s *PatientService) MyDoctor(ctx context.Context, patientID string) (models.User, error) {
	doctor, err := s.assignments.DoctorFor(ctx, patientID)
	if err != nil {
		if errors.Is(err, repository.ErrNoDoctorAssigned) {
			return models.User{}, apperr.NotFound("No doctor selected")
		}
		return models.User{}, err
	}
	return doctor, nil
}

// InvalidateDoctorsCache drops the cached listing, called when a new
// doctor signs up so they show without waiting out the TTL.
func (s *PatientService) InvalidateDoctorsCache(ctx context.Context) {
	if err := s.cache.Del(ctx, doctorsCacheKey).Err(); err != nil {
		s.log.Warn().Err(err).Msg("doctors cache invalidation failed")
	}
}
