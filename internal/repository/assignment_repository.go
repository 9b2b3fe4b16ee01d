package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"carelink/api/internal/models"
)

var ErrNoDoctorAssigned = errors.New("no doctor assigned")

type AssignmentRepository struct {
	pool *pgxpool.Pool
}

func NewAssignmentRepository(pool *pgxpool.Pool) *AssignmentRepository {
	return &AssignmentRepository{pool: pool}
}

// Upsert links a patient to a doctor. Selecting the same doctor twice is a
// no-op rather than a duplicate row.
func (r *AssignmentRepository) Upsert(ctx context.Context, doctorID, patientID string) error {
	const query = `
		INSERT INTO assignments (doctor_id, patient_id, created_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (doctor_id, patient_id) DO NOTHING
	`
	_, err := r.pool.Exec(ctx, query, doctorID, patientID)
	return err
}

// DoctorFor returns the doctor a patient selected. A patient selects one
// doctor, so the earliest assignment wins if data ever holds more.
func (r *AssignmentRepository) DoctorFor(ctx context.Context, patientID string) (models.User, error) {
	const query = `
		SELECT u.id, u.email, u.password_hash, u.role, u.verified, u.created_at, u.updated_at
		FROM users u
		JOIN assignments a ON a.doctor_id = u.id
		WHERE a.patient_id = $1
		ORDER BY a.created_at
		LIMIT 1
	`

	var user models.User
	err := r.pool.QueryRow(ctx, query, patientID).Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.Role,
		&user.Verified,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.User{}, ErrNoDoctorAssigned
	}
	if err != nil {
		return models.User{}, err
	}
	return user, nil
}

func (r *AssignmentRepository) ListPatients(ctx context.Context, doctorID string) ([]models.User, error) {
	const query = `
		SELECT u.id, u.email, u.password_hash, u.role, u.verified, u.created_at, u.updated_at
		FROM users u
		JOIN assignments a ON a.patient_id = u.id
		WHERE a.doctor_id = $1
		ORDER BY a.created_at
	`

	rows, err := r.pool.Query(ctx, query, doctorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var patients []models.User
	for rows.Next() {
		var user models.User
		if err := rows.Scan(
			&user.ID,
			&user.Email,
			&user.PasswordHash,
			&user.Role,
			&user.Verified,
			&user.CreatedAt,
			&user.UpdatedAt,
		); err != nil {
			return nil, err
		}
		patients = append(patients, user)
	}
	return patients, rows.Err()
}
