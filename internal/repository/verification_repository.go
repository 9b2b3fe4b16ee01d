package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"carelink/api/internal/models"
)

type VerificationRepository struct {
	pool *pgxpool.Pool
}

func NewVerificationRepository(pool *pgxpool.Pool) *VerificationRepository {
	return &VerificationRepository{pool: pool}
}

// Create records a verification code. Codes are written at signup and never
// consumed anywhere in this system; delivery is a different service's job.
func (r *VerificationRepository) Create(ctx context.Context, code models.VerificationCode) error {
	const query = `
		INSERT INTO verification_codes (
			id, user_id, type, created_at, expires_at
		) VALUES (
			$1, $2, $3, NOW(), $4
		)
	`

	_, err := r.pool.Exec(ctx, query,
		code.ID,
		code.UserID,
		code.Type,
		code.ExpiresAt,
	)
	return err
}
