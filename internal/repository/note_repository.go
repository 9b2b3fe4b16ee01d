package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"carelink/api/internal/models"
)

type NoteRepository struct {
	pool *pgxpool.Pool
}

func NewNoteRepository(pool *pgxpool.Pool) *NoteRepository {
	return &NoteRepository{pool: pool}
}

func (r *NoteRepository) Create(ctx context.Context, note models.Note) error {
	const query = `
		INSERT INTO notes (
			id, doctor_id, patient_id, original_note, checklist, plan,
			number_of_days, interval_days, days_left, done, remind_today,
			created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6,
			$7, $8, $9, $10, $11,
			NOW(), NOW()
		)
	`

	_, err := r.pool.Exec(ctx, query,
		note.ID,
		note.DoctorID,
		note.PatientID,
		note.OriginalNote,
		note.Checklist,
		note.Plan,
		note.NumberOfDays,
		note.IntervalDays,
		note.DaysLeft,
		note.Done,
		note.RemindToday,
	)
	return err
}

func (r *NoteRepository) ListActiveByPatient(ctx context.Context, patientID string) ([]models.Note, error) {
	const query = `
		SELECT id, doctor_id, patient_id, original_note, checklist, plan,
		       number_of_days, interval_days, days_left, done, remind_today,
		       created_at, updated_at
		FROM notes
		WHERE patient_id = $1 AND NOT done
		ORDER BY created_at DESC
	`

	rows, err := r.pool.Query(ctx, query, patientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notes []models.Note
	for rows.Next() {
		var note models.Note
		if err := rows.Scan(
			&note.ID,
			&note.DoctorID,
			&note.PatientID,
			&note.OriginalNote,
			&note.Checklist,
			&note.Plan,
			&note.NumberOfDays,
			&note.IntervalDays,
			&note.DaysLeft,
			&note.Done,
			&note.RemindToday,
			&note.CreatedAt,
			&note.UpdatedAt,
		); err != nil {
			return nil, err
		}
		notes = append(notes, note)
	}
	return notes, rows.Err()
}

// AdvanceSchedules moves every active note one day forward: the days-left
// counter drops, notes that run out are marked done, and the reminder flag
// is recomputed from the note's interval.
func (r *NoteRepository) AdvanceSchedules(ctx context.Context) (int64, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	const decrement = `
		UPDATE notes
		SET days_left = days_left - 1, updated_at = NOW()
		WHERE NOT done AND days_left > 0
	`
	cmd, err := tx.Exec(ctx, decrement)
	if err != nil {
		return 0, err
	}

	const finish = `
		UPDATE notes
		SET done = TRUE, remind_today = FALSE, updated_at = NOW()
		WHERE NOT done AND days_left <= 0
	`
	if _, err := tx.Exec(ctx, finish); err != nil {
		return 0, err
	}

	const remind = `
		UPDATE notes
		SET remind_today = ((number_of_days - days_left) % (interval_days + 1) = 0),
		    updated_at = NOW()
		WHERE NOT done
	`
	if _, err := tx.Exec(ctx, remind); err != nil {
		return 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}
