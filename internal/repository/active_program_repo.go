package repository

import (
	"context"

	"github.com/tokyo-lab/workout-tracker-app/internal/models"
)

type ActiveProgramRepository struct {
	db DBTX
}

func NewActiveProgramRepository(db DBTX) *ActiveProgramRepository {
	return &ActiveProgramRepository{db: db}
}

// Upsert points the user at a program, replacing any previous assignment.
func (r *ActiveProgramRepository) Upsert(ctx context.Context, userID, programID int64) error {
	query := `
		INSERT INTO active_programs (user_id, program_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id) DO UPDATE SET program_id = EXCLUDED.program_id, updated_at = NOW()
	`
	_, err := r.db.Exec(ctx, query, userID, programID)
	return err
}

func (r *ActiveProgramRepository) GetByUserID(ctx context.Context, userID int64) (*models.ActiveProgram, error) {
	query := `
		SELECT user_id, program_id, updated_at
		FROM active_programs
		WHERE user_id = $1
	`

	var assignment models.ActiveProgram
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&assignment.UserID,
		&assignment.ProgramID,
		&assignment.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &assignment, nil
}

func (r *ActiveProgramRepository) DeleteByUserID(ctx context.Context, userID int64) (bool, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM active_programs WHERE user_id = $1`, userID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// DeleteByProgramID clears assignments pointing at a program that is being
// deleted; runs inside the cascade-delete transaction.
func (r *ActiveProgramRepository) DeleteByProgramID(ctx context.Context, programID int64) error {
	_, err := r.db.Exec(ctx, `DELETE FROM active_programs WHERE program_id = $1`, programID)
	return err
}
