package repository

import (
	"context"

	"github.com/tokyo-lab/workout-tracker-app/internal/models"
)

type ProgramFields struct {
	UserID          int64
	Name            string
	ProgramDuration int
	DurationUnit    string
	DaysPerWeek     int
	MainGoal        string
}

type ProgramRepository struct {
	db DBTX
}

func NewProgramRepository(db DBTX) *ProgramRepository {
	return &ProgramRepository{db: db}
}

// Insert creates the program row and returns the generated id.
func (r *ProgramRepository) Insert(ctx context.Context, fields ProgramFields) (int64, error) {
	query := `
		INSERT INTO programs (user_id, name, program_duration, days_per_week, duration_unit, main_goal)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`

	var id int64
	err := r.db.QueryRow(
		ctx,
		query,
		fields.UserID,
		fields.Name,
		fields.ProgramDuration,
		fields.DaysPerWeek,
		fields.DurationUnit,
		fields.MainGoal,
	).Scan(&id)
	if err != nil {
		return 0, err
	}

	return id, nil
}

// UpdateFields rewrites the program row's scalar columns and reports whether
// the row existed.
func (r *ProgramRepository) UpdateFields(
	ctx context.Context,
	programID int64,
	fields ProgramFields,
) (bool, error) {
	query := `
		UPDATE programs
		SET user_id = $1, name = $2, program_duration = $3, days_per_week = $4, duration_unit = $5, main_goal = $6
		WHERE id = $7
	`

	tag, err := r.db.Exec(
		ctx,
		query,
		fields.UserID,
		fields.Name,
		fields.ProgramDuration,
		fields.DaysPerWeek,
		fields.DurationUnit,
		fields.MainGoal,
		programID,
	)
	if err != nil {
		return false, err
	}

	return tag.RowsAffected() > 0, nil
}

// Delete removes the program row only; descendants must already be gone.
func (r *ProgramRepository) Delete(ctx context.Context, programID int64) (bool, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM programs WHERE id = $1`, programID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *ProgramRepository) GetByID(ctx context.Context, programID int64) (*models.Program, error) {
	query := `
		SELECT id, user_id, name, program_duration, days_per_week, duration_unit, main_goal, created_at
		FROM programs
		WHERE id = $1
	`

	var program models.Program
	err := r.db.QueryRow(ctx, query, programID).Scan(
		&program.ID,
		&program.UserID,
		&program.Name,
		&program.ProgramDuration,
		&program.DaysPerWeek,
		&program.DurationUnit,
		&program.MainGoal,
		&program.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &program, nil
}

func (r *ProgramRepository) ListByUserID(ctx context.Context, userID int64) ([]models.Program, error) {
	query := `
		SELECT id, user_id, name, program_duration, days_per_week, duration_unit, main_goal, created_at
		FROM programs
		WHERE user_id = $1
		ORDER BY created_at, id
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	programs := make([]models.Program, 0)
	for rows.Next() {
		var program models.Program
		if err := rows.Scan(
			&program.ID,
			&program.UserID,
			&program.Name,
			&program.ProgramDuration,
			&program.DaysPerWeek,
			&program.DurationUnit,
			&program.MainGoal,
			&program.CreatedAt,
		); err != nil {
			return nil, err
		}
		programs = append(programs, program)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return programs, nil
}
