package repository

import (
	"context"

	"github.com/tokyo-lab/workout-tracker-app/internal/models"
)

type WorkoutRepository struct {
	db DBTX
}

func NewWorkoutRepository(db DBTX) *WorkoutRepository {
	return &WorkoutRepository{db: db}
}

func (r *WorkoutRepository) Insert(
	ctx context.Context,
	programID int64,
	name string,
	order int,
) (int64, error) {
	query := `
		INSERT INTO workouts (program_id, name, "order")
		VALUES ($1, $2, $3)
		RETURNING id
	`

	var id int64
	if err := r.db.QueryRow(ctx, query, programID, name, order).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

// DeleteByProgramID removes every workout under the program. Exercises and
// sets must already be gone; the FKs point child to parent.
func (r *WorkoutRepository) DeleteByProgramID(ctx context.Context, programID int64) error {
	_, err := r.db.Exec(ctx, `DELETE FROM workouts WHERE program_id = $1`, programID)
	return err
}

func (r *WorkoutRepository) GetByID(ctx context.Context, workoutID int64) (*models.Workout, error) {
	query := `
		SELECT id, program_id, name, "order"
		FROM workouts
		WHERE id = $1
	`

	var workout models.Workout
	err := r.db.QueryRow(ctx, query, workoutID).Scan(
		&workout.ID,
		&workout.ProgramID,
		&workout.Name,
		&workout.Order,
	)
	if err != nil {
		return nil, err
	}
	return &workout, nil
}

func (r *WorkoutRepository) ListByProgramID(ctx context.Context, programID int64) ([]models.Workout, error) {
	query := `
		SELECT id, program_id, name, "order"
		FROM workouts
		WHERE program_id = $1
		ORDER BY "order"
	`

	rows, err := r.db.Query(ctx, query, programID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	workouts := make([]models.Workout, 0)
	for rows.Next() {
		var workout models.Workout
		if err := rows.Scan(
			&workout.ID,
			&workout.ProgramID,
			&workout.Name,
			&workout.Order,
		); err != nil {
			return nil, err
		}
		workouts = append(workouts, workout)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return workouts, nil
}
