package repository

import (
	"context"

	"github.com/tokyo-lab/workout-tracker-app/internal/models"
)

type ExerciseRepository struct {
	db DBTX
}

func NewExerciseRepository(db DBTX) *ExerciseRepository {
	return &ExerciseRepository{db: db}
}

func (r *ExerciseRepository) Insert(
	ctx context.Context,
	workoutID int64,
	catalogExerciseID int64,
	order int,
) (int64, error) {
	query := `
		INSERT INTO exercises (workout_id, catalog_exercise_id, "order")
		VALUES ($1, $2, $3)
		RETURNING id
	`

	var id int64
	if err := r.db.QueryRow(ctx, query, workoutID, catalogExerciseID, order).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

// DeleteByProgramID removes every exercise under the program's workouts.
func (r *ExerciseRepository) DeleteByProgramID(ctx context.Context, programID int64) error {
	query := `
		DELETE FROM exercises
		WHERE workout_id IN (SELECT id FROM workouts WHERE program_id = $1)
	`
	_, err := r.db.Exec(ctx, query, programID)
	return err
}

func (r *ExerciseRepository) GetByID(ctx context.Context, exerciseID int64) (*models.Exercise, error) {
	query := `
		SELECT id, workout_id, catalog_exercise_id, "order"
		FROM exercises
		WHERE id = $1
	`

	var exercise models.Exercise
	err := r.db.QueryRow(ctx, query, exerciseID).Scan(
		&exercise.ID,
		&exercise.WorkoutID,
		&exercise.CatalogExerciseID,
		&exercise.Order,
	)
	if err != nil {
		return nil, err
	}
	return &exercise, nil
}

func (r *ExerciseRepository) Delete(ctx context.Context, exerciseID int64) (bool, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM exercises WHERE id = $1`, exerciseID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// ShiftDownAfter closes the ordering gap left by a removed sibling.
func (r *ExerciseRepository) ShiftDownAfter(ctx context.Context, workoutID int64, order int) error {
	query := `
		UPDATE exercises
		SET "order" = "order" - 1
		WHERE workout_id = $1 AND "order" > $2
	`
	_, err := r.db.Exec(ctx, query, workoutID, order)
	return err
}

// NextOrder returns the order an appended sibling should take.
func (r *ExerciseRepository) NextOrder(ctx context.Context, workoutID int64) (int, error) {
	query := `
		SELECT COALESCE(MAX("order"), 0) + 1
		FROM exercises
		WHERE workout_id = $1
	`

	var next int
	if err := r.db.QueryRow(ctx, query, workoutID).Scan(&next); err != nil {
		return 0, err
	}
	return next, nil
}

// ListByWorkoutID loads exercises in sibling order, joined with the catalog
// name, muscle and equipment the clients render.
func (r *ExerciseRepository) ListByWorkoutID(ctx context.Context, workoutID int64) ([]models.Exercise, error) {
	query := `
		SELECT e.id, e.workout_id, e.catalog_exercise_id, e."order",
			ec.name, mg.name, eq.name
		FROM exercises e
		JOIN exercise_catalog ec ON e.catalog_exercise_id = ec.id
		JOIN muscle_groups mg ON ec.muscle_group_id = mg.id
		JOIN equipment_catalog eq ON ec.equipment_id = eq.id
		WHERE e.workout_id = $1
		ORDER BY e."order"
	`

	rows, err := r.db.Query(ctx, query, workoutID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	exercises := make([]models.Exercise, 0)
	for rows.Next() {
		var exercise models.Exercise
		if err := rows.Scan(
			&exercise.ID,
			&exercise.WorkoutID,
			&exercise.CatalogExerciseID,
			&exercise.Order,
			&exercise.Name,
			&exercise.Muscle,
			&exercise.Equipment,
		); err != nil {
			return nil, err
		}
		exercises = append(exercises, exercise)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return exercises, nil
}
