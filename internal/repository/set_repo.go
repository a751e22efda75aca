package repository

import (
	"context"

	"github.com/tokyo-lab/workout-tracker-app/internal/models"
)

type SetRepository struct {
	db DBTX
}

func NewSetRepository(db DBTX) *SetRepository {
	return &SetRepository{db: db}
}

func (r *SetRepository) Insert(
	ctx context.Context,
	exerciseID int64,
	reps *int,
	weight *float64,
	order int,
) (int64, error) {
	query := `
		INSERT INTO sets (exercise_id, reps, weight, "order")
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	var id int64
	if err := r.db.QueryRow(ctx, query, exerciseID, reps, weight, order).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

func (r *SetRepository) Update(
	ctx context.Context,
	setID int64,
	reps *int,
	weight *float64,
) (bool, error) {
	query := `
		UPDATE sets
		SET reps = $1, weight = $2
		WHERE id = $3
	`

	tag, err := r.db.Exec(ctx, query, reps, weight, setID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// DeleteByProgramID removes every set under the program's exercises.
func (r *SetRepository) DeleteByProgramID(ctx context.Context, programID int64) error {
	query := `
		DELETE FROM sets
		WHERE exercise_id IN (
			SELECT id FROM exercises
			WHERE workout_id IN (SELECT id FROM workouts WHERE program_id = $1)
		)
	`
	_, err := r.db.Exec(ctx, query, programID)
	return err
}

// DeleteByExerciseID removes the sets of one exercise (single-row exercise
// removal in active-workout mode).
func (r *SetRepository) DeleteByExerciseID(ctx context.Context, exerciseID int64) error {
	_, err := r.db.Exec(ctx, `DELETE FROM sets WHERE exercise_id = $1`, exerciseID)
	return err
}

func (r *SetRepository) GetByID(ctx context.Context, setID int64) (*models.Set, error) {
	query := `
		SELECT id, exercise_id, reps, weight, "order"
		FROM sets
		WHERE id = $1
	`

	var set models.Set
	err := r.db.QueryRow(ctx, query, setID).Scan(
		&set.ID,
		&set.ExerciseID,
		&set.Reps,
		&set.Weight,
		&set.Order,
	)
	if err != nil {
		return nil, err
	}
	return &set, nil
}

func (r *SetRepository) Delete(ctx context.Context, setID int64) (bool, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM sets WHERE id = $1`, setID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// ShiftDownAfter closes the ordering gap left by a removed sibling.
func (r *SetRepository) ShiftDownAfter(ctx context.Context, exerciseID int64, order int) error {
	query := `
		UPDATE sets
		SET "order" = "order" - 1
		WHERE exercise_id = $1 AND "order" > $2
	`
	_, err := r.db.Exec(ctx, query, exerciseID, order)
	return err
}

// NextOrder returns the order an appended sibling should take.
func (r *SetRepository) NextOrder(ctx context.Context, exerciseID int64) (int, error) {
	query := `
		SELECT COALESCE(MAX("order"), 0) + 1
		FROM sets
		WHERE exercise_id = $1
	`

	var next int
	if err := r.db.QueryRow(ctx, query, exerciseID).Scan(&next); err != nil {
		return 0, err
	}
	return next, nil
}

func (r *SetRepository) ListByExerciseID(ctx context.Context, exerciseID int64) ([]models.Set, error) {
	query := `
		SELECT id, exercise_id, reps, weight, "order"
		FROM sets
		WHERE exercise_id = $1
		ORDER BY "order"
	`

	rows, err := r.db.Query(ctx, query, exerciseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sets := make([]models.Set, 0)
	for rows.Next() {
		var set models.Set
		if err := rows.Scan(
			&set.ID,
			&set.ExerciseID,
			&set.Reps,
			&set.Weight,
			&set.Order,
		); err != nil {
			return nil, err
		}
		sets = append(sets, set)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return sets, nil
}
