package services

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/tokyo-lab/workout-tracker-app/internal/models"
	"github.com/tokyo-lab/workout-tracker-app/internal/repository"
)

var ErrCatalogExercise = errors.New("unknown catalog exercise")

// WorkoutService handles the single-row writes used while a workout is in
// progress: one exercise or one set at a time, each in its own transaction,
// without touching unrelated siblings. Deletes renumber the surviving
// siblings so stored orders stay dense.
type WorkoutService struct {
	db           txBeginner
	workoutRepo  *repository.WorkoutRepository
	exerciseRepo *repository.ExerciseRepository
	setRepo      *repository.SetRepository
	catalogRepo  *repository.CatalogRepository
}

func NewWorkoutService(
	db txBeginner,
	workoutRepo *repository.WorkoutRepository,
	exerciseRepo *repository.ExerciseRepository,
	setRepo *repository.SetRepository,
	catalogRepo *repository.CatalogRepository,
) *WorkoutService {
	return &WorkoutService{
		db:           db,
		workoutRepo:  workoutRepo,
		exerciseRepo: exerciseRepo,
		setRepo:      setRepo,
		catalogRepo:  catalogRepo,
	}
}

// AddExercise appends one exercise to the workout (order = N+1) and returns
// it with the catalog metadata the clients render.
func (s *WorkoutService) AddExercise(
	ctx context.Context,
	workoutID int64,
	catalogExerciseID int64,
) (*models.Exercise, error) {
	if workoutID <= 0 || catalogExerciseID <= 0 {
		return nil, ErrInvalidInput
	}

	catalogExercise, err := s.catalogRepo.GetExerciseByID(ctx, catalogExerciseID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCatalogExercise
		}
		return nil, err
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	txExerciseRepo := repository.NewExerciseRepository(tx)

	workout, err := repository.NewWorkoutRepository(tx).GetByID(ctx, workoutID)
	if err != nil {
		return nil, err
	}

	order, err := txExerciseRepo.NextOrder(ctx, workout.ID)
	if err != nil {
		return nil, err
	}

	exerciseID, err := txExerciseRepo.Insert(ctx, workout.ID, catalogExerciseID, order)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return &models.Exercise{
		ID:                exerciseID,
		WorkoutID:         workout.ID,
		CatalogExerciseID: catalogExerciseID,
		Order:             order,
		Name:              catalogExercise.Name,
		Muscle:            catalogExercise.Muscle,
		Equipment:         catalogExercise.Equipment,
		Sets:              []models.Set{},
	}, nil
}

// RemoveExercise deletes one exercise with its sets and closes the order gap
// among the surviving siblings.
func (s *WorkoutService) RemoveExercise(ctx context.Context, exerciseID int64) error {
	if exerciseID <= 0 {
		return ErrInvalidInput
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	txExerciseRepo := repository.NewExerciseRepository(tx)

	exercise, err := txExerciseRepo.GetByID(ctx, exerciseID)
	if err != nil {
		return err
	}

	if err := repository.NewSetRepository(tx).DeleteByExerciseID(ctx, exercise.ID); err != nil {
		return err
	}
	if _, err := txExerciseRepo.Delete(ctx, exercise.ID); err != nil {
		return err
	}
	if err := txExerciseRepo.ShiftDownAfter(ctx, exercise.WorkoutID, exercise.Order); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// AddSet appends one set to the exercise (order = N+1).
func (s *WorkoutService) AddSet(
	ctx context.Context,
	exerciseID int64,
	reps *int,
	weight *float64,
) (*models.Set, error) {
	if exerciseID <= 0 {
		return nil, ErrInvalidInput
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	txSetRepo := repository.NewSetRepository(tx)

	exercise, err := repository.NewExerciseRepository(tx).GetByID(ctx, exerciseID)
	if err != nil {
		return nil, err
	}

	order, err := txSetRepo.NextOrder(ctx, exercise.ID)
	if err != nil {
		return nil, err
	}

	setID, err := txSetRepo.Insert(ctx, exercise.ID, reps, weight, order)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return &models.Set{
		ID:         setID,
		ExerciseID: exercise.ID,
		Reps:       reps,
		Weight:     weight,
		Order:      order,
	}, nil
}

// UpdateSet overwrites one set's reps and weight in place.
func (s *WorkoutService) UpdateSet(
	ctx context.Context,
	setID int64,
	reps *int,
	weight *float64,
) (*models.Set, error) {
	if setID <= 0 {
		return nil, ErrInvalidInput
	}

	found, err := s.setRepo.Update(ctx, setID, reps, weight)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, pgx.ErrNoRows
	}

	return s.setRepo.GetByID(ctx, setID)
}

// RemoveSet deletes one set and closes the order gap among the surviving
// siblings.
func (s *WorkoutService) RemoveSet(ctx context.Context, setID int64) error {
	if setID <= 0 {
		return ErrInvalidInput
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	txSetRepo := repository.NewSetRepository(tx)

	set, err := txSetRepo.GetByID(ctx, setID)
	if err != nil {
		return err
	}

	if _, err := txSetRepo.Delete(ctx, set.ID); err != nil {
		return err
	}
	if err := txSetRepo.ShiftDownAfter(ctx, set.ExerciseID, set.Order); err != nil {
		return err
	}

	return tx.Commit(ctx)
}
