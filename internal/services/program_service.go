package services

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/tokyo-lab/workout-tracker-app/internal/models"
	"github.com/tokyo-lab/workout-tracker-app/internal/repository"
	"github.com/tokyo-lab/workout-tracker-app/pkg/ordering"
)

var ErrInvalidInput = errors.New("invalid input")

// txBeginner is satisfied by *pgxpool.Pool and pgxmock pools.
type txBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// WorkoutSpec, ExerciseSpec and SetSpec describe the desired tree for a
// create or full replace. Ids are never part of a spec: replace is a
// destructive delete-and-reinsert, so the server always assigns fresh ids.
type WorkoutSpec struct {
	Name      string
	Order     int
	Exercises []ExerciseSpec
}

type ExerciseSpec struct {
	CatalogExerciseID int64
	Order             int
	Sets              []SetSpec
}

type SetSpec struct {
	Reps   *int
	Weight *float64
	Order  int
}

type ProgramService struct {
	db           txBeginner
	programRepo  *repository.ProgramRepository
	workoutRepo  *repository.WorkoutRepository
	exerciseRepo *repository.ExerciseRepository
	setRepo      *repository.SetRepository
}

func NewProgramService(
	db txBeginner,
	programRepo *repository.ProgramRepository,
	workoutRepo *repository.WorkoutRepository,
	exerciseRepo *repository.ExerciseRepository,
	setRepo *repository.SetRepository,
) *ProgramService {
	return &ProgramService{
		db:           db,
		programRepo:  programRepo,
		workoutRepo:  workoutRepo,
		exerciseRepo: exerciseRepo,
		setRepo:      setRepo,
	}
}

// CreateProgram inserts the whole tree in one transaction and returns it with
// every server-assigned id, in insert order. Nothing persists if any insert
// fails.
func (s *ProgramService) CreateProgram(
	ctx context.Context,
	fields repository.ProgramFields,
	workouts []WorkoutSpec,
) (*models.Program, error) {
	if err := validateProgramFields(&fields); err != nil {
		return nil, err
	}
	workouts = normalizeSpecs(workouts)

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	programID, err := repository.NewProgramRepository(tx).Insert(ctx, fields)
	if err != nil {
		return nil, err
	}

	tree, err := insertWorkoutTree(ctx, tx, programID, workouts)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return assembleProgram(programID, fields, tree), nil
}

// ReplaceProgram rewrites the program's scalar fields and substitutes the
// entire workout subtree: existing sets, exercises and workouts are deleted
// leaves-first and the submitted tree is inserted in their place. Callers
// must send the complete desired tree, unchanged subtrees included. The
// prior tree survives intact if anything fails.
func (s *ProgramService) ReplaceProgram(
	ctx context.Context,
	programID int64,
	fields repository.ProgramFields,
	workouts []WorkoutSpec,
) (*models.Program, error) {
	if programID <= 0 {
		return nil, ErrInvalidInput
	}
	if err := validateProgramFields(&fields); err != nil {
		return nil, err
	}
	workouts = normalizeSpecs(workouts)

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	// Serialize writers on this program id for the duration of the tx.
	if _, err := tx.Exec(ctx, "SELECT pg_advisory_xact_lock($1)", programID); err != nil {
		return nil, err
	}

	found, err := repository.NewProgramRepository(tx).UpdateFields(ctx, programID, fields)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, pgx.ErrNoRows
	}

	// Children before parents; the FKs point child to parent.
	if err := repository.NewSetRepository(tx).DeleteByProgramID(ctx, programID); err != nil {
		return nil, err
	}
	if err := repository.NewExerciseRepository(tx).DeleteByProgramID(ctx, programID); err != nil {
		return nil, err
	}
	if err := repository.NewWorkoutRepository(tx).DeleteByProgramID(ctx, programID); err != nil {
		return nil, err
	}

	tree, err := insertWorkoutTree(ctx, tx, programID, workouts)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return assembleProgram(programID, fields, tree), nil
}

// DeleteProgram removes the program and every descendant in dependency order
// (sets, exercises, workouts, active-program assignments, program) inside one
// transaction. Returns pgx.ErrNoRows when the program does not exist.
func (s *ProgramService) DeleteProgram(ctx context.Context, programID int64) error {
	if programID <= 0 {
		return ErrInvalidInput
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	if _, err := tx.Exec(ctx, "SELECT pg_advisory_xact_lock($1)", programID); err != nil {
		return err
	}

	if err := repository.NewSetRepository(tx).DeleteByProgramID(ctx, programID); err != nil {
		return err
	}
	if err := repository.NewExerciseRepository(tx).DeleteByProgramID(ctx, programID); err != nil {
		return err
	}
	if err := repository.NewWorkoutRepository(tx).DeleteByProgramID(ctx, programID); err != nil {
		return err
	}
	if err := repository.NewActiveProgramRepository(tx).DeleteByProgramID(ctx, programID); err != nil {
		return err
	}

	found, err := repository.NewProgramRepository(tx).Delete(ctx, programID)
	if err != nil {
		return err
	}
	if !found {
		return pgx.ErrNoRows
	}

	return tx.Commit(ctx)
}

// FetchTree loads the full nested tree in sibling order. The read path is not
// transactional; it may observe a committed state newer than what the caller
// last wrote, never a partial write.
func (s *ProgramService) FetchTree(ctx context.Context, programID int64) (*models.Program, error) {
	program, err := s.programRepo.GetByID(ctx, programID)
	if err != nil {
		return nil, err
	}
	if err := s.loadChildren(ctx, program); err != nil {
		return nil, err
	}
	return program, nil
}

// FetchTreesForUser loads every program the user owns, each with its full
// tree. Returns pgx.ErrNoRows when the user has none.
func (s *ProgramService) FetchTreesForUser(ctx context.Context, userID int64) ([]models.Program, error) {
	programs, err := s.programRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(programs) == 0 {
		return nil, pgx.ErrNoRows
	}
	for i := range programs {
		if err := s.loadChildren(ctx, &programs[i]); err != nil {
			return nil, err
		}
	}
	return programs, nil
}

func (s *ProgramService) loadChildren(ctx context.Context, program *models.Program) error {
	workouts, err := s.workoutRepo.ListByProgramID(ctx, program.ID)
	if err != nil {
		return err
	}
	for i := range workouts {
		exercises, err := s.exerciseRepo.ListByWorkoutID(ctx, workouts[i].ID)
		if err != nil {
			return err
		}
		for j := range exercises {
			sets, err := s.setRepo.ListByExerciseID(ctx, exercises[j].ID)
			if err != nil {
				return err
			}
			exercises[j].Sets = sets
		}
		workouts[i].Exercises = exercises
	}
	program.Workouts = workouts
	return nil
}

// insertWorkoutTree walks workout -> exercise -> set, inserting each row and
// threading the generated parent id into its children.
func insertWorkoutTree(
	ctx context.Context,
	tx pgx.Tx,
	programID int64,
	workouts []WorkoutSpec,
) ([]models.Workout, error) {
	workoutRepo := repository.NewWorkoutRepository(tx)
	exerciseRepo := repository.NewExerciseRepository(tx)
	setRepo := repository.NewSetRepository(tx)

	inserted := make([]models.Workout, 0, len(workouts))
	for _, workoutSpec := range workouts {
		workoutID, err := workoutRepo.Insert(ctx, programID, workoutSpec.Name, workoutSpec.Order)
		if err != nil {
			return nil, err
		}
		workout := models.Workout{
			ID:        workoutID,
			ProgramID: programID,
			Name:      workoutSpec.Name,
			Order:     workoutSpec.Order,
			Exercises: make([]models.Exercise, 0, len(workoutSpec.Exercises)),
		}

		for _, exerciseSpec := range workoutSpec.Exercises {
			exerciseID, err := exerciseRepo.Insert(
				ctx,
				workoutID,
				exerciseSpec.CatalogExerciseID,
				exerciseSpec.Order,
			)
			if err != nil {
				return nil, err
			}
			exercise := models.Exercise{
				ID:                exerciseID,
				WorkoutID:         workoutID,
				CatalogExerciseID: exerciseSpec.CatalogExerciseID,
				Order:             exerciseSpec.Order,
				Sets:              make([]models.Set, 0, len(exerciseSpec.Sets)),
			}

			for _, setSpec := range exerciseSpec.Sets {
				setID, err := setRepo.Insert(ctx, exerciseID, setSpec.Reps, setSpec.Weight, setSpec.Order)
				if err != nil {
					return nil, err
				}
				exercise.Sets = append(exercise.Sets, models.Set{
					ID:         setID,
					ExerciseID: exerciseID,
					Reps:       setSpec.Reps,
					Weight:     setSpec.Weight,
					Order:      setSpec.Order,
				})
			}

			workout.Exercises = append(workout.Exercises, exercise)
		}

		inserted = append(inserted, workout)
	}

	return inserted, nil
}

func validateProgramFields(fields *repository.ProgramFields) error {
	fields.Name = strings.TrimSpace(fields.Name)
	if fields.UserID <= 0 || fields.Name == "" {
		return ErrInvalidInput
	}
	if fields.ProgramDuration < 0 || fields.DaysPerWeek < 0 {
		return ErrInvalidInput
	}
	switch strings.ToLower(strings.TrimSpace(fields.DurationUnit)) {
	case "days", "weeks", "months":
		fields.DurationUnit = strings.ToLower(strings.TrimSpace(fields.DurationUnit))
	default:
		return ErrInvalidInput
	}
	return nil
}

// normalizeSpecs sorts every sibling list by its submitted order and
// renumbers to a dense 1..N, so the stored tree satisfies the ordering
// invariant no matter what the client sent.
func normalizeSpecs(workouts []WorkoutSpec) []WorkoutSpec {
	sort.SliceStable(workouts, func(i, j int) bool { return workouts[i].Order < workouts[j].Order })
	ordering.Normalize(workouts, func(w *WorkoutSpec, n int) { w.Order = n })
	for i := range workouts {
		exercises := workouts[i].Exercises
		sort.SliceStable(exercises, func(a, b int) bool { return exercises[a].Order < exercises[b].Order })
		ordering.Normalize(exercises, func(e *ExerciseSpec, n int) { e.Order = n })
		for j := range exercises {
			sets := exercises[j].Sets
			sort.SliceStable(sets, func(a, b int) bool { return sets[a].Order < sets[b].Order })
			ordering.Normalize(sets, func(s *SetSpec, n int) { s.Order = n })
		}
	}
	return workouts
}

func assembleProgram(programID int64, fields repository.ProgramFields, workouts []models.Workout) *models.Program {
	return &models.Program{
		ID:              programID,
		UserID:          fields.UserID,
		Name:            fields.Name,
		ProgramDuration: fields.ProgramDuration,
		DurationUnit:    fields.DurationUnit,
		DaysPerWeek:     fields.DaysPerWeek,
		MainGoal:        fields.MainGoal,
		Workouts:        workouts,
	}
}
