package services

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/require"
	"github.com/tokyo-lab/workout-tracker-app/internal/repository"
)

func newProgramService(t *testing.T) (*ProgramService, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	service := NewProgramService(
		mock,
		repository.NewProgramRepository(mock),
		repository.NewWorkoutRepository(mock),
		repository.NewExerciseRepository(mock),
		repository.NewSetRepository(mock),
	)
	return service, mock
}

func validFields() repository.ProgramFields {
	return repository.ProgramFields{
		UserID:          2,
		Name:            "Push Pull Legs",
		ProgramDuration: 12,
		DaysPerWeek:     3,
		DurationUnit:    "weeks",
		MainGoal:        "Strength",
	}
}

func sampleTree() []WorkoutSpec {
	reps10, reps8 := 10, 8
	w50, w55 := 50.0, 55.0
	return []WorkoutSpec{
		{
			Name:  "W1",
			Order: 1,
			Exercises: []ExerciseSpec{
				{
					CatalogExerciseID: 5,
					Order:             1,
					Sets: []SetSpec{
						{Reps: &reps10, Weight: &w50, Order: 1},
						{Reps: &reps8, Weight: &w55, Order: 2},
					},
				},
			},
		},
	}
}

func TestCreateProgramInsertsParentBeforeChildren(t *testing.T) {
	service, mock := newProgramService(t)
	defer mock.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO programs`).
		WithArgs(int64(2), "Push Pull Legs", 12, 3, "weeks", "Strength").
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(7)))
	mock.ExpectQuery(`INSERT INTO workouts`).
		WithArgs(int64(7), "W1", 1).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(11)))
	mock.ExpectQuery(`INSERT INTO exercises`).
		WithArgs(int64(11), int64(5), 1).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(21)))
	reps10, reps8 := 10, 8
	w50, w55 := 50.0, 55.0
	mock.ExpectQuery(`INSERT INTO sets`).
		WithArgs(int64(21), &reps10, &w50, 1).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(31)))
	mock.ExpectQuery(`INSERT INTO sets`).
		WithArgs(int64(21), &reps8, &w55, 2).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(32)))
	mock.ExpectCommit()
	mock.ExpectRollback()

	program, err := service.CreateProgram(context.Background(), validFields(), sampleTree())
	require.NoError(t, err)
	require.Equal(t, int64(7), program.ID)
	require.Len(t, program.Workouts, 1)
	require.Equal(t, int64(11), program.Workouts[0].ID)
	require.Len(t, program.Workouts[0].Exercises, 1)
	require.Len(t, program.Workouts[0].Exercises[0].Sets, 2)
	require.Equal(t, 1, program.Workouts[0].Exercises[0].Sets[0].Order)
	require.Equal(t, 2, program.Workouts[0].Exercises[0].Sets[1].Order)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateProgramRollsBackWhenLastInsertFails(t *testing.T) {
	service, mock := newProgramService(t)
	defer mock.Close()

	boom := errors.New("constraint violation")
	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO programs`).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(7)))
	mock.ExpectQuery(`INSERT INTO workouts`).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(11)))
	mock.ExpectQuery(`INSERT INTO exercises`).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(21)))
	mock.ExpectQuery(`INSERT INTO sets`).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(31)))
	mock.ExpectQuery(`INSERT INTO sets`).WillReturnError(boom)
	mock.ExpectRollback()

	_, err := service.CreateProgram(context.Background(), validFields(), sampleTree())
	require.ErrorIs(t, err, boom)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateProgramValidatesFields(t *testing.T) {
	service, mock := newProgramService(t)
	defer mock.Close()

	fields := validFields()
	fields.Name = "   "
	_, err := service.CreateProgram(context.Background(), fields, nil)
	require.ErrorIs(t, err, ErrInvalidInput)

	fields = validFields()
	fields.UserID = 0
	_, err = service.CreateProgram(context.Background(), fields, nil)
	require.ErrorIs(t, err, ErrInvalidInput)

	fields = validFields()
	fields.DurationUnit = "fortnights"
	_, err = service.CreateProgram(context.Background(), fields, nil)
	require.ErrorIs(t, err, ErrInvalidInput)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReplaceProgramDeletesLeavesFirstThenReinserts(t *testing.T) {
	service, mock := newProgramService(t)
	defer mock.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`SELECT pg_advisory_xact_lock\(\$1\)`).
		WithArgs(int64(7)).
		WillReturnResult(pgxmock.NewResult("SELECT", 1))
	mock.ExpectExec(`UPDATE programs`).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec(`DELETE FROM sets`).
		WithArgs(int64(7)).
		WillReturnResult(pgxmock.NewResult("DELETE", 2))
	mock.ExpectExec(`DELETE FROM exercises`).
		WithArgs(int64(7)).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectExec(`DELETE FROM workouts`).
		WithArgs(int64(7)).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectQuery(`INSERT INTO workouts`).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(12)))
	mock.ExpectQuery(`INSERT INTO exercises`).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(22)))
	mock.ExpectQuery(`INSERT INTO sets`).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(33)))
	mock.ExpectQuery(`INSERT INTO sets`).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(34)))
	mock.ExpectCommit()
	mock.ExpectRollback()

	program, err := service.ReplaceProgram(context.Background(), 7, validFields(), sampleTree())
	require.NoError(t, err)
	require.Equal(t, int64(7), program.ID)
	require.Equal(t, int64(12), program.Workouts[0].ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReplaceProgramNotFound(t *testing.T) {
	service, mock := newProgramService(t)
	defer mock.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`SELECT pg_advisory_xact_lock\(\$1\)`).
		WithArgs(int64(99)).
		WillReturnResult(pgxmock.NewResult("SELECT", 1))
	mock.ExpectExec(`UPDATE programs`).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	mock.ExpectRollback()

	_, err := service.ReplaceProgram(context.Background(), 99, validFields(), nil)
	require.ErrorIs(t, err, pgx.ErrNoRows)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReplaceProgramRollsBackOnInsertFailure(t *testing.T) {
	service, mock := newProgramService(t)
	defer mock.Close()

	boom := errors.New("connection lost")
	mock.ExpectBegin()
	mock.ExpectExec(`SELECT pg_advisory_xact_lock\(\$1\)`).
		WillReturnResult(pgxmock.NewResult("SELECT", 1))
	mock.ExpectExec(`UPDATE programs`).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec(`DELETE FROM sets`).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))
	mock.ExpectExec(`DELETE FROM exercises`).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))
	mock.ExpectExec(`DELETE FROM workouts`).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))
	mock.ExpectQuery(`INSERT INTO workouts`).WillReturnError(boom)
	mock.ExpectRollback()

	_, err := service.ReplaceProgram(context.Background(), 7, validFields(), sampleTree())
	require.ErrorIs(t, err, boom)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteProgramDeletesInDependencyOrder(t *testing.T) {
	service, mock := newProgramService(t)
	defer mock.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`SELECT pg_advisory_xact_lock\(\$1\)`).
		WithArgs(int64(7)).
		WillReturnResult(pgxmock.NewResult("SELECT", 1))
	mock.ExpectExec(`DELETE FROM sets`).
		WithArgs(int64(7)).
		WillReturnResult(pgxmock.NewResult("DELETE", 2))
	mock.ExpectExec(`DELETE FROM exercises`).
		WithArgs(int64(7)).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectExec(`DELETE FROM workouts`).
		WithArgs(int64(7)).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectExec(`DELETE FROM active_programs`).
		WithArgs(int64(7)).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))
	mock.ExpectExec(`DELETE FROM programs`).
		WithArgs(int64(7)).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectCommit()
	mock.ExpectRollback()

	require.NoError(t, service.DeleteProgram(context.Background(), 7))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteProgramNotFound(t *testing.T) {
	service, mock := newProgramService(t)
	defer mock.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`SELECT pg_advisory_xact_lock\(\$1\)`).
		WillReturnResult(pgxmock.NewResult("SELECT", 1))
	mock.ExpectExec(`DELETE FROM sets`).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))
	mock.ExpectExec(`DELETE FROM exercises`).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))
	mock.ExpectExec(`DELETE FROM workouts`).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))
	mock.ExpectExec(`DELETE FROM active_programs`).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))
	mock.ExpectExec(`DELETE FROM programs`).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))
	mock.ExpectRollback()

	err := service.DeleteProgram(context.Background(), 42)
	require.ErrorIs(t, err, pgx.ErrNoRows)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestNormalizeSpecsProducesDenseOrders(t *testing.T) {
	workouts := []WorkoutSpec{
		{Name: "B", Order: 9},
		{Name: "A", Order: 2, Exercises: []ExerciseSpec{
			{CatalogExerciseID: 1, Order: 5, Sets: []SetSpec{{Order: 7}, {Order: 3}}},
			{CatalogExerciseID: 2, Order: 5},
		}},
	}

	workouts = normalizeSpecs(workouts)
	require.Equal(t, "A", workouts[0].Name)
	require.Equal(t, 1, workouts[0].Order)
	require.Equal(t, "B", workouts[1].Name)
	require.Equal(t, 2, workouts[1].Order)
	require.Equal(t, 1, workouts[0].Exercises[0].Order)
	require.Equal(t, 2, workouts[0].Exercises[1].Order)
	require.Equal(t, 1, workouts[0].Exercises[0].Sets[0].Order)
	require.Equal(t, 2, workouts[0].Exercises[0].Sets[1].Order)
}
