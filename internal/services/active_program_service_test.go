package services

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/require"
	"github.com/tokyo-lab/workout-tracker-app/internal/repository"
)

func newActiveProgramService(t *testing.T) (*ActiveProgramService, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	service := NewActiveProgramService(
		repository.NewActiveProgramRepository(mock),
		repository.NewProgramRepository(mock),
	)
	return service, mock
}

func programRow(id, userID int64) *pgxmock.Rows {
	return pgxmock.NewRows([]string{
		"id", "user_id", "name", "program_duration", "days_per_week", "duration_unit", "main_goal", "created_at",
	}).AddRow(id, userID, "Push Pull Legs", 12, 3, "weeks", "Strength", time.Now())
}

func TestSetActiveUpsertsAssignment(t *testing.T) {
	service, mock := newActiveProgramService(t)
	defer mock.Close()

	mock.ExpectQuery(`FROM programs`).
		WithArgs(int64(7)).
		WillReturnRows(programRow(7, 2))
	mock.ExpectExec(`INSERT INTO active_programs`).
		WithArgs(int64(2), int64(7)).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, service.SetActive(context.Background(), 2, 7))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSetActiveRejectsForeignProgram(t *testing.T) {
	service, mock := newActiveProgramService(t)
	defer mock.Close()

	mock.ExpectQuery(`FROM programs`).
		WithArgs(int64(7)).
		WillReturnRows(programRow(7, 99))

	err := service.SetActive(context.Background(), 2, 7)
	require.ErrorIs(t, err, ErrNotProgramOwner)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSetActiveUnknownProgram(t *testing.T) {
	service, mock := newActiveProgramService(t)
	defer mock.Close()

	mock.ExpectQuery(`FROM programs`).
		WithArgs(int64(404)).
		WillReturnError(pgx.ErrNoRows)

	err := service.SetActive(context.Background(), 2, 404)
	require.ErrorIs(t, err, pgx.ErrNoRows)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetActiveReturnsAssignment(t *testing.T) {
	service, mock := newActiveProgramService(t)
	defer mock.Close()

	updatedAt := time.Now()
	mock.ExpectQuery(`FROM active_programs`).
		WithArgs(int64(2)).
		WillReturnRows(pgxmock.NewRows([]string{"user_id", "program_id", "updated_at"}).
			AddRow(int64(2), int64(7), updatedAt))

	assignment, err := service.GetActive(context.Background(), 2)
	require.NoError(t, err)
	require.Equal(t, int64(7), assignment.ProgramID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestClearActiveNotFound(t *testing.T) {
	service, mock := newActiveProgramService(t)
	defer mock.Close()

	mock.ExpectExec(`DELETE FROM active_programs`).
		WithArgs(int64(2)).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err := service.ClearActive(context.Background(), 2)
	require.ErrorIs(t, err, pgx.ErrNoRows)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestActiveProgramValidatesIDs(t *testing.T) {
	service, mock := newActiveProgramService(t)
	defer mock.Close()

	require.ErrorIs(t, service.SetActive(context.Background(), 0, 7), ErrInvalidInput)
	require.ErrorIs(t, service.SetActive(context.Background(), 2, 0), ErrInvalidInput)
	_, err := service.GetActive(context.Background(), 0)
	require.ErrorIs(t, err, ErrInvalidInput)
	require.ErrorIs(t, service.ClearActive(context.Background(), -4), ErrInvalidInput)
	require.NoError(t, mock.ExpectationsWereMet())
}
