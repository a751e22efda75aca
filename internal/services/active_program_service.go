package services

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/tokyo-lab/workout-tracker-app/internal/models"
	"github.com/tokyo-lab/workout-tracker-app/internal/repository"
)

var ErrNotProgramOwner = errors.New("program belongs to another user")

// ActiveProgramService manages which program a user is currently following.
// The assignment has its own lifecycle: program edits leave it alone, only a
// program delete clears it.
type ActiveProgramService struct {
	activeRepo  *repository.ActiveProgramRepository
	programRepo *repository.ProgramRepository
}

func NewActiveProgramService(
	activeRepo *repository.ActiveProgramRepository,
	programRepo *repository.ProgramRepository,
) *ActiveProgramService {
	return &ActiveProgramService{
		activeRepo:  activeRepo,
		programRepo: programRepo,
	}
}

func (s *ActiveProgramService) SetActive(ctx context.Context, userID, programID int64) error {
	if userID <= 0 || programID <= 0 {
		return ErrInvalidInput
	}

	program, err := s.programRepo.GetByID(ctx, programID)
	if err != nil {
		return err
	}
	if program.UserID != userID {
		return ErrNotProgramOwner
	}

	return s.activeRepo.Upsert(ctx, userID, programID)
}

func (s *ActiveProgramService) GetActive(ctx context.Context, userID int64) (*models.ActiveProgram, error) {
	if userID <= 0 {
		return nil, ErrInvalidInput
	}
	return s.activeRepo.GetByUserID(ctx, userID)
}

func (s *ActiveProgramService) ClearActive(ctx context.Context, userID int64) error {
	if userID <= 0 {
		return ErrInvalidInput
	}

	found, err := s.activeRepo.DeleteByUserID(ctx, userID)
	if err != nil {
		return err
	}
	if !found {
		return pgx.ErrNoRows
	}
	return nil
}
