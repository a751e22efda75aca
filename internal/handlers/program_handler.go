package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/tokyo-lab/workout-tracker-app/internal/models"
	"github.com/tokyo-lab/workout-tracker-app/internal/repository"
	"github.com/tokyo-lab/workout-tracker-app/internal/services"
)

type programTreeService interface {
	CreateProgram(
		ctx context.Context,
		fields repository.ProgramFields,
		workouts []services.WorkoutSpec,
	) (*models.Program, error)
	ReplaceProgram(
		ctx context.Context,
		programID int64,
		fields repository.ProgramFields,
		workouts []services.WorkoutSpec,
	) (*models.Program, error)
	DeleteProgram(ctx context.Context, programID int64) error
	FetchTree(ctx context.Context, programID int64) (*models.Program, error)
	FetchTreesForUser(ctx context.Context, userID int64) ([]models.Program, error)
}

type setRequest struct {
	Reps   *int     `json:"reps"`
	Weight *float64 `json:"weight"`
	Order  int      `json:"order"`
}

type exerciseRequest struct {
	CatalogExerciseID int64        `json:"catalog_exercise_id"`
	Order             int          `json:"order"`
	Sets              []setRequest `json:"sets"`
}

type workoutRequest struct {
	Name      string            `json:"name"`
	Order     int               `json:"order"`
	Exercises []exerciseRequest `json:"exercises"`
}

type programRequest struct {
	UserID          int64           `json:"user_id"`
	Name            string          `json:"name"`
	ProgramDuration int             `json:"program_duration"`
	DaysPerWeek     int             `json:"days_per_week"`
	DurationUnit    string          `json:"duration_unit"`
	MainGoal        string          `json:"main_goal"`
	Workouts        json.RawMessage `json:"workouts"`
}

type ProgramHandler struct {
	service programTreeService
}

func NewProgramHandler(service programTreeService) *ProgramHandler {
	return &ProgramHandler{service: service}
}

func (h *ProgramHandler) CreateProgram(c *fiber.Ctx) error {
	var req programRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	program, err := h.service.CreateProgram(c.Context(), req.fields(), req.workoutSpecs())
	if err != nil {
		return mapProgramError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Program with workouts, exercises, and sets created successfully",
		"program": program,
	})
}

func (h *ProgramHandler) ReplaceProgram(c *fiber.Ctx) error {
	programID, err := strconv.ParseInt(c.Params("program_id"), 10, 64)
	if err != nil || programID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid program id"})
	}

	var req programRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	program, err := h.service.ReplaceProgram(c.Context(), programID, req.fields(), req.workoutSpecs())
	if err != nil {
		return mapProgramError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Program updated successfully",
		"program": program,
	})
}

func (h *ProgramHandler) DeleteProgram(c *fiber.Ctx) error {
	programID, err := strconv.ParseInt(c.Params("program_id"), 10, 64)
	if err != nil || programID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid program id"})
	}

	if err := h.service.DeleteProgram(c.Context(), programID); err != nil {
		return mapProgramError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Program and all associated data deleted successfully"})
}

func (h *ProgramHandler) GetProgram(c *fiber.Ctx) error {
	programID, err := strconv.ParseInt(c.Params("program_id"), 10, 64)
	if err != nil || programID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid program id"})
	}

	program, err := h.service.FetchTree(c.Context(), programID)
	if err != nil {
		return mapProgramError(c, err)
	}

	return c.JSON(program)
}

func (h *ProgramHandler) GetUserPrograms(c *fiber.Ctx) error {
	userID, err := strconv.ParseInt(c.Params("user_id"), 10, 64)
	if err != nil || userID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid user id"})
	}

	programs, err := h.service.FetchTreesForUser(c.Context(), userID)
	if err != nil {
		return mapProgramError(c, err)
	}

	return c.JSON(programs)
}

func (r programRequest) fields() repository.ProgramFields {
	return repository.ProgramFields{
		UserID:          r.UserID,
		Name:            r.Name,
		ProgramDuration: r.ProgramDuration,
		DaysPerWeek:     r.DaysPerWeek,
		DurationUnit:    r.DurationUnit,
		MainGoal:        r.MainGoal,
	}
}

// workoutSpecs decodes the workouts field, treating an absent or non-list
// value as an empty list rather than rejecting the whole request.
func (r programRequest) workoutSpecs() []services.WorkoutSpec {
	if len(r.Workouts) == 0 {
		return nil
	}

	var workouts []workoutRequest
	if err := json.Unmarshal(r.Workouts, &workouts); err != nil {
		log.Printf("workouts is not an array, treating as empty: %v", err)
		return nil
	}

	specs := make([]services.WorkoutSpec, 0, len(workouts))
	for _, workout := range workouts {
		workoutSpec := services.WorkoutSpec{
			Name:      workout.Name,
			Order:     workout.Order,
			Exercises: make([]services.ExerciseSpec, 0, len(workout.Exercises)),
		}
		for _, exercise := range workout.Exercises {
			exerciseSpec := services.ExerciseSpec{
				CatalogExerciseID: exercise.CatalogExerciseID,
				Order:             exercise.Order,
				Sets:              make([]services.SetSpec, 0, len(exercise.Sets)),
			}
			for _, set := range exercise.Sets {
				exerciseSpec.Sets = append(exerciseSpec.Sets, services.SetSpec{
					Reps:   set.Reps,
					Weight: set.Weight,
					Order:  set.Order,
				})
			}
			workoutSpec.Exercises = append(workoutSpec.Exercises, exerciseSpec)
		}
		specs = append(specs, workoutSpec)
	}
	return specs
}

func mapProgramError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request"})
	case errors.Is(err, pgx.ErrNoRows):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "No programs found"})
	default:
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"error": "Failed to process program request"})
	}
}
