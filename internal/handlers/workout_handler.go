package handlers

import (
	"context"
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/tokyo-lab/workout-tracker-app/internal/models"
	"github.com/tokyo-lab/workout-tracker-app/internal/services"
)

type workoutSessionService interface {
	AddExercise(ctx context.Context, workoutID, catalogExerciseID int64) (*models.Exercise, error)
	RemoveExercise(ctx context.Context, exerciseID int64) error
	AddSet(ctx context.Context, exerciseID int64, reps *int, weight *float64) (*models.Set, error)
	UpdateSet(ctx context.Context, setID int64, reps *int, weight *float64) (*models.Set, error)
	RemoveSet(ctx context.Context, setID int64) error
}

type addExerciseRequest struct {
	CatalogExerciseID int64 `json:"catalog_exercise_id"`
}

type setValuesRequest struct {
	Reps   *int     `json:"reps"`
	Weight *float64 `json:"weight"`
}

// WorkoutHandler serves the per-row endpoints used in active-workout mode.
type WorkoutHandler struct {
	service workoutSessionService
}

func NewWorkoutHandler(service workoutSessionService) *WorkoutHandler {
	return &WorkoutHandler{service: service}
}

func (h *WorkoutHandler) AddExercise(c *fiber.Ctx) error {
	workoutID, err := strconv.ParseInt(c.Params("workout_id"), 10, 64)
	if err != nil || workoutID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid workout id"})
	}

	var req addExerciseRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	exercise, err := h.service.AddExercise(c.Context(), workoutID, req.CatalogExerciseID)
	if err != nil {
		return mapWorkoutError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"exercise": exercise})
}

func (h *WorkoutHandler) RemoveExercise(c *fiber.Ctx) error {
	exerciseID, err := strconv.ParseInt(c.Params("exercise_id"), 10, 64)
	if err != nil || exerciseID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid exercise id"})
	}

	if err := h.service.RemoveExercise(c.Context(), exerciseID); err != nil {
		return mapWorkoutError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Exercise deleted successfully"})
}

func (h *WorkoutHandler) AddSet(c *fiber.Ctx) error {
	exerciseID, err := strconv.ParseInt(c.Params("exercise_id"), 10, 64)
	if err != nil || exerciseID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid exercise id"})
	}

	var req setValuesRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	set, err := h.service.AddSet(c.Context(), exerciseID, req.Reps, req.Weight)
	if err != nil {
		return mapWorkoutError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"set": set})
}

func (h *WorkoutHandler) UpdateSet(c *fiber.Ctx) error {
	setID, err := strconv.ParseInt(c.Params("set_id"), 10, 64)
	if err != nil || setID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid set id"})
	}

	var req setValuesRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	set, err := h.service.UpdateSet(c.Context(), setID, req.Reps, req.Weight)
	if err != nil {
		return mapWorkoutError(c, err)
	}

	return c.JSON(fiber.Map{"set": set})
}

func (h *WorkoutHandler) RemoveSet(c *fiber.Ctx) error {
	setID, err := strconv.ParseInt(c.Params("set_id"), 10, 64)
	if err != nil || setID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid set id"})
	}

	if err := h.service.RemoveSet(c.Context(), setID); err != nil {
		return mapWorkoutError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Set deleted successfully"})
}

func mapWorkoutError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrInvalidInput), errors.Is(err, services.ErrCatalogExercise):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request"})
	case errors.Is(err, pgx.ErrNoRows):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Not found"})
	default:
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"error": "Failed to process workout request"})
	}
}
