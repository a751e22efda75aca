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

type activeProgramManager interface {
	SetActive(ctx context.Context, userID, programID int64) error
	GetActive(ctx context.Context, userID int64) (*models.ActiveProgram, error)
	ClearActive(ctx context.Context, userID int64) error
}

type setActiveProgramRequest struct {
	ProgramID int64 `json:"program_id"`
}

type ActiveProgramHandler struct {
	service activeProgramManager
}

func NewActiveProgramHandler(service activeProgramManager) *ActiveProgramHandler {
	return &ActiveProgramHandler{service: service}
}

func (h *ActiveProgramHandler) SetActiveProgram(c *fiber.Ctx) error {
	userID, err := strconv.ParseInt(c.Params("user_id"), 10, 64)
	if err != nil || userID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid user id"})
	}

	var req setActiveProgramRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if err := h.service.SetActive(c.Context(), userID, req.ProgramID); err != nil {
		return mapActiveProgramError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Active program set successfully"})
}

func (h *ActiveProgramHandler) GetActiveProgram(c *fiber.Ctx) error {
	userID, err := strconv.ParseInt(c.Params("user_id"), 10, 64)
	if err != nil || userID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid user id"})
	}

	assignment, err := h.service.GetActive(c.Context(), userID)
	if err != nil {
		return mapActiveProgramError(c, err)
	}

	return c.JSON(assignment)
}

func (h *ActiveProgramHandler) ClearActiveProgram(c *fiber.Ctx) error {
	userID, err := strconv.ParseInt(c.Params("user_id"), 10, 64)
	if err != nil || userID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid user id"})
	}

	if err := h.service.ClearActive(c.Context(), userID); err != nil {
		return mapActiveProgramError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Active program cleared"})
}

func mapActiveProgramError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request"})
	case errors.Is(err, services.ErrNotProgramOwner):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
	case errors.Is(err, pgx.ErrNoRows):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "No active program"})
	default:
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"error": "Failed to process active program request"})
	}
}
