package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/tokyo-lab/workout-tracker-app/internal/models"
	"github.com/tokyo-lab/workout-tracker-app/internal/repository"
	"github.com/tokyo-lab/workout-tracker-app/internal/services"
)

type stubProgramService struct {
	createResult  *models.Program
	createErr     error
	replaceResult *models.Program
	replaceErr    error
	deleteErr     error
	fetchResult   *models.Program
	fetchErr      error
	listResult    []models.Program
	listErr       error
	lastFields    repository.ProgramFields
	lastWorkouts  []services.WorkoutSpec
	lastProgramID int64
	lastUserID    int64
}

func (s *stubProgramService) CreateProgram(_ context.Context, fields repository.ProgramFields, workouts []services.WorkoutSpec) (*models.Program, error) {
	s.lastFields = fields
	s.lastWorkouts = workouts
	return s.createResult, s.createErr
}

func (s *stubProgramService) ReplaceProgram(_ context.Context, programID int64, fields repository.ProgramFields, workouts []services.WorkoutSpec) (*models.Program, error) {
	s.lastProgramID = programID
	s.lastFields = fields
	s.lastWorkouts = workouts
	return s.replaceResult, s.replaceErr
}

func (s *stubProgramService) DeleteProgram(_ context.Context, programID int64) error {
	s.lastProgramID = programID
	return s.deleteErr
}

func (s *stubProgramService) FetchTree(_ context.Context, programID int64) (*models.Program, error) {
	s.lastProgramID = programID
	return s.fetchResult, s.fetchErr
}

func (s *stubProgramService) FetchTreesForUser(_ context.Context, userID int64) ([]models.Program, error) {
	s.lastUserID = userID
	return s.listResult, s.listErr
}

func newProgramApp(service programTreeService) *fiber.App {
	handler := NewProgramHandler(service)
	app := fiber.New()
	app.Post("/api/programs", handler.CreateProgram)
	app.Put("/api/programs/:program_id", handler.ReplaceProgram)
	app.Delete("/api/programs/:program_id", handler.DeleteProgram)
	app.Get("/api/programs/:program_id", handler.GetProgram)
	app.Get("/api/users/:user_id/programs", handler.GetUserPrograms)
	return app
}

func TestCreateProgramReturnsCreatedTree(t *testing.T) {
	service := &stubProgramService{
		createResult: &models.Program{
			ID:     7,
			UserID: 2,
			Name:   "Push Pull Legs",
			Workouts: []models.Workout{
				{ID: 11, ProgramID: 7, Name: "W1", Order: 1},
			},
		},
	}
	app := newProgramApp(service)

	req := httptest.NewRequest(http.MethodPost, "/api/programs", strings.NewReader(`{
		"user_id": 2,
		"name": "Push Pull Legs",
		"program_duration": 12,
		"days_per_week": 3,
		"duration_unit": "weeks",
		"main_goal": "Strength",
		"workouts": [
			{
				"name": "W1",
				"order": 1,
				"exercises": [
					{
						"catalog_exercise_id": 5,
						"order": 1,
						"sets": [{"reps": 10, "weight": 50, "order": 1}]
					}
				]
			}
		]
	}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	if service.lastFields.UserID != 2 || service.lastFields.Name != "Push Pull Legs" {
		t.Fatalf("unexpected fields passed to service: %+v", service.lastFields)
	}
	if len(service.lastWorkouts) != 1 {
		t.Fatalf("expected 1 workout spec, got %d", len(service.lastWorkouts))
	}
	if len(service.lastWorkouts[0].Exercises) != 1 || len(service.lastWorkouts[0].Exercises[0].Sets) != 1 {
		t.Fatalf("workout spec lost its children: %+v", service.lastWorkouts[0])
	}
	set := service.lastWorkouts[0].Exercises[0].Sets[0]
	if set.Reps == nil || *set.Reps != 10 || set.Weight == nil || *set.Weight != 50 {
		t.Fatalf("unexpected set spec: %+v", set)
	}

	var body struct {
		Message string          `json:"message"`
		Program *models.Program `json:"program"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Program == nil || body.Program.ID != 7 {
		t.Fatalf("expected program id 7 in response, got %+v", body.Program)
	}
}

func TestCreateProgramTreatsNonListWorkoutsAsEmpty(t *testing.T) {
	service := &stubProgramService{createResult: &models.Program{ID: 7}}
	app := newProgramApp(service)

	req := httptest.NewRequest(http.MethodPost, "/api/programs", strings.NewReader(`{
		"user_id": 2,
		"name": "Bare",
		"duration_unit": "weeks",
		"workouts": "not a list"
	}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	if len(service.lastWorkouts) != 0 {
		t.Fatalf("expected no workout specs, got %d", len(service.lastWorkouts))
	}
}

func TestCreateProgramRejectsMalformedBody(t *testing.T) {
	service := &stubProgramService{}
	app := newProgramApp(service)

	req := httptest.NewRequest(http.MethodPost, "/api/programs", strings.NewReader(`{not json`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestCreateProgramMapsInvalidInput(t *testing.T) {
	service := &stubProgramService{createErr: services.ErrInvalidInput}
	app := newProgramApp(service)

	req := httptest.NewRequest(http.MethodPost, "/api/programs", strings.NewReader(`{"user_id": 0}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestReplaceProgramPassesParsedID(t *testing.T) {
	service := &stubProgramService{replaceResult: &models.Program{ID: 7}}
	app := newProgramApp(service)

	req := httptest.NewRequest(http.MethodPut, "/api/programs/7", strings.NewReader(`{
		"user_id": 2,
		"name": "Renamed",
		"duration_unit": "weeks",
		"workouts": []
	}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if service.lastProgramID != 7 {
		t.Fatalf("expected program id 7, got %d", service.lastProgramID)
	}
}

func TestReplaceProgramNotFound(t *testing.T) {
	service := &stubProgramService{replaceErr: pgx.ErrNoRows}
	app := newProgramApp(service)

	req := httptest.NewRequest(http.MethodPut, "/api/programs/99", strings.NewReader(`{"user_id": 2}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestReplaceProgramRejectsBadID(t *testing.T) {
	service := &stubProgramService{}
	app := newProgramApp(service)

	req := httptest.NewRequest(http.MethodPut, "/api/programs/abc", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestDeleteProgramReportsServerError(t *testing.T) {
	service := &stubProgramService{deleteErr: errors.New("tx failed")}
	app := newProgramApp(service)

	req := httptest.NewRequest(http.MethodDelete, "/api/programs/7", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.StatusCode)
	}
}

func TestDeleteProgramSuccess(t *testing.T) {
	service := &stubProgramService{}
	app := newProgramApp(service)

	req := httptest.NewRequest(http.MethodDelete, "/api/programs/7", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if service.lastProgramID != 7 {
		t.Fatalf("expected program id 7, got %d", service.lastProgramID)
	}
}

func TestGetProgramReturnsBareTree(t *testing.T) {
	service := &stubProgramService{
		fetchResult: &models.Program{ID: 7, Name: "Push Pull Legs"},
	}
	app := newProgramApp(service)

	req := httptest.NewRequest(http.MethodGet, "/api/programs/7", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var program models.Program
	if err := json.NewDecoder(resp.Body).Decode(&program); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if program.ID != 7 || program.Name != "Push Pull Legs" {
		t.Fatalf("unexpected program: %+v", program)
	}
}

func TestGetUserProgramsNotFoundWhenEmpty(t *testing.T) {
	service := &stubProgramService{listErr: pgx.ErrNoRows}
	app := newProgramApp(service)

	req := httptest.NewRequest(http.MethodGet, "/api/users/2/programs", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
	if service.lastUserID != 2 {
		t.Fatalf("expected user id 2, got %d", service.lastUserID)
	}
}

func TestGetUserProgramsReturnsBareArray(t *testing.T) {
	service := &stubProgramService{
		listResult: []models.Program{{ID: 7}, {ID: 8}},
	}
	app := newProgramApp(service)

	req := httptest.NewRequest(http.MethodGet, "/api/users/2/programs", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var programs []models.Program
	if err := json.NewDecoder(resp.Body).Decode(&programs); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(programs) != 2 {
		t.Fatalf("expected 2 programs, got %d", len(programs))
	}
}
