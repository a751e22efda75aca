package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/tokyo-lab/workout-tracker-app/internal/models"
)

var ErrNotFound = errors.New("not found")

// Payload types mirror the server's request bodies for create and full
// replace. Ids are deliberately absent: the server assigns them fresh.
type ProgramPayload struct {
	UserID          int64            `json:"user_id"`
	Name            string           `json:"name"`
	ProgramDuration int              `json:"program_duration"`
	DaysPerWeek     int              `json:"days_per_week"`
	DurationUnit    string           `json:"duration_unit"`
	MainGoal        string           `json:"main_goal"`
	Workouts        []WorkoutPayload `json:"workouts"`
}

type WorkoutPayload struct {
	Name      string            `json:"name"`
	Order     int               `json:"order"`
	Exercises []ExercisePayload `json:"exercises"`
}

type ExercisePayload struct {
	CatalogExerciseID int64        `json:"catalog_exercise_id"`
	Order             int          `json:"order"`
	Sets              []SetPayload `json:"sets"`
}

type SetPayload struct {
	Reps   *int     `json:"reps"`
	Weight *float64 `json:"weight"`
	Order  int      `json:"order"`
}

// API is the network surface the sync engine depends on. HTTPClient is the
// real implementation; tests substitute a stub.
type API interface {
	CreateProgram(ctx context.Context, payload ProgramPayload) (*models.Program, error)
	ReplaceProgram(ctx context.Context, programID int64, payload ProgramPayload) (*models.Program, error)
	DeleteProgram(ctx context.Context, programID int64) error
	FetchProgram(ctx context.Context, programID int64) (*models.Program, error)
	AddExercise(ctx context.Context, workoutID, catalogExerciseID int64) (*models.Exercise, error)
	RemoveExercise(ctx context.Context, exerciseID int64) error
	AddSet(ctx context.Context, exerciseID int64, reps *int, weight *float64) (*models.Set, error)
	UpdateSet(ctx context.Context, setID int64, reps *int, weight *float64) (*models.Set, error)
	RemoveSet(ctx context.Context, setID int64) error
}

// HTTPClient talks to the server's JSON API. The standard library client is
// used directly; every call is a plain request/response round trip.
type HTTPClient struct {
	baseURL string
	http    *http.Client
}

func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

type programResponse struct {
	Program *models.Program `json:"program"`
}

type exerciseResponse struct {
	Exercise *models.Exercise `json:"exercise"`
}

type setResponse struct {
	Set *models.Set `json:"set"`
}

func (c *HTTPClient) CreateProgram(ctx context.Context, payload ProgramPayload) (*models.Program, error) {
	var resp programResponse
	if err := c.do(ctx, http.MethodPost, "/api/programs", payload, &resp); err != nil {
		return nil, err
	}
	return resp.Program, nil
}

func (c *HTTPClient) ReplaceProgram(
	ctx context.Context,
	programID int64,
	payload ProgramPayload,
) (*models.Program, error) {
	var resp programResponse
	path := fmt.Sprintf("/api/programs/%d", programID)
	if err := c.do(ctx, http.MethodPut, path, payload, &resp); err != nil {
		return nil, err
	}
	return resp.Program, nil
}

func (c *HTTPClient) DeleteProgram(ctx context.Context, programID int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/programs/%d", programID), nil, nil)
}

func (c *HTTPClient) FetchProgram(ctx context.Context, programID int64) (*models.Program, error) {
	var program models.Program
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/programs/%d", programID), nil, &program); err != nil {
		return nil, err
	}
	return &program, nil
}

func (c *HTTPClient) AddExercise(
	ctx context.Context,
	workoutID, catalogExerciseID int64,
) (*models.Exercise, error) {
	body := map[string]int64{"catalog_exercise_id": catalogExerciseID}
	var resp exerciseResponse
	path := fmt.Sprintf("/api/workouts/%d/exercises", workoutID)
	if err := c.do(ctx, http.MethodPost, path, body, &resp); err != nil {
		return nil, err
	}
	return resp.Exercise, nil
}

func (c *HTTPClient) RemoveExercise(ctx context.Context, exerciseID int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/exercises/%d", exerciseID), nil, nil)
}

func (c *HTTPClient) AddSet(
	ctx context.Context,
	exerciseID int64,
	reps *int,
	weight *float64,
) (*models.Set, error) {
	body := SetPayload{Reps: reps, Weight: weight}
	var resp setResponse
	path := fmt.Sprintf("/api/exercises/%d/sets", exerciseID)
	if err := c.do(ctx, http.MethodPost, path, body, &resp); err != nil {
		return nil, err
	}
	return resp.Set, nil
}

func (c *HTTPClient) UpdateSet(
	ctx context.Context,
	setID int64,
	reps *int,
	weight *float64,
) (*models.Set, error) {
	body := SetPayload{Reps: reps, Weight: weight}
	var resp setResponse
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/api/sets/%d", setID), body, &resp); err != nil {
		return nil, err
	}
	return resp.Set, nil
}

func (c *HTTPClient) RemoveSet(ctx context.Context, setID int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/sets/%d", setID), nil, nil)
}

func (c *HTTPClient) do(ctx context.Context, method, path string, body, out any) error {
	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode >= 400:
		var apiErr struct {
			Error string `json:"error"`
		}
		if decodeErr := json.NewDecoder(resp.Body).Decode(&apiErr); decodeErr == nil && apiErr.Error != "" {
			return fmt.Errorf("server returned %d: %s", resp.StatusCode, apiErr.Error)
		}
		return fmt.Errorf("server returned %d", resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
