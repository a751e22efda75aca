package models

import "time"

// Program is the root of the training tree. Workouts are kept in sibling
// order (1..N) whenever a Program is assembled by the read path.
type Program struct {
	ID              int64     `json:"id"`
	UserID          int64     `json:"user_id"`
	Name            string    `json:"name"`
	ProgramDuration int       `json:"program_duration"`
	DurationUnit    string    `json:"duration_unit"`
	DaysPerWeek     int       `json:"days_per_week"`
	MainGoal        string    `json:"main_goal"`
	CreatedAt       time.Time `json:"created_at"`
	Workouts        []Workout `json:"workouts"`
}

type Workout struct {
	ID        int64      `json:"id"`
	ProgramID int64      `json:"program_id"`
	Name      string     `json:"name"`
	Order     int        `json:"order"`
	Exercises []Exercise `json:"exercises"`
}

// Exercise references an entry in the read-only exercise catalog. Name,
// Muscle and Equipment are denormalized from the catalog joins on fetch and
// are never written back.
type Exercise struct {
	ID                int64  `json:"id"`
	WorkoutID         int64  `json:"workout_id"`
	CatalogExerciseID int64  `json:"catalog_exercise_id"`
	Order             int    `json:"order"`
	Name              string `json:"exercise_name,omitempty"`
	Muscle            string `json:"muscle,omitempty"`
	Equipment         string `json:"equipment,omitempty"`
	Sets              []Set  `json:"sets"`
}

// Set weight/reps stay nil until the user fills them in mid-workout.
type Set struct {
	ID         int64    `json:"id"`
	ExerciseID int64    `json:"exercise_id"`
	Reps       *int     `json:"reps"`
	Weight     *float64 `json:"weight"`
	Order      int      `json:"order"`
}
