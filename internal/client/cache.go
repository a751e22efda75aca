// Package client mirrors one program's workout tree in memory so edits can be
// staged ahead of the server. In edit mode mutations accumulate locally and
// are flushed as one full-tree save; in active-workout mode each set or
// exercise edit is pushed immediately and confirmed or reverted per call.
package client

import (
	"strconv"

	"github.com/gofrs/uuid/v5"
	"github.com/tokyo-lab/workout-tracker-app/internal/models"
	"github.com/tokyo-lab/workout-tracker-app/pkg/ordering"
)

type Mode string

const (
	// ModeEdit batches structural edits into a full-tree replace.
	ModeEdit Mode = "edit"
	// ModeActive pushes each set/exercise edit to the server immediately.
	ModeActive Mode = "active"
)

// EntityState is the UI-only state attached to a cached node. It never
// triggers network calls and must survive reconciliation.
type EntityState struct {
	Expanded     bool
	EditingTitle bool
}

type ProgramMeta struct {
	ID              int64
	UserID          int64
	Name            string
	ProgramDuration int
	DurationUnit    string
	DaysPerWeek     int
	MainGoal        string
}

type WorkoutNode struct {
	Key   string
	ID    int64
	Name  string
	Order int
	State EntityState
}

type ExerciseNode struct {
	Key               string
	ID                int64
	WorkoutKey        string
	CatalogExerciseID int64
	Order             int
	Name              string
	Muscle            string
	Equipment         string
	State             EntityState
}

type SetNode struct {
	Key         string
	ID          int64
	ExerciseKey string
	Reps        *int
	Weight      *float64
	Order       int
}

// ProgramCache holds the keyed map and the parallel ordered view of one
// program's tree. Both representations are updated in the same call; there is
// never a window where they disagree.
type ProgramCache struct {
	mode  Mode
	dirty bool

	program ProgramMeta

	workouts    map[string]*WorkoutNode
	exercises   map[string]*ExerciseNode
	sets        map[string]*SetNode
	workoutKeys []string
	// ordered child keys per parent key
	exerciseKeys map[string][]string
	setKeys      map[string][]string
}

func NewProgramCache(mode Mode) *ProgramCache {
	return &ProgramCache{
		mode:         mode,
		workouts:     make(map[string]*WorkoutNode),
		exercises:    make(map[string]*ExerciseNode),
		sets:         make(map[string]*SetNode),
		exerciseKeys: make(map[string][]string),
		setKeys:      make(map[string][]string),
	}
}

func (c *ProgramCache) Mode() Mode  { return c.mode }
func (c *ProgramCache) Dirty() bool { return c.dirty }
func (c *ProgramCache) Saved() bool { return c.program.ID != 0 }

func (c *ProgramCache) Program() ProgramMeta { return c.program }

// tempKey returns a client-side id for an entity that has not been saved yet.
// UUIDs can never collide with the server's integer ids.
func tempKey() string {
	return uuid.Must(uuid.NewV4()).String()
}

func serverKey(id int64) string {
	return strconv.FormatInt(id, 10)
}

// LoadTree replaces the cache contents with a server tree, keying every node
// by its server id. UI state starts collapsed.
func (c *ProgramCache) LoadTree(program *models.Program) {
	c.reset()
	c.program = ProgramMeta{
		ID:              program.ID,
		UserID:          program.UserID,
		Name:            program.Name,
		ProgramDuration: program.ProgramDuration,
		DurationUnit:    program.DurationUnit,
		DaysPerWeek:     program.DaysPerWeek,
		MainGoal:        program.MainGoal,
	}

	for _, workout := range program.Workouts {
		workoutKey := serverKey(workout.ID)
		c.workouts[workoutKey] = &WorkoutNode{
			Key:   workoutKey,
			ID:    workout.ID,
			Name:  workout.Name,
			Order: workout.Order,
		}
		c.workoutKeys = append(c.workoutKeys, workoutKey)

		for _, exercise := range workout.Exercises {
			exerciseKey := serverKey(exercise.ID)
			c.exercises[exerciseKey] = &ExerciseNode{
				Key:               exerciseKey,
				ID:                exercise.ID,
				WorkoutKey:        workoutKey,
				CatalogExerciseID: exercise.CatalogExerciseID,
				Order:             exercise.Order,
				Name:              exercise.Name,
				Muscle:            exercise.Muscle,
				Equipment:         exercise.Equipment,
			}
			c.exerciseKeys[workoutKey] = append(c.exerciseKeys[workoutKey], exerciseKey)

			for _, set := range exercise.Sets {
				setKey := serverKey(set.ID)
				c.sets[setKey] = &SetNode{
					Key:         setKey,
					ID:          set.ID,
					ExerciseKey: exerciseKey,
					Reps:        copyInt(set.Reps),
					Weight:      copyFloat(set.Weight),
					Order:       set.Order,
				}
				c.setKeys[exerciseKey] = append(c.setKeys[exerciseKey], setKey)
			}
		}
	}
	c.dirty = false
}

func (c *ProgramCache) reset() {
	c.workouts = make(map[string]*WorkoutNode)
	c.exercises = make(map[string]*ExerciseNode)
	c.sets = make(map[string]*SetNode)
	c.workoutKeys = nil
	c.exerciseKeys = make(map[string][]string)
	c.setKeys = make(map[string][]string)
}

// InitProgram seeds an unsaved program (no server id yet).
func (c *ProgramCache) InitProgram(meta ProgramMeta) {
	c.reset()
	meta.ID = 0
	c.program = meta
	c.dirty = true
}

func (c *ProgramCache) UpdateProgramDetails(meta ProgramMeta) {
	meta.ID = c.program.ID
	c.program = meta
	c.dirty = true
}

func (c *ProgramCache) AddWorkout(name string) string {
	key := tempKey()
	c.workouts[key] = &WorkoutNode{Key: key, Name: name}
	c.workoutKeys = ordering.Append(c.workoutKeys, key, c.setWorkoutOrder)
	c.dirty = true
	return key
}

func (c *ProgramCache) RenameWorkout(key, name string) bool {
	workout, ok := c.workouts[key]
	if !ok {
		return false
	}
	workout.Name = name
	c.dirty = true
	return true
}

func (c *ProgramCache) RemoveWorkout(key string) bool {
	if _, ok := c.workouts[key]; !ok {
		return false
	}
	for _, exerciseKey := range c.exerciseKeys[key] {
		for _, setKey := range c.setKeys[exerciseKey] {
			delete(c.sets, setKey)
		}
		delete(c.setKeys, exerciseKey)
		delete(c.exercises, exerciseKey)
	}
	delete(c.exerciseKeys, key)
	delete(c.workouts, key)
	c.workoutKeys, _ = ordering.RemoveFunc(
		c.workoutKeys,
		func(k string) bool { return k == key },
		c.setWorkoutOrder,
	)
	c.dirty = true
	return true
}

func (c *ProgramCache) AddExercise(workoutKey string, catalogExerciseID int64, name, muscle, equipment string) (string, bool) {
	if _, ok := c.workouts[workoutKey]; !ok {
		return "", false
	}
	key := tempKey()
	c.exercises[key] = &ExerciseNode{
		Key:               key,
		WorkoutKey:        workoutKey,
		CatalogExerciseID: catalogExerciseID,
		Name:              name,
		Muscle:            muscle,
		Equipment:         equipment,
	}
	c.exerciseKeys[workoutKey] = ordering.Append(
		c.exerciseKeys[workoutKey],
		key,
		c.setExerciseOrder,
	)
	c.dirty = true
	return key, true
}

func (c *ProgramCache) RemoveExercise(exerciseKey string) bool {
	exercise, ok := c.exercises[exerciseKey]
	if !ok {
		return false
	}
	for _, setKey := range c.setKeys[exerciseKey] {
		delete(c.sets, setKey)
	}
	delete(c.setKeys, exerciseKey)
	delete(c.exercises, exerciseKey)
	c.exerciseKeys[exercise.WorkoutKey], _ = ordering.RemoveFunc(
		c.exerciseKeys[exercise.WorkoutKey],
		func(k string) bool { return k == exerciseKey },
		c.setExerciseOrder,
	)
	c.dirty = true
	return true
}

func (c *ProgramCache) AddSet(exerciseKey string, reps *int, weight *float64) (string, bool) {
	if _, ok := c.exercises[exerciseKey]; !ok {
		return "", false
	}
	key := tempKey()
	c.sets[key] = &SetNode{
		Key:         key,
		ExerciseKey: exerciseKey,
		Reps:        reps,
		Weight:      weight,
	}
	c.setKeys[exerciseKey] = ordering.Append(c.setKeys[exerciseKey], key, c.setSetOrder)
	c.dirty = true
	return key, true
}

func (c *ProgramCache) UpdateSet(setKey string, reps *int, weight *float64) bool {
	set, ok := c.sets[setKey]
	if !ok {
		return false
	}
	set.Reps = reps
	set.Weight = weight
	c.dirty = true
	return true
}

func (c *ProgramCache) RemoveSet(setKey string) bool {
	set, ok := c.sets[setKey]
	if !ok {
		return false
	}
	delete(c.sets, setKey)
	c.setKeys[set.ExerciseKey], _ = ordering.RemoveFunc(
		c.setKeys[set.ExerciseKey],
		func(k string) bool { return k == setKey },
		c.setSetOrder,
	)
	c.dirty = true
	return true
}

// order setters keep node Order fields in step with the ordered key slices.

func (c *ProgramCache) setWorkoutOrder(key *string, n int) {
	if node, ok := c.workouts[*key]; ok {
		node.Order = n
	}
}

func (c *ProgramCache) setExerciseOrder(key *string, n int) {
	if node, ok := c.exercises[*key]; ok {
		node.Order = n
	}
}

func (c *ProgramCache) setSetOrder(key *string, n int) {
	if node, ok := c.sets[*key]; ok {
		node.Order = n
	}
}

// View mode transitions. UI-only; never a network call.

func (c *ProgramCache) ToggleExpanded(workoutKey string) bool {
	workout, ok := c.workouts[workoutKey]
	if !ok {
		return false
	}
	workout.State.Expanded = !workout.State.Expanded
	return workout.State.Expanded
}

func (c *ProgramCache) StartTitleEdit(workoutKey string) bool {
	workout, ok := c.workouts[workoutKey]
	if !ok {
		return false
	}
	workout.State.EditingTitle = true
	return true
}

// FinishTitleEdit leaves editing state and commits the rename locally. The
// caller decides whether to push it (edit mode batches it into the next save).
func (c *ProgramCache) FinishTitleEdit(workoutKey, name string) bool {
	workout, ok := c.workouts[workoutKey]
	if !ok {
		return false
	}
	workout.State.EditingTitle = false
	if name != "" && name != workout.Name {
		workout.Name = name
		c.dirty = true
	}
	return true
}

// Ordered read accessors for rendering.

func (c *ProgramCache) Workouts() []WorkoutNode {
	out := make([]WorkoutNode, 0, len(c.workoutKeys))
	for _, key := range c.workoutKeys {
		out = append(out, *c.workouts[key])
	}
	return out
}

func (c *ProgramCache) Exercises(workoutKey string) []ExerciseNode {
	keys := c.exerciseKeys[workoutKey]
	out := make([]ExerciseNode, 0, len(keys))
	for _, key := range keys {
		out = append(out, *c.exercises[key])
	}
	return out
}

func (c *ProgramCache) Sets(exerciseKey string) []SetNode {
	keys := c.setKeys[exerciseKey]
	out := make([]SetNode, 0, len(keys))
	for _, key := range keys {
		out = append(out, *c.sets[key])
	}
	return out
}

func (c *ProgramCache) Workout(key string) (WorkoutNode, bool) {
	if node, ok := c.workouts[key]; ok {
		return *node, true
	}
	return WorkoutNode{}, false
}

func (c *ProgramCache) Exercise(key string) (ExerciseNode, bool) {
	if node, ok := c.exercises[key]; ok {
		return *node, true
	}
	return ExerciseNode{}, false
}

func (c *ProgramCache) Set(key string) (SetNode, bool) {
	if node, ok := c.sets[key]; ok {
		return *node, true
	}
	return SetNode{}, false
}

// Tree reconstructs the full nested payload from the keyed maps, in sibling
// order. This is the body of a create or full-replace request.
func (c *ProgramCache) Tree() ProgramPayload {
	payload := ProgramPayload{
		UserID:          c.program.UserID,
		Name:            c.program.Name,
		ProgramDuration: c.program.ProgramDuration,
		DurationUnit:    c.program.DurationUnit,
		DaysPerWeek:     c.program.DaysPerWeek,
		MainGoal:        c.program.MainGoal,
		Workouts:        make([]WorkoutPayload, 0, len(c.workoutKeys)),
	}

	for _, workoutKey := range c.workoutKeys {
		workout := c.workouts[workoutKey]
		workoutPayload := WorkoutPayload{
			Name:      workout.Name,
			Order:     workout.Order,
			Exercises: make([]ExercisePayload, 0, len(c.exerciseKeys[workoutKey])),
		}
		for _, exerciseKey := range c.exerciseKeys[workoutKey] {
			exercise := c.exercises[exerciseKey]
			exercisePayload := ExercisePayload{
				CatalogExerciseID: exercise.CatalogExerciseID,
				Order:             exercise.Order,
				Sets:              make([]SetPayload, 0, len(c.setKeys[exerciseKey])),
			}
			for _, setKey := range c.setKeys[exerciseKey] {
				set := c.sets[setKey]
				exercisePayload.Sets = append(exercisePayload.Sets, SetPayload{
					Reps:   copyInt(set.Reps),
					Weight: copyFloat(set.Weight),
					Order:  set.Order,
				})
			}
			workoutPayload.Exercises = append(workoutPayload.Exercises, exercisePayload)
		}
		payload.Workouts = append(payload.Workouts, workoutPayload)
	}

	return payload
}

func copyInt(v *int) *int {
	if v == nil {
		return nil
	}
	out := *v
	return &out
}

func copyFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	out := *v
	return &out
}
