package client

import (
	"github.com/tokyo-lab/workout-tracker-app/internal/models"
)

// Reconcile replaces the cache's provisional tree with the authoritative
// server response. Every node is re-keyed by its server id; temporary client
// ids are discarded. UI state (expanded, editing flags) is carried over by id
// when the node survived, otherwise by sibling order position, which is how
// nodes map across a destructive replace.
func (c *ProgramCache) Reconcile(server *models.Program) {
	workoutStateByID := make(map[int64]EntityState)
	workoutStateByOrder := make(map[int]EntityState)
	for _, key := range c.workoutKeys {
		workout := c.workouts[key]
		if workout.ID != 0 {
			workoutStateByID[workout.ID] = workout.State
		}
		workoutStateByOrder[workout.Order] = workout.State
	}

	type position struct{ workout, exercise int }
	exerciseStateByID := make(map[int64]EntityState)
	exerciseStateByPos := make(map[position]EntityState)
	for _, workoutKey := range c.workoutKeys {
		workout := c.workouts[workoutKey]
		for _, exerciseKey := range c.exerciseKeys[workoutKey] {
			exercise := c.exercises[exerciseKey]
			if exercise.ID != 0 {
				exerciseStateByID[exercise.ID] = exercise.State
			}
			exerciseStateByPos[position{workout.Order, exercise.Order}] = exercise.State
		}
	}

	c.LoadTree(server)

	for _, workoutKey := range c.workoutKeys {
		workout := c.workouts[workoutKey]
		if state, ok := workoutStateByID[workout.ID]; ok {
			workout.State = state
		} else if state, ok := workoutStateByOrder[workout.Order]; ok {
			workout.State = state
		}
		for _, exerciseKey := range c.exerciseKeys[workoutKey] {
			exercise := c.exercises[exerciseKey]
			if state, ok := exerciseStateByID[exercise.ID]; ok {
				exercise.State = state
			} else if state, ok := exerciseStateByPos[position{workout.Order, exercise.Order}]; ok {
				exercise.State = state
			}
		}
	}

	c.dirty = false
}

// confirmExercise re-keys a provisionally added exercise with the row the
// server created for it.
func (c *ProgramCache) confirmExercise(tempKey string, server *models.Exercise) {
	node, ok := c.exercises[tempKey]
	if !ok {
		return
	}
	newKey := serverKey(server.ID)
	node.Key = newKey
	node.ID = server.ID
	node.CatalogExerciseID = server.CatalogExerciseID
	node.Order = server.Order
	node.Name = server.Name
	node.Muscle = server.Muscle
	node.Equipment = server.Equipment

	delete(c.exercises, tempKey)
	c.exercises[newKey] = node
	replaceKey(c.exerciseKeys[node.WorkoutKey], tempKey, newKey)
	if setKeys, ok := c.setKeys[tempKey]; ok {
		delete(c.setKeys, tempKey)
		c.setKeys[newKey] = setKeys
		for _, setKey := range setKeys {
			c.sets[setKey].ExerciseKey = newKey
		}
	}
	c.dirty = false
}

// confirmSet re-keys a provisionally added set with the row the server
// created for it.
func (c *ProgramCache) confirmSet(tempKey string, server *models.Set) {
	node, ok := c.sets[tempKey]
	if !ok {
		return
	}
	newKey := serverKey(server.ID)
	node.Key = newKey
	node.ID = server.ID
	node.Reps = copyInt(server.Reps)
	node.Weight = copyFloat(server.Weight)
	node.Order = server.Order

	delete(c.sets, tempKey)
	c.sets[newKey] = node
	replaceKey(c.setKeys[node.ExerciseKey], tempKey, newKey)
	c.dirty = false
}

func replaceKey(keys []string, oldKey, newKey string) {
	for i := range keys {
		if keys[i] == oldKey {
			keys[i] = newKey
			return
		}
	}
}

// cacheSnapshot is the last-known-good state an optimistic mutation falls
// back to when its network call fails.
type cacheSnapshot struct {
	dirty        bool
	program      ProgramMeta
	workouts     map[string]*WorkoutNode
	exercises    map[string]*ExerciseNode
	sets         map[string]*SetNode
	workoutKeys  []string
	exerciseKeys map[string][]string
	setKeys      map[string][]string
}

func (c *ProgramCache) snapshot() *cacheSnapshot {
	snap := &cacheSnapshot{
		dirty:        c.dirty,
		program:      c.program,
		workouts:     make(map[string]*WorkoutNode, len(c.workouts)),
		exercises:    make(map[string]*ExerciseNode, len(c.exercises)),
		sets:         make(map[string]*SetNode, len(c.sets)),
		workoutKeys:  append([]string(nil), c.workoutKeys...),
		exerciseKeys: make(map[string][]string, len(c.exerciseKeys)),
		setKeys:      make(map[string][]string, len(c.setKeys)),
	}
	for key, node := range c.workouts {
		copied := *node
		snap.workouts[key] = &copied
	}
	for key, node := range c.exercises {
		copied := *node
		snap.exercises[key] = &copied
	}
	for key, node := range c.sets {
		copied := *node
		copied.Reps = copyInt(node.Reps)
		copied.Weight = copyFloat(node.Weight)
		snap.sets[key] = &copied
	}
	for key, keys := range c.exerciseKeys {
		snap.exerciseKeys[key] = append([]string(nil), keys...)
	}
	for key, keys := range c.setKeys {
		snap.setKeys[key] = append([]string(nil), keys...)
	}
	return snap
}

func (c *ProgramCache) restore(snap *cacheSnapshot) {
	c.dirty = snap.dirty
	c.program = snap.program
	c.workouts = snap.workouts
	c.exercises = snap.exercises
	c.sets = snap.sets
	c.workoutKeys = snap.workoutKeys
	c.exerciseKeys = snap.exerciseKeys
	c.setKeys = snap.setKeys
}
