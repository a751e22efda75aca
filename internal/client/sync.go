package client

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

var (
	// ErrSaveInFlight means a tree-level write for this program is still
	// pending; the new edit is rejected rather than interleaved.
	ErrSaveInFlight = errors.New("save already in flight")
	// ErrSyncConflict means the server did not confirm a local edit; the
	// cache has been restored to its last-known-good state.
	ErrSyncConflict = errors.New("sync conflict")
	// ErrUnknownEntity means the referenced cache key does not exist.
	ErrUnknownEntity = errors.New("unknown entity")
	// ErrUnsavedEntity means an active-mode edit targeted a node the server
	// has never seen, so there is no server id to address.
	ErrUnsavedEntity = errors.New("entity has not been saved yet")
)

// Syncer is the reconciliation layer between the cache and the server. Every
// mutation is two-phase: apply locally, then confirm with the server or
// revert. Which confirmation path runs depends on the cache mode: edit mode
// batches everything into Save, active mode dispatches each edit immediately.
type Syncer struct {
	mu       sync.Mutex
	api      API
	cache    *ProgramCache
	inFlight bool
}

func NewSyncer(api API, cache *ProgramCache) *Syncer {
	return &Syncer{api: api, cache: cache}
}

func (s *Syncer) Cache() *ProgramCache { return s.cache }

// Load pulls the program's tree from the server into the cache.
func (s *Syncer) Load(ctx context.Context, programID int64) error {
	program, err := s.api.FetchProgram(ctx, programID)
	if err != nil {
		return err
	}
	s.cache.LoadTree(program)
	return nil
}

// Save flushes the whole tree as one create or full replace. At most one
// tree-level write may be outstanding per program; a save attempted while one
// is pending fails with ErrSaveInFlight and changes nothing. On failure the
// cache keeps its local edits and stays dirty (unsynced), on success it is
// reconciled against the server's response.
func (s *Syncer) Save(ctx context.Context) error {
	s.mu.Lock()
	if s.inFlight {
		s.mu.Unlock()
		return ErrSaveInFlight
	}
	s.inFlight = true
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.inFlight = false
		s.mu.Unlock()
	}()

	payload := s.cache.Tree()

	var err error
	if s.cache.Saved() {
		program, replaceErr := s.api.ReplaceProgram(ctx, s.cache.Program().ID, payload)
		if replaceErr != nil {
			err = replaceErr
		} else {
			s.cache.Reconcile(program)
		}
	} else {
		program, createErr := s.api.CreateProgram(ctx, payload)
		if createErr != nil {
			err = createErr
		} else {
			s.cache.Reconcile(program)
		}
	}

	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrSyncConflict, err)
	}
	return nil
}

// Delete removes the program server-side and clears the local mirror.
func (s *Syncer) Delete(ctx context.Context) error {
	if !s.cache.Saved() {
		s.cache.reset()
		return nil
	}
	if err := s.api.DeleteProgram(ctx, s.cache.Program().ID); err != nil {
		return err
	}
	s.cache.reset()
	s.cache.program = ProgramMeta{}
	return nil
}

// AddExercise applies the edit locally, then in active mode dispatches it
// immediately and reverts on failure. In edit mode the edit waits for the
// next Save.
func (s *Syncer) AddExercise(
	ctx context.Context,
	workoutKey string,
	catalogExerciseID int64,
	name, muscle, equipment string,
) (string, error) {
	snap := s.cache.snapshot()

	key, ok := s.cache.AddExercise(workoutKey, catalogExerciseID, name, muscle, equipment)
	if !ok {
		return "", ErrUnknownEntity
	}
	if s.cache.Mode() != ModeActive {
		return key, nil
	}

	workout, _ := s.cache.Workout(workoutKey)
	if workout.ID == 0 {
		s.cache.restore(snap)
		return "", ErrUnsavedEntity
	}

	exercise, err := s.api.AddExercise(ctx, workout.ID, catalogExerciseID)
	if err != nil {
		s.cache.restore(snap)
		return "", fmt.Errorf("%w: %v", ErrSyncConflict, err)
	}
	s.cache.confirmExercise(key, exercise)
	return serverKey(exercise.ID), nil
}

func (s *Syncer) RemoveExercise(ctx context.Context, exerciseKey string) error {
	snap := s.cache.snapshot()

	exercise, found := s.cache.Exercise(exerciseKey)
	if !found || !s.cache.RemoveExercise(exerciseKey) {
		return ErrUnknownEntity
	}
	if s.cache.Mode() != ModeActive {
		return nil
	}
	if exercise.ID == 0 {
		// Never saved, nothing to remove server-side.
		return nil
	}

	if err := s.api.RemoveExercise(ctx, exercise.ID); err != nil {
		s.cache.restore(snap)
		return fmt.Errorf("%w: %v", ErrSyncConflict, err)
	}
	s.cache.dirty = false
	return nil
}

func (s *Syncer) AddSet(
	ctx context.Context,
	exerciseKey string,
	reps *int,
	weight *float64,
) (string, error) {
	snap := s.cache.snapshot()

	key, ok := s.cache.AddSet(exerciseKey, reps, weight)
	if !ok {
		return "", ErrUnknownEntity
	}
	if s.cache.Mode() != ModeActive {
		return key, nil
	}

	exercise, _ := s.cache.Exercise(exerciseKey)
	if exercise.ID == 0 {
		s.cache.restore(snap)
		return "", ErrUnsavedEntity
	}

	set, err := s.api.AddSet(ctx, exercise.ID, reps, weight)
	if err != nil {
		s.cache.restore(snap)
		return "", fmt.Errorf("%w: %v", ErrSyncConflict, err)
	}
	s.cache.confirmSet(key, set)
	return serverKey(set.ID), nil
}

func (s *Syncer) UpdateSet(ctx context.Context, setKey string, reps *int, weight *float64) error {
	snap := s.cache.snapshot()

	set, found := s.cache.Set(setKey)
	if !found || !s.cache.UpdateSet(setKey, reps, weight) {
		return ErrUnknownEntity
	}
	if s.cache.Mode() != ModeActive {
		return nil
	}
	if set.ID == 0 {
		s.cache.restore(snap)
		return ErrUnsavedEntity
	}

	if _, err := s.api.UpdateSet(ctx, set.ID, reps, weight); err != nil {
		s.cache.restore(snap)
		return fmt.Errorf("%w: %v", ErrSyncConflict, err)
	}
	s.cache.dirty = false
	return nil
}

func (s *Syncer) RemoveSet(ctx context.Context, setKey string) error {
	snap := s.cache.snapshot()

	set, found := s.cache.Set(setKey)
	if !found || !s.cache.RemoveSet(setKey) {
		return ErrUnknownEntity
	}
	if s.cache.Mode() != ModeActive {
		return nil
	}
	if set.ID == 0 {
		return nil
	}

	if err := s.api.RemoveSet(ctx, set.ID); err != nil {
		s.cache.restore(snap)
		return fmt.Errorf("%w: %v", ErrSyncConflict, err)
	}
	s.cache.dirty = false
	return nil
}
