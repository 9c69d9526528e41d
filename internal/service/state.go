package service

import (
	"sync"

	"alcyxob/workout-tracker/internal/domain"
)

// WorkoutState is the in-memory view of the workout list that UI-facing code observes.
// It is refreshed after every list and every committed mutation.
type WorkoutState struct {
	mu       sync.RWMutex
	workouts []domain.Workout
	subs     map[int]func([]domain.Workout)
	nextID   int
}

func NewWorkoutState() *WorkoutState {
	return &WorkoutState{subs: make(map[int]func([]domain.Workout))}
}

// Workouts returns the latest list, newest first. The slice is a copy.
func (s *WorkoutState) Workouts() []domain.Workout {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Workout, len(s.workouts))
	copy(out, s.workouts)
	return out
}

// Set replaces the list and notifies subscribers synchronously, outside the lock.
func (s *WorkoutState) Set(workouts []domain.Workout) {
	s.mu.Lock()
	s.workouts = workouts
	subs := make([]func([]domain.Workout), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	for _, fn := range subs {
		snapshot := make([]domain.Workout, len(workouts))
		copy(snapshot, workouts)
		fn(snapshot)
	}
}

// Subscribe registers fn for future changes and returns a func that removes it.
func (s *WorkoutState) Subscribe(fn func([]domain.Workout)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			s.mu.Unlock()
		})
	}
}
