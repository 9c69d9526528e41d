package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"alcyxob/workout-tracker/internal/domain"
	"alcyxob/workout-tracker/internal/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// NewWorkout carries the fields of a workout being created.
type NewWorkout struct {
	Name     string
	Date     time.Time
	Duration int    // Minutes
	Notes    string // Empty means no notes
}

// WorkoutUpdate is a partial update. Keep leaves a field as it is; Clear on Notes or
// Duration resets it, while Name and Date cannot be cleared.
type WorkoutUpdate struct {
	Name     domain.Patch[string]
	Date     domain.Patch[time.Time]
	Duration domain.Patch[int]
	Notes    domain.Patch[string]
}

// --- Service Interface ---
type WorkoutService interface {
	ListWorkouts(ctx context.Context) ([]domain.Workout, error)
	GetWorkout(ctx context.Context, id uuid.UUID) (*domain.Workout, error)
	CreateWorkout(ctx context.Context, in NewWorkout) (*domain.Workout, error)
	UpdateWorkout(ctx context.Context, id uuid.UUID, update WorkoutUpdate) (*domain.Workout, error)
	DeleteWorkout(ctx context.Context, id uuid.UUID) error
	DuplicateWorkout(ctx context.Context, id uuid.UUID) (*domain.Workout, error)
	CalendarDays(ctx context.Context, month time.Time) ([]int, error)
	Refresh(ctx context.Context) error
}

// --- Service Implementation ---

// workoutService implements the WorkoutService interface.
type workoutService struct {
	workoutRepo repository.WorkoutRepository
	notifier    *changeNotifier
	now         func() time.Time
	log         logrus.FieldLogger
}

// Deps groups what the entity services share.
type Deps struct {
	Workouts    repository.WorkoutRepository
	Exercises   repository.ExerciseRepository
	State       *WorkoutState
	Publisher   SnapshotPublisher
	Preferences PreferenceService
	Clock       func() time.Time // Defaults to time.Now
	Log         logrus.FieldLogger
}

func (d Deps) notifier() *changeNotifier {
	return &changeNotifier{
		workoutRepo: d.Workouts,
		state:       d.State,
		publisher:   d.Publisher,
		prefs:       d.Preferences,
		log:         d.Log,
	}
}

func (d Deps) clock() func() time.Time {
	if d.Clock != nil {
		return d.Clock
	}
	return time.Now
}

// NewWorkoutService creates a new instance of workoutService.
func NewWorkoutService(deps Deps) WorkoutService {
	return &workoutService{
		workoutRepo: deps.Workouts,
		notifier:    deps.notifier(),
		now:         deps.clock(),
		log:         deps.Log,
	}
}

// ListWorkouts returns all workouts newest first and refreshes the state store.
func (s *workoutService) ListWorkouts(ctx context.Context) ([]domain.Workout, error) {
	workouts, err := s.workoutRepo.List(ctx)
	if err != nil {
		return nil, storageError(err)
	}
	s.notifier.state.Set(workouts)
	return workouts, nil
}

func (s *workoutService) GetWorkout(ctx context.Context, id uuid.UUID) (*domain.Workout, error) {
	w, err := s.workoutRepo.GetByID(ctx, id)
	if err != nil {
		return nil, storageError(err)
	}
	return w, nil
}

// CreateWorkout stores a new, empty workout.
func (s *workoutService) CreateWorkout(ctx context.Context, in NewWorkout) (*domain.Workout, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: workout name is required", domain.ErrInvalidArgument)
	}
	if in.Duration < 0 {
		return nil, fmt.Errorf("%w: duration cannot be negative", domain.ErrInvalidArgument)
	}
	date := in.Date
	if date.IsZero() {
		date = s.now()
	}

	workout := &domain.Workout{
		ID:        uuid.New(),
		Name:      name,
		Date:      date,
		Duration:  in.Duration,
		Notes:     domain.NotesOf(in.Notes),
		Exercises: []domain.Exercise{},
	}
	if err := s.workoutRepo.Create(ctx, workout); err != nil {
		return nil, storageError(err)
	}
	s.notifier.committed(ctx, true)

	s.log.WithField("workoutId", workout.ID).Info("Workout created")
	return s.GetWorkout(ctx, workout.ID)
}

// UpdateWorkout applies a partial update.
func (s *workoutService) UpdateWorkout(ctx context.Context, id uuid.UUID, update WorkoutUpdate) (*domain.Workout, error) {
	if update.Name.IsClear() {
		return nil, fmt.Errorf("%w: workout name cannot be cleared", domain.ErrInvalidArgument)
	}
	if update.Date.IsClear() {
		return nil, fmt.Errorf("%w: workout date cannot be cleared", domain.ErrInvalidArgument)
	}

	workout, err := s.workoutRepo.GetByID(ctx, id)
	if err != nil {
		return nil, storageError(err)
	}

	if update.Name.IsSet() {
		name := strings.TrimSpace(update.Name.Value())
		if name == "" {
			return nil, fmt.Errorf("%w: workout name is required", domain.ErrInvalidArgument)
		}
		workout.Name = name
	}
	workout.Date = update.Date.Apply(workout.Date)
	workout.Duration = update.Duration.Apply(workout.Duration)
	if workout.Duration < 0 {
		return nil, fmt.Errorf("%w: duration cannot be negative", domain.ErrInvalidArgument)
	}
	workout.Notes = domain.ApplyNotes(update.Notes, workout.Notes)

	if err := s.workoutRepo.Update(ctx, workout); err != nil {
		return nil, storageError(err)
	}
	s.notifier.committed(ctx, true)
	return s.GetWorkout(ctx, id)
}

// DeleteWorkout removes the workout and, in the same transaction, its exercises.
func (s *workoutService) DeleteWorkout(ctx context.Context, id uuid.UUID) error {
	if err := s.workoutRepo.Delete(ctx, id); err != nil {
		return storageError(err)
	}
	s.notifier.committed(ctx, true)

	s.log.WithField("workoutId", id).Info("Workout deleted")
	return nil
}

// DuplicateWorkout deep-copies a workout onto the current date with fresh identities.
func (s *workoutService) DuplicateWorkout(ctx context.Context, id uuid.UUID) (*domain.Workout, error) {
	original, err := s.workoutRepo.GetByID(ctx, id)
	if err != nil {
		return nil, storageError(err)
	}
	original.SortExercises()

	dup := original.Copy(s.now())
	if err := s.workoutRepo.Create(ctx, &dup); err != nil {
		return nil, storageError(err)
	}
	s.notifier.committed(ctx, true)
	return s.GetWorkout(ctx, dup.ID)
}

// CalendarDays lists the days of month (in month's location) that have a workout.
func (s *workoutService) CalendarDays(ctx context.Context, month time.Time) ([]int, error) {
	workouts, err := s.workoutRepo.List(ctx)
	if err != nil {
		return nil, storageError(err)
	}
	dates := make([]time.Time, 0, len(workouts))
	for _, w := range workouts {
		dates = append(dates, w.Date)
	}
	return DaysInMonth(dates, month), nil
}

// Refresh reloads the state store and republishes without marking the store dirty.
func (s *workoutService) Refresh(ctx context.Context) error {
	workouts, err := s.workoutRepo.List(ctx)
	if err != nil {
		return storageError(err)
	}
	s.notifier.state.Set(workouts)
	s.notifier.publisher.Publish(ctx, workouts)
	return nil
}

// DaysInMonth returns the ascending, unique days of month's calendar month that any of
// dates falls on, evaluated in month's location.
func DaysInMonth(dates []time.Time, month time.Time) []int {
	loc := month.Location()
	y, m, _ := month.Date()
	var present [32]bool
	for _, d := range dates {
		dy, dm, dd := d.In(loc).Date()
		if dy == y && dm == m {
			present[dd] = true
		}
	}
	days := []int{}
	for d := 1; d <= 31; d++ {
		if present[d] {
			days = append(days, d)
		}
	}
	return days
}
