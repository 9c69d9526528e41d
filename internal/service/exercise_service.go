package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"alcyxob/workout-tracker/internal/domain"
	"alcyxob/workout-tracker/internal/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// NewExercise carries the fields of an exercise being added. Weight is in kilograms.
type NewExercise struct {
	Name     string
	Type     domain.ExerciseType
	Sets     int
	Reps     int
	Weight   float64
	Duration int
	Distance float64
	Calories int
	HoldTime int
	Notes    string
}

// ExerciseUpdate is a partial update; Clear on a measurement resets it to zero.
type ExerciseUpdate struct {
	Name     domain.Patch[string]
	Type     domain.Patch[domain.ExerciseType]
	Sets     domain.Patch[int]
	Reps     domain.Patch[int]
	Weight   domain.Patch[float64]
	Duration domain.Patch[int]
	Distance domain.Patch[float64]
	Calories domain.Patch[int]
	HoldTime domain.Patch[int]
	Notes    domain.Patch[string]
}

// --- Service Interface ---
type ExerciseService interface {
	CreateExercise(ctx context.Context, workoutID uuid.UUID, in NewExercise) (*domain.Exercise, error)
	GetExercise(ctx context.Context, id uuid.UUID) (*domain.Exercise, error)
	UpdateExercise(ctx context.Context, id uuid.UUID, update ExerciseUpdate) (*domain.Exercise, error)
	DeleteExercise(ctx context.Context, id uuid.UUID) error
	DuplicateExercise(ctx context.Context, id, intoWorkoutID uuid.UUID) (*domain.Exercise, error)
	ProgressSeries(ctx context.Context, name string, windowDays int) ([]domain.ProgressPoint, error)
	ExerciseLibrary(ctx context.Context, exerciseType domain.ExerciseType) ([]string, error)
}

// --- Service Implementation ---

// exerciseService implements the ExerciseService interface.
type exerciseService struct {
	exerciseRepo repository.ExerciseRepository
	prefs        PreferenceService
	notifier     *changeNotifier
	now          func() time.Time
	log          logrus.FieldLogger
}

// NewExerciseService creates a new instance of exerciseService.
func NewExerciseService(deps Deps) ExerciseService {
	return &exerciseService{
		exerciseRepo: deps.Exercises,
		prefs:        deps.Preferences,
		notifier:     deps.notifier(),
		now:          deps.clock(),
		log:          deps.Log,
	}
}

// CreateExercise appends a new exercise to the end of the workout.
func (s *exerciseService) CreateExercise(ctx context.Context, workoutID uuid.UUID, in NewExercise) (*domain.Exercise, error) {
	exercise := &domain.Exercise{
		ID:        uuid.New(),
		WorkoutID: workoutID,
		Name:      strings.TrimSpace(in.Name),
		Type:      in.Type,
		Sets:      in.Sets,
		Reps:      in.Reps,
		Weight:    in.Weight,
		Duration:  in.Duration,
		Distance:  in.Distance,
		Calories:  in.Calories,
		HoldTime:  in.HoldTime,
		Notes:     domain.NotesOf(in.Notes),
	}
	if err := exercise.Validate(); err != nil {
		return nil, err
	}

	if err := s.exerciseRepo.Create(ctx, exercise); err != nil {
		return nil, storageError(err)
	}
	s.registerName(ctx, exercise)
	s.notifier.committed(ctx, true)
	return s.GetExercise(ctx, exercise.ID)
}

func (s *exerciseService) GetExercise(ctx context.Context, id uuid.UUID) (*domain.Exercise, error) {
	e, err := s.exerciseRepo.GetByID(ctx, id)
	if err != nil {
		return nil, storageError(err)
	}
	return e, nil
}

// UpdateExercise applies a partial update.
func (s *exerciseService) UpdateExercise(ctx context.Context, id uuid.UUID, update ExerciseUpdate) (*domain.Exercise, error) {
	if update.Name.IsClear() || update.Type.IsClear() {
		return nil, fmt.Errorf("%w: exercise name and type cannot be cleared", domain.ErrInvalidArgument)
	}

	exercise, err := s.exerciseRepo.GetByID(ctx, id)
	if err != nil {
		return nil, storageError(err)
	}

	exercise.Name = strings.TrimSpace(update.Name.Apply(exercise.Name))
	exercise.Type = update.Type.Apply(exercise.Type)
	exercise.Sets = update.Sets.Apply(exercise.Sets)
	exercise.Reps = update.Reps.Apply(exercise.Reps)
	exercise.Weight = update.Weight.Apply(exercise.Weight)
	exercise.Duration = update.Duration.Apply(exercise.Duration)
	exercise.Distance = update.Distance.Apply(exercise.Distance)
	exercise.Calories = update.Calories.Apply(exercise.Calories)
	exercise.HoldTime = update.HoldTime.Apply(exercise.HoldTime)
	exercise.Notes = domain.ApplyNotes(update.Notes, exercise.Notes)
	if err := exercise.Validate(); err != nil {
		return nil, err
	}

	if err := s.exerciseRepo.Update(ctx, exercise); err != nil {
		return nil, storageError(err)
	}
	s.registerName(ctx, exercise)
	s.notifier.committed(ctx, true)
	return s.GetExercise(ctx, id)
}

func (s *exerciseService) DeleteExercise(ctx context.Context, id uuid.UUID) error {
	if err := s.exerciseRepo.Delete(ctx, id); err != nil {
		return storageError(err)
	}
	s.notifier.committed(ctx, true)
	return nil
}

// DuplicateExercise copies an exercise to the end of the target workout.
func (s *exerciseService) DuplicateExercise(ctx context.Context, id, intoWorkoutID uuid.UUID) (*domain.Exercise, error) {
	original, err := s.exerciseRepo.GetByID(ctx, id)
	if err != nil {
		return nil, storageError(err)
	}

	dup := original.Copy()
	dup.WorkoutID = intoWorkoutID
	if err := s.exerciseRepo.Create(ctx, &dup); err != nil {
		return nil, storageError(err)
	}
	s.notifier.committed(ctx, true)
	return s.GetExercise(ctx, dup.ID)
}

// ProgressSeries returns every exercise named exactly name whose workout falls within the
// trailing windowDays, oldest first.
func (s *exerciseService) ProgressSeries(ctx context.Context, name string, windowDays int) ([]domain.ProgressPoint, error) {
	if windowDays <= 0 {
		return nil, fmt.Errorf("%w: window must be at least one day", domain.ErrInvalidArgument)
	}
	points, err := s.exerciseRepo.ByName(ctx, name)
	if err != nil {
		return nil, storageError(err)
	}

	cutoff := s.now().AddDate(0, 0, -windowDays)
	series := make([]domain.ProgressPoint, 0, len(points))
	for _, p := range points {
		if p.Date.Before(cutoff) {
			continue
		}
		series = append(series, p)
	}
	sort.SliceStable(series, func(i, j int) bool {
		return series[i].Date.Before(series[j].Date)
	})
	return series, nil
}

// ExerciseLibrary lists the names offered for a category: the built-ins plus custom names
// still referenced by some exercise. Custom names nothing references are pruned.
func (s *exerciseService) ExerciseLibrary(ctx context.Context, exerciseType domain.ExerciseType) ([]string, error) {
	if _, err := domain.ParseExerciseType(string(exerciseType)); err != nil {
		return nil, err
	}
	inUse, err := s.exerciseRepo.NamesByType(ctx, exerciseType)
	if err != nil {
		return nil, storageError(err)
	}
	if err := s.prefs.RetainCustomExercises(ctx, exerciseType, inUse); err != nil {
		s.log.WithError(err).Warn("Failed to prune custom exercises")
	}

	seen := make(map[string]struct{})
	var names []string
	add := func(n string) {
		if _, ok := seen[n]; ok {
			return
		}
		seen[n] = struct{}{}
		names = append(names, n)
	}
	for _, n := range domain.BuiltinExercises[exerciseType] {
		add(n)
	}
	for _, n := range s.prefs.CustomExercises(exerciseType) {
		add(n)
	}
	sort.Strings(names)
	return names, nil
}

func (s *exerciseService) registerName(ctx context.Context, e *domain.Exercise) {
	if err := s.prefs.AddCustomExercise(ctx, e.Type, e.Name); err != nil {
		s.log.WithError(err).WithField("name", e.Name).Warn("Failed to register custom exercise")
	}
}
