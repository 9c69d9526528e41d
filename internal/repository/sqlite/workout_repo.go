package sqlite

import (
	"context"
	"sort"

	"alcyxob/workout-tracker/internal/domain"
	"alcyxob/workout-tracker/internal/repository"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// sqliteWorkoutRepository implements repository.WorkoutRepository
type sqliteWorkoutRepository struct {
	db *gorm.DB
}

// NewWorkoutRepository creates a new Workout repository backed by the local SQLite store.
func NewWorkoutRepository(db *gorm.DB) repository.WorkoutRepository {
	return &sqliteWorkoutRepository{db: db}
}

func orderedExercises(db *gorm.DB) *gorm.DB {
	return db.Order("sort_order ASC")
}

// List returns every workout with its exercises, newest first.
func (r *sqliteWorkoutRepository) List(ctx context.Context) ([]domain.Workout, error) {
	var workouts []domain.Workout
	err := r.db.WithContext(ctx).
		Preload("Exercises", orderedExercises).
		Order("date DESC").
		Find(&workouts).Error
	if err != nil {
		return nil, errors.Wrap(err, "list workouts")
	}
	// Stored text ordering is not trusted for instants with differing precision.
	sort.SliceStable(workouts, func(i, j int) bool {
		return workouts[i].Date.After(workouts[j].Date)
	})
	return workouts, nil
}

// GetByID retrieves a workout and its exercises.
func (r *sqliteWorkoutRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Workout, error) {
	var workout domain.Workout
	err := r.db.WithContext(ctx).
		Preload("Exercises", orderedExercises).
		First(&workout, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrNotFound
		}
		return nil, errors.Wrapf(err, "get workout %s", id)
	}
	return &workout, nil
}

// Create inserts the workout together with any exercises it already carries.
func (r *sqliteWorkoutRepository) Create(ctx context.Context, workout *domain.Workout) error {
	if workout.ID == uuid.Nil {
		workout.ID = uuid.New()
	}
	for i := range workout.Exercises {
		if workout.Exercises[i].ID == uuid.Nil {
			workout.Exercises[i].ID = uuid.New()
		}
		workout.Exercises[i].WorkoutID = workout.ID
	}
	workout.Date = workout.Date.UTC()
	if err := r.db.WithContext(ctx).Create(workout).Error; err != nil {
		return errors.Wrap(err, "create workout")
	}
	return nil
}

// Update writes the scalar workout fields. Exercises are managed through the exercise repository.
func (r *sqliteWorkoutRepository) Update(ctx context.Context, workout *domain.Workout) error {
	workout.Date = workout.Date.UTC()
	res := r.db.WithContext(ctx).
		Model(&domain.Workout{ID: workout.ID}).
		Select("Name", "Date", "Duration", "Notes").
		Updates(workout)
	if res.Error != nil {
		return errors.Wrapf(res.Error, "update workout %s", workout.ID)
	}
	if res.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes the workout's exercises and then the workout, in one transaction.
func (r *sqliteWorkoutRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("workout_id = ?", id).Delete(&domain.Exercise{}).Error; err != nil {
			return errors.Wrapf(err, "delete exercises of workout %s", id)
		}
		res := tx.Delete(&domain.Workout{}, "id = ?", id)
		if res.Error != nil {
			return errors.Wrapf(res.Error, "delete workout %s", id)
		}
		if res.RowsAffected == 0 {
			return repository.ErrNotFound
		}
		return nil
	})
}

// ReplaceAll deletes every workout and exercise and inserts the given ones, atomically.
func (r *sqliteWorkoutRepository) ReplaceAll(ctx context.Context, workouts []domain.Workout) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&domain.Exercise{}).Error; err != nil {
			return errors.Wrap(err, "clear exercises")
		}
		if err := tx.Where("1 = 1").Delete(&domain.Workout{}).Error; err != nil {
			return errors.Wrap(err, "clear workouts")
		}
		for i := range workouts {
			w := &workouts[i]
			if w.ID == uuid.Nil {
				w.ID = uuid.New()
			}
			for j := range w.Exercises {
				if w.Exercises[j].ID == uuid.Nil {
					w.Exercises[j].ID = uuid.New()
				}
				w.Exercises[j].WorkoutID = w.ID
			}
			w.Date = w.Date.UTC()
			if err := tx.Create(w).Error; err != nil {
				return errors.Wrapf(err, "insert workout %q", w.Name)
			}
		}
		return nil
	})
}
