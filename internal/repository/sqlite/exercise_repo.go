package sqlite

import (
	"context"
	"sort"
	"time"

	"alcyxob/workout-tracker/internal/domain"
	"alcyxob/workout-tracker/internal/repository"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// sqliteExerciseRepository implements repository.ExerciseRepository
type sqliteExerciseRepository struct {
	db *gorm.DB
}

// NewExerciseRepository creates a new Exercise repository backed by the local SQLite store.
func NewExerciseRepository(db *gorm.DB) repository.ExerciseRepository {
	return &sqliteExerciseRepository{db: db}
}

// Create appends the exercise to the end of its workout. The order is computed inside the
// insert transaction so it always equals the collection size before the insert.
func (r *sqliteExerciseRepository) Create(ctx context.Context, exercise *domain.Exercise) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var parents int64
		if err := tx.Model(&domain.Workout{}).Where("id = ?", exercise.WorkoutID).Count(&parents).Error; err != nil {
			return errors.Wrap(err, "check parent workout")
		}
		if parents == 0 {
			return repository.ErrNotFound
		}

		var count int64
		if err := tx.Model(&domain.Exercise{}).Where("workout_id = ?", exercise.WorkoutID).Count(&count).Error; err != nil {
			return errors.Wrap(err, "count exercises")
		}
		if exercise.ID == uuid.Nil {
			exercise.ID = uuid.New()
		}
		exercise.Order = int(count)
		if err := tx.Create(exercise).Error; err != nil {
			return errors.Wrap(err, "create exercise")
		}
		return nil
	})
}

func (r *sqliteExerciseRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Exercise, error) {
	var exercise domain.Exercise
	if err := r.db.WithContext(ctx).First(&exercise, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrNotFound
		}
		return nil, errors.Wrapf(err, "get exercise %s", id)
	}
	return &exercise, nil
}

// Update writes every mutable field, zero values included.
func (r *sqliteExerciseRepository) Update(ctx context.Context, exercise *domain.Exercise) error {
	res := r.db.WithContext(ctx).
		Model(&domain.Exercise{ID: exercise.ID}).
		Select("Name", "Type", "Sets", "Reps", "Weight", "Duration", "Distance", "Calories", "HoldTime", "Notes", "Order").
		Updates(exercise)
	if res.Error != nil {
		return errors.Wrapf(res.Error, "update exercise %s", exercise.ID)
	}
	if res.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *sqliteExerciseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&domain.Exercise{}, "id = ?", id)
	if res.Error != nil {
		return errors.Wrapf(res.Error, "delete exercise %s", id)
	}
	if res.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// ByName returns every exercise with exactly this name, each paired with its workout's date,
// oldest first.
func (r *sqliteExerciseRepository) ByName(ctx context.Context, name string) ([]domain.ProgressPoint, error) {
	db := r.db.WithContext(ctx)

	var exercises []domain.Exercise
	if err := db.Where("name = ?", name).Find(&exercises).Error; err != nil {
		return nil, errors.Wrapf(err, "find exercises named %q", name)
	}
	if len(exercises) == 0 {
		return []domain.ProgressPoint{}, nil
	}

	ids := make([]uuid.UUID, 0, len(exercises))
	for _, e := range exercises {
		ids = append(ids, e.WorkoutID)
	}
	var parents []domain.Workout
	if err := db.Select("id", "date").Where("id IN ?", ids).Find(&parents).Error; err != nil {
		return nil, errors.Wrap(err, "load parent workout dates")
	}
	dates := make(map[uuid.UUID]time.Time, len(parents))
	for _, w := range parents {
		dates[w.ID] = w.Date
	}

	points := make([]domain.ProgressPoint, 0, len(exercises))
	for _, e := range exercises {
		date, ok := dates[e.WorkoutID]
		if !ok {
			continue
		}
		points = append(points, domain.ProgressPoint{Date: date, Exercise: e})
	}
	sort.SliceStable(points, func(i, j int) bool {
		return points[i].Date.Before(points[j].Date)
	})
	return points, nil
}

// NamesByType lists the distinct exercise names in use for a category.
func (r *sqliteExerciseRepository) NamesByType(ctx context.Context, exerciseType domain.ExerciseType) ([]string, error) {
	var names []string
	err := r.db.WithContext(ctx).
		Model(&domain.Exercise{}).
		Where("exercise_type = ?", exerciseType).
		Distinct("name").
		Pluck("name", &names).Error
	if err != nil {
		return nil, errors.Wrapf(err, "list %s names", exerciseType)
	}
	sort.Strings(names)
	return names, nil
}
