package repository

import (
	"context"

	"alcyxob/workout-tracker/internal/domain"

	"github.com/google/uuid"
)

// Error constants for the repository layer
var (
	ErrNotFound     = RepositoryError("not found")
	ErrUpdateFailed = RepositoryError("update failed")
	ErrDeleteFailed = RepositoryError("delete failed")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// WorkoutRepository defines the interface for interacting with workout data.
// Workouts returned by it always carry their exercises, sorted by order.
type WorkoutRepository interface {
	List(ctx context.Context) ([]domain.Workout, error) // Date descending
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Workout, error)
	Create(ctx context.Context, workout *domain.Workout) error // Inserts the workout and any exercises it carries
	Update(ctx context.Context, workout *domain.Workout) error // Scalar fields only
	Delete(ctx context.Context, id uuid.UUID) error           // Deletes owned exercises in the same transaction
	ReplaceAll(ctx context.Context, workouts []domain.Workout) error // Restore: delete everything, re-create, one transaction
}

// ExerciseRepository defines the interface for interacting with exercise data.
type ExerciseRepository interface {
	// Create appends the exercise to its workout, assigning Order = current exercise count.
	Create(ctx context.Context, exercise *domain.Exercise) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Exercise, error)
	Update(ctx context.Context, exercise *domain.Exercise) error
	Delete(ctx context.Context, id uuid.UUID) error
	ByName(ctx context.Context, name string) ([]domain.ProgressPoint, error)
	NamesByType(ctx context.Context, exerciseType domain.ExerciseType) ([]string, error)
}

// PreferenceRepository stores flat string settings.
type PreferenceRepository interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	All(ctx context.Context) (map[string]string, error)
}

// BackupRepository is a remote document store holding one backup per identifier.
type BackupRepository interface {
	// Put overwrites the record for record.Identifier; the timestamp is assigned by the remote side.
	Put(ctx context.Context, record *domain.BackupRecord) error
	Get(ctx context.Context, identifier string) (*domain.BackupRecord, error)
}
