package service_test

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"alcyxob/workout-tracker/internal/domain"
	"alcyxob/workout-tracker/internal/log"
	"alcyxob/workout-tracker/internal/repository"
	"alcyxob/workout-tracker/internal/repository/sqlite"
	"alcyxob/workout-tracker/internal/service"
	"alcyxob/workout-tracker/internal/snapshot"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// memoryBackend is an in-memory remote backup store.
type memoryBackend struct {
	mu      sync.Mutex
	records map[string]domain.BackupRecord
	fail    error
}

func newMemoryBackend() *memoryBackend {
	return &memoryBackend{records: map[string]domain.BackupRecord{}}
}

func (b *memoryBackend) Put(_ context.Context, record *domain.BackupRecord) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.fail != nil {
		return b.fail
	}
	r := *record
	r.Timestamp = time.Now().UTC()
	b.records[r.Identifier] = r
	return nil
}

func (b *memoryBackend) Get(_ context.Context, identifier string) (*domain.BackupRecord, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.fail != nil {
		return nil, b.fail
	}
	r, ok := b.records[identifier]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &r, nil
}

var testNow = time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)

type fixture struct {
	db        *gorm.DB
	prefRepo  repository.PreferenceRepository
	kv        *snapshot.FileKV
	state     *service.WorkoutState
	prefs     service.PreferenceService
	workouts  service.WorkoutService
	exercises service.ExerciseService
	backups   service.BackupService
	remote    *service.RemoteManager
	backend   *memoryBackend
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	shared := t.TempDir()
	logger := log.Discard()

	db, err := sqlite.ConnectDB(filepath.Join(shared, "workouts.db"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlite.DisconnectDB(db) })

	kv, err := snapshot.NewFileKV(filepath.Join(shared, "snapshot"))
	require.NoError(t, err)
	publisher := snapshot.NewPublisher(kv, time.UTC, logger)

	prefRepo := sqlite.NewPreferenceRepository(db)
	prefs, err := service.NewPreferenceService(ctx, prefRepo, publisher, logger)
	require.NoError(t, err)

	deps := service.Deps{
		Workouts:    sqlite.NewWorkoutRepository(db),
		Exercises:   sqlite.NewExerciseRepository(db),
		State:       service.NewWorkoutState(),
		Publisher:   publisher,
		Preferences: prefs,
		Clock:       func() time.Time { return testNow },
		Log:         logger,
	}

	backend := newMemoryBackend()
	factory := func(context.Context, domain.RemoteCredentials) (repository.BackupRepository, func() error, error) {
		return backend, nil, nil
	}
	remote := service.NewRemoteManager(factory, prefs, logger)

	return &fixture{
		db:        db,
		prefRepo:  prefRepo,
		kv:        kv,
		state:     deps.State,
		prefs:     prefs,
		workouts:  service.NewWorkoutService(deps),
		exercises: service.NewExerciseService(deps),
		backups:   service.NewBackupService(deps, remote, "test-device"),
		remote:    remote,
		backend:   backend,
	}
}

func (f *fixture) configureRemote(t *testing.T) {
	t.Helper()
	require.NoError(t, f.remote.Configure(context.Background(), domain.RemoteCredentials{
		Backend: domain.BackendMongo, URI: "mongodb://example", Database: "backups",
	}))
}

// seedWorkout creates a workout with the given strength exercises.
func (f *fixture) seedWorkout(t *testing.T, name string, date time.Time, exercises ...string) *domain.Workout {
	t.Helper()
	ctx := context.Background()
	w, err := f.workouts.CreateWorkout(ctx, service.NewWorkout{Name: name, Date: date, Duration: 60, Notes: "notes for " + name})
	require.NoError(t, err)
	for i, e := range exercises {
		_, err := f.exercises.CreateExercise(ctx, w.ID, service.NewExercise{
			Name: e, Type: domain.TypeStrengthTraining, Sets: 3 + i, Reps: 8, Weight: 60 + float64(i)*2.5, Notes: "cue " + e,
		})
		require.NoError(t, err)
	}
	w, err = f.workouts.GetWorkout(ctx, w.ID)
	require.NoError(t, err)
	return w
}

var errBackendDown = errors.New("connection refused")
