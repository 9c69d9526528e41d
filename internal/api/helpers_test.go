package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"alcyxob/workout-tracker/internal/api"
	"alcyxob/workout-tracker/internal/domain"
	"alcyxob/workout-tracker/internal/log"
	"alcyxob/workout-tracker/internal/repository"
	"alcyxob/workout-tracker/internal/repository/sqlite"
	"alcyxob/workout-tracker/internal/service"
	"alcyxob/workout-tracker/internal/snapshot"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

type memoryBackend struct {
	mu      sync.Mutex
	records map[string]domain.BackupRecord
}

func (b *memoryBackend) Put(_ context.Context, record *domain.BackupRecord) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	r := *record
	r.Timestamp = time.Now().UTC()
	b.records[r.Identifier] = r
	return nil
}

func (b *memoryBackend) Get(_ context.Context, identifier string) (*domain.BackupRecord, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	r, ok := b.records[identifier]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &r, nil
}

type testServer struct {
	router  *gin.Engine
	kv      snapshot.KV
	prefs   service.PreferenceService
	backend *memoryBackend
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	ctx := context.Background()
	logger := log.Discard()
	shared := t.TempDir()

	db, err := sqlite.ConnectDB(filepath.Join(shared, "workouts.db"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlite.DisconnectDB(db) })

	kv, err := snapshot.NewFileKV(filepath.Join(shared, "snapshot"))
	require.NoError(t, err)
	publisher := snapshot.NewPublisher(kv, time.UTC, logger)

	prefs, err := service.NewPreferenceService(ctx, sqlite.NewPreferenceRepository(db), publisher, logger)
	require.NoError(t, err)

	deps := service.Deps{
		Workouts:    sqlite.NewWorkoutRepository(db),
		Exercises:   sqlite.NewExerciseRepository(db),
		State:       service.NewWorkoutState(),
		Publisher:   publisher,
		Preferences: prefs,
		Log:         logger,
	}
	backend := &memoryBackend{records: map[string]domain.BackupRecord{}}
	remote := service.NewRemoteManager(func(context.Context, domain.RemoteCredentials) (repository.BackupRepository, func() error, error) {
		return backend, nil, nil
	}, prefs, logger)

	router := gin.New()
	api.SetupRoutes(router, api.Services{
		Workouts:    service.NewWorkoutService(deps),
		Exercises:   service.NewExerciseService(deps),
		Preferences: prefs,
		Backups:     service.NewBackupService(deps, remote, "api-test"),
		Remote:      remote,
		Lock:        service.NewLockService(prefs, "api-test-secret", time.Hour),
	}, logger)

	return &testServer{router: router, kv: kv, prefs: prefs, backend: backend}
}

// do sends body (marshalled unless it is already a string) and returns the recorder.
func (s *testServer) do(t *testing.T, method, path string, body any, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var buf *bytes.Reader
	switch b := body.(type) {
	case nil:
		buf = bytes.NewReader(nil)
	case string:
		buf = bytes.NewReader([]byte(b))
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		buf = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func requireStatus(t *testing.T, w *httptest.ResponseRecorder, code int) {
	t.Helper()
	require.Equal(t, code, w.Code, w.Body.String())
}
