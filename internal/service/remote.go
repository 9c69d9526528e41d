package service

import (
	"context"
	"fmt"
	"sync"

	"alcyxob/workout-tracker/internal/domain"
	"alcyxob/workout-tracker/internal/repository"

	"github.com/sirupsen/logrus"
)

// BackendFactory connects to the remote store described by creds. The returned close
// func releases the connection; it may be nil.
type BackendFactory func(ctx context.Context, creds domain.RemoteCredentials) (repository.BackupRepository, func() error, error)

// RemoteManager owns the currently configured remote backup backend.
type RemoteManager struct {
	factory BackendFactory
	prefs   PreferenceService
	log     logrus.FieldLogger

	mu      sync.RWMutex
	backend repository.BackupRepository
	closer  func() error
}

func NewRemoteManager(factory BackendFactory, prefs PreferenceService, log logrus.FieldLogger) *RemoteManager {
	return &RemoteManager{factory: factory, prefs: prefs, log: log}
}

// Configure connects with creds, swaps the active backend and persists creds for the next launch.
func (m *RemoteManager) Configure(ctx context.Context, creds domain.RemoteCredentials) error {
	if !creds.Complete() {
		return fmt.Errorf("%w: incomplete %q remote credentials", domain.ErrInvalidArgument, creds.Backend)
	}
	if err := m.connect(ctx, creds); err != nil {
		return err
	}
	return m.prefs.SetRemoteCredentials(ctx, &creds)
}

// AutoConfigure connects with the stored credentials, falling back to fallback (from the
// config file). Having neither leaves the backend unconfigured and is not an error.
func (m *RemoteManager) AutoConfigure(ctx context.Context, fallback *domain.RemoteCredentials) error {
	creds := m.prefs.Get().Remote
	source := "preferences"
	if creds == nil || !creds.Complete() {
		creds, source = fallback, "config"
	}
	if creds == nil || !creds.Complete() {
		m.log.Info("No remote backup backend configured")
		return nil
	}
	if err := m.connect(ctx, *creds); err != nil {
		return err
	}
	m.log.WithFields(logrus.Fields{"backend": creds.Backend, "source": source}).Info("Remote backup backend configured")
	return nil
}

func (m *RemoteManager) connect(ctx context.Context, creds domain.RemoteCredentials) error {
	backend, closer, err := m.factory(ctx, creds)
	if err != nil {
		return domain.Wrap(domain.ErrNetwork, err)
	}

	m.mu.Lock()
	oldCloser := m.closer
	m.backend, m.closer = backend, closer
	m.mu.Unlock()

	if oldCloser != nil {
		if err := oldCloser(); err != nil {
			m.log.WithError(err).Warn("Failed to close previous remote backend")
		}
	}
	return nil
}

// Backend returns the active backend or domain.ErrConfiguration.
func (m *RemoteManager) Backend() (repository.BackupRepository, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.backend == nil {
		return nil, domain.ErrConfiguration
	}
	return m.backend, nil
}

func (m *RemoteManager) Configured() bool {
	_, err := m.Backend()
	return err == nil
}

// Close releases the active backend.
func (m *RemoteManager) Close() error {
	m.mu.Lock()
	closer := m.closer
	m.backend, m.closer = nil, nil
	m.mu.Unlock()
	if closer != nil {
		return closer()
	}
	return nil
}
