package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"alcyxob/workout-tracker/internal/domain"
	"alcyxob/workout-tracker/internal/repository"

	"github.com/sirupsen/logrus"
)

// --- Service Interface ---
type BackupService interface {
	Export(ctx context.Context) (string, error)
	Upload(ctx context.Context, document, identifier string) error
	Download(ctx context.Context, identifier string) (string, error)
	Restore(ctx context.Context, document string) error
	Pull(ctx context.Context, identifier string) error
}

// --- Service Implementation ---

type backupService struct {
	workoutRepo repository.WorkoutRepository
	remote      *RemoteManager
	prefs       PreferenceService
	notifier    *changeNotifier
	deviceModel string
	log         logrus.FieldLogger
}

// NewBackupService creates the backup/restore service. deviceModel is stored with each upload.
func NewBackupService(deps Deps, remote *RemoteManager, deviceModel string) BackupService {
	return &backupService{
		workoutRepo: deps.Workouts,
		remote:      remote,
		prefs:       deps.Preferences,
		notifier:    deps.notifier(),
		deviceModel: deviceModel,
		log:         deps.Log,
	}
}

// Export serialises every workout with its ordered exercises as a JSON array.
func (s *backupService) Export(ctx context.Context) (string, error) {
	workouts, err := s.workoutRepo.List(ctx)
	if err != nil {
		return "", storageError(err)
	}
	doc := make([]domain.BackupWorkout, 0, len(workouts))
	for _, w := range workouts {
		doc = append(doc, domain.ToBackup(w))
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return "", domain.Wrap(domain.ErrEncoding, err)
	}
	return string(data), nil
}

// Upload overwrites the remote backup for identifier. Only a successful upload clears the
// unsynced-changes flag.
func (s *backupService) Upload(ctx context.Context, document, identifier string) error {
	backend, err := s.remote.Backend()
	if err != nil {
		return err
	}
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return fmt.Errorf("%w: backup identifier is required", domain.ErrInvalidArgument)
	}
	if !json.Valid([]byte(document)) {
		return fmt.Errorf("%w: backup document is not valid JSON", domain.ErrInvalidArgument)
	}

	record := &domain.BackupRecord{
		Identifier:  identifier,
		WorkoutData: document,
		DeviceModel: s.deviceModel,
	}
	if err := backend.Put(ctx, record); err != nil {
		return domain.Wrap(domain.ErrNetwork, err)
	}

	if err := s.prefs.ClearDirty(ctx); err != nil {
		s.log.WithError(err).Error("Upload succeeded but the unsynced-changes flag could not be persisted")
	}
	if err := s.prefs.SetRemoteIdentifier(ctx, identifier); err != nil {
		s.log.WithError(err).Warn("Failed to remember remote identifier")
	}
	s.log.WithField("identifier", identifier).Info("Backup uploaded")
	return nil
}

// Download returns the stored document for identifier.
func (s *backupService) Download(ctx context.Context, identifier string) (string, error) {
	backend, err := s.remote.Backend()
	if err != nil {
		return "", err
	}
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return "", fmt.Errorf("%w: backup identifier is required", domain.ErrInvalidArgument)
	}

	record, err := backend.Get(ctx, identifier)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", fmt.Errorf("%w: no backup for %q", domain.ErrNotFound, identifier)
		}
		return "", domain.Wrap(domain.ErrNetwork, err)
	}
	return record.WorkoutData, nil
}

// Restore replaces the whole local store with document. The document is parsed and
// validated completely before anything is deleted. The unsynced-changes flag is untouched.
func (s *backupService) Restore(ctx context.Context, document string) error {
	workouts, err := ParseBackup(document)
	if err != nil {
		return err
	}
	if err := s.workoutRepo.ReplaceAll(ctx, workouts); err != nil {
		return storageError(err)
	}
	s.notifier.committed(ctx, false)

	s.log.WithField("workouts", len(workouts)).Info("Store restored from backup")
	return nil
}

// Pull downloads the backup for identifier and restores it.
func (s *backupService) Pull(ctx context.Context, identifier string) error {
	document, err := s.Download(ctx, identifier)
	if err != nil {
		return err
	}
	return s.Restore(ctx, document)
}

// ParseBackup decodes a backup document into workouts with fresh identities.
func ParseBackup(document string) ([]domain.Workout, error) {
	var doc []domain.BackupWorkout
	if err := json.Unmarshal([]byte(document), &doc); err != nil {
		return nil, domain.Wrap(domain.ErrDecoding, err)
	}
	if doc == nil {
		return nil, fmt.Errorf("%w: backup document must be a JSON array", domain.ErrDecoding)
	}

	workouts := make([]domain.Workout, 0, len(doc))
	for _, bw := range doc {
		w, err := domain.FromBackup(bw)
		if err != nil {
			return nil, domain.Wrap(domain.ErrDecoding, err)
		}
		workouts = append(workouts, w)
	}
	return workouts, nil
}
