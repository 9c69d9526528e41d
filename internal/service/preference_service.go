package service

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"sync"

	"alcyxob/workout-tracker/internal/domain"
	"alcyxob/workout-tracker/internal/repository"
	"alcyxob/workout-tracker/internal/units"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Preference keys in the settings table
const (
	prefWeightUnit       = "weightUnit"
	prefThemeMode        = "themeMode"
	prefHighlightColor   = "highlightColor"
	prefRemoteIdentifier = "remoteIdentifier"
	prefRemote           = "remoteCredentials"
	prefDirty            = "hasUnsyncedChanges"
	prefPasscodeHash     = "passcodeHash"
	prefUserExercises    = "userExercises_" // + exercise type
)

var hexColor = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// --- Service Interface ---
type PreferenceService interface {
	Get() domain.Preferences
	SetWeightUnit(ctx context.Context, unit units.WeightUnit) error
	SetThemeMode(ctx context.Context, mode domain.ThemeMode) error
	SetHighlightColor(ctx context.Context, color string) error
	SetRemoteIdentifier(ctx context.Context, identifier string) error
	SetRemoteCredentials(ctx context.Context, creds *domain.RemoteCredentials) error
	SetPasscodeHash(ctx context.Context, hash string) error

	MarkDirty(ctx context.Context) error
	ClearDirty(ctx context.Context) error
	IsDirty() bool

	AddCustomExercise(ctx context.Context, exerciseType domain.ExerciseType, name string) error
	CustomExercises(exerciseType domain.ExerciseType) []string
	RetainCustomExercises(ctx context.Context, exerciseType domain.ExerciseType, inUse []string) error
}

// --- Service Implementation ---

// preferenceService keeps every preference in memory and writes through to the repository.
type preferenceService struct {
	repo      repository.PreferenceRepository
	publisher SnapshotPublisher
	log       logrus.FieldLogger

	mu     sync.RWMutex
	prefs  domain.Preferences
	custom map[domain.ExerciseType][]string
}

// NewPreferenceService loads all preferences eagerly so they are readable right after startup.
func NewPreferenceService(ctx context.Context, repo repository.PreferenceRepository, publisher SnapshotPublisher, log logrus.FieldLogger) (PreferenceService, error) {
	s := &preferenceService{
		repo:      repo,
		publisher: publisher,
		log:       log,
		prefs:     domain.DefaultPreferences(),
		custom:    make(map[domain.ExerciseType][]string),
	}
	if err := s.load(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *preferenceService) load(ctx context.Context) error {
	all, err := s.repo.All(ctx)
	if err != nil {
		return storageError(err)
	}

	if v, ok := all[prefWeightUnit]; ok {
		if u, err := units.ParseUnit(v); err == nil {
			s.prefs.WeightUnit = u
		} else {
			s.log.WithField("value", v).Warn("Ignoring stored weight unit")
		}
	}
	if v, ok := all[prefThemeMode]; ok {
		if m, err := domain.ParseThemeMode(v); err == nil {
			s.prefs.ThemeMode = m
		} else {
			s.log.WithField("value", v).Warn("Ignoring stored theme mode")
		}
	}
	if v, ok := all[prefHighlightColor]; ok && hexColor.MatchString(v) {
		s.prefs.HighlightColor = v
	}
	s.prefs.RemoteIdentifier = all[prefRemoteIdentifier]
	s.prefs.PasscodeHash = all[prefPasscodeHash]
	s.prefs.Dirty, _ = strconv.ParseBool(all[prefDirty])

	if v, ok := all[prefRemote]; ok && v != "" {
		var creds domain.RemoteCredentials
		if err := json.Unmarshal([]byte(v), &creds); err != nil {
			s.log.WithError(err).Warn("Ignoring unreadable remote credentials")
		} else {
			s.prefs.Remote = &creds
		}
	}

	for _, t := range domain.ExerciseTypes {
		v, ok := all[prefUserExercises+string(t)]
		if !ok {
			continue
		}
		var names []string
		if err := json.Unmarshal([]byte(v), &names); err != nil {
			s.log.WithError(err).WithField("type", t).Warn("Ignoring unreadable custom exercise list")
			continue
		}
		s.custom[t] = names
	}
	return nil
}

// Get returns a copy of the current preferences.
func (s *preferenceService) Get() domain.Preferences {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p := s.prefs
	if p.Remote != nil {
		creds := *p.Remote
		p.Remote = &creds
	}
	return p
}

func (s *preferenceService) set(ctx context.Context, key, value string, apply func(*domain.Preferences)) error {
	if err := s.repo.Set(ctx, key, value); err != nil {
		return storageError(err)
	}
	s.mu.Lock()
	apply(&s.prefs)
	s.mu.Unlock()
	return nil
}

func (s *preferenceService) SetWeightUnit(ctx context.Context, unit units.WeightUnit) error {
	u, err := units.ParseUnit(string(unit))
	if err != nil {
		return domain.Wrap(domain.ErrInvalidArgument, err)
	}
	return s.set(ctx, prefWeightUnit, string(u), func(p *domain.Preferences) { p.WeightUnit = u })
}

func (s *preferenceService) SetThemeMode(ctx context.Context, mode domain.ThemeMode) error {
	m, err := domain.ParseThemeMode(string(mode))
	if err != nil {
		return err
	}
	return s.set(ctx, prefThemeMode, string(m), func(p *domain.Preferences) { p.ThemeMode = m })
}

// SetHighlightColor stores a #RRGGBB color and shares it with the widget.
func (s *preferenceService) SetHighlightColor(ctx context.Context, color string) error {
	if !hexColor.MatchString(color) {
		return fmt.Errorf("%w: highlight color must look like #RRGGBB", domain.ErrInvalidArgument)
	}
	if err := s.set(ctx, prefHighlightColor, color, func(p *domain.Preferences) { p.HighlightColor = color }); err != nil {
		return err
	}
	s.publisher.PublishHighlightColor(ctx, color)
	return nil
}

func (s *preferenceService) SetRemoteIdentifier(ctx context.Context, identifier string) error {
	return s.set(ctx, prefRemoteIdentifier, identifier, func(p *domain.Preferences) { p.RemoteIdentifier = identifier })
}

// SetRemoteCredentials persists creds; nil forgets them.
func (s *preferenceService) SetRemoteCredentials(ctx context.Context, creds *domain.RemoteCredentials) error {
	if creds == nil {
		if err := s.repo.Delete(ctx, prefRemote); err != nil {
			return storageError(err)
		}
		s.mu.Lock()
		s.prefs.Remote = nil
		s.mu.Unlock()
		return nil
	}
	data, err := json.Marshal(creds)
	if err != nil {
		return domain.Wrap(domain.ErrEncoding, err)
	}
	stored := *creds
	return s.set(ctx, prefRemote, string(data), func(p *domain.Preferences) { p.Remote = &stored })
}

func (s *preferenceService) SetPasscodeHash(ctx context.Context, hash string) error {
	return s.set(ctx, prefPasscodeHash, hash, func(p *domain.Preferences) { p.PasscodeHash = hash })
}

// MarkDirty records that local data changed since the last upload. The in-memory flag is
// set even when persisting it fails.
func (s *preferenceService) MarkDirty(ctx context.Context) error {
	return s.setDirty(ctx, true)
}

// ClearDirty is called only after a confirmed upload.
func (s *preferenceService) ClearDirty(ctx context.Context) error {
	return s.setDirty(ctx, false)
}

func (s *preferenceService) setDirty(ctx context.Context, dirty bool) error {
	s.mu.Lock()
	s.prefs.Dirty = dirty
	s.mu.Unlock()
	if err := s.repo.Set(ctx, prefDirty, strconv.FormatBool(dirty)); err != nil {
		return storageError(err)
	}
	return nil
}

func (s *preferenceService) IsDirty() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.prefs.Dirty
}

// AddCustomExercise registers a user-chosen name for the category. Built-in and already
// known names are ignored.
func (s *preferenceService) AddCustomExercise(ctx context.Context, exerciseType domain.ExerciseType, name string) error {
	if name == "" || domain.IsBuiltinExercise(exerciseType, name) {
		return nil
	}
	s.mu.RLock()
	current := s.custom[exerciseType]
	s.mu.RUnlock()
	for _, n := range current {
		if n == name {
			return nil
		}
	}
	next := append(append([]string(nil), current...), name)
	sort.Strings(next)
	return s.storeCustom(ctx, exerciseType, next)
}

// CustomExercises returns the registered custom names for the category, sorted.
func (s *preferenceService) CustomExercises(exerciseType domain.ExerciseType) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.custom[exerciseType]...)
}

// RetainCustomExercises prunes custom names no exercise references any more.
func (s *preferenceService) RetainCustomExercises(ctx context.Context, exerciseType domain.ExerciseType, inUse []string) error {
	used := make(map[string]struct{}, len(inUse))
	for _, n := range inUse {
		used[n] = struct{}{}
	}
	current := s.CustomExercises(exerciseType)
	kept := make([]string, 0, len(current))
	for _, n := range current {
		if _, ok := used[n]; ok {
			kept = append(kept, n)
		}
	}
	if len(kept) == len(current) {
		return nil
	}
	return s.storeCustom(ctx, exerciseType, kept)
}

func (s *preferenceService) storeCustom(ctx context.Context, exerciseType domain.ExerciseType, names []string) error {
	data, err := json.Marshal(names)
	if err != nil {
		return domain.Wrap(domain.ErrEncoding, err)
	}
	if err := s.repo.Set(ctx, prefUserExercises+string(exerciseType), string(data)); err != nil {
		return storageError(errors.Wrapf(err, "store custom %s exercises", exerciseType))
	}
	s.mu.Lock()
	s.custom[exerciseType] = names
	s.mu.Unlock()
	return nil
}
