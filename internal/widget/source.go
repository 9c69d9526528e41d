// Package widget is the read-only side of the shared container: it rebuilds the calendar
// and quote widget entries without the main process running.
package widget

import (
	"context"

	"alcyxob/workout-tracker/internal/snapshot"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// DateSource yields the calendar days (YYYY-MM-DD) on which at least one workout exists.
type DateSource interface {
	WorkoutDates(ctx context.Context) ([]string, error)
}

// SnapshotSource reads the day list the main process published.
type SnapshotSource struct {
	kv snapshot.KV
}

// NewSnapshotSource reads from kv; a nil kv makes every read fail, as when the shared
// container is missing.
func NewSnapshotSource(kv snapshot.KV) *SnapshotSource {
	return &SnapshotSource{kv: kv}
}

func (s *SnapshotSource) WorkoutDates(ctx context.Context) ([]string, error) {
	if s.kv == nil {
		return nil, errors.New("snapshot store unavailable")
	}
	return snapshot.ReadWorkoutDates(ctx, s.kv)
}

// FallbackSource asks each source in turn and returns the first successful answer.
type FallbackSource struct {
	sources []DateSource
	log     logrus.FieldLogger
}

func NewFallbackSource(log logrus.FieldLogger, sources ...DateSource) *FallbackSource {
	return &FallbackSource{sources: sources, log: log}
}

func (f *FallbackSource) WorkoutDates(ctx context.Context) ([]string, error) {
	var lastErr error = errors.New("no date sources")
	for i, src := range f.sources {
		dates, err := src.WorkoutDates(ctx)
		if err == nil {
			return dates, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		f.log.WithError(err).WithField("source", i).Debug("Date source failed, trying next")
		lastErr = err
	}
	return nil, lastErr
}
