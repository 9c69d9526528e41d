package service

import (
	"context"
	"errors"

	"alcyxob/workout-tracker/internal/domain"
	"alcyxob/workout-tracker/internal/repository"

	"github.com/sirupsen/logrus"
)

// SnapshotPublisher writes the widget's derived view. Publishing never fails the caller.
type SnapshotPublisher interface {
	Publish(ctx context.Context, workouts []domain.Workout)
	PublishHighlightColor(ctx context.Context, color string)
}

// changeNotifier runs the post-commit steps shared by every mutation: refresh the state
// store, publish the widget snapshot and, for user edits, mark the store dirty.
type changeNotifier struct {
	workoutRepo repository.WorkoutRepository
	state       *WorkoutState
	publisher   SnapshotPublisher
	prefs       PreferenceService
	log         logrus.FieldLogger
}

func (n *changeNotifier) committed(ctx context.Context, markDirty bool) {
	workouts, err := n.workoutRepo.List(ctx)
	if err != nil {
		n.log.WithError(err).Error("Failed to reload workouts after commit")
	} else {
		n.state.Set(workouts)
		n.publisher.Publish(ctx, workouts)
	}

	if markDirty {
		if err := n.prefs.MarkDirty(ctx); err != nil {
			n.log.WithError(err).Error("Failed to persist unsynced-changes flag")
		}
	}
}

// storageError maps a repository failure onto the domain error kinds.
func storageError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, repository.ErrNotFound) {
		return domain.ErrNotFound
	}
	return domain.Wrap(domain.ErrStorage, err)
}
