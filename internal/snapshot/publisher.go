package snapshot

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"alcyxob/workout-tracker/internal/domain"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Publisher writes the widget snapshot after each committed mutation. It never reports
// failures to the mutating caller: the widget simply keeps its previous snapshot.
type Publisher struct {
	kv  KV
	log logrus.FieldLogger
	loc *time.Location // Calendar days are computed in this location
}

// NewPublisher publishes into kv; loc decides which calendar day a workout falls on.
func NewPublisher(kv KV, loc *time.Location, log logrus.FieldLogger) *Publisher {
	if loc == nil {
		loc = time.Local
	}
	return &Publisher{kv: kv, log: log, loc: loc}
}

// Publish replaces the workout date list and then asks the widget to reload.
func (p *Publisher) Publish(ctx context.Context, workouts []domain.Workout) {
	dates := WorkoutDates(workouts, p.loc)
	data, err := json.Marshal(dates)
	if err != nil {
		p.log.WithError(err).Error("Failed to encode widget dates")
		return
	}
	if err := p.kv.Set(ctx, KeyWorkoutDates, data); err != nil {
		p.log.WithError(err).Warn("Failed to publish widget dates")
		return
	}
	p.Invalidate(ctx)
	p.log.WithField("days", len(dates)).Debug("Widget snapshot published")
}

// PublishHighlightColor shares the calendar highlight color with the widget.
func (p *Publisher) PublishHighlightColor(ctx context.Context, color string) {
	if err := p.kv.Set(ctx, KeyHighlightColor, []byte(color)); err != nil {
		p.log.WithError(err).Warn("Failed to publish highlight color")
		return
	}
	p.Invalidate(ctx)
}

// Invalidate writes a fresh reload token so a waiting widget re-renders now instead of at
// its next scheduled refresh.
func (p *Publisher) Invalidate(ctx context.Context) {
	if err := p.kv.Set(ctx, KeyReloadToken, []byte(uuid.NewString())); err != nil {
		p.log.WithError(err).Warn("Failed to invalidate widget")
	}
}

// WorkoutDates projects workouts onto their sorted, unique calendar days in loc.
func WorkoutDates(workouts []domain.Workout, loc *time.Location) []string {
	seen := make(map[string]struct{}, len(workouts))
	dates := make([]string, 0, len(workouts))
	for _, w := range workouts {
		d := w.Date.In(loc).Format(domain.DayLayout)
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		dates = append(dates, d)
	}
	sort.Strings(dates)
	return dates
}

// ReadWorkoutDates returns the published day list.
func ReadWorkoutDates(ctx context.Context, kv KV) ([]string, error) {
	data, err := kv.Get(ctx, KeyWorkoutDates)
	if err != nil {
		return nil, err
	}
	var dates []string
	if err := json.Unmarshal(data, &dates); err != nil {
		return nil, errors.Wrap(err, "decode workout dates")
	}
	return dates, nil
}

// ReadString returns a plain string value, or fallback when the key is missing or unreadable.
func ReadString(ctx context.Context, kv KV, key, fallback string) string {
	data, err := kv.Get(ctx, key)
	if err != nil || len(data) == 0 {
		return fallback
	}
	return string(data)
}
