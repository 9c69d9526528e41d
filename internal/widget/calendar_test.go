package widget_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"alcyxob/workout-tracker/internal/log"
	"alcyxob/workout-tracker/internal/snapshot"
	"alcyxob/workout-tracker/internal/widget"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var widgetNow = time.Date(2026, 3, 18, 9, 30, 0, 0, time.UTC)

type staticSource struct {
	dates []string
	err   error
	calls int
}

func (s *staticSource) WorkoutDates(context.Context) ([]string, error) {
	s.calls++
	return s.dates, s.err
}

// hangingSource blocks until the caller gives up.
type hangingSource struct{}

func (hangingSource) WorkoutDates(ctx context.Context) ([]string, error) {
	<-ctx.Done()
	time.Sleep(50 * time.Millisecond)
	return []string{"2026-03-01"}, nil
}

func newKV(t *testing.T) *snapshot.FileKV {
	t.Helper()
	kv, err := snapshot.NewFileKV(t.TempDir())
	require.NoError(t, err)
	return kv
}

func TestDaysOfMonth(t *testing.T) {
	month := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	dates := []string{"2026-02-28", "2026-03-05", "2026-03-01", "2026-03-05", "2026-03-31", "2026-04-01", "2026-03-xx"}
	assert.Equal(t, []int{1, 5, 31}, widget.DaysOfMonth(dates, month))
	assert.Equal(t, []int{}, widget.DaysOfMonth(nil, month))
}

func TestCalendarSnapshotFromPublishedDates(t *testing.T) {
	ctx := context.Background()
	kv := newKV(t)
	require.NoError(t, kv.Set(ctx, snapshot.KeyWorkoutDates, []byte(`["2026-02-27","2026-03-02","2026-03-18"]`)))
	require.NoError(t, kv.Set(ctx, snapshot.KeyHighlightColor, []byte("#FF9500")))

	p := widget.NewCalendarProvider(widget.NewSnapshotSource(kv), kv, time.Second, log.Discard())
	entry := p.Snapshot(ctx, widgetNow)
	assert.Equal(t, []int{2, 18}, entry.Days)
	assert.Equal(t, "#FF9500", entry.HighlightColor)
	assert.True(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC).Equal(entry.Month))

	tl := p.Timeline(ctx, widgetNow)
	require.Len(t, tl.Entries, 1)
	assert.True(t, time.Date(2026, 3, 19, 0, 0, 0, 0, time.UTC).Equal(tl.NextRefresh))
}

func TestCalendarPlaceholder(t *testing.T) {
	p := widget.NewCalendarProvider(&staticSource{}, nil, time.Second, log.Discard())
	entry := p.Placeholder(widgetNow)
	assert.Equal(t, []int{}, entry.Days)
	assert.Equal(t, widget.DefaultHighlightColor, entry.HighlightColor)
}

func TestCalendarDegradesToEmptyDays(t *testing.T) {
	ctx := context.Background()

	// Missing shared container.
	missing := widget.NewStoreSource("/nonexistent/shared/workouts.db", time.UTC)
	p := widget.NewCalendarProvider(widget.NewFallbackSource(log.Discard(), widget.NewSnapshotSource(nil), missing), nil, time.Second, log.Discard())
	entry := p.Snapshot(ctx, widgetNow)
	assert.NotNil(t, entry.Days)
	assert.Empty(t, entry.Days)
	assert.Equal(t, widget.DefaultHighlightColor, entry.HighlightColor)

	// A source that never answers is cut off by the timeout.
	p = widget.NewCalendarProvider(hangingSource{}, nil, 20*time.Millisecond, log.Discard())
	start := time.Now()
	entry = p.Snapshot(ctx, widgetNow)
	assert.Less(t, time.Since(start), time.Second)
	assert.Empty(t, entry.Days)
	assert.NotNil(t, entry.Days)

	// Garbage in the snapshot is an error, not a crash.
	kv := newKV(t)
	require.NoError(t, kv.Set(ctx, snapshot.KeyWorkoutDates, []byte(`{"not":"a list"}`)))
	p = widget.NewCalendarProvider(widget.NewSnapshotSource(kv), kv, time.Second, log.Discard())
	assert.Empty(t, p.Snapshot(ctx, widgetNow).Days)
}

func TestFallbackSourceOrder(t *testing.T) {
	ctx := context.Background()
	first := &staticSource{err: errors.New("no snapshot")}
	second := &staticSource{dates: []string{"2026-03-04"}}
	third := &staticSource{dates: []string{"2026-03-09"}}

	dates, err := widget.NewFallbackSource(log.Discard(), first, second, third).WorkoutDates(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"2026-03-04"}, dates)
	assert.Equal(t, 1, first.calls)
	assert.Equal(t, 0, third.calls)

	_, err = widget.NewFallbackSource(log.Discard(), first).WorkoutDates(ctx)
	assert.EqualError(t, err, "no snapshot")
	_, err = widget.NewFallbackSource(log.Discard()).WorkoutDates(ctx)
	assert.Error(t, err)
}
