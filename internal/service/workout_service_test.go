package service_test

import (
	"context"
	"testing"
	"time"

	"alcyxob/workout-tracker/internal/domain"
	"alcyxob/workout-tracker/internal/service"
	"alcyxob/workout-tracker/internal/snapshot"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateWorkoutValidates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.workouts.CreateWorkout(ctx, service.NewWorkout{Name: "  "})
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)

	_, err = f.workouts.CreateWorkout(ctx, service.NewWorkout{Name: "Run", Duration: -1})
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)

	w, err := f.workouts.CreateWorkout(ctx, service.NewWorkout{Name: "Run"})
	require.NoError(t, err)
	assert.True(t, testNow.Equal(w.Date), "missing date defaults to now")
	assert.Nil(t, w.Notes)
	assert.Empty(t, w.Exercises)
}

func TestDuplicateWorkoutDeepCopies(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	original := f.seedWorkout(t, "Push", testNow.AddDate(0, 0, -3), "Bench Press", "Overhead Press", "Dips")

	dup, err := f.workouts.DuplicateWorkout(ctx, original.ID)
	require.NoError(t, err)

	assert.NotEqual(t, original.ID, dup.ID)
	assert.True(t, testNow.Equal(dup.Date))
	assert.False(t, original.Date.Equal(dup.Date))
	assert.Equal(t, original.Name, dup.Name)
	assert.Equal(t, original.Duration, dup.Duration)
	assert.Equal(t, original.Notes, dup.Notes)

	require.Len(t, dup.Exercises, len(original.Exercises))
	for i := range original.Exercises {
		o, d := original.Exercises[i], dup.Exercises[i]
		assert.NotEqual(t, o.ID, d.ID)
		assert.Equal(t, dup.ID, d.WorkoutID)
		assert.Equal(t, o.Order, d.Order)
		assert.Equal(t, o.Name, d.Name)
		assert.Equal(t, o.Sets, d.Sets)
		assert.Equal(t, o.Weight, d.Weight)
		assert.Equal(t, o.Notes, d.Notes)
	}

	// The original is untouched.
	again, err := f.workouts.GetWorkout(ctx, original.ID)
	require.NoError(t, err)
	assert.Len(t, again.Exercises, 3)

	_, err = f.workouts.DuplicateWorkout(ctx, uuid.New())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdateWorkoutPatchSemantics(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	w := f.seedWorkout(t, "Legs", testNow)

	// Keep everything
	got, err := f.workouts.UpdateWorkout(ctx, w.ID, service.WorkoutUpdate{})
	require.NoError(t, err)
	require.NotNil(t, got.Notes)
	assert.Equal(t, "notes for Legs", *got.Notes)
	assert.Equal(t, 60, got.Duration)

	// Set name and notes
	got, err = f.workouts.UpdateWorkout(ctx, w.ID, service.WorkoutUpdate{
		Name:  domain.Set("Leg Day"),
		Notes: domain.Set("heavy"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Leg Day", got.Name)
	assert.Equal(t, "heavy", *got.Notes)
	assert.Equal(t, 60, got.Duration)

	// Empty string clears notes
	got, err = f.workouts.UpdateWorkout(ctx, w.ID, service.WorkoutUpdate{Notes: domain.Set("")})
	require.NoError(t, err)
	assert.Nil(t, got.Notes)

	// Explicit clear
	_, err = f.workouts.UpdateWorkout(ctx, w.ID, service.WorkoutUpdate{Notes: domain.Set("again")})
	require.NoError(t, err)
	got, err = f.workouts.UpdateWorkout(ctx, w.ID, service.WorkoutUpdate{Notes: domain.Clear[string](), Duration: domain.Clear[int]()})
	require.NoError(t, err)
	assert.Nil(t, got.Notes)
	assert.Equal(t, 0, got.Duration)
	assert.Equal(t, "Leg Day", got.Name)

	_, err = f.workouts.UpdateWorkout(ctx, w.ID, service.WorkoutUpdate{Name: domain.Clear[string]()})
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
	_, err = f.workouts.UpdateWorkout(ctx, w.ID, service.WorkoutUpdate{Duration: domain.Set(-5)})
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
	_, err = f.workouts.UpdateWorkout(ctx, uuid.New(), service.WorkoutUpdate{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDeleteWorkoutRemovesExercises(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	w := f.seedWorkout(t, "Pull", testNow, "Deadlift", "Pull-ups")

	require.NoError(t, f.workouts.DeleteWorkout(ctx, w.ID))

	for _, e := range w.Exercises {
		_, err := f.exercises.GetExercise(ctx, e.ID)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	}
	var remaining int64
	require.NoError(t, f.db.Model(&domain.Exercise{}).Where("workout_id = ?", w.ID).Count(&remaining).Error)
	assert.Zero(t, remaining)

	assert.ErrorIs(t, f.workouts.DeleteWorkout(ctx, w.ID), domain.ErrNotFound)
}

func TestMutationsMarkDirtyAndPublish(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	assert.False(t, f.prefs.IsDirty())

	token := snapshot.ReadString(ctx, f.kv, snapshot.KeyReloadToken, "")
	w := f.seedWorkout(t, "Swim", time.Date(2026, 6, 3, 7, 0, 0, 0, time.UTC))
	assert.True(t, f.prefs.IsDirty())

	dates, err := snapshot.ReadWorkoutDates(ctx, f.kv)
	require.NoError(t, err)
	assert.Equal(t, []string{"2026-06-03"}, dates)
	assert.NotEqual(t, token, snapshot.ReadString(ctx, f.kv, snapshot.KeyReloadToken, ""))

	require.NoError(t, f.prefs.ClearDirty(ctx))
	require.NoError(t, f.workouts.DeleteWorkout(ctx, w.ID))
	assert.True(t, f.prefs.IsDirty())

	dates, err = snapshot.ReadWorkoutDates(ctx, f.kv)
	require.NoError(t, err)
	assert.Empty(t, dates)
}

func TestStateSubscribers(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	var seen [][]domain.Workout
	unsubscribe := f.state.Subscribe(func(ws []domain.Workout) { seen = append(seen, ws) })

	f.seedWorkout(t, "A", testNow.Add(-time.Hour))
	require.NotEmpty(t, seen)
	assert.Len(t, seen[len(seen)-1], 1)

	_, err := f.workouts.CreateWorkout(ctx, service.NewWorkout{Name: "B", Date: testNow})
	require.NoError(t, err)
	latest := seen[len(seen)-1]
	require.Len(t, latest, 2)
	assert.Equal(t, "B", latest[0].Name, "newest first")

	unsubscribe()
	unsubscribe()
	count := len(seen)
	_, err = f.workouts.ListWorkouts(ctx)
	require.NoError(t, err)
	assert.Len(t, seen, count)
	assert.Len(t, f.state.Workouts(), 2)
}

func TestCalendarDays(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.seedWorkout(t, "a", time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC))
	f.seedWorkout(t, "b", time.Date(2026, 6, 14, 9, 0, 0, 0, time.UTC))
	f.seedWorkout(t, "c", time.Date(2026, 6, 14, 18, 0, 0, 0, time.UTC))
	f.seedWorkout(t, "d", time.Date(2026, 5, 31, 9, 0, 0, 0, time.UTC))

	days, err := f.workouts.CalendarDays(ctx, time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, []int{1, 14}, days)

	days, err = f.workouts.CalendarDays(ctx, time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Empty(t, days)
}

func TestDaysInMonthUsesMonthLocation(t *testing.T) {
	east := time.FixedZone("UTC+3", 3*3600)
	dates := []time.Time{time.Date(2026, 2, 28, 22, 0, 0, 0, time.UTC)} // March 1st in UTC+3
	assert.Equal(t, []int{1}, service.DaysInMonth(dates, time.Date(2026, 3, 1, 0, 0, 0, 0, east)))
	assert.Equal(t, []int{28}, service.DaysInMonth(dates, time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)))
}
