package domain_test

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"alcyxob/workout-tracker/internal/domain"
	"alcyxob/workout-tracker/internal/units"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample() domain.Workout {
	id := uuid.New()
	return domain.Workout{
		ID:       id,
		Name:     "Pull",
		Date:     time.Date(2026, 2, 3, 7, 45, 12, 0, time.FixedZone("UTC+1", 3600)),
		Duration: 50,
		Notes:    domain.NotesOf("grip work"),
		Exercises: []domain.Exercise{
			{ID: uuid.New(), WorkoutID: id, Name: "Row", Type: domain.TypeStrengthTraining, Sets: 4, Reps: 10, Weight: 70, Order: 1},
			{ID: uuid.New(), WorkoutID: id, Name: "Pull Up", Type: domain.TypeBodyweight, Sets: 3, Reps: 8, Order: 0, Notes: domain.NotesOf("strict")},
		},
	}
}

func TestWorkoutCopyHasFreshIdentities(t *testing.T) {
	w := sample()
	w.SortExercises()
	when := time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)
	dup := w.Copy(when)

	assert.NotEqual(t, w.ID, dup.ID)
	assert.Equal(t, when, dup.Date)
	require.Len(t, dup.Exercises, 2)
	for i := range dup.Exercises {
		assert.NotEqual(t, w.Exercises[i].ID, dup.Exercises[i].ID)
		assert.Equal(t, dup.ID, dup.Exercises[i].WorkoutID)
		assert.Equal(t, w.Exercises[i].Order, dup.Exercises[i].Order)
	}

	*dup.Notes = "changed"
	*dup.Exercises[0].Notes = "changed"
	assert.Equal(t, "grip work", *w.Notes)
	assert.Equal(t, "strict", *w.Exercises[0].Notes)
}

func TestBackupConversion(t *testing.T) {
	w := sample()
	bw := domain.ToBackup(w)

	assert.Equal(t, "2026-02-03T06:45:12Z", bw.Date)
	require.Len(t, bw.Exercises, 2)
	assert.Equal(t, "Pull Up", bw.Exercises[0].Name, "exported in order")
	assert.Equal(t, "Strength Training", bw.Exercises[1].Type)

	back, err := domain.FromBackup(bw)
	require.NoError(t, err)
	assert.NotEqual(t, w.ID, back.ID)
	assert.True(t, w.Date.Equal(back.Date))
	assert.Equal(t, time.UTC, back.Date.Location())
	assert.Equal(t, "grip work", *back.Notes)
	for _, e := range back.Exercises {
		assert.Equal(t, back.ID, e.WorkoutID)
	}
	assert.Equal(t, bw, domain.ToBackup(back))
}

func TestFromBackupRejectsInvalidInput(t *testing.T) {
	ok := domain.ToBackup(sample())

	bad := ok
	bad.Date = "03/02/2026"
	_, err := domain.FromBackup(bad)
	assert.Error(t, err)

	bad = ok
	bad.Duration = -1
	_, err = domain.FromBackup(bad)
	assert.Error(t, err)

	bad = domain.ToBackup(sample())
	bad.Exercises[0].Type = "Yoga"
	_, err = domain.FromBackup(bad)
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)

	bad = domain.ToBackup(sample())
	bad.Exercises[1].Weight = -5
	_, err = domain.FromBackup(bad)
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func TestExerciseTypes(t *testing.T) {
	for _, typ := range domain.ExerciseTypes {
		parsed, err := domain.ParseExerciseType(string(typ))
		require.NoError(t, err)
		assert.Equal(t, typ, parsed)
		assert.NotEmpty(t, typ.MeasurementFields())
		assert.NotEmpty(t, domain.BuiltinExercises[typ])
	}
	_, err := domain.ParseExerciseType("strength training")
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)

	assert.Equal(t, []string{"duration", "distance", "calories"}, domain.TypeCardio.MeasurementFields())
	assert.True(t, domain.IsBuiltinExercise(domain.TypeStrengthTraining, "Bench Press"))
	assert.False(t, domain.IsBuiltinExercise(domain.TypeCardio, "Bench Press"))
}

func TestPrimaryMetrics(t *testing.T) {
	e := domain.Exercise{Type: domain.TypeStrengthTraining, Sets: 3, Reps: 10, Weight: 100}
	assert.Equal(t, "3 sets × 10 reps × 100.0 kg", e.PrimaryMetrics(units.Kilograms))
	assert.Equal(t, "3 sets × 10 reps × 220.5 lbs", e.PrimaryMetrics(units.Pounds))

	cardio := domain.Exercise{Type: domain.TypeCardio, Duration: 30, Distance: 5.25, Calories: 300}
	assert.Equal(t, "30 min, 5.2 km, 300 cal", cardio.PrimaryMetrics(units.Kilograms))
}

func TestErrorKinds(t *testing.T) {
	cause := errors.New("disk I/O error")
	err := domain.Wrap(domain.ErrStorage, cause)
	assert.ErrorIs(t, err, domain.ErrStorage)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, domain.ErrNetwork)
	assert.Equal(t, "storage error: disk I/O error", err.Error())
	assert.Nil(t, domain.Wrap(domain.ErrStorage, nil))

	wrapped := fmt.Errorf("restore: %w", err)
	assert.ErrorIs(t, wrapped, domain.ErrStorage)
}

func TestCalendarBoundaries(t *testing.T) {
	loc := time.FixedZone("UTC-5", -5*3600)
	now := time.Date(2026, 12, 31, 23, 10, 0, 0, loc)
	assert.Equal(t, time.Date(2026, 12, 31, 0, 0, 0, 0, loc), domain.StartOfDay(now))
	assert.Equal(t, time.Date(2027, 1, 1, 0, 0, 0, 0, loc), domain.StartOfNextDay(now))
	assert.Equal(t, time.Date(2026, 12, 1, 0, 0, 0, 0, loc), domain.StartOfMonth(now))
}
