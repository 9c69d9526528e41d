package domain

import (
	"fmt"
	"time"

	"alcyxob/workout-tracker/internal/units"

	"github.com/google/uuid"
)

// ExerciseType categorises an exercise and decides which measurements apply to it.
type ExerciseType string

const (
	TypeStrengthTraining ExerciseType = "Strength Training"
	TypeCardio           ExerciseType = "Cardio"
	TypeFlexibility      ExerciseType = "Flexibility"
	TypeBodyweight       ExerciseType = "Bodyweight"
	TypeFunctional       ExerciseType = "Functional"
)

// ExerciseTypes lists every category in display order.
var ExerciseTypes = []ExerciseType{
	TypeStrengthTraining,
	TypeCardio,
	TypeFlexibility,
	TypeBodyweight,
	TypeFunctional,
}

// ParseExerciseType validates a raw category name.
func ParseExerciseType(raw string) (ExerciseType, error) {
	for _, t := range ExerciseTypes {
		if string(t) == raw {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: unknown exercise type %q", ErrInvalidArgument, raw)
}

// MeasurementFields returns the measurement names that are meaningful for the type.
func (t ExerciseType) MeasurementFields() []string {
	switch t {
	case TypeCardio:
		return []string{"duration", "distance", "calories"}
	case TypeFlexibility:
		return []string{"duration", "sets", "holdTime"}
	case TypeBodyweight:
		return []string{"sets", "reps"}
	default: // strength and functional share the loaded-movement fields
		return []string{"sets", "reps", "weight"}
	}
}

// Exercise is one tracked movement inside a Workout.
type Exercise struct {
	ID        uuid.UUID    `gorm:"type:text;primaryKey" json:"id"`
	WorkoutID uuid.UUID    `gorm:"type:text;index;not null" json:"workoutId"` // Back-reference to the owning workout
	Name      string       `gorm:"not null;index" json:"name"`
	Type      ExerciseType `gorm:"column:exercise_type;not null" json:"type"`

	Sets     int     `json:"sets"`
	Reps     int     `json:"reps"`
	Weight   float64 `json:"weight"`   // Always kilograms
	Duration int     `json:"duration"` // Minutes
	Distance float64 `json:"distance"` // Kilometers
	Calories int     `json:"calories"`
	HoldTime int     `json:"holdTime"` // Seconds

	Notes *string `json:"notes,omitempty"`
	Order int     `gorm:"column:sort_order;not null;default:0" json:"order"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Copy returns a copy with a new identity. WorkoutID and Order are left for the caller to adjust.
func (e *Exercise) Copy() Exercise {
	c := *e
	c.ID = uuid.New()
	c.Notes = cloneString(e.Notes)
	c.CreatedAt = time.Time{}
	c.UpdatedAt = time.Time{}
	return c
}

// PrimaryMetrics renders the type-relevant measurements, with weight in the given unit.
func (e *Exercise) PrimaryMetrics(unit units.WeightUnit) string {
	switch e.Type {
	case TypeStrengthTraining, TypeFunctional:
		return fmt.Sprintf("%d sets × %d reps × %s", e.Sets, e.Reps, units.FormatWeight(e.Weight, unit))
	case TypeCardio:
		return fmt.Sprintf("%d min, %.1f km, %d cal", e.Duration, e.Distance, e.Calories)
	case TypeFlexibility:
		return fmt.Sprintf("%d min, %d sets, %d sec hold", e.Duration, e.Sets, e.HoldTime)
	case TypeBodyweight:
		return fmt.Sprintf("%d sets × %d reps", e.Sets, e.Reps)
	}
	return ""
}

// Validate checks the invariants every persisted exercise must hold.
func (e *Exercise) Validate() error {
	if e.Name == "" {
		return fmt.Errorf("%w: exercise name is required", ErrInvalidArgument)
	}
	if _, err := ParseExerciseType(string(e.Type)); err != nil {
		return err
	}
	if e.Sets < 0 || e.Reps < 0 || e.Weight < 0 || e.Duration < 0 || e.Distance < 0 || e.Calories < 0 || e.HoldTime < 0 {
		return fmt.Errorf("%w: measurements cannot be negative", ErrInvalidArgument)
	}
	return nil
}

// ProgressPoint is one charted measurement snapshot: an exercise plus its parent workout's date.
type ProgressPoint struct {
	Date     time.Time `json:"date"`
	Exercise Exercise  `json:"exercise"`
}
