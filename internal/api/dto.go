package api

import (
	"time"

	"alcyxob/workout-tracker/internal/domain"
	"alcyxob/workout-tracker/internal/units"

	"github.com/google/uuid"
)

// --- DTOs for API (Data Transfer Objects) ---

// ExerciseResponse carries weights in the caller's preferred unit.
type ExerciseResponse struct {
	ID         string           `json:"id"`
	WorkoutID  string           `json:"workoutId"`
	Name       string           `json:"name"`
	Type       string           `json:"type"`
	Sets       int              `json:"sets"`
	Reps       int              `json:"reps"`
	Weight     float64          `json:"weight"`
	WeightUnit units.WeightUnit `json:"weightUnit"`
	Duration   int              `json:"duration"`
	Distance   float64          `json:"distance"`
	Calories   int              `json:"calories"`
	HoldTime   int              `json:"holdTime"`
	Notes      *string          `json:"notes"`
	Order      int              `json:"order"`
	Fields     []string         `json:"fields"`  // Measurements relevant to Type
	Summary    string           `json:"summary"` // e.g. "3 sets × 10 reps × 60.0 kg"
}

type WorkoutResponse struct {
	ID        string             `json:"id"`
	Name      string             `json:"name"`
	Date      time.Time          `json:"date"`
	Duration  int                `json:"duration"`
	Notes     *string            `json:"notes"`
	Exercises []ExerciseResponse `json:"exercises"`
	CreatedAt time.Time          `json:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt"`
}

type ProgressPointResponse struct {
	Date     time.Time        `json:"date"`
	Exercise ExerciseResponse `json:"exercise"`
}

func MapExerciseToResponse(ex *domain.Exercise, unit units.WeightUnit) ExerciseResponse {
	if ex == nil {
		return ExerciseResponse{}
	}
	return ExerciseResponse{
		ID:         ex.ID.String(),
		WorkoutID:  ex.WorkoutID.String(),
		Name:       ex.Name,
		Type:       string(ex.Type),
		Sets:       ex.Sets,
		Reps:       ex.Reps,
		Weight:     units.FromKilograms(ex.Weight, unit),
		WeightUnit: unit,
		Duration:   ex.Duration,
		Distance:   ex.Distance,
		Calories:   ex.Calories,
		HoldTime:   ex.HoldTime,
		Notes:      ex.Notes,
		Order:      ex.Order,
		Fields:     ex.Type.MeasurementFields(),
		Summary:    ex.PrimaryMetrics(unit),
	}
}

func MapWorkoutToResponse(w *domain.Workout, unit units.WeightUnit) WorkoutResponse {
	if w == nil {
		return WorkoutResponse{}
	}
	exercises := make([]ExerciseResponse, len(w.Exercises))
	for i := range w.Exercises {
		exercises[i] = MapExerciseToResponse(&w.Exercises[i], unit)
	}
	return WorkoutResponse{
		ID:        w.ID.String(),
		Name:      w.Name,
		Date:      w.Date,
		Duration:  w.Duration,
		Notes:     w.Notes,
		Exercises: exercises,
		CreatedAt: w.CreatedAt,
		UpdatedAt: w.UpdatedAt,
	}
}

func MapWorkoutsToResponse(workouts []domain.Workout, unit units.WeightUnit) []WorkoutResponse {
	responses := make([]WorkoutResponse, len(workouts))
	for i := range workouts {
		responses[i] = MapWorkoutToResponse(&workouts[i], unit)
	}
	return responses
}

// parseID reads a uuid path parameter.
func parseID(raw string) (uuid.UUID, bool) {
	id, err := uuid.Parse(raw)
	return id, err == nil
}

// requestUnit resolves the unit a request's weights are written in. Empty means the
// preferred unit.
func requestUnit(raw string, preferred units.WeightUnit) (units.WeightUnit, error) {
	if raw == "" {
		return preferred, nil
	}
	return units.ParseUnit(raw)
}
