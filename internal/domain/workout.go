package domain

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// Workout represents a single logged training session. It exclusively owns its Exercises.
type Workout struct {
	ID        uuid.UUID  `gorm:"type:text;primaryKey" json:"id"`
	Name      string     `gorm:"not null" json:"name"`
	Date      time.Time  `gorm:"index;not null" json:"date"`          // Time of day is kept so same-day workouts stay ordered
	Duration  int        `gorm:"not null;default:0" json:"duration"`  // Minutes, never negative
	Notes     *string    `json:"notes,omitempty"`                     // nil means "no notes"
	Exercises []Exercise `gorm:"foreignKey:WorkoutID" json:"exercises"` // Sorted by Order when loaded
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// SortExercises orders the exercise collection by its explicit Order field.
func (w *Workout) SortExercises() {
	sort.SliceStable(w.Exercises, func(i, j int) bool {
		return w.Exercises[i].Order < w.Exercises[j].Order
	})
}

// Copy returns a deep copy with fresh identities for the workout and every exercise.
// Order, measurements and notes are kept; the caller decides the date.
func (w *Workout) Copy(date time.Time) Workout {
	dup := Workout{
		ID:       uuid.New(),
		Name:     w.Name,
		Date:     date,
		Duration: w.Duration,
		Notes:    cloneString(w.Notes),
	}
	dup.Exercises = make([]Exercise, 0, len(w.Exercises))
	for _, ex := range w.Exercises {
		c := ex.Copy()
		c.WorkoutID = dup.ID
		dup.Exercises = append(dup.Exercises, c)
	}
	return dup
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
