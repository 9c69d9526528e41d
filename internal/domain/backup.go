package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// BackupRecord is what a remote backend stores for one identifier.
type BackupRecord struct {
	Identifier  string    `bson:"_id" json:"identifier"`
	Timestamp   time.Time `bson:"timestamp" json:"timestamp"`     // Assigned by the remote server
	WorkoutData string    `bson:"workoutData" json:"workoutData"` // Serialized backup document
	DeviceModel string    `bson:"deviceModel" json:"deviceModel"`
}

// BackupWorkout is the portable form of a Workout inside a backup document.
type BackupWorkout struct {
	Name      string           `json:"name"`
	Date      string           `json:"date"` // ISO-8601
	Duration  int              `json:"duration"`
	Notes     *string          `json:"notes"`
	Exercises []BackupExercise `json:"exercises"`
}

// BackupExercise is the portable form of an Exercise.
type BackupExercise struct {
	Name     string  `json:"name"`
	Type     string  `json:"type"`
	Sets     int     `json:"sets"`
	Reps     int     `json:"reps"`
	Weight   float64 `json:"weight"`
	Duration int     `json:"duration"`
	Distance float64 `json:"distance"`
	Calories int     `json:"calories"`
	HoldTime int     `json:"holdTime"`
	Notes    *string `json:"notes"`
	Order    int     `json:"order"`
}

// ToBackup converts a workout (with its loaded exercises) to its portable form.
func ToBackup(w Workout) BackupWorkout {
	w.SortExercises()
	bw := BackupWorkout{
		Name:      w.Name,
		Date:      w.Date.UTC().Format(time.RFC3339),
		Duration:  w.Duration,
		Notes:     cloneString(w.Notes),
		Exercises: make([]BackupExercise, 0, len(w.Exercises)),
	}
	for _, e := range w.Exercises {
		bw.Exercises = append(bw.Exercises, BackupExercise{
			Name:     e.Name,
			Type:     string(e.Type),
			Sets:     e.Sets,
			Reps:     e.Reps,
			Weight:   e.Weight,
			Duration: e.Duration,
			Distance: e.Distance,
			Calories: e.Calories,
			HoldTime: e.HoldTime,
			Notes:    cloneString(e.Notes),
			Order:    e.Order,
		})
	}
	return bw
}

// FromBackup rebuilds a workout with fresh identities. It fails on any field that
// could not have come from a valid export, so callers can reject a document up front.
func FromBackup(bw BackupWorkout) (Workout, error) {
	date, err := time.Parse(time.RFC3339, bw.Date)
	if err != nil {
		return Workout{}, fmt.Errorf("workout %q: bad date %q: %w", bw.Name, bw.Date, err)
	}
	if bw.Duration < 0 {
		return Workout{}, fmt.Errorf("workout %q: negative duration", bw.Name)
	}
	w := Workout{
		ID:        uuid.New(),
		Name:      bw.Name,
		Date:      date.UTC(),
		Duration:  bw.Duration,
		Notes:     cloneString(bw.Notes),
		Exercises: make([]Exercise, 0, len(bw.Exercises)),
	}
	for _, be := range bw.Exercises {
		t, err := ParseExerciseType(be.Type)
		if err != nil {
			return Workout{}, fmt.Errorf("workout %q: exercise %q: %w", bw.Name, be.Name, err)
		}
		e := Exercise{
			ID:        uuid.New(),
			WorkoutID: w.ID,
			Name:      be.Name,
			Type:      t,
			Sets:      be.Sets,
			Reps:      be.Reps,
			Weight:    be.Weight,
			Duration:  be.Duration,
			Distance:  be.Distance,
			Calories:  be.Calories,
			HoldTime:  be.HoldTime,
			Notes:     cloneString(be.Notes),
			Order:     be.Order,
		}
		if err := e.Validate(); err != nil {
			return Workout{}, fmt.Errorf("workout %q: %w", bw.Name, err)
		}
		w.Exercises = append(w.Exercises, e)
	}
	w.SortExercises()
	return w, nil
}
