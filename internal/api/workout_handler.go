package api

import (
	"net/http"
	"time"

	"alcyxob/workout-tracker/internal/domain"
	"alcyxob/workout-tracker/internal/service"
	"alcyxob/workout-tracker/internal/units"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// WorkoutHandler serves workouts, their nested exercise creation and the calendar.
type WorkoutHandler struct {
	workouts  service.WorkoutService
	exercises service.ExerciseService
	prefs     service.PreferenceService
	log       logrus.FieldLogger
}

func NewWorkoutHandler(workouts service.WorkoutService, exercises service.ExerciseService, prefs service.PreferenceService, log logrus.FieldLogger) *WorkoutHandler {
	return &WorkoutHandler{workouts: workouts, exercises: exercises, prefs: prefs, log: log}
}

type CreateWorkoutRequest struct {
	Name     string    `json:"name" binding:"required"`
	Date     time.Time `json:"date"` // Zero means now
	Duration int       `json:"duration" binding:"min=0"`
	Notes    string    `json:"notes"`
}

// UpdateWorkoutRequest is a partial update: absent keys are kept, null clears.
type UpdateWorkoutRequest struct {
	Name     domain.Patch[string]    `json:"name"`
	Date     domain.Patch[time.Time] `json:"date"`
	Duration domain.Patch[int]       `json:"duration"`
	Notes    domain.Patch[string]    `json:"notes"`
}

type CreateExerciseRequest struct {
	Name     string  `json:"name" binding:"required"`
	Type     string  `json:"type" binding:"required"`
	Sets     int     `json:"sets"`
	Reps     int     `json:"reps"`
	Weight   float64 `json:"weight"`
	Unit     string  `json:"unit"` // Unit of Weight; defaults to the preferred unit
	Duration int     `json:"duration"`
	Distance float64 `json:"distance"`
	Calories int     `json:"calories"`
	HoldTime int     `json:"holdTime"`
	Notes    string  `json:"notes"`
}

type CalendarResponse struct {
	Month string `json:"month"` // YYYY-MM
	Days  []int  `json:"days"`
}

func (h *WorkoutHandler) unit() units.WeightUnit {
	return h.prefs.Get().WeightUnit
}

// ListWorkouts godoc
// @Summary List all workouts, newest first
// @Router /workouts [get]
func (h *WorkoutHandler) ListWorkouts(c *gin.Context) {
	workouts, err := h.workouts.ListWorkouts(c.Request.Context())
	if err != nil {
		abortWithServiceError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, MapWorkoutsToResponse(workouts, h.unit()))
}

func (h *WorkoutHandler) GetWorkout(c *gin.Context) {
	id, ok := parseID(c.Param("id"))
	if !ok {
		abortWithError(c, http.StatusBadRequest, "Invalid workout ID format")
		return
	}
	workout, err := h.workouts.GetWorkout(c.Request.Context(), id)
	if err != nil {
		abortWithServiceError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, MapWorkoutToResponse(workout, h.unit()))
}

// CreateWorkout godoc
// @Summary Log a new workout
// @Param workout body CreateWorkoutRequest true "Workout details"
// @Success 201 {object} WorkoutResponse
// @Router /workouts [post]
func (h *WorkoutHandler) CreateWorkout(c *gin.Context) {
	var req CreateWorkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	workout, err := h.workouts.CreateWorkout(c.Request.Context(), service.NewWorkout{
		Name:     req.Name,
		Date:     req.Date,
		Duration: req.Duration,
		Notes:    req.Notes,
	})
	if err != nil {
		abortWithServiceError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, MapWorkoutToResponse(workout, h.unit()))
}

func (h *WorkoutHandler) UpdateWorkout(c *gin.Context) {
	id, ok := parseID(c.Param("id"))
	if !ok {
		abortWithError(c, http.StatusBadRequest, "Invalid workout ID format")
		return
	}
	var req UpdateWorkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	workout, err := h.workouts.UpdateWorkout(c.Request.Context(), id, service.WorkoutUpdate(req))
	if err != nil {
		abortWithServiceError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, MapWorkoutToResponse(workout, h.unit()))
}

func (h *WorkoutHandler) DeleteWorkout(c *gin.Context) {
	id, ok := parseID(c.Param("id"))
	if !ok {
		abortWithError(c, http.StatusBadRequest, "Invalid workout ID format")
		return
	}
	if err := h.workouts.DeleteWorkout(c.Request.Context(), id); err != nil {
		abortWithServiceError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// DuplicateWorkout copies a workout and all of its exercises onto today.
func (h *WorkoutHandler) DuplicateWorkout(c *gin.Context) {
	id, ok := parseID(c.Param("id"))
	if !ok {
		abortWithError(c, http.StatusBadRequest, "Invalid workout ID format")
		return
	}
	workout, err := h.workouts.DuplicateWorkout(c.Request.Context(), id)
	if err != nil {
		abortWithServiceError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, MapWorkoutToResponse(workout, h.unit()))
}

// CreateExercise appends an exercise to the workout in the path.
func (h *WorkoutHandler) CreateExercise(c *gin.Context) {
	workoutID, ok := parseID(c.Param("id"))
	if !ok {
		abortWithError(c, http.StatusBadRequest, "Invalid workout ID format")
		return
	}
	var req CreateExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	preferred := h.unit()
	unit, err := requestUnit(req.Unit, preferred)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	exercise, err := h.exercises.CreateExercise(c.Request.Context(), workoutID, service.NewExercise{
		Name:     req.Name,
		Type:     domain.ExerciseType(req.Type),
		Sets:     req.Sets,
		Reps:     req.Reps,
		Weight:   units.ToKilograms(req.Weight, unit),
		Duration: req.Duration,
		Distance: req.Distance,
		Calories: req.Calories,
		HoldTime: req.HoldTime,
		Notes:    req.Notes,
	})
	if err != nil {
		abortWithServiceError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, MapExerciseToResponse(exercise, preferred))
}

// Calendar lists the days of ?month=YYYY-MM (default: current month) that have workouts.
func (h *WorkoutHandler) Calendar(c *gin.Context) {
	month := time.Now()
	if raw := c.Query("month"); raw != "" {
		parsed, err := time.ParseInLocation("2006-01", raw, time.Local)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "month must be formatted YYYY-MM")
			return
		}
		month = parsed
	}

	days, err := h.workouts.CalendarDays(c.Request.Context(), month)
	if err != nil {
		abortWithServiceError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, CalendarResponse{Month: month.Format("2006-01"), Days: days})
}
