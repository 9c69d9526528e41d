package api

import (
	"net/http"
	"strconv"

	"alcyxob/workout-tracker/internal/domain"
	"alcyxob/workout-tracker/internal/service"
	"alcyxob/workout-tracker/internal/units"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// ExerciseHandler serves exercise edits, progress charts and the exercise library.
type ExerciseHandler struct {
	exercises service.ExerciseService
	prefs     service.PreferenceService
	log       logrus.FieldLogger
}

func NewExerciseHandler(exercises service.ExerciseService, prefs service.PreferenceService, log logrus.FieldLogger) *ExerciseHandler {
	return &ExerciseHandler{exercises: exercises, prefs: prefs, log: log}
}

// UpdateExerciseRequest is a partial update: absent keys are kept, null clears.
type UpdateExerciseRequest struct {
	Name     domain.Patch[string]              `json:"name"`
	Type     domain.Patch[domain.ExerciseType] `json:"type"`
	Sets     domain.Patch[int]                 `json:"sets"`
	Reps     domain.Patch[int]                 `json:"reps"`
	Weight   domain.Patch[float64]             `json:"weight"`
	Unit     string                            `json:"unit"`
	Duration domain.Patch[int]                 `json:"duration"`
	Distance domain.Patch[float64]             `json:"distance"`
	Calories domain.Patch[int]                 `json:"calories"`
	HoldTime domain.Patch[int]                 `json:"holdTime"`
	Notes    domain.Patch[string]              `json:"notes"`
}

type DuplicateExerciseRequest struct {
	WorkoutID string `json:"workoutId" binding:"required"`
}

type LibraryResponse struct {
	Type  string   `json:"type"`
	Names []string `json:"names"`
}

// DefaultProgressWindowDays is the chart window when ?days is omitted.
const DefaultProgressWindowDays = 90

func (h *ExerciseHandler) UpdateExercise(c *gin.Context) {
	id, ok := parseID(c.Param("id"))
	if !ok {
		abortWithError(c, http.StatusBadRequest, "Invalid exercise ID format")
		return
	}
	var req UpdateExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	preferred := h.prefs.Get().WeightUnit
	unit, err := requestUnit(req.Unit, preferred)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}
	weight := req.Weight
	if weight.IsSet() {
		weight = domain.Set(units.ToKilograms(weight.Value(), unit))
	}

	exercise, err := h.exercises.UpdateExercise(c.Request.Context(), id, service.ExerciseUpdate{
		Name:     req.Name,
		Type:     req.Type,
		Sets:     req.Sets,
		Reps:     req.Reps,
		Weight:   weight,
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
	c.JSON(http.StatusOK, MapExerciseToResponse(exercise, preferred))
}

func (h *ExerciseHandler) DeleteExercise(c *gin.Context) {
	id, ok := parseID(c.Param("id"))
	if !ok {
		abortWithError(c, http.StatusBadRequest, "Invalid exercise ID format")
		return
	}
	if err := h.exercises.DeleteExercise(c.Request.Context(), id); err != nil {
		abortWithServiceError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// DuplicateExercise copies an exercise to the end of the workout named in the body.
func (h *ExerciseHandler) DuplicateExercise(c *gin.Context) {
	id, ok := parseID(c.Param("id"))
	if !ok {
		abortWithError(c, http.StatusBadRequest, "Invalid exercise ID format")
		return
	}
	var req DuplicateExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	into, err := uuid.Parse(req.WorkoutID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid workout ID format")
		return
	}

	exercise, err := h.exercises.DuplicateExercise(c.Request.Context(), id, into)
	if err != nil {
		abortWithServiceError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, MapExerciseToResponse(exercise, h.prefs.Get().WeightUnit))
}

// Progress returns ?exercise= occurrences from the last ?days= days, oldest first.
func (h *ExerciseHandler) Progress(c *gin.Context) {
	name := c.Query("exercise")
	if name == "" {
		abortWithError(c, http.StatusBadRequest, "exercise query parameter is required")
		return
	}
	days := DefaultProgressWindowDays
	if raw := c.Query("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "days must be an integer")
			return
		}
		days = n
	}

	points, err := h.exercises.ProgressSeries(c.Request.Context(), name, days)
	if err != nil {
		abortWithServiceError(c, h.log, err)
		return
	}
	unit := h.prefs.Get().WeightUnit
	resp := make([]ProgressPointResponse, len(points))
	for i := range points {
		resp[i] = ProgressPointResponse{
			Date:     points[i].Date,
			Exercise: MapExerciseToResponse(&points[i].Exercise, unit),
		}
	}
	c.JSON(http.StatusOK, resp)
}

// Library lists built-in and custom exercise names for a type.
func (h *ExerciseHandler) Library(c *gin.Context) {
	exerciseType := domain.ExerciseType(c.Param("type"))
	names, err := h.exercises.ExerciseLibrary(c.Request.Context(), exerciseType)
	if err != nil {
		abortWithServiceError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, LibraryResponse{Type: string(exerciseType), Names: names})
}
