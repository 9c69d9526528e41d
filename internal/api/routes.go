package api

import (
	"net/http"

	"alcyxob/workout-tracker/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Services bundles everything the HTTP layer calls into.
type Services struct {
	Workouts    service.WorkoutService
	Exercises   service.ExerciseService
	Preferences service.PreferenceService
	Backups     service.BackupService
	Remote      *service.RemoteManager
	Lock        service.LockService
}

func SetupRoutes(router *gin.Engine, svc Services, log logrus.FieldLogger) {
	authHandler := NewAuthHandler(svc.Lock, log)
	workoutHandler := NewWorkoutHandler(svc.Workouts, svc.Exercises, svc.Preferences, log)
	exerciseHandler := NewExerciseHandler(svc.Exercises, svc.Preferences, log)
	settingsHandler := NewSettingsHandler(svc.Preferences, svc.Remote, svc.Lock, log)
	backupHandler := NewBackupHandler(svc.Backups, svc.Preferences, log)

	router.Use(RequestLogger(log))

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiV1 := router.Group("/api/v1")
	apiV1.POST("/auth/token", authHandler.Token)

	protected := apiV1.Group("")
	protected.Use(LockMiddleware(svc.Lock))
	{
		workoutGroup := protected.Group("/workouts")
		{
			workoutGroup.GET("", workoutHandler.ListWorkouts)
			workoutGroup.POST("", workoutHandler.CreateWorkout)
			workoutGroup.GET("/:id", workoutHandler.GetWorkout)
			workoutGroup.PATCH("/:id", workoutHandler.UpdateWorkout)
			workoutGroup.DELETE("/:id", workoutHandler.DeleteWorkout)
			workoutGroup.POST("/:id/duplicate", workoutHandler.DuplicateWorkout)
			workoutGroup.POST("/:id/exercises", workoutHandler.CreateExercise)
		}

		exerciseGroup := protected.Group("/exercises")
		{
			exerciseGroup.PATCH("/:id", exerciseHandler.UpdateExercise)
			exerciseGroup.DELETE("/:id", exerciseHandler.DeleteExercise)
			exerciseGroup.POST("/:id/duplicate", exerciseHandler.DuplicateExercise)
		}

		protected.GET("/progress", exerciseHandler.Progress)
		protected.GET("/library/:type", exerciseHandler.Library)
		protected.GET("/calendar", workoutHandler.Calendar)

		settingsGroup := protected.Group("/settings")
		{
			settingsGroup.GET("", settingsHandler.GetSettings)
			settingsGroup.PATCH("", settingsHandler.UpdateSettings)
			settingsGroup.PUT("/remote", settingsHandler.ConfigureRemote)
			settingsGroup.PUT("/passcode", settingsHandler.SetPasscode)
		}

		backupGroup := protected.Group("/backup")
		{
			backupGroup.GET("/export", backupHandler.Export)
			backupGroup.POST("/upload", backupHandler.Upload)
			backupGroup.POST("/download", backupHandler.Download)
			backupGroup.POST("/restore", backupHandler.Restore)
			backupGroup.POST("/pull", backupHandler.Pull)
		}
	}
}
