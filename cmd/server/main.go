package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"alcyxob/workout-tracker/internal/api"
	"alcyxob/workout-tracker/internal/config"
	"alcyxob/workout-tracker/internal/log"
	"alcyxob/workout-tracker/internal/repository/sqlite"
	"alcyxob/workout-tracker/internal/service"
	"alcyxob/workout-tracker/internal/snapshot"

	"github.com/gin-gonic/gin"
)

func main() {
	logger := log.GetLogger()
	logger.Info("Starting Workout Tracker...")

	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		logger.WithError(err).Fatal("Could not load config")
	}
	log.SetLevel(cfg.Log.Level)
	logger.Info("Configuration loaded.")

	ctx := context.Background()

	// --- Local Store ---
	db, err := sqlite.ConnectDB(cfg.DatabasePath(), logger)
	if err != nil {
		logger.WithError(err).Fatal("Could not open the workout store")
	}
	defer func() {
		logger.Info("Closing workout store...")
		if err := sqlite.DisconnectDB(db); err != nil {
			logger.WithError(err).Error("Failed to close workout store")
		}
	}()
	logger.WithField("path", cfg.DatabasePath()).Info("Workout store opened.")

	// --- Widget Publication ---
	kv, closeKV, err := snapshot.Open(ctx, cfg.SnapshotOptions(false))
	if err != nil {
		logger.WithError(err).Fatal("Could not open the widget snapshot store")
	}
	defer func() {
		if err := closeKV(); err != nil {
			logger.WithError(err).Warn("Failed to close widget snapshot store")
		}
	}()
	publisher := snapshot.NewPublisher(kv, time.Local, logger)

	// --- Initialize Services ---
	logger.Info("Initializing services...")
	prefs, err := service.NewPreferenceService(ctx, sqlite.NewPreferenceRepository(db), publisher, logger)
	if err != nil {
		logger.WithError(err).Fatal("Could not load preferences")
	}

	deps := service.Deps{
		Workouts:    sqlite.NewWorkoutRepository(db),
		Exercises:   sqlite.NewExerciseRepository(db),
		State:       service.NewWorkoutState(),
		Publisher:   publisher,
		Preferences: prefs,
		Log:         logger,
	}

	remote := service.NewRemoteManager(newBackupBackend(logger), prefs, logger)
	if err := remote.AutoConfigure(ctx, cfg.RemoteCredentials()); err != nil {
		// Not fatal: the backend can be configured again from settings.
		logger.WithError(err).Warn("Remote backup backend unavailable")
	}
	defer func() {
		if err := remote.Close(); err != nil {
			logger.WithError(err).Warn("Failed to close remote backup backend")
		}
	}()

	secret := cfg.Auth.Secret
	if secret == "" {
		// Tokens then only survive until restart.
		secret = randomSecret()
	}

	workoutService := service.NewWorkoutService(deps)
	services := api.Services{
		Workouts:    workoutService,
		Exercises:   service.NewExerciseService(deps),
		Preferences: prefs,
		Backups:     service.NewBackupService(deps, remote, deviceModel(cfg.Device.Name)),
		Remote:      remote,
		Lock:        service.NewLockService(prefs, secret, cfg.Auth.Expiration),
	}

	// The widget may start before any mutation happens.
	if err := workoutService.Refresh(ctx); err != nil {
		logger.WithError(err).Fatal("Could not load workouts")
	}

	// --- Initialize Gin Engine ---
	if cfg.Log.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	api.SetupRoutes(router, services, logger)

	// --- Start HTTP Server ---
	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.WithField("address", cfg.Server.Address).Info("Server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("ListenAndServe failed")
		}
	}()

	// --- Graceful Shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		logger.WithError(err).Error("Server forced to shutdown")
	}
	logger.Info("Server exiting.")
}

func randomSecret() string {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		panic(err)
	}
	return hex.EncodeToString(buf)
}

// deviceModel names this installation in remote backups.
func deviceModel(configured string) string {
	if configured != "" {
		return configured
	}
	host, err := os.Hostname()
	if err != nil || host == "" {
		host = "unknown"
	}
	return host + " (" + runtime.GOOS + "/" + runtime.GOARCH + ")"
}
