package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"alcyxob/workout-tracker/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := config.LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "workouts.db", cfg.Storage.DBName)
	assert.Equal(t, "file", cfg.Snapshot.Backend)
	assert.Equal(t, 5*time.Second, cfg.Widget.ReadTimeout)
	assert.Equal(t, time.Minute, cfg.Widget.PollInterval)
	assert.Equal(t, 12*time.Hour, cfg.Auth.Expiration)
	assert.Contains(t, cfg.Widget.QuoteURL, "api.realinspire.live")
}

func TestLoadConfigFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	yaml := `
storage:
  shared_dir: /tmp/group.workouts
remote:
  backend: mongo
  mongo:
    uri: mongodb://db:27017
widget:
  read_timeout: 2s
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644))
	t.Setenv("SERVER_ADDRESS", ":9090")

	cfg, err := config.LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/group.workouts", cfg.Storage.SharedDir)
	assert.Equal(t, "mongo", cfg.Remote.Backend)
	assert.Equal(t, "mongodb://db:27017", cfg.Remote.Mongo.URI)
	assert.Equal(t, "workout_tracker", cfg.Remote.Mongo.Name)
	assert.Equal(t, 2*time.Second, cfg.Widget.ReadTimeout)
	assert.Equal(t, ":9090", cfg.Server.Address)
}

func TestLoadConfigRejectsBrokenFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("server: [unclosed"), 0o644))

	_, err := config.LoadConfig(dir)
	assert.Error(t, err)
}

func TestDerivedPaths(t *testing.T) {
	cfg := config.Config{}
	cfg.Storage.SharedDir = "/srv/shared"
	cfg.Storage.DBName = "w.db"
	assert.Equal(t, filepath.Join("/srv/shared", "w.db"), cfg.DatabasePath())
	assert.Equal(t, filepath.Join("/srv/shared", "snapshot"), cfg.SnapshotDir())

	cfg.Snapshot.Dir = "/run/widget"
	assert.Equal(t, "/run/widget", cfg.SnapshotDir())
}

func TestRemoteCredentials(t *testing.T) {
	cfg := config.Config{}
	assert.Nil(t, cfg.RemoteCredentials())

	cfg.Remote.Backend = "s3"
	cfg.Remote.S3 = config.S3Config{Region: "eu-central-1", BucketName: "backups", AccessKeyID: "id", SecretAccessKey: "secret"}
	creds := cfg.RemoteCredentials()
	require.NotNil(t, creds)
	assert.Equal(t, "backups", creds.Bucket)
	assert.True(t, creds.Complete())

	cfg.Remote.Backend = "mongo"
	cfg.Remote.Mongo = config.MongoConfig{Name: "db"}
	creds = cfg.RemoteCredentials()
	require.NotNil(t, creds)
	assert.False(t, creds.Complete(), "a URI is required")

	cfg.Remote.Backend = "ftp"
	assert.Nil(t, cfg.RemoteCredentials())
}

func TestSnapshotOptions(t *testing.T) {
	cfg, err := config.LoadConfig(t.TempDir())
	require.NoError(t, err)

	opts := cfg.SnapshotOptions(true)
	assert.Equal(t, "file", opts.Backend)
	assert.Equal(t, cfg.SnapshotDir(), opts.Dir)
	assert.True(t, opts.ReadOnly)
	assert.Equal(t, "workout-tracker:", opts.Redis.Prefix)
}
