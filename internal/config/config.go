package config

import (
	"path/filepath"
	"strings"
	"time"

	"alcyxob/workout-tracker/internal/domain"
	"alcyxob/workout-tracker/internal/snapshot"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for both processes.
// The values are read by Viper from a config file or environment variables.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Snapshot SnapshotConfig `mapstructure:"snapshot"`
	Remote   RemoteConfig   `mapstructure:"remote"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Widget   WidgetConfig   `mapstructure:"widget"`
	Device   DeviceConfig   `mapstructure:"device"`
	Log      LogConfig      `mapstructure:"log"`
}

type ServerConfig struct {
	Address string `mapstructure:"address"`
}

// StorageConfig points at the container shared by the main process and the widget.
type StorageConfig struct {
	SharedDir string `mapstructure:"shared_dir"`
	DBName    string `mapstructure:"db_name"`
}

// SnapshotConfig selects the shared key-value store used for widget publication.
type SnapshotConfig struct {
	Backend       string `mapstructure:"backend"` // "file" or "redis"
	Dir           string `mapstructure:"dir"`     // defaults to <shared_dir>/snapshot
	RedisAddr     string `mapstructure:"redis_addr"`
	RedisPassword string `mapstructure:"redis_password"`
	RedisDB       int    `mapstructure:"redis_db"`
	KeyPrefix     string `mapstructure:"key_prefix"`
}

type RemoteConfig struct {
	Backend string      `mapstructure:"backend"` // "mongo", "s3" or empty for "configure at runtime"
	Mongo   MongoConfig `mapstructure:"mongo"`
	S3      S3Config    `mapstructure:"s3"`
}

type MongoConfig struct {
	URI  string `mapstructure:"uri"`
	Name string `mapstructure:"name"`
}

type S3Config struct {
	Endpoint        string `mapstructure:"endpoint"`
	Region          string `mapstructure:"region"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	BucketName      string `mapstructure:"bucket_name"`
}

// AuthConfig configures the optional app lock.
type AuthConfig struct {
	Secret     string        `mapstructure:"secret"`
	Expiration time.Duration `mapstructure:"expiration"`
}

type WidgetConfig struct {
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	QuoteURL     string        `mapstructure:"quote_url"`
	QuoteTimeout time.Duration `mapstructure:"quote_timeout"`
	PollInterval time.Duration `mapstructure:"poll_interval"`
}

type DeviceConfig struct {
	Name string `mapstructure:"name"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

// LoadConfig reads configuration from path/config.yaml, a .env file and environment variables.
func LoadConfig(path string) (config Config, err error) {
	// A missing .env is normal outside development.
	_ = godotenv.Load()

	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	// storage.shared_dir -> STORAGE_SHARED_DIR
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(`.`, `_`))

	v.SetDefault("server.address", "127.0.0.1:8080")
	v.SetDefault("storage.shared_dir", "./shared")
	v.SetDefault("storage.db_name", "workouts.db")
	v.SetDefault("snapshot.backend", "file")
	v.SetDefault("snapshot.dir", "")
	v.SetDefault("snapshot.redis_addr", "localhost:6379")
	v.SetDefault("snapshot.redis_password", "")
	v.SetDefault("snapshot.redis_db", 0)
	v.SetDefault("snapshot.key_prefix", "workout-tracker:")
	v.SetDefault("remote.backend", "")
	v.SetDefault("remote.mongo.uri", "")
	v.SetDefault("remote.mongo.name", "workout_tracker")
	v.SetDefault("remote.s3.endpoint", "")
	v.SetDefault("remote.s3.region", "")
	v.SetDefault("remote.s3.access_key_id", "")
	v.SetDefault("remote.s3.secret_access_key", "")
	v.SetDefault("remote.s3.bucket_name", "")
	v.SetDefault("auth.secret", "")
	v.SetDefault("auth.expiration", "12h")
	v.SetDefault("widget.read_timeout", "5s")
	v.SetDefault("widget.quote_url", "https://api.realinspire.live/v1/quotes/random?maxLength=120")
	v.SetDefault("widget.quote_timeout", "10s")
	v.SetDefault("widget.poll_interval", "1m")
	v.SetDefault("device.name", "")
	v.SetDefault("log.level", "info")

	err = v.ReadInConfig()
	if _, ok := err.(viper.ConfigFileNotFoundError); ok {
		// Defaults and env vars are enough to run.
		err = nil
	} else if err != nil {
		return
	}

	if err = v.Unmarshal(&config); err != nil {
		return
	}
	return config, nil
}

// DatabasePath is the location of the shared SQLite store.
func (c Config) DatabasePath() string {
	return filepath.Join(c.Storage.SharedDir, c.Storage.DBName)
}

// SnapshotDir is where the file snapshot backend keeps its keys.
func (c Config) SnapshotDir() string {
	if c.Snapshot.Dir != "" {
		return c.Snapshot.Dir
	}
	return filepath.Join(c.Storage.SharedDir, "snapshot")
}

// RemoteCredentials turns the remote section into backend credentials. It returns nil when
// no backend is selected, leaving configuration to runtime.
func (c Config) RemoteCredentials() *domain.RemoteCredentials {
	switch domain.RemoteBackend(c.Remote.Backend) {
	case domain.BackendMongo:
		return &domain.RemoteCredentials{
			Backend:  domain.BackendMongo,
			URI:      c.Remote.Mongo.URI,
			Database: c.Remote.Mongo.Name,
		}
	case domain.BackendS3:
		return &domain.RemoteCredentials{
			Backend:         domain.BackendS3,
			Endpoint:        c.Remote.S3.Endpoint,
			Region:          c.Remote.S3.Region,
			Bucket:          c.Remote.S3.BucketName,
			AccessKeyID:     c.Remote.S3.AccessKeyID,
			SecretAccessKey: c.Remote.S3.SecretAccessKey,
		}
	}
	return nil
}

// SnapshotOptions addresses the widget publication store. The widget opens it read-only so a
// missing shared container is reported instead of created.
func (c Config) SnapshotOptions(readOnly bool) snapshot.Options {
	return snapshot.Options{
		Backend: c.Snapshot.Backend,
		Dir:     c.SnapshotDir(),
		Redis: snapshot.RedisOptions{
			Addr:     c.Snapshot.RedisAddr,
			Password: c.Snapshot.RedisPassword,
			DB:       c.Snapshot.RedisDB,
			Prefix:   c.Snapshot.KeyPrefix,
		},
		ReadOnly: readOnly,
	}
}
