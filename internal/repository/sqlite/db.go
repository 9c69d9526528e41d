package sqlite

import (
	"os"
	"path/filepath"
	"time"

	"alcyxob/workout-tracker/internal/domain"

	"github.com/glebarez/sqlite"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Pragmas applied to every connection. WAL lets the widget read while the main process writes.
const pragmas = "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"

// ConnectDB opens (creating if needed) the local store at path and migrates the schema.
func ConnectDB(path string, log logrus.FieldLogger) (*gorm.DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, errors.Wrap(err, "create store directory")
	}

	db, err := gorm.Open(sqlite.Open(path+pragmas), &gorm.Config{
		Logger: logger.New(log, logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, errors.Wrapf(err, "open store %s", path)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, errors.Wrap(err, "get sql handle")
	}
	// One writer connection; SQLite serialises writes anyway.
	sqlDB.SetMaxOpenConns(1)

	if err := Migrate(db); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	return db, nil
}

// Migrate creates or updates the workouts, exercises and preferences tables.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&domain.Workout{}, &domain.Exercise{}, &preference{}); err != nil {
		return errors.Wrap(err, "migrate schema")
	}
	return nil
}

// DisconnectDB closes the underlying connection pool.
func DisconnectDB(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
