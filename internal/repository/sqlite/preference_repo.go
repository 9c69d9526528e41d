package sqlite

import (
	"context"

	"alcyxob/workout-tracker/internal/repository"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// preference is one row of the flat settings table.
type preference struct {
	Key   string `gorm:"column:name;primaryKey"`
	Value string `gorm:"not null"`
}

func (preference) TableName() string { return "preferences" }

type sqlitePreferenceRepository struct {
	db *gorm.DB
}

// NewPreferenceRepository creates a settings repository stored next to the workouts.
func NewPreferenceRepository(db *gorm.DB) repository.PreferenceRepository {
	return &sqlitePreferenceRepository{db: db}
}

func (r *sqlitePreferenceRepository) Get(ctx context.Context, key string) (string, error) {
	var p preference
	if err := r.db.WithContext(ctx).First(&p, "name = ?", key).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", repository.ErrNotFound
		}
		return "", errors.Wrapf(err, "get preference %s", key)
	}
	return p.Value, nil
}

// Set upserts the value for key.
func (r *sqlitePreferenceRepository) Set(ctx context.Context, key, value string) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoUpdates: clause.AssignmentColumns([]string{"value"}),
		}).
		Create(&preference{Key: key, Value: value}).Error
	if err != nil {
		return errors.Wrapf(err, "set preference %s", key)
	}
	return nil
}

// Delete removes key; deleting a missing key is not an error.
func (r *sqlitePreferenceRepository) Delete(ctx context.Context, key string) error {
	if err := r.db.WithContext(ctx).Delete(&preference{}, "name = ?", key).Error; err != nil {
		return errors.Wrapf(err, "delete preference %s", key)
	}
	return nil
}

func (r *sqlitePreferenceRepository) All(ctx context.Context) (map[string]string, error) {
	var rows []preference
	if err := r.db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, errors.Wrap(err, "list preferences")
	}
	out := make(map[string]string, len(rows))
	for _, p := range rows {
		out[p.Key] = p.Value
	}
	return out, nil
}
