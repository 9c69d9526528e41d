package mongo

import (
	"context"

	"alcyxob/workout-tracker/internal/domain"
	"alcyxob/workout-tracker/internal/repository"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const backupCollectionName = "backups"

// mongoBackupRepository implements repository.BackupRepository
type mongoBackupRepository struct {
	collection *mongo.Collection
}

// NewMongoBackupRepository creates a backup repository backed by MongoDB.
// Each identifier maps to exactly one document whose _id is the identifier.
func NewMongoBackupRepository(db *mongo.Database) repository.BackupRepository {
	return &mongoBackupRepository{
		collection: db.Collection(backupCollectionName),
	}
}

// Put overwrites the backup stored under record.Identifier. The timestamp comes from the
// server clock; there is no merge and no versioning.
func (r *mongoBackupRepository) Put(ctx context.Context, record *domain.BackupRecord) error {
	if record.Identifier == "" {
		return errors.New("backup requires an identifier")
	}

	filter := bson.M{"_id": record.Identifier}
	update := bson.M{
		"$set": bson.M{
			"workoutData": record.WorkoutData,
			"deviceModel": record.DeviceModel,
		},
		"$currentDate": bson.M{"timestamp": true},
	}
	if _, err := r.collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true)); err != nil {
		return errors.Wrapf(err, "upsert backup %q", record.Identifier)
	}
	return nil
}

// Get retrieves the backup stored under identifier.
func (r *mongoBackupRepository) Get(ctx context.Context, identifier string) (*domain.BackupRecord, error) {
	var record domain.BackupRecord
	err := r.collection.FindOne(ctx, bson.M{"_id": identifier}).Decode(&record)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, errors.Wrapf(err, "find backup %q", identifier)
	}
	return &record, nil
}

// EnsureBackupIndexes creates the secondary indexes of the backups collection.
func EnsureBackupIndexes(ctx context.Context, db *mongo.Database) error {
	indexes := []mongo.IndexModel{
		{
			// Lets operators find stale backups
			Keys:    bson.D{{Key: "timestamp", Value: -1}},
			Options: options.Index(),
		},
	}
	_, err := db.Collection(backupCollectionName).Indexes().CreateMany(ctx, indexes)
	return errors.Wrap(err, "create backup indexes")
}
