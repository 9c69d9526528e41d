package main

import (
	"context"
	"time"

	"alcyxob/workout-tracker/internal/domain"
	"alcyxob/workout-tracker/internal/repository"
	"alcyxob/workout-tracker/internal/repository/mongo"
	"alcyxob/workout-tracker/internal/service"
	"alcyxob/workout-tracker/internal/storage"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// newBackupBackend connects the remote backup store described by the credentials.
func newBackupBackend(log logrus.FieldLogger) service.BackendFactory {
	return func(ctx context.Context, creds domain.RemoteCredentials) (repository.BackupRepository, func() error, error) {
		switch creds.Backend {
		case domain.BackendMongo:
			client, err := mongo.ConnectDB(ctx, creds.URI)
			if err != nil {
				return nil, nil, err
			}
			db := client.Database(creds.Database)

			go func() { // Index creation must not hold up configuration
				ictx, cancel := context.WithTimeout(context.Background(), time.Minute)
				defer cancel()
				if err := mongo.EnsureBackupIndexes(ictx, db); err != nil {
					log.WithError(err).Warn("Failed to ensure backup indexes")
				}
			}()

			return mongo.NewMongoBackupRepository(db), func() error { return mongo.DisconnectDB(client) }, nil

		case domain.BackendS3:
			client, err := storage.NewS3Client(ctx, storage.S3Options{
				Endpoint:        creds.Endpoint,
				Region:          creds.Region,
				Bucket:          creds.Bucket,
				AccessKeyID:     creds.AccessKeyID,
				SecretAccessKey: creds.SecretAccessKey,
			})
			if err != nil {
				return nil, nil, err
			}
			return storage.NewS3BackupRepository(client, creds.Bucket, log), func() error { return nil }, nil
		}
		return nil, nil, errors.Errorf("unknown remote backend %q", creds.Backend)
	}
}
