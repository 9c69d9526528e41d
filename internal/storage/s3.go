package storage

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"

	"alcyxob/workout-tracker/internal/domain"
	"alcyxob/workout-tracker/internal/repository"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	awsCfg "github.com/aws/aws-sdk-go-v2/config" // Alias config to avoid clash
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// s3BackupRepository implements repository.BackupRepository on an S3-compatible bucket.
type s3BackupRepository struct {
	client     ObjectClient
	bucketName string
	log        logrus.FieldLogger
}

// NewS3Client builds a client for opts. Path-style addressing is forced so MinIO and
// similar services work with the same settings.
func NewS3Client(ctx context.Context, opts S3Options) (*s3.Client, error) {
	awsSDKConfig, err := awsCfg.LoadDefaultConfig(ctx,
		awsCfg.WithRegion(opts.Region),
		awsCfg.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(opts.AccessKeyID, opts.SecretAccessKey, "")),
	)
	if err != nil {
		return nil, errors.Wrap(err, "load aws config")
	}

	return s3.NewFromConfig(awsSDKConfig, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
		}
		o.UsePathStyle = true
	}), nil
}

// NewS3BackupRepository stores each backup as backups/<identifier>.json in bucket.
func NewS3BackupRepository(client ObjectClient, bucket string, log logrus.FieldLogger) repository.BackupRepository {
	return &s3BackupRepository{
		client:     client,
		bucketName: bucket,
		log:        log,
	}
}

// Put overwrites the object for record.Identifier. The bucket's LastModified is the timestamp.
func (s *s3BackupRepository) Put(ctx context.Context, record *domain.BackupRecord) error {
	if record.Identifier == "" {
		return errors.New("backup requires an identifier")
	}
	key := BackupKey(record.Identifier)

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucketName),
		Key:         aws.String(key),
		Body:        bytes.NewReader([]byte(record.WorkoutData)),
		ContentType: aws.String("application/json"),
		Metadata:    map[string]string{deviceModelMetaKey: record.DeviceModel},
	})
	if err != nil {
		return errors.Wrapf(err, "put object %s", key)
	}

	s.log.WithFields(logrus.Fields{"bucket": s.bucketName, "key": key}).Debug("backup object written")
	return nil
}

// Get reads the backup object for identifier.
func (s *s3BackupRepository) Get(ctx context.Context, identifier string) (*domain.BackupRecord, error) {
	key := BackupKey(identifier)
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucketName),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, repository.ErrNotFound
		}
		return nil, errors.Wrapf(err, "get object %s", key)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, errors.Wrapf(err, "read object %s", key)
	}

	record := &domain.BackupRecord{
		Identifier:  identifier,
		WorkoutData: string(data),
	}
	if out.LastModified != nil {
		record.Timestamp = out.LastModified.UTC()
	}
	for k, v := range out.Metadata {
		if strings.EqualFold(k, deviceModelMetaKey) {
			record.DeviceModel = v
		}
	}
	return record, nil
}

// isNotFound recognises a missing key, including S3-compatible servers that only answer 404.
func isNotFound(err error) bool {
	var noSuchKey *types.NoSuchKey
	if errors.As(err, &noSuchKey) {
		return true
	}
	var notFound *types.NotFound
	if errors.As(err, &notFound) {
		return true
	}
	var respErr *awshttp.ResponseError
	return errors.As(err, &respErr) && respErr.HTTPStatusCode() == http.StatusNotFound
}
