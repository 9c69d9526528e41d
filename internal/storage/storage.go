package storage

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Object key layout inside the bucket
const backupKeyPrefix = "backups/"

// Object metadata key carrying the uploading device's model
const deviceModelMetaKey = "device-model"

// ObjectClient is the subset of the S3 API the backup store needs.
// *s3.Client satisfies it; tests substitute an in-memory bucket.
type ObjectClient interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Options addresses an S3-compatible bucket.
type S3Options struct {
	Endpoint        string // Empty means AWS itself
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
}

// BackupKey is the object key holding the backup for identifier.
func BackupKey(identifier string) string {
	return backupKeyPrefix + identifier + ".json"
}
