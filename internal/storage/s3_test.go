package storage_test

import (
	"bytes"
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"alcyxob/workout-tracker/internal/domain"
	"alcyxob/workout-tracker/internal/log"
	"alcyxob/workout-tracker/internal/repository"
	"alcyxob/workout-tracker/internal/storage"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type object struct {
	body     []byte
	meta     map[string]string
	modified time.Time
}

// memoryBucket is an in-memory stand-in for an S3 bucket.
type memoryBucket struct {
	mu      sync.Mutex
	objects map[string]object
}

func newMemoryBucket() *memoryBucket {
	return &memoryBucket{objects: map[string]object{}}
}

func (b *memoryBucket) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	body, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.objects[aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key)] = object{body: body, meta: in.Metadata, modified: time.Now()}
	return &s3.PutObjectOutput{}, nil
}

func (b *memoryBucket) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	obj, ok := b.objects[aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key)]
	if !ok {
		return nil, &types.NoSuchKey{Message: aws.String("The specified key does not exist.")}
	}
	return &s3.GetObjectOutput{
		Body:         io.NopCloser(bytes.NewReader(obj.body)),
		Metadata:     obj.meta,
		LastModified: aws.Time(obj.modified),
	}, nil
}

func TestS3BackupRepository(t *testing.T) {
	ctx := context.Background()
	bucket := newMemoryBucket()
	repo := storage.NewS3BackupRepository(bucket, "backups-bucket", log.Discard())

	_, err := repo.Get(ctx, "alice")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	require.NoError(t, repo.Put(ctx, &domain.BackupRecord{Identifier: "alice", WorkoutData: "[1]", DeviceModel: "phone-a"}))
	require.NoError(t, repo.Put(ctx, &domain.BackupRecord{Identifier: "alice", WorkoutData: "[2]", DeviceModel: "phone-b"}))

	rec, err := repo.Get(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "alice", rec.Identifier)
	assert.Equal(t, "[2]", rec.WorkoutData)
	assert.Equal(t, "phone-b", rec.DeviceModel)
	assert.False(t, rec.Timestamp.IsZero())

	_, stored := bucket.objects["backups-bucket/"+storage.BackupKey("alice")]
	assert.True(t, stored)
	assert.Len(t, bucket.objects, 1)

	assert.Error(t, repo.Put(ctx, &domain.BackupRecord{WorkoutData: "[]"}))
}

func TestBackupKey(t *testing.T) {
	assert.Equal(t, "backups/alice.json", storage.BackupKey("alice"))
}
