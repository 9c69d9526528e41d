package snapshot

import (
	"context"

	"github.com/pkg/errors"
)

// Backend names accepted by Open.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
)

// Options selects and addresses a KV backend.
type Options struct {
	Backend string // BackendFile (default) or BackendRedis
	Dir     string
	Redis   RedisOptions
	// ReadOnly opens an existing file directory instead of creating it.
	ReadOnly bool
}

// Open returns the configured KV and a function releasing it.
func Open(ctx context.Context, opts Options) (KV, func() error, error) {
	switch opts.Backend {
	case "", BackendFile:
		var (
			kv  *FileKV
			err error
		)
		if opts.ReadOnly {
			kv, err = OpenFileKV(opts.Dir)
		} else {
			kv, err = NewFileKV(opts.Dir)
		}
		if err != nil {
			return nil, nil, err
		}
		return kv, func() error { return nil }, nil
	case BackendRedis:
		kv, err := NewRedisKV(ctx, opts.Redis)
		if err != nil {
			return nil, nil, err
		}
		return kv, kv.Close, nil
	}
	return nil, nil, errors.Errorf("unknown snapshot backend %q", opts.Backend)
}
