package store

import (
	"context"

	"github.com/matzehuels/layerdefs/pkg/errors"
)

// Backend names accepted by [Open].
const (
	BackendNull  = "null"
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendMongo = "mongo"
)

// Config selects and configures a backend.
type Config struct {
	Backend string
	Dir     string
	Redis   RedisOptions
	Mongo   MongoOptions
	Retries int  // attempts per operation; <= 1 disables retries
	Dedupe  bool // skip unchanged writes
}

// Open builds the configured store, wrapped with retries and write
// deduplication as requested. An empty backend opens [Null].
func Open(ctx context.Context, cfg Config) (Store, error) {
	var (
		s   Store
		err error
	)
	switch cfg.Backend {
	case "", BackendNull:
		s = NewNull()
	case BackendFile:
		if cfg.Dir == "" {
			return nil, errors.New(errors.ErrCodeInvalidInput, "file store needs a directory")
		}
		s, err = NewFile(ctx, cfg.Dir)
	case BackendRedis:
		s, err = NewRedis(ctx, cfg.Redis)
	case BackendMongo:
		s, err = NewMongo(ctx, cfg.Mongo)
	default:
		return nil, errors.New(errors.ErrCodeUnsupported, "unknown store backend %q", cfg.Backend)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStoreUnavailable, err, "open %s store", cfg.Backend)
	}

	s = WithRetry(s, cfg.Retries)
	if cfg.Dedupe {
		s = Dedupe(s)
	}
	return s, nil
}
