package repository

import "context"

// CacheRepository is a best-effort key/value cache. A miss is (value, false),
// never an error; callers must treat the cache as optional.
type CacheRepository interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key string, value string) error
	Delete(ctx context.Context, key string) error
}
